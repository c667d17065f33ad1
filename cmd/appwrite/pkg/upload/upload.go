// SPDX-FileCopyrightText: Copyright (c) 2026 NVIDIA CORPORATION & AFFILIATES. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package upload sends local files to endpoints that accept chunked,
// resumable uploads (storage files, site deployments).
//
// A file larger than the chunk size is sent as consecutive POST requests, each
// carrying a content-range header and, after the first response, the
// x-appwrite-id header naming the resource being assembled. When an upload is
// started for an existing resource ID, the chunks the server already holds are
// skipped.
package upload

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	appwritecli "github.com/nvidia/appwrite-cli/cmd/appwrite/pkg"
)

// ErrEmptyFile is returned for zero-byte sources; the API rejects empty uploads.
var ErrEmptyFile = errors.New("file is empty")

// Progress is reported after every uploaded chunk.
type Progress struct {
	ID             string  `json:"$id"`
	Progress       float64 `json:"progress"`
	SizeUploaded   int64   `json:"sizeUploaded"`
	ChunksTotal    int     `json:"chunksTotal"`
	ChunksUploaded int     `json:"chunksUploaded"`
}

// Request describes one upload.
type Request struct {
	// Path is the API path chunks are POSTed to, e.g. /storage/buckets/b1/files.
	Path string
	// FilePath is the local file to send.
	FilePath string
	// Filename overrides the name sent with each chunk. Defaults to the base
	// name of FilePath.
	Filename string
	// Field is the multipart field carrying the file bytes.
	Field string
	// Params are sent as additional multipart fields with every chunk.
	Params appwritecli.Params
	// ResourceID is the ID of the resource being uploaded. When set and not
	// unique(), the server is asked how many chunks it already has.
	ResourceID string
	// ChunkSize is the size of every chunk but the last.
	ChunkSize int64
	// OnProgress, when set, is called after every chunk.
	OnProgress func(Progress)
	Log        *logrus.Entry
}

type chunkState struct {
	ID             string `mapstructure:"$id"`
	ChunksTotal    int    `mapstructure:"chunksTotal"`
	ChunksUploaded int    `mapstructure:"chunksUploaded"`
}

// session tracks the state of one upload between chunks.
type session struct {
	caller    appwritecli.Caller
	req       Request
	filename  string
	size      int64
	chunkSize int64
	id        string
	chunk     int64 // 1-based index of the next chunk to send
	log       *logrus.Entry
}

// Upload sends the file described by r and returns the response to the last
// chunk. Chunks are sent one at a time; a failed chunk aborts the upload.
func Upload(ctx context.Context, c appwritecli.Caller, r Request) (appwritecli.Response, error) {
	f, err := os.Open(r.FilePath)
	if err != nil {
		return nil, errors.Wrap(err, "opening upload source")
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.Wrap(err, "reading upload source")
	}
	if info.Size() == 0 {
		return nil, ErrEmptyFile
	}

	s := &session{
		caller:    c,
		req:       r,
		filename:  r.Filename,
		size:      info.Size(),
		chunkSize: r.ChunkSize,
		chunk:     1,
		log:       r.Log,
	}
	if s.filename == "" {
		s.filename = filepath.Base(r.FilePath)
	}
	if s.chunkSize <= 0 {
		s.chunkSize = appwritecli.ChunkSize
	}
	if s.log == nil {
		s.log = logrus.NewEntry(logrus.StandardLogger())
	}

	response, uploaded := s.resume(ctx)
	if uploaded > 0 {
		offset := uploaded * s.chunkSize
		if offset >= s.size {
			s.log.Debugf("upload %s already complete (%d chunks)", s.id, uploaded)
			return response, nil
		}
		if _, err := f.Seek(offset, io.SeekStart); err != nil {
			return nil, errors.Wrap(err, "seeking past uploaded chunks")
		}
		s.chunk = uploaded + 1
		s.log.Debugf("resuming upload %s at chunk %d", s.id, s.chunk)
	}

	buf := make([]byte, s.chunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := io.ReadFull(f, buf)
		if err == io.EOF {
			break
		}
		if err != nil && err != io.ErrUnexpectedEOF {
			return nil, errors.Wrapf(err, "reading chunk %d", s.chunk)
		}

		response, err = s.send(ctx, buf[:n])
		if err != nil {
			return nil, err
		}
		if int64(n) < s.chunkSize {
			break
		}
	}
	return response, nil
}

// resume asks the server for the state of an existing upload. Any error means
// the resource does not exist yet and the upload starts from the first chunk.
func (s *session) resume(ctx context.Context) (appwritecli.Response, int64) {
	if s.req.ResourceID == "" || s.req.ResourceID == appwritecli.UniqueID {
		return nil, 0
	}
	path := s.req.Path + "/" + url.PathEscape(s.req.ResourceID)
	resp, err := s.caller.Call(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		s.log.Debugf("no previous upload for %s: %v", s.req.ResourceID, err)
		return nil, 0
	}

	var state chunkState
	if err := mapstructure.Decode(map[string]any(resp), &state); err != nil {
		s.log.Debugf("ignoring unreadable upload state for %s: %v", s.req.ResourceID, err)
		return nil, 0
	}
	s.id = s.req.ResourceID
	return resp, int64(state.ChunksUploaded)
}

func (s *session) send(ctx context.Context, data []byte) (appwritecli.Response, error) {
	start := (s.chunk - 1) * s.chunkSize
	end := start + int64(len(data)) - 1

	headers := map[string]string{
		"content-type": appwritecli.ContentTypeMultipart,
	}
	if s.size > s.chunkSize {
		headers["content-range"] = fmt.Sprintf("bytes %d-%d/%d", start, end, s.size)
	}
	if s.id != "" {
		headers["x-appwrite-id"] = s.id
	}

	params := make(appwritecli.Params, len(s.req.Params)+1)
	for k, v := range s.req.Params {
		params[k] = v
	}
	params[s.req.Field] = &appwritecli.InputFile{Filename: s.filename, Content: data}

	s.log.Debugf("uploading chunk %d (bytes %d-%d/%d)", s.chunk, start, end, s.size)
	resp, err := s.caller.Call(ctx, http.MethodPost, s.req.Path, headers, params)
	if err != nil {
		return nil, errors.Wrapf(err, "uploading chunk %d", s.chunk)
	}

	var state chunkState
	if err := mapstructure.Decode(map[string]any(resp), &state); err != nil {
		return nil, errors.Wrapf(err, "decoding response to chunk %d", s.chunk)
	}
	if s.id == "" {
		s.id = state.ID
	}

	if s.req.OnProgress != nil {
		sent := math.Min(float64(s.chunk*s.chunkSize), float64(s.size))
		s.req.OnProgress(Progress{
			ID:             state.ID,
			Progress:       sent / float64(s.size) * 100,
			SizeUploaded:   end + 1,
			ChunksTotal:    state.ChunksTotal,
			ChunksUploaded: state.ChunksUploaded,
		})
	}

	s.chunk++
	return resp, nil
}
