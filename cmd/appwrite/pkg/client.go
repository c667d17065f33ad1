// SPDX-FileCopyrightText: Copyright (c) 2026 NVIDIA CORPORATION & AFFILIATES. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package appwritecli

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
)

// ChunkSize is the largest body the API accepts for a single upload request.
const ChunkSize int64 = 5 * 1024 * 1024

const (
	sdkName        = "Command Line"
	sdkPlatform    = "console"
	sdkLanguage    = "cli"
	responseFormat = "1.7.0"
)

// Version is the CLI version reported in the SDK headers. Overridden at build time.
var Version = "dev"

// ContentTypeMultipart selects multipart/form-data encoding for Call.
const ContentTypeMultipart = "multipart/form-data"

// Params is a request payload keyed by API field name.
type Params map[string]any

// Response is a decoded JSON response object.
type Response map[string]any

// InputFile is a file part of a multipart request.
type InputFile struct {
	Filename string
	Content  []byte
}

// Client is a lightweight HTTP client for the Appwrite REST API.
type Client struct {
	Endpoint  string
	Project   string
	Key       string
	Cookie    string // updated from set-cookie responses
	Mode      string // x-appwrite-mode, "admin" for console requests
	ChunkSize int64
	Log       *logrus.Entry

	http *resty.Client
}

// APIError represents a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Code       int
	Type       string
	Message    string
	Response   string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		if e.Type != "" {
			return fmt.Sprintf("API error %d (%s): %s", e.StatusCode, e.Type, e.Message)
		}
		return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Response)
}

// NewClient creates a new API client for endpoint, e.g. https://cloud.appwrite.io/v1.
func NewClient(endpoint string, selfSigned bool, log *logrus.Entry) *Client {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	// The session cookie is managed explicitly so it can be stored in prefs.
	r := resty.New().
		SetCookieJar(nil).
		SetHeaders(map[string]string{
			"x-sdk-name":                 sdkName,
			"x-sdk-platform":             sdkPlatform,
			"x-sdk-language":             sdkLanguage,
			"x-sdk-version":              Version,
			"x-appwrite-response-format": responseFormat,
			"User-Agent":                 "AppwriteCLI/" + Version,
		})
	if selfSigned {
		r.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true}) //nolint:gosec
	}
	return &Client{
		Endpoint:  strings.TrimRight(endpoint, "/"),
		ChunkSize: ChunkSize,
		Log:       log,
		http:      r,
	}
}

// Call executes method against path and decodes the JSON response.
//
// GET requests carry params as a query string. A content-type header of
// multipart/form-data sends params as a multipart form, with *InputFile values
// as file parts. Any other request, DELETE included, sends params as a JSON
// body.
func (c *Client) Call(ctx context.Context, method, path string, headers map[string]string, params Params) (Response, error) {
	req, err := c.newRequest(ctx, method, headers, params)
	if err != nil {
		return nil, err
	}

	reqURL := c.Endpoint + path
	c.Log.Debugf("%s %s", method, reqURL)
	if method != http.MethodGet {
		c.Log.Debugf("Body: %s", describeBody(headers, params))
	}

	resp, err := req.Execute(method, reqURL)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	body := resp.Body()
	c.Log.Debugf("Response %d: %s", resp.StatusCode(), truncate(body, 2048))

	c.captureCookie(resp.Header())

	if resp.StatusCode() >= 400 {
		return nil, newAPIError(resp.StatusCode(), body)
	}

	result := Response{}
	if len(bytes.TrimSpace(body)) == 0 {
		return result, nil
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return result, nil
}

// Download issues a GET request and returns the raw response body.
func (c *Client) Download(ctx context.Context, path string, params Params) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, nil, params)
	if err != nil {
		return nil, err
	}

	reqURL := c.Endpoint + path
	c.Log.Debugf("GET %s", reqURL)

	resp, err := req.Execute(http.MethodGet, reqURL)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	c.Log.Debugf("Response %d: %d bytes", resp.StatusCode(), len(resp.Body()))
	if resp.StatusCode() >= 400 {
		return nil, newAPIError(resp.StatusCode(), resp.Body())
	}
	return resp.Body(), nil
}

func (c *Client) newRequest(ctx context.Context, method string, headers map[string]string, params Params) (*resty.Request, error) {
	req := c.http.R().SetContext(ctx)
	if c.Project != "" {
		req.SetHeader("x-appwrite-project", c.Project)
	}
	if c.Key != "" {
		req.SetHeader("x-appwrite-key", c.Key)
	}
	if c.Cookie != "" {
		req.SetHeader("cookie", c.Cookie)
	}
	if c.Mode != "" {
		req.SetHeader("x-appwrite-mode", c.Mode)
	}

	contentType := "application/json"
	for k, v := range headers {
		// resty owns the content-type so it can add the multipart boundary.
		if strings.EqualFold(k, "content-type") {
			contentType = strings.ToLower(v)
			continue
		}
		req.SetHeader(k, v)
	}

	switch {
	case method == http.MethodGet:
		values, err := flatten(params)
		if err != nil {
			return nil, err
		}
		req.SetQueryParamsFromValues(values)
	case strings.HasPrefix(contentType, ContentTypeMultipart):
		form := Params{}
		for k, v := range params {
			file, ok := v.(*InputFile)
			if !ok {
				form[k] = v
				continue
			}
			req.SetFileReader(k, file.Filename, bytes.NewReader(file.Content))
		}
		values, err := flatten(form)
		if err != nil {
			return nil, err
		}
		req.SetMultipartFields()
		req.SetFormDataFromValues(values)
	default:
		if params == nil {
			params = Params{}
		}
		req.SetHeader("Content-Type", "application/json")
		req.SetBody(map[string]any(params))
	}
	return req, nil
}

// describeBody renders a request body for debug logs. Multipart bodies list
// their field names and file parts by name and size only.
func describeBody(headers map[string]string, params Params) string {
	multipart := false
	for k, v := range headers {
		if strings.EqualFold(k, "content-type") && strings.HasPrefix(strings.ToLower(v), ContentTypeMultipart) {
			multipart = true
		}
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if multipart {
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			if f, ok := params[k].(*InputFile); ok {
				parts = append(parts, fmt.Sprintf("%s=@%s (%d bytes)", k, f.Filename, len(f.Content)))
				continue
			}
			parts = append(parts, k)
		}
		return "multipart [" + strings.Join(parts, ", ") + "]"
	}

	masked := make(map[string]any, len(params))
	for _, k := range keys {
		if k == "password" {
			masked[k] = "***"
			continue
		}
		masked[k] = params[k]
	}
	data, err := json.Marshal(masked)
	if err != nil {
		return fmt.Sprintf("<unencodable: %v>", err)
	}
	return truncate(data, 2048)
}

func (c *Client) captureCookie(h http.Header) {
	setCookies := h.Values("Set-Cookie")
	if len(setCookies) == 0 {
		return
	}
	pairs := make([]string, 0, len(setCookies))
	for _, sc := range setCookies {
		pair, _, _ := strings.Cut(sc, ";")
		if pair = strings.TrimSpace(pair); pair != "" {
			pairs = append(pairs, pair)
		}
	}
	if len(pairs) > 0 {
		c.Cookie = strings.Join(pairs, "; ")
	}
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: status,
		Code:       status,
		Response:   string(body),
	}
	var errResp struct {
		Message string `json:"message"`
		Code    any    `json:"code"`
		Type    string `json:"type"`
	}
	if json.Unmarshal(body, &errResp) == nil {
		apiErr.Message = errResp.Message
		apiErr.Type = errResp.Type
		if code := cast.ToInt(errResp.Code); code != 0 {
			apiErr.Code = code
		}
	}
	return apiErr
}

// flatten encodes params the way the API expects them in query strings and
// form bodies: slices as repeated key[] entries and objects as JSON.
func flatten(params Params) (url.Values, error) {
	values := url.Values{}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		switch v := params[k].(type) {
		case nil:
		case []string:
			for _, item := range v {
				values.Add(k+"[]", item)
			}
		case []any:
			for _, item := range v {
				s, err := scalar(item)
				if err != nil {
					return nil, fmt.Errorf("encoding %s: %w", k, err)
				}
				values.Add(k+"[]", s)
			}
		default:
			s, err := scalar(v)
			if err != nil {
				return nil, fmt.Errorf("encoding %s: %w", k, err)
			}
			values.Set(k, s)
		}
	}
	return values, nil
}

func scalar(v any) (string, error) {
	switch v.(type) {
	case map[string]any, []map[string]any:
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	return cast.ToStringE(v)
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
