// SPDX-FileCopyrightText: Copyright (c) 2026 NVIDIA CORPORATION & AFFILIATES. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"net/http"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/nvidia/appwrite-cli/cmd/appwrite/pkg/upload"
)

const filesPath = "/storage/buckets/{bucketId}/files"

func newStorageCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "storage",
		Short: "Manage storage buckets and files",
	}

	listBuckets := apiCmd(o, "list-buckets", "List storage buckets", http.MethodGet, "/storage/buckets")
	listFlags(listBuckets)

	getBucket := apiCmd(o, "get-bucket", "Get a storage bucket", http.MethodGet, "/storage/buckets/{bucketId}")
	pathFlag(getBucket, "bucket-id", "bucketId", "Storage bucket ID")

	createBucket := apiCmd(o, "create-bucket", "Create a storage bucket", http.MethodPost, "/storage/buckets")
	idField(createBucket, "bucket-id", "bucketId", "Storage bucket ID")
	bucketFields(createBucket)

	updateBucket := apiCmd(o, "update-bucket", "Update a storage bucket", http.MethodPut, "/storage/buckets/{bucketId}")
	pathFlag(updateBucket, "bucket-id", "bucketId", "Storage bucket ID")
	bucketFields(updateBucket)

	deleteBucket := apiCmd(o, "delete-bucket", "Delete a storage bucket", http.MethodDelete, "/storage/buckets/{bucketId}")
	pathFlag(deleteBucket, "bucket-id", "bucketId", "Storage bucket ID")

	listFiles := apiCmd(o, "list-files", "List the files of a bucket", http.MethodGet, filesPath)
	pathFlag(listFiles, "bucket-id", "bucketId", "Storage bucket ID")
	listFlags(listFiles)

	getFile := apiCmd(o, "get-file", "Get file metadata", http.MethodGet, filesPath+"/{fileId}")
	pathFlag(getFile, "bucket-id", "bucketId", "Storage bucket ID")
	pathFlag(getFile, "file-id", "fileId", "File ID")

	updateFile := apiCmd(o, "update-file", "Update the name or permissions of a file", http.MethodPut, filesPath+"/{fileId}")
	pathFlag(updateFile, "bucket-id", "bucketId", "Storage bucket ID")
	pathFlag(updateFile, "file-id", "fileId", "File ID")
	stringField(updateFile, "name", "name", "File name")
	arrayField(updateFile, "permissions", "permissions", "Permission string, repeatable")

	deleteFile := apiCmd(o, "delete-file", "Delete a file", http.MethodDelete, filesPath+"/{fileId}")
	pathFlag(deleteFile, "bucket-id", "bucketId", "Storage bucket ID")
	pathFlag(deleteFile, "file-id", "fileId", "File ID")

	getFileDownload := downloadCmd(o, "get-file-download", "Download a file", filesPath+"/{fileId}/download")
	pathFlag(getFileDownload, "bucket-id", "bucketId", "Storage bucket ID")
	pathFlag(getFileDownload, "file-id", "fileId", "File ID")
	stringField(getFileDownload, "token", "token", "File token for accessing the file")

	getFileView := downloadCmd(o, "get-file-view", "Fetch a file as displayed in a browser", filesPath+"/{fileId}/view")
	pathFlag(getFileView, "bucket-id", "bucketId", "Storage bucket ID")
	pathFlag(getFileView, "file-id", "fileId", "File ID")
	stringField(getFileView, "token", "token", "File token for accessing the file")

	cmd.AddCommand(listBuckets, getBucket, createBucket, updateBucket, deleteBucket,
		listFiles, getFile, newStorageCreateFileCmd(o), updateFile, deleteFile,
		getFileDownload, getFileView)
	return cmd
}

func bucketFields(cmd *cobra.Command) {
	required(cmd, stringField(cmd, "name", "name", "Bucket name"))
	arrayField(cmd, "permissions", "permissions", "Permission string, repeatable")
	boolField(cmd, "file-security", "fileSecurity", "Enable file level permissions")
	boolField(cmd, "enabled", "enabled", "Enable the bucket")
	intField(cmd, "maximum-file-size", "maximumFileSize", "Maximum file size in bytes")
	arrayField(cmd, "allowed-file-extensions", "allowedFileExtensions", "Allowed file extension, repeatable")
	stringField(cmd, "compression", "compression", "Compression algorithm: none, gzip or zstd")
	boolField(cmd, "encryption", "encryption", "Encrypt files at rest")
	boolField(cmd, "antivirus", "antivirus", "Scan files for viruses")
}

func newStorageCreateFileCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-file",
		Short: "Upload a file to a bucket",
		Long: `Upload a file to a bucket.

Files larger than 5 MiB are sent in chunks. Running the command again with the
same --file-id after an interrupted upload continues from the last chunk the
server received.`,
		Args: cobra.NoArgs,
	}
	pathFlag(cmd, "bucket-id", "bucketId", "Storage bucket ID")
	idField(cmd, "file-id", "fileId", "File ID")
	cmd.Flags().String("file", "", "Path of the file to upload")
	required(cmd, "file")
	arrayField(cmd, "permissions", "permissions", "Permission string, repeatable")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		path, params, err := buildRequest(cmd, filesPath)
		if err != nil {
			return err
		}
		client, err := o.client(cmd)
		if err != nil {
			return err
		}
		filePath, _ := cmd.Flags().GetString("file")

		resp, err := o.upload(cmd, client, upload.Request{
			Path:       path,
			FilePath:   filePath,
			Field:      "file",
			Params:     params,
			ResourceID: cast.ToString(params["fileId"]),
		})
		if err != nil {
			return err
		}
		return o.print(cmd, resp)
	}
	return cmd
}
