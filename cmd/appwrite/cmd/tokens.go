// SPDX-FileCopyrightText: Copyright (c) 2026 NVIDIA CORPORATION & AFFILIATES. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"net/http"

	"github.com/spf13/cobra"
)

func newTokensCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokens",
		Short: "Manage file access tokens",
	}

	list := apiCmd(o, "list", "List the tokens of a file", http.MethodGet, "/tokens/buckets/{bucketId}/files/{fileId}")
	pathFlag(list, "bucket-id", "bucketId", "Storage bucket ID")
	pathFlag(list, "file-id", "fileId", "File ID")
	arrayField(list, "queries", "queries", "Query string, repeatable")

	createFileToken := apiCmd(o, "create-file-token", "Create a token granting access to a file", http.MethodPost, "/tokens/buckets/{bucketId}/files/{fileId}")
	pathFlag(createFileToken, "bucket-id", "bucketId", "Storage bucket ID")
	pathFlag(createFileToken, "file-id", "fileId", "File ID")
	stringField(createFileToken, "expire", "expire", "Expiration time in ISO 8601 format")

	get := apiCmd(o, "get", "Get a token", http.MethodGet, "/tokens/{tokenId}")
	pathFlag(get, "token-id", "tokenId", "Token ID")

	update := apiCmd(o, "update", "Update the expiry of a token", http.MethodPatch, "/tokens/{tokenId}")
	pathFlag(update, "token-id", "tokenId", "Token ID")
	stringField(update, "expire", "expire", "Expiration time in ISO 8601 format")

	del := apiCmd(o, "delete", "Delete a token", http.MethodDelete, "/tokens/{tokenId}")
	pathFlag(del, "token-id", "tokenId", "Token ID")

	cmd.AddCommand(list, createFileToken, get, update, del)
	return cmd
}
