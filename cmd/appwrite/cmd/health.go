// SPDX-FileCopyrightText: Copyright (c) 2026 NVIDIA CORPORATION & AFFILIATES. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"net/http"

	"github.com/spf13/cobra"
)

func newHealthCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check the health of the Appwrite instance",
	}

	get := apiCmd(o, "get", "Check the health of the HTTP server", http.MethodGet, "/health")
	getVersion := apiCmd(o, "get-version", "Get the server version", http.MethodGet, "/health/version")

	cmd.AddCommand(get, getVersion)
	return cmd
}
