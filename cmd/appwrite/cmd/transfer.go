// SPDX-FileCopyrightText: Copyright (c) 2026 NVIDIA CORPORATION & AFFILIATES. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	appwritecli "github.com/nvidia/appwrite-cli/cmd/appwrite/pkg"
	"github.com/nvidia/appwrite-cli/cmd/appwrite/pkg/upload"
)

// upload sends r through the chunked upload routine using c's chunk size.
// A progress bar is drawn when stderr is a terminal.
func (o *rootOptions) upload(cmd *cobra.Command, c *appwritecli.Client, r upload.Request) (appwritecli.Response, error) {
	r.ChunkSize = c.ChunkSize
	r.Log = o.log

	stderr := cmd.ErrOrStderr()
	if info, err := os.Stat(r.FilePath); err == nil && !o.v.GetBool(configJSON) && appwritecli.IsTerminal(stderr) {
		bar := upload.NewProgressBar(stderr, info.Size(), "Uploading "+filepath.Base(r.FilePath))
		defer bar.Finish()
		r.OnProgress = bar.Report
	}
	return upload.Upload(cmd.Context(), c, r)
}

// downloadCmd builds a command that saves a binary response to --destination.
func downloadCmd(o *rootOptions, use, short, path string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
	}
	cmd.Flags().String("destination", "", "File the content is written to")
	required(cmd, "destination")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		resolved, params, err := buildRequest(cmd, path)
		if err != nil {
			return err
		}
		client, err := o.client(cmd)
		if err != nil {
			return err
		}
		data, err := client.Download(cmd.Context(), resolved, params)
		if err != nil {
			return err
		}
		dest, _ := cmd.Flags().GetString("destination")
		if err := os.WriteFile(dest, data, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", dest, err)
		}
		appwritecli.Success(cmd.ErrOrStderr(), "saved %d bytes to %s", len(data), dest)
		return nil
	}
	return cmd
}
