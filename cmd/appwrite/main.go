// SPDX-FileCopyrightText: Copyright (c) 2026 NVIDIA CORPORATION & AFFILIATES. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// appwrite is a command line client for the Appwrite REST API.
//
// Every API operation is exposed as "appwrite <service> <operation>" with one
// flag per request field. Storage files and site deployments are uploaded in
// 5 MiB chunks and resume where a previous attempt stopped.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/nvidia/appwrite-cli/cmd/appwrite/cmd"
	appwritecli "github.com/nvidia/appwrite-cli/cmd/appwrite/pkg"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.NewRootCmd().ExecuteContext(ctx); err != nil {
		appwritecli.Error(os.Stderr, "%v", err)
		stop()
		os.Exit(1)
	}
}
