// SPDX-FileCopyrightText: Copyright (c) 2026 NVIDIA CORPORATION & AFFILIATES. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package appwritecli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/avast/retry-go/v4"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/mitchellh/mapstructure"
)

// Deployment build states reported by the API.
const (
	DeploymentStatusReady    = "ready"
	DeploymentStatusFailed   = "failed"
	DeploymentStatusCanceled = "canceled"
)

var pendingDeploymentStatuses = mapset.NewSet("waiting", "processing", "building")

var errDeploymentPending = errors.New("deployment build still in progress")

// Caller is the part of Client used by helpers that only issue API calls.
type Caller interface {
	Call(ctx context.Context, method, path string, headers map[string]string, params Params) (Response, error)
}

// WaitOptions controls how long WaitForDeployment polls.
type WaitOptions struct {
	Interval time.Duration
	Attempts uint
	// OnStatus is called with every status seen while polling.
	OnStatus func(status string)
}

type deploymentState struct {
	ID     string `mapstructure:"$id"`
	Status string `mapstructure:"status"`
}

// WaitForDeployment polls a site deployment until its build is ready. A build
// that ends failed or canceled, or reports a status outside the known set, is
// returned as an error.
func WaitForDeployment(ctx context.Context, c Caller, siteID, deploymentID string, opts WaitOptions) (Response, error) {
	if opts.Interval <= 0 {
		opts.Interval = 2 * time.Second
	}
	if opts.Attempts == 0 {
		opts.Attempts = 300
	}
	path := fmt.Sprintf("/sites/%s/deployments/%s", url.PathEscape(siteID), url.PathEscape(deploymentID))

	var last Response
	err := retry.Do(
		func() error {
			resp, err := c.Call(ctx, http.MethodGet, path, nil, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			last = resp

			var state deploymentState
			if err := mapstructure.Decode(map[string]any(resp), &state); err != nil {
				return retry.Unrecoverable(fmt.Errorf("decoding deployment: %w", err))
			}
			if opts.OnStatus != nil {
				opts.OnStatus(state.Status)
			}

			switch {
			case state.Status == DeploymentStatusReady:
				return nil
			case pendingDeploymentStatuses.Contains(state.Status):
				return errDeploymentPending
			case state.Status == DeploymentStatusFailed, state.Status == DeploymentStatusCanceled:
				return retry.Unrecoverable(fmt.Errorf("deployment %s finished with status %q", deploymentID, state.Status))
			default:
				return retry.Unrecoverable(fmt.Errorf("deployment %s reported unknown status %q", deploymentID, state.Status))
			}
		},
		retry.Context(ctx),
		retry.Attempts(opts.Attempts),
		retry.Delay(opts.Interval),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		if errors.Is(err, errDeploymentPending) {
			return last, fmt.Errorf("deployment %s is still building after %d checks", deploymentID, opts.Attempts)
		}
		return last, err
	}
	return last, nil
}
