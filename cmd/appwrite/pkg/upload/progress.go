// SPDX-FileCopyrightText: Copyright (c) 2026 NVIDIA CORPORATION & AFFILIATES. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package upload

import (
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// ProgressBar renders upload progress as a byte counter on a terminal.
type ProgressBar struct {
	bar *progressbar.ProgressBar
}

// NewProgressBar creates a bar for an upload of size bytes written to w.
func NewProgressBar(w io.Writer, size int64, description string) *ProgressBar {
	return &ProgressBar{
		bar: progressbar.NewOptions64(size,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription(description),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetWidth(30),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		),
	}
}

// Report moves the bar to the uploaded byte count in p. It is meant to be
// used as Request.OnProgress.
func (b *ProgressBar) Report(p Progress) {
	if b == nil {
		return
	}
	_ = b.bar.Set64(p.SizeUploaded)
}

// Finish completes and clears the bar.
func (b *ProgressBar) Finish() {
	if b == nil {
		return
	}
	_ = b.bar.Finish()
}
