// SPDX-FileCopyrightText: Copyright (c) 2026 NVIDIA CORPORATION & AFFILIATES. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package appwritecli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatOutput(t *testing.T) {
	bucket := Response{"$id": "b1", "name": "photos", "enabled": true}
	list := Response{
		"total": float64(2),
		"buckets": []any{
			map[string]any{"$id": "b1", "name": "photos", "$createdAt": "2026-01-01T00:00:00.000+00:00"},
			map[string]any{"$id": "b2", "name": "videos", "$createdAt": "2026-01-02T00:00:00.000+00:00"},
		},
	}

	tests := []struct {
		name   string
		v      any
		format string
		want   []string
	}{
		{
			name:   "json",
			v:      bucket,
			format: "json",
			want:   []string{`"$id": "b1"`, `"enabled": true`},
		},
		{
			name:   "yaml",
			v:      bucket,
			format: "yaml",
			want:   []string{"$id: b1", "name: photos", "enabled: true"},
		},
		{
			name:   "table object",
			v:      bucket,
			format: "table",
			want:   []string{"$id      b1", "enabled  true", "name     photos"},
		},
		{
			name:   "table list",
			v:      list,
			format: "table",
			want:   []string{"$id  name    $createdAt", "b1   photos  2026-01-01", "b2   videos  2026-01-02"},
		},
		{
			name:   "table empty list",
			v:      Response{"total": float64(0), "files": []any{}},
			format: "table",
			want:   []string{"(no results)"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, FormatOutput(&buf, tc.v, tc.format, false))
			for _, w := range tc.want {
				assert.Contains(t, buf.String(), w)
			}
		})
	}
}

func TestFormatOutputColor(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatOutput(&buf, Response{"$id": "b1"}, "json", true))
	assert.Contains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "b1")
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))
}

func TestOutputFormats(t *testing.T) {
	for _, f := range []string{"json", "yaml", "table"} {
		assert.True(t, OutputFormats.Contains(f), f)
	}
	assert.False(t, OutputFormats.Contains(strings.ToUpper("json")))
}
