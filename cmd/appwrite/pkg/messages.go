// SPDX-FileCopyrightText: Copyright (c) 2026 NVIDIA CORPORATION & AFFILIATES. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package appwritecli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

// Success prints a success message to w.
func Success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", successStyle.Render("✓ Success:"), fmt.Sprintf(format, args...))
}

// Error prints an error message to w.
func Error(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", errorStyle.Render("✗ Error:"), fmt.Sprintf(format, args...))
}

// Warning prints a warning to w.
func Warning(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", warningStyle.Render("! Warning:"), fmt.Sprintf(format, args...))
}

// Hint prints a hint to w.
func Hint(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", hintStyle.Render("♥ Hint:"), fmt.Sprintf(format, args...))
}
