// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"fmt"
	"os"
	"time"
)

// PresentError formats an error for user display with masking.
func PresentError(context string, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", context, Mask(err.Error()))
}

// Error logs a masked, timestamped error line to stderr.
func Error(format string, args ...any) {
	emit(os.Stderr, "[ERROR]", format, args...)
}

// Warn logs a masked, timestamped warning line to stderr.
func Warn(format string, args ...any) {
	emit(os.Stderr, "⚠️", format, args...)
}

// Info logs a masked, timestamped informational line to stdout.
func Info(format string, args ...any) {
	emit(os.Stdout, "ℹ️", format, args...)
}

// Success logs a masked, timestamped success line to stdout, used for
// milestones like creating the replication slot or confirming a table's
// FULL replica identity.
func Success(format string, args ...any) {
	emit(os.Stdout, "✅", format, args...)
}

func emit(w *os.File, prefix, format string, args ...any) {
	msg := Mask(fmt.Sprintf(format, args...))
	fmt.Fprintf(w, "%s %s %s\n", time.Now().UTC().Format(time.RFC3339), prefix, msg)
}
