// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"syscall"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/guardpatch/pkg/patch"
	"github.com/walteh/guardpatch/pkg/runner"
)

func ruleLine(symbol, name, count, status string) string {
	return strings.TrimSpace(fmt.Sprintf("%s %-35s %-10s %s", symbol, name, count, status))
}

func TestLogger(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	mismatch := &patch.CountMismatchError{Rule: "footer", Expected: 1, Actual: 0}
	writeErr := &patch.IOError{Op: "write", Path: "layout.tsx", Err: syscall.ENOSPC}

	tests := []struct {
		name     string
		op       func(t *testing.T, logger *Logger)
		wantLogs []string
	}{
		{
			name: "log_session_written",
			op: func(t *testing.T, logger *Logger) {
				logger.LogSession(context.Background(), &runner.SessionReport{
					Path:      "layout.tsx",
					Committed: true,
					Changed:   true,
					Results: []patch.Result{
						{Rule: "desktop nav", Expected: 1, Matched: 1, Applied: true},
						{Rule: "mobile nav", Expected: 2, Matched: 2, Applied: true},
					},
				})
			},
			wantLogs: []string{
				"[patching layout.tsx]",
				ruleLine("✓", "desktop nav", "1/1", "applied"),
				ruleLine("✓", "mobile nav", "2/2", "applied"),
				"◆ written",
			},
		},
		{
			name: "log_session_mismatch",
			op: func(t *testing.T, logger *Logger) {
				logger.LogSession(context.Background(), &runner.SessionReport{
					Path: "layout.tsx",
					Err:  mismatch,
					Results: []patch.Result{
						{Rule: "nav", Expected: 1, Matched: 1, Applied: true},
						{Rule: "footer", Expected: 1, Matched: 0, Err: mismatch},
						{Rule: "banner", Expected: 1, Skipped: true},
					},
				})
			},
			wantLogs: []string{
				"[patching layout.tsx]",
				ruleLine("✓", "nav", "1/1", "applied"),
				ruleLine("✗", "footer", "0/1", "mismatch"),
				`rule "footer": expected 1 match, found 0`,
				ruleLine("-", "banner", "-", "skipped"),
				"◆ left untouched",
			},
		},
		{
			name: "log_session_write_failure",
			op: func(t *testing.T, logger *Logger) {
				logger.LogSession(context.Background(), &runner.SessionReport{
					Path: "layout.tsx",
					Err:  writeErr,
					Results: []patch.Result{
						{Rule: "nav", Expected: 1, Matched: 1, Applied: true},
					},
				})
			},
			wantLogs: []string{
				"[patching layout.tsx]",
				ruleLine("✓", "nav", "1/1", "applied"),
				"write layout.tsx: no space left on device",
				"◆ left untouched",
			},
		},
		{
			name: "log_session_dry_run",
			op: func(t *testing.T, logger *Logger) {
				logger.LogSession(context.Background(), &runner.SessionReport{
					Path:      "layout.tsx",
					DryRun:    true,
					Committed: true,
					Changed:   true,
					Results: []patch.Result{
						{Rule: "nav", Expected: 1, Matched: 1, Applied: true},
					},
				})
			},
			wantLogs: []string{
				"[checking layout.tsx]",
				ruleLine("✓", "nav", "1/1", "applied"),
				"◆ would write",
			},
		},
		{
			name: "log_summary",
			op: func(t *testing.T, logger *Logger) {
				logger.LogSession(context.Background(), &runner.SessionReport{Path: "a.txt", Committed: true})
				logger.LogSession(context.Background(), &runner.SessionReport{Path: "b.txt", Committed: true, Changed: true})
				logger.LogSession(context.Background(), &runner.SessionReport{Path: "c.txt", Err: writeErr})
				logger.Summary()
			},
			wantLogs: []string{
				"[patching a.txt]",
				"◆ unchanged",
				"[patching b.txt]",
				"◆ written",
				"[patching c.txt]",
				"write layout.tsx: no space left on device",
				"◆ left untouched",
				"",
				"⏳ Progress: 2/3 (67%)",
				"3 target(s), 1 written, 1 failed",
			},
		},
		{
			name: "log_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("info message")
				logger.Warning("warning message")
				logger.Error("error message")
				logger.Success("success message")
			},
			wantLogs: []string{
				"ℹ️  info message",
				"⚠️  warning message",
				"❌ error message",
				"✅ success message",
			},
		},
		{
			name: "log_formatted_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Infof("info %s", "test")
				logger.Warningf("warning %s", "test")
				logger.Errorf("error %s", "test")
				logger.Successf("success %s", "test")
			},
			wantLogs: []string{
				"ℹ️  info test",
				"⚠️  warning test",
				"❌ error test",
				"✅ success test",
			},
		},
		{
			name: "log_header",
			op: func(t *testing.T, logger *Logger) {
				logger.Header("applying .guardpatch.yaml")
			},
			wantLogs: []string{
				"guardpatch • applying .guardpatch.yaml",
			},
		},
		{
			name: "log_newline",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("first")
				logger.LogNewline()
				logger.Info("second")
			},
			wantLogs: []string{
				"ℹ️  first",
				"",
				"ℹ️  second",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create buffer for console output
			buf := &bytes.Buffer{}
			logger := New(buf, zerolog.Disabled)

			// Perform operation
			tt.op(t, logger)

			// Check output
			output := strings.TrimSpace(buf.String())
			lines := strings.Split(output, "\n")

			require.Equal(t, len(tt.wantLogs), len(lines), "number of log lines should match: %q", output)
			for i, want := range tt.wantLogs {
				assert.Equal(t, want, strings.TrimSpace(lines[i]), "log line %d should match", i)
			}
		})
	}
}

func TestLoggerContext(t *testing.T) {
	// Create logger
	logger := New(io.Discard, zerolog.InfoLevel)

	// Add to context
	ctx := context.Background()
	ctx = NewContext(ctx, logger)

	// Get from context
	got := FromContext(ctx)
	assert.Same(t, logger, got, "logger from context should be the same instance")

	// Check panic on missing logger
	assert.Panics(t, func() {
		FromContext(context.Background())
	}, "FromContext should panic when logger is missing")
}
