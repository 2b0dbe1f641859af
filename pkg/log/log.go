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
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/guardpatch/pkg/runner"
	"github.com/walteh/guardpatch/pkg/status"
)

// 🎨 Display configuration
const (
	detailIndent = 8 // spaces to indent failure details under a rule
)

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog     zerolog.Logger
	console  io.Writer
	mu       sync.Mutex
	sessions int
	written  int
	failed   int
}

// 🏭 New creates a new logger
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:    zlog,
		console: console,
		mu:      sync.Mutex{},
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// outcome describes what happened to the file at the end of a session
func outcome(rep *runner.SessionReport) (string, color.Attribute) {
	switch {
	case !rep.OK():
		return "left untouched", color.FgRed
	case !rep.Changed:
		return "unchanged", color.FgYellow
	case rep.DryRun:
		return "would write", color.FgBlue
	default:
		return "written", color.FgGreen
	}
}

// 📝 LogSession prints one session: a header, a line per rule with any
// failure detail beneath it, and the outcome for the file
func (l *Logger) LogSession(ctx context.Context, rep *runner.SessionReport) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.sessions++
	switch {
	case !rep.OK():
		l.failed++
	case rep.Changed && !rep.DryRun:
		l.written++
	}

	mode := "patching"
	if rep.DryRun {
		mode = "checking"
	}
	fmt.Fprintf(l.console, "[%s %s]\n", mode, color.New(color.FgCyan).Sprint(rep.Path))

	detail := strings.Repeat(" ", detailIndent)
	for _, res := range rep.Results {
		fmt.Fprintln(l.console, status.FormatRule(res))
		if res.Err != nil && !res.Skipped {
			fmt.Fprintf(l.console, "%s%s\n", detail, color.New(color.Faint).Sprint(res.ErrorMessage()))
		}
	}

	// errors that no rule owns, such as a failed read or write
	if rep.Err != nil && len(rep.Failed()) == 0 {
		fmt.Fprintf(l.console, "%s%s\n", detail, color.New(color.Faint).Sprint(rep.Err.Error()))
	}

	text, attr := outcome(rep)
	fmt.Fprintf(l.console, "%s %s\n", color.New(color.FgMagenta).Sprint("◆"), color.New(attr).Sprint(text))

	ev := l.zlog.Info()
	if !rep.OK() {
		ev = l.zlog.Error().Err(rep.Err)
	}
	ev.Str("path", rep.Path).
		Int("rules", len(rep.Results)).
		Int("failed", len(rep.Failed())).
		Bool("changed", rep.Changed).
		Bool("dry_run", rep.DryRun).
		Msg("session complete")
}

// 📝 Summary prints the totals across every session logged so far
func (l *Logger) Summary() {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.console)
	fmt.Fprintln(l.console, status.FormatProgress(l.sessions-l.failed, l.sessions))
	fmt.Fprintf(l.console, "%d target(s), %d written, %d failed\n", l.sessions, l.written, l.failed)

	l.zlog.Info().
		Int("targets", l.sessions).
		Int("written", l.written).
		Int("failed", l.failed).
		Msg("summary")
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("guardpatch")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
