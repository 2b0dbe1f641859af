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

// Package runner drives patch sessions against files on disk.
//
// A session reads one target, canonicalizes it, applies its rules in order
// and writes the result back atomically only when every rule held. Any
// failure leaves the target byte-for-byte as it was.
package runner

import (
	"context"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/guardpatch/pkg/patch"
	"github.com/walteh/guardpatch/pkg/status"
	"github.com/walteh/guardpatch/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Target is one file and the ordered rules to apply to it
type Target struct {
	Path  string
	Rules []patch.Rule
	Text  text.Options
}

// 🔧 Options configures a Runner
type Options struct {
	// Files reads and writes targets; defaults to the local file system
	Files status.FileManager
	// DryRun applies rules in memory and never writes
	DryRun bool
	// Jobs bounds how many targets RunAll processes at once; 0 means 1
	Jobs int
}

// 🏃 Runner executes patch sessions. It holds no per-session state, so a
// single Runner may run many targets concurrently.
type Runner struct {
	files  status.FileManager
	dryRun bool
	jobs   int
}

// 🏗️ New creates a new runner
func New(opts Options) *Runner {
	files := opts.Files
	if files == nil {
		files = status.New("")
	}
	jobs := opts.Jobs
	if jobs < 1 {
		jobs = 1
	}
	return &Runner{files: files, dryRun: opts.DryRun, jobs: jobs}
}

// 📋 SessionReport is the outcome of one session
type SessionReport struct {
	Path      string
	Results   []patch.Result
	DryRun    bool
	Committed bool   // every rule held; the file was written unless DryRun or unchanged
	Changed   bool   // the patched text differs from the original
	Before    string // canonical text as read
	After     string // canonical text after all rules; empty on failure
	Err       error
}

// OK reports whether every rule satisfied its contract
func (r *SessionReport) OK() bool {
	return r.Err == nil
}

// Failed returns the results that did not apply and were not skipped
func (r *SessionReport) Failed() []patch.Result {
	var failed []patch.Result
	for _, res := range r.Results {
		if !res.Applied && !res.Skipped {
			failed = append(failed, res)
		}
	}
	return failed
}

// 📦 Session owns one target's document for the duration of a run
type Session struct {
	target Target
	files  status.FileManager
	source *text.Canonical
	doc    patch.Document
	report *SessionReport
}

// Run executes a session for target. The returned report is never nil;
// the error is the report's Err.
func (r *Runner) Run(ctx context.Context, target Target) (*SessionReport, error) {
	logger := zerolog.Ctx(ctx).With().Str("path", target.Path).Logger()
	ctx = logger.WithContext(ctx)

	s := &Session{
		target: target,
		files:  r.files,
		report: &SessionReport{Path: target.Path, DryRun: r.dryRun},
	}

	err := s.run(ctx, r.dryRun)
	if err != nil {
		s.report.Err = err
		s.report.After = ""
		logger.Debug().Err(err).Msg("session aborted")
		return s.report, err
	}

	logger.Debug().
		Bool("changed", s.report.Changed).
		Bool("dry_run", r.dryRun).
		Int("rules", len(target.Rules)).
		Msg("session committed")
	return s.report, nil
}

func (s *Session) run(ctx context.Context, dryRun bool) error {
	if err := s.load(ctx); err != nil {
		s.report.Results = skipped(s.target.Rules)
		return err
	}

	final, results, err := patch.ApplyAll(ctx, s.doc, s.target.Rules)
	s.report.Results = results
	if err != nil {
		return err
	}

	s.doc = final
	s.report.After = final.Text()
	s.report.Changed = s.report.After != s.report.Before

	if dryRun {
		s.report.Committed = true
		return nil
	}
	if err := s.commit(ctx); err != nil {
		return err
	}
	s.report.Committed = true
	return nil
}

// load reads and canonicalizes the target
func (s *Session) load(ctx context.Context) error {
	if s.target.Path == "" {
		return &patch.IOError{Op: "read", Path: s.target.Path, Err: errors.New("target path is required")}
	}
	if err := ctx.Err(); err != nil {
		return errors.Errorf("starting session: %w", err)
	}

	raw, err := s.files.ReadFile(ctx, s.target.Path)
	if err != nil {
		return &patch.IOError{Op: "read", Path: s.target.Path, Err: err}
	}

	source, err := text.Canonicalize(raw, s.target.Text)
	if err != nil {
		return &patch.IOError{Op: "decode", Path: s.target.Path, Err: err}
	}

	s.source = source
	s.doc = patch.NewDocument(s.target.Path, source.Text)
	s.report.Before = source.Text
	return nil
}

// commit encodes the final document and replaces the target atomically
func (s *Session) commit(ctx context.Context) error {
	if !s.report.Changed {
		zerolog.Ctx(ctx).Debug().Msg("content unchanged, skipping write")
		return nil
	}
	if err := ctx.Err(); err != nil {
		return errors.Errorf("committing session: %w", err)
	}

	out, err := s.source.Encode(s.doc.Text())
	if err != nil {
		return &patch.IOError{Op: "encode", Path: s.target.Path, Err: err}
	}
	if err := s.files.WriteFileAtomic(ctx, s.target.Path, out); err != nil {
		return &patch.IOError{Op: "write", Path: s.target.Path, Err: err}
	}
	return nil
}

func skipped(rules []patch.Rule) []patch.Result {
	results := make([]patch.Result, 0, len(rules))
	for _, r := range rules {
		res := patch.Result{Rule: r.Name, Skipped: true}
		if r.Pattern != nil {
			res.Expected = r.Pattern.Expected()
		}
		results = append(results, res)
	}
	return results
}

func cleanPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}
