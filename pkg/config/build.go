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

package config

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/guardpatch/pkg/patch"
	"github.com/walteh/guardpatch/pkg/pattern"
	"github.com/walteh/guardpatch/pkg/runner"
	"github.com/walteh/guardpatch/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🏗️ Build turns the config into runner targets. Glob paths are expanded
// against the config's directory and replacement files are read. A glob
// that matches no file is an error.
func (c *Config) Build(ctx context.Context) ([]runner.Target, error) {
	logger := zerolog.Ctx(ctx)

	var targets []runner.Target
	for _, t := range c.Targets {
		rules, err := c.buildRules(t)
		if err != nil {
			return nil, errors.Errorf("target %q: %w", t.Path, err)
		}

		paths, err := c.expand(t.Path)
		if err != nil {
			return nil, errors.Errorf("target %q: %w", t.Path, err)
		}

		logger.Debug().
			Str("target", t.Path).
			Int("files", len(paths)).
			Int("rules", len(rules)).
			Msg("built target")

		for _, p := range paths {
			targets = append(targets, runner.Target{
				Path:  p,
				Rules: rules,
				Text: text.Options{
					Encoding: t.Encoding,
					NFC:      t.NFC,
					Newlines: t.Newlines,
				},
			})
		}
	}
	return targets, nil
}

func (c *Config) buildRules(t Target) ([]patch.Rule, error) {
	rules := make([]patch.Rule, 0, len(t.Rules))
	for _, r := range t.Rules {
		p, err := r.pattern()
		if err != nil {
			return nil, errors.Errorf("rule %q: %w", r.Name, err)
		}

		replacement, err := c.replacement(r)
		if err != nil {
			return nil, errors.Errorf("rule %q: %w", r.Name, err)
		}

		rule, err := patch.NewRule(r.Name, p, replacement)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func (r Rule) expected() int {
	if r.Count == nil {
		return 1
	}
	return *r.Count
}

func (r Rule) pattern() (*pattern.Pattern, error) {
	if r.Literal != "" {
		return pattern.Literal(r.Literal, r.expected())
	}
	return pattern.Regex(r.Regex, r.Flags, r.expected())
}

func (c *Config) replacement(r Rule) (patch.Replacement, error) {
	var content string
	if r.Replace != nil {
		content = *r.Replace
	} else {
		data, err := os.ReadFile(c.resolve(r.ReplaceFile))
		if err != nil {
			return nil, errors.Errorf("reading replacement file: %w", err)
		}
		content = string(data)
	}

	if r.Expand {
		return patch.Template(content), nil
	}
	return patch.Literal(content), nil
}

func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) || c.baseDir == "" {
		return p
	}
	return filepath.Join(c.baseDir, p)
}

// expand resolves a target path, expanding doublestar globs
func (c *Config) expand(p string) ([]string, error) {
	if !hasMeta(p) {
		return []string{c.resolve(p)}, nil
	}

	var (
		matches []string
		err     error
	)
	if filepath.IsAbs(p) || c.baseDir == "" {
		matches, err = doublestar.FilepathGlob(p, doublestar.WithFilesOnly())
	} else {
		var rel []string
		rel, err = doublestar.Glob(os.DirFS(c.baseDir), filepath.ToSlash(p), doublestar.WithFilesOnly())
		for _, m := range rel {
			matches = append(matches, filepath.Join(c.baseDir, filepath.FromSlash(m)))
		}
	}
	if err != nil {
		return nil, errors.Errorf("expanding glob: %w", err)
	}
	if len(matches) == 0 {
		return nil, errors.Errorf("glob %q matched no files", p)
	}

	sort.Strings(matches)
	return matches, nil
}

func hasMeta(p string) bool {
	return strings.ContainsAny(p, "*?[{")
}
