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
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for rule file parsers
type Parser interface {
	// 📝 Parse parses a rule file. baseDir is the directory holding the
	// file; relative paths inside it resolve against baseDir.
	Parse(ctx context.Context, data []byte, baseDir string) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool

	// Extensions lists the file extensions the parser handles
	Extensions() []string
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// Formats lists the extensions of every registered parser
func Formats() []string {
	var exts []string
	for _, p := range parsers {
		exts = append(exts, p.Extensions()...)
	}
	return exts
}

func hasExtension(filename string, exts []string) bool {
	for _, ext := range exts {
		if strings.HasSuffix(filename, ext) {
			return true
		}
	}
	return false
}

// 📦 Config is a rule file: a set of targets and the rules for each
type Config struct {
	// Jobs bounds how many targets are patched at once
	Jobs int `json:"jobs,omitempty" yaml:"jobs,omitempty" hcl:"jobs,optional"`

	Targets []Target `json:"targets" yaml:"targets" hcl:"target,block"`

	// location is the path the config was loaded from
	location string
	// baseDir resolves relative target paths and replacement files
	baseDir string
}

// 🎯 Target names one file (or a glob of files) and its ordered rules
type Target struct {
	Path     string `json:"path" yaml:"path" hcl:"path,label"`
	Encoding string `json:"encoding,omitempty" yaml:"encoding,omitempty" hcl:"encoding,optional"`
	// NFC normalizes decoded text to Unicode composed form
	NFC bool `json:"nfc,omitempty" yaml:"nfc,omitempty" hcl:"nfc,optional"`
	// Newlines matches on LF line endings in CRLF files
	Newlines bool   `json:"newlines,omitempty" yaml:"newlines,omitempty" hcl:"newlines,optional"`
	Rules    []Rule `json:"rules" yaml:"rules" hcl:"rule,block"`
}

// 📝 Rule is one pattern and its replacement.
//
// Exactly one of Literal and Regex selects the matcher, and exactly one of
// Replace and ReplaceFile supplies the replacement. Count defaults to 1.
type Rule struct {
	Name    string `json:"name" yaml:"name" hcl:"name,label"`
	Literal string `json:"literal,omitempty" yaml:"literal,omitempty" hcl:"literal,optional"`
	Regex   string `json:"regex,omitempty" yaml:"regex,omitempty" hcl:"regex,optional"`
	Flags   string `json:"flags,omitempty" yaml:"flags,omitempty" hcl:"flags,optional"`
	Count   *int   `json:"count,omitempty" yaml:"count,omitempty" hcl:"count,optional"`

	// Replace is a pointer so that an empty replacement deletes the match
	Replace     *string `json:"replace,omitempty" yaml:"replace,omitempty" hcl:"replace,optional"`
	ReplaceFile string  `json:"replace_file,omitempty" yaml:"replace_file,omitempty" hcl:"replace_file,optional"`

	// Expand treats the replacement as a template over capture groups
	// ($1, ${name}); regex rules only
	Expand bool `json:"expand,omitempty" yaml:"expand,omitempty" hcl:"expand,optional"`
}

// 🔍 Location returns the path the config was loaded from
func (c *Config) Location() string {
	return c.location
}

// 📥 Load reads and validates a rule file. The format is chosen by
// extension through the registered parsers.
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)

	parser := GetParser(path)
	if parser == nil {
		return nil, errors.Errorf("unsupported config file %q: expected one of %s", path, strings.Join(Formats(), ", "))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Errorf("resolving config path: %w", err)
	}
	baseDir := filepath.Dir(abs)

	cfg, err := parser.Parse(ctx, data, baseDir)
	if err != nil {
		return nil, errors.Errorf("parsing %s: %w", path, err)
	}
	cfg.location = path
	cfg.baseDir = baseDir

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating %s: %w", path, err)
	}

	logger.Debug().
		Str("path", path).
		Int("targets", len(cfg.Targets)).
		Msg("loaded config")

	return cfg, nil
}
