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
	"github.com/walteh/guardpatch/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// ✅ Validate checks the config and fills in defaults: a missing count
// becomes 1 and a missing encoding becomes utf-8.
func (c *Config) Validate() error {
	if c.Jobs < 0 {
		return errors.Errorf("jobs must not be negative, got %d", c.Jobs)
	}
	if len(c.Targets) == 0 {
		return errors.New("no targets defined")
	}

	for i := range c.Targets {
		if err := c.Targets[i].validate(i); err != nil {
			return err
		}
	}
	return nil
}

func (t *Target) validate(index int) error {
	if t.Path == "" {
		return errors.Errorf("target %d: path is required", index)
	}
	if t.Encoding == "" {
		t.Encoding = text.DefaultEncoding
	}
	if len(t.Rules) == 0 {
		return errors.Errorf("target %q: no rules defined", t.Path)
	}

	seen := make(map[string]bool, len(t.Rules))
	for i := range t.Rules {
		r := &t.Rules[i]
		if r.Name == "" {
			return errors.Errorf("target %q: rule %d: name is required", t.Path, i)
		}
		if seen[r.Name] {
			return errors.Errorf("target %q: duplicate rule name %q", t.Path, r.Name)
		}
		seen[r.Name] = true

		if err := r.validate(); err != nil {
			return errors.Errorf("target %q: rule %q: %w", t.Path, r.Name, err)
		}
	}
	return nil
}

func (r *Rule) validate() error {
	switch {
	case r.Literal == "" && r.Regex == "":
		return errors.New("one of literal or regex is required")
	case r.Literal != "" && r.Regex != "":
		return errors.New("literal and regex are mutually exclusive")
	case r.Literal != "" && r.Flags != "":
		return errors.New("flags apply to regex rules only")
	case r.Literal != "" && r.Expand:
		return errors.New("expand applies to regex rules only")
	}

	if r.Count == nil {
		one := 1
		r.Count = &one
	} else if *r.Count < 1 {
		return errors.Errorf("count must be at least 1, got %d", *r.Count)
	}

	switch {
	case r.Replace == nil && r.ReplaceFile == "":
		return errors.New("one of replace or replace_file is required")
	case r.Replace != nil && r.ReplaceFile != "":
		return errors.New("replace and replace_file are mutually exclusive")
	}
	return nil
}
