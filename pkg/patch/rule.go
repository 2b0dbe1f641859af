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

package patch

import (
	"github.com/walteh/guardpatch/pkg/pattern"
)

// 🔄 Replacement renders the text that replaces a single match
type Replacement interface {
	Render(p *pattern.Pattern, text string, m pattern.Match) (string, error)
}

// Literal replaces every match with the same text, verbatim
type Literal string

// Render implements Replacement
func (l Literal) Render(_ *pattern.Pattern, _ string, _ pattern.Match) (string, error) {
	return string(l), nil
}

// Template expands $1, ${1} and ${name} from the match's capture groups.
// Use $$ for a literal dollar sign.
type Template string

// Render implements Replacement
func (t Template) Render(p *pattern.Pattern, text string, m pattern.Match) (string, error) {
	return p.Expand(string(t), text, m), nil
}

// Func computes a replacement from the match in process
type Func func(m pattern.Match) (string, error)

// Render implements Replacement
func (f Func) Render(_ *pattern.Pattern, _ string, m pattern.Match) (string, error) {
	return f(m)
}

// 📜 Rule pairs a pattern with its replacement
type Rule struct {
	Name    string
	Pattern *pattern.Pattern
	Replace Replacement
}

// NewRule creates a validated rule
func NewRule(name string, p *pattern.Pattern, r Replacement) (Rule, error) {
	rule := Rule{Name: name, Pattern: p, Replace: r}
	if err := rule.Validate(); err != nil {
		return Rule{}, err
	}
	return rule, nil
}

// Validate checks that the rule can be applied
func (r Rule) Validate() error {
	src := ""
	if r.Pattern != nil {
		src = r.Pattern.Source()
	}
	switch {
	case r.Name == "":
		return &InvalidPatternError{Pattern: src, Reason: "rule name is required"}
	case r.Pattern == nil:
		return &InvalidPatternError{Pattern: src, Reason: "rule " + r.Name + " has no pattern"}
	case r.Replace == nil:
		return &InvalidPatternError{Pattern: src, Reason: "rule " + r.Name + " has no replacement"}
	}
	return nil
}
