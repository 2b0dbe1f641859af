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

// Package pattern locates literal or regular-expression matches in raw text.
//
// A Pattern pairs a matcher with the number of occurrences it is expected to
// find. The pattern itself never enforces that number; callers compare the
// length of MatchAll against Expected.
package pattern

import (
	"fmt"
	"regexp"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🧩 Kind identifies how a pattern searches text
type Kind int

const (
	KindLiteral Kind = iota // exact substring search
	KindRegex               // RE2 regular expression
)

// String returns a string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindRegex:
		return "regex"
	default:
		return "unknown"
	}
}

// 📏 Span is a half-open byte range [Start, End) over a text
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the span
func (s Span) Len() int {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("[%d:%d]", s.Start, s.End)
}

// 🎯 Match is a single occurrence of a pattern
type Match struct {
	Span   Span
	Text   string
	Groups []string          // Groups[0] is the whole match
	Named  map[string]string // named capture groups, regex only

	submatches []int
}

// ⚠️ InvalidError reports a pattern that cannot be constructed
type InvalidError struct {
	Pattern string
	Reason  string
	Err     error
}

func (e *InvalidError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid pattern %q: %s: %v", e.Pattern, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid pattern %q: %s", e.Pattern, e.Reason)
}

func (e *InvalidError) Unwrap() error {
	return e.Err
}

// 🔍 Pattern is a matcher plus its expected occurrence count
type Pattern struct {
	kind     Kind
	source   string
	flags    string
	expected int
	re       *regexp.Regexp
}

// Literal creates a pattern that matches s exactly.
func Literal(s string, expected int) (*Pattern, error) {
	if s == "" {
		return nil, &InvalidError{Pattern: s, Reason: "literal must not be empty"}
	}
	if expected < 1 {
		return nil, &InvalidError{Pattern: s, Reason: fmt.Sprintf("expected count must be at least 1, got %d", expected)}
	}
	return &Pattern{kind: KindLiteral, source: s, expected: expected}, nil
}

// Regex creates a pattern from an RE2 expression. Flags is a set of inline
// flag letters (i, m, s, U) prefixed to the expression, so "s" lets a
// non-greedy `.*?` stop at the first closing delimiter across lines.
func Regex(expr, flags string, expected int) (*Pattern, error) {
	if expr == "" {
		return nil, &InvalidError{Pattern: expr, Reason: "expression must not be empty"}
	}
	if expected < 1 {
		return nil, &InvalidError{Pattern: expr, Reason: fmt.Sprintf("expected count must be at least 1, got %d", expected)}
	}
	if err := validateFlags(flags); err != nil {
		return nil, &InvalidError{Pattern: expr, Reason: "bad flags", Err: err}
	}

	full := expr
	if flags != "" {
		full = "(?" + flags + ")" + expr
	}
	re, err := regexp.Compile(full)
	if err != nil {
		return nil, &InvalidError{Pattern: expr, Reason: "compiling expression", Err: err}
	}

	return &Pattern{kind: KindRegex, source: expr, flags: flags, expected: expected, re: re}, nil
}

func validateFlags(flags string) error {
	seen := map[rune]bool{}
	for _, f := range flags {
		switch f {
		case 'i', 'm', 's', 'U':
		default:
			return errors.Errorf("unsupported flag %q", f)
		}
		if seen[f] {
			return errors.Errorf("duplicate flag %q", f)
		}
		seen[f] = true
	}
	return nil
}

// Kind returns how the pattern searches
func (p *Pattern) Kind() Kind { return p.kind }

// Expected returns the number of occurrences the pattern must find
func (p *Pattern) Expected() int { return p.expected }

// Source returns the literal text or the expression without flags
func (p *Pattern) Source() string { return p.source }

// Flags returns the inline regex flags, empty for literals
func (p *Pattern) Flags() string { return p.flags }

func (p *Pattern) String() string {
	if p.flags != "" {
		return fmt.Sprintf("%s(%s)/%s x%d", p.kind, p.source, p.flags, p.expected)
	}
	return fmt.Sprintf("%s(%s) x%d", p.kind, p.source, p.expected)
}

// 📋 MatchAll returns every non-overlapping match in left-to-right order
func (p *Pattern) MatchAll(text string) []Match {
	if p.kind == KindLiteral {
		return p.matchLiteral(text)
	}
	return p.matchRegex(text)
}

func (p *Pattern) matchLiteral(text string) []Match {
	var matches []Match
	for pos := 0; pos <= len(text); {
		i := strings.Index(text[pos:], p.source)
		if i < 0 {
			break
		}
		start := pos + i
		end := start + len(p.source)
		matches = append(matches, Match{
			Span:       Span{Start: start, End: end},
			Text:       p.source,
			Groups:     []string{p.source},
			submatches: []int{start, end},
		})
		pos = end
	}
	return matches
}

func (p *Pattern) matchRegex(text string) []Match {
	all := p.re.FindAllStringSubmatchIndex(text, -1)
	if len(all) == 0 {
		return nil
	}

	names := p.re.SubexpNames()
	matches := make([]Match, 0, len(all))
	for _, loc := range all {
		m := Match{
			Span:       Span{Start: loc[0], End: loc[1]},
			Text:       text[loc[0]:loc[1]],
			Groups:     make([]string, len(loc)/2),
			submatches: loc,
		}
		for g := 0; g < len(loc)/2; g++ {
			if loc[2*g] < 0 {
				continue
			}
			m.Groups[g] = text[loc[2*g]:loc[2*g+1]]
			if names[g] != "" {
				if m.Named == nil {
					m.Named = map[string]string{}
				}
				m.Named[names[g]] = m.Groups[g]
			}
		}
		matches = append(matches, m)
	}
	return matches
}

// Expand renders template for a match of p against text. Regex patterns
// substitute $1, ${1} and ${name}; literal patterns return template as-is.
func (p *Pattern) Expand(template, text string, m Match) string {
	if p.kind == KindLiteral {
		return template
	}
	return string(p.re.ExpandString(nil, template, text, m.submatches))
}

// 📍 Line returns the 1-based line number of offset within text
func Line(text string, offset int) int {
	if offset > len(text) {
		offset = len(text)
	}
	if offset < 0 {
		offset = 0
	}
	return strings.Count(text[:offset], "\n") + 1
}
