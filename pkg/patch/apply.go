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
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/guardpatch/pkg/pattern"
	"gitlab.com/tozd/go/errors"
)

// 📊 Result is the outcome of one rule against one document
type Result struct {
	Rule     string
	Expected int
	Matched  int
	Applied  bool
	Skipped  bool // not reached because an earlier rule failed
	First    *Location
	Last     *Location
	Err      error
}

// ErrorMessage returns the error text, or an empty string on success
func (r Result) ErrorMessage() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// 🎯 Apply runs one rule against doc. When the number of matches differs
// from the pattern's expected count, or any replacement fails to render, the
// input document is returned unchanged along with the error in the Result.
func Apply(doc Document, rule Rule) (Document, Result) {
	res := Result{Rule: rule.Name}
	if err := rule.Validate(); err != nil {
		res.Err = err
		return doc, res
	}

	src := doc.text
	res.Expected = rule.Pattern.Expected()
	matches := rule.Pattern.MatchAll(src)
	res.Matched = len(matches)
	if len(matches) > 0 {
		res.First = locate(src, matches[0].Span)
		res.Last = locate(src, matches[len(matches)-1].Span)
	}

	if res.Matched != res.Expected {
		res.Err = &CountMismatchError{
			Rule:     rule.Name,
			Expected: res.Expected,
			Actual:   res.Matched,
			First:    res.First,
			Last:     res.Last,
		}
		return doc, res
	}

	var buf strings.Builder
	buf.Grow(len(src))
	prev := 0
	for i, m := range matches {
		out, err := rule.Replace.Render(rule.Pattern, src, m)
		if err != nil {
			res.Err = errors.Errorf("rule %q: rendering replacement for match %d: %w", rule.Name, i+1, err)
			return doc, res
		}
		buf.WriteString(src[prev:m.Span.Start])
		buf.WriteString(out)
		prev = m.Span.End
	}
	buf.WriteString(src[prev:])

	res.Applied = true
	return doc.withText(buf.String()), res
}

// 🔁 ApplyAll folds Apply over rules in order. It stops at the first rule
// that fails and returns the input document; the remaining rules are
// reported as skipped. The context is checked between rules.
func ApplyAll(ctx context.Context, doc Document, rules []Rule) (Document, []Result, error) {
	logger := zerolog.Ctx(ctx)

	results := make([]Result, 0, len(rules))
	current := doc
	for i, rule := range rules {
		if err := ctx.Err(); err != nil {
			return doc, skipRest(results, rules[i:]), errors.Errorf("applying rules: %w", err)
		}

		next, res := Apply(current, rule)
		results = append(results, res)

		logger.Debug().
			Str("path", doc.Path()).
			Str("rule", rule.Name).
			Int("expected", res.Expected).
			Int("matches", res.Matched).
			Bool("applied", res.Applied).
			Msg("applied rule")

		if res.Err != nil {
			return doc, skipRest(results, rules[i+1:]), res.Err
		}
		current = next
	}

	return current, results, nil
}

func skipRest(results []Result, rest []Rule) []Result {
	for _, r := range rest {
		res := Result{Rule: r.Name, Skipped: true}
		if r.Pattern != nil {
			res.Expected = r.Pattern.Expected()
		}
		results = append(results, res)
	}
	return results
}

func locate(text string, span pattern.Span) *Location {
	return &Location{Span: span, Line: pattern.Line(text, span.Start)}
}
