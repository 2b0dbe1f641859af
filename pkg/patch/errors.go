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
	"fmt"

	"github.com/walteh/guardpatch/pkg/pattern"
)

// ⚠️ InvalidPatternError reports a rule that cannot be applied as written
type InvalidPatternError = pattern.InvalidError

// 📍 Location is a matched span plus the line it starts on
type Location struct {
	Span pattern.Span
	Line int
}

func (l Location) String() string {
	return fmt.Sprintf("line %d %s", l.Line, l.Span)
}

// ❌ CountMismatchError reports a pattern that matched the wrong number of times
type CountMismatchError struct {
	Rule     string
	Expected int
	Actual   int
	First    *Location // nil when nothing matched
	Last     *Location
}

func (e *CountMismatchError) Error() string {
	msg := fmt.Sprintf("rule %q: expected %d %s, found %d", e.Rule, e.Expected, plural(e.Expected, "match", "matches"), e.Actual)
	switch {
	case e.First == nil:
	case e.Actual == 1:
		msg += fmt.Sprintf(" (at %s)", e.First)
	default:
		msg += fmt.Sprintf(" (first at %s, last at %s)", e.First, e.Last)
	}
	return msg
}

// 💾 IOError reports a failure reading, decoding, encoding or writing a target
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
