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

package status

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/walteh/guardpatch/pkg/patch"
	"gitlab.com/tozd/go/errors"
)

// 📊 RuleStatus represents the outcome of a rule in a session
type RuleStatus int

const (
	StatusUnknown  RuleStatus = iota
	StatusApplied             // Pattern matched the expected number of times
	StatusMismatch            // Pattern matched the wrong number of times
	StatusInvalid             // Rule could not be applied as written
	StatusFailed              // Replacement could not be rendered, or the session was cancelled
	StatusSkipped             // Not reached because an earlier rule failed
)

// String returns a string representation of RuleStatus
func (s RuleStatus) String() string {
	switch s {
	case StatusApplied:
		return "applied"
	case StatusMismatch:
		return "mismatch"
	case StatusInvalid:
		return "invalid"
	case StatusFailed:
		return "failed"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Of classifies a rule result
func Of(res patch.Result) RuleStatus {
	var mismatch *patch.CountMismatchError
	var invalid *patch.InvalidPatternError
	switch {
	case res.Skipped:
		return StatusSkipped
	case res.Applied:
		return StatusApplied
	case errors.As(res.Err, &mismatch):
		return StatusMismatch
	case errors.As(res.Err, &invalid):
		return StatusInvalid
	case res.Err != nil:
		return StatusFailed
	default:
		return StatusUnknown
	}
}

// 🎨 Display configuration
const (
	ruleIndent  = 4  // spaces to indent rule entries
	nameWidth   = 35 // Base width for rule name
	countWidth  = 10 // Width for matched/expected
	statusWidth = 10 // Width for status text
)

// 🎯 FormatRule formats a rule result for display
func FormatRule(res patch.Result) string {
	st := Of(res)

	var prefix string
	switch st {
	case StatusApplied:
		prefix = color.GreenString("✓")
	case StatusMismatch, StatusInvalid, StatusFailed:
		prefix = color.RedString("✗")
	default:
		prefix = color.HiBlackString("-")
	}

	count := "-"
	if !res.Skipped && st != StatusInvalid {
		count = fmt.Sprintf("%d/%d", res.Matched, res.Expected)
	}

	namePart := fmt.Sprintf("%-*s", nameWidth, res.Rule)
	countPart := fmt.Sprintf("%-*s", countWidth, count)
	statusPart := fmt.Sprintf("%-*s", statusWidth, st)

	return fmt.Sprintf("%s%s %s %s %s",
		strings.Repeat(" ", ruleIndent),
		prefix,
		namePart,
		countPart,
		statusPart,
	)
}

// FormatProgress formats a progress message with percentage
func FormatProgress(current, total int) string {
	var percentage float64
	if total == 0 {
		percentage = 0
		if current > 0 {
			percentage = 100
		}
	} else {
		percentage = float64(current) / float64(total) * 100
	}

	if current >= total {
		return fmt.Sprintf("✅ Progress: %d/%d (%.0f%%)", current, total, percentage)
	}
	return fmt.Sprintf("⏳ Progress: %d/%d (%.0f%%)", current, total, percentage)
}
