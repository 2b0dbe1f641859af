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

package text

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// 🔀 Diff renders a line diff between two versions of a file. Unchanged
// lines are elided; each run of changes is preceded by its line number in
// the original text. An empty string means the texts are identical.
func Diff(path, before, after string) string {
	if before == after {
		return ""
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var buf strings.Builder
	fmt.Fprintf(&buf, "%s\n", color.New(color.Bold).Sprintf("--- %s", path))
	fmt.Fprintf(&buf, "%s\n", color.New(color.Bold).Sprintf("+++ %s (patched)", path))

	line := 1
	inHunk := false
	for _, d := range diffs {
		chunk := splitLines(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			line += len(chunk)
			inHunk = false
		case diffmatchpatch.DiffDelete:
			if !inHunk {
				fmt.Fprintf(&buf, "%s\n", color.CyanString("@@ line %d @@", line))
				inHunk = true
			}
			for _, l := range chunk {
				fmt.Fprintf(&buf, "%s\n", color.RedString("-%s", l))
			}
			line += len(chunk)
		case diffmatchpatch.DiffInsert:
			if !inHunk {
				fmt.Fprintf(&buf, "%s\n", color.CyanString("@@ line %d @@", line))
				inHunk = true
			}
			for _, l := range chunk {
				fmt.Fprintf(&buf, "%s\n", color.GreenString("+%s", l))
			}
		}
	}

	return buf.String()
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}
