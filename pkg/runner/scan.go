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

package runner

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/guardpatch/pkg/patch"
	"github.com/walteh/guardpatch/pkg/pattern"
	"github.com/walteh/guardpatch/pkg/text"
)

// 🔍 Found is one occurrence reported by Scan
type Found struct {
	patch.Location
	Text string
}

// Scan lists every match of p in the file at path without changing it.
// It is meant for authoring rules: the count tells you what to expect.
func (r *Runner) Scan(ctx context.Context, path string, p *pattern.Pattern, opts text.Options) ([]Found, error) {
	raw, err := r.files.ReadFile(ctx, path)
	if err != nil {
		return nil, &patch.IOError{Op: "read", Path: path, Err: err}
	}
	source, err := text.Canonicalize(raw, opts)
	if err != nil {
		return nil, &patch.IOError{Op: "decode", Path: path, Err: err}
	}

	matches := p.MatchAll(source.Text)
	found := make([]Found, 0, len(matches))
	for _, m := range matches {
		found = append(found, Found{
			Location: patch.Location{Span: m.Span, Line: pattern.Line(source.Text, m.Span.Start)},
			Text:     m.Text,
		})
	}

	zerolog.Ctx(ctx).Debug().
		Str("path", path).
		Str("pattern", p.String()).
		Int("matches", len(found)).
		Msg("scanned file")
	return found, nil
}
