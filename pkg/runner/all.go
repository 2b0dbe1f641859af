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
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// ⚡ RunAll runs every target in its own session, up to Jobs at a time.
// Sessions are independent: one target failing does not stop the others.
// Two targets resolving to the same file are rejected before any work
// starts. Reports are returned in target order.
func (r *Runner) RunAll(ctx context.Context, targets []Target) ([]*SessionReport, error) {
	logger := zerolog.Ctx(ctx)

	seen := make(map[string]string, len(targets))
	for _, t := range targets {
		key := cleanPath(t.Path)
		if prev, ok := seen[key]; ok {
			return nil, errors.Errorf("targets %q and %q refer to the same file", prev, t.Path)
		}
		seen[key] = t.Path
	}

	reports := make([]*SessionReport, len(targets))

	g := new(errgroup.Group)
	g.SetLimit(r.jobs)
	for i, t := range targets {
		g.Go(func() error {
			reports[i], _ = r.Run(ctx, t)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, rep := range reports {
		if !rep.OK() {
			failed++
		}
	}

	logger.Debug().
		Int("targets", len(targets)).
		Int("failed", failed).
		Int("jobs", r.jobs).
		Msg("ran all targets")

	if failed > 0 {
		return reports, errors.Errorf("%d of %d targets failed", failed, len(targets))
	}
	return reports, nil
}
