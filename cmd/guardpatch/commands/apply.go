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

package commands

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/guardpatch/cmd/guardpatch/opts"
	"github.com/walteh/guardpatch/pkg/config"
	"github.com/walteh/guardpatch/pkg/log"
	"github.com/walteh/guardpatch/pkg/runner"
	"github.com/walteh/guardpatch/pkg/text"
	"gitlab.com/tozd/go/errors"
)

type applyFlags struct {
	jobs   int
	dryRun bool
	diff   bool
}

// NewApplyCmd creates the apply command
func NewApplyCmd(o *opts.RootOpts) *cobra.Command {
	f := &applyFlags{}

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply every rule in the rule file",
		Long: `Apply patches each target listed in the rule file.
For every target it will:
1. Read and decode the file
2. Apply the rules in order, each checking its match count
3. Write the result back atomically, only if every rule held`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd, o, *f)
		},
	}

	cmd.Flags().IntVarP(&f.jobs, "jobs", "j", 0, "targets to patch in parallel (default: rule file jobs, or 1)")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "apply rules in memory without writing")
	cmd.Flags().BoolVar(&f.diff, "diff", false, "print a diff of each patched file")

	return cmd
}

// NewCheckCmd creates the check command, a dry run of apply
func NewCheckCmd(o *opts.RootOpts) *cobra.Command {
	f := &applyFlags{dryRun: true}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify every rule matches without writing",
		Long: `Check runs every rule against its target in memory and reports the
match counts. No file is written; the command fails if any rule would.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd, o, *f)
		},
	}

	cmd.Flags().IntVarP(&f.jobs, "jobs", "j", 0, "targets to check in parallel (default: rule file jobs, or 1)")
	cmd.Flags().BoolVar(&f.diff, "diff", false, "print a diff of each file that would change")

	return cmd
}

func runApply(cmd *cobra.Command, o *opts.RootOpts, f applyFlags) error {
	ctx := zerolog.Ctx(cmd.Context()).With().Str("command", cmd.Name()).Logger().WithContext(cmd.Context())
	console := log.FromContext(ctx)
	out := cmd.OutOrStdout()

	cfg, err := config.Load(ctx, o.ConfigFile)
	if err != nil {
		return errors.Errorf("loading rules: %w", err)
	}

	targets, err := cfg.Build(ctx)
	if err != nil {
		return errors.Errorf("building targets: %w", err)
	}

	jobs := f.jobs
	if jobs == 0 {
		jobs = cfg.Jobs
	}
	r := runner.New(runner.Options{DryRun: f.dryRun, Jobs: jobs})

	mode := "applying"
	if f.dryRun {
		mode = "checking"
	}
	console.Header(fmt.Sprintf("%s %s", mode, cfg.Location()))

	reports, err := r.RunAll(ctx, targets)
	if reports == nil {
		return err
	}

	for _, rep := range reports {
		console.LogSession(ctx, rep)
		if f.diff && rep.OK() && rep.Changed {
			fmt.Fprint(out, text.Diff(rep.Path, rep.Before, rep.After))
			console.LogNewline()
		}
	}
	console.Summary()

	if err != nil {
		console.Errorf("%s; failed targets were left untouched", err)
		return err
	}

	if f.dryRun {
		console.Successf("all rules match in %d target(s)", len(reports))
	} else {
		console.Successf("all rules applied to %d target(s)", len(reports))
	}
	return nil
}
