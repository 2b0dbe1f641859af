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
	"strings"

	"github.com/spf13/cobra"
	"github.com/walteh/guardpatch/cmd/guardpatch/opts"
	"github.com/walteh/guardpatch/pkg/log"
	"github.com/walteh/guardpatch/pkg/pattern"
	"github.com/walteh/guardpatch/pkg/runner"
	"github.com/walteh/guardpatch/pkg/text"
	"gitlab.com/tozd/go/errors"
)

const snippetWidth = 60

// NewScanCmd creates the scan command
func NewScanCmd(o *opts.RootOpts) *cobra.Command {
	var (
		literal  bool
		flags    string
		encoding string
	)

	cmd := &cobra.Command{
		Use:   "scan <file> <pattern>",
		Short: "List every match of a pattern in a file",
		Long: `Scan prints each match of a pattern with its line number and byte span.
It never writes, and is meant for writing rules: a pattern that should be
used in a rule ought to match exactly as often as the rule will declare.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			console := log.FromContext(ctx)
			path, expr := args[0], args[1]

			var (
				p   *pattern.Pattern
				err error
			)
			if literal {
				if flags != "" {
					return errors.New("--flags applies to regex patterns only")
				}
				p, err = pattern.Literal(expr, 1)
			} else {
				p, err = pattern.Regex(expr, flags, 1)
			}
			if err != nil {
				return err
			}

			found, err := runner.New(runner.Options{}).Scan(ctx, path, p, text.Options{Encoding: encoding})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, f := range found {
				fmt.Fprintf(out, "%s:%d %s %s\n", path, f.Line, f.Span, snippet(f.Text))
			}
			if len(found) == 0 {
				console.Warningf("no matches of %s", p)
				return nil
			}
			console.Infof("%d match(es) of %s", len(found), p)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&literal, "literal", "l", false, "match the pattern as exact text")
	cmd.Flags().StringVarP(&flags, "flags", "f", "", "regex flags (i, m, s, U)")
	cmd.Flags().StringVar(&encoding, "encoding", text.DefaultEncoding, "file encoding")

	return cmd
}

// snippet shows the first line of a match, shortened for display
func snippet(s string) string {
	first, _, multi := strings.Cut(s, "\n")
	r := []rune(first)
	if len(r) > snippetWidth {
		return string(r[:snippetWidth]) + "…"
	}
	if multi {
		return first + " …"
	}
	return first
}
