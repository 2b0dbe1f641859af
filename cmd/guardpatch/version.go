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

package main

import (
	"encoding/json"
	"fmt"
	"runtime"
	"runtime/debug"
	"slices"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/walteh/guardpatch/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// 🔧 libraries whose versions decide how rule files and targets are read
var reportedLibraries = []string{
	"github.com/hashicorp/hcl/v2",
	"gopkg.in/yaml.v3",
	"golang.org/x/text",
	"github.com/bmatcuk/doublestar/v4",
}

// BuildInfo describes the binary and the rule file formats it reads
type BuildInfo struct {
	Version     string            `json:"version"`
	Revision    string            `json:"revision,omitempty"`
	Modified    bool              `json:"modified,omitempty"`
	Time        string            `json:"time,omitempty"`
	GoVersion   string            `json:"go_version"`
	Platform    string            `json:"platform"`
	RuleFormats []string          `json:"rule_formats"`
	Libraries   map[string]string `json:"libraries,omitempty"`
}

// readBuildInfo collects build metadata from the running binary
func readBuildInfo() *BuildInfo {
	info := &BuildInfo{
		Version:     "dev",
		GoVersion:   runtime.Version(),
		Platform:    runtime.GOOS + "/" + runtime.GOARCH,
		RuleFormats: config.Formats(),
		Libraries:   map[string]string{},
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	if v := bi.Main.Version; v != "" && v != "(devel)" {
		info.Version = v
	}
	for _, setting := range bi.Settings {
		switch setting.Key {
		case "vcs.revision":
			info.Revision = setting.Value
		case "vcs.time":
			info.Time = setting.Value
		case "vcs.modified":
			info.Modified = setting.Value == "true"
		}
	}
	for _, dep := range bi.Deps {
		if slices.Contains(reportedLibraries, dep.Path) {
			info.Libraries[dep.Path] = dep.Version
		}
	}
	return info
}

// String renders the build info for humans
func (b *BuildInfo) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🚀 guardpatch %s (%s, %s)\n", b.Version, b.GoVersion, b.Platform)
	if b.Revision != "" {
		dirty := ""
		if b.Modified {
			dirty = " +dirty"
		}
		fmt.Fprintf(&sb, "   revision %s%s %s\n", b.Revision, dirty, b.Time)
	}
	fmt.Fprintf(&sb, "   rule files: %s\n", strings.Join(b.RuleFormats, " "))

	paths := make([]string, 0, len(b.Libraries))
	for p := range b.Libraries {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		fmt.Fprintf(&sb, "   %s %s\n", p, b.Libraries[p])
	}
	return sb.String()
}

func newVersionCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information and supported rule file formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := readBuildInfo()
			if !asJSON {
				fmt.Fprint(cmd.OutOrStdout(), info.String())
				return nil
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(info); err != nil {
				return errors.Errorf("encoding build info: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}
