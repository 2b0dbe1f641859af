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

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/guardpatch/pkg/patch"
	"github.com/walteh/guardpatch/pkg/pattern"
)

func ptr[T any](v T) *T {
	return &v
}

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel)
	return logger.WithContext(context.Background())
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	want := []Target{
		{
			Path:     "layout.tsx",
			Encoding: "windows-1252",
			Rules: []Rule{
				{Name: "nav", Regex: "<nav>.*?</nav>", Flags: "s", Count: ptr(1), Replace: ptr("<nav/>")},
				{Name: "remove banner", Literal: "<Banner />", Count: ptr(2), Replace: ptr("")},
			},
		},
	}

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "yaml",
			file: "rules.yaml",
			content: `jobs: 2
targets:
  - path: layout.tsx
    encoding: windows-1252
    rules:
      - name: nav
        regex: '<nav>.*?</nav>'
        flags: s
        replace: "<nav/>"
      - name: remove banner
        literal: "<Banner />"
        count: 2
        replace: ""
`,
		},
		{
			name: "yml",
			file: "rules.yml",
			content: `jobs: 2
targets:
  - path: layout.tsx
    encoding: windows-1252
    rules:
      - {name: nav, regex: '<nav>.*?</nav>', flags: s, replace: "<nav/>"}
      - {name: remove banner, literal: "<Banner />", count: 2, replace: ""}
`,
		},
		{
			name: "hcl",
			file: "rules.hcl",
			content: `jobs = 2

target "layout.tsx" {
  encoding = "windows-1252"

  rule "nav" {
    regex   = "<nav>.*?</nav>"
    flags   = "s"
    replace = "<nav/>"
  }

  rule "remove banner" {
    literal = "<Banner />"
    count   = 2
    replace = ""
  }
}
`,
		},
		{
			name: "json",
			file: "rules.json",
			content: `{
  "jobs": 2,
  "targets": [
    {
      "path": "layout.tsx",
      "encoding": "windows-1252",
      "rules": [
        {"name": "nav", "regex": "<nav>.*?</nav>", "flags": "s", "replace": "<nav/>"},
        {"name": "remove banner", "literal": "<Banner />", "count": 2, "replace": ""}
      ]
    }
  ]
}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := writeFile(t, dir, tt.file, tt.content)

			cfg, err := Load(testContext(t), path)
			require.NoError(t, err)

			assert.Equal(t, 2, cfg.Jobs)
			assert.Equal(t, want, cfg.Targets)
			assert.Equal(t, path, cfg.Location())
			assert.Equal(t, dir, cfg.baseDir)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{
			name:    "unsupported extension",
			file:    "rules.toml",
			content: "",
			wantErr: "unsupported config file",
		},
		{
			name: "unknown yaml field",
			file: "rules.yaml",
			content: `targets:
  - path: a.txt
    rules:
      - name: a
        literal: x
        replacement: y
`,
			wantErr: "field replacement not found",
		},
		{
			name:    "unknown json field",
			file:    "rules.json",
			content: `{"targets": [], "verbose": true}`,
			wantErr: `unknown field "verbose"`,
		},
		{
			name:    "bad hcl",
			file:    "rules.hcl",
			content: `target "a.txt" {`,
			wantErr: "parsing HCL",
		},
		{
			name: "missing hcl file",
			file: "rules.hcl",
			content: `target "a.txt" {
  rule "a" {
    literal = "x"
    replace = file("missing.txt")
  }
}
`,
			wantErr: "decoding HCL",
		},
		{
			name: "invalid config",
			file: "rules.yaml",
			content: `targets:
  - path: a.txt
    rules:
      - name: a
        literal: x
        count: 0
        replace: y
`,
			wantErr: "count must be at least 1, got 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), tt.file, tt.content)

			_, err := Load(testContext(t), path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate(t *testing.T) {
	rule := func(mod func(r *Rule)) Config {
		r := Rule{Name: "r", Literal: "x", Replace: ptr("y")}
		mod(&r)
		return Config{Targets: []Target{{Path: "a.txt", Rules: []Rule{r}}}}
	}

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name:    "no targets",
			cfg:     Config{},
			wantErr: "no targets defined",
		},
		{
			name:    "negative jobs",
			cfg:     Config{Jobs: -1},
			wantErr: "jobs must not be negative",
		},
		{
			name:    "missing path",
			cfg:     Config{Targets: []Target{{Rules: []Rule{{Name: "r"}}}}},
			wantErr: "target 0: path is required",
		},
		{
			name:    "no rules",
			cfg:     Config{Targets: []Target{{Path: "a.txt"}}},
			wantErr: `target "a.txt": no rules defined`,
		},
		{
			name:    "missing name",
			cfg:     rule(func(r *Rule) { r.Name = "" }),
			wantErr: "rule 0: name is required",
		},
		{
			name: "duplicate name",
			cfg: Config{Targets: []Target{{Path: "a.txt", Rules: []Rule{
				{Name: "r", Literal: "x", Replace: ptr("y")},
				{Name: "r", Literal: "z", Replace: ptr("y")},
			}}}},
			wantErr: `duplicate rule name "r"`,
		},
		{
			name:    "no matcher",
			cfg:     rule(func(r *Rule) { r.Literal = "" }),
			wantErr: "one of literal or regex is required",
		},
		{
			name:    "both matchers",
			cfg:     rule(func(r *Rule) { r.Regex = "x+" }),
			wantErr: "literal and regex are mutually exclusive",
		},
		{
			name:    "flags on literal",
			cfg:     rule(func(r *Rule) { r.Flags = "s" }),
			wantErr: "flags apply to regex rules only",
		},
		{
			name:    "expand on literal",
			cfg:     rule(func(r *Rule) { r.Expand = true }),
			wantErr: "expand applies to regex rules only",
		},
		{
			name:    "zero count",
			cfg:     rule(func(r *Rule) { r.Count = ptr(0) }),
			wantErr: "count must be at least 1, got 0",
		},
		{
			name:    "no replacement",
			cfg:     rule(func(r *Rule) { r.Replace = nil }),
			wantErr: "one of replace or replace_file is required",
		},
		{
			name:    "both replacements",
			cfg:     rule(func(r *Rule) { r.ReplaceFile = "y.txt" }),
			wantErr: "replace and replace_file are mutually exclusive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	cfg := Config{Targets: []Target{{
		Path:  "a.txt",
		Rules: []Rule{{Name: "r", Regex: "x+", Replace: ptr("y")}},
	}}}

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "utf-8", cfg.Targets[0].Encoding)
	require.NotNil(t, cfg.Targets[0].Rules[0].Count)
	assert.Equal(t, 1, *cfg.Targets[0].Rules[0].Count)
}

func TestBuild(t *testing.T) {
	t.Setenv("GUARDPATCH_TEST_NAME", "world")

	dir := t.TempDir()
	writeFile(t, dir, "src/a.tsx", "")
	writeFile(t, dir, "src/nested/b.tsx", "")
	writeFile(t, dir, "src/c.css", "")
	writeFile(t, dir, "snippets/footer.txt", "<footer class=\"x\">$1</footer>\n\n")
	path := writeFile(t, dir, "rules.hcl", `
target "src/**/*.tsx" {
  newlines = true

  rule "greeting" {
    literal = "Hello"
    replace = format("Hello, %s", upper(env.GUARDPATCH_TEST_NAME))
  }

  rule "footer" {
    regex   = "<footer>(.*?)</footer>"
    flags   = "s"
    expand  = true
    replace = trimspace(file("snippets/footer.txt"))
  }
}
`)

	ctx := testContext(t)
	cfg, err := Load(ctx, path)
	require.NoError(t, err)

	targets, err := cfg.Build(ctx)
	require.NoError(t, err)
	require.Len(t, targets, 2)

	assert.Equal(t, filepath.Join(dir, "src", "a.tsx"), targets[0].Path)
	assert.Equal(t, filepath.Join(dir, "src", "nested", "b.tsx"), targets[1].Path)
	assert.True(t, targets[0].Text.Newlines)
	assert.Equal(t, "utf-8", targets[0].Text.Encoding)

	rules := targets[0].Rules
	require.Len(t, rules, 2)
	assert.Equal(t, pattern.KindLiteral, rules[0].Pattern.Kind())
	assert.Equal(t, pattern.KindRegex, rules[1].Pattern.Kind())

	doc := patch.NewDocument("a.tsx", "Hello\n<footer>\nbye\n</footer>\n")
	out, results, err := patch.ApplyAll(ctx, doc, rules)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Hello, WORLD\n<footer class=\"x\">\nbye\n</footer>\n", out.Text())
}

func TestBuildReplaceFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "snippets/nav.tsx", "<nav>$1</nav>")
	cfg := Config{
		baseDir: dir,
		Targets: []Target{{
			Path: "layout.tsx",
			Rules: []Rule{
				{Name: "nav", Regex: "<div>(x)</div>", ReplaceFile: "snippets/nav.tsx"},
			},
		}},
	}
	require.NoError(t, cfg.Validate())

	targets, err := cfg.Build(testContext(t))
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, filepath.Join(dir, "layout.tsx"), targets[0].Path)

	// without expand the template text is inserted as-is
	out, res := patch.Apply(patch.NewDocument("layout.tsx", "<div>x</div>"), targets[0].Rules[0])
	require.True(t, res.Applied)
	assert.Equal(t, "<nav>$1</nav>", out.Text())
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name    string
		target  Target
		wantErr string
	}{
		{
			name: "glob matches nothing",
			target: Target{Path: "src/**/*.vue", Rules: []Rule{
				{Name: "r", Literal: "x", Replace: ptr("y")},
			}},
			wantErr: `glob "src/**/*.vue" matched no files`,
		},
		{
			name: "bad regex",
			target: Target{Path: "a.txt", Rules: []Rule{
				{Name: "r", Regex: "(", Replace: ptr("y")},
			}},
			wantErr: `rule "r"`,
		},
		{
			name: "missing replacement file",
			target: Target{Path: "a.txt", Rules: []Rule{
				{Name: "r", Literal: "x", ReplaceFile: "missing.txt"},
			}},
			wantErr: "reading replacement file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{baseDir: t.TempDir(), Targets: []Target{tt.target}}
			require.NoError(t, cfg.Validate())

			_, err := cfg.Build(testContext(t))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetParser(t *testing.T) {
	tests := []struct {
		file string
		want Parser
	}{
		{"rules.yaml", &YAMLParser{}},
		{"rules.yml", &YAMLParser{}},
		{"rules.hcl", &HCLParser{}},
		{"rules.json", &JSONParser{}},
		{"rules.toml", nil},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			got := GetParser(tt.file)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			assert.IsType(t, tt.want, got)
		})
	}
}

func TestFormats(t *testing.T) {
	assert.ElementsMatch(t, []string{".hcl", ".json", ".yaml", ".yml"}, Formats())
}
