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

// Package config loads guardpatch rule files.
//
// A rule file lists targets and, for each, the ordered rules to apply. YAML
// (.yaml, .yml), HCL (.hcl) and JSON (.json) are supported through a small
// parser registry keyed on the file extension:
//
//	targets:
//	  - path: client/src/layout/layout.tsx
//	    rules:
//	      - name: footer
//	        regex: '<footer className="border-t">.*?</footer>'
//	        flags: s
//	        replace_file: snippets/footer.tsx
//
// Target paths may be doublestar globs ("src/**/*.tsx"); relative paths
// resolve against the directory holding the rule file. Load validates the
// file and Build turns it into runner targets.
package config
