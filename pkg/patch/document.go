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

// 📄 Document is an immutable snapshot of a file's text
type Document struct {
	path string
	text string
}

// NewDocument creates a document for the text read from path
func NewDocument(path, text string) Document {
	return Document{path: path, text: text}
}

// Path returns the source path the document was read from
func (d Document) Path() string { return d.path }

// Text returns the document content
func (d Document) Text() string { return d.text }

func (d Document) withText(text string) Document {
	return Document{path: d.path, text: text}
}
