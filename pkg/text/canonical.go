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
	"bytes"
	"strings"
	"unicode/utf8"

	"gitlab.com/tozd/go/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/unicode/norm"
)

// DefaultEncoding is assumed when a target does not declare one
const DefaultEncoding = "utf-8"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// 🔧 Options controls how raw file bytes become canonical text
type Options struct {
	// Encoding is the WHATWG name of the file's encoding (utf-8, windows-1252, ...)
	Encoding string
	// NFC normalizes the decoded text to Unicode normalization form C
	NFC bool
	// Newlines converts CRLF line endings to LF while patching and restores them on write
	Newlines bool
}

// 📄 Canonical is decoded text plus what is needed to encode it back
type Canonical struct {
	Text     string
	Encoding string
	BOM      bool
	CRLF     bool
}

// Canonicalize decodes raw into UTF-8 text so patterns never have to know
// how the file was stored on disk.
func Canonicalize(raw []byte, opts Options) (*Canonical, error) {
	name, enc, err := lookup(opts.Encoding)
	if err != nil {
		return nil, err
	}

	c := &Canonical{Encoding: name}

	var decoded []byte
	if enc == unicode.UTF8 {
		if !utf8.Valid(raw) {
			return nil, errors.Errorf("content is not valid %s; declare its encoding", name)
		}
		c.BOM = bytes.HasPrefix(raw, utf8BOM)
		decoded = bytes.TrimPrefix(raw, utf8BOM)
	} else {
		decoded, err = enc.NewDecoder().Bytes(raw)
		if err != nil {
			return nil, errors.Errorf("decoding %s: %w", name, err)
		}
		// bytes the encoding leaves undefined decode without error but
		// cannot be written back
		back, err := enc.NewEncoder().Bytes(decoded)
		if err != nil || !bytes.Equal(back, raw) {
			return nil, errors.Errorf("content is not valid %s; declare its encoding", name)
		}
	}

	if opts.NFC {
		decoded = norm.NFC.Bytes(decoded)
	}

	text := string(decoded)
	if opts.Newlines && strings.Contains(text, "\r\n") && !hasBareLF(text) {
		c.CRLF = true
		text = strings.ReplaceAll(text, "\r\n", "\n")
	}

	c.Text = text
	return c, nil
}

// Encode turns canonical text back into the bytes the file was stored with.
// When the file used CRLF, line endings in text are normalized first so a
// replacement carrying its own CRLF does not gain a second CR.
func (c *Canonical) Encode(text string) ([]byte, error) {
	if c.CRLF {
		text = strings.ReplaceAll(text, "\r\n", "\n")
		text = strings.ReplaceAll(text, "\n", "\r\n")
	}

	_, enc, err := lookup(c.Encoding)
	if err != nil {
		return nil, err
	}

	if enc == unicode.UTF8 {
		if c.BOM {
			return append(append([]byte{}, utf8BOM...), text...), nil
		}
		return []byte(text), nil
	}

	out, err := enc.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, errors.Errorf("encoding %s: %w", c.Encoding, err)
	}
	return out, nil
}

func lookup(name string) (string, encoding.Encoding, error) {
	if name == "" {
		name = DefaultEncoding
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return "", nil, errors.Errorf("unknown encoding %q: %w", name, err)
	}
	canonical, err := htmlindex.Name(enc)
	if err != nil {
		canonical = strings.ToLower(name)
	}
	return canonical, enc, nil
}

func hasBareLF(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' && (i == 0 || s[i-1] != '\r') {
			return true
		}
	}
	return false
}
