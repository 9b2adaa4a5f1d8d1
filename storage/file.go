// Copyright 2025 Poiesic Systems
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


package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/poiesic/kbstrip/core"
)

// WriteOptions controls document serialization.
type WriteOptions struct {
	// Indent is the number of spaces per nesting level. Zero emits
	// compact output.
	Indent int

	// ASCIIOnly escapes non-ASCII characters as \uXXXX sequences.
	// The default emits them literally.
	ASCIIOnly bool
}

// DefaultWriteOptions returns the standard output format: two-space
// indentation with non-ASCII characters emitted literally.
func DefaultWriteOptions() WriteOptions {
	return WriteOptions{Indent: 2}
}

// Load reads and decodes the knowledge document at path.
func Load(path string) (core.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read knowledge file: %w", err)
	}
	return Decode(data)
}

// Decode parses raw bytes into a Document. Malformed JSON is reported as
// ErrParse; shape violations keep their core sentinel errors so callers can
// distinguish a syntax problem from an unexpected document layout.
func Decode(data []byte) (core.Document, error) {
	var doc core.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		if errors.Is(err, core.ErrNotArray) ||
			errors.Is(err, core.ErrNotObject) ||
			errors.Is(err, core.ErrInvalidKey) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return doc, nil
}

// Encode serializes a Document according to opts. The output always ends
// with a newline.
func Encode(doc core.Document, opts WriteOptions) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if opts.Indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", opts.Indent))
	}
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncode, err)
	}

	out := buf.Bytes()
	if opts.ASCIIOnly {
		out = escapeNonASCII(out)
	}
	return out, nil
}

// Write atomically replaces the file at path with data. The bytes land in a
// temporary file in the same directory first and are renamed into place only
// after a successful sync, so the original content survives any failure
// before the rename. An existing file keeps its permission bits.
func Write(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Chmod(tmpName, mode); err != nil {
		return fmt.Errorf("set file mode: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace knowledge file: %w", err)
	}
	return nil
}

// Save encodes the document and atomically writes it to path.
func Save(path string, doc core.Document, opts WriteOptions) error {
	data, err := Encode(doc, opts)
	if err != nil {
		return err
	}
	return Write(path, data)
}

// escapeNonASCII rewrites every non-ASCII rune in a JSON text as \uXXXX
// escape sequences, using surrogate pairs above the basic plane. Multi-byte
// sequences can only occur inside string literals in valid JSON, so the
// whole encoded document can be rewritten in one pass.
func escapeNonASCII(data []byte) []byte {
	i := bytes.IndexFunc(data, func(r rune) bool { return r >= utf8.RuneSelf })
	if i < 0 {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))
	buf.Write(data[:i])
	for i < len(data) {
		b := data[i]
		if b < utf8.RuneSelf {
			buf.WriteByte(b)
			i++
			continue
		}
		r, size := utf8.DecodeRune(data[i:])
		i += size
		if r > 0xFFFF {
			hi, lo := utf16.EncodeRune(r)
			fmt.Fprintf(&buf, `\u%04x\u%04x`, hi, lo)
		} else {
			fmt.Fprintf(&buf, `\u%04x`, r)
		}
	}
	return buf.Bytes()
}
