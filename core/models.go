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


package core

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/go-crypt/x/blake2b"
)

// Record is a single knowledge entry: a JSON object whose keys keep their
// insertion order. Values are held as raw JSON and never interpreted, so
// nested structure, number formatting, and non-ASCII text pass through a
// load/store cycle unchanged apart from reindentation.
type Record struct {
	keys   []string
	values map[string]json.RawMessage
}

// NewRecord creates an empty record.
func NewRecord() *Record {
	return &Record{values: make(map[string]json.RawMessage)}
}

// Len returns the number of keys in the record.
func (r *Record) Len() int {
	return len(r.keys)
}

// Keys returns the record's keys in insertion order.
func (r *Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Has reports whether the record contains the given key.
func (r *Record) Has(key string) bool {
	_, ok := r.values[key]
	return ok
}

// Get returns the raw JSON value for the given key.
func (r *Record) Get(key string) (json.RawMessage, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Set stores a raw JSON value under the given key. An existing key keeps its
// position; a new key is appended.
func (r *Record) Set(key string, value json.RawMessage) {
	if r.values == nil {
		r.values = make(map[string]json.RawMessage)
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Delete removes the given key and reports whether it was present.
// Deleting an absent key is a no-op.
func (r *Record) Delete(key string) bool {
	if _, ok := r.values[key]; !ok {
		return false
	}
	delete(r.values, key)
	for i, k := range r.keys {
		if k == key {
			r.keys = append(r.keys[:i], r.keys[i+1:]...)
			break
		}
	}
	return true
}

// Clone returns a copy of the record. Raw values are shared; they are
// treated as immutable throughout this module.
func (r *Record) Clone() Record {
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	values := make(map[string]json.RawMessage, len(r.values))
	for k, v := range r.values {
		values[k] = v
	}
	return Record{keys: keys, values: values}
}

// MarshalJSON encodes the record with keys in insertion order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(r.values[key])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, preserving key order. A duplicate key
// keeps its first position and takes the last value, matching ordinary JSON
// object semantics. Non-object input fails with ErrNotObject.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("%w: got %s", ErrNotObject, tokenName(tok))
	}

	keys := []string{}
	values := make(map[string]json.RawMessage)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("%w: got %s", ErrInvalidKey, tokenName(tok))
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return err
		}
		if _, seen := values[key]; !seen {
			keys = append(keys, key)
		}
		values[key] = value
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	r.keys = keys
	r.values = values
	return nil
}

// Document is the full ordered collection of records in a knowledge file.
type Document []Record

// UnmarshalJSON decodes a JSON array of objects. The top-level shape is
// validated here so that malformed documents fail fast with a descriptive
// error instead of a low-level type fault further down the pipeline.
func (d *Document) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return fmt.Errorf("%w: got %s", ErrNotArray, tokenName(tok))
	}

	records := make([]Record, 0)
	for dec.More() {
		var record Record
		if err := dec.Decode(&record); err != nil {
			return fmt.Errorf("record %d: %w", len(records), err)
		}
		records = append(records, record)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*d = records
	return nil
}

// Digest returns a hex-encoded BLAKE2b fingerprint of the given bytes.
// Identical content always produces an identical digest.
func Digest(data []byte) string {
	h, _ := blake2b.New(16, nil)
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// tokenName describes a JSON token for error messages.
func tokenName(tok json.Token) string {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return "object"
		case '[':
			return "array"
		}
		return string(t)
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	case nil:
		return "null"
	}
	return "unknown token"
}
