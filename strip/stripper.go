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


package strip

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/poiesic/kbstrip/core"
)

// Config holds configuration for a strip operation.
type Config struct {
	// Fields is the list of field names to remove from each record
	Fields []string

	// BatchSize is the number of records to process in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of records)
	ReportInterval int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Fields:         []string{"embedding"},
		BatchSize:      100,
		ReportInterval: 100,
	}
}

// Result summarizes a completed strip operation.
type Result struct {
	// Scanned is the number of records visited
	Scanned int

	// Modified is the number of records that lost at least one field
	Modified int

	// Removed is the total number of fields removed
	Removed int
}

// Stripper removes configured fields from every record of a document.
type Stripper struct {
	config   *Config
	progress io.Writer
}

// NewStripper creates a new stripper.
// progress: where to write progress output (typically os.Stderr)
func NewStripper(config *Config, progress io.Writer) *Stripper {
	if config == nil {
		config = DefaultConfig()
	} else {
		// Copy so defaulting never mutates the caller's config.
		copied := *config
		config = &copied
	}
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultBatchSize
	}

	return &Stripper{
		config:   config,
		progress: progress,
	}
}

// Run removes the configured fields from every record of doc, in place.
// Record count and order are unchanged; records lacking a configured field
// pass through untouched, which makes the operation idempotent.
func (s *Stripper) Run(ctx context.Context, doc core.Document) (*Result, error) {
	if len(s.config.Fields) == 0 {
		return nil, ErrNoFields
	}

	total := len(doc)
	if total == 0 {
		fmt.Fprintf(s.progress, "No records found in document (0 records)\n")
		return &Result{}, nil
	}

	fmt.Fprintf(s.progress, "Stripping %s from %d records (batch size: %d)\n",
		strings.Join(s.config.Fields, ", "), total, s.config.BatchSize)

	tracker := NewProgressTracker(s.progress, total, s.config.ReportInterval)
	tracker.Start()

	result := &Result{}
	iterator := NewDocumentIterator(doc, s.config.BatchSize)

	err := iterator.ForEach(ctx, func(batch []core.Record) error {
		for i := range batch {
			removed := 0
			for _, field := range s.config.Fields {
				if batch[i].Delete(field) {
					removed++
				}
			}
			result.Scanned++
			result.Removed += removed
			if removed > 0 {
				result.Modified++
			}
		}

		tracker.Update(result.Scanned, result.Modified)
		return nil
	})

	if err != nil {
		return nil, err
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(s.progress, "Strip complete. Modified %d of %d records (%d fields removed) in %v\n",
		result.Modified, result.Scanned, result.Removed, elapsed.Round(time.Millisecond))

	return result, nil
}
