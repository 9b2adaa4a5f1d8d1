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


// Package kbstrip removes embedding fields from Q&A knowledge documents.
//
// A knowledge document is a JSON array of question-answer records. The
// pipeline loads the document, strips one or more named fields from every
// record that carries them, and writes the result back pretty-printed,
// replacing the file atomically.
package kbstrip

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/poiesic/kbstrip/core"
	"github.com/poiesic/kbstrip/storage"
	"github.com/poiesic/kbstrip/strip"
)

// DefaultPath is the knowledge file operated on when no path is given.
const DefaultPath = "insurance_knowledge.json"

// Pipeline runs the load, strip, write sequence against one knowledge file.
// The stages are strictly sequential: loading completes before any record is
// touched, stripping completes before serialization, and the file is only
// replaced once the full output has been written to a temporary file.
type Pipeline struct {
	path     string
	stripper *strip.Stripper
	write    storage.WriteOptions
	dryRun   bool
	logger   *slog.Logger
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*pipelineOptions)

type pipelineOptions struct {
	stripConfig *strip.Config
	write       storage.WriteOptions
	dryRun      bool
	progress    io.Writer
}

// WithFields sets the field names to remove from each record.
func WithFields(fields ...string) PipelineOption {
	return func(o *pipelineOptions) {
		o.stripConfig.Fields = fields
	}
}

// WithBatchSize sets how many records are processed per batch.
func WithBatchSize(n int) PipelineOption {
	return func(o *pipelineOptions) {
		o.stripConfig.BatchSize = n
	}
}

// WithReportInterval sets how often progress is reported, in records.
func WithReportInterval(n int) PipelineOption {
	return func(o *pipelineOptions) {
		o.stripConfig.ReportInterval = n
	}
}

// WithIndent sets the number of spaces per nesting level in the output.
func WithIndent(n int) PipelineOption {
	return func(o *pipelineOptions) {
		o.write.Indent = n
	}
}

// WithASCIIOnly escapes non-ASCII characters in the output when set.
func WithASCIIOnly(on bool) PipelineOption {
	return func(o *pipelineOptions) {
		o.write.ASCIIOnly = on
	}
}

// WithDryRun runs the full pipeline but skips the final write.
func WithDryRun(on bool) PipelineOption {
	return func(o *pipelineOptions) {
		o.dryRun = on
	}
}

// WithProgress sets where progress output is written. Defaults to stderr.
func WithProgress(w io.Writer) PipelineOption {
	return func(o *pipelineOptions) {
		o.progress = w
	}
}

// NewPipeline creates a pipeline for the knowledge file at path.
// An empty path selects DefaultPath.
func NewPipeline(path string, opts ...PipelineOption) *Pipeline {
	options := &pipelineOptions{
		stripConfig: strip.DefaultConfig(),
		write:       storage.DefaultWriteOptions(),
		progress:    os.Stderr,
	}
	for _, opt := range opts {
		opt(options)
	}

	if path == "" {
		path = DefaultPath
	}

	return &Pipeline{
		path:     path,
		stripper: strip.NewStripper(options.stripConfig, options.progress),
		write:    options.write,
		dryRun:   options.dryRun,
		logger:   slog.Default(),
	}
}

// Summary describes a completed pipeline run.
type Summary struct {
	// Scanned is the number of records visited
	Scanned int

	// Modified is the number of records that lost at least one field
	Modified int

	// Removed is the total number of fields removed
	Removed int

	// Bytes is the size of the encoded output document
	Bytes int

	// Digest is a content fingerprint of the encoded output
	Digest string

	// DryRun reports whether the write stage was skipped
	DryRun bool
}

// Run executes the pipeline. Any failure before the write stage leaves the
// file untouched; the write itself is atomic.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	doc, err := storage.Load(p.path)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("document loaded", "path", p.path, "records", len(doc))

	result, err := p.stripper.Run(ctx, doc)
	if err != nil {
		return nil, err
	}

	out, err := storage.Encode(doc, p.write)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Scanned:  result.Scanned,
		Modified: result.Modified,
		Removed:  result.Removed,
		Bytes:    len(out),
		Digest:   core.Digest(out),
		DryRun:   p.dryRun,
	}

	if p.dryRun {
		p.logger.Info("dry run, file left untouched",
			"path", p.path, "modified", summary.Modified, "digest", summary.Digest)
		return summary, nil
	}

	if err := storage.Write(p.path, out); err != nil {
		return nil, err
	}
	p.logger.Debug("document written",
		"path", p.path, "bytes", summary.Bytes, "digest", summary.Digest)

	return summary, nil
}
