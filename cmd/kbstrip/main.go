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


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/kbstrip"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "kbstrip",
		Usage: "Maintenance tool for Q&A knowledge documents",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "strip",
				Usage:  "Remove embedding fields from every record of a knowledge file",
				Action: stripCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "file",
						Aliases: []string{"f"},
						Usage:   "Path to the knowledge JSON file",
						Value:   kbstrip.DefaultPath,
					},
					&cli.StringSliceFlag{
						Name:  "field",
						Usage: "Field name to remove (repeatable)",
						Value: cli.NewStringSlice("embedding"),
					},
					&cli.IntFlag{
						Name:  "indent",
						Usage: "Spaces per nesting level in the output",
						Value: 2,
					},
					&cli.BoolFlag{
						Name:  "ascii",
						Usage: "Escape non-ASCII characters in the output",
					},
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "Report what would change without writing the file",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of records to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N records",
						Value: 100,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func stripCommand(c *cli.Context) error {
	ctx := context.Background()

	path := c.String("file")
	if path == "" {
		return fmt.Errorf("file path is required")
	}

	fields := c.StringSlice("field")
	if len(fields) == 0 {
		return fmt.Errorf("at least one field is required")
	}

	if c.Int("indent") < 0 {
		return fmt.Errorf("indent must not be negative")
	}
	if c.Int("batch-size") <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if c.Int("report-interval") <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}

	pipeline := kbstrip.NewPipeline(path,
		kbstrip.WithFields(fields...),
		kbstrip.WithIndent(c.Int("indent")),
		kbstrip.WithASCIIOnly(c.Bool("ascii")),
		kbstrip.WithDryRun(c.Bool("dry-run")),
		kbstrip.WithBatchSize(c.Int("batch-size")),
		kbstrip.WithReportInterval(c.Int("report-interval")),
	)

	fmt.Fprintf(os.Stderr, "File: %s\n", path)
	fmt.Fprintf(os.Stderr, "Fields: %s\n", strings.Join(fields, ", "))
	if c.Bool("dry-run") {
		fmt.Fprintln(os.Stderr, "Mode: dry run")
	}
	fmt.Fprintln(os.Stderr)

	summary, err := pipeline.Run(ctx)
	if err != nil {
		return fmt.Errorf("strip failed: %w", err)
	}

	if summary.DryRun {
		fmt.Fprintf(os.Stderr, "Dry run: %d of %d records would be modified (%d fields)\n",
			summary.Modified, summary.Scanned, summary.Removed)
	}

	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
