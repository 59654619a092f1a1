package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/sd3v/wrapped/internal/formatter"
	"github.com/sd3v/wrapped/internal/shared"
	"github.com/urfave/cli/v3"
)

// WrappedFetch builds a snapshot and prints it to the output writer.
func (r *Runner) WrappedFetch(ctx context.Context, cmd *cli.Command) error {
	snapshot, err := r.snapshot(ctx, cmd.String("time-range"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(snapshot, cmd.Bool("pretty"))
	}

	text, err := formatter.ExportToText(snapshot)
	if err != nil {
		return err
	}
	return r.writePlain("%s", text)
}

// WrappedExport builds a snapshot and writes it to disk in the requested format.
func (r *Runner) WrappedExport(ctx context.Context, cmd *cli.Command) error {
	snapshot, err := r.snapshot(ctx, cmd.String("time-range"))
	if err != nil {
		return err
	}

	output := cmd.String("output")

	switch strings.ToLower(cmd.String("format")) {
	case "text":
		path, err := formatter.WriteTextExport(snapshot, output)
		if err != nil {
			return err
		}
		return r.writePlain("✓ Exported to %s\n", path)

	case "markdown", "md":
		path, err := formatter.WriteMarkdownExport(snapshot, output)
		if err != nil {
			return err
		}
		return r.writePlain("✓ Exported to %s\n", path)

	case "csv":
		files, err := formatter.WriteCSVExport(snapshot, output)
		if err != nil {
			return err
		}
		return r.writePlain("✓ Exported to %s\n", strings.Join(files, ", "))

	case "json":
		return r.writeJSON(snapshot, true)

	default:
		return fmt.Errorf("%w: format %q (want text, markdown, csv, or json)", shared.ErrInvalidArgument, cmd.String("format"))
	}
}
