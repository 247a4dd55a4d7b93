// Package logic implements the commands on top of the encryption, filter and config packages.
package logic

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/idelchi/goxor/internal/config"
	"github.com/idelchi/goxor/internal/encryption"
	"github.com/idelchi/goxor/internal/filter"
	"github.com/idelchi/goxor/pkg/pathmatch"
)

// Streams are the writers commands report to.
type Streams struct {
	Out io.Writer
	Err io.Writer
}

// Run encrypts or decrypts the configured files.
func Run(cfg *config.Config, streams Streams) error {
	start := time.Now()

	files, scanned, err := resolveFiles(cfg)
	if err != nil {
		return fmt.Errorf("resolving files: %w", err)
	}

	excluded := scanned - len(files)

	if cfg.Dry {
		return dryRun(cfg, files, scanned, excluded, start, streams)
	}

	if err := resolveKey(cfg, streams.Err); err != nil {
		return err
	}

	proc, err := encryption.NewProcessor(cfg, streams.Out, streams.Err)
	if err != nil {
		return fmt.Errorf("creating processor: %w", err)
	}

	report, err := proc.ProcessFiles(files)

	if cfg.Stats {
		printStats(streams.Err, scanned, excluded, report.Processed, report.Errored, report.TotalSize, time.Since(start))
	}

	if err != nil {
		return fmt.Errorf("running logic: %w", err)
	}

	return nil
}

// suffixPattern returns an include pattern selecting names that end in suffix.
func suffixPattern(suffix string) string {
	return "*" + pathmatch.Escape(suffix)
}

// resolveFiles expands the positional paths into the files to process.
// Decryption without explicit includes selects files carrying the encrypted suffix.
func resolveFiles(cfg *config.Config) ([]filter.File, int, error) {
	includes, excludes, hasIncludes, err := filter.Patterns(cfg.Include, cfg.Exclude, cfg.IncludeFrom, cfg.ExcludeFrom)
	if err != nil {
		return nil, 0, err
	}

	switch {
	case cfg.Suffix != "":
		includes = append(includes, suffixPattern(cfg.Suffix))
		hasIncludes = true
	case cfg.Decrypt && !hasIncludes:
		includes = append(includes, suffixPattern(cfg.Suffixes.Encrypt))
		hasIncludes = true
	}

	flt, err := filter.New(includes, excludes, hasIncludes)
	if err != nil {
		return nil, 0, err
	}

	files, scanned, err := flt.Resolve(cfg.Files)
	if err != nil {
		return nil, scanned, fmt.Errorf("filtering files: %w", err)
	}

	return files, scanned, nil
}

// dryRun previews what would be processed without reading any keys or writing files.
func dryRun(cfg *config.Config, files []filter.File, scanned, excluded int, start time.Time, streams Streams) error {
	var totalSize int64

	for _, file := range files {
		if !cfg.Quiet {
			fmt.Fprintf(streams.Out, "Processed %q -> %q\n", file.Path, encryption.OutputPath(cfg, file))
		}

		if info, err := os.Stat(file.Path); err == nil {
			totalSize += info.Size()
		}
	}

	if cfg.Stats {
		printStats(streams.Err, scanned, excluded, len(files), 0, totalSize, time.Since(start))
	}

	return nil
}

func printStats(w io.Writer, scanned, excluded, processed, errored int, totalSize int64, duration time.Duration) {
	fmt.Fprintf(w, "\nStats\n")
	fmt.Fprintf(w, "  Scanned:   %d\n", scanned)
	fmt.Fprintf(w, "  Excluded:  %d\n", excluded)
	fmt.Fprintf(w, "  Processed: %d\n", processed)
	fmt.Fprintf(w, "  Errors:    %d\n", errored)
	//nolint:gosec // totalSize is always non-negative (sum of file sizes)
	fmt.Fprintf(w, "  Size:      %s\n", humanize.IBytes(uint64(max(0, totalSize))))
	fmt.Fprintf(w, "  Duration:  %s\n", duration.Round(time.Millisecond))
}
