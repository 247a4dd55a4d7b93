package encryption

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/idelchi/goxor/internal/config"
	"github.com/idelchi/goxor/internal/fileutil"
	"github.com/idelchi/goxor/internal/filter"
	"github.com/idelchi/goxor/internal/keystream"
)

// ErrMissingKey is returned when no key has been resolved into the configuration.
var ErrMissingKey = errors.New("no key provided")

// Processor handles the encryption and decryption of files.
type Processor struct {
	// cfg contains runtime configuration options
	cfg *config.Config

	// codec performs the per-file transformation
	codec *Codec

	// stdout receives progress lines, stderr receives errors
	stdout io.Writer
	stderr io.Writer
}

// NewProcessor creates a Processor for the resolved key in cfg.Key.String.
func NewProcessor(cfg *config.Config, stdout, stderr io.Writer) (*Processor, error) {
	if cfg.Key.String == "" {
		return nil, ErrMissingKey
	}

	key, err := keystream.NewKey(cfg.Key.String)
	if err != nil {
		return nil, fmt.Errorf("reading key: %w", err)
	}

	chunkSize, err := cfg.ChunkBytes()
	if err != nil {
		return nil, err
	}

	codec, err := NewCodec(key, WithChunkSize(chunkSize))
	if err != nil {
		return nil, fmt.Errorf("creating codec: %w", err)
	}

	return &Processor{
		cfg:    cfg,
		codec:  codec,
		stdout: stdout,
		stderr: stderr,
	}, nil
}

// ProcessFiles concurrently encrypts or decrypts files.
// A failing file is reported and does not stop the others.
// The returned error joins all per-file errors.
func (p *Processor) ProcessFiles(files []filter.File) (Report, error) {
	group := errgroup.Group{}
	group.SetLimit(p.cfg.Parallel)

	results := make(chan Result, len(files))
	done := make(chan struct{})

	var report Report

	go func() {
		defer close(done)

		for result := range results {
			report.add(result)
			p.print(result)
		}
	}()

	outputs := make([]string, len(files))
	for i, file := range files {
		outputs[i] = OutputPath(p.cfg, file)
	}

	conflicts := findConflicts(files, outputs)

	for i, file := range files {
		group.Go(func() error {
			outPath := outputs[i]

			if err := conflicts[i]; err != nil {
				results <- Result{Input: file.Path, Output: outPath, Error: err}

				return nil
			}

			size, err := p.processFile(file.Path, outPath)
			if err != nil {
				results <- Result{Input: file.Path, Output: outPath, Error: err}

				return nil
			}

			results <- Result{Input: file.Path, Output: outPath, OutputSize: size}

			return nil
		})
	}

	_ = group.Wait() //nolint:errcheck // workers report through results

	close(results)

	<-done // Wait for printer to finish

	if err := report.Err(); err != nil {
		return report, fmt.Errorf("processing files: %d of %d failed: %w", report.Errored, len(files), err)
	}

	return report, nil
}

// findConflicts returns, by index, an error for every file whose output is shared with another file
// or would replace another input of the same run. None of the files involved are processed.
func findConflicts(files []filter.File, outputs []string) map[int]error {
	inputs := make(map[string]int, len(files))
	for i, file := range files {
		inputs[pathKey(file.Path)] = i
	}

	targets := make(map[string][]int, len(outputs))
	for i, out := range outputs {
		key := pathKey(out)
		targets[key] = append(targets[key], i)
	}

	conflicts := make(map[int]error)

	for i, out := range outputs {
		key := pathKey(out)

		for _, j := range targets[key] {
			if j != i {
				conflicts[i] = fmt.Errorf("%w: %q is also written from %q", ErrOutputConflict, out, files[j].Path)

				break
			}
		}

		if j, ok := inputs[key]; ok && j != i {
			conflicts[i] = fmt.Errorf("%w: %q is also an input", ErrOutputConflict, out)
		}
	}

	return conflicts
}

func pathKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}

	return filepath.Clean(path)
}

func (p *Processor) print(result Result) {
	if result.Error != nil {
		fmt.Fprintf(p.stderr, "Error processing %q: %v\n", result.Input, result.Error)

		return
	}

	if !p.cfg.Quiet {
		fmt.Fprintf(p.stdout, "Processed %q -> %q\n", result.Input, result.Output)
	}

	if !p.cfg.Delete {
		return
	}

	if err := os.Remove(result.Input); err != nil {
		fmt.Fprintf(p.stderr, "Error deleting %q: %v\n", result.Input, err)
	} else if !p.cfg.Quiet {
		fmt.Fprintf(p.stdout, "Deleted %q\n", result.Input)
	}
}

// processFile handles the encryption or decryption of a single file.
func (p *Processor) processFile(filename, outPath string) (int64, error) {
	info, err := os.Stat(filename)
	if err != nil {
		return 0, ioError("reading file info", err)
	}

	if p.cfg.Output != "" {
		if err := fileutil.EnsureDir(outPath); err != nil {
			return 0, ioError("preparing output", err)
		}
	}

	if p.cfg.Decrypt {
		_, err = p.codec.DecryptFile(filename, outPath)
	} else {
		_, err = p.codec.EncryptFile(filename, outPath)
	}

	if err != nil {
		return 0, err
	}

	size, err := fileutil.Finalize(outPath, p.cfg.PreserveTimestamps, info.ModTime())
	if err != nil {
		return 0, ioError("finalizing output", err)
	}

	return size, nil
}

// OutputPath returns where the result for file is written.
//
// Encrypting appends the encrypt suffix; decrypting strips it and appends the decrypt suffix.
// With an output directory the path relative to the walked root is kept below it,
// otherwise the output sits next to the input.
func OutputPath(cfg *config.Config, file filter.File) string {
	name := file.Rel
	ext := cfg.Suffixes.Encrypt

	if cfg.Decrypt {
		name = strings.TrimSuffix(name, cfg.Suffixes.Encrypt)
		ext = cfg.Suffixes.Decrypt
	}

	if cfg.Output == "" {
		return filepath.Join(filepath.Dir(file.Path), filepath.Base(name)+ext)
	}

	return filepath.Join(cfg.Output, name+ext)
}
