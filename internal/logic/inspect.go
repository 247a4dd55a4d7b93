package logic

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/idelchi/goxor/internal/config"
	"github.com/idelchi/goxor/internal/header"
)

// Inspection is the header summary of one encrypted file.
type Inspection struct {
	Path   string
	Header header.Header
	// Payload is the number of bytes following the header.
	Payload int64
	Err     error
}

// Complete reports whether the payload holds at least the recorded number of bytes.
func (i Inspection) Complete() bool {
	return i.Payload >= 0 && uint64(i.Payload) >= i.Header.OriginalSize
}

// RunInspect prints the header of every encrypted file without decrypting anything.
func RunInspect(cfg *config.Config, streams Streams) error {
	cfg.Decrypt = true

	files, _, err := resolveFiles(cfg)
	if err != nil {
		return fmt.Errorf("resolving files: %w", err)
	}

	results := make(chan Inspection, len(files))
	printed := make(chan struct{})

	var failed int

	go func() {
		defer close(printed)

		for res := range results {
			switch {
			case res.Err != nil:
				failed++

				fmt.Fprintf(streams.Err, "Error inspecting %q: %v\n", res.Path, res.Err)
			case !res.Complete():
				failed++

				fmt.Fprintf(streams.Err, "%s: version %d, original size %s, payload truncated (%d of %d bytes)\n",
					res.Path, res.Header.Version, humanize.IBytes(res.Header.OriginalSize), res.Payload, res.Header.OriginalSize)
			default:
				fmt.Fprintf(streams.Out, "%s: version %d, original size %s (%d bytes)\n",
					res.Path, res.Header.Version, humanize.IBytes(res.Header.OriginalSize), res.Header.OriginalSize)
			}
		}
	}()

	group := errgroup.Group{}
	group.SetLimit(cfg.Parallel)

	for _, file := range files {
		group.Go(func() error {
			results <- inspectFile(file.Path)

			return nil
		})
	}

	_ = group.Wait() //nolint:errcheck // workers report through results

	close(results)

	<-printed

	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed inspection", failed, len(files))
	}

	return nil
}

func inspectFile(path string) Inspection {
	res := Inspection{Path: path}

	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		res.Err = fmt.Errorf("opening file: %w", err)

		return res
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		res.Err = fmt.Errorf("stat: %w", err)

		return res
	}

	hdr, err := header.Read(io.LimitReader(file, header.Size))
	if err != nil {
		res.Err = err

		return res
	}

	res.Header = hdr
	res.Payload = info.Size() - header.Size

	return res
}
