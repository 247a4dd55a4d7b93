package logic

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/idelchi/goxor/internal/config"
	"github.com/idelchi/goxor/internal/filter"
	"github.com/idelchi/goxor/pkg/pathmatch"
)

// RunCheck validates that every include/exclude pattern matches at least one file.
func RunCheck(cfg *config.Config, streams Streams) error {
	includes, excludes, _, err := filter.Patterns(cfg.Include, cfg.Exclude, cfg.IncludeFrom, cfg.ExcludeFrom)
	if err != nil {
		return err
	}

	if cfg.Suffix != "" {
		includes = append(includes, suffixPattern(cfg.Suffix))
	}

	if len(includes) == 0 && len(excludes) == 0 {
		return errors.New("no include or exclude patterns to check")
	}

	all, err := filter.New(nil, nil, false)
	if err != nil {
		return err
	}

	candidates, _, err := all.Resolve(cfg.Files)
	if err != nil {
		return err
	}

	var failures int

	failures += checkPatterns(streams.Err, "include", includes, candidates, cfg.Quiet)
	failures += checkPatterns(streams.Err, "exclude", excludes, candidates, cfg.Quiet)

	if failures > 0 {
		return fmt.Errorf("%d pattern(s) matched no files", failures)
	}

	return nil
}

// checkPatterns tests each pattern individually against the candidates' relative paths.
// Returns the number of patterns that matched zero files.
func checkPatterns(w io.Writer, kind string, patterns []string, candidates []filter.File, quiet bool) int {
	var failures int

	for _, pattern := range patterns {
		matcher, err := pathmatch.NewMatcher([]string{strings.TrimPrefix(pattern, "./")})
		if err != nil {
			fmt.Fprintf(w, "%s: %s: invalid pattern: %v\n", kind, pattern, err)

			failures++

			continue
		}

		var count int

		for _, file := range candidates {
			if matcher.MatchAny(filepath.ToSlash(file.Rel)) {
				count++
			}
		}

		if count == 0 {
			fmt.Fprintf(w, "%s: %s: 0 files (ERROR)\n", kind, pattern)

			failures++
		} else if !quiet {
			fmt.Fprintf(w, "%s: %s: %d files\n", kind, pattern, count)
		}
	}

	return failures
}
