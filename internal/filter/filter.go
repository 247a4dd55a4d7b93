// Package filter selects the files a run operates on.
//
// Directories are walked recursively and their files filtered through include/exclude
// patterns with find -path semantics. Explicitly named files bypass filtering.
package filter

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/idelchi/goxor/pkg/pathmatch"
)

// ErrNoFiles is returned when nothing matched.
var ErrNoFiles = errors.New("no files matched")

// File is a resolved input file.
type File struct {
	// Path as it can be opened.
	Path string
	// Rel is Path relative to the directory argument it was found under,
	// or the base name for explicitly named files.
	Rel string
}

// Filter selects files based on include/exclude patterns.
// Empty includes means "match all". Excludes always win.
type Filter struct {
	includes    *pathmatch.Matcher
	excludes    *pathmatch.Matcher
	hasIncludes bool
}

// New compiles include/exclude patterns into a reusable filter.
// hasIncludes indicates whether include filtering was requested, even if the list is empty.
func New(includes, excludes []string, hasIncludes bool) (*Filter, error) {
	inc, err := pathmatch.NewMatcher(normalizePatterns(includes))
	if err != nil {
		return nil, fmt.Errorf("compiling include patterns: %w", err)
	}

	exc, err := pathmatch.NewMatcher(normalizePatterns(excludes))
	if err != nil {
		return nil, fmt.Errorf("compiling exclude patterns: %w", err)
	}

	return &Filter{includes: inc, excludes: exc, hasIncludes: hasIncludes}, nil
}

// Match reports whether the slash-separated path should be included.
func (f *Filter) Match(path string) bool {
	included := !f.hasIncludes || f.includes.MatchAny(path)

	return included && !f.excludes.MatchAny(path)
}

// normalizePatterns strips leading "./" from patterns so they match cleaned paths.
func normalizePatterns(patterns []string) []string {
	out := make([]string, len(patterns))

	for i, p := range patterns {
		out[i] = strings.TrimPrefix(p, "./")
	}

	return out
}

// Resolve expands args (files and directories) into the files to process.
// It returns the matched files and the number of candidates scanned.
func (f *Filter) Resolve(args []string) (files []File, scanned int, err error) {
	seen := make(map[string]struct{})

	add := func(file File) {
		if _, ok := seen[file.Path]; ok {
			return
		}

		seen[file.Path] = struct{}{}
		files = append(files, file)
	}

	for _, arg := range args {
		arg = filepath.Clean(arg)

		info, err := os.Stat(arg)
		if err != nil {
			return nil, 0, fmt.Errorf("stat %q: %w", arg, err)
		}

		if !info.IsDir() {
			scanned++

			add(File{Path: arg, Rel: filepath.Base(arg)})

			continue
		}

		walked, total, err := f.walk(arg)
		if err != nil {
			return nil, 0, err
		}

		scanned += total

		for _, file := range walked {
			add(file)
		}
	}

	if len(files) == 0 {
		return nil, scanned, fmt.Errorf("%w: %v", ErrNoFiles, args)
	}

	return files, scanned, nil
}

// walk walks root recursively, returning files that pass the filter.
// Patterns are matched against the path relative to root, e.g. "sub/a.txt".
// Symlinks to regular files are included; directory symlinks are not descended into.
func (f *Filter) walk(root string) (files []File, total int, err error) {
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || !isRegular(path, d) {
			return nil
		}

		total++

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("relative path of %q: %w", path, err)
		}

		if !f.Match(filepath.ToSlash(rel)) {
			return nil
		}

		files = append(files, File{Path: path, Rel: rel})

		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("walking %q: %w", root, err)
	}

	return files, total, nil
}

// isRegular reports whether d is a regular file or a symlink resolving to one.
func isRegular(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}

	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}

	info, err := os.Stat(path)

	return err == nil && info.Mode().IsRegular()
}
