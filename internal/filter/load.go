package filter

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"
)

// LoadPatterns reads a JSONC file holding an array of patterns.
func LoadPatterns(path string) ([]string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is from user-supplied config
	if err != nil {
		return nil, fmt.Errorf("reading patterns file %q: %w", path, err)
	}

	var patterns []string
	if err := json.Unmarshal(jsonc.ToJSONInPlace(data), &patterns); err != nil {
		return nil, fmt.Errorf("parsing patterns file %q: %w", path, err)
	}

	return patterns, nil
}

// Patterns gathers include and exclude patterns from flags and optional pattern files.
// hasIncludes is true when include filtering was requested at all.
func Patterns(include, exclude []string, includeFrom, excludeFrom string) (includes, excludes []string, hasIncludes bool, err error) {
	includes = append(includes, include...)
	excludes = append(excludes, exclude...)

	if includeFrom != "" {
		patterns, err := LoadPatterns(includeFrom)
		if err != nil {
			return nil, nil, false, fmt.Errorf("loading include patterns: %w", err)
		}

		includes = append(includes, patterns...)
	}

	if excludeFrom != "" {
		patterns, err := LoadPatterns(excludeFrom)
		if err != nil {
			return nil, nil, false, fmt.Errorf("loading exclude patterns: %w", err)
		}

		excludes = append(excludes, patterns...)
	}

	return includes, excludes, len(include) > 0 || includeFrom != "", nil
}
