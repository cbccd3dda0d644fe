// Package fsutil resolves work items on disk: include globs filtered by
// exclusion globs, relative to a project root.
package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// Matcher is a compiled set of glob patterns. `*` stops at '/', `**` does not.
type Matcher struct {
	globs []glob.Glob
}

// Compile builds a Matcher. A leading "**/" also matches at the root, so
// "**/*.php" selects "main.php" as well as "inc/a.php".
func Compile(patterns ...string) (*Matcher, error) {
	m := &Matcher{}
	for _, p := range patterns {
		variants := []string{p}
		if rest, ok := strings.CutPrefix(p, "**/"); ok {
			variants = append(variants, rest)
		}
		for _, v := range variants {
			g, err := glob.Compile(v, '/')
			if err != nil {
				return nil, fmt.Errorf("invalid glob %q: %w", p, err)
			}
			m.globs = append(m.globs, g)
		}
	}
	return m, nil
}

// Match reports whether the slash-separated path matches any pattern.
func (m *Matcher) Match(rel string) bool {
	for _, g := range m.globs {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

// Expand returns the sorted, slash-separated paths under root that match an
// include pattern and no exclude pattern. Excluded directories are not
// descended into. A missing search directory yields no matches.
func Expand(root string, include, exclude []string) ([]string, error) {
	inc, err := Compile(include...)
	if err != nil {
		return nil, err
	}
	exc, err := Compile(exclude...)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	for _, base := range searchBases(include) {
		start := filepath.Join(root, filepath.FromSlash(base))
		err := filepath.WalkDir(start, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) && p == start {
					return filepath.SkipDir
				}
				return err
			}
			rel, err := filepath.Rel(root, p)
			if err != nil {
				return err
			}
			rel = filepath.ToSlash(rel)

			if d.IsDir() {
				if rel != "." && (exc.Match(rel) || exc.Match(rel+"/")) {
					return filepath.SkipDir
				}
				return nil
			}
			if inc.Match(rel) && !exc.Match(rel) {
				seen[rel] = struct{}{}
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", start, err)
		}
	}

	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out, nil
}

// searchBases returns the static directory prefix of every pattern, with
// nested bases folded into their parents.
func searchBases(patterns []string) []string {
	var bases []string
	for _, p := range patterns {
		bases = append(bases, staticPrefix(p))
	}
	sort.Strings(bases)

	var out []string
	for _, b := range bases {
		covered := false
		for _, o := range out {
			if o == "." || b == o || strings.HasPrefix(b, o+"/") {
				covered = true
				break
			}
		}
		if !covered {
			out = append(out, b)
		}
	}
	return out
}

func staticPrefix(pattern string) string {
	parts := strings.Split(pattern, "/")
	var static []string
	for _, part := range parts[:len(parts)-1] {
		if strings.ContainsAny(part, "*?[{\\") {
			break
		}
		static = append(static, part)
	}
	if len(static) == 0 {
		return "."
	}
	return strings.Join(static, "/")
}
