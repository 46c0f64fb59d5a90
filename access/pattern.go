// Package access decides, per request, whether a caller may read a
// content path, and filters directory listings so guests cannot learn
// that out-of-scope siblings exist.
package access

import "strings"

// PatternKind tags the three capability grant shapes. Patterns are
// compiled once per session load instead of re-parsed for every path
// check.
type PatternKind int

const (
	// KindWholeRepo grants the entire repository: "owner/repo" or
	// "owner/repo/*".
	KindWholeRepo PatternKind = iota
	// KindSubtree grants a folder and everything below it:
	// "owner/repo/folder/*".
	KindSubtree
	// KindExact grants a single file: "owner/repo/file.ext".
	KindExact
)

// Pattern is a compiled capability pattern.
type Pattern struct {
	Kind PatternKind

	// raw is the normalized pattern text, kept for the
	// parent-directory navigation rule which compares against the
	// pattern string itself.
	raw string

	// root is the "owner/repo" of a whole-repo grant.
	root string

	// prefix is the subtree prefix including its trailing slash.
	prefix string

	// exact is the full path of a single-file grant.
	exact string
}

// Normalize collapses repeated slashes and trims leading and trailing
// ones. Single interior slashes are always preserved; comparisons stay
// case-sensitive and exact.
func Normalize(path string) string {
	segments := make([]string, 0, 8)
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	return strings.Join(segments, "/")
}

// Compile parses a session's capability patterns into their tagged
// variants. Unparseable entries cannot occur for sessions that passed
// creation-time validation; anything with fewer than two segments is
// compiled to an exact pattern that matches nothing useful.
func Compile(patterns []string) []Pattern {
	compiled := make([]Pattern, 0, len(patterns))
	for _, raw := range patterns {
		compiled = append(compiled, compileOne(Normalize(raw)))
	}
	return compiled
}

func compileOne(normalized string) Pattern {
	p := Pattern{raw: normalized}

	base, wildcard := strings.CutSuffix(normalized, "/*")
	segments := strings.Count(base, "/") + 1

	switch {
	case segments == 2:
		p.Kind = KindWholeRepo
		p.root = base
		p.prefix = base + "/"
	case wildcard:
		p.Kind = KindSubtree
		p.prefix = base + "/"
	default:
		p.Kind = KindExact
		p.exact = base
	}
	return p
}

// String returns the normalized pattern text.
func (p Pattern) String() string { return p.raw }
