package access

import "strings"

// Allows reports whether a guest holding the compiled patterns may read
// requestedPath within owner/repo. The empty path denotes the
// repository root.
//
// A request is permitted when any pattern grants the whole repository,
// covers the path as a subtree, names it exactly, or lies beneath it.
// The last rule lets a guest granted "o/r/src/components/*" still list
// "o/r" and "o/r/src" on the way down, without reading sibling files at
// those levels.
func Allows(patterns []Pattern, owner, repo, requestedPath string) bool {
	root := Normalize(owner + "/" + repo)
	fullPath := root
	if p := Normalize(requestedPath); p != "" {
		fullPath = root + "/" + p
	}
	// The root path compares as "owner/repo/", never "owner//".
	parent := fullPath + "/"

	for _, p := range patterns {
		switch p.Kind {
		case KindWholeRepo:
			if p.root == root {
				return true
			}
		case KindSubtree:
			if strings.HasPrefix(fullPath, p.prefix) {
				return true
			}
		case KindExact:
			if p.exact == fullPath {
				return true
			}
		}
		// Parent-directory navigation: the request is a strict
		// ancestor of the pattern.
		if strings.HasPrefix(p.raw, parent) {
			return true
		}
	}
	return false
}

// FilterListing drops listing entries at currentPath that no pattern
// covers. Entries are kept when a whole-repo or subtree grant covers
// them, a single-file grant names them, or they are an intermediate
// directory en route to a deeper grant. Drops are silent; filtering is
// idempotent.
func FilterListing[T any](patterns []Pattern, owner, repo, currentPath string, entries []T, name func(T) string) []T {
	root := Normalize(owner + "/" + repo)
	base := root
	if p := Normalize(currentPath); p != "" {
		base = root + "/" + p
	}

	kept := make([]T, 0, len(entries))
	for _, entry := range entries {
		fullItem := Normalize(base + "/" + name(entry))
		if itemVisible(patterns, fullItem) {
			kept = append(kept, entry)
		}
	}
	return kept
}

func itemVisible(patterns []Pattern, fullItem string) bool {
	for _, p := range patterns {
		switch p.Kind {
		case KindWholeRepo, KindSubtree:
			if strings.HasPrefix(fullItem, p.prefix) {
				return true
			}
		case KindExact:
			if p.exact == fullItem {
				return true
			}
		}
		if strings.HasPrefix(p.raw, fullItem+"/") {
			return true
		}
	}
	return false
}
