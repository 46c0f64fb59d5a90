package access_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anschmieg/quartier/access"
)

const (
	testRepoOwner = "ada"
	testRepoName  = "notes"
)

func TestAllows(t *testing.T) {
	t.Run("whole repo grant covers every path", func(t *testing.T) {
		patterns := access.Compile([]string{"ada/notes"})

		require.True(t, access.Allows(patterns, testRepoOwner, testRepoName, ""))
		require.True(t, access.Allows(patterns, testRepoOwner, testRepoName, "docs"))
		require.True(t, access.Allows(patterns, testRepoOwner, testRepoName, "docs/deep/guide.md"))
	})

	t.Run("whole repo grant does not leak into other repos", func(t *testing.T) {
		patterns := access.Compile([]string{"ada/notes"})

		require.False(t, access.Allows(patterns, testRepoOwner, "journal", ""))
		require.False(t, access.Allows(patterns, "grace", testRepoName, "docs"))
	})

	t.Run("subtree grant covers the folder and below", func(t *testing.T) {
		patterns := access.Compile([]string{"ada/notes/docs/*"})

		require.True(t, access.Allows(patterns, testRepoOwner, testRepoName, "docs/guide.md"))
		require.True(t, access.Allows(patterns, testRepoOwner, testRepoName, "docs/deep/nested.md"))
		require.False(t, access.Allows(patterns, testRepoOwner, testRepoName, "src/main.go"))
	})

	t.Run("subtree grant allows navigating ancestors", func(t *testing.T) {
		patterns := access.Compile([]string{"ada/notes/docs/guides/*"})

		require.True(t, access.Allows(patterns, testRepoOwner, testRepoName, ""))
		require.True(t, access.Allows(patterns, testRepoOwner, testRepoName, "docs"))
		require.True(t, access.Allows(patterns, testRepoOwner, testRepoName, "docs/guides"))
		require.False(t, access.Allows(patterns, testRepoOwner, testRepoName, "docs/internal"))
	})

	t.Run("exact grant names one file", func(t *testing.T) {
		patterns := access.Compile([]string{"ada/notes/docs/guide.md"})

		require.True(t, access.Allows(patterns, testRepoOwner, testRepoName, "docs/guide.md"))
		require.False(t, access.Allows(patterns, testRepoOwner, testRepoName, "docs/other.md"))
		// Ancestors remain navigable so the file is reachable.
		require.True(t, access.Allows(patterns, testRepoOwner, testRepoName, "docs"))
	})

	t.Run("no patterns denies everything", func(t *testing.T) {
		require.False(t, access.Allows(nil, testRepoOwner, testRepoName, ""))
		require.False(t, access.Allows(nil, testRepoOwner, testRepoName, "docs"))
	})

	t.Run("path normalization does not widen the grant", func(t *testing.T) {
		patterns := access.Compile([]string{"ada/notes/docs/*"})

		require.True(t, access.Allows(patterns, testRepoOwner, testRepoName, "/docs//guide.md"))
		require.False(t, access.Allows(patterns, testRepoOwner, testRepoName, "/src//main.go"))
	})
}

func TestFilterListing(t *testing.T) {
	type item struct{ name string }
	nameOf := func(i item) string { return i.name }

	rootEntries := []item{{"docs"}, {"src"}, {"README.md"}}

	t.Run("whole repo grant keeps every entry", func(t *testing.T) {
		patterns := access.Compile([]string{"ada/notes"})

		kept := access.FilterListing(patterns, testRepoOwner, testRepoName, "", rootEntries, nameOf)
		require.Equal(t, rootEntries, kept)
	})

	t.Run("subtree grant keeps only the route to the grant", func(t *testing.T) {
		patterns := access.Compile([]string{"ada/notes/docs/*"})

		kept := access.FilterListing(patterns, testRepoOwner, testRepoName, "", rootEntries, nameOf)
		require.Equal(t, []item{{"docs"}}, kept)
	})

	t.Run("exact grant keeps only the named file at its level", func(t *testing.T) {
		patterns := access.Compile([]string{"ada/notes/docs/guide.md"})
		entries := []item{{"guide.md"}, {"secret.md"}}

		kept := access.FilterListing(patterns, testRepoOwner, testRepoName, "docs", entries, nameOf)
		require.Equal(t, []item{{"guide.md"}}, kept)
	})

	t.Run("entries inside a granted subtree all survive", func(t *testing.T) {
		patterns := access.Compile([]string{"ada/notes/docs/*"})
		entries := []item{{"guide.md"}, {"deep"}}

		kept := access.FilterListing(patterns, testRepoOwner, testRepoName, "docs", entries, nameOf)
		require.Equal(t, entries, kept)
	})

	t.Run("filtering twice changes nothing", func(t *testing.T) {
		patterns := access.Compile([]string{"ada/notes/docs/*"})

		once := access.FilterListing(patterns, testRepoOwner, testRepoName, "", rootEntries, nameOf)
		twice := access.FilterListing(patterns, testRepoOwner, testRepoName, "", once, nameOf)
		require.Equal(t, once, twice)
	})

	t.Run("no patterns filters everything out", func(t *testing.T) {
		kept := access.FilterListing(nil, testRepoOwner, testRepoName, "", rootEntries, nameOf)
		require.Empty(t, kept)
	})
}
