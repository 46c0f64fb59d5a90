package access_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anschmieg/quartier/access"
)

func TestNormalize(t *testing.T) {
	t.Run("trims and collapses slashes", func(t *testing.T) {
		require.Equal(t, "ada/notes", access.Normalize("/ada/notes/"))
		require.Equal(t, "ada/notes/src", access.Normalize("ada//notes///src"))
	})

	t.Run("empty stays empty", func(t *testing.T) {
		require.Equal(t, "", access.Normalize(""))
		require.Equal(t, "", access.Normalize("///"))
	})
}

func TestCompile(t *testing.T) {
	t.Run("two segments compile to whole repo", func(t *testing.T) {
		patterns := access.Compile([]string{"ada/notes"})
		require.Len(t, patterns, 1)
		require.Equal(t, access.KindWholeRepo, patterns[0].Kind)
	})

	t.Run("two segments with wildcard still whole repo", func(t *testing.T) {
		patterns := access.Compile([]string{"ada/notes/*"})
		require.Len(t, patterns, 1)
		require.Equal(t, access.KindWholeRepo, patterns[0].Kind)
	})

	t.Run("deeper wildcard compiles to subtree", func(t *testing.T) {
		patterns := access.Compile([]string{"ada/notes/docs/*"})
		require.Len(t, patterns, 1)
		require.Equal(t, access.KindSubtree, patterns[0].Kind)
	})

	t.Run("deeper bare path compiles to exact", func(t *testing.T) {
		patterns := access.Compile([]string{"ada/notes/README.md"})
		require.Len(t, patterns, 1)
		require.Equal(t, access.KindExact, patterns[0].Kind)
	})

	t.Run("string returns normalized text", func(t *testing.T) {
		patterns := access.Compile([]string{"/ada//notes/"})
		require.Equal(t, "ada/notes", patterns[0].String())
	})
}
