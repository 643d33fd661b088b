package helpers

import (
	"testing"

	"github.com/Gravitalia/nido/model"
	"github.com/stretchr/testify/require"
)

func TestFold(t *testing.T) {
	require.Equal(t, "cancion", Fold("  Canción "))
	require.Equal(t, "espana", Fold("ESPAÑA"))
	require.Equal(t, "", Fold("   "))
}

func TestMentions(t *testing.T) {
	require.Equal(t, []string{"ana", "bob_2"}, Mentions("@Ana hola @bob_2, y otra vez @ana"))
	require.Empty(t, Mentions("mail me at me@example.com"))
	require.Empty(t, Mentions("@ab is too short"))
	require.Equal(t, []string{"maría"}, Mentions("(@María)"))
}

func TestRelationKind(t *testing.T) {
	for name, want := range map[string]string{
		"like":      model.RelationLike,
		"LIKE":      model.RelationLike,
		"follow":    model.RelationFollow,
		"subscribe": model.RelationFollow,
		"block/":    model.RelationBlock,
	} {
		got, ok := RelationKind(name)
		require.True(t, ok, name)
		require.Equal(t, want, got, name)
	}

	_, ok := RelationKind("love")
	require.False(t, ok)
}

func TestRemoveDuplicates(t *testing.T) {
	require.Equal(t, []string{"a", "b", "c"}, RemoveDuplicates([]string{"a", "b", "a", "c", "b"}))
	require.Empty(t, RemoveDuplicates(nil))
}

func TestPage(t *testing.T) {
	limit, offset := Page(0, -3, 20, 50)
	require.Equal(t, 20, limit)
	require.Equal(t, 0, offset)

	limit, offset = Page(500, 40, 20, 50)
	require.Equal(t, 50, limit)
	require.Equal(t, 40, offset)
}
