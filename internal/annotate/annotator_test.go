package annotate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/knowmesh/knowmesh/internal/mesh"
)

func TestHeuristicEntities(t *testing.T) {
	t.Parallel()

	t.Run("capitalized phrases in order", func(t *testing.T) {
		got := heuristicEntities("Jane Smith visited Paris last Tuesday.")
		require.Equal(t, []mesh.Entity{
			{Text: "Jane Smith", Label: "MISC"},
			{Text: "Paris", Label: "MISC"},
			{Text: "Tuesday", Label: "MISC"},
		}, got)
	})

	t.Run("short matches dropped", func(t *testing.T) {
		got := heuristicEntities("He said It was Ok near Rome.")
		for _, ent := range got {
			require.GreaterOrEqual(t, len(ent.Text), minHeuristicEntityLen)
		}
		require.Contains(t, got, mesh.Entity{Text: "Rome", Label: "MISC"})
	})

	t.Run("duplicates collapse to first occurrence", func(t *testing.T) {
		got := heuristicEntities("Paris is lovely. I adore Paris in spring.")
		require.Equal(t, []mesh.Entity{{Text: "Paris", Label: "MISC"}}, got)
	})

	t.Run("no candidates yields empty", func(t *testing.T) {
		require.Empty(t, heuristicEntities("all lowercase text with no names"))
	})
}

func TestAnnotateEmptyText(t *testing.T) {
	t.Parallel()

	a := New(Config{}, nil)
	entities, usedHeuristic, err := a.Annotate(context.Background(), "   \n\t ")
	require.NoError(t, err)
	require.False(t, usedHeuristic)
	require.Empty(t, entities)
}

func TestAnnotateDegradedUsesHeuristic(t *testing.T) {
	t.Parallel()

	a := New(Config{}, nil)
	// Force the degraded state: the warm-up must not run afterwards.
	a.warmup.Do(func() {})
	a.state = stateDegraded

	entities, usedHeuristic, err := a.Annotate(context.Background(), "Jane Smith visited Paris.")
	require.NoError(t, err)
	require.True(t, usedHeuristic)
	require.Equal(t, []mesh.Entity{
		{Text: "Jane Smith", Label: "MISC"},
		{Text: "Paris", Label: "MISC"},
	}, entities)
}

func TestAnnotateCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := New(Config{}, nil)
	_, _, err := a.Annotate(ctx, "some text")
	require.ErrorIs(t, err, context.Canceled)
}

func TestCapText(t *testing.T) {
	t.Parallel()

	a := New(Config{MaxTextRunes: 5}, nil)
	require.Equal(t, "héllo", a.capText("héllo world"))

	uncapped := New(Config{}, nil)
	require.Equal(t, "héllo world", uncapped.capText("héllo world"))
}

func TestAnnotateWithModel(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping model warm-up in short mode")
	}

	a := New(Config{}, nil)
	entities, usedHeuristic, err := a.Annotate(context.Background(),
		"Barack Obama met with officials from Google in Washington.")
	require.NoError(t, err)
	require.NotEmpty(t, entities)
	for _, ent := range entities {
		require.NotEmpty(t, ent.Text)
		require.NotEmpty(t, ent.Label)
	}
	_ = usedHeuristic
}
