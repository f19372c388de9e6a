package variety_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/postkit/pkg/state"
	"github.com/dmitrymomot/postkit/pkg/variety"
)

func TestAppendTrim(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		hooks []string
		hook  string
		want  []string
	}{
		{
			name:  "append to empty",
			hooks: nil,
			hook:  "A",
			want:  []string{"A"},
		},
		{
			name:  "append below capacity",
			hooks: []string{"A", "B"},
			hook:  "C",
			want:  []string{"A", "B", "C"},
		},
		{
			name:  "full window evicts oldest first",
			hooks: []string{"A", "B", "C", "D", "E"},
			hook:  "F",
			want:  []string{"B", "C", "D", "E", "F"},
		},
		{
			name:  "oversized input trims to capacity",
			hooks: []string{"A", "B", "C", "D", "E", "F"},
			hook:  "G",
			want:  []string{"C", "D", "E", "F", "G"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, variety.AppendTrim(tt.hooks, tt.hook, variety.Capacity))
		})
	}

	t.Run("input slice is not mutated", func(t *testing.T) {
		t.Parallel()

		in := []string{"A", "B", "C", "D", "E"}
		_ = variety.AppendTrim(in, "F", variety.Capacity)
		assert.Equal(t, []string{"A", "B", "C", "D", "E"}, in)
	})
}

func TestWindow_AppendAndTrim(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("lazy creation yields one-element window", func(t *testing.T) {
		t.Parallel()

		w := variety.NewWindow(state.NewMemoryStore())
		hooks, err := w.AppendAndTrim(ctx, uuid.New(), "first")
		require.NoError(t, err)
		assert.Equal(t, []string{"first"}, hooks)
	})

	t.Run("rejects empty hook", func(t *testing.T) {
		t.Parallel()

		w := variety.NewWindow(state.NewMemoryStore())
		_, err := w.AppendAndTrim(ctx, uuid.New(), "")
		require.ErrorIs(t, err, variety.ErrEmptyHook)
	})

	t.Run("sequential appends keep the last five in order", func(t *testing.T) {
		t.Parallel()

		w := variety.NewWindow(state.NewMemoryStore())
		userID := uuid.New()

		for _, h := range []string{"A", "B", "C", "D", "E", "F"} {
			_, err := w.AppendAndTrim(ctx, userID, h)
			require.NoError(t, err)
		}

		hooks, err := w.Recent(ctx, userID, 5)
		require.NoError(t, err)
		assert.Equal(t, []string{"B", "C", "D", "E", "F"}, hooks)
	})

	t.Run("no append is lost under concurrency", func(t *testing.T) {
		t.Parallel()

		store := state.NewMemoryStore()
		w := variety.NewWindow(store, variety.WithRetryAttempts(100))
		userID := uuid.New()

		const n = 20
		var wg sync.WaitGroup
		for i := range n {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := w.AppendAndTrim(ctx, userID, fmt.Sprintf("hook-%02d", i))
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		rec, err := store.GetWindow(ctx, userID)
		require.NoError(t, err)
		assert.Len(t, rec.Hooks, variety.Capacity)
		// Every append bumped the version exactly once.
		assert.Equal(t, int64(n), rec.Version)
	})

	t.Run("custom capacity", func(t *testing.T) {
		t.Parallel()

		w := variety.NewWindow(state.NewMemoryStore(), variety.WithCapacity(2))
		userID := uuid.New()

		for _, h := range []string{"A", "B", "C"} {
			_, err := w.AppendAndTrim(ctx, userID, h)
			require.NoError(t, err)
		}

		hooks, err := w.Recent(ctx, userID, 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"B", "C"}, hooks)
	})
}

func TestWindow_Recent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("empty for unknown user", func(t *testing.T) {
		t.Parallel()

		w := variety.NewWindow(state.NewMemoryStore())
		hooks, err := w.Recent(ctx, uuid.New(), 5)
		require.NoError(t, err)
		assert.Empty(t, hooks)
		assert.NotNil(t, hooks)
	})

	t.Run("limit returns the most recent entries", func(t *testing.T) {
		t.Parallel()

		w := variety.NewWindow(state.NewMemoryStore())
		userID := uuid.New()

		for _, h := range []string{"A", "B", "C", "D"} {
			_, err := w.AppendAndTrim(ctx, userID, h)
			require.NoError(t, err)
		}

		hooks, err := w.Recent(ctx, userID, 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"C", "D"}, hooks)
	})

	t.Run("read does not mutate", func(t *testing.T) {
		t.Parallel()

		store := state.NewMemoryStore()
		w := variety.NewWindow(store)
		userID := uuid.New()

		_, err := w.AppendAndTrim(ctx, userID, "A")
		require.NoError(t, err)

		before, err := store.GetWindow(ctx, userID)
		require.NoError(t, err)

		_, err = w.Recent(ctx, userID, 5)
		require.NoError(t, err)

		after, err := store.GetWindow(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, before.Version, after.Version)
	})
}
