package store

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle/apps/solver/internal/game"
	"github.com/robalobadob/wordle/apps/solver/internal/words"
)

func newSession(t *testing.T, attempts int) *game.Session {
	t.Helper()
	d, err := words.New([]string{"CRANE", "SLATE", "TRACE"}, 5)
	require.NoError(t, err)
	s, err := game.NewSession(d, "CRANE", attempts)
	require.NoError(t, err)
	return s
}

func TestMemoryNotFound(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()
	noop := func(*game.Session) error { return nil }

	assert.ErrorIs(t, st.View(ctx, "missing", noop), ErrNotFound)
	assert.ErrorIs(t, st.Update(ctx, "missing", noop), ErrNotFound)
}

func TestMemorySaveViewUpdate(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()
	sess := newSession(t, 6)
	require.NoError(t, st.Save(ctx, sess))

	require.NoError(t, st.Update(ctx, sess.ID, func(s *game.Session) error {
		_, err := s.Guess("SLATE")
		return err
	}))
	require.NoError(t, st.View(ctx, sess.ID, func(s *game.Session) error {
		assert.Equal(t, 1, s.Attempt())
		return nil
	}))

	assert.ErrorIs(t, st.Update(ctx, sess.ID, func(s *game.Session) error {
		_, err := s.Guess("BRINE")
		return err
	}), game.ErrNotInDictionary, "fn errors pass through")
}

func TestMemoryConcurrentUpdates(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()
	sess := newSession(t, 50)
	require.NoError(t, st.Save(ctx, sess))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = st.Update(ctx, sess.ID, func(s *game.Session) error {
				_, err := s.Guess("SLATE")
				return err
			})
		}()
	}
	wg.Wait()

	require.NoError(t, st.View(ctx, sess.ID, func(s *game.Session) error {
		assert.Equal(t, 20, s.Attempt())
		assert.Len(t, s.Rounds(), 20)
		return nil
	}))
}
