package solver

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle/apps/solver/internal/game"
	"github.com/robalobadob/wordle/apps/solver/internal/words"
)

func dict(t *testing.T, list ...string) *words.Dictionary {
	t.Helper()
	d, err := words.New(list, 5)
	require.NoError(t, err)
	return d
}

func count(pool []game.Word, w game.Word) int {
	n := 0
	for _, p := range pool {
		if p == w {
			n++
		}
	}
	return n
}

func TestFilter(t *testing.T) {
	k := NewKnowledge()
	record(k, "CRANE", "SLATE")
	all := []game.Word{"BRINE", "CRANE", "GRAPE", "SLATE", "TRACE"}
	guessed := mapset.NewSet[game.Word]("SLATE")

	assert.Equal(t, []game.Word{"BRINE", "CRANE", "GRAPE"}, Filter(all, guessed, k, false),
		"only guessed words and absent letters are removed")
	assert.Equal(t, []game.Word{"CRANE", "GRAPE"}, Filter(all, guessed, k, true),
		"strict mode also drops BRINE, which lacks the known A at position 2")
}

func TestFilterStrictMisplaced(t *testing.T) {
	k := NewKnowledge()
	record(k, "CRANE", "ROBIN") // R misplaced at 0, N misplaced at 4
	all := []game.Word{"RANCH", "CRANE", "GRAND", "TREND"}

	assert.Equal(t, []game.Word{"RANCH", "CRANE", "GRAND", "TREND"}, Filter(all, nil, k, false))
	// RANCH retries R at position 0, already known to be wrong.
	assert.Equal(t, []game.Word{"CRANE", "GRAND", "TREND"}, Filter(all, nil, k, true))
}

func TestPoolWithoutEvidence(t *testing.T) {
	cands := []game.Word{"CRANE", "SLATE"}
	assert.Equal(t, cands, Pool(cands, NewKnowledge(), 5))
	assert.Empty(t, Pool(nil, NewKnowledge(), 5))
}

func TestPoolExactBranch(t *testing.T) {
	k := NewKnowledge()
	// STARE with A exact at 2, S misplaced at 0, the rest absent.
	k.Record("STARE", game.Feedback{Marks: []game.Mark{game.MarkMisplaced, game.MarkAbsent, game.MarkExact, game.MarkAbsent, game.MarkAbsent}})

	pool := Pool([]game.Word{"CHASM", "CLAMP", "SHALL", "MONTH"}, k, 5)

	assert.Equal(t, 1+1*5, count(pool, "CHASM"), "moves S to an untried position")
	assert.Equal(t, 1, count(pool, "CLAMP"), "keeps the exact A only")
	assert.Equal(t, 1, count(pool, "SHALL"), "S at its known wrong position earns nothing")
	assert.Zero(t, count(pool, "MONTH"), "drops the exact A")
	assert.Len(t, pool, 8)
}

func TestPoolMisplacedBranch(t *testing.T) {
	k := NewKnowledge()
	k.Record("ROBIN", game.Feedback{Marks: []game.Mark{game.MarkMisplaced, game.MarkAbsent, game.MarkAbsent, game.MarkAbsent, game.MarkAbsent}})

	pool := Pool([]game.Word{"CRATE", "RATES", "CARET", "ARRAY"}, k, 5)

	assert.Equal(t, []game.Word{"CRATE", "CARET"}, pool)
	// ARRAY tries R at two new positions, which does not equal the single misplaced entry.
	assert.Zero(t, count(pool, "ARRAY"))
}

func TestPoolMisplacedBranchCanEmpty(t *testing.T) {
	k := NewKnowledge()
	// R misplaced at 0 and O misplaced at 1: a word needs exactly two
	// positions trying R or O somewhere new.
	k.Record("ROBIN", game.Feedback{Marks: []game.Mark{game.MarkMisplaced, game.MarkMisplaced, game.MarkAbsent, game.MarkAbsent, game.MarkAbsent}})

	assert.Empty(t, Pool([]game.Word{"CRATE", "ERROR"}, k, 5), "CRATE has one move, ERROR four")
	// DOORS repeats O at its known wrong position; O at 2 and R at 3 are the two moves.
	assert.Equal(t, []game.Word{"DOORS", "DOORS"}, Pool([]game.Word{"DOORS"}, k, 5))
}

func TestSelect(t *testing.T) {
	_, err := Select(rand.New(rand.NewSource(1)), nil)
	assert.ErrorIs(t, err, ErrEmptyPool)

	w, err := Select(rand.New(rand.NewSource(1)), []game.Word{"CRANE"})
	require.NoError(t, err)
	assert.Equal(t, game.Word("CRANE"), w)
}

func TestSelectIsSeedDeterministic(t *testing.T) {
	pool := []game.Word{"CRANE", "SLATE", "TRACE", "GRAPE", "BRINE"}
	a, _ := Select(rand.New(rand.NewSource(42)), pool)
	b, _ := Select(rand.New(rand.NewSource(42)), pool)
	assert.Equal(t, a, b)
}

func TestSolverSingleWordDictionary(t *testing.T) {
	d := dict(t, "CRANE", "BRINE!", "TOOLONG")
	require.Equal(t, 1, d.Len())

	for seed := int64(0); seed < 5; seed++ {
		s := New(d, rand.New(rand.NewSource(seed)))
		w, err := s.Next(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, game.Word("CRANE"), w)
	}
}

func TestSolverExhausted(t *testing.T) {
	s := New(dict(t, "CRANE"), rand.New(rand.NewSource(1)))
	_, err := s.Next(context.Background(), 1)
	require.NoError(t, err)

	_, err = s.Next(context.Background(), 2)
	assert.ErrorIs(t, err, ErrEmptyPool)
}

func TestSolverScenario(t *testing.T) {
	d := dict(t, "CRANE", "SLATE", "TRACE", "GRAPE")
	sess, err := game.NewSession(d, "CRANE", 6)
	require.NoError(t, err)
	s := New(d, rand.New(rand.NewSource(3)))

	fb, err := sess.Guess("SLATE")
	require.NoError(t, err)
	assert.Equal(t, []game.Mark{game.MarkAbsent, game.MarkAbsent, game.MarkExact, game.MarkAbsent, game.MarkExact}, fb.Marks)
	s.guessed.Add("SLATE")
	s.Observe("SLATE", fb)

	k := s.Knowledge()
	assert.Equal(t, []byte("LST"), k.Absent())
	assert.False(t, k.IsAbsent('E'))
	assert.Equal(t, map[byte][]int{'A': {2}, 'E': {4}}, k.Exact())

	next, err := s.Next(context.Background(), 2)
	require.NoError(t, err)
	assert.Contains(t, []game.Word{"CRANE", "GRAPE"}, next, "TRACE has the absent T")
}

func TestReplay(t *testing.T) {
	d := dict(t, "CRANE", "SLATE", "TRACE", "GRAPE")
	rounds := []game.Round{{Guess: "SLATE", Feedback: game.Evaluate("CRANE", "SLATE")}}

	s := Replay(d, rand.New(rand.NewSource(1)), rounds)
	assert.True(t, s.Guessed("SLATE"))
	assert.True(t, s.Knowledge().IsAbsent('S'))
}

// TestSolverInvariants plays many full sessions over the embedded list and
// checks every automated guess against what was known just before it.
func TestSolverInvariants(t *testing.T) {
	d, err := words.Default(5)
	require.NoError(t, err)

	for seed := int64(0); seed < 200; seed++ {
		rng := rand.New(rand.NewSource(seed))
		sess, err := game.NewSession(d, d.Random(rng), 6)
		require.NoError(t, err)
		s := New(d, rng)

		seen := map[game.Word]bool{}
		for !sess.State().Done() {
			k := s.Knowledge()
			exact := k.Exact()

			w, err := s.Next(context.Background(), sess.Attempt()+1)
			if errors.Is(err, ErrEmptyPool) {
				// the target survives every filter, so only the
				// misplaced-only rule can leave nothing to draw
				require.Zero(t, k.TotalExact(), "seed %d: empty pool with exact evidence", seed)
				require.NotZero(t, k.TotalMisplaced(), "seed %d: empty pool without evidence", seed)
				break
			}
			require.NoError(t, err)

			require.False(t, seen[w], "seed %d: %s guessed twice", seed, w)
			seen[w] = true
			for i := 0; i < w.Len(); i++ {
				require.False(t, k.IsAbsent(w.At(i)), "seed %d: %s uses absent %c", seed, w, w.At(i))
			}
			for c, positions := range exact {
				for _, p := range positions {
					require.Equal(t, c, w.At(p), "seed %d: %s drops exact %c at %d", seed, w, c, p)
				}
			}

			fb, err := sess.Guess(w)
			require.NoError(t, err)
			s.Observe(w, fb)
		}
	}
}
