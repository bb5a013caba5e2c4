// internal/solver/solver.go
//
// Automated guesser.
// Each turn:
//   1. Filter the dictionary down to words not yet guessed and free of
//      blacklisted letters (optionally also positionally consistent).
//   2. Build a weighted pool favoring words that keep every known exact letter
//      and try known misplaced letters at untried positions.
//   3. Draw uniformly from the pool with the session's RNG.

package solver

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/solver/internal/game"
)

// ErrEmptyPool means no word qualifies for the next guess. The session has
// no valid move left.
var ErrEmptyPool = errors.New("candidate pool is empty")

// Lexicon is the word list the solver draws from.
type Lexicon interface {
	Words() []game.Word
	WordLen() int
}

// Option configures a Solver.
type Option func(*Solver)

// WithStrict enables positional hard filtering before weighting.
func WithStrict(strict bool) Option {
	return func(s *Solver) { s.strict = strict }
}

// Solver is a game.Guesser backed by a Knowledge store. It is owned by a
// single session and is not safe for concurrent use.
type Solver struct {
	lex       Lexicon
	rng       *rand.Rand
	strict    bool
	knowledge *Knowledge
	guessed   mapset.Set[game.Word]
}

// New returns a solver drawing from lex with rng.
func New(lex Lexicon, rng *rand.Rand, opts ...Option) *Solver {
	s := &Solver{
		lex:       lex,
		rng:       rng,
		knowledge: NewKnowledge(),
		guessed:   mapset.NewThreadUnsafeSet[game.Word](),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Replay rebuilds a solver from a played board. Every board word counts as
// already guessed.
func Replay(lex Lexicon, rng *rand.Rand, rounds []game.Round, opts ...Option) *Solver {
	s := New(lex, rng, opts...)
	for _, r := range rounds {
		s.guessed.Add(r.Guess)
		s.knowledge.Record(r.Guess, r.Feedback)
	}
	return s
}

// Next picks the next guess and marks it as guessed.
func (s *Solver) Next(_ context.Context, attempt int) (game.Word, error) {
	candidates := Filter(s.lex.Words(), s.guessed, s.knowledge, s.strict)
	pool := Pool(candidates, s.knowledge, s.lex.WordLen())
	log.Debug().Int("attempt", attempt).Int("candidates", len(candidates)).Int("pool", len(pool)).Msg("solver pool")

	w, err := Select(s.rng, pool)
	if err != nil {
		return "", fmt.Errorf("attempt %d: %w", attempt, err)
	}
	s.guessed.Add(w)
	return w, nil
}

// Observe records the feedback for a guess.
func (s *Solver) Observe(guess game.Word, fb game.Feedback) {
	s.knowledge.Record(guess, fb)
}

// Knowledge exposes the store for inspection.
func (s *Solver) Knowledge() *Knowledge { return s.knowledge }

// Guessed reports whether w was already produced or replayed.
func (s *Solver) Guessed(w game.Word) bool {
	return s.guessed.Contains(w)
}

// Filter returns every word not in guessed that contains no absent letter.
// A nil guessed set excludes nothing.
// Positions are not checked unless strict is set; in that case words that
// contradict a known exact or misplaced position, or that lack a known
// misplaced letter, are dropped as well.
func Filter(words []game.Word, guessed mapset.Set[game.Word], k *Knowledge, strict bool) []game.Word {
	out := make([]game.Word, 0, len(words))
	for _, w := range words {
		if guessed != nil && guessed.Contains(w) {
			continue
		}
		if hasAbsent(w, k) {
			continue
		}
		if strict && !consistent(w, k) {
			continue
		}
		out = append(out, w)
	}
	return out
}

func hasAbsent(w game.Word, k *Knowledge) bool {
	for i := 0; i < w.Len(); i++ {
		if k.IsAbsent(w.At(i)) {
			return true
		}
	}
	return false
}

// consistent checks w against every recorded position.
func consistent(w game.Word, k *Knowledge) bool {
	for c, positions := range k.exact {
		for i, ok := positions.NextSet(0); ok; i, ok = positions.NextSet(i + 1) {
			if int(i) >= w.Len() || w.At(int(i)) != c {
				return false
			}
		}
	}
	for c, positions := range k.misplaced {
		present := false
		for i := 0; i < w.Len(); i++ {
			if w.At(i) != c {
				continue
			}
			if positions.Test(uint(i)) {
				return false
			}
			present = true
		}
		if !present {
			return false
		}
	}
	return true
}

// Pool builds the weighted multiset of next-guess candidates. A word appears
// once per unit of weight.
//
// With no evidence yet, every candidate appears once. With exact evidence, a
// candidate must reproduce every exact letter at its position and appears
// 1 + moves*wordLen times, where moves counts positions that try a known
// misplaced letter somewhere it has not been tried. With only misplaced
// evidence, a candidate must have moves equal to the number of misplaced
// entries and appears moves times.
func Pool(candidates []game.Word, k *Knowledge, wordLen int) []game.Word {
	if k.Empty() {
		out := make([]game.Word, len(candidates))
		copy(out, candidates)
		return out
	}

	totalExact := k.TotalExact()
	totalMisplaced := k.TotalMisplaced()

	var pool []game.Word
	for _, w := range candidates {
		perfect, moves := score(w, k)
		if totalExact > 0 {
			if perfect != totalExact {
				continue
			}
			for n := 1 + moves*wordLen; n > 0; n-- {
				pool = append(pool, w)
			}
			continue
		}
		if moves != totalMisplaced {
			continue
		}
		for n := moves; n > 0; n-- {
			pool = append(pool, w)
		}
	}
	return pool
}

// score counts positions of w that repeat a known exact letter (perfect) and
// positions that try a known misplaced letter at an untried spot (moves).
func score(w game.Word, k *Knowledge) (perfect, moves int) {
	for i := 0; i < w.Len(); i++ {
		c := w.At(i)
		if k.ExactAt(c, i) {
			perfect++
		}
		if k.IsMisplaced(c) && !k.MisplacedAt(c, i) {
			moves++
		}
	}
	return perfect, moves
}

// Select draws uniformly from pool.
func Select(rng *rand.Rand, pool []game.Word) (game.Word, error) {
	if len(pool) == 0 {
		return "", ErrEmptyPool
	}
	return pool[rng.Intn(len(pool))], nil
}
