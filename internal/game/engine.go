// internal/game/engine.go
//
// Core game engine for a single session.
// Responsibilities:
//   - Create sessions with a configurable word length and attempt limit.
//   - Validate guesses (alphabetic, length, dictionary membership).
//   - Score guesses using the two-pass algorithm (exact first, then misplaced).
//   - Track state transitions: in_progress → won/lost.
//
// Notes:
//   - The target is only reachable through Reveal once the session is over.
//   - Board rows are append-only and never exceed the attempt limit.
package game

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Dictionary is the read-only word list a session validates guesses against.
type Dictionary interface {
	Contains(w Word) bool
	WordLen() int
}

// Session holds the state of a single game from target selection to win/loss.
type Session struct {
	ID       string
	dict     Dictionary
	target   Word
	attempts int
	rounds   []Round
	state    State
}

// NewSession constructs a session for target. The target must be a member
// of dict and attempts must be positive.
func NewSession(dict Dictionary, target Word, attempts int) (*Session, error) {
	if attempts <= 0 {
		return nil, errors.New("attempts must be positive")
	}
	if target.Len() != dict.WordLen() || !dict.Contains(target) {
		return nil, fmt.Errorf("target %q: %w", target, ErrNotInDictionary)
	}
	return &Session{
		ID:       uuid.NewString(),
		dict:     dict,
		target:   target,
		attempts: attempts,
		rounds:   make([]Round, 0, attempts),
		state:    StateInProgress,
	}, nil
}

// Validate parses raw and checks it is a playable guess for this session.
func (s *Session) Validate(raw string) (Word, error) {
	w, err := ParseWord(raw)
	if err != nil {
		return "", err
	}
	if w.Len() != s.dict.WordLen() {
		return "", ErrWrongLength
	}
	if !s.dict.Contains(w) {
		return "", ErrNotInDictionary
	}
	return w, nil
}

// Guess validates and scores a guess, appending it to the board.
//
// State transitions:
//   - All positions exact → won.
//   - Else if the board reaches the attempt limit → lost.
func (s *Session) Guess(w Word) (Feedback, error) {
	if s.state.Done() {
		return Feedback{}, ErrSessionOver
	}
	if _, err := s.Validate(string(w)); err != nil {
		return Feedback{}, err
	}

	fb := Evaluate(s.target, w)
	s.rounds = append(s.rounds, Round{Guess: w, Feedback: fb})

	if fb.Won() {
		s.state = StateWon
	} else if len(s.rounds) >= s.attempts {
		s.state = StateLost
	}
	return fb, nil
}

// State reports the current lifecycle state.
func (s *Session) State() State { return s.state }

// Rounds returns a copy of the board.
func (s *Session) Rounds() []Round {
	out := make([]Round, len(s.rounds))
	copy(out, s.rounds)
	return out
}

// Attempt returns the number of guesses made so far.
func (s *Session) Attempt() int { return len(s.rounds) }

// Attempts returns the attempt limit.
func (s *Session) Attempts() int { return s.attempts }

// WordLen returns the configured word length.
func (s *Session) WordLen() int { return s.dict.WordLen() }

// Reveal returns the target once the session is over.
func (s *Session) Reveal() (Word, bool) {
	if !s.state.Done() {
		return "", false
	}
	return s.target, true
}

// Evaluate scores guess against target.
//
// Pass 1:
//   - Mark exact matches and consume them from a letter count of the target.
//
// Pass 2 (left to right):
//   - For each non-exact guess letter: if the letter still has remaining
//     count, mark misplaced and decrement; otherwise mark absent.
//
// Exact matches are consumed before misplaced ones, so a repeated guess letter
// is never credited more often than the target contains it.
//
// Both words are expected to come from ParseWord with equal lengths. Other
// input does not panic: counts are kept per byte, and guess positions past
// the end of target can only be misplaced or absent.
func Evaluate(target, guess Word) Feedback {
	n := guess.Len()
	fb := Feedback{Marks: make([]Mark, n)}

	var remaining [256]int
	for i := 0; i < target.Len(); i++ {
		remaining[target.At(i)]++
	}

	for i := 0; i < n; i++ {
		if i < target.Len() && guess.At(i) == target.At(i) {
			fb.Marks[i] = MarkExact
			fb.Matches++
			remaining[guess.At(i)]--
		}
	}

	for i := 0; i < n; i++ {
		if fb.Marks[i] == MarkExact {
			continue
		}
		j := guess.At(i)
		if remaining[j] > 0 {
			fb.Marks[i] = MarkMisplaced
			remaining[j]--
		} else {
			fb.Marks[i] = MarkAbsent
		}
	}
	return fb
}
