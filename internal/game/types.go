// internal/game/types.go
//
// Core type definitions for the game engine.
// Defines:
//   - Word: an immutable, validated, uppercase A–Z guess or answer.
//   - Mark: per-letter result of a guess (exact/misplaced/absent).
//   - Feedback: the marks for one guess plus the exact-match count.
//   - State: lifecycle of a session (in_progress → won | lost).

package game

import (
	"errors"
	"fmt"
	"strings"
)

// Mark represents the evaluation result for a single letter in a guess.
// Possible values:
//   - "exact":     letter is correct and in the correct position.
//   - "misplaced": letter has an unmatched occurrence elsewhere in the answer.
//   - "absent":    letter has no unmatched occurrence left in the answer.
type Mark string

const (
	MarkExact     Mark = "exact"
	MarkMisplaced Mark = "misplaced"
	MarkAbsent    Mark = "absent"
)

// State is a coarse representation of where a session is in its lifecycle.
type State string

const (
	StateInProgress State = "in_progress"
	StateWon        State = "won"
	StateLost       State = "lost"
)

// Done reports whether s is terminal.
func (s State) Done() bool { return s == StateWon || s == StateLost }

var (
	// ErrInvalidGuess is the parent of every guess rejection. Rejected guesses
	// never consume an attempt.
	ErrInvalidGuess    = errors.New("invalid guess")
	ErrWrongLength     = fmt.Errorf("%w: wrong length", ErrInvalidGuess)
	ErrNotAlphabetic   = fmt.Errorf("%w: letters A-Z only", ErrInvalidGuess)
	ErrNotInDictionary = fmt.Errorf("%w: not in word list", ErrInvalidGuess)

	// ErrSessionOver is returned when guessing after a win or loss.
	ErrSessionOver = errors.New("game finished")
)

// Word is a fixed-length sequence of uppercase letters A–Z.
// Construct it with ParseWord; the zero value is the empty word.
type Word string

// ParseWord trims s, checks that it consists only of ASCII letters, and
// uppercases it. Non-ASCII letters are rejected even when their uppercase
// form is ASCII, so a word never changes length while parsing.
func ParseWord(s string) (Word, error) {
	w := strings.TrimSpace(s)
	if w == "" || !isAlpha(w) {
		return "", ErrNotAlphabetic
	}
	return Word(strings.ToUpper(w)), nil
}

// Len returns the number of letters in w.
func (w Word) Len() int { return len(w) }

// At returns the letter at position i.
func (w Word) At(i int) byte { return w[i] }

func (w Word) String() string { return string(w) }

// Feedback is the evaluation of one guess against the target.
type Feedback struct {
	Marks   []Mark // one per letter position
	Matches int    // number of MarkExact entries
}

// Won reports whether every position matched exactly.
func (f Feedback) Won() bool { return len(f.Marks) > 0 && f.Matches == len(f.Marks) }

// Round is one row of the board: the guess and how it scored.
type Round struct {
	Guess    Word
	Feedback Feedback
}

// isAlpha checks that a string consists only of ASCII letters.
func isAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'A' || c > 'Z') && (c < 'a' || c > 'z') {
			return false
		}
	}
	return true
}
