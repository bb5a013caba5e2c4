package game

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Guesser supplies the next guess for a session. A human guesser may block
// on input; an automated one consults what it has observed so far.
type Guesser interface {
	Next(ctx context.Context, attempt int) (Word, error)
	Observe(guess Word, fb Feedback)
}

// Renderer presents the board after every round and the final outcome.
type Renderer interface {
	Board(rounds []Round)
	Outcome(state State, target Word)
}

// Play runs rounds until s is won or lost. Errors from the guesser end the
// session early and are returned unchanged.
func Play(ctx context.Context, s *Session, g Guesser, r Renderer) (State, error) {
	log.Info().Str("session", s.ID).Int("wordLen", s.WordLen()).Int("attempts", s.attempts).Msg("session started")

	for !s.state.Done() {
		if err := ctx.Err(); err != nil {
			return s.state, err
		}
		w, err := g.Next(ctx, s.Attempt()+1)
		if err != nil {
			return s.state, err
		}
		fb, err := s.Guess(w)
		if err != nil {
			return s.state, fmt.Errorf("guess %q: %w", w, err)
		}
		g.Observe(w, fb)
		r.Board(s.Rounds())
	}

	r.Outcome(s.state, s.target)
	log.Info().Str("session", s.ID).Str("state", string(s.state)).Int("guesses", s.Attempt()).Msg("session finished")
	return s.state, nil
}
