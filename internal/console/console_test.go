package console

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle/apps/solver/internal/game"
	"github.com/robalobadob/wordle/apps/solver/internal/words"
)

func session(t *testing.T) *game.Session {
	t.Helper()
	d, err := words.New([]string{"CRANE", "SLATE", "TRACE"}, 5)
	require.NoError(t, err)
	s, err := game.NewSession(d, "CRANE", 6)
	require.NoError(t, err)
	return s
}

func TestPrompterRepromptsUntilValid(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("cran\nbrine\n\nsl@te\n  slate \n"), &out, session(t))

	w, err := p.Next(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, game.Word("SLATE"), w)

	text := out.String()
	assert.Equal(t, 5, strings.Count(text, "What's your guess number #1?"))
	assert.Equal(t, 4, strings.Count(text, "Guess must be a valid 5-length word in the dictionary!"))
}

func TestPrompterEOF(t *testing.T) {
	p := NewPrompter(strings.NewReader("nope\n"), io.Discard, session(t))
	_, err := p.Next(context.Background(), 1)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestRendererBoard(t *testing.T) {
	var out bytes.Buffer
	r := NewRenderer(&out)
	r.Board([]game.Round{
		{Guess: "SLATE", Feedback: game.Evaluate("CRANE", "SLATE")},
		{Guess: "CRANE", Feedback: game.Evaluate("CRANE", "CRANE")},
	})
	r.Outcome(game.StateWon, "CRANE")

	text := ansi.Strip(out.String())
	assert.Equal(t, "\nBOARD:\nSLATE\nCRANE\n\nYou Won!\n", text)
}

func TestRendererLoss(t *testing.T) {
	var out bytes.Buffer
	NewRenderer(&out).Outcome(game.StateLost, "CRANE")
	assert.Equal(t, "Game Over: You lost :(. Secret Word = CRANE\n", out.String())
}

type fixed struct {
	w   game.Word
	err error
}

func (f fixed) Next(context.Context, int) (game.Word, error) { return f.w, f.err }
func (fixed) Observe(game.Word, game.Feedback)                 {}

func TestPaced(t *testing.T) {
	var out bytes.Buffer
	p := Paced{Guesser: fixed{w: "CRANE"}, Out: &out}

	w, err := p.Next(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, game.Word("CRANE"), w)
	assert.Equal(t, "Computer guess #2: CRANE\n", out.String())
}

func TestPacedCancelledDuringDelay(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := Paced{Guesser: fixed{w: "CRANE"}, Delay: time.Hour, Out: io.Discard}

	_, err := p.Next(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPacedPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	var out bytes.Buffer
	_, err := Paced{Guesser: fixed{err: boom}, Out: &out}.Next(context.Background(), 1)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, out.String())
}
