// Package console is the terminal side of a session: it reads human guesses,
// paces automated ones, and renders the board with colored tiles.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/solver/internal/game"
)

// Validator checks raw input against the session's dictionary.
type Validator interface {
	Validate(raw string) (game.Word, error)
	WordLen() int
}

// Prompter is a game.Guesser reading one guess per line. Invalid input is
// re-prompted indefinitely and never counts as an attempt.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
	v   Validator
}

// NewPrompter reads guesses from in and writes prompts to out.
func NewPrompter(in io.Reader, out io.Writer, v Validator) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out, v: v}
}

// Next blocks until a valid guess is read. It fails only when input ends.
func (p *Prompter) Next(ctx context.Context, attempt int) (game.Word, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		fmt.Fprintf(p.out, "What's your guess number #%d?\n", attempt)
		if !p.in.Scan() {
			if err := p.in.Err(); err != nil {
				return "", fmt.Errorf("read guess: %w", err)
			}
			return "", fmt.Errorf("read guess: %w", io.ErrUnexpectedEOF)
		}
		w, err := p.v.Validate(p.in.Text())
		if err != nil {
			log.Debug().Err(err).Str("input", p.in.Text()).Msg("guess rejected")
			fmt.Fprintf(p.out, "Guess must be a valid %d-length word in the dictionary!\n", p.v.WordLen())
			continue
		}
		return w, nil
	}
}

// Observe is a no-op; humans keep their own notes.
func (p *Prompter) Observe(game.Word, game.Feedback) {}

// Paced wraps an automated guesser with a cosmetic delay and announces each
// guess before it is scored.
type Paced struct {
	game.Guesser
	Delay time.Duration
	Out   io.Writer
}

// Next waits Delay, then asks the wrapped guesser.
func (p Paced) Next(ctx context.Context, attempt int) (game.Word, error) {
	if p.Delay > 0 {
		t := time.NewTimer(p.Delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return "", ctx.Err()
		case <-t.C:
		}
	}
	w, err := p.Guesser.Next(ctx, attempt)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(p.Out, "Computer guess #%d: %s\n", attempt, w)
	return w, nil
}

// Renderer prints the full board after every round.
type Renderer struct {
	out    io.Writer
	styles map[game.Mark]lipgloss.Style
}

// NewRenderer renders to out. Colors are dropped when out is not a terminal.
func NewRenderer(out io.Writer) *Renderer {
	lr := lipgloss.NewRenderer(out)
	return &Renderer{
		out: out,
		styles: map[game.Mark]lipgloss.Style{
			game.MarkExact:     lr.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
			game.MarkMisplaced: lr.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
			game.MarkAbsent:    lr.NewStyle().Foreground(lipgloss.Color("1")),
		},
	}
}

// Row renders one guess with a style per letter.
func (r *Renderer) Row(round game.Round) string {
	var b strings.Builder
	for i := 0; i < round.Guess.Len(); i++ {
		letter := string(round.Guess.At(i))
		if i < len(round.Feedback.Marks) {
			letter = r.styles[round.Feedback.Marks[i]].Render(letter)
		}
		b.WriteString(letter)
	}
	return b.String()
}

// Board reprints every round so far.
func (r *Renderer) Board(rounds []game.Round) {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "BOARD:")
	for _, round := range rounds {
		fmt.Fprintln(r.out, r.Row(round))
	}
	fmt.Fprintln(r.out)
}

// Outcome announces a win, or reveals the target on a loss.
func (r *Renderer) Outcome(state game.State, target game.Word) {
	switch state {
	case game.StateWon:
		fmt.Fprintln(r.out, "You Won!")
	case game.StateLost:
		fmt.Fprintf(r.out, "Game Over: You lost :(. Secret Word = %s\n", target)
	}
}
