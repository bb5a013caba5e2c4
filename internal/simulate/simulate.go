// Package simulate plays many automated sessions concurrently and summarizes
// how the solver fares. Each session owns its own RNG, knowledge, and board,
// so sessions share nothing but the read-only dictionary.
package simulate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/robalobadob/wordle/apps/solver/internal/game"
	"github.com/robalobadob/wordle/apps/solver/internal/solver"
	"github.com/robalobadob/wordle/apps/solver/internal/words"
)

// Options configures a batch.
type Options struct {
	Dict     *words.Dictionary
	Attempts int
	Games    int
	Workers  int
	Seed     int64 // game i uses Seed+i
	Strict   bool
	Progress io.Writer // nil disables the progress bar
}

// Report summarizes a batch.
type Report struct {
	Games       int         `yaml:"games"`
	Wins        int         `yaml:"wins"`
	Losses      int         `yaml:"losses"`
	EmptyPool   int         `yaml:"empty_pool"`
	WinRate     float64     `yaml:"win_rate"`
	MeanGuesses float64     `yaml:"mean_guesses_on_win"`
	Histogram   map[int]int `yaml:"guesses_histogram"`
}

// outcome of one simulated session.
type outcome struct {
	state   game.State
	guesses int
	empty   bool
}

// Run plays opts.Games sessions and aggregates the results. An empty pool
// ends that session and is counted, not returned; any other error aborts
// the batch.
func Run(ctx context.Context, opts Options) (*Report, error) {
	if opts.Dict == nil || opts.Games <= 0 || opts.Attempts <= 0 {
		return nil, errors.New("simulate: dictionary, games and attempts are required")
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}

	var bar *progressbar.ProgressBar
	if opts.Progress != nil {
		bar = progressbar.NewOptions(opts.Games,
			progressbar.OptionSetWriter(opts.Progress),
			progressbar.OptionSetDescription("simulating"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	results := make([]outcome, opts.Games)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < opts.Games; i++ {
		i := i
		g.Go(func() error {
			out, err := playOne(ctx, opts, opts.Seed+int64(i))
			if err != nil {
				return fmt.Errorf("game %d: %w", i, err)
			}
			results[i] = out
			if bar != nil {
				_ = bar.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if bar != nil {
		_ = bar.Finish()
	}

	r := summarize(results)
	log.Info().Int("games", r.Games).Int("wins", r.Wins).Int("emptyPool", r.EmptyPool).Msg("simulation finished")
	return r, nil
}

func playOne(ctx context.Context, opts Options, seed int64) (outcome, error) {
	rng := rand.New(rand.NewSource(seed))
	sess, err := game.NewSession(opts.Dict, opts.Dict.Random(rng), opts.Attempts)
	if err != nil {
		return outcome{}, err
	}
	s := solver.New(opts.Dict, rng, solver.WithStrict(opts.Strict))
	state, err := game.Play(ctx, sess, s, discard{})
	switch {
	case errors.Is(err, solver.ErrEmptyPool):
		return outcome{state: game.StateLost, guesses: sess.Attempt(), empty: true}, nil
	case err != nil:
		return outcome{}, err
	}
	return outcome{state: state, guesses: sess.Attempt()}, nil
}

func summarize(results []outcome) *Report {
	r := &Report{Games: len(results), Histogram: make(map[int]int)}
	total := 0
	for _, o := range results {
		switch {
		case o.empty:
			r.EmptyPool++
		case o.state == game.StateWon:
			r.Wins++
			total += o.guesses
			r.Histogram[o.guesses]++
		default:
			r.Losses++
		}
	}
	if r.Games > 0 {
		r.WinRate = float64(r.Wins) / float64(r.Games)
	}
	if r.Wins > 0 {
		r.MeanGuesses = float64(total) / float64(r.Wins)
	}
	return r
}

// WriteYAML encodes the report to w.
func (r *Report) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}

// discard renders nothing.
type discard struct{}

func (discard) Board([]game.Round)             {}
func (discard) Outcome(game.State, game.Word) {}
