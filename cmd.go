package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordle/apps/solver/internal/config"
	"github.com/robalobadob/wordle/apps/solver/internal/console"
	"github.com/robalobadob/wordle/apps/solver/internal/game"
	"github.com/robalobadob/wordle/apps/solver/internal/httpserver"
	"github.com/robalobadob/wordle/apps/solver/internal/simulate"
	"github.com/robalobadob/wordle/apps/solver/internal/solver"
	"github.com/robalobadob/wordle/apps/solver/internal/store"
	"github.com/robalobadob/wordle/apps/solver/internal/words"
)

// run executes the command line and returns the process exit status:
// 0 on a finished game, 2 on usage errors, 1 on anything else.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := newRootCmd(stderr)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		var ue *config.UsageError
		if errors.As(err, &ue) {
			fmt.Fprintf(stderr, "%s\nUsage: %s\n", ue.Reason, ue.Usage)
			return 2
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd(stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   config.Usage,
		Short: "Guess a hidden word, or watch the solver guess it",
		Long: `Plays one game against a random word from the dictionary file.

In human mode guesses are read from standard input; in computer mode the
solver narrows the dictionary from the feedback so far and picks each guess.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(stderr, "warn", true)
		},
		RunE: playGame,
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &config.UsageError{Usage: config.Usage, Reason: err.Error()}
	})
	root.AddCommand(newSimulateCmd(), newServeCmd(stderr))
	return root
}

func newSimulateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "simulate <word len> <attempts allowed> <dictionary file> <games>",
		Short: "Play many computer games and print a YAML summary",
		Args:  cobra.ArbitraryArgs,
		RunE:  runSimulation,
	}
}

func newServeCmd(stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the game and solver over HTTP",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return &config.UsageError{Usage: "wordle serve", Reason: "serve takes no arguments"}
			}
			return nil
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(stderr, "info", false)
		},
		RunE: serve,
	}
}

// setupLogging applies LOG_LEVEL and picks human or JSON output.
func setupLogging(w io.Writer, def string, pretty bool) {
	if lvl, err := zerolog.ParseLevel(config.GetEnv("LOG_LEVEL", def)); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if pretty {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w}).With().Timestamp().Logger()
		return
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}

func playGame(cmd *cobra.Command, args []string) error {
	cfg, err := config.ParseGame(args)
	if err != nil {
		return err
	}
	dict, err := words.LoadFile(cfg.Dictionary, cfg.WordLen)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	sess, err := game.NewSession(dict, dict.Random(rng), cfg.Attempts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var guesser game.Guesser
	switch cfg.Mode {
	case config.ModeComputer:
		guesser = console.Paced{
			Guesser: solver.New(dict, rng, solver.WithStrict(cfg.Strict)),
			Delay:   cfg.Delay,
			Out:     out,
		}
	default:
		guesser = console.NewPrompter(cmd.InOrStdin(), out, sess)
	}

	if _, err := game.Play(cmd.Context(), sess, guesser, console.NewRenderer(out)); err != nil {
		if errors.Is(err, solver.ErrEmptyPool) {
			return fmt.Errorf("solver has no valid guess left: %w", err)
		}
		return err
	}
	return nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := config.ParseSimulate(args)
	if err != nil {
		return err
	}
	dict, err := words.LoadFile(cfg.Dictionary, cfg.WordLen)
	if err != nil {
		return err
	}
	report, err := simulate.Run(cmd.Context(), simulate.Options{
		Dict:     dict,
		Attempts: cfg.Attempts,
		Games:    cfg.Games,
		Workers:  cfg.Workers,
		Seed:     cfg.Seed,
		Strict:   cfg.Strict,
		Progress: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	return report.WriteYAML(cmd.OutOrStdout())
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadServer()
	if err != nil {
		return err
	}
	var dict *words.Dictionary
	if cfg.WordsFile != "" {
		dict, err = words.LoadFile(cfg.WordsFile, cfg.WordLen)
	} else {
		dict, err = words.Default(cfg.WordLen)
	}
	if err != nil {
		return err
	}

	srv := httpserver.New(store.NewMemoryStore(), dict, httpserver.Options{
		Attempts:     cfg.Attempts,
		DailySalt:    cfg.DailySalt,
		ClientOrigin: cfg.ClientOrigin,
		Seed:         cfg.Seed,
		Strict:       cfg.Strict,
	})
	log.Info().Str("port", cfg.Port).Int("words", dict.Len()).Msg("starting wordle server")
	return srv.Start(":" + cfg.Port)
}
