// internal/config/config.go
//
// Command and environment configuration.
//
// Positional command surface:
//   wordle <word len> <attempts allowed> <dictionary file> [human|computer]
//
// Environment variables (a `.env` file is loaded by main):
//   LOG_LEVEL        zerolog level name.
//   SOLVER_SEED      int64 seed for the session RNG (default: time-based).
//   GUESS_DELAY      pause before an automated guess is shown (default 500ms).
//   SOLVER_STRICT    also filter candidates positionally (default false).
//   SIMULATE_WORKERS concurrent simulated sessions (default GOMAXPROCS).
//   PORT, WORDS_FILE, WORD_LEN, ATTEMPTS, DAILY_SALT, CLIENT_ORIGIN for `serve`.

package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// Usage lines for each command.
const (
	Usage         = "wordle <word len> <attempts allowed> <dictionary file> [human|computer]"
	SimulateUsage = "wordle simulate <word len> <attempts allowed> <dictionary file> <games>"
)

// Mode selects who supplies guesses.
type Mode string

const (
	ModeHuman    Mode = "human"
	ModeComputer Mode = "computer"
)

// UsageError is a malformed or missing argument. It is fatal before any
// session starts.
type UsageError struct {
	Usage  string
	Reason string
}

func (e *UsageError) Error() string { return e.Reason }

// Game configures a single interactive session.
type Game struct {
	WordLen    int
	Attempts   int
	Dictionary string
	Mode       Mode
	Seed       int64
	Delay      time.Duration
	Strict     bool
}

// Simulate configures a batch of automated sessions.
type Simulate struct {
	WordLen    int
	Attempts   int
	Dictionary string
	Games      int
	Workers    int
	Seed       int64
	Strict     bool
}

// Server configures the HTTP API.
type Server struct {
	Port         string
	WordsFile    string
	WordLen      int
	Attempts     int
	DailySalt    string
	ClientOrigin string
	Seed         int64
	Strict       bool
}

// ParseGame parses the positional play arguments and the environment.
func ParseGame(args []string) (Game, error) {
	if len(args) != 3 && len(args) != 4 {
		return Game{}, usage(Usage, "expected 3 or 4 arguments, got %d", len(args))
	}
	cfg := Game{Dictionary: args[2], Mode: ModeHuman}
	var err error
	if cfg.WordLen, err = positive(Usage, "word len", args[0]); err != nil {
		return Game{}, err
	}
	if cfg.Attempts, err = positive(Usage, "attempts allowed", args[1]); err != nil {
		return Game{}, err
	}
	if len(args) == 4 {
		switch m := Mode(strings.ToLower(args[3])); m {
		case ModeHuman, ModeComputer:
			cfg.Mode = m
		default:
			return Game{}, usage(Usage, "unknown guesser mode %q", args[3])
		}
	}
	if cfg.Seed, err = seed(Usage); err != nil {
		return Game{}, err
	}
	if cfg.Delay, err = duration(Usage, "GUESS_DELAY", 500*time.Millisecond); err != nil {
		return Game{}, err
	}
	if cfg.Strict, err = boolean(Usage, "SOLVER_STRICT"); err != nil {
		return Game{}, err
	}
	return cfg, nil
}

// ParseSimulate parses the positional simulate arguments and the environment.
func ParseSimulate(args []string) (Simulate, error) {
	if len(args) != 4 {
		return Simulate{}, usage(SimulateUsage, "expected 4 arguments, got %d", len(args))
	}
	cfg := Simulate{Dictionary: args[2]}
	var err error
	if cfg.WordLen, err = positive(SimulateUsage, "word len", args[0]); err != nil {
		return Simulate{}, err
	}
	if cfg.Attempts, err = positive(SimulateUsage, "attempts allowed", args[1]); err != nil {
		return Simulate{}, err
	}
	if cfg.Games, err = positive(SimulateUsage, "games", args[3]); err != nil {
		return Simulate{}, err
	}
	if cfg.Workers, err = positive(SimulateUsage, "SIMULATE_WORKERS", GetEnv("SIMULATE_WORKERS", strconv.Itoa(runtime.GOMAXPROCS(0)))); err != nil {
		return Simulate{}, err
	}
	if cfg.Seed, err = seed(SimulateUsage); err != nil {
		return Simulate{}, err
	}
	if cfg.Strict, err = boolean(SimulateUsage, "SOLVER_STRICT"); err != nil {
		return Simulate{}, err
	}
	return cfg, nil
}

// LoadServer reads the server configuration from the environment.
func LoadServer() (Server, error) {
	const u = "wordle serve"
	cfg := Server{
		Port:         GetEnv("PORT", "5175"),
		WordsFile:    os.Getenv("WORDS_FILE"),
		DailySalt:    GetEnv("DAILY_SALT", "local_dev_salt"),
		ClientOrigin: GetEnv("CLIENT_ORIGIN", "http://localhost:5173"),
	}
	var err error
	if cfg.WordLen, err = positive(u, "WORD_LEN", GetEnv("WORD_LEN", "5")); err != nil {
		return Server{}, err
	}
	if cfg.Attempts, err = positive(u, "ATTEMPTS", GetEnv("ATTEMPTS", "6")); err != nil {
		return Server{}, err
	}
	if cfg.Seed, err = seed(u); err != nil {
		return Server{}, err
	}
	if cfg.Strict, err = boolean(u, "SOLVER_STRICT"); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

// GetEnv returns the value of k or def if unset/empty.
func GetEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func usage(u, format string, args ...any) *UsageError {
	return &UsageError{Usage: u, Reason: fmt.Sprintf(format, args...)}
}

func positive(u, name, s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, usage(u, "%s must be a positive integer, got %q", name, s)
	}
	return n, nil
}

func seed(u string) (int64, error) {
	v := os.Getenv("SOLVER_SEED")
	if v == "" {
		return time.Now().UnixNano(), nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, usage(u, "SOLVER_SEED must be an integer, got %q", v)
	}
	return n, nil
}

func duration(u, k string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return 0, usage(u, "%s must be a non-negative duration, got %q", k, v)
	}
	return d, nil
}

func boolean(u, k string) (bool, error) {
	v := os.Getenv(k)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, usage(u, "%s must be a boolean, got %q", k, v)
	}
	return b, nil
}
