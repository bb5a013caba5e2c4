// internal/httpserver/server.go
//
// HTTP wiring for the single-player game API.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, logging).
//   - Public endpoints: "/", "/health".
//   - Game endpoints: POST /game/new, POST /game/guess, POST /game/auto, GET /game/{id}.
//   - Daily endpoints: mounted under /daily.
//
// Notes:
//   - Sessions live in memory only; nothing is persisted across restarts.
//   - The answer is included in responses only once a game is over.
//   - /game/auto rebuilds the solver from the board on every call.

package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/solver/internal/game"
	"github.com/robalobadob/wordle/apps/solver/internal/solver"
	"github.com/robalobadob/wordle/apps/solver/internal/store"
	"github.com/robalobadob/wordle/apps/solver/internal/words"
)

// Options configures a Server.
type Options struct {
	Attempts     int
	DailySalt    string
	ClientOrigin string
	Seed         int64
	Strict       bool
}

// Server bundles router, session store, and dictionary.
type Server struct {
	r     *chi.Mux
	store store.Store
	dict  *words.Dictionary
	opts  Options

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, dict *words.Dictionary, opts Options) *Server {
	s := &Server{
		r:     chi.NewRouter(),
		store: st,
		dict:  dict,
		opts:  opts,
		rng:   rand.New(rand.NewSource(opts.Seed)),
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(requestLogger)                   // one zerolog line per request
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(cors(opts.ClientOrigin))         // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"service":"wordle-solver","endpoints":["/health","POST /game/new","POST /game/guess","POST /game/auto","GET /game/{id}","/daily/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "words": s.dict.Len(), "wordLen": s.dict.WordLen()})
	})

	s.r.Route("/game", func(r chi.Router) {
		r.Post("/new", s.handleNewGame)
		r.Post("/guess", s.handleGuess)
		r.Post("/auto", s.handleAuto)
		r.Get("/{id}", s.handleGetGame)
	})
	s.mountDaily(s.r)

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found")
	})
	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// newRand derives a request-scoped RNG from the server's seeded source.
func (s *Server) newRand() *rand.Rand {
	s.mu.Lock()
	defer s.mu.Unlock()
	return rand.New(rand.NewSource(s.rng.Int63()))
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requestLogger logs method, path, status, and latency.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("latency", time.Since(start)).
			Str("requestId", chimw.GetReqID(r.Context())).
			Msg("request")
	})
}

// ------------------------------ GAME ---------------------------------------

type newGameReq struct {
	Answer string `json:"answer"` // optional fixed answer (testing)
}

type newGameRes struct {
	GameID   string `json:"gameId"`
	WordLen  int    `json:"wordLen"`
	Attempts int    `json:"attempts"`
}

// handleNewGame creates a session with a random target, or a fixed one.
// An empty body is allowed.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}

	target := s.dict.Random(s.newRand())
	if req.Answer != "" {
		t, err := game.ParseWord(req.Answer)
		if err != nil || !s.dict.Contains(t) {
			writeError(w, http.StatusBadRequest, "answer not in word list")
			return
		}
		target = t
	}
	s.startGame(w, r, target)
}

// startGame creates, stores, and reports a session for target.
func (s *Server) startGame(w http.ResponseWriter, r *http.Request, target game.Word) {
	sess, err := game.NewSession(s.dict, target, s.opts.Attempts)
	if err != nil {
		log.Error().Err(err).Msg("new session")
		writeError(w, http.StatusInternalServerError, "new_session_failed")
		return
	}
	if err := s.store.Save(r.Context(), sess); err != nil {
		log.Error().Err(err).Msg("save session")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	_ = json.NewEncoder(w).Encode(newGameRes{GameID: sess.ID, WordLen: sess.WordLen(), Attempts: sess.Attempts()})
}

type guessReq struct {
	GameID string `json:"gameId"`
	Guess  string `json:"guess"`
}

type guessRes struct {
	Guess  game.Word   `json:"guess"`
	Marks  []game.Mark `json:"marks"`
	State  game.State  `json:"state"`
	Answer game.Word   `json:"answer,omitempty"`
}

// handleGuess validates and applies a player's guess.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	var res guessRes
	err := s.store.Update(r.Context(), req.GameID, func(sess *game.Session) error {
		word, err := sess.Validate(req.Guess)
		if err != nil {
			return err
		}
		res, err = apply(sess, word)
		return err
	})
	if err != nil {
		writeGameError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(res)
}

type autoReq struct {
	GameID string `json:"gameId"`
}

// handleAuto lets the solver play the next guess.
func (s *Server) handleAuto(w http.ResponseWriter, r *http.Request) {
	var req autoReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	rng := s.newRand()
	var res guessRes
	err := s.store.Update(r.Context(), req.GameID, func(sess *game.Session) error {
		if sess.State().Done() {
			return game.ErrSessionOver
		}
		sv := solver.Replay(s.dict, rng, sess.Rounds(), solver.WithStrict(s.opts.Strict))
		word, err := sv.Next(r.Context(), sess.Attempt()+1)
		if err != nil {
			return err
		}
		res, err = apply(sess, word)
		return err
	})
	if err != nil {
		writeGameError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(res)
}

func apply(sess *game.Session, word game.Word) (guessRes, error) {
	fb, err := sess.Guess(word)
	if err != nil {
		return guessRes{}, err
	}
	res := guessRes{Guess: word, Marks: fb.Marks, State: sess.State()}
	res.Answer, _ = sess.Reveal()
	return res, nil
}

type roundRes struct {
	Guess game.Word   `json:"guess"`
	Marks []game.Mark `json:"marks"`
}

type gameRes struct {
	GameID   string     `json:"gameId"`
	WordLen  int        `json:"wordLen"`
	Attempts int        `json:"attempts"`
	Rounds   []roundRes `json:"rounds"`
	State    game.State `json:"state"`
	Answer   game.Word  `json:"answer,omitempty"`
}

// handleGetGame returns the board for a session.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	var res gameRes
	err := s.store.View(r.Context(), chi.URLParam(r, "id"), func(sess *game.Session) error {
		res = gameRes{
			GameID:   sess.ID,
			WordLen:  sess.WordLen(),
			Attempts: sess.Attempts(),
			Rounds:   []roundRes{},
			State:    sess.State(),
		}
		for _, rd := range sess.Rounds() {
			res.Rounds = append(res.Rounds, roundRes{Guess: rd.Guess, Marks: rd.Feedback.Marks})
		}
		res.Answer, _ = sess.Reveal()
		return nil
	})
	if err != nil {
		writeGameError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(res)
}

// ------------------------------- errors ------------------------------------

// writeGameError maps engine and store errors to HTTP statuses.
func writeGameError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found")
	case errors.Is(err, game.ErrInvalidGuess):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, game.ErrSessionOver):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, solver.ErrEmptyPool):
		writeError(w, http.StatusUnprocessableEntity, "no_candidates")
	default:
		log.Error().Err(err).Msg("game request")
		writeError(w, http.StatusInternalServerError, "internal_error")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
