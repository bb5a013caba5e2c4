// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily" mode.
// Exposes two endpoints under /daily:
//   - GET  /daily     → today's date key and word length (never the word)
//   - POST /daily/new → start a session whose target is today's word
//
// Guesses for a daily session go through the regular /game endpoints.
// Word selection is HMAC(DAILY_SALT, YYYY-MM-DD) over the sorted dictionary.

package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/wordle/apps/solver/internal/daily"
)

// now is replaced in tests.
var now = time.Now

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Get("/", s.handleDailyInfo)
		r.Post("/new", s.handleDailyNew)
	})
}

type dailyInfoRes struct {
	Date     string `json:"date"`
	WordLen  int    `json:"wordLen"`
	Attempts int    `json:"attempts"`
}

func (s *Server) handleDailyInfo(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(dailyInfoRes{
		Date:     daily.DateKey(now()),
		WordLen:  s.dict.WordLen(),
		Attempts: s.opts.Attempts,
	})
}

// handleDailyNew starts a session on today's word.
func (s *Server) handleDailyNew(w http.ResponseWriter, r *http.Request) {
	s.startGame(w, r, daily.Target(now(), s.opts.DailySalt, s.dict))
}
