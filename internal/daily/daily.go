// Package daily picks a deterministic target per calendar day so every
// player of the day's game faces the same word.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/robalobadob/wordle/apps/solver/internal/game"
)

// Indexed is a word list addressable by position.
type Indexed interface {
	Len() int
	At(i int) game.Word
}

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// WordIndex returns HMAC(salt, YYYY-MM-DD) % n.
func WordIndex(date time.Time, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for the modulus
	return int(binary.BigEndian.Uint64(sum[:8]) % uint64(n))
}

// Target returns the word for date.
func Target(date time.Time, salt string, words Indexed) game.Word {
	return words.At(WordIndex(date, salt, words.Len()))
}
