// internal/words/words.go
//
// Provides dictionary loading for the game engine and the solver.
//
// Responsibilities:
//   - Read a line-oriented word list from a file, a reader, or the embedded default.
//   - Normalize (trim, uppercase) and keep only A–Z words of the configured length.
//   - Deduplicate and keep a stable, sorted order so seeded runs are reproducible.
//   - Supply lookups used by sessions (Contains) and target selection (Random, At).
//
// Constraints:
//   • A dictionary is never mutated after Load returns.
//   • Loading fails with a *DictionaryError if the source is unreadable or
//     nothing survives filtering.

package words

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/solver/assets"
	"github.com/robalobadob/wordle/apps/solver/internal/game"
)

// ErrEmpty reports a source that had no usable words of the requested length.
var ErrEmpty = errors.New("no usable words")

// DictionaryError wraps every failure to produce a dictionary.
type DictionaryError struct {
	Source string
	Err    error
}

func (e *DictionaryError) Error() string {
	return fmt.Sprintf("dictionary %s: %v", e.Source, e.Err)
}

func (e *DictionaryError) Unwrap() error { return e.Err }

// Dictionary is an immutable set of unique words of one length.
type Dictionary struct {
	wordLen int
	words   []game.Word
	set     map[game.Word]struct{}
}

// LoadFile reads the word list at path.
func LoadFile(path string, wordLen int) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DictionaryError{Source: path, Err: err}
	}
	defer f.Close()
	d, err := load(f, wordLen, path)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("path", path).Int("words", d.Len()).Int("wordLen", wordLen).Msg("dictionary loaded")
	return d, nil
}

// Load reads one word per line from r.
func Load(r io.Reader, wordLen int) (*Dictionary, error) {
	return load(r, wordLen, "reader")
}

// Default returns the embedded word list filtered to wordLen.
func Default(wordLen int) (*Dictionary, error) {
	f, err := assets.FS.Open(assets.DefaultWords)
	if err != nil {
		return nil, &DictionaryError{Source: "embedded", Err: err}
	}
	defer f.Close()
	return load(f, wordLen, "embedded")
}

// New builds a dictionary from an in-memory list using the same rules as Load.
func New(list []string, wordLen int) (*Dictionary, error) {
	return load(strings.NewReader(strings.Join(list, "\n")), wordLen, "list")
}

func load(r io.Reader, wordLen int, source string) (*Dictionary, error) {
	if wordLen <= 0 {
		return nil, &DictionaryError{Source: source, Err: fmt.Errorf("word length %d", wordLen)}
	}
	d := &Dictionary{wordLen: wordLen, set: make(map[game.Word]struct{})}

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		w, err := game.ParseWord(sc.Text())
		if err != nil || w.Len() != wordLen {
			continue
		}
		if _, dup := d.set[w]; dup {
			continue
		}
		d.set[w] = struct{}{}
		d.words = append(d.words, w)
	}
	if err := sc.Err(); err != nil {
		return nil, &DictionaryError{Source: source, Err: err}
	}
	if len(d.words) == 0 {
		return nil, &DictionaryError{Source: source, Err: fmt.Errorf("%w of length %d", ErrEmpty, wordLen)}
	}

	sort.Slice(d.words, func(i, j int) bool { return d.words[i] < d.words[j] })
	return d, nil
}

// Contains reports whether w is in the dictionary.
func (d *Dictionary) Contains(w game.Word) bool {
	_, ok := d.set[w]
	return ok
}

// WordLen returns the configured word length.
func (d *Dictionary) WordLen() int { return d.wordLen }

// Len returns the number of words.
func (d *Dictionary) Len() int { return len(d.words) }

// Words returns the words in sorted order. Callers must not modify the slice.
func (d *Dictionary) Words() []game.Word { return d.words }

// At returns the i-th word in sorted order.
func (d *Dictionary) At(i int) game.Word { return d.words[i] }

// Random draws a word uniformly using rng.
func (d *Dictionary) Random(rng *rand.Rand) game.Word {
	return d.words[rng.Intn(len(d.words))]
}
