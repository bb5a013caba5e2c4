// internal/solver/knowledge.go
//
// Knowledge accumulates everything learned from feedback in one session:
//   - exact:     letter → positions confirmed correct.
//   - misplaced: letter → positions where the letter is present but wrong.
//   - absent:    letters with no occurrence left anywhere in the target.
//
// Position sets only grow. Record is the single mutation path.

package solver

import (
	"sort"

	"github.com/bits-and-blooms/bitset"
	"golang.org/x/exp/constraints"

	"github.com/robalobadob/wordle/apps/solver/internal/game"
)

// Knowledge is the constraint store built from every guess seen so far.
type Knowledge struct {
	exact     map[byte]*bitset.BitSet
	misplaced map[byte]*bitset.BitSet
	absent    map[byte]struct{}
}

// NewKnowledge returns an empty store.
func NewKnowledge() *Knowledge {
	return &Knowledge{
		exact:     make(map[byte]*bitset.BitSet),
		misplaced: make(map[byte]*bitset.BitSet),
		absent:    make(map[byte]struct{}),
	}
}

// Record folds one guess and its feedback into the store.
//
// Exact positions are recorded first so that a letter the guess repeats more
// often than the target holds is never blacklisted: an absent mark only
// blacklists a letter with no exact or misplaced entry at all, including
// entries added earlier in this same call.
func (k *Knowledge) Record(guess game.Word, fb game.Feedback) {
	n := min(guess.Len(), len(fb.Marks))

	for i := 0; i < n; i++ {
		if fb.Marks[i] == game.MarkExact {
			add(k.exact, guess.At(i), i)
			delete(k.absent, guess.At(i))
		}
	}

	for i := 0; i < n; i++ {
		c := guess.At(i)
		switch fb.Marks[i] {
		case game.MarkExact:
		case game.MarkAbsent:
			if !k.known(c) {
				k.absent[c] = struct{}{}
			}
		case game.MarkMisplaced:
			add(k.misplaced, c, i)
			delete(k.absent, c)
		}
	}
}

// known reports whether c has any exact or misplaced entry.
func (k *Knowledge) known(c byte) bool {
	_, e := k.exact[c]
	_, m := k.misplaced[c]
	return e || m
}

func add(m map[byte]*bitset.BitSet, c byte, pos int) {
	s, ok := m[c]
	if !ok {
		s = bitset.New(8)
		m[c] = s
	}
	s.Set(uint(pos))
}

// Empty reports whether no exact or misplaced evidence has been recorded.
func (k *Knowledge) Empty() bool { return len(k.exact) == 0 && len(k.misplaced) == 0 }

// IsAbsent reports whether c is blacklisted.
func (k *Knowledge) IsAbsent(c byte) bool {
	_, ok := k.absent[c]
	return ok
}

// ExactAt reports whether c is confirmed at pos.
func (k *Knowledge) ExactAt(c byte, pos int) bool { return test(k.exact, c, pos) }

// MisplacedAt reports whether c is known to be wrong at pos.
func (k *Knowledge) MisplacedAt(c byte, pos int) bool { return test(k.misplaced, c, pos) }

// IsMisplaced reports whether c has any misplaced entry.
func (k *Knowledge) IsMisplaced(c byte) bool {
	_, ok := k.misplaced[c]
	return ok
}

func test(m map[byte]*bitset.BitSet, c byte, pos int) bool {
	s, ok := m[c]
	return ok && s.Test(uint(pos))
}

// TotalExact counts every recorded (letter, position) exact pair.
func (k *Knowledge) TotalExact() int { return total(k.exact) }

// TotalMisplaced counts every recorded (letter, position) misplaced pair.
func (k *Knowledge) TotalMisplaced() int { return total(k.misplaced) }

func total(m map[byte]*bitset.BitSet) int {
	n := 0
	for _, s := range m {
		n += int(s.Count())
	}
	return n
}

// Exact returns a snapshot of the exact positions per letter.
func (k *Knowledge) Exact() map[byte][]int { return snapshot(k.exact) }

// Misplaced returns a snapshot of the misplaced positions per letter.
func (k *Knowledge) Misplaced() map[byte][]int { return snapshot(k.misplaced) }

// Absent returns the blacklisted letters in alphabetical order.
func (k *Knowledge) Absent() []byte { return sortedKeys(k.absent) }

func snapshot(m map[byte]*bitset.BitSet) map[byte][]int {
	out := make(map[byte][]int, len(m))
	for _, c := range sortedKeys(m) {
		for i, ok := m[c].NextSet(0); ok; i, ok = m[c].NextSet(i + 1) {
			out[c] = append(out[c], int(i))
		}
	}
	return out
}

// sortedKeys returns the keys of m in ascending order.
func sortedKeys[K constraints.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
