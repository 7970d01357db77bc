// internal/words/words.go
//
// Word list management for the hangman game.
//
// Responsibilities:
//   - Model a word entry: question, word, hint and difficulty.
//   - Load entries from a JSON file or fall back to the embedded default list.
//   - Select an entry for a requested difficulty (Select / Bank.Select).
//
// Selection rules:
//   1. The requested difficulty is lowercased; "easy", "medium" and "hard" are known.
//   2. A known difficulty filters entries case-insensitively.
//   3. An unknown difficulty, or a filter with no matches, falls back to the
//      whole collection.
//   4. The pick within the candidates is uniform random.
//
// Environment variables (read by internal/config, passed in here):
//   WORDS_FILE=/path/to/words.json

package words

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/robalobadob/hangman/apps/go-server/assets"
)

// Difficulty is one of the known difficulty levels.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Difficulties lists the known levels in ascending order.
var Difficulties = []Difficulty{Easy, Medium, Hard}

// ErrEmptyWordBank is returned when there are no entries to choose from.
var ErrEmptyWordBank = errors.New("words: word bank is empty")

// Entry is a single word record. Entries are never mutated after loading.
type Entry struct {
	Question   string `json:"question"`
	Word       string `json:"word"`
	Hint       string `json:"hint"`
	Difficulty string `json:"difficulty"`
}

// ParseDifficulty lowercases s and reports whether it names a known level.
func ParseDifficulty(s string) (Difficulty, bool) {
	d := Difficulty(strings.ToLower(s))
	switch d {
	case Easy, Medium, Hard:
		return d, true
	}
	return d, false
}

// Select picks an entry for difficulty using rng.
// See the package comment for the filtering and fallback rules.
func Select(entries []Entry, difficulty string, rng *rand.Rand) (Entry, error) {
	if len(entries) == 0 {
		return Entry{}, ErrEmptyWordBank
	}
	candidates := entries
	if d, ok := ParseDifficulty(difficulty); ok {
		var matched []Entry
		for _, e := range entries {
			if strings.EqualFold(e.Difficulty, string(d)) {
				matched = append(matched, e)
			}
		}
		if len(matched) > 0 {
			candidates = matched
		}
	}
	return candidates[rng.Intn(len(candidates))], nil
}

// Bank holds the loaded entries and the random source used to pick from them.
// Safe for concurrent use.
type Bank struct {
	mu      sync.Mutex // guards rng
	rng     *rand.Rand
	entries []Entry
}

// NewBank builds a Bank over entries. A nil rng is replaced by a time-seeded one.
func NewBank(entries []Entry, rng *rand.Rand) *Bank {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Bank{rng: rng, entries: entries}
}

// Select picks an entry for difficulty. Fails with ErrEmptyWordBank
// when the bank holds no entries at all.
func (b *Bank) Select(difficulty string) (Entry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Select(b.entries, difficulty, b.rng)
}

// Len returns the number of loaded entries.
func (b *Bank) Len() int { return len(b.entries) }

// Counts returns the number of entries per difficulty label (lowercased).
// Entries with an unknown label are counted under their own label.
func (b *Bank) Counts() map[string]int {
	out := make(map[string]int, len(Difficulties))
	for _, d := range Difficulties {
		out[string(d)] = 0
	}
	for _, e := range b.entries {
		out[strings.ToLower(e.Difficulty)]++
	}
	return out
}

// Parse decodes a JSON array of entries from r.
// Words are uppercased; an entry with an empty or non-alphabetic word is an error.
func Parse(r io.Reader) ([]Entry, error) {
	var raw []Entry
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("words: decode: %w", err)
	}
	out := make([]Entry, 0, len(raw))
	for i, e := range raw {
		e.Word = strings.ToUpper(strings.TrimSpace(e.Word))
		if e.Word == "" || !isAlpha(e.Word) {
			return nil, fmt.Errorf("words: entry %d: word %q is not alphabetic", i, e.Word)
		}
		out = append(out, e)
	}
	return out, nil
}

// LoadFile reads entries from a JSON file at path.
func LoadFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Default returns the embedded default entries.
func Default() ([]Entry, error) {
	f, err := assets.OpenWordList()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Load reads entries from path, or the embedded defaults when path is empty.
func Load(path string) ([]Entry, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}

// isAlpha reports whether s is all uppercase ASCII letters.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
