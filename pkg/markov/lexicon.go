package markov

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// LexID is a handle to a lexeme interned by a Model. Handles are only
// meaningful for the Model that issued them.
type LexID int32

// NoLex is the zero-value handle returned alongside failed lookups.
const NoLex LexID = -1

var (
	// ErrDeadEnd is matched (via errors.Is) by the error returned when a lexeme
	// with no recorded successors is asked for a continuation.
	ErrDeadEnd = errors.New("no continuation available")
	// ErrUnknownLexeme is returned when a lexeme or handle is not part of the model.
	ErrUnknownLexeme = errors.New("unknown lexeme")
)

// DeadEndError reports the lexeme that has no recorded continuation.
type DeadEndError struct {
	Lexeme string
}

func (e *DeadEndError) Error() string {
	return fmt.Sprintf("can't find next lexeme for %q: %v", e.Lexeme, ErrDeadEnd)
}

// Is makes a *DeadEndError match ErrDeadEnd.
func (e *DeadEndError) Is(target error) bool {
	return target == ErrDeadEnd
}

// Model is a first-order adjacency model. Every distinct lexeme string is
// stored exactly once in an interning table; successor lists hold handles
// into that table, keeping repeats so that a uniform draw over a list is a
// frequency-weighted draw over the distinct successors.
//
// A Model is not safe for concurrent use: NextLex advances the injected
// random source.
type Model struct {
	ids     map[string]LexID
	lexemes []string
	next    [][]LexID
	rng     *rand.Rand
}

// NewModel creates an empty model drawing from rng. A nil rng is replaced by
// a PCG source seeded from the runtime's random generator.
func NewModel(rng *rand.Rand) *Model {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Model{
		ids: make(map[string]LexID),
		rng: rng,
	}
}

// intern returns the handle for s, creating an entry with an empty successor
// list if s has not been seen. Existing entries are never replaced.
func (m *Model) intern(s string) LexID {
	if id, ok := m.ids[s]; ok {
		return id
	}
	id := LexID(len(m.lexemes))
	m.ids[s] = id
	m.lexemes = append(m.lexemes, s)
	m.next = append(m.next, nil)
	return id
}

// Add records that next was observed immediately after cur. Both lexemes
// become keys of the model. The returned handle refers to the stored copy of
// next and can be passed to AddFrom for the following pair.
func (m *Model) Add(cur, next string) LexID {
	return m.AddFrom(m.intern(cur), next)
}

// AddFrom is Add with the current lexeme given as a handle previously
// returned by this model.
func (m *Model) AddFrom(cur LexID, next string) LexID {
	nextID := m.intern(next)
	m.next[cur] = append(m.next[cur], nextID)
	return nextID
}

// NextLex draws a successor of cur uniformly at random from its successor
// list. A lexeme with no recorded successors yields a *DeadEndError.
func (m *Model) NextLex(cur LexID) (LexID, error) {
	if !m.valid(cur) {
		return NoLex, fmt.Errorf("handle %d: %w", cur, ErrUnknownLexeme)
	}
	choices := m.next[cur]
	if len(choices) == 0 {
		return NoLex, &DeadEndError{Lexeme: m.lexemes[cur]}
	}
	return choices[m.rng.IntN(len(choices))], nil
}

// Next is the string form of NextLex.
func (m *Model) Next(cur string) (string, error) {
	id, ok := m.ids[cur]
	if !ok {
		return "", fmt.Errorf("%q: %w", cur, ErrUnknownLexeme)
	}
	nextID, err := m.NextLex(id)
	if err != nil {
		return "", err
	}
	return m.lexemes[nextID], nil
}

// UniqueLexemeCount returns the number of distinct lexemes stored.
func (m *Model) UniqueLexemeCount() int {
	return len(m.lexemes)
}

// Lookup returns the handle of s, if s is a key of the model.
func (m *Model) Lookup(s string) (LexID, bool) {
	id, ok := m.ids[s]
	if !ok {
		return NoLex, false
	}
	return id, true
}

// Text returns the lexeme behind id, or "" for a handle this model did not issue.
func (m *Model) Text(id LexID) string {
	if !m.valid(id) {
		return ""
	}
	return m.lexemes[id]
}

// Successors returns a copy of the successor list of id, in observation order.
func (m *Model) Successors(id LexID) []LexID {
	if !m.valid(id) {
		return nil
	}
	out := make([]LexID, len(m.next[id]))
	copy(out, m.next[id])
	return out
}

// Lexemes returns every stored lexeme in the order it was first seen.
func (m *Model) Lexemes() []string {
	out := make([]string, len(m.lexemes))
	copy(out, m.lexemes)
	return out
}

// CheckClosure verifies that every successor handle refers to a key of the
// model. Generation relies on it: a sampled lexeme is always queryable.
func (m *Model) CheckClosure() error {
	for id, list := range m.next {
		for _, nextID := range list {
			if !m.valid(nextID) {
				return fmt.Errorf("successor %d of %q is not a key: %w", nextID, m.lexemes[id], ErrUnknownLexeme)
			}
		}
	}
	return nil
}

func (m *Model) valid(id LexID) bool {
	return id >= 0 && int(id) < len(m.lexemes)
}
