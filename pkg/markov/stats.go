package markov

// ModelStats holds aggregated statistics for a Model.
type ModelStats struct {
	UniqueLexemes   int // The number of distinct lexemes, sentinel included
	Transitions     int // The number of recorded (lexeme -> next) observations
	KeysWithNext    int // The number of lexemes with at least one successor
	DeadEnds        int // The number of lexemes with no successor at all
	StartingLexemes int // The number of distinct lexemes that can follow the sentinel
	LongestList     int // The length of the longest successor list
}

// Stats returns a snapshot of the model's statistics. sentinel is the start
// lexeme used to count StartingLexemes.
func (m *Model) Stats(sentinel string) ModelStats {
	stats := ModelStats{UniqueLexemes: len(m.lexemes)}
	for _, list := range m.next {
		stats.Transitions += len(list)
		if len(list) == 0 {
			stats.DeadEnds++
		} else {
			stats.KeysWithNext++
		}
		if len(list) > stats.LongestList {
			stats.LongestList = len(list)
		}
	}
	if id, ok := m.ids[sentinel]; ok {
		distinct := make(map[LexID]struct{})
		for _, nextID := range m.next[id] {
			distinct[nextID] = struct{}{}
		}
		stats.StartingLexemes = len(distinct)
	}
	return stats
}

// SuccessorCounts returns, for every lexeme in interning order, the length of
// its successor list.
func (m *Model) SuccessorCounts() []int {
	counts := make([]int, len(m.next))
	for i, list := range m.next {
		counts[i] = len(list)
	}
	return counts
}

// GetStats returns the statistics of the generator's model.
func (g *Generator) GetStats() ModelStats {
	return g.model.Stats(g.sentinel)
}
