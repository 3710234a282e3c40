package markov

import (
	"bufio"
	"encoding/json"
	"io"
)

// ExportedModel is the serializable snapshot of a trained model, used for
// debugging dumps. Successor lists are written with repeats, in observation order.
type ExportedModel struct {
	Sentinel   string              `json:"sentinel"`
	Vocabulary []string            `json:"vocabulary"` // interning order
	Chains     map[string][]string `json:"chains"`     // lexeme -> successors
}

// Export builds an ExportedModel from the model's current contents.
func (m *Model) Export(sentinel string) ExportedModel {
	chains := make(map[string][]string, len(m.lexemes))
	for id, list := range m.next {
		successors := make([]string, len(list))
		for i, nextID := range list {
			successors[i] = m.lexemes[nextID]
		}
		chains[m.lexemes[id]] = successors
	}
	return ExportedModel{
		Sentinel:   sentinel,
		Vocabulary: m.Lexemes(),
		Chains:     chains,
	}
}

// ExportModel serializes the generator's model into indented JSON and writes
// it to w. There is no matching import: models live for one run only.
func (g *Generator) ExportModel(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(g.model.Export(g.sentinel))
}

// Dump writes one line per key in the form `lexeme:( next next ... )`,
// in the order lexemes were first seen.
func (m *Model) Dump(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for id, list := range m.next {
		_, _ = bw.WriteString(m.lexemes[id])
		_, _ = bw.WriteString(":( ")
		for _, nextID := range list {
			_, _ = bw.WriteString(m.lexemes[nextID])
			_ = bw.WriteByte(' ')
		}
		_, _ = bw.WriteString(")\n")
	}
	return bw.Flush()
}
