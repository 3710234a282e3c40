package markov

import (
	"context"
	"go/build"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// fishCorpus reaches the sentinel from every lexeme, so generation always terminates.
const fishCorpus = "one fish two fish. red fish blue fish."

// newTestGenerator creates a Generator with a deterministic random source.
func newTestGenerator(t testing.TB, seed uint64) *Generator {
	t.Helper()
	return NewGenerator(NewDefaultTokenizer(), WithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))))
}

// setupTrained is a convenience helper that also trains the generator on corpus.
func setupTrained(t testing.TB, seed uint64, corpus string) (context.Context, *Generator) {
	t.Helper()
	g := newTestGenerator(t, seed)
	ctx := context.Background()
	if err := g.Train(ctx, strings.NewReader(corpus)); err != nil {
		t.Fatalf("setup: Train() failed: %v", err)
	}
	return ctx, g
}

// successorTexts resolves the successor list of lex into strings.
func successorTexts(t *testing.T, m *Model, lex string) []string {
	t.Helper()
	id, ok := m.Lookup(lex)
	if !ok {
		t.Fatalf("lexeme %q is not a key of the model", lex)
	}
	var out []string
	for _, nextID := range m.Successors(id) {
		out = append(out, m.Text(nextID))
	}
	return out
}

var (
	benchmarkCorpus string
	corpusOnce      sync.Once
)

// createBenchmarkCorpus reads Go source files to create a corpus for benchmarking.
func createBenchmarkCorpus() string {
	corpusOnce.Do(func() {
		var sb strings.Builder
		goRoot := build.Default.GOROOT
		filesToRead := []string{
			filepath.Join(goRoot, "src/net/http/server.go"),
			filepath.Join(goRoot, "src/go/parser/parser.go"),
			filepath.Join(goRoot, "src/encoding/json/encode.go"),
		}

		for _, file := range filesToRead {
			content, err := os.ReadFile(file)
			if err != nil {
				benchmarkCorpus = "this is a fallback corpus for benchmarking. it is not very long but will prevent a crash. "
				return
			}
			sb.Write(content)
			sb.WriteString("\n")
		}
		benchmarkCorpus = sb.String()
	})
	return benchmarkCorpus
}
