package markov

import (
	"io"
)

// Token represents a single lexeme read from a corpus, or a piece of
// generated output. Chunk is the zero-based index of the whitespace-delimited
// chunk the lexeme came from and ChunkStart marks the first lexeme of that
// chunk. Punct reports whether the lexeme is standalone punctuation.
//
// On a generation stream, a Token with a non-nil Err is the last one sent and
// carries no text: generation failed and the output has no terminator.
type Token struct {
	Text       string
	Chunk      int
	ChunkStart bool
	Punct      bool
	Err        error
}

// Tokenizer is an interface that defines the contract for splitting input text
// into lexemes. This allows the core generator logic to be independent of the
// specific tokenization strategy.
type Tokenizer interface {
	// NewStream returns a stateful StreamTokenizer for processing an io.Reader.
	NewStream(io.Reader) StreamTokenizer
	// Tokenize splits a single whitespace-free chunk into lexemes.
	Tokenize(chunk string) []string
	// IsPunctuation reports whether a lexeme is a standalone punctuation mark
	// (or ellipsis) that attaches to the lexeme before it.
	IsPunctuation(lex string) bool
	// Separator returns the string to write between prev and next when
	// building generated output. The upcoming lexeme decides.
	Separator(prev, next string) string
}

// StreamTokenizer is an interface for a stateful tokenizer that processes a
// stream of data, returning one token at a time.
type StreamTokenizer interface {
	// Next returns the next token from the stream. It returns io.EOF as the
	// error when the stream is fully consumed.
	Next() (*Token, error)
}
