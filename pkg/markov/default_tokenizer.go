package markov

import (
	"bufio"
	"io"
	"regexp"
)

const (
	// DefaultLexemeRegex matches, in priority order: a hyphen or apostrophe
	// joined word pair, a plain word, an ellipsis, a single punctuation mark.
	// \w is ASCII only, so letters outside [0-9A-Za-z_] are dropped and split
	// words ("naïve" gives "na" and "ve"). Use UnicodeLexemeRegex for such text.
	DefaultLexemeRegex = `\w+[-']\w+|\w+|\.{3}|[[:punct:]]`
	// UnicodeLexemeRegex is DefaultLexemeRegex with words made of any Unicode
	// letters, digits and combining marks.
	UnicodeLexemeRegex = `[\p{L}\p{M}\p{N}_]+[-'][\p{L}\p{M}\p{N}_]+|[\p{L}\p{M}\p{N}_]+|\.{3}|[[:punct:]]`
	// DefaultPunctuationRegex matches lexemes that take no separator before them.
	DefaultPunctuationRegex = `^(\.{3}|[[:punct:]])$`
	// DefaultMaxChunkSize bounds the length of a single whitespace-delimited chunk.
	DefaultMaxChunkSize = 1024 * 1024
)

// DefaultTokenizer is a default implementation of the Tokenizer interface.
// Input is split into whitespace-delimited chunks and every chunk is scanned
// lexeme by lexeme with a regular expression. Its behavior can be customized
// with functional options.
type DefaultTokenizer struct {
	separator    string
	maxChunkSize int
	lexemeRegex  *regexp.Regexp
	punctRegex   *regexp.Regexp
}

// Option Is a function that configures a DefaultTokenizer.
type Option func(*DefaultTokenizer)

// WithSeparator Sets the string used for joining lexemes during generation.
// Default: " "
func WithSeparator(sep string) Option {
	return func(t *DefaultTokenizer) {
		t.separator = sep
	}
}

// WithLexemeRegex sets the regex used to pull lexemes out of a chunk.
// Alternatives are tried leftmost-first, so earlier ones take priority.
// Default: DefaultLexemeRegex
func WithLexemeRegex(lexemeRegex string) Option {
	return func(t *DefaultTokenizer) {
		t.lexemeRegex = regexp.MustCompile(lexemeRegex)
	}
}

// WithPunctuationRegex sets the regex deciding whether a lexeme attaches to
// the previous one without a separator.
// Default: DefaultPunctuationRegex
func WithPunctuationRegex(punctRegex string) Option {
	return func(t *DefaultTokenizer) {
		t.punctRegex = regexp.MustCompile(punctRegex)
	}
}

// WithMaxChunkSize sets the largest chunk, in bytes, the stream will accept.
// Default: DefaultMaxChunkSize
func WithMaxChunkSize(n int) Option {
	return func(t *DefaultTokenizer) {
		if n > 0 {
			t.maxChunkSize = n
		}
	}
}

// NewDefaultTokenizer creates a new tokenizer with default settings, which can be
// overridden by providing one or more Option functions.
func NewDefaultTokenizer(opts ...Option) *DefaultTokenizer {
	t := &DefaultTokenizer{
		separator:    " ",
		maxChunkSize: DefaultMaxChunkSize,
		lexemeRegex:  regexp.MustCompile(DefaultLexemeRegex),
		punctRegex:   regexp.MustCompile(DefaultPunctuationRegex),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Tokenize returns the lexemes found in chunk, in order. Characters matched by
// no alternative are skipped.
func (t *DefaultTokenizer) Tokenize(chunk string) []string {
	return t.lexemeRegex.FindAllString(chunk, -1)
}

// IsPunctuation reports whether lex is a standalone punctuation mark or ellipsis.
func (t *DefaultTokenizer) IsPunctuation(lex string) bool {
	return t.punctRegex.MatchString(lex)
}

// Separator returns "" before punctuation and the configured separator otherwise.
func (t *DefaultTokenizer) Separator(_, next string) string {
	if t.IsPunctuation(next) {
		return ""
	}
	return t.separator
}

// NewStream Returns the stream processor.
func (t *DefaultTokenizer) NewStream(r io.Reader) StreamTokenizer {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, min(4096, t.maxChunkSize)), t.maxChunkSize)
	scanner.Split(bufio.ScanWords)
	return &DefaultStreamTokenizer{
		scanner:   scanner,
		tokenizer: t,
		chunk:     -1,
	}
}

// DefaultStreamTokenizer is the default implementation of the StreamTokenizer interface.
// It reads whitespace-delimited chunks with a bufio.Scanner and tokenizes each one.
type DefaultStreamTokenizer struct {
	scanner   *bufio.Scanner
	tokenizer *DefaultTokenizer
	buffer    []string
	chunk     int
	first     bool
}

// Next returns the next token from the stream. It returns a Token and a nil error on
// success. When the stream is exhausted, it returns a nil Token and io.EOF.
// Any other error indicates a problem reading from the underlying stream.
// Chunks without any lexeme are skipped but still counted.
func (s *DefaultStreamTokenizer) Next() (*Token, error) {
	for len(s.buffer) == 0 { // Loop until we have lexemes
		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				return nil, err
			}
			return nil, io.EOF
		}
		s.chunk++
		s.first = true
		s.buffer = s.tokenizer.Tokenize(s.scanner.Text())
	}

	lex := s.buffer[0]
	s.buffer = s.buffer[1:]

	token := &Token{
		Text:       lex,
		Chunk:      s.chunk,
		ChunkStart: s.first,
		Punct:      s.tokenizer.IsPunctuation(lex),
	}
	s.first = false
	return token, nil
}
