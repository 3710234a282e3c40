package markov

import (
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"
)

const (
	// DefaultSentinel is the lexeme used both as the start anchor and the terminator.
	DefaultSentinel = "."
	// DefaultSoftLimit is the minimum number of lexemes emitted before generation may stop.
	DefaultSoftLimit = 500
)

// ErrModelSealed is returned by Train once the model has been built.
var ErrModelSealed = errors.New("model already trained")

// generatorOptions holds the construction-time settings of a Generator.
type generatorOptions struct {
	sentinel string
	rng      *rand.Rand
}

// GeneratorOption configures a Generator at construction time.
type GeneratorOption func(*generatorOptions)

// WithSentinel sets the lexeme used as both start anchor and terminator.
// Default: DefaultSentinel
func WithSentinel(sentinel string) GeneratorOption {
	return func(o *generatorOptions) {
		if sentinel != "" {
			o.sentinel = sentinel
		}
	}
}

// WithRand injects the random source used for sampling. Passing a seeded
// source makes generation reproducible.
func WithRand(rng *rand.Rand) GeneratorOption {
	return func(o *generatorOptions) { o.rng = rng }
}

// Generator is the main entry point of the package. It tokenizes a corpus into
// a Model once, then samples text from that model as many times as needed.
type Generator struct {
	model     *Model
	tokenizer Tokenizer
	sentinel  string
	sealed    bool
	logger    *slog.Logger
}

// NewGenerator creates a Generator with an empty model. The tokenizer decides
// both how the corpus is split and how generated lexemes are joined.
func NewGenerator(tokenizer Tokenizer, opts ...GeneratorOption) *Generator {
	options := &generatorOptions{sentinel: DefaultSentinel}
	for _, opt := range opts {
		opt(options)
	}

	return &Generator{
		model:     NewModel(options.rng),
		tokenizer: tokenizer,
		sentinel:  options.sentinel,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// SetLogger sets the logger for the Generator. By default, all logs are discarded.
// Providing a `log/slog.Logger` will enable logging for training and generation.
func (g *Generator) SetLogger(logger *slog.Logger) {
	if logger != nil {
		g.logger = logger
	}
}

// Model returns the underlying adjacency model. Callers should treat it as
// read-only; drawing from it advances the generator's random source.
func (g *Generator) Model() *Model {
	return g.model
}

// Sentinel returns the start/terminator lexeme.
func (g *Generator) Sentinel() string {
	return g.sentinel
}

// Tokenizer returns the tokenizer the generator was built with.
func (g *Generator) Tokenizer() Tokenizer {
	return g.tokenizer
}
