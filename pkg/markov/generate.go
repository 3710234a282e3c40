package markov

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// generateOptions Is used by the generate functions to configure default options.
type generateOptions struct {
	softLimit       int
	hardLimit       int
	deadEndFallback bool
}

// GenerateOption is a function that configures generation parameters. It's used
// as a variadic argument in generation functions like Generate and GenerateStream.
type GenerateOption func(*generateOptions)

// WithSoftLimit sets the number of lexemes that must be emitted before the
// generation may stop. It is a minimum, not a maximum: after the limit is
// exceeded generation continues until the sentinel is sampled again.
func WithSoftLimit(n int) GenerateOption {
	return func(o *generateOptions) { o.softLimit = n }
}

// WithHardLimit caps the number of emitted lexemes, terminator excluded.
// When the cap is reached the terminator is appended even though it was not
// sampled. A value of 0 (the default) disables the cap.
func WithHardLimit(n int) GenerateOption {
	return func(o *generateOptions) { o.hardLimit = n }
}

// WithDeadEndFallback makes a lexeme without recorded successors continue
// with the sentinel instead of failing the generation.
func WithDeadEndFallback(fallback bool) GenerateOption {
	return func(o *generateOptions) { o.deadEndFallback = fallback }
}

func newGenerateOptions(opts []GenerateOption) *generateOptions {
	options := &generateOptions{
		softLimit: DefaultSoftLimit,
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// Result summarizes a finished generation.
type Result struct {
	Lexemes      int  // emitted lexemes, terminator included
	Terminated   bool // stopped because the sentinel recurred past the soft limit
	HitHardLimit bool // stopped by WithHardLimit
	DeadEnds     int  // dead ends replaced by the sentinel under WithDeadEndFallback
}

// Generate samples a text from the model and returns it as a single string.
// An untrained or empty model yields an empty string and no error.
func (g *Generator) Generate(ctx context.Context, opts ...GenerateOption) (string, error) {
	var builder strings.Builder
	if _, err := g.GenerateTo(ctx, &builder, opts...); err != nil {
		return "", err
	}
	return builder.String(), nil
}

// GenerateTo samples a text from the model and writes it to w as it goes.
func (g *Generator) GenerateTo(ctx context.Context, w io.Writer, opts ...GenerateOption) (Result, error) {
	options := newGenerateOptions(opts)
	return g.generateChain(ctx, options, func(separator, lex string) error {
		if _, err := io.WriteString(w, separator); err != nil {
			return err
		}
		_, err := io.WriteString(w, lex)
		return err
	})
}

// generateChain contains the main loop for generating text. Every lexeme is
// handed to emit together with the separator that precedes it.
func (g *Generator) generateChain(ctx context.Context, options *generateOptions, emit func(separator, lex string) error) (Result, error) {
	var res Result

	if g.model.UniqueLexemeCount() == 0 {
		g.logger.InfoContext(ctx, "Got no parsable data, nothing to generate",
			slog.Int("unique_lexemes", 0),
		)
		return res, nil
	}

	start, ok := g.model.Lookup(g.sentinel)
	if !ok {
		return res, fmt.Errorf("sentinel %q: %w", g.sentinel, ErrUnknownLexeme)
	}

	current, err := g.draw(ctx, start, start, options, &res)
	if err != nil {
		return res, err
	}

	separator := ""
	count := 0
	for {
		if err = ctx.Err(); err != nil {
			return res, err
		}

		lastText := g.model.Text(current)
		if err = emit(separator, lastText); err != nil {
			return res, fmt.Errorf("failed to write lexeme %q: %w", lastText, err)
		}

		current, err = g.draw(ctx, current, start, options, &res)
		if err != nil {
			return res, fmt.Errorf("generation stopped after %d lexemes: %w", count+1, err)
		}
		separator = g.tokenizer.Separator(lastText, g.model.Text(current))

		count++
		if count > options.softLimit && current == start {
			res.Terminated = true
			g.logger.DebugContext(ctx, "Generation terminated by sentinel",
				slog.Int("soft_limit", options.softLimit),
				slog.Int("generated_length", count),
			)
			break
		}
		if options.hardLimit > 0 && count >= options.hardLimit {
			res.HitHardLimit = true
			separator = g.tokenizer.Separator(lastText, g.sentinel)
			g.logger.WarnContext(ctx, "Generation terminated by hard limit",
				slog.Int("hard_limit", options.hardLimit),
				slog.Int("generated_length", count),
			)
			break
		}
	}

	if err = emit(separator, g.sentinel); err != nil {
		return res, fmt.Errorf("failed to write terminator: %w", err)
	}
	res.Lexemes = count + 1

	g.logger.InfoContext(ctx, "Generation completed",
		slog.Int("generated_length", res.Lexemes),
		slog.Int("unique_lexemes", g.model.UniqueLexemeCount()),
		slog.Int("dead_ends", res.DeadEnds),
	)
	return res, nil
}

// draw asks the model for the successor of current, applying the dead-end
// policy from options.
func (g *Generator) draw(ctx context.Context, current, start LexID, options *generateOptions, res *Result) (LexID, error) {
	next, err := g.model.NextLex(current)
	if err == nil {
		return next, nil
	}
	if options.deadEndFallback && errors.Is(err, ErrDeadEnd) {
		res.DeadEnds++
		g.logger.DebugContext(ctx, "Dead end replaced by sentinel",
			slog.String("lexeme", g.model.Text(current)),
		)
		return start, nil
	}
	return NoLex, err
}
