package markov

import (
	"context"
	"log/slog"
)

// GenerateStream samples a text from the model and returns a read-only channel
// of Tokens. Each Token carries the separator that precedes the lexeme, so
// concatenating the Text fields gives the same output as Generate. The channel
// is closed once generation is complete, fails, or the context is cancelled.
// A failure other than cancellation, such as ErrDeadEnd, is delivered as a
// final Token whose Err is set.
func (g *Generator) GenerateStream(ctx context.Context, opts ...GenerateOption) (<-chan Token, error) {
	options := newGenerateOptions(opts)
	tokenChan := make(chan Token)

	go func() {
		defer close(tokenChan)

		_, err := g.generateChain(ctx, options, func(separator, lex string) error {
			token := Token{
				Text:  separator + lex,
				Punct: g.tokenizer.IsPunctuation(lex),
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case tokenChan <- token:
				return nil
			}
		})
		if ctx.Err() != nil {
			g.logger.DebugContext(ctx, "Generation stream cancelled by context")
			return
		}
		if err != nil {
			g.logger.ErrorContext(ctx, "Generation stream failed", slog.Any("error", err))
			select {
			case <-ctx.Done():
			case tokenChan <- Token{Err: err}:
			}
		}
	}()

	return tokenChan, nil
}
