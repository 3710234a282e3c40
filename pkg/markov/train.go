package markov

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// ingester carries the adjacency state across chunk boundaries while a
// corpus is fed into a Model.
type ingester struct {
	model    *Model
	sentinel string
	prev     LexID // last lexeme seen, NoLex before the first one
	pairs    int
}

// feed registers the pair (previous lexeme, lex). The very first lexeme of
// the corpus is paired with the sentinel; afterwards the predecessor is the
// lexeme fed just before, whether it closed the previous chunk or not.
func (in *ingester) feed(lex string) {
	if in.prev == NoLex {
		in.prev = in.model.Add(in.sentinel, lex)
	} else {
		in.prev = in.model.AddFrom(in.prev, lex)
	}
	in.pairs++
}

// Train processes a stream of text from an io.Reader, tokenizes it, and builds
// the generator's model from every adjacent lexeme pair. The first lexeme of
// a chunk is linked to the last lexeme of the previous non-empty chunk, so the
// corpus behaves as one continuous sequence. Train may be called only once;
// afterwards the model is sealed and ErrModelSealed is returned.
func (g *Generator) Train(ctx context.Context, data io.Reader) error {
	if g.sealed {
		return ErrModelSealed
	}
	g.sealed = true

	in := &ingester{model: g.model, sentinel: g.sentinel, prev: NoLex}
	stream := g.tokenizer.NewStream(data)

	var chunkCount int
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		token, err := stream.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("tokenizer error: %w", err)
		}

		if token.ChunkStart {
			chunkCount++
			g.logger.DebugContext(ctx, "Chunk started",
				slog.Int("chunk", token.Chunk),
				slog.String("first_lexeme", token.Text),
			)
		}
		in.feed(token.Text)
	}

	g.logger.InfoContext(ctx, "Training completed",
		slog.Int("chunks_processed", chunkCount),
		slog.Int("lexemes_processed", in.pairs),
		slog.Int("unique_lexemes", g.model.UniqueLexemeCount()),
	)

	return nil
}
