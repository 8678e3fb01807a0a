package book

import (
	"context"

	"github.com/notnil/chess"
	"github.com/rs/zerolog"
)

// Generator picks a move in UCI notation for a position given as FEN.
type Generator func(ctx context.Context, fen string) (string, error)

// Generate builds a book by asking gen for a move in every position reachable
// from the start position in fewer than plies half-moves. Positions already
// in b are skipped.
func Generate(ctx context.Context, b *Book, plies int, gen Generator, log zerolog.Logger) error {
	return generate(ctx, b, chess.StartingPosition(), plies, gen, log)
}

func generate(ctx context.Context, b *Book, pos *chess.Position, plies int, gen Generator, log zerolog.Logger) error {
	if plies <= 0 || pos.Status() != chess.NoMethod {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	fen := pos.String()
	if _, ok := b.moves[Key(fen)]; !ok {
		uci, err := gen(ctx, fen)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			// Skip the subtree
			log.Warn().Err(err).Str("position", Key(fen)).Msg("book-entry-failed")
			return nil
		}
		b.Add(fen, uci)
		log.Debug().Str("position", Key(fen)).Str("move", uci).Int("size", b.Len()).Msg("book-entry")
	}

	for _, m := range pos.ValidMoves() {
		if err := generate(ctx, b, pos.Update(m), plies-1, gen, log); err != nil {
			return err
		}
	}
	return nil
}
