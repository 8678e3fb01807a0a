// Extends an opening book by searching every position in the first few plies.

package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"

	"github.com/clanpj/abchess/book"
	"github.com/clanpj/abchess/engine"
	"github.com/clanpj/abchess/position"
)

func main() {
	plies := flag.Int("plies", 2, "cover every position this many plies from the start")
	depth := flag.Int("depth", 5, "search depth per position")
	moveTime := flag.Duration("move-time", 2*time.Second, "search budget per position")
	seed := flag.Bool("seed", true, "start from the built-in book")
	out := flag.String("out", "book.json", "output file")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).With().Timestamp().Logger()

	b := book.New()
	if *seed {
		var err error
		if b, err = book.Default(); err != nil {
			log.Fatal().Err(err).Msg("seed")
		}
	}

	params := engine.DefaultSearchParams()
	params.Depth = *depth
	params.MaxTime = *moveTime
	e := engine.NewEngine(engine.WithLogger(log))
	gen := func(_ context.Context, fen string) (string, error) {
		pos, err := position.FromFen(fen)
		if err != nil {
			return "", err
		}
		m, err := e.GenerateMove(pos, params)
		if err != nil {
			return "", err
		}
		return position.MoveString(m), nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := book.Generate(ctx, b, *plies, gen, log); err != nil {
		log.Error().Err(err).Msg("generate")
	}

	f, err := os.Create(*out)
	if err != nil {
		log.Fatal().Err(err).Msg("create")
	}
	defer f.Close()
	if err := b.WriteJSON(f); err != nil {
		log.Fatal().Err(err).Msg("write")
	}
	log.Info().Int("positions", b.Len()).Str("out", *out).Msg("book-written")
}
