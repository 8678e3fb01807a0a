// Plays two engine configurations against each other.

package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"

	"github.com/clanpj/abchess/arena"
	"github.com/clanpj/abchess/book"
	"github.com/clanpj/abchess/engine"
)

func main() {
	games := flag.Int("games", 10, "number of games; colours alternate")
	parallel := flag.Int("parallel", 2, "games in flight")
	maxPlies := flag.Int("max-plies", 300, "adjudicate a draw after this many plies")
	startFen := flag.String("fen", "", "start position (default standard)")
	aDepth := flag.Int("a-depth", 4, "search depth for player a")
	bDepth := flag.Int("b-depth", 4, "search depth for player b")
	aNull := flag.Int("a-null", 2, "null move reduction for player a")
	bNull := flag.Int("b-null", 0, "null move reduction for player b")
	moveTime := flag.Duration("move-time", time.Second, "search budget per move")
	useBook := flag.Bool("book", false, "both players open from the built-in book")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).With().Timestamp().Logger().Level(zerolog.InfoLevel)

	player := func(name string, depth int, null int) arena.Player {
		params := engine.DefaultSearchParams()
		params.Depth = depth
		params.NullMoveReduction = null
		params.MaxTime = *moveTime
		params.HandleErrors = true
		return arena.Player{Name: name, Params: params}
	}
	a := player("a", *aDepth, *aNull)
	b := player("b", *bDepth, *bNull)
	if *useBook {
		bk, err := book.Default()
		if err != nil {
			log.Fatal().Err(err).Msg("book")
		}
		a.Book, b.Book = bk, bk
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	summary, err := arena.Play(ctx, a, b, arena.Config{Games: *games, MaxPlies: *maxPlies, Parallel: *parallel, StartFen: *startFen}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("match")
	}
	for _, g := range summary.Games {
		log.Info().Str("id", g.ID).Str("white", g.White).Str("black", g.Black).Str("outcome", string(g.Outcome)).Str("method", g.Method.String()).Int("plies", len(g.Moves)).Msg("game")
	}
}
