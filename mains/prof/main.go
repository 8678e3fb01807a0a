package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/pkg/profile"
	"github.com/rs/zerolog"

	"github.com/clanpj/abchess/engine"
	"github.com/clanpj/abchess/position"
)

func main() {
	fen := flag.String("fen", position.Startpos, "position to search")
	depth := flag.Int("depth", 7, "search depth")
	maxTime := flag.Duration("max-time", time.Minute, "search budget")
	mem := flag.Bool("mem", false, "memory profile instead of cpu")
	flag.Parse()

	if *mem {
		defer profile.Start(profile.MemProfile).Stop()
	} else {
		defer profile.Start().Stop()
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.DebugLevel)

	pos, err := position.FromFen(*fen)
	if err != nil {
		log.Fatal().Err(err).Msg("fen")
	}

	params := engine.DefaultSearchParams()
	params.Depth = *depth
	params.MaxTime = *maxTime
	params.DebugPrint = 1

	fmt.Println("Starting...")
	eng := engine.NewEngine(engine.WithLogger(log))
	res, err := eng.Search(pos, params)
	if err != nil {
		log.Fatal().Err(err).Msg("search")
	}

	stats := res.Stats
	fmt.Print("info string    non-leafs by depth:")
	for i := 0; i < engine.MaxDepthStats && i < res.Depth; i++ {
		fmt.Printf(" %d: %s", i, engine.PerC(stats.NonLeafsAt[i], stats.NonLeafs))
	}
	fmt.Println()
	fmt.Println("info string   tt-hits:", engine.PerC(stats.TTHits, stats.Nodes), "tt-beta-cuts:", engine.PerC(stats.TTBetaCuts, stats.TTHits), "tt-alpha-cuts:", engine.PerC(stats.TTAlphaCuts, stats.TTHits), "tt-true-evals:", engine.PerC(stats.TTTrueEvals, stats.TTHits))
	fmt.Println("info string nodes:", stats.Nodes, "non-leafs:", stats.NonLeafs, "null-cuts:", engine.PerC(stats.NullMoveCuts, stats.NonLeafs), "1st-child-cuts:", engine.PerC(stats.FirstChildCuts, stats.CutNodes))

	secs := res.Elapsed.Seconds()
	nps := uint64(0)
	if secs > 0 {
		nps = uint64(float64(stats.Nodes) / secs)
	}
	fmt.Println("info depth", res.Depth, "score cp", res.Score, "nodes", stats.Nodes, "time", res.Elapsed.Milliseconds(), "nps", nps)
	fmt.Println("bestmove", position.MoveString(res.Move))
}
