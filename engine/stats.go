package engine

import (
	"fmt"

	"github.com/rs/zerolog"
)

type SearchStatsT struct {
	Nodes          uint64 // #nodes visited
	Leafs          uint64 // #nodes evaluated statically (horizon or terminal)
	Mates          uint64 // #true terminal nodes
	NonLeafs       uint64 // #nodes that generated moves
	TTHits         uint64 // #nodes with a usable TT entry
	TTTrueEvals    uint64 // #nodes answered by an exact TT entry
	TTBetaCuts     uint64 // #nodes cut by a TT lower bound
	TTAlphaCuts    uint64 // #nodes cut by a TT upper bound
	NullMoveCuts   uint64 // #nodes that cut due to null move heuristic
	CutNodes       uint64 // #(beta-)cut nodes
	FirstChildCuts uint64 // #cut nodes that cut on the first child searched
	Extensions     uint64 // #nodes searched without depth reduction (forced lines)
	Timeouts       uint64 // #nodes abandoned on the deadline
	SkippedErrors  uint64 // #candidate moves skipped with handle_errors

	NonLeafsAt [MaxDepthStats]uint64 // non-leafs by depth from root
}

func PerC(n uint64, N uint64) string {
	if N == 0 {
		return fmt.Sprintf("%d [-]", n)
	}
	return fmt.Sprintf("%d [%.2f%%]", n, float64(n)/float64(N)*100)
}

// Dump writes the counters as one debug event.
func (s *SearchStatsT) Dump(log zerolog.Logger, finalDepth int) {
	nonLeafsAt := zerolog.Arr()
	for i := 0; i < MaxDepthStats && i < finalDepth; i++ {
		nonLeafsAt.Uint64(s.NonLeafsAt[i])
	}
	log.Debug().
		Uint64("nodes", s.Nodes).
		Str("leafs", PerC(s.Leafs, s.Nodes)).
		Str("mates", PerC(s.Mates, s.Nodes)).
		Str("non-leafs", PerC(s.NonLeafs, s.Nodes)).
		Str("tt-hits", PerC(s.TTHits, s.Nodes)).
		Str("tt-true-evals", PerC(s.TTTrueEvals, s.TTHits)).
		Str("tt-beta-cuts", PerC(s.TTBetaCuts, s.TTHits)).
		Str("tt-alpha-cuts", PerC(s.TTAlphaCuts, s.TTHits)).
		Str("null-cuts", PerC(s.NullMoveCuts, s.NonLeafs)).
		Str("cuts", PerC(s.CutNodes, s.NonLeafs)).
		Str("first-child-cuts", PerC(s.FirstChildCuts, s.CutNodes)).
		Uint64("extensions", s.Extensions).
		Uint64("timeouts", s.Timeouts).
		Uint64("skipped-errors", s.SkippedErrors).
		Array("non-leafs-by-depth", nonLeafsAt).
		Msg("search-stats")
}
