// Transposition table for main search

package engine

import (
	dragon "github.com/dylhunn/dragontoothmg"
)

// The eval for a TT entry can be exact, a lower bound, or an upper bound
type TTEvalT uint8

const (
	TTInvalid TTEvalT = iota // must be the 0 item
	TTEvalExact
	TTEvalLowerBound // from beta cut-off
	TTEvalUpperBound // from alpha cut-off
)

func (t TTEvalT) String() string {
	switch t {
	case TTEvalExact:
		return "exact"
	case TTEvalLowerBound:
		return "lower"
	case TTEvalUpperBound:
		return "upper"
	}
	return "invalid"
}

type TTEntryT struct {
	fingerprint string // verified on every probe since hashes collide
	eval        EvalCp
	bestMove    dragon.Move
	depthToGo   int
	evalType    TTEvalT
	ply         int // ply of the position when stored
}

func (e *TTEntryT) Eval() EvalCp          { return e.eval }
func (e *TTEntryT) BestMove() dragon.Move { return e.bestMove }
func (e *TTEntryT) DepthToGo() int        { return e.depthToGo }
func (e *TTEntryT) EvalType() TTEvalT     { return e.evalType }
func (e *TTEntryT) Ply() int              { return e.ply }

// TranspositionTable maps hash -> entry. One entry per hash; a colliding
// position evicts the other one.
type TranspositionTable struct {
	entries map[uint64]TTEntryT
}

func NewTranspositionTable() *TranspositionTable {
	return &TranspositionTable{entries: make(map[uint64]TTEntryT)}
}

// Return a copy of the TT entry, and whether it is a hit for this exact position
func (tt *TranspositionTable) Get(pos Position) (TTEntryT, bool) {
	entry, ok := tt.entries[pos.Hash()]
	if !ok || entry.fingerprint != pos.Fingerprint() {
		return TTEntryT{}, false
	}
	return entry, true
}

// Store an entry for the position. An entry for the same position at the same
// ply is only replaced by a strictly deeper search.
func (tt *TranspositionTable) Put(pos Position, eval EvalCp, bestMove dragon.Move, depthToGo int, evalType TTEvalT) {
	ply := pos.Ply()
	if old, isHit := tt.Get(pos); isHit && old.ply == ply && old.depthToGo >= depthToGo {
		return
	}
	tt.entries[pos.Hash()] = TTEntryT{
		fingerprint: pos.Fingerprint(),
		eval:        eval,
		bestMove:    bestMove,
		depthToGo:   depthToGo,
		evalType:    evalType,
		ply:         ply,
	}
}

func (tt *TranspositionTable) Clear() {
	clear(tt.entries)
}

func (tt *TranspositionTable) Len() int { return len(tt.entries) }
