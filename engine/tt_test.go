package engine

import (
	"testing"
)

func TestTTReadAfterWrite(t *testing.T) {
	pos := mustFen(t, italian)
	tt := NewTranspositionTable()

	if _, isHit := tt.Get(pos); isHit {
		t.Fatalf("expected a miss on an empty table")
	}

	m := pos.LegalMoves()[0]
	tt.Put(pos, 42, m, 3, TTEvalLowerBound)

	entry, isHit := tt.Get(pos)
	if !isHit {
		t.Fatalf("expected a hit after Put")
	}
	if entry.Eval() != 42 || entry.BestMove() != m || entry.DepthToGo() != 3 || entry.EvalType() != TTEvalLowerBound || entry.Ply() != pos.Ply() {
		t.Errorf("unexpected entry %+v", entry)
	}
}

func TestTTDepthPreferred(t *testing.T) {
	pos := mustFen(t, italian)
	tt := NewTranspositionTable()

	tt.Put(pos, 10, NoMove, 3, TTEvalExact)
	tt.Put(pos, 20, NoMove, 2, TTEvalExact)
	tt.Put(pos, 30, NoMove, 3, TTEvalExact)
	if entry, _ := tt.Get(pos); entry.Eval() != 10 {
		t.Errorf("expected the first depth-3 entry to stay, got eval %d", entry.Eval())
	}

	tt.Put(pos, 40, NoMove, 4, TTEvalUpperBound)
	if entry, _ := tt.Get(pos); entry.Eval() != 40 || entry.DepthToGo() != 4 {
		t.Errorf("expected a deeper entry to replace, got %+v", entry)
	}

	tt.Clear()
	if tt.Len() != 0 {
		t.Errorf("expected an empty table after Clear")
	}
}

func TestTTRejectsHashCollision(t *testing.T) {
	p := newFakeTree()
	a := p.addChild(0, 1, 0)
	b := p.addChild(0, 2, 0)
	p.nodes[b].hash = p.nodes[a].hash

	tt := NewTranspositionTable()

	p.path = []int{0, a}
	tt.Put(p, 7, 3, 5, TTEvalExact)

	p.path = []int{0, b}
	if _, isHit := tt.Get(p); isHit {
		t.Fatalf("a colliding position must not be served another position's entry")
	}

	// The shallower entry still evicts the colliding one
	tt.Put(p, 8, 4, 1, TTEvalExact)
	if entry, isHit := tt.Get(p); !isHit || entry.Eval() != 8 {
		t.Errorf("expected the new entry, got %+v hit %v", entry, isHit)
	}
	p.path = []int{0, a}
	if _, isHit := tt.Get(p); isHit {
		t.Errorf("expected the evicted entry to miss")
	}
}

func TestTTSamePositionOtherPly(t *testing.T) {
	p := newFakeTree()
	a := p.addChild(0, 1, 0)
	b := p.addChild(a, 2, 0)
	// Same position reached two plies later
	p.nodes[b].fingerprint, p.nodes[b].hash = p.nodes[0].fingerprint, p.nodes[0].hash

	tt := NewTranspositionTable()
	tt.Put(p, 5, 1, 6, TTEvalExact)

	p.path = []int{0, a, b}
	entry, isHit := tt.Get(p)
	if !isHit || entry.Ply() == p.Ply() {
		t.Fatalf("expected a hit stored at another ply, got %+v hit %v", entry, isHit)
	}
	tt.Put(p, 9, 1, 2, TTEvalExact)
	if entry, _ := tt.Get(p); entry.Eval() != 9 || entry.Ply() != p.Ply() {
		t.Errorf("expected an entry from another ply to be replaced, got %+v", entry)
	}
}
