package engine

import (
	"errors"
	"fmt"

	dragon "github.com/dylhunn/dragontoothmg"
)

var errFakeApply = errors.New("fake: apply failed")

// A hand-built game tree. Moves are arbitrary small numbers.
type fakeNode struct {
	fingerprint string
	hash        uint64
	ply         int
	whiteToMove bool
	eval        EvalCp // white's perspective
	moves       []dragon.Move
	next        map[dragon.Move]int
	bad         map[dragon.Move]bool
}

type fakePosition struct {
	nodes []fakeNode
	path  []int // root first, current node last
}

func newFakeTree() *fakePosition {
	root := fakeNode{fingerprint: "n0", hash: 1, whiteToMove: true, next: map[dragon.Move]int{}, bad: map[dragon.Move]bool{}}
	return &fakePosition{nodes: []fakeNode{root}, path: []int{0}}
}

// Add a child reached from parent by m and return its id
func (p *fakePosition) addChild(parent int, m dragon.Move, eval EvalCp) int {
	id := len(p.nodes)
	pn := &p.nodes[parent]
	pn.moves = append(pn.moves, m)
	pn.next[m] = id
	p.nodes = append(p.nodes, fakeNode{
		fingerprint: fmt.Sprintf("n%d", id),
		hash:        uint64(id + 1),
		ply:         pn.ply + 1,
		whiteToMove: !pn.whiteToMove,
		eval:        eval,
		next:        map[dragon.Move]int{},
		bad:         map[dragon.Move]bool{},
	})
	return id
}

// A legal-looking move whose Apply fails
func (p *fakePosition) addBadMove(parent int, m dragon.Move) {
	p.nodes[parent].moves = append(p.nodes[parent].moves, m)
	p.nodes[parent].bad[m] = true
}

func (p *fakePosition) cur() *fakeNode { return &p.nodes[p.path[len(p.path)-1]] }

func (p *fakePosition) LegalMoves() []dragon.Move { return p.cur().moves }

func (p *fakePosition) Apply(m dragon.Move) error {
	n := p.cur()
	id, ok := n.next[m]
	if n.bad[m] || !ok {
		return errFakeApply
	}
	p.path = append(p.path, id)
	return nil
}

func (p *fakePosition) ApplyNull() error { return errors.New("fake: no null move") }

func (p *fakePosition) Undo() {
	if len(p.path) == 1 {
		panic("fake: nothing to undo")
	}
	p.path = p.path[:len(p.path)-1]
}

func (p *fakePosition) IsTerminal() bool    { return len(p.cur().moves) == 0 }
func (p *fakePosition) InCheck() bool       { return false }
func (p *fakePosition) WhiteToMove() bool   { return p.cur().whiteToMove }
func (p *fakePosition) Ply() int            { return p.cur().ply }
func (p *fakePosition) Fingerprint() string { return p.cur().fingerprint }
func (p *fakePosition) Hash() uint64        { return p.cur().hash }

func (p *fakePosition) Bitboards() (*dragon.Bitboards, *dragon.Bitboards) {
	return &dragon.Bitboards{}, &dragon.Bitboards{}
}

type fakeEval struct{}

func (fakeEval) Evaluate(pos Position) EvalCp { return pos.(*fakePosition).cur().eval }

type fakeBook map[string]dragon.Move

func (b fakeBook) Lookup(fingerprint string) (dragon.Move, bool) {
	m, ok := b[fingerprint]
	return m, ok
}
