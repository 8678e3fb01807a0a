package engine

import (
	dragon "github.com/dylhunn/dragontoothmg"
)

// Position is the board the search works on. The search borrows it
// exclusively and mutates it in place; every Apply or ApplyNull is paired
// with exactly one Undo before the search returns.
type Position interface {
	LegalMoves() []dragon.Move
	Apply(m dragon.Move) error
	ApplyNull() error
	Undo()

	// True on checkmate or stalemate
	IsTerminal() bool
	InCheck() bool
	WhiteToMove() bool
	Ply() int

	// Exact identity of the position. Hash is only an index and may collide.
	Fingerprint() string
	Hash() uint64

	Bitboards() (white *dragon.Bitboards, black *dragon.Bitboards)
}

type OpeningBook interface {
	Lookup(fingerprint string) (dragon.Move, bool)
}
