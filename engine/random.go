package engine

import (
	dragon "github.com/dylhunn/dragontoothmg"
	"lukechampine.com/frand"
)

// RandomMove picks a legal move uniformly at random - the fallback when the
// search fails.
func RandomMove(pos Position) (dragon.Move, error) {
	moves := pos.LegalMoves()
	if len(moves) == 0 {
		return NoMove, ErrNoValidMoves
	}
	return moves[frand.Intn(len(moves))], nil
}
