package position

import (
	dragon "github.com/dylhunn/dragontoothmg"
)

type Piece uint8

const (
	Nothing Piece = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

var pieceLetters = [7]string{".", "p", "n", "b", "r", "q", "k"}

func (pc Piece) String() string { return pieceLetters[pc] }

// PieceAt reports the piece on a square and whether it is white.
func PieceAt(white *dragon.Bitboards, black *dragon.Bitboards, sq uint8) (Piece, bool) {
	bit := uint64(1) << sq
	if white.All&bit != 0 {
		return pieceOf(white, bit), true
	}
	if black.All&bit != 0 {
		return pieceOf(black, bit), false
	}
	return Nothing, false
}

func pieceOf(bbs *dragon.Bitboards, bit uint64) Piece {
	switch {
	case bbs.Pawns&bit != 0:
		return Pawn
	case bbs.Knights&bit != 0:
		return Knight
	case bbs.Bishops&bit != 0:
		return Bishop
	case bbs.Rooks&bit != 0:
		return Rook
	case bbs.Queens&bit != 0:
		return Queen
	case bbs.Kings&bit != 0:
		return King
	}
	return Nothing
}

// MovePieces returns the moving piece and the captured piece (Nothing for a
// quiet move). En-passant captures report a pawn victim.
func MovePieces(white *dragon.Bitboards, black *dragon.Bitboards, m dragon.Move) (Piece, Piece) {
	from, to := m.From(), m.To()
	attacker, attackerIsWhite := PieceAt(white, black, from)
	victim, victimIsWhite := PieceAt(white, black, to)
	if victim != Nothing && victimIsWhite == attackerIsWhite {
		victim = Nothing
	}
	// Diagonal pawn move onto an empty square
	if attacker == Pawn && victim == Nothing && from&7 != to&7 {
		victim = Pawn
	}
	return attacker, victim
}
