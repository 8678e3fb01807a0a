package engine

import (
	"math"
	"math/bits"

	dragon "github.com/dylhunn/dragontoothmg"
)

// Eval in centi-pawns, i.e. 100 === 1 pawn
type EvalCp int16

const WhiteCheckMateEval EvalCp = math.MaxInt16
const BlackCheckMateEval EvalCp = -math.MaxInt16 // don't use MinInt16 cos it's not symmetrical with MaxInt16

// For NegaMax and friends this naming is more accurate
const MyCheckMateEval EvalCp = math.MaxInt16
const YourCheckMateEval EvalCp = -math.MaxInt16

const DrawEval EvalCp = 0

// Evaluator scores a position from white's perspective.
// It must be deterministic and must not mutate the position.
type Evaluator interface {
	Evaluate(pos Position) EvalCp
}

// True iff the eval is a forced win or loss
func isMateEval(eval EvalCp) bool {
	return eval >= MyCheckMateEval || eval <= YourCheckMateEval
}

// Eval from the perspective of the side to move
func negaEval(ev Evaluator, pos Position) EvalCp {
	eval := ev.Evaluate(pos)
	if pos.WhiteToMove() {
		return eval
	}
	return -eval
}

// Piece values
const pawnVal = 100
const knightVal = 300
const bishopVal = 300
const rookVal = 500
const queenVal = 900

// MaterialEvaluator is material plus piece-square tables, with mate and
// stalemate detection.
type MaterialEvaluator struct{}

func (MaterialEvaluator) Evaluate(pos Position) EvalCp {
	if pos.IsTerminal() {
		return mateEval(pos)
	}
	white, black := pos.Bitboards()
	return StaticEval(white, black)
}

// Return the eval for stalemate or checkmate from white's perspective.
// Only valid if there are no legal moves.
func mateEval(pos Position) EvalCp {
	if pos.InCheck() {
		if pos.WhiteToMove() {
			return BlackCheckMateEval
		}
		return WhiteCheckMateEval
	}
	return DrawEval
}

// Static eval only - no mate checks - from white's perspective
func StaticEval(white *dragon.Bitboards, black *dragon.Bitboards) EvalCp {
	whitePiecesEval := piecesEval(white)
	blackPiecesEval := piecesEval(black)

	endGameRatio := EndGameRatio(whitePiecesEval + blackPiecesEval)

	whitePosEval := piecesPosVal(white, 0, endGameRatio)
	blackPosEval := piecesPosVal(black, 56, endGameRatio)

	return whitePiecesEval - blackPiecesEval + whitePosEval - blackPosEval
}

// Sum of individual piece evals
func piecesEval(bitboards *dragon.Bitboards) EvalCp {
	eval := pawnVal * bits.OnesCount64(bitboards.Pawns)
	eval += bishopVal * bits.OnesCount64(bitboards.Bishops)
	eval += knightVal * bits.OnesCount64(bitboards.Knights)
	eval += rookVal * bits.OnesCount64(bitboards.Rooks)
	eval += queenVal * bits.OnesCount64(bitboards.Queens)

	return EvalCp(eval)
}

// Transition smoothly from King starting pos table to king end-game table between these total piece values.
// Note these are totals of black and white pieces.
const EndGamePiecesValHi EvalCp = 6000
const EndGamePiecesValLo EvalCp = 2400

// To what extent are we in end game; from 0.0 (not at all) to 1.0 (definitely)
func EndGameRatio(bAndWPiecesVal EvalCp) float64 {
	if bAndWPiecesVal > EndGamePiecesValHi {
		return 0.0
	}
	if bAndWPiecesVal < EndGamePiecesValLo {
		return 1.0
	}
	return float64(EndGamePiecesValHi-bAndWPiecesVal) / float64(EndGamePiecesValHi-EndGamePiecesValLo)
}

// Sum of piece position values. The tables are from white's side of the
// board; flip is 56 to mirror the ranks for black.
func piecesPosVal(bitboards *dragon.Bitboards, flip int, endGameRatio float64) EvalCp {
	eval := pieceTypePosVal(bitboards.Pawns, &pawnPosVals, flip)
	eval += pieceTypePosVal(bitboards.Knights, &knightPosVals, flip)
	eval += pieceTypePosVal(bitboards.Bishops, &bishopPosVals, flip)
	eval += pieceTypePosVal(bitboards.Rooks, &rookPosVals, flip)
	eval += pieceTypePosVal(bitboards.Queens, &queenPosVals, flip)

	kingStartEval := pieceTypePosVal(bitboards.Kings, &kingPosVals, flip)
	kingEndgameEval := pieceTypePosVal(bitboards.Kings, &kingEndgamePosVals, flip)

	kingEval := (1.0-endGameRatio)*float64(kingStartEval) + endGameRatio*float64(kingEndgameEval)

	return eval + EvalCp(kingEval)
}

func pieceTypePosVal(bitmask uint64, posVals *[64]int8, flip int) EvalCp {
	var eval EvalCp = 0

	for bitmask != 0 {
		pos := bits.TrailingZeros64(bitmask)
		bitmask &= bitmask - 1

		eval += EvalCp(posVals[pos^flip])
	}

	return eval
}

// Square 0 is a1. Loosely after the Simplified Evaluation Function tables.
var pawnPosVals = [64]int8{
	0, 0, 0, 0, 0, 0, 0, 0,
	5, 10, 10, -20, -20, 10, 10, 5,
	5, -5, -10, 0, 0, -10, -5, 5,
	0, 0, 0, 20, 20, 0, 0, 0,
	5, 5, 10, 25, 25, 10, 5, 5,
	10, 10, 20, 30, 30, 20, 10, 10,
	50, 50, 50, 50, 50, 50, 50, 50,
	0, 0, 0, 0, 0, 0, 0, 0}

var knightPosVals = [64]int8{
	-50, -40, -30, -30, -30, -30, -40, -50,
	-40, -20, 0, 5, 5, 0, -20, -40,
	-30, 5, 10, 15, 15, 10, 5, -30,
	-30, 0, 15, 20, 20, 15, 0, -30,
	-30, 5, 15, 20, 20, 15, 5, -30,
	-30, 0, 10, 15, 15, 10, 0, -30,
	-40, -20, 0, 0, 0, 0, -20, -40,
	-50, -40, -30, -30, -30, -30, -40, -50}

var bishopPosVals = [64]int8{
	-20, -10, -10, -10, -10, -10, -10, -20,
	-10, 5, 0, 0, 0, 0, 5, -10,
	-10, 10, 10, 10, 10, 10, 10, -10,
	-10, 0, 10, 10, 10, 10, 0, -10,
	-10, 5, 5, 10, 10, 5, 5, -10,
	-10, 0, 5, 10, 10, 5, 0, -10,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-20, -10, -10, -10, -10, -10, -10, -20}

var rookPosVals = [64]int8{
	0, 0, 0, 5, 5, 0, 0, 0,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	-5, 0, 0, 0, 0, 0, 0, -5,
	5, 10, 10, 10, 10, 10, 10, 5,
	0, 0, 0, 0, 0, 0, 0, 0}

var queenPosVals = [64]int8{
	-20, -10, -10, -5, -5, -10, -10, -20,
	-10, 0, 5, 0, 0, 0, 0, -10,
	-10, 5, 5, 5, 5, 5, 0, -10,
	0, 0, 5, 5, 5, 5, 0, -5,
	-5, 0, 5, 5, 5, 5, 0, -5,
	-10, 0, 5, 5, 5, 5, 0, -10,
	-10, 0, 0, 0, 0, 0, 0, -10,
	-20, -10, -10, -5, -5, -10, -10, -20}

var kingPosVals = [64]int8{
	20, 30, 10, 0, 0, 10, 30, 20,
	20, 20, 0, 0, 0, 0, 20, 20,
	-10, -20, -20, -20, -20, -20, -20, -10,
	-20, -30, -30, -40, -40, -30, -30, -20,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30,
	-30, -40, -40, -50, -50, -40, -40, -30}

var kingEndgamePosVals = [64]int8{
	-50, -30, -30, -30, -30, -30, -30, -50,
	-30, -30, 0, 0, 0, 0, -30, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 30, 40, 40, 30, -10, -30,
	-30, -10, 20, 30, 30, 20, -10, -30,
	-30, -20, -10, 0, 0, -10, -20, -30,
	-50, -40, -30, -20, -20, -30, -40, -50}
