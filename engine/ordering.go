package engine

import (
	"cmp"
	"slices"

	dragon "github.com/dylhunn/dragontoothmg"
	"github.com/samber/lo"

	"github.com/clanpj/abchess/position"
)

// Piece values for capture ordering
var orderingPieceVals = [...]float64{
	position.Nothing: 0,
	position.Pawn:    1,
	position.Knight:  3,
	position.Bishop:  3,
	position.Rook:    5,
	position.Queen:   9,
	position.King:    15,
}

const pvMoveBonus = 1000
const pvRankBonus = 10
const ttMoveBonus = 250
const ttCurrentPlyMoveBonus = 500

type scoredMove struct {
	move  dragon.Move
	score float64
}

// orderMoves returns the candidates best-first: captures by victim/attacker
// ratio, then bonuses for the remembered PV and the table's best move.
// Equal scores keep generation order.
func orderMoves(pos Position, candidates []dragon.Move, st *SearchStore) []dragon.Move {
	scored := lo.Map(candidates, func(m dragon.Move, _ int) scoredMove {
		return scoredMove{move: m}
	})

	white, black := pos.Bitboards()
	ratios := make([]float64, len(scored))
	anyCapture := false
	for i := range scored {
		attacker, victim := position.MovePieces(white, black, scored[i].move)
		if victim == position.Nothing || attacker == position.Nothing {
			continue
		}
		anyCapture = true
		ratios[i] = orderingPieceVals[victim] / orderingPieceVals[attacker]
	}
	if anyCapture {
		for i := range scored {
			scored[i].score += ratios[i]
		}
	}

	ply := pos.Ply()
	pv, pvPly := st.PV()
	if i := ply - pvPly; i >= 0 && i < len(pv) {
		bonus := float64(pvMoveBonus + (len(pv)-i)*pvRankBonus)
		for j := range scored {
			if scored[j].move == pv[i] {
				scored[j].score += bonus
			}
		}
	}

	if entry, isHit := st.tt.Get(pos); isHit && entry.bestMove != NoMove {
		bonus := float64(ttMoveBonus)
		if entry.ply == ply {
			bonus = ttCurrentPlyMoveBonus
		}
		for j := range scored {
			if scored[j].move == entry.bestMove {
				scored[j].score += bonus
			}
		}
	}

	slices.SortStableFunc(scored, func(a, b scoredMove) int {
		return cmp.Compare(b.score, a.score)
	})

	return lo.Map(scored, func(sm scoredMove, _ int) dragon.Move { return sm.move })
}
