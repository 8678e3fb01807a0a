package engine

import (
	"strings"

	dragon "github.com/dylhunn/dragontoothmg"
	"github.com/samber/lo"

	"github.com/clanpj/abchess/position"
)

// RefreshPV rebuilds the remembered principal variation by following the
// table's best moves from pos. The walk stops at a stale or missing entry,
// a repeated position, a terminal position or after 2*depth steps, and pos
// is restored before returning.
func (st *SearchStore) RefreshPV(pos Position) {
	maxSteps := max(2*st.currDepth, 1)
	visited := make(HistoryTableT)
	rootPly := pos.Ply()

	var pv []dragon.Move
	for len(pv) < maxSteps {
		entry, isHit := st.tt.Get(pos)
		if !isHit || entry.ply != pos.Ply() || entry.bestMove == NoMove {
			break
		}
		fingerprint := pos.Fingerprint()
		if visited.Seen(fingerprint) || pos.IsTerminal() {
			break
		}
		visited.Add(fingerprint)

		if err := pos.Apply(entry.bestMove); err != nil {
			break
		}
		pv = append(pv, entry.bestMove)
	}

	for range pv {
		pos.Undo()
	}

	st.pv = pv
	st.pvPly = rootPly
}

func pvString(pv []dragon.Move) string {
	return strings.Join(lo.Map(pv, func(m dragon.Move, _ int) string { return position.MoveString(m) }), " ")
}
