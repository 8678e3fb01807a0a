package engine

import (
	"time"

	dragon "github.com/dylhunn/dragontoothmg"
)

// SearchStore is the state threaded through one decision: the table, the
// clock and the depth being searched. The PV and the cumulative search time
// outlive the decision and feed the next one.
type SearchStore struct {
	tt *TranspositionTable

	// Armed by StartTurn, nil outside a turn
	startTime *time.Time

	// Iterative deepening depth currently being searched
	currDepth int

	// Across the whole game
	totalSearchTime time.Duration

	// Remembered principal variation, pv[0] is played at ply pvPly
	pv    []dragon.Move
	pvPly int

	stats SearchStatsT
}

func NewSearchStore() *SearchStore {
	return &SearchStore{tt: NewTranspositionTable()}
}

// StartTurn clears the table and arms the clock.
func (st *SearchStore) StartTurn() {
	st.tt.Clear()
	now := time.Now()
	st.startTime = &now
	st.currDepth = 0
	st.stats = SearchStatsT{}
}

// EndTurn disarms the clock and adds the turn to the game's search time.
func (st *SearchStore) EndTurn() {
	if st.startTime == nil {
		return
	}
	st.totalSearchTime += time.Since(*st.startTime)
	st.startTime = nil
}

func (st *SearchStore) Elapsed() (time.Duration, error) {
	if st.startTime == nil {
		return 0, ErrNoStartTime
	}
	return time.Since(*st.startTime), nil
}

func (st *SearchStore) timedOut(maxTime time.Duration) (bool, error) {
	elapsed, err := st.Elapsed()
	if err != nil {
		return false, err
	}
	return elapsed >= maxTime, nil
}

func (st *SearchStore) Table() *TranspositionTable { return st.tt }

func (st *SearchStore) TotalSearchTime() time.Duration { return st.totalSearchTime }

// Remembered PV and the ply of its first move
func (st *SearchStore) PV() ([]dragon.Move, int) { return st.pv, st.pvPly }

func (st *SearchStore) Stats() SearchStatsT { return st.stats }
