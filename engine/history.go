// Positions visited along one walk of the principal variation

package engine

// Map: fingerprint -> visit count
type HistoryTableT map[string]int

// Record a visit and return how often the position has now been seen
func (ht HistoryTableT) Add(fingerprint string) int {
	ht[fingerprint]++
	return ht[fingerprint]
}

func (ht HistoryTableT) Seen(fingerprint string) bool {
	return ht[fingerprint] > 0
}
