package engine

import (
	"time"
)

// Fractions of the whole-game budget still left at which the target depth
// drops by one more ply
var depthScalingThresholds = [...]float64{0.50, 0.25, 0.10}

// targetDepth scales the nominal depth down as the game's search time is
// used up. Never below MinDepth.
func targetDepth(params SearchParams, used time.Duration) int {
	depth := params.Depth
	if params.TotalTime > 0 {
		remaining := float64(params.TotalTime-used) / float64(params.TotalTime)
		reduction := len(depthScalingThresholds)
		for i, threshold := range depthScalingThresholds {
			if remaining >= threshold {
				reduction = i
				break
			}
		}
		depth -= reduction
	}
	return max(depth, MinDepth)
}
