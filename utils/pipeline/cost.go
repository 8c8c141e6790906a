package pipeline

import "math"

// Credit bounds for one generation run, regardless of workflow size
const (
	minCredits = 12
	maxCredits = 18
)

// estimateCredits derives the coarse billing estimate from the blueprint's
// estimated node count: ceil(nodes/5) clamped to [12, 18]. The formula is
// policy, kept for compatibility with existing billing expectations.
func estimateCredits(estimatedTotalNodes int) int {
	credits := int(math.Ceil(float64(estimatedTotalNodes) / 5))
	if credits < minCredits {
		return minCredits
	}
	if credits > maxCredits {
		return maxCredits
	}
	return credits
}
