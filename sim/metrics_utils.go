// sim/metrics_utils.go
package sim

import (
	"math"
	"sort"
)

// CalculatePercentile computes the p-th percentile of data via linear
// interpolation between closest ranks. Used by Summary.Print for
// response-time reporting.
func CalculatePercentile(data []float64, p float64) float64 {
	n := len(data)
	if n == 0 {
		return 0
	}

	sortedData := make([]float64, n)
	copy(sortedData, data)
	sort.Float64s(sortedData)

	rank := p / 100.0 * float64(n-1)
	lowerIdx := int(math.Floor(rank))
	upperIdx := int(math.Ceil(rank))

	if lowerIdx == upperIdx {
		return sortedData[lowerIdx]
	}
	lowerVal := sortedData[lowerIdx]
	if upperIdx >= n {
		return sortedData[n-1]
	}
	upperVal := sortedData[upperIdx]
	return lowerVal + (upperVal-lowerVal)*(rank-float64(lowerIdx))
}
