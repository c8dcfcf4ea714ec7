package allocation

import (
	"fmt"
	"math"
)

// Tolerance band within which a parsed sum is accepted verbatim; the
// generative backend rounds, so an exact 100 cannot be demanded.
const (
	sumLowerBound = 99.0
	sumUpperBound = 101.0
)

// validate checks the parsed fields against the numeric contract and repairs
// them when possible.
//
// A sum inside [99, 101] is accepted as-is. A strictly positive sum outside
// the band is repaired by proportional rescaling with largest-remainder
// rounding, so the repaired fields are integers summing to exactly 100. A zero
// or negative sum is degenerate and is never repaired. Repair only rescales
// values the backend actually produced; it never invents missing ones.
func validate(f fields) (fields, error) {
	values := f.values()

	for i, v := range values {
		if v < 0 {
			return fields{}, fmt.Errorf("negative percentage %.2f in bucket %d", v, i)
		}
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}

	if sum >= sumLowerBound && sum <= sumUpperBound {
		return f, nil
	}

	if sum <= 0 {
		return fields{}, &DegenerateAllocationError{Sum: sum}
	}

	f.setValues(rescale(values, sum))
	return f, nil
}

// rescale proportionally maps values with the given positive sum onto whole
// percentages totalling exactly 100, assigning the rounding residual to the
// buckets with the largest fractional parts (earlier buckets win ties).
func rescale(values [bucketCount]float64, sum float64) [bucketCount]float64 {
	var scaled [bucketCount]float64
	var floors [bucketCount]float64
	var fracs [bucketCount]float64

	floorSum := 0.0
	for i, v := range values {
		scaled[i] = v / sum * 100
		floors[i] = math.Floor(scaled[i])
		fracs[i] = scaled[i] - floors[i]
		floorSum += floors[i]
	}

	residual := int(math.Round(100 - floorSum))
	for ; residual > 0; residual-- {
		best := -1
		for i := range fracs {
			if best == -1 || fracs[i] > fracs[best] {
				best = i
			}
		}
		floors[best]++
		fracs[best] = -1
	}

	return floors
}
