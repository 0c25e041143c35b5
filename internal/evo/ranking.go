package evo

// TopIndices builds the ordered elite index list incrementally: each index is
// inserted at its rank position and the lowest scorer is evicted once the
// list exceeds n. An index whose fitness is not strictly greater than an
// existing entry lands after it, so ties keep the earlier-seen index ahead.
func TopIndices(fitness []float64, n int) []int {
	if n <= 0 {
		return nil
	}

	top := make([]int, 0, n+1)
	for i := range fitness {
		pos := len(top)
		for j, existing := range top {
			if fitness[i] > fitness[existing] {
				pos = j
				break
			}
		}
		top = append(top, 0)
		copy(top[pos+1:], top[pos:])
		top[pos] = i
		if len(top) > n {
			top = top[:n]
		}
	}
	return top
}
