package timeseries

// Difference returns the first difference x[i+1]-x[i] (length len(x)-1).
func Difference(x []float64) []float64 {
	if len(x) < 2 {
		return []float64{}
	}
	d := make([]float64, len(x)-1)
	for i := range d {
		d[i] = x[i+1] - x[i]
	}
	return d
}

// PrefixSum returns the exclusive scan of x: S[0] = 0 and S[k] = x[0]+...+x[k-1].
// The sum of the block x[i:j] is S[j]-S[i].
func PrefixSum(x []float64) []float64 {
	return PrefixSumTo(nil, x)
}

// PrefixSumTo is PrefixSum writing into dst when it has enough capacity.
func PrefixSumTo(dst, x []float64) []float64 {
	if cap(dst) < len(x)+1 {
		dst = make([]float64, len(x)+1)
	}
	dst = dst[:len(x)+1]
	dst[0] = 0
	for i, v := range x {
		dst[i+1] = dst[i] + v
	}
	return dst
}

// ReflectExtend mirrors k points onto each end of x.
//
// With inverted set the reflection is odd about the end samples, which are
// not repeated: x*[-j] = 2x[0] - x[j] for j = 1..k, and symmetrically at
// the far end; k must not exceed len(x)-1.
//
// Otherwise the reflection is even about the record boundary and the end
// samples are repeated: the left extension is x[k-1], ..., x[0]; k must not
// exceed len(x).
//
// The result has len(x)+2k points with x in the middle.
func ReflectExtend(x []float64, k int, inverted bool) []float64 {
	return ReflectExtendTo(nil, x, k, inverted)
}

// ReflectExtendTo is ReflectExtend writing into dst when it has enough capacity.
func ReflectExtendTo(dst, x []float64, k int, inverted bool) []float64 {
	n := len(x)
	if n == 0 {
		return dst[:0]
	}
	limit := n
	if inverted {
		limit = n - 1
	}
	if k > limit {
		k = limit
	}
	if k < 0 {
		k = 0
	}

	size := n + 2*k
	if cap(dst) < size {
		dst = make([]float64, size)
	}
	dst = dst[:size]
	copy(dst[k:k+n], x)

	first, last := x[0], x[n-1]
	for j := 1; j <= k; j++ {
		if inverted {
			dst[k-j] = 2*first - x[j]
			dst[k+n-1+j] = 2*last - x[n-1-j]
		} else {
			dst[k-j] = x[j-1]
			dst[k+n-1+j] = x[n-j]
		}
	}
	return dst
}

// Decimate keeps every m-th sample starting with the first.
func Decimate(x []float64, m int) []float64 {
	if m <= 1 {
		return append([]float64(nil), x...)
	}
	out := make([]float64, 0, (len(x)+m-1)/m)
	for i := 0; i < len(x); i += m {
		out = append(out, x[i])
	}
	return out
}

// BlockAverage returns the means of consecutive non-overlapping blocks of m
// samples; a trailing partial block is dropped.
func BlockAverage(x []float64, m int) []float64 {
	if m <= 1 {
		return append([]float64(nil), x...)
	}
	blocks := len(x) / m
	out := make([]float64, blocks)
	for b := 0; b < blocks; b++ {
		sum := 0.0
		for _, v := range x[b*m : (b+1)*m] {
			sum += v
		}
		out[b] = sum / float64(m)
	}
	return out
}
