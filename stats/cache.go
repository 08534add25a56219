package stats

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/singleflight"
)

// Fingerprint hashes the bit patterns of x.
func Fingerprint(x []float64) uint64 {
	h := xxhash.New()
	var buf [8]byte
	for _, v := range x {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		_, _ = h.Write(buf[:])
	}
	return h.Sum64()
}

// CachedIdentifier memoizes another NoiseIdentifier per (data, m, data
// type). Concurrent requests for the same key share one computation.
// Safe for concurrent use.
type CachedIdentifier struct {
	inner NoiseIdentifier

	mu    sync.RWMutex
	cache map[string]float64
	group singleflight.Group
}

// NewCachedIdentifier wraps inner; a nil inner uses Default().
func NewCachedIdentifier(inner NoiseIdentifier) *CachedIdentifier {
	if inner == nil {
		inner = Default()
	}
	return &CachedIdentifier{
		inner: inner,
		cache: make(map[string]float64),
	}
}

// Identify implements NoiseIdentifier.
func (c *CachedIdentifier) Identify(x []float64, factors []int, dt DataType) []float64 {
	fp := Fingerprint(x)
	out := make([]float64, len(factors))
	for i, m := range factors {
		key := fmt.Sprintf("%016x/%d/%d", fp, m, dt)

		c.mu.RLock()
		alpha, ok := c.cache[key]
		c.mu.RUnlock()
		if ok {
			out[i] = alpha
			continue
		}

		v, _, _ := c.group.Do(key, func() (interface{}, error) {
			c.mu.RLock()
			cached, hit := c.cache[key]
			c.mu.RUnlock()
			if hit {
				return cached, nil
			}

			a := c.inner.Identify(x, []int{m}, dt)[0]
			c.mu.Lock()
			c.cache[key] = a
			c.mu.Unlock()
			return a, nil
		})
		out[i] = v.(float64)
	}
	return out
}

// Len returns the number of cached entries.
func (c *CachedIdentifier) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}
