//go:build linux

package load

import (
	"math"
	"sort"
	"strconv"
)

// HistogramBounds are the inclusive upper bounds of the ratio buckets.
var HistogramBounds = []float64{0.0001, 0.001, 0.01, 0.1, 0.2, 0.4, 0.8, math.Inf(+1)}

// Histogram is a cumulative histogram of utilization ratios: each bucket
// counts every ratio less than or equal to its bound, so the +Inf bucket
// holds all of them.
type Histogram struct {
	counts []int64
}

// NewHistogram returns a Histogram holding ratios.
func NewHistogram(ratios ...float64) *Histogram {
	h := &Histogram{counts: make([]int64, len(HistogramBounds))}
	for _, r := range ratios {
		h.Insert(r)
	}
	return h
}

// Insert adds one ratio. NaN is ignored.
func (h *Histogram) Insert(r float64) {
	if math.IsNaN(r) {
		return
	}
	for i := sort.SearchFloat64s(HistogramBounds, r); i < len(h.counts); i++ {
		h.counts[i]++
	}
}

// Count returns the number of ratios <= HistogramBounds[i].
func (h *Histogram) Count(i int) int64 { return h.counts[i] }

// Map returns the buckets keyed by their formatted bound ("0.1", "+Inf").
func (h *Histogram) Map() map[string]int64 {
	m := make(map[string]int64, len(h.counts))
	for i, b := range HistogramBounds {
		m[strconv.FormatFloat(b, 'g', -1, 64)] = h.counts[i]
	}
	return m
}
