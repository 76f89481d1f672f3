package util

import (
	"math"
	"time"
)

// Sum adds nums, skipping NaNs.
func Sum(nums []float64) float64 {
	var total float64
	for _, n := range nums {
		if !math.IsNaN(n) {
			total += n
		}
	}
	return total
}

// Variance is the sample variance (n-1 denominator). It is 0 for fewer
// than two values.
func Variance(nums []float64) float64 {
	if len(nums) < 2 {
		return 0
	}
	mu := Sum(nums) / float64(len(nums))
	var s2 float64
	for _, n := range nums {
		s2 += (n - mu) * (n - mu)
	}
	return s2 / float64(len(nums)-1)
}

// Stddev is the sample standard deviation.
func Stddev(nums []float64) float64 {
	return math.Sqrt(Variance(nums))
}

// Clamp01 limits x to [0,1]; NaN becomes 0.
func Clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	// guard against NaN
	if math.IsNaN(x) {
		return 0
	}
	return x
}

// TicksToDuration converts clock ticks at tps ticks/s to a Duration.
func TicksToDuration(ticks uint64, tps int64) time.Duration {
	if tps <= 0 {
		return 0
	}
	sec := ticks / uint64(tps)
	rem := ticks % uint64(tps)
	return time.Duration(sec)*time.Second + time.Duration(rem)*time.Second/time.Duration(tps)
}
