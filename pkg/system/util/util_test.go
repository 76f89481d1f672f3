package util

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSum_SkipsNaN(t *testing.T) {
	assert.InDelta(t, 6.0, Sum([]float64{1, 2, 3}), 1e-12)
	assert.InDelta(t, 4.0, Sum([]float64{1, math.NaN(), 3}), 1e-12)
	assert.Equal(t, 0.0, Sum(nil))
}

func TestVariance(t *testing.T) {
	t.Run("too_few", func(t *testing.T) {
		assert.Equal(t, 0.0, Variance(nil))
		assert.Equal(t, 0.0, Variance([]float64{0.7}))
	})
	t.Run("two_values", func(t *testing.T) {
		// mean 0.3, deviations ±0.1, sum of squares 0.02, n-1 = 1
		assert.InDelta(t, 0.02, Variance([]float64{0.2, 0.4}), 1e-12)
	})
	t.Run("constant", func(t *testing.T) {
		assert.InDelta(t, 0.0, Variance([]float64{5, 5, 5, 5}), 1e-12)
	})
	t.Run("textbook", func(t *testing.T) {
		// 2,4,4,4,5,5,7,9: sample variance 32/7
		assert.InDelta(t, 32.0/7.0, Variance([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 1e-12)
	})
}

func TestStddev(t *testing.T) {
	assert.InDelta(t, math.Sqrt(0.02), Stddev([]float64{0.2, 0.4}), 1e-12)
	assert.Equal(t, 0.0, Stddev([]float64{1}))
}

func TestClamp01(t *testing.T) {
	t.Run("below_zero", func(t *testing.T) {
		assert.Equal(t, 0.0, Clamp01(-1e9))
	})
	t.Run("within_range", func(t *testing.T) {
		assert.InDelta(t, 0.123, Clamp01(0.123), 0)
	})
	t.Run("above_one", func(t *testing.T) {
		assert.Equal(t, 1.0, Clamp01(42))
		assert.Equal(t, 1.0, Clamp01(math.Inf(1)))
	})
	t.Run("NaN_becomes_zero", func(t *testing.T) {
		assert.Equal(t, 0.0, Clamp01(math.NaN()))
	})
}

func TestTicksToDuration(t *testing.T) {
	assert.Equal(t, 15*time.Second, TicksToDuration(1500, 100))
	assert.Equal(t, 1500*time.Millisecond, TicksToDuration(150, 100))
	assert.Equal(t, 4*time.Millisecond, TicksToDuration(1, 250))
	assert.Equal(t, time.Duration(0), TicksToDuration(100, 0))
}
