package domain

import (
	"math"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposite(t *testing.T) {
	tr := northUp(0, 0, 10)

	t.Run("geometric mean cell-wise", func(t *testing.T) {
		siH := rasterFrom(2, 2, tr, []float64{1, 0.25, 0.5, 0})
		siV := rasterFrom(2, 2, tr, []float64{1, 1, 0.5, 0.9})

		chsi, negatives, err := Composite(siH, siV)
		require.NoError(t, err)
		assert.Zero(t, negatives)

		want := []float64{1, 0.5, 0.5, 0}
		for i, w := range want {
			require.True(t, chsi.Valid[i])
			assert.InDelta(t, w, chsi.Data[i], 1e-12, "cell %d", i)
		}
	})

	t.Run("commutative", func(t *testing.T) {
		siH := rasterFrom(3, 1, tr, []float64{0.2, 0.8, 0.5})
		siV := rasterFrom(3, 1, tr, []float64{0.9, 0.1, 0.5})

		ab, _, err := Composite(siH, siV)
		require.NoError(t, err)
		ba, _, err := Composite(siV, siH)
		require.NoError(t, err)

		assert.Equal(t, ab.Data, ba.Data)
		assert.Equal(t, ab.Valid, ba.Valid)
	})

	t.Run("negative product becomes missing and is counted", func(t *testing.T) {
		// Extrapolation below a curve's domain can push an SI negative.
		siH := rasterFrom(3, 1, tr, []float64{-0.5, 0.5, -0.1})
		siV := rasterFrom(3, 1, tr, []float64{0.5, 0.5, -0.2})

		chsi, negatives, err := Composite(siH, siV)
		require.NoError(t, err)

		assert.Equal(t, 1, negatives)
		assert.False(t, chsi.Valid[0], "negative product is emitted missing")
		assert.True(t, chsi.Valid[1])
		assert.True(t, chsi.Valid[2], "two negatives multiply to a positive product")
		assert.InDelta(t, math.Sqrt(0.02), chsi.Data[2], 1e-12)
	})

	t.Run("missing in either input is missing in the output", func(t *testing.T) {
		siH := rasterFrom(3, 1, tr, []float64{0.5, 0.5, 0.5})
		siV := rasterFrom(3, 1, tr, []float64{0.5, 0.5, 0.5})
		siH.Valid[0] = false
		siV.Valid[1] = false

		chsi, _, err := Composite(siH, siV)
		require.NoError(t, err)

		assert.False(t, chsi.Valid[0])
		assert.False(t, chsi.Valid[1])
		assert.True(t, chsi.Valid[2])
	})

	t.Run("carries the primary grid's projection", func(t *testing.T) {
		siH := rasterFrom(2, 1, tr, []float64{0.5, 0.5})
		siH.Projection = `LOCAL_CS["site grid",UNIT["Meter",1]]`
		siV := rasterFrom(2, 1, tr, []float64{0.5, 0.5})

		chsi, _, err := Composite(siH, siV)
		require.NoError(t, err)

		assert.Equal(t, siH.Projection, chsi.Projection)
	})

	t.Run("rejects rasters on different grids", func(t *testing.T) {
		siH := rasterFrom(2, 2, tr, make([]float64, 4))
		siV := rasterFrom(3, 3, tr, make([]float64, 9))

		_, _, err := Composite(siH, siV)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not co-registered")
	})
}

func TestSummarize(t *testing.T) {
	fixedNow := time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixedNow))
	defer SetClock(nil)

	tr := northUp(0, 0, 10)

	t.Run("four usable pixels at 10m resolution", func(t *testing.T) {
		chsi := rasterFrom(3, 3, tr, []float64{
			0.9, 0.7, 0.3,
			0.61, 0.65, 0.6, // 0.6 is not usable: strictly greater than
			0.1, 0.2, 0.55,
		})

		s := Summarize(chsi, 0.6, 10, -10)

		assert.Equal(t, 4, s.UsablePixelCount)
		assert.Equal(t, 100.0, s.PixelAreaM2)
		assert.Equal(t, 400.0, s.TotalAreaM2)
		assert.Equal(t, 0.6, s.Threshold)
		assert.Equal(t, fixedNow, s.GeneratedAt)
	})

	t.Run("missing cells never count as usable", func(t *testing.T) {
		chsi := rasterFrom(2, 1, tr, []float64{0.9, 0.9})
		chsi.Valid[1] = false

		s := Summarize(chsi, 0.6, 10, -10)

		assert.Equal(t, 1, s.UsablePixelCount)
	})

	t.Run("monotone in the threshold", func(t *testing.T) {
		chsi := rasterFrom(5, 1, tr, []float64{0.1, 0.3, 0.5, 0.7, 0.9})

		prev := Summarize(chsi, 0.0, 10, -10).UsablePixelCount
		for _, th := range []float64{0.2, 0.4, 0.6, 0.8, 1.0} {
			n := Summarize(chsi, th, 10, -10).UsablePixelCount
			assert.LessOrEqual(t, n, prev, "threshold %v", th)
			prev = n
		}
	})

	t.Run("pixel area uses absolute value", func(t *testing.T) {
		chsi := rasterFrom(1, 1, tr, []float64{1})

		s := Summarize(chsi, 0.5, 2.5, -4)

		assert.Equal(t, 10.0, s.PixelAreaM2)
		assert.Equal(t, 10.0, s.TotalAreaM2)
	})
}
