package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlign_SameGrid(t *testing.T) {
	tr := northUp(0, 0, 10)
	ref := rasterFrom(3, 3, tr, make([]float64, 9))
	other := rasterFrom(3, 3, tr, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9})

	got, err := Align(ref, other)
	require.NoError(t, err)

	assert.Same(t, other, got, "identical grids must pass through unchanged")
}

func TestAlign_NoOverlap(t *testing.T) {
	ref := rasterFrom(4, 4, northUp(0, 0, 10), make([]float64, 16))
	other := rasterFrom(4, 4, northUp(10000, 10000, 10), make([]float64, 16))

	_, err := Align(ref, other)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGridMismatch)
}

func TestAlign_ResamplesOntoReferenceGrid(t *testing.T) {
	// Reference: 4x4 at 10m pixels; other: 2x2 at 20m pixels, same extent.
	ref := rasterFrom(4, 4, northUp(0, 0, 10), make([]float64, 16))
	other := rasterFrom(2, 2, northUp(0, 0, 20), []float64{
		1, 2,
		3, 4,
	})

	ref.Projection = `LOCAL_CS["site grid",UNIT["Meter",1]]`

	got, err := Align(ref, other)
	require.NoError(t, err)

	assert.Equal(t, ref.Width, got.Width)
	assert.Equal(t, ref.Height, got.Height)
	assert.Equal(t, ref.Transform, got.Transform)
	assert.Equal(t, ref.Projection, got.Projection, "resampled output sits on the reference grid")

	// Bilinear blend of the four coarse cells, edges clamped onto the
	// outermost pixel centers.
	want := []float64{
		1, 1.25, 1.75, 2,
		1.5, 1.75, 2.25, 2.5,
		2.5, 2.75, 3.25, 3.5,
		3, 3.25, 3.75, 4,
	}
	for i, w := range want {
		require.True(t, got.Valid[i], "cell %d should be valid", i)
		assert.InDelta(t, w, got.Data[i], 1e-12, "cell %d", i)
	}
}

func TestAlign_ConstantFieldSurvivesResampling(t *testing.T) {
	ref := rasterFrom(5, 3, northUp(0, 0, 2), make([]float64, 15))
	vals := make([]float64, 100)
	for i := range vals {
		vals[i] = 7.5
	}
	other := rasterFrom(10, 10, northUp(0, 0, 1), vals)

	got, err := Align(ref, other)
	require.NoError(t, err)

	for i := range got.Data {
		require.True(t, got.Valid[i])
		assert.InDelta(t, 7.5, got.Data[i], 1e-12)
	}
}

func TestAlign_PartialOverlap(t *testing.T) {
	// Other covers only the bottom-right quadrant of the reference extent.
	// Reference cells whose centers fall outside it come out missing.
	ref := rasterFrom(4, 4, northUp(0, 0, 10), make([]float64, 16))
	other := rasterFrom(2, 2, northUp(20, -20, 10), []float64{
		5, 5,
		5, 5,
	})

	got, err := Align(ref, other)
	require.NoError(t, err)

	validCount := 0
	for i, ok := range got.Valid {
		if ok {
			validCount++
			assert.InDelta(t, 5.0, got.Data[i], 1e-12)
		}
	}
	assert.Equal(t, 4, validCount, "only the overlapping quadrant's cell centers are valid")
	for _, i := range []int{got.Index(2, 2), got.Index(3, 2), got.Index(2, 3), got.Index(3, 3)} {
		assert.True(t, got.Valid[i])
	}
}

func TestAlign_MissingNeighborsPropagate(t *testing.T) {
	ref := rasterFrom(4, 4, northUp(0, 0, 10), make([]float64, 16))
	other := rasterFrom(2, 2, northUp(0, 0, 20), []float64{
		1, 2,
		3, 4,
	})
	other.Valid[0] = false

	got, err := Align(ref, other)
	require.NoError(t, err)

	// On a 2x2 source every bilinear neighborhood touches cell (0,0), so
	// the mask swallows the whole output.
	for i := range got.Valid {
		assert.False(t, got.Valid[i], "cell %d", i)
	}
}
