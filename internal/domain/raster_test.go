package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAffine_RoundTrip(t *testing.T) {
	tr := northUp(3200, 5400, 2.5)

	x, y := tr.Apply(0, 0)
	assert.Equal(t, 3200.0, x)
	assert.Equal(t, 5400.0, y)

	col, row, ok := tr.Invert(tr.Apply(12.5, 7.25))
	require.True(t, ok)
	assert.InDelta(t, 12.5, col, 1e-9)
	assert.InDelta(t, 7.25, row, 1e-9)
}

func TestAffine_InvertDegenerate(t *testing.T) {
	var zero Affine
	_, _, ok := zero.Invert(1, 1)
	assert.False(t, ok)
}

func TestRaster_SameGrid(t *testing.T) {
	a := NewRaster(4, 3, northUp(0, 0, 10), -9999)

	assert.True(t, a.SameGrid(NewRaster(4, 3, northUp(0, 0, 10), -1)), "nodata marker is not part of the grid")
	assert.False(t, a.SameGrid(NewRaster(3, 4, northUp(0, 0, 10), -9999)))
	assert.False(t, a.SameGrid(NewRaster(4, 3, northUp(0, 0, 5), -9999)))

	b := NewRaster(4, 3, northUp(0, 0, 10), -9999)
	b.Projection = `LOCAL_CS["site grid",UNIT["Meter",1]]`
	assert.True(t, a.SameGrid(b), "projection metadata is not part of the grid")
}

func TestRaster_NewRasterStartsMissing(t *testing.T) {
	r := NewRaster(2, 2, northUp(0, 0, 1), -9999)
	for i := range r.Valid {
		assert.False(t, r.Valid[i])
	}
}
