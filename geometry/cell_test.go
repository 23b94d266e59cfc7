package geometry

import (
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fuelpin/model"
)

func xss(n int) []*model.CrossSection {
	out := make([]*model.CrossSection, n)
	for i := range out {
		out[i] = model.NewOneGroupXS(float64(i+1), "")
	}
	return out
}

func TestBuilder_PinCellAngularDivisions(t *testing.T) {
	b := NewBuilder()
	radii := []float64{0.2, 0.41, 0.48}
	for _, tc := range []struct {
		t      model.CellType
		dx, dy float64
		na     int
	}{
		{model.Full, 1.26, 1.26, 8},
		{model.XP, 0.63, 1.26, 4},
		{model.YN, 1.26, 0.63, 4},
		{model.I, 0.63, 0.63, 2},
	} {
		c, err := b.PinCell(radii, xss(4), tc.dx, tc.dy, tc.t)
		require.NoError(t, err)
		assert.Len(t, c.Regions, 4*tc.na, tc.t.String())

		// 体积之和等于栅元面积
		sum := 0.0
		for _, r := range c.Regions {
			sum += r.Volume
		}
		assert.InDelta(t, tc.dx*tc.dy, sum, 1e-12, tc.t.String())

		ids := c.RegionIDs()
		assert.True(t, sort.IntsAreSorted(ids))
	}
}

func TestBuilder_SimpleCell(t *testing.T) {
	b := NewBuilder()
	x := xss(3)
	c, err := b.SimpleCell([]float64{0.41, 0.48}, x, 1.26, 1.26, model.Full)
	require.NoError(t, err)
	require.Len(t, c.Regions, 3)

	ids := c.RegionIDs()
	// id 按径向顺序递增
	assert.Same(t, x[0], c.Regions[0].XS)
	assert.Equal(t, ids[0], c.Regions[0].ID)
	assert.Equal(t, ids[2], c.Regions[2].ID)
	assert.InDelta(t, math.Pi*0.41*0.41, c.Regions[0].Volume, 1e-12)
	assert.InDelta(t, 2.0*0.41, c.Regions[0].Chord, 1e-12)
	assert.InDelta(t, 2.0*(0.48-0.41), c.Regions[1].Chord, 1e-12)
}

func TestBuilder_SharesCrossSectionHandles(t *testing.T) {
	b := NewBuilder()
	x := xss(2)
	c, err := b.PinCell([]float64{0.41}, x, 1.26, 1.26, model.Full)
	require.NoError(t, err)

	x[0].Set(model.NewOneGroupXS(42.0, "Fuel"))
	assert.Equal(t, 42.0, c.Regions[0].XS.Et[0])
	assert.Equal(t, "Fuel", c.Regions[7].XS.Name)
}

func TestBuilder_Errors(t *testing.T) {
	b := NewBuilder()
	_, err := b.PinCell([]float64{0.41, 0.3}, xss(3), 1.26, 1.26, model.Full)
	assert.Error(t, err)

	_, err = b.PinCell([]float64{0.41}, xss(3), 1.26, 1.26, model.Full)
	assert.Error(t, err)

	_, err = b.PinCell([]float64{0.7}, xss(2), 1.26, 1.26, model.Full)
	assert.Error(t, err)

	_, err = b.PinCell(nil, xss(1), 1.26, 1.26, model.Full)
	assert.Error(t, err)

	_, err = b.PinCell([]float64{0.41}, []*model.CrossSection{nil, nil}, 1.26, 1.26, model.Full)
	assert.Error(t, err)
}
