package pin

import (
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fuelpin/geometry"
	"fuelpin/model"
	"fuelpin/nucdata"
	"fuelpin/xs"
)

func builtPin(t *testing.T, lib *nucdata.Library, rings int, withGap bool) *FuelPin {
	k := xs.NewKernel(lib)
	fp := newTestPin(t, lib, rings, withGap)
	require.NoError(t, fp.AppendFuelDancoff(0.3))
	require.NoError(t, fp.AppendCladDancoff(0.2))
	require.NoError(t, fp.SetFuelXS(k, 0))
	require.NoError(t, fp.SetGapXS(k))
	require.NoError(t, fp.SetCladXS(k, 0))
	return fp
}

func TestMakeCell_Partition(t *testing.T) {
	lib := oneGroupLibrary(t)
	mod := model.NewOneGroupXS(1.5, "Moderator")
	b := geometry.NewBuilder()

	for _, tc := range []struct {
		t      model.CellType
		dx, dy float64
		modNA  int // 慢化剂区域数 / NA
	}{
		{model.Full, 1.26, 1.26, 2},
		{model.Full, 0.95, 0.95, 1},
		{model.XN, 0.63, 1.26, 2},
		{model.YP, 1.26, 0.63, 2},
		{model.III, 0.63, 0.63, 2},
	} {
		fp := builtPin(t, lib, 3, true)
		cell, err := fp.MakeCell(b, mod, tc.dx, tc.dy, tc.t)
		require.NoError(t, err, tc.t.String())
		NA := tc.t.AngularDivisions()

		var all []int
		for r := 0; r < fp.Rings(); r++ {
			ids := fp.RingRegionIDs(r)
			assert.Len(t, ids, NA)
			all = append(all, ids...)
		}
		assert.Len(t, fp.GapRegionIDs(), NA)
		assert.Len(t, fp.CladRegionIDs(), NA)
		assert.Len(t, fp.ModeratorRegionIDs(), tc.modNA*NA, tc.t.String())
		all = append(all, fp.GapRegionIDs()...)
		all = append(all, fp.CladRegionIDs()...)
		all = append(all, fp.ModeratorRegionIDs()...)

		// 按环由内向外排列，覆盖全部区域
		assert.True(t, sort.IntsAreSorted(all))
		assert.Equal(t, cell.RegionIDs(), all)

		// 几何持有的就是环上的截面句柄
		for _, reg := range cell.Regions {
			if reg.ID == fp.RingRegionIDs(0)[0] {
				assert.Same(t, fp.FuelXS(0), reg.XS)
			}
		}
	}
}

func TestMakeCell_Errors(t *testing.T) {
	lib := oneGroupLibrary(t)
	mod := model.NewOneGroupXS(1.5, "Moderator")
	b := geometry.NewBuilder()

	fresh := newTestPin(t, lib, 2, false)
	_, err := fresh.MakeCell(b, mod, 1.26, 1.26, model.Full)
	assert.True(t, errors.Is(err, ErrSequence))

	fp := builtPin(t, lib, 2, false)
	_, err = fp.MakeCell(b, mod, 0.9, 1.26, model.Full)
	assert.True(t, errors.Is(err, ErrConfig))
	_, err = fp.MakeCell(b, mod, 0.4, 1.26, model.XP)
	assert.True(t, errors.Is(err, ErrConfig))
	_, err = fp.MakeCell(b, mod, 0.47, 0.47, model.I)
	assert.True(t, errors.Is(err, ErrConfig))
	_, err = fp.MakeCell(b, nil, 1.26, 1.26, model.Full)
	assert.True(t, errors.Is(err, ErrConfig))

	assert.True(t, errors.Is(fresh.PopulateIndexes(newFlatSolver(1.0)), ErrSequence))
}

func TestFluxAndPower(t *testing.T) {
	lib := oneGroupLibrary(t)
	mod := model.NewOneGroupXS(1.5, "Moderator")
	fp := builtPin(t, lib, 2, false)

	s := newFlatSolver(1.0e13)
	assert.True(t, errors.Is(fp.ObtainFluxSpectra(s), ErrSequence))

	_, err := fp.MakeCell(geometry.NewBuilder(), mod, 1.26, 1.26, model.Full)
	require.NoError(t, err)
	require.NoError(t, fp.PopulateIndexes(s))
	require.NoError(t, fp.ObtainFluxSpectra(s))
	assert.Equal(t, []float64{1.0e13}, fp.FluxSpectrum(1))

	P, err := fp.LinearPower(lib)
	require.NoError(t, err)
	m, err := fp.Material(0, 0)
	require.NoError(t, err)
	q, err := m.FissionPowerDensity([]float64{1.0e13}, lib)
	require.NoError(t, err)
	assert.InDelta(t, 3.14159265358979*0.41*0.41*q*1.6021766339999e-13, P, 1e-9*P)

	require.NoError(t, fp.NormalizeFlux(2.0))
	assert.Equal(t, []float64{2.0e13}, fp.FluxSpectrum(0))
	P2, err := fp.LinearPower(lib)
	require.NoError(t, err)
	assert.InDelta(t, 2.0*P, P2, 1e-9*P)

	assert.True(t, errors.Is(fp.NormalizeFlux(0.0), ErrConfig))
	assert.True(t, errors.Is(fp.NormalizeFlux(-1.0), ErrConfig))
}
