package pin

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fuelpin/geometry"
	"fuelpin/model"
	"fuelpin/transport"
)

func TestAppendDancoff_Range(t *testing.T) {
	lib := oneGroupLibrary(t)
	fp := newTestPin(t, lib, 1, false)

	for _, C := range []float64{0.0, 0.25, 0.5, 1.0} {
		assert.NoError(t, fp.AppendFuelDancoff(C))
		assert.NoError(t, fp.AppendCladDancoff(C))
	}
	for _, C := range []float64{-0.01, 1.01, math.NaN()} {
		assert.True(t, errors.Is(fp.AppendFuelDancoff(C), ErrRange))
		assert.True(t, errors.Is(fp.AppendCladDancoff(C), ErrRange))
	}
	assert.Equal(t, []float64{0.0, 0.25, 0.5, 1.0}, fp.FuelDancoffs())
	assert.Len(t, fp.CladDancoffs(), 4)
}

func TestDancoffXS_Modes(t *testing.T) {
	lib := oneGroupLibrary(t)
	fp := newTestPin(t, lib, 2, true)
	fuelDancoffXS, gapDancoffXS, cladDancoffXS := fp.fuelDancoffXS, fp.gapDancoffXS, fp.cladDancoffXS

	fp.SetXSForFuelDancoff()
	assert.Equal(t, blackXS, fp.fuelDancoffXS.Et[0])
	assert.Equal(t, fp.clad.PotentialXS(), fp.cladDancoffXS.Et[0])
	assert.Equal(t, fp.gap.PotentialXS(), fp.gapDancoffXS.Ea[0])
	assert.Equal(t, "Gap", fp.gapDancoffXS.Name)

	require.NoError(t, fp.SetXSForCladDancoff(lib))
	assert.Equal(t, blackXS, fp.cladDancoffXS.Et[0])
	assert.InDelta(t, fp.fuel.PotentialXS(), fp.fuelDancoffXS.Et[0], 1e-12)
	assert.Equal(t, 0.0, fp.fuelDancoffXS.Es[0][0])

	// 句柄不变
	assert.Same(t, fuelDancoffXS, fp.fuelDancoffXS)
	assert.Same(t, gapDancoffXS, fp.gapDancoffXS)
	assert.Same(t, cladDancoffXS, fp.cladDancoffXS)
}

func TestMakeDancoffCell_Registry(t *testing.T) {
	lib := oneGroupLibrary(t)
	b := geometry.NewBuilder()
	mod := model.NewOneGroupXS(waterMaterial(t, lib).PotentialXS(), "Moderator")

	fp := newTestPin(t, lib, 3, true)
	iso, err := fp.MakeDancoffCell(b, mod, 20.0, 20.0, model.Full, true)
	require.NoError(t, err)
	full, err := fp.MakeDancoffCell(b, mod, 1.26, 1.26, model.Full, false)
	require.NoError(t, err)

	isoIDs, fullIDs := iso.RegionIDs(), full.RegionIDs()
	assert.Equal(t, []int{isoIDs[0]}, fp.isoIDs.fuel)
	assert.Equal(t, []int{isoIDs[1]}, fp.isoIDs.gap)
	assert.Equal(t, []int{isoIDs[2]}, fp.isoIDs.clad)
	assert.Equal(t, []int{isoIDs[3]}, fp.isoIDs.mod)
	assert.Equal(t, []int{fullIDs[2]}, fp.fullIDs.clad)

	// 包壳放不下
	_, err = fp.MakeDancoffCell(b, mod, 0.9, 1.26, model.Full, false)
	assert.True(t, errors.Is(err, ErrConfig))
}

func TestDancoffSources(t *testing.T) {
	lib := oneGroupLibrary(t)
	b := geometry.NewBuilder()
	water := waterMaterial(t, lib)
	mod := model.NewOneGroupXS(water.PotentialXS(), "Moderator")
	fp := newTestPin(t, lib, 1, false)

	_, err := fp.MakeDancoffCell(b, mod, 20.0, 20.0, model.Full, true)
	require.NoError(t, err)
	_, err = fp.MakeDancoffCell(b, mod, 1.26, 1.26, model.Full, false)
	require.NoError(t, err)

	s := newFlatSolver(1.0)
	require.NoError(t, fp.PopulateDancoffIndexes(s, s))

	require.NoError(t, fp.SetIsolatedFuelSources(s, water))
	assert.Equal(t, 0.0, s.sources[fp.isoInds.fuel[0]])
	assert.Equal(t, fp.clad.PotentialXS(), s.sources[fp.isoInds.clad[0]])
	assert.Equal(t, water.PotentialXS(), s.sources[fp.isoInds.mod[0]])

	require.NoError(t, fp.SetFullCladSources(s, water, lib))
	assert.Equal(t, 0.0, s.sources[fp.fullInds.clad[0]])
	assert.InDelta(t, fp.fuel.PotentialXS(), s.sources[fp.fullInds.fuel[0]], 1e-12)

	// 每次调用都重新计算下标
	require.NoError(t, fp.PopulateDancoffIndexes(s, s))
	assert.Len(t, fp.isoInds.fuel, 1)
}

// 用参考输运求解器完整算一遍燃料和包壳的 Dancoff 修正
func TestDancoff_WithReferenceSolver(t *testing.T) {
	lib := oneGroupLibrary(t)
	b := geometry.NewBuilder()
	water := waterMaterial(t, lib)
	mod := model.NewOneGroupXS(water.PotentialXS(), "Moderator")
	fp := newTestPin(t, lib, 2, false)

	isoCell, err := fp.MakeDancoffCell(b, mod, 20.0, 20.0, model.Full, true)
	require.NoError(t, err)
	fullCell, err := fp.MakeDancoffCell(b, mod, 1.26, 1.26, model.Full, false)
	require.NoError(t, err)
	iso, err := transport.NewSolver(isoCell)
	require.NoError(t, err)
	full, err := transport.NewSolver(fullCell)
	require.NoError(t, err)
	require.NoError(t, fp.PopulateDancoffIndexes(iso, full))

	fp.SetXSForFuelDancoff()
	require.NoError(t, fp.SetIsolatedFuelSources(iso, water))
	require.NoError(t, fp.SetFullFuelSources(full, water))
	require.NoError(t, iso.SolveFixedSource())
	require.NoError(t, full.SolveFixedSource())
	Cf, err := fp.ComputeFuelDancoff(iso, full)
	require.NoError(t, err)
	assert.Greater(t, Cf, 0.0)
	assert.Less(t, Cf, 1.0)
	require.NoError(t, fp.AppendFuelDancoff(Cf))

	require.NoError(t, fp.SetXSForCladDancoff(lib))
	require.NoError(t, fp.SetIsolatedCladSources(iso, water, lib))
	require.NoError(t, fp.SetFullCladSources(full, water, lib))
	require.NoError(t, iso.SolveFixedSource())
	require.NoError(t, full.SolveFixedSource())
	Cc, err := fp.ComputeCladDancoff(iso, full)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, Cc, 0.0)
	assert.LessOrEqual(t, Cc, 1.0)
	require.NoError(t, fp.AppendCladDancoff(Cc))
}

func TestComputeDancoff_BeforeIndexes(t *testing.T) {
	lib := oneGroupLibrary(t)
	fp := newTestPin(t, lib, 1, false)
	s := newFlatSolver(1.0)
	_, err := fp.ComputeFuelDancoff(s, s)
	assert.True(t, errors.Is(err, ErrSequence))
}
