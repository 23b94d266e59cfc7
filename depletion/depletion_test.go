package depletion

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fuelpin/material"
	"fuelpin/nucdata"
)

func testLibrary(t *testing.T) *nucdata.Library {
	lib := nucdata.NewLibrary(1)
	add := func(name string, abs, fis float64) {
		nu := 0.0
		chi := 0.0
		if fis > 0.0 {
			nu, chi = 2.5, 1.0
		}
		require.NoError(t, lib.Add(&nucdata.Nuclide{
			Name:          name,
			AtomicMass:    100.0,
			PotentialXS:   10.0,
			Absorption:    []float64{abs},
			Fission:       []float64{fis},
			Nu:            []float64{nu},
			Chi:           []float64{chi},
			Scatter:       [][]float64{{5.0}},
			Resonance:     []float64{0.0},
			FissionEnergy: 200.0,
		}))
	}
	add("Parent", 0.0, 0.0)
	add("Daughter", 0.0, 0.0)
	add("Fuel", 100.0, 80.0)
	add("Product", 0.0, 0.0)
	add("Heavy", 0.0, 0.0)
	add("Inert", 0.0, 0.0)
	return lib
}

func TestMatrix_ExpActionDecay(t *testing.T) {
	lambda := 1.0e-5
	dt := 86400.0

	A, err := NewMatrix([]string{"Parent", "Daughter"})
	require.NoError(t, err)
	A.add(0, 0, -lambda)
	A.add(1, 0, lambda)

	A.Scale(dt)
	n := []float64{1.0, 0.0}
	require.NoError(t, A.ExpAction(n))
	A.Scale(1.0 / dt)

	assert.InDelta(t, math.Exp(-lambda*dt), n[0], 1e-10)
	assert.InDelta(t, 1.0-math.Exp(-lambda*dt), n[1], 1e-10)
	assert.InDelta(t, -lambda, A.At(0, 0), 1e-18)
}

func TestMatrix_ExpActionSizeMismatch(t *testing.T) {
	A, err := NewMatrix([]string{"Parent"})
	require.NoError(t, err)
	assert.Error(t, A.ExpAction([]float64{1.0, 2.0}))

	_, err = NewMatrix(nil)
	assert.Error(t, err)
}

func TestBlend(t *testing.T) {
	A, _ := NewMatrix([]string{"Parent", "Daughter"})
	B, _ := NewMatrix([]string{"Parent", "Daughter"})
	A.add(0, 0, 1.0)
	B.add(0, 0, 2.0)
	B.add(1, 0, 4.0)

	C, err := Blend(Term{Coef: 0.5, Op: A}, Term{Coef: 0.25, Op: B})
	require.NoError(t, err)
	m := C
	assert.InDelta(t, 1.0, m.At(0, 0), 1e-15)
	assert.InDelta(t, 1.0, m.At(1, 0), 1e-15)
	// 输入不变
	assert.Equal(t, 1.0, A.At(0, 0))
	assert.Equal(t, 2.0, B.At(0, 0))

	D, _ := NewMatrix([]string{"Daughter", "Parent"})
	_, err = Blend(Term{Coef: 1.0, Op: A}, Term{Coef: 1.0, Op: D})
	assert.Error(t, err)

	_, err = Blend()
	assert.Error(t, err)
}

func TestBuilder_Build(t *testing.T) {
	lib := testLibrary(t)
	chain, err := NewChain(
		&Entry{Name: "Fuel", Capture: "Heavy", Yields: []Branch{{"Product", 2.0}}},
		&Entry{Name: "Heavy", HalfLife: 100.0, Decays: []Branch{{"Parent", 1.0}}},
		&Entry{Name: "Parent"},
		&Entry{Name: "Product"},
	)
	require.NoError(t, err)

	comp := material.NewComposition()
	comp.Add("Fuel", 0.02)
	comp.Add("Inert", 0.04)
	mat, err := material.New(comp, 900.0, lib)
	require.NoError(t, err)

	phi := 1.0e14
	op, err := NewBuilder(chain, lib).Build(mat, []float64{phi})
	require.NoError(t, err)
	A := op.(*Matrix)

	assert.Equal(t, []string{"Fuel", "Heavy", "Parent", "Product", "Inert"}, A.Nuclides())

	ra := 100.0 * nucdata.Barn * phi
	rf := 80.0 * nucdata.Barn * phi
	assert.InDelta(t, -ra, A.At(0, 0), 1e-20)
	assert.InDelta(t, ra-rf, A.At(1, 0), 1e-20)
	assert.InDelta(t, 2.0*rf, A.At(3, 0), 1e-20)

	lambda := math.Ln2 / 100.0
	assert.InDelta(t, -lambda, A.At(1, 1), 1e-15)
	assert.InDelta(t, lambda, A.At(2, 1), 1e-15)

	// 惰性核素整行整列为零
	for j := 0; j < A.Size(); j++ {
		assert.Equal(t, 0.0, A.At(4, j))
	}
}

// 密度为零的惰性核素不进入矩阵，燃耗前后的矩阵才能组合
func TestBuilder_SkipsEmptyInertNuclides(t *testing.T) {
	lib := testLibrary(t)
	chain, err := NewChain(&Entry{Name: "Fuel"})
	require.NoError(t, err)

	comp := material.NewComposition()
	comp.Add("Fuel", 0.02)
	comp.Add("Inert", 0.0)
	comp.Add("Daughter", 0.01)
	mat, err := material.New(comp, 900.0, lib)
	require.NoError(t, err)

	b := NewBuilder(chain, lib)
	op, err := b.Build(mat, []float64{1.0e14})
	require.NoError(t, err)
	assert.Equal(t, []string{"Fuel", "Daughter"}, op.Nuclides())
}

func TestBuilder_UsesSelfShieldedMicroXS(t *testing.T) {
	lib := testLibrary(t)
	chain, err := NewChain(&Entry{Name: "Fuel"})
	require.NoError(t, err)

	comp := material.NewComposition()
	comp.Add("Fuel", 0.02)
	mat, err := material.New(comp, 900.0, lib)
	require.NoError(t, err)
	mat.SetMicroXS("Fuel", &material.MicroXS{Absorption: []float64{50.0}, Fission: []float64{40.0}})

	op, err := NewBuilder(chain, lib).Build(mat, []float64{1.0e14})
	require.NoError(t, err)
	assert.InDelta(t, -50.0*nucdata.Barn*1.0e14, op.(*Matrix).At(0, 0), 1e-20)

	_, err = NewBuilder(chain, lib).Build(mat, []float64{1.0, 2.0})
	assert.Error(t, err)
}

func TestNewChain_Errors(t *testing.T) {
	_, err := NewChain(&Entry{Name: "A"}, &Entry{Name: "A"})
	assert.Error(t, err)

	_, err = NewChain(&Entry{Name: "A", HalfLife: 1.0, Decays: []Branch{{"B", 0.7}, {"C", 0.7}}})
	assert.Error(t, err)

	_, err = NewChain(&Entry{Name: ""})
	assert.Error(t, err)
}

func TestBuiltin(t *testing.T) {
	chain := Builtin()
	lib := nucdata.TwoGroup()
	for _, name := range chain.Nuclides() {
		assert.True(t, lib.Has(name), name)
	}
	e, ok := chain.Entry("I135")
	require.True(t, ok)
	assert.InDelta(t, math.Ln2/(6.58*hour), e.DecayConstant(), 1e-15)
}
