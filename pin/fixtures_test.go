package pin

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"fuelpin/depletion"
	"fuelpin/material"
	"fuelpin/nucdata"
)

const day = 86400.0

// 单群数据库，足够覆盖燃耗链与功率计算
func oneGroupLibrary(t *testing.T) *nucdata.Library {
	lib := nucdata.NewLibrary(1)
	add := func(name string, mass, pot, abs, fis float64) {
		nu, chi := 0.0, 0.0
		if fis > 0.0 {
			nu, chi = 2.43, 1.0
		}
		require.NoError(t, lib.Add(&nucdata.Nuclide{
			Name:          name,
			AtomicMass:    mass,
			PotentialXS:   pot,
			Absorption:    []float64{abs},
			Fission:       []float64{fis},
			Nu:            []float64{nu},
			Chi:           []float64{chi},
			Scatter:       [][]float64{{pot}},
			Resonance:     []float64{0.0},
			FissionEnergy: 202.0,
		}))
	}
	add("U235", 235.04, 11.6, 50.0, 40.0)
	add("U238", 238.05, 11.3, 1.0, 0.0)
	add("O16", 15.995, 3.76, 0.0, 0.0)
	add("Xe135", 134.9, 4.0, 0.0, 0.0)
	add("Cs135", 134.9, 5.0, 0.0, 0.0)
	add("Zr90", 89.9, 6.4, 0.2, 0.0)
	add("He4", 4.0, 0.76, 0.0, 0.0)
	add("H1", 1.008, 20.0, 0.3, 0.0)
	return lib
}

// Xe135 -> Cs135 衰变，U235 裂变产生 Xe135
func testChain(t *testing.T) *depletion.Chain {
	c, err := depletion.NewChain(
		&depletion.Entry{Name: "U235", Yields: []depletion.Branch{{Target: "Xe135", Ratio: 0.06}}},
		&depletion.Entry{Name: "U238"},
		&depletion.Entry{Name: "Xe135", HalfLife: 9.14 * 3600.0, Decays: []depletion.Branch{{Target: "Cs135", Ratio: 1.0}}},
		&depletion.Entry{Name: "Cs135"},
	)
	require.NoError(t, err)
	return c
}

func xeLambda() float64 {
	return math.Ln2 / (9.14 * 3600.0)
}

func fuelMaterial(t *testing.T, lib *nucdata.Library) *material.Material {
	comp := material.NewComposition()
	comp.Add("U235", 7.0e-4)
	comp.Add("U238", 2.2e-2)
	comp.Add("O16", 4.6e-2)
	comp.Add("Xe135", 1.0e-8)
	m, err := material.New(comp, 900.0, lib)
	require.NoError(t, err)
	return m
}

func cladMaterial(t *testing.T, lib *nucdata.Library) *material.Material {
	comp := material.NewComposition()
	comp.Add("Zr90", 4.3e-2)
	m, err := material.New(comp, 600.0, lib)
	require.NoError(t, err)
	return m
}

func gapMaterial(t *testing.T, lib *nucdata.Library) *material.Material {
	comp := material.NewComposition()
	comp.Add("He4", 2.4e-5)
	m, err := material.New(comp, 600.0, lib)
	require.NoError(t, err)
	return m
}

func waterMaterial(t *testing.T, lib *nucdata.Library) *material.Material {
	comp := material.NewComposition()
	comp.Add("H1", 4.7e-2)
	comp.Add("O16", 2.35e-2)
	m, err := material.New(comp, 580.0, lib)
	require.NoError(t, err)
	return m
}

func newTestPin(t *testing.T, lib *nucdata.Library, rings int, withGap bool) *FuelPin {
	p := Params{
		Fuel:       fuelMaterial(t, lib),
		FuelRadius: 0.41,
		Clad:       cladMaterial(t, lib),
		CladRadius: 0.48,
		Rings:      rings,
	}
	if withGap {
		p.Gap = gapMaterial(t, lib)
		p.GapRadius = 0.418
		p.CladRadius = 0.475
	}
	fp, err := New(p)
	require.NoError(t, err)
	return fp
}

// 记录每次线性组合的项数
type countingDepleter struct {
	*depletion.Builder
	mu     sync.Mutex
	blends []int
}

func (c *countingDepleter) Blend(terms ...depletion.Term) (depletion.Operator, error) {
	c.mu.Lock()
	c.blends = append(c.blends, len(terms))
	c.mu.Unlock()
	return c.Builder.Blend(terms...)
}

func (c *countingDepleter) take() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.blends
	c.blends = nil
	return out
}

// 记录每次线性组合的各项，以及组合结果的作用顺序
type recordingDepleter struct {
	*depletion.Builder
	mu      sync.Mutex
	blends  [][]depletion.Term
	applied []int
}

type recordedOp struct {
	depletion.Operator
	id  int
	rec *recordingDepleter
}

func (o *recordedOp) ExpAction(n []float64) error {
	o.rec.mu.Lock()
	o.rec.applied = append(o.rec.applied, o.id)
	o.rec.mu.Unlock()
	return o.Operator.ExpAction(n)
}

func (r *recordingDepleter) Blend(terms ...depletion.Term) (depletion.Operator, error) {
	op, err := r.Builder.Blend(terms...)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	id := len(r.blends)
	r.blends = append(r.blends, append([]depletion.Term(nil), terms...))
	return &recordedOp{Operator: op, id: id, rec: r}, nil
}

func (r *recordingDepleter) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.blends, r.applied = nil, nil
}

// 对指定材料构建矩阵时失败
type failingDepleter struct {
	*depletion.Builder
	bad *material.Material
}

func (f *failingDepleter) Build(m *material.Material, flux []float64) (depletion.Operator, error) {
	if m == f.bad {
		return nil, errors.New("no depletion data")
	}
	return f.Builder.Build(m, flux)
}

// 区域下标等于区域 id，通量恒为 flux
type flatSolver struct {
	flux    []float64
	sources map[int]float64
}

func newFlatSolver(flux ...float64) *flatSolver {
	return &flatSolver{flux: flux, sources: make(map[int]float64)}
}

func (s *flatSolver) RegionIndex(id, instance int) (int, error) {
	return id, nil
}

func (s *flatSolver) SetFixedSource(idx, g int, v float64) error {
	s.sources[idx] = v
	return nil
}

func (s *flatSolver) HomogenizeFlux(idxs []int) ([]float64, error) {
	return append([]float64(nil), s.flux...), nil
}
