/**
 *
 * 单根燃料棒：按环记录燃料成分的燃耗历史，组装自屏截面，
 * 并记录 Dancoff 计算和输运计算中各物理区对应的区域 id
 *
 */

package pin

import (
	"fmt"
	"math"
	"runtime"

	"fuelpin/depletion"
	"fuelpin/history"
	"fuelpin/material"
	"fuelpin/model"
	"fuelpin/nucdata"
)

type Params struct {
	Fuel       *material.Material
	FuelRadius float64
	// Gap 和 GapRadius 要么都给，要么都不给
	Gap        *material.Material
	GapRadius  float64
	Clad       *material.Material
	CladRadius float64
	Rings      int
}

// 燃料环，下标 0 为最内层
type ring struct {
	outer float64
	mats  *history.Log[*material.Material]
	flux  []float64 // 最近一次输运计算的通量谱，不保留历史

	ids  []int // 真实栅元中的区域 id
	inds []int // 对应的求解器下标

	current  depletion.Operator // 本步预估步建立的矩阵，校正步结束后清空
	previous depletion.Operator // 上一步的矩阵
}

// Dancoff 计算中各物理区的区域 id 或求解器下标
type regions struct {
	fuel, gap, clad, mod []int
}

func (r *regions) reset() {
	r.fuel, r.gap, r.clad, r.mod = nil, nil, nil, nil
}

type FuelPin struct {
	fuel       *material.Material
	fuelRadius float64
	gap        *material.Material
	gapRadius  float64
	clad       *material.Material
	cladRadius float64

	rings   []*ring
	workers int

	fuelDancoff []float64
	cladDancoff []float64

	// Dancoff 计算用的单群截面，身份不变，内容随计算模式改变
	fuelDancoffXS *model.CrossSection
	gapDancoffXS  *model.CrossSection
	cladDancoffXS *model.CrossSection

	isoIDs, fullIDs   regions
	isoInds, fullInds regions

	fuelXS []*model.CrossSection // 长度为 0 或环数
	gapXS  *model.CrossSection
	cladXS *model.CrossSection

	gapIDs, cladIDs, modIDs    []int
	gapInds, cladInds, modInds []int
}

func New(p Params) (*FuelPin, error) {
	if p.Fuel == nil || p.Clad == nil {
		return nil, fmt.Errorf("fuel and clad materials are required: %w", ErrConfig)
	}
	if p.FuelRadius <= 0.0 {
		return nil, fmt.Errorf("fuel radius must be > 0, got %g: %w", p.FuelRadius, ErrConfig)
	}
	if (p.Gap == nil) != (p.GapRadius == 0.0) {
		return nil, fmt.Errorf("gap material and gap radius must be given together: %w", ErrConfig)
	}
	if p.Gap != nil {
		if p.GapRadius <= p.FuelRadius {
			return nil, fmt.Errorf("gap radius %g must be > fuel radius %g: %w", p.GapRadius, p.FuelRadius, ErrConfig)
		}
		if p.CladRadius <= p.GapRadius {
			return nil, fmt.Errorf("clad radius %g must be > gap radius %g: %w", p.CladRadius, p.GapRadius, ErrConfig)
		}
	} else if p.CladRadius <= p.FuelRadius {
		return nil, fmt.Errorf("clad radius %g must be > fuel radius %g: %w", p.CladRadius, p.FuelRadius, ErrConfig)
	}
	radii, err := RingRadii(p.FuelRadius, p.Rings)
	if err != nil {
		return nil, err
	}

	fp := &FuelPin{
		fuel:          p.Fuel,
		fuelRadius:    p.FuelRadius,
		gap:           p.Gap,
		gapRadius:     p.GapRadius,
		clad:          p.Clad,
		cladRadius:    p.CladRadius,
		workers:       runtime.NumCPU(),
		fuelDancoffXS: model.NewOneGroupXS(0.0, "Fuel"),
		cladDancoffXS: model.NewOneGroupXS(0.0, "Clad"),
	}
	if p.Gap != nil {
		fp.gapDancoffXS = model.NewOneGroupXS(0.0, "Gap")
	}
	for _, r := range radii {
		// 每个环持有自己的材料实例，微观截面缓存互不影响
		fp.rings = append(fp.rings, &ring{
			outer: r,
			mats:  history.NewLog(p.Fuel.Clone()),
		})
	}
	return fp, nil
}

// 等面积划分燃料芯块，返回 N 个外边界半径，最后一个等于 R
func RingRadii(R float64, N int) ([]float64, error) {
	if N < 1 {
		return nil, fmt.Errorf("number of fuel rings must be >= 1, got %d: %w", N, ErrConfig)
	}
	if R <= 0.0 {
		return nil, fmt.Errorf("fuel radius must be > 0, got %g: %w", R, ErrConfig)
	}
	radii := make([]float64, N)
	area := R * R / float64(N) // 省略 pi
	prev := 0.0
	for i := range radii {
		r := math.Min(math.Sqrt(prev*prev+area), R)
		if i == N-1 {
			r = R
		}
		radii[i] = r
		prev = r
	}
	return radii, nil
}

// 按环并行时的最大并发数
func (p *FuelPin) SetWorkers(n int) {
	if n < 1 {
		n = 1
	}
	p.workers = n
}

func (p *FuelPin) FuelRadius() float64 { return p.fuelRadius }
func (p *FuelPin) Rings() int           { return len(p.rings) }
func (p *FuelPin) CladRadius() float64  { return p.cladRadius }
func (p *FuelPin) Clad() *material.Material {
	return p.clad
}

// 无间隙时返回 nil, 0
func (p *FuelPin) Gap() (*material.Material, float64) {
	return p.gap, p.gapRadius
}

func (p *FuelPin) RingRadii() []float64 {
	out := make([]float64, len(p.rings))
	for i, r := range p.rings {
		out[i] = r.outer
	}
	return out
}

// 已记录的燃耗步数，包括初始装载
func (p *FuelPin) Steps() int {
	return p.rings[0].mats.Len()
}

func (p *FuelPin) FuelDancoffs() []float64 {
	return append([]float64(nil), p.fuelDancoff...)
}

func (p *FuelPin) CladDancoffs() []float64 {
	return append([]float64(nil), p.cladDancoff...)
}

// 第 t 步第 r 环的燃料
func (p *FuelPin) Material(t, r int) (*material.Material, error) {
	if r < 0 || r >= len(p.rings) {
		return nil, fmt.Errorf("ring %d not in [0, %d): %w", r, len(p.rings), ErrRange)
	}
	m, err := p.rings[r].mats.At(t)
	if err != nil {
		return nil, fmt.Errorf("ring %d: %v: %w", r, err, ErrRange)
	}
	return m, nil
}

// 各环等面积，直接取算术平均
func (p *FuelPin) AverageNuclideDensity(t int, nuclide string) (float64, error) {
	sum := 0.0
	for r := range p.rings {
		m, err := p.Material(t, r)
		if err != nil {
			return 0, err
		}
		sum += m.AtomDensity(nuclide)
	}
	return sum / float64(len(p.rings)), nil
}

// 初始装载时单位长度内可裂变核素的质量，g/cm
func (p *FuelPin) InitialFissionableLinearMass(lib *nucdata.Library) (float64, error) {
	rho, err := p.fuel.FissionableDensity(lib)
	if err != nil {
		return 0, err
	}
	return rho * math.Pi * p.fuelRadius * p.fuelRadius, nil
}

// 检查当前所有材料的核素都在数据库中
func (p *FuelPin) LoadNuclides(lib *nucdata.Library) error {
	for i, r := range p.rings {
		if err := r.mats.Tip().LoadNuclides(lib); err != nil {
			return fmt.Errorf("fuel ring %d: %w", i, err)
		}
	}
	if p.gap != nil {
		if err := p.gap.LoadNuclides(lib); err != nil {
			return fmt.Errorf("gap: %w", err)
		}
	}
	if err := p.clad.LoadNuclides(lib); err != nil {
		return fmt.Errorf("clad: %w", err)
	}
	return nil
}

// 各环最新成分按等体积混合
func (p *FuelPin) averageFuel(lib *nucdata.Library) (*material.Material, error) {
	mats := make([]*material.Material, len(p.rings))
	fracs := make([]float64, len(p.rings))
	for i, r := range p.rings {
		mats[i] = r.mats.Tip()
		fracs[i] = 1.0 / float64(len(p.rings))
	}
	return material.Mix(mats, fracs, lib)
}
