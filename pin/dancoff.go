package pin

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"fuelpin/geometry"
	"fuelpin/material"
	"fuelpin/model"
	"fuelpin/nucdata"
)

// 探针区使用的饱和截面
const blackXS = 1.0e5

// 燃料 Dancoff 计算：燃料为黑体，其余区域取势散射截面
func (p *FuelPin) SetXSForFuelDancoff() {
	p.fuelDancoffXS.Set(model.NewOneGroupXS(blackXS, "Fuel"))
	if p.gapDancoffXS != nil {
		p.gapDancoffXS.Set(model.NewOneGroupXS(p.gap.PotentialXS(), "Gap"))
	}
	p.cladDancoffXS.Set(model.NewOneGroupXS(p.clad.PotentialXS(), "Clad"))
}

// 包壳 Dancoff 计算：包壳为黑体，燃料取各环平均成分的势散射截面
func (p *FuelPin) SetXSForCladDancoff(lib *nucdata.Library) error {
	avg, err := p.averageFuel(lib)
	if err != nil {
		return err
	}
	p.fuelDancoffXS.Set(model.NewOneGroupXS(avg.PotentialXS(), "Fuel"))
	if p.gapDancoffXS != nil {
		p.gapDancoffXS.Set(model.NewOneGroupXS(p.gap.PotentialXS(), "Gap"))
	}
	p.cladDancoffXS.Set(model.NewOneGroupXS(blackXS, "Clad"))
	return nil
}

// 构造 Dancoff 计算用的简化栅元，并记录各物理区的区域 id
// isolated 为 true 时记入孤立栅元，否则记入栅格中的完整栅元
func (p *FuelPin) MakeDancoffCell(b CellBuilder, moderator *model.CrossSection, dx, dy float64, t model.CellType, isolated bool) (*geometry.Cell, error) {
	if err := t.CheckWidths(dx, dy, p.cladRadius); err != nil {
		return nil, fmt.Errorf("dancoff cell: %v: %w", err, ErrConfig)
	}
	radii := []float64{p.fuelRadius}
	xss := []*model.CrossSection{p.fuelDancoffXS}
	if p.gapDancoffXS != nil {
		radii = append(radii, p.gapRadius)
		xss = append(xss, p.gapDancoffXS)
	}
	radii = append(radii, p.cladRadius)
	xss = append(xss, p.cladDancoffXS, moderator)

	cell, err := b.SimpleCell(radii, xss, dx, dy, t)
	if err != nil {
		return nil, err
	}
	ids := cell.RegionIDs()
	if len(ids) < len(xss) {
		return nil, fmt.Errorf("dancoff cell has %d regions, need %d: %w", len(ids), len(xss), ErrSequence)
	}

	reg := &p.fullIDs
	if isolated {
		reg = &p.isoIDs
	}
	reg.fuel = append(reg.fuel, ids[0])
	i := 1
	if p.gapDancoffXS != nil {
		reg.gap = append(reg.gap, ids[i])
		i++
	}
	reg.clad = append(reg.clad, ids[i])
	reg.mod = append(reg.mod, ids[i+1])
	return cell, nil
}

// 将记录的区域 id 转换为两个求解器各自的下标，每次调用都重新计算
func (p *FuelPin) PopulateDancoffIndexes(iso, full Solver) error {
	p.isoInds.reset()
	p.fullInds.reset()
	if err := resolveRegions(iso, &p.isoIDs, &p.isoInds); err != nil {
		return fmt.Errorf("isolated dancoff cell: %w", err)
	}
	if err := resolveRegions(full, &p.fullIDs, &p.fullInds); err != nil {
		return fmt.Errorf("full dancoff cell: %w", err)
	}
	return nil
}

func resolveRegions(s Solver, ids, inds *regions) error {
	var err error
	if inds.fuel, err = resolve(s, ids.fuel); err != nil {
		return err
	}
	if inds.gap, err = resolve(s, ids.gap); err != nil {
		return err
	}
	if inds.clad, err = resolve(s, ids.clad); err != nil {
		return err
	}
	inds.mod, err = resolve(s, ids.mod)
	return err
}

func resolve(s Solver, ids []int) ([]int, error) {
	inds := make([]int, 0, len(ids))
	for _, id := range ids {
		i, err := s.RegionIndex(id, 0)
		if err != nil {
			return nil, err
		}
		inds = append(inds, i)
	}
	return inds, nil
}

// 各物理区的单群外源
type sources struct {
	fuel, gap, clad, mod float64
}

func (p *FuelPin) fuelSources(moderator *material.Material) sources {
	s := sources{fuel: 0.0, clad: p.clad.PotentialXS(), mod: moderator.PotentialXS()}
	if p.gap != nil {
		s.gap = p.gap.PotentialXS()
	}
	return s
}

func (p *FuelPin) cladSources(moderator *material.Material, lib *nucdata.Library) (sources, error) {
	avg, err := p.averageFuel(lib)
	if err != nil {
		return sources{}, err
	}
	s := sources{fuel: avg.PotentialXS(), clad: 0.0, mod: moderator.PotentialXS()}
	if p.gap != nil {
		s.gap = p.gap.PotentialXS()
	}
	return s, nil
}

func setSources(s Solver, inds *regions, src sources) error {
	for _, set := range []struct {
		inds []int
		v    float64
	}{
		{inds.fuel, src.fuel},
		{inds.gap, src.gap},
		{inds.clad, src.clad},
		{inds.mod, src.mod},
	} {
		for _, i := range set.inds {
			if err := s.SetFixedSource(i, 0, set.v); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *FuelPin) SetIsolatedFuelSources(iso Solver, moderator *material.Material) error {
	return setSources(iso, &p.isoInds, p.fuelSources(moderator))
}

func (p *FuelPin) SetFullFuelSources(full Solver, moderator *material.Material) error {
	return setSources(full, &p.fullInds, p.fuelSources(moderator))
}

func (p *FuelPin) SetIsolatedCladSources(iso Solver, moderator *material.Material, lib *nucdata.Library) error {
	src, err := p.cladSources(moderator, lib)
	if err != nil {
		return err
	}
	return setSources(iso, &p.isoInds, src)
}

func (p *FuelPin) SetFullCladSources(full Solver, moderator *material.Material, lib *nucdata.Library) error {
	src, err := p.cladSources(moderator, lib)
	if err != nil {
		return err
	}
	return setSources(full, &p.fullInds, src)
}

// C = (phi_iso - phi_full) / phi_iso，两个求解器都必须已经算完
func dancoff(iso, full Solver, isoInds, fullInds []int) (float64, error) {
	if len(isoInds) == 0 || len(fullInds) == 0 {
		return 0, fmt.Errorf("dancoff region indexes not populated: %w", ErrSequence)
	}
	isoFlux, err := iso.HomogenizeFlux(isoInds)
	if err != nil {
		return 0, err
	}
	fullFlux, err := full.HomogenizeFlux(fullInds)
	if err != nil {
		return 0, err
	}
	if isoFlux[0] <= 0.0 {
		return 0, fmt.Errorf("isolated flux %g must be > 0: %w", isoFlux[0], ErrRange)
	}
	return (isoFlux[0] - fullFlux[0]) / isoFlux[0], nil
}

func (p *FuelPin) ComputeFuelDancoff(iso, full Solver) (float64, error) {
	return dancoff(iso, full, p.isoInds.fuel, p.fullInds.fuel)
}

func (p *FuelPin) ComputeCladDancoff(iso, full Solver) (float64, error) {
	return dancoff(iso, full, p.isoInds.clad, p.fullInds.clad)
}

func checkDancoff(C float64) error {
	if !(C >= 0.0 && C <= 1.0) {
		return fmt.Errorf("dancoff correction must be in [0, 1], got %g: %w", C, ErrRange)
	}
	return nil
}

// 追加之后的截面计算都使用该修正
func (p *FuelPin) AppendFuelDancoff(C float64) error {
	if err := checkDancoff(C); err != nil {
		return err
	}
	p.fuelDancoff = append(p.fuelDancoff, C)
	log.WithFields(log.Fields{"step": len(p.fuelDancoff) - 1, "C": C}).Debug("fuel dancoff correction")
	return nil
}

func (p *FuelPin) AppendCladDancoff(C float64) error {
	if err := checkDancoff(C); err != nil {
		return err
	}
	p.cladDancoff = append(p.cladDancoff, C)
	log.WithFields(log.Fields{"step": len(p.cladDancoff) - 1, "C": C}).Debug("clad dancoff correction")
	return nil
}
