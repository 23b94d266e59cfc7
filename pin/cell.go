package pin

import (
	"fmt"

	"fuelpin/geometry"
	"fuelpin/model"
)

// 构造真实输运计算的栅元，并按环划分区域 id
// 排序后的 id 依次为：每个燃料环 NA 个，间隙 NA 个（如有），包壳 NA 个，其余全部为慢化剂
func (p *FuelPin) MakeCell(b CellBuilder, moderator *model.CrossSection, dx, dy float64, t model.CellType) (*geometry.Cell, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid cell type %d: %w", int(t), ErrConfig)
	}
	if len(p.fuelXS) != len(p.rings) {
		return nil, fmt.Errorf("fuel cross sections have not been built: %w", ErrSequence)
	}
	if p.gap != nil && p.gapXS == nil {
		return nil, fmt.Errorf("gap cross section has not been built: %w", ErrSequence)
	}
	if p.cladXS == nil {
		return nil, fmt.Errorf("clad cross section has not been built: %w", ErrSequence)
	}
	if moderator == nil {
		return nil, fmt.Errorf("moderator cross section is nil: %w", ErrConfig)
	}
	if err := t.CheckWidths(dx, dy, p.cladRadius); err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrConfig)
	}

	radii := p.RingRadii()
	xss := append([]*model.CrossSection(nil), p.fuelXS...)
	if p.gapXS != nil {
		radii = append(radii, p.gapRadius)
		xss = append(xss, p.gapXS)
	}
	radii = append(radii, p.cladRadius)
	xss = append(xss, p.cladXS)
	if r, ok := t.ModeratorRing(dx, dy, p.cladRadius); ok {
		radii = append(radii, r)
		xss = append(xss, moderator)
	}
	xss = append(xss, moderator)

	cell, err := b.PinCell(radii, xss, dx, dy, t)
	if err != nil {
		return nil, err
	}
	ids := cell.RegionIDs()

	NA := t.AngularDivisions()
	need := NA * (len(p.rings) + 1)
	if p.gapXS != nil {
		need += NA
	}
	if len(ids) < need {
		return nil, fmt.Errorf("cell has %d regions, need at least %d: %w", len(ids), need, ErrSequence)
	}

	I := 0
	take := func() []int {
		out := append([]int(nil), ids[I:I+NA]...)
		I += NA
		return out
	}
	for _, r := range p.rings {
		r.ids = take()
		r.inds = nil
	}
	p.gapIDs = nil
	if p.gapXS != nil {
		p.gapIDs = take()
	}
	p.cladIDs = take()
	p.modIDs = append([]int(nil), ids[I:]...)
	p.gapInds, p.cladInds, p.modInds = nil, nil, nil
	return cell, nil
}

// 将真实栅元的区域 id 转换为求解器下标，每次调用都重新计算
func (p *FuelPin) PopulateIndexes(s Solver) error {
	if len(p.cladIDs) == 0 {
		return fmt.Errorf("pin cell has not been built: %w", ErrSequence)
	}
	var err error
	for i, r := range p.rings {
		if r.inds, err = resolve(s, r.ids); err != nil {
			return fmt.Errorf("fuel ring %d: %w", i, err)
		}
	}
	if p.gapInds, err = resolve(s, p.gapIDs); err != nil {
		return fmt.Errorf("gap: %w", err)
	}
	if p.cladInds, err = resolve(s, p.cladIDs); err != nil {
		return fmt.Errorf("clad: %w", err)
	}
	if p.modInds, err = resolve(s, p.modIDs); err != nil {
		return fmt.Errorf("moderator: %w", err)
	}
	return nil
}

// 第 r 环的区域 id
func (p *FuelPin) RingRegionIDs(r int) []int {
	if r < 0 || r >= len(p.rings) {
		return nil
	}
	return append([]int(nil), p.rings[r].ids...)
}

func (p *FuelPin) GapRegionIDs() []int       { return append([]int(nil), p.gapIDs...) }
func (p *FuelPin) CladRegionIDs() []int      { return append([]int(nil), p.cladIDs...) }
func (p *FuelPin) ModeratorRegionIDs() []int { return append([]int(nil), p.modIDs...) }
