package depletion

import (
	"fmt"

	"fuelpin/material"
	"fuelpin/nucdata"
)

// 由燃耗链、核数据、材料和通量谱构建燃耗矩阵
type Builder struct {
	chain *Chain
	lib   *nucdata.Library
}

func NewBuilder(chain *Chain, lib *nucdata.Library) *Builder {
	return &Builder{chain: chain, lib: lib}
}

// 矩阵核素顺序：先是燃耗链顺序，再是材料中不在链上且密度为正的核素（按材料顺序，视为惰性）
// 密度不大于零的惰性核素在燃耗后会被丢弃，计入顺序会使前后两步的矩阵无法组合
func (b *Builder) order(m *material.Material) []string {
	names := b.chain.Nuclides()
	for _, n := range m.Nuclides() {
		if n.Density <= 0.0 {
			continue
		}
		if _, ok := b.chain.Entry(n.Name); !ok {
			names = append(names, n.Name)
		}
	}
	return names
}

func (b *Builder) Build(m *material.Material, flux []float64) (Operator, error) {
	if len(flux) != b.lib.Groups() {
		return nil, fmt.Errorf("flux has %d groups, library has %d", len(flux), b.lib.Groups())
	}
	A, err := NewMatrix(b.order(m))
	if err != nil {
		return nil, err
	}
	index := make(map[string]int, A.Size())
	for i, name := range A.nuclides {
		index[name] = i
	}

	for _, e := range b.chain.entries {
		i := index[e.Name]

		// 衰变
		lambda := e.DecayConstant()
		if lambda > 0.0 {
			A.add(i, i, -lambda)
			for _, br := range e.Decays {
				if j, ok := index[br.Target]; ok {
					A.add(j, i, br.Ratio*lambda)
				}
			}
		}

		// 反应，没有核数据的核素只衰变
		nd, err := b.lib.Nuclide(e.Name)
		if err != nil {
			continue
		}
		sigA, sigF := nd.Absorption, nd.Fission
		if mxs, ok := m.MicroXS(e.Name); ok {
			sigA, sigF = mxs.Absorption, mxs.Fission
		}
		ra, rf := 0.0, 0.0
		for g, phi := range flux {
			ra += sigA[g] * phi * nucdata.Barn
			rf += sigF[g] * phi * nucdata.Barn
		}
		A.add(i, i, -ra)
		if j, ok := index[e.Capture]; ok && e.Capture != "" {
			A.add(j, i, ra-rf)
		}
		for _, y := range e.Yields {
			if j, ok := index[y.Target]; ok {
				A.add(j, i, y.Ratio*rf)
			}
		}
	}
	return A, nil
}

func (b *Builder) Blend(terms ...Term) (Operator, error) {
	return Blend(terms...)
}
