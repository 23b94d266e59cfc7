package pin

import (
	"fuelpin/depletion"
	"fuelpin/geometry"
	"fuelpin/material"
	"fuelpin/model"
)

// 输运求解器，transport.Solver 实现了该接口
type Solver interface {
	RegionIndex(id, instance int) (int, error)
	SetFixedSource(idx, g int, v float64) error
	HomogenizeFlux(idxs []int) ([]float64, error)
}

// 栅元几何构造，geometry.Builder 实现了该接口
type CellBuilder interface {
	SimpleCell(radii []float64, xss []*model.CrossSection, dx, dy float64, t model.CellType) (*geometry.Cell, error)
	PinCell(radii []float64, xss []*model.CrossSection, dx, dy float64, t model.CellType) (*geometry.Cell, error)
}

// 自屏截面计算，xs.Kernel 实现了该接口
type XSKernel interface {
	Carlvik(m *material.Material, dancoff, escape float64) (*model.CrossSection, error)
	Roman(m *material.Material, dancoff, escape float64) (*model.CrossSection, error)
	Dilution(m *material.Material, dilutions []float64) (*model.CrossSection, error)
}

// 燃耗矩阵构造与线性组合，depletion.Builder 实现了该接口
type Depleter interface {
	Build(m *material.Material, flux []float64) (depletion.Operator, error)
	Blend(terms ...depletion.Term) (depletion.Operator, error)
}
