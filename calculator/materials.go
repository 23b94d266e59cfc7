package calculator

import (
	"fmt"

	"fuelpin/material"
	"fuelpin/nucdata"
)

// 质量数不小于该值的核素计入重金属
const heavyMetalMass = 220.0

// UO2 燃料，enrichment 为铀中 U235 的质量份额
func fuelMaterial(c PinConfig, lib *nucdata.Library) (*material.Material, error) {
	u5, err := lib.Nuclide("U235")
	if err != nil {
		return nil, err
	}
	u8, err := lib.Nuclide("U238")
	if err != nil {
		return nil, err
	}
	o, err := lib.Nuclide("O16")
	if err != nil {
		return nil, err
	}
	e := c.Enrichment
	mU := 1.0 / (e/u5.AtomicMass + (1.0-e)/u8.AtomicMass)
	fU := mU / (mU + 2.0*o.AtomicMass)
	m, err := material.NewFromWeight([]material.WeightFraction{
		{Name: "U235", Fraction: e * fU},
		{Name: "U238", Fraction: (1.0 - e) * fU},
		{Name: "O16", Fraction: 1.0 - fU},
	}, c.FuelDensity, c.FuelTemperature, lib)
	if err != nil {
		return nil, fmt.Errorf("fuel: %w", err)
	}
	m.Name = "Fuel"
	return m, nil
}

func cladMaterial(c PinConfig, lib *nucdata.Library) (*material.Material, error) {
	m, err := material.NewFromWeight([]material.WeightFraction{{Name: "Zr90", Fraction: 1.0}}, c.CladDensity, c.CladTemperature, lib)
	if err != nil {
		return nil, fmt.Errorf("clad: %w", err)
	}
	m.Name = "Clad"
	return m, nil
}

// 没有间隙时返回 nil
func gapMaterial(c PinConfig, lib *nucdata.Library) (*material.Material, error) {
	if c.GapRadius == 0.0 {
		return nil, nil
	}
	m, err := material.NewFromWeight([]material.WeightFraction{{Name: "He4", Fraction: 1.0}}, c.GapDensity, c.CladTemperature, lib)
	if err != nil {
		return nil, fmt.Errorf("gap: %w", err)
	}
	m.Name = "Gap"
	return m, nil
}

// 轻水
func moderatorMaterial(c PinConfig, lib *nucdata.Library) (*material.Material, error) {
	h, err := lib.Nuclide("H1")
	if err != nil {
		return nil, err
	}
	o, err := lib.Nuclide("O16")
	if err != nil {
		return nil, err
	}
	fH := 2.0 * h.AtomicMass / (2.0*h.AtomicMass + o.AtomicMass)
	m, err := material.NewFromWeight([]material.WeightFraction{
		{Name: "H1", Fraction: fH},
		{Name: "O16", Fraction: 1.0 - fH},
	}, c.ModDensity, c.ModTemperature, lib)
	if err != nil {
		return nil, fmt.Errorf("moderator: %w", err)
	}
	m.Name = "Moderator"
	return m, nil
}

// 单位长度的重金属质量，kg/cm
func heavyMetalLinearMass(m *material.Material, area float64, lib *nucdata.Library) (float64, error) {
	grams := 0.0
	for _, n := range m.Nuclides() {
		nd, err := lib.Nuclide(n.Name)
		if err != nil {
			return 0, err
		}
		if nd.AtomicMass < heavyMetalMass {
			continue
		}
		grams += n.Density / nucdata.Barn / nucdata.Avogadro * nd.AtomicMass * area
	}
	return grams / 1000.0, nil
}
