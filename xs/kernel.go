package xs

import (
	"fmt"
	"math"

	"fuelpin/material"
	"fuelpin/model"
	"fuelpin/nucdata"
)

// 两项有理近似的系数
type rational struct {
	alpha [2]float64
	beta  [2]float64
}

// 带 Dancoff 修正的 Carlvik 两项近似，C=0 时退化为 alpha=(2,3), beta=(2,-1)
func carlvik(C float64) rational {
	if C <= 0.0 {
		return rational{alpha: [2]float64{2.0, 3.0}, beta: [2]float64{2.0, -1.0}}
	}
	A := (1.0 - C) / C
	root := math.Sqrt(A*A + 36.0*A + 36.0)
	a1 := ((5.0*A + 6.0) - root) / (2.0 * (A + 1.0))
	a2 := ((5.0*A + 6.0) + root) / (2.0 * (A + 1.0))
	b1 := ((4.0*A+6.0)/(A+1.0) - a1) / (a2 - a1)
	return rational{alpha: [2]float64{a1, a2}, beta: [2]float64{b1, 1.0 - b1}}
}

// Roman 两项近似，用于环形的包壳
var roman = rational{alpha: [2]float64{1.4, 5.4}, beta: [2]float64{1.1, -0.1}}

// 自屏截面计算
type Kernel struct {
	lib *nucdata.Library
}

func NewKernel(lib *nucdata.Library) *Kernel {
	return &Kernel{lib: lib}
}

func (k *Kernel) Library() *nucdata.Library {
	return k.lib
}

// 燃料自屏截面
func (k *Kernel) Carlvik(m *material.Material, dancoff, escape float64) (*model.CrossSection, error) {
	if err := checkInputs(dancoff, escape); err != nil {
		return nil, err
	}
	r := carlvik(dancoff)
	return k.shield(m, func(i int, potOthers, density float64) [][2]float64 {
		return backgrounds(r, potOthers, density, escape)
	})
}

// 包壳自屏截面，逃脱截面乘以 (1-C)
func (k *Kernel) Roman(m *material.Material, dancoff, escape float64) (*model.CrossSection, error) {
	if err := checkInputs(dancoff, escape); err != nil {
		return nil, err
	}
	ee := escape * (1.0 - dancoff)
	return k.shield(m, func(i int, potOthers, density float64) [][2]float64 {
		return backgrounds(roman, potOthers, density, ee)
	})
}

// 按给定的稀释截面计算，每个核素一个值，顺序与材料一致
func (k *Kernel) Dilution(m *material.Material, dilutions []float64) (*model.CrossSection, error) {
	if len(dilutions) != m.Size() {
		return nil, fmt.Errorf("got %d dilutions for %d nuclides", len(dilutions), m.Size())
	}
	return k.shield(m, func(i int, _, _ float64) [][2]float64 {
		return [][2]float64{{dilutions[i], 1.0}}
	})
}

func checkInputs(dancoff, escape float64) error {
	if dancoff < 0.0 || dancoff > 1.0 {
		return fmt.Errorf("dancoff correction must be in [0, 1], got %g", dancoff)
	}
	if escape <= 0.0 {
		return fmt.Errorf("escape cross section must be > 0, got %g", escape)
	}
	return nil
}

// 每一项返回 (sigma0, beta)
func backgrounds(r rational, potOthers, density, escape float64) [][2]float64 {
	out := make([][2]float64, 2)
	for j := 0; j < 2; j++ {
		out[j] = [2]float64{(potOthers + r.alpha[j]*escape) / density, r.beta[j]}
	}
	return out
}

// 自屏因子 sum_k beta_k sigma0_k / (sigma0_k + sigma_r)
func factor(terms [][2]float64, resonance float64) float64 {
	if resonance <= 0.0 {
		return 1.0
	}
	f := 0.0
	for _, t := range terms {
		if math.IsInf(t[0], 1) {
			f += t[1]
			continue
		}
		f += t[1] * t[0] / (t[0] + resonance)
	}
	return f
}

func (k *Kernel) shield(m *material.Material, bg func(i int, potOthers, density float64) [][2]float64) (*model.CrossSection, error) {
	G := k.lib.Groups()
	out := model.NewCrossSection(G, "")
	chiWeight := 0.0

	for i, n := range m.Nuclides() {
		nd, err := k.lib.Nuclide(n.Name)
		if err != nil {
			return nil, err
		}
		micro := &material.MicroXS{
			Absorption: make([]float64, G),
			Fission:    make([]float64, G),
		}
		var terms [][2]float64
		if n.Density > 0.0 {
			terms = bg(i, math.Max(0.0, m.PotentialXS()-n.Density*nd.PotentialXS), n.Density)
		} else {
			terms = [][2]float64{{math.Inf(1), 1.0}}
		}
		production := 0.0
		for g := 0; g < G; g++ {
			f := factor(terms, nd.Resonance[g])
			micro.Absorption[g] = nd.Absorption[g] * f
			micro.Fission[g] = nd.Fission[g] * f

			out.Ea[g] += n.Density * micro.Absorption[g]
			out.Ef[g] += n.Density * micro.Fission[g]
			out.NuEf[g] += n.Density * nd.Nu[g] * micro.Fission[g]
			for gg := 0; gg < G; gg++ {
				out.Es[g][gg] += n.Density * nd.Scatter[g][gg]
			}
			production += n.Density * nd.Nu[g] * micro.Fission[g]
		}
		for g := 0; g < G; g++ {
			out.Chi[g] += production * nd.Chi[g]
		}
		chiWeight += production
		m.SetMicroXS(n.Name, micro)
	}

	for g := 0; g < G; g++ {
		out.Et[g] = out.Ea[g] + out.Esout(g)
		if chiWeight > 0.0 {
			out.Chi[g] /= chiWeight
		}
	}
	return out, nil
}
