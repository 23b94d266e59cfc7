package nucdata

import (
	"fmt"
	"sort"
)

const (
	Avogadro = 6.02214076e23
	Barn     = 1e-24 // cm^2
	MeV      = 1.6021766339999e-13 // J
)

// 单个核素的多群微观截面数据，单位 barn
type Nuclide struct {
	Name        string
	AtomicMass  float64 // g/mol
	PotentialXS float64 // 势散射截面
	Absorption  []float64
	Fission     []float64
	Nu          []float64
	Chi         []float64
	Scatter     [][]float64 // Scatter[g][gg]: g -> gg
	// 共振强度 sigma_r，自屏因子 f = sigma0 / (sigma0 + sigma_r)，0 表示不做自屏
	Resonance     []float64
	FissionEnergy float64 // MeV / 裂变
}

func (n *Nuclide) Fissionable() bool {
	for _, f := range n.Fission {
		if f > 0.0 {
			return true
		}
	}
	return false
}

func (n *Nuclide) ScatterOut(g int) float64 {
	sum := 0.0
	for _, v := range n.Scatter[g] {
		sum += v
	}
	return sum
}

type Library struct {
	groups   int
	nuclides map[string]*Nuclide
}

func NewLibrary(groups int) *Library {
	return &Library{
		groups:   groups,
		nuclides: make(map[string]*Nuclide),
	}
}

func (l *Library) Groups() int {
	return l.groups
}

// 添加核素，检查各群数组长度
func (l *Library) Add(n *Nuclide) error {
	if n.Name == "" {
		return fmt.Errorf("nuclide without name")
	}
	for name, arr := range map[string][]float64{
		"absorption": n.Absorption,
		"fission":    n.Fission,
		"nu":         n.Nu,
		"chi":        n.Chi,
		"resonance":  n.Resonance,
	} {
		if len(arr) != l.groups {
			return fmt.Errorf("nuclide %s: %s has %d groups, library has %d", n.Name, name, len(arr), l.groups)
		}
	}
	if len(n.Scatter) != l.groups {
		return fmt.Errorf("nuclide %s: scatter matrix has %d rows, library has %d", n.Name, len(n.Scatter), l.groups)
	}
	for g, row := range n.Scatter {
		if len(row) != l.groups {
			return fmt.Errorf("nuclide %s: scatter row %d has %d entries", n.Name, g, len(row))
		}
	}
	if n.AtomicMass <= 0.0 {
		return fmt.Errorf("nuclide %s: atomic mass must be > 0", n.Name)
	}
	l.nuclides[n.Name] = n
	return nil
}

func (l *Library) Nuclide(name string) (*Nuclide, error) {
	n, ok := l.nuclides[name]
	if !ok {
		return nil, fmt.Errorf("nuclide %s not in library", name)
	}
	return n, nil
}

func (l *Library) Has(name string) bool {
	_, ok := l.nuclides[name]
	return ok
}

func (l *Library) Names() []string {
	names := make([]string, 0, len(l.nuclides))
	for name := range l.nuclides {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
