package transport

import (
	"fmt"
	"math"

	"fuelpin/geometry"
)

const (
	DefaultMaxIterations = 2000
	DefaultTolerance     = 1.0e-7
)

// 平通量碰撞概率求解器
// 区域之间只通过栅元体积平均通量 phi_env 耦合：
//
//	phi_i = (1 - P_i) Q_i / Et_i + P_i phi_env,  P_i = 1 / (1 + Et_i * l_i)
//
// 群内散射在区域内隐式处理，phi_env 按群直接求解，只有群间耦合和裂变源需要迭代
type Solver struct {
	MaxIterations int
	Tolerance     float64

	cell   *geometry.Cell
	index  map[int]int // 区域 id -> 下标
	groups int
	src    [][]float64 // 外源，[下标][群]
	flux   [][]float64
	keff   float64
	solved bool
}

func NewSolver(cell *geometry.Cell) (*Solver, error) {
	if cell == nil || len(cell.Regions) == 0 {
		return nil, fmt.Errorf("transport: cell has no regions")
	}
	groups := cell.Regions[0].XS.NGroups()
	if groups == 0 {
		return nil, fmt.Errorf("transport: region %d has an empty cross section", cell.Regions[0].ID)
	}
	s := &Solver{
		MaxIterations: DefaultMaxIterations,
		Tolerance:     DefaultTolerance,
		cell:          cell,
		index:         make(map[int]int, len(cell.Regions)),
		groups:        groups,
		src:           make([][]float64, len(cell.Regions)),
		flux:          make([][]float64, len(cell.Regions)),
		keff:          1.0,
	}
	for i, r := range cell.Regions {
		s.index[r.ID] = i
		s.src[i] = make([]float64, groups)
		s.flux[i] = make([]float64, groups)
	}
	return s, nil
}

func (s *Solver) Groups() int {
	return s.groups
}

func (s *Solver) NRegions() int {
	return len(s.cell.Regions)
}

// 区域 id 对应的下标，单个栅元只有第 0 个实例
func (s *Solver) RegionIndex(id, instance int) (int, error) {
	if instance != 0 {
		return 0, fmt.Errorf("transport: region %d has no instance %d", id, instance)
	}
	i, ok := s.index[id]
	if !ok {
		return 0, fmt.Errorf("transport: unknown region id %d", id)
	}
	return i, nil
}

func (s *Solver) SetFixedSource(idx, g int, v float64) error {
	if err := s.check(idx, g); err != nil {
		return err
	}
	s.src[idx][g] = v
	return nil
}

func (s *Solver) FixedSource(idx, g int) (float64, error) {
	if err := s.check(idx, g); err != nil {
		return 0, err
	}
	return s.src[idx][g], nil
}

func (s *Solver) check(idx, g int) error {
	if idx < 0 || idx >= len(s.src) {
		return fmt.Errorf("transport: region index %d out of range [0, %d)", idx, len(s.src))
	}
	if g < 0 || g >= s.groups {
		return fmt.Errorf("transport: group %d out of range [0, %d)", g, s.groups)
	}
	return nil
}

func (s *Solver) Keff() float64 {
	return s.keff
}

func (s *Solver) Solved() bool {
	return s.solved
}

// 按体积加权平均若干区域的通量谱
func (s *Solver) HomogenizeFlux(idxs []int) ([]float64, error) {
	if !s.solved {
		return nil, fmt.Errorf("transport: flux requested before a solve")
	}
	if len(idxs) == 0 {
		return nil, fmt.Errorf("transport: no regions to homogenize")
	}
	out := make([]float64, s.groups)
	vol := 0.0
	for _, i := range idxs {
		if err := s.check(i, 0); err != nil {
			return nil, err
		}
		v := s.cell.Regions[i].Volume
		for g := range out {
			out[g] += v * s.flux[i][g]
		}
		vol += v
	}
	for g := range out {
		out[g] /= vol
	}
	return out, nil
}

// 固定源问题，不考虑裂变
func (s *Solver) SolveFixedSource() error {
	if err := s.checkXS(); err != nil {
		return err
	}
	s.reset(0.0)
	q := make([]float64, len(s.flux))
	for it := 1; it <= s.MaxIterations; it++ {
		diff := 0.0
		for g := 0; g < s.groups; g++ {
			for i := range q {
				q[i] = s.src[i][g] + s.inscatter(i, g)
			}
			d, err := s.sweep(g, q)
			if err != nil {
				return err
			}
			diff = math.Max(diff, d)
		}
		if diff < s.Tolerance {
			s.solved = true
			return nil
		}
	}
	return fmt.Errorf("transport: fixed source iteration did not converge in %d iterations", s.MaxIterations)
}

// 特征值问题，幂迭代，返回 keff
func (s *Solver) SolveEigen() (float64, error) {
	if err := s.checkXS(); err != nil {
		return 0, err
	}
	s.reset(1.0)
	k := 1.0
	prod := s.production()
	if prod <= 0.0 {
		return 0, fmt.Errorf("transport: cell has no fission production")
	}
	q := make([]float64, len(s.flux))
	for it := 1; it <= s.MaxIterations; it++ {
		fiss := make([]float64, len(s.flux))
		for i, r := range s.cell.Regions {
			for g := 0; g < s.groups; g++ {
				fiss[i] += r.XS.NuEf[g] * s.flux[i][g]
			}
		}
		diff := 0.0
		for g := 0; g < s.groups; g++ {
			for i, r := range s.cell.Regions {
				q[i] = r.XS.Chi[g]*fiss[i]/k + s.inscatter(i, g)
			}
			d, err := s.sweep(g, q)
			if err != nil {
				return 0, err
			}
			diff = math.Max(diff, d)
		}
		next := s.production()
		if next <= 0.0 {
			return 0, fmt.Errorf("transport: fission production vanished at iteration %d", it)
		}
		kNext := k * next / prod
		// 保持总产生率不变
		f := prod / next
		for i := range s.flux {
			for g := range s.flux[i] {
				s.flux[i][g] *= f
			}
		}
		dk := math.Abs(kNext - k)
		k = kNext
		if dk < s.Tolerance && diff < s.Tolerance {
			s.keff = k
			s.solved = true
			return k, nil
		}
	}
	return 0, fmt.Errorf("transport: power iteration did not converge in %d iterations", s.MaxIterations)
}

func (s *Solver) checkXS() error {
	for _, r := range s.cell.Regions {
		if r.XS.NGroups() != s.groups {
			return fmt.Errorf("transport: region %d has %d groups, solver has %d", r.ID, r.XS.NGroups(), s.groups)
		}
	}
	return nil
}

func (s *Solver) reset(v float64) {
	s.solved = false
	for i := range s.flux {
		for g := range s.flux[i] {
			s.flux[i][g] = v
		}
	}
}

// 其他群散射进入 g 群的源
func (s *Solver) inscatter(i, g int) float64 {
	xs := s.cell.Regions[i].XS
	q := 0.0
	for gg := 0; gg < s.groups; gg++ {
		if gg != g {
			q += xs.Es[gg][g] * s.flux[i][gg]
		}
	}
	return q
}

func (s *Solver) production() float64 {
	p := 0.0
	for i, r := range s.cell.Regions {
		for g := 0; g < s.groups; g++ {
			p += r.Volume * r.XS.NuEf[g] * s.flux[i][g]
		}
	}
	return p
}

// 给定群源 q 直接求出 g 群通量，返回最大相对变化
func (s *Solver) sweep(g int, q []float64) (float64, error) {
	num, den := 0.0, 0.0
	d := make([]float64, len(q))
	for i, r := range s.cell.Regions {
		removal := r.XS.Et[g] - r.XS.Es[g][g]
		d[i] = 1.0 + removal*r.Chord
		num += r.Volume * q[i] * r.Chord / d[i]
		den += r.Volume * removal * r.Chord / d[i]
	}
	if den <= 0.0 {
		return 0, fmt.Errorf("transport: group %d has no removal anywhere in the cell", g)
	}
	env := num / den

	diff := 0.0
	for i, r := range s.cell.Regions {
		phi := (q[i]*r.Chord + env) / d[i]
		old := s.flux[i][g]
		if phi > 0.0 {
			diff = math.Max(diff, math.Abs(phi-old)/phi)
		} else {
			diff = math.Max(diff, math.Abs(phi-old))
		}
		s.flux[i][g] = phi
	}
	return diff, nil
}
