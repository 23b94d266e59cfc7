package depletion

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// 燃耗算子：给定核素密度向量 N，ExpAction 将 N 原地替换为 exp(A) N
type Operator interface {
	Nuclides() []string
	Size() int
	Scale(f float64)
	ExpAction(n []float64) error
}

// 线性组合中的一项
type Term struct {
	Coef float64
	Op   Operator
}

// 稠密燃耗矩阵，行列顺序由 nuclides 给出
type Matrix struct {
	nuclides []string
	a        *mat.Dense
}

func NewMatrix(nuclides []string) (*Matrix, error) {
	if len(nuclides) == 0 {
		return nil, fmt.Errorf("depletion matrix needs at least one nuclide")
	}
	names := make([]string, len(nuclides))
	copy(names, nuclides)
	return &Matrix{
		nuclides: names,
		a:        mat.NewDense(len(names), len(names), nil),
	}, nil
}

func (m *Matrix) Nuclides() []string {
	names := make([]string, len(m.nuclides))
	copy(names, m.nuclides)
	return names
}

func (m *Matrix) Size() int {
	return len(m.nuclides)
}

func (m *Matrix) At(i, j int) float64 {
	return m.a.At(i, j)
}

func (m *Matrix) add(i, j int, v float64) {
	m.a.Set(i, j, m.a.At(i, j)+v)
}

// 原地缩放
func (m *Matrix) Scale(f float64) {
	m.a.Scale(f, m.a)
}

func (m *Matrix) ExpAction(n []float64) error {
	if len(n) != m.Size() {
		return fmt.Errorf("density vector has %d entries, matrix has %d", len(n), m.Size())
	}
	var e mat.Dense
	e.Exp(m.a)
	var out mat.VecDense
	out.MulVec(&e, mat.NewVecDense(len(n), n))
	for i := range n {
		n[i] = out.AtVec(i)
	}
	return nil
}

// 计算 sum_k c_k A_k，得到新矩阵，不修改输入
func Blend(terms ...Term) (*Matrix, error) {
	if len(terms) == 0 {
		return nil, fmt.Errorf("blend needs at least one term")
	}
	var out *Matrix
	for k, t := range terms {
		m, ok := t.Op.(*Matrix)
		if !ok {
			return nil, fmt.Errorf("blend term %d is %T, not a depletion matrix", k, t.Op)
		}
		if out == nil {
			var err error
			if out, err = NewMatrix(m.nuclides); err != nil {
				return nil, err
			}
		} else if !sameOrder(out.nuclides, m.nuclides) {
			return nil, fmt.Errorf("blend term %d has a different nuclide ordering", k)
		}
		var scaled mat.Dense
		scaled.Scale(t.Coef, m.a)
		out.a.Add(out.a, &scaled)
	}
	return out, nil
}

func sameOrder(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
