package model

// 多群宏观截面，单位 1/cm
// 几何中的区域只持有指针，更新时必须调用 Set 原地修改，不能重新赋值
type CrossSection struct {
	Name string
	Et   []float64   // 总截面
	Ea   []float64   // 吸收截面
	Es   [][]float64 // 散射矩阵，Es[g][gg] 表示 g -> gg
	Ef   []float64   // 裂变截面
	NuEf []float64   // nu * 裂变截面
	Chi  []float64   // 裂变谱
}

// 单群探针截面，总截面等于吸收截面，无散射
func NewOneGroupXS(value float64, name string) *CrossSection {
	return &CrossSection{
		Name: name,
		Et:   []float64{value},
		Ea:   []float64{value},
		Es:   [][]float64{{0.0}},
		Ef:   []float64{0.0},
		NuEf: []float64{0.0},
		Chi:  []float64{0.0},
	}
}

// 按群数分配一个全零截面
func NewCrossSection(groups int, name string) *CrossSection {
	xs := &CrossSection{
		Name: name,
		Et:   make([]float64, groups),
		Ea:   make([]float64, groups),
		Es:   make([][]float64, groups),
		Ef:   make([]float64, groups),
		NuEf: make([]float64, groups),
		Chi:  make([]float64, groups),
	}
	for g := range xs.Es {
		xs.Es[g] = make([]float64, groups)
	}
	return xs
}

func (x *CrossSection) NGroups() int {
	return len(x.Et)
}

func (x *CrossSection) Fissile() bool {
	for _, v := range x.NuEf {
		if v > 0.0 {
			return true
		}
	}
	return false
}

// 散射出 g 群的总截面
func (x *CrossSection) Esout(g int) float64 {
	sum := 0.0
	for _, v := range x.Es[g] {
		sum += v
	}
	return sum
}

// Set 用 o 的内容覆盖 x，x 的身份（指针）保持不变
func (x *CrossSection) Set(o *CrossSection) {
	x.Name = o.Name
	x.Et = copyInto(x.Et, o.Et)
	x.Ea = copyInto(x.Ea, o.Ea)
	x.Ef = copyInto(x.Ef, o.Ef)
	x.NuEf = copyInto(x.NuEf, o.NuEf)
	x.Chi = copyInto(x.Chi, o.Chi)
	if len(x.Es) != len(o.Es) {
		x.Es = make([][]float64, len(o.Es))
	}
	for g := range o.Es {
		x.Es[g] = copyInto(x.Es[g], o.Es[g])
	}
}

func (x *CrossSection) Clone() *CrossSection {
	c := &CrossSection{}
	c.Set(x)
	return c
}

func copyInto(dst, src []float64) []float64 {
	if len(dst) != len(src) {
		dst = make([]float64, len(src))
	}
	copy(dst, src)
	return dst
}
