package material

// 核素及其原子密度，单位 atoms/b-cm
type Nuclide struct {
	Name    string
	Density float64
}

// 按加入顺序保存的核素组成
type Composition struct {
	nuclides []Nuclide
	index    map[string]int
}

func NewComposition() *Composition {
	return &Composition{index: make(map[string]int)}
}

// 加入核素，已存在时密度累加
func (c *Composition) Add(name string, density float64) {
	if i, ok := c.index[name]; ok {
		c.nuclides[i].Density += density
		return
	}
	c.index[name] = len(c.nuclides)
	c.nuclides = append(c.nuclides, Nuclide{Name: name, Density: density})
}

func (c *Composition) Density(name string) float64 {
	if i, ok := c.index[name]; ok {
		return c.nuclides[i].Density
	}
	return 0.0
}

func (c *Composition) Has(name string) bool {
	_, ok := c.index[name]
	return ok
}

func (c *Composition) Len() int {
	return len(c.nuclides)
}

func (c *Composition) Nuclides() []Nuclide {
	out := make([]Nuclide, len(c.nuclides))
	copy(out, c.nuclides)
	return out
}

func (c *Composition) Total() float64 {
	sum := 0.0
	for _, n := range c.nuclides {
		sum += n.Density
	}
	return sum
}

func (c *Composition) Clone() *Composition {
	out := NewComposition()
	for _, n := range c.nuclides {
		out.Add(n.Name, n.Density)
	}
	return out
}
