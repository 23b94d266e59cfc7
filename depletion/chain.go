package depletion

import (
	"fmt"
	"math"
)

type Branch struct {
	Target string
	Ratio  float64
}

// 燃耗链中的一个核素
type Entry struct {
	Name     string
	HalfLife float64  // s，0 表示稳定核素
	Decays   []Branch // 衰变分支
	Capture  string   // (n,gamma) 产物，空表示离开燃耗链
	Yields   []Branch // 每次裂变产生的裂变产物
}

func (e *Entry) DecayConstant() float64 {
	if e.HalfLife <= 0.0 {
		return 0.0
	}
	return math.Ln2 / e.HalfLife
}

type Chain struct {
	entries []*Entry
	index   map[string]int
}

func NewChain(entries ...*Entry) (*Chain, error) {
	c := &Chain{index: make(map[string]int)}
	for _, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("chain entry without name")
		}
		if _, ok := c.index[e.Name]; ok {
			return nil, fmt.Errorf("nuclide %s appears twice in chain", e.Name)
		}
		if e.HalfLife < 0.0 {
			return nil, fmt.Errorf("nuclide %s has negative half life", e.Name)
		}
		sum := 0.0
		for _, b := range e.Decays {
			sum += b.Ratio
		}
		if sum > 1.0+1e-10 {
			return nil, fmt.Errorf("nuclide %s decay branch ratios sum to %g > 1", e.Name, sum)
		}
		c.index[e.Name] = len(c.entries)
		c.entries = append(c.entries, e)
	}
	return c, nil
}

func (c *Chain) Nuclides() []string {
	names := make([]string, len(c.entries))
	for i, e := range c.entries {
		names[i] = e.Name
	}
	return names
}

func (c *Chain) Entry(name string) (*Entry, bool) {
	i, ok := c.index[name]
	if !ok {
		return nil, false
	}
	return c.entries[i], true
}

func (c *Chain) Len() int {
	return len(c.entries)
}
