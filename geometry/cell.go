package geometry

import (
	"fmt"
	"math"
	"sort"
	"sync/atomic"

	"fuelpin/model"
)

// 区域 id 在所有栅元之间唯一，按创建顺序递增
var nextID atomic.Int64

func newID() int {
	return int(nextID.Add(1))
}

// 平源区
type Region struct {
	ID     int
	XS     *model.CrossSection // 不持有，截面原地更新后几何无需重建
	Volume float64             // 单位高度的面积，cm^2
	Chord  float64             // 平均弦长 4V/S，cm
	Zone   int                 // 径向区序号，0 为最内层，len(Radii) 为最外层慢化剂
}

type Cell struct {
	Type    model.CellType
	DX, DY  float64
	Radii   []float64
	Regions []*Region
}

// 升序排列的全部区域 id
func (c *Cell) RegionIDs() []int {
	ids := make([]int, len(c.Regions))
	for i, r := range c.Regions {
		ids[i] = r.ID
	}
	sort.Ints(ids)
	return ids
}

func (c *Cell) Area() float64 {
	return c.DX * c.DY
}

type Builder struct{}

func NewBuilder() *Builder {
	return &Builder{}
}

// 用于 Dancoff 计算的简化栅元，每个径向区只有一个区域
func (b *Builder) SimpleCell(radii []float64, xss []*model.CrossSection, dx, dy float64, t model.CellType) (*Cell, error) {
	return build(radii, xss, dx, dy, t, 1)
}

// 真实输运计算的栅元，每个径向区按切分方式做角向划分
func (b *Builder) PinCell(radii []float64, xss []*model.CrossSection, dx, dy float64, t model.CellType) (*Cell, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid cell type %d", int(t))
	}
	return build(radii, xss, dx, dy, t, t.AngularDivisions())
}

func build(radii []float64, xss []*model.CrossSection, dx, dy float64, t model.CellType, na int) (*Cell, error) {
	if len(radii) == 0 {
		return nil, fmt.Errorf("cell needs at least one radius")
	}
	if len(xss) != len(radii)+1 {
		return nil, fmt.Errorf("cell with %d radii needs %d cross sections, got %d", len(radii), len(radii)+1, len(xss))
	}
	for i, r := range radii {
		if r <= 0.0 || (i > 0 && r <= radii[i-1]) {
			return nil, fmt.Errorf("radii must be positive and strictly increasing, got %v", radii)
		}
	}
	for i, x := range xss {
		if x == nil {
			return nil, fmt.Errorf("cross section %d is nil", i)
		}
	}
	rmax := radii[len(radii)-1]
	if err := t.CheckWidths(dx, dy, rmax); err != nil {
		return nil, err
	}

	frac := t.Fraction()
	c := &Cell{
		Type:  t,
		DX:    dx,
		DY:    dy,
		Radii: append([]float64(nil), radii...),
	}
	rin := 0.0
	for z, rout := range radii {
		vol := frac * math.Pi * (rout*rout - rin*rin) / float64(na)
		for a := 0; a < na; a++ {
			c.Regions = append(c.Regions, &Region{
				ID:     newID(),
				XS:     xss[z],
				Volume: vol,
				Chord:  2.0 * (rout - rin),
				Zone:   z,
			})
		}
		rin = rout
	}

	// 圆外的慢化剂
	modArea := dx*dy - frac*math.Pi*rmax*rmax
	if modArea <= 0.0 {
		return nil, fmt.Errorf("no moderator area left outside radius %g", rmax)
	}
	chord := 4.0 * (modArea / frac) / (2.0 * math.Pi * rmax)
	for a := 0; a < na; a++ {
		c.Regions = append(c.Regions, &Region{
			ID:     newID(),
			XS:     xss[len(radii)],
			Volume: modArea / float64(na),
			Chord:  chord,
			Zone:   len(radii),
		})
	}
	return c, nil
}
