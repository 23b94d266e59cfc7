package material

import (
	"fmt"

	"fuelpin/nucdata"
)

// 自屏后的有效微观截面，单位 barn
type MicroXS struct {
	Absorption []float64
	Fission    []float64
}

// 材料：组成 + 温度
// 组成构造后不再修改，只有微观截面缓存会被写入和清除
type Material struct {
	Name        string
	comp        *Composition
	temperature float64 // K
	potentialXS float64 // 宏观势散射截面，1/cm
	micro       map[string]*MicroXS
}

func New(comp *Composition, temperature float64, lib *nucdata.Library) (*Material, error) {
	if comp == nil || comp.Len() == 0 {
		return nil, fmt.Errorf("material needs at least one nuclide")
	}
	if temperature <= 0.0 {
		return nil, fmt.Errorf("material temperature must be > 0, got %g", temperature)
	}
	m := &Material{
		comp:        comp.Clone(),
		temperature: temperature,
		micro:       make(map[string]*MicroXS),
	}
	for _, n := range m.comp.nuclides {
		if n.Density < 0.0 {
			return nil, fmt.Errorf("nuclide %s has negative density %g", n.Name, n.Density)
		}
		nd, err := lib.Nuclide(n.Name)
		if err != nil {
			return nil, err
		}
		m.potentialXS += n.Density * nd.PotentialXS
	}
	return m, nil
}

type WeightFraction struct {
	Name     string
	Fraction float64
}

// 按质量份额和密度 (g/cm^3) 构造材料
func NewFromWeight(fracs []WeightFraction, density, temperature float64, lib *nucdata.Library) (*Material, error) {
	if density <= 0.0 {
		return nil, fmt.Errorf("material density must be > 0, got %g", density)
	}
	total := 0.0
	for _, f := range fracs {
		total += f.Fraction
	}
	if total <= 0.0 {
		return nil, fmt.Errorf("weight fractions must sum to > 0")
	}
	comp := NewComposition()
	for _, f := range fracs {
		nd, err := lib.Nuclide(f.Name)
		if err != nil {
			return nil, err
		}
		// N = rho * w * Na / A，换算为 atoms/b-cm
		comp.Add(f.Name, density*(f.Fraction/total)*nucdata.Avogadro/nd.AtomicMass*nucdata.Barn)
	}
	return New(comp, temperature, lib)
}

// 复制组成，不复制微观截面缓存
func (m *Material) Clone() *Material {
	return &Material{
		Name:        m.Name,
		comp:        m.comp.Clone(),
		temperature: m.temperature,
		potentialXS: m.potentialXS,
		micro:       make(map[string]*MicroXS),
	}
}

func (m *Material) Temperature() float64 {
	return m.temperature
}

func (m *Material) PotentialXS() float64 {
	return m.potentialXS
}

func (m *Material) Size() int {
	return m.comp.Len()
}

func (m *Material) AtomDensity(name string) float64 {
	return m.comp.Density(name)
}

func (m *Material) Nuclides() []Nuclide {
	return m.comp.Nuclides()
}

func (m *Material) Composition() *Composition {
	return m.comp.Clone()
}

// 检查所有核素在数据库中存在
func (m *Material) LoadNuclides(lib *nucdata.Library) error {
	for _, n := range m.comp.nuclides {
		if !lib.Has(n.Name) {
			return fmt.Errorf("nuclide %s not in library", n.Name)
		}
	}
	return nil
}

func (m *Material) SetMicroXS(name string, xs *MicroXS) {
	m.micro[name] = xs
}

func (m *Material) MicroXS(name string) (*MicroXS, bool) {
	xs, ok := m.micro[name]
	return xs, ok
}

func (m *Material) HasMicroXS() bool {
	return len(m.micro) > 0
}

// 燃耗矩阵建好之后微观截面就不再需要了
func (m *Material) ClearMicroXS() {
	m.micro = make(map[string]*MicroXS)
}

// 可裂变核素的质量密度，g/cm^3
func (m *Material) FissionableDensity(lib *nucdata.Library) (float64, error) {
	rho := 0.0
	for _, n := range m.comp.nuclides {
		nd, err := lib.Nuclide(n.Name)
		if err != nil {
			return 0, err
		}
		if nd.Fissionable() {
			rho += n.Density / nucdata.Barn * nd.AtomicMass / nucdata.Avogadro
		}
	}
	return rho, nil
}

// 裂变功率密度，MeV/cm^3/s，有自屏截面时使用自屏截面
func (m *Material) FissionPowerDensity(flux []float64, lib *nucdata.Library) (float64, error) {
	if len(flux) != lib.Groups() {
		return 0, fmt.Errorf("flux has %d groups, library has %d", len(flux), lib.Groups())
	}
	p := 0.0
	for _, n := range m.comp.nuclides {
		nd, err := lib.Nuclide(n.Name)
		if err != nil {
			return 0, err
		}
		if !nd.Fissionable() {
			continue
		}
		sigf := nd.Fission
		if mxs, ok := m.micro[n.Name]; ok {
			sigf = mxs.Fission
		}
		for g, phi := range flux {
			p += n.Density * sigf[g] * phi * nd.FissionEnergy
		}
	}
	return p, nil
}

// 按体积份额混合材料
func Mix(mats []*Material, fractions []float64, lib *nucdata.Library) (*Material, error) {
	if len(mats) == 0 || len(mats) != len(fractions) {
		return nil, fmt.Errorf("mix needs one fraction per material, got %d materials and %d fractions", len(mats), len(fractions))
	}
	total := 0.0
	for _, f := range fractions {
		if f < 0.0 {
			return nil, fmt.Errorf("negative volume fraction %g", f)
		}
		total += f
	}
	if total <= 0.0 {
		return nil, fmt.Errorf("volume fractions must sum to > 0")
	}
	comp := NewComposition()
	temp := 0.0
	for i, mat := range mats {
		w := fractions[i] / total
		for _, n := range mat.comp.nuclides {
			comp.Add(n.Name, w*n.Density)
		}
		temp += w * mat.temperature
	}
	return New(comp, temp, lib)
}
