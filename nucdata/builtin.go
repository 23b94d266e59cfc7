package nucdata

// 内置的两群数据：1 群为快群，2 群为热群
// 数值仅用于演示和测试，量级合理但不是评价数据

type entry struct {
	mass, pot     float64
	abs, fis, nu  [2]float64
	s11, s12, s22 float64
	res           [2]float64
	energy        float64
}

var twoGroup = map[string]entry{
	"H1":    {mass: 1.00783, pot: 20.4, abs: [2]float64{0.0, 0.33}, s11: 3.5, s12: 1.0, s22: 30.0},
	"O16":   {mass: 15.9949, pot: 3.76, abs: [2]float64{0.0005, 0.0002}, s11: 3.6, s12: 0.08, s22: 3.8},
	"He4":   {mass: 4.0026, pot: 0.76, s11: 0.76, s12: 0.01, s22: 0.8},
	"Zr90":  {mass: 89.9047, pot: 6.4, abs: [2]float64{0.005, 0.18}, s11: 6.0, s12: 0.02, s22: 6.4, res: [2]float64{1000.0, 0}},
	"U235":  {mass: 235.0439, pot: 11.6, abs: [2]float64{1.5, 480.0}, fis: [2]float64{1.2, 400.0}, nu: [2]float64{2.5, 2.43}, s11: 4.5, s12: 0.01, s22: 10.0, res: [2]float64{100.0, 0}, energy: 193.7},
	"U236":  {mass: 236.0456, pot: 10.5, abs: [2]float64{0.6, 3.0}, s11: 6.0, s12: 0.01, s22: 8.0, res: [2]float64{30.0, 0}},
	"U238":  {mass: 238.0508, pot: 11.17, abs: [2]float64{0.9, 1.6}, fis: [2]float64{0.1, 0}, nu: [2]float64{2.8, 0}, s11: 6.5, s12: 0.01, s22: 9.0, res: [2]float64{50.0, 0}, energy: 197.9},
	"U239":  {mass: 239.0543, pot: 10.5, abs: [2]float64{0.3, 14.0}, s11: 6.0, s12: 0.01, s22: 8.0},
	"Np239": {mass: 239.0529, pot: 10.5, abs: [2]float64{0.5, 30.0}, s11: 6.0, s12: 0.01, s22: 8.0},
	"Pu239": {mass: 239.0522, pot: 10.5, abs: [2]float64{2.0, 1100.0}, fis: [2]float64{1.7, 750.0}, nu: [2]float64{2.95, 2.87}, s11: 5.0, s12: 0.01, s22: 8.0, res: [2]float64{200.0, 0}, energy: 200.5},
	"Pu240": {mass: 240.0538, pot: 10.5, abs: [2]float64{1.2, 250.0}, fis: [2]float64{0.05, 0.05}, nu: [2]float64{3.0, 2.8}, s11: 5.0, s12: 0.01, s22: 8.0, res: [2]float64{20.0, 0}, energy: 200.0},
	"Pu241": {mass: 241.0568, pot: 10.5, abs: [2]float64{2.0, 1350.0}, fis: [2]float64{1.7, 1000.0}, nu: [2]float64{3.0, 2.93}, s11: 5.0, s12: 0.01, s22: 8.0, res: [2]float64{150.0, 0}, energy: 202.2},
	"I135":  {mass: 134.9100, pot: 5.0, abs: [2]float64{0.0, 7.0}, s11: 4.0, s12: 0.01, s22: 5.0},
	"Xe135": {mass: 134.9072, pot: 5.0, abs: [2]float64{0.002, 1.6e6}, s11: 4.0, s12: 0.01, s22: 5.0},
	"Pm149": {mass: 148.9183, pot: 5.0, abs: [2]float64{0.5, 1400.0}, s11: 4.0, s12: 0.01, s22: 5.0},
	"Sm149": {mass: 148.9172, pot: 5.0, abs: [2]float64{0.5, 4.5e4}, s11: 4.0, s12: 0.01, s22: 5.0},
	"FP":    {mass: 117.5, pot: 5.0, abs: [2]float64{0.2, 8.0}, s11: 4.0, s12: 0.01, s22: 5.0},
}

// 构建内置两群库
func TwoGroup() *Library {
	l := NewLibrary(2)
	for name, e := range twoGroup {
		n := &Nuclide{
			Name:          name,
			AtomicMass:    e.mass,
			PotentialXS:   e.pot,
			Absorption:    []float64{e.abs[0], e.abs[1]},
			Fission:       []float64{e.fis[0], e.fis[1]},
			Nu:            []float64{e.nu[0], e.nu[1]},
			Chi:           []float64{0.0, 0.0},
			Scatter:       [][]float64{{e.s11, e.s12}, {0.0, e.s22}},
			Resonance:     []float64{e.res[0], e.res[1]},
			FissionEnergy: e.energy,
		}
		if e.fis[0] > 0.0 || e.fis[1] > 0.0 {
			n.Chi[0] = 1.0
		}
		// 内置数据保证合法
		if err := l.Add(n); err != nil {
			panic(err)
		}
	}
	return l
}
