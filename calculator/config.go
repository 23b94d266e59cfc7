package calculator

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"gopkg.in/ini.v1"

	"fuelpin/model"
)

type Config struct {
	Pin       PinConfig
	Depletion DepletionConfig
	Solver    SolverConfig

	Workers  int
	Addr     string
	LogLevel log.Level
}

// 长度单位 cm，密度 g/cm^3，温度 K
type PinConfig struct {
	FuelRadius float64
	GapRadius  float64 // 0 表示没有间隙
	CladRadius float64
	Rings      int

	DX, DY   float64
	CellType model.CellType

	Enrichment      float64 // U235 质量份额
	FuelDensity     float64
	FuelTemperature float64
	GapDensity      float64
	CladDensity     float64
	CladTemperature float64
	ModDensity      float64
	ModTemperature  float64
}

type DepletionConfig struct {
	Steps       []float64 // 各燃耗步时长，天
	LinearPower float64   // w/cm
}

type SolverConfig struct {
	MaxIterations int
	Tolerance     float64
	IsolatedWidth float64 // 孤立栅元边长
}

// 文件不存在时全部取默认值
func LoadConfig(path string) (Config, error) {
	file, err := ini.LooseLoad(path)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return loadCfg(file)
}

func loadCfg(file *ini.File) (Config, error) {
	p := file.Section("pin")
	t, err := model.ParseCellType(p.Key("cell_type").MustString("full"))
	if err != nil {
		return Config{}, err
	}

	d := file.Section("depletion")
	steps := []float64{1, 5, 10, 30, 60}
	if d.HasKey("steps") {
		if steps, err = d.Key("steps").StrictFloat64s(","); err != nil {
			return Config{}, fmt.Errorf("depletion steps: %w", err)
		}
	}

	level, err := log.ParseLevel(file.Section("log").Key("level").MustString("info"))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Pin: PinConfig{
			FuelRadius:      p.Key("fuel_radius").MustFloat64(0.4096),
			GapRadius:       p.Key("gap_radius").MustFloat64(0.418),
			CladRadius:      p.Key("clad_radius").MustFloat64(0.475),
			Rings:           p.Key("rings").MustInt(3),
			DX:              p.Key("dx").MustFloat64(1.26),
			DY:              p.Key("dy").MustFloat64(1.26),
			CellType:        t,
			Enrichment:      p.Key("enrichment").MustFloat64(0.031),
			FuelDensity:     p.Key("fuel_density").MustFloat64(10.4),
			FuelTemperature: p.Key("fuel_temperature").MustFloat64(900.0),
			GapDensity:      p.Key("gap_density").MustFloat64(1.6e-4),
			CladDensity:     p.Key("clad_density").MustFloat64(6.5),
			CladTemperature: p.Key("clad_temperature").MustFloat64(600.0),
			ModDensity:      p.Key("moderator_density").MustFloat64(0.7),
			ModTemperature:  p.Key("moderator_temperature").MustFloat64(580.0),
		},
		Depletion: DepletionConfig{
			Steps:       steps,
			LinearPower: d.Key("linear_power").MustFloat64(200.0),
		},
		Solver: SolverConfig{
			MaxIterations: file.Section("solver").Key("max_iterations").MustInt(2000),
			Tolerance:     file.Section("solver").Key("tolerance").MustFloat64(1.0e-7),
			IsolatedWidth: file.Section("solver").Key("isolated_width").MustFloat64(20.0),
		},
		Workers:  file.Section("calculator").Key("workers").MustInt(0),
		Addr:     file.Section("server").Key("addr").MustString(":9000"),
		LogLevel: level,
	}
	return cfg, cfg.validate()
}

// 几何相关的检查留给 pin.New 和 CellType.CheckWidths
func (c Config) validate() error {
	for i, s := range c.Depletion.Steps {
		if !(s > 0.0) {
			return fmt.Errorf("depletion step %d must be > 0 days, got %g", i, s)
		}
	}
	if !(c.Depletion.LinearPower > 0.0) {
		return fmt.Errorf("linear power must be > 0, got %g", c.Depletion.LinearPower)
	}
	if c.Pin.Enrichment < 0.0 || c.Pin.Enrichment > 1.0 {
		return fmt.Errorf("enrichment must be in [0, 1], got %g", c.Pin.Enrichment)
	}
	if c.Solver.MaxIterations <= 0 || !(c.Solver.Tolerance > 0.0) {
		return fmt.Errorf("solver needs max_iterations > 0 and tolerance > 0")
	}
	if c.Solver.IsolatedWidth < 2.0*c.Pin.CladRadius {
		return fmt.Errorf("isolated cell width %g cannot hold the clad", c.Solver.IsolatedWidth)
	}
	return nil
}
