package calculator

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"fuelpin/depletion"
	"fuelpin/geometry"
	"fuelpin/material"
	"fuelpin/metrics"
	"fuelpin/model"
	"fuelpin/nucdata"
	"fuelpin/pin"
	"fuelpin/transport"
	"fuelpin/xs"
)

const (
	day = 86400.0 // s

	infiniteDilution = 1.0e10
)

// 单根燃料棒的燃耗计算
type PinCalculator struct {
	cfg      Config
	lib      *nucdata.Library
	kernel   *xs.Kernel
	depleter *depletion.Builder
	builder  *geometry.Builder
	metrics  *metrics.Metrics
	hub      *CalcHub
	runID    string

	pin          *pin.FuelPin
	moderator    *material.Material
	modXS        *model.CrossSection // 输运用多群截面
	modDancoffXS *model.CrossSection // Dancoff 用单群截面

	iso, full *transport.Solver
	solver    *transport.Solver

	heavyMetal float64 // kg/cm
	burnup     float64 // MWd/kg
}

// m 可以为 nil
func NewPinCalculator(cfg Config, lib *nucdata.Library, chain *depletion.Chain, m *metrics.Metrics) (*PinCalculator, error) {
	fuel, err := fuelMaterial(cfg.Pin, lib)
	if err != nil {
		return nil, err
	}
	clad, err := cladMaterial(cfg.Pin, lib)
	if err != nil {
		return nil, err
	}
	gap, err := gapMaterial(cfg.Pin, lib)
	if err != nil {
		return nil, err
	}
	water, err := moderatorMaterial(cfg.Pin, lib)
	if err != nil {
		return nil, err
	}

	fp, err := pin.New(pin.Params{
		Fuel:       fuel,
		FuelRadius: cfg.Pin.FuelRadius,
		Gap:        gap,
		GapRadius:  cfg.Pin.GapRadius,
		Clad:       clad,
		CladRadius: cfg.Pin.CladRadius,
		Rings:      cfg.Pin.Rings,
	})
	if err != nil {
		return nil, err
	}
	if cfg.Workers > 0 {
		fp.SetWorkers(cfg.Workers)
	}
	if err := fp.LoadNuclides(lib); err != nil {
		return nil, err
	}

	k := xs.NewKernel(lib)
	dil := make([]float64, water.Size())
	for i := range dil {
		dil[i] = infiniteDilution
	}
	modXS, err := k.Dilution(water, dil)
	if err != nil {
		return nil, fmt.Errorf("moderator: %w", err)
	}
	modXS.Name = "Moderator"

	hm, err := heavyMetalLinearMass(fuel, math.Pi*cfg.Pin.FuelRadius*cfg.Pin.FuelRadius, lib)
	if err != nil {
		return nil, err
	}

	return &PinCalculator{
		cfg:          cfg,
		lib:          lib,
		kernel:       k,
		depleter:     depletion.NewBuilder(chain, lib),
		builder:      geometry.NewBuilder(),
		metrics:      m,
		hub:          NewCalcHub(),
		runID:        uuid.NewString(),
		pin:          fp,
		moderator:    water,
		modXS:        modXS,
		modDancoffXS: model.NewOneGroupXS(water.PotentialXS(), "Moderator"),
		heavyMetal:   hm,
	}, nil
}

func (c *PinCalculator) GetCalcHub() *CalcHub {
	return c.hub
}

func (c *PinCalculator) RunID() string {
	return c.runID
}

func (c *PinCalculator) Pin() *pin.FuelPin {
	return c.pin
}

func (c *PinCalculator) Run(ctx context.Context) error {
	defer c.hub.close()
	steps := c.cfg.Depletion.Steps
	elapsed := 0.0
	for t := 0; t <= len(steps); t++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		start := time.Now()

		keff, err := c.statePoint(t)
		if err != nil {
			return fmt.Errorf("step %d: %w", t, err)
		}
		report, err := c.report(t, elapsed, keff)
		if err != nil {
			return fmt.Errorf("step %d: %w", t, err)
		}
		if c.metrics != nil {
			c.metrics.ObserveReport(report)
		}
		log.WithFields(log.Fields{
			"run":     c.runID,
			"step":    t,
			"days":    elapsed,
			"keff":    keff,
			"burnup":  report.BurnupMWdKg,
			"dancoff": report.FuelDancoff,
		}).Info("depletion state point")
		if err := c.hub.PushReport(ctx, report); err != nil {
			return err
		}

		if t == len(steps) {
			break
		}
		dtm1 := 0.0
		if t > 0 {
			dtm1 = steps[t-1] * day
		}
		if err := c.step(t, steps[t]*day, dtm1); err != nil {
			return fmt.Errorf("step %d: %w", t, err)
		}
		elapsed += steps[t]
		c.burnup += c.cfg.Depletion.LinearPower * 1.0e-6 * steps[t] / c.heavyMetal
		if c.metrics != nil {
			c.metrics.ObserveStepDuration(time.Since(start))
		}
	}
	return nil
}

// 第 t 个状态点：截面、输运、通量归一
func (c *PinCalculator) statePoint(t int) (float64, error) {
	if err := c.ensureDancoff(t); err != nil {
		return 0, err
	}
	if err := c.assemble(t); err != nil {
		return 0, err
	}
	if c.solver == nil {
		if err := c.buildCell(); err != nil {
			return 0, err
		}
	}
	return c.solve()
}

// 预估-校正完成一个燃耗步，dt 和 dtm1 单位为 s
func (c *PinCalculator) step(t int, dt, dtm1 float64) error {
	if err := c.pin.Predict(c.depleter, c.lib, dt, dtm1); err != nil {
		return err
	}
	if err := c.ensureDancoff(t + 1); err != nil {
		return err
	}
	if err := c.assemble(t + 1); err != nil {
		return err
	}
	if _, err := c.solve(); err != nil {
		return err
	}
	return c.pin.Correct(c.depleter, c.lib, dt, dtm1)
}

func (c *PinCalculator) assemble(t int) error {
	if err := c.pin.SetFuelXS(c.kernel, t); err != nil {
		return err
	}
	if err := c.pin.SetGapXS(c.kernel); err != nil {
		return err
	}
	return c.pin.SetCladXS(c.kernel, t)
}

// 截面句柄身份不变，栅元和求解器只需建立一次
func (c *PinCalculator) buildCell() error {
	p := c.cfg.Pin
	cell, err := c.pin.MakeCell(c.builder, c.modXS, p.DX, p.DY, p.CellType)
	if err != nil {
		return err
	}
	s, err := c.newSolver(cell)
	if err != nil {
		return err
	}
	if err := c.pin.PopulateIndexes(s); err != nil {
		return err
	}
	c.solver = s
	return nil
}

func (c *PinCalculator) newSolver(cell *geometry.Cell) (*transport.Solver, error) {
	s, err := transport.NewSolver(cell)
	if err != nil {
		return nil, err
	}
	s.MaxIterations = c.cfg.Solver.MaxIterations
	s.Tolerance = c.cfg.Solver.Tolerance
	return s, nil
}

func (c *PinCalculator) solve() (float64, error) {
	keff, err := c.solver.SolveEigen()
	c.countSolve("eigen")
	if err != nil {
		return 0, err
	}
	if err := c.pin.ObtainFluxSpectra(c.solver); err != nil {
		return 0, err
	}
	P, err := c.pin.LinearPower(c.lib)
	if err != nil {
		return 0, err
	}
	if !(P > 0.0) {
		return 0, fmt.Errorf("linear power %g cannot be normalized", P)
	}
	return keff, c.pin.NormalizeFlux(c.cfg.Depletion.LinearPower / P)
}

// 保证第 t 步的燃料和包壳 Dancoff 修正已经算出
func (c *PinCalculator) ensureDancoff(t int) error {
	if len(c.pin.FuelDancoffs()) > t && len(c.pin.CladDancoffs()) > t {
		return nil
	}
	if c.iso == nil {
		if err := c.buildDancoffCells(); err != nil {
			return err
		}
	}

	c.pin.SetXSForFuelDancoff()
	if err := c.pin.SetIsolatedFuelSources(c.iso, c.moderator); err != nil {
		return err
	}
	if err := c.pin.SetFullFuelSources(c.full, c.moderator); err != nil {
		return err
	}
	if err := c.solveDancoff(); err != nil {
		return err
	}
	Cf, err := c.pin.ComputeFuelDancoff(c.iso, c.full)
	if err != nil {
		return err
	}
	if err := c.pin.AppendFuelDancoff(Cf); err != nil {
		return err
	}

	if err := c.pin.SetXSForCladDancoff(c.lib); err != nil {
		return err
	}
	if err := c.pin.SetIsolatedCladSources(c.iso, c.moderator, c.lib); err != nil {
		return err
	}
	if err := c.pin.SetFullCladSources(c.full, c.moderator, c.lib); err != nil {
		return err
	}
	if err := c.solveDancoff(); err != nil {
		return err
	}
	Cc, err := c.pin.ComputeCladDancoff(c.iso, c.full)
	if err != nil {
		return err
	}
	return c.pin.AppendCladDancoff(Cc)
}

func (c *PinCalculator) buildDancoffCells() error {
	p := c.cfg.Pin
	w := c.cfg.Solver.IsolatedWidth
	isoCell, err := c.pin.MakeDancoffCell(c.builder, c.modDancoffXS, w, w, p.CellType, true)
	if err != nil {
		return err
	}
	fullCell, err := c.pin.MakeDancoffCell(c.builder, c.modDancoffXS, p.DX, p.DY, p.CellType, false)
	if err != nil {
		return err
	}
	iso, err := c.newSolver(isoCell)
	if err != nil {
		return err
	}
	full, err := c.newSolver(fullCell)
	if err != nil {
		return err
	}
	if err := c.pin.PopulateDancoffIndexes(iso, full); err != nil {
		return err
	}
	c.iso, c.full = iso, full
	return nil
}

func (c *PinCalculator) solveDancoff() error {
	for _, s := range []*transport.Solver{c.iso, c.full} {
		err := s.SolveFixedSource()
		c.countSolve("dancoff")
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *PinCalculator) countSolve(kind string) {
	if c.metrics != nil {
		c.metrics.IncrementSolves(kind)
	}
}

func (c *PinCalculator) report(t int, days, keff float64) (model.StepReport, error) {
	P, err := c.pin.LinearPower(c.lib)
	if err != nil {
		return model.StepReport{}, err
	}
	r := model.StepReport{
		RunID:       c.runID,
		Step:        t,
		TimeDays:    days,
		Keff:        keff,
		LinearPower: P,
		FuelDancoff: c.pin.FuelDancoffs()[t],
		CladDancoff: c.pin.CladDancoffs()[t],
		BurnupMWdKg: c.burnup,
		AvgDensity:  make(map[string]float64),
	}
	for ring := 0; ring < c.pin.Rings(); ring++ {
		m, err := c.pin.Material(t, ring)
		if err != nil {
			return model.StepReport{}, err
		}
		dens := make(map[string]float64, m.Size())
		for _, n := range m.Nuclides() {
			dens[n.Name] = n.Density
			// 各环等面积
			r.AvgDensity[n.Name] += n.Density / float64(c.pin.Rings())
		}
		r.RingDensity = append(r.RingDensity, dens)
	}
	return r, nil
}
