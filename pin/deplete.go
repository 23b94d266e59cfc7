package pin

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"fuelpin/depletion"
	"fuelpin/material"
	"fuelpin/nucdata"
)

// 预估步。dt 为本步时长 (s)，dtm1 为上一步时长，0 表示没有上一步
// 首步或环没有上一步矩阵时用 CE/LI，否则用 LE/QI。预估的成分追加到各环历史末尾
// 任一环失败时所有环保持调用前的状态
func (p *FuelPin) Predict(d Depleter, lib *nucdata.Library, dt, dtm1 float64) error {
	if err := checkSteps(dt, dtm1); err != nil {
		return err
	}
	for i, r := range p.rings {
		if r.current != nil {
			return fmt.Errorf("fuel ring %d already predicted, correct it first: %w", i, ErrSequence)
		}
		if r.flux == nil {
			return fmt.Errorf("fuel ring %d has no flux spectrum: %w", i, ErrSequence)
		}
	}
	steps, err := p.eachRing(func(i int, r *ring) (ringStep, error) {
		return r.predict(i, d, lib, dt, dtm1)
	})
	if err != nil {
		return err
	}
	for i, r := range p.rings {
		// 矩阵建好之后不再需要微观截面
		r.mats.Tip().ClearMicroXS()
		r.current = steps[i].op
		r.mats.Append(steps[i].mat)
	}
	return nil
}

// 校正步。必须在预估成分上完成一次输运计算之后调用，dt 与 dtm1 与预估步相同
// 校正后的成分替换预估成分，矩阵历史前移一步
func (p *FuelPin) Correct(d Depleter, lib *nucdata.Library, dt, dtm1 float64) error {
	if err := checkSteps(dt, dtm1); err != nil {
		return err
	}
	for i, r := range p.rings {
		if r.current == nil {
			return fmt.Errorf("fuel ring %d has no predictor matrix: %w", i, ErrSequence)
		}
		if r.mats.Len() < 2 {
			return fmt.Errorf("fuel ring %d has no predicted composition: %w", i, ErrSequence)
		}
	}
	steps, err := p.eachRing(func(i int, r *ring) (ringStep, error) {
		return r.correct(i, d, lib, dt, dtm1)
	})
	if err != nil {
		return err
	}
	for i, r := range p.rings {
		r.mats.ReplaceTip(steps[i].mat)
		r.previous = r.current
		r.current = nil
	}
	return nil
}

func checkSteps(dt, dtm1 float64) error {
	if !(dt > 0.0) {
		return fmt.Errorf("time step must be > 0, got %g: %w", dt, ErrConfig)
	}
	if dtm1 < 0.0 {
		return fmt.Errorf("previous time step must be >= 0, got %g: %w", dtm1, ErrConfig)
	}
	return nil
}

// 一个环一步的结果，所有环都成功后才写回
type ringStep struct {
	op  depletion.Operator
	mat *material.Material
}

// 各环互不读取对方状态，可以并行。任一环失败时不修改任何环
func (p *FuelPin) eachRing(f func(i int, r *ring) (ringStep, error)) ([]ringStep, error) {
	steps := make([]ringStep, len(p.rings))
	var g errgroup.Group
	g.SetLimit(p.workers)
	for i, r := range p.rings {
		i, r := i, r
		g.Go(func() error {
			st, err := f(i, r)
			if err != nil {
				return fmt.Errorf("fuel ring %d: %w", i, err)
			}
			steps[i] = st
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return steps, nil
}

func (r *ring) predict(i int, d Depleter, lib *nucdata.Library, dt, dtm1 float64) (ringStep, error) {
	mat := r.mats.Tip()
	A0, err := d.Build(mat, r.flux)
	if err != nil {
		return ringStep{}, err
	}

	nuclides := A0.Nuclides()
	N := densities(mat, nuclides)

	if r.previous == nil || dtm1 == 0.0 {
		log.WithFields(log.Fields{"ring": i, "scheme": "CE/LI"}).Debug("predictor")
		// A0 需要保持未缩放的形式供校正步使用
		A0.Scale(dt)
		err = A0.ExpAction(N)
		A0.Scale(1.0 / dt)
		if err != nil {
			return ringStep{}, err
		}
	} else {
		log.WithFields(log.Fields{"ring": i, "scheme": "LE/QI"}).Debug("predictor")
		Am1 := r.previous
		F1, err := d.Blend(
			depletion.Term{Coef: dt * (-dt / (12.0 * dtm1)), Op: Am1},
			depletion.Term{Coef: dt * ((6.0*dtm1 + dt) / (12.0 * dtm1)), Op: A0},
		)
		if err != nil {
			return ringStep{}, err
		}
		F2, err := d.Blend(
			depletion.Term{Coef: dt * (-5.0 * dt / (12.0 * dtm1)), Op: Am1},
			depletion.Term{Coef: dt * ((6.0*dtm1 + 5.0*dt) / (12.0 * dtm1)), Op: A0},
		)
		if err != nil {
			return ringStep{}, err
		}
		if err := applyAll(N, F2, F1); err != nil {
			return ringStep{}, err
		}
	}

	next, err := newMaterial(nuclides, N, mat.Temperature(), lib)
	if err != nil {
		return ringStep{}, err
	}
	return ringStep{op: A0, mat: next}, nil
}

func (r *ring) correct(i int, d Depleter, lib *nucdata.Library, dt, dtm1 float64) (ringStep, error) {
	pred := r.mats.Tip()
	A0 := r.current
	Ap1, err := d.Build(pred, r.flux)
	if err != nil {
		return ringStep{}, err
	}

	// 从预估之前的成分出发，而不是预估成分
	old, err := r.mats.Back(1)
	if err != nil {
		return ringStep{}, fmt.Errorf("%v: %w", err, ErrSequence)
	}
	nuclides := Ap1.Nuclides()
	N := densities(old, nuclides)

	var F3, F4 depletion.Operator
	if r.previous == nil || dtm1 == 0.0 {
		log.WithFields(log.Fields{"ring": i, "scheme": "CE/LI"}).Debug("corrector")
		if F3, err = d.Blend(
			depletion.Term{Coef: dt / 12.0, Op: A0},
			depletion.Term{Coef: 5.0 * dt / 12.0, Op: Ap1},
		); err != nil {
			return ringStep{}, err
		}
		if F4, err = d.Blend(
			depletion.Term{Coef: 5.0 * dt / 12.0, Op: A0},
			depletion.Term{Coef: dt / 12.0, Op: Ap1},
		); err != nil {
			return ringStep{}, err
		}
	} else {
		log.WithFields(log.Fields{"ring": i, "scheme": "LE/QI"}).Debug("corrector")
		Am1 := r.previous
		pd := dtm1 * (dtm1 + dt)
		cm1 := -dt * dt / (12.0 * pd)
		if F3, err = d.Blend(
			depletion.Term{Coef: dt * cm1, Op: Am1},
			depletion.Term{Coef: dt * (5.0*dtm1*dtm1 + 6.0*dtm1*dt + dt*dt) / (12.0 * pd), Op: A0},
			depletion.Term{Coef: dt * dtm1 / (12.0 * (dtm1 + dt)), Op: Ap1},
		); err != nil {
			return ringStep{}, err
		}
		if F4, err = d.Blend(
			depletion.Term{Coef: dt * cm1, Op: Am1},
			depletion.Term{Coef: dt * (dtm1*dtm1 + 2.0*dtm1*dt + dt*dt) / (12.0 * pd), Op: A0},
			depletion.Term{Coef: dt * (5.0*dtm1 + 4.0*dt) / (12.0 * (dtm1 + dt)), Op: Ap1},
		); err != nil {
			return ringStep{}, err
		}
	}
	if err := applyAll(N, F4, F3); err != nil {
		return ringStep{}, err
	}

	next, err := newMaterial(nuclides, N, pred.Temperature(), lib)
	if err != nil {
		return ringStep{}, err
	}
	return ringStep{op: A0, mat: next}, nil
}

// 按顺序依次作用
func applyAll(N []float64, ops ...depletion.Operator) error {
	for _, op := range ops {
		if err := op.ExpAction(N); err != nil {
			return err
		}
	}
	return nil
}

func densities(m *material.Material, nuclides []string) []float64 {
	N := make([]float64, len(nuclides))
	for i, name := range nuclides {
		N[i] = m.AtomDensity(name)
	}
	return N
}

// 密度不大于零的核素直接丢弃
func newMaterial(nuclides []string, N []float64, temperature float64, lib *nucdata.Library) (*material.Material, error) {
	comp := material.NewComposition()
	for i, name := range nuclides {
		if N[i] > 0.0 {
			comp.Add(name, N[i])
		}
	}
	return material.New(comp, temperature, lib)
}
