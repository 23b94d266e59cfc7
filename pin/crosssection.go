package pin

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"fuelpin/model"
)

// 间隙按无穷稀释计算
const infiniteDilution = 1.0e10

// 第 r 环的逃脱截面。单环时为 1/(2R)；多环时只计外表面，b/(2(b^2-a^2))
func (p *FuelPin) EscapeXS(r int) (float64, error) {
	if r < 0 || r >= len(p.rings) {
		return 0, fmt.Errorf("ring %d not in [0, %d): %w", r, len(p.rings), ErrRange)
	}
	if len(p.rings) == 1 {
		return 1.0 / (2.0 * p.fuelRadius), nil
	}
	a := 0.0
	if r > 0 {
		a = p.rings[r-1].outer
	}
	return RingEscapeXS(a, p.rings[r].outer, p.fuelRadius)
}

// 半径 a 到 b 的燃料环的逃脱截面，环位于半径 R 的芯块内
func RingEscapeXS(a, b, R float64) (float64, error) {
	if a < 0.0 || b <= a || b > R {
		return 0, fmt.Errorf("ring [%g, %g] must satisfy 0 <= a < b <= %g: %w", a, b, R, ErrConfig)
	}
	return b / (2.0 * (b*b - a*a)), nil
}

// 包壳的逃脱截面，内边界为间隙外半径（有间隙时）或燃料外半径
func (p *FuelPin) CladEscapeXS() float64 {
	inner := p.fuelRadius
	if p.gap != nil {
		inner = p.gapRadius
	}
	return 1.0 / (2.0 * (p.cladRadius - inner))
}

// 第 t 步各燃料环的自屏截面。首次调用时新建，之后原地更新
func (p *FuelPin) SetFuelXS(k XSKernel, t int) error {
	if t < 0 || t >= len(p.fuelDancoff) {
		return fmt.Errorf("no fuel dancoff correction for step %d (have %d): %w", t, len(p.fuelDancoff), ErrSequence)
	}
	if len(p.fuelXS) != 0 && len(p.fuelXS) != len(p.rings) {
		return fmt.Errorf("%d fuel cross sections for %d rings: %w", len(p.fuelXS), len(p.rings), ErrSequence)
	}
	fresh := len(p.fuelXS) == 0
	C := p.fuelDancoff[t]
	built := make([]*model.CrossSection, len(p.rings))
	for r := range p.rings {
		m, err := p.Material(t, r)
		if err != nil {
			return err
		}
		Ee, err := p.EscapeXS(r)
		if err != nil {
			return err
		}
		x, err := k.Carlvik(m, C, Ee)
		if err != nil {
			return fmt.Errorf("fuel ring %d: %w", r, err)
		}
		if x.Name == "" {
			x.Name = "Fuel"
		}
		built[r] = x
	}
	if fresh {
		p.fuelXS = built
	} else {
		for r, x := range built {
			p.fuelXS[r].Set(x)
		}
	}
	log.WithFields(log.Fields{"step": t, "rings": len(p.rings), "C": C}).Debug("fuel cross sections")
	return nil
}

// 间隙截面，无间隙时什么也不做
func (p *FuelPin) SetGapXS(k XSKernel) error {
	if p.gap == nil {
		return nil
	}
	dil := make([]float64, p.gap.Size())
	for i := range dil {
		dil[i] = infiniteDilution
	}
	x, err := k.Dilution(p.gap, dil)
	if err != nil {
		return fmt.Errorf("gap: %w", err)
	}
	if x.Name == "" {
		x.Name = "Gap"
	}
	if p.gapXS == nil {
		p.gapXS = x
	} else {
		p.gapXS.Set(x)
	}
	return nil
}

// 第 t 步的包壳截面，包壳成分不变，只有 Dancoff 修正随步变化
func (p *FuelPin) SetCladXS(k XSKernel, t int) error {
	if t < 0 || t >= len(p.cladDancoff) {
		return fmt.Errorf("no clad dancoff correction for step %d (have %d): %w", t, len(p.cladDancoff), ErrSequence)
	}
	x, err := k.Roman(p.clad, p.cladDancoff[t], p.CladEscapeXS())
	if err != nil {
		return fmt.Errorf("clad: %w", err)
	}
	if x.Name == "" {
		x.Name = "Clad"
	}
	if p.cladXS == nil {
		p.cladXS = x
	} else {
		p.cladXS.Set(x)
	}
	return nil
}

// 第 r 环的截面句柄，尚未建立时返回 nil
func (p *FuelPin) FuelXS(r int) *model.CrossSection {
	if r < 0 || r >= len(p.fuelXS) {
		return nil
	}
	return p.fuelXS[r]
}

func (p *FuelPin) GapXS() *model.CrossSection  { return p.gapXS }
func (p *FuelPin) CladXS() *model.CrossSection { return p.cladXS }
