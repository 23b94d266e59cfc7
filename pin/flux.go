package pin

import (
	"fmt"
	"math"

	"fuelpin/nucdata"
)

// 从求解器取各环体积平均的通量谱，覆盖上一次的结果
func (p *FuelPin) ObtainFluxSpectra(s Solver) error {
	for i, r := range p.rings {
		if len(r.inds) == 0 {
			return fmt.Errorf("fuel ring %d region indexes not populated: %w", i, ErrSequence)
		}
	}
	for i, r := range p.rings {
		flux, err := s.HomogenizeFlux(r.inds)
		if err != nil {
			return fmt.Errorf("fuel ring %d: %w", i, err)
		}
		r.flux = flux
	}
	return nil
}

// 直接设置第 r 环的通量谱
func (p *FuelPin) SetFluxSpectrum(r int, flux []float64) error {
	if r < 0 || r >= len(p.rings) {
		return fmt.Errorf("ring %d not in [0, %d): %w", r, len(p.rings), ErrRange)
	}
	p.rings[r].flux = append([]float64(nil), flux...)
	return nil
}

func (p *FuelPin) FluxSpectrum(r int) []float64 {
	if r < 0 || r >= len(p.rings) {
		return nil
	}
	return append([]float64(nil), p.rings[r].flux...)
}

// 线功率密度，W/cm，不考虑组件层面的部分栅元
func (p *FuelPin) LinearPower(lib *nucdata.Library) (float64, error) {
	A := math.Pi * p.fuelRadius * p.fuelRadius / float64(len(p.rings))
	power := 0.0
	for i, r := range p.rings {
		if r.flux == nil {
			return 0, fmt.Errorf("fuel ring %d has no flux spectrum: %w", i, ErrSequence)
		}
		q, err := r.mats.Tip().FissionPowerDensity(r.flux, lib)
		if err != nil {
			return 0, fmt.Errorf("fuel ring %d: %w", i, err)
		}
		power += A * q
	}
	// MeV/cm/s -> W/cm
	return power * nucdata.MeV, nil
}

// 所有环的通量谱乘以 f
func (p *FuelPin) NormalizeFlux(f float64) error {
	if !(f > 0.0) {
		return fmt.Errorf("normalization factor must be > 0, got %g: %w", f, ErrConfig)
	}
	for _, r := range p.rings {
		for g := range r.flux {
			r.flux[g] *= f
		}
	}
	return nil
}
