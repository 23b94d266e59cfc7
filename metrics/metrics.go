package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"fuelpin/model"
)

type Metrics struct {
	StepsCompleted  prometheus.Counter
	TransportSolves *prometheus.CounterVec
	Keff            prometheus.Gauge
	LinearPower     prometheus.Gauge
	FuelDancoff     prometheus.Gauge
	CladDancoff     prometheus.Gauge
	Burnup          prometheus.Gauge
	StepDuration    prometheus.Histogram
}

// 注册到 reg，测试中传入新的 prometheus.NewRegistry()
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		StepsCompleted: f.NewCounter(prometheus.CounterOpts{
			Name: "fuelpin_depletion_steps_completed_total",
			Help: "Total number of depletion state points reported",
		}),
		TransportSolves: f.NewCounterVec(prometheus.CounterOpts{
			Name: "fuelpin_transport_solves_total",
			Help: "Total number of transport solves by kind",
		}, []string{"kind"}),
		Keff: f.NewGauge(prometheus.GaugeOpts{
			Name: "fuelpin_keff",
			Help: "Multiplication factor of the latest eigenvalue solve",
		}),
		LinearPower: f.NewGauge(prometheus.GaugeOpts{
			Name: "fuelpin_linear_power_watts_per_cm",
			Help: "Pin linear power after flux normalization",
		}),
		FuelDancoff: f.NewGauge(prometheus.GaugeOpts{
			Name: "fuelpin_fuel_dancoff_correction",
			Help: "Latest fuel Dancoff correction",
		}),
		CladDancoff: f.NewGauge(prometheus.GaugeOpts{
			Name: "fuelpin_clad_dancoff_correction",
			Help: "Latest clad Dancoff correction",
		}),
		Burnup: f.NewGauge(prometheus.GaugeOpts{
			Name: "fuelpin_burnup_mwd_per_kg",
			Help: "Accumulated burnup per kg of initial heavy metal",
		}),
		StepDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "fuelpin_step_duration_seconds",
			Help:    "Wall time of one predictor-corrector depletion step",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
	}
}

func (m *Metrics) ObserveReport(r model.StepReport) {
	m.StepsCompleted.Inc()
	m.Keff.Set(r.Keff)
	m.LinearPower.Set(r.LinearPower)
	m.FuelDancoff.Set(r.FuelDancoff)
	m.CladDancoff.Set(r.CladDancoff)
	m.Burnup.Set(r.BurnupMWdKg)
}

func (m *Metrics) ObserveStepDuration(d time.Duration) {
	m.StepDuration.Observe(d.Seconds())
}

func (m *Metrics) IncrementSolves(kind string) {
	m.TransportSolves.WithLabelValues(kind).Inc()
}
