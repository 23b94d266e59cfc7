package model

// 前后端通信消息结构
type Msg struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// 一个燃耗步完成后的汇总
type StepReport struct {
	RunID       string               `json:"run_id"`
	Step        int                  `json:"step"`
	TimeDays    float64              `json:"time_days"`
	Keff        float64              `json:"keff"`
	LinearPower float64              `json:"linear_power"` // w/cm
	FuelDancoff float64              `json:"fuel_dancoff"`
	CladDancoff float64              `json:"clad_dancoff"`
	BurnupMWdKg float64              `json:"burnup_mwd_kg"`
	RingDensity []map[string]float64 `json:"ring_density"` // atoms/b-cm
	AvgDensity  map[string]float64   `json:"avg_density"`
}
