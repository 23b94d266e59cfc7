package depletion

const (
	minute = 60.0
	hour   = 3600.0
	day    = 86400.0
	year   = 365.25 * day
)

// 与 nucdata.TwoGroup 配套的简化燃耗链
func Builtin() *Chain {
	u235Yields := []Branch{{"I135", 0.0629}, {"Xe135", 0.0025}, {"Pm149", 0.0108}, {"FP", 1.9238}}
	u238Yields := []Branch{{"I135", 0.0697}, {"Xe135", 0.0003}, {"Pm149", 0.0163}, {"FP", 1.9137}}
	pu239Yields := []Branch{{"I135", 0.0645}, {"Xe135", 0.0110}, {"Pm149", 0.0124}, {"FP", 1.9121}}
	pu241Yields := []Branch{{"I135", 0.0700}, {"Xe135", 0.0020}, {"Pm149", 0.0150}, {"FP", 1.9130}}

	c, err := NewChain(
		&Entry{Name: "U235", HalfLife: 7.04e8 * year, Capture: "U236", Yields: u235Yields},
		&Entry{Name: "U236", HalfLife: 2.342e7 * year},
		&Entry{Name: "U238", HalfLife: 4.468e9 * year, Capture: "U239", Yields: u238Yields},
		&Entry{Name: "U239", HalfLife: 23.45 * minute, Decays: []Branch{{"Np239", 1.0}}},
		&Entry{Name: "Np239", HalfLife: 2.356 * day, Decays: []Branch{{"Pu239", 1.0}}},
		&Entry{Name: "Pu239", HalfLife: 24110 * year, Capture: "Pu240", Yields: pu239Yields},
		&Entry{Name: "Pu240", HalfLife: 6561 * year, Capture: "Pu241"},
		&Entry{Name: "Pu241", HalfLife: 14.29 * year, Yields: pu241Yields},
		&Entry{Name: "I135", HalfLife: 6.58 * hour, Decays: []Branch{{"Xe135", 1.0}}},
		&Entry{Name: "Xe135", HalfLife: 9.14 * hour},
		&Entry{Name: "Pm149", HalfLife: 53.08 * hour, Decays: []Branch{{"Sm149", 1.0}}},
		&Entry{Name: "Sm149"},
		&Entry{Name: "FP", Capture: "FP"},
	)
	// 内置数据保证合法
	if err != nil {
		panic(err)
	}
	return c
}
