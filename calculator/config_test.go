package calculator

import (
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/ini.v1"

	"fuelpin/model"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.ini"))
	require.NoError(t, err)

	assert.Equal(t, 0.4096, cfg.Pin.FuelRadius)
	assert.Equal(t, 0.418, cfg.Pin.GapRadius)
	assert.Equal(t, 0.475, cfg.Pin.CladRadius)
	assert.Equal(t, 3, cfg.Pin.Rings)
	assert.Equal(t, model.Full, cfg.Pin.CellType)
	assert.Equal(t, []float64{1, 5, 10, 30, 60}, cfg.Depletion.Steps)
	assert.Equal(t, 200.0, cfg.Depletion.LinearPower)
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, log.InfoLevel, cfg.LogLevel)
}

func TestLoadCfg_Overrides(t *testing.T) {
	file, err := ini.Load([]byte(`
[pin]
rings = 5
cell_type = XN
dx = 0.63
gap_radius = 0

[depletion]
steps = 0.5, 2, 4
linear_power = 150

[solver]
tolerance = 1e-6

[log]
level = debug
`))
	require.NoError(t, err)

	cfg, err := loadCfg(file)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Pin.Rings)
	assert.Equal(t, model.XN, cfg.Pin.CellType)
	assert.Equal(t, 0.63, cfg.Pin.DX)
	assert.Equal(t, 0.0, cfg.Pin.GapRadius)
	assert.Equal(t, []float64{0.5, 2, 4}, cfg.Depletion.Steps)
	assert.Equal(t, 150.0, cfg.Depletion.LinearPower)
	assert.Equal(t, 1e-6, cfg.Solver.Tolerance)
	assert.Equal(t, log.DebugLevel, cfg.LogLevel)
}

func TestLoadCfg_Invalid(t *testing.T) {
	for name, src := range map[string]string{
		"cell type":    "[pin]\ncell_type = hex\n",
		"steps":        "[depletion]\nsteps = 1, x\n",
		"zero step":    "[depletion]\nsteps = 1, 0\n",
		"power":        "[depletion]\nlinear_power = -1\n",
		"enrichment":   "[pin]\nenrichment = 1.5\n",
		"log level":    "[log]\nlevel = loud\n",
		"isolated box": "[solver]\nisolated_width = 0.5\n",
	} {
		file, err := ini.Load([]byte(src))
		require.NoError(t, err, name)
		_, err = loadCfg(file)
		assert.Error(t, err, name)
	}
}
