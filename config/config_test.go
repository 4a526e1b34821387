package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/meenmo/hwtree/calendar"
	"github.com/meenmo/hwtree/lattice"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, 60, cfg.Model.N)
	require.Equal(t, calendar.NONE, cfg.CalendarID())

	valuation, err := cfg.Valuation()
	require.NoError(t, err)
	require.True(t, valuation.IsZero())
}

func TestLoadFromYAML(t *testing.T) {
	yaml := `
model:
  a: 0.05
  sigma: 0.015
  horizon: 10
  steps: 120
valuation_date: "2024-01-02"
day_count: ACT/360
calendar: target
workers: 4
log_level: debug
`
	path := filepath.Join(t.TempDir(), "hwprice.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	require.Equal(t, lattice.Params{A: 0.05, Sigma: 0.015, T: 10, N: 120}, cfg.Model)
	require.Equal(t, 4, cfg.Workers)
	require.Equal(t, calendar.TARGET, cfg.CalendarID())
	// untouched keys keep their defaults
	require.Equal(t, 5000, cfg.Calibration.MaxEvaluations)

	valuation, err := cfg.Valuation()
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), valuation)

	lvl, err := cfg.Level()
	require.NoError(t, err)
	require.Equal(t, zapcore.DebugLevel, lvl)
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model: [1, 2"), 0o600))
	_, err = LoadFile(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero sigma", func(c *Config) { c.Model.Sigma = 0 }},
		{"negative steps", func(c *Config) { c.Model.N = -5 }},
		{"bad date", func(c *Config) { c.ValuationDate = "02/01/2024" }},
		{"bad day count", func(c *Config) { c.DayCount = "ACT/ACT" }},
		{"bad calendar", func(c *Config) { c.Calendar = "KRW" }},
		{"negative workers", func(c *Config) { c.Workers = -1 }},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }},
		{"no evaluations", func(c *Config) { c.Calibration.MaxEvaluations = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}

	cfg := Default()
	cfg.Model.A = -1
	require.ErrorIs(t, cfg.Validate(), lattice.ErrInvalidParameters)
}
