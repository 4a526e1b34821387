// Package config loads the YAML run configuration shared by the pricing tools.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/meenmo/hwtree/calendar"
	"github.com/meenmo/hwtree/lattice"
	"github.com/meenmo/hwtree/utils"
)

type Config struct {
	Model         lattice.Params `yaml:"model"`
	ValuationDate string         `yaml:"valuation_date"`
	DayCount      string         `yaml:"day_count"`
	Calendar      string         `yaml:"calendar"`
	Workers       int            `yaml:"workers"`
	LogLevel      string         `yaml:"log_level"`

	Calibration CalibrationConfig `yaml:"calibration"`
}

type CalibrationConfig struct {
	MaxEvaluations int `yaml:"max_evaluations"`
}

func Default() Config {
	return Config{
		Model: lattice.Params{
			A:     0.1,
			Sigma: 0.01,
			T:     5,
			N:     60,
		},
		DayCount: utils.Act365F,
		Calendar: string(calendar.NONE),
		Workers:  1,
		LogLevel: "info",
		Calibration: CalibrationConfig{
			MaxEvaluations: 5000,
		},
	}
}

// LoadFile overlays the YAML at path on Default.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every field a pricing run depends on.
func (c Config) Validate() error {
	if err := c.Model.Validate(); err != nil {
		return fmt.Errorf("model: %w", err)
	}
	if _, err := c.Valuation(); err != nil {
		return err
	}
	if err := utils.ValidateDayCount(c.DayCount); err != nil {
		return fmt.Errorf("day_count: %w", err)
	}
	if _, err := calendar.Parse(c.Calendar); err != nil {
		return fmt.Errorf("calendar: %w", err)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.Calibration.MaxEvaluations <= 0 {
		return fmt.Errorf("calibration.max_evaluations must be > 0, got %d", c.Calibration.MaxEvaluations)
	}
	return nil
}

// Valuation parses ValuationDate. An empty date is the zero time.
func (c Config) Valuation() (time.Time, error) {
	if strings.TrimSpace(c.ValuationDate) == "" {
		return time.Time{}, nil
	}
	d, err := utils.ParseDate(c.ValuationDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("valuation_date: %w", err)
	}
	return d, nil
}

// Level parses LogLevel; empty means info.
func (c Config) Level() (zapcore.Level, error) {
	if strings.TrimSpace(c.LogLevel) == "" {
		return zapcore.InfoLevel, nil
	}
	lvl, err := zapcore.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("log_level: %w", err)
	}
	return lvl, nil
}

// CalendarID returns the parsed calendar.
func (c Config) CalendarID() calendar.CalendarID {
	id, err := calendar.Parse(c.Calendar)
	if err != nil {
		return calendar.NONE
	}
	return id
}
