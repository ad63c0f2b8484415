package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/beerslab/internal/beaker"
	"github.com/san-kum/beerslab/internal/shaker"
	"github.com/san-kum/beerslab/internal/solution"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

const (
	DefaultSolute      = "drinkMix"
	DefaultDt          = 1.0 / 60
	DefaultDuration    = 10.0
	DefaultRecordEvery = 6
)

type Config struct {
	Solute          string         `yaml:"solute"`
	Dt              float64        `yaml:"dt"`
	Duration        float64        `yaml:"duration"`
	Seed            int64          `yaml:"seed"`
	RecordEvery     int            `yaml:"record_every"`
	Beaker          BeakerConfig   `yaml:"beaker"`
	Solution        SolutionConfig `yaml:"solution"`
	Shaker          ShakerConfig   `yaml:"shaker"`
	Schedule        []ShakeWindow  `yaml:"schedule"`
	EvaporationRate float64        `yaml:"evaporation_rate"` // L/s
}

type BeakerConfig struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Volume float64 `yaml:"volume"`
}

type SolutionConfig struct {
	Volume         float64 `yaml:"volume"`
	MaxVolume      float64 `yaml:"max_volume"`
	SoluteMoles    float64 `yaml:"solute_moles"`
	MaxSoluteMoles float64 `yaml:"max_solute_moles"`
}

type ShakerConfig struct {
	X                 float64 `yaml:"x"`
	Y                 float64 `yaml:"y"`
	Orientation       float64 `yaml:"orientation"`
	MaxDispensingRate float64 `yaml:"max_dispensing_rate"`
}

// ShakeWindow holds the shaker at Rate mol/s for Start <= t < End.
type ShakeWindow struct {
	Start float64 `yaml:"start"`
	End   float64 `yaml:"end"`
	Rate  float64 `yaml:"rate"`
}

func DefaultConfig() *Config {
	return &Config{
		Solute:      DefaultSolute,
		Dt:          DefaultDt,
		Duration:    DefaultDuration,
		RecordEvery: DefaultRecordEvery,
		Beaker: BeakerConfig{
			X:      beaker.DefaultX,
			Y:      beaker.DefaultY,
			Width:  beaker.DefaultWidth,
			Height: beaker.DefaultHeight,
			Volume: beaker.DefaultVolume,
		},
		Solution: SolutionConfig{
			Volume:         solution.DefaultVolume,
			MaxVolume:      solution.DefaultMaxVolume,
			MaxSoluteMoles: solution.DefaultMaxSoluteMoles,
		},
		Shaker: ShakerConfig{
			X:                 shaker.DefaultX,
			Y:                 shaker.DefaultY,
			Orientation:       shaker.DefaultOrientation,
			MaxDispensingRate: shaker.DefaultMaxDispensingRate,
		},
		Schedule: []ShakeWindow{{Start: 0, End: DefaultDuration / 2, Rate: shaker.DefaultMaxDispensingRate}},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	switch {
	case c.Dt <= 0:
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, c.Dt)
	case c.Duration <= 0:
		return fmt.Errorf("%w: duration must be positive, got %f", ErrInvalidConfig, c.Duration)
	case c.RecordEvery <= 0:
		return fmt.Errorf("%w: record_every must be positive, got %d", ErrInvalidConfig, c.RecordEvery)
	case c.Beaker.Width <= 0 || c.Beaker.Height <= 0 || c.Beaker.Volume <= 0:
		return fmt.Errorf("%w: beaker size and volume must be positive", ErrInvalidConfig)
	case c.Solution.MaxVolume > c.Beaker.Volume:
		return fmt.Errorf("%w: max_volume %.2f exceeds beaker volume %.2f", ErrInvalidConfig, c.Solution.MaxVolume, c.Beaker.Volume)
	case c.Solution.Volume < 0 || c.Solution.Volume > c.Solution.MaxVolume:
		return fmt.Errorf("%w: volume must be within [0, %.2f]", ErrInvalidConfig, c.Solution.MaxVolume)
	case c.Solution.SoluteMoles < 0 || c.Solution.SoluteMoles > c.Solution.MaxSoluteMoles:
		return fmt.Errorf("%w: solute_moles must be within [0, %.2f]", ErrInvalidConfig, c.Solution.MaxSoluteMoles)
	case c.EvaporationRate < 0:
		return fmt.Errorf("%w: evaporation_rate must not be negative", ErrInvalidConfig)
	}
	for i, w := range c.Schedule {
		if w.End < w.Start || w.Rate < 0 {
			return fmt.Errorf("%w: schedule[%d] is malformed", ErrInvalidConfig, i)
		}
	}
	return nil
}

// RateAt returns the scheduled dispensing rate at time t; later windows win.
func (c *Config) RateAt(t float64) float64 {
	rate := 0.0
	for _, w := range c.Schedule {
		if t >= w.Start && t < w.End {
			rate = w.Rate
		}
	}
	return rate
}
