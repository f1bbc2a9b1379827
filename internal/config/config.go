package config

import (
	"encoding/xml"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/pendsim/internal/experiment"
	"github.com/san-kum/pendsim/internal/physics"
	"github.com/san-kum/pendsim/internal/sim"
)

const (
	DefaultAngleDeg       = 10.0
	DefaultDamping        = 0.0
	DefaultStepsPerPeriod = sim.DefaultStepsPerPeriod
	DefaultIntegrator     = "symplectic"

	MinAngleDeg = 0.0
	MaxAngleDeg = 180.0
)

var (
	ErrInvalidAngle   = errors.New("config: initial_angle_deg must be from 0 to 180")
	ErrInvalidDamping = errors.New("config: damping must be non-negative")
)

type Config struct {
	InitialAngleDeg float64          `yaml:"initial_angle_deg"`
	Damping         float64          `yaml:"damping"`
	Integrator      string           `yaml:"integrator"`
	Simulation      SimulationConfig `yaml:"simulation"`
	Physical        PhysicalConfig   `yaml:"physical"`
	Sweep           SweepConfig      `yaml:"sweep"`
}

type SimulationConfig struct {
	StepsPerPeriod int     `yaml:"steps_per_period"`
	Oscillations   int     `yaml:"oscillations"`
	MaxTimeFactor  float64 `yaml:"max_time_factor"`
}

type PhysicalConfig struct {
	Mass    float64 `yaml:"mass"`
	Radius  float64 `yaml:"radius"`
	Gravity float64 `yaml:"gravity"`
}

type SweepConfig struct {
	AngleMinDeg   float64 `yaml:"angle_min_deg"`
	AngleMaxDeg   float64 `yaml:"angle_max_deg"`
	AnglePoints   int     `yaml:"angle_points"`
	DampingPoints int     `yaml:"damping_points"`
	Workers       int     `yaml:"workers"`

	// DampingMaxFraction is the largest swept k as a fraction of critical damping.
	DampingMaxFraction float64 `yaml:"damping_max_fraction"`
}

// params is the legacy XML parameter file:
//
//	<params>
//	  <initial_angle_deg>30</initial_angle_deg>
//	  <damping>0.1</damping>
//	</params>
type params struct {
	XMLName         xml.Name `xml:"params"`
	InitialAngleDeg *float64 `xml:"initial_angle_deg"`
	Damping         *float64 `xml:"damping"`
}

func DefaultConfig() *Config {
	return &Config{
		InitialAngleDeg: DefaultAngleDeg,
		Damping:         DefaultDamping,
		Integrator:      DefaultIntegrator,
		Simulation: SimulationConfig{
			StepsPerPeriod: DefaultStepsPerPeriod,
			Oscillations:   physics.Oscillations,
			MaxTimeFactor:  physics.MaxTimeFactor,
		},
		Physical: PhysicalConfig{
			Mass:    physics.DefaultMass,
			Radius:  physics.DefaultRadius,
			Gravity: physics.DefaultGravity,
		},
		Sweep: SweepConfig{
			AngleMinDeg:        5,
			AngleMaxDeg:        160,
			AnglePoints:        16,
			DampingPoints:      20,
			DampingMaxFraction: 0.9,
		},
	}
}

// Load reads a yaml config, or the legacy XML params file when path ends
// in .xml. Missing fields keep their defaults. The result is validated.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if strings.EqualFold(filepath.Ext(path), ".xml") {
		err = cfg.decodeXML(data)
	} else {
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) decodeXML(data []byte) error {
	var p params
	if err := xml.Unmarshal(data, &p); err != nil {
		return err
	}
	if p.InitialAngleDeg == nil {
		return errors.New("missing initial_angle_deg")
	}
	c.InitialAngleDeg = *p.InitialAngleDeg
	if p.Damping != nil {
		c.Damping = *p.Damping
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the values an operator supplies. Simulation limits are
// checked again by sim.Config.Validate.
func (c *Config) Validate() error {
	if math.IsNaN(c.InitialAngleDeg) || c.InitialAngleDeg < MinAngleDeg || c.InitialAngleDeg > MaxAngleDeg {
		return fmt.Errorf("%w, got %v", ErrInvalidAngle, c.InitialAngleDeg)
	}
	if !(c.Damping >= 0) || math.IsInf(c.Damping, 0) {
		return fmt.Errorf("%w, got %v", ErrInvalidDamping, c.Damping)
	}
	return nil
}

// ThetaRadians converts the configured release angle to radians.
func (c *Config) ThetaRadians() float64 {
	return c.InitialAngleDeg * math.Pi / 180
}

func (c *Config) Pendulum() (*physics.Pendulum, error) {
	return physics.NewPendulum(c.Physical.Mass, c.Physical.Radius, c.Physical.Gravity)
}

// SimConfig returns the simulation settings for the configured damping.
func (c *Config) SimConfig() sim.Config {
	return sim.Config{
		StepsPerPeriod: c.Simulation.StepsPerPeriod,
		Damping:        c.Damping,
		Oscillations:   c.Simulation.Oscillations,
		MaxTimeFactor:  c.Simulation.MaxTimeFactor,
	}
}

// SweepAngles is the amplitude sweep grid in radians.
func (c *Config) SweepAngles() []float64 {
	return linspaceRad(c.Sweep.AngleMinDeg, c.Sweep.AngleMaxDeg, c.Sweep.AnglePoints)
}

// SweepDampings is the damping sweep grid for pendulum p.
func (c *Config) SweepDampings(p *physics.Pendulum) []float64 {
	return experiment.Linspace(0, c.Sweep.DampingMaxFraction*p.CriticalDamping(), c.Sweep.DampingPoints)
}

func linspaceRad(a, b float64, n int) []float64 {
	out := experiment.Linspace(a, b, n)
	for i := range out {
		out[i] *= math.Pi / 180
	}
	return out
}
