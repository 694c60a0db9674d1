package engine

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"Ripple3D/internal/sim"
)

// Config is the engine's exportable configuration for saving/loading.
type Config struct {
	Resolution int `json:"resolution"`
	SubSteps   int `json:"sub_steps"`
	Workers    int `json:"workers"`

	Stiffness      float32 `json:"stiffness"`
	Damping        float32 `json:"damping"`
	ImpactStrength float32 `json:"impact_strength"`

	HalfWidth  float32 `json:"half_width"`
	HalfLength float32 `json:"half_length"`
	WaterDepth float32 `json:"water_depth"`
	WallHeight float32 `json:"wall_height"`

	LightDir [3]float32 `json:"light_dir"`

	RainEnabled bool  `json:"rain_enabled"`
	RainSeed    int64 `json:"rain_seed"`
}

// DefaultConfig returns the reference tuning.
func DefaultConfig() Config {
	return Config{
		Resolution:     256,
		SubSteps:       sim.DefaultSubSteps,
		Workers:        0, // GOMAXPROCS
		Stiffness:      sim.DefaultStiffness,
		Damping:        sim.DefaultDamping,
		ImpactStrength: 1.0,
		HalfWidth:      1.0,
		HalfLength:     1.0,
		WaterDepth:     1.0,
		WallHeight:     0.2,
		LightDir:       [3]float32{0.45, -1.0, 0.6},
		RainEnabled:    false,
		RainSeed:       1,
	}
}

// Validate reports the first condition that would make the simulation
// unable to produce correct output. These are startup failures, not
// per-tick errors.
func (c Config) Validate() error {
	if c.Resolution < 8 {
		return fmt.Errorf("resolution %d below minimum 8", c.Resolution)
	}
	if c.SubSteps < 1 {
		return fmt.Errorf("sub_steps must be at least 1, got %d", c.SubSteps)
	}
	if !finite64(float64(c.Stiffness)) || c.Stiffness <= 0 {
		return fmt.Errorf("stiffness %v must be positive and finite", c.Stiffness)
	}
	if !finite64(float64(c.Damping)) || c.Damping <= 0 || c.Damping > 1 {
		return fmt.Errorf("damping %v must be in (0, 1]", c.Damping)
	}
	if !finite64(float64(c.ImpactStrength)) {
		return fmt.Errorf("impact_strength %v must be finite", c.ImpactStrength)
	}
	if c.LightDir[1] >= 0 {
		return fmt.Errorf("light_dir must point downward, got y=%v", c.LightDir[1])
	}
	return nil
}

// Save writes the config as JSON.
func (c Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// LoadConfig reads a JSON config from disk.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func finite64(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
