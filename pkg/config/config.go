package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jonspeicher/SoftTemperature/pkg/gradient"
)

// Config represents the application configuration.
type Config struct {
	Serial      SerialConfig      `yaml:"serial"`
	Calibration CalibrationConfig `yaml:"calibration"`
	Filter      FilterConfig      `yaml:"filter"`
	Gradient    []GradientPoint   `yaml:"gradient"`
	Display     DisplayConfig     `yaml:"display"`
	Mock        MockConfig        `yaml:"mock"`
}

// SerialConfig contains serial port configuration.
type SerialConfig struct {
	Port string `yaml:"port"`
}

// CalibrationConfig maps raw ADC counts to temperature. The sensor outputs
// VoltsAtMinC at MinC and VoltsAtMaxC at MaxC; readings outside that window
// (disconnected sensor, wiring fault) clamp to the range rather than
// propagating nonsense downstream.
type CalibrationConfig struct {
	InputVoltage float64 `yaml:"input_voltage"`  // ADC reference voltage (V)
	VoltsAtMinC  float64 `yaml:"volts_at_min_c"` // sensor output at MinC (V)
	VoltsAtMaxC  float64 `yaml:"volts_at_max_c"` // sensor output at MaxC (V)
	MinC         float64 `yaml:"min_c"`
	MaxC         float64 `yaml:"max_c"`
}

// FilterConfig contains moving-average filter parameters.
type FilterConfig struct {
	Size int `yaml:"size"` // window size in samples
}

// GradientPoint anchors a color at a temperature in the LED gradient.
type GradientPoint struct {
	TempF float64 `yaml:"temp_f"`
	Color string  `yaml:"color"` // "#RRGGBB"
}

// DisplayConfig contains LED display and logging timing.
type DisplayConfig struct {
	BlinkDelay    time.Duration `yaml:"blink_delay"`    // on/off hold per blink
	PhasePause    time.Duration `yaml:"phase_pause"`    // pause between digit phases
	BlinkColor    string        `yaml:"blink_color"`    // color used for digit blinks
	DebugPeriod   time.Duration `yaml:"debug_period"`   // period between debug lines
	WindowSeconds float64       `yaml:"window_seconds"` // scope display window
}

// MockConfig contains mock device configuration.
type MockConfig struct {
	BaseTempC   float64       `yaml:"base_temp_c"`   // center of the simulated sweep (°C)
	SweepRangeC float64       `yaml:"sweep_range_c"` // peak deviation from the base (°C)
	SweepPeriod time.Duration `yaml:"sweep_period"`  // full sweep cycle duration
	NoiseCounts float64       `yaml:"noise_counts"`  // noise amplitude in ADC counts
	SampleRate  time.Duration `yaml:"sample_rate"`   // time between samples
}

// Default returns a default configuration with sensible values.
func Default() *Config {
	return &Config{
		Serial: SerialConfig{
			Port: "COM3", // Default for Windows, should be "/dev/ttyACM0" on Linux/Mac
		},
		Calibration: CalibrationConfig{
			InputVoltage: 5.0,
			VoltsAtMinC:  0.5,
			VoltsAtMaxC:  1.2,
			MinC:         0,
			MaxC:         70,
		},
		Filter: FilterConfig{
			Size: 10,
		},
		Gradient: []GradientPoint{
			{TempF: 41, Color: "#FF00FF"}, // violet at coldest
			{TempF: 50, Color: "#0000FF"},
			{TempF: 59, Color: "#00FF00"},
			{TempF: 68, Color: "#FFFF00"},
			{TempF: 77, Color: "#FFA500"},
			{TempF: 86, Color: "#FF0000"}, // red at hottest
		},
		Display: DisplayConfig{
			BlinkDelay:    300 * time.Millisecond,
			PhasePause:    time.Second,
			BlinkColor:    "#FFFFFF",
			DebugPeriod:   time.Second,
			WindowSeconds: 60,
		},
		Mock: MockConfig{
			BaseTempC:   22.0,
			SweepRangeC: 15.0,
			SweepPeriod: 2 * time.Minute,
			NoiseCounts: 2.0,
			SampleRate:  100 * time.Millisecond,
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist, return defaults
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Ensure minimum required fields are set (use defaults if missing)
	cfg.ensureDefaults()

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks for degenerate calibration or gradient values. A failure
// here is a fatal misconfiguration, not a runtime error: a zero span would
// divide by zero in the conversion pipeline.
func (c *Config) Validate() error {
	if c.Calibration.InputVoltage <= 0 {
		return fmt.Errorf("calibration input_voltage must be positive, got %g", c.Calibration.InputVoltage)
	}
	if c.Calibration.VoltsAtMaxC == c.Calibration.VoltsAtMinC {
		return fmt.Errorf("calibration voltage span is zero (%g V at both ends)", c.Calibration.VoltsAtMinC)
	}
	if c.Calibration.MaxC == c.Calibration.MinC {
		return fmt.Errorf("calibration temperature span is zero (%g °C at both ends)", c.Calibration.MinC)
	}
	if c.Filter.Size <= 0 {
		return fmt.Errorf("filter size must be positive, got %d", c.Filter.Size)
	}
	if _, err := c.GradientTable(); err != nil {
		return err
	}
	if _, err := gradient.ParseHex(c.Display.BlinkColor); err != nil {
		return fmt.Errorf("display blink_color: %w", err)
	}
	return nil
}

// GradientTable builds the runtime gradient from the configured points.
func (c *Config) GradientTable() (gradient.Gradient, error) {
	points := make([]gradient.ControlPoint, 0, len(c.Gradient))
	for i, p := range c.Gradient {
		col, err := gradient.ParseHex(p.Color)
		if err != nil {
			return gradient.Gradient{}, fmt.Errorf("gradient point %d: %w", i, err)
		}
		points = append(points, gradient.ControlPoint{TempF: p.TempF, Color: col})
	}
	return gradient.New(points)
}

// BlinkColor returns the parsed digit-blink color. Call Validate first; an
// unparseable value falls back to the default.
func (c *Config) BlinkColor() gradient.Color {
	col, err := gradient.ParseHex(c.Display.BlinkColor)
	if err != nil {
		return gradient.Color{R: 255, G: 255, B: 255}
	}
	return col
}

// ensureDefaults ensures that all required fields have default values if missing.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Serial.Port == "" {
		c.Serial.Port = def.Serial.Port
	}

	if c.Calibration.InputVoltage == 0 {
		c.Calibration.InputVoltage = def.Calibration.InputVoltage
	}
	if c.Calibration.VoltsAtMinC == 0 && c.Calibration.VoltsAtMaxC == 0 {
		c.Calibration.VoltsAtMinC = def.Calibration.VoltsAtMinC
		c.Calibration.VoltsAtMaxC = def.Calibration.VoltsAtMaxC
	}
	if c.Calibration.MinC == 0 && c.Calibration.MaxC == 0 {
		c.Calibration.MinC = def.Calibration.MinC
		c.Calibration.MaxC = def.Calibration.MaxC
	}

	if c.Filter.Size == 0 {
		c.Filter.Size = def.Filter.Size
	}

	if len(c.Gradient) == 0 {
		c.Gradient = def.Gradient
	}

	if c.Display.BlinkDelay == 0 {
		c.Display.BlinkDelay = def.Display.BlinkDelay
	}
	if c.Display.PhasePause == 0 {
		c.Display.PhasePause = def.Display.PhasePause
	}
	if c.Display.BlinkColor == "" {
		c.Display.BlinkColor = def.Display.BlinkColor
	}
	if c.Display.DebugPeriod == 0 {
		c.Display.DebugPeriod = def.Display.DebugPeriod
	}
	if c.Display.WindowSeconds == 0 {
		c.Display.WindowSeconds = def.Display.WindowSeconds
	}

	if c.Mock.SweepPeriod == 0 {
		c.Mock.SweepPeriod = def.Mock.SweepPeriod
	}
	if c.Mock.SampleRate == 0 {
		c.Mock.SampleRate = def.Mock.SampleRate
	}
	if c.Mock.BaseTempC == 0 {
		c.Mock.BaseTempC = def.Mock.BaseTempC
	}
	if c.Mock.SweepRangeC == 0 {
		c.Mock.SweepRangeC = def.Mock.SweepRangeC
	}
}
