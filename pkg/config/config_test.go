package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.NotNil(t, cfg)
	assert.Equal(t, "COM3", cfg.Serial.Port)
	assert.Equal(t, 5.0, cfg.Calibration.InputVoltage)
	assert.Equal(t, 0.5, cfg.Calibration.VoltsAtMinC)
	assert.Equal(t, 1.2, cfg.Calibration.VoltsAtMaxC)
	assert.Equal(t, 0.0, cfg.Calibration.MinC)
	assert.Equal(t, 70.0, cfg.Calibration.MaxC)
	assert.Equal(t, 10, cfg.Filter.Size)
	assert.Len(t, cfg.Gradient, 6)
	assert.Equal(t, 300*time.Millisecond, cfg.Display.BlinkDelay)
	assert.Equal(t, time.Second, cfg.Display.PhasePause)
	assert.Equal(t, time.Second, cfg.Display.DebugPeriod)
}

func TestDefault_Validates(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoad_FileNotExists(t *testing.T) {
	cfg, err := Load("nonexistent.yaml")
	require.NoError(t, err)
	assert.NotNil(t, cfg)
	assert.Equal(t, "COM3", cfg.Serial.Port)
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "test_config_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	yamlContent := `
serial:
  port: "/dev/ttyACM0"

calibration:
  input_voltage: 3.3
  volts_at_min_c: 0.4
  volts_at_max_c: 1.0
  min_c: -10
  max_c: 50

filter:
  size: 20

gradient:
  - temp_f: 50
    color: "#0000FF"
  - temp_f: 59
    color: "#00FF00"

display:
  blink_delay: 250ms
  phase_pause: 2s
  blink_color: "#FFFF00"
  debug_period: 500ms
`

	_, err = tmpfile.WriteString(yamlContent)
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	cfg, err := Load(tmpfile.Name())
	require.NoError(t, err)
	assert.NotNil(t, cfg)

	assert.Equal(t, "/dev/ttyACM0", cfg.Serial.Port)
	assert.Equal(t, 3.3, cfg.Calibration.InputVoltage)
	assert.Equal(t, 0.4, cfg.Calibration.VoltsAtMinC)
	assert.Equal(t, 1.0, cfg.Calibration.VoltsAtMaxC)
	assert.Equal(t, -10.0, cfg.Calibration.MinC)
	assert.Equal(t, 50.0, cfg.Calibration.MaxC)
	assert.Equal(t, 20, cfg.Filter.Size)
	assert.Len(t, cfg.Gradient, 2)
	assert.Equal(t, 250*time.Millisecond, cfg.Display.BlinkDelay)
	assert.Equal(t, 2*time.Second, cfg.Display.PhasePause)
	assert.Equal(t, "#FFFF00", cfg.Display.BlinkColor)
	assert.Equal(t, 500*time.Millisecond, cfg.Display.DebugPeriod)
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "test_config_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	_, err = tmpfile.WriteString("invalid: yaml: content: [")
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	cfg, err := Load(tmpfile.Name())
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_PartialYAML(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "test_config_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	yamlContent := `
serial:
  port: "/dev/ttyACM0"
`

	_, err = tmpfile.WriteString(yamlContent)
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	cfg, err := Load(tmpfile.Name())
	require.NoError(t, err)
	assert.NotNil(t, cfg)

	// Should use defaults for missing fields
	assert.Equal(t, "/dev/ttyACM0", cfg.Serial.Port)
	assert.Equal(t, 5.0, cfg.Calibration.InputVoltage) // default
	assert.Equal(t, 10, cfg.Filter.Size)               // default
	assert.Len(t, cfg.Gradient, 6)                     // default
}

func TestSave(t *testing.T) {
	cfg := Default()
	cfg.Serial.Port = "/dev/ttyUSB0"
	cfg.Filter.Size = 25

	tmpfile, err := os.CreateTemp("", "test_save_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpfile.Name())

	err = cfg.Save(tmpfile.Name())
	require.NoError(t, err)

	// Load it back and verify
	loaded, err := Load(tmpfile.Name())
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyUSB0", loaded.Serial.Port)
	assert.Equal(t, 25, loaded.Filter.Size)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "defaults are valid",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "zero input voltage",
			mutate:  func(c *Config) { c.Calibration.InputVoltage = 0 },
			wantErr: true,
		},
		{
			name: "zero voltage span",
			mutate: func(c *Config) {
				c.Calibration.VoltsAtMinC = 0.8
				c.Calibration.VoltsAtMaxC = 0.8
			},
			wantErr: true,
		},
		{
			name: "zero temperature span",
			mutate: func(c *Config) {
				c.Calibration.MinC = 20
				c.Calibration.MaxC = 20
			},
			wantErr: true,
		},
		{
			name:    "negative filter size",
			mutate:  func(c *Config) { c.Filter.Size = -1 },
			wantErr: true,
		},
		{
			name:    "empty gradient",
			mutate:  func(c *Config) { c.Gradient = []GradientPoint{} },
			wantErr: true,
		},
		{
			name: "unsorted gradient",
			mutate: func(c *Config) {
				c.Gradient = []GradientPoint{
					{TempF: 59, Color: "#00FF00"},
					{TempF: 50, Color: "#0000FF"},
				}
			},
			wantErr: true,
		},
		{
			name: "bad gradient color",
			mutate: func(c *Config) {
				c.Gradient = []GradientPoint{{TempF: 50, Color: "notacolor"}}
			},
			wantErr: true,
		},
		{
			name:    "bad blink color",
			mutate:  func(c *Config) { c.Display.BlinkColor = "#12" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGradientTable(t *testing.T) {
	cfg := Default()
	g, err := cfg.GradientTable()
	require.NoError(t, err)

	points := g.Points()
	require.Len(t, points, 6)
	assert.Equal(t, 41.0, points[0].TempF)
	assert.Equal(t, uint8(255), points[0].Color.R)
	assert.Equal(t, uint8(255), points[0].Color.B)
	assert.Equal(t, 86.0, points[5].TempF)
	assert.Equal(t, uint8(255), points[5].Color.R)
	assert.Equal(t, uint8(0), points[5].Color.G)
}

func TestBlinkColor(t *testing.T) {
	cfg := Default()
	assert.Equal(t, uint8(255), cfg.BlinkColor().R)

	cfg.Display.BlinkColor = "#102030"
	c := cfg.BlinkColor()
	assert.Equal(t, uint8(0x10), c.R)
	assert.Equal(t, uint8(0x20), c.G)
	assert.Equal(t, uint8(0x30), c.B)
}
