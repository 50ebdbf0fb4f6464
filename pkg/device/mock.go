package device

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chewxy/math32"

	"github.com/jonspeicher/SoftTemperature/pkg/config"
	"github.com/jonspeicher/SoftTemperature/pkg/gradient"
)

// Mock simulates a sensor device for testing and development. It sweeps the
// simulated temperature sinusoidally around a base value and records the
// colors it is asked to display.
type Mock struct {
	cfg *config.Config

	samples   chan RawSample
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	connected bool

	// Simulation state
	startTime time.Time
	display   bool
	lastColor gradient.Color
}

// Ensure Mock implements Device.
var _ Device = (*Mock)(nil)

// NewMock creates a new mocked device instance.
func NewMock(cfg *config.Config) *Mock {
	if cfg == nil {
		cfg = config.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Mock{
		cfg:       cfg,
		samples:   make(chan RawSample, DefaultBufferSize),
		ctx:       ctx,
		cancel:    cancel,
		connected: false,
	}
}

// Connect simulates connecting to the device.
func (m *Mock) Connect() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.connected {
		return fmt.Errorf("already connected")
	}

	m.connected = true
	m.startTime = time.Now()

	// Start generating samples
	go m.generateSamples()

	return nil
}

// Close stops the mocked device.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return nil
	}

	m.cancel()
	m.connected = false
	close(m.samples)

	return nil
}

// Samples returns the channel for reading samples.
func (m *Mock) Samples() <-chan RawSample {
	return m.samples
}

// SetColor records the requested color (simulated LED).
func (m *Mock) SetColor(c gradient.Color) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return fmt.Errorf("not connected")
	}

	m.lastColor = c
	return nil
}

// LastColor returns the most recently applied color.
func (m *Mock) LastColor() gradient.Color {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastColor
}

// SetDisplaySwitch simulates engaging the display-mode switch.
func (m *Mock) SetDisplaySwitch(on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.display = on
}

// IsConnected returns whether the device is currently connected.
func (m *Mock) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connected
}

// generateSamples generates simulated samples.
func (m *Mock) generateSamples() {
	ticker := time.NewTicker(m.cfg.Mock.SampleRate)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
			sample := m.generateSample()
			select {
			case m.samples <- sample:
			case <-m.ctx.Done():
				return
			default:
				// Channel full, skip
			}
		}
	}
}

// generateSample generates a single simulated sample.
func (m *Mock) generateSample() RawSample {
	m.mu.RLock()
	now := time.Now()
	elapsed := now.Sub(m.startTime)
	display := m.display
	m.mu.RUnlock()

	// Sinusoidal temperature sweep around the base value.
	phase := float32(elapsed.Seconds()/m.cfg.Mock.SweepPeriod.Seconds()) * 2 * math32.Pi
	tempC := float32(m.cfg.Mock.BaseTempC) + float32(m.cfg.Mock.SweepRangeC)*math32.Sin(phase)

	// Invert the calibration to get the sensor voltage for that temperature.
	cal := m.cfg.Calibration
	spanV := float32(cal.VoltsAtMaxC - cal.VoltsAtMinC)
	spanC := float32(cal.MaxC - cal.MinC)
	volts := float32(cal.VoltsAtMinC) + (tempC-float32(cal.MinC))*spanV/spanC

	counts := volts / float32(cal.InputVoltage) * MaxCounts

	// Deterministic pseudo-noise, a couple of counts peak to peak.
	noise := (math32.Sin(float32(elapsed.Nanoseconds()%1e9)*1e-3) +
		math32.Cos(float32(elapsed.Nanoseconds()%1e9)*1.3e-3)) *
		float32(m.cfg.Mock.NoiseCounts) * 0.5
	counts += noise

	if counts < 0 {
		counts = 0
	} else if counts > MaxCounts {
		counts = MaxCounts
	}

	return RawSample{
		Timestamp: now,
		Counts:    uint16(counts),
		Display:   display,
	}
}
