package indicator

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonspeicher/SoftTemperature/pkg/config"
	"github.com/jonspeicher/SoftTemperature/pkg/gradient"
	"github.com/jonspeicher/SoftTemperature/pkg/sample"
)

// fakeSink records every color pushed to it.
type fakeSink struct {
	mu     sync.Mutex
	colors []gradient.Color
}

func (f *fakeSink) SetColor(c gradient.Color) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.colors = append(f.colors, c)
	return nil
}

func (f *fakeSink) Colors() []gradient.Color {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]gradient.Color, len(f.colors))
	copy(result, f.colors)
	return result
}

func (f *fakeSink) Last() gradient.Color {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.colors) == 0 {
		return gradient.Color{}
	}
	return f.colors[len(f.colors)-1]
}

func newTestIndicator(t *testing.T, cfg *config.Config) (*Indicator, *fakeSink) {
	t.Helper()
	sink := &fakeSink{}
	ind, err := New(cfg, sink)
	require.NoError(t, err)
	ind.sleep = func(time.Duration) {} // no timers in tests
	return ind, sink
}

func TestNew(t *testing.T) {
	cfg := config.Default()
	ind, _ := newTestIndicator(t, cfg)

	assert.NotNil(t, ind)
	assert.Empty(t, ind.Samples())
	_, _, ok := ind.Current()
	assert.False(t, ok)
}

func TestNew_InvalidGradient(t *testing.T) {
	cfg := config.Default()
	cfg.Gradient = []config.GradientPoint{{TempF: 50, Color: "not-a-color"}}

	_, err := New(cfg, &fakeSink{})
	assert.Error(t, err)
}

func TestProcessSample_PushesGradientColor(t *testing.T) {
	cfg := config.Default()
	ind, sink := newTestIndicator(t, cfg)

	// 50 °F is an exact control point: pure blue.
	ind.processSample(sample.Sample{Timestamp: time.Now(), Fahrenheit: 50})

	assert.Equal(t, gradient.Color{B: 255}, sink.Last())

	current, color, ok := ind.Current()
	assert.True(t, ok)
	assert.Equal(t, 50.0, current.Fahrenheit)
	assert.Equal(t, gradient.Color{B: 255}, color)
}

func TestProcessSample_WindowRemoval(t *testing.T) {
	cfg := config.Default()
	cfg.Display.WindowSeconds = 1.0
	ind, _ := newTestIndicator(t, cfg)

	now := time.Now()
	ind.processSample(sample.Sample{Timestamp: now, Fahrenheit: 60})
	ind.processSample(sample.Sample{Timestamp: now.Add(500 * time.Millisecond), Fahrenheit: 61})
	// Third sample pushes the first outside the 1 s window.
	ind.processSample(sample.Sample{Timestamp: now.Add(2 * time.Second), Fahrenheit: 62})

	samples := ind.Samples()
	require.Len(t, samples, 2)
	assert.Equal(t, 61.0, samples[0].Fahrenheit)
	assert.Equal(t, 62.0, samples[1].Fahrenheit)
}

func TestProcessSample_BlinkOnRisingEdge(t *testing.T) {
	cfg := config.Default()
	ind, sink := newTestIndicator(t, cfg)

	now := time.Now()
	ind.processSample(sample.Sample{Timestamp: now, Fahrenheit: 73, Display: false})
	before := len(sink.Colors())

	ind.processSample(sample.Sample{Timestamp: now.Add(time.Second), Fahrenheit: 73, Display: true})

	colors := sink.Colors()
	// 73 blinks as two phases (7 then 3): each on blink is the blink color.
	blinkColor := cfg.BlinkColor()
	onCount := 0
	for _, c := range colors[before:] {
		if c == blinkColor {
			onCount++
		}
	}
	assert.Equal(t, 7+3, onCount)

	// Gradient display resumes after the sequence.
	assert.NotEqual(t, gradient.Off, sink.Last())
	assert.NotEqual(t, blinkColor, sink.Last())
}

func TestProcessSample_NoBlinkWhileHeld(t *testing.T) {
	cfg := config.Default()
	ind, sink := newTestIndicator(t, cfg)

	blinkColor := cfg.BlinkColor()
	countBlinks := func() int {
		n := 0
		for _, c := range sink.Colors() {
			if c == blinkColor {
				n++
			}
		}
		return n
	}

	now := time.Now()
	ind.processSample(sample.Sample{Timestamp: now, Fahrenheit: 73, Display: true})
	first := countBlinks()
	assert.Positive(t, first)

	// Switch still held: no second sequence.
	ind.processSample(sample.Sample{Timestamp: now.Add(time.Second), Fahrenheit: 73, Display: true})
	assert.Equal(t, first, countBlinks())

	// Release and press again: blinks again.
	ind.processSample(sample.Sample{Timestamp: now.Add(2 * time.Second), Fahrenheit: 73, Display: false})
	ind.processSample(sample.Sample{Timestamp: now.Add(3 * time.Second), Fahrenheit: 73, Display: true})
	assert.Greater(t, countBlinks(), first)
}

func TestOnUpdate_Callback(t *testing.T) {
	cfg := config.Default()
	ind, _ := newTestIndicator(t, cfg)

	var (
		mu         sync.Mutex
		gotSamples []sample.Sample
		gotColor   gradient.Color
		calls      int
	)
	ind.OnUpdate(func(samples []sample.Sample, color gradient.Color) {
		mu.Lock()
		defer mu.Unlock()
		gotSamples = samples
		gotColor = color
		calls++
	})

	ind.processSample(sample.Sample{Timestamp: time.Now(), Fahrenheit: 59})

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, calls)
	require.Len(t, gotSamples, 1)
	assert.Equal(t, gradient.Color{G: 255}, gotColor) // 59 °F is pure green
}

// TestGracefulShutdown tests that the indicator stops sending callbacks and
// turns the LED off after the input channel is closed.
func TestGracefulShutdown(t *testing.T) {
	cfg := config.Default()
	ind, sink := newTestIndicator(t, cfg)

	callbackReceived := make(chan struct{}, 10)
	ind.OnUpdate(func(samples []sample.Sample, color gradient.Color) {
		select {
		case callbackReceived <- struct{}{}:
		default:
		}
	})

	input := make(chan sample.Sample, 10)
	done := make(chan struct{})
	go func() {
		ind.ProcessSamples(input)
		close(done)
	}()

	now := time.Now()
	for i := 0; i < 3; i++ {
		input <- sample.Sample{Timestamp: now.Add(time.Duration(i) * time.Second), Fahrenheit: 60}
	}

	select {
	case <-callbackReceived:
	case <-time.After(time.Second):
		t.Fatal("No callback received")
	}

	close(input)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("ProcessSamples did not return after channel close")
	}

	// LED turned off on shutdown.
	assert.Equal(t, gradient.Off, sink.Last())

	// Further direct processing must not invoke callbacks.
	drained := false
	for !drained {
		select {
		case <-callbackReceived:
		default:
			drained = true
		}
	}
	ind.processSample(sample.Sample{Timestamp: now.Add(time.Minute), Fahrenheit: 60})
	select {
	case <-callbackReceived:
		t.Fatal("Callback received after shutdown")
	case <-time.After(100 * time.Millisecond):
	}
}
