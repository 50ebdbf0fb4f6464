package indicator

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/jonspeicher/SoftTemperature/pkg/blink"
	"github.com/jonspeicher/SoftTemperature/pkg/config"
	"github.com/jonspeicher/SoftTemperature/pkg/gradient"
	"github.com/jonspeicher/SoftTemperature/pkg/sample"
)

var _ TemperatureIndicator = (*Indicator)(nil)

// ColorSink receives the color the indicator wants shown. The serial and mock
// devices both satisfy it.
type ColorSink interface {
	SetColor(c gradient.Color) error
}

// TemperatureIndicator processes converted samples, maintains the display
// window buffer, and drives the LED color.
type TemperatureIndicator interface {
	ProcessSamples(input <-chan sample.Sample)
	Samples() []sample.Sample                                    // Current window of samples (FIFO, ordered first to last)
	Current() (sample.Sample, gradient.Color, bool)              // Latest sample and its gradient color; false until the first sample arrives
	OnUpdate(func(samples []sample.Sample, color gradient.Color)) // Register callback for updates
}

// Indicator implements TemperatureIndicator.
// Internally keeps a FIFO buffer of samples trimmed by timestamp (time
// window, not count), ordered oldest first. Every sample maps through the
// gradient to a color which is pushed to the sink; when the display switch
// transitions to engaged, the temperature is blinked out digit by digit
// before gradient display resumes.
type Indicator struct {
	cfg   *config.Config
	table gradient.Gradient
	sink  ColorSink

	samples []sample.Sample // FIFO buffer (ordered first to last, removed by timestamp)
	current sample.Sample
	color   gradient.Color
	primed  bool // set once the first sample has been processed

	mu sync.RWMutex

	// Callbacks receive the current window and color directly.
	callbacks []func(samples []sample.Sample, color gradient.Color)
	cbMu      sync.RWMutex

	windowDuration time.Duration
	debugPeriod    time.Duration
	lastDebug      time.Time
	lastDisplay    bool // previous sample's switch state, for edge detection

	blinkColor gradient.Color
	blinkDelay time.Duration
	phasePause time.Duration

	// sleep is swappable so blink sequences can be tested without timers.
	sleep func(time.Duration)

	// Shutdown control
	shutdown bool // Set to true when input channel closes, prevents further callbacks
}

// New creates a new Indicator driving the given sink.
// Returns an error if the configured gradient is invalid.
func New(cfg *config.Config, sink ColorSink) (*Indicator, error) {
	table, err := cfg.GradientTable()
	if err != nil {
		return nil, fmt.Errorf("indicator gradient: %w", err)
	}

	return &Indicator{
		cfg:            cfg,
		table:          table,
		sink:           sink,
		samples:        make([]sample.Sample, 0),
		callbacks:      make([]func(samples []sample.Sample, color gradient.Color), 0),
		windowDuration: time.Duration(cfg.Display.WindowSeconds * float64(time.Second)),
		debugPeriod:    cfg.Display.DebugPeriod,
		blinkColor:     cfg.BlinkColor(),
		blinkDelay:     cfg.Display.BlinkDelay,
		phasePause:     cfg.Display.PhasePause,
		sleep:          time.Sleep,
	}, nil
}

// ProcessSamples processes samples from the input channel until it closes.
// When the input channel closes, it sets the shutdown flag to prevent
// further callbacks, then turns the LED off.
func (ind *Indicator) ProcessSamples(input <-chan sample.Sample) {
	for s := range input {
		ind.processSample(s)
	}
	// Channel closed - mark as shutdown to prevent further callbacks
	ind.mu.Lock()
	ind.shutdown = true
	ind.mu.Unlock()

	if err := ind.sink.SetColor(gradient.Off); err != nil {
		log.Printf("Failed to turn LED off on shutdown: %v", err)
	}
}

// processSample adds a sample to the window, maps it to a color, and pushes
// the color to the sink. A display-switch rising edge blinks the temperature
// out first; the blink sequence runs to completion and is never interrupted
// by newer samples.
func (ind *Indicator) processSample(s sample.Sample) {
	ind.mu.Lock()

	// Add sample to FIFO buffer
	ind.samples = append(ind.samples, s)

	// Remove samples outside time window (based on timestamp, not count)
	cutoffTime := s.Timestamp.Add(-ind.windowDuration)
	cutoffIndex := 0
	for i, prev := range ind.samples {
		if prev.Timestamp.After(cutoffTime) {
			cutoffIndex = i
			break
		}
	}
	if cutoffIndex > 0 {
		ind.samples = ind.samples[cutoffIndex:]
	}

	color := ind.table.ColorAt(s.Fahrenheit)
	ind.current = s
	ind.color = color
	ind.primed = true

	risingEdge := s.Display && !ind.lastDisplay
	ind.lastDisplay = s.Display

	logDebug := false
	if ind.debugPeriod > 0 && s.Timestamp.Sub(ind.lastDebug) >= ind.debugPeriod {
		ind.lastDebug = s.Timestamp
		logDebug = true
	}

	shouldNotify := !ind.shutdown

	ind.mu.Unlock()

	if logDebug {
		log.Printf("counts=%d volts=%.3f celsius=%.2f fahrenheit=%.2f color=%s",
			s.Counts, s.Volts, s.Celsius, s.Fahrenheit, color.Hex())
	}

	if risingEdge {
		ind.blinkTemperature(s.Fahrenheit)
	}

	if err := ind.sink.SetColor(color); err != nil {
		log.Printf("Failed to set LED color: %v", err)
	}

	if shouldNotify {
		ind.notifyCallbacks()
	}
}

// blinkTemperature blinks the adjusted temperature out digit by digit,
// blocking until the full sequence has run.
func (ind *Indicator) blinkTemperature(fahrenheit float64) {
	adjusted := blink.AdjustForDisplay(fahrenheit)
	plan := blink.NewPlan(adjusted)
	steps := plan.Steps(ind.blinkColor, ind.blinkDelay, ind.phasePause)

	log.Printf("Blinking temperature: %.1f °F displayed as %d", fahrenheit, int(adjusted))

	blink.Run(steps, func(c gradient.Color) {
		if err := ind.sink.SetColor(c); err != nil {
			log.Printf("Failed to set LED color during blink: %v", err)
		}
	}, ind.sleep)
}

// Samples returns a copy of the current window buffer.
func (ind *Indicator) Samples() []sample.Sample {
	ind.mu.RLock()
	defer ind.mu.RUnlock()

	result := make([]sample.Sample, len(ind.samples))
	copy(result, ind.samples)
	return result
}

// Current returns the latest sample and its gradient color. The bool is
// false until the first sample has been processed.
func (ind *Indicator) Current() (sample.Sample, gradient.Color, bool) {
	ind.mu.RLock()
	defer ind.mu.RUnlock()
	return ind.current, ind.color, ind.primed
}

// OnUpdate registers a callback that will be called when a sample is
// processed. The callback receives the current window and color directly and
// should copy data quickly and return as fast as possible.
func (ind *Indicator) OnUpdate(callback func(samples []sample.Sample, color gradient.Color)) {
	ind.cbMu.Lock()
	defer ind.cbMu.Unlock()
	ind.callbacks = append(ind.callbacks, callback)
}

// ResetShutdown resets the shutdown flag, allowing callbacks to be sent again.
// This should be called before starting a new measurement chain.
func (ind *Indicator) ResetShutdown() {
	ind.mu.Lock()
	defer ind.mu.Unlock()
	ind.shutdown = false
}

// notifyCallbacks invokes all registered callbacks with current data.
// Makes copies of data while holding read lock, then calls callbacks without lock.
func (ind *Indicator) notifyCallbacks() {
	ind.mu.RLock()
	samplesCopy := make([]sample.Sample, len(ind.samples))
	copy(samplesCopy, ind.samples)
	color := ind.color
	ind.mu.RUnlock()

	ind.cbMu.RLock()
	callbacks := make([]func(samples []sample.Sample, color gradient.Color), len(ind.callbacks))
	copy(callbacks, ind.callbacks)
	ind.cbMu.RUnlock()

	for _, cb := range callbacks {
		if cb != nil {
			cb(samplesCopy, color)
		}
	}
}
