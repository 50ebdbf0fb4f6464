package scope

import (
	"image/color"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/jonspeicher/SoftTemperature/pkg/config"
	"github.com/jonspeicher/SoftTemperature/pkg/gradient"
	"github.com/jonspeicher/SoftTemperature/pkg/sample"
)

// ScopeWidget is a custom Fyne widget that displays the temperature trace
// over the display window, a strip of the configured color gradient, and a
// swatch of the color currently shown on the LED.
type ScopeWidget struct {
	widget.BaseWidget

	cfg   *config.Config
	table gradient.Gradient

	// Data (protected by mu)
	mu           sync.RWMutex
	samples      []sample.Sample
	currentColor gradient.Color

	// Display buffer (reused for downsampling)
	displaySamples []sample.Sample

	// Auto-scaling
	yMin, yMax float64 // Fahrenheit
	xMin, xMax time.Time

	// Display settings
	maxDisplayPoints int
}

// New creates a new ScopeWidget instance.
func New(cfg *config.Config, table gradient.Gradient) *ScopeWidget {
	s := &ScopeWidget{
		cfg:              cfg,
		table:            table,
		samples:          make([]sample.Sample, 0),
		displaySamples:   make([]sample.Sample, 0, 1000),
		maxDisplayPoints: 1000, // Limit points for efficient rendering
	}
	s.ExtendBaseWidget(s)
	// Trigger initial refresh to display empty scope
	s.Refresh()
	return s
}

// UpdateData updates the widget with a new sample window and the color
// currently driven to the LED.
// This should be called from the indicator callback using fyne.Do().
func (s *ScopeWidget) UpdateData(samples []sample.Sample, current gradient.Color) {
	s.mu.Lock()

	// Downsample for display (reuse buffer)
	s.displaySamples = sample.Downsample(s.displaySamples, samples, s.maxDisplayPoints)

	// Store full data
	s.samples = samples
	s.currentColor = current

	// Calculate auto-scaling
	s.updateAutoScale()

	s.mu.Unlock()

	// Refresh the widget (must be outside lock to avoid potential deadlock)
	s.Refresh()
}

// updateAutoScale calculates the axis ranges from current data. The Y axis
// always covers at least the gradient's temperature span so the strip and
// the trace share a scale.
func (s *ScopeWidget) updateAutoScale() {
	s.yMin = s.table.Min()
	s.yMax = s.table.Max()

	if len(s.displaySamples) == 0 {
		s.xMin = time.Now()
		s.xMax = time.Now().Add(10 * time.Second)
		return
	}

	for _, smp := range s.displaySamples {
		if smp.Fahrenheit < s.yMin {
			s.yMin = smp.Fahrenheit
		}
		if smp.Fahrenheit > s.yMax {
			s.yMax = smp.Fahrenheit
		}
	}

	// Add 10% margin
	span := s.yMax - s.yMin
	if span == 0 {
		span = 1.0
	}
	margin := span * 0.1
	s.yMin -= margin
	s.yMax += margin

	// Time range
	s.xMin = s.displaySamples[0].Timestamp
	s.xMax = s.displaySamples[len(s.displaySamples)-1].Timestamp
	// Ensure minimum window
	window := time.Duration(s.cfg.Display.WindowSeconds * float64(time.Second))
	if s.xMax.Sub(s.xMin) < window {
		s.xMax = s.xMin.Add(window)
	}
}

// CreateRenderer creates the widget renderer.
func (s *ScopeWidget) CreateRenderer() fyne.WidgetRenderer {
	grid := canvas.NewRectangle(color.RGBA{R: 20, G: 20, B: 20, A: 255}) // Dark background
	return &scopeRenderer{
		scope:    s,
		grid:     grid,
		objects:  []fyne.CanvasObject{grid},
		lastSize: fyne.Size{Width: 0, Height: 0},
	}
}
