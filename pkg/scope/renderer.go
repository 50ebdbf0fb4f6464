package scope

import (
	"fmt"
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"

	"github.com/jonspeicher/SoftTemperature/pkg/gradient"
	"github.com/jonspeicher/SoftTemperature/pkg/sample"
)

// scopeRenderer renders the scope widget.
type scopeRenderer struct {
	scope *ScopeWidget

	// Background
	grid *canvas.Rectangle

	// Grid lines
	gridLines []*canvas.Line
	gridTexts []*canvas.Text

	// Objects list for Fyne
	objects []fyne.CanvasObject

	// Track last size to detect changes
	lastSize fyne.Size
}

// MinSize returns the minimum size of the widget.
func (r *scopeRenderer) MinSize() fyne.Size {
	return fyne.NewSize(400, 300)
}

// Layout arranges the widget components.
func (r *scopeRenderer) Layout(size fyne.Size) {
	// Background fills entire widget
	r.grid.Resize(size)

	// Check if size changed
	if r.lastSize.Width != size.Width || r.lastSize.Height != size.Height {
		r.lastSize = size
		// Size changed, trigger widget refresh to redraw with new dimensions
		// Use BaseWidget.Refresh() to properly trigger Fyne's refresh cycle
		r.scope.BaseWidget.Refresh()
	}
}

// Refresh updates the widget display.
func (r *scopeRenderer) Refresh() {
	r.scope.mu.RLock()
	samples := r.scope.displaySamples
	current := r.scope.currentColor
	table := r.scope.table
	yMin := r.scope.yMin
	yMax := r.scope.yMax
	xMin := r.scope.xMin
	xMax := r.scope.xMax
	r.scope.mu.RUnlock()

	size := r.scope.Size()
	if size.Width == 0 || size.Height == 0 {
		return
	}

	// Clear old objects (but keep grid)
	r.objects = []fyne.CanvasObject{r.grid}
	r.gridLines = r.gridLines[:0]
	r.gridTexts = r.gridTexts[:0]

	// Calculate margins. The bottom band holds the gradient strip below the
	// time axis labels.
	marginLeft := float32(60.0)
	marginRight := float32(20.0)
	marginTop := float32(20.0)
	marginBottom := float32(60.0)
	stripHeight := float32(12.0)

	plotWidth := size.Width - marginLeft - marginRight
	plotHeight := size.Height - marginTop - marginBottom
	plotX := marginLeft
	plotY := marginTop

	// Draw grid
	r.drawGrid(plotX, plotY, plotWidth, plotHeight, yMin, yMax, xMin, xMax)

	// Draw the temperature trace, each segment in its gradient color
	if len(samples) > 1 {
		r.drawTrace(plotX, plotY, plotWidth, plotHeight, samples, table, yMin, yMax, xMin, xMax)
	}

	// Draw the gradient strip along the bottom
	r.drawGradientStrip(plotX, plotY+plotHeight+marginBottom-stripHeight-5, plotWidth, stripHeight, table)

	// Draw the current color swatch with the latest reading
	r.drawCurrentSwatch(plotX, plotY, plotWidth, samples, current)
}

// drawGrid draws the oscilloscope-style grid.
func (r *scopeRenderer) drawGrid(plotX, plotY, plotWidth, plotHeight float32, yMin, yMax float64, xMin, xMax time.Time) {
	// Horizontal grid lines (temperature)
	numHLines := 8
	for i := 0; i <= numHLines; i++ {
		y := plotY + float32(i)*plotHeight/float32(numHLines)
		line := canvas.NewLine(color.RGBA{R: 40, G: 40, B: 40, A: 255})
		line.Position1 = fyne.NewPos(plotX, y)
		line.Position2 = fyne.NewPos(plotX+plotWidth, y)
		line.StrokeWidth = 1
		r.gridLines = append(r.gridLines, line)
		r.objects = append(r.objects, line)

		// Y-axis label
		value := yMax - float64(i)*(yMax-yMin)/float64(numHLines)
		text := canvas.NewText(formatFahrenheit(value), color.RGBA{R: 150, G: 150, B: 150, A: 255})
		text.TextSize = 10
		text.Alignment = fyne.TextAlignTrailing
		text.Move(fyne.NewPos(plotX-5, y-6))
		r.gridTexts = append(r.gridTexts, text)
		r.objects = append(r.objects, text)
	}

	// Vertical grid lines (time)
	numVLines := 10
	for i := 0; i <= numVLines; i++ {
		x := plotX + float32(i)*plotWidth/float32(numVLines)
		line := canvas.NewLine(color.RGBA{R: 40, G: 40, B: 40, A: 255})
		line.Position1 = fyne.NewPos(x, plotY)
		line.Position2 = fyne.NewPos(x, plotY+plotHeight)
		line.StrokeWidth = 1
		r.gridLines = append(r.gridLines, line)
		r.objects = append(r.objects, line)

		// X-axis label
		timeOffset := float64(i) * xMax.Sub(xMin).Seconds() / float64(numVLines)
		timeVal := xMin.Add(time.Duration(timeOffset * float64(time.Second)))
		text := canvas.NewText(formatTime(timeVal.Sub(xMin)), color.RGBA{R: 150, G: 150, B: 150, A: 255})
		text.TextSize = 10
		text.Alignment = fyne.TextAlignCenter
		text.Move(fyne.NewPos(x-20, plotY+plotHeight+5))
		r.gridTexts = append(r.gridTexts, text)
		r.objects = append(r.objects, text)
	}
}

// drawTrace draws the temperature curve. Each segment is stroked in the
// gradient color of its sample, so the trace itself previews the LED.
func (r *scopeRenderer) drawTrace(plotX, plotY, plotWidth, plotHeight float32, samples []sample.Sample, table gradient.Gradient, yMin, yMax float64, xMin, xMax time.Time) {
	if len(samples) < 2 {
		return
	}

	points := make([]fyne.Position, 0, len(samples))
	for _, s := range samples {
		x := plotX + float32(s.Timestamp.Sub(xMin).Seconds()/xMax.Sub(xMin).Seconds())*plotWidth
		y := plotY + plotHeight - float32((s.Fahrenheit-yMin)/(yMax-yMin))*plotHeight
		points = append(points, fyne.NewPos(x, y))
	}

	// Draw connected line segments
	for i := 0; i < len(points)-1; i++ {
		line := canvas.NewLine(toRGBA(table.ColorAt(samples[i].Fahrenheit)))
		line.Position1 = points[i]
		line.Position2 = points[i+1]
		line.StrokeWidth = 1.5
		r.objects = append(r.objects, line)
	}
}

// drawGradientStrip draws the configured temperature gradient as a band of
// thin vertical rectangles spanning the gradient's temperature range.
func (r *scopeRenderer) drawGradientStrip(x, y, width, height float32, table gradient.Gradient) {
	const segments = 100
	lo, hi := table.Min(), table.Max()
	segWidth := width / float32(segments)

	for i := 0; i < segments; i++ {
		f := lo + (hi-lo)*float64(i)/float64(segments-1)
		rect := canvas.NewRectangle(toRGBA(table.ColorAt(f)))
		rect.Move(fyne.NewPos(x+float32(i)*segWidth, y))
		rect.Resize(fyne.NewSize(segWidth+1, height))
		r.objects = append(r.objects, rect)
	}

	// Endpoint labels
	left := canvas.NewText(formatFahrenheit(lo), color.RGBA{R: 150, G: 150, B: 150, A: 255})
	left.TextSize = 10
	left.Move(fyne.NewPos(x, y-14))
	r.objects = append(r.objects, left)

	right := canvas.NewText(formatFahrenheit(hi), color.RGBA{R: 150, G: 150, B: 150, A: 255})
	right.TextSize = 10
	right.Alignment = fyne.TextAlignTrailing
	right.Move(fyne.NewPos(x+width, y-14))
	r.objects = append(r.objects, right)
}

// drawCurrentSwatch draws a swatch of the color currently on the LED in the
// top-right corner, with the latest temperature reading next to it.
func (r *scopeRenderer) drawCurrentSwatch(plotX, plotY, plotWidth float32, samples []sample.Sample, current gradient.Color) {
	const swatchSize = float32(18.0)

	rect := canvas.NewRectangle(toRGBA(current))
	rect.StrokeColor = color.RGBA{R: 150, G: 150, B: 150, A: 255}
	rect.StrokeWidth = 1
	rect.Move(fyne.NewPos(plotX+plotWidth-swatchSize-5, plotY+5))
	rect.Resize(fyne.NewSize(swatchSize, swatchSize))
	r.objects = append(r.objects, rect)

	if len(samples) > 0 {
		latest := samples[len(samples)-1]
		text := canvas.NewText(formatFahrenheit(latest.Fahrenheit), color.RGBA{R: 200, G: 200, B: 200, A: 255})
		text.TextSize = 12
		text.Alignment = fyne.TextAlignTrailing
		text.Move(fyne.NewPos(plotX+plotWidth-swatchSize-12, plotY+7))
		r.objects = append(r.objects, text)
	}
}

// Objects returns all canvas objects for rendering.
func (r *scopeRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

// Destroy cleans up resources.
func (r *scopeRenderer) Destroy() {
	// Cleanup handled by Fyne
}

func toRGBA(c gradient.Color) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

func formatFahrenheit(f float64) string {
	return fmt.Sprintf("%.1f°F", f)
}

func formatTime(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
