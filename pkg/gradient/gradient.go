package gradient

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is an RGB triple with 8-bit channels. It is the internal color
// representation everywhere in the host code; packing into a single 24-bit
// value happens only at I/O boundaries (config files, wire commands).
type Color struct {
	R, G, B uint8
}

// Off is the LED-off color.
var Off = Color{}

// RGB24 packs the color into a 0xRRGGBB value.
func (c Color) RGB24() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// FromRGB24 unpacks a 0xRRGGBB value into a Color.
func FromRGB24(v uint32) Color {
	return Color{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
	}
}

// Hex formats the color as "#RRGGBB".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// ParseHex parses a "#RRGGBB" or "RRGGBB" string into a Color.
func ParseHex(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 {
		return Color{}, fmt.Errorf("invalid color %q: expected 6 hex digits", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return FromRGB24(uint32(v)), nil
}

// ControlPoint anchors a color at a temperature in the gradient table.
type ControlPoint struct {
	TempF float64
	Color Color
}

// Gradient is an ordered table of control points, strictly increasing by
// temperature. It is immutable after construction.
type Gradient struct {
	points []ControlPoint
}

// New builds a Gradient from control points. The table must be non-empty and
// strictly ascending by temperature; anything else is a configuration defect.
func New(points []ControlPoint) (Gradient, error) {
	if len(points) == 0 {
		return Gradient{}, fmt.Errorf("gradient requires at least one control point")
	}
	for i := 1; i < len(points); i++ {
		if points[i].TempF <= points[i-1].TempF {
			return Gradient{}, fmt.Errorf("gradient control points must be strictly ascending: point %d (%.1f°F) <= point %d (%.1f°F)",
				i, points[i].TempF, i-1, points[i-1].TempF)
		}
	}
	cp := make([]ControlPoint, len(points))
	copy(cp, points)
	return Gradient{points: cp}, nil
}

// Points returns a copy of the control point table.
func (g Gradient) Points() []ControlPoint {
	cp := make([]ControlPoint, len(g.points))
	copy(cp, g.points)
	return cp
}

// Min returns the lowest anchored temperature.
func (g Gradient) Min() float64 { return g.points[0].TempF }

// Max returns the highest anchored temperature.
func (g Gradient) Max() float64 { return g.points[len(g.points)-1].TempF }

// ColorAt maps a temperature to a color along the gradient. Temperatures at
// or beyond the first or last control point return that boundary color
// unmodified; between points each channel is interpolated linearly and
// truncated to 8 bits. A temperature exactly at a control point returns the
// table color exactly.
func (g Gradient) ColorAt(f float64) Color {
	last := len(g.points) - 1
	if f <= g.points[0].TempF {
		return g.points[0].Color
	}
	if f >= g.points[last].TempF {
		return g.points[last].Color
	}

	// Find the largest i with points[i].TempF <= f, stopping one before the
	// end so i+1 is always a valid upper bracket.
	i := 0
	for i < last-1 && g.points[i+1].TempF <= f {
		i++
	}

	lo, hi := g.points[i], g.points[i+1]
	return Color{
		R: lerpChannel(lo.Color.R, hi.Color.R, f, lo.TempF, hi.TempF),
		G: lerpChannel(lo.Color.G, hi.Color.G, f, lo.TempF, hi.TempF),
		B: lerpChannel(lo.Color.B, hi.Color.B, f, lo.TempF, hi.TempF),
	}
}

// lerpChannel interpolates one 8-bit channel between (x0,y0) and (x1,y1),
// truncating to an integer. x0 < x1 is guaranteed by the ascending table.
func lerpChannel(y0, y1 uint8, x, x0, x1 float64) uint8 {
	return uint8(float64(y0) + (x-x0)*(float64(y1)-float64(y0))/(x1-x0))
}
