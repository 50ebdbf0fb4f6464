package sample

import (
	"log"
	"time"

	"github.com/jonspeicher/SoftTemperature/pkg/config"
	"github.com/jonspeicher/SoftTemperature/pkg/device"
	"github.com/jonspeicher/SoftTemperature/pkg/filter"
)

// Sample represents a smoothed, converted measurement.
type Sample struct {
	Timestamp  time.Time
	Counts     uint16  // smoothed ADC counts (0-1023)
	Volts      float64 // sensor voltage (V)
	Celsius    float64 // clamped to the calibrated range
	Fahrenheit float64
	Display    bool // display-mode switch engaged when this sample was taken
}

// Converter is a function type that converts a RawSample channel to a Sample channel.
type Converter func(in <-chan device.RawSample) <-chan Sample

// NewConverter creates a converter that smooths raw readings through a
// moving-average filter and converts each smoothed reading through the
// calibrated voltage to temperature pipeline. One Sample is emitted per
// RawSample consumed.
func NewConverter(cfg *config.Config, bufSize int) Converter {
	if bufSize <= 0 {
		bufSize = 100
	}

	return func(in <-chan device.RawSample) <-chan Sample {
		out := make(chan Sample, bufSize)

		go func() {
			defer close(out)

			ring := filter.New(cfg.Filter.Size)
			for raw := range in {
				ring.Add(raw.Counts)
				s := convertSample(ring.Average(), raw, cfg.Calibration)

				select {
				case out <- s:
				case <-time.After(time.Second):
					log.Printf("Converter output channel full, dropping sample")
				}
			}
		}()

		return out
	}
}

// convertSample runs one smoothed reading through the conversion pipeline.
func convertSample(smoothed uint16, raw device.RawSample, cal config.CalibrationConfig) Sample {
	volts := countsToVolts(smoothed, cal)
	celsius := voltsToCelsius(volts, cal)

	return Sample{
		Timestamp:  raw.Timestamp,
		Counts:     smoothed,
		Volts:      volts,
		Celsius:    celsius,
		Fahrenheit: celsiusToFahrenheit(celsius),
		Display:    raw.Display,
	}
}

// countsToVolts rescales a 10-bit ADC reading to the input voltage range.
func countsToVolts(counts uint16, cal config.CalibrationConfig) float64 {
	return float64(counts) / device.MaxCounts * cal.InputVoltage
}

// voltsToCelsius maps the sensor voltage onto the calibrated temperature
// range. The result is always clamped: a disconnected sensor or wiring fault
// pushes the voltage outside the calibrated window, and clamping keeps
// nonsensical temperatures from propagating downstream.
func voltsToCelsius(volts float64, cal config.CalibrationConfig) float64 {
	c := rescale(volts, cal.VoltsAtMinC, cal.VoltsAtMaxC, cal.MinC, cal.MaxC)
	return clamp(c, cal.MinC, cal.MaxC)
}

// celsiusToFahrenheit converts Celsius to Fahrenheit.
func celsiusToFahrenheit(c float64) float64 {
	return c*1.8 + 32
}

// rescale linearly maps x from [x0, x1] onto [y0, y1].
func rescale(x, x0, x1, y0, y1 float64) float64 {
	return (x-x0)*(y1-y0)/(x1-x0) + y0
}

func clamp(v, lo, hi float64) float64 {
	if lo > hi {
		lo, hi = hi, lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
