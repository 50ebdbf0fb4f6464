package device

import "github.com/jonspeicher/SoftTemperature/pkg/gradient"

// Device defines the interface for sensor devices (real or mocked).
type Device interface {
	Connect() error
	Close() error
	Samples() <-chan RawSample
	SetColor(c gradient.Color) error
	IsConnected() bool
}

// Ensure Serial implements Device.
var _ Device = (*Serial)(nil)

// Ensure Mock implements Device.
var _ Device = (*Mock)(nil)
