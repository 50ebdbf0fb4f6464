package device

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonspeicher/SoftTemperature/pkg/gradient"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    RawSample
		wantErr bool
	}{
		{
			name: "valid line - switch off",
			line: "1234567890123,512,0",
			want: RawSample{
				Timestamp: time.Unix(0, 1234567890123*1000),
				Counts:    512,
				Display:   false,
			},
			wantErr: false,
		},
		{
			name: "valid line - switch on",
			line: "1234567890123,512,1",
			want: RawSample{
				Timestamp: time.Unix(0, 1234567890123*1000),
				Counts:    512,
				Display:   true,
			},
			wantErr: false,
		},
		{
			name: "valid line - zero counts",
			line: "1234567890123,0,0",
			want: RawSample{
				Timestamp: time.Unix(0, 1234567890123*1000),
				Counts:    0,
				Display:   false,
			},
			wantErr: false,
		},
		{
			name: "valid line - max counts",
			line: "1234567890123,1023,1",
			want: RawSample{
				Timestamp: time.Unix(0, 1234567890123*1000),
				Counts:    1023,
				Display:   true,
			},
			wantErr: false,
		},
		{
			name:    "invalid - wrong number of fields",
			line:    "1234567890123,512",
			wantErr: true,
		},
		{
			name:    "invalid - too many fields",
			line:    "1234567890123,512,1,extra",
			wantErr: true,
		},
		{
			name:    "invalid - non-numeric timestamp",
			line:    "abc,512,1",
			wantErr: true,
		},
		{
			name:    "invalid - non-numeric counts",
			line:    "1234567890123,abc,1",
			wantErr: true,
		},
		{
			name:    "invalid - counts out of range",
			line:    "1234567890123,1024,1",
			wantErr: true,
		},
		{
			name:    "invalid - switch state",
			line:    "1234567890123,512,2",
			wantErr: true,
		},
		{
			name:    "invalid - switch state multiple digits",
			line:    "1234567890123,512,11",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseLine(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want.Timestamp.UnixNano(), got.Timestamp.UnixNano())
				assert.Equal(t, tt.want.Counts, got.Counts)
				assert.Equal(t, tt.want.Display, got.Display)
			}
		})
	}
}

func TestNew(t *testing.T) {
	dev := New("COM3", 115200, 100)
	assert.NotNil(t, dev)
	assert.Equal(t, "COM3", dev.port)
	assert.Equal(t, 115200, dev.baudRate)
	assert.Equal(t, 100, dev.bufSize)
	assert.NotNil(t, dev.samples)
	assert.False(t, dev.IsConnected())
}

func TestNew_Defaults(t *testing.T) {
	dev := New("COM3", 0, 0)
	assert.NotNil(t, dev)
	assert.Equal(t, DefaultBaudRate, dev.baudRate)
	assert.Equal(t, DefaultBufferSize, dev.bufSize)
}

func TestSetColor_NotConnected(t *testing.T) {
	dev := New("COM3", 115200, 100)
	err := dev.SetColor(gradient.Color{R: 255})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not connected")
}

func TestFormatColorCommand(t *testing.T) {
	tests := []struct {
		name    string
		color   gradient.Color
		wantCmd string
	}{
		{"off", gradient.Color{}, "0,0,0\n"},
		{"white", gradient.Color{R: 255, G: 255, B: 255}, "255,255,255\n"},
		{"red", gradient.Color{R: 255}, "255,0,0\n"},
		{"teal-ish midpoint", gradient.Color{G: 127, B: 127}, "0,127,127\n"},
		{"mixed", gradient.Color{R: 1, G: 20, B: 3}, "1,20,3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCmd, formatColorCommand(tt.color))
		})
	}
}
