package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_Defaults(t *testing.T) {
	r := New(0)
	assert.Equal(t, DefaultSize, r.Size())

	r = New(-5)
	assert.Equal(t, DefaultSize, r.Size())

	r = New(4)
	assert.Equal(t, 4, r.Size())
}

func TestAverage_FreshFilterIsZero(t *testing.T) {
	r := New(10)
	assert.Equal(t, uint16(0), r.Average())
}

func TestAverage_ExactWindow(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		samples []uint16
		want    uint16
	}{
		{
			name:    "constant input",
			size:    5,
			samples: []uint16{512, 512, 512, 512, 512},
			want:    512,
		},
		{
			name:    "truncated mean",
			size:    4,
			samples: []uint16{1, 2, 3, 4},
			want:    2, // 10/4 truncates
		},
		{
			name:    "ascending full window",
			size:    10,
			samples: []uint16{0, 100, 200, 300, 400, 500, 600, 700, 800, 900},
			want:    450,
		},
		{
			name:    "max ADC counts",
			size:    3,
			samples: []uint16{1023, 1023, 1023},
			want:    1023,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(tt.size)
			for _, s := range tt.samples {
				r.Add(s)
			}
			assert.Equal(t, tt.want, r.Average())
		})
	}
}

func TestAverage_WarmupBias(t *testing.T) {
	// Before the window fills, the zero-initialized slots drag the mean down.
	r := New(10)
	r.Add(1000)
	assert.Equal(t, uint16(100), r.Average())

	for i := 0; i < 4; i++ {
		r.Add(1000)
	}
	assert.Equal(t, uint16(500), r.Average())
}

func TestAverage_RingOverwrite(t *testing.T) {
	// After more than Size samples, only the most recent Size matter.
	r := New(3)
	for _, v := range []uint16{900, 901, 902} {
		r.Add(v)
	}
	r.Add(30)
	r.Add(60)
	r.Add(90)
	assert.Equal(t, uint16(60), r.Average())

	// One more overwrites the oldest of the current window.
	r.Add(120)
	assert.Equal(t, uint16(90), r.Average()) // (60+90+120)/3
}
