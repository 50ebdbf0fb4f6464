package sample

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func makeSamples(n int) []Sample {
	now := time.Now()
	samples := make([]Sample, n)
	for i := range samples {
		samples[i] = Sample{
			Timestamp: now.Add(time.Duration(i) * time.Second),
			Counts:    uint16(i),
		}
	}
	return samples
}

func TestDownsample_WithinLimit(t *testing.T) {
	samples := makeSamples(5)
	got := Downsample(nil, samples, 10)
	assert.Equal(t, samples, got)
}

func TestDownsample_Decimates(t *testing.T) {
	samples := makeSamples(100)
	got := Downsample(nil, samples, 10)

	assert.Len(t, got, 10)
	assert.Equal(t, samples[0], got[0], "first sample should be preserved")
	for i := 1; i < len(got); i++ {
		assert.True(t, got[i].Timestamp.After(got[i-1].Timestamp), "order should be preserved")
	}
}

func TestDownsample_ReusesDestination(t *testing.T) {
	samples := makeSamples(100)
	dst := make([]Sample, 0, 10)
	got := Downsample(dst, samples, 10)

	assert.Len(t, got, 10)
	assert.Equal(t, 10, cap(got), "should reuse the provided backing array")
}

func TestDownsample_Empty(t *testing.T) {
	got := Downsample(nil, nil, 10)
	assert.Empty(t, got)
}
