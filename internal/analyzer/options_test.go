package analyzer

import (
	"testing"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	checks := []struct {
		name     string
		got      float64
		expected float64
	}{
		{"YellowHueMin", opts.YellowHueMin, 40},
		{"YellowHueMax", opts.YellowHueMax, 70},
		{"YellowSatMin", opts.YellowSatMin, 100},
		{"BrownValueMax", opts.BrownValueMax, 80},
		{"BrownSatMax", opts.BrownSatMax, 50},
		{"DarkSpotPercentile", opts.DarkSpotPercentile, 0.10},
		{"DarkSpotValueMax", opts.DarkSpotValueMax, 40},
		{"GreenHueMin", opts.GreenHueMin, 35},
		{"GreenHueMax", opts.GreenHueMax, 85},
		{"GreenSatMin", opts.GreenSatMin, 40},
		{"HealthMultiplier", opts.HealthMultiplier, 300},
	}
	for _, c := range checks {
		if c.got != c.expected {
			t.Errorf("Expected %s to be %v, got %v", c.name, c.expected, c.got)
		}
	}
	if !opts.UseWorkerPool {
		t.Error("Expected UseWorkerPool to be true by default")
	}
}

func TestWithYellowingThresholds(t *testing.T) {
	opts := DefaultOptions().WithYellowingThresholds(30, 60, 90)

	if opts.YellowHueMin != 30 || opts.YellowHueMax != 60 || opts.YellowSatMin != 90 {
		t.Errorf("Unexpected yellowing thresholds: %+v", opts)
	}
	if opts.BrownValueMax != 80 {
		t.Error("Expected other thresholds to be untouched")
	}
}

func TestWithBrowningThresholds(t *testing.T) {
	opts := DefaultOptions().WithBrowningThresholds(90, 60)

	if opts.BrownValueMax != 90 || opts.BrownSatMax != 60 {
		t.Errorf("Unexpected browning thresholds: %+v", opts)
	}
}

func TestChainedOptions(t *testing.T) {
	opts := DefaultOptions().
		WithDarkSpotThreshold(0.25, 30).
		WithGreenRange(30, 90, 50).
		WithoutWorkerPool()

	if opts.DarkSpotPercentile != 0.25 || opts.DarkSpotValueMax != 30 {
		t.Errorf("Unexpected dark spot thresholds: %+v", opts)
	}
	if opts.GreenHueMin != 30 || opts.GreenHueMax != 90 || opts.GreenSatMin != 50 {
		t.Errorf("Unexpected green range: %+v", opts)
	}
	if opts.UseWorkerPool {
		t.Error("Expected UseWorkerPool to be false")
	}

	// Value receivers leave the defaults intact
	if !DefaultOptions().UseWorkerPool {
		t.Error("Expected defaults to be unchanged")
	}
}
