package analyzer

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func TestRGBToHSV(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		h, s, v uint8
	}{
		{"black", 0, 0, 0, 0, 0, 0},
		{"gray", 128, 128, 128, 0, 0, 128},
		{"red", 255, 0, 0, 0, 255, 255},
		{"green", 0, 255, 0, 60, 255, 255},
		{"blue", 0, 0, 255, 120, 255, 255},
		{"yellow-green leaf", 121, 200, 82, 50, 150, 200},
		{"dry leaf", 60, 55, 53, 9, 30, 60},
		{"hue wraps to zero", 255, 0, 1, 0, 255, 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, s, v := rgbToHSV(tt.r, tt.g, tt.b)
			if h != tt.h || s != tt.s || v != tt.v {
				t.Errorf("rgbToHSV(%d,%d,%d) = (%d,%d,%d), expected (%d,%d,%d)",
					tt.r, tt.g, tt.b, h, s, v, tt.h, tt.s, tt.v)
			}
		})
	}
}

func TestCalculateHSVStats_UniformImage(t *testing.T) {
	calc := NewStatsCalculator(nil)
	img := createTestImage(20, 10, color.RGBA{121, 200, 82, 255})

	stats, err := calc.CalculateHSVStats(img, DefaultOptions())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if stats.MeanHue != 50 || stats.MeanSaturation != 150 || stats.MeanValue != 200 {
		t.Errorf("Unexpected means: %+v", stats)
	}
	if stats.ValuePercentile != 200 {
		t.Errorf("Expected value percentile 200, got %v", stats.ValuePercentile)
	}
	if stats.TotalPixels != 200 || stats.GreenPixels != 200 {
		t.Errorf("Expected 200 green of 200 pixels, got %d of %d", stats.GreenPixels, stats.TotalPixels)
	}
}

func TestCalculateHSVStats_ValuePercentile(t *testing.T) {
	calc := NewStatsCalculator(nil)
	img := createSplitImage(10, 10, color.RGBA{0, 0, 0, 255}, color.RGBA{255, 255, 255, 255})

	stats, err := calc.CalculateHSVStats(img, DefaultOptions())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if stats.MeanValue != 127.5 {
		t.Errorf("Expected mean value 127.5, got %v", stats.MeanValue)
	}
	if stats.ValuePercentile != 0 {
		t.Errorf("Expected 10th percentile 0, got %v", stats.ValuePercentile)
	}
}

func TestCalculateHSVStats_PercentileInterpolatesBetweenRanks(t *testing.T) {
	calc := NewStatsCalculator(nil)
	img := createTenPercentDarkImage()

	stats, err := calc.CalculateHSVStats(img, DefaultOptions())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	// rank 0.9 lies between V=30 and V=200
	if math.Abs(stats.ValuePercentile-183) > 1e-9 {
		t.Errorf("Expected value percentile 183, got %v", stats.ValuePercentile)
	}
}

func TestHistogramPercentile(t *testing.T) {
	var hist [256]float64
	hist[10] = 2
	hist[20] = 1
	hist[50] = 1

	tests := []struct {
		p        float64
		expected float64
	}{
		{0, 10},
		{0.1, 10},
		{0.5, 15},
		{0.75, 27.5},
		{1, 50},
	}

	for _, tt := range tests {
		got := histogramPercentile(&hist, 4, tt.p)
		if math.Abs(got-tt.expected) > 1e-9 {
			t.Errorf("histogramPercentile(p=%v) = %v, expected %v", tt.p, got, tt.expected)
		}
	}
}

func TestCalculateHSVStats_ParallelMatchesSequential(t *testing.T) {
	pool := NewWorkerPool(4)
	pool.Start()
	defer pool.Close()

	img := createGradientImage(160, 120)
	calc := NewStatsCalculator(pool)

	parallel, err := calc.CalculateHSVStats(img, DefaultOptions())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	sequential, err := calc.CalculateHSVStats(img, DefaultOptions().WithoutWorkerPool())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if parallel != sequential {
		t.Errorf("Expected identical stats, got parallel=%+v sequential=%+v", parallel, sequential)
	}
	if pool.GetStats().TotalJobs == 0 {
		t.Error("Expected the parallel run to use the worker pool")
	}
}

func TestCalculateHSVStats_OffsetBounds(t *testing.T) {
	calc := NewStatsCalculator(nil)
	full := createTestImage(10, 10, color.RGBA{60, 55, 53, 255})
	sub := full.SubImage(image.Rect(3, 3, 8, 8))

	stats, err := calc.CalculateHSVStats(sub, DefaultOptions())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if stats.TotalPixels != 25 {
		t.Errorf("Expected 25 pixels, got %d", stats.TotalPixels)
	}
}

func TestCalculateHSVStats_EmptyImage(t *testing.T) {
	calc := NewStatsCalculator(nil)
	if _, err := calc.CalculateHSVStats(image.NewRGBA(image.Rect(0, 0, 0, 0)), DefaultOptions()); err == nil {
		t.Error("Expected error for empty image")
	}
}

func TestPixelReader_PaletteFallback(t *testing.T) {
	palette := color.Palette{color.RGBA{121, 200, 82, 255}}
	img := image.NewPaletted(image.Rect(0, 0, 4, 4), palette)

	stats, err := NewStatsCalculator(nil).CalculateHSVStats(img, DefaultOptions())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if stats.MeanHue != 50 {
		t.Errorf("Expected mean hue 50, got %v", stats.MeanHue)
	}
}
