package analyzer

// Options carries the thresholds of the diagnostic heuristics. All hue values
// are on the 0-179 scale, saturation and value on 0-255.
type Options struct {
	// Yellowing: YellowHueMin < H < YellowHueMax and S > YellowSatMin
	YellowHueMin float64
	YellowHueMax float64
	YellowSatMin float64

	// Browning: V < BrownValueMax and S < BrownSatMax
	BrownValueMax float64
	BrownSatMax   float64

	// Dark spots: value percentile below DarkSpotValueMax
	DarkSpotPercentile float64
	DarkSpotValueMax   float64

	// Health score: GreenHueMin < h < GreenHueMax and s > GreenSatMin
	GreenHueMin      float64
	GreenHueMax      float64
	GreenSatMin      float64
	HealthMultiplier float64

	// Performance options
	UseWorkerPool     bool
	MinParallelPixels int
}

// DefaultOptions returns the production thresholds
func DefaultOptions() Options {
	return Options{
		YellowHueMin:       40,
		YellowHueMax:       70,
		YellowSatMin:       100,
		BrownValueMax:      80,
		BrownSatMax:        50,
		DarkSpotPercentile: 0.10,
		DarkSpotValueMax:   40,
		GreenHueMin:        35,
		GreenHueMax:        85,
		GreenSatMin:        40,
		HealthMultiplier:   300,
		UseWorkerPool:      true,
		MinParallelPixels:  64 * 64,
	}
}

// WithYellowingThresholds overrides the yellowing rule bounds
func (opts Options) WithYellowingThresholds(hueMin, hueMax, satMin float64) Options {
	opts.YellowHueMin = hueMin
	opts.YellowHueMax = hueMax
	opts.YellowSatMin = satMin
	return opts
}

// WithBrowningThresholds overrides the browning rule bounds
func (opts Options) WithBrowningThresholds(valueMax, satMax float64) Options {
	opts.BrownValueMax = valueMax
	opts.BrownSatMax = satMax
	return opts
}

// WithDarkSpotThreshold overrides the dark spot percentile and cutoff
func (opts Options) WithDarkSpotThreshold(percentile, valueMax float64) Options {
	opts.DarkSpotPercentile = percentile
	opts.DarkSpotValueMax = valueMax
	return opts
}

// WithGreenRange overrides the green pixel classification
func (opts Options) WithGreenRange(hueMin, hueMax, satMin float64) Options {
	opts.GreenHueMin = hueMin
	opts.GreenHueMax = hueMax
	opts.GreenSatMin = satMin
	return opts
}

// WithoutWorkerPool computes statistics on the calling goroutine
func (opts Options) WithoutWorkerPool() Options {
	opts.UseWorkerPool = false
	return opts
}
