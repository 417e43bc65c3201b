package analyzer

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"
)

// binValues holds the 8-bit channel levels 0..255 used as the sample points
// for weighted histogram statistics.
var binValues = func() []float64 {
	v := make([]float64, 256)
	for i := range v {
		v[i] = float64(i)
	}
	return v
}()

// statsCalculator implements StatsCalculator. Pixels are converted in
// horizontal strips; each strip fills its own histogram so no state is
// shared between strips or between requests.
type statsCalculator struct {
	pool *WorkerPool
}

// NewStatsCalculator creates a calculator that fans strips out over pool.
// A nil pool computes everything on the calling goroutine.
func NewStatsCalculator(pool *WorkerPool) StatsCalculator {
	return &statsCalculator{pool: pool}
}

// CalculateHSVStats computes channel means, the value percentile and the
// green pixel count in a single pass over the image
func (sc *statsCalculator) CalculateHSVStats(img image.Image, options Options) (HSVStats, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return HSVStats{}, fmt.Errorf("image has no pixels (%dx%d)", width, height)
	}
	if options.DarkSpotPercentile < 0 || options.DarkSpotPercentile > 1 {
		return HSVStats{}, fmt.Errorf("percentile %v outside [0,1]", options.DarkSpotPercentile)
	}

	read := pixelReader(img)

	numStrips := 1
	if sc.pool != nil && options.UseWorkerPool && width*height >= options.MinParallelPixels {
		numStrips = sc.pool.Size()
		if height < numStrips {
			numStrips = height
		}
	}
	rowsPerStrip := (height + numStrips - 1) / numStrips // ceil division

	strips := make([]histogram, numStrips)
	if numStrips == 1 {
		scanStrip(read, bounds.Min.X, bounds.Max.X, bounds.Min.Y, bounds.Max.Y, options, &strips[0])
	} else {
		var wg sync.WaitGroup
		for i := 0; i < numStrips; i++ {
			startY := bounds.Min.Y + i*rowsPerStrip
			endY := startY + rowsPerStrip
			if i == numStrips-1 || endY > bounds.Max.Y {
				endY = bounds.Max.Y
			}
			hist := &strips[i]
			wg.Add(1)
			job := func() {
				defer wg.Done()
				scanStrip(read, bounds.Min.X, bounds.Max.X, startY, endY, options, hist)
			}
			if !sc.pool.Submit(job) {
				// Pool closed during shutdown; finish inline.
				job()
			}
		}
		wg.Wait()
	}

	total := &strips[0]
	for i := 1; i < len(strips); i++ {
		total.merge(&strips[i])
	}
	if total.pixels == 0 {
		return HSVStats{}, fmt.Errorf("no pixels processed")
	}

	return HSVStats{
		MeanHue:         stat.Mean(binValues, total.hue[:]),
		MeanSaturation:  stat.Mean(binValues, total.sat[:]),
		MeanValue:       stat.Mean(binValues, total.val[:]),
		ValuePercentile: histogramPercentile(&total.val, total.pixels, options.DarkSpotPercentile),
		GreenPixels:     total.green,
		TotalPixels:     total.pixels,
	}, nil
}

// histogramPercentile returns the p-quantile of the histogrammed samples,
// interpolating linearly between the two nearest ranks at p*(n-1).
func histogramPercentile(hist *[256]float64, n int, p float64) float64 {
	pos := p * float64(n-1)
	lo := int(math.Floor(pos))
	frac := pos - float64(lo)

	lower := valueAtRank(hist, lo)
	if frac == 0 {
		return lower
	}
	upper := valueAtRank(hist, lo+1)
	return lower + frac*(upper-lower)
}

// valueAtRank returns the level of the zero-based rank-th sample in sorted order
func valueAtRank(hist *[256]float64, rank int) float64 {
	cum := 0.0
	for level, count := range hist {
		cum += count
		if float64(rank) < cum {
			return float64(level)
		}
	}
	return 255
}

func scanStrip(read func(x, y int) (uint8, uint8, uint8), minX, maxX, startY, endY int, options Options, hist *histogram) {
	for y := startY; y < endY; y++ {
		for x := minX; x < maxX; x++ {
			r, g, b := read(x, y)
			h, s, v := rgbToHSV(r, g, b)
			hist.hue[h]++
			hist.sat[s]++
			hist.val[v]++
			hist.pixels++

			hf, sf := float64(h), float64(s)
			if hf > options.GreenHueMin && hf < options.GreenHueMax && sf > options.GreenSatMin {
				hist.green++
			}
		}
	}
}

// pixelReader returns a fast 8-bit RGB accessor for the common decoded types
func pixelReader(img image.Image) func(x, y int) (uint8, uint8, uint8) {
	switch src := img.(type) {
	case *image.YCbCr:
		return func(x, y int) (uint8, uint8, uint8) {
			c := src.YCbCrAt(x, y)
			return color.YCbCrToRGB(c.Y, c.Cb, c.Cr)
		}
	case *image.NRGBA:
		return func(x, y int) (uint8, uint8, uint8) {
			c := src.NRGBAAt(x, y)
			return c.R, c.G, c.B
		}
	case *image.RGBA:
		return func(x, y int) (uint8, uint8, uint8) {
			c := src.RGBAAt(x, y)
			return c.R, c.G, c.B
		}
	default:
		return func(x, y int) (uint8, uint8, uint8) {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			return c.R, c.G, c.B
		}
	}
}

// rgbToHSV converts an 8-bit RGB pixel to HSV on the OpenCV 8-bit scale:
// hue in [0,180), saturation and value in [0,255].
func rgbToHSV(r, g, b uint8) (h, s, v uint8) {
	rf, gf, bf := float64(r), float64(g), float64(b)
	max := math.Max(rf, math.Max(gf, bf))
	min := math.Min(rf, math.Min(gf, bf))
	delta := max - min

	v = uint8(max)
	if max == 0 {
		s = 0
	} else {
		s = uint8(math.Round(255 * delta / max))
	}

	if delta == 0 {
		return 0, s, v
	}

	var hue float64
	switch max {
	case rf:
		hue = 60 * (gf - bf) / delta
	case gf:
		hue = 120 + 60*(bf-rf)/delta
	default:
		hue = 240 + 60*(rf-gf)/delta
	}
	if hue < 0 {
		hue += 360
	}

	hh := math.Round(hue / 2)
	if hh >= 180 {
		hh -= 180
	}
	return uint8(hh), s, v
}
