package analyzer

import "strings"

// Condition names the cascade branch that fired
type Condition string

const (
	ConditionYellowing Condition = "yellowing"
	ConditionBrowning  Condition = "browning"
	ConditionDarkSpots Condition = "dark_spots"
	ConditionHealthy   Condition = "healthy"
)

// HSVStats holds per-image channel statistics on the 8-bit OpenCV scale
// (hue 0-179, saturation and value 0-255).
type HSVStats struct {
	MeanHue         float64 `json:"mean_hue"`
	MeanSaturation  float64 `json:"mean_saturation"`
	MeanValue       float64 `json:"mean_value"`
	ValuePercentile float64 `json:"value_percentile"`
	GreenPixels     int     `json:"green_pixels"`
	TotalPixels     int     `json:"total_pixels"`
}

// Diagnosis is the outcome of a single image analysis
type Diagnosis struct {
	Condition   Condition `json:"condition"`
	Severity    int       `json:"severity,omitempty"`
	HealthScore int       `json:"health_score"`
	Findings    []string  `json:"findings"`
	Stats       HSVStats  `json:"stats"`
}

// String renders the findings as the multi-line diagnosis text
func (d Diagnosis) String() string {
	return strings.Join(d.Findings, "\n")
}

// histogram accumulates 8-bit channel counts for one strip of pixels
type histogram struct {
	hue, sat, val [256]float64
	green         int
	pixels        int
}

func (h *histogram) merge(other *histogram) {
	for i := range h.hue {
		h.hue[i] += other.hue[i]
		h.sat[i] += other.sat[i]
		h.val[i] += other.val[i]
	}
	h.green += other.green
	h.pixels += other.pixels
}
