package analyzer

import (
	"fmt"
	"math"
)

// Rule is one entry of the diagnostic cascade. Rules are evaluated in order
// and the first matching rule wins.
type Rule struct {
	Condition Condition
	Matches   func(stats HSVStats, opts Options) bool
	Finding   func(stats HSVStats, opts Options) string
}

// Cascade returns the diagnostic rules in priority order. The order is part
// of the contract: a later rule is only consulted when every earlier rule
// failed, even if its own condition also holds.
func Cascade() []Rule {
	return []Rule{
		{
			Condition: ConditionYellowing,
			Matches: func(s HSVStats, o Options) bool {
				return s.MeanHue > o.YellowHueMin && s.MeanHue < o.YellowHueMax && s.MeanSaturation > o.YellowSatMin
			},
			Finding: func(s HSVStats, o Options) string {
				return fmt.Sprintf("Detected leaf yellowing (%d%% severity)", YellowingSeverity(s.MeanHue, o))
			},
		},
		{
			Condition: ConditionBrowning,
			Matches: func(s HSVStats, o Options) bool {
				return s.MeanValue < o.BrownValueMax && s.MeanSaturation < o.BrownSatMax
			},
			Finding: constFinding("Detected leaf browning/drying"),
		},
		{
			Condition: ConditionDarkSpots,
			Matches: func(s HSVStats, o Options) bool {
				return s.ValuePercentile < o.DarkSpotValueMax
			},
			Finding: constFinding("Detected dark spots on leaves"),
		},
		{
			Condition: ConditionHealthy,
			Matches:   func(HSVStats, Options) bool { return true },
			Finding:   constFinding("No major issues detected"),
		},
	}
}

func constFinding(text string) func(HSVStats, Options) string {
	return func(HSVStats, Options) string { return text }
}

// Evaluate runs the cascade and returns the first matching rule
func Evaluate(rules []Rule, stats HSVStats, opts Options) (Rule, bool) {
	for _, rule := range rules {
		if rule.Matches(stats, opts) {
			return rule, true
		}
	}
	return Rule{}, false
}

// YellowingSeverity maps the mean hue onto 0-100 across the yellowing band
func YellowingSeverity(meanHue float64, opts Options) int {
	span := opts.YellowHueMax - opts.YellowHueMin
	if span <= 0 {
		return 0
	}
	return clampPercent((meanHue - opts.YellowHueMin) / span * 100)
}

// HealthScore is the share of green pixels scaled by the health multiplier
func HealthScore(stats HSVStats, opts Options) int {
	if stats.TotalPixels == 0 {
		return 0
	}
	return clampPercent(float64(stats.GreenPixels) / float64(stats.TotalPixels) * opts.HealthMultiplier)
}

// clampPercent bounds v to [0,100] and truncates toward zero
func clampPercent(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	return int(math.Max(0, math.Min(100, v)))
}
