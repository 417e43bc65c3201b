package analyzer

import "image"

// DiagnosticAnalyzer turns a plant photograph into a health diagnosis
type DiagnosticAnalyzer interface {
	Diagnose(img image.Image) (Diagnosis, error)
	DiagnoseWithOptions(img image.Image, options Options) (Diagnosis, error)

	// PoolStats reports the counters of the shared worker pool
	PoolStats() PoolStats

	// Lifecycle management
	Close() error
}

// StatsCalculator computes HSV channel statistics
type StatsCalculator interface {
	CalculateHSVStats(img image.Image, options Options) (HSVStats, error)
}
