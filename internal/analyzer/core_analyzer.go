package analyzer

import (
	"fmt"
	"image"

	apperrors "github.com/AphiweJoko/AgriAssist/internal/errors"
)

// coreAnalyzer implements DiagnosticAnalyzer
type coreAnalyzer struct {
	workerPool      *WorkerPool
	statsCalculator StatsCalculator
	rules           []Rule
	options         Options
}

// NewDiagnosticAnalyzer creates an analyzer backed by a worker pool of the
// given size (0 uses the CPU count)
func NewDiagnosticAnalyzer(workers int) (DiagnosticAnalyzer, error) {
	return NewDiagnosticAnalyzerWithOptions(workers, DefaultOptions())
}

// NewDiagnosticAnalyzerWithOptions creates an analyzer with custom default thresholds
func NewDiagnosticAnalyzerWithOptions(workers int, options Options) (DiagnosticAnalyzer, error) {
	if workers < 0 {
		return nil, fmt.Errorf("worker count must be >= 0 (got %d)", workers)
	}

	workerPool := NewWorkerPool(workers)
	workerPool.Start()

	return &coreAnalyzer{
		workerPool:      workerPool,
		statsCalculator: NewStatsCalculator(workerPool),
		rules:           Cascade(),
		options:         options,
	}, nil
}

// Diagnose analyzes img with the analyzer's default thresholds
func (ca *coreAnalyzer) Diagnose(img image.Image) (Diagnosis, error) {
	return ca.DiagnoseWithOptions(img, ca.options)
}

// DiagnoseWithOptions runs the HSV statistics, the rule cascade and the
// health score. The health score line is always the last finding.
func (ca *coreAnalyzer) DiagnoseWithOptions(img image.Image, options Options) (Diagnosis, error) {
	if img == nil {
		return Diagnosis{}, apperrors.NewProcessingError("image processing failed", fmt.Errorf("nil image"))
	}

	stats, err := ca.statsCalculator.CalculateHSVStats(img, options)
	if err != nil {
		return Diagnosis{}, apperrors.NewProcessingError("image processing failed", err)
	}

	rule, ok := Evaluate(ca.rules, stats, options)
	if !ok {
		return Diagnosis{}, apperrors.NewInternalError("no diagnostic rule matched", nil)
	}

	diagnosis := Diagnosis{
		Condition:   rule.Condition,
		HealthScore: HealthScore(stats, options),
		Stats:       stats,
	}
	if rule.Condition == ConditionYellowing {
		diagnosis.Severity = YellowingSeverity(stats.MeanHue, options)
	}
	diagnosis.Findings = []string{
		rule.Finding(stats, options),
		fmt.Sprintf("Plant health score: %d/100", diagnosis.HealthScore),
	}

	return diagnosis, nil
}

func (ca *coreAnalyzer) PoolStats() PoolStats {
	return ca.workerPool.GetStats()
}

// Close stops the worker pool
func (ca *coreAnalyzer) Close() error {
	ca.workerPool.Close()
	return nil
}
