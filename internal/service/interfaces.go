package service

import "context"

// AdviceGenerator produces care advice for a free-text problem description
type AdviceGenerator interface {
	GenerateAdvice(ctx context.Context, problem string) (string, error)
}

// FollowUpGenerator produces follow-up questions for an image diagnosis
type FollowUpGenerator interface {
	GenerateFollowUp(ctx context.Context, diagnosis string) (string, error)
}

// AnalysisService runs the multi-modal analysis pipeline
type AnalysisService interface {
	Analyze(ctx context.Context, req AnalysisRequest) (*AnalysisResult, error)
}
