package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/AphiweJoko/AgriAssist/internal/analyzer"
	apperrors "github.com/AphiweJoko/AgriAssist/internal/errors"
	"github.com/AphiweJoko/AgriAssist/internal/logger"
	"github.com/AphiweJoko/AgriAssist/internal/observer"
	"github.com/AphiweJoko/AgriAssist/internal/repository"
)

// Degraded text used in place of a failed branch
const (
	decodeFailureText    = "Could not read image file"
	processingFailureFmt = "Image processing failed: %s"
	imageErrorFmt        = "Image analysis error: %s"
	adviceErrorFmt       = "AI analysis error: %s"
	followUpErrorFmt     = "Could not generate follow-up questions: %s"
)

// analysisService implements AnalysisService
type analysisService struct {
	images    repository.ImageRepository
	analyzer  analyzer.DiagnosticAnalyzer
	advice    AdviceGenerator
	followUp  FollowUpGenerator
	publisher observer.Subject
}

// NewAnalysisService creates the orchestrator. publisher may be nil.
func NewAnalysisService(
	images repository.ImageRepository,
	diagnosticAnalyzer analyzer.DiagnosticAnalyzer,
	advice AdviceGenerator,
	followUp FollowUpGenerator,
	publisher observer.Subject,
) AnalysisService {
	return &analysisService{
		images:    images,
		analyzer:  diagnosticAnalyzer,
		advice:    advice,
		followUp:  followUp,
		publisher: publisher,
	}
}

// Analyze runs advice for text, diagnosis for an image and, when only an
// image was given, follow-up questions on its diagnosis. Branch failures
// degrade to descriptive text; only a request with no usable input is an
// error.
func (s *analysisService) Analyze(ctx context.Context, req AnalysisRequest) (*AnalysisResult, error) {
	start := time.Now()
	text := strings.TrimSpace(req.Text)
	hasText := text != ""
	hasImage := len(req.Image) > 0

	s.publish(ctx, observer.AnalysisEvent{
		EventType: observer.AnalysisStarted,
		RequestID: req.RequestID,
		Success:   true,
		Metadata: map[string]interface{}{
			observer.MetaHasText:  hasText,
			observer.MetaHasImage: hasImage,
		},
	})

	result := &AnalysisResult{}

	if hasText {
		advice, err := s.advice.GenerateAdvice(ctx, text)
		if err != nil {
			s.completionFailed(ctx, req.RequestID, "advice", err)
			advice = fmt.Sprintf(adviceErrorFmt, describe(err))
		}
		result.TextAnalysis = &advice
	}

	if hasImage {
		imageText, analyzed := s.diagnose(ctx, req)
		result.ImageAnalysis = &imageText

		if analyzed && !hasText {
			followUp, err := s.followUp.GenerateFollowUp(ctx, imageText)
			if err != nil {
				s.completionFailed(ctx, req.RequestID, "follow_up", err)
				followUp = fmt.Sprintf(followUpErrorFmt, describe(err))
			}
			result.TextAnalysis = &followUp
		}
	}

	message, ok := MergeMessage(result.TextAnalysis, result.ImageAnalysis)
	if !ok {
		result.Status = StatusError
		result.TextAnalysis = nil
		result.ImageAnalysis = nil
		result.Message = NoInputMessage
		s.publish(ctx, observer.AnalysisEvent{
			EventType:      observer.AnalysisRejected,
			RequestID:      req.RequestID,
			ProcessingTime: time.Since(start),
			ErrorMessage:   NoInputMessage,
		})
		return result, apperrors.NewValidationError(NoInputMessage, nil)
	}

	result.Status = StatusSuccess
	result.Message = message
	s.publish(ctx, observer.AnalysisEvent{
		EventType:      observer.AnalysisCompleted,
		RequestID:      req.RequestID,
		ProcessingTime: time.Since(start),
		Success:        true,
	})
	return result, nil
}

// diagnose stages, decodes and analyzes the upload. The boolean reports
// whether the analyzer ran to an outcome, which includes decode and
// processing failures. Staging failures and panics report false.
func (s *analysisService) diagnose(ctx context.Context, req AnalysisRequest) (text string, analyzed bool) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			logger.WithFields(logrus.Fields{
				"request_id": req.RequestID,
				"panic":      r,
			}).Error("Recovered from panic in image analysis")
			text = fmt.Sprintf(imageErrorFmt, fmt.Sprint(r))
			analyzed = false
			s.diagnosisFailed(ctx, req.RequestID, start, text)
		}
	}()

	img, meta, err := s.images.LoadUpload(ctx, req.ImageName, req.Image)
	if err != nil {
		s.diagnosisFailed(ctx, req.RequestID, start, err.Error())
		if apperrors.IsType(err, apperrors.ErrorTypeDecode) {
			return decodeFailureText, true
		}
		return fmt.Sprintf(imageErrorFmt, describe(err)), false
	}

	diagnosis, err := s.analyzer.Diagnose(img)
	if err != nil {
		s.diagnosisFailed(ctx, req.RequestID, start, err.Error())
		return fmt.Sprintf(processingFailureFmt, describe(err)), true
	}

	s.publish(ctx, observer.AnalysisEvent{
		EventType:      observer.ImageDiagnosed,
		RequestID:      req.RequestID,
		ProcessingTime: time.Since(start),
		Success:        true,
		Metadata: map[string]interface{}{
			observer.MetaCondition:   string(diagnosis.Condition),
			observer.MetaHealthScore: diagnosis.HealthScore,
			observer.MetaFormat:      meta.Format,
		},
	})
	return diagnosis.String(), true
}

func (s *analysisService) diagnosisFailed(ctx context.Context, requestID string, start time.Time, msg string) {
	s.publish(ctx, observer.AnalysisEvent{
		EventType:      observer.ImageDiagnosisFailed,
		RequestID:      requestID,
		ProcessingTime: time.Since(start),
		ErrorMessage:   msg,
	})
}

func (s *analysisService) completionFailed(ctx context.Context, requestID, generator string, err error) {
	s.publish(ctx, observer.AnalysisEvent{
		EventType:    observer.CompletionFailed,
		RequestID:    requestID,
		ErrorMessage: err.Error(),
		Metadata:     map[string]interface{}{observer.MetaGenerator: generator},
	})
}

func (s *analysisService) publish(ctx context.Context, event observer.AnalysisEvent) {
	if s.publisher == nil {
		return
	}
	s.publisher.NotifyObservers(ctx, event)
}

// describe renders an error for the degraded response text, preferring the
// underlying cause of application errors
func describe(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Cause != nil {
			return appErr.Cause.Error()
		}
		return appErr.Message
	}
	return err.Error()
}
