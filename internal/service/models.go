package service

// Status of an analysis result
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// NoInputMessage is returned when a request carries neither text nor image
const NoInputMessage = "No valid input provided"

// AnalysisRequest is one user submission. Text is trimmed by the service and
// a zero-length Image counts as absent.
type AnalysisRequest struct {
	RequestID string
	Text      string
	Image     []byte
	ImageName string
}

// AnalysisResult is the composed response for one request. A nil analysis
// means that branch did not run.
type AnalysisResult struct {
	Status        Status
	TextAnalysis  *string
	ImageAnalysis *string
	Message       string
}

// MergeMessage composes the human-readable message from the two analyses.
// Returns false when neither carries any text.
func MergeMessage(textAnalysis, imageAnalysis *string) (string, bool) {
	text := deref(textAnalysis)
	img := deref(imageAnalysis)

	switch {
	case text != "" && img != "":
		return "TEXT ANALYSIS:\n" + text + "\n\nIMAGE ANALYSIS:\n" + img, true
	case text != "":
		return text, true
	case img != "":
		return img, true
	default:
		return "", false
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
