package models

// AnalyzeResponse is the body of POST /analyze. Null analyses mean the
// branch did not run.
type AnalyzeResponse struct {
	Status        string  `json:"status"`
	TextAnalysis  *string `json:"text_analysis"`
	ImageAnalysis *string `json:"image_analysis"`
	Message       string  `json:"message"`
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// ErrorResponse represents an error outside the analysis pipeline
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
