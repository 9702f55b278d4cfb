package models

// AnalysisRequest asks the service to assess a remote image.
type AnalysisRequest struct {
	URL string `json:"url" binding:"required,url"`
}

// AssessmentResponse is returned by the upload and analyze endpoints.
type AssessmentResponse struct {
	Success bool              `json:"success"`
	Results *AssessmentReport `json:"results"`
	Report  string            `json:"report"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// FormatsResponse lists the file extensions accepted for upload.
type FormatsResponse struct {
	Raster []string `json:"raster"`
	Raw    []string `json:"raw"`
}

// AssessmentStats is a snapshot of the service counters.
type AssessmentStats struct {
	TotalAssessments      int64                 `json:"total_assessments"`
	SuccessfulAssessments int64                 `json:"successful_assessments"`
	FailedAssessments     int64                 `json:"failed_assessments"`
	AvgProcessingTimeMs   float64               `json:"avg_processing_time_ms"`
	ByOverallQuality      map[QualityTier]int64 `json:"by_overall_quality"`
}
