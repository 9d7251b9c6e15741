package models

// ClassificationResult is the outcome of one classify invocation. It is
// never persisted.
type ClassificationResult struct {
	Category   CategoryLabel `json:"category"`
	Confidence float64       `json:"confidence"`
	Rationale  string        `json:"rationale"`
	Fallback   bool          `json:"fallback"`
}
