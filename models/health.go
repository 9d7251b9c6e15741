package models

// HealthCheckResponse returns the health check response
type HealthCheckResponse struct {
	Alive  bool `json:"alive"`
	Online bool `json:"online"`
}
