package api

// GenerateResponse is returned when the audio was stored and can be fetched by URL
type GenerateResponse struct {
	Message  string `json:"message"`
	AudioURL string `json:"audio_url"`
	Filename string `json:"filename"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is returned by the health check
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Storage bool   `json:"storage"`
}
