package http

// APIResponse represents standard API response.
type APIResponse struct {
	Status  int         `json:"status" example:"200"`
	Message string      `json:"message" example:"OK"`
	Data    interface{} `json:"data,omitempty"`
}

// APIResponse400Err represents 400 error response.
type APIResponse400Err struct {
	Status  int               `json:"status" example:"400"`
	Message string            `json:"message" example:"Bad Request"`
	Data    []ValidationError `json:"data,omitempty"`
}

// ErrorResponse is the body of a failed call that the caller may retry or
// surface as-is.
type ErrorResponse struct {
	Code      string `json:"code" example:"ERR_TIMEOUT"`
	Message   string `json:"message" example:"The scoring service did not respond in time."`
	Field     string `json:"field,omitempty" example:"vision"`
	Retryable bool   `json:"retryable" example:"true"`
}

// ValidationError represents validation error detail.
type ValidationError struct {
	Code    string                 `json:"code,omitempty" example:"ERR_REQUIRED"`
	Field   string                 `json:"field,omitempty" example:"vision"`
	Message string                 `json:"message,omitempty" example:"vision is required"`
	Params  map[string]interface{} `json:"params,omitempty"`
}
