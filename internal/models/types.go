package models

// MessageResponse is the body of every informational or error response
type MessageResponse struct {
	Message string `json:"message"`
}

// WorkoutPlanResponse is the body of a successful workout plan response
type WorkoutPlanResponse struct {
	WorkoutPlan string `json:"workoutPlan"`
}

// Fixed response messages
const (
	HelloWorldMessage     = "Hello World"
	InternalErrorMessage  = "Internal server error"
	NotFoundMessage       = "Not found"
	RateLimitedMessage    = "Too many requests"
	RequestTooLargeFormat = "Request body exceeds %d bytes"
)

// ValidationError represents a validation error with field-specific details
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Error implements the error interface
func (ve *ValidationError) Error() string {
	return ve.Message
}

// HealthCheck represents system health status
type HealthCheck struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
	Mode    string `json:"mode"`
}
