package services

import (
	"context"

	"workout-planner-api/internal/models"
)

// WorkoutService defines the interface for workout planning operations
type WorkoutService interface {
	// PlanWorkout validates a raw request body and returns the generated plan text.
	// Validation failures are returned as *models.ValidationError; anything else is internal.
	PlanWorkout(ctx context.Context, body []byte) (*WorkoutPlan, error)

	// BuildPrompt renders the prompt sent to the completion provider
	BuildPrompt(req *models.WorkoutRequest) string
}

// WorkoutPlan is the result of a successful planning call
type WorkoutPlan struct {
	Request *models.WorkoutRequest
	Prompt  string
	Text    string
}
