package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"workout-planner-api/internal/adapters/completion"
	"workout-planner-api/internal/models"
)

const promptTemplate = "Create a %s-minute %s workout plan focusing on: %s. \n" +
	"    Include specific exercises, sets, reps, and rest periods. Format the response in a clear, structured way."

// workoutService implements the WorkoutService interface
type workoutService struct {
	provider completion.Provider
}

// NewWorkoutService creates a new workout service backed by provider
func NewWorkoutService(provider completion.Provider) WorkoutService {
	return &workoutService{
		provider: provider,
	}
}

// PlanWorkout validates the body, builds the prompt and asks the provider for a plan
func (s *workoutService) PlanWorkout(ctx context.Context, body []byte) (*WorkoutPlan, error) {
	req, err := models.ParseWorkoutRequest(body)
	if err != nil {
		return nil, err
	}

	prompt := s.BuildPrompt(req)

	logrus.WithFields(logrus.Fields{
		"training_goal": req.TrainingGoal,
		"time":          req.Time,
		"body_parts":    req.SelectedBodyParts(),
	}).Debug("Requesting workout plan")

	text, err := s.provider.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate workout plan: %w", err)
	}

	return &WorkoutPlan{
		Request: req,
		Prompt:  prompt,
		Text:    text,
	}, nil
}

// BuildPrompt renders the prompt for a validated request
func (s *workoutService) BuildPrompt(req *models.WorkoutRequest) string {
	selected := req.SelectedBodyParts()
	names := make([]string, 0, len(selected))
	for _, part := range selected {
		names = append(names, string(part))
	}

	return fmt.Sprintf(promptTemplate, req.FormatMinutes(), req.GoalDescription(), strings.Join(names, ", "))
}
