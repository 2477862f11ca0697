package services

import (
	"fmt"

	"workout-planner-api/internal/adapters/completion"
)

// ServiceContainer holds all service instances
type ServiceContainer struct {
	WorkoutService WorkoutService
}

// ServiceConfig holds configuration for services
type ServiceConfig struct {
	CompletionProvider completion.Provider
}

// NewServiceContainer creates a new service container with all services
func NewServiceContainer(config *ServiceConfig) (*ServiceContainer, error) {
	if config == nil || config.CompletionProvider == nil {
		return nil, fmt.Errorf("completion provider cannot be nil")
	}

	return &ServiceContainer{
		WorkoutService: NewWorkoutService(config.CompletionProvider),
	}, nil
}

// Validate validates that all services are properly initialized
func (sc *ServiceContainer) Validate() error {
	if sc.WorkoutService == nil {
		return fmt.Errorf("workout service is nil")
	}
	return nil
}

// Close performs cleanup for all services
func (sc *ServiceContainer) Close() error {
	return nil
}
