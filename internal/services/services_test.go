package services

import (
	"testing"

	"workout-planner-api/internal/adapters/completion"
)

// TestServiceInterfaces verifies that the service implementations satisfy their interfaces
func TestServiceInterfaces(t *testing.T) {
	var _ WorkoutService = (*workoutService)(nil)

	var workoutSvc WorkoutService
	if workoutSvc != nil {
		t.Error("workoutSvc should be nil in test")
	}
}

func TestNewServiceContainer(t *testing.T) {
	if _, err := NewServiceContainer(nil); err == nil {
		t.Error("Expected error for nil config")
	}

	if _, err := NewServiceContainer(&ServiceConfig{}); err == nil {
		t.Error("Expected error for missing completion provider")
	}

	container, err := NewServiceContainer(&ServiceConfig{
		CompletionProvider: completion.NewMockProvider("plan"),
	})
	if err != nil {
		t.Fatalf("Failed to create service container: %v", err)
	}

	if err := container.Validate(); err != nil {
		t.Errorf("Container validation failed: %v", err)
	}
	if err := container.Close(); err != nil {
		t.Errorf("Container close failed: %v", err)
	}

	empty := &ServiceContainer{}
	if err := empty.Validate(); err == nil {
		t.Error("Expected validation error for empty container")
	}
}
