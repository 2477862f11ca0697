package server

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"workout-planner-api/internal/metrics"

	"workout-planner-api/internal/adapters/completion"
	"workout-planner-api/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		Port:        "8080",
		OpenAI: config.OpenAIConfig{
			APIKey: "sk-test",
			Model:  "gpt-4o-mini",
		},
	}
}

// TestNewContainer verifies that the container can be created successfully
func TestNewContainer(t *testing.T) {
	container, err := NewContainer(testConfig())
	if err != nil {
		t.Fatalf("Failed to create container: %v", err)
	}

	if container.WorkoutService == nil {
		t.Error("WorkoutService is nil")
	}
	if container.Metrics == nil {
		t.Error("Metrics is nil")
	}

	if err := container.Close(); err != nil {
		t.Errorf("Failed to close container: %v", err)
	}
}

func TestNewContainer_RequiresAPIKey(t *testing.T) {
	cfg := testConfig()
	cfg.OpenAI.APIKey = ""

	if _, err := NewContainer(cfg); err == nil {
		t.Error("Expected error when OPENAI_API_KEY is missing")
	}
}

func TestNewContainerWithProvider(t *testing.T) {
	provider := completion.NewMockProvider("PLAN")

	container, err := NewContainerWithProvider(testConfig(), provider)
	if err != nil {
		t.Fatalf("Failed to create container: %v", err)
	}
	defer container.Close()

	body := []byte(`{"trainingGoal":"Endurance","time":60,"bodyParts":{"Chest":false,"Legs":true,"Back":false,"Abs":false}}`)
	plan, err := container.WorkoutService.PlanWorkout(context.Background(), body)
	if err != nil {
		t.Fatalf("PlanWorkout failed: %v", err)
	}
	if plan.Text != "PLAN" {
		t.Errorf("Expected PLAN, got %q", plan.Text)
	}
	if provider.CallCount() != 1 {
		t.Errorf("Expected 1 provider call, got %d", provider.CallCount())
	}

	if _, err := NewContainerWithProvider(testConfig(), nil); err == nil {
		t.Error("Expected error for nil provider")
	}
}

func scrape(t *testing.T, c *Container) string {
	t.Helper()
	rec := httptest.NewRecorder()
	c.Metrics.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	return rec.Body.String()
}

func TestNewContainer_MetricsPerMode(t *testing.T) {
	tests := []struct {
		name         string
		functionName string
		mode         string
		runtimeStats bool
	}{
		{"local server", "", "server", true},
		{"lambda", "workoutPlanner", "serverless", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("AWS_LAMBDA_FUNCTION_NAME", tt.functionName)

			container, err := NewContainerWithProvider(testConfig(), completion.NewMockProvider("PLAN"))
			if err != nil {
				t.Fatalf("Failed to create container: %v", err)
			}
			container.Metrics.ObserveWorkout(metrics.OutcomeSuccess, 1)

			body := scrape(t, container)
			want := `workout_planner_api_workout_plans_total{mode="` + tt.mode + `",outcome="success"} 1`
			if !strings.Contains(body, want) {
				t.Errorf("Expected %s in scrape output", want)
			}
			if got := strings.Contains(body, "go_goroutines"); got != tt.runtimeStats {
				t.Errorf("go_goroutines exposed = %v, want %v", got, tt.runtimeStats)
			}
		})
	}
}
