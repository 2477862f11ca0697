package server

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"workout-planner-api/internal/adapters/completion"
	"workout-planner-api/internal/config"
	"workout-planner-api/internal/metrics"
	"workout-planner-api/internal/services"
)

// Metric names are fixed; the deployment mode is carried by the "mode" label
const (
	metricsNamespace = "workout_planner"
	metricsSubsystem = "api"
)

// Container holds all application dependencies
type Container struct {
	Config         *config.Config
	WorkoutService services.WorkoutService
	Metrics        *metrics.Manager

	// Internal dependencies
	provider completion.Provider
	services *services.ServiceContainer
}

// NewContainer creates a new dependency injection container backed by OpenAI
func NewContainer(cfg *config.Config) (*Container, error) {
	if err := cfg.RequireOpenAI(); err != nil {
		return nil, err
	}

	provider, err := completion.NewOpenAIProvider(completion.OpenAIConfig{
		APIKey:  cfg.OpenAI.APIKey,
		Model:   cfg.OpenAI.Model,
		BaseURL: cfg.OpenAI.BaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create completion provider: %w", err)
	}

	return NewContainerWithProvider(cfg, provider)
}

// NewContainerWithProvider creates a container around an existing provider
func NewContainerWithProvider(cfg *config.Config, provider completion.Provider) (*Container, error) {
	serviceContainer, err := services.NewServiceContainer(&services.ServiceConfig{
		CompletionProvider: provider,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create service container: %w", err)
	}
	if err := serviceContainer.Validate(); err != nil {
		return nil, fmt.Errorf("invalid service container: %w", err)
	}

	reg := prometheus.NewRegistry()
	if !config.IsServerlessMode() {
		// Only the local server exposes /metrics
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	mode := prometheus.Labels{"mode": config.GetDeploymentMode()}

	return &Container{
		Config:         cfg,
		WorkoutService: serviceContainer.WorkoutService,
		Metrics:        metrics.NewManager(metricsNamespace, metricsSubsystem, reg, mode),
		provider:       provider,
		services:       serviceContainer,
	}, nil
}

// Close cleans up all resources
func (c *Container) Close() error {
	if c.services != nil {
		if err := c.services.Close(); err != nil {
			return fmt.Errorf("failed to close services: %w", err)
		}
	}
	return nil
}
