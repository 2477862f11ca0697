package main

import (
	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"

	"workout-planner-api/internal/config"
	"workout-planner-api/internal/handlers"
	"workout-planner-api/internal/logging"
	"workout-planner-api/pkg/lambda"
	"workout-planner-api/pkg/server"
)

func main() {
	cfg, err := config.GetOptimizedConfig()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logging.Setup(cfg.Log.Level, cfg.Log.Format); err != nil {
		logrus.Fatalf("Failed to configure logging: %v", err)
	}

	// Built once per execution environment and reused across invocations
	container, err := server.NewContainer(cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialize container: %v", err)
	}

	workoutHandler := handlers.NewWorkoutHandler(container.WorkoutService, container.Metrics)
	awslambda.Start(lambda.Wrap(workoutHandler.HandleWorkout))
}
