package main

import (
	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"

	"workout-planner-api/internal/config"
	"workout-planner-api/internal/handlers"
	"workout-planner-api/internal/logging"
	"workout-planner-api/pkg/lambda"
)

func main() {
	if err := logging.Setup(config.GetEnv("LOG_LEVEL", "info"), "json"); err != nil {
		logrus.Fatalf("Failed to configure logging: %v", err)
	}

	helloHandler := handlers.NewHelloHandler()
	awslambda.Start(lambda.Wrap(helloHandler.HandleHello, lambda.WithRawBody()))
}
