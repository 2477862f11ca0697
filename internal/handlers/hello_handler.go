package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"workout-planner-api/internal/models"
	"workout-planner-api/pkg/lambda"
)

// HelloHandler answers every request with a fixed greeting
type HelloHandler struct{}

// NewHelloHandler creates a new hello handler
func NewHelloHandler() *HelloHandler {
	return &HelloHandler{}
}

// @Summary Static greeting
// @Description Returns a fixed greeting regardless of input
// @Tags hello
// @Produce json
// @Success 200 {object} models.MessageResponse
// @Router /hello [get]
// @Router /hello [post]
func (h *HelloHandler) Hello(c *gin.Context) {
	serveGin(c, h.HandleHello)
}

// HandleHello is the Lambda entry point for the greeting
func (h *HelloHandler) HandleHello(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	return messageResponse(http.StatusOK, models.HelloWorldMessage), nil
}
