package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"workout-planner-api/internal/metrics"
	"workout-planner-api/internal/models"
	"workout-planner-api/internal/services"
	"workout-planner-api/pkg/lambda"
)

// WorkoutHandler handles workout plan requests
type WorkoutHandler struct {
	workoutService services.WorkoutService
	metrics        *metrics.Manager
}

// NewWorkoutHandler creates a new workout handler. m may be nil.
func NewWorkoutHandler(workoutService services.WorkoutService, m *metrics.Manager) *WorkoutHandler {
	return &WorkoutHandler{
		workoutService: workoutService,
		metrics:        m,
	}
}

// @Summary Generate a workout plan
// @Description Validate the request and ask the completion provider for a workout plan
// @Tags workout
// @Accept json
// @Produce json
// @Param request body models.WorkoutRequestDoc true "Workout request"
// @Success 200 {object} models.WorkoutPlanResponse
// @Failure 400 {object} models.MessageResponse
// @Failure 500 {object} models.MessageResponse
// @Router /workout [post]
func (h *WorkoutHandler) PlanWorkout(c *gin.Context) {
	serveGin(c, h.HandleWorkout)
}

// HandleWorkout is the Lambda entry point for workout plans
func (h *WorkoutHandler) HandleWorkout(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	start := time.Now()
	logger := logrus.WithField("request_id", req.RequestID)

	plan, err := h.workoutService.PlanWorkout(ctx, req.Body)
	if err != nil {
		if isValidationError(err) {
			message := validationMessage(err)
			logger.WithField("reason", message).Info("Rejected workout request")
			h.observe(metrics.OutcomeInvalid, start)
			return messageResponse(http.StatusBadRequest, message), nil
		}

		logger.WithError(err).Error("Failed to generate workout plan")
		h.observe(metrics.OutcomeError, start)
		return messageResponse(http.StatusInternalServerError, models.InternalErrorMessage), nil
	}

	logger.WithFields(logrus.Fields{
		"training_goal": plan.Request.TrainingGoal,
		"body_parts":    plan.Request.SelectedBodyParts(),
		"plan_length":   len(plan.Text),
		"duration_ms":   time.Since(start).Milliseconds(),
	}).Info("Generated workout plan")
	h.observe(metrics.OutcomeSuccess, start)

	return jsonResponse(http.StatusOK, models.WorkoutPlanResponse{WorkoutPlan: plan.Text}), nil
}

func (h *WorkoutHandler) observe(outcome string, start time.Time) {
	if h.metrics == nil {
		return
	}
	h.metrics.ObserveWorkout(outcome, time.Since(start).Seconds())
}
