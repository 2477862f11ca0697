package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workout-planner-api/internal/adapters/completion"
	"workout-planner-api/internal/config"
	"workout-planner-api/internal/metrics"
	"workout-planner-api/internal/models"
	"workout-planner-api/internal/services"
	"workout-planner-api/pkg/lambda"
)

const validWorkoutBody = `{"trainingGoal":"Strength","time":45,"bodyParts":{"Chest":true,"Legs":false,"Back":true,"Abs":false}}`

func init() {
	gin.SetMode(gin.TestMode)
}

type panickingService struct{}

func (panickingService) PlanWorkout(ctx context.Context, body []byte) (*services.WorkoutPlan, error) {
	panic("provider client exploded")
}

func (panickingService) BuildPrompt(req *models.WorkoutRequest) string {
	return ""
}

func newTestRouter(svc services.WorkoutService, m *metrics.Manager) *gin.Engine {
	router := gin.New()
	cfg := &RouterConfig{
		WorkoutService: svc,
		Metrics:        m,
		RateLimit:      config.RateLimitConfig{RequestsPerSecond: 1000, Burst: 1000},
		MaxBodyBytes:   1024,
	}
	SetupMiddleware(router, cfg)
	SetupRoutes(router, cfg)
	return router
}

func TestHelloHandler_HandleHello(t *testing.T) {
	h := NewHelloHandler()

	for _, req := range []*lambda.Request{
		{},
		{Method: "POST", Body: []byte(`{"anything": true}`)},
		{Method: "GET", Body: []byte(`not json`)},
	} {
		resp, err := h.HandleHello(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, `{"message":"Hello World"}`, string(resp.Body))
		assert.Equal(t, "application/json", resp.Headers["Content-Type"])
	}
}

func TestWorkoutHandler_HandleWorkout(t *testing.T) {
	tests := []struct {
		name       string
		provider   *completion.MockProvider
		body       string
		wantStatus int
		wantBody   string
		wantCalls  int
		outcome    string
	}{
		{
			name:       "success relays plan verbatim",
			provider:   completion.NewMockProvider("Day 1: Bench <5x5> & rows"),
			body:       validWorkoutBody,
			wantStatus: http.StatusOK,
			wantBody:   `{"workoutPlan":"Day 1: Bench <5x5> & rows"}`,
			wantCalls:  1,
			outcome:    metrics.OutcomeSuccess,
		},
		{
			name:       "empty body",
			provider:   completion.NewMockProvider("PLAN"),
			body:       "",
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"message":"Request body is required"}`,
			outcome:    metrics.OutcomeInvalid,
		},
		{
			name:       "invalid goal",
			provider:   completion.NewMockProvider("PLAN"),
			body:       `{"trainingGoal":"Yoga","time":45,"bodyParts":{"Chest":true,"Legs":false,"Back":false,"Abs":false}}`,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"message":"Invalid trainingGoal. Must be one of: Strength, Endurance, Bulking"}`,
			outcome:    metrics.OutcomeInvalid,
		},
		{
			name:       "malformed json",
			provider:   completion.NewMockProvider("PLAN"),
			body:       `{not json`,
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"message":"Internal server error"}`,
			outcome:    metrics.OutcomeError,
		},
		{
			name:       "provider failure hides detail",
			provider:   completion.NewFailingMockProvider(errors.New("quota exceeded for key sk-123")),
			body:       validWorkoutBody,
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"message":"Internal server error"}`,
			wantCalls:  1,
			outcome:    metrics.OutcomeError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := metrics.NewTestManager()
			h := NewWorkoutHandler(services.NewWorkoutService(tt.provider), m)

			resp, err := h.HandleWorkout(context.Background(), &lambda.Request{Method: "POST", Body: []byte(tt.body)})
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantBody, string(resp.Body))
			assert.Equal(t, "application/json", resp.Headers["Content-Type"])
			assert.Equal(t, tt.wantCalls, tt.provider.CallCount())
			assert.Equal(t, float64(1), testutil.ToFloat64(m.CounterWorkoutOutcomes.WithLabelValues(tt.outcome)))
		})
	}
}

func TestWorkoutHandler_Idempotent(t *testing.T) {
	provider := completion.NewMockProvider("PLAN")
	h := NewWorkoutHandler(services.NewWorkoutService(provider), nil)
	req := &lambda.Request{Method: "POST", Body: []byte(validWorkoutBody)}

	first, err := h.HandleWorkout(context.Background(), req)
	require.NoError(t, err)
	second, err := h.HandleWorkout(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	prompts := provider.Prompts()
	require.Len(t, prompts, 2)
	assert.Equal(t, prompts[0], prompts[1])
}

func TestRouter_Endpoints(t *testing.T) {
	provider := completion.NewMockProvider("PLAN")
	router := newTestRouter(services.NewWorkoutService(provider), metrics.NewTestManager())

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{"hello get", http.MethodGet, "/hello", "", http.StatusOK, `{"message":"Hello World"}`},
		{"hello post", http.MethodPost, "/hello", `{"x":1}`, http.StatusOK, `{"message":"Hello World"}`},
		{"workout", http.MethodPost, "/workout", validWorkoutBody, http.StatusOK, `{"workoutPlan":"PLAN"}`},
		{"workout validation", http.MethodPost, "/workout", `{"trainingGoal":"Strength","time":200}`, http.StatusBadRequest, `{"message":"Time must be between 15 and 180 minutes"}`},
		{"workout too large", http.MethodPost, "/workout", strings.Repeat(" ", 2048), http.StatusRequestEntityTooLarge, `{"message":"Request body exceeds 1024 bytes"}`},
		{"not found", http.MethodGet, "/nope", "", http.StatusNotFound, `{"message":"Not found"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantBody, rec.Body.String())
			assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
			assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
		})
	}
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	router := newTestRouter(services.NewWorkoutService(completion.NewMockProvider("PLAN")), metrics.NewTestManager())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/workout", strings.NewReader(validWorkoutBody)))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `workout_planner_test_workout_plans_total{outcome="success"} 1`)
}

func TestRouter_PanicReturnsGenericError(t *testing.T) {
	m := metrics.NewTestManager()
	router := newTestRouter(panickingService{}, m)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/workout", strings.NewReader(validWorkoutBody)))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"Internal server error"}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "exploded")
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CounterHandleRequestPanic))
}

func TestLambdaWrap_WorkoutPanic(t *testing.T) {
	h := NewWorkoutHandler(panickingService{}, nil)

	resp, err := lambda.Wrap(h.HandleWorkout)(context.Background(), eventWithBody(validWorkoutBody))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, lambda.InternalErrorBody, resp.Body)
}

func TestWorkoutHandler_EmptyPlanIsRelayed(t *testing.T) {
	h := NewWorkoutHandler(services.NewWorkoutService(completion.NewMockProvider("")), nil)

	resp, err := h.HandleWorkout(context.Background(), &lambda.Request{Body: []byte(validWorkoutBody)})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `{"workoutPlan":""}`, string(resp.Body))
}

func TestLambdaWrap_HelloAcceptsAnyEvent(t *testing.T) {
	handler := lambda.Wrap(NewHelloHandler().HandleHello, lambda.WithRawBody())

	for _, event := range []events.APIGatewayProxyRequest{
		{},
		{HTTPMethod: http.MethodGet, Path: "/hello"},
		{HTTPMethod: http.MethodPost, Path: "/hello", Body: "%%%not-base64", IsBase64Encoded: true},
		{HTTPMethod: http.MethodPost, Path: "/hello", Body: `{"broken": `},
	} {
		resp, err := handler(context.Background(), event)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode, event.Body)
		assert.Equal(t, `{"message":"Hello World"}`, resp.Body)
	}
}

func eventWithBody(body string) events.APIGatewayProxyRequest {
	return events.APIGatewayProxyRequest{HTTPMethod: http.MethodPost, Path: "/workout", Body: body}
}
