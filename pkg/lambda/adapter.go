package lambda

import (
	"context"
	"encoding/base64"
	"fmt"
	"runtime/debug"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// InternalErrorBody is returned whenever a handler fails or panics
const InternalErrorBody = `{"message":"Internal server error"}`

// APIGatewayHandler is the function signature registered with the Lambda runtime
type APIGatewayHandler func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// WrapOption customizes Wrap
type WrapOption func(*wrapOptions)

type wrapOptions struct {
	rawBody bool
}

// WithRawBody passes the event body to the handler as received, without base64
// decoding. Request conversion cannot fail with this option.
func WithRawBody() WrapOption {
	return func(o *wrapOptions) {
		o.rawBody = true
	}
}

// FromAPIGatewayRequest converts an API Gateway event to a generic request
func FromAPIGatewayRequest(event events.APIGatewayProxyRequest) (*Request, error) {
	body := []byte(event.Body)
	if event.IsBase64Encoded && event.Body != "" {
		decoded, err := base64.StdEncoding.DecodeString(event.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to decode base64 body: %w", err)
		}
		body = decoded
	}

	return newRequest(event, body), nil
}

func newRequest(event events.APIGatewayProxyRequest, body []byte) *Request {
	requestID := event.RequestContext.RequestID
	if requestID == "" {
		requestID = uuid.New().String()
	}

	return &Request{
		Method:      event.HTTPMethod,
		Path:        event.Path,
		Headers:     event.Headers,
		QueryParams: event.QueryStringParameters,
		Body:        body,
		PathParams:  event.PathParameters,
		RequestID:   requestID,
	}
}

// ToAPIGatewayResponse converts a generic response to an API Gateway response
func ToAPIGatewayResponse(resp *Response) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       string(resp.Body),
	}
}

// InternalError returns the generic 500 response
func InternalError() *Response {
	return &Response{
		StatusCode: 500,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       []byte(InternalErrorBody),
	}
}

// Wrap adapts a HandlerFunc to the Lambda runtime. Errors and panics are logged
// and turned into the generic 500 response; the Lambda invocation itself never fails.
func Wrap(handler HandlerFunc, opts ...WrapOption) APIGatewayHandler {
	var o wrapOptions
	for _, opt := range opts {
		opt(&o)
	}

	return func(ctx context.Context, event events.APIGatewayProxyRequest) (resp events.APIGatewayProxyResponse, err error) {
		defer func() {
			if r := recover(); r != nil {
				logrus.WithFields(logrus.Fields{
					"panic":      r,
					"stack":      string(debug.Stack()),
					"method":     event.HTTPMethod,
					"path":       event.Path,
					"request_id": event.RequestContext.RequestID,
				}).Error("Panic recovered in Lambda handler")
				resp = ToAPIGatewayResponse(InternalError())
				err = nil
			}
		}()

		var req *Request
		if o.rawBody {
			req = newRequest(event, []byte(event.Body))
		} else {
			var convErr error
			req, convErr = FromAPIGatewayRequest(event)
			if convErr != nil {
				logrus.WithError(convErr).Error("Failed to convert API Gateway request")
				return ToAPIGatewayResponse(InternalError()), nil
			}
		}

		out, handlerErr := handler(ctx, req)
		if handlerErr != nil || out == nil {
			logrus.WithFields(logrus.Fields{
				"method":     req.Method,
				"path":       req.Path,
				"request_id": req.RequestID,
			}).WithError(handlerErr).Error("Lambda handler failed")
			return ToAPIGatewayResponse(InternalError()), nil
		}

		return ToAPIGatewayResponse(out), nil
	}
}
