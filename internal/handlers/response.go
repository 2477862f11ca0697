package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"workout-planner-api/internal/middleware"
	"workout-planner-api/internal/models"
	"workout-planner-api/pkg/lambda"
)

var jsonHeaders = map[string]string{"Content-Type": "application/json"}

// encodeJSON marshals payload without HTML escaping so text is relayed verbatim
func encodeJSON(payload interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// jsonResponse builds a JSON response, falling back to the generic 500 if encoding fails
func jsonResponse(status int, payload interface{}) *lambda.Response {
	body, err := encodeJSON(payload)
	if err != nil {
		logrus.WithError(err).Error("Failed to encode response body")
		return lambda.InternalError()
	}

	headers := make(map[string]string, len(jsonHeaders))
	for k, v := range jsonHeaders {
		headers[k] = v
	}

	return &lambda.Response{
		StatusCode: status,
		Headers:    headers,
		Body:       body,
	}
}

// messageResponse builds a {"message": ...} response
func messageResponse(status int, message string) *lambda.Response {
	return jsonResponse(status, models.MessageResponse{Message: message})
}

// requestFromGin converts a gin request to a generic request
func requestFromGin(c *gin.Context) (*lambda.Request, error) {
	var body []byte
	if c.Request.Body != nil {
		var err error
		body, err = io.ReadAll(c.Request.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
	}

	headers := make(map[string]string, len(c.Request.Header))
	for name := range c.Request.Header {
		headers[name] = c.Request.Header.Get(name)
	}

	query := make(map[string]string)
	for name, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			query[name] = values[0]
		}
	}

	params := make(map[string]string, len(c.Params))
	for _, p := range c.Params {
		params[p.Key] = p.Value
	}

	return &lambda.Request{
		Method:      c.Request.Method,
		Path:        c.Request.URL.Path,
		Headers:     headers,
		QueryParams: query,
		Body:        body,
		PathParams:  params,
		RequestID:   c.GetString(middleware.RequestIDKey),
	}, nil
}

// serveGin runs a Lambda-style handler behind gin so both runtimes share one code path
func serveGin(c *gin.Context, handler lambda.HandlerFunc) {
	req, err := requestFromGin(c)
	if err != nil {
		if limit, ok := bodyLimitExceeded(err); ok {
			writeResponse(c, messageResponse(http.StatusRequestEntityTooLarge, fmt.Sprintf(models.RequestTooLargeFormat, limit)))
			return
		}
		logrus.WithError(err).WithField("request_id", c.GetString(middleware.RequestIDKey)).Error("Failed to read request")
		writeResponse(c, lambda.InternalError())
		return
	}

	resp, err := handler(c.Request.Context(), req)
	if err != nil || resp == nil {
		logrus.WithError(err).WithField("request_id", req.RequestID).Error("Handler failed")
		resp = lambda.InternalError()
	}

	writeResponse(c, resp)
}

// writeResponse copies a generic response onto the gin writer
func writeResponse(c *gin.Context, resp *lambda.Response) {
	contentType := "application/json"
	for k, v := range resp.Headers {
		if http.CanonicalHeaderKey(k) == "Content-Type" {
			contentType = v
			continue
		}
		c.Header(k, v)
	}
	c.Data(resp.StatusCode, contentType, resp.Body)
}
