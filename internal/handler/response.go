package handler

import (
	"encoding/json"
	"time"

	"github.com/aws/aws-lambda-go/events"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error     bool   `json:"error"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// corsHeaders returns the permissive CORS header set attached to every
// HTTP response.
func corsHeaders() map[string]string {
	return map[string]string{
		"Content-Type":                 "application/json",
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Headers": "Content-Type,X-Amz-Date,Authorization,X-Api-Key,X-Amz-Security-Token",
		"Access-Control-Allow-Methods": "GET,POST,OPTIONS",
	}
}

// jsonResponse wraps body into an API Gateway response.
func (h *Handler) jsonResponse(status int, body any) events.APIGatewayProxyResponse {
	encoded, err := json.Marshal(body)
	if err != nil {
		return h.errorResponse(500, "Failed to encode response")
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    corsHeaders(),
		Body:       string(encoded),
	}
}

// errorResponse builds the standard error envelope.
func (h *Handler) errorResponse(status int, message string) events.APIGatewayProxyResponse {
	body, _ := json.Marshal(errorBody{
		Error:     true,
		Message:   message,
		Timestamp: h.now().UTC().Format(time.RFC3339),
	})
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    corsHeaders(),
		Body:       string(body),
	}
}
