// Package handler dispatches Lambda events to the right trigger path
// and orchestrates validation, translation, and persistence.
package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/google/uuid"

	"github.com/glossalabs/translate-lambda/internal/config"
	"github.com/glossalabs/translate-lambda/internal/domain"
	"github.com/glossalabs/translate-lambda/internal/storage"
	"github.com/glossalabs/translate-lambda/internal/translate"
	"github.com/glossalabs/translate-lambda/internal/validate"
)

// Trigger labels, used as object-key prefixes and request_type values.
const (
	triggerAPI  = "api"
	triggerFile = "file"
)

// Handler holds the collaborators for one Lambda process. All of them
// are stateless handles constructed once at startup.
type Handler struct {
	validator *validate.Validator
	driver    *translate.Driver
	archiver  *storage.Archiver
	objects   storage.ObjectStore
	cfg       config.Config
	logger    *slog.Logger
	newID     func() string
	now       func() time.Time
}

// New creates a Handler.
func New(validator *validate.Validator, driver *translate.Driver, archiver *storage.Archiver, objects storage.ObjectStore, cfg config.Config, logger *slog.Logger) *Handler {
	return &Handler{
		validator: validator,
		driver:    driver,
		archiver:  archiver,
		objects:   objects,
		cfg:       cfg,
		logger:    logger,
		newID:     uuid.NewString,
		now:       time.Now,
	}
}

// Route inspects the raw event shape and dispatches to the matching
// trigger handler: S3 notification, API Gateway request, or direct
// invocation. Panics anywhere downstream become a 500 envelope.
func (h *Handler) Route(ctx context.Context, event json.RawMessage) (response any, err error) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("panic in handler", slog.Any("panic", r))
			response = h.errorResponse(500, fmt.Sprintf("Internal server error: %v", r))
			err = nil
		}
	}()

	var probe struct {
		Records        []json.RawMessage `json:"Records"`
		HTTPMethod     string            `json:"httpMethod"`
		RequestContext json.RawMessage   `json:"requestContext"`
	}
	if err := json.Unmarshal(event, &probe); err != nil {
		h.logger.Error("unparseable event", slog.String("error", err.Error()))
		return h.errorResponse(500, fmt.Sprintf("Internal server error: %v", err)), nil
	}

	switch {
	case len(probe.Records) > 0:
		var s3Event events.S3Event
		if err := json.Unmarshal(event, &s3Event); err != nil {
			return h.errorResponse(500, fmt.Sprintf("Error processing S3 event: %v", err)), nil
		}
		return h.HandleS3Event(ctx, s3Event), nil

	case probe.HTTPMethod != "" || len(probe.RequestContext) > 0:
		var req events.APIGatewayProxyRequest
		if err := json.Unmarshal(event, &req); err != nil {
			return h.errorResponse(500, fmt.Sprintf("Error processing request: %v", err)), nil
		}
		return h.HandleAPIGateway(ctx, req), nil

	default:
		return h.HandleDirect(ctx, event), nil
	}
}

// HandleAPIGateway processes an HTTP request from API Gateway.
func (h *Handler) HandleAPIGateway(ctx context.Context, req events.APIGatewayProxyRequest) events.APIGatewayProxyResponse {
	start := h.now()

	h.logger.Info("processing api gateway request", slog.String("method", req.HTTPMethod))

	if req.HTTPMethod == "OPTIONS" {
		return h.jsonResponse(200, map[string]string{"message": "CORS preflight"})
	}

	request, err := parseRequestBody(req)
	if err != nil {
		h.logger.Warn("bad request body", slog.String("error", err.Error()))
		return h.errorResponse(400, err.Error())
	}

	if err := h.validator.Request(request); err != nil {
		h.logger.Warn("validation failed", slog.String("error", err.Error()))
		return h.errorResponse(400, err.Error())
	}

	userID := extractUserID(req)
	translationID := h.newID()
	logger := h.logger.With(
		slog.String("translation_id", translationID),
		slog.String("user_id", userID))
	logger.Info("request accepted", slog.Int("texts", len(request.Texts)))

	h.archiver.SaveRequest(ctx, triggerAPI, translationID, *request, userID)

	result := h.driver.Run(ctx, *request)
	result.RequestMetadata.TranslationID = translationID

	processingTime := h.now().Sub(start).Seconds()

	h.archiver.SaveResult(ctx, triggerAPI, translationID, *request, result, lambdaRequestID(ctx))
	h.archiver.SaveMetadata(ctx, storage.MetadataRow{
		TranslationID:  translationID,
		UserID:         userID,
		SourceLanguage: request.SourceLanguage,
		TargetLanguage: request.TargetLanguage,
		RequestType:    triggerAPI,
		TextCount:      len(request.Texts),
		SuccessCount:   result.RequestMetadata.Successful,
		ProcessingTime: processingTime,
	})
	h.archiver.SaveUserHistory(ctx, userID, result)

	logger.Info("request complete",
		slog.Int("successful", result.RequestMetadata.Successful),
		slog.Int("failed", result.RequestMetadata.Failed),
		slog.Float64("processing_time", processingTime))

	return h.jsonResponse(200, result)
}

// HandleDirect treats the event itself as a translation request. The
// response envelope matches the API Gateway shape so callers see one
// canonical format regardless of trigger. Direct invocations are not
// persisted.
func (h *Handler) HandleDirect(ctx context.Context, event json.RawMessage) events.APIGatewayProxyResponse {
	h.logger.Info("processing direct invocation")

	var request domain.Request
	if err := json.Unmarshal(event, &request); err != nil {
		return h.errorResponse(400, fmt.Sprintf("Invalid request: %v", err))
	}

	if err := h.validator.Request(&request); err != nil {
		return h.errorResponse(400, err.Error())
	}

	result := h.driver.Run(ctx, request)
	result.RequestMetadata.TranslationID = h.newID()

	return h.jsonResponse(200, result)
}

// parseRequestBody decodes the HTTP body, honoring base64 encoding.
func parseRequestBody(req events.APIGatewayProxyRequest) (*domain.Request, error) {
	if req.Body == "" {
		return nil, fmt.Errorf("Request body is required")
	}

	body := []byte(req.Body)
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			return nil, fmt.Errorf("Invalid base64 request body")
		}
		body = decoded
	}

	var request domain.Request
	if err := json.Unmarshal(body, &request); err != nil {
		return nil, fmt.Errorf("Invalid JSON in request body")
	}
	return &request, nil
}

// extractUserID pulls the caller identity from the gateway authorizer,
// defaulting to anonymous.
func extractUserID(req events.APIGatewayProxyRequest) string {
	auth := req.RequestContext.Authorizer
	if auth == nil {
		return "anonymous"
	}

	if claims, ok := auth["claims"].(map[string]any); ok {
		if sub, ok := claims["sub"].(string); ok && sub != "" {
			return sub
		}
	}
	if lambdaAuth, ok := auth["lambda"].(map[string]any); ok {
		if sub, ok := lambdaAuth["sub"].(string); ok && sub != "" {
			return sub
		}
	}
	if principal, ok := auth["principalId"].(string); ok && principal != "" {
		return principal
	}
	return "anonymous"
}

// lambdaRequestID returns the platform request ID, if running in Lambda.
func lambdaRequestID(ctx context.Context) string {
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		return lc.AwsRequestID
	}
	return ""
}
