package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/satriahrh/narrator/domain/entities"
	"github.com/satriahrh/narrator/usecase"
)

// Event is the invocation payload delivered by the hosting trigger.
// It is a subset of the API Gateway proxy request; Body may be a JSON string or object.
type Event struct {
	HTTPMethod      string          `json:"httpMethod,omitempty"`
	Body            json.RawMessage `json:"body,omitempty"`
	IsBase64Encoded bool            `json:"isBase64Encoded,omitempty"`
}

// Handler converts invocation events into responses
type Handler struct {
	service *usecase.SpeechService
	logger  *zap.Logger
}

// NewHandler creates a new request handler
func NewHandler(service *usecase.SpeechService, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle runs one conversion. It never fails: every error is mapped to a response.
func (h *Handler) Handle(ctx context.Context, event Event) events.APIGatewayProxyResponse {
	if event.HTTPMethod == http.MethodOptions {
		return Preflight()
	}

	outcome, err := h.generate(ctx, event)
	if err != nil {
		return h.failure(err)
	}

	return success(outcome)
}

// HandleLambda adapts Handle to the aws-lambda-go handler signature
func (h *Handler) HandleLambda(ctx context.Context, event Event) (events.APIGatewayProxyResponse, error) {
	return h.Handle(ctx, event), nil
}

func (h *Handler) generate(ctx context.Context, event Event) (*usecase.SpeechOutcome, error) {
	body, err := decodeBody(event)
	if err != nil {
		return nil, err
	}

	req, err := entities.ParseSpeechRequest(body)
	if err != nil {
		return nil, err
	}

	return h.service.Generate(ctx, req)
}

// decodeBody unwraps base64 encoded request bodies
func decodeBody(event Event) (json.RawMessage, error) {
	if !event.IsBase64Encoded || len(event.Body) == 0 {
		return event.Body, nil
	}

	var encoded string
	if err := json.Unmarshal(event.Body, &encoded); err != nil {
		return nil, fmt.Errorf("failed to read base64 request body: %w", err)
	}

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 request body: %w", err)
	}

	return decoded, nil
}

func (h *Handler) failure(err error) events.APIGatewayProxyResponse {
	var validationErr *entities.ValidationError
	if errors.As(err, &validationErr) {
		return jsonResponse(http.StatusBadRequest, ErrorResponse{Error: validationErr.Message})
	}

	h.logger.Error("Speech generation failed", zap.String("error", err.Error()))

	return jsonResponse(http.StatusInternalServerError, ErrorResponse{
		Error: "Internal server error: " + err.Error(),
	})
}

func success(outcome *usecase.SpeechOutcome) events.APIGatewayProxyResponse {
	if outcome.Kind == usecase.OutcomeStored {
		return jsonResponse(http.StatusOK, GenerateResponse{
			Message:  "Audio generated successfully",
			AudioURL: outcome.AudioURL,
			Filename: outcome.Filename,
		})
	}

	return events.APIGatewayProxyResponse{
		StatusCode:      http.StatusOK,
		Headers:         responseHeaders(entities.AudioContentType),
		Body:            base64.StdEncoding.EncodeToString(outcome.Audio),
		IsBase64Encoded: true,
	}
}
