package api

import (
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
)

const (
	contentTypeJSON = "application/json"

	headerContentType  = "Content-Type"
	headerAllowOrigin  = "Access-Control-Allow-Origin"
	headerAllowHeaders = "Access-Control-Allow-Headers"
	headerAllowMethods = "Access-Control-Allow-Methods"
	headerMaxAge       = "Access-Control-Max-Age"

	allowedOrigin   = "*"
	allowedHeaders  = "Content-Type,X-Amz-Date,Authorization,X-Api-Key,X-Amz-Security-Token"
	allowedMethods  = "POST,OPTIONS"
	preflightMaxAge = "86400"
)

// CORSHeaders returns the cross-origin headers attached to every response
func CORSHeaders() map[string]string {
	return map[string]string{
		headerAllowOrigin:  allowedOrigin,
		headerAllowHeaders: allowedHeaders,
		headerAllowMethods: allowedMethods,
		headerMaxAge:       preflightMaxAge,
	}
}

func responseHeaders(contentType string) map[string]string {
	headers := CORSHeaders()
	headers[headerContentType] = contentType
	return headers
}

// Preflight answers a CORS preflight request
func Preflight() events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers:    responseHeaders(contentTypeJSON),
	}
}

func jsonResponse(status int, payload interface{}) events.APIGatewayProxyResponse {
	body, err := json.Marshal(payload)
	if err != nil {
		status = http.StatusInternalServerError
		body = []byte(`{"error":"Internal server error: failed to encode response"}`)
	}

	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    responseHeaders(contentTypeJSON),
		Body:       string(body),
	}
}
