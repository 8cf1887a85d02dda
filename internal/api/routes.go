package api

import (
	"encoding/base64"
	"io"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AudioResolver maps a signed download request to a local file path
type AudioResolver interface {
	Resolve(token, filename string) (string, error)
}

// InitRoutes initializes all API routes. resolver may be nil when audio is not served locally.
func InitRoutes(e *echo.Echo, handler *Handler, resolver AudioResolver, logger *zap.Logger) {
	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, HealthResponse{
			Status:  "ok",
			Service: "narrator",
			Storage: handler.service.StorageEnabled(),
		})
	})

	e.POST("/convert", func(c echo.Context) error {
		return convert(c, handler)
	})
	e.OPTIONS("/convert", func(c echo.Context) error {
		return writeResponse(c, Preflight())
	})

	if resolver != nil {
		e.GET("/audio/:filename", func(c echo.Context) error {
			return downloadAudio(c, resolver, logger)
		})
	}
}

func convert(c echo.Context, handler *Handler) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return writeResponse(c, handler.failure(err))
	}

	resp := handler.Handle(c.Request().Context(), Event{
		HTTPMethod: c.Request().Method,
		Body:       body,
	})

	return writeResponse(c, resp)
}

// writeResponse emits a proxy response the way API Gateway would, decoding binary bodies
func writeResponse(c echo.Context, resp events.APIGatewayProxyResponse) error {
	header := c.Response().Header()
	for key, value := range resp.Headers {
		header.Set(key, value)
	}

	contentType := resp.Headers[headerContentType]
	if !resp.IsBase64Encoded {
		return c.Blob(resp.StatusCode, contentType, []byte(resp.Body))
	}

	data, err := base64.StdEncoding.DecodeString(resp.Body)
	if err != nil {
		return err
	}
	return c.Blob(resp.StatusCode, contentType, data)
}

func downloadAudio(c echo.Context, resolver AudioResolver, logger *zap.Logger) error {
	path, err := resolver.Resolve(c.QueryParam("token"), c.Param("filename"))
	if err != nil {
		logger.Warn("Audio download rejected",
			zap.String("filename", c.Param("filename")),
			zap.Error(err))
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: "Invalid or expired audio link"})
	}

	return c.File(path)
}
