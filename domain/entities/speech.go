package entities

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	// DefaultText is synthesized when the request carries no text field
	DefaultText = "Hello, this is a test."
	// DefaultVoice is the Polly voice used when the request carries no voice field.
	// Other providers supply their own default.
	DefaultVoice = "Joanna"

	// AudioContentType is the MIME type of every synthesized payload
	AudioContentType = "audio/mpeg"
	// OutputFormatMP3 is the synthesis output format requested from providers
	OutputFormatMP3 = "mp3"
	// EngineNeural selects the high quality synthesis engine
	EngineNeural = "neural"
)

// SpeechRequest represents the payload of a conversion request.
// An empty Voice means the synthesizer's default voice.
type SpeechRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice"`
}

// speechRequestBody keeps track of which fields were present in the payload
type speechRequestBody struct {
	Text  json.RawMessage `json:"text"`
	Voice json.RawMessage `json:"voice"`
}

// NewSpeechRequest returns a request carrying the default text
func NewSpeechRequest() SpeechRequest {
	return SpeechRequest{
		Text: DefaultText,
	}
}

// ParseSpeechRequest normalizes an invocation body into a SpeechRequest.
// The body may be a JSON object, a JSON string wrapping a JSON object, or absent.
func ParseSpeechRequest(body json.RawMessage) (SpeechRequest, error) {
	req := NewSpeechRequest()

	raw := bytes.TrimSpace(body)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return req, nil
	}

	// API Gateway delivers the body as a serialized string
	if raw[0] == '"' {
		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return req, fmt.Errorf("failed to decode request body string: %w", err)
		}
		raw = bytes.TrimSpace([]byte(encoded))
		if len(raw) == 0 {
			return req, fmt.Errorf("failed to parse request body: empty string")
		}
	}

	var parsed speechRequestBody
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return req, fmt.Errorf("failed to parse request body: %w", err)
	}

	if err := stringField("text", parsed.Text, &req.Text); err != nil {
		return req, err
	}
	if err := stringField("voice", parsed.Voice, &req.Voice); err != nil {
		return req, err
	}

	return req, nil
}

// stringField decodes a present field into dst. Absent fields keep dst; null is rejected.
func stringField(name string, raw json.RawMessage, dst *string) error {
	if len(raw) == 0 {
		return nil
	}
	if bytes.Equal(raw, []byte("null")) {
		return fmt.Errorf("failed to parse request body: %s must be a string, got null", name)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("failed to parse request body: %s: %w", name, err)
	}
	return nil
}

// Validate checks the only input rule: text must not be blank
func (r SpeechRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return &ValidationError{Message: "Text cannot be empty"}
	}
	return nil
}

// ValidationError is returned when a request is rejected before any external call
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
