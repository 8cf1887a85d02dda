package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/url"
	"regexp"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/satriahrh/narrator/domain/entities"
	"github.com/satriahrh/narrator/domain/repositories"
	"github.com/satriahrh/narrator/usecase"
)

var filenamePattern = regexp.MustCompile(`^audio_\d{8}_\d{6}_[0-9a-f]{8}\.mp3$`)

type fakeSynthesizer struct {
	inputs []repositories.SynthesisInput
	err    error
}

func (f *fakeSynthesizer) Synthesize(ctx context.Context, input repositories.SynthesisInput) ([]byte, error) {
	f.inputs = append(f.inputs, input)
	if f.err != nil {
		return nil, f.err
	}
	return []byte{0xFF, 0xFB, 0x90, 0x64, 0x00}, nil
}

type fakeStore struct {
	artifacts []entities.StoredArtifact
	putErr    error
}

func (f *fakeStore) Put(ctx context.Context, artifact entities.StoredArtifact) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.artifacts = append(f.artifacts, artifact)
	return nil
}

func (f *fakeStore) PresignGetURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return "https://audio-bucket.s3.amazonaws.com/" + key + "?X-Amz-Expires=" + ttl.String(), nil
}

func newHandler(t *testing.T, synth repositories.SpeechSynthesizer, store repositories.BlobStore) *Handler {
	logger := zaptest.NewLogger(t)
	return NewHandler(usecase.NewSpeechService(synth, store, logger), logger)
}

func assertCORS(t *testing.T, resp events.APIGatewayProxyResponse) {
	t.Helper()
	assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])
	assert.Equal(t, "Content-Type,X-Amz-Date,Authorization,X-Api-Key,X-Amz-Security-Token", resp.Headers["Access-Control-Allow-Headers"])
	assert.Equal(t, "POST,OPTIONS", resp.Headers["Access-Control-Allow-Methods"])
	assert.Equal(t, "86400", resp.Headers["Access-Control-Max-Age"])
}

func decodeJSON(t *testing.T, body string) map[string]string {
	t.Helper()
	var out map[string]string
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	return out
}

func TestHandler_EmptyText(t *testing.T) {
	bodies := []string{
		`{"text":""}`,
		`{"text":"   \n\t"}`,
		`"{\"text\":\"  \"}"`,
	}

	for _, body := range bodies {
		synth := &fakeSynthesizer{}
		h := newHandler(t, synth, &fakeStore{})

		resp := h.Handle(context.Background(), Event{Body: json.RawMessage(body)})

		assert.Equal(t, 400, resp.StatusCode, body)
		assert.Equal(t, map[string]string{"error": "Text cannot be empty"}, decodeJSON(t, resp.Body))
		assert.Equal(t, "application/json", resp.Headers["Content-Type"])
		assert.Empty(t, synth.inputs)
		assertCORS(t, resp)
	}
}

func TestHandler_MissingBodyUsesDefaults(t *testing.T) {
	synth := &fakeSynthesizer{}
	h := newHandler(t, synth, nil)

	resp := h.Handle(context.Background(), Event{})

	assert.Equal(t, 200, resp.StatusCode)
	require.Len(t, synth.inputs, 1)
	assert.Equal(t, repositories.SynthesisInput{
		Text:    "Hello, this is a test.",
		VoiceID: "Joanna",
		Format:  "mp3",
		Engine:  "neural",
	}, synth.inputs[0])
}

func TestHandler_InlineAudio(t *testing.T) {
	h := newHandler(t, &fakeSynthesizer{}, nil)

	resp := h.Handle(context.Background(), Event{Body: json.RawMessage(`{"text":"Hello","voice":"Matthew"}`)})

	assert.Equal(t, 200, resp.StatusCode)
	assert.True(t, resp.IsBase64Encoded)
	assert.Equal(t, "audio/mpeg", resp.Headers["Content-Type"])
	assertCORS(t, resp)

	audio, err := base64.StdEncoding.DecodeString(resp.Body)
	require.NoError(t, err)
	assert.NotEmpty(t, audio)
}

func TestHandler_StoredAudio(t *testing.T) {
	store := &fakeStore{}
	h := newHandler(t, &fakeSynthesizer{}, store)

	resp := h.Handle(context.Background(), Event{Body: json.RawMessage(`"{\"text\":\"Stored\",\"voice\":\"Amy\"}"`)})

	assert.Equal(t, 200, resp.StatusCode)
	assert.False(t, resp.IsBase64Encoded)
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])
	assertCORS(t, resp)

	body := decodeJSON(t, resp.Body)
	assert.Equal(t, "Audio generated successfully", body["message"])
	assert.Regexp(t, filenamePattern, body["filename"])

	_, err := url.ParseRequestURI(body["audio_url"])
	assert.NoError(t, err)

	require.Len(t, store.artifacts, 1)
	assert.Equal(t, "audio/"+body["filename"], store.artifacts[0].Key)
	assert.Equal(t, "Amy", store.artifacts[0].Metadata.Voice)
}

func TestHandler_NotIdempotent(t *testing.T) {
	store := &fakeStore{}
	h := newHandler(t, &fakeSynthesizer{}, store)
	event := Event{Body: json.RawMessage(`{"text":"Same text"}`)}

	first := decodeJSON(t, h.Handle(context.Background(), event).Body)
	second := decodeJSON(t, h.Handle(context.Background(), event).Body)

	assert.NotEqual(t, first["filename"], second["filename"])
	require.Len(t, store.artifacts, 2)
	assert.NotEqual(t, store.artifacts[0].Key, store.artifacts[1].Key)
}

func TestHandler_SynthesisFailure(t *testing.T) {
	for _, store := range []repositories.BlobStore{nil, &fakeStore{}} {
		synth := &fakeSynthesizer{err: errors.New("Voice ID InvalidVoice is invalid")}
		h := newHandler(t, synth, store)

		resp := h.Handle(context.Background(), Event{Body: json.RawMessage(`{"text":"Hi","voice":"InvalidVoice"}`)})

		assert.Equal(t, 500, resp.StatusCode)
		assert.Equal(t, map[string]string{"error": "Internal server error: Voice ID InvalidVoice is invalid"}, decodeJSON(t, resp.Body))
		assertCORS(t, resp)
	}
}

func TestHandler_StorageFailure(t *testing.T) {
	h := newHandler(t, &fakeSynthesizer{}, &fakeStore{putErr: errors.New("Access Denied")})

	resp := h.Handle(context.Background(), Event{Body: json.RawMessage(`{"text":"Hi"}`)})

	assert.Equal(t, 500, resp.StatusCode)
	assert.Equal(t, "Internal server error: Access Denied", decodeJSON(t, resp.Body)["error"])
}

func TestHandler_MalformedBody(t *testing.T) {
	synth := &fakeSynthesizer{}
	h := newHandler(t, synth, nil)

	resp := h.Handle(context.Background(), Event{Body: json.RawMessage(`"{not json"`)})

	assert.Equal(t, 500, resp.StatusCode)
	assert.Contains(t, decodeJSON(t, resp.Body)["error"], "Internal server error: ")
	assert.Empty(t, synth.inputs)
	assertCORS(t, resp)
}

func TestHandler_NullFields(t *testing.T) {
	for _, body := range []string{`{"text":null}`, `{"text":"Hello","voice":null}`, `"{\"text\":null}"`} {
		t.Run(body, func(t *testing.T) {
			synth := &fakeSynthesizer{}
			h := newHandler(t, synth, nil)

			resp := h.Handle(context.Background(), Event{Body: json.RawMessage(body)})

			assert.Equal(t, 500, resp.StatusCode)
			assert.Contains(t, decodeJSON(t, resp.Body)["error"], "must be a string, got null")
			assert.Empty(t, synth.inputs)
			assertCORS(t, resp)
		})
	}
}

func TestHandler_Base64Body(t *testing.T) {
	synth := &fakeSynthesizer{}
	h := newHandler(t, synth, nil)

	encoded := base64.StdEncoding.EncodeToString([]byte(`{"text":"Encoded","voice":"Brian"}`))
	raw, _ := json.Marshal(encoded)

	resp := h.Handle(context.Background(), Event{Body: raw, IsBase64Encoded: true})

	assert.Equal(t, 200, resp.StatusCode)
	require.Len(t, synth.inputs, 1)
	assert.Equal(t, "Encoded", synth.inputs[0].Text)
	assert.Equal(t, "Brian", synth.inputs[0].VoiceID)
}

func TestHandler_Preflight(t *testing.T) {
	synth := &fakeSynthesizer{}
	h := newHandler(t, synth, nil)

	resp := h.Handle(context.Background(), Event{HTTPMethod: "OPTIONS"})

	assert.Equal(t, 200, resp.StatusCode)
	assert.Empty(t, resp.Body)
	assert.Empty(t, synth.inputs)
	assertCORS(t, resp)
}

func TestHandler_LambdaEventDecoding(t *testing.T) {
	payload := []byte(`{"httpMethod":"POST","body":"{\"text\":\"From gateway\"}","isBase64Encoded":false,"headers":{"Content-Type":"application/json"}}`)

	var event Event
	require.NoError(t, json.Unmarshal(payload, &event))

	synth := &fakeSynthesizer{}
	resp, err := newHandler(t, synth, nil).HandleLambda(context.Background(), event)
	require.NoError(t, err)

	assert.Equal(t, 200, resp.StatusCode)
	require.Len(t, synth.inputs, 1)
	assert.Equal(t, "From gateway", synth.inputs[0].Text)
}
