package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/joestump/hxweather/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sseBody(events ...string) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(e)
		sb.WriteString("\n\n")
	}
	return sb.String()
}

func anthropicEventLine(typ, data string) string {
	return fmt.Sprintf("event: %s\ndata: %s", typ, data)
}

func newTestAnthropic(t *testing.T, h http.HandlerFunc) *anthropicGenerator {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.LLM.APIKey = "test-key"
	cfg.LLM.BaseURL = srv.URL + "/"
	cfg.LLM.MaxTokens = 1024
	g := newAnthropicGenerator(cfg)
	g.client = srv.Client()
	return g
}

func TestAnthropic_StreamsTextDeltas(t *testing.T) {
	reqs := make(chan anthropicRequest, 1)
	g := newTestAnthropic(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		var body anthropicRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		reqs <- body

		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, sseBody(
			anthropicEventLine("message_start", `{"type":"message_start","message":{"role":"assistant","content":[]}}`),
			anthropicEventLine("content_block_start", `{"type":"content_block_start","index":0,"content_block":{"type":"text","text":""}}`),
			anthropicEventLine("ping", `{"type":"ping"}`),
			anthropicEventLine("content_block_delta", `{"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"A"}}`),
			anthropicEventLine("content_block_delta", `{"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"B"}}`),
			anthropicEventLine("content_block_stop", `{"type":"content_block_stop","index":0}`),
			anthropicEventLine("content_block_start", `{"type":"content_block_start","index":1,"content_block":{"type":"text","text":"C"}}`),
			anthropicEventLine("message_delta", `{"type":"message_delta","delta":{"stop_reason":"end_turn"}}`),
			anthropicEventLine("message_stop", `{"type":"message_stop"}`),
		))
	})

	var msgs []Message
	for m, err := range g.Stream(context.Background(), Request{Prompt: "hello"}) {
		require.NoError(t, err)
		msgs = append(msgs, m)
	}

	text, err := Collect(replay(msgs, nil))
	require.NoError(t, err)
	assert.Equal(t, "ABC", text)
	assert.Len(t, msgs, 5, "message_start, block start, two deltas, block start")

	got := <-reqs
	assert.Equal(t, defaultAnthropicModel, got.Model)
	assert.Equal(t, 1024, got.MaxTokens)
	assert.True(t, got.Stream)
	require.Len(t, got.Messages, 1, "single-turn request")
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "hello", got.Messages[0].Content)
}

func TestAnthropic_RequestOverridesModel(t *testing.T) {
	reqs := make(chan anthropicRequest, 1)
	g := newTestAnthropic(t, func(w http.ResponseWriter, r *http.Request) {
		var body anthropicRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		reqs <- body
		fmt.Fprint(w, sseBody(anthropicEventLine("message_stop", `{"type":"message_stop"}`)))
	})

	_, err := Collect(g.Stream(context.Background(), Request{Prompt: "p", Model: "claude-haiku-4-5", MaxTokens: 64}))
	require.NoError(t, err)
	got := <-reqs
	assert.Equal(t, "claude-haiku-4-5", got.Model)
	assert.Equal(t, 64, got.MaxTokens)
}

func TestAnthropic_ErrorEvent(t *testing.T) {
	g := newTestAnthropic(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sseBody(
			anthropicEventLine("content_block_delta", `{"type":"content_block_delta","delta":{"type":"text_delta","text":"A"}}`),
			anthropicEventLine("error", `{"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}`),
		))
	})

	_, err := Collect(g.Stream(context.Background(), Request{Prompt: "p"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overloaded_error: Overloaded")
}

func TestAnthropic_MissingKeyFailsDownstream(t *testing.T) {
	g := newTestAnthropic(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"type":"error","error":{"type":"authentication_error","message":"x-api-key header is required"}}`)
			return
		}
		t.Errorf("unexpected key %q", r.Header.Get("x-api-key"))
	})
	g.apiKey = ""

	_, err := Collect(g.Stream(context.Background(), Request{Prompt: "p"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "anthropic API returned 401")
}

func TestAnthropic_MalformedEvent(t *testing.T) {
	g := newTestAnthropic(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sseBody("data: {not json"))
	})

	_, err := Collect(g.Stream(context.Background(), Request{Prompt: "p"}))
	assert.ErrorContains(t, err, "decode anthropic event")
}

func TestAnthropic_NoIOUntilRanged(t *testing.T) {
	var hits atomic.Int32
	g := newTestAnthropic(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, sseBody(anthropicEventLine("message_stop", `{"type":"message_stop"}`)))
	})

	seq := g.Stream(context.Background(), Request{Prompt: "p"})
	assert.Equal(t, int32(0), hits.Load())
	_, err := Collect(seq)
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())
}

func TestAnthropic_TruncatedStreamFails(t *testing.T) {
	g := newTestAnthropic(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sseBody(
			anthropicEventLine("message_start", `{"type":"message_start","message":{"role":"assistant","content":[]}}`),
			anthropicEventLine("content_block_delta", `{"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"<div>Toro"}}`),
		))
	})

	res := Generate(context.Background(), g, Request{Prompt: "p"})
	assert.Equal(t, Failed, res.Outcome)
	assert.ErrorIs(t, res.Err, ErrTruncatedStream)
	assert.Empty(t, res.HTML)
}
