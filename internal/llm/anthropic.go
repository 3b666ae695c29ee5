package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"net/http"
	"strings"

	"github.com/joestump/hxweather/internal/config"
)

const (
	defaultAnthropicBaseURL = "https://api.anthropic.com"
	anthropicVersion        = "2023-06-01"
	defaultAnthropicModel   = "claude-sonnet-4-5"
)

type anthropicGenerator struct {
	apiKey    string
	model     string
	baseURL   string
	maxTokens int
	client    *http.Client
}

func newAnthropicGenerator(cfg *config.Config) *anthropicGenerator {
	return &anthropicGenerator{
		apiKey:    cfg.LLM.APIKey,
		model:     orDefault(cfg.LLM.Model, defaultAnthropicModel),
		baseURL:   strings.TrimRight(orDefault(cfg.LLM.BaseURL, defaultAnthropicBaseURL), "/"),
		maxTokens: cfg.LLM.MaxTokens,
		client:    &http.Client{},
	}
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Stream    bool               `json:"stream"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// anthropicEvent covers the stream events we read: message_start,
// content_block_start, content_block_delta and error.
type anthropicEvent struct {
	Type    string `json:"type"`
	Message *struct {
		Role string `json:"role"`
	} `json:"message,omitempty"`
	ContentBlock *struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content_block,omitempty"`
	Delta *struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"delta,omitempty"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (a *anthropicGenerator) Name() string { return "anthropic" }

func (a *anthropicGenerator) Stream(ctx context.Context, req Request) iter.Seq2[Message, error] {
	return singleUse(func(yield func(Message, error) bool) {
		body := anthropicRequest{
			Model:     orDefault(req.Model, a.model),
			MaxTokens: orDefault(req.MaxTokens, a.maxTokens),
			Stream:    true,
			Messages:  []anthropicMessage{{Role: "user", Content: req.Prompt}},
		}
		payload, err := json.Marshal(body)
		if err != nil {
			yield(Message{}, fmt.Errorf("marshal request: %w", err))
			return
		}

		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v1/messages", bytes.NewReader(payload))
		if err != nil {
			yield(Message{}, fmt.Errorf("create request: %w", err))
			return
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("Accept", "text/event-stream")
		httpReq.Header.Set("x-api-key", a.apiKey)
		httpReq.Header.Set("anthropic-version", anthropicVersion)

		resp, err := a.client.Do(httpReq)
		if err != nil {
			yield(Message{}, fmt.Errorf("anthropic request: %w", err))
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			respBody, _ := io.ReadAll(resp.Body)
			yield(Message{}, fmt.Errorf("anthropic API returned %d: %s", resp.StatusCode, respBody))
			return
		}

		role := "assistant"
		for ev, err := range readEvents(resp.Body) {
			if err != nil {
				yield(Message{}, fmt.Errorf("read anthropic stream: %w", err))
				return
			}
			var evt anthropicEvent
			if err := json.Unmarshal([]byte(ev.Data), &evt); err != nil {
				yield(Message{}, fmt.Errorf("decode anthropic event: %w", err))
				return
			}

			var msg Message
			switch evt.Type {
			case "error":
				if evt.Error != nil {
					yield(Message{}, fmt.Errorf("anthropic stream error: %s: %s", evt.Error.Type, evt.Error.Message))
				} else {
					yield(Message{}, fmt.Errorf("anthropic stream error"))
				}
				return
			case "message_start":
				if evt.Message != nil && evt.Message.Role != "" {
					role = evt.Message.Role
				}
				msg = Message{Role: role}
			case "content_block_start":
				msg = Message{Role: role}
				if evt.ContentBlock != nil && evt.ContentBlock.Type == BlockText && evt.ContentBlock.Text != "" {
					msg = textMessage(role, evt.ContentBlock.Text)
				}
			case "content_block_delta":
				msg = Message{Role: role}
				if evt.Delta != nil && evt.Delta.Type == "text_delta" {
					msg = textMessage(role, evt.Delta.Text)
				}
			case "message_stop":
				return
			default:
				// ping, content_block_stop, message_delta
				continue
			}
			if !yield(msg, nil) {
				return
			}
		}
		yield(Message{}, fmt.Errorf("anthropic stream: %w", ErrTruncatedStream))
	})
}
