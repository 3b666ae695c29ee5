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
	defaultOpenAIBaseURL = "https://api.openai.com"
	defaultOpenAIModel   = "gpt-4o-mini"
)

type openaiGenerator struct {
	apiKey    string
	model     string
	baseURL   string
	maxTokens int
	client    *http.Client
}

func newOpenAIGenerator(cfg *config.Config) *openaiGenerator {
	return &openaiGenerator{
		apiKey:    cfg.LLM.APIKey,
		model:     orDefault(cfg.LLM.Model, defaultOpenAIModel),
		baseURL:   strings.TrimRight(orDefault(cfg.LLM.BaseURL, defaultOpenAIBaseURL), "/"),
		maxTokens: cfg.LLM.MaxTokens,
		client:    &http.Client{},
	}
}

type openaiRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	Stream    bool            `json:"stream"`
	Messages  []openaiMessage `json:"messages"`
}

type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openaiChunk struct {
	Choices []struct {
		Delta struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (o *openaiGenerator) Name() string { return "openai" }

func (o *openaiGenerator) Stream(ctx context.Context, req Request) iter.Seq2[Message, error] {
	return singleUse(func(yield func(Message, error) bool) {
		body := openaiRequest{
			Model:     orDefault(req.Model, o.model),
			MaxTokens: orDefault(req.MaxTokens, o.maxTokens),
			Stream:    true,
			Messages:  []openaiMessage{{Role: "user", Content: req.Prompt}},
		}
		payload, err := json.Marshal(body)
		if err != nil {
			yield(Message{}, fmt.Errorf("marshal request: %w", err))
			return
		}

		url := o.baseURL + "/v1/chat/completions"
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			yield(Message{}, fmt.Errorf("create request: %w", err))
			return
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("Accept", "text/event-stream")
		httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)

		resp, err := o.client.Do(httpReq)
		if err != nil {
			yield(Message{}, fmt.Errorf("openai request: %w", err))
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			respBody, _ := io.ReadAll(resp.Body)
			yield(Message{}, fmt.Errorf("openai API returned %d: %s", resp.StatusCode, respBody))
			return
		}

		role := "assistant"
		for ev, err := range readEvents(resp.Body) {
			if err != nil {
				yield(Message{}, fmt.Errorf("read openai stream: %w", err))
				return
			}
			if ev.Data == "[DONE]" {
				return
			}
			var chunk openaiChunk
			if err := json.Unmarshal([]byte(ev.Data), &chunk); err != nil {
				yield(Message{}, fmt.Errorf("decode openai chunk: %w", err))
				return
			}
			if chunk.Error != nil {
				yield(Message{}, fmt.Errorf("openai stream error: %s", chunk.Error.Message))
				return
			}

			msg := Message{Role: role}
			for _, c := range chunk.Choices {
				if c.Delta.Role != "" {
					role = c.Delta.Role
					msg.Role = role
				}
				if c.Delta.Content != "" {
					msg.Content = append(msg.Content, Block{Type: BlockText, Text: c.Delta.Content})
				}
			}
			if !yield(msg, nil) {
				return
			}
		}
		yield(Message{}, fmt.Errorf("openai stream: %w", ErrTruncatedStream))
	})
}
