package llm

import (
	"context"
	"fmt"
	"iter"

	"google.golang.org/genai"

	"github.com/joestump/hxweather/internal/config"
)

const defaultGeminiModel = "gemini-2.5-flash"

// geminiGenerator streams from the Gemini API through the genai SDK. The SDK
// client is created per request so a missing key surfaces as a request
// failure rather than a startup error.
type geminiGenerator struct {
	apiKey    string
	model     string
	baseURL   string
	maxTokens int
}

func newGeminiGenerator(cfg *config.Config) *geminiGenerator {
	return &geminiGenerator{
		apiKey:    cfg.LLM.APIKey,
		model:     orDefault(cfg.LLM.Model, defaultGeminiModel),
		baseURL:   cfg.LLM.BaseURL,
		maxTokens: cfg.LLM.MaxTokens,
	}
}

func (g *geminiGenerator) Name() string { return "gemini" }

func (g *geminiGenerator) Stream(ctx context.Context, req Request) iter.Seq2[Message, error] {
	return singleUse(func(yield func(Message, error) bool) {
		if g.apiKey == "" {
			yield(Message{}, fmt.Errorf("gemini: API key not configured"))
			return
		}
		cc := &genai.ClientConfig{
			APIKey:  g.apiKey,
			Backend: genai.BackendGeminiAPI,
		}
		if g.baseURL != "" {
			cc.HTTPOptions.BaseURL = g.baseURL
		}
		client, err := genai.NewClient(ctx, cc)
		if err != nil {
			yield(Message{}, fmt.Errorf("create genai client: %w", err))
			return
		}

		contents := []*genai.Content{
			genai.NewContentFromText(req.Prompt, genai.RoleUser),
		}
		genCfg := &genai.GenerateContentConfig{
			MaxOutputTokens: int32(orDefault(req.MaxTokens, g.maxTokens)),
		}

		for resp, err := range client.Models.GenerateContentStream(ctx, orDefault(req.Model, g.model), contents, genCfg) {
			if err != nil {
				yield(Message{}, fmt.Errorf("gemini stream: %w", err))
				return
			}
			if !yield(geminiMessage(resp), nil) {
				return
			}
		}
	})
}

// geminiMessage flattens the first candidate of a streamed chunk. Thought
// parts are not part of the answer and are dropped.
func geminiMessage(resp *genai.GenerateContentResponse) Message {
	msg := Message{Role: string(genai.RoleModel)}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return msg
	}
	content := resp.Candidates[0].Content
	if content.Role != "" {
		msg.Role = content.Role
	}
	for _, p := range content.Parts {
		if p == nil || p.Thought || p.Text == "" {
			continue
		}
		msg.Content = append(msg.Content, Block{Type: BlockText, Text: p.Text})
	}
	return msg
}
