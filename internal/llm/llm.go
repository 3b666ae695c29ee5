// Package llm talks to hosted text-generation models. Each provider exposes
// its streamed reply as a lazy sequence of messages; Generate folds that
// sequence into the final HTML fragment.
package llm

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sync/atomic"

	"github.com/joestump/hxweather/internal/config"
)

// BlockText is the content block type that carries generated text.
const BlockText = "text"

// ErrStreamConsumed is yielded when a message sequence is iterated twice.
var ErrStreamConsumed = errors.New("llm: message stream already consumed")

// ErrTruncatedStream is yielded when a provider stream closes before its
// terminal event, so a partial reply is never mistaken for a complete one.
var ErrTruncatedStream = errors.New("llm: stream ended before terminal event")

// Request is a single-turn generation request. Model and MaxTokens fall back
// to the provider defaults when zero.
type Request struct {
	Prompt    string
	Model     string
	MaxTokens int
}

// Block is one content block of a streamed message.
type Block struct {
	Type string
	Text string
}

// Message is one element of a provider's streamed reply. Messages that carry
// no text (stream bookkeeping) have no content blocks.
type Message struct {
	Role    string
	Content []Block
}

// Generator issues single-turn requests to a text-generation service.
//
// Stream does no I/O until the returned sequence is ranged over. The sequence
// is finite and single-pass: it yields every message in arrival order, then
// stops. A transport or decode failure is yielded as the final error.
type Generator interface {
	Name() string
	Stream(ctx context.Context, req Request) iter.Seq2[Message, error]
}

// New creates a Generator for the configured provider. The API key is not
// checked here; a missing key fails on the first request.
func New(cfg *config.Config) (Generator, error) {
	switch cfg.LLM.Provider {
	case "", "anthropic":
		return newAnthropicGenerator(cfg), nil
	case "openai", "openai-compatible":
		return newOpenAIGenerator(cfg), nil
	case "gemini":
		return newGeminiGenerator(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %q", cfg.LLM.Provider)
	}
}

// singleUse guards seq so a second range yields ErrStreamConsumed instead of
// issuing another request.
func singleUse(seq iter.Seq2[Message, error]) iter.Seq2[Message, error] {
	var used atomic.Bool
	return func(yield func(Message, error) bool) {
		if used.Swap(true) {
			yield(Message{}, ErrStreamConsumed)
			return
		}
		seq(yield)
	}
}

func textMessage(role, text string) Message {
	return Message{Role: role, Content: []Block{{Type: BlockText, Text: text}}}
}

func orDefault[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
