// Package llmtest provides an in-memory llm.Generator for tests.
package llmtest

import (
	"context"
	"iter"
	"sync"

	"github.com/joestump/hxweather/internal/llm"
)

// Fake replays a fixed reply and records every request it receives.
type Fake struct {
	// Messages is the reply streamed to each caller.
	Messages []llm.Message
	// Err, when set, is yielded after Messages.
	Err error

	mu       sync.Mutex
	requests []llm.Request
}

// Reply returns a Fake that streams each fragment as its own single-block
// message.
func Reply(fragments ...string) *Fake {
	f := &Fake{}
	for _, s := range fragments {
		f.Messages = append(f.Messages, llm.Message{
			Role:    "assistant",
			Content: []llm.Block{{Type: llm.BlockText, Text: s}},
		})
	}
	return f
}

// Failing returns a Fake whose stream yields err immediately.
func Failing(err error) *Fake {
	return &Fake{Err: err}
}

func (f *Fake) Name() string { return "fake" }

func (f *Fake) Stream(_ context.Context, req llm.Request) iter.Seq2[llm.Message, error] {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	return func(yield func(llm.Message, error) bool) {
		for _, m := range f.Messages {
			if !yield(m, nil) {
				return
			}
		}
		if f.Err != nil {
			yield(llm.Message{}, f.Err)
		}
	}
}

// Requests returns a copy of the requests received so far.
func (f *Fake) Requests() []llm.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]llm.Request(nil), f.requests...)
}

// Calls reports how many times Stream was called.
func (f *Fake) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}
