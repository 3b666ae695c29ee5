package llm

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/joestump/hxweather/internal/llm")

// Outcome is the terminal state of one generation.
type Outcome int

const (
	// Succeeded means the model produced non-empty HTML.
	Succeeded Outcome = iota
	// Empty means the call completed but left no text after fence stripping.
	Empty
	// Failed means the call, the transport or the stream decode failed.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "succeeded"
	case Empty:
		return "empty"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Result is the value Generate hands back to the HTTP layer. HTML is set only
// for Succeeded, Err only for Failed.
type Result struct {
	Outcome Outcome
	HTML    string
	Err     error
}

// Generate runs one single-turn generation: it streams the reply, folds it
// with Collect and strips code fences. It never retries and never panics; a
// panicking provider is reported as Failed.
func Generate(ctx context.Context, gen Generator, req Request) (res Result) {
	ctx, span := tracer.Start(ctx, "llm.Generate", trace.WithAttributes(
		attribute.String("llm.provider", gen.Name()),
		attribute.String("llm.model", req.Model),
		attribute.Int("llm.prompt_chars", len(req.Prompt)),
	))
	defer func() {
		if r := recover(); r != nil {
			res = Result{Outcome: Failed, Err: fmt.Errorf("%s generator panic: %v", gen.Name(), r)}
		}
		span.SetAttributes(
			attribute.String("llm.outcome", res.Outcome.String()),
			attribute.Int("llm.html_chars", len(res.HTML)),
		)
		if res.Err != nil {
			span.RecordError(res.Err)
			span.SetStatus(codes.Error, res.Err.Error())
		}
		span.End()
	}()

	text, err := Collect(gen.Stream(ctx, req))
	if err != nil {
		return Result{Outcome: Failed, Err: err}
	}
	html := StripFences(text)
	if html == "" {
		return Result{Outcome: Empty}
	}
	return Result{Outcome: Succeeded, HTML: html}
}
