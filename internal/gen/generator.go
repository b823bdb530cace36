// Package gen orchestrates calls to an external text-generation model so
// that its output satisfies a learner's vocabulary constraint, retrying with
// accumulated feedback when it does not. Four artifact kinds share one
// bounded retry engine: word analysis, yes/no questions, fill-in-the-blank
// questions, and sentence evaluation.
package gen

import "context"

// TextGenerator is the external text-generation collaborator.
type TextGenerator interface {
	// Generate sends one prompt and returns the raw model text with usage
	// metadata. Transport failures (unreachable, non-200, timeout) surface
	// as errors and are not retried here.
	Generate(ctx context.Context, prompt string) (Response, error)
}

// Response is one raw model completion.
type Response struct {
	Text  string
	Usage Usage
}

// Usage is per-call token accounting. The orchestrator forwards it to the
// analytics collaborator but never interprets it.
type Usage struct {
	Model        string
	InputTokens  int64
	OutputTokens int64
}

// UsageRecorder receives usage metadata for each generation attempt.
// Implementations must be safe for concurrent use.
type UsageRecorder interface {
	Record(ctx context.Context, op string, u Usage)
}
