package gen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mittord/mittord-backend/internal/domain"
	"github.com/mittord/mittord-backend/internal/validate"
	"github.com/mittord/mittord-backend/internal/vocab"
)

const (
	// DefaultMaxRetries bounds the number of regeneration rounds after the
	// first attempt. With the default, a call makes at most 4 model calls.
	DefaultMaxRetries = 3

	// DefaultSampleSize caps the known-vocabulary block embedded in prompts.
	DefaultSampleSize = 50
)

// Config tunes the retry protocol.
type Config struct {
	MaxRetries int
	SampleSize int
}

func (c Config) withDefaults() Config {
	if c.MaxRetries <= 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.SampleSize <= 0 {
		c.SampleSize = DefaultSampleSize
	}
	return c
}

// Orchestrator produces vocabulary-constrained content artifacts through a
// bounded retry protocol. Each call is a strictly sequential loop; separate
// calls may run concurrently, each over its own vocabulary snapshot.
type Orchestrator struct {
	gen   TextGenerator
	usage UsageRecorder
	cfg   Config
	log   *slog.Logger
}

// New creates an Orchestrator. usage may be nil when no analytics sink is
// wired.
func New(gen TextGenerator, usage UsageRecorder, cfg Config, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		gen:   gen,
		usage: usage,
		cfg:   cfg.withDefaults(),
		log:   log.With("component", "orchestrator"),
	}
}

// attemptState is the explicit accumulator of one orchestrated call: the
// attempt counter and the violations discovered so far, in first-offense
// order. It lives only for the duration of the call.
type attemptState struct {
	attempt int
	illegal []string
}

// merge folds newly discovered violations into the accumulator, keeping
// first-offense order and dropping duplicates.
func (s *attemptState) merge(violations []string) {
	seen := make(map[string]bool, len(s.illegal))
	for _, v := range s.illegal {
		seen[v] = true
	}
	for _, v := range violations {
		if seen[v] {
			continue
		}
		seen[v] = true
		s.illegal = append(s.illegal, v)
	}
}

// artifactSpec parameterizes the shared retry engine for one artifact kind.
type artifactSpec[T any] struct {
	// op names the artifact kind in logs, usage records and errors.
	op string
	// prompt builds the attempt's prompt; st.illegal feeds the retry
	// feedback block.
	prompt func(st attemptState) string
	// parse turns raw model text into the artifact. A parse failure
	// consumes the attempt but is reported distinctly from vocabulary
	// violations.
	parse func(raw string) (T, error)
	// validate checks every learner-facing field. For multi-item
	// artifacts it may return a reduced artifact with only the passing
	// items; ok reports whether anything survived.
	validate func(artifact T) (kept T, violations []string, ok bool)
}

// run drives the retry state machine for one artifact kind. Transport
// errors are terminal immediately. Parse errors and all-fields-illegal
// attempts both consume budget; after the last attempt the caller gets the
// parse error or an ExhaustedError with the accumulated violation list.
func run[T any](ctx context.Context, o *Orchestrator, spec artifactSpec[T]) (T, error) {
	var zero T
	var st attemptState
	var lastParseErr error

	for st.attempt = 0; st.attempt <= o.cfg.MaxRetries; st.attempt++ {
		resp, err := o.gen.Generate(ctx, spec.prompt(st))
		if err != nil {
			return zero, fmt.Errorf("%s: %w", spec.op, err)
		}
		o.recordUsage(ctx, spec.op, resp.Usage)

		artifact, err := spec.parse(resp.Text)
		if err != nil {
			lastParseErr = err
			o.log.WarnContext(ctx, "model response unusable",
				"op", spec.op, "attempt", st.attempt, "error", err)
			continue
		}
		lastParseErr = nil

		kept, violations, ok := spec.validate(artifact)
		if ok {
			if len(violations) > 0 {
				o.log.InfoContext(ctx, "partial acceptance",
					"op", spec.op, "attempt", st.attempt, "dropped", violations)
			}
			return kept, nil
		}
		st.merge(violations)
		o.log.InfoContext(ctx, "vocabulary violations, retrying",
			"op", spec.op, "attempt", st.attempt, "illegal", st.illegal)
	}

	if lastParseErr != nil {
		return zero, fmt.Errorf("%s: %w", spec.op, lastParseErr)
	}
	return zero, &ExhaustedError{Op: spec.op, Attempts: o.cfg.MaxRetries + 1, Illegal: st.illegal}
}

func (o *Orchestrator) recordUsage(ctx context.Context, op string, u Usage) {
	if o.usage == nil {
		return
	}
	o.usage.Record(ctx, op, u)
}

// fieldViolations validates one learner-facing text field. Character-based
// languages are checked per character, others per word.
func fieldViolations(v *validate.Validator, lang domain.Language, text string, set *vocab.Set) []string {
	if lang.CharacterBased() {
		return v.UnknownChars(text, set)
	}
	return v.UnknownWords(text, set)
}

// IsExhausted reports whether err is an exhaustion failure and returns the
// accumulated illegal list when it is.
func IsExhausted(err error) (*ExhaustedError, bool) {
	var e *ExhaustedError
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
