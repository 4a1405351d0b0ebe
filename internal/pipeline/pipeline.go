// Package pipeline fans one submission out to several sinks. Blocking steps
// run first and in order; a blocking failure aborts the run. The remaining
// steps run concurrently and their failures are recorded, never returned.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"ecohubs/internal/integrations"
	"ecohubs/pkg/requestcontext"
)

type Status string

const (
	StatusOK      Status = "ok"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// ErrSkipped marks a step that chose not to run.
var ErrSkipped = errors.New("skipped")

type skipError struct {
	detail string
}

func (e *skipError) Error() string        { return "skipped: " + e.detail }
func (e *skipError) Is(target error) bool { return target == ErrSkipped }

// Skip returns an error that records the step as skipped with detail.
func Skip(detail string) error {
	return &skipError{detail: detail}
}

// Step is one sink.
type Step[T any] struct {
	Name     string
	Blocking bool
	Run      func(ctx context.Context, payload T) error
}

// Entry is the outcome of one step.
type Entry struct {
	Name       string                `json:"name"`
	Status     Status                `json:"status"`
	Category   integrations.Category `json:"category,omitempty"`
	Error      string                `json:"error,omitempty"`
	Detail     string                `json:"detail,omitempty"`
	DurationMS int64                 `json:"duration_ms"`
}

// Report lists step outcomes in declaration order.
type Report []Entry

// Get returns the entry for a step name.
func (r Report) Get(name string) (Entry, bool) {
	for _, e := range r {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Failed returns the names of failed steps.
func (r Report) Failed() []string {
	var out []string
	for _, e := range r {
		if e.Status == StatusFailed {
			out = append(out, e.Name)
		}
	}
	return out
}

// BlockingError is returned when a blocking step fails.
type BlockingError struct {
	Step string
	Err  error
}

func (e *BlockingError) Error() string {
	return fmt.Sprintf("blocking step %s failed: %v", e.Step, e.Err)
}

func (e *BlockingError) Unwrap() error {
	return e.Err
}

// Recorder observes step outcomes.
type Recorder interface {
	RecordStep(name string, status Status, d time.Duration)
}

// Runner executes steps over payloads of type T.
type Runner[T any] struct {
	logger      *slog.Logger
	metrics     Recorder
	tracer      trace.Tracer
	stepTimeout time.Duration
}

type Option[T any] func(*Runner[T])

func WithMetrics[T any](m Recorder) Option[T] {
	return func(r *Runner[T]) {
		r.metrics = m
	}
}

// WithStepTimeout bounds each best-effort step.
func WithStepTimeout[T any](d time.Duration) Option[T] {
	return func(r *Runner[T]) {
		r.stepTimeout = d
	}
}

func NewRunner[T any](logger *slog.Logger, opts ...Option[T]) *Runner[T] {
	r := &Runner[T]{
		logger:      logger,
		tracer:      otel.Tracer("ecohubs/pipeline"),
		stepTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes steps against payload. The returned error is non-nil only
// when a blocking step failed, in which case it is a *BlockingError and the
// best-effort steps did not run.
func (r *Runner[T]) Run(ctx context.Context, steps []Step[T], payload T) (Report, error) {
	report := make(Report, 0, len(steps))

	var bestEffort []Step[T]
	for _, step := range steps {
		if !step.Blocking {
			bestEffort = append(bestEffort, step)
			continue
		}
		entry, err := r.runStep(ctx, step, payload)
		report = append(report, entry)
		if err != nil && entry.Status == StatusFailed {
			return report, &BlockingError{Step: step.Name, Err: err}
		}
	}

	// Best-effort sinks outlive a cancelled request so a client disconnect
	// does not drop emails already under way.
	detached := context.WithoutCancel(ctx)
	entries := make([]Entry, len(bestEffort))
	var g errgroup.Group
	for i, step := range bestEffort {
		g.Go(func() error {
			stepCtx, cancel := context.WithTimeout(detached, r.stepTimeout)
			defer cancel()
			entries[i], _ = r.runStep(stepCtx, step, payload)
			return nil
		})
	}
	_ = g.Wait()

	return append(report, entries...), nil
}

func (r *Runner[T]) runStep(ctx context.Context, step Step[T], payload T) (entry Entry, err error) {
	ctx, span := r.tracer.Start(ctx, "pipeline."+step.Name,
		trace.WithAttributes(
			attribute.String("pipeline.step", step.Name),
			attribute.Bool("pipeline.blocking", step.Blocking),
		))
	defer span.End()

	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic in step %s: %v", step.Name, rec)
			entry = Entry{Name: step.Name, Status: StatusFailed, Category: integrations.CategoryInternal, Error: err.Error()}
		}
		entry.DurationMS = time.Since(start).Milliseconds()
		if r.metrics != nil {
			r.metrics.RecordStep(step.Name, entry.Status, time.Since(start))
		}
		switch entry.Status {
		case StatusFailed:
			span.SetStatus(codes.Error, entry.Error)
			r.logger.ErrorContext(ctx, "submission sink failed",
				"request_id", requestcontext.RequestID(ctx),
				"sink", step.Name,
				"blocking", step.Blocking,
				"category", entry.Category,
				"error", err,
			)
		case StatusSkipped:
			span.SetAttributes(attribute.String("pipeline.skip_reason", entry.Detail))
			r.logger.DebugContext(ctx, "submission sink skipped",
				"request_id", requestcontext.RequestID(ctx),
				"sink", step.Name,
				"detail", entry.Detail,
			)
		}
	}()

	err = step.Run(ctx, payload)
	entry = classify(step.Name, err)
	return entry, err
}

func classify(name string, err error) Entry {
	if err == nil {
		return Entry{Name: name, Status: StatusOK}
	}
	var skip *skipError
	if errors.As(err, &skip) {
		return Entry{Name: name, Status: StatusSkipped, Detail: skip.detail}
	}
	if errors.Is(err, ErrSkipped) {
		return Entry{Name: name, Status: StatusSkipped}
	}
	category := integrations.GetCategory(err)
	if errors.Is(err, context.DeadlineExceeded) {
		category = integrations.CategoryTimeout
	}
	return Entry{Name: name, Status: StatusFailed, Category: category, Error: err.Error()}
}
