// Package extract runs the self-correcting generation loop: it alternates
// generation, normalization and validation, feeding validation diagnostics
// back into the next prompt until the output conforms to the schema or the
// retry budget is spent.
package extract

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/skandermulder/extractor/internal/normalize"
	"github.com/skandermulder/extractor/internal/prompt"
	"github.com/skandermulder/extractor/internal/providers"
	"github.com/skandermulder/extractor/internal/schema"
	"github.com/skandermulder/extractor/internal/validate"
)

// DefaultMaxRetries bounds the loop when the request does not set a budget.
const DefaultMaxRetries = 3

// Observer is notified once per attempt, after validation: diags is nil for
// a valid attempt. Purely informational; it must not affect control flow.
type Observer func(attempt int, diags []validate.Diagnostic)

// Request describes one extraction. Every field except Text and Schema has a
// usable zero value.
type Request struct {
	// Text is the source document to extract from.
	Text string

	// Schema is the declarative shape of the desired output.
	Schema schema.Node

	// Model passed through to the backend (backend default if empty).
	Model string

	// MaxRetries is the total attempt budget, including the first attempt.
	// Zero means DefaultMaxRetries; one means a single generation call and
	// no correction prompt.
	MaxRetries int

	// Strategy selects the correction prompt tone (default reflect).
	Strategy prompt.Strategy

	Temperature float64

	// AllowExtras accepts undeclared object properties instead of rejecting
	// them.
	AllowExtras bool

	Observer Observer
	Logger   *slog.Logger
}

// Result is a successful extraction.
type Result struct {
	// Value is the parsed, schema-conformant output.
	Value any

	// Attempts is the number of generation calls made.
	Attempts int
}

// Run executes the correction loop against one backend. The schema is
// compiled once; a CompileError aborts before any backend call. Each attempt
// generates, normalizes and validates; invalid attempts within budget get a
// correction prompt built from their diagnostics. Backend and normalization
// failures are fatal and never retried. The loop makes at most MaxRetries
// backend calls and always terminates.
func Run(ctx context.Context, gen providers.Generator, req Request) (*Result, error) {
	maxRetries := req.MaxRetries
	if maxRetries == 0 {
		maxRetries = DefaultMaxRetries
	}
	if maxRetries < 1 {
		return nil, fmt.Errorf("max retries must be at least 1, got %d", maxRetries)
	}
	strategy := req.Strategy
	if strategy == "" {
		strategy = prompt.StrategyReflect
	}
	logger := req.Logger
	if logger == nil {
		logger = slog.Default()
	}

	compiled, err := schema.Compile(req.Schema)
	if err != nil {
		return nil, err
	}
	validator, err := validate.New(compiled, validate.Options{AllowExtras: req.AllowExtras})
	if err != nil {
		return nil, err
	}
	schemaText := compiled.String()

	p := prompt.Initial(req.Text, schemaText)
	for attempt := 1; ; attempt++ {
		raw, err := gen.Generate(ctx, &providers.GenerateRequest{
			Model:       req.Model,
			Messages:    []providers.Message{{Role: "user", Content: p}},
			Temperature: req.Temperature,
		})
		if err != nil {
			return nil, &BackendError{Backend: gen.Name(), Err: err}
		}

		text, err := normalize.Text(raw)
		if err != nil {
			return nil, err
		}

		res := validator.Validate(text)
		if res.Valid {
			observe(req.Observer, attempt, nil)
			logger.Debug("extraction succeeded", "attempts", attempt)
			return &Result{Value: res.Value, Attempts: attempt}, nil
		}

		observe(req.Observer, attempt, res.Diagnostics)
		logger.Debug("attempt failed validation",
			"attempt", attempt,
			"diagnostics", len(res.Diagnostics),
		)

		if attempt == maxRetries {
			return nil, &BudgetExhaustedError{Attempts: attempt, Diagnostics: res.Diagnostics}
		}
		p = prompt.Correction(strategy, prompt.Summary(res.Diagnostics), req.Text, schemaText)
	}
}

func observe(obs Observer, attempt int, diags []validate.Diagnostic) {
	if obs != nil {
		obs(attempt, diags)
	}
}
