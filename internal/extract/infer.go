package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/skandermulder/extractor/internal/normalize"
	"github.com/skandermulder/extractor/internal/providers"
	"github.com/skandermulder/extractor/internal/schema"
)

// InferOptions configure schema inference from sample texts.
type InferOptions struct {
	// Samples are representative source texts (one to a handful).
	Samples []string

	// Fields optionally names the fields the schema should cover. When
	// empty the model decides.
	Fields []string

	Model       string
	Temperature float64
}

const inferInstructions = `Propose an extraction schema for the sample texts below.

Describe the schema as a single JSON object using this vocabulary:
- a field whose value is "string", "integer", "number" or "boolean" is that primitive
- a field whose value is a list of two or more strings is an enum of those values
- a field whose value is a single-element list is an array of that element
- a field whose value is an object is a nested object
- a field whose value is {"optional": <spec>} is optional

Respond with raw JSON only: no markdown fences, no commentary.`

// InferSchema asks the backend to propose a declarative schema for the given
// samples, then parses and compiles the proposal to prove it is usable. This
// is a single generation call; inference failures are not self-corrected.
func InferSchema(ctx context.Context, gen providers.Generator, opts InferOptions) (schema.Node, error) {
	if len(opts.Samples) == 0 {
		return nil, fmt.Errorf("schema inference needs at least one sample text")
	}

	var b strings.Builder
	b.WriteString(inferInstructions)
	if len(opts.Fields) > 0 {
		fmt.Fprintf(&b, "\n\nThe schema must cover these fields: %s.", strings.Join(opts.Fields, ", "))
	}
	for i, sample := range opts.Samples {
		fmt.Fprintf(&b, "\n\nSample %d:\n%s", i+1, sample)
	}

	raw, err := gen.Generate(ctx, &providers.GenerateRequest{
		Model:       opts.Model,
		Messages:    []providers.Message{{Role: "user", Content: b.String()}},
		Temperature: opts.Temperature,
	})
	if err != nil {
		return nil, &BackendError{Backend: gen.Name(), Err: err}
	}

	text, err := normalize.Text(raw)
	if err != nil {
		return nil, err
	}

	node, err := schema.ParseJSON([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("model proposed an unusable schema: %w", err)
	}
	if _, err := schema.Compile(node); err != nil {
		return nil, fmt.Errorf("model proposed an unusable schema: %w", err)
	}
	return node, nil
}
