// Package validate checks generated text against a compiled schema and
// reports located diagnostics instead of stopping at the first failure.
package validate

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/skandermulder/extractor/internal/schema"
)

// Diagnostic is a single located validation failure.
type Diagnostic struct {
	// InstancePath points at the offending location in the parsed value,
	// e.g. "/author/email". The document root is "/".
	InstancePath string `json:"instance_path"`

	// Message describes the violation.
	Message string `json:"message"`

	// SchemaPath points at the violated schema rule, e.g.
	// "/properties/age/type". The schema root is "/".
	SchemaPath string `json:"schema_path"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s at %q (schema: %s)", d.Message, d.InstancePath, d.SchemaPath)
}

// Options configure validation policy.
type Options struct {
	// AllowExtras accepts object properties the schema does not declare.
	// The default policy rejects them: extra properties are almost always a
	// sign the model invented fields, and silently dropping them hides that.
	AllowExtras bool
}

// Result is the outcome of validating one normalized response.
type Result struct {
	Valid       bool
	Value       any
	Diagnostics []Diagnostic
}

// Validator checks text against one compiled schema. Build it once per
// extraction and reuse it across attempts; it is immutable and safe for
// concurrent use.
type Validator struct {
	compiled *jsonschema.Schema
}

// New builds a Validator for the compiled schema under the given options.
func New(c *schema.Compiled, opts Options) (*Validator, error) {
	doc, err := c.JSONSchema(!opts.AllowExtras)
	if err != nil {
		return nil, fmt.Errorf("failed to render validation schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(doc)); err != nil {
		return nil, fmt.Errorf("failed to load validation schema: %w", err)
	}
	compiled, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile validation schema: %w", err)
	}
	return &Validator{compiled: compiled}, nil
}

// Validate parses text as JSON and structurally checks it. A parse failure
// yields a single root diagnostic; a structural failure yields one diagnostic
// per independent violation across the whole tree.
func (v *Validator) Validate(text string) Result {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		return Result{Diagnostics: []Diagnostic{{
			InstancePath: "/",
			Message:      fmt.Sprintf("invalid JSON: %v", err),
			SchemaPath:   "/",
		}}}
	}

	if err := v.compiled.Validate(value); err != nil {
		if verr, ok := err.(*jsonschema.ValidationError); ok {
			return Result{Diagnostics: flatten(verr)}
		}
		return Result{Diagnostics: []Diagnostic{{
			InstancePath: "/",
			Message:      err.Error(),
			SchemaPath:   "/",
		}}}
	}

	return Result{Valid: true, Value: value}
}

// Validate is a convenience wrapper for one-off validation, e.g. the
// validation-only CLI mode.
func Validate(text string, c *schema.Compiled, opts Options) (Result, error) {
	v, err := New(c, opts)
	if err != nil {
		return Result{}, err
	}
	return v.Validate(text), nil
}

// flatten collects the leaf causes of a validation error tree into an
// ordered diagnostic list. Leaves are sorted by instance path, then schema
// path, so that rendering is deterministic regardless of evaluation order.
func flatten(verr *jsonschema.ValidationError) []Diagnostic {
	var diags []Diagnostic
	collectLeaves(verr, &diags)
	if len(diags) == 0 {
		diags = append(diags, Diagnostic{
			InstancePath: pointer(verr.InstanceLocation),
			Message:      verr.Message,
			SchemaPath:   pointer(verr.KeywordLocation),
		})
	}
	sort.SliceStable(diags, func(i, j int) bool {
		if diags[i].InstancePath != diags[j].InstancePath {
			return diags[i].InstancePath < diags[j].InstancePath
		}
		if diags[i].SchemaPath != diags[j].SchemaPath {
			return diags[i].SchemaPath < diags[j].SchemaPath
		}
		return diags[i].Message < diags[j].Message
	})
	return diags
}

func collectLeaves(verr *jsonschema.ValidationError, out *[]Diagnostic) {
	if len(verr.Causes) == 0 {
		*out = append(*out, Diagnostic{
			InstancePath: pointer(verr.InstanceLocation),
			Message:      verr.Message,
			SchemaPath:   pointer(verr.KeywordLocation),
		})
		return
	}
	for _, cause := range verr.Causes {
		collectLeaves(cause, out)
	}
}

func pointer(loc string) string {
	if loc == "" {
		return "/"
	}
	return loc
}
