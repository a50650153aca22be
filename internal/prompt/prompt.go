// Package prompt renders the extraction and correction prompts. Rendering is
// deterministic: identical inputs produce byte-identical prompts.
package prompt

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/skandermulder/extractor/internal/validate"
)

// Strategy selects the tone and content of correction prompts.
type Strategy string

const (
	// StrategyReflect restates the diagnostics, demands three-step
	// reasoning and re-embeds both the schema and the source text. Largest
	// prompts, best correction odds.
	StrategyReflect Strategy = "reflect"

	// StrategyDirect states the diagnostics and demands corrected output
	// only, without re-embedding schema or source. Cheapest.
	StrategyDirect Strategy = "direct"

	// StrategyPolite is a courteous variant of direct that re-embeds the
	// schema but not the source text.
	StrategyPolite Strategy = "polite"
)

// ParseStrategy converts a config or flag value into a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case StrategyReflect:
		return StrategyReflect, nil
	case StrategyDirect:
		return StrategyDirect, nil
	case StrategyPolite:
		return StrategyPolite, nil
	default:
		return "", fmt.Errorf("unknown correction strategy %q (want reflect, direct or polite)", s)
	}
}

// emptySummary is rendered when a correction prompt is built from an empty
// diagnostic list.
const emptySummary = "no specific errors reported"

//go:embed initial.tmpl
var initialTmpl string

//go:embed reflect.tmpl
var reflectTmpl string

//go:embed direct.tmpl
var directTmpl string

//go:embed polite.tmpl
var politeTmpl string

var (
	initialTemplate = template.Must(template.New("initial").Parse(initialTmpl))
	reflectTemplate = template.Must(template.New("reflect").Parse(reflectTmpl))
	directTemplate  = template.Must(template.New("direct").Parse(directTmpl))
	politeTemplate  = template.Must(template.New("polite").Parse(politeTmpl))
)

type promptData struct {
	Text    string
	Schema  string
	Summary string
}

// Initial builds the first extraction prompt: task statement, the compiled
// schema verbatim, the source text verbatim, and the output constraints.
func Initial(text, schemaText string) string {
	return render(initialTemplate, promptData{Text: text, Schema: schemaText})
}

// Correction builds the retry prompt for the given strategy from the
// diagnostics summary of the previous attempt.
func Correction(s Strategy, summary, text, schemaText string) string {
	switch s {
	case StrategyReflect:
		return render(reflectTemplate, promptData{Text: text, Schema: schemaText, Summary: summary})
	case StrategyPolite:
		return render(politeTemplate, promptData{Schema: schemaText, Summary: summary})
	default:
		return render(directTemplate, promptData{Summary: summary})
	}
}

// Summary renders diagnostics one per line for embedding into correction
// prompts. An empty list renders as a fixed sentinel so the prompt never
// contains a dangling header.
func Summary(diags []validate.Diagnostic) string {
	if len(diags) == 0 {
		return emptySummary
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("- %s at '%s' (schema: %s)", d.Message, d.InstancePath, d.SchemaPath)
	}
	return strings.Join(lines, "\n")
}

func render(t *template.Template, data promptData) string {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		// Templates are static and data is plain strings; execution cannot
		// fail at runtime.
		panic(err)
	}
	return buf.String()
}
