package prompt

import (
	"strings"
	"testing"

	"github.com/skandermulder/extractor/internal/validate"
)

const (
	testSchema = `{"type":"object","properties":{"age":{"type":"integer"}},"required":["age"]}`
	testText   = "John is thirty years old."
)

var testDiags = []validate.Diagnostic{
	{InstancePath: "/age", Message: "expected integer, but got string", SchemaPath: "/properties/age/type"},
	{InstancePath: "/name", Message: "missing property", SchemaPath: "/required"},
}

func TestInitial_EmbedsSchemaTextAndConstraints(t *testing.T) {
	p := Initial(testText, testSchema)

	for _, want := range []string{testSchema, testText, "raw JSON", "markdown", "fields that are not in the schema"} {
		if !strings.Contains(p, want) {
			t.Fatalf("initial prompt missing %q:\n%s", want, p)
		}
	}
}

func TestSummary_Rendering(t *testing.T) {
	got := Summary(testDiags)
	want := "- expected integer, but got string at '/age' (schema: /properties/age/type)\n" +
		"- missing property at '/name' (schema: /required)"
	if got != want {
		t.Fatalf("Summary() = %q, want %q", got, want)
	}
}

func TestSummary_EmptySentinel(t *testing.T) {
	if got := Summary(nil); got != "no specific errors reported" {
		t.Fatalf("Summary(nil) = %q", got)
	}
}

func TestCorrection_StrategyContext(t *testing.T) {
	summary := Summary(testDiags)

	reflectP := Correction(StrategyReflect, summary, testText, testSchema)
	directP := Correction(StrategyDirect, summary, testText, testSchema)
	politeP := Correction(StrategyPolite, summary, testText, testSchema)

	// All strategies restate the diagnostics.
	for name, p := range map[string]string{"reflect": reflectP, "direct": directP, "polite": politeP} {
		if !strings.Contains(p, "/age") {
			t.Fatalf("%s prompt does not restate diagnostics:\n%s", name, p)
		}
	}

	// reflect re-embeds schema and source, and demands three steps.
	if !strings.Contains(reflectP, testSchema) || !strings.Contains(reflectP, testText) {
		t.Fatalf("reflect prompt should embed schema and source text:\n%s", reflectP)
	}
	for _, step := range []string{"1.", "2.", "3."} {
		if !strings.Contains(reflectP, step) {
			t.Fatalf("reflect prompt missing step %q", step)
		}
	}

	// direct embeds neither.
	if strings.Contains(directP, testSchema) || strings.Contains(directP, testText) {
		t.Fatalf("direct prompt should not embed schema or source text:\n%s", directP)
	}

	// polite embeds the schema but not the source.
	if !strings.Contains(politeP, testSchema) {
		t.Fatalf("polite prompt should embed the schema:\n%s", politeP)
	}
	if strings.Contains(politeP, testText) {
		t.Fatalf("polite prompt should not embed the source text:\n%s", politeP)
	}
}

func TestPrompts_Deterministic(t *testing.T) {
	summary := Summary(testDiags)
	if Initial(testText, testSchema) != Initial(testText, testSchema) {
		t.Fatal("Initial is not deterministic")
	}
	for _, s := range []Strategy{StrategyReflect, StrategyDirect, StrategyPolite} {
		if Correction(s, summary, testText, testSchema) != Correction(s, summary, testText, testSchema) {
			t.Fatalf("Correction(%s) is not deterministic", s)
		}
	}
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in      string
		want    Strategy
		wantErr bool
	}{
		{"reflect", StrategyReflect, false},
		{"Direct", StrategyDirect, false},
		{" polite ", StrategyPolite, false},
		{"shouty", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseStrategy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseStrategy(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Fatalf("ParseStrategy(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
