package validate

import (
	"strings"
	"testing"

	"github.com/skandermulder/extractor/internal/schema"
)

func compileTestSchema(t *testing.T, decl string) *schema.Compiled {
	t.Helper()
	node, err := schema.ParseYAML([]byte(decl))
	if err != nil {
		t.Fatalf("ParseYAML() error = %v", err)
	}
	compiled, err := schema.Compile(node)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	return compiled
}

func TestValidate_ConformingValue(t *testing.T) {
	compiled := compileTestSchema(t, `
name: string
age:
  optional: integer
`)
	res, err := Validate(`{"name":"John"}`, compiled, Options{})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if !res.Valid {
		t.Fatalf("expected valid, diagnostics: %v", res.Diagnostics)
	}
	if len(res.Diagnostics) != 0 {
		t.Fatalf("valid result carries diagnostics: %v", res.Diagnostics)
	}
	value, ok := res.Value.(map[string]any)
	if !ok || value["name"] != "John" {
		t.Fatalf("unexpected value: %#v", res.Value)
	}
}

func TestValidate_SingleViolationSingleDiagnostic(t *testing.T) {
	compiled := compileTestSchema(t, `age: integer`)
	res, err := Validate(`{"age":"thirty"}`, compiled, Options{})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if res.Valid {
		t.Fatal("expected invalid")
	}
	if len(res.Diagnostics) != 1 {
		t.Fatalf("diagnostics = %v, want exactly one", res.Diagnostics)
	}
	if res.Diagnostics[0].InstancePath != "/age" {
		t.Fatalf("instance path = %q, want /age", res.Diagnostics[0].InstancePath)
	}
}

func TestValidate_ParseFailureIsRootDiagnostic(t *testing.T) {
	compiled := compileTestSchema(t, `name: string`)
	res, err := Validate(`{not json`, compiled, Options{})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if res.Valid || len(res.Diagnostics) != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
	d := res.Diagnostics[0]
	if d.InstancePath != "/" || d.SchemaPath != "/" {
		t.Fatalf("parse failure diagnostic not at root: %+v", d)
	}
	if !strings.Contains(d.Message, "invalid JSON") {
		t.Fatalf("message = %q", d.Message)
	}
}

func TestValidate_AccumulatesIndependentFailures(t *testing.T) {
	compiled := compileTestSchema(t, `
name: string
age: integer
`)
	// Wrong type for name AND missing age: both surface at once.
	res, err := Validate(`{"name":1}`, compiled, Options{})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if res.Valid {
		t.Fatal("expected invalid")
	}
	if len(res.Diagnostics) != 2 {
		t.Fatalf("diagnostics = %v, want 2", res.Diagnostics)
	}
}

func TestValidate_EnumViolation(t *testing.T) {
	compiled := compileTestSchema(t, `status: [a, b]`)
	res, err := Validate(`{"status":"c"}`, compiled, Options{})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if res.Valid || len(res.Diagnostics) != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Diagnostics[0].InstancePath != "/status" {
		t.Fatalf("instance path = %q, want /status", res.Diagnostics[0].InstancePath)
	}
}

func TestValidate_ExtrasRejectedByDefault(t *testing.T) {
	compiled := compileTestSchema(t, `name: string`)

	res, err := Validate(`{"name":"John","extra":1}`, compiled, Options{})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if res.Valid {
		t.Fatal("extra property should be rejected by default")
	}
	if len(res.Diagnostics) != 1 || !strings.Contains(res.Diagnostics[0].Message, "extra") {
		t.Fatalf("diagnostics = %v", res.Diagnostics)
	}
}

func TestValidate_ExtrasAcceptedWhenAllowed(t *testing.T) {
	compiled := compileTestSchema(t, `name: string`)

	res, err := Validate(`{"name":"John","extra":1}`, compiled, Options{AllowExtras: true})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if !res.Valid {
		t.Fatalf("extra property should be accepted with AllowExtras, diagnostics: %v", res.Diagnostics)
	}
}

func TestValidate_AbsentOptionalObjectSkipsInnerRequired(t *testing.T) {
	compiled := compileTestSchema(t, `
title: string
author:
  optional:
    name: string
    email: string
`)

	// The whole author object is absent: its inner required fields must not
	// be reported.
	res, err := Validate(`{"title":"t"}`, compiled, Options{})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if !res.Valid {
		t.Fatalf("absent optional object should validate, diagnostics: %v", res.Diagnostics)
	}

	// Once the object is present, its inner required fields apply.
	res, err = Validate(`{"title":"t","author":{"name":"n"}}`, compiled, Options{})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if res.Valid {
		t.Fatal("present optional object with missing inner field should be invalid")
	}
	if res.Diagnostics[0].InstancePath != "/author" {
		t.Fatalf("instance path = %q, want /author", res.Diagnostics[0].InstancePath)
	}
}

func TestValidate_ArrayItemPaths(t *testing.T) {
	compiled := compileTestSchema(t, `tags: [string]`)
	res, err := Validate(`{"tags":["ok",2]}`, compiled, Options{})
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if res.Valid || len(res.Diagnostics) != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Diagnostics[0].InstancePath != "/tags/1" {
		t.Fatalf("instance path = %q, want /tags/1", res.Diagnostics[0].InstancePath)
	}
}

func TestValidator_ReusableAcrossAttempts(t *testing.T) {
	compiled := compileTestSchema(t, `age: integer`)
	v, err := New(compiled, Options{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if res := v.Validate(`{"age":"thirty"}`); res.Valid {
		t.Fatal("first use: expected invalid")
	}
	if res := v.Validate(`{"age":30}`); !res.Valid {
		t.Fatalf("second use: expected valid, diagnostics: %v", res.Diagnostics)
	}
}
