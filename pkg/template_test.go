package gild

import (
	"strings"
	"testing"
)

func TestRenderTemplateValues(t *testing.T) {
	out, err := renderTemplate("t", "hello {{.name}}", map[string]interface{}{"name": "gild"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "hello gild" {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestRenderTemplateSprigFuncs(t *testing.T) {
	out, err := renderTemplate("t", `{{ "build" | upper }}`, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "BUILD" {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestRenderTemplateGetFunc(t *testing.T) {
	values := map[string]interface{}{
		"build": map[string]interface{}{
			"target": "dist",
		},
	}
	out, err := renderTemplate("t", `{{ get "build.target" }}`, values)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "dist" {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestRenderTemplateGetMissingValue(t *testing.T) {
	_, err := renderTemplate("t", `{{ get "no.such" }}`, map[string]interface{}{})
	if err == nil || !strings.Contains(err.Error(), "no value found") {
		t.Errorf("expected a missing-value error, got %v", err)
	}
}

func TestRenderTemplateMissingKeyFails(t *testing.T) {
	_, err := renderTemplate("t", "{{.missing}}", map[string]interface{}{})
	if err == nil {
		t.Error("expected an error for a missing key")
	}
}
