package gild

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestScriptFuncRuns(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "ran")

	fn := ScriptFunc("touch", "touch "+marker, nil, testLogger())
	if err := fn(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(marker); err != nil {
		t.Errorf("script did not run: %v", err)
	}
}

func TestScriptFuncRendersValues(t *testing.T) {
	var out bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&out)
	logger.SetFormatter(&MessageOnlyFormatter{})

	fn := ScriptFunc("greet", "echo hello {{.name}}", map[string]interface{}{"name": "gild"}, logger)
	if err := fn(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "hello gild") {
		t.Errorf("rendered script output missing: %q", out.String())
	}
}

func TestScriptFuncExportsValuesAsEnv(t *testing.T) {
	var out bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&out)
	logger.SetFormatter(&MessageOnlyFormatter{})

	values := map[string]interface{}{
		"build": map[string]interface{}{"target": "dist"},
	}
	fn := ScriptFunc("env", `echo "$GILD_BUILD_TARGET"`, values, logger)
	if err := fn(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "dist") {
		t.Errorf("values not exported to the script env: %q", out.String())
	}
}

func TestScriptFuncReportsFailure(t *testing.T) {
	fn := ScriptFunc("fail", "exit 3", nil, testLogger())
	if err := fn(context.Background()); err == nil {
		t.Error("expected the script failure reported")
	}
}
