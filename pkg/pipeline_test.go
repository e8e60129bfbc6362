package gild

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gild-run/gild/pkg/fsx"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(contents)
}

func runPipelineTask(t *testing.T, task *Task) error {
	t.Helper()
	return runPipeline(context.Background(), task, testLogger())
}

func TestPipelineCopiesSrcToDest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "in", "a.txt"), "hello")

	err := runPipelineTask(t, &Task{
		Name: "copy",
		Kind: KindPipeline,
		Src:  filepath.Join(dir, "in", "*.txt"),
		Dest: filepath.Join(dir, "out"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := readFile(t, filepath.Join(dir, "out", "a.txt")); got != "hello" {
		t.Errorf("unexpected output: %q", got)
	}
}

func TestPipelineTransformCoercion(t *testing.T) {
	testcases := []struct {
		name      string
		transform Transform
		expected  string
	}{
		{
			name: "string return",
			transform: func(contents []byte, f *fsx.File) (interface{}, error) {
				return "X", nil
			},
			expected: "X",
		},
		{
			name: "byte return",
			transform: func(contents []byte, f *fsx.File) (interface{}, error) {
				return []byte("Y"), nil
			},
			expected: "Y",
		},
		{
			name: "file record return",
			transform: func(contents []byte, f *fsx.File) (interface{}, error) {
				f.Contents = append(contents, '!')
				return f, nil
			},
			expected: "seed!",
		},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, "in", "a.txt"), "seed")

			err := runPipelineTask(t, &Task{
				Name:       "t",
				Kind:       KindPipeline,
				Src:        filepath.Join(dir, "in", "a.txt"),
				Transforms: []Transform{tc.transform},
				Dest:       filepath.Join(dir, "out"),
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got := readFile(t, filepath.Join(dir, "out", "a.txt")); got != tc.expected {
				t.Errorf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestPipelineTransformsComposeInOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "in", "a.txt"), "0")

	appender := func(suffix string) Transform {
		return func(contents []byte, f *fsx.File) (interface{}, error) {
			return string(contents) + suffix, nil
		}
	}

	err := runPipelineTask(t, &Task{
		Name:       "chain",
		Kind:       KindPipeline,
		Src:        filepath.Join(dir, "in", "a.txt"),
		Transforms: []Transform{appender("1"), appender("2"), appender("3")},
		Dest:       filepath.Join(dir, "out"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := readFile(t, filepath.Join(dir, "out", "a.txt")); got != "0123" {
		t.Errorf("transforms composed out of order: %q", got)
	}
}

func TestPipelineTransformContractError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "in", "a.txt"), "seed")

	err := runPipelineTask(t, &Task{
		Name: "bad",
		Kind: KindPipeline,
		Src:  filepath.Join(dir, "in", "a.txt"),
		Transforms: []Transform{
			func(contents []byte, f *fsx.File) (interface{}, error) {
				return 42, nil
			},
		},
	})
	var contract *TransformContractError
	if !errors.As(err, &contract) {
		t.Fatalf("expected *TransformContractError, got %v", err)
	}
}

func TestPipelineTransformErrorFailsPipeline(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "in", "a.txt"), "seed")

	boom := errors.New("boom")
	err := runPipelineTask(t, &Task{
		Name: "failing",
		Kind: KindPipeline,
		Src:  filepath.Join(dir, "in", "a.txt"),
		Transforms: []Transform{
			func(contents []byte, f *fsx.File) (interface{}, error) {
				return nil, boom
			},
		},
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected the transform error propagated, got %v", err)
	}
}

func TestPipelineRename(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "in", "a.txt"), "hello")

	err := runPipelineTask(t, &Task{
		Name:   "rename",
		Kind:   KindPipeline,
		Src:    filepath.Join(dir, "in", "a.txt"),
		Rename: RenameTo("newname.txt"),
		Dest:   filepath.Join(dir, "out"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := readFile(t, filepath.Join(dir, "out", "newname.txt")); got != "hello" {
		t.Errorf("unexpected renamed output: %q", got)
	}
}

func TestPipelineInlineFileSource(t *testing.T) {
	dir := t.TempDir()

	err := runPipelineTask(t, &Task{
		Name: "inline",
		Kind: KindPipeline,
		File: &fsx.File{Path: "virtual.txt", Contents: []byte("synthesized")},
		Dest: dir,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := readFile(t, filepath.Join(dir, "virtual.txt")); got != "synthesized" {
		t.Errorf("unexpected output: %q", got)
	}
}
