package gild

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestArgsFromEnvVars(t *testing.T) {
	testcases := []struct {
		run        string
		trimPrefix string
		expected   []string
	}{
		{
			run:        "/foo bar --a=b",
			trimPrefix: "",
			expected:   []string{"/foo", "bar", "--a=b"},
		},
		{
			run:        " /foo bar --a=b ",
			trimPrefix: "",
			expected:   []string{"/foo", "bar", "--a=b"},
		},
		{
			run:        "/foo bar --a=b",
			trimPrefix: "/foo",
			expected:   []string{"bar", "--a=b"},
		},
		{
			run:        " /foo bar --a=b",
			trimPrefix: "/foo",
			expected:   []string{"bar", "--a=b"},
		},
		{
			run:        "",
			trimPrefix: "",
			expected:   nil,
		},
	}

	for i, tc := range testcases {
		t.Run(fmt.Sprintf("%d", i), func(t *testing.T) {
			getenv := func(name string) string {
				switch name {
				case "GILD_RUN":
					return tc.run
				case "GILD_RUN_TRIM_PREFIX":
					return tc.trimPrefix
				default:
					t.Fatalf("unexpected envvar accessed: %s", name)
					return ""
				}
			}
			args, err := argsFromEnvVars(getenv)
			if err != nil {
				t.Errorf("%v", err)
			}
			if diff := cmp.Diff(tc.expected, args); diff != "" {
				t.Errorf("argsFromEnvVars() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
