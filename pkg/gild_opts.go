package gild

import (
	"os"
	"strings"

	shellwords "github.com/mattn/go-shellwords"
)

// ArgsFromEnvVars reads the GILD_RUN environment variable as a fallback
// command line, optionally trimming GILD_RUN_TRIM_PREFIX from its front.
// Useful when gild is invoked via a wrapper that cannot pass arguments.
func ArgsFromEnvVars() ([]string, error) {
	return argsFromEnvVars(os.Getenv)
}

func argsFromEnvVars(getenv func(string) string) ([]string, error) {
	const (
		run           = "GILD_RUN"
		runTrimPrefix = "GILD_RUN_TRIM_PREFIX"
	)

	line := getenv(run)
	prefix := getenv(runTrimPrefix)

	if line == "" {
		return nil, nil
	}

	line = strings.TrimSpace(line)
	if prefix != "" {
		line = strings.TrimPrefix(line, prefix)
	}

	return shellwords.Parse(line)
}
