package gild

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"sync"

	shellwords "github.com/mattn/go-shellwords"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/gild-run/gild/pkg/util/maputil"
	"github.com/gild-run/gild/pkg/util/stringutil"
)

// envShell overrides the interpreter used for script tasks, e.g.
// GILD_SHELL="bash -e".
const envShell = "GILD_SHELL"

// ScriptFunc compiles a shell script body into a task function. The script
// is rendered as a template against values before each run, and the values
// are additionally exported as GILD_-prefixed environment variables.
func ScriptFunc(name, code string, values map[string]interface{}, logger *logrus.Logger) Func {
	return func(ctx context.Context) error {
		rendered, err := renderTemplate(name, code, values)
		if err != nil {
			return err
		}
		return runScript(ctx, name, rendered, values, logger)
	}
}

func runScript(ctx context.Context, name, code string, values map[string]interface{}, logger *logrus.Logger) error {
	shell := []string{"sh", "-c"}
	if custom := os.Getenv(envShell); custom != "" {
		parsed, err := shellwords.Parse(custom)
		if err != nil {
			return errors.Wrapf(err, "parsing %s", envShell)
		}
		if len(parsed) > 0 {
			shell = append(parsed, "-c")
		}
	}

	args := append(shell[1:], code)
	cmd := exec.CommandContext(ctx, shell[0], args...)
	cmd.Env = append(os.Environ(), scriptEnv(values)...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return errors.Wrap(err, "creating stdout pipe")
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return errors.Wrap(err, "creating stderr pipe")
	}

	entry := logger.WithFields(logrus.Fields{"task": name})
	entry.Debugf("script started: %s %v", shell[0], args)

	if err := cmd.Start(); err != nil {
		return errors.Wrapf(err, "starting script for task %s", name)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			entry.Info(scanner.Text())
		}
	}()
	go func() {
		defer wg.Done()
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
			entry.Warn(scanner.Text())
		}
	}()
	wg.Wait()

	if err := cmd.Wait(); err != nil {
		return errors.Wrapf(err, "task %s script failed", name)
	}

	entry.Debug("script finished")
	return nil
}

// scriptEnv flattens the task-file values into GILD_FOO_BAR=... pairs.
func scriptEnv(values map[string]interface{}) []string {
	flat := maputil.Flatten(values)
	env := make([]string, 0, len(flat))
	for k, v := range flat {
		env = append(env, fmt.Sprintf("GILD_%s=%v", stringutil.ToEnvironmentName(k), v))
	}
	return env
}
