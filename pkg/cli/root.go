// Package cli wires the task compiler into a cobra command: load a task
// file, compile it, run the named tasks, and optionally keep watching.
package cli

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/juju/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	gild "github.com/gild-run/gild/pkg"
	"github.com/gild-run/gild/pkg/get"
	"github.com/gild-run/gild/pkg/load"
	"github.com/gild-run/gild/pkg/util/fileutil"
	"github.com/gild-run/gild/pkg/util/stringutil"
)

const (
	defaultTaskName = "default"
	defaultTaskFile = "gild.yaml"
	altTaskFile     = "gild.yml"
)

// New builds the root command. Flags are mirrored into viper so every one of
// them can also be set via GILD_-prefixed environment variables or the
// config file.
func New() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:           "gild [task...]",
		Short:         "compile and run tasks from a task file",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, v, args)
		},
	}

	cmd.Flags().StringP("file", "f", defaultTaskFile, "task file to load; a $repo//$file source is fetched remotely")
	cmd.Flags().BoolP("watch", "w", false, "after running the named tasks, run the watch task")
	cmd.Flags().Bool("beep", false, "signal watch-run completion audibly")
	cmd.Flags().Bool("list", false, "list task names and exit")
	cmd.Flags().BoolP("verbose", "v", false, "verbose output")
	cmd.Flags().StringP("output", "o", "text", "output format, one of: text|message")
	cmd.Flags().BoolP("color", "C", true, "colorize output")

	v.BindPFlags(cmd.Flags())
	v.SetEnvPrefix("GILD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	return cmd
}

func run(cmd *cobra.Command, v *viper.Viper, args []string) error {
	logger := newLogger(v)

	spec, err := loadSpec(v.GetString("file"), logger)
	if err != nil {
		return err
	}

	registry := gild.NewRegistry()
	_, err = gild.Compile(spec.Defs, gild.Options{
		Template: spec.Template,
		Logger:   logger,
		Beep:     v.GetBool("beep"),
		Registry: registry,
	})
	if err != nil {
		return err
	}

	if v.GetBool("list") {
		for _, name := range registry.Names() {
			cmd.Println(name)
		}
		return nil
	}

	names := args
	if len(names) == 0 {
		if fallback, err := gild.ArgsFromEnvVars(); err != nil {
			return errors.Trace(err)
		} else if len(fallback) > 0 {
			names = fallback
		} else {
			names = []string{defaultTaskName}
		}
	}
	if v.GetBool("watch") {
		names = append(names, gild.WatchTaskName)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for _, name := range names {
		action, ok := lookupTask(registry, name)
		if !ok {
			return &gild.UndefinedTaskError{Name: name}
		}
		logger.WithFields(logrus.Fields{"task": action.Name}).Debug("running")
		if err := action.Run(ctx); err != nil {
			return errors.Annotatef(err, "task %s failed", name)
		}
	}

	return nil
}

// lookupTask resolves a name given on the command line. Tasks may be invoked
// by their exact name or by its kebab-case argument form, so `gild build-all`
// finds a task named buildAll.
func lookupTask(registry *gild.Registry, name string) (*gild.Action, bool) {
	if action, ok := registry.Lookup(name); ok {
		return action, true
	}
	for _, candidate := range registry.Names() {
		if stringutil.ToArgumentName(candidate) == name {
			return registry.Lookup(candidate)
		}
	}
	return nil, false
}

func loadSpec(source string, logger *logrus.Logger) (*load.Spec, error) {
	if get.IsRemote(source) {
		contents, err := get.Bytes(source)
		if err != nil {
			return nil, err
		}
		return load.Bytes(contents, logger)
	}
	if source == defaultTaskFile && !fileutil.Exists(source) && fileutil.Exists(altTaskFile) {
		source = altTaskFile
	}
	return load.File(source, logger)
}

func newLogger(v *viper.Viper) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	if v.GetBool("verbose") {
		logger.SetLevel(logrus.DebugLevel)
	}

	switch v.GetString("output") {
	case "message":
		logger.SetFormatter(&gild.MessageOnlyFormatter{})
	default:
		logger.SetFormatter(gild.NewTextLogFormatter(!v.GetBool("color")))
	}

	return logger
}

// Execute runs the root command against args and returns its error.
func Execute(args []string) error {
	cmd := New()
	cmd.SetArgs(args)
	cmd.SetOut(os.Stdout)
	return cmd.Execute()
}
