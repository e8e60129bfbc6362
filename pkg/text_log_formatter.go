package gild

import (
	"fmt"

	"github.com/mitchellh/colorstring"
	"github.com/sirupsen/logrus"
)

// TextLogFormatter prefixes each line with the colorized task context, so
// watch output reads as "task ≫ message".
type TextLogFormatter struct {
	colorize *colorstring.Colorize
	colors   map[logrus.Level]string
}

func NewTextLogFormatter(disableColors bool) *TextLogFormatter {
	return &TextLogFormatter{
		colorize: &colorstring.Colorize{
			Colors:  colorstring.DefaultColors,
			Disable: disableColors,
			Reset:   true,
		},
		colors: map[logrus.Level]string{
			logrus.PanicLevel: "red",
			logrus.FatalLevel: "red",
			logrus.ErrorLevel: "red",
			logrus.WarnLevel:  "yellow",
			logrus.InfoLevel:  "cyan",
			logrus.DebugLevel: "dark_gray",
			logrus.TraceLevel: "dark_gray",
		},
	}
}

func (f *TextLogFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	prefix := "[" + f.colors[entry.Level] + "]"
	if task, ok := entry.Data["task"].(string); ok {
		prefix = fmt.Sprintf("%s%s ≫ ", prefix, task)
	}
	return []byte(f.colorize.Color(fmt.Sprintf("%s%s\n", prefix, entry.Message))), nil
}

// MessageOnlyFormatter emits the bare message, used when gild output is
// consumed by another program.
type MessageOnlyFormatter struct{}

func (f *MessageOnlyFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	return append([]byte(entry.Message), '\n'), nil
}
