package gild

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig"
	"github.com/pkg/errors"

	"github.com/gild-run/gild/pkg/util/maputil"
)

// renderTemplate renders a task-file expression (a script body, a dest path)
// against the task file's values. The full sprig map is available plus a few
// funcs of our own.
func renderTemplate(name, expr string, values map[string]interface{}) (string, error) {
	tmpl := template.New(name)
	tmpl.Option("missingkey=error")

	funcs := sprig.TxtFuncMap()
	for k, v := range templateFuncs(values) {
		funcs[k] = v
	}

	tmpl, err := tmpl.Funcs(funcs).Parse(expr)
	if err != nil {
		return "", errors.Wrapf(err, "parsing template for %s", name)
	}

	var buff bytes.Buffer
	if err := tmpl.Execute(&buff, values); err != nil {
		return "", errors.Wrapf(err, "rendering %s", name)
	}

	return buff.String(), nil
}

func templateFuncs(values map[string]interface{}) template.FuncMap {
	get := func(key string) (interface{}, error) {
		components := strings.Split(strings.Replace(key, "-", "_", -1), ".")
		val, err := maputil.GetValueAtPath(values, components)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		if val == nil {
			return nil, fmt.Errorf("no value found for %q", key)
		}
		return val, nil
	}

	readFile := func(path string) (string, error) {
		contents, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(contents), nil
	}

	escapeDoubleQuotes := func(str string) (interface{}, error) {
		return strings.Replace(str, `"`, `\"`, -1), nil
	}

	return template.FuncMap{
		"get":                get,
		"readFile":           readFile,
		"escapeDoubleQuotes": escapeDoubleQuotes,
	}
}
