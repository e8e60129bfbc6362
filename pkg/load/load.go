// Package load reads gild task files: a YAML document with an optional
// template block, optional values, and a tasks mapping handed to the
// compiler.
package load

import (
	"fmt"
	"os"
	"strings"

	"github.com/juju/errors"
	"github.com/sirupsen/logrus"
	"github.com/xeipuuv/gojsonschema"
	yaml "gopkg.in/yaml.v2"

	gild "github.com/gild-run/gild/pkg"
	"github.com/gild-run/gild/pkg/util/maputil"
)

// Spec is a parsed task file, ready to compile.
type Spec struct {
	Template *gild.Template
	Values   map[string]interface{}
	Defs     map[string]interface{}
}

var documentSchema = map[string]interface{}{
	"type":                 "object",
	"required":             []interface{}{"tasks"},
	"additionalProperties": false,
	"properties": map[string]interface{}{
		"template": map[string]interface{}{
			"type":                 "object",
			"additionalProperties": false,
			"properties": map[string]interface{}{
				"dest": map[string]interface{}{"type": "string"},
				"base": map[string]interface{}{"type": "string"},
			},
		},
		"values": map[string]interface{}{
			"type": "object",
		},
		"tasks": map[string]interface{}{
			"type": "object",
			"additionalProperties": map[string]interface{}{
				"oneOf": []interface{}{
					map[string]interface{}{"type": "string"},
					map[string]interface{}{"type": "object"},
				},
			},
		},
	},
}

func File(path string, logger *logrus.Logger) (*Spec, error) {
	contents, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, &MissingFileError{Path: path}
	}
	if err != nil {
		return nil, errors.Annotatef(err, "reading task file %s", path)
	}
	spec, err := Bytes(contents, logger)
	if err != nil {
		return nil, errors.Annotatef(err, "loading task file %s", path)
	}
	return spec, nil
}

func Bytes(contents []byte, logger *logrus.Logger) (*Spec, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	var raw interface{}
	if err := yaml.Unmarshal(contents, &raw); err != nil {
		return nil, errors.Trace(err)
	}

	doc, err := maputil.RecursivelyStringifyKeys(raw)
	if err != nil {
		return nil, errors.Trace(err)
	}

	if err := validateDocument(doc); err != nil {
		return nil, err
	}

	spec := &Spec{
		Template: &gild.Template{Dest: "."},
		Values:   map[string]interface{}{},
		Defs:     map[string]interface{}{},
	}

	if tpl, ok := doc["template"].(map[string]interface{}); ok {
		if dest, ok := tpl["dest"].(string); ok {
			spec.Template.Dest = dest
		}
		if base, ok := tpl["base"].(string); ok {
			spec.Template.Base = base
		}
	}

	if values, ok := doc["values"].(map[string]interface{}); ok {
		spec.Values = values
	}

	tasks, ok := doc["tasks"].(map[string]interface{})
	if !ok {
		return nil, errors.New("tasks must be a mapping of task names to descriptions")
	}

	for name, def := range tasks {
		converted, err := convertDef(name, def, spec.Values, logger)
		if err != nil {
			return nil, err
		}
		spec.Defs[name] = converted
	}

	return spec, nil
}

func validateDocument(doc map[string]interface{}) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(documentSchema),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return errors.Trace(err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}
	return errors.Errorf("task file is malformed: %s", strings.Join(msgs, "; "))
}

// convertDef rewrites loader-only shapes (the script shorthand) into the
// descriptions the compiler accepts, passing everything else through.
func convertDef(name string, def interface{}, values map[string]interface{}, logger *logrus.Logger) (interface{}, error) {
	m, ok := def.(map[string]interface{})
	if !ok {
		return def, nil
	}

	script, ok := m["script"].(string)
	if !ok {
		return m, nil
	}
	if len(m) > 1 {
		keys := make([]string, 0, len(m))
		for k := range m {
			if k != "script" {
				keys = append(keys, k)
			}
		}
		return nil, errors.Errorf("task %s: script cannot be combined with %s", name, strings.Join(keys, ", "))
	}

	return gild.ScriptFunc(name, script, values, logger), nil
}

// MissingFileError distinguishes "no task file here" from a broken one, so
// the CLI can suggest creating one.
type MissingFileError struct {
	Path string
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("no task file found at %s", e.Path)
}
