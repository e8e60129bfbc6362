package maputil

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/pkg/errors"
)

// GetValueAtPath walks nested string-keyed maps along the key components.
// Missing intermediate keys yield nil rather than an error.
func GetValueAtPath(m map[string]interface{}, keyComponents []string) (interface{}, error) {
	k, rest := keyComponents[0], keyComponents[1:]

	k = strings.Replace(k, "-", "_", -1)

	if len(rest) == 0 {
		return m[k], nil
	}

	switch nested := m[k].(type) {
	case map[string]interface{}:
		return GetValueAtPath(nested, rest)
	case map[interface{}]interface{}:
		converted, err := CastKeysToStrings(nested)
		if err != nil {
			return nil, err
		}
		return GetValueAtPath(converted, rest)
	case nil:
		return nil, nil
	default:
		return nil, errors.Errorf("%s is not a map", k)
	}
}

// Flatten joins nested map keys with dots into a single-level map.
func Flatten(input map[string]interface{}) map[string]interface{} {
	result := map[string]interface{}{}

	for k, valOrMap := range input {
		if m, isMap := valOrMap.(map[string]interface{}); isMap {
			for k2, v2 := range Flatten(m) {
				result[fmt.Sprintf("%s.%s", k, k2)] = v2
			}
		} else {
			result[k] = valOrMap
		}
	}

	return result
}

// CastKeysToStrings converts a yaml-style map into a string-keyed one,
// failing on any non-string key.
func CastKeysToStrings(m map[interface{}]interface{}) (map[string]interface{}, error) {
	r := map[string]interface{}{}
	for k, v := range m {
		str, ok := k.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected type %s for key %v", reflect.TypeOf(k), k)
		}
		r[str] = v
	}
	return r, nil
}

// RecursivelyStringifyKeys converts any yaml-decoded value into a
// jsonschema-friendly tree with string keys throughout.
func RecursivelyStringifyKeys(m interface{}) (map[string]interface{}, error) {
	mm, err := recursivelyStringifyKeys(m)
	if err != nil {
		return nil, err
	}
	if ms, ok := mm.(map[string]interface{}); ok {
		return ms, nil
	}
	return nil, fmt.Errorf("expected a mapping at the document root, got %T", mm)
}

func recursivelyStringifyKeys(m interface{}) (interface{}, error) {
	switch src := m.(type) {
	case map[string]interface{}:
		dst := map[string]interface{}{}
		for k, v1 := range src {
			v2, err := recursivelyStringifyKeys(v1)
			if err != nil {
				return nil, err
			}
			dst[k] = v2
		}
		return dst, nil
	case []interface{}:
		dst := make([]interface{}, len(src))
		for i, v1 := range src {
			v2, err := recursivelyStringifyKeys(v1)
			if err != nil {
				return nil, err
			}
			dst[i] = v2
		}
		return dst, nil
	case map[interface{}]interface{}:
		dst := map[string]interface{}{}
		for k1, v1 := range src {
			k2, ok := k1.(string)
			if !ok {
				return nil, fmt.Errorf("unexpected type of key %q: %T", k1, k1)
			}
			v2, err := recursivelyStringifyKeys(v1)
			if err != nil {
				return nil, err
			}
			dst[k2] = v2
		}
		return dst, nil
	}
	return m, nil
}
