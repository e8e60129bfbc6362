package stringutil

import (
	"regexp"
	"strings"

	"github.com/huandu/xstrings"
)

var (
	digits      = regexp.MustCompile(`-([0-9]+)`)
	argReplacer = strings.NewReplacer(".", "-")
	envReplacer = strings.NewReplacer("-", "_", ".", "_")
)

// ToArgumentName maps a task or value name to its command-line form, e.g.
// "buildAll.minifyJS" becomes "build-all-minify-js".
func ToArgumentName(name string) string {
	n := strings.Trim(digits.ReplaceAllString(xstrings.ToKebabCase(name), "$1-"), "-")
	return argReplacer.Replace(n)
}

// ToEnvironmentName maps a task or value name to its environment-variable
// form, e.g. "buildAll.minifyJS" becomes "BUILD_ALL_MINIFY_JS".
func ToEnvironmentName(name string) string {
	n := strings.Trim(digits.ReplaceAllString(xstrings.ToKebabCase(name), "$1-"), "-")
	return strings.ToUpper(envReplacer.Replace(n))
}
