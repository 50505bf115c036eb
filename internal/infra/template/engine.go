// Package template holds the static notification template registry and its
// mini-evaluator.
//
// The evaluator supports exactly two constructs:
//
//	{{name}}                    substitute the variable's display value
//	{% if name %}...{% endif %} keep the block only when name is truthy
//
// Truthy means a non-empty string, a non-zero number, or boolean true.
// A variable referenced by a template but absent from the input map renders
// as empty string — a deliberate leniency so templates can reference keys
// that older callers do not supply yet. Unknown template names and slots,
// by contrast, are hard errors: they indicate a code/deploy mismatch, not a
// data condition.
package template

import (
	"fmt"
	"regexp"
	"strings"

	"herald/internal/common"
	"herald/internal/domain/notification"
)

var _ notification.TemplateRenderer = (*Engine)(nil)

var (
	condRe = regexp.MustCompile(`(?s){%\s*if\s+([A-Za-z_][A-Za-z0-9_]*)\s*%}(.*?){%\s*endif\s*%}`)
	varRe  = regexp.MustCompile(`{{\s*([A-Za-z_][A-Za-z0-9_]*)\s*}}`)
)

// Engine renders notification templates from the built-in registry.
// It is pure: rendering a given (template, slot, variables) triple always
// produces the same string, and no I/O is performed.
type Engine struct {
	templates map[string]map[string]string
}

// NewEngine creates a template engine over the built-in template table.
func NewEngine() *Engine {
	return &Engine{templates: registry}
}

// Has reports whether a template name is registered.
func (e *Engine) Has(templateName string) bool {
	_, ok := e.templates[templateName]
	return ok
}

// Render produces the rendered string for one (template, slot) pair.
func (e *Engine) Render(templateName, slot string, vars notification.Variables) (string, error) {
	slots, ok := e.templates[templateName]
	if !ok {
		return "", common.NewTemplateNotFoundError(templateName)
	}

	fragment, ok := slots[slot]
	if !ok {
		return "", common.NewSlotNotFoundError(templateName, slot)
	}

	return evaluate(fragment, vars), nil
}

// evaluate expands conditionals first, then substitutes variables, so that
// references inside a suppressed block never appear in the output.
func evaluate(fragment string, vars notification.Variables) string {
	out := condRe.ReplaceAllStringFunc(fragment, func(match string) string {
		groups := condRe.FindStringSubmatch(match)
		if truthy(vars[groups[1]]) {
			return groups[2]
		}
		return ""
	})

	return varRe.ReplaceAllStringFunc(out, func(match string) string {
		name := varRe.FindStringSubmatch(match)[1]
		return stringify(vars[name])
	})
}

// truthy implements the conditional test: non-empty strings, non-zero
// numbers, and true are truthy; absent values are not.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case int:
		return val != 0
	case int32:
		return val != 0
	case int64:
		return val != 0
	case uint:
		return val != 0
	case float32:
		return val != 0
	case float64:
		// JSON numbers decode as float64.
		return val != 0
	default:
		return true
	}
}

// stringify renders a variable value for substitution. Absent values
// become empty string.
func stringify(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return strings.TrimSpace(fmt.Sprintf("%v", v))
}
