package ripple

import (
	"fmt"
	"strings"

	"github.com/thomsbg/ripple/internal/errors"
	"github.com/thomsbg/ripple/pkg/dom"
)

// expression is one parsed {{path|filter|...}} marker.
type expression struct {
	raw     string
	path    []string
	filters []string
}

// rootKey returns the model key the expression depends on.
func (e *expression) rootKey() string {
	return e.path[0]
}

// segment is one run of template text: either a literal or an expression.
type segment struct {
	literal string
	expr    *expression
}

// parseText splits text into literal and expression segments.
// Returns nil when the text contains no interpolation markers.
func parseText(text string) ([]segment, error) {
	if !strings.Contains(text, "{{") {
		return nil, nil
	}

	var segments []segment
	rest := text
	for {
		open := strings.Index(rest, "{{")
		if open == -1 {
			break
		}
		end := strings.Index(rest[open:], "}}")
		if end == -1 {
			// Unterminated marker; treat the remainder as literal.
			break
		}
		end += open

		if open > 0 {
			segments = append(segments, segment{literal: rest[:open]})
		}
		expr, err := parseExpression(rest[open+2 : end])
		if err != nil {
			return nil, err
		}
		segments = append(segments, segment{expr: expr})
		rest = rest[end+2:]
	}
	if rest != "" {
		segments = append(segments, segment{literal: rest})
	}

	// All markers were unterminated or empty
	hasExpr := false
	for _, s := range segments {
		if s.expr != nil {
			hasExpr = true
			break
		}
	}
	if !hasExpr {
		return nil, nil
	}
	return segments, nil
}

// parseExpression parses "path|filterA|filterB" into an expression.
// The path may be dotted ("user.name"); watching always targets the root key.
func parseExpression(raw string) (*expression, error) {
	parts := strings.Split(raw, "|")
	path := strings.TrimSpace(parts[0])
	if path == "" {
		return nil, errors.Newf(errors.CategoryTemplate, "empty interpolation expression in {{%s}}", raw)
	}

	e := &expression{raw: raw, path: strings.Split(path, ".")}
	for _, f := range parts[1:] {
		f = strings.TrimSpace(f)
		if f == "" {
			return nil, errors.Newf(errors.CategoryTemplate, "empty filter name in {{%s}}", raw)
		}
		e.filters = append(e.filters, f)
	}
	return e, nil
}

// referencedKeys returns the distinct root keys a segment list depends on,
// in first-appearance order.
func referencedKeys(segments []segment) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, s := range segments {
		if s.expr == nil {
			continue
		}
		k := s.expr.rootKey()
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	return keys
}

// checkFilters verifies every filter named by the segments is registered.
func checkFilters(segments []segment, reg *Registry) error {
	for _, s := range segments {
		if s.expr == nil {
			continue
		}
		for _, name := range s.expr.filters {
			if _, ok := reg.filter(name); !ok {
				return errors.New("R022").WithDetail("filter %q in {{%s}}", name, s.expr.raw)
			}
		}
	}
	return nil
}

// eval resolves an expression against the view's scope chain and applies
// its filters. Dotted paths index into nested map[string]any values.
func (v *View) eval(e *expression) any {
	value := v.Get(e.rootKey())
	for _, step := range e.path[1:] {
		m, ok := value.(map[string]any)
		if !ok {
			value = nil
			break
		}
		value = m[step]
	}

	for _, name := range e.filters {
		fn, ok := v.bindings.filter(name)
		if !ok {
			// Validated at bind time; an unregistered filter here means the
			// registry was mutated afterwards. Pass the value through.
			continue
		}
		value = fn(value)
	}
	return value
}

// interpolateSegments evaluates a parsed text region. A region that is a
// single bare expression yields the raw value, so element values can be
// inserted as nodes; mixed regions always yield a string.
func (v *View) interpolateSegments(segments []segment) any {
	if len(segments) == 1 && segments[0].expr != nil {
		return v.eval(segments[0].expr)
	}

	var b strings.Builder
	for _, s := range segments {
		if s.expr == nil {
			b.WriteString(s.literal)
			continue
		}
		b.WriteString(stringify(v.eval(s.expr)))
	}
	return b.String()
}

// Interpolate evaluates a template string against the view's data once.
// A string that is exactly one {{expr}} marker returns the raw value
// (which may be a *dom.Node); any other input returns a string.
func (v *View) Interpolate(text string) (any, error) {
	segments, err := parseText(text)
	if err != nil {
		return nil, err
	}
	if segments == nil {
		return text, nil
	}
	if err := checkFilters(segments, v.bindings); err != nil {
		return nil, err
	}
	return v.interpolateSegments(segments), nil
}

// stringify renders an interpolated value as text. nil and both booleans
// render as the empty string; elements render as markup when they appear
// inside a mixed text region.
func stringify(value any) string {
	switch val := value.(type) {
	case nil:
		return ""
	case bool:
		return ""
	case string:
		return val
	case *dom.Node:
		if val == nil {
			return ""
		}
		return val.OuterHTML()
	default:
		return fmt.Sprintf("%v", val)
	}
}
