// Expression language for unregistered code fragments: a deliberately tiny
// "key op value" / "key = value" notation sufficient for charts that do not
// embed a host language. Guards compare a context variable (or "event.X"
// payload field) against a literal; actions assign literals and raise
// events.
package extensibility

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/calmweave/statechart/internal/primitives"
)

// evalExpression evaluates "key op value" where op is one of
// ==, !=, >, <, >=, <=.
func (e *DefaultEvaluator) evalExpression(code string, event *primitives.Event) (bool, error) {
	parts := strings.Fields(code)
	if len(parts) != 3 {
		return false, fmt.Errorf("unregistered guard %q (expected \"key op value\")", code)
	}
	key, op, literal := parts[0], parts[1], parts[2]

	value, ok := e.resolve(key, event)
	if !ok {
		// Unknown variables fail closed for equality, like unregistered
		// guards in a registry-only setup.
		return false, nil
	}
	expected := parseLiteral(literal)

	switch op {
	case "==":
		return looseEqual(value, expected), nil
	case "!=":
		return !looseEqual(value, expected), nil
	case ">", "<", ">=", "<=":
		lhs, lok := toFloat(value)
		rhs, rok := toFloat(expected)
		if !lok || !rok {
			return false, fmt.Errorf("guard %q: non-numeric comparison", code)
		}
		switch op {
		case ">":
			return lhs > rhs, nil
		case "<":
			return lhs < rhs, nil
		case ">=":
			return lhs >= rhs, nil
		default:
			return lhs <= rhs, nil
		}
	default:
		return false, fmt.Errorf("guard %q: unknown operator %q", code, op)
	}
}

// execStatements executes ";"-separated statements: "key = value" assigns
// a literal to a context variable, "raise name" emits an internal event.
func (e *DefaultEvaluator) execStatements(code string, event *primitives.Event) ([]primitives.Event, error) {
	var sent []primitives.Event
	for _, statement := range strings.Split(code, ";") {
		statement = strings.TrimSpace(statement)
		if statement == "" {
			continue
		}
		parts := strings.Fields(statement)
		switch {
		case len(parts) == 2 && parts[0] == "raise":
			sent = append(sent, primitives.NewEvent(parts[1], nil))
		case len(parts) == 3 && parts[1] == "=":
			value, ok := e.resolve(parts[2], event)
			if !ok {
				value = parseLiteral(parts[2])
			}
			e.SetVariable(parts[0], value)
		default:
			return nil, fmt.Errorf("unregistered action %q", statement)
		}
	}
	return sent, nil
}

// resolve reads a context variable, or an event payload field via the
// "event.field" prefix.
func (e *DefaultEvaluator) resolve(key string, event *primitives.Event) (any, bool) {
	if field, ok := strings.CutPrefix(key, "event."); ok {
		if event == nil || event.Data == nil {
			return nil, false
		}
		v, ok := event.Data[field]
		return v, ok
	}
	return e.Variable(key)
}

func parseLiteral(literal string) any {
	switch literal {
	case "true":
		return true
	case "false":
		return false
	case "nil":
		return nil
	}
	if n, err := strconv.ParseFloat(literal, 64); err == nil {
		return n
	}
	return strings.Trim(literal, `'"`)
}

func looseEqual(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return fa == fb
		}
		return false
	}
	return a == b
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	default:
		return 0, false
	}
}
