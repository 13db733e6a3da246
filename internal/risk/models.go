package risk

import (
	"fmt"
	"strings"
	"time"
)

// Operator is the rule comparison, typed so the compiler can keep the
// switch exhaustive instead of string-matching at evaluation time.
type Operator int

const (
	OperatorGreater Operator = iota
	OperatorLess
	OperatorEqual
)

// ParseOperator maps the stored rule operator to its typed form.
func ParseOperator(s string) (Operator, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "greater":
		return OperatorGreater, nil
	case "less":
		return OperatorLess, nil
	case "equal":
		return OperatorEqual, nil
	default:
		return 0, fmt.Errorf("unknown operator %q", s)
	}
}

// Triggered reports whether a window count crosses the threshold.
func (op Operator) Triggered(count, threshold int) bool {
	switch op {
	case OperatorGreater:
		return count > threshold
	case OperatorLess:
		return count < threshold
	case OperatorEqual:
		return count == threshold
	default:
		return false
	}
}

// Message renders the human-readable finding for a triggered rule.
func (op Operator) Message(logType string, ruleTime int, unit string, count, threshold int) string {
	window := fmt.Sprintf("in the last %d %s", ruleTime, unit)
	switch op {
	case OperatorLess:
		return fmt.Sprintf("Too few '%s' logs %s: %d < %d", logType, window, count, threshold)
	case OperatorEqual:
		return fmt.Sprintf("'%s' log count matched the configured threshold %s: %d == %d", logType, window, count, threshold)
	default:
		return fmt.Sprintf("Too many '%s' logs %s: %d > %d", logType, window, count, threshold)
	}
}

// windowMinutes converts a rule's (time, unit) pair to minutes. Unknown
// units are an error the evaluator downgrades to a skip-with-warning, so one
// bad rule never blocks the rest.
func windowMinutes(ruleTime int, unit string) (time.Duration, error) {
	if ruleTime <= 0 {
		return 0, fmt.Errorf("non-positive window %d", ruleTime)
	}

	var perUnit int
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "minutes":
		perUnit = 1
	case "hours":
		perUnit = 60
	case "days":
		perUnit = 1440
	default:
		return 0, fmt.Errorf("unknown unit %q", unit)
	}

	return time.Duration(ruleTime*perUnit) * time.Minute, nil
}
