// Package acceptors validates and converts raw argument strings into typed
// values. An Acceptor pairs a validator (none, regular expression, or a
// finite set of literal forms) with an optional converter.
package acceptors

import (
	"fmt"
	"regexp"
	"strings"
)

// ConvertFunc turns validated captures into a final value. For a regexp
// acceptor the captures are the whole match followed by each capture group.
type ConvertFunc func(captures ...string) (any, error)

// AcceptanceError is returned when an input string is rejected by an
// acceptor, or when its converter fails.
type AcceptanceError struct {
	Acceptor string
	Input    string
	Reason   string
}

func (e *AcceptanceError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unacceptable value %q for %s: %s", e.Input, e.Acceptor, e.Reason)
	}
	return fmt.Sprintf("unacceptable value %q for %s", e.Input, e.Acceptor)
}

// Acceptor validates a raw string and converts it to a value.
type Acceptor struct {
	name    string
	pattern *regexp.Regexp
	values  []string
	convert ConvertFunc
}

// Identity accepts any string and passes it through unchanged.
func Identity() *Acceptor {
	return &Acceptor{name: "string"}
}

// Pattern builds an acceptor whose validator is a regular expression. The
// expression must match the entire input; it is anchored here if the caller
// did not anchor it. Captured groups, with the whole match first, are passed
// to convert. A nil convert produces the whole match.
func Pattern(name string, expr *regexp.Regexp, convert ConvertFunc) *Acceptor {
	src := expr.String()
	if !strings.HasPrefix(src, "^") || !strings.HasSuffix(src, "$") {
		expr = regexp.MustCompile("^(?:" + src + ")$")
	}
	return &Acceptor{name: name, pattern: expr, convert: convert}
}

// Enum builds an acceptor that admits exactly the given literal forms. The
// matching original form is produced; any converter is ignored.
func Enum(name string, values ...string) *Acceptor {
	return &Acceptor{name: name, values: values}
}

// Name returns the acceptor's registered name.
func (a *Acceptor) Name() string { return a.name }

// ValidateAndConvert checks input against the validator and produces the
// converted value. Identity acceptors return the input unchanged.
func (a *Acceptor) ValidateAndConvert(input string) (any, error) {
	switch {
	case a.pattern != nil:
		captures := a.pattern.FindStringSubmatch(input)
		if captures == nil {
			return nil, &AcceptanceError{Acceptor: a.name, Input: input}
		}
		if a.convert == nil {
			return captures[0], nil
		}
		value, err := a.convert(captures...)
		if err != nil {
			return nil, &AcceptanceError{Acceptor: a.name, Input: input, Reason: err.Error()}
		}
		return value, nil

	case a.values != nil:
		for _, v := range a.values {
			if input == v {
				return v, nil
			}
		}
		return nil, &AcceptanceError{Acceptor: a.name, Input: input, Reason: "expected one of " + strings.Join(a.values, ", ")}

	default:
		return input, nil
	}
}
