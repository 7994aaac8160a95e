package usage

import (
	"fmt"
	"strings"
)

// UnknownFlag is returned when a switch is not declared by the tool.
func UnknownFlag(flag string) *Error {
	return &Error{
		Kind:    ErrUnknownFlag,
		Message: fmt.Sprintf("flag %q is not recognized", flag),
	}
}

// FlagValueMissing is returned when a value flag appears as the last token
// with no value following it.
func FlagValueMissing(flag string) *Error {
	return &Error{
		Kind:    ErrFlagValue,
		Message: fmt.Sprintf("flag %q requires a value", flag),
	}
}

// FlagValueUnexpected is returned when a toggle flag is given a value.
func FlagValueUnexpected(flag string) *Error {
	return &Error{
		Kind:    ErrFlagValue,
		Message: fmt.Sprintf("flag %q does not take a value", flag),
	}
}

// MissingArgument is returned when a required positional is not provided.
func MissingArgument(arg string) *Error {
	return &Error{
		Kind:    ErrMissingArgument,
		Message: fmt.Sprintf("required argument %q is missing", arg),
	}
}

// ExtraArguments is returned when positional tokens remain and the tool
// declares no remaining slot.
func ExtraArguments(tokens []string) *Error {
	return &Error{
		Kind:    ErrExtraArguments,
		Message: fmt.Sprintf("unexpected extra arguments: %s", strings.Join(tokens, " ")),
	}
}

// BadValue is returned when an acceptor rejects a flag or argument value.
// The acceptance error is wrapped so callers can inspect it.
func BadValue(name, token string, cause error) *Error {
	return &Error{
		Kind:    ErrBadValue,
		Message: fmt.Sprintf("invalid value %q for %q: %s", token, name, cause.Error()),
		Wrapped: cause,
	}
}

// UnknownTool is returned when a tool name cannot be fully resolved, for
// example as a help target. Suggestions, when present, name similar tools.
func UnknownTool(name string, suggestions ...string) *Error {
	msg := fmt.Sprintf("tool %q not found", name)
	if len(suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean: %s?)", strings.Join(suggestions, ", "))
	}
	return &Error{Kind: ErrUnknownTool, Message: msg}
}

// NotRunnable is returned when a tool without executable behavior is invoked
// and no middleware short-circuited with help output.
func NotRunnable(name string) *Error {
	if name == "" {
		name = "(root)"
	}
	return &Error{
		Kind:    ErrNotRunnable,
		Message: fmt.Sprintf("tool %q is not runnable", name),
	}
}
