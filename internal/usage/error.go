// Package usage defines the user-facing error type surfaced when an
// invocation cannot be matched against a tool's declared interface. These
// errors are caught by the CLI layer, printed together with a short usage
// synopsis, and mapped to a process exit code.
package usage

// ErrorKind represents the type of usage error.
type ErrorKind int

const (
	ErrUnknown ErrorKind = iota
	ErrUnknownFlag
	ErrFlagValue
	ErrMissingArgument
	ErrExtraArguments
	ErrBadValue
	ErrUnknownTool
	ErrNotRunnable
)

// Exit codes:
//
//	Exit 1: resolution errors
//	  - Unknown errors
//	  - Unknown tool (including unresolved help targets)
//	  - Tool has no executable behavior
//
//	Exit 2: argument errors
//	  - Unknown flag
//	  - Flag given without its required value
//	  - Missing required argument
//	  - Extra positional arguments
//	  - Value rejected by an acceptor
var exitCodes = map[ErrorKind]int{
	ErrUnknown:         1,
	ErrUnknownFlag:     2,
	ErrFlagValue:       2,
	ErrMissingArgument: 2,
	ErrExtraArguments:  2,
	ErrBadValue:        2,
	ErrUnknownTool:     1,
	ErrNotRunnable:     1,
}

// Error is a user-facing argument or resolution error with semantic type
// information.
type Error struct {
	Kind    ErrorKind
	Message string
	Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause, if any, for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// ExitCode returns the process exit code appropriate for this error.
func (e *Error) ExitCode() int {
	if code, ok := exitCodes[e.Kind]; ok {
		return code
	}
	return 1
}

var _ error = (*Error)(nil)
