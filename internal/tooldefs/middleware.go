package tooldefs

import (
	"context"
	"io"
	"os"
)

// Resolver is the loader-side view the pipeline needs: name resolution and
// subtool enumeration.
type Resolver interface {
	// Lookup resolves a tool path to the most specific matched Definition
	// plus the unmatched trailing words.
	Lookup(name []string) (*Definition, []string, error)

	// Subtools lists the definitions below name, in name order. With
	// recursive it walks the whole subtree; otherwise direct children only.
	Subtools(name []string, recursive bool) []*Definition
}

// RunFunc is a tool's executable behavior.
type RunFunc func(ctx context.Context, inv *Invocation) error

// Middleware contributes a configuration-time hook and an execution-time
// wrapper to every tool it is bound to.
type Middleware interface {
	// Configure runs once before the tool executes and may mutate the
	// Definition, for example to add flags. It must call next to continue
	// the pipeline; returning without doing so aborts further
	// configuration.
	Configure(def *Definition, r Resolver, next func() error) error

	// Wrap runs around the tool's behavior. It may inspect or modify the
	// invocation, perform output, and either call next or short-circuit.
	// The first-configured middleware is outermost.
	Wrap(ctx context.Context, inv *Invocation, next func(context.Context, *Invocation) error) error
}

// Invocation is the resolved execution context passed through the wrapper
// chain to the tool's behavior.
type Invocation struct {
	// ID uniquely identifies this invocation in logs.
	ID string

	Definition *Definition
	Resolver   Resolver

	// Values maps flag keys and arg names to their resolved values.
	Values map[string]any

	// Stdout is the configured output destination.
	Stdout io.Writer

	// ExitCode is the code the process should exit with when no error is
	// returned. Middleware and tools may set it.
	ExitCode int
}

// NewInvocation builds an invocation for def with the given resolved
// values. Stdout defaults to os.Stdout.
func NewInvocation(def *Definition, r Resolver, values map[string]any) *Invocation {
	if values == nil {
		values = make(map[string]any)
	}
	return &Invocation{
		Definition: def,
		Resolver:   r,
		Values:     values,
		Stdout:     os.Stdout,
	}
}

// Get returns the resolved value stored under key.
func (inv *Invocation) Get(key string) (any, bool) {
	v, ok := inv.Values[key]
	return v, ok
}

// Bool returns the value under key as a bool, or false.
func (inv *Invocation) Bool(key string) bool {
	b, _ := inv.Values[key].(bool)
	return b
}

// String returns the value under key as a string, or "".
func (inv *Invocation) String(key string) string {
	s, _ := inv.Values[key].(string)
	return s
}

// Strings returns the value under key as a string slice, or nil.
func (inv *Invocation) Strings(key string) []string {
	s, _ := inv.Values[key].([]string)
	return s
}

// Capability looks up a named function or value from the included mixins.
// Later inclusions shadow earlier ones.
func (inv *Invocation) Capability(name string) (any, bool) {
	mixins := inv.Definition.Mixins()
	for i := len(mixins) - 1; i >= 0; i-- {
		if v, ok := mixins[i][name]; ok {
			return v, true
		}
	}
	return nil, false
}
