// Package middlewares implements the middleware pipeline semantics and the
// concrete middleware shipped with the framework. Each middleware
// contributes a configuration hook that may mutate a Definition before
// execution, and an execution wrapper nested around the tool's behavior.
package middlewares

import (
	"context"

	"github.com/tooltree/cli/internal/tooldefs"
)

// Configure runs every middleware's configuration hook in pipeline order.
// Each hook must call its continuation to reach the next one; a hook that
// returns without continuing aborts further configuration.
func Configure(def *tooldefs.Definition, r tooldefs.Resolver, stack []tooldefs.Middleware) error {
	var step func(i int) error
	step = func(i int) error {
		if i >= len(stack) {
			return nil
		}
		return stack[i].Configure(def, r, func() error {
			return step(i + 1)
		})
	}
	return step(0)
}

// Execute runs the execution wrappers nested around behavior, with the
// first middleware outermost. Any wrapper may short-circuit by not calling
// onward.
func Execute(ctx context.Context, inv *tooldefs.Invocation, stack []tooldefs.Middleware, behavior tooldefs.RunFunc) error {
	next := behavior
	for i := len(stack) - 1; i >= 0; i-- {
		m := stack[i]
		inner := next
		next = func(ctx context.Context, inv *tooldefs.Invocation) error {
			return m.Wrap(ctx, inv, inner)
		}
	}
	return next(ctx, inv)
}
