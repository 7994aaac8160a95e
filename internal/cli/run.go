// Package cli drives one invocation end to end: resolve the tool name
// through the loader, run the middleware configuration hooks, match the
// remaining argument vector, then execute the wrapper chain around the
// tool's behavior.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"

	"github.com/google/uuid"
	"github.com/tooltree/cli/internal/argparse"
	"github.com/tooltree/cli/internal/ctxlog"
	"github.com/tooltree/cli/internal/helpview"
	"github.com/tooltree/cli/internal/middlewares"
	"github.com/tooltree/cli/internal/registry"
	"github.com/tooltree/cli/internal/tooldefs"
	"github.com/tooltree/cli/internal/ui"
	"github.com/tooltree/cli/internal/ui/style"
	"github.com/tooltree/cli/internal/usage"
)

// App runs invocations against a loader.
type App struct {
	// BinaryName is the executable name shown in synopses and messages.
	BinaryName string

	Loader *registry.Loader

	// Middleware is the default stack bound to definitions that carry no
	// stack of their own.
	Middleware []tooldefs.Middleware

	// Writer is the output destination; defaults to stdout.
	Writer *ui.Writer

	// Stderr receives error messages; defaults to os.Stderr.
	Stderr io.Writer

	Logger *slog.Logger
}

func (a *App) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}

func (a *App) stderr() io.Writer {
	if a.Stderr != nil {
		return a.Stderr
	}
	return os.Stderr
}

func (a *App) writer() *ui.Writer {
	if a.Writer != nil {
		return a.Writer
	}
	return ui.NewWriter()
}

// Run resolves and executes argv, returning the process exit code.
func (a *App) Run(ctx context.Context, argv []string) int {
	id := uuid.NewString()
	logger := a.logger().With("invocation", id)
	ctx = ctxlog.WithLogger(ctx, logger)

	def, remaining, err := a.Loader.Lookup(argv)
	if err != nil {
		// Definition and resolution errors are configuration bugs, not
		// user mistakes.
		fmt.Fprintln(a.stderr(), style.Error(err.Error()))
		return 1
	}
	logger.Debug("tool resolved", "tool", def.DisplayName(), "remaining", remaining)

	stack := def.Middleware()
	if len(stack) == 0 {
		stack = a.Middleware
	}

	if err := middlewares.Configure(def, a.Loader, stack); err != nil {
		fmt.Fprintln(a.stderr(), style.Error(err.Error()))
		return 1
	}

	values, err := argparse.Match(def, remaining)
	if err != nil {
		return a.fail(def, err)
	}

	inv := tooldefs.NewInvocation(def, a.Loader, values)
	inv.ID = id
	inv.Stdout = a.writer()

	behavior := def.Run()
	if behavior == nil {
		name := def.DisplayName()
		behavior = func(context.Context, *tooldefs.Invocation) error {
			return usage.NotRunnable(name)
		}
	}

	if err := middlewares.Execute(ctx, inv, stack, behavior); err != nil {
		var exit *exec.ExitError
		if errors.As(err, &exit) {
			// The child process already reported its failure.
			logger.Debug("tool subprocess failed", "code", exit.ExitCode())
			return exit.ExitCode()
		}
		return a.fail(def, err)
	}

	logger.Debug("invocation finished", "code", inv.ExitCode)
	return inv.ExitCode
}

// fail prints a user-facing error together with a short usage synopsis and
// returns the exit code.
func (a *App) fail(def *tooldefs.Definition, err error) int {
	fmt.Fprintln(a.stderr(), style.Error(err.Error()))
	fmt.Fprint(a.stderr(), helpview.Usage(def, a.BinaryName, a.writer().Width(helpview.DefaultWidth)))

	var ue *usage.Error
	if errors.As(err, &ue) {
		return ue.ExitCode()
	}
	return 1
}
