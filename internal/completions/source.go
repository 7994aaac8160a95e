package completions

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tooltree/cli/internal/acceptors"
	"github.com/tooltree/cli/internal/argparse"
	"github.com/tooltree/cli/internal/registry"
	"github.com/tooltree/cli/internal/tooldefs"
)

// NewSource returns a source defining the completion tools: "completion"
// prints a shell script, and the reserved candidates tool answers the
// script's queries.
func NewSource(binary string, priority int) registry.Source {
	binaryPath := resolveBinaryPath(binary)

	return registry.NewFuncSource("completions", nil, priority, func(ld *registry.Loader) error {
		def := ld.Activate([]string{"completion"}, priority)
		def.SetDesc("print a shell completion script")
		def.SetLongDesc("Prints a completion script for the given shell. " +
			"Load it with, for example: eval \"$(" + binary + " completion bash)\".")
		if err := def.AddOptionalArg(tooldefs.ArgSpec{
			Name:     "shell",
			Desc:     "shell to generate for; detected from $SHELL when omitted",
			Default:  "",
			Acceptor: acceptors.Enum("shell", Supported()...),
		}); err != nil {
			return err
		}
		def.SetRun(func(_ context.Context, inv *tooldefs.Invocation) error {
			shell := Shell(inv.String("shell"))
			if shell == "" {
				shell = RunningShell()
			}
			if shell == "" {
				return fmt.Errorf("could not detect shell; pass one of %s",
					strings.Join(Supported(), ", "))
			}
			script, err := Script(shell, binary, binaryPath)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(inv.Stdout, script)
			return err
		})

		reserved := ld.Activate([]string{CandidatesTool}, priority)
		if err := reserved.DisableArgParsing(); err != nil {
			return err
		}
		reserved.SetRun(func(_ context.Context, inv *tooldefs.Invocation) error {
			words := inv.Strings(argparse.ArgsKey)
			if len(words) > 0 && words[0] == "--" {
				words = words[1:]
			}
			if lookup, ok := inv.Resolver.(*registry.Loader); ok {
				for _, candidate := range Candidates(lookup, words) {
					fmt.Fprintln(inv.Stdout, candidate)
				}
			}
			return nil
		})

		return nil
	})
}

// resolveBinaryPath returns the invokable path of the running executable,
// following symlinks, falling back to the plain binary name.
func resolveBinaryPath(binary string) string {
	exe, err := os.Executable()
	if err != nil {
		return binary
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		return resolved
	}
	return exe
}
