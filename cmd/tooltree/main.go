// Command tooltree runs tools declared in HCL definition files. Driver
// behavior is configured through the environment so that the whole argument
// vector belongs to the tool tree:
//
//	TOOLTREE_PATH       directory of .hcl tool files (default "./tools")
//	TOOLTREE_LOG_LEVEL  debug, info, warn or error (default warn)
//	TOOLTREE_PAGER      pager command override; "cat" bypasses
//	TOOLTREE_NO_PAGER   disable the pager when non-empty
//	NO_COLOR            disable ANSI styling when non-empty
//
// Per-user definitions under the user config directory (for example
// ~/.config/tooltree/tools on Linux) load at a lower priority, so project
// files override them. Shell completion is built in; see "tooltree
// completion".
package main

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/tooltree/cli/internal/cli"
	"github.com/tooltree/cli/internal/completions"
	"github.com/tooltree/cli/internal/hclsource"
	"github.com/tooltree/cli/internal/middlewares"
	"github.com/tooltree/cli/internal/paths"
	"github.com/tooltree/cli/internal/registry"
	"github.com/tooltree/cli/internal/tooldefs"
	"github.com/tooltree/cli/internal/ui"
	"github.com/tooltree/cli/internal/ui/style"
)

const binaryName = "tooltree"

// Source priorities: project-local definitions override per-user ones,
// which override the built-in tools.
const (
	builtinPriority = 0
	userPriority    = 10
	projectPriority = 20
)

func main() {
	logger := newLogger(os.Getenv("TOOLTREE_LOG_LEVEL"))
	slog.SetDefault(logger)

	writer := ui.NewWriter(writerOptions()...)
	style.Init(writer.IsTerminal())

	loader := registry.New(registry.WithLogger(logger))
	loader.AddSource(completions.NewSource(binaryName, builtinPriority))

	if dir := paths.UserToolsDir(); isDir(dir) {
		loader.AddSource(hclsource.NewDirSource(dir, nil, userPriority))
	}
	toolsDir := os.Getenv("TOOLTREE_PATH")
	if toolsDir == "" {
		toolsDir = "./tools"
	}
	if isDir(toolsDir) {
		loader.AddSource(hclsource.NewDirSource(toolsDir, nil, projectPriority))
	}

	app := &cli.App{
		BinaryName: binaryName,
		Loader:     loader,
		Writer:     writer,
		Logger:     logger,
		Middleware: []tooldefs.Middleware{
			middlewares.NewShowHelp(
				middlewares.WithBinaryName(binaryName),
				middlewares.WithToolNameArgs(true),
				middlewares.WithWriter(writer),
			),
		},
	}

	os.Exit(app.Run(context.Background(), os.Args[1:]))
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func writerOptions() []ui.WriterOption {
	var opts []ui.WriterOption
	if os.Getenv("TOOLTREE_NO_PAGER") != "" {
		opts = append(opts, ui.WithPagerDisabled())
	}
	if pager := os.Getenv("TOOLTREE_PAGER"); pager != "" {
		opts = append(opts, ui.WithPagerOverride(pager))
	}
	return opts
}
