// Package hclsource supplies tool definitions from HCL files. A file
// declares tool, alias and acceptor blocks; a directory source includes
// every .hcl file under its path. Tools with an exec attribute run the
// given command as a subprocess, appending any leftover positionals.
package hclsource

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/tooltree/cli/internal/acceptors"
	"github.com/tooltree/cli/internal/argparse"
	"github.com/tooltree/cli/internal/registry"
	"github.com/tooltree/cli/internal/tooldefs"
)

// FileSource loads one HCL tool definition file.
type FileSource struct {
	path     string
	coverage []string
	priority int
}

// NewFileSource builds a source for path defining tools under coverage.
func NewFileSource(path string, coverage []string, priority int) *FileSource {
	return &FileSource{path: path, coverage: coverage, priority: priority}
}

// Name implements registry.Source.
func (s *FileSource) Name() string { return s.path }

// Coverage implements registry.Source.
func (s *FileSource) Coverage() []string { return append([]string(nil), s.coverage...) }

// Priority implements registry.Source.
func (s *FileSource) Priority() int { return s.priority }

// Load implements registry.Source.
func (s *FileSource) Load(ld *registry.Loader) error {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(s.path)
	if diags.HasErrors() {
		return fmt.Errorf("parsing %s: %w", s.path, diags)
	}

	var schema fileSchema
	if diags := gohcl.DecodeBody(file.Body, nil, &schema); diags.HasErrors() {
		return fmt.Errorf("decoding %s: %w", s.path, diags)
	}

	for _, block := range schema.Acceptors {
		acc, err := buildAcceptor(block)
		if err != nil {
			return fmt.Errorf("%s: %w", s.path, err)
		}
		ld.AddAcceptor(s.coverage, acc)
	}

	for _, block := range schema.Tools {
		def := ld.Activate(append(s.Coverage(), block.Name), s.priority)
		if err := applyTool(def, block); err != nil {
			return fmt.Errorf("%s: %w", s.path, err)
		}
	}

	for _, block := range schema.Aliases {
		target := append(s.Coverage(), splitPath(block.Target)...)
		if err := ld.AddAlias(append(s.Coverage(), block.Name), target, s.priority); err != nil {
			return fmt.Errorf("%s: %w", s.path, err)
		}
	}

	return nil
}

// splitPath splits a dotted or space-separated tool path into words.
func splitPath(path string) []string {
	return strings.FieldsFunc(path, func(r rune) bool {
		return r == '.' || r == ' '
	})
}

func buildAcceptor(block *acceptorBlock) (*acceptors.Acceptor, error) {
	switch {
	case block.Pattern != "" && len(block.Values) > 0:
		return nil, &tooldefs.DefinitionError{
			Tool: block.Name, Directive: "acceptor",
			Reason: "pattern and values are mutually exclusive",
		}
	case block.Pattern != "":
		expr, err := regexp.Compile(block.Pattern)
		if err != nil {
			return nil, &tooldefs.DefinitionError{
				Tool: block.Name, Directive: "acceptor",
				Reason: fmt.Sprintf("bad pattern: %v", err),
			}
		}
		return acceptors.Pattern(block.Name, expr, nil), nil
	case len(block.Values) > 0:
		return acceptors.Enum(block.Name, block.Values...), nil
	default:
		return nil, &tooldefs.DefinitionError{
			Tool: block.Name, Directive: "acceptor",
			Reason: "either pattern or values is required",
		}
	}
}

// applyTool replays a tool block's directives onto def in declaration
// order.
func applyTool(def *tooldefs.Definition, block *toolBlock) error {
	if block.Desc != "" {
		def.SetDesc(block.Desc)
	}
	if block.LongDesc != "" {
		def.SetLongDesc(block.LongDesc)
	}

	if block.DisableParsing {
		if err := def.DisableArgParsing(); err != nil {
			return err
		}
	}

	for _, flag := range block.Flags {
		defValue, err := ctyToGo(flag.Default)
		if err != nil {
			return err
		}
		if err := def.AddFlag(tooldefs.FlagSpec{
			Key:          flag.Key,
			Switches:     flag.Switches,
			Desc:         flag.Desc,
			Default:      defValue,
			AcceptorName: flag.Acceptor,
		}); err != nil {
			return err
		}
	}

	for _, arg := range block.Args {
		defValue, err := ctyToGo(arg.Default)
		if err != nil {
			return err
		}
		spec := tooldefs.ArgSpec{
			Name:         arg.Name,
			Desc:         arg.Desc,
			Default:      defValue,
			AcceptorName: arg.Acceptor,
		}
		switch {
		case arg.Remaining:
			err = def.SetRemainingArg(spec)
		case arg.Required:
			err = def.AddRequiredArg(spec)
		default:
			err = def.AddOptionalArg(spec)
		}
		if err != nil {
			return err
		}
	}

	if len(block.Exec) > 0 {
		if err := ensureExecArgs(def); err != nil {
			return err
		}
		def.SetRun(execRun(block.Exec))
	}

	for _, sub := range block.Tools {
		if err := applyTool(def.Subtool(sub.Name), sub); err != nil {
			return err
		}
	}

	return nil
}

// ensureExecArgs gives an exec tool a remaining slot so extra positionals
// flow through to the subprocess, unless the tool declared its own slots or
// disabled parsing.
func ensureExecArgs(def *tooldefs.Definition) error {
	if def.ArgParsingDisabled() || def.HasArgs() {
		return nil
	}
	return def.SetRemainingArg(tooldefs.ArgSpec{
		Name: "args", Desc: "arguments passed to the command",
	})
}

// execRun builds the subprocess behavior for an exec tool. The call blocks
// until the child exits; a non-zero exit surfaces as *exec.ExitError.
func execRun(argv []string) tooldefs.RunFunc {
	return func(ctx context.Context, inv *tooldefs.Invocation) error {
		args := append([]string(nil), argv[1:]...)
		args = append(args, positionalArgs(inv)...)

		cmd := exec.CommandContext(ctx, argv[0], args...)
		cmd.Stdin = os.Stdin
		cmd.Stdout = inv.Stdout
		cmd.Stderr = os.Stderr
		return cmd.Run()
	}
}

// positionalArgs flattens every resolved positional slot, in declaration
// order, into the argument list for the child. Unfilled optionals with a
// nil default are skipped.
func positionalArgs(inv *tooldefs.Invocation) []string {
	def := inv.Definition
	if def.ArgParsingDisabled() {
		return inv.Strings(argparse.ArgsKey)
	}

	var out []string
	for _, arg := range def.RequiredArgs() {
		out = appendValue(out, inv.Values[arg.Name()])
	}
	for _, arg := range def.OptionalArgs() {
		out = appendValue(out, inv.Values[arg.Name()])
	}
	if rem := def.RemainingArg(); rem != nil {
		switch v := inv.Values[rem.Name()].(type) {
		case []string:
			out = append(out, v...)
		case []any:
			for _, e := range v {
				out = appendValue(out, e)
			}
		}
	}
	return out
}

func appendValue(out []string, v any) []string {
	if v == nil {
		return out
	}
	return append(out, fmt.Sprint(v))
}

// DirSource includes every .hcl file under a directory, each as its own
// FileSource so provenance points at the defining file.
type DirSource struct {
	dir      string
	coverage []string
	priority int
}

// NewDirSource builds a source covering all .hcl files under dir.
func NewDirSource(dir string, coverage []string, priority int) *DirSource {
	return &DirSource{dir: dir, coverage: coverage, priority: priority}
}

// Name implements registry.Source.
func (s *DirSource) Name() string { return s.dir }

// Coverage implements registry.Source.
func (s *DirSource) Coverage() []string { return append([]string(nil), s.coverage...) }

// Priority implements registry.Source.
func (s *DirSource) Priority() int { return s.priority }

// Load implements registry.Source.
func (s *DirSource) Load(ld *registry.Loader) error {
	var files []string
	err := filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".hcl") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, path := range files {
		if err := ld.LoadNow(NewFileSource(path, s.coverage, s.priority)); err != nil {
			return err
		}
	}
	return nil
}

var (
	_ registry.Source = (*FileSource)(nil)
	_ registry.Source = (*DirSource)(nil)
)
