package middlewares

import (
	"context"
	"strings"

	"github.com/tooltree/cli/internal/helpview"
	"github.com/tooltree/cli/internal/tooldefs"
	"github.com/tooltree/cli/internal/ui"
	"github.com/tooltree/cli/internal/usage"
)

// Keys the ShowHelp middleware stores its resolved flag values under.
const (
	HelpKey      = "help"
	UsageKey     = "usage"
	RecursiveKey = "recursive"
	SearchKey    = "search"
	ToolNameKey  = "tool"
)

// Default flag sets, overridable per instance.
var (
	DefaultHelpFlags      = []string{"-?", "--help"}
	DefaultUsageFlags     = []string{"--usage"}
	DefaultRecursiveFlags = []string{"-r", "--[no-]recursive"}
	DefaultSearchFlags    = []string{"-s WORD", "--search=WORD"}
)

// ShowHelp adds help and usage flags to each tool it is bound to, and
// short-circuits execution to render help when they are set. On namespace
// tools with subtools it additionally adds a recursive-listing toggle and a
// search flag. When fallback is enabled, invoking a tool that has no
// executable behavior renders help instead of failing.
type ShowHelp struct {
	helpFlags        []string
	usageFlags       []string
	recursiveFlags   []string
	searchFlags      []string
	recursiveDefault bool
	fallback         bool
	toolNameArgs     bool
	showSource       bool
	binaryName       string
	writer           *ui.Writer
}

// ShowHelpOption configures a ShowHelp middleware.
type ShowHelpOption func(*ShowHelp)

// WithHelpFlags overrides the help flag set. An empty set disables the
// help flag.
func WithHelpFlags(switches ...string) ShowHelpOption {
	return func(m *ShowHelp) { m.helpFlags = switches }
}

// WithUsageFlags overrides the usage flag set. An empty set disables the
// usage flag.
func WithUsageFlags(switches ...string) ShowHelpOption {
	return func(m *ShowHelp) { m.usageFlags = switches }
}

// WithRecursiveFlags overrides the recursive-listing flag set.
func WithRecursiveFlags(switches ...string) ShowHelpOption {
	return func(m *ShowHelp) { m.recursiveFlags = switches }
}

// WithRecursiveDefault sets the initial state of the recursive listing.
func WithRecursiveDefault(on bool) ShowHelpOption {
	return func(m *ShowHelp) { m.recursiveDefault = on }
}

// WithSearchFlags overrides the search flag set.
func WithSearchFlags(switches ...string) ShowHelpOption {
	return func(m *ShowHelp) { m.searchFlags = switches }
}

// WithFallback controls whether invoking a non-runnable tool renders help.
func WithFallback(on bool) ShowHelpOption {
	return func(m *ShowHelp) { m.fallback = on }
}

// WithToolNameArgs lets the root tool take a tool name as positional
// arguments and render help for that tool. Only honored when the root
// declares no positional arguments of its own.
func WithToolNameArgs(on bool) ShowHelpOption {
	return func(m *ShowHelp) { m.toolNameArgs = on }
}

// WithShowSource includes each tool's defining source path in help output.
func WithShowSource(on bool) ShowHelpOption {
	return func(m *ShowHelp) { m.showSource = on }
}

// WithBinaryName sets the executable name shown in synopses.
func WithBinaryName(name string) ShowHelpOption {
	return func(m *ShowHelp) { m.binaryName = name }
}

// WithWriter routes help output through the given writer instead of the
// invocation's stdout.
func WithWriter(w *ui.Writer) ShowHelpOption {
	return func(m *ShowHelp) { m.writer = w }
}

// NewShowHelp builds the help middleware with the default flag sets,
// fallback display enabled.
func NewShowHelp(opts ...ShowHelpOption) *ShowHelp {
	m := &ShowHelp{
		helpFlags:      DefaultHelpFlags,
		usageFlags:     DefaultUsageFlags,
		recursiveFlags: DefaultRecursiveFlags,
		searchFlags:    DefaultSearchFlags,
		fallback:       true,
		binaryName:     "tooltree",
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Configure implements tooldefs.Middleware. Flags are added only on
// switches the tool has not claimed itself; a fully claimed set is skipped.
func (m *ShowHelp) Configure(def *tooldefs.Definition, r tooldefs.Resolver, next func() error) error {
	if !def.ArgParsingDisabled() {
		if err := m.addFlags(def, r); err != nil {
			return err
		}
	}
	return next()
}

func (m *ShowHelp) addFlags(def *tooldefs.Definition, r tooldefs.Resolver) error {
	helpAdded, err := addIfFree(def, tooldefs.FlagSpec{
		Key: HelpKey, Switches: m.helpFlags, Default: false,
		Desc: "show help for this tool",
	})
	if err != nil {
		return err
	}
	if _, err := addIfFree(def, tooldefs.FlagSpec{
		Key: UsageKey, Switches: m.usageFlags, Default: false,
		Desc: "show a short usage synopsis",
	}); err != nil {
		return err
	}

	hasSubtools := r != nil && len(r.Subtools(def.FullName(), false)) > 0
	if hasSubtools && (helpAdded || m.fallback) {
		if _, err := addIfFree(def, tooldefs.FlagSpec{
			Key: RecursiveKey, Switches: m.recursiveFlags, Default: m.recursiveDefault,
			Desc: "list subtools recursively",
		}); err != nil {
			return err
		}
		if _, err := addIfFree(def, tooldefs.FlagSpec{
			Key: SearchKey, Switches: m.searchFlags, Default: "",
			Desc: "filter subtools by a search pattern",
		}); err != nil {
			return err
		}
	}

	if m.toolNameArgs && len(def.FullName()) == 0 && !def.HasArgs() {
		if err := def.SetRemainingArg(tooldefs.ArgSpec{
			Name: ToolNameKey, Desc: "tool to show help for",
		}); err != nil {
			return err
		}
	}
	return nil
}

// addIfFree adds the flag using only the requested switches the tool has
// not claimed. With no free switch, or an empty requested set, nothing is
// added.
func addIfFree(def *tooldefs.Definition, spec tooldefs.FlagSpec) (bool, error) {
	if len(spec.Switches) == 0 {
		return false, nil
	}
	if _, taken := def.FlagByKey(spec.Key); taken {
		return false, nil
	}

	var free []string
	for _, decl := range spec.Switches {
		names, err := tooldefs.SwitchNames(decl)
		if err != nil {
			return false, err
		}
		claimed := false
		for _, name := range names {
			if def.HasSwitch(name) {
				claimed = true
				break
			}
		}
		if !claimed {
			free = append(free, decl)
		}
	}
	if len(free) == 0 {
		return false, nil
	}

	spec.Switches = free
	if err := def.AddFlag(spec); err != nil {
		return false, err
	}
	return true, nil
}

// Wrap implements tooldefs.Middleware.
func (m *ShowHelp) Wrap(ctx context.Context, inv *tooldefs.Invocation, next func(context.Context, *tooldefs.Invocation) error) error {
	w := m.writer
	if w == nil {
		w = ui.NewWriterTo(inv.Stdout)
	}
	width := w.Width(helpview.DefaultWidth)

	if m.flagSet(inv, UsageKey) && inv.Bool(UsageKey) {
		w.Printf("%s", helpview.Usage(inv.Definition, m.binaryName, width))
		return nil
	}

	helpRequested := m.flagSet(inv, HelpKey) && inv.Bool(HelpKey)
	fallback := m.fallback && !inv.Definition.Runnable()
	if !helpRequested && !fallback {
		return next(ctx, inv)
	}

	target := inv.Definition
	if m.toolNameArgs && len(inv.Definition.FullName()) == 0 {
		if words := inv.Strings(ToolNameKey); len(words) > 0 {
			resolved, err := m.resolveTarget(inv, words)
			if err != nil {
				return err
			}
			target = resolved
		}
	}

	w.Pager(helpview.Render(target, inv.Resolver, helpview.Options{
		BinaryName: m.binaryName,
		Recursive:  inv.Bool(RecursiveKey),
		Search:     inv.String(SearchKey),
		ShowSource: m.showSource,
		WrapWidth:  width,
	}))
	return nil
}

// flagSet reports whether the middleware's flag was actually configured on
// the invoked tool.
func (m *ShowHelp) flagSet(inv *tooldefs.Invocation, key string) bool {
	_, ok := inv.Definition.FlagByKey(key)
	return ok
}

// resolveTarget resolves a help target named as positional arguments. An
// unresolved remainder surfaces as a usage error; the CLI layer prints it
// with a short usage synopsis and exits non-zero.
func (m *ShowHelp) resolveTarget(inv *tooldefs.Invocation, words []string) (*tooldefs.Definition, error) {
	def, remaining, err := inv.Resolver.Lookup(words)
	if err != nil {
		return nil, err
	}
	if len(remaining) == 0 {
		return def, nil
	}

	var suggestions []string
	if s, ok := inv.Resolver.(interface {
		SuggestSimilar(namespace []string, word string, maxResults int) []string
	}); ok {
		suggestions = s.SuggestSimilar(def.FullName(), remaining[0], 3)
	}
	return nil, usage.UnknownTool(strings.Join(words, " "), suggestions...)
}

var _ tooldefs.Middleware = (*ShowHelp)(nil)
