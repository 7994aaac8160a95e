// Package tooldefs holds the data model of the tool tree: Definition records
// describing one tool's flags, arguments and behavior, Alias redirects, and
// the middleware contract bound to a Definition at activation time.
//
// Definitions are built through an ordered sequence of directives applied as
// configuration sources load. Each directive validates against current state
// before applying; violations surface as *DefinitionError.
package tooldefs

import (
	"fmt"
	"strings"

	"github.com/tooltree/cli/internal/acceptors"
)

// DefinitionError reports a configuration-time violation. It is fatal to
// loading the source that triggered it.
type DefinitionError struct {
	Tool      string
	Directive string
	Reason    string
}

func (e *DefinitionError) Error() string {
	tool := e.Tool
	if tool == "" {
		tool = "(root)"
	}
	return fmt.Sprintf("tool %q: %s: %s", tool, e.Directive, e.Reason)
}

// Mixin is a named capability bundle merged into the execution context of
// every tool that includes it.
type Mixin map[string]any

// Template is a parameterized batch of directives applied to a Definition
// when expanded by name.
type Template func(def *Definition, params map[string]any) error

// Host is the loader-side collaborator a Definition uses to create child
// definitions and to resolve names scoped by ancestry. A nil Host restricts
// the Definition to directives that need no scoped lookups.
type Host interface {
	DefineChild(parent *Definition, word string) *Definition
	ResolveAcceptor(scope []string, name string) (*acceptors.Acceptor, bool)
	ResolveMixin(scope []string, name string) (Mixin, bool)
	ResolveTemplate(scope []string, name string) (Template, bool)
}

// Definition is the mutable record describing one tool.
type Definition struct {
	fullName   []string
	priority   int
	sourcePath string

	desc     string
	longDesc string

	flags       []*Flag
	flagsByKey  map[string]*Flag
	required    []*Arg
	optional    []*Arg
	remaining   *Arg
	noParsing   bool
	mixinOrder  []string
	mixins      map[string]Mixin
	middleware  []Middleware
	runFunc     RunFunc
	host        Host
}

// NewDefinition creates an empty Definition at the given position in the
// tree. The root has an empty full name.
func NewDefinition(fullName []string, priority int, host Host) *Definition {
	return &Definition{
		fullName:   append([]string(nil), fullName...),
		priority:   priority,
		flagsByKey: make(map[string]*Flag),
		mixins:     make(map[string]Mixin),
		host:       host,
	}
}

// FullName returns the tool's position in the tree; the root is empty.
func (d *Definition) FullName() []string {
	return append([]string(nil), d.fullName...)
}

// DisplayName returns the space-joined full name.
func (d *Definition) DisplayName() string {
	return strings.Join(d.fullName, " ")
}

// SimpleName returns the last word of the full name, or "" for the root.
func (d *Definition) SimpleName() string {
	if len(d.fullName) == 0 {
		return ""
	}
	return d.fullName[len(d.fullName)-1]
}

// Priority returns the definition's conflict-resolution priority.
func (d *Definition) Priority() int { return d.priority }

// SourcePath returns the configuration source that first fixed this
// Definition, or "" when unset.
func (d *Definition) SourcePath() string { return d.sourcePath }

// LockSource records the defining source. Once set it cannot change; later
// attempts are ignored.
func (d *Definition) LockSource(path string) {
	if d.sourcePath == "" {
		d.sourcePath = path
	}
}

// Desc returns the one-line description.
func (d *Definition) Desc() string { return d.desc }

// LongDesc returns the long description.
func (d *Definition) LongDesc() string { return d.longDesc }

// SetDesc sets the one-line description.
func (d *Definition) SetDesc(desc string) { d.desc = desc }

// SetLongDesc sets the long description.
func (d *Definition) SetLongDesc(desc string) { d.longDesc = desc }

// Flags returns the declared flags in declaration order.
func (d *Definition) Flags() []*Flag {
	return append([]*Flag(nil), d.flags...)
}

// FlagByKey returns the flag stored under key.
func (d *Definition) FlagByKey(key string) (*Flag, bool) {
	f, ok := d.flagsByKey[key]
	return f, ok
}

// HasSwitch reports whether any declared flag uses the switch spelling.
func (d *Definition) HasSwitch(name string) bool {
	for _, f := range d.flags {
		for _, sw := range f.switches {
			if sw.Name == name {
				return true
			}
		}
	}
	return false
}

// RequiredArgs returns the required positional slots in order.
func (d *Definition) RequiredArgs() []*Arg { return append([]*Arg(nil), d.required...) }

// OptionalArgs returns the optional positional slots in order.
func (d *Definition) OptionalArgs() []*Arg { return append([]*Arg(nil), d.optional...) }

// RemainingArg returns the slot collecting unmatched trailing positionals,
// or nil when none is declared.
func (d *Definition) RemainingArg() *Arg { return d.remaining }

// HasArgs reports whether any positional slot is declared.
func (d *Definition) HasArgs() bool {
	return len(d.required) > 0 || len(d.optional) > 0 || d.remaining != nil
}

// ArgParsingDisabled reports whether argv is passed through verbatim.
func (d *Definition) ArgParsingDisabled() bool { return d.noParsing }

// Runnable reports whether the tool was explicitly given executable
// behavior.
func (d *Definition) Runnable() bool { return d.runFunc != nil }

// Run returns the tool's executable behavior, or nil.
func (d *Definition) Run() RunFunc { return d.runFunc }

// SetRun supplies executable behavior and marks the Definition runnable.
func (d *Definition) SetRun(fn RunFunc) { d.runFunc = fn }

// Middleware returns the ordered middleware stack bound to this Definition.
func (d *Definition) Middleware() []Middleware {
	return append([]Middleware(nil), d.middleware...)
}

// SetMiddleware replaces the middleware stack.
func (d *Definition) SetMiddleware(stack []Middleware) {
	d.middleware = append([]Middleware(nil), stack...)
}

// AppendMiddleware adds one middleware at the end of the stack.
func (d *Definition) AppendMiddleware(m Middleware) {
	d.middleware = append(d.middleware, m)
}

func (d *Definition) fail(directive, format string, args ...any) error {
	return &DefinitionError{
		Tool:      d.DisplayName(),
		Directive: directive,
		Reason:    fmt.Sprintf(format, args...),
	}
}

func (d *Definition) resolveAcceptor(directive string, direct *acceptors.Acceptor, name string) (*acceptors.Acceptor, error) {
	if direct != nil {
		return direct, nil
	}
	if name == "" {
		return nil, nil
	}
	if d.host != nil {
		if acc, ok := d.host.ResolveAcceptor(d.fullName, name); ok {
			return acc, nil
		}
	}
	return nil, d.fail(directive, "acceptor %q is not defined here or in an ancestor namespace", name)
}

// AddFlag declares a flag. Keys and switch spellings must be unique within
// the Definition; with SilentOverride the new flag displaces any colliding
// earlier flag instead of failing.
func (d *Definition) AddFlag(spec FlagSpec) error {
	const directive = "add flag"
	if d.noParsing {
		return d.fail(directive, "argument parsing is disabled")
	}

	acc, err := d.resolveAcceptor(directive, spec.Acceptor, spec.AcceptorName)
	if err != nil {
		return err
	}
	spec.Acceptor = acc

	flag, err := newFlag(spec)
	if err != nil {
		return d.fail(directive, "%s", err.Error())
	}

	colliding := d.collidingFlags(flag)
	if len(colliding) > 0 {
		if !spec.SilentOverride {
			return d.fail(directive, "flag %q collides with existing flag %q", flag.key, colliding[0].key)
		}
		d.removeFlags(colliding)
	}

	d.flags = append(d.flags, flag)
	d.flagsByKey[flag.key] = flag
	return nil
}

// collidingFlags returns existing flags sharing a key or switch spelling
// with the candidate.
func (d *Definition) collidingFlags(candidate *Flag) []*Flag {
	taken := make(map[string]bool, len(candidate.switches))
	for _, sw := range candidate.switches {
		taken[sw.Name] = true
	}

	var out []*Flag
	for _, f := range d.flags {
		if f.key == candidate.key {
			out = append(out, f)
			continue
		}
		for _, sw := range f.switches {
			if taken[sw.Name] {
				out = append(out, f)
				break
			}
		}
	}
	return out
}

func (d *Definition) removeFlags(victims []*Flag) {
	doomed := make(map[*Flag]bool, len(victims))
	for _, f := range victims {
		doomed[f] = true
		delete(d.flagsByKey, f.key)
	}
	kept := d.flags[:0]
	for _, f := range d.flags {
		if !doomed[f] {
			kept = append(kept, f)
		}
	}
	d.flags = kept
}

// AddRequiredArg declares a required positional slot. Required slots must
// precede optional and remaining slots.
func (d *Definition) AddRequiredArg(spec ArgSpec) error {
	const directive = "add required arg"
	if d.noParsing {
		return d.fail(directive, "argument parsing is disabled")
	}
	if len(d.optional) > 0 || d.remaining != nil {
		return d.fail(directive, "required args must precede optional and remaining args")
	}
	arg, err := d.buildArg(directive, spec)
	if err != nil {
		return err
	}
	d.required = append(d.required, arg)
	return nil
}

// AddOptionalArg declares an optional positional slot with a default.
func (d *Definition) AddOptionalArg(spec ArgSpec) error {
	const directive = "add optional arg"
	if d.noParsing {
		return d.fail(directive, "argument parsing is disabled")
	}
	if d.remaining != nil {
		return d.fail(directive, "optional args must precede the remaining arg")
	}
	arg, err := d.buildArg(directive, spec)
	if err != nil {
		return err
	}
	d.optional = append(d.optional, arg)
	return nil
}

// SetRemainingArg declares the slot that collects all unmatched trailing
// positionals. At most one may exist.
func (d *Definition) SetRemainingArg(spec ArgSpec) error {
	const directive = "set remaining arg"
	if d.noParsing {
		return d.fail(directive, "argument parsing is disabled")
	}
	if d.remaining != nil {
		return d.fail(directive, "remaining arg %q is already declared", d.remaining.name)
	}
	arg, err := d.buildArg(directive, spec)
	if err != nil {
		return err
	}
	d.remaining = arg
	return nil
}

func (d *Definition) buildArg(directive string, spec ArgSpec) (*Arg, error) {
	if spec.Name == "" {
		return nil, d.fail(directive, "arg name must not be empty")
	}
	for _, existing := range d.argSlots() {
		if existing.name == spec.Name {
			return nil, d.fail(directive, "arg %q is already declared", spec.Name)
		}
	}
	acc, err := d.resolveAcceptor(directive, spec.Acceptor, spec.AcceptorName)
	if err != nil {
		return nil, err
	}
	return &Arg{name: spec.Name, desc: spec.Desc, defValue: spec.Default, acceptor: acc}, nil
}

func (d *Definition) argSlots() []*Arg {
	slots := make([]*Arg, 0, len(d.required)+len(d.optional)+1)
	slots = append(slots, d.required...)
	slots = append(slots, d.optional...)
	if d.remaining != nil {
		slots = append(slots, d.remaining)
	}
	return slots
}

// DisableArgParsing turns off flag and positional matching; argv is then
// delivered verbatim. The tool may declare no flags or args.
func (d *Definition) DisableArgParsing() error {
	if len(d.flags) > 0 || d.HasArgs() {
		return d.fail("disable argument parsing", "flags or args are already declared")
	}
	d.noParsing = true
	return nil
}

// IncludeMixin merges the named capability bundle, resolved from the tool's
// own scope or an ancestor namespace, into the execution context.
func (d *Definition) IncludeMixin(name string) error {
	const directive = "include mixin"
	if d.host == nil {
		return d.fail(directive, "no loader is attached")
	}
	mixin, ok := d.host.ResolveMixin(d.fullName, name)
	if !ok {
		return d.fail(directive, "mixin %q is not defined here or in an ancestor namespace", name)
	}
	if _, dup := d.mixins[name]; !dup {
		d.mixinOrder = append(d.mixinOrder, name)
	}
	d.mixins[name] = mixin
	return nil
}

// Mixins returns the included capability bundles in inclusion order.
func (d *Definition) Mixins() []Mixin {
	out := make([]Mixin, 0, len(d.mixinOrder))
	for _, name := range d.mixinOrder {
		out = append(out, d.mixins[name])
	}
	return out
}

// ExpandTemplate applies the named directive batch with the given
// parameters.
func (d *Definition) ExpandTemplate(name string, params map[string]any) error {
	const directive = "expand template"
	if d.host == nil {
		return d.fail(directive, "no loader is attached")
	}
	tmpl, ok := d.host.ResolveTemplate(d.fullName, name)
	if !ok {
		return d.fail(directive, "template %q is not defined here or in an ancestor namespace", name)
	}
	return tmpl(d, params)
}

// Subtool creates or reactivates the child Definition one word below this
// tool, with the same priority and loader.
func (d *Definition) Subtool(word string) *Definition {
	if d.host == nil {
		return NewDefinition(append(d.FullName(), word), d.priority, nil)
	}
	return d.host.DefineChild(d, word)
}
