package tooldefs

import (
	"fmt"
	"strings"

	"github.com/tooltree/cli/internal/acceptors"
)

// HandlerFunc combines a newly parsed flag value with the previous value.
// It runs every time the flag is seen, which allows accumulation. The
// default handler replaces the previous value.
type HandlerFunc func(newValue, previous any) any

func replaceHandler(newValue, _ any) any { return newValue }

// Switch is one command-line spelling of a flag.
type Switch struct {
	Name string // includes leading dashes, e.g. "--verbose"

	// Negated marks the "--no-" spelling of a negatable toggle. Seeing a
	// negated switch yields false instead of true.
	Negated bool
}

// FlagSpec declares a flag to be added to a Definition.
type FlagSpec struct {
	Key string

	// Switches use a conventional grammar: "-v", "-s WORD", "--long",
	// "--long=WORD", "--[no-]long". A value placeholder makes the flag take
	// a value; "--[no-]" declares a negatable toggle. When empty, a single
	// long switch is derived from the key.
	Switches []string

	Desc     string
	Default  any
	Acceptor *acceptors.Acceptor

	// AcceptorName resolves a scoped acceptor registered on the loader by
	// the tool itself or one of its ancestor namespaces. Ignored when
	// Acceptor is set.
	AcceptorName string

	Handler HandlerFunc

	// SilentOverride suppresses collision reporting: a colliding flag
	// silently displaces the earlier one instead of failing the directive.
	SilentOverride bool
}

// Flag is one declared flag of a Definition.
type Flag struct {
	key        string
	desc       string
	defValue   any
	acceptor   *acceptors.Acceptor
	handler    HandlerFunc
	switches   []Switch
	takesValue bool
	valueName  string
}

// Key returns the unique key the matched value is stored under.
func (f *Flag) Key() string { return f.key }

// Desc returns the flag's short description.
func (f *Flag) Desc() string { return f.desc }

// Default returns the value used when the flag never appears.
func (f *Flag) Default() any { return f.defValue }

// Acceptor returns the value acceptor, or nil for plain strings.
func (f *Flag) Acceptor() *acceptors.Acceptor { return f.acceptor }

// Handler returns the value-combining handler.
func (f *Flag) Handler() HandlerFunc { return f.handler }

// Switches returns the flag's spellings.
func (f *Flag) Switches() []Switch { return f.switches }

// TakesValue reports whether the flag consumes a value token.
func (f *Flag) TakesValue() bool { return f.takesValue }

// ValueName returns the placeholder shown in help for value flags.
func (f *Flag) ValueName() string { return f.valueName }

// Display returns the flag's spellings joined for help output, with the
// value placeholder appended when the flag takes a value.
func (f *Flag) Display() string {
	names := make([]string, len(f.switches))
	for i, sw := range f.switches {
		names[i] = sw.Name
	}
	joined := strings.Join(names, ", ")
	if f.takesValue {
		joined += " " + f.valueName
	}
	return joined
}

// parseSwitch expands one switch declaration into its spellings.
func parseSwitch(decl string) (switches []Switch, takesValue bool, valueName string, err error) {
	s := strings.TrimSpace(decl)

	if name, ok := strings.CutPrefix(s, "--[no-]"); ok {
		if name == "" || strings.ContainsAny(name, " =") {
			return nil, false, "", fmt.Errorf("malformed negatable switch %q", decl)
		}
		return []Switch{
			{Name: "--" + name},
			{Name: "--no-" + name, Negated: true},
		}, false, "", nil
	}

	if strings.HasPrefix(s, "--") {
		if name, value, found := strings.Cut(s, "="); found {
			if len(name) <= 2 || value == "" {
				return nil, false, "", fmt.Errorf("malformed switch %q", decl)
			}
			return []Switch{{Name: name}}, true, value, nil
		}
		if name, value, found := strings.Cut(s, " "); found {
			return []Switch{{Name: name}}, true, value, nil
		}
		if len(s) <= 2 {
			return nil, false, "", fmt.Errorf("malformed switch %q", decl)
		}
		return []Switch{{Name: s}}, false, "", nil
	}

	if strings.HasPrefix(s, "-") {
		if name, value, found := strings.Cut(s, " "); found {
			if len(name) != 2 || value == "" {
				return nil, false, "", fmt.Errorf("malformed switch %q", decl)
			}
			return []Switch{{Name: name}}, true, value, nil
		}
		if len(s) != 2 {
			return nil, false, "", fmt.Errorf("malformed switch %q", decl)
		}
		return []Switch{{Name: s}}, false, "", nil
	}

	return nil, false, "", fmt.Errorf("switch %q must start with a dash", decl)
}

// SwitchNames expands one switch declaration into its spellings.
func SwitchNames(decl string) ([]string, error) {
	switches, _, _, err := parseSwitch(decl)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(switches))
	for i, sw := range switches {
		names[i] = sw.Name
	}
	return names, nil
}

// newFlag validates a FlagSpec and builds the Flag.
func newFlag(spec FlagSpec) (*Flag, error) {
	if spec.Key == "" {
		return nil, fmt.Errorf("flag key must not be empty")
	}

	decls := spec.Switches
	if len(decls) == 0 {
		decls = []string{"--" + spec.Key}
	}

	flag := &Flag{
		key:      spec.Key,
		desc:     spec.Desc,
		defValue: spec.Default,
		acceptor: spec.Acceptor,
		handler:  spec.Handler,
	}
	if flag.handler == nil {
		flag.handler = replaceHandler
	}

	negatable := false
	for _, decl := range decls {
		switches, takesValue, valueName, err := parseSwitch(decl)
		if err != nil {
			return nil, err
		}
		if takesValue {
			flag.takesValue = true
			if flag.valueName == "" {
				flag.valueName = valueName
			}
		}
		for _, sw := range switches {
			if sw.Negated {
				negatable = true
			}
			flag.switches = append(flag.switches, sw)
		}
	}

	if negatable && flag.takesValue {
		return nil, fmt.Errorf("flag %q cannot be both negatable and take a value", spec.Key)
	}

	return flag, nil
}
