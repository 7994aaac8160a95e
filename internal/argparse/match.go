// Package argparse matches a raw argument vector against a Definition's
// declared flags and positional slots. Flags may appear anywhere among
// positionals; "--" ends flag processing. Violations surface as
// *usage.Error values, with acceptor rejections wrapped so callers can
// unwrap the *acceptors.AcceptanceError.
package argparse

import (
	"strings"

	"github.com/tooltree/cli/internal/tooldefs"
	"github.com/tooltree/cli/internal/usage"
)

// ArgsKey is the key under which the verbatim argument vector is stored
// when a Definition has argument parsing disabled.
const ArgsKey = "args"

type switchRef struct {
	flag    *tooldefs.Flag
	negated bool
}

// Match parses argv against def, returning the resolved values keyed by
// flag key and arg name. Unset flags and unfilled optional slots take their
// declared defaults; an undeclared remaining slot with leftover tokens is
// an error.
func Match(def *tooldefs.Definition, argv []string) (map[string]any, error) {
	if def.ArgParsingDisabled() {
		return map[string]any{ArgsKey: append([]string(nil), argv...)}, nil
	}

	values := make(map[string]any)
	index := make(map[string]switchRef)
	for _, flag := range def.Flags() {
		values[flag.Key()] = flag.Default()
		for _, sw := range flag.Switches() {
			index[sw.Name] = switchRef{flag: flag, negated: sw.Negated}
		}
	}

	positionals, err := consumeFlags(argv, index, values)
	if err != nil {
		return nil, err
	}

	if err := fillArgs(def, positionals, values); err != nil {
		return nil, err
	}
	return values, nil
}

func consumeFlags(argv []string, index map[string]switchRef, values map[string]any) ([]string, error) {
	var positionals []string

	for i := 0; i < len(argv); i++ {
		token := argv[i]

		if token == "--" {
			positionals = append(positionals, argv[i+1:]...)
			break
		}

		switch {
		case strings.HasPrefix(token, "--"):
			name, inline, hasInline := strings.Cut(token, "=")
			ref, ok := index[name]
			if !ok {
				return nil, usage.UnknownFlag(name)
			}
			if ref.flag.TakesValue() {
				raw := inline
				if !hasInline {
					if i+1 >= len(argv) {
						return nil, usage.FlagValueMissing(name)
					}
					i++
					raw = argv[i]
				}
				if err := applyValue(ref.flag, name, raw, values); err != nil {
					return nil, err
				}
			} else {
				if hasInline {
					return nil, usage.FlagValueUnexpected(name)
				}
				applyToggle(ref, values)
			}

		case strings.HasPrefix(token, "-") && len(token) > 1:
			name, rest := token[:2], token[2:]
			ref, ok := index[name]
			if !ok {
				return nil, usage.UnknownFlag(token)
			}
			if ref.flag.TakesValue() {
				raw := rest
				if raw == "" {
					if i+1 >= len(argv) {
						return nil, usage.FlagValueMissing(name)
					}
					i++
					raw = argv[i]
				}
				if err := applyValue(ref.flag, name, raw, values); err != nil {
					return nil, err
				}
			} else {
				if rest != "" {
					return nil, usage.UnknownFlag(token)
				}
				applyToggle(ref, values)
			}

		default:
			positionals = append(positionals, token)
		}
	}

	return positionals, nil
}

func applyValue(flag *tooldefs.Flag, name, raw string, values map[string]any) error {
	value := any(raw)
	if acc := flag.Acceptor(); acc != nil {
		converted, err := acc.ValidateAndConvert(raw)
		if err != nil {
			return usage.BadValue(name, raw, err)
		}
		value = converted
	}
	values[flag.Key()] = flag.Handler()(value, values[flag.Key()])
	return nil
}

func applyToggle(ref switchRef, values map[string]any) {
	key := ref.flag.Key()
	values[key] = ref.flag.Handler()(!ref.negated, values[key])
}

func fillArgs(def *tooldefs.Definition, tokens []string, values map[string]any) error {
	for _, arg := range def.RequiredArgs() {
		if len(tokens) == 0 {
			return usage.MissingArgument(arg.Name())
		}
		if err := acceptArg(arg, tokens[0], values); err != nil {
			return err
		}
		tokens = tokens[1:]
	}

	for _, arg := range def.OptionalArgs() {
		if len(tokens) == 0 {
			values[arg.Name()] = arg.Default()
			continue
		}
		if err := acceptArg(arg, tokens[0], values); err != nil {
			return err
		}
		tokens = tokens[1:]
	}

	if rem := def.RemainingArg(); rem != nil {
		return collectRemaining(rem, tokens, values)
	}

	if len(tokens) > 0 {
		return usage.ExtraArguments(tokens)
	}
	return nil
}

// collectRemaining runs each leftover token through the slot's acceptor and
// stores the converted values. When every conversion yields a string the
// collection is stored as []string; otherwise as []any.
func collectRemaining(rem *tooldefs.Arg, tokens []string, values map[string]any) error {
	collected := make([]any, 0, len(tokens))
	allStrings := true
	for _, token := range tokens {
		value := any(token)
		if acc := rem.Acceptor(); acc != nil {
			converted, err := acc.ValidateAndConvert(token)
			if err != nil {
				return usage.BadValue(rem.Name(), token, err)
			}
			value = converted
		}
		if _, ok := value.(string); !ok {
			allStrings = false
		}
		collected = append(collected, value)
	}

	if allStrings {
		strs := make([]string, len(collected))
		for i, v := range collected {
			strs[i] = v.(string)
		}
		values[rem.Name()] = strs
		return nil
	}
	values[rem.Name()] = collected
	return nil
}

func acceptArg(arg *tooldefs.Arg, token string, values map[string]any) error {
	value := any(token)
	if acc := arg.Acceptor(); acc != nil {
		converted, err := acc.ValidateAndConvert(token)
		if err != nil {
			return usage.BadValue(arg.Name(), token, err)
		}
		value = converted
	}
	values[arg.Name()] = value
	return nil
}
