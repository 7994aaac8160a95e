package tooldefs

import "github.com/tooltree/cli/internal/acceptors"

// ArgSpec declares a positional argument slot.
type ArgSpec struct {
	Name     string
	Desc     string
	Default  any
	Acceptor *acceptors.Acceptor

	// AcceptorName resolves a scoped acceptor registered on the loader.
	// Ignored when Acceptor is set.
	AcceptorName string
}

// Arg is one declared positional slot of a Definition.
type Arg struct {
	name     string
	desc     string
	defValue any
	acceptor *acceptors.Acceptor
}

// Name returns the slot name the matched value is stored under.
func (a *Arg) Name() string { return a.name }

// Desc returns the slot's short description.
func (a *Arg) Desc() string { return a.desc }

// Default returns the value used when no token fills the slot.
func (a *Arg) Default() any { return a.defValue }

// Acceptor returns the value acceptor, or nil for plain strings.
func (a *Arg) Acceptor() *acceptors.Acceptor { return a.acceptor }
