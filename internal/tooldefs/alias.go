package tooldefs

import "strings"

// Alias is a named redirect from one tool path to another. Resolving an
// alias means re-resolving its target; chains may be arbitrarily long but
// must not cycle.
type Alias struct {
	fullName []string
	target   []string
	priority int
}

// NewAlias creates an alias at fullName pointing to target.
func NewAlias(fullName, target []string, priority int) *Alias {
	return &Alias{
		fullName: append([]string(nil), fullName...),
		target:   append([]string(nil), target...),
		priority: priority,
	}
}

// FullName returns the alias's position in the tree.
func (a *Alias) FullName() []string { return append([]string(nil), a.fullName...) }

// DisplayName returns the space-joined full name.
func (a *Alias) DisplayName() string { return strings.Join(a.fullName, " ") }

// Target returns the redirected-to tool path.
func (a *Alias) Target() []string { return append([]string(nil), a.target...) }

// Priority returns the alias's conflict-resolution priority.
func (a *Alias) Priority() int { return a.priority }
