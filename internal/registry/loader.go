// Package registry implements the process-wide tool registry: a map from
// hierarchical tool name to Definition or Alias, populated lazily from
// registered configuration sources and reconciled by priority.
//
// The Loader is single-threaded by design. Source loading may re-enter the
// lookup path (a load can trigger further loads) but never runs
// concurrently; the loaded-set guarantees at-most-once execution per source.
package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tooltree/cli/internal/acceptors"
	"github.com/tooltree/cli/internal/tooldefs"
)

// ErrAliasCycle is reported when alias resolution revisits an alias.
var ErrAliasCycle = errors.New("alias cycle")

type entry struct {
	def        *tooldefs.Definition
	alias      *tooldefs.Alias
	generation int
}

func (e *entry) priority() int {
	if e.def != nil {
		return e.def.Priority()
	}
	return e.alias.Priority()
}

// Loader owns the registry and drives lazy loading of configuration
// sources.
type Loader struct {
	entries map[string]*entry
	sources []Source
	loaded  map[string]bool

	// generation counts load passes; entries from the same pass accumulate
	// directives while a later pass at equal or higher priority replaces
	// the Definition object outright.
	generation   int
	activeGen    int
	activeSource Source

	acceptorTable map[string]map[string]*acceptors.Acceptor
	mixinTable    map[string]map[string]tooldefs.Mixin
	templateTable map[string]map[string]tooldefs.Template

	logger *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger used for load diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) { l.logger = logger }
}

// New creates a Loader with an empty root namespace.
func New(opts ...Option) *Loader {
	l := &Loader{
		entries:       make(map[string]*entry),
		loaded:        make(map[string]bool),
		acceptorTable: make(map[string]map[string]*acceptors.Acceptor),
		mixinTable:    make(map[string]map[string]tooldefs.Mixin),
		templateTable: make(map[string]map[string]tooldefs.Template),
		logger:        slog.Default(),
	}
	root := tooldefs.NewDefinition(nil, 0, l)
	l.entries[""] = &entry{def: root}
	return l
}

func joinName(name []string) string {
	return strings.Join(name, " ")
}

// Root returns the root Definition.
func (l *Loader) Root() *tooldefs.Definition {
	return l.entries[""].def
}

// AddSource registers a configuration source. Sources load lazily when a
// lookup touches their coverage.
func (l *Loader) AddSource(src Source) {
	l.sources = append(l.sources, src)
}

// coverageRelevant reports whether a source covering c could define
// something at or under a prefix of name.
func coverageRelevant(c, name []string) bool {
	n := min(len(c), len(name))
	for i := 0; i < n; i++ {
		if c[i] != name[i] {
			return false
		}
	}
	return true
}

// ensureLoaded loads every not-yet-loaded source whose coverage is relevant
// to name.
func (l *Loader) ensureLoaded(name []string) error {
	for {
		progressed := false
		for _, src := range l.sources {
			if l.loaded[src.Name()] || !coverageRelevant(src.Coverage(), name) {
				continue
			}
			progressed = true
			if err := l.LoadNow(src); err != nil {
				return err
			}
		}
		if !progressed {
			return nil
		}
	}
}

// LoadNow loads src immediately unless it already loaded, regardless of
// coverage. The source is marked loaded before its Load runs, so re-entry
// from within a load cannot execute it twice. Sources that include further
// sources call this to chain loading.
func (l *Loader) LoadNow(src Source) error {
	if l.loaded[src.Name()] {
		return nil
	}
	l.loaded[src.Name()] = true

	l.generation++
	prevGen, prevSrc := l.activeGen, l.activeSource
	l.activeGen, l.activeSource = l.generation, src

	l.logger.Debug("loading configuration source",
		"source", src.Name(), "priority", src.Priority())
	err := src.Load(l)
	l.activeGen, l.activeSource = prevGen, prevSrc
	if err != nil {
		return fmt.Errorf("loading source %s: %w", src.Name(), err)
	}
	return nil
}

// Lookup resolves a tool path to the most specific matched Definition plus
// the unmatched trailing words. Unresolved trailing words are not an error
// here; when nothing matches, the root Definition is returned with the
// whole name as remainder.
func (l *Loader) Lookup(name []string) (*tooldefs.Definition, []string, error) {
	if err := l.ensureLoaded(name); err != nil {
		return nil, nil, err
	}
	return l.resolve(name, make(map[string]bool))
}

func (l *Loader) resolve(name []string, visited map[string]bool) (*tooldefs.Definition, []string, error) {
	for cut := len(name); cut >= 0; cut-- {
		prefix := name[:cut]
		e, ok := l.entries[joinName(prefix)]
		if !ok {
			continue
		}
		remaining := append([]string(nil), name[cut:]...)
		if e.def != nil {
			return e.def, remaining, nil
		}

		key := joinName(prefix)
		if visited[key] {
			return nil, nil, fmt.Errorf("%w through %q", ErrAliasCycle, key)
		}
		visited[key] = true

		// The rewritten name may fall under coverage no earlier lookup
		// touched; sources relevant to the target load here. The loaded-set
		// keeps this idempotent.
		next := append(e.alias.Target(), remaining...)
		if err := l.ensureLoaded(next); err != nil {
			return nil, nil, err
		}
		return l.resolve(next, visited)
	}
	return l.Root(), append([]string(nil), name...), nil
}

// Subtools lists the definitions below name in name order. With recursive
// it walks the whole subtree; otherwise direct children only.
func (l *Loader) Subtools(name []string, recursive bool) []*tooldefs.Definition {
	prefix := joinName(name)
	var out []*tooldefs.Definition
	for key, e := range l.entries {
		if e.def == nil || key == prefix {
			continue
		}
		if prefix != "" && !strings.HasPrefix(key, prefix+" ") {
			continue
		}
		if !recursive {
			child := key
			if prefix != "" {
				child = strings.TrimPrefix(key, prefix+" ")
			}
			if strings.Contains(child, " ") {
				continue
			}
		}
		out = append(out, e.def)
	}
	sortDefinitions(out)
	return out
}

// Activate creates or reactivates the Definition at name, applying priority
// conflict resolution. A fresh activation at equal or higher priority than
// the existing entry replaces it; an activation within the same load pass
// accumulates into the existing Definition; an existing higher-priority
// definition is kept and the caller receives a detached Definition whose
// mutations are discarded.
func (l *Loader) Activate(name []string, priority int) *tooldefs.Definition {
	l.ensureAncestors(name, priority)

	key := joinName(name)
	existing, ok := l.entries[key]

	if ok && existing.def != nil && len(name) == 0 {
		// The root namespace always accumulates.
		return existing.def
	}

	if ok && existing.priority() > priority {
		return tooldefs.NewDefinition(name, priority, &detachedHost{loader: l})
	}

	if ok && existing.def != nil && existing.generation == l.activeGen && existing.priority() == priority {
		return existing.def
	}

	def := tooldefs.NewDefinition(name, priority, l)
	if l.activeSource != nil {
		def.LockSource(l.activeSource.Name())
	}
	l.entries[key] = &entry{def: def, generation: l.activeGen}
	return def
}

// ensureAncestors creates empty namespace definitions for every missing
// prefix of name. Existing entries are never touched.
func (l *Loader) ensureAncestors(name []string, priority int) {
	for cut := 0; cut < len(name); cut++ {
		prefix := name[:cut]
		key := joinName(prefix)
		if _, ok := l.entries[key]; ok {
			continue
		}
		def := tooldefs.NewDefinition(prefix, priority, l)
		if l.activeSource != nil {
			def.LockSource(l.activeSource.Name())
		}
		l.entries[key] = &entry{def: def, generation: l.activeGen}
	}
}

// AddAlias creates a named redirect from name to target. Aliasing the root
// or closing a cycle through existing aliases is a definition-time error.
func (l *Loader) AddAlias(name, target []string, priority int) error {
	if len(name) == 0 {
		return &tooldefs.DefinitionError{
			Tool: "(root)", Directive: "add alias",
			Reason: "the root cannot be aliased",
		}
	}
	if err := l.checkAliasCycle(name, target); err != nil {
		return err
	}

	key := joinName(name)
	if existing, ok := l.entries[key]; ok && existing.priority() > priority {
		return nil
	}
	l.ensureAncestors(name, priority)
	l.entries[key] = &entry{
		alias:      tooldefs.NewAlias(name, target, priority),
		generation: l.activeGen,
	}
	return nil
}

// checkAliasCycle walks the existing alias chain from target and fails if
// it would reach name.
func (l *Loader) checkAliasCycle(name, target []string) error {
	start := joinName(name)
	seen := map[string]bool{start: true}
	cursor := joinName(target)
	for {
		if seen[cursor] {
			return &tooldefs.DefinitionError{
				Tool: start, Directive: "add alias",
				Reason: fmt.Sprintf("alias cycle through %q", cursor),
			}
		}
		seen[cursor] = true
		e, ok := l.entries[cursor]
		if !ok || e.alias == nil {
			return nil
		}
		cursor = joinName(e.alias.Target())
	}
}

// DefineChild implements tooldefs.Host.
func (l *Loader) DefineChild(parent *tooldefs.Definition, word string) *tooldefs.Definition {
	return l.Activate(append(parent.FullName(), word), parent.Priority())
}

// AddAcceptor registers a named acceptor visible to the tool at scope and
// all its descendants, shadowing same-named acceptors from ancestors.
func (l *Loader) AddAcceptor(scope []string, acc *acceptors.Acceptor) {
	key := joinName(scope)
	if l.acceptorTable[key] == nil {
		l.acceptorTable[key] = make(map[string]*acceptors.Acceptor)
	}
	l.acceptorTable[key][acc.Name()] = acc
}

// ResolveAcceptor implements tooldefs.Host.
func (l *Loader) ResolveAcceptor(scope []string, name string) (*acceptors.Acceptor, bool) {
	for cut := len(scope); cut >= 0; cut-- {
		if table, ok := l.acceptorTable[joinName(scope[:cut])]; ok {
			if acc, ok := table[name]; ok {
				return acc, true
			}
		}
	}
	return nil, false
}

// AddMixin registers a named capability bundle at scope.
func (l *Loader) AddMixin(scope []string, name string, mixin tooldefs.Mixin) {
	key := joinName(scope)
	if l.mixinTable[key] == nil {
		l.mixinTable[key] = make(map[string]tooldefs.Mixin)
	}
	l.mixinTable[key][name] = mixin
}

// ResolveMixin implements tooldefs.Host.
func (l *Loader) ResolveMixin(scope []string, name string) (tooldefs.Mixin, bool) {
	for cut := len(scope); cut >= 0; cut-- {
		if table, ok := l.mixinTable[joinName(scope[:cut])]; ok {
			if m, ok := table[name]; ok {
				return m, true
			}
		}
	}
	return nil, false
}

// AddTemplate registers a named directive batch at scope.
func (l *Loader) AddTemplate(scope []string, name string, tmpl tooldefs.Template) {
	key := joinName(scope)
	if l.templateTable[key] == nil {
		l.templateTable[key] = make(map[string]tooldefs.Template)
	}
	l.templateTable[key][name] = tmpl
}

// ResolveTemplate implements tooldefs.Host.
func (l *Loader) ResolveTemplate(scope []string, name string) (tooldefs.Template, bool) {
	for cut := len(scope); cut >= 0; cut-- {
		if table, ok := l.templateTable[joinName(scope[:cut])]; ok {
			if t, ok := table[name]; ok {
				return t, true
			}
		}
	}
	return nil, false
}

// detachedHost backs definitions whose activation lost a priority conflict.
// Scoped lookups still work so directives validate normally, but child
// definitions stay detached and nothing reaches the registry.
type detachedHost struct {
	loader *Loader
}

func (h *detachedHost) DefineChild(parent *tooldefs.Definition, word string) *tooldefs.Definition {
	return tooldefs.NewDefinition(append(parent.FullName(), word), parent.Priority(), h)
}

func (h *detachedHost) ResolveAcceptor(scope []string, name string) (*acceptors.Acceptor, bool) {
	return h.loader.ResolveAcceptor(scope, name)
}

func (h *detachedHost) ResolveMixin(scope []string, name string) (tooldefs.Mixin, bool) {
	return h.loader.ResolveMixin(scope, name)
}

func (h *detachedHost) ResolveTemplate(scope []string, name string) (tooldefs.Template, bool) {
	return h.loader.ResolveTemplate(scope, name)
}

var (
	_ tooldefs.Host     = (*Loader)(nil)
	_ tooldefs.Host     = (*detachedHost)(nil)
	_ tooldefs.Resolver = (*Loader)(nil)
)
