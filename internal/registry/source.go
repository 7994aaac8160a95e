package registry

// Source is one configuration source: a provider of definition directives
// with a declared coverage scope and a priority. Sources load lazily, each
// at most once per Loader lifetime.
type Source interface {
	// Name uniquely identifies the source, e.g. a file path. It keys the
	// at-most-once load guarantee and is recorded as the source path of the
	// definitions it fixes.
	Name() string

	// Coverage is the tool-name prefix the source may define things at or
	// under. Empty coverage means the whole tree.
	Coverage() []string

	// Priority ranks this source's definitions against competing ones.
	Priority() int

	// Load applies the source's directives to the loader. It may itself
	// trigger further lookups; the loaded-set guards against re-entry.
	Load(ld *Loader) error
}

// FuncSource adapts a plain function to the Source interface. Used for
// programmatic configuration and in tests.
type FuncSource struct {
	name     string
	coverage []string
	priority int
	load     func(ld *Loader) error
}

// NewFuncSource builds a Source from fn.
func NewFuncSource(name string, coverage []string, priority int, fn func(ld *Loader) error) *FuncSource {
	return &FuncSource{name: name, coverage: coverage, priority: priority, load: fn}
}

// Name implements Source.
func (s *FuncSource) Name() string { return s.name }

// Coverage implements Source.
func (s *FuncSource) Coverage() []string { return append([]string(nil), s.coverage...) }

// Priority implements Source.
func (s *FuncSource) Priority() int { return s.priority }

// Load implements Source.
func (s *FuncSource) Load(ld *Loader) error { return s.load(ld) }
