// Package imports collects the `use` declarations of a generated file.
package imports

import (
	"slices"
	"strings"

	"github.com/Alia5/girflags/internal/library"
)

// Import is one `use` path and the version it is guarded by, if any.
type Import struct {
	Name    string
	Version *library.Version
}

// Imports is a set of use paths keyed by path. The guard recorded for a path
// is the one it was first added with.
type Imports struct {
	names map[string]*library.Version
}

func New() *Imports {
	return &Imports{names: make(map[string]*library.Version)}
}

// Add records name. Re-adding an existing path keeps the first guard.
func (i *Imports) Add(name string, version *library.Version) {
	if name == "" {
		return
	}
	if _, ok := i.names[name]; ok {
		return
	}
	i.names[name] = version
}

// AddAll adds every name with the same guard.
func (i *Imports) AddAll(version *library.Version, names ...string) {
	for _, name := range names {
		i.Add(name, version)
	}
}

func (i *Imports) Contains(name string) bool {
	_, ok := i.names[name]
	return ok
}

func (i *Imports) Len() int {
	return len(i.names)
}

// Iter returns the imports sorted by path.
func (i *Imports) Iter() []Import {
	out := make([]Import, 0, len(i.names))
	for name, version := range i.names {
		out = append(out, Import{Name: name, Version: version})
	}
	slices.SortFunc(out, func(a, b Import) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}
