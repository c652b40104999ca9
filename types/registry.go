package types

import (
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/savedump/errors"
)

// Registry interns descriptors by canonical name. Descriptors are never
// removed individually; Reset drops the whole registry at session end.
//
// Registry is safe for concurrent use.
type Registry struct {
	types map[string]*Type
	mu    sync.RWMutex
}

// Default is the process-wide registry used by Register, Lookup and the
// reflection builder.
var Default = NewRegistry()

func NewRegistry() *Registry {
	return &Registry{types: make(map[string]*Type)}
}

// Register interns t. If a descriptor with the same name exists and has the
// same layout it is returned instead of t; a different layout is a schema
// conflict.
func (r *Registry) Register(t *Type) (*Type, error) {
	if t == nil {
		return nil, errors.IncompleteType(errors.PhaseBuild, nil, "registered")
	}
	if !t.built {
		return nil, errors.New(errors.PhaseBuild, errors.KindIncompleteType).
			TypeName(t.name).
			Detail("struct not built").
			Build()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.types[t.name]; ok {
		if !SameLayout(existing, t) {
			return nil, errors.SchemaConflict(t.name, existing.Describe(), t.Describe())
		}
		return existing, nil
	}
	r.types[t.name] = t
	Logger().Debug("type registered",
		zap.String("name", t.name),
		zap.Stringer("kind", t.kind),
		zap.Int("size", t.size),
	)
	return t, nil
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (*Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[name]
	return t, ok
}

// Names returns the registered names in byte-wise order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	r.mu.RUnlock()
	slices.Sort(names)
	return names
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.types)
}

// Reset drops every registered descriptor.
func (r *Registry) Reset() {
	r.mu.Lock()
	r.types = make(map[string]*Type)
	r.mu.Unlock()
}

// Register interns t in the Default registry.
func Register(t *Type) (*Type, error) {
	return Default.Register(t)
}

// Lookup finds name in the Default registry.
func Lookup(name string) (*Type, bool) {
	return Default.Lookup(name)
}
