package schema

import (
	"slices"

	"go.uber.org/zap"

	"github.com/wippyai/savedump/binary"
	"github.com/wippyai/savedump/errors"
	"github.com/wippyai/savedump/types"
)

// Table is the deduplicated set of descriptors reachable from a set of roots.
// Ids follow the byte-wise order of canonical names, not discovery order.
type Table struct {
	ids   map[string]int32
	types []*types.Type
}

// Build walks every descriptor reachable from roots and assigns ids.
//
// Array elements, pointees and struct member types are followed depth-first.
// A name that was already visited is not entered again, which both
// deduplicates shared types and terminates self-referential graphs. Reaching
// an already visited name through a descriptor with a different layout is a
// schema conflict.
func Build(roots ...*types.Type) (*Table, error) {
	w := &walker{visited: make(map[string]*types.Type)}
	for i, root := range roots {
		if root == nil {
			return nil, errors.New(errors.PhaseSchema, errors.KindIncompleteType).
				Value(i).
				Detail("root %d is nil", i).
				Build()
		}
		if err := w.visit(root, []string{root.Name()}); err != nil {
			return nil, err
		}
	}

	names := make([]string, 0, len(w.visited))
	for name := range w.visited {
		names = append(names, name)
	}
	slices.Sort(names)

	t := &Table{
		ids:   make(map[string]int32, len(names)),
		types: make([]*types.Type, len(names)),
	}
	for i, name := range names {
		t.ids[name] = int32(i)
		t.types[i] = w.visited[name]
	}

	Logger().Debug("schema built",
		zap.Int("roots", len(roots)),
		zap.Int("types", len(names)),
		zap.Int("revisits", w.revisits),
	)
	return t, nil
}

type walker struct {
	visited  map[string]*types.Type
	revisits int
}

func (w *walker) visit(t *types.Type, path []string) error {
	if seen, ok := w.visited[t.Name()]; ok {
		w.revisits++
		if !types.SameLayout(seen, t) {
			err := errors.SchemaConflict(t.Name(), seen.Describe(), t.Describe())
			err.Path = path
			return err
		}
		if seen.Kind() != t.Kind() {
			Logger().Debug("numeric signedness collapsed",
				zap.String("name", t.Name()),
				zap.Stringer("kept", seen.Kind()),
				zap.Stringer("dropped", t.Kind()),
			)
		}
		return nil
	}
	if !t.Built() {
		return errors.New(errors.PhaseSchema, errors.KindIncompleteType).
			Path(path...).
			TypeName(t.Name()).
			Detail("struct not built").
			Build()
	}
	w.visited[t.Name()] = t

	switch t.Kind() {
	case types.KindArray, types.KindPointer:
		return w.visit(t.Elem(), append(slices.Clip(path), t.Elem().Name()))
	case types.KindStruct:
		for _, m := range t.Members() {
			if err := w.visit(m.Type, append(slices.Clip(path), m.Name)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Len returns the number of descriptors in the table.
func (t *Table) Len() int {
	return len(t.types)
}

// Types returns the descriptors in id order.
func (t *Table) Types() []*types.Type {
	return slices.Clone(t.types)
}

// ID returns the id assigned to a canonical name.
func (t *Table) ID(name string) (int32, bool) {
	id, ok := t.ids[name]
	return id, ok
}

// Lookup returns the descriptor with the given id.
func (t *Table) Lookup(id int32) (*types.Type, bool) {
	if id < 0 || int(id) >= len(t.types) {
		return nil, false
	}
	return t.types[id], true
}

// Names returns the canonical names in id order.
func (t *Table) Names() []string {
	names := make([]string, len(t.types))
	for i, typ := range t.types {
		names[i] = typ.Name()
	}
	return names
}

// WriteTo writes the descriptor count followed by every descriptor in id order.
func (t *Table) WriteTo(w *binary.Writer) error {
	w.Int(len(t.types))
	for _, typ := range t.types {
		typ.Serialize(w)
	}
	return w.Err()
}
