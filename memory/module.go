package memory

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/savedump/errors"
)

// Module is an instantiated core wasm module whose exported memory can be
// snapshotted.
type Module struct {
	runtime wazero.Runtime
	mod     api.Module
}

// Load compiles and instantiates a core wasm module in a fresh runtime.
// The module's start function, if any, runs during instantiation.
func Load(ctx context.Context, wasm []byte) (*Module, error) {
	rt := wazero.NewRuntime(ctx)
	compiled, err := rt.CompileModule(ctx, wasm)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, errors.Wrap(errors.PhaseWrite, errors.KindInvalidInput, err, "compile module")
	}
	mod, err := rt.InstantiateModule(ctx, compiled, wazero.NewModuleConfig())
	if err != nil {
		_ = rt.Close(ctx)
		return nil, errors.Wrap(errors.PhaseWrite, errors.KindInvalidInput, err, "instantiate module")
	}
	return &Module{runtime: rt, mod: mod}, nil
}

// Memory returns the exported memory with the given name.
func (m *Module) Memory(name string) (*Wrapper, error) {
	mem := m.mod.ExportedMemory(name)
	if mem == nil {
		return nil, errors.NotFound(errors.PhaseWrite, "exported memory", name)
	}
	return &Wrapper{Mem: mem}, nil
}

// Close releases the module and its runtime.
func (m *Module) Close(ctx context.Context) error {
	return m.runtime.Close(ctx)
}
