package engine

import (
	"context"
	"sort"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/wit-adapter/errors"
	"github.com/wippyai/wit-adapter/types"
)

// Engine compiles and instantiates core WebAssembly modules on a wazero runtime.
type Engine struct {
	runtime wazero.Runtime
	wasi    bool
}

// Config holds configuration for engine creation
type Config struct {
	// MemoryLimitPages sets the maximum memory per instance in pages (64KB each).
	// 0 means default (65536 pages = 4GB).
	// 256 = 16MB, 1024 = 64MB, 4096 = 256MB
	MemoryLimitPages uint32

	// CloseOnContextDone stops running exports when the call context is
	// cancelled or its deadline passes.
	CloseOnContextDone bool

	// EnableWASI links wasi_snapshot_preview1 so modules built for
	// wasm32-wasi targets can be instantiated.
	EnableWASI bool
}

// New creates an engine. A nil config uses defaults.
func New(ctx context.Context, cfg *Config) (*Engine, error) {
	runtimeCfg := wazero.NewRuntimeConfig()

	e := &Engine{}
	if cfg != nil {
		if cfg.MemoryLimitPages > 0 {
			runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
		}
		if cfg.CloseOnContextDone {
			runtimeCfg = runtimeCfg.WithCloseOnContextDone(true)
		}
		e.wasi = cfg.EnableWASI
	}

	e.runtime = wazero.NewRuntimeWithConfig(ctx, runtimeCfg)

	if e.wasi {
		if _, err := instantiateWASI(ctx, e.runtime); err != nil {
			_ = e.runtime.Close(ctx)
			return nil, errors.Instantiation(err)
		}
	}
	return e, nil
}

// Close releases the runtime and every instance created by it.
func (e *Engine) Close(ctx context.Context) error {
	return e.runtime.Close(ctx)
}

// Module is a compiled core module.
type Module struct {
	engine   *Engine
	compiled wazero.CompiledModule
}

// LoadModule compiles wasm bytes into a Module.
func (e *Engine) LoadModule(ctx context.Context, wasmBytes []byte) (*Module, error) {
	compiled, err := e.runtime.CompileModule(ctx, wasmBytes)
	if err != nil {
		return nil, errors.Load("compile module", err)
	}
	return &Module{engine: e, compiled: compiled}, nil
}

// ExportNames returns the names of the module's exported functions, sorted.
func (m *Module) ExportNames() []string {
	defs := m.compiled.ExportedFunctions()
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Instantiate creates a running instance of the module.
// An empty name instantiates anonymously, allowing parallel instances.
func (m *Module) Instantiate(ctx context.Context, name string) (*Instance, error) {
	modConfig := wazero.NewModuleConfig().WithName(name)
	if m.engine.wasi {
		modConfig = modConfig.WithStartFunctions("_initialize")
	}

	mod, err := m.engine.runtime.InstantiateModule(ctx, m.compiled, modConfig)
	if err != nil {
		return nil, errors.Instantiation(err)
	}

	inst := &Instance{
		module:  mod,
		exports: make(map[string]*Export),
	}

	for exportName, def := range mod.ExportedFunctionDefinitions() {
		exp, err := newExport(mod.ExportedFunction(exportName), def)
		if err != nil {
			Logger().Debug("skipping export with unsupported signature",
				zap.String("export", exportName),
				zap.Error(err))
			continue
		}
		inst.exports[exportName] = exp
	}

	// mod.Memory() wraps a nil instance in a non-nil interface when the
	// module has no memory, so presence comes from the definitions.
	if len(mod.ExportedMemoryDefinitions()) > 0 {
		inst.memory = &Memory{mem: mod.Memory()}
	}

	Logger().Debug("module instantiated",
		zap.String("name", name),
		zap.Int("exports", len(inst.exports)),
		zap.Bool("memory", inst.memory != nil))

	return inst, nil
}

// Instantiate compiles and instantiates wasm bytes in one step.
func (e *Engine) Instantiate(ctx context.Context, wasmBytes []byte, name string) (*Instance, error) {
	m, err := e.LoadModule(ctx, wasmBytes)
	if err != nil {
		return nil, err
	}
	return m.Instantiate(ctx, name)
}

func newExport(fn api.Function, def api.FunctionDefinition) (*Export, error) {
	inputs, err := coreTypes(def.ParamTypes())
	if err != nil {
		return nil, err
	}
	outputs, err := coreTypes(def.ResultTypes())
	if err != nil {
		return nil, err
	}
	return &Export{
		fn:      fn,
		name:    def.Name(),
		inputs:  inputs,
		outputs: outputs,
	}, nil
}

func coreTypes(vts []api.ValueType) ([]types.Type, error) {
	out := make([]types.Type, len(vts))
	for i, vt := range vts {
		t, err := types.FromValueType(vt)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}
