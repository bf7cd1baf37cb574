package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/tetratelabs/wazero/api"

	witadapter "github.com/wippyai/wit-adapter"
	"github.com/wippyai/wit-adapter/errors"
	"github.com/wippyai/wit-adapter/types"
)

// Instance is a running core module exposed through the adapter capability
// contracts. Export and Memory lookups are safe for concurrent use; calls
// into the same instance are serialized by the caller.
type Instance struct {
	module  api.Module
	exports map[string]*Export
	memory  *Memory
}

var _ witadapter.Instance = (*Instance)(nil)

// Export returns the exported function with the given name.
func (i *Instance) Export(name string) (witadapter.Export, bool) {
	e, ok := i.exports[name]
	if !ok {
		return nil, false
	}
	return e, true
}

// Memory returns the default linear memory. Core modules have at most one
// memory, so only index 0 resolves, and only when the module exports it.
func (i *Instance) Memory(index uint32) (witadapter.Memory, bool) {
	if index != 0 || i.memory == nil {
		return nil, false
	}
	return i.memory, true
}

// ExportNames returns the names of the callable exports, sorted.
func (i *Instance) ExportNames() []string {
	names := make([]string, 0, len(i.exports))
	for name := range i.exports {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close releases the underlying wazero module.
func (i *Instance) Close(ctx context.Context) error {
	if i.module == nil {
		return nil
	}
	err := i.module.Close(ctx)
	i.module = nil
	i.exports = nil
	i.memory = nil
	return err
}

// Export is an exported core function with interface-typed signature.
type Export struct {
	fn      api.Function
	name    string
	inputs  []types.Type
	outputs []types.Type
}

var _ witadapter.Export = (*Export)(nil)

func (e *Export) InputsCardinality() int  { return len(e.inputs) }
func (e *Export) OutputsCardinality() int { return len(e.outputs) }
func (e *Export) Inputs() []types.Type    { return e.inputs }
func (e *Export) Outputs() []types.Type   { return e.outputs }

// Name returns the export name.
func (e *Export) Name() string { return e.name }

// Call encodes args onto the wasm value stack, invokes the function and
// decodes its results by declared type.
func (e *Export) Call(ctx context.Context, args []types.Value) ([]types.Value, error) {
	if len(args) != len(e.inputs) {
		return nil, errors.New(errors.PhaseRuntime, errors.KindSignatureMismatch).
			Expected(types.FormatTypes(e.inputs)).
			Detail("call %s with %d arguments", e.name, len(args)).
			Build()
	}

	stack := make([]uint64, len(args))
	for idx, arg := range args {
		raw, err := encodeValue(arg, e.inputs[idx])
		if err != nil {
			return nil, err
		}
		stack[idx] = raw
	}

	results, err := e.fn.Call(ctx, stack...)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseRuntime, errors.KindExportCallFailed, err, "call "+e.name)
	}
	if len(results) != len(e.outputs) {
		return nil, errors.InvalidData(errors.PhaseRuntime,
			fmt.Sprintf("%s returned %d values, declared %d", e.name, len(results), len(e.outputs)))
	}

	out := make([]types.Value, len(results))
	for idx, raw := range results {
		out[idx] = decodeValue(raw, e.outputs[idx])
	}
	return out, nil
}

func encodeValue(v types.Value, want types.Type) (uint64, error) {
	if v.Type() != want {
		return 0, errors.Conversion(want.String(), v.String())
	}
	switch want {
	case types.TypeI32:
		x, _ := v.AsI32()
		return api.EncodeI32(x), nil
	case types.TypeI64:
		x, _ := v.AsI64()
		return api.EncodeI64(x), nil
	case types.TypeF32:
		x, _ := v.AsF32()
		return api.EncodeF32(x), nil
	case types.TypeF64:
		x, _ := v.AsF64()
		return api.EncodeF64(x), nil
	default:
		return 0, errors.Unsupported(errors.PhaseRuntime, "core functions take no "+want.String()+" arguments")
	}
}

func decodeValue(raw uint64, t types.Type) types.Value {
	switch t {
	case types.TypeI64:
		return types.I64(int64(raw))
	case types.TypeF32:
		return types.F32(api.DecodeF32(raw))
	case types.TypeF64:
		return types.F64(api.DecodeF64(raw))
	default:
		return types.I32(api.DecodeI32(raw))
	}
}

// Memory is a linear memory exposed byte by byte.
type Memory struct {
	mem api.Memory
}

var _ witadapter.Memory = (*Memory)(nil)

// Size returns the memory size in bytes.
func (m *Memory) Size() uint32 {
	return m.mem.Size()
}

func (m *Memory) ReadU8(offset uint32) (uint8, error) {
	b, ok := m.mem.ReadByte(offset)
	if !ok {
		return 0, fmt.Errorf("read out of bounds: offset=%d", offset)
	}
	return b, nil
}

func (m *Memory) WriteU8(offset uint32, value uint8) error {
	if !m.mem.WriteByte(offset, value) {
		return fmt.Errorf("write out of bounds: offset=%d", offset)
	}
	return nil
}
