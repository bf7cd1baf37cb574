package interpreter

import (
	"context"
	"fmt"
	"sync/atomic"

	witadapter "github.com/wippyai/wit-adapter"
	"github.com/wippyai/wit-adapter/types"
)

// test helpers

type testExport struct {
	fn      func(args []types.Value) ([]types.Value, error)
	inputs  []types.Type
	outputs []types.Type
	calls   atomic.Int32
}

func (e *testExport) InputsCardinality() int  { return len(e.inputs) }
func (e *testExport) OutputsCardinality() int { return len(e.outputs) }
func (e *testExport) Inputs() []types.Type    { return e.inputs }
func (e *testExport) Outputs() []types.Type   { return e.outputs }

func (e *testExport) Call(_ context.Context, args []types.Value) ([]types.Value, error) {
	e.calls.Add(1)
	return e.fn(args)
}

type testMemory struct {
	data  []byte
	reads atomic.Int32
}

func newTestMemory(data []byte) *testMemory {
	return &testMemory{data: data}
}

func (m *testMemory) Size() uint32 {
	return uint32(len(m.data))
}

func (m *testMemory) ReadU8(offset uint32) (uint8, error) {
	m.reads.Add(1)
	if int(offset) >= len(m.data) {
		return 0, fmt.Errorf("read out of bounds: offset=%d", offset)
	}
	return m.data[offset], nil
}

func (m *testMemory) WriteU8(offset uint32, value uint8) error {
	if int(offset) >= len(m.data) {
		return fmt.Errorf("write out of bounds: offset=%d", offset)
	}
	m.data[offset] = value
	return nil
}

type testInstance struct {
	exports map[string]*testExport
	memory  *testMemory
}

func (i *testInstance) Export(name string) (witadapter.Export, bool) {
	e, ok := i.exports[name]
	if !ok {
		return nil, false
	}
	return e, true
}

func (i *testInstance) Memory(index uint32) (witadapter.Memory, bool) {
	if index != 0 || i.memory == nil {
		return nil, false
	}
	return i.memory, true
}

func sumExport() *testExport {
	return &testExport{
		inputs:  []types.Type{types.TypeI32, types.TypeI32},
		outputs: []types.Type{types.TypeI32},
		fn: func(args []types.Value) ([]types.Value, error) {
			a, err := args[0].AsI32()
			if err != nil {
				return nil, err
			}
			b, err := args[1].AsI32()
			if err != nil {
				return nil, err
			}
			return []types.Value{types.I32(a + b)}, nil
		},
	}
}

func newTestInstance() *testInstance {
	return &testInstance{
		exports: map[string]*testExport{"sum": sumExport()},
		memory:  newTestMemory(nil),
	}
}

var _ witadapter.Instance = (*testInstance)(nil)
var _ witadapter.Export = (*testExport)(nil)
var _ witadapter.Memory = (*testMemory)(nil)
