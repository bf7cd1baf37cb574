package witadapter

import (
	"context"

	"github.com/wippyai/wit-adapter/types"
)

// Export is a callable function surfaced by a wasm instance.
type Export interface {
	InputsCardinality() int
	OutputsCardinality() int
	// Inputs returns the declared parameter types, in order.
	Inputs() []types.Type
	// Outputs returns the declared result types, in order.
	Outputs() []types.Type
	// Call invokes the export. A returned error is opaque to the interpreter.
	Call(ctx context.Context, args []types.Value) ([]types.Value, error)
}

// Memory represents WASM linear memory as individually addressable byte cells.
// Cells may be mutated by the host between reads.
type Memory interface {
	Size() uint32
	ReadU8(offset uint32) (uint8, error)
	WriteU8(offset uint32, value uint8) error
}

// Instance exposes export lookup and memory lookup.
// Memory index 0 is the default memory used by memory-touching instructions.
type Instance interface {
	Export(name string) (Export, bool)
	Memory(index uint32) (Memory, bool)
}
