package interpreter

import (
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/wippyai/wit-adapter/errors"
	"github.com/wippyai/wit-adapter/instruction"
	"github.com/wippyai/wit-adapter/types"
)

func (r *runtime) exec(s *step) error {
	switch s.instr.Op {
	case instruction.OpArgumentGet:
		return r.argumentGet(s)
	case instruction.OpCallExport:
		return r.callExport(s)
	case instruction.OpReadUtf8:
		return r.readUtf8(s)
	case instruction.OpCall:
		return r.call(s)
	default:
		// Compile rejects everything else.
		return errors.UnsupportedOpcode(s.mnemonic, -1)
	}
}

func (r *runtime) argumentGet(s *step) error {
	index := s.instr.Index
	if uint64(index) >= uint64(len(r.inputs)) {
		return errors.OutOfRangeArgument(s.mnemonic, index)
	}
	r.stack.Push(r.inputs[index])
	return nil
}

func (r *runtime) callExport(s *step) error {
	name := s.instr.Name

	export, ok := r.instance.Export(name)
	if !ok {
		return errors.ExportNotFound(s.mnemonic, name)
	}

	needed := export.InputsCardinality()
	args, ok := r.stack.Pop(needed)
	if !ok {
		return errors.CallStackUnderflow(s.mnemonic, name, needed)
	}

	expected := export.Inputs()
	if !types.EqualTypes(types.TypesOf(args), expected) {
		return errors.SignatureMismatch(s.mnemonic, name, types.FormatTypes(expected))
	}

	outputs, err := export.Call(r.ctx, args)
	if err != nil {
		return errors.ExportCallFailed(s.mnemonic, name, err)
	}

	for _, out := range outputs {
		r.stack.Push(out)
	}
	return nil
}

func (r *runtime) readUtf8(s *step) error {
	operands, ok := r.stack.Pop(2)
	if !ok {
		return errors.StackUnderflow(s.mnemonic, 2)
	}

	length, err := operands[0].AsI32()
	if err != nil {
		return conversionAt(err, s.mnemonic)
	}
	pointer, err := operands[1].AsI32()
	if err != nil {
		return conversionAt(err, s.mnemonic)
	}

	memory, ok := r.instance.Memory(0)
	if !ok {
		return errors.NoMemory(s.mnemonic)
	}

	// Operands are wasm i32 addresses: reinterpret as unsigned.
	start := uint64(uint32(pointer))
	end := start + uint64(uint32(length))
	size := uint64(memory.Size())
	if end > size {
		return errors.OutOfBoundsMemoryAccess(s.mnemonic, end, size)
	}

	data := make([]byte, end-start)
	for i := range data {
		b, err := memory.ReadU8(uint32(start) + uint32(i))
		if err != nil {
			return errors.OutOfBoundsMemoryAccess(s.mnemonic, end, uint64(memory.Size()))
		}
		data[i] = b
	}

	if offset, size, ok := invalidUTF8(data); ok {
		return errors.InvalidUTF8(s.mnemonic, offset, size)
	}

	r.stack.Push(types.String(string(data)))
	return nil
}

// call is reserved for adapter-to-adapter calls and has no stack effect.
func (r *runtime) call(s *step) error {
	Logger().Debug("adapter call has no linked target",
		zap.String("instruction", s.mnemonic),
		zap.Uint32("function", s.instr.Index))
	return nil
}

func conversionAt(err error, mnemonic string) error {
	if e, ok := err.(*errors.Error); ok {
		return errors.AtInstruction(e, mnemonic)
	}
	return err
}

// invalidUTF8 locates the first invalid sequence in data. size is the number
// of bytes forming the invalid sequence, or 0 when data ends mid-sequence.
func invalidUTF8(data []byte) (offset, size int, found bool) {
	if utf8.Valid(data) {
		return 0, 0, false
	}

	for i := 0; i < len(data); {
		r, n := utf8.DecodeRune(data[i:])
		if r != utf8.RuneError || n != 1 {
			i += n
			continue
		}
		return i, sequenceErrorLen(data[i:]), true
	}
	return 0, 0, false
}

// sequenceErrorLen returns how many bytes of seq start a valid encoding before
// it breaks, at least 1, or 0 when seq is a truncated prefix of a valid one.
func sequenceErrorLen(seq []byte) int {
	first := seq[0]
	var width int
	lo, hi := byte(0x80), byte(0xBF)
	switch {
	case first >= 0xC2 && first <= 0xDF:
		width = 2
	case first == 0xE0:
		width, lo = 3, 0xA0
	case first == 0xED:
		width, hi = 3, 0x9F
	case first >= 0xE1 && first <= 0xEF:
		width = 3
	case first == 0xF0:
		width, lo = 4, 0x90
	case first == 0xF4:
		width, hi = 4, 0x8F
	case first >= 0xF1 && first <= 0xF3:
		width = 4
	default:
		return 1
	}

	for k := 1; k < width; k++ {
		if k >= len(seq) {
			return 0
		}
		c := seq[k]
		if k == 1 {
			if c < lo || c > hi {
				return 1
			}
			continue
		}
		if c < 0x80 || c > 0xBF {
			return k
		}
	}
	// Unreachable for sequences utf8.DecodeRune rejected.
	return width
}
