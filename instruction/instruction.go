// Package instruction defines the adapter instruction set.
//
// An Instruction is an Opcode plus the operands needed to execute it without
// further lookup. Instructions are produced by an external decoder (or parsed
// from mnemonic text with Parse) and are read-only afterwards.
package instruction

import (
	"strconv"
	"strings"

	"github.com/wippyai/wit-adapter/types"
)

// Opcode identifies an adapter instruction.
type Opcode uint8

const (
	OpArgumentGet Opcode = iota
	OpCall
	OpCallExport
	OpReadUtf8
	OpWriteUtf8
	OpAsWasm
	OpAsInterface
	OpTableRefAdd
	OpTableRefGet
	OpCallMethod
	OpMakeRecord
	OpGetField
	OpConst
	OpFoldSeq
	OpAdd
	OpMemToSeq
	OpLoad
	OpSeqNew
	OpListPush
	OpRepeatUntil
	opCount
)

type operand uint8

const (
	operandIndex operand = iota
	operandOperand
	operandName
	operandType
)

type opInfo struct {
	name     string
	operands []operand
}

var opcodes = [...]opInfo{
	OpArgumentGet: {"arg.get", []operand{operandIndex}},
	OpCall:        {"call", []operand{operandIndex}},
	OpCallExport:  {"call-export", []operand{operandName}},
	OpReadUtf8:    {"read-utf8", nil},
	OpWriteUtf8:   {"write-utf8", []operand{operandName}},
	OpAsWasm:      {"as-wasm", []operand{operandType}},
	OpAsInterface: {"as-interface", []operand{operandType}},
	OpTableRefAdd: {"table-ref-add", nil},
	OpTableRefGet: {"table-ref-get", nil},
	OpCallMethod:  {"call-method", []operand{operandIndex}},
	OpMakeRecord:  {"make-record", []operand{operandType}},
	OpGetField:    {"get-field", []operand{operandType, operandIndex}},
	OpConst:       {"const", []operand{operandType, operandOperand}},
	OpFoldSeq:     {"fold-seq", []operand{operandIndex}},
	OpAdd:         {"add", []operand{operandType}},
	OpMemToSeq:    {"mem-to-seq", []operand{operandType, operandIndex}},
	OpLoad:        {"load", []operand{operandType, operandIndex}},
	OpSeqNew:      {"seq.new", []operand{operandType}},
	OpListPush:    {"list.push", nil},
	OpRepeatUntil: {"repeat-until", []operand{operandIndex, operandOperand}},
}

// String returns the opcode name used in mnemonics.
func (op Opcode) String() string {
	if op < opCount {
		return opcodes[op].name
	}
	return "unknown"
}

// Instruction is a single adapter instruction with inline operands.
// Which operands are meaningful depends on Op.
type Instruction struct {
	Name    string     // export or allocator name
	Operand uint64     // second integer operand
	Index   uint32     // argument, function, method or field index
	Type    types.Type // type operand
	Op      Opcode
}

func ArgumentGet(index uint32) Instruction {
	return Instruction{Op: OpArgumentGet, Index: index}
}

func Call(functionIndex uint32) Instruction {
	return Instruction{Op: OpCall, Index: functionIndex}
}

func CallExport(name string) Instruction {
	return Instruction{Op: OpCallExport, Name: name}
}

func ReadUtf8() Instruction {
	return Instruction{Op: OpReadUtf8}
}

func WriteUtf8(allocator string) Instruction {
	return Instruction{Op: OpWriteUtf8, Name: allocator}
}

func AsWasm(t types.Type) Instruction {
	return Instruction{Op: OpAsWasm, Type: t}
}

func AsInterface(t types.Type) Instruction {
	return Instruction{Op: OpAsInterface, Type: t}
}

func TableRefAdd() Instruction {
	return Instruction{Op: OpTableRefAdd}
}

func TableRefGet() Instruction {
	return Instruction{Op: OpTableRefGet}
}

func CallMethod(index uint32) Instruction {
	return Instruction{Op: OpCallMethod, Index: index}
}

func MakeRecord(t types.Type) Instruction {
	return Instruction{Op: OpMakeRecord, Type: t}
}

func GetField(t types.Type, field uint32) Instruction {
	return Instruction{Op: OpGetField, Type: t, Index: field}
}

func Const(t types.Type, value uint64) Instruction {
	return Instruction{Op: OpConst, Type: t, Operand: value}
}

func FoldSeq(index uint32) Instruction {
	return Instruction{Op: OpFoldSeq, Index: index}
}

func Add(t types.Type) Instruction {
	return Instruction{Op: OpAdd, Type: t}
}

func MemToSeq(t types.Type, index uint32) Instruction {
	return Instruction{Op: OpMemToSeq, Type: t, Index: index}
}

func Load(t types.Type, index uint32) Instruction {
	return Instruction{Op: OpLoad, Type: t, Index: index}
}

func SeqNew(t types.Type) Instruction {
	return Instruction{Op: OpSeqNew, Type: t}
}

func ListPush() Instruction {
	return Instruction{Op: OpListPush}
}

func RepeatUntil(index uint32, until uint64) Instruction {
	return Instruction{Op: OpRepeatUntil, Index: index, Operand: until}
}

// String renders the mnemonic, e.g. `arg.get 1` or `call-export "sum"`.
func (i Instruction) String() string {
	if i.Op >= opCount {
		return "unknown"
	}
	info := opcodes[i.Op]

	var b strings.Builder
	b.WriteString(info.name)
	for _, op := range info.operands {
		b.WriteByte(' ')
		switch op {
		case operandIndex:
			b.WriteString(strconv.FormatUint(uint64(i.Index), 10))
		case operandOperand:
			b.WriteString(strconv.FormatUint(i.Operand, 10))
		case operandName:
			b.WriteString(strconv.Quote(i.Name))
		case operandType:
			b.WriteString(i.Type.String())
		}
	}
	return b.String()
}
