package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseCompile  Phase = "compile"  // instruction sequence to program
	PhaseRuntime  Phase = "runtime"  // program execution
	PhaseValidate Phase = "validate" // manifest and signature checks
	PhaseLoad     Phase = "load"     // module and manifest loading
	PhaseParse    Phase = "parse"    // mnemonic and WIT parsing
)

// Kind categorizes the error
type Kind string

const (
	KindOutOfRangeArgument Kind = "out_of_range_argument"
	KindExportNotFound     Kind = "export_not_found"
	KindStackUnderflow     Kind = "stack_underflow"
	KindSignatureMismatch  Kind = "signature_mismatch"
	KindExportCallFailed   Kind = "export_call_failed"
	KindNoMemory           Kind = "no_memory"
	KindOutOfBounds        Kind = "out_of_bounds"
	KindInvalidUTF8        Kind = "invalid_utf8"
	KindConversion         Kind = "conversion"
	KindUnsupported        Kind = "unsupported"
	KindInvalidInput       Kind = "invalid_input"
	KindInvalidData        Kind = "invalid_data"
	KindNotFound           Kind = "not_found"
	KindInstantiation      Kind = "instantiation"
)

// Error is the structured error type used throughout the module.
//
// When Instruction is set the error describes a failing adapter instruction
// and renders as "`<instruction>` <detail>".
type Error struct {
	Value       any
	Cause       error
	Phase       Phase
	Kind        Kind
	Instruction string
	Expected    string
	Detail      string
}

// Bounds is the Value of an out of bounds memory access.
type Bounds struct {
	End uint64
	Len uint64
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	if e.Instruction != "" {
		b.WriteByte('`')
		b.WriteString(e.Instruction)
		b.WriteString("` ")
		b.WriteString(e.Detail)
		return b.String()
	}

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Expected != "" {
		b.WriteString(": expected ")
		b.WriteString(e.Expected)
	}

	if e.Detail != "" {
		if e.Expected != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Instruction sets the mnemonic of the failing instruction
func (b *Builder) Instruction(mnemonic string) *Builder {
	b.err.Instruction = mnemonic
	return b
}

// Expected sets the rendered expected type
func (b *Builder) Expected(t string) *Builder {
	b.err.Expected = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Instruction failures. Each constructor fills Value with the structured
// operand of its kind and Detail with the cause clause of the diagnostic.

// OutOfRangeArgument reports an argument index beyond the invocation inputs.
func OutOfRangeArgument(mnemonic string, index uint32) *Error {
	return &Error{
		Phase:       PhaseRuntime,
		Kind:        KindOutOfRangeArgument,
		Instruction: mnemonic,
		Detail:      fmt.Sprintf("cannot access argument #%d because it doesn't exist.", index),
		Value:       index,
	}
}

// ExportNotFound reports a missing export.
func ExportNotFound(mnemonic, name string) *Error {
	return &Error{
		Phase:       PhaseRuntime,
		Kind:        KindExportNotFound,
		Instruction: mnemonic,
		Detail:      fmt.Sprintf("cannot call the exported function `%s` because it doesn't exist.", name),
		Value:       name,
	}
}

// CallStackUnderflow reports too few stack values for an export's arguments.
func CallStackUnderflow(mnemonic, name string, needed int) *Error {
	return &Error{
		Phase:       PhaseRuntime,
		Kind:        KindStackUnderflow,
		Instruction: mnemonic,
		Detail: fmt.Sprintf("cannot call the exported function `%s` because there is no enough data on the stack for the arguments (needs %d).",
			name, needed),
		Value: needed,
	}
}

// StackUnderflow reports too few stack values for an instruction's operands.
func StackUnderflow(mnemonic string, needed int) *Error {
	return &Error{
		Phase:       PhaseRuntime,
		Kind:        KindStackUnderflow,
		Instruction: mnemonic,
		Detail:      fmt.Sprintf("failed because there is no enough data on the stack (needs %d).", needed),
		Value:       needed,
	}
}

// SignatureMismatch reports stack value types that differ from an export's inputs.
// expected is the rendered input type list, e.g. "[I32, I32]".
func SignatureMismatch(mnemonic, name, expected string) *Error {
	return &Error{
		Phase:       PhaseRuntime,
		Kind:        KindSignatureMismatch,
		Instruction: mnemonic,
		Expected:    expected,
		Detail: fmt.Sprintf("cannot call the exported function `%s` because the value types on the stack mismatch the function signature (expects %s).",
			name, expected),
		Value: name,
	}
}

// ExportCallFailed reports a failing export. The cause is kept for Unwrap
// and never rendered.
func ExportCallFailed(mnemonic, name string, cause error) *Error {
	return &Error{
		Phase:       PhaseRuntime,
		Kind:        KindExportCallFailed,
		Instruction: mnemonic,
		Detail:      fmt.Sprintf("failed when calling the exported function `%s`.", name),
		Value:       name,
		Cause:       cause,
	}
}

// NoMemory reports an instance without a default memory.
func NoMemory(mnemonic string) *Error {
	return &Error{
		Phase:       PhaseRuntime,
		Kind:        KindNoMemory,
		Instruction: mnemonic,
		Detail:      "failed because there is no memory to read.",
	}
}

// OutOfBoundsMemoryAccess reports a read range ending past the memory length.
func OutOfBoundsMemoryAccess(mnemonic string, end, length uint64) *Error {
	return &Error{
		Phase:       PhaseRuntime,
		Kind:        KindOutOfBounds,
		Instruction: mnemonic,
		Detail: fmt.Sprintf("failed because it has to read out of the memory bounds (index %d > memory length %d).",
			end, length),
		Value: Bounds{End: end, Len: length},
	}
}

// InvalidUTF8 reports bytes that do not decode as UTF-8. offset is the index
// of the first invalid byte; size is the length of the invalid sequence, or 0
// when the input ends in the middle of a sequence.
func InvalidUTF8(mnemonic string, offset, size int) *Error {
	var reason string
	if size == 0 {
		reason = fmt.Sprintf("incomplete utf-8 byte sequence from index %d", offset)
	} else {
		reason = fmt.Sprintf("invalid utf-8 sequence of %d bytes from index %d", size, offset)
	}
	return &Error{
		Phase:       PhaseRuntime,
		Kind:        KindInvalidUTF8,
		Instruction: mnemonic,
		Detail:      fmt.Sprintf("failed because the read string isn't UTF-8 valid (%s).", reason),
		Value:       offset,
	}
}

// Conversion reports a value whose tag does not match the required type.
// It carries no instruction; AtInstruction attaches one.
func Conversion(expected string, actual any) *Error {
	return &Error{
		Phase:    PhaseRuntime,
		Kind:     KindConversion,
		Expected: expected,
		Detail:   fmt.Sprintf("cannot convert %v", actual),
		Value:    actual,
	}
}

// AtInstruction returns a copy of a conversion error rendered as a diagnostic
// of the given instruction.
func AtInstruction(err *Error, mnemonic string) *Error {
	out := *err
	out.Instruction = mnemonic
	out.Detail = fmt.Sprintf("failed because the value on the stack cannot be converted (expects %s, found %v).",
		err.Expected, err.Value)
	return &out
}

// UnsupportedOpcode reports an instruction the interpreter cannot compile.
func UnsupportedOpcode(mnemonic string, position int) *Error {
	return &Error{
		Phase:       PhaseCompile,
		Kind:        KindUnsupported,
		Instruction: mnemonic,
		Detail:      fmt.Sprintf("is not supported by the interpreter (instruction #%d).", position),
		Value:       position,
	}
}

// Convenience constructors for common error patterns

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Instantiation creates an instantiation error
func Instantiation(cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInstantiation,
		Detail: "instantiate module",
		Cause:  cause,
	}
}

// Load creates a module loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}

// ParseFailed creates a parsing error
func ParseFailed(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindInvalidData,
		Detail: fmt.Sprintf("parse %s", what),
		Cause:  cause,
	}
}
