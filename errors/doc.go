// Package errors provides structured error types for the adapter interpreter.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// Instruction failures additionally carry the mnemonic of the failing instruction
// and render as a fixed-shape diagnostic consumed by adapter-authoring tools:
//
//	`call-export "sum"` failed when calling the exported function `sum`.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseRuntime, errors.KindInvalidInput).
//		Value(args).
//		Detail("expected %d arguments", n).
//		Build()
//
// Or use the constructors for the interpreter taxonomy:
//
//	err := errors.OutOfRangeArgument("arg.get 1", 1)
//	err := errors.OutOfBoundsMemoryAccess("read-utf8", 13, 6)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
