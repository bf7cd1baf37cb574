// Package interpreter compiles adapter instructions into a Program and runs it
// as a stack machine against a witadapter.Instance.
//
// # Lifecycle
//
//  1. Compile validates the instruction sequence once and produces an
//     immutable Program. Unsupported opcodes are rejected here.
//  2. Program.Run executes the steps in order over a fresh stack, borrowing
//     the invocation inputs and the instance for the duration of the call.
//  3. The first failing step aborts the run; its error is returned verbatim
//     and no partial stack is exposed.
//
// # Supported Instructions
//
//	Mnemonic              Stack effect
//	───────────────────────────────────────────────────────────────
//	arg.get <i>           push inputs[i]
//	call-export "<name>"  pop len(inputs), push the export's outputs
//	read-utf8             pop length and pointer, push the decoded string
//	call <i>              reserved, no effect
//
// # Thread Safety
//
// A Program holds no per-run state and is safe for concurrent use. The
// Instance is called without any locking.
package interpreter
