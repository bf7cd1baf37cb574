// Package witadapter executes WIT adapter programs against WebAssembly instances.
//
// An adapter is a short instruction sequence that bridges a high-level function
// signature to low-level wasm exports and linear memory. The interpreter compiles
// the sequence once and then runs it as a stack machine, as many times as needed.
//
// # Architecture Overview
//
//	witadapter/          Root package with the Export, Memory and Instance contracts
//	├── types/           Interface types and tagged interface values
//	├── stack/           LIFO container with all-or-nothing bulk pop
//	├── instruction/     Adapter opcodes, operands and mnemonics
//	├── interpreter/     Compile-then-run execution engine
//	├── errors/          Structured error types and diagnostics
//	├── engine/          wazero-backed Instance implementation
//	├── manifest/        YAML adapter manifests with WIT signatures
//	└── cmd/run/         Command line adapter runner
//
// # Quick Start
//
//	prog, err := interpreter.Compile([]instruction.Instruction{
//	    instruction.ArgumentGet(1),
//	    instruction.ArgumentGet(0),
//	    instruction.CallExport("sum"),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	out, err := prog.Run(ctx, []types.Value{types.I32(3), types.I32(4)}, inst)
//	fmt.Println(out) // [I32(7)]
//
// # Thread Safety
//
// A compiled Program is immutable and may be shared between goroutines; each Run
// owns its stack. The interpreter never locks the Instance it is given, so an
// Instance driven by several concurrent runs must synchronize itself.
//
// # Diagnostics
//
// Every execution failure is an *errors.Error whose message has the shape
//
//	`<mnemonic>` <cause clause>
//
// for example
//
//	`arg.get 1` cannot access argument #1 because it doesn't exist.
package witadapter
