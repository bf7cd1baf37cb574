// Package manifest loads YAML adapter manifests.
//
// A manifest names a core module and a list of adapters. Each adapter has a
// WIT function signature, which fixes the argument and result types, and a
// program written as one instruction mnemonic per entry:
//
//	module: sum.wasm
//	adapters:
//	  - name: add
//	    signature: "add: func(a: s32, b: s32) -> s32"
//	    instructions:
//	      - arg.get 1
//	      - arg.get 0
//	      - call-export "sum"
//
// Signatures accept primitive WIT types only. Integers up to 32 bits, bool
// and char map to I32; s64 and u64 to I64; string to String.
package manifest
