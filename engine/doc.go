// Package engine runs core WebAssembly modules for the adapter interpreter.
//
// This package wraps wazero and exposes an instantiated module through the
// capability contracts of the root package: every exported function whose
// core signature maps to interface types becomes an Export, and the default
// linear memory becomes Memory.
//
// # Architecture
//
//	Engine   - owns a wazero runtime and its configuration
//	Module   - a compiled core module, can create instances
//	Instance - a running module with exports and memory
//
// # Type Mapping
//
//	Core Type    Interface Type
//	───────────────────────────
//	i32          I32
//	i64          I64
//	f32          F32
//	f64          F64
//	externref    (export skipped)
//
// Core functions have no string parameters. Strings reach an export through
// linear memory, for example by a read-utf8 instruction fed by a pointer and
// length returned from another export.
//
// # Usage
//
//	eng, err := engine.New(ctx, &engine.Config{MemoryLimitPages: 256})
//	if err != nil {
//	    return err
//	}
//	defer eng.Close(ctx)
//
//	inst, err := eng.Instantiate(ctx, wasmBytes, "")
//	if err != nil {
//	    return err
//	}
//	out, err := prog.Run(ctx, inputs, inst)
//
// # Thread Safety
//
// Engine and Module are safe for concurrent use. Instance lookups are safe
// for concurrent use, but wazero modules are not reentrant: concurrent
// runs should use one Instance per goroutine.
package engine
