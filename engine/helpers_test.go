package engine

import (
	"context"
	"testing"
)

// Minimal binary encoding for hand-assembled test modules. Every length
// used here is below 128, so LEB128 values fit in one byte.

const (
	valI32       = 0x7f
	valI64       = 0x7e
	valF64       = 0x7c
	valExternref = 0x6f

	exportFunc   = 0x00
	exportMemory = 0x02
)

var wasmHeader = []byte{0x00, 'a', 's', 'm', 0x01, 0x00, 0x00, 0x00}

func section(id byte, payload []byte) []byte {
	return append([]byte{id, byte(len(payload))}, payload...)
}

func vec(items ...[]byte) []byte {
	out := []byte{byte(len(items))}
	for _, it := range items {
		out = append(out, it...)
	}
	return out
}

func name(s string) []byte {
	return append([]byte{byte(len(s))}, s...)
}

func funcType(params, results []byte) []byte {
	out := []byte{0x60, byte(len(params))}
	out = append(out, params...)
	out = append(out, byte(len(results)))
	return append(out, results...)
}

func export(n string, kind, index byte) []byte {
	return append(name(n), kind, index)
}

func body(code ...byte) []byte {
	b := append([]byte{0x00}, code...)
	return append([]byte{byte(len(b))}, b...)
}

const helloWorld = "Hello, World!"

// testModule exports:
//
//	sum(i32, i32) -> i32
//	id64(i64) -> i64
//	trap()            unreachable
//	neg(f64) -> f64
//	greeting() -> (i32, i32)  pointer and length of "Hello, World!"
//	takes_ref(externref)
//	memory            one page, "Hello, World!" at offset 0
func testModule() []byte {
	var m []byte
	m = append(m, wasmHeader...)
	m = append(m, section(1, vec(
		funcType([]byte{valI32, valI32}, []byte{valI32}),
		funcType([]byte{valI64}, []byte{valI64}),
		funcType(nil, nil),
		funcType([]byte{valF64}, []byte{valF64}),
		funcType(nil, []byte{valI32, valI32}),
		funcType([]byte{valExternref}, nil),
	))...)
	m = append(m, section(3, []byte{6, 0, 1, 2, 3, 4, 5})...)
	m = append(m, section(5, vec([]byte{0x00, 0x01}))...)
	m = append(m, section(7, vec(
		export("sum", exportFunc, 0),
		export("id64", exportFunc, 1),
		export("trap", exportFunc, 2),
		export("neg", exportFunc, 3),
		export("greeting", exportFunc, 4),
		export("takes_ref", exportFunc, 5),
		export("memory", exportMemory, 0),
	))...)
	m = append(m, section(10, vec(
		body(0x20, 0x00, 0x20, 0x01, 0x6a, 0x0b),
		body(0x20, 0x00, 0x0b),
		body(0x00, 0x0b),
		body(0x20, 0x00, 0x9a, 0x0b),
		body(0x41, 0x00, 0x41, byte(len(helloWorld)), 0x0b),
		body(0x0b),
	))...)
	m = append(m, section(11, vec(
		append([]byte{0x00, 0x41, 0x00, 0x0b}, name(helloWorld)...),
	))...)
	return m
}

// sumOnlyModule exports sum(i32, i32) -> i32 and has no memory.
func sumOnlyModule() []byte {
	var m []byte
	m = append(m, wasmHeader...)
	m = append(m, section(1, vec(funcType([]byte{valI32, valI32}, []byte{valI32})))...)
	m = append(m, section(3, []byte{1, 0})...)
	m = append(m, section(7, vec(export("sum", exportFunc, 0)))...)
	m = append(m, section(10, vec(body(0x20, 0x00, 0x20, 0x01, 0x6a, 0x0b)))...)
	return m
}

// internalMemoryModule is sumOnlyModule with a memory it does not export.
func internalMemoryModule() []byte {
	var m []byte
	m = append(m, wasmHeader...)
	m = append(m, section(1, vec(funcType([]byte{valI32, valI32}, []byte{valI32})))...)
	m = append(m, section(3, []byte{1, 0})...)
	m = append(m, section(5, vec([]byte{0x00, 0x01}))...)
	m = append(m, section(7, vec(export("sum", exportFunc, 0)))...)
	m = append(m, section(10, vec(body(0x20, 0x00, 0x20, 0x01, 0x6a, 0x0b)))...)
	return m
}

func newTestInstance(t *testing.T, wasm []byte) *Instance {
	t.Helper()
	ctx := context.Background()

	eng, err := New(ctx, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { eng.Close(ctx) })

	inst, err := eng.Instantiate(ctx, wasm, "")
	if err != nil {
		t.Fatalf("Instantiate failed: %v", err)
	}
	return inst
}
