package instruction

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/wippyai/wit-adapter/errors"
	"github.com/wippyai/wit-adapter/types"
)

func TestInstruction_String(t *testing.T) {
	tests := []struct {
		in   Instruction
		want string
	}{
		{ArgumentGet(1), "arg.get 1"},
		{CallExport("foo"), `call-export "foo"`},
		{ReadUtf8(), "read-utf8"},
		{Call(7), "call 7"},
		{WriteUtf8("alloc"), `write-utf8 "alloc"`},
		{AsWasm(types.TypeI32), "as-wasm I32"},
		{AsInterface(types.TypeI64), "as-interface I64"},
		{TableRefAdd(), "table-ref-add"},
		{TableRefGet(), "table-ref-get"},
		{CallMethod(1), "call-method 1"},
		{MakeRecord(types.TypeString), "make-record String"},
		{GetField(types.TypeI32, 7), "get-field I32 7"},
		{Const(types.TypeI32, 7), "const I32 7"},
		{FoldSeq(7), "fold-seq 7"},
		{Add(types.TypeF32), "add F32"},
		{MemToSeq(types.TypeI32, 7), "mem-to-seq I32 7"},
		{Load(types.TypeF64, 7), "load F64 7"},
		{SeqNew(types.TypeI32), "seq.new I32"},
		{ListPush(), "list.push"},
		{RepeatUntil(1, 2), "repeat-until 1 2"},
		{Instruction{Op: opCount}, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.in.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOpcode_String(t *testing.T) {
	for op := OpArgumentGet; op < opCount; op++ {
		if op.String() == "unknown" || op.String() == "" {
			t.Errorf("opcode %d has no name", op)
		}
	}
	if Opcode(255).String() != "unknown" {
		t.Error("out of range opcode should be unknown")
	}
}

func TestParse_RoundTrip(t *testing.T) {
	all := []Instruction{
		ArgumentGet(0),
		ArgumentGet(4294967295),
		Call(3),
		CallExport("sum"),
		CallExport(`we"ird name`),
		CallExport(""),
		ReadUtf8(),
		WriteUtf8("cabi_realloc"),
		AsWasm(types.TypeF64),
		AsInterface(types.TypeString),
		TableRefAdd(),
		TableRefGet(),
		CallMethod(2),
		MakeRecord(types.TypeI64),
		GetField(types.TypeI32, 1),
		Const(types.TypeI64, 1<<40),
		FoldSeq(9),
		Add(types.TypeI32),
		MemToSeq(types.TypeI32, 0),
		Load(types.TypeI32, 8),
		SeqNew(types.TypeString),
		ListPush(),
		RepeatUntil(5, 6),
	}

	for _, in := range all {
		t.Run(in.String(), func(t *testing.T) {
			got, err := Parse(in.String())
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", in.String(), err)
			}
			if got != in {
				t.Errorf("Parse(%q) = %+v, want %+v", in.String(), got, in)
			}
		})
	}
}

func TestParse_Whitespace(t *testing.T) {
	got, err := Parse("  call-export\t\"a b\"  ")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got != CallExport("a b") {
		t.Errorf("Parse() = %+v", got)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		in   string
		kind errors.Kind
	}{
		{"", errors.KindInvalidInput},
		{"   ", errors.KindInvalidInput},
		{"jump 3", errors.KindNotFound},
		{`"arg.get" 1`, errors.KindNotFound},
		{"arg.get", errors.KindInvalidInput},
		{"arg.get 1 2", errors.KindInvalidInput},
		{"arg.get -1", errors.KindInvalidData},
		{"arg.get 4294967296", errors.KindInvalidData},
		{"call-export sum", errors.KindInvalidInput},
		{`arg.get "1"`, errors.KindInvalidInput},
		{`call-export "sum`, errors.KindInvalidData},
		{"as-wasm Int", errors.KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := Parse(tt.in)
			if err == nil {
				t.Fatalf("Parse(%q) should fail", tt.in)
			}
			var e *errors.Error
			if !stderrors.As(err, &e) {
				t.Fatalf("error %T is not *errors.Error", err)
			}
			if e.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v (%v)", e.Kind, tt.kind, err)
			}
		})
	}
}

func TestParseProgram(t *testing.T) {
	got, err := ParseProgram([]string{"arg.get 1", "arg.get 0", `call-export "sum"`})
	if err != nil {
		t.Fatalf("ParseProgram failed: %v", err)
	}
	want := []Instruction{ArgumentGet(1), ArgumentGet(0), CallExport("sum")}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}

	_, err = ParseProgram([]string{"arg.get 0", "bogus"})
	if err == nil {
		t.Fatal("expected error")
	}
	if want := "instruction #1"; !strings.Contains(err.Error(), want) {
		t.Errorf("error %q should mention %q", err.Error(), want)
	}
}
