package testbed

import (
	"context"
	stderrors "errors"
	"os"
	"sync"
	"testing"

	"github.com/wippyai/wit-adapter/engine"
	"github.com/wippyai/wit-adapter/errors"
	"github.com/wippyai/wit-adapter/manifest"
	"github.com/wippyai/wit-adapter/types"
)

type fixture struct {
	eng      *engine.Engine
	mod      *engine.Module
	manifest *manifest.Manifest
}

func load(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	m, err := manifest.Load("adapters.yaml")
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}

	wasmBytes, err := os.ReadFile(m.ModulePath())
	if err != nil {
		t.Skipf("%s not found: %v", m.ModulePath(), err)
	}

	eng, err := engine.New(ctx, &engine.Config{MemoryLimitPages: 16})
	if err != nil {
		t.Fatalf("create engine: %v", err)
	}
	t.Cleanup(func() { eng.Close(ctx) })

	mod, err := eng.LoadModule(ctx, wasmBytes)
	if err != nil {
		t.Fatalf("load module: %v", err)
	}

	return &fixture{eng: eng, mod: mod, manifest: m}
}

func (f *fixture) instantiate(t *testing.T) *engine.Instance {
	t.Helper()
	ctx := context.Background()
	inst, err := f.mod.Instantiate(ctx, "")
	if err != nil {
		t.Fatalf("instantiate: %v", err)
	}
	t.Cleanup(func() { inst.Close(ctx) })
	return inst
}

func (f *fixture) run(t *testing.T, inst *engine.Instance, adapter string, args ...string) ([]types.Value, error) {
	t.Helper()
	a, ok := f.manifest.Lookup(adapter)
	if !ok {
		t.Fatalf("adapter %s not found", adapter)
	}
	prog, err := a.Compile()
	if err != nil {
		t.Fatalf("compile %s: %v", adapter, err)
	}
	values, err := a.ParseArgs(args)
	if err != nil {
		t.Fatalf("parse args: %v", err)
	}
	out, err := prog.Run(context.Background(), values, inst)
	if err == nil {
		if cerr := a.CheckResults(out); cerr != nil {
			t.Errorf("%s: %v", adapter, cerr)
		}
	}
	return out, err
}

func TestAdapters(t *testing.T) {
	f := load(t)
	inst := f.instantiate(t)

	tests := []struct {
		adapter string
		args    []string
		want    []types.Value
	}{
		{"add", []string{"5", "3"}, []types.Value{types.I32(8)}},
		{"add", []string{"-7", "2"}, []types.Value{types.I32(-5)}},
		{"read", []string{"13", "0"}, []types.Value{types.String("Hello, World!")}},
		{"read", []string{"5", "7"}, []types.Value{types.String("World")}},
		{"greet", nil, []types.Value{types.String("Hello, World!")}},
		{"double", []string{"4294967296"}, []types.Value{types.I64(8589934592)}},
		{"pass-through", []string{"unchanged"}, []types.Value{types.String("unchanged")}},
	}

	for _, tt := range tests {
		t.Run(tt.adapter, func(t *testing.T) {
			out, err := f.run(t, inst, tt.adapter, tt.args...)
			if err != nil {
				t.Fatalf("run: %v", err)
			}
			if !types.EqualValues(out, tt.want) {
				t.Errorf("stack = %v, want %v", out, tt.want)
			}
		})
	}
}

func TestAdapters_Diagnostics(t *testing.T) {
	f := load(t)
	inst := f.instantiate(t)

	tests := []struct {
		name    string
		adapter string
		args    []string
		msg     string
	}{
		{
			name:    "invalid utf-8 in memory",
			adapter: "broken",
			msg:     "`read-utf8` failed because the read string isn't UTF-8 valid (invalid utf-8 sequence of 1 bytes from index 1).",
		},
		{
			name:    "read past memory",
			adapter: "read",
			args:    []string{"100", "65500"},
			msg:     "`read-utf8` failed because it has to read out of the memory bounds (index 65600 > memory length 65536).",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.run(t, inst, tt.adapter, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if err.Error() != tt.msg {
				t.Errorf("Error() = %q\nwant      %q", err.Error(), tt.msg)
			}
		})
	}
}

func TestAdapters_Unsupported(t *testing.T) {
	f := load(t)

	a, ok := f.manifest.Lookup("unsupported")
	if !ok {
		t.Fatal("unsupported adapter missing")
	}
	_, err := a.Compile()
	var e *errors.Error
	if err == nil {
		t.Fatal("expected compile error")
	}
	if !stderrors.As(err, &e) || e.Kind != errors.KindUnsupported {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAdapters_ParallelInstances(t *testing.T) {
	f := load(t)
	a, _ := f.manifest.Lookup("add")
	prog, err := a.Compile()
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	const workers = 8
	insts := make([]*engine.Instance, workers)
	for i := range insts {
		insts[i] = f.instantiate(t)
	}

	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := range workers {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := range 50 {
				out, err := prog.Run(context.Background(), []types.Value{types.I32(int32(n)), types.I32(int32(j))}, insts[n])
				if err != nil {
					errs <- err
					return
				}
				if !types.EqualValues(out, []types.Value{types.I32(int32(n + j))}) {
					t.Errorf("worker %d: stack = %v", n, out)
					return
				}
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}
