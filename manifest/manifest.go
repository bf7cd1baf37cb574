package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/wit-adapter/errors"
	"github.com/wippyai/wit-adapter/instruction"
	"github.com/wippyai/wit-adapter/interpreter"
	"github.com/wippyai/wit-adapter/types"
)

// Manifest describes a core module and the adapters that run against it.
type Manifest struct {
	// Module is the path of the core wasm module, relative to the manifest.
	Module   string     `yaml:"module"`
	Adapters []*Adapter `yaml:"adapters"`

	dir string
}

// Adapter is a named instruction program with a WIT signature.
type Adapter struct {
	Name string `yaml:"name"`
	// Signature is a WIT function declaration, e.g. "add: func(a: s32, b: s32) -> s32".
	Signature    string   `yaml:"signature"`
	Instructions []string `yaml:"instructions"`

	sig     *Signature
	params  []types.Type
	results []types.Type
	program []instruction.Instruction
}

// Load reads and parses a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Load("read manifest "+path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.dir = filepath.Dir(path)
	return m, nil
}

// Parse parses and validates manifest content.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.ParseFailed("manifest", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks adapter names and parses every signature and instruction.
func (m *Manifest) Validate() error {
	if len(m.Adapters) == 0 {
		return errors.InvalidInput(errors.PhaseValidate, "no adapters defined")
	}

	seen := make(map[string]bool, len(m.Adapters))
	for i, a := range m.Adapters {
		if a == nil {
			return errors.InvalidInput(errors.PhaseValidate, fmt.Sprintf("adapters[%d]: empty entry", i))
		}
		if err := a.validate(); err != nil {
			return fmt.Errorf("adapters[%d]: %w", i, err)
		}
		if seen[a.Name] {
			return errors.InvalidInput(errors.PhaseValidate, fmt.Sprintf("adapters[%d]: duplicate adapter %q", i, a.Name))
		}
		seen[a.Name] = true
	}
	return nil
}

// ModulePath returns the module path resolved against the manifest location.
func (m *Manifest) ModulePath() string {
	if m.Module == "" || filepath.IsAbs(m.Module) || m.dir == "" {
		return m.Module
	}
	return filepath.Join(m.dir, m.Module)
}

// Lookup returns the adapter with the given name.
func (m *Manifest) Lookup(name string) (*Adapter, bool) {
	for _, a := range m.Adapters {
		if a.Name == name {
			return a, true
		}
	}
	return nil, false
}

// Names returns adapter names in declaration order.
func (m *Manifest) Names() []string {
	names := make([]string, len(m.Adapters))
	for i, a := range m.Adapters {
		names[i] = a.Name
	}
	return names
}

func (a *Adapter) validate() error {
	if a.Signature == "" {
		return errors.InvalidInput(errors.PhaseValidate, "signature is required")
	}
	sig, err := ParseSignature(a.Signature)
	if err != nil {
		return err
	}
	if a.Name == "" {
		a.Name = sig.Name
	}

	params, err := sig.ParamTypes()
	if err != nil {
		return err
	}
	results, err := sig.ResultTypes()
	if err != nil {
		return err
	}

	program, err := instruction.ParseProgram(a.Instructions)
	if err != nil {
		return err
	}

	a.sig = sig
	a.params = params
	a.results = results
	a.program = program
	return nil
}

// WIT returns the parsed signature.
func (a *Adapter) WIT() *Signature { return a.sig }

// Params returns the interface types of the adapter arguments.
func (a *Adapter) Params() []types.Type { return a.params }

// Results returns the interface types the adapter is declared to leave on the stack.
func (a *Adapter) Results() []types.Type { return a.results }

// Program returns the parsed instructions.
func (a *Adapter) Program() []instruction.Instruction { return a.program }

// Compile compiles the adapter instructions.
func (a *Adapter) Compile() (*interpreter.Program, error) {
	prog, err := interpreter.Compile(a.program)
	if err != nil {
		return nil, fmt.Errorf("adapter %s: %w", a.Name, err)
	}
	return prog, nil
}

// ParseArgs converts textual arguments by the declared WIT param types.
// Integers are decimal; unsigned params accept their full range.
func (a *Adapter) ParseArgs(args []string) ([]types.Value, error) {
	if len(args) != len(a.params) {
		return nil, errors.New(errors.PhaseValidate, errors.KindSignatureMismatch).
			Expected(types.FormatTypes(a.params)).
			Detail("adapter %s takes %d arguments, got %d", a.Name, len(a.params), len(args)).
			Build()
	}
	values := make([]types.Value, len(args))
	for i, s := range args {
		v, err := types.ParseWIT(a.sig.Params[i].Type, s)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

// CheckResults reports whether out matches the declared result types.
func (a *Adapter) CheckResults(out []types.Value) error {
	if types.EqualTypes(types.TypesOf(out), a.results) {
		return nil
	}
	return errors.New(errors.PhaseValidate, errors.KindSignatureMismatch).
		Expected(types.FormatTypes(a.results)).
		Detail("adapter %s left %s on the stack", a.Name, types.FormatTypes(types.TypesOf(out))).
		Build()
}
