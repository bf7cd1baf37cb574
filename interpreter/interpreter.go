package interpreter

import (
	"context"
	"strings"

	"go.uber.org/zap"

	witadapter "github.com/wippyai/wit-adapter"
	"github.com/wippyai/wit-adapter/errors"
	"github.com/wippyai/wit-adapter/instruction"
	"github.com/wippyai/wit-adapter/stack"
	"github.com/wippyai/wit-adapter/types"
)

// step is one compiled instruction. Operands are held inline and the
// mnemonic is rendered once at compile time for diagnostics.
type step struct {
	mnemonic string
	instr    instruction.Instruction
}

// Program is a compiled adapter. It is immutable and safe to run many times,
// including concurrently.
type Program struct {
	steps []step
}

// Compile maps each instruction to an executable step, preserving order.
// An opcode outside the supported subset fails with an unsupported error.
func Compile(instrs []instruction.Instruction) (*Program, error) {
	steps := make([]step, len(instrs))
	for i, in := range instrs {
		if !supported(in.Op) {
			err := errors.UnsupportedOpcode(in.String(), i)
			Logger().Debug("compile rejected instruction",
				zap.Int("position", i),
				zap.String("instruction", in.String()))
			return nil, err
		}
		steps[i] = step{instr: in, mnemonic: in.String()}
	}
	return &Program{steps: steps}, nil
}

func supported(op instruction.Opcode) bool {
	switch op {
	case instruction.OpArgumentGet, instruction.OpCallExport, instruction.OpReadUtf8, instruction.OpCall:
		return true
	default:
		return false
	}
}

// Len returns the number of steps, equal to the number of compiled instructions.
func (p *Program) Len() int {
	return len(p.steps)
}

// Instructions returns a copy of the compiled instructions, in order.
func (p *Program) Instructions() []instruction.Instruction {
	out := make([]instruction.Instruction, len(p.steps))
	for i, s := range p.steps {
		out[i] = s.instr
	}
	return out
}

// String renders the program one mnemonic per line.
func (p *Program) String() string {
	lines := make([]string, len(p.steps))
	for i, s := range p.steps {
		lines[i] = s.mnemonic
	}
	return strings.Join(lines, "\n")
}

// Run executes the program and returns the final stack contents, bottom first.
func (p *Program) Run(ctx context.Context, inputs []types.Value, inst witadapter.Instance) ([]types.Value, error) {
	s, err := p.RunStack(ctx, inputs, inst)
	if err != nil {
		return nil, err
	}
	return s.Values(), nil
}

// RunStack executes the program and returns the final stack.
//
// Steps run strictly in order; the first failure aborts the run and is
// returned as is. ctx is only handed to exports; the interpreter itself
// never blocks or checks for cancellation.
func (p *Program) RunStack(ctx context.Context, inputs []types.Value, inst witadapter.Instance) (*stack.Stack[types.Value], error) {
	if inst == nil {
		inst = emptyInstance{}
	}
	rt := &runtime{
		ctx:      ctx,
		inputs:   inputs,
		stack:    stack.New[types.Value](),
		instance: inst,
	}

	for i := range p.steps {
		s := &p.steps[i]
		if err := rt.exec(s); err != nil {
			Logger().Debug("adapter run failed",
				zap.Int("step", i),
				zap.String("instruction", s.mnemonic),
				zap.Error(err))
			return nil, err
		}
	}

	return rt.stack, nil
}

// runtime is the execution context of one Run.
type runtime struct {
	ctx      context.Context
	instance witadapter.Instance
	stack    *stack.Stack[types.Value]
	inputs   []types.Value
}

// emptyInstance stands in for a nil Instance: no exports, no memory.
type emptyInstance struct{}

func (emptyInstance) Export(string) (witadapter.Export, bool) { return nil, false }
func (emptyInstance) Memory(uint32) (witadapter.Memory, bool) { return nil, false }
