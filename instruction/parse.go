package instruction

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wippyai/wit-adapter/errors"
	"github.com/wippyai/wit-adapter/types"
)

var byName = func() map[string]Opcode {
	m := make(map[string]Opcode, len(opcodes))
	for op, info := range opcodes {
		m[info.name] = Opcode(op)
	}
	return m
}()

// Parse reads one instruction from its mnemonic, the inverse of
// Instruction.String. Names are double-quoted Go string literals.
func Parse(s string) (Instruction, error) {
	tokens, err := tokenize(s)
	if err != nil {
		return Instruction{}, errors.ParseFailed(fmt.Sprintf("instruction %q", s), err)
	}
	if len(tokens) == 0 {
		return Instruction{}, errors.InvalidInput(errors.PhaseParse, "empty instruction")
	}

	op, ok := byName[tokens[0].text]
	if !ok || tokens[0].quoted {
		return Instruction{}, errors.NotFound(errors.PhaseParse, "opcode", tokens[0].text)
	}

	info := opcodes[op]
	args := tokens[1:]
	if len(args) != len(info.operands) {
		return Instruction{}, errors.InvalidInput(errors.PhaseParse,
			fmt.Sprintf("%s expects %d operand(s), got %d", info.name, len(info.operands), len(args)))
	}

	in := Instruction{Op: op}
	for i, kind := range info.operands {
		tok := args[i]
		if (kind == operandName) != tok.quoted {
			return Instruction{}, errors.InvalidInput(errors.PhaseParse,
				fmt.Sprintf("%s operand #%d: unexpected %q", info.name, i, tok.text))
		}
		switch kind {
		case operandIndex:
			n, err := strconv.ParseUint(tok.text, 10, 32)
			if err != nil {
				return Instruction{}, errors.ParseFailed(info.name+" index", err)
			}
			in.Index = uint32(n)
		case operandOperand:
			n, err := strconv.ParseUint(tok.text, 10, 64)
			if err != nil {
				return Instruction{}, errors.ParseFailed(info.name+" operand", err)
			}
			in.Operand = n
		case operandName:
			in.Name = tok.text
		case operandType:
			t, ok := types.ParseType(tok.text)
			if !ok {
				return Instruction{}, errors.NotFound(errors.PhaseParse, "type", tok.text)
			}
			in.Type = t
		}
	}
	return in, nil
}

// ParseProgram parses one mnemonic per element.
func ParseProgram(lines []string) ([]Instruction, error) {
	out := make([]Instruction, 0, len(lines))
	for i, line := range lines {
		in, err := Parse(line)
		if err != nil {
			return nil, errors.Wrap(errors.PhaseParse, errors.KindInvalidData, err, fmt.Sprintf("instruction #%d", i))
		}
		out = append(out, in)
	}
	return out, nil
}

type token struct {
	text   string
	quoted bool
}

func tokenize(s string) ([]token, error) {
	var out []token
	for {
		s = strings.TrimLeft(s, " \t")
		if s == "" {
			return out, nil
		}

		if s[0] == '"' {
			end := closingQuote(s)
			if end < 0 {
				return nil, fmt.Errorf("unterminated string %s", s)
			}
			text, err := strconv.Unquote(s[:end+1])
			if err != nil {
				return nil, err
			}
			out = append(out, token{text: text, quoted: true})
			s = s[end+1:]
			continue
		}

		end := strings.IndexAny(s, " \t")
		if end < 0 {
			end = len(s)
		}
		out = append(out, token{text: s[:end]})
		s = s[end:]
	}
}

// closingQuote returns the index of the quote ending the literal at s[0].
func closingQuote(s string) int {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return -1
}
