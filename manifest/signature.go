package manifest

import (
	"regexp"
	"strings"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/wit-adapter/errors"
	"github.com/wippyai/wit-adapter/types"
)

// Signature is a parsed WIT function signature.
type Signature struct {
	Name    string
	Params  []Param
	Results []wit.Type
}

// Param is a named WIT function parameter.
type Param struct {
	Name string
	Type wit.Type
}

var funcPattern = regexp.MustCompile(`^\s*(?:export\s+)?([a-zA-Z_][a-zA-Z0-9_-]*)\s*:\s*func\s*\(([^)]*)\)(?:\s*->\s*([^;]+))?;?\s*$`)

// ParseSignature parses a single WIT function declaration such as
// "add: func(a: s32, b: s32) -> s32". Only primitive WIT types are accepted.
func ParseSignature(text string) (*Signature, error) {
	match := funcPattern.FindStringSubmatch(text)
	if match == nil {
		return nil, errors.InvalidInput(errors.PhaseParse, "not a WIT function declaration: "+strings.TrimSpace(text))
	}

	sig := &Signature{Name: match[1]}

	if paramsStr := strings.TrimSpace(match[2]); paramsStr != "" {
		for _, p := range splitParams(paramsStr) {
			name, typStr, ok := strings.Cut(p, ":")
			if !ok {
				return nil, errors.InvalidInput(errors.PhaseParse, "parameter without name: "+p)
			}
			t, err := parseWitType(typStr)
			if err != nil {
				return nil, errors.Wrap(errors.PhaseParse, errors.KindInvalidData, err, "parse param type "+strings.TrimSpace(typStr))
			}
			sig.Params = append(sig.Params, Param{Name: strings.TrimSpace(name), Type: t})
		}
	}

	resultStr := strings.TrimSpace(match[3])
	if resultStr == "" || resultStr == "()" {
		return sig, nil
	}

	if strings.HasPrefix(resultStr, "(") && strings.HasSuffix(resultStr, ")") {
		inner := strings.TrimPrefix(strings.TrimSuffix(resultStr, ")"), "(")
		for _, part := range splitParams(inner) {
			typStr := part
			if _, after, ok := strings.Cut(part, ":"); ok {
				typStr = after
			}
			t, err := parseWitType(typStr)
			if err != nil {
				return nil, errors.Wrap(errors.PhaseParse, errors.KindInvalidData, err, "parse result type "+strings.TrimSpace(typStr))
			}
			sig.Results = append(sig.Results, t)
		}
		return sig, nil
	}

	t, err := parseWitType(resultStr)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseParse, errors.KindInvalidData, err, "parse result type "+resultStr)
	}
	sig.Results = []wit.Type{t}
	return sig, nil
}

// ParamTypes maps the parameters to interface types.
func (s *Signature) ParamTypes() ([]types.Type, error) {
	ts := make([]wit.Type, len(s.Params))
	for i, p := range s.Params {
		ts[i] = p.Type
	}
	return types.FromWITList(ts)
}

// ResultTypes maps the results to interface types.
func (s *Signature) ResultTypes() ([]types.Type, error) {
	return types.FromWITList(s.Results)
}

// splitParams splits a parameter list at commas. Only primitive types
// are accepted, so no parameter type contains a comma.
func splitParams(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

func parseWitType(s string) (wit.Type, error) {
	return wit.ParseType(strings.TrimSpace(s))
}
