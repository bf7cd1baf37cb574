package types

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/tetratelabs/wazero/api"
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/wit-adapter/errors"
)

// FromWIT maps a primitive WIT type to its interface type.
// Integers up to 32 bits, bool and char flatten to I32.
func FromWIT(t wit.Type) (Type, error) {
	switch v := t.(type) {
	case wit.Bool, wit.S8, wit.U8, wit.S16, wit.U16, wit.S32, wit.U32, wit.Char:
		return TypeI32, nil
	case wit.S64, wit.U64:
		return TypeI64, nil
	case wit.F32:
		return TypeF32, nil
	case wit.F64:
		return TypeF64, nil
	case wit.String:
		return TypeString, nil
	case *wit.TypeDef:
		if v.Name != nil {
			return 0, errors.Unsupported(errors.PhaseValidate, "WIT type "+*v.Name)
		}
		return 0, errors.Unsupported(errors.PhaseValidate, "WIT type definition")
	default:
		return 0, errors.Unsupported(errors.PhaseValidate, fmt.Sprintf("WIT type %T", t))
	}
}

// FromWITList maps each WIT type with FromWIT.
func FromWITList(ts []wit.Type) ([]Type, error) {
	out := make([]Type, len(ts))
	for i, t := range ts {
		it, err := FromWIT(t)
		if err != nil {
			return nil, err
		}
		out[i] = it
	}
	return out, nil
}

// FromValueType maps a core wasm value type to its interface type.
func FromValueType(vt api.ValueType) (Type, error) {
	switch vt {
	case api.ValueTypeI32:
		return TypeI32, nil
	case api.ValueTypeI64:
		return TypeI64, nil
	case api.ValueTypeF32:
		return TypeF32, nil
	case api.ValueTypeF64:
		return TypeF64, nil
	default:
		return 0, errors.Unsupported(errors.PhaseValidate, "core value type "+api.ValueTypeName(vt))
	}
}

// ParseWIT converts text to the interface value of a primitive WIT type.
// Unsigned integers accept their full range and keep the bit pattern of the
// flattened core type, so u32 4294967295 becomes I32(-1). bool accepts
// true/false and char a single character.
func ParseWIT(t wit.Type, s string) (Value, error) {
	switch t.(type) {
	case wit.U8:
		return parseUnsigned(t, s, 8)
	case wit.U16:
		return parseUnsigned(t, s, 16)
	case wit.U32:
		return parseUnsigned(t, s, 32)
	case wit.U64:
		return parseUnsigned(t, s, 64)
	case wit.S8:
		return parseSigned(t, s, 8)
	case wit.S16:
		return parseSigned(t, s, 16)
	case wit.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return Value{}, errors.Wrap(errors.PhaseParse, errors.KindInvalidInput, err, "parse bool "+strconv.Quote(s))
		}
		if b {
			return I32(1), nil
		}
		return I32(0), nil
	case wit.Char:
		r, size := utf8.DecodeRuneInString(s)
		if r == utf8.RuneError || size != len(s) {
			return Value{}, errors.InvalidInput(errors.PhaseParse, "parse char "+strconv.Quote(s))
		}
		return I32(r), nil
	}

	it, err := FromWIT(t)
	if err != nil {
		return Value{}, err
	}
	return ParseValue(it, s)
}

func parseUnsigned(t wit.Type, s string, bits int) (Value, error) {
	n, err := strconv.ParseUint(s, 10, bits)
	if err != nil {
		return Value{}, errors.Wrap(errors.PhaseParse, errors.KindInvalidInput, err, fmt.Sprintf("parse %T %q", t, s))
	}
	if bits == 64 {
		return I64(int64(n)), nil
	}
	return I32(int32(uint32(n))), nil
}

func parseSigned(t wit.Type, s string, bits int) (Value, error) {
	n, err := strconv.ParseInt(s, 10, bits)
	if err != nil {
		return Value{}, errors.Wrap(errors.PhaseParse, errors.KindInvalidInput, err, fmt.Sprintf("parse %T %q", t, s))
	}
	return I32(int32(n)), nil
}
