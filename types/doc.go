// Package types defines the values that cross the adapter boundary.
//
// Type is a pure tag used for signature comparison. Value is a tagged union
// holding exactly one payload of the matching Go type:
//
//	Type        Go payload    Constructor
//	─────────────────────────────────────
//	TypeI32     int32         I32(v)
//	TypeI64     int64         I64(v)
//	TypeF32     float32       F32(v)
//	TypeF64     float64       F64(v)
//	TypeString  string        String(v)
//
// Values are plain Go values and are copied, never aliased, when they move
// between the stack and an export call.
package types
