// Package model holds the typed property-graph data model shared by the
// retrieval and validation pipelines: node and edge types, the JSON
// typed-wrapper scalar used by the graph-store wire protocol, and small
// value objects (realized outcomes, market-cap buckets) derived from them.
package model

import "encoding/json"

// Scalar is a tagged sum type mirroring the graph store's typed-wrapper
// JSON scalars: a field may arrive as a naked value or wrapped as
// {"String": s} / {"F64": x} / {"U32": n}. Both shapes must be accepted
// (spec §6, §9).
type Scalar struct {
	str   string
	f64   float64
	u32   uint32
	kind  scalarKind
}

type scalarKind int

const (
	scalarNull scalarKind = iota
	scalarString
	scalarF64
	scalarU32
)

// String unwraps the scalar to a string; non-string/null scalars return "".
func (s Scalar) String() string {
	if s.kind == scalarString {
		return s.str
	}
	return ""
}

// Float64 unwraps the scalar to a float64; non-numeric scalars return 0.
func (s Scalar) Float64() float64 {
	switch s.kind {
	case scalarF64:
		return s.f64
	case scalarU32:
		return float64(s.u32)
	default:
		return 0
	}
}

// Uint32 unwraps the scalar to a uint32; non-numeric scalars return 0.
func (s Scalar) Uint32() uint32 {
	switch s.kind {
	case scalarU32:
		return s.u32
	case scalarF64:
		return uint32(s.f64)
	default:
		return 0
	}
}

// IsNull reports whether the wrapper was absent or explicitly null.
func (s Scalar) IsNull() bool { return s.kind == scalarNull }

// StringScalar constructs a string-valued Scalar, for callers building
// property bags to send back to the store.
func StringScalar(v string) Scalar { return Scalar{kind: scalarString, str: v} }

// Float64Scalar constructs a float64-valued Scalar.
func Float64Scalar(v float64) Scalar { return Scalar{kind: scalarF64, f64: v} }

// UnmarshalJSON accepts a naked scalar (string/number/null) as well as the
// wrapped forms {"String":...}, {"F64":...}, {"U32":...}.
func (s *Scalar) UnmarshalJSON(data []byte) error {
	*s = Scalar{}

	trimmed := trimSpaceBytes(data)
	if string(trimmed) == "null" {
		s.kind = scalarNull
		return nil
	}

	// Naked string.
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var str string
		if err := json.Unmarshal(trimmed, &str); err != nil {
			return err
		}
		s.kind = scalarString
		s.str = str
		return nil
	}

	// Naked number.
	if len(trimmed) > 0 && (trimmed[0] == '-' || (trimmed[0] >= '0' && trimmed[0] <= '9')) {
		var f float64
		if err := json.Unmarshal(trimmed, &f); err != nil {
			return err
		}
		s.kind = scalarF64
		s.f64 = f
		return nil
	}

	// Wrapped object: {"String": ...} | {"F64": ...} | {"U32": ...}.
	var wrapper struct {
		String *string  `json:"String"`
		F64    *float64 `json:"F64"`
		U32    *uint32  `json:"U32"`
	}
	if err := json.Unmarshal(trimmed, &wrapper); err != nil {
		return err
	}
	switch {
	case wrapper.String != nil:
		s.kind = scalarString
		s.str = *wrapper.String
	case wrapper.F64 != nil:
		s.kind = scalarF64
		s.f64 = *wrapper.F64
	case wrapper.U32 != nil:
		s.kind = scalarU32
		s.u32 = *wrapper.U32
	default:
		s.kind = scalarNull
	}
	return nil
}

// MarshalJSON emits the naked form; this module never needs to re-wrap a
// scalar before sending it back to the store.
func (s Scalar) MarshalJSON() ([]byte, error) {
	switch s.kind {
	case scalarString:
		return json.Marshal(s.str)
	case scalarF64:
		return json.Marshal(s.f64)
	case scalarU32:
		return json.Marshal(s.u32)
	default:
		return []byte("null"), nil
	}
}

func trimSpaceBytes(b []byte) []byte {
	start, end := 0, len(b)
	for start < end && isJSONSpace(b[start]) {
		start++
	}
	for end > start && isJSONSpace(b[end-1]) {
		end--
	}
	return b[start:end]
}

func isJSONSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
