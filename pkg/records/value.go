// Package records holds the in-memory row model shared by the loader, the
// transformers and the writers.
//
// A Value is a small tagged union. Absent is an explicit missing-value marker
// and is never conflated with the empty string or zero.
package records

import (
	"strconv"
)

// Kind identifies which member of a Value is set.
type Kind uint8

const (
	KindAbsent Kind = iota
	KindText
	KindInt
	KindFloat
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindText:
		return "text"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindList:
		return "list"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is one cell of a Record. The zero Value is Absent.
type Value struct {
	kind Kind
	s    string
	i    int64
	f    float64
	l    []string
}

// Absent returns the missing-value marker.
func Absent() Value { return Value{} }

// Text wraps s. An empty string is a present, empty text value.
func Text(s string) Value { return Value{kind: KindText, s: s} }

// Int wraps i.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float wraps f.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// List wraps l. A nil slice is stored as an empty list so that a List value
// always reports length zero rather than being mistaken for Absent.
func List(l []string) Value {
	if l == nil {
		l = []string{}
	}
	return Value{kind: KindList, l: l}
}

// Kind reports which member is set.
func (v Value) Kind() Kind { return v.kind }

// IsAbsent reports whether v is the missing-value marker.
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// AsText returns the text member.
func (v Value) AsText() (string, bool) { return v.s, v.kind == KindText }

// AsInt returns the integer member.
func (v Value) AsInt() (int64, bool) { return v.i, v.kind == KindInt }

// AsFloat returns the floating-point member.
func (v Value) AsFloat() (float64, bool) { return v.f, v.kind == KindFloat }

// AsList returns the list member. The returned slice must not be modified.
func (v Value) AsList() ([]string, bool) { return v.l, v.kind == KindList }

// Len returns the number of elements of a List value and 0 otherwise.
func (v Value) Len() int {
	if v.kind != KindList {
		return 0
	}
	return len(v.l)
}

// Equal reports whether a and b hold the same kind and payload.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindAbsent:
		return true
	case KindText:
		return a.s == b.s
	case KindInt:
		return a.i == b.i
	case KindFloat:
		return a.f == b.f
	case KindList:
		if len(a.l) != len(b.l) {
			return false
		}
		for i := range a.l {
			if a.l[i] != b.l[i] {
				return false
			}
		}
		return true
	}
	return false
}

// GoString makes test failure output readable.
func (v Value) GoString() string {
	switch v.kind {
	case KindAbsent:
		return "records.Absent()"
	case KindText:
		return "records.Text(" + strconv.Quote(v.s) + ")"
	case KindInt:
		return "records.Int(" + strconv.FormatInt(v.i, 10) + ")"
	case KindFloat:
		return "records.Float(" + strconv.FormatFloat(v.f, 'g', -1, 64) + ")"
	case KindList:
		out := "records.List([]string{"
		for i, s := range v.l {
			if i > 0 {
				out += ", "
			}
			out += strconv.Quote(s)
		}
		return out + "})"
	}
	return "records.Value{?}"
}
