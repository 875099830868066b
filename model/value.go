package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ValueKind identifies which member of a Value is set
type ValueKind int

const (
	KindText ValueKind = iota
	KindNumber
	KindBool
	KindList
)

// Value is a single form answer: text, number, boolean or an ordered list of strings.
type Value struct {
	Kind   ValueKind
	Text   string
	Number int
	Bool   bool
	List   []string
}

func Text(s string) Value { return Value{Kind: KindText, Text: s} }

func Number(n int) Value { return Value{Kind: KindNumber, Number: n} }

func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// List copies items so the caller keeps ownership of its slice.
func List(items ...string) Value {
	return Value{Kind: KindList, List: append([]string{}, items...)}
}

// Blank reports whether the value counts as "not answered".
// Numbers and booleans are answered as soon as they are set.
func (v Value) Blank() bool {
	switch v.Kind {
	case KindText:
		return strings.TrimSpace(v.Text) == ""
	case KindList:
		return len(v.List) == 0
	default:
		return false
	}
}

// String renders the value for chat summaries.
func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return strconv.Itoa(v.Number)
	case KindBool:
		if v.Bool {
			return "Yes"
		}
		return "No"
	case KindList:
		return strings.Join(v.List, ", ")
	default:
		return v.Text
	}
}

func (v Value) Equal(o Value) bool {
	return v.Kind == o.Kind && v.Text == o.Text && v.Number == o.Number && v.Bool == o.Bool && slices.Equal(v.List, o.List)
}

func (v Value) clone() Value {
	if v.List != nil {
		v.List = append([]string{}, v.List...)
	}
	return v
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNumber:
		return json.Marshal(v.Number)
	case KindBool:
		return json.Marshal(v.Bool)
	case KindList:
		if v.List == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.List)
	default:
		return json.Marshal(v.Text)
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = Text("")
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Text(s)
	case '[':
		var items []string
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("list answer must contain strings: %w", err)
		}
		*v = List(items...)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = Bool(b)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		i, err := n.Int64()
		if err != nil {
			return fmt.Errorf("numeric answer must be an integer: %w", err)
		}
		*v = Number(int(i))
	}
	return nil
}

// Answers maps field names to values.
type Answers map[string]Value

// Clone returns a deep copy.
func (a Answers) Clone() Answers {
	out := make(Answers, len(a))
	for k, v := range a {
		out[k] = v.clone()
	}
	return out
}

// TextOf returns the trimmed text of a field, or "" when absent or not text.
func (a Answers) TextOf(name string) string {
	v, ok := a[name]
	if !ok || v.Kind != KindText {
		return ""
	}
	return strings.TrimSpace(v.Text)
}

// ListOf returns a copy of a list field, never nil.
func (a Answers) ListOf(name string) []string {
	v, ok := a[name]
	if !ok || v.Kind != KindList {
		return []string{}
	}
	return append([]string{}, v.List...)
}

// NumberOf returns a numeric field and whether it was set.
// Numeric text such as "42" is accepted as well.
func (a Answers) NumberOf(name string) (int, bool) {
	v, ok := a[name]
	if !ok {
		return 0, false
	}
	switch v.Kind {
	case KindNumber:
		return v.Number, true
	case KindText:
		if n, err := strconv.Atoi(strings.TrimSpace(v.Text)); err == nil {
			return n, true
		}
	}
	return 0, false
}

func (a Answers) BoolOf(name string) bool {
	v, ok := a[name]
	return ok && v.Kind == KindBool && v.Bool
}
