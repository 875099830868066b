package model

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswersJSON(t *testing.T) {
	raw := `{"name":"Asha","year":2026,"work_history":false,"goals":["Lead generation","Brand visibility"],"state":null}`

	var got Answers
	require.NoError(t, json.Unmarshal([]byte(raw), &got))

	want := Answers{
		"name":         Text("Asha"),
		"year":         Number(2026),
		"work_history": Bool(false),
		"goals":        List("Lead generation", "Brand visibility"),
		"state":        Text(""),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("answers mismatch (-want +got):\n%s", diff)
	}

	out, err := json.Marshal(Answers{"goals": List(), "year": Number(3)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"goals":[],"year":3}`, string(out))
}

func TestValueUnmarshalRejects(t *testing.T) {
	var v Value
	assert.Error(t, json.Unmarshal([]byte(`2.5`), &v), "fractional number")
	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &v), "list of numbers")
	assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &v), "object")
}

func TestValueBlankAndString(t *testing.T) {
	assert.True(t, Text("  ").Blank())
	assert.True(t, List().Blank())
	assert.False(t, Number(0).Blank())
	assert.False(t, Bool(false).Blank())

	assert.Equal(t, "Yes", Bool(true).String())
	assert.Equal(t, "No", Bool(false).String())
	assert.Equal(t, "a, b", List("a", "b").String())
	assert.Equal(t, "7", Number(7).String())
}

func TestAnswersAccessors(t *testing.T) {
	a := Answers{
		"name":  Text("  Asha  "),
		"years": Text("12"),
		"bad":   Text("12abc"),
		"list":  List("x"),
		"flag":  Bool(true),
	}
	assert.Equal(t, "Asha", a.TextOf("name"))
	assert.Empty(t, a.TextOf("list"))

	n, ok := a.NumberOf("years")
	assert.True(t, ok)
	assert.Equal(t, 12, n)
	_, ok = a.NumberOf("bad")
	assert.False(t, ok)
	_, ok = a.NumberOf("missing")
	assert.False(t, ok)

	assert.NotNil(t, a.ListOf("missing"))
	assert.Empty(t, a.ListOf("missing"))
	l := a.ListOf("list")
	l[0] = "changed"
	assert.Equal(t, []string{"x"}, a.ListOf("list"))

	assert.True(t, a.BoolOf("flag"))
	assert.False(t, a.BoolOf("name"))
}

func TestFormSessionClone(t *testing.T) {
	s := NewFormSession()
	s.Answers["goals"] = List("a")
	s.FieldErrors["email"] = "bad"
	s.Receipt = &Receipt{Status: 201, Body: map[string]any{"k": "v"}}

	c := s.Clone()
	c.Answers["goals"].List[0] = "z"
	c.FieldErrors["phone"] = "bad"
	c.Receipt.Body["k"] = "changed"

	assert.Equal(t, []string{"a"}, s.Answers.ListOf("goals"))
	assert.NotContains(t, s.FieldErrors, "phone")
	assert.Equal(t, "v", s.Receipt.Body["k"])
	assert.True(t, s.HasErrors())
	assert.Equal(t, 1, s.CurrentStep)
	assert.Equal(t, "failed", PhaseFailed.String())
}

func TestPhoneOf(t *testing.T) {
	a := Answers{
		"dashed":  Text("987-654-3210"),
		"spaced":  Text(" +91 98765 43210 "),
		"parens":  Text("(987) 654-3210"),
		"long":    Text("123456789012"),
		"numeric": Number(42),
	}
	assert.Equal(t, "9876543210", a.PhoneOf("dashed"))
	assert.Equal(t, "9876543210", a.PhoneOf("spaced"))
	assert.Equal(t, "9876543210", a.PhoneOf("parens"))
	assert.Equal(t, "1234567890", a.PhoneOf("long"))
	assert.Empty(t, a.PhoneOf("numeric"))
	assert.Empty(t, a.PhoneOf("missing"))
}
