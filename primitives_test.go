package lollipop_test

import (
	"context"
	"encoding/json"
	"reflect"
	"testing"

	lollipop "github.com/maximkulkin/lollipop"
)

func ctxBg() context.Context { return context.Background() }

// tree extracts the error tree from an error that must be a ValidationError.
func tree(t *testing.T, err error) any {
	t.Helper()
	ve, ok := lollipop.AsValidationError(err)
	if !ok {
		t.Fatalf("expected *ValidationError, got %v (%T)", err, err)
	}
	return ve.Messages
}

func TestString_LoadDump(t *testing.T) {
	s := lollipop.String()
	v, err := s.Load(ctxBg(), "hello")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if v != "hello" {
		t.Fatalf("load = %v", v)
	}
	v, err = s.Dump(ctxBg(), "hello")
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	if v != "hello" {
		t.Fatalf("dump = %v", v)
	}
}

func TestString_RejectsNonStrings(t *testing.T) {
	s := lollipop.String()
	for _, bad := range []any{123, true, []any{"x"}, map[string]any{}} {
		if _, err := s.Load(ctxBg(), bad); err == nil {
			t.Fatalf("expected error loading %v", bad)
		}
	}
	_, err := s.Load(ctxBg(), 123)
	if got := tree(t, err); got != "Value should be string" {
		t.Fatalf("got %v", got)
	}
}

func TestString_MissingAndNilAreRequired(t *testing.T) {
	s := lollipop.String()
	for _, absent := range []any{nil, lollipop.Missing} {
		_, err := s.Load(ctxBg(), absent)
		if got := tree(t, err); got != "Value is required" {
			t.Fatalf("got %v", got)
		}
	}
}

func TestString_CustomErrorMessages(t *testing.T) {
	s := lollipop.String(lollipop.WithErrorMessages(map[string]string{
		"required": "Give me a string",
	}))
	_, err := s.Load(ctxBg(), nil)
	if got := tree(t, err); got != "Give me a string" {
		t.Fatalf("got %v", got)
	}
}

func TestInteger_Coercions(t *testing.T) {
	i := lollipop.Integer()
	cases := []struct {
		in   any
		want int64
	}{
		{42, 42},
		{int64(7), 7},
		{uint8(255), 255},
		{3.9, 3},
		{-3.9, -3},
		{json.Number("123"), 123},
		{json.Number("3.7"), 3},
		{"17", 17},
	}
	for _, c := range cases {
		v, err := i.Load(ctxBg(), c.in)
		if err != nil {
			t.Fatalf("load %v (%T): %v", c.in, c.in, err)
		}
		if v != c.want {
			t.Fatalf("load %v = %v, want %v", c.in, v, c.want)
		}
	}
}

func TestInteger_RejectsNonIntegral(t *testing.T) {
	i := lollipop.Integer()
	for _, bad := range []any{"abc", "3.5", true, []any{1}} {
		_, err := i.Load(ctxBg(), bad)
		if got := tree(t, err); got != "Value should be integer" {
			t.Fatalf("load %v: got %v", bad, got)
		}
	}
}

func TestInteger_ValidatorsRunOnLoadOnly(t *testing.T) {
	i := lollipop.Integer(lollipop.WithValidators(lollipop.Min(int64(10))))
	if _, err := i.Load(ctxBg(), 5); err == nil {
		t.Fatalf("expected load to fail validation")
	}
	if _, err := i.Dump(ctxBg(), 5); err != nil {
		t.Fatalf("dump should skip validators: %v", err)
	}
}

func TestFloat_Coercions(t *testing.T) {
	f := lollipop.Float()
	cases := []struct {
		in   any
		want float64
	}{
		{1.5, 1.5},
		{float32(2), 2},
		{3, 3},
		{json.Number("2.25"), 2.25},
		{"0.5", 0.5},
	}
	for _, c := range cases {
		v, err := f.Load(ctxBg(), c.in)
		if err != nil {
			t.Fatalf("load %v: %v", c.in, err)
		}
		if v != c.want {
			t.Fatalf("load %v = %v, want %v", c.in, v, c.want)
		}
	}
}

func TestBoolean_ExactMatch(t *testing.T) {
	b := lollipop.Boolean()
	v, err := b.Load(ctxBg(), true)
	if err != nil || v != true {
		t.Fatalf("load true = %v, %v", v, err)
	}
	_, err = b.Load(ctxBg(), "true")
	if got := tree(t, err); got != "Value should be boolean" {
		t.Fatalf("got %v", got)
	}
}

func TestAny_PassesThrough(t *testing.T) {
	a := lollipop.Any()
	in := map[string]any{"k": []any{1, 2}}
	v, err := a.Load(ctxBg(), in)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(v, in) {
		t.Fatalf("got %v", v)
	}
	if v, _ := a.Dump(ctxBg(), nil); v != nil {
		t.Fatalf("dump nil = %v", v)
	}
}

func TestValidate_ReturnsTreeNotError(t *testing.T) {
	s := lollipop.String()
	if got := s.Validate(ctxBg(), "ok"); got != nil {
		t.Fatalf("valid data should yield nil, got %v", got)
	}
	if got := s.Validate(ctxBg(), 5); got != "Value should be string" {
		t.Fatalf("got %v", got)
	}
}

func TestValidatorFailuresMerge(t *testing.T) {
	s := lollipop.String(lollipop.WithValidators(
		lollipop.LengthMin(5),
		lollipop.Regexp(`^[a-z]+$`),
	))
	_, err := s.Load(ctxBg(), "AB")
	got := tree(t, err)
	list, ok := got.([]any)
	if !ok || len(list) != 2 {
		t.Fatalf("expected both validator failures, got %v", got)
	}
}
