package lollipop_test

import (
	"reflect"
	"strings"
	"testing"

	lollipop "github.com/maximkulkin/lollipop"
)

func TestMergeErrors_NilIdentity(t *testing.T) {
	tree := map[string]any{"foo": "error"}
	if got := lollipop.MergeErrors(nil, tree); !reflect.DeepEqual(got, tree) {
		t.Fatalf("merge(nil, tree) = %v, want %v", got, tree)
	}
	if got := lollipop.MergeErrors(tree, nil); !reflect.DeepEqual(got, tree) {
		t.Fatalf("merge(tree, nil) = %v, want %v", got, tree)
	}
}

func TestMergeErrors_Scalars(t *testing.T) {
	got := lollipop.MergeErrors("error 1", "error 2")
	want := []any{"error 1", "error 2"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestMergeErrors_ListsConcatenate(t *testing.T) {
	got := lollipop.MergeErrors([]any{"a", "b"}, []any{"c"})
	want := []any{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestMergeErrors_EmptyListYieldsOther(t *testing.T) {
	other := map[string]any{"foo": "error"}
	if got := lollipop.MergeErrors([]any{}, other); !reflect.DeepEqual(got, other) {
		t.Fatalf("merge([], m) = %v, want %v", got, other)
	}
	if got := lollipop.MergeErrors("x", []any{}); !reflect.DeepEqual(got, "x") {
		t.Fatalf("merge(x, []) = %v, want x", got)
	}
	if got := lollipop.MergeErrors(other, []any{}); !reflect.DeepEqual(got, other) {
		t.Fatalf("merge(m, []) = %v, want %v", got, other)
	}
}

func TestMergeErrors_ScalarIntoList(t *testing.T) {
	got := lollipop.MergeErrors([]any{"a"}, "b")
	want := []any{"a", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	got = lollipop.MergeErrors("a", []any{"b", "c"})
	want = []any{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestMergeErrors_ScalarIntoMapUsesSchemaKey(t *testing.T) {
	got := lollipop.MergeErrors("whole object error", map[string]any{"foo": "field error"})
	want := map[string]any{
		"foo":              "field error",
		lollipop.SchemaKey: "whole object error",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestMergeErrors_MapIntoListUsesSchemaKey(t *testing.T) {
	got := lollipop.MergeErrors(map[string]any{"foo": "field error"}, []any{"e1", "e2"})
	want := map[string]any{
		"foo":              "field error",
		lollipop.SchemaKey: []any{"e1", "e2"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestMergeErrors_MapsMergeKeywiseRecursively(t *testing.T) {
	got := lollipop.MergeErrors(
		map[string]any{"foo": "a", "bar": map[string]any{"x": "deep a"}},
		map[string]any{"bar": map[string]any{"x": "deep b", "y": "only b"}, "baz": "b"},
	)
	want := map[string]any{
		"foo": "a",
		"bar": map[string]any{
			"x": []any{"deep a", "deep b"},
			"y": "only b",
		},
		"baz": "b",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestMergeErrors_SchemaKeyAccumulates(t *testing.T) {
	step1 := lollipop.MergeErrors("e1", map[string]any{"foo": "field"})
	step2 := lollipop.MergeErrors(step1, []any{"e2"})
	want := map[string]any{
		"foo":              "field",
		lollipop.SchemaKey: []any{"e1", "e2"},
	}
	if !reflect.DeepEqual(step2, want) {
		t.Fatalf("got %v, want %v", step2, want)
	}
}

func TestMergeErrors_DoesNotMutateInputs(t *testing.T) {
	m1 := map[string]any{"a": "x"}
	m2 := map[string]any{"b": "y"}
	lollipop.MergeErrors(m1, m2)
	if len(m1) != 1 || len(m2) != 1 {
		t.Fatalf("inputs mutated: %v %v", m1, m2)
	}
}

func TestErrorBuilder_PathAndIndex(t *testing.T) {
	var b lollipop.ErrorBuilder
	b.Add("foo.bar", "should be less than bam")
	b.AddIndex(2, "bad item")
	b.AddErrors(map[string]any{"baz": "is required"})

	err := b.Build()
	ve, ok := lollipop.AsValidationError(err)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	want := map[string]any{
		"foo": map[string]any{"bar": "should be less than bam"},
		"2":   "bad item",
		"baz": "is required",
	}
	if !reflect.DeepEqual(ve.Messages, want) {
		t.Fatalf("got %v, want %v", ve.Messages, want)
	}
}

func TestErrorBuilder_EmptyBuildsNil(t *testing.T) {
	var b lollipop.ErrorBuilder
	if err := b.Build(); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if b.Errors() != nil {
		t.Fatalf("expected nil tree, got %v", b.Errors())
	}
}

func TestValidationError_ErrorSummary(t *testing.T) {
	ve := lollipop.NewValidationError(map[string]any{
		"name": "Value is required",
		"age":  "Value should be integer",
	})
	s := ve.Error()
	if !strings.Contains(s, "age") || !strings.Contains(s, "name") {
		t.Fatalf("summary should mention failing fields: %q", s)
	}
}

func TestErrorsOf(t *testing.T) {
	ve := lollipop.NewValidationError("bad")
	if got := lollipop.ErrorsOf(ve); got != "bad" {
		t.Fatalf("got %v, want bad", got)
	}
	if got := lollipop.ErrorsOf(nil); got != nil {
		t.Fatalf("got %v, want nil", got)
	}
}
