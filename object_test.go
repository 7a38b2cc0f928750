package lollipop_test

import (
	"context"
	"encoding/json"
	"reflect"
	"testing"

	lollipop "github.com/maximkulkin/lollipop"
)

type user struct {
	Name string
	Age  int64
}

func userType(opts ...lollipop.Option) *lollipop.ObjectType {
	return lollipop.Object(lollipop.Fields{
		"name": lollipop.String(),
		"age":  lollipop.Integer(),
	}, opts...)
}

func TestObject_LoadToMap(t *testing.T) {
	v, err := userType().Load(ctxBg(), map[string]any{"name": "Bob", "age": 30})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := map[string]any{"name": "Bob", "age": int64(30)}
	if !reflect.DeepEqual(v, want) {
		t.Fatalf("got %v", v)
	}
}

func TestObject_MissingFieldsReportRequired(t *testing.T) {
	_, err := userType().Load(ctxBg(), map[string]any{"name": "Bob"})
	want := map[string]any{"age": "Value is required"}
	if got := tree(t, err); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestObject_CollectsAllFieldErrors(t *testing.T) {
	_, err := userType().Load(ctxBg(), map[string]any{"name": 1, "age": "x"})
	want := map[string]any{
		"name": "Value should be string",
		"age":  "Value should be integer",
	}
	if got := tree(t, err); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestObject_RejectsNonMapping(t *testing.T) {
	_, err := userType().Load(ctxBg(), []any{1})
	if got := tree(t, err); got != "Value should be dict" {
		t.Fatalf("got %v", got)
	}
}

func TestObject_ExtraFieldsIgnoredByDefault(t *testing.T) {
	v, err := userType().Load(ctxBg(), map[string]any{"name": "Bob", "age": 1, "pet": "cat"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, ok := v.(map[string]any)["pet"]; ok {
		t.Fatalf("extra field should not leak into result: %v", v)
	}
}

func TestObject_DisallowedExtraFields(t *testing.T) {
	tp := userType(lollipop.WithAllowExtraFields(false))
	_, err := tp.Load(ctxBg(), map[string]any{"name": "Bob", "age": 1, "pet": "cat"})
	want := map[string]any{"pet": "Unknown field"}
	if got := tree(t, err); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestObject_Constructor(t *testing.T) {
	tp := userType(lollipop.WithConstructor(func(ctx context.Context, fields map[string]any) (any, error) {
		return &user{Name: fields["name"].(string), Age: fields["age"].(int64)}, nil
	}))
	v, err := tp.Load(ctxBg(), map[string]any{"name": "Bob", "age": 30})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	u, ok := v.(*user)
	if !ok {
		t.Fatalf("expected *user, got %T", v)
	}
	if u.Name != "Bob" || u.Age != 30 {
		t.Fatalf("got %+v", u)
	}
}

func TestObject_DumpFromStruct(t *testing.T) {
	v, err := userType().Dump(ctxBg(), &user{Name: "Bob", Age: 30})
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	want := map[string]any{"name": "Bob", "age": int64(30)}
	if !reflect.DeepEqual(v, want) {
		t.Fatalf("got %v", v)
	}
}

func TestObject_DumpFromMap(t *testing.T) {
	v, err := userType().Dump(ctxBg(), map[string]any{"name": "Bob", "age": int64(30)})
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	want := map[string]any{"name": "Bob", "age": int64(30)}
	if !reflect.DeepEqual(v, want) {
		t.Fatalf("got %v", v)
	}
}

func TestObject_OrderedDump(t *testing.T) {
	tp := userType(lollipop.WithOrdered(true))
	v, err := tp.Dump(ctxBg(), &user{Name: "Bob", Age: 30})
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	om, ok := v.(interface{ Keys() []string })
	if !ok {
		t.Fatalf("expected ordered map, got %T", v)
	}
	// own fields resolve alphabetically
	want := []string{"age", "name"}
	if !reflect.DeepEqual(om.Keys(), want) {
		t.Fatalf("got %v, want %v", om.Keys(), want)
	}
}

func TestObject_Inheritance(t *testing.T) {
	base := userType()
	derived := lollipop.Object(lollipop.Fields{
		"email": lollipop.String(),
	}, lollipop.WithBases(base))

	v, err := derived.Load(ctxBg(), map[string]any{"name": "Bob", "age": 1, "email": "b@example.com"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := map[string]any{"name": "Bob", "age": int64(1), "email": "b@example.com"}
	if !reflect.DeepEqual(v, want) {
		t.Fatalf("got %v", v)
	}
	// inherited fields come first, in the base's resolution order
	wantOrder := []string{"age", "name", "email"}
	if got := derived.Fields().Keys(); !reflect.DeepEqual(got, wantOrder) {
		t.Fatalf("field order = %v, want %v", got, wantOrder)
	}
}

func TestObject_OwnFieldOverridesInherited(t *testing.T) {
	base := userType()
	derived := lollipop.Object(lollipop.Fields{
		"age": lollipop.String(),
	}, lollipop.WithBases(base))

	v, err := derived.Load(ctxBg(), map[string]any{"name": "Bob", "age": "old"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if v.(map[string]any)["age"] != "old" {
		t.Fatalf("own declaration should win: %v", v)
	}
	// the overridden field keeps its inherited position
	wantOrder := []string{"age", "name"}
	if got := derived.Fields().Keys(); !reflect.DeepEqual(got, wantOrder) {
		t.Fatalf("field order = %v, want %v", got, wantOrder)
	}
}

func TestObject_OnlyFiltersInheritedFields(t *testing.T) {
	derived := lollipop.Object(lollipop.Fields{
		"email": lollipop.String(),
	}, lollipop.WithBases(userType()), lollipop.WithOnly("name"))

	want := []string{"name", "email"}
	if got := derived.Fields().Keys(); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestObject_ExcludeFiltersInheritedFields(t *testing.T) {
	derived := lollipop.Object(lollipop.Fields{
		"email": lollipop.String(),
	}, lollipop.WithBases(userType()), lollipop.WithExclude("age"))

	want := []string{"name", "email"}
	if got := derived.Fields().Keys(); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestObject_FiltersNeverDropOwnFields(t *testing.T) {
	derived := lollipop.Object(lollipop.Fields{
		"email": lollipop.String(),
	}, lollipop.WithBases(userType()), lollipop.WithExclude("email", "age"))

	if !derived.Fields().Has("email") {
		t.Fatalf("own field dropped by exclude filter")
	}
}

func TestObject_InheritedConfiguration(t *testing.T) {
	base := userType(lollipop.WithAllowExtraFields(false))
	derived := lollipop.Object(lollipop.Fields{}, lollipop.WithBases(base))

	if _, err := derived.Load(ctxBg(), map[string]any{"name": "Bob", "age": 1, "pet": "cat"}); err == nil {
		t.Fatalf("derived schema should inherit allow-extra-fields setting")
	}
}

func TestObject_WholeObjectValidator(t *testing.T) {
	tp := userType(lollipop.WithValidators(lollipop.ValidatorFunc(
		func(ctx context.Context, value any) error {
			m := value.(map[string]any)
			if m["age"].(int64) < 0 {
				return lollipop.NewValidationError("Age should not be negative")
			}
			return nil
		})))
	_, err := tp.Load(ctxBg(), map[string]any{"name": "Bob", "age": -1})
	if got := tree(t, err); got != "Age should not be negative" {
		t.Fatalf("got %v", got)
	}
}

func TestObject_WholeObjectValidatorSkippedOnFieldErrors(t *testing.T) {
	called := false
	tp := userType(lollipop.WithValidators(lollipop.ValidatorFunc(
		func(ctx context.Context, value any) error {
			called = true
			return nil
		})))
	if _, err := tp.Load(ctxBg(), map[string]any{"name": "Bob"}); err == nil {
		t.Fatalf("expected field failure")
	}
	if called {
		t.Fatalf("object validators must not run when a field failed")
	}
}

func TestObject_LiteralFieldRoundTrip(t *testing.T) {
	tp := lollipop.Object(lollipop.Fields{
		"version": 1,
		"name":    lollipop.String(),
	})
	v, err := tp.Load(ctxBg(), map[string]any{"version": 1, "name": "Bob"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	// literal fields verify input but contribute nothing to the result
	if _, ok := v.(map[string]any)["version"]; ok {
		t.Fatalf("literal field should not appear in loaded result: %v", v)
	}

	_, err = tp.Load(ctxBg(), map[string]any{"version": 2, "name": "Bob"})
	if got := tree(t, err); !reflect.DeepEqual(got, map[string]any{"version": "Value should be 1"}) {
		t.Fatalf("got %v", got)
	}

	d, err := tp.Dump(ctxBg(), map[string]any{"name": "Bob"})
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	if d.(map[string]any)["version"] != 1 {
		t.Fatalf("literal field should dump its value: %v", d)
	}
}

func TestObject_LiteralFieldAcceptsDecodedNumbers(t *testing.T) {
	tp := lollipop.Object(lollipop.Fields{
		"version": 1,
		"name":    lollipop.String(),
	})
	// generic decoders deliver numbers as json.Number or float64
	for _, raw := range []any{json.Number("1"), float64(1)} {
		v, err := tp.Load(ctxBg(), map[string]any{"version": raw, "name": "Bob"})
		if err != nil {
			t.Fatalf("load with %T version: %v", raw, err)
		}
		if !reflect.DeepEqual(v, map[string]any{"name": "Bob"}) {
			t.Fatalf("got %v", v)
		}
	}
	if _, err := tp.Load(ctxBg(), map[string]any{"version": json.Number("2"), "name": "Bob"}); err == nil {
		t.Fatalf("wrong literal value should fail")
	}
}

func TestObject_OrderedDumpRoundTrips(t *testing.T) {
	tp := userType(lollipop.WithOrdered(true))
	d, err := tp.Dump(ctxBg(), &user{Name: "Bob", Age: 30})
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	v, err := tp.Load(ctxBg(), d)
	if err != nil {
		t.Fatalf("load of ordered dump: %v", err)
	}
	want := map[string]any{"name": "Bob", "age": int64(30)}
	if !reflect.DeepEqual(v, want) {
		t.Fatalf("got %v", v)
	}
}

func TestLoadInto_MutatesInPlace(t *testing.T) {
	u := &user{Name: "Bob", Age: 30}
	got, err := userType().LoadInto(ctxBg(), u, map[string]any{"age": 31}, true)
	if err != nil {
		t.Fatalf("load into: %v", err)
	}
	if got != any(u) {
		t.Fatalf("in-place update should return the same object")
	}
	if u.Age != 31 || u.Name != "Bob" {
		t.Fatalf("got %+v", u)
	}
}

func TestLoadInto_CopyLeavesTargetUntouched(t *testing.T) {
	u := &user{Name: "Bob", Age: 30}
	tp := userType(lollipop.WithConstructor(func(ctx context.Context, fields map[string]any) (any, error) {
		return &user{Name: fields["name"].(string), Age: fields["age"].(int64)}, nil
	}))
	got, err := tp.LoadInto(ctxBg(), u, map[string]any{"age": 31}, false)
	if err != nil {
		t.Fatalf("load into: %v", err)
	}
	if u.Age != 30 {
		t.Fatalf("target mutated: %+v", u)
	}
	fresh := got.(*user)
	if fresh == u || fresh.Age != 31 || fresh.Name != "Bob" {
		t.Fatalf("got %+v", fresh)
	}
}

func TestLoadInto_ImmutableSchemaAlwaysCopies(t *testing.T) {
	obj := map[string]any{"name": "Bob", "age": int64(30)}
	tp := userType(lollipop.WithImmutable(true))
	got, err := tp.LoadInto(ctxBg(), obj, map[string]any{"age": 31}, true)
	if err != nil {
		t.Fatalf("load into: %v", err)
	}
	if obj["age"] != int64(30) {
		t.Fatalf("immutable target mutated: %v", obj)
	}
	want := map[string]any{"name": "Bob", "age": int64(31)}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v", got)
	}
}

func TestLoadInto_MissingDataIsNoOp(t *testing.T) {
	u := &user{Name: "Bob", Age: 30}
	got, err := userType().LoadInto(ctxBg(), u, lollipop.Missing, true)
	if err != nil {
		t.Fatalf("load into: %v", err)
	}
	if got != any(u) || u.Age != 30 {
		t.Fatalf("missing data should change nothing: %v %+v", got, u)
	}
}

func TestLoadInto_ValidatorsSeeMergedView(t *testing.T) {
	var seen map[string]any
	tp := userType(lollipop.WithValidators(lollipop.ValidatorFunc(
		func(ctx context.Context, value any) error {
			seen = value.(map[string]any)
			return nil
		})))
	u := &user{Name: "Bob", Age: 30}
	if _, err := tp.LoadInto(ctxBg(), u, map[string]any{"age": 31}, true); err != nil {
		t.Fatalf("load into: %v", err)
	}
	want := map[string]any{"name": "Bob", "age": int64(31)}
	if !reflect.DeepEqual(seen, want) {
		t.Fatalf("validator saw %v, want %v", seen, want)
	}
}

func TestLoadInto_OptionalFieldValidatorsRun(t *testing.T) {
	tp := lollipop.Object(lollipop.Fields{
		"name": lollipop.String(),
		"nick": lollipop.Optional(lollipop.String(), lollipop.WithValidators(lollipop.LengthMin(5))),
	})
	obj := map[string]any{"name": "Bob", "nick": "Bobby"}

	_, err := tp.LoadInto(ctxBg(), obj, map[string]any{"nick": "ab"}, true)
	want := map[string]any{"nick": "Length should be at least 5"}
	if got := tree(t, err); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if obj["nick"] != "Bobby" {
		t.Fatalf("rejected update mutated target: %v", obj)
	}
	// the dry run agrees with the in-place path
	if got := tp.ValidateFor(ctxBg(), obj, map[string]any{"nick": "ab"}); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestLoadInto_NestedObjectsUpdateRecursively(t *testing.T) {
	addressType := lollipop.Object(lollipop.Fields{
		"city": lollipop.String(),
		"zip":  lollipop.String(),
	})
	personType := lollipop.Object(lollipop.Fields{
		"name":    lollipop.String(),
		"address": addressType,
	})

	obj := map[string]any{
		"name":    "Bob",
		"address": map[string]any{"city": "Springfield", "zip": "12345"},
	}
	_, err := personType.LoadInto(ctxBg(), obj, map[string]any{
		"address": map[string]any{"city": "Shelbyville"},
	}, true)
	if err != nil {
		t.Fatalf("load into: %v", err)
	}
	addr := obj["address"].(map[string]any)
	if addr["city"] != "Shelbyville" || addr["zip"] != "12345" {
		t.Fatalf("got %v", addr)
	}
}

func TestValidateFor_ReportsWithoutMutating(t *testing.T) {
	u := &user{Name: "Bob", Age: 30}
	got := userType().ValidateFor(ctxBg(), u, map[string]any{"age": "x"})
	want := map[string]any{"age": "Value should be integer"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if u.Age != 30 {
		t.Fatalf("target mutated: %+v", u)
	}
	if got := userType().ValidateFor(ctxBg(), u, map[string]any{"age": 31}); got != nil {
		t.Fatalf("valid update should yield nil, got %v", got)
	}
}
