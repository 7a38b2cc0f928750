package lollipop

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// SchemaKey is the error-tree key that holds whole-object errors when an
// object has both its own errors and per-field ones:
//
//	map[string]any{"field1": "Field error", SchemaKey: "Whole object error"}
const SchemaKey = "_schema"

// Error codes produced by the built-in types.
const (
	CodeInvalid       = "invalid"
	CodeRequired      = "required"
	CodeUnknown       = "unknown"
	CodeInvalidType   = "invalid_type"
	CodeInvalidFormat = "invalid_format"
	CodeInvalidLength = "invalid_length"
	CodeValue         = "value"
	CodeNoTypeMatched = "no_type_matched"
	CodeUnknownTypeID = "unknown_type_id"
)

// ValidationError reports invalid data. Messages is an error tree: a single
// message value, a []any of trees, or a map[string]any keyed by field name or
// sequence index (as a decimal string), nested recursively. The tree mirrors
// the shape of the schema that produced it.
type ValidationError struct {
	Messages any
}

// NewValidationError wraps an error tree into a ValidationError.
func NewValidationError(messages any) *ValidationError {
	return &ValidationError{Messages: messages}
}

// Error summarizes the first few messages.
func (e *ValidationError) Error() string {
	entries := flattenErrors(e.Messages, "")
	if len(entries) == 0 {
		return "invalid data"
	}
	const maxShown = 3
	b := &strings.Builder{}
	b.WriteString("invalid data: ")
	lim := len(entries)
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		if entries[i].path != "" {
			fmt.Fprintf(b, "%s: %v", entries[i].path, entries[i].message)
		} else {
			fmt.Fprintf(b, "%v", entries[i].message)
		}
	}
	if len(entries) > lim {
		fmt.Fprintf(b, "; ... (total %d)", len(entries))
	}
	return b.String()
}

// AsValidationError extracts a *ValidationError from err.
func AsValidationError(err error) (*ValidationError, bool) {
	if err == nil {
		return nil, false
	}
	ve, ok := err.(*ValidationError)
	return ve, ok
}

// ErrorsOf returns the error tree carried by err, or nil if err is not a
// validation error.
func ErrorsOf(err error) any {
	if ve, ok := AsValidationError(err); ok {
		return ve.Messages
	}
	return nil
}

// SchemaError reports a misconfigured schema graph or an application object
// that does not match it: duplicate registry names, missing accessor methods,
// unknown error-message keys. Unlike validation errors it is never collected
// into an error tree; it aborts the operation by panicking at the point of
// misuse.
type SchemaError struct {
	msg string
}

func (e *SchemaError) Error() string { return "lollipop: " + e.msg }

func schemaErrorf(format string, args ...any) *SchemaError {
	return &SchemaError{msg: fmt.Sprintf(format, args...)}
}

// MergeErrors deeply merges two error trees. Either side may be nil, a single
// message, a []any or a map[string]any; lists concatenate, maps union
// key-wise with recursive merge, and a list or message merging with a map
// lands under the map's SchemaKey entry. The first argument is treated as the
// earlier-recorded one, so list order is preserved.
func MergeErrors(errors1, errors2 any) any {
	if errors1 == nil {
		return errors2
	}
	if errors2 == nil {
		return errors1
	}
	if l, ok := errors1.([]any); ok && len(l) == 0 {
		return errors2
	}
	if l, ok := errors2.([]any); ok && len(l) == 0 {
		return errors1
	}

	switch e1 := errors1.(type) {
	case []any:
		switch e2 := errors2.(type) {
		case []any:
			merged := make([]any, 0, len(e1)+len(e2))
			merged = append(merged, e1...)
			merged = append(merged, e2...)
			return merged
		case map[string]any:
			out := cloneErrorMap(e2)
			out[SchemaKey] = MergeErrors(e1, e2[SchemaKey])
			return out
		default:
			merged := make([]any, 0, len(e1)+1)
			merged = append(merged, e1...)
			merged = append(merged, errors2)
			return merged
		}
	case map[string]any:
		switch e2 := errors2.(type) {
		case []any:
			out := cloneErrorMap(e1)
			out[SchemaKey] = MergeErrors(e1[SchemaKey], e2)
			return out
		case map[string]any:
			out := cloneErrorMap(e1)
			for k, v := range e2 {
				if existing, ok := out[k]; ok {
					out[k] = MergeErrors(existing, v)
				} else {
					out[k] = v
				}
			}
			return out
		default:
			out := cloneErrorMap(e1)
			out[SchemaKey] = MergeErrors(e1[SchemaKey], errors2)
			return out
		}
	default:
		switch e2 := errors2.(type) {
		case []any:
			merged := make([]any, 0, len(e2)+1)
			merged = append(merged, errors1)
			merged = append(merged, e2...)
			return merged
		case map[string]any:
			out := cloneErrorMap(e2)
			out[SchemaKey] = MergeErrors(errors1, e2[SchemaKey])
			return out
		default:
			return []any{errors1, errors2}
		}
	}
}

func cloneErrorMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}

// ErrorBuilder accumulates error trees across independent checks so that one
// failure never hides another. The zero value is ready to use.
//
//	var b lollipop.ErrorBuilder
//	b.Add("foo.bar", "should be less than bam")
//	b.AddErrors(map[string]any{"baz": "is required"})
//	if err := b.Build(); err != nil {
//		return nil, err
//	}
type ErrorBuilder struct {
	errors any
}

// Add records an error message under a '.'-separated field path.
func (b *ErrorBuilder) Add(path string, err any) {
	b.errors = MergeErrors(b.errors, makePathError(path, err))
}

// AddIndex records an error message under a sequence index key.
func (b *ErrorBuilder) AddIndex(index int, err any) {
	b.errors = MergeErrors(b.errors, map[string]any{strconv.Itoa(index): err})
}

// AddErrors merges an already-structured error tree.
func (b *ErrorBuilder) AddErrors(errors any) {
	b.errors = MergeErrors(b.errors, errors)
}

// Errors returns the accumulated tree, or nil if nothing was added.
func (b *ErrorBuilder) Errors() any { return b.errors }

// Build returns a *ValidationError carrying the accumulated tree, or nil if
// no errors were added.
func (b *ErrorBuilder) Build() error {
	if b.errors == nil {
		return nil
	}
	return &ValidationError{Messages: b.errors}
}

func makePathError(path string, err any) any {
	head, rest, found := strings.Cut(path, ".")
	if !found {
		return map[string]any{path: err}
	}
	return map[string]any{head: makePathError(rest, err)}
}

type flatError struct {
	path    string
	message any
}

// flattenErrors walks an error tree into (path, message) pairs sorted by path
// for deterministic rendering.
func flattenErrors(tree any, path string) []flatError {
	var out []flatError
	switch t := tree.(type) {
	case nil:
	case []any:
		for _, item := range t {
			out = append(out, flattenErrors(item, path)...)
		}
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			child := k
			if path != "" {
				child = path + "." + k
			}
			out = append(out, flattenErrors(t[k], child)...)
		}
	default:
		out = append(out, flatError{path: path, message: t})
	}
	return out
}
