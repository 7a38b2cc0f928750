package lollipop

import (
	"strings"
	"unicode"
)

// NameTransform derives a physical attribute, method or key name from a
// logical field name.
type NameTransform func(name string) string

// SnakeCase converts "fooBar" or "FooBar" to "foo_bar".
func SnakeCase(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 2)
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// CamelCase converts "foo_bar" to "fooBar".
func CamelCase(name string) string {
	parts := strings.Split(name, "_")
	var b strings.Builder
	b.Grow(len(name))
	for i, p := range parts {
		if p == "" {
			continue
		}
		if i == 0 {
			b.WriteString(p)
			continue
		}
		r := []rune(p)
		b.WriteRune(unicode.ToUpper(r[0]))
		b.WriteString(string(r[1:]))
	}
	return b.String()
}

// ExportedName converts "foo_bar" or "fooBar" to the exported Go identifier
// "FooBar".
func ExportedName(name string) string {
	camel := CamelCase(name)
	if camel == "" {
		return camel
	}
	r := []rune(camel)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
