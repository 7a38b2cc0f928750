package lollipop

import (
	"fmt"
	"strings"
)

// commonMessages are the error messages every type variant understands.
var commonMessages = map[string]string{
	CodeInvalid:  "Invalid value type",
	CodeRequired: "Value is required",
}

// formatMessage interpolates {name} placeholders in a message template with
// values from params. Placeholders without a matching parameter are kept
// verbatim.
func formatMessage(tmpl string, params map[string]any) string {
	if len(params) == 0 || !strings.Contains(tmpl, "{") {
		return tmpl
	}
	var b strings.Builder
	rest := tmpl
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			b.WriteString(rest)
			return b.String()
		}
		closing := strings.IndexByte(rest[open:], '}')
		if closing < 0 {
			b.WriteString(rest)
			return b.String()
		}
		name := rest[open+1 : open+closing]
		b.WriteString(rest[:open])
		if v, ok := params[name]; ok {
			b.WriteString(fmt.Sprint(v))
		} else {
			b.WriteString(rest[open : open+closing+1])
		}
		rest = rest[open+closing+1:]
	}
}
