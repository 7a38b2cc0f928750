package lollipop

import (
	"context"
	"time"
)

// Named format presets per temporal variant. Any other format value is used
// as a Go layout string directly.
var (
	dateTimeFormats = map[string]string{
		"iso":     time.RFC3339,
		"iso8601": time.RFC3339,
		"rfc":     time.RFC3339,
		"rfc3339": time.RFC3339,
		"rfc822":  time.RFC822,
	}
	dateFormats = map[string]string{
		"iso":     "2006-01-02",
		"iso8601": "2006-01-02",
		"rfc":     "2006-01-02",
		"rfc3339": "2006-01-02",
		"rfc822":  "02 Jan 06",
	}
	timeFormats = map[string]string{
		"iso":     "15:04:05",
		"iso8601": "15:04:05",
	}
)

var dateTimeMessages = map[string]string{
	CodeInvalid:       "Invalid datetime value",
	CodeInvalidType:   "Value should be string",
	CodeInvalidFormat: "Value should match datetime format",
}

// temporalType is the shared implementation of DateTime, Date and Time: a
// time.Time value serialized as a formatted string.
type temporalType struct {
	baseType
	layout string
}

func newTemporalType(name string, presets map[string]string, defaultPreset string, messages map[string]string, opts []Option) temporalType {
	o := applyOptions(opts)
	format := o.format
	if format == "" {
		format = defaultPreset
	}
	layout, ok := presets[format]
	if !ok {
		layout = format
	}
	return temporalType{baseType: newBaseType(name, messages, o), layout: layout}
}

func (t *temporalType) load(ctx context.Context, data any) (any, error) {
	if isAbsent(data) {
		return nil, t.fail(CodeRequired, nil)
	}
	s, ok := data.(string)
	if !ok {
		return nil, t.fail(CodeInvalidType, map[string]any{"data": data})
	}
	parsed, err := time.Parse(t.layout, s)
	if err != nil {
		return nil, t.fail(CodeInvalidFormat, map[string]any{"data": s, "format": t.layout})
	}
	if err := t.runValidators(ctx, parsed); err != nil {
		return nil, err
	}
	return parsed, nil
}

func (t *temporalType) dump(ctx context.Context, value any) (any, error) {
	if isAbsent(value) {
		return nil, t.fail(CodeRequired, nil)
	}
	tm, ok := value.(time.Time)
	if !ok {
		return nil, t.fail(CodeInvalid, map[string]any{"data": value})
	}
	return tm.Format(t.layout), nil
}

// DateTimeType serializes time.Time values to formatted strings and back.
type DateTimeType struct {
	temporalType
}

// DateTime returns a date-and-time type. The format defaults to the "iso"
// preset (RFC 3339) and may be overridden with WithFormat.
func DateTime(opts ...Option) *DateTimeType {
	return &DateTimeType{newTemporalType("DateTime", dateTimeFormats, "iso", dateTimeMessages, opts)}
}

func (t *DateTimeType) Load(ctx context.Context, data any) (any, error) { return t.load(ctx, data) }

func (t *DateTimeType) Dump(ctx context.Context, value any) (any, error) { return t.dump(ctx, value) }

func (t *DateTimeType) Validate(ctx context.Context, data any) any { return validateWith(t, ctx, data) }

// DateType serializes the date part of time.Time values.
type DateType struct {
	temporalType
}

// Date returns a date type, formatted as "2006-01-02" by default.
func Date(opts ...Option) *DateType {
	return &DateType{newTemporalType("Date", dateFormats, "iso", map[string]string{
		CodeInvalid:       "Invalid date value",
		CodeInvalidType:   "Value should be string",
		CodeInvalidFormat: "Value should match date format",
	}, opts)}
}

func (t *DateType) Load(ctx context.Context, data any) (any, error) { return t.load(ctx, data) }

func (t *DateType) Dump(ctx context.Context, value any) (any, error) { return t.dump(ctx, value) }

func (t *DateType) Validate(ctx context.Context, data any) any { return validateWith(t, ctx, data) }

// TimeType serializes the time-of-day part of time.Time values.
type TimeType struct {
	temporalType
}

// Time returns a time-of-day type, formatted as "15:04:05" by default.
func Time(opts ...Option) *TimeType {
	return &TimeType{newTemporalType("Time", timeFormats, "iso", map[string]string{
		CodeInvalid:       "Invalid time value",
		CodeInvalidType:   "Value should be string",
		CodeInvalidFormat: "Value should match time format",
	}, opts)}
}

func (t *TimeType) Load(ctx context.Context, data any) (any, error) { return t.load(ctx, data) }

func (t *TimeType) Dump(ctx context.Context, value any) (any, error) { return t.dump(ctx, value) }

func (t *TimeType) Validate(ctx context.Context, data any) any { return validateWith(t, ctx, data) }
