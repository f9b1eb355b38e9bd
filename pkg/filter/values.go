package filter

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// FieldValues maps a field name to a string, a number, nil (the explicit
// "no value" choice) or a []any of those.
type FieldValues map[string]any

// MultiValueError is raised (as a panic) when a field that only ever holds
// one value is handed a list. It means a caller is broken, not the user.
type MultiValueError struct {
	Field string
}

func (e *MultiValueError) Error() string {
	return fmt.Sprintf("field '%s' expects a single value but got a list", e.Field)
}

// With returns a copy of the values with one field replaced. An empty
// string removes the field.
func (v FieldValues) With(name string, value any) FieldValues {
	out := make(FieldValues, len(v)+1)
	for k, val := range v {
		out[k] = val
	}
	if s, ok := value.(string); ok && s == "" {
		delete(out, name)
		return out
	}
	out[name] = normalizeValue(value)
	return out
}

func normalize(values FieldValues) FieldValues {
	out := make(FieldValues, len(values))
	for k, v := range values {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out
	case []*string:
		out := make([]any, len(t))
		for i, s := range t {
			if s != nil {
				out[i] = *s
			}
		}
		return out
	case []any:
		return append([]any(nil), t...)
	default:
		return v
	}
}

// isAbsent is true for values that count as "not set".
func isAbsent(v any) bool {
	switch t := v.(type) {
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	default:
		return false
	}
}

// singleValue returns the text of a single-valued field. Lists panic.
func singleValue(field string, v any) string {
	switch t := v.(type) {
	case []any, []string:
		panic(&MultiValueError{Field: field})
	case nil:
		return ""
	default:
		return stringify(t)
	}
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	case []string:
		return strings.Join(t, ",")
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			if e != nil {
				parts[i] = stringify(e)
			}
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(t)
	}
}

var accessionSeparators = regexp.MustCompile(`[\t,;\n ]`)

// TextAccessionsToList splits free text into accessions, dropping any
// ".<version>" suffix. Duplicates are kept.
func TextAccessionsToList(text string) []string {
	var out []string
	for _, part := range accessionSeparators.Split(text, -1) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if i := strings.Index(part, "."); i >= 0 {
			part = part[:i]
		}
		out = append(out, part)
	}
	return out
}

// CaseInsensitiveSubstringRegex builds the LAPIS regex for a literal
// substring match on one or more values.
func CaseInsensitiveSubstringRegex(values ...string) string {
	if len(values) == 1 {
		return "(?i)" + regexp.QuoteMeta(values[0])
	}
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = regexp.QuoteMeta(v)
	}
	return "(?i)(?:" + strings.Join(quoted, "|") + ")"
}

func formatTimestamp(v any) string {
	s := stringify(v)
	secs, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	return time.Unix(int64(secs), 0).UTC().Format("2006-01-02")
}
