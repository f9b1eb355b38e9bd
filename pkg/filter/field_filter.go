package filter

import (
	"sort"
	"strings"

	"github.com/yumyai/seqportal/pkg/mutation"
	"github.com/yumyai/seqportal/pkg/reference"
	"github.com/yumyai/seqportal/pkg/schema"
)

const (
	maxDisplayLength  = 40
	truncatedLength   = 37
	truncationEllipse = "..."
)

// References carries what a field filter needs to resolve mutation queries.
type References struct {
	Genomes reference.GenomesInfo
	// IdentifierField holds the selected reference of multi-reference
	// organisms. Empty for single-reference organisms.
	IdentifierField string
}

// Selection derives the per-segment reference choice from field values.
func (r References) Selection(values FieldValues) reference.Selection {
	if r.IdentifierField == "" {
		return reference.Selection{}
	}
	v, ok := values[r.IdentifierField]
	if !ok {
		return reference.Selection{}
	}
	return r.Genomes.SelectAll(singleValue(r.IdentifierField, v))
}

// FieldFilter selects the entries matching a set of field constraints.
type FieldFilter struct {
	schema     *schema.MetadataFilterSchema
	values     FieldValues
	hidden     FieldValues
	references References
}

type param struct {
	key   string
	value any
}

// NewFieldFilter copies its inputs; the filter never changes afterwards.
func NewFieldFilter(s *schema.MetadataFilterSchema, values, hidden FieldValues, refs References) *FieldFilter {
	return &FieldFilter{
		schema:     s,
		values:     normalize(values),
		hidden:     normalize(hidden),
		references: refs,
	}
}

// FieldValues returns a copy of the explicit values.
func (f *FieldFilter) FieldValues() FieldValues {
	return normalize(f.values)
}

// With returns a new filter with one explicit value replaced.
func (f *FieldFilter) With(name string, value any) *FieldFilter {
	return &FieldFilter{
		schema:     f.schema,
		values:     f.values.With(name, value),
		hidden:     f.hidden,
		references: f.references,
	}
}

// WithoutHidden returns a new filter that drops the named hidden values.
// Explicit values are kept.
func (f *FieldFilter) WithoutHidden(names ...string) *FieldFilter {
	hidden := normalize(f.hidden)
	for _, name := range names {
		delete(hidden, name)
	}
	return &FieldFilter{
		schema:     f.schema,
		values:     f.values,
		hidden:     hidden,
		references: f.references,
	}
}

func (f *FieldFilter) merged() FieldValues {
	out := make(FieldValues, len(f.values)+len(f.hidden))
	for k, v := range f.hidden {
		out[k] = v
	}
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

// orderedKeys is schema order first, then any other keys sorted.
func (f *FieldFilter) orderedKeys(values FieldValues) []string {
	keys := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, name := range f.schema.FieldNames() {
		if _, ok := values[name]; ok {
			keys = append(keys, name)
			seen[name] = true
		}
	}
	var rest []string
	for k := range values {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

// SequenceCount is unknown: it depends on the remote dataset.
func (f *FieldFilter) SequenceCount() (int, bool) {
	return 0, false
}

func (f *FieldFilter) IsEmpty() bool {
	return len(f.ToDisplayStrings()) == 0
}

// MutationQueries parses the mutation field against every segment whose
// reference is known.
func (f *FieldFilter) MutationQueries() []mutation.Query {
	merged := f.merged()
	raw, ok := merged[MutationField]
	if !ok || isAbsent(raw) {
		return nil
	}
	text := singleValue(MutationField, raw)
	contexts := f.references.Genomes.SegmentAndGeneInfo(f.references.Selection(merged))
	return mutation.ParseAcrossSegments(text, contexts)
}

func (f *FieldFilter) apiParams() []param {
	merged := f.merged()
	var params []param

	for _, key := range f.orderedKeys(merged) {
		value := merged[key]
		if isAbsent(value) || key == MutationField {
			continue
		}

		switch {
		case key == AccessionField:
			accessions := TextAccessionsToList(singleValue(key, value))
			if len(accessions) > 0 {
				params = append(params, param{key, accessions})
			}
		case f.schema.IsSubstringSearchEnabled(key) && value != nil:
			params = append(params, param{key + RegexSuffix, substringRegex(value)})
		default:
			params = append(params, param{key, value})
		}
	}

	search := mutation.ToSearchParams(f.MutationQueries())
	for _, name := range mutation.ParamNames {
		if values := search.Get(name); len(values) > 0 {
			params = append(params, param{name, values})
		}
	}
	return params
}

func substringRegex(value any) string {
	list, ok := value.([]any)
	if !ok {
		return CaseInsensitiveSubstringRegex(stringify(value))
	}
	parts := make([]string, 0, len(list))
	for _, e := range list {
		if e != nil {
			parts = append(parts, stringify(e))
		}
	}
	return CaseInsensitiveSubstringRegex(parts...)
}

func (f *FieldFilter) ToApiParams() ApiParams {
	out := ApiParams{}
	for _, p := range f.apiParams() {
		out[p.key] = p.value
	}
	return out
}

func repeatsKey(key string) bool {
	return key == AccessionField || mutation.IsParam(key)
}

func (f *FieldFilter) ToUrlSearchParams() []UrlParam {
	var out []UrlParam
	for _, p := range f.apiParams() {
		if list, ok := p.value.([]string); ok && repeatsKey(p.key) {
			for _, v := range list {
				out = append(out, UrlParam{Key: p.key, Value: v})
			}
			continue
		}
		s := strings.TrimSpace(stringify(p.value))
		if s == "" {
			continue
		}
		out = append(out, UrlParam{Key: p.key, Value: s})
	}
	return out
}

func (f *FieldFilter) ToDisplayStrings() []DisplayString {
	var out []DisplayString
	for _, key := range f.orderedKeys(f.values) {
		value := f.values[key]
		if isAbsent(value) {
			continue
		}
		if hv, ok := f.hidden[key]; ok && stringify(hv) == stringify(value) {
			continue
		}
		out = append(out, DisplayString{
			Key:   key,
			Label: f.schema.Label(key),
			Value: f.displayValue(key, value),
		})
	}
	return out
}

func (f *FieldFilter) displayValue(key string, value any) any {
	if value == nil {
		return nil
	}
	if list, ok := value.([]any); ok {
		out := make([]*string, len(list))
		for i, e := range list {
			if e == nil {
				continue
			}
			s := f.displayScalar(key, e)
			out[i] = &s
		}
		return out
	}
	return f.displayScalar(key, value)
}

func (f *FieldFilter) displayScalar(key string, value any) string {
	var s string
	if typ, _ := f.schema.Type(key); typ == schema.TypeTimestamp {
		s = formatTimestamp(value)
	} else {
		s = stringify(value)
	}
	if r := []rune(s); len(r) > maxDisplayLength {
		s = string(r[:truncatedLength]) + truncationEllipse
	}
	return s
}
