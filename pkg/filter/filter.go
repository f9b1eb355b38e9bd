// Sequence filters: the value object describing which sequence entries are
// currently selected, and its encodings for LAPIS, shareable URLs and the
// filter chips shown in the UI.

package filter

// Well-known parameter and field names.
const (
	AccessionField        = "accession"
	AccessionVersionField = "accessionVersion"
	MutationField         = "mutation"
	RegexSuffix           = ".regex"
)

// ApiParams is the LAPIS request body. Values are string, []string, a
// number, nil or []any.
type ApiParams map[string]any

// UrlParam is one key/value pair of a query string.
type UrlParam struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// DisplayString is one filter chip. Value is nil, a string or []*string.
type DisplayString struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value any    `json:"value"`
}

// SequenceFilter is implemented by FieldFilter and SequenceEntrySelection.
type SequenceFilter interface {
	IsEmpty() bool
	// SequenceCount is only known when the filter lists its entries.
	SequenceCount() (int, bool)
	ToApiParams() ApiParams
	ToUrlSearchParams() []UrlParam
	ToDisplayStrings() []DisplayString
}
