package filter

import (
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const SelectedSequencesKey = "selectedSequences"

var countPrinter = message.NewPrinter(language.English)

// SequenceEntrySelection selects exactly the listed accession versions.
// Callers own the mutable set and build a new selection on every change.
type SequenceEntrySelection struct {
	ids []string
}

func NewSequenceEntrySelection(accessionVersions []string) *SequenceEntrySelection {
	set := make(map[string]struct{}, len(accessionVersions))
	for _, id := range accessionVersions {
		set[id] = struct{}{}
	}
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return &SequenceEntrySelection{ids: ids}
}

// AccessionVersions returns the sorted ids.
func (s *SequenceEntrySelection) AccessionVersions() []string {
	return append([]string(nil), s.ids...)
}

func (s *SequenceEntrySelection) IsEmpty() bool {
	return len(s.ids) == 0
}

func (s *SequenceEntrySelection) SequenceCount() (int, bool) {
	return len(s.ids), true
}

func (s *SequenceEntrySelection) ToApiParams() ApiParams {
	return ApiParams{AccessionVersionField: s.AccessionVersions()}
}

func (s *SequenceEntrySelection) ToUrlSearchParams() []UrlParam {
	out := make([]UrlParam, len(s.ids))
	for i, id := range s.ids {
		out[i] = UrlParam{Key: AccessionVersionField, Value: id}
	}
	return out
}

func (s *SequenceEntrySelection) ToDisplayStrings() []DisplayString {
	switch n := len(s.ids); {
	case n == 0:
		return nil
	case n == 1:
		return []DisplayString{{Key: SelectedSequencesKey, Label: "single sequence", Value: s.ids[0]}}
	case n == 2:
		return []DisplayString{{Key: SelectedSequencesKey, Label: "sequences selected", Value: strings.Join(s.ids, ", ")}}
	default:
		return []DisplayString{{Key: SelectedSequencesKey, Label: "sequences selected", Value: countPrinter.Sprintf("%d", n)}}
	}
}
