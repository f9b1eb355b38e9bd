// Read-only view of an organism's searchable metadata fields.

package schema

import (
	"fmt"
)

const (
	fromSuffix = "From"
	toSuffix   = "To"
)

// DuplicateFieldError is returned when two physical filters share a name.
type DuplicateFieldError struct {
	Name string
}

func (e *DuplicateFieldError) Error() string {
	return fmt.Sprintf("filter field '%s' is defined more than once", e.Name)
}

// MetadataFilterSchema is built once per organism and never changes.
type MetadataFilterSchema struct {
	entries   []FilterEntry
	ungrouped []MetadataFilter
	byName    map[string]int
}

// NewMetadataFilterSchema expands range fields and consolidates grouped
// filters. Non-searchable fields are left out.
func NewMetadataFilterSchema(metadata []Metadata) (*MetadataFilterSchema, error) {
	var expanded []MetadataFilter
	for _, m := range metadata {
		if m.NotSearchable {
			continue
		}
		expanded = append(expanded, expand(m)...)
	}

	s := &MetadataFilterSchema{
		ungrouped: expanded,
		byName:    make(map[string]int, len(expanded)),
	}
	for i, f := range expanded {
		if _, dup := s.byName[f.Name]; dup {
			return nil, &DuplicateFieldError{Name: f.Name}
		}
		s.byName[f.Name] = i
	}

	groups := map[string]*GroupedMetadataFilter{}
	for i := range expanded {
		f := expanded[i]
		if f.FieldGroup == "" {
			s.entries = append(s.entries, FilterEntry{Filter: &f})
			continue
		}
		if g, ok := groups[f.FieldGroup]; ok {
			g.Grouped = append(g.Grouped, f)
			continue
		}
		g := &GroupedMetadataFilter{
			Name:        f.FieldGroup,
			DisplayName: f.FieldGroupDisplayName,
			Header:      f.Header,
			Grouped:     []MetadataFilter{f},
		}
		groups[f.FieldGroup] = g
		s.entries = append(s.entries, FilterEntry{Group: g})
	}

	for name, g := range groups {
		if len(g.Grouped) < 2 {
			return nil, fmt.Errorf("field group '%s' has a single member", name)
		}
	}

	return s, nil
}

func expand(m Metadata) []MetadataFilter {
	switch {
	case m.RangeOverlapSearch != nil:
		group := m.RangeOverlapSearch.RangeName
		groupDisplay := m.RangeOverlapSearch.RangeDisplayName
		if groupDisplay == "" {
			groupDisplay = group
		}
		return rangePair(m, group, groupDisplay)
	case m.RangeSearch:
		groupDisplay := m.DisplayName
		if groupDisplay == "" {
			groupDisplay = m.Name
		}
		return rangePair(m, m.Name, groupDisplay)
	default:
		return []MetadataFilter{{Metadata: m}}
	}
}

func rangePair(m Metadata, group, groupDisplay string) []MetadataFilter {
	from := m
	from.Name = m.Name + fromSuffix
	from.DisplayName = "From"
	to := m
	to.Name = m.Name + toSuffix
	to.DisplayName = "To"
	return []MetadataFilter{
		{Metadata: from, FieldGroup: group, FieldGroupDisplayName: groupDisplay},
		{Metadata: to, FieldGroup: group, FieldGroupDisplayName: groupDisplay},
	}
}

// Filters returns the grouped view in configuration order.
func (s *MetadataFilterSchema) Filters() []FilterEntry {
	return append([]FilterEntry(nil), s.entries...)
}

// UngroupedFilters returns every physical filter.
func (s *MetadataFilterSchema) UngroupedFilters() []MetadataFilter {
	return append([]MetadataFilter(nil), s.ungrouped...)
}

// FieldNames returns the physical filter names in schema order.
func (s *MetadataFilterSchema) FieldNames() []string {
	names := make([]string, len(s.ungrouped))
	for i, f := range s.ungrouped {
		names[i] = f.Name
	}
	return names
}

func (s *MetadataFilterSchema) lookup(name string) (MetadataFilter, bool) {
	i, ok := s.byName[name]
	if !ok {
		return MetadataFilter{}, false
	}
	return s.ungrouped[i], true
}

func (s *MetadataFilterSchema) Has(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// Label is "<group> - <member>" for group members, otherwise the display
// name, falling back to the raw field name.
func (s *MetadataFilterSchema) Label(name string) string {
	f, ok := s.lookup(name)
	if !ok {
		return name
	}
	if f.FieldGroup != "" {
		return f.FieldGroupDisplayName + " - " + f.label()
	}
	return f.label()
}

func (s *MetadataFilterSchema) Type(name string) (FieldType, bool) {
	f, ok := s.lookup(name)
	if !ok {
		return "", false
	}
	return f.Type, true
}

func (s *MetadataFilterSchema) IsSubstringSearchEnabled(name string) bool {
	f, ok := s.lookup(name)
	return ok && f.SubstringSearch
}

// FiltersForReference drops filters bound to a different reference. With an
// empty reference every reference-bound filter is dropped.
func (s *MetadataFilterSchema) FiltersForReference(reference string) []MetadataFilter {
	out := make([]MetadataFilter, 0, len(s.ungrouped))
	for _, f := range s.ungrouped {
		if f.OnlyForReference != "" && f.OnlyForReference != reference {
			continue
		}
		out = append(out, f)
	}
	return out
}
