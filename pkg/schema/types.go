package schema

type FieldType string

const (
	TypeString    FieldType = "string"
	TypeInt       FieldType = "int"
	TypeFloat     FieldType = "float"
	TypeBoolean   FieldType = "boolean"
	TypeDate      FieldType = "date"
	TypeTimestamp FieldType = "timestamp"
	TypeAuthors   FieldType = "authors"
)

func (t FieldType) Valid() bool {
	switch t {
	case TypeString, TypeInt, TypeFloat, TypeBoolean, TypeDate, TypeTimestamp, TypeAuthors:
		return true
	default:
		return false
	}
}

// RangeOverlapSearch joins two separate fields (lower and upper bound of an
// interval) into one searchable range.
type RangeOverlapSearch struct {
	RangeName        string `yaml:"rangeName" json:"rangeName"`
	RangeDisplayName string `yaml:"rangeDisplayName" json:"rangeDisplayName"`
	Bound            string `yaml:"bound" json:"bound"` // "lower" or "upper"
}

// Metadata is one configured metadata field of an organism.
type Metadata struct {
	Name               string              `yaml:"name" json:"name"`
	DisplayName        string              `yaml:"displayName" json:"displayName,omitempty"`
	Type               FieldType           `yaml:"type" json:"type"`
	Header             string              `yaml:"header" json:"header,omitempty"`
	SubstringSearch    bool                `yaml:"substringSearch" json:"substringSearch,omitempty"`
	RangeSearch        bool                `yaml:"rangeSearch" json:"rangeSearch,omitempty"`
	RangeOverlapSearch *RangeOverlapSearch `yaml:"rangeOverlapSearch" json:"rangeOverlapSearch,omitempty"`
	OnlyForReference   string              `yaml:"onlyForReference" json:"onlyForReference,omitempty"`
	RelatesToSegment   string              `yaml:"relatesToSegment" json:"relatesToSegment,omitempty"`
	NotSearchable      bool                `yaml:"notSearchable" json:"notSearchable,omitempty"`
	Hidden             bool                `yaml:"hidden" json:"hidden,omitempty"`
}

// MetadataFilter is one physical filter after range expansion.
type MetadataFilter struct {
	Metadata
	FieldGroup            string `json:"fieldGroup,omitempty"`
	FieldGroupDisplayName string `json:"fieldGroupDisplayName,omitempty"`
}

func (f MetadataFilter) label() string {
	if f.DisplayName != "" {
		return f.DisplayName
	}
	return f.Name
}

// GroupedMetadataFilter stands for the members of one field group.
type GroupedMetadataFilter struct {
	Name        string           `json:"name"`
	DisplayName string           `json:"displayName"`
	Header      string           `json:"header,omitempty"`
	Grouped     []MetadataFilter `json:"groupedFields"`
}

// FilterEntry is either a single filter or a grouped one.
type FilterEntry struct {
	Filter *MetadataFilter        `json:"filter,omitempty"`
	Group  *GroupedMetadataFilter `json:"group,omitempty"`
}

func (e FilterEntry) Name() string {
	if e.Group != nil {
		return e.Group.Name
	}
	return e.Filter.Name
}
