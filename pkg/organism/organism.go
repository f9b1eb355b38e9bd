// Per-organism configuration: metadata schema, reference genomes and the
// LAPIS instance that serves the organism's data.

package organism

import (
	"fmt"
	"net/url"

	"github.com/yumyai/seqportal/pkg/download"
	"github.com/yumyai/seqportal/pkg/filter"
	"github.com/yumyai/seqportal/pkg/reference"
	"github.com/yumyai/seqportal/pkg/schema"
)

// Config is one organism entry of the YAML registry.
type Config struct {
	DisplayName              string                `yaml:"displayName"`
	LapisURL                 string                `yaml:"lapisUrl"`
	DataUseTermsEnabled      bool                  `yaml:"dataUseTermsEnabled"`
	ReferenceIdentifierField string                `yaml:"referenceIdentifierField"`
	RichFastaHeaderTemplate  string                `yaml:"richFastaHeaderTemplate"`
	Metadata                 []schema.Metadata     `yaml:"metadata"`
	ReferenceGenomes         reference.GenomesInfo `yaml:"referenceGenomes"`
}

type Organism struct {
	Key    string
	Config Config
	schema *schema.MetadataFilterSchema
}

// New validates c and builds the organism's filter schema.
func New(key string, c Config) (*Organism, error) {
	if c.DisplayName == "" {
		c.DisplayName = key
	}
	if err := validate(key, c); err != nil {
		return nil, err
	}
	s, err := schema.NewMetadataFilterSchema(c.Metadata)
	if err != nil {
		return nil, fmt.Errorf("organism '%s': %w", key, err)
	}
	return &Organism{Key: key, Config: c, schema: s}, nil
}

func validate(key string, c Config) error {
	u, err := url.Parse(c.LapisURL)
	if c.LapisURL == "" || err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &InvalidOrganismError{Organism: key, Reason: fmt.Sprintf("bad lapisUrl '%s'", c.LapisURL)}
	}
	if err := c.ReferenceGenomes.Validate(); err != nil {
		return &InvalidOrganismError{Organism: key, Reason: err.Error()}
	}

	fields := make(map[string]bool, len(c.Metadata))
	segments := map[string]bool{}
	for _, s := range c.ReferenceGenomes.Segments {
		segments[s.Name] = true
	}
	for _, m := range c.Metadata {
		fields[m.Name] = true
		if !m.Type.Valid() {
			return &InvalidOrganismError{Organism: key, Reason: fmt.Sprintf("field '%s' has unknown type '%s'", m.Name, m.Type)}
		}
		if m.OnlyForReference != "" && !c.ReferenceGenomes.HasReference(m.OnlyForReference) {
			return &UnknownReferenceError{Organism: key, Field: m.Name, Reference: m.OnlyForReference}
		}
		if m.RelatesToSegment != "" && !segments[m.RelatesToSegment] {
			return &InvalidOrganismError{Organism: key, Reason: fmt.Sprintf("field '%s' relates to unknown segment '%s'", m.Name, m.RelatesToSegment)}
		}
	}

	if c.ReferenceGenomes.IsMultiReference() {
		if c.ReferenceIdentifierField == "" || !fields[c.ReferenceIdentifierField] {
			return &MissingReferenceFieldError{Organism: key, Field: c.ReferenceIdentifierField}
		}
	}
	return nil
}

func (o *Organism) DisplayName() string {
	return o.Config.DisplayName
}

func (o *Organism) Schema() *schema.MetadataFilterSchema {
	return o.schema
}

func (o *Organism) References() filter.References {
	refs := filter.References{Genomes: o.Config.ReferenceGenomes}
	if o.Config.ReferenceGenomes.IsMultiReference() {
		refs.IdentifierField = o.Config.ReferenceIdentifierField
	}
	return refs
}

// HiddenFieldValues are applied to every field filter of the organism but
// never shown to the user.
func (o *Organism) HiddenFieldValues() filter.FieldValues {
	return filter.FieldValues{
		download.VersionStatusField: download.LatestVersion,
		download.IsRevocationField:  "false",
	}
}

func (o *Organism) NewFieldFilter(values filter.FieldValues) *filter.FieldFilter {
	return filter.NewFieldFilter(o.schema, values, o.HiddenFieldValues(), o.References())
}

func (o *Organism) DownloadGenerator() *download.Generator {
	g := o.Config.ReferenceGenomes
	return download.NewGenerator(
		o.Config.DisplayName,
		o.Config.LapisURL,
		o.Config.DataUseTermsEnabled,
		g.UseLapisMultiSegmentedEndpoint(),
	).WithFastaHeaderTemplate(o.Config.RichFastaHeaderTemplate)
}

// SelectedReference is the reference chosen by values, or "" when none is.
func (o *Organism) SelectedReference(values filter.FieldValues) string {
	field := o.References().IdentifierField
	if field == "" {
		return ""
	}
	s, _ := values[field].(string)
	if !o.Config.ReferenceGenomes.HasReference(s) {
		return ""
	}
	return s
}

// WithReference sets the reference identifier field of values to ref, so
// that explicit selections can name the reference their sequences use. An
// empty ref returns values unchanged. A ref that contradicts the reference
// already chosen by values is an error.
func (o *Organism) WithReference(values filter.FieldValues, ref string) (filter.FieldValues, error) {
	if ref == "" {
		return values, nil
	}
	if !o.Config.ReferenceGenomes.HasReference(ref) {
		return nil, fmt.Errorf("organism '%s' has no reference '%s'", o.Key, ref)
	}
	field := o.References().IdentifierField
	if field == "" {
		return values, nil
	}
	if selected := o.SelectedReference(values); selected != "" && selected != ref {
		return nil, fmt.Errorf("reference '%s' conflicts with %s '%s'", ref, field, selected)
	}
	return values.With(field, ref), nil
}

// VisibleFilters lists the filters that apply under the selected reference.
func (o *Organism) VisibleFilters(values filter.FieldValues) []schema.MetadataFilter {
	return o.schema.FiltersForReference(o.SelectedReference(values))
}

// SequenceNames resolves the segment and gene a sequence download names.
// Empty names resolve to nil.
func (o *Organism) SequenceNames(values filter.FieldValues, segment, gene string) (*reference.SequenceName, *reference.SequenceName, error) {
	sel := o.References().Selection(values)
	g := o.Config.ReferenceGenomes

	var seg, gn *reference.SequenceName
	if segment != "" {
		s, ok := g.ResolveSegment(sel, segment)
		if !ok {
			return nil, nil, fmt.Errorf("unknown segment '%s' for the selected reference", segment)
		}
		seg = &s
	} else if !g.IsMultiSegmented() && g.UseLapisMultiSegmentedEndpoint() {
		if s, ok := g.ResolveSegment(sel, g.Segments[0].Name); ok {
			seg = &s
		}
	}
	if gene != "" {
		s, ok := g.ResolveGene(sel, gene)
		if !ok {
			return nil, nil, fmt.Errorf("unknown gene '%s' for the selected reference", gene)
		}
		gn = &s
	}
	return seg, gn, nil
}
