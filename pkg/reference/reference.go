// Segment, gene and reference topology of an organism, and the lapis names
// derived from it.

package reference

import (
	"fmt"
	"sort"
	"strings"
)

// Gene belongs to one reference of one segment.
type Gene struct {
	Name string `yaml:"name" json:"name"`
}

// Reference is a named reference sequence for a segment.
type Reference struct {
	Name  string `yaml:"name" json:"name"`
	Genes []Gene `yaml:"genes" json:"genes"`
}

// Segment is one nucleotide molecule of the genome.
type Segment struct {
	Name       string      `yaml:"name" json:"name"`
	References []Reference `yaml:"references" json:"references"`
}

// GenomesInfo describes all segments of an organism in configured order.
type GenomesInfo struct {
	Segments []Segment `yaml:"segments" json:"segments"`
}

// SequenceName pairs the organism-facing name with the name LAPIS knows.
type SequenceName struct {
	Name      string `json:"name"`
	LapisName string `json:"lapisName"`
}

// SegmentAndGeneInfo is the parser context for mutation queries.
type SegmentAndGeneInfo struct {
	Segments []SequenceName
	Genes    []SequenceName
	// MultiSegmented requires nucleotide tokens to name their segment.
	MultiSegmented bool
	// UseLapisMultiSegmentedEndpoint makes nucleotide queries segment-qualified.
	UseLapisMultiSegmentedEndpoint bool
}

// Selection maps segment name to the selected reference name.
type Selection map[string]string

func (g GenomesInfo) IsMultiSegmented() bool {
	return len(g.Segments) > 1
}

func (g GenomesInfo) IsMultiReference() bool {
	for _, s := range g.Segments {
		if len(s.References) > 1 {
			return true
		}
	}
	return false
}

func (g GenomesInfo) UseLapisMultiSegmentedEndpoint() bool {
	return g.IsMultiSegmented() || g.IsMultiReference()
}

// ReferenceNames returns every distinct reference name, sorted.
func (g GenomesInfo) ReferenceNames() []string {
	seen := map[string]bool{}
	for _, s := range g.Segments {
		for _, r := range s.References {
			seen[r.Name] = true
		}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// HasReference reports whether any segment has a reference with this name.
func (g GenomesInfo) HasReference(name string) bool {
	for _, s := range g.Segments {
		for _, r := range s.References {
			if r.Name == name {
				return true
			}
		}
	}
	return false
}

// Validate checks the topology once at configuration load.
func (g GenomesInfo) Validate() error {
	if len(g.Segments) == 0 {
		return fmt.Errorf("no segments configured")
	}
	segments := map[string]bool{}
	for _, s := range g.Segments {
		if s.Name == "" {
			return fmt.Errorf("segment without a name")
		}
		if segments[s.Name] {
			return fmt.Errorf("duplicate segment %q", s.Name)
		}
		segments[s.Name] = true
		if len(s.References) == 0 {
			return fmt.Errorf("segment %q has no references", s.Name)
		}
		refs := map[string]bool{}
		for _, r := range s.References {
			if refs[r.Name] {
				return fmt.Errorf("duplicate reference %q in segment %q", r.Name, s.Name)
			}
			refs[r.Name] = true
		}
	}
	return nil
}

// SelectAll picks the same reference for every segment that has it. Segments
// with a single reference need no selection.
func (g GenomesInfo) SelectAll(referenceName string) Selection {
	sel := Selection{}
	if referenceName == "" {
		return sel
	}
	for _, s := range g.Segments {
		for _, r := range s.References {
			if r.Name == referenceName {
				sel[s.Name] = referenceName
			}
		}
	}
	return sel
}

// resolveReference returns the effective reference of a segment, or false
// when a multi-reference segment has nothing selected.
func (g GenomesInfo) resolveReference(seg Segment, sel Selection) (Reference, bool) {
	if len(seg.References) == 1 {
		return seg.References[0], true
	}
	selected, ok := sel[seg.Name]
	if !ok {
		return Reference{}, false
	}
	for _, r := range seg.References {
		if r.Name == selected {
			return r, true
		}
	}
	return Reference{}, false
}

func (g GenomesInfo) segmentLapisName(seg Segment, ref Reference) string {
	if !g.IsMultiReference() {
		return seg.Name
	}
	if g.IsMultiSegmented() {
		return ref.Name + "-" + seg.Name
	}
	return ref.Name
}

func (g GenomesInfo) geneLapisName(gene Gene, ref Reference) string {
	if !g.IsMultiReference() {
		return gene.Name
	}
	return ref.Name + "-" + gene.Name
}

// SegmentAndGeneInfo returns one parser context per segment whose reference
// resolves, each restricted to that segment and its genes.
func (g GenomesInfo) SegmentAndGeneInfo(sel Selection) []SegmentAndGeneInfo {
	contexts := make([]SegmentAndGeneInfo, 0, len(g.Segments))
	for _, seg := range g.Segments {
		ref, ok := g.resolveReference(seg, sel)
		if !ok {
			continue
		}
		info := SegmentAndGeneInfo{
			Segments:                       []SequenceName{{Name: seg.Name, LapisName: g.segmentLapisName(seg, ref)}},
			Genes:                          make([]SequenceName, 0, len(ref.Genes)),
			MultiSegmented:                 g.IsMultiSegmented(),
			UseLapisMultiSegmentedEndpoint: g.UseLapisMultiSegmentedEndpoint(),
		}
		for _, gene := range ref.Genes {
			info.Genes = append(info.Genes, SequenceName{Name: gene.Name, LapisName: g.geneLapisName(gene, ref)})
		}
		contexts = append(contexts, info)
	}
	return contexts
}

// ResolveSegment maps a segment name under the selection to its lapis name.
func (g GenomesInfo) ResolveSegment(sel Selection, name string) (SequenceName, bool) {
	for _, seg := range g.Segments {
		if !strings.EqualFold(seg.Name, name) {
			continue
		}
		ref, ok := g.resolveReference(seg, sel)
		if !ok {
			return SequenceName{}, false
		}
		return SequenceName{Name: seg.Name, LapisName: g.segmentLapisName(seg, ref)}, true
	}
	return SequenceName{}, false
}

// ResolveGene maps a gene name under the selection to its lapis name.
func (g GenomesInfo) ResolveGene(sel Selection, name string) (SequenceName, bool) {
	for _, seg := range g.Segments {
		ref, ok := g.resolveReference(seg, sel)
		if !ok {
			continue
		}
		for _, gene := range ref.Genes {
			if strings.EqualFold(gene.Name, name) {
				return SequenceName{Name: gene.Name, LapisName: g.geneLapisName(gene, ref)}, true
			}
		}
	}
	return SequenceName{}, false
}
