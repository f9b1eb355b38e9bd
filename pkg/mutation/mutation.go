// Parsing of the mutation search box into LAPIS mutation and insertion
// queries. Tokens that do not parse are dropped: users type into the box
// incrementally and a half-written token must not spoil the whole query.

package mutation

import (
	"regexp"
	"strings"

	"github.com/yumyai/seqportal/pkg/reference"
)

type BaseType string

const (
	Nucleotide BaseType = "nucleotide"
	AminoAcid  BaseType = "aminoAcid"
)

type MutationType string

const (
	SubstitutionOrDeletion MutationType = "substitutionOrDeletion"
	Insertion              MutationType = "insertion"
)

// Query is one parsed token.
type Query struct {
	BaseType     BaseType     `json:"baseType"`
	MutationType MutationType `json:"mutationType"`
	Text         string       `json:"text"`
	LapisQuery   string       `json:"lapisQuery"`
}

// LAPIS parameter names, one per bucket.
const (
	NucleotideMutationsParam  = "nucleotideMutations"
	AminoAcidMutationsParam   = "aminoAcidMutations"
	NucleotideInsertionsParam = "nucleotideInsertions"
	AminoAcidInsertionsParam  = "aminoAcidInsertions"
)

// ParamNames lists the four bucket parameters in a fixed order.
var ParamNames = []string{
	NucleotideMutationsParam,
	AminoAcidMutationsParam,
	NucleotideInsertionsParam,
	AminoAcidInsertionsParam,
}

var (
	nucleotideMutationRe          = regexp.MustCompile(`(?i)^[A-Z]?\d+([A-Z]|-|\.)?$`)
	qualifiedNucleotideMutationRe = regexp.MustCompile(`(?i)^([^:\s]+):([A-Z]?\d+([A-Z]|-|\.)?)$`)
	aminoAcidMutationRe           = regexp.MustCompile(`(?i)^([^:\s]+):([A-Z*]?\d+([A-Z]|-|\*|\.)?)$`)
	nucleotideInsertionRe         = regexp.MustCompile(`(?i)^INS_(\d+):([A-Z?]+)$`)
	qualifiedNucleotideInsertRe   = regexp.MustCompile(`(?i)^INS_([^:\s]+):(\d+):([A-Z?]+)$`)
	aminoAcidInsertionRe          = regexp.MustCompile(`(?i)^INS_([^:\s]+):(\d+):([A-Z*?]+)$`)
)

// Parse splits text on commas and parses every token against ctx, keeping
// input order and dropping tokens that do not parse.
func Parse(text string, ctx reference.SegmentAndGeneInfo) []Query {
	var queries []Query
	for _, token := range strings.Split(text, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if q, ok := ParseOne(token, ctx); ok {
			queries = append(queries, q)
		}
	}
	return queries
}

// ParseAcrossSegments runs Parse once per segment context and concatenates
// the results, so every token only resolves against its own segment's genes.
func ParseAcrossSegments(text string, contexts []reference.SegmentAndGeneInfo) []Query {
	var queries []Query
	for _, ctx := range contexts {
		queries = append(queries, Parse(text, ctx)...)
	}
	return queries
}

// ParseOne tries each token shape in a fixed order and returns the first
// that parses.
func ParseOne(token string, ctx reference.SegmentAndGeneInfo) (Query, bool) {
	parsers := []func(string, reference.SegmentAndGeneInfo) (Query, bool){
		parseNucleotideMutation,
		parseAminoAcidMutation,
		parseNucleotideInsertion,
		parseAminoAcidInsertion,
	}
	for _, parse := range parsers {
		if q, ok := parse(token, ctx); ok {
			return q, true
		}
	}
	return Query{}, false
}

func findSegment(ctx reference.SegmentAndGeneInfo, name string) (reference.SequenceName, bool) {
	for _, s := range ctx.Segments {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return reference.SequenceName{}, false
}

func findGene(ctx reference.SegmentAndGeneInfo, name string) (reference.SequenceName, bool) {
	for _, g := range ctx.Genes {
		if strings.EqualFold(g.Name, name) {
			return g, true
		}
	}
	return reference.SequenceName{}, false
}

// implicitSegment is the segment an unqualified nucleotide token refers to.
func implicitSegment(ctx reference.SegmentAndGeneInfo) (reference.SequenceName, bool) {
	if ctx.MultiSegmented || len(ctx.Segments) != 1 {
		return reference.SequenceName{}, false
	}
	return ctx.Segments[0], true
}

func parseNucleotideMutation(token string, ctx reference.SegmentAndGeneInfo) (Query, bool) {
	q := Query{BaseType: Nucleotide, MutationType: SubstitutionOrDeletion, Text: token}

	if nucleotideMutationRe.MatchString(token) {
		segment, ok := implicitSegment(ctx)
		if !ok {
			return Query{}, false
		}
		q.LapisQuery = token
		if ctx.UseLapisMultiSegmentedEndpoint {
			q.LapisQuery = segment.LapisName + ":" + token
		}
		return q, true
	}

	if !ctx.UseLapisMultiSegmentedEndpoint {
		return Query{}, false
	}
	m := qualifiedNucleotideMutationRe.FindStringSubmatch(token)
	if m == nil {
		return Query{}, false
	}
	segment, ok := findSegment(ctx, m[1])
	if !ok {
		return Query{}, false
	}
	q.LapisQuery = segment.LapisName + ":" + m[2]
	return q, true
}

func parseAminoAcidMutation(token string, ctx reference.SegmentAndGeneInfo) (Query, bool) {
	m := aminoAcidMutationRe.FindStringSubmatch(token)
	if m == nil {
		return Query{}, false
	}
	gene, ok := findGene(ctx, m[1])
	if !ok {
		return Query{}, false
	}
	return Query{
		BaseType:     AminoAcid,
		MutationType: SubstitutionOrDeletion,
		Text:         token,
		LapisQuery:   gene.LapisName + ":" + m[2],
	}, true
}

func parseNucleotideInsertion(token string, ctx reference.SegmentAndGeneInfo) (Query, bool) {
	q := Query{BaseType: Nucleotide, MutationType: Insertion, Text: token}

	if m := nucleotideInsertionRe.FindStringSubmatch(token); m != nil {
		segment, ok := implicitSegment(ctx)
		if !ok {
			return Query{}, false
		}
		q.LapisQuery = token
		if ctx.UseLapisMultiSegmentedEndpoint {
			q.LapisQuery = "ins_" + segment.LapisName + ":" + m[1] + ":" + m[2]
		}
		return q, true
	}

	if !ctx.UseLapisMultiSegmentedEndpoint {
		return Query{}, false
	}
	m := qualifiedNucleotideInsertRe.FindStringSubmatch(token)
	if m == nil {
		return Query{}, false
	}
	segment, ok := findSegment(ctx, m[1])
	if !ok {
		return Query{}, false
	}
	q.LapisQuery = "ins_" + segment.LapisName + ":" + m[2] + ":" + m[3]
	return q, true
}

func parseAminoAcidInsertion(token string, ctx reference.SegmentAndGeneInfo) (Query, bool) {
	m := aminoAcidInsertionRe.FindStringSubmatch(token)
	if m == nil {
		return Query{}, false
	}
	gene, ok := findGene(ctx, m[1])
	if !ok {
		return Query{}, false
	}
	return Query{
		BaseType:     AminoAcid,
		MutationType: Insertion,
		Text:         token,
		LapisQuery:   "ins_" + gene.LapisName + ":" + m[2] + ":" + m[3],
	}, true
}
