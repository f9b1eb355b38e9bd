package reference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func singleSegment() GenomesInfo {
	return GenomesInfo{Segments: []Segment{
		{Name: "main", References: []Reference{{Name: "ref", Genes: []Gene{{Name: "gene1"}, {Name: "gene2"}}}}},
	}}
}

func multiReference() GenomesInfo {
	return GenomesInfo{Segments: []Segment{
		{Name: "main", References: []Reference{
			{Name: "suborganism1", Genes: []Gene{{Name: "gene1"}, {Name: "gene2"}}},
			{Name: "suborganism2", Genes: []Gene{{Name: "gene3"}}},
		}},
	}}
}

func multiSegment() GenomesInfo {
	return GenomesInfo{Segments: []Segment{
		{Name: "L", References: []Reference{{Name: "ref", Genes: []Gene{{Name: "RdRp"}}}}},
		{Name: "S", References: []Reference{{Name: "ref", Genes: []Gene{{Name: "NP"}}}}},
	}}
}

func TestLapisNamesSingleReference(t *testing.T) {
	g := singleSegment()
	assert.False(t, g.UseLapisMultiSegmentedEndpoint())

	seg, ok := g.ResolveSegment(nil, "main")
	require.True(t, ok)
	assert.Equal(t, "main", seg.LapisName)

	gene, ok := g.ResolveGene(nil, "GENE2")
	require.True(t, ok)
	assert.Equal(t, SequenceName{Name: "gene2", LapisName: "gene2"}, gene)
}

func TestLapisNamesMultiReference(t *testing.T) {
	g := multiReference()
	assert.True(t, g.IsMultiReference())
	assert.True(t, g.UseLapisMultiSegmentedEndpoint())

	_, ok := g.ResolveGene(nil, "gene2")
	assert.False(t, ok, "no reference selected")

	sel := g.SelectAll("suborganism1")
	gene, ok := g.ResolveGene(sel, "gene2")
	require.True(t, ok)
	assert.Equal(t, "suborganism1-gene2", gene.LapisName)

	seg, ok := g.ResolveSegment(sel, "main")
	require.True(t, ok)
	assert.Equal(t, "suborganism1", seg.LapisName)

	_, ok = g.ResolveGene(sel, "gene3")
	assert.False(t, ok)
}

func TestSegmentAndGeneInfoPerSegment(t *testing.T) {
	contexts := multiSegment().SegmentAndGeneInfo(nil)
	require.Len(t, contexts, 2)
	assert.Equal(t, []SequenceName{{Name: "L", LapisName: "L"}}, contexts[0].Segments)
	assert.Equal(t, []SequenceName{{Name: "RdRp", LapisName: "RdRp"}}, contexts[0].Genes)
	assert.Equal(t, []SequenceName{{Name: "NP", LapisName: "NP"}}, contexts[1].Genes)
	assert.True(t, contexts[1].MultiSegmented)
	assert.True(t, contexts[1].UseLapisMultiSegmentedEndpoint)
}

func TestSegmentAndGeneInfoSkipsUnselectedReference(t *testing.T) {
	assert.Empty(t, multiReference().SegmentAndGeneInfo(Selection{}))
	assert.Len(t, multiReference().SegmentAndGeneInfo(Selection{"main": "suborganism2"}), 1)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, multiSegment().Validate())
	assert.Error(t, GenomesInfo{}.Validate())

	dup := GenomesInfo{Segments: []Segment{
		{Name: "main", References: []Reference{{Name: "a"}, {Name: "a"}}},
	}}
	assert.Error(t, dup.Validate())
}

func TestReferenceNames(t *testing.T) {
	assert.Equal(t, []string{"suborganism1", "suborganism2"}, multiReference().ReferenceNames())
	assert.True(t, multiReference().HasReference("suborganism2"))
	assert.False(t, multiReference().HasReference("nope"))
}
