package filter

import (
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yumyai/seqportal/pkg/mutation"
	"github.com/yumyai/seqportal/pkg/reference"
	"github.com/yumyai/seqportal/pkg/schema"
)

var (
	_ SequenceFilter = (*FieldFilter)(nil)
	_ SequenceFilter = (*SequenceEntrySelection)(nil)
)

func testSchema(t *testing.T) *schema.MetadataFilterSchema {
	t.Helper()
	s, err := schema.NewMetadataFilterSchema([]schema.Metadata{
		{Name: "accession", DisplayName: "Accession", Type: schema.TypeString},
		{Name: "country", DisplayName: "Country", Type: schema.TypeString, SubstringSearch: true},
		{Name: "host", DisplayName: "Host", Type: schema.TypeString},
		{Name: "releasedAtTimestamp", DisplayName: "Released at", Type: schema.TypeTimestamp, RangeSearch: true},
		{Name: "genotype", DisplayName: "Genotype", Type: schema.TypeString},
	})
	require.NoError(t, err)
	return s
}

var singleReference = References{Genomes: reference.GenomesInfo{Segments: []reference.Segment{
	{Name: "main", References: []reference.Reference{{Name: "ref", Genes: []reference.Gene{{Name: "gene1"}}}}},
}}}

var multiReference = References{
	IdentifierField: "genotype",
	Genomes: reference.GenomesInfo{Segments: []reference.Segment{
		{Name: "main", References: []reference.Reference{
			{Name: "suborganism1", Genes: []reference.Gene{{Name: "gene1"}}},
			{Name: "suborganism2", Genes: []reference.Gene{{Name: "gene2"}}},
		}},
	}},
}

var hiddenDefaults = FieldValues{"versionStatus": "LATEST_VERSION", "isRevocation": "false"}

func TestAccessionNormalization(t *testing.T) {
	f := NewFieldFilter(testSchema(t), FieldValues{"accession": "ID.3, OTHER\tTHIRD.1;ID.3\nLAST  "}, nil, singleReference)
	assert.Equal(t, []string{"ID", "OTHER", "THIRD", "ID", "LAST"}, f.ToApiParams()["accession"])

	f = NewFieldFilter(testSchema(t), FieldValues{"accession": "PLAIN"}, nil, singleReference)
	assert.Equal(t, []string{"PLAIN"}, f.ToApiParams()["accession"])

	f = NewFieldFilter(testSchema(t), FieldValues{"accession": " , ;"}, nil, singleReference)
	assert.NotContains(t, f.ToApiParams(), "accession")
}

func TestSubstringSearchEscaping(t *testing.T) {
	v := `a.b*c+d?e^f$g{h}i(j)k|l[m]n\o`
	f := NewFieldFilter(testSchema(t), FieldValues{"country": v}, nil, singleReference)
	params := f.ToApiParams()

	assert.Equal(t, `(?i)a\.b\*c\+d\?e\^f\$g\{h\}i\(j\)k\|l\[m\]n\\o`, params["country.regex"])
	assert.NotContains(t, params, "country")
}

func TestArraySubstringSearch(t *testing.T) {
	f := NewFieldFilter(testSchema(t), FieldValues{"country": []string{"A.B", "C+D"}}, nil, singleReference)
	assert.Equal(t, `(?i)(?:A\.B|C\+D)`, f.ToApiParams()["country.regex"])
}

func TestApiParamsDropsEmptyAndKeepsNull(t *testing.T) {
	f := NewFieldFilter(testSchema(t), FieldValues{
		"host":     "",
		"genotype": nil,
		"country":  []any{},
		"extra":    json.Number("12"),
	}, nil, singleReference)

	params := f.ToApiParams()
	assert.NotContains(t, params, "host")
	assert.NotContains(t, params, "country")
	assert.NotContains(t, params, "country.regex")
	v, ok := params["genotype"]
	assert.True(t, ok)
	assert.Nil(t, v)
	assert.Equal(t, json.Number("12"), params["extra"])
}

func TestHiddenValuesHaveLowerPrecedence(t *testing.T) {
	f := NewFieldFilter(testSchema(t), FieldValues{"versionStatus": "REVISED"}, hiddenDefaults, singleReference)
	params := f.ToApiParams()
	assert.Equal(t, "REVISED", params["versionStatus"])
	assert.Equal(t, "false", params["isRevocation"])

	ds := f.ToDisplayStrings()
	require.Len(t, ds, 1)
	assert.Equal(t, "versionStatus", ds[0].Key)
}

func TestMutationParams(t *testing.T) {
	f := NewFieldFilter(testSchema(t), FieldValues{
		"mutation": "A23T, gene1:K5N, bogus, ins_10:AC, ins_gene1:3:K",
	}, nil, singleReference)
	params := f.ToApiParams()

	assert.NotContains(t, params, "mutation")
	assert.Equal(t, []string{"A23T"}, params[mutation.NucleotideMutationsParam])
	assert.Equal(t, []string{"gene1:K5N"}, params[mutation.AminoAcidMutationsParam])
	assert.Equal(t, []string{"ins_10:AC"}, params[mutation.NucleotideInsertionsParam])
	assert.Equal(t, []string{"ins_gene1:3:K"}, params[mutation.AminoAcidInsertionsParam])
}

func TestMutationParamsFollowSelectedReference(t *testing.T) {
	s := testSchema(t)
	f := NewFieldFilter(s, FieldValues{"mutation": "gene1:K5N, gene2:A1T, 5-"}, nil, multiReference)
	assert.NotContains(t, f.ToApiParams(), mutation.AminoAcidMutationsParam, "no reference selected")

	f = f.With("genotype", "suborganism1")
	params := f.ToApiParams()
	assert.Equal(t, []string{"suborganism1-gene1:K5N"}, params[mutation.AminoAcidMutationsParam])
	assert.Equal(t, []string{"suborganism1:5-"}, params[mutation.NucleotideMutationsParam])
	assert.Equal(t, "suborganism1", params["genotype"])
}

func TestUrlSearchParams(t *testing.T) {
	f := NewFieldFilter(testSchema(t), FieldValues{
		"mutation":  "A23T, C10G",
		"host":      []string{"Homo sapiens", "Bos taurus"},
		"accession": "X.1 Y",
		"genotype":  "  ",
		"country":   "Swi",
	}, hiddenDefaults, singleReference)

	assert.Equal(t, []UrlParam{
		{"accession", "X"},
		{"accession", "Y"},
		{"country.regex", "(?i)Swi"},
		{"host", "Homo sapiens,Bos taurus"},
		{"isRevocation", "false"},
		{"versionStatus", "LATEST_VERSION"},
		{"nucleotideMutations", "A23T"},
		{"nucleotideMutations", "C10G"},
	}, f.ToUrlSearchParams())
}

func TestDisplayStrings(t *testing.T) {
	long := strings.Repeat("x", 50)
	f := NewFieldFilter(testSchema(t), FieldValues{
		"releasedAtTimestampFrom": 1700000000,
		"host":                    []any{"Homo sapiens", nil},
		"genotype":                nil,
		"country":                 long,
		"mutation":                "A23T",
	}, hiddenDefaults, singleReference)

	ds := f.ToDisplayStrings()
	require.Len(t, ds, 5)

	assert.Equal(t, "country", ds[0].Key)
	assert.Equal(t, "Country", ds[0].Label)
	assert.Equal(t, strings.Repeat("x", 37)+"...", ds[0].Value)

	assert.Equal(t, "host", ds[1].Key)
	list, ok := ds[1].Value.([]*string)
	require.True(t, ok)
	require.Len(t, list, 2)
	assert.Equal(t, "Homo sapiens", *list[0])
	assert.Nil(t, list[1])

	assert.Equal(t, "Released at - From", ds[2].Label)
	assert.Equal(t, "2023-11-14", ds[2].Value)

	assert.Equal(t, "genotype", ds[3].Key)
	assert.Nil(t, ds[3].Value)

	assert.Equal(t, "mutation", ds[4].Key)
	assert.Equal(t, "A23T", ds[4].Value)
}

func TestDisplayTruncationCountsCharacters(t *testing.T) {
	f := NewFieldFilter(testSchema(t), FieldValues{"country": strings.Repeat("ä", 41)}, nil, singleReference)
	ds := f.ToDisplayStrings()
	require.Len(t, ds, 1)
	v, ok := ds[0].Value.(string)
	require.True(t, ok)
	assert.True(t, utf8.ValidString(v))
	assert.Equal(t, strings.Repeat("ä", 37)+"...", v)

	f = NewFieldFilter(testSchema(t), FieldValues{"country": strings.Repeat("ä", 40)}, nil, singleReference)
	assert.Equal(t, strings.Repeat("ä", 40), f.ToDisplayStrings()[0].Value)
}

func TestEmptinessMatchesDisplayStrings(t *testing.T) {
	cases := []FieldValues{
		{},
		{"host": ""},
		{"versionStatus": "LATEST_VERSION"},
		{"host": "cow"},
		{"genotype": nil},
		{"country": []string{}},
	}
	for _, values := range cases {
		f := NewFieldFilter(testSchema(t), values, hiddenDefaults, singleReference)
		assert.Equal(t, len(f.ToDisplayStrings()) == 0, f.IsEmpty(), "%v", values)
	}

	f := NewFieldFilter(testSchema(t), nil, hiddenDefaults, singleReference)
	assert.True(t, f.IsEmpty())
	assert.NotEmpty(t, f.ToApiParams())
	_, known := f.SequenceCount()
	assert.False(t, known)
}

func TestSingleValueFieldRejectsLists(t *testing.T) {
	f := NewFieldFilter(testSchema(t), FieldValues{"accession": []string{"A", "B"}}, nil, singleReference)
	assert.PanicsWithError(t, "field 'accession' expects a single value but got a list", func() { f.ToApiParams() })

	f = NewFieldFilter(testSchema(t), FieldValues{"mutation": []string{"A1T"}}, nil, singleReference)
	assert.Panics(t, func() { f.ToApiParams() })
}

func TestWithReturnsNewFilter(t *testing.T) {
	f := NewFieldFilter(testSchema(t), FieldValues{"host": "cow"}, nil, singleReference)
	g := f.With("host", "")
	assert.Equal(t, "cow", f.ToApiParams()["host"])
	assert.NotContains(t, g.ToApiParams(), "host")
	assert.True(t, g.IsEmpty())
}

func TestSelectionDisplayByCount(t *testing.T) {
	one := NewSequenceEntrySelection([]string{"B.1"})
	assert.Equal(t, []DisplayString{{Key: "selectedSequences", Label: "single sequence", Value: "B.1"}}, one.ToDisplayStrings())

	two := NewSequenceEntrySelection([]string{"B.1", "A.1"})
	assert.Equal(t, []DisplayString{{Key: "selectedSequences", Label: "sequences selected", Value: "A.1, B.1"}}, two.ToDisplayStrings())

	three := NewSequenceEntrySelection([]string{"C.1", "B.1", "A.1"})
	assert.Equal(t, "3", three.ToDisplayStrings()[0].Value)
	assert.Equal(t, "sequences selected", three.ToDisplayStrings()[0].Label)

	many := NewSequenceEntrySelection(uniqueIDs(1234))
	assert.Equal(t, "1,234", many.ToDisplayStrings()[0].Value)
}

func uniqueIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		n := stringify(i)
		ids[i] = "ENTRY_" + strings.Repeat("0", 6-len(n)) + n + ".1"
	}
	return ids
}

func TestSelectionParams(t *testing.T) {
	s := NewSequenceEntrySelection([]string{"C.1", "A.2", "B.1", "A.2"})
	n, known := s.SequenceCount()
	assert.True(t, known)
	assert.Equal(t, 3, n)
	assert.False(t, s.IsEmpty())

	assert.Equal(t, ApiParams{"accessionVersion": []string{"A.2", "B.1", "C.1"}}, s.ToApiParams())
	assert.Equal(t, []UrlParam{
		{"accessionVersion", "A.2"},
		{"accessionVersion", "B.1"},
		{"accessionVersion", "C.1"},
	}, s.ToUrlSearchParams())

	empty := NewSequenceEntrySelection(nil)
	assert.True(t, empty.IsEmpty())
	assert.Empty(t, empty.ToDisplayStrings())
}
