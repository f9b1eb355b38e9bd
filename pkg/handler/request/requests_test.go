package request

import (
	"encoding/json"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yumyai/seqportal/pkg/download"
	"github.com/yumyai/seqportal/pkg/filter"
)

func TestFieldValuesFromQuery(t *testing.T) {
	q, err := url.ParseQuery("host=cow&country=A&country=B&genotype=_null_&page=2&lineage=_null_&lineage=x")
	require.NoError(t, err)

	got := FieldValues(q, SearchKeys...)
	assert.Equal(t, filter.FieldValues{
		"host":     "cow",
		"country":  []any{"A", "B"},
		"genotype": nil,
		"lineage":  []any{nil, "x"},
	}, got)
}

func TestNewSearchRequest(t *testing.T) {
	req, err := NewSearchRequest(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, SearchRequest{Page: 1, PageSize: DefaultPageSize}, req)

	req, err = NewSearchRequest(url.Values{"page": {"3"}, "page_size": {"5000"}, "order_dir": {"DESC"}, "order_by": {"date"}})
	require.NoError(t, err)
	assert.Equal(t, 3, req.Page)
	assert.Equal(t, MaxPageSize, req.PageSize)
	assert.Equal(t, "desc", req.OrderDir)
	assert.Equal(t, 2*MaxPageSize, req.Offset())

	req, err = NewSearchRequest(url.Values{"page": {"-1"}, "page_size": {"abc"}})
	require.NoError(t, err)
	assert.Equal(t, 1, req.Page)
	assert.Equal(t, DefaultPageSize, req.PageSize)

	_, err = NewSearchRequest(url.Values{"order_dir": {"sideways"}})
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestDecodeDownloadRequest(t *testing.T) {
	body := `{
		"dataType": "metadata",
		"fields": ["accessionVersion", "host"],
		"compression": "zstd",
		"fieldValues": {"host": "cow", "lengthFrom": 100, "genotype": null}
	}`
	var req DownloadRequest
	require.NoError(t, DecodeJSON(strings.NewReader(body), &req))
	assert.Equal(t, json.Number("100"), req.FieldValues["lengthFrom"])
	v, ok := req.FieldValues["genotype"]
	assert.True(t, ok)
	assert.Nil(t, v)

	opt, err := req.Option()
	require.NoError(t, err)
	assert.Equal(t, download.Metadata, opt.DataType.Kind)
	assert.Equal(t, download.Zstd, opt.Compression)
	assert.Equal(t, []string{"accessionVersion", "host"}, opt.DataType.Fields)
}

func TestDownloadRequestValidation(t *testing.T) {
	cases := map[string]string{
		"unknown data type":  `{"dataType": "fasta"}`,
		"missing data type":  `{}`,
		"missing gene":       `{"dataType": "alignedAminoAcidSequences"}`,
		"bad compression":    `{"dataType": "metadata", "compression": "rar"}`,
		"bad selection id":   `{"dataType": "metadata", "selectionId": "nope"}`,
		"two sources":        `{"dataType": "metadata", "accessionVersions": ["A.1"], "fieldValues": {"host": "cow"}}`,
		"unknown body field": `{"dataType": "metadata", "format": "csv"}`,
		"not json":           `dataType=metadata`,
	}
	for name, body := range cases {
		var req DownloadRequest
		err := DecodeJSON(strings.NewReader(body), &req)
		var ve *ValidationError
		assert.ErrorAs(t, err, &ve, name)
	}

	var req DownloadRequest
	assert.NoError(t, DecodeJSON(strings.NewReader(
		`{"dataType": "alignedAminoAcidSequences", "gene": "NP", "selectionId": "0f8fad5b-d9cb-469f-a165-70867728950e"}`), &req))
}

func TestDownloadRequestFromQuery(t *testing.T) {
	q, err := url.ParseQuery("dataType=unalignedNucleotideSequences&segment=L&richFastaHeaders=true&includeOldData=1&fields=a,%20b,&host=cow&accession=X.1")
	require.NoError(t, err)

	req, err := DownloadRequestFromQuery(q)
	require.NoError(t, err)
	assert.Equal(t, "unalignedNucleotideSequences", req.DataType)
	assert.Equal(t, "L", req.Segment)
	assert.True(t, req.IncludeRichFastaHeaders)
	assert.True(t, req.IncludeOldData)
	assert.False(t, req.IncludeRestricted)
	assert.Equal(t, []string{"a", "b"}, req.Fields)
	assert.Equal(t, filter.FieldValues{"host": "cow", "accession": "X.1"}, req.FieldValues)

	_, err = DownloadRequestFromQuery(url.Values{})
	assert.Error(t, err)
}

func TestSaveSelectionValidation(t *testing.T) {
	var req SaveSelectionRequest
	assert.NoError(t, DecodeJSON(strings.NewReader(`{"accessionVersions": ["A.1"]}`), &req))

	for _, body := range []string{`{"accessionVersions": []}`, `{}`, `{"accessionVersions": [""]}`} {
		var req SaveSelectionRequest
		assert.Error(t, DecodeJSON(strings.NewReader(body), &req), body)
	}
}
