package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yumyai/seqportal/pkg/filter"
)

func TestRenderDownloadForm(t *testing.T) {
	var buf bytes.Buffer
	err := RenderDownloadForm(&buf, DownloadFormData{
		Organism: "Ebola Sudan",
		Action:   "https://lapis.example/ebola/sample/details",
		Params: []filter.UrlParam{
			{Key: "downloadAsFile", Value: "true"},
			{Key: "accessionVersion", Value: `A.1"><script>alert(1)</script>`},
		},
	})
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, `action="https://lapis.example/ebola/sample/details"`)
	assert.Contains(t, html, `<input type="hidden" name="downloadAsFile" value="true">`)
	assert.NotContains(t, html, "<script>alert(1)</script>")
	assert.Contains(t, html, "&lt;script&gt;")
}
