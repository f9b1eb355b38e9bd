package render

import (
	"html/template"
	"io"

	"github.com/yumyai/seqportal/logger"
	"github.com/yumyai/seqportal/pkg/filter"
	"go.uber.org/zap"
)

var download_form_template *template.Template

// DownloadFormData is a LAPIS request too long for a URL, sent as a form.
type DownloadFormData struct {
	Organism string
	Action   string
	Params   []filter.UrlParam
}

// init initializes the template of the self-submitting download form.
func init() {
	formTmpl := `<!DOCTYPE html>
<html>
<head>
	<title>{{ .Organism }} download</title>
</head>
<body onload="document.forms[0].submit()">
	<form method="POST" action="{{ .Action }}">
	{{- range .Params }}
		<input type="hidden" name="{{ .Key }}" value="{{ .Value }}">
	{{- end }}
		<noscript><button type="submit">Download</button></noscript>
	</form>
</body>
</html>`

	download_form_template = template.Must(template.New("download_form").Parse(formTmpl))
}

func RenderDownloadForm(w io.Writer, data DownloadFormData) error {
	logger.Debug("Rendering download form", zap.String("organism", data.Organism), zap.Int("params", len(data.Params)))
	return download_form_template.Execute(w, data)
}
