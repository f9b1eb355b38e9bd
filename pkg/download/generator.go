// Builds LAPIS download requests from a sequence filter and a download
// option.

package download

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yumyai/seqportal/internal/util"
	"github.com/yumyai/seqportal/pkg/filter"
)

const filenameTimeLayout = "2006-01-02T1504"

// Generator is bound to one organism's LAPIS instance.
type Generator struct {
	organism               string
	lapisURL               string
	dataUseTermsEnabled    bool
	multiSegmentedEndpoint bool
	fastaHeaderTemplate    string
	now                    func() time.Time
}

func NewGenerator(organismDisplayName, lapisURL string, dataUseTermsEnabled, multiSegmentedEndpoint bool) *Generator {
	return &Generator{
		organism:               organismDisplayName,
		lapisURL:               strings.TrimSuffix(lapisURL, "/"),
		dataUseTermsEnabled:    dataUseTermsEnabled,
		multiSegmentedEndpoint: multiSegmentedEndpoint,
		fastaHeaderTemplate:    DefaultFastaHeaderTmpl,
		now:                    time.Now,
	}
}

// WithFastaHeaderTemplate sets the organism's rich FASTA header template.
func (g *Generator) WithFastaHeaderTemplate(tmpl string) *Generator {
	c := *g
	if tmpl != "" {
		c.fastaHeaderTemplate = tmpl
	}
	return &c
}

// WithClock replaces the clock used for the file basename.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	c := *g
	c.now = now
	return &c
}

// Result is a LAPIS request that can be sent as GET (URL) or as a form POST
// (BaseURL + Params).
type Result struct {
	URL        string            `json:"url"`
	BaseURL    string            `json:"baseUrl"`
	Params     url.Values        `json:"-"`
	ParamPairs []filter.UrlParam `json:"params"`
}

// Method picks GET when the URL fits within maxURLLength, POST otherwise.
func (r Result) Method(maxURLLength int) string {
	if maxURLLength > 0 && len(r.URL) > maxURLLength {
		return http.MethodPost
	}
	return http.MethodGet
}

// Endpoint returns the LAPIS path for the requested data type.
func (g *Generator) Endpoint(dt DataType) (string, error) {
	switch dt.Kind {
	case Metadata:
		return "/sample/details", nil
	case UnalignedNucleotideSequences, AlignedNucleotideSequences:
		path := "/sample/" + string(dt.Kind)
		if !g.multiSegmentedEndpoint {
			return path, nil
		}
		if dt.Segment == nil {
			return "", fmt.Errorf("%s download needs a segment", dt.Kind)
		}
		return path + "/" + dt.Segment.LapisName, nil
	case AlignedAminoAcidSequences:
		if dt.Gene == nil {
			return "", fmt.Errorf("%s download needs a gene", dt.Kind)
		}
		return "/sample/alignedAminoAcidSequences/" + dt.Gene.LapisName, nil
	default:
		return "", fmt.Errorf("unknown download data type '%s'", dt.Kind)
	}
}

func dataTypeTag(dt DataType) string {
	var tag string
	switch dt.Kind {
	case Metadata:
		return "metadata"
	case UnalignedNucleotideSequences:
		tag = "nuc"
	case AlignedNucleotideSequences:
		tag = "aligned-nuc"
	case AlignedAminoAcidSequences:
		tag = "aligned-aa"
	}
	switch {
	case dt.Gene != nil:
		tag += "-" + dt.Gene.Name
	case dt.Segment != nil:
		tag += "-" + dt.Segment.Name
	}
	return tag
}

// Basename is the downloaded file's name without extension. Two downloads
// in the same minute share it.
func (g *Generator) Basename(dt DataType) string {
	return fmt.Sprintf("%s_%s_%s",
		util.KebabCase(g.organism),
		dataTypeTag(dt),
		g.now().UTC().Format(filenameTimeLayout),
	)
}

// Generate assembles the request. Parameters forced by the option win over
// the filter's own values for the same keys.
func (g *Generator) Generate(f filter.SequenceFilter, opt Option) (Result, error) {
	path, err := g.Endpoint(opt.DataType)
	if err != nil {
		return Result{}, err
	}

	params := &orderedParams{}
	params.Set("downloadAsFile", "true")
	params.Set("downloadFileBasename", g.Basename(opt.DataType))

	excluded := map[string]bool{}
	if !opt.IncludeOldData {
		params.Set(VersionStatusField, LatestVersion)
		params.Set(IsRevocationField, "false")
		excluded[VersionStatusField] = true
		excluded[IsRevocationField] = true
	}
	if opt.IncludeOldData {
		if ff, ok := f.(*filter.FieldFilter); ok {
			f = ff.WithoutHidden(VersionStatusField, IsRevocationField)
		}
	}
	if !opt.IncludeRestricted && g.dataUseTermsEnabled {
		params.Set(DataUseTermsField, DataUseTermsOpen)
		excluded[DataUseTermsField] = true
	}
	if opt.DataType.Kind == Metadata {
		params.Set("dataFormat", DefaultMetadataFormat)
	}
	if len(opt.DataType.Fields) > 0 {
		params.Set("fields", strings.Join(opt.DataType.Fields, ","))
	}
	if opt.DataType.Kind == UnalignedNucleotideSequences && opt.DataType.RichFastaHeaders.Include {
		tmpl := opt.DataType.RichFastaHeaders.FastaHeaderOverride
		if tmpl == "" {
			tmpl = g.fastaHeaderTemplate
		}
		params.Set("fastaHeaderTemplate", tmpl)
	}
	if opt.Compression != NoCompression {
		params.Set("compression", string(opt.Compression))
	}

	for _, p := range f.ToUrlSearchParams() {
		if excluded[p.Key] || p.Value == "" {
			continue
		}
		params.Append(p.Key, p.Value)
	}

	baseURL := g.lapisURL + path
	return Result{
		URL:        baseURL + "?" + params.Encode(),
		BaseURL:    baseURL,
		Params:     params.Values(),
		ParamPairs: params.Pairs(),
	}, nil
}
