package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/yumyai/seqportal/pkg/download"
	"github.com/yumyai/seqportal/pkg/filter"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 100
	MaxPageSize     = 1000
	maxBodyBytes    = 4 << 20
)

var validate = validator.New()

// ValidationError is a request the caller has to fix.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func invalid(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// Validate runs the struct's validate tags and flattens failures into one
// ValidationError.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		if fe.Param() != "" {
			msgs[i] = fmt.Sprintf("%s failed '%s=%s'", fe.Field(), fe.Tag(), fe.Param())
		} else {
			msgs[i] = fmt.Sprintf("%s failed '%s'", fe.Field(), fe.Tag())
		}
	}
	return &ValidationError{Msg: strings.Join(msgs, "; ")}
}

// DecodeJSON reads one JSON object, keeping numbers as json.Number.
func DecodeJSON(r io.Reader, v any) error {
	dec := json.NewDecoder(io.LimitReader(r, maxBodyBytes))
	dec.UseNumber()
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return invalid("invalid request body: %s", err)
	}
	return Validate(v)
}

// Search query keys.
const (
	PageKey     = "page"
	PageSizeKey = "page_size"
	OrderByKey  = "order_by"
	OrderDirKey = "order_dir"
)

var SearchKeys = []string{PageKey, PageSizeKey, OrderByKey, OrderDirKey}

type SearchRequest struct {
	Page     int    `json:"page" validate:"min=1"`
	PageSize int    `json:"page_size" validate:"min=1,max=1000"`
	OrderBy  string `json:"order_by"`
	OrderDir string `json:"order_dir" validate:"omitempty,oneof=asc desc"`
}

func NewSearchRequest(q url.Values) (SearchRequest, error) {
	req := SearchRequest{
		Page:     parsePositiveIntFallback(q.Get(PageKey), DefaultPage),
		PageSize: parsePositiveIntFallback(q.Get(PageSizeKey), DefaultPageSize),
		OrderBy:  q.Get(OrderByKey),
		OrderDir: strings.ToLower(q.Get(OrderDirKey)),
	}
	if req.PageSize > MaxPageSize {
		req.PageSize = MaxPageSize
	}
	return req, Validate(req)
}

func (s SearchRequest) Offset() int {
	return (s.Page - 1) * s.PageSize
}

func parsePositiveIntFallback(raw string, fallback int) int {
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

// DownloadRequest is the body of POST /api/v1/organisms/{organism}/download. The
// entries are picked by exactly one of SelectionID, AccessionVersions or
// FieldValues. Reference picks the reference of a multi-reference organism
// when the entries come from a selection rather than field values.
type DownloadRequest struct {
	DataType                string             `json:"dataType" validate:"required,oneof=metadata unalignedNucleotideSequences alignedNucleotideSequences alignedAminoAcidSequences"`
	Fields                  []string           `json:"fields" validate:"dive,required"`
	Segment                 string             `json:"segment"`
	Gene                    string             `json:"gene" validate:"required_if=DataType alignedAminoAcidSequences"`
	Reference               string             `json:"reference"`
	IncludeRichFastaHeaders bool               `json:"includeRichFastaHeaders"`
	FastaHeaderOverride     string             `json:"fastaHeaderOverride"`
	IncludeOldData          bool               `json:"includeOldData"`
	IncludeRestricted       bool               `json:"includeRestricted"`
	Compression             string             `json:"compression" validate:"omitempty,oneof=gzip zstd none"`
	SelectionID             string             `json:"selectionId" validate:"omitempty,uuid,excluded_with=AccessionVersions FieldValues"`
	AccessionVersions       []string           `json:"accessionVersions" validate:"omitempty,excluded_with=FieldValues,dive,required"`
	FieldValues             filter.FieldValues `json:"fieldValues"`
}

// Download query keys, for GET /download/{organism}.
const (
	DataTypeKey            = "dataType"
	FieldsKey              = "fields"
	SegmentKey             = "segment"
	GeneKey                = "gene"
	ReferenceKey           = "reference"
	RichFastaHeadersKey    = "richFastaHeaders"
	FastaHeaderOverrideKey = "fastaHeaderOverride"
	IncludeOldDataKey      = "includeOldData"
	IncludeRestrictedKey   = "includeRestricted"
	CompressionKey         = "compression"
	SelectionIDKey         = "selectionId"
)

var DownloadKeys = []string{
	DataTypeKey, FieldsKey, SegmentKey, GeneKey, ReferenceKey, RichFastaHeadersKey,
	FastaHeaderOverrideKey, IncludeOldDataKey, IncludeRestrictedKey,
	CompressionKey, SelectionIDKey,
}

// DownloadRequestFromQuery reads the download option keys; every other key
// is a field value.
func DownloadRequestFromQuery(q url.Values) (DownloadRequest, error) {
	req := DownloadRequest{
		DataType:                q.Get(DataTypeKey),
		Segment:                 q.Get(SegmentKey),
		Gene:                    q.Get(GeneKey),
		Reference:               q.Get(ReferenceKey),
		IncludeRichFastaHeaders: parseBool(q.Get(RichFastaHeadersKey)),
		FastaHeaderOverride:     q.Get(FastaHeaderOverrideKey),
		IncludeOldData:          parseBool(q.Get(IncludeOldDataKey)),
		IncludeRestricted:       parseBool(q.Get(IncludeRestrictedKey)),
		Compression:             q.Get(CompressionKey),
		SelectionID:             q.Get(SelectionIDKey),
	}
	for _, f := range strings.Split(q.Get(FieldsKey), ",") {
		if f = strings.TrimSpace(f); f != "" {
			req.Fields = append(req.Fields, f)
		}
	}
	if req.SelectionID == "" {
		req.FieldValues = FieldValues(q, DownloadKeys...)
	}
	return req, Validate(req)
}

func parseBool(raw string) bool {
	b, err := strconv.ParseBool(raw)
	return err == nil && b
}

// Option converts the request into a download option. Segment and gene are
// resolved by the caller since they depend on the organism.
func (d DownloadRequest) Option() (download.Option, error) {
	kind, err := download.ParseDataTypeKind(d.DataType)
	if err != nil {
		return download.Option{}, invalid("%s", err)
	}
	compression, err := download.ParseCompression(d.Compression)
	if err != nil {
		return download.Option{}, invalid("%s", err)
	}
	return download.Option{
		DataType: download.DataType{
			Kind:   kind,
			Fields: d.Fields,
			RichFastaHeaders: download.RichFastaHeaders{
				Include:             d.IncludeRichFastaHeaders,
				FastaHeaderOverride: d.FastaHeaderOverride,
			},
		},
		IncludeOldData:    d.IncludeOldData,
		IncludeRestricted: d.IncludeRestricted,
		Compression:       compression,
	}, nil
}

// SaveSelectionRequest is the body of POST /api/v1/organisms/{organism}/selections.
type SaveSelectionRequest struct {
	AccessionVersions []string `json:"accessionVersions" validate:"required,min=1,max=100000,dive,required"`
}
