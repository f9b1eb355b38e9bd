package handler

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/yumyai/seqportal/logger"
	"github.com/yumyai/seqportal/pkg/filter"
	"github.com/yumyai/seqportal/pkg/handler/request"
	"github.com/yumyai/seqportal/pkg/middle"
	"github.com/yumyai/seqportal/pkg/organism"
	"github.com/yumyai/seqportal/pkg/render"
)

type DownloadResponse struct {
	Method         string                 `json:"method"`
	URL            string                 `json:"url"`
	BaseURL        string                 `json:"baseUrl"`
	Params         []filter.UrlParam      `json:"params"`
	SequenceCount  *int                   `json:"sequenceCount,omitempty"`
	DisplayStrings []filter.DisplayString `json:"displayStrings"`
}

// sequenceFilter picks the filter a download request names: a saved
// selection, an explicit list, or field values.
func (app *AppContext) sequenceFilter(ctx context.Context, o *organism.Organism, req request.DownloadRequest) (filter.SequenceFilter, filter.FieldValues, error) {
	switch {
	case req.SelectionID != "":
		saved, err := app.Selections.Get(ctx, req.SelectionID)
		if err != nil {
			return nil, nil, err
		}
		if saved.Organism != o.Key {
			return nil, nil, &request.ValidationError{Msg: "selection '" + saved.ID + "' belongs to organism '" + saved.Organism + "'"}
		}
		return saved.Filter(), nil, nil
	case len(req.AccessionVersions) > 0:
		return filter.NewSequenceEntrySelection(req.AccessionVersions), nil, nil
	default:
		f := o.NewFieldFilter(req.FieldValues)
		return f, f.FieldValues(), nil
	}
}

// buildDownload turns a download request into the LAPIS request to send.
func (app *AppContext) buildDownload(ctx context.Context, o *organism.Organism, req request.DownloadRequest) (DownloadResponse, error) {
	opt, err := req.Option()
	if err != nil {
		return DownloadResponse{}, err
	}
	f, values, err := app.sequenceFilter(ctx, o, req)
	if err != nil {
		return DownloadResponse{}, err
	}
	values, err = o.WithReference(values, req.Reference)
	if err != nil {
		return DownloadResponse{}, &request.ValidationError{Msg: err.Error()}
	}

	return evaluate(func() (DownloadResponse, error) {
		segment, gene, err := o.SequenceNames(values, req.Segment, req.Gene)
		if err != nil {
			return DownloadResponse{}, &request.ValidationError{Msg: err.Error()}
		}
		opt.DataType.Segment = segment
		opt.DataType.Gene = gene

		res, err := o.DownloadGenerator().WithClock(app.now).Generate(f, opt)
		if err != nil {
			return DownloadResponse{}, &request.ValidationError{Msg: err.Error()}
		}

		out := DownloadResponse{
			Method:         res.Method(app.MaxURLLength),
			URL:            res.URL,
			BaseURL:        res.BaseURL,
			Params:         res.ParamPairs,
			DisplayStrings: f.ToDisplayStrings(),
		}
		if n, known := f.SequenceCount(); known {
			out.SequenceCount = &n
		}
		if out.DisplayStrings == nil {
			out.DisplayStrings = []filter.DisplayString{}
		}
		app.Metrics.RecordDownload(o.Key, string(opt.DataType.Kind), out.Method)
		return out, nil
	})
}

// CreateDownload answers with the LAPIS request for a JSON download request.
func (app *AppContext) CreateDownload(w http.ResponseWriter, r *http.Request) {
	o, err := app.Organisms.Get(r.PathValue("organism"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req request.DownloadRequest
	if err := request.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := app.buildDownload(r.Context(), o, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// DownloadRedirect sends the browser to LAPIS. Requests too long for a URL
// are sent through a self-submitting form instead.
func (app *AppContext) DownloadRedirect(w http.ResponseWriter, r *http.Request) {
	o, err := app.Organisms.Get(r.PathValue("organism"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	req, err := request.DownloadRequestFromQuery(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}

	res, err := app.buildDownload(r.Context(), o, req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if res.Method == http.MethodGet {
		http.Redirect(w, r, res.URL, http.StatusFound)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	err = render.RenderDownloadForm(w, render.DownloadFormData{
		Organism: o.DisplayName(),
		Action:   res.BaseURL,
		Params:   res.Params,
	})
	if err != nil {
		middle.LoggerFrom(r.Context(), logger.With()).Error("Rendering download form failed",
			zap.String("organism", o.Key), zap.Error(err))
	}
}
