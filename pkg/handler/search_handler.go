package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/yumyai/seqportal/pkg/filter"
	"github.com/yumyai/seqportal/pkg/handler/request"
	"github.com/yumyai/seqportal/pkg/lapis"
	"github.com/yumyai/seqportal/pkg/organism"
)

type SearchResponse struct {
	Count          int                    `json:"count"`
	Page           int                    `json:"page"`
	PageSize       int                    `json:"pageSize"`
	Rows           []map[string]any       `json:"rows"`
	DisplayStrings []filter.DisplayString `json:"displayStrings"`
}

// SearchSequences counts the entries matching the query's field filter and
// returns one page of their details.
func (app *AppContext) SearchSequences(w http.ResponseWriter, r *http.Request) {
	o, err := app.Organisms.Get(r.PathValue("organism"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	search, err := request.NewSearchRequest(q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	details := lapis.DetailsRequest{Limit: search.PageSize, Offset: search.Offset()}
	if search.OrderBy != "" {
		if !o.Schema().Has(search.OrderBy) && search.OrderBy != filter.AccessionVersionField {
			writeError(w, r, &request.ValidationError{Msg: "cannot order by unknown field '" + search.OrderBy + "'"})
			return
		}
		dir := lapis.Ascending
		if search.OrderDir == "desc" {
			dir = lapis.Descending
		}
		details.OrderBy = []lapis.OrderBy{{Field: search.OrderBy, Type: dir}}
	}

	view, err := fieldFilterView(o, request.FieldValues(q, request.SearchKeys...))
	if err != nil {
		writeError(w, r, err)
		return
	}

	count, err := app.aggregated(r.Context(), o, view.ApiParams)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rows, err := app.details(r.Context(), o, view.ApiParams, details)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if rows == nil {
		rows = []map[string]any{}
	}

	writeJSON(w, http.StatusOK, SearchResponse{
		Count:          count,
		Page:           search.Page,
		PageSize:       search.PageSize,
		Rows:           rows,
		DisplayStrings: view.DisplayStrings,
	})
}

func (app *AppContext) aggregated(ctx context.Context, o *organism.Organism, params filter.ApiParams) (int, error) {
	start := time.Now()
	n, err := app.Lapis.Aggregated(ctx, o.Config.LapisURL, params)
	app.Metrics.ObserveLapis("aggregated", err, time.Since(start))
	return n, err
}

func (app *AppContext) details(ctx context.Context, o *organism.Organism, params filter.ApiParams, req lapis.DetailsRequest) ([]map[string]any, error) {
	start := time.Now()
	rows, err := app.Lapis.Details(ctx, o.Config.LapisURL, params, req)
	app.Metrics.ObserveLapis("details", err, time.Since(start))
	return rows, err
}
