package handler

import (
	"net/http"

	"github.com/yumyai/seqportal/pkg/filter"
	"github.com/yumyai/seqportal/pkg/handler/request"
	"github.com/yumyai/seqportal/pkg/mutation"
	"github.com/yumyai/seqportal/pkg/organism"
	"github.com/yumyai/seqportal/pkg/schema"
)

// FilterView is everything a front end needs to show and share a filter.
type FilterView struct {
	Organism          string                  `json:"organism"`
	IsEmpty           bool                    `json:"isEmpty"`
	SequenceCount     *int                    `json:"sequenceCount,omitempty"`
	ApiParams         filter.ApiParams        `json:"apiParams"`
	UrlParams         []filter.UrlParam       `json:"urlParams"`
	DisplayStrings    []filter.DisplayString  `json:"displayStrings"`
	Mutations         []mutation.Query        `json:"mutations,omitempty"`
	SelectedReference string                  `json:"selectedReference,omitempty"`
	Filters           []schema.MetadataFilter `json:"filters,omitempty"`
}

func newFilterView(key string, f filter.SequenceFilter) FilterView {
	v := FilterView{
		Organism:       key,
		IsEmpty:        f.IsEmpty(),
		ApiParams:      f.ToApiParams(),
		UrlParams:      f.ToUrlSearchParams(),
		DisplayStrings: f.ToDisplayStrings(),
	}
	if n, known := f.SequenceCount(); known {
		v.SequenceCount = &n
	}
	if v.UrlParams == nil {
		v.UrlParams = []filter.UrlParam{}
	}
	if v.DisplayStrings == nil {
		v.DisplayStrings = []filter.DisplayString{}
	}
	return v
}

func fieldFilterView(o *organism.Organism, values filter.FieldValues) (FilterView, error) {
	return evaluate(func() (FilterView, error) {
		f := o.NewFieldFilter(values)
		v := newFilterView(o.Key, f)
		v.Mutations = f.MutationQueries()
		v.SelectedReference = o.SelectedReference(values)
		v.Filters = o.VisibleFilters(values)
		return v, nil
	})
}

// GetFilter describes the field filter given by the query string.
func (app *AppContext) GetFilter(w http.ResponseWriter, r *http.Request) {
	o, err := app.Organisms.Get(r.PathValue("organism"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	view, err := fieldFilterView(o, request.FieldValues(r.URL.Query()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
