package handler

import (
	"net/http"
	"time"

	"github.com/yumyai/seqportal/pkg/db"
	"github.com/yumyai/seqportal/pkg/filter"
	"github.com/yumyai/seqportal/pkg/handler/request"
)

type SelectionView struct {
	ID                string                 `json:"id"`
	Organism          string                 `json:"organism"`
	AccessionVersions []string               `json:"accessionVersions"`
	SequenceCount     int                    `json:"sequenceCount"`
	DisplayStrings    []filter.DisplayString `json:"displayStrings"`
	CreatedAt         time.Time              `json:"createdAt"`
}

func newSelectionView(s *db.SavedSelection) SelectionView {
	f := s.Filter()
	n, _ := f.SequenceCount()
	return SelectionView{
		ID:                s.ID,
		Organism:          s.Organism,
		AccessionVersions: f.AccessionVersions(),
		SequenceCount:     n,
		DisplayStrings:    f.ToDisplayStrings(),
		CreatedAt:         s.CreatedAt,
	}
}

// SaveSelection stores an explicit selection so it can be shared by id.
func (app *AppContext) SaveSelection(w http.ResponseWriter, r *http.Request) {
	o, err := app.Organisms.Get(r.PathValue("organism"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req request.SaveSelectionRequest
	if err := request.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, r, err)
		return
	}

	saved, err := app.Selections.Save(r.Context(), o.Key, req.AccessionVersions)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newSelectionView(saved))
}

func (app *AppContext) GetSelection(w http.ResponseWriter, r *http.Request) {
	saved, err := app.Selections.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newSelectionView(saved))
}
