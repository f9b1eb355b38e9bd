package handler

// DI for all handlers.

import (
	"context"
	"time"

	"github.com/yumyai/seqportal/pkg/db"
	"github.com/yumyai/seqportal/pkg/filter"
	"github.com/yumyai/seqportal/pkg/lapis"
	"github.com/yumyai/seqportal/pkg/middle"
	"github.com/yumyai/seqportal/pkg/organism"
)

// LapisClient is the part of *lapis.Client the handlers use.
type LapisClient interface {
	Aggregated(ctx context.Context, lapisURL string, params filter.ApiParams) (int, error)
	Details(ctx context.Context, lapisURL string, params filter.ApiParams, req lapis.DetailsRequest) ([]map[string]any, error)
}

// SelectionStore is the part of *db.SelectionStore the handlers use.
type SelectionStore interface {
	Save(ctx context.Context, organism string, accessionVersions []string) (*db.SavedSelection, error)
	Get(ctx context.Context, id string) (*db.SavedSelection, error)
}

type AppContext struct {
	Organisms    *organism.Registry
	Lapis        LapisClient
	Selections   SelectionStore
	Metrics      *middle.Metrics
	MaxURLLength int
	// Now stamps download file names; time.Now when nil.
	Now func() time.Time
}

func (app *AppContext) now() time.Time {
	if app.Now == nil {
		return time.Now()
	}
	return app.Now()
}
