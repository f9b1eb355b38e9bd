package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/yumyai/seqportal/logger"
	"github.com/yumyai/seqportal/pkg/db"
	"github.com/yumyai/seqportal/pkg/filter"
	"github.com/yumyai/seqportal/pkg/handler/request"
	"github.com/yumyai/seqportal/pkg/lapis"
	"github.com/yumyai/seqportal/pkg/middle"
	"github.com/yumyai/seqportal/pkg/organism"
)

// APIError is the error half of every JSON response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Error APIError `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Encoding response failed", zap.Error(err))
	}
}

// classify maps an error to its HTTP status and code.
func classify(err error) (int, string) {
	var (
		notFound     *organism.NotFoundError
		noSelection  *db.SelectionNotFoundError
		validation   *request.ValidationError
		multiValue   *filter.MultiValueError
		unavailable  *lapis.UnavailableError
		lapisFailure *lapis.ResponseError
		downgrade    *lapis.DowngradedRedirectError
	)
	switch {
	case errors.As(err, &notFound), errors.As(err, &noSelection):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.As(err, &validation), errors.As(err, &multiValue):
		return http.StatusBadRequest, "VALIDATION_ERROR"
	case errors.As(err, &unavailable):
		return http.StatusServiceUnavailable, "LAPIS_UNAVAILABLE"
	case errors.As(err, &lapisFailure), errors.As(err, &downgrade):
		return http.StatusBadGateway, "LAPIS_ERROR"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	msg := err.Error()
	log := middle.LoggerFrom(r.Context(), logger.With())
	if status >= http.StatusInternalServerError {
		log.Error("Request failed", zap.String("path", r.URL.Path), zap.Error(err))
		if status == http.StatusInternalServerError {
			msg = http.StatusText(status)
		}
	} else {
		log.Debug("Request rejected", zap.String("path", r.URL.Path), zap.Error(err))
	}
	writeJSON(w, status, errorEnvelope{Error: APIError{Code: code, Message: msg}})
}

// evaluate runs fn and turns a *filter.MultiValueError panic into an error.
// Query strings can repeat any key, so at this edge a list reaching a
// single-valued field is a bad request.
func evaluate[T any](fn func() (T, error)) (out T, err error) {
	defer func() {
		if p := recover(); p != nil {
			mv, ok := p.(*filter.MultiValueError)
			if !ok {
				panic(p)
			}
			err = fmt.Errorf("bad filter: %w", mv)
		}
	}()
	return fn()
}
