// Handler for miscellaneous endpoints such as health check

package handler

import (
	"net/http"
	"time"
)

type HealthResponse struct {
	Health    string    `json:"health"`
	Timestamp time.Time `json:"timestamp"`
}

func HealthCheck(w http.ResponseWriter, r *http.Request) {

	response := HealthResponse{
		Health:    "ok",
		Timestamp: time.Now(),
	}

	writeJSON(w, http.StatusOK, response)
}

type OrganismSummary struct {
	Key            string   `json:"key"`
	DisplayName    string   `json:"displayName"`
	Segments       []string `json:"segments"`
	References     []string `json:"references"`
	MultiReference bool     `json:"multiReference"`
}

func (app *AppContext) ListOrganisms(w http.ResponseWriter, r *http.Request) {
	keys := app.Organisms.Keys()
	out := make([]OrganismSummary, 0, len(keys))
	for _, key := range keys {
		o, err := app.Organisms.Get(key)
		if err != nil {
			writeError(w, r, err)
			return
		}
		genomes := o.Config.ReferenceGenomes
		summary := OrganismSummary{
			Key:            key,
			DisplayName:    o.DisplayName(),
			References:     genomes.ReferenceNames(),
			MultiReference: genomes.IsMultiReference(),
		}
		for _, s := range genomes.Segments {
			summary.Segments = append(summary.Segments, s.Name)
		}
		out = append(out, summary)
	}
	writeJSON(w, http.StatusOK, out)
}
