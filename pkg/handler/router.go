package handler

import "net/http"

func NewRouter(app *AppContext) *http.ServeMux {
	mux := http.NewServeMux()

	// Error route
	mux.HandleFunc("GET /favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not Found", http.StatusNotFound)
	})

	// API routes
	mux.HandleFunc("GET /api/v1/health", HealthCheck)
	mux.HandleFunc("GET /api/v1/organisms", app.ListOrganisms)
	mux.HandleFunc("GET /api/v1/organisms/{organism}/filter", app.GetFilter)
	mux.HandleFunc("GET /api/v1/organisms/{organism}/search", app.SearchSequences)
	mux.HandleFunc("POST /api/v1/organisms/{organism}/download", app.CreateDownload)
	mux.HandleFunc("POST /api/v1/organisms/{organism}/selections", app.SaveSelection)
	mux.HandleFunc("GET /api/v1/selections/{id}", app.GetSelection)

	// Browser download
	mux.HandleFunc("GET /download/{organism}", app.DownloadRedirect)

	mux.Handle("GET /metrics", app.Metrics.Handler())

	return mux
}
