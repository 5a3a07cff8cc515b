package main

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/nicolas-cahorel/P3-Mission/internal/domain"
	"github.com/nicolas-cahorel/P3-Mission/internal/seed"
)

type reviewsPayload struct {
	Reviews []domain.Review `json:"reviews"`
}

// newHandler serves GET /restaurants/{id} and GET /restaurants/{id}/reviews
// from an in-memory table of seed documents.
func newHandler(data map[string]seed.Document, apiKey string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if apiKey != "" && req.Header.Get("X-API-Key") != apiKey {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, req)
		})
	})

	lookup := func(w http.ResponseWriter, req *http.Request) (seed.Document, bool) {
		id := chi.URLParam(req, "id")
		doc, ok := data[id]
		if !ok {
			logger.Debug("mock: unknown restaurant", zap.String("restaurant", id))
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		}
		return doc, ok
	}

	r.Get("/restaurants/{id}", func(w http.ResponseWriter, req *http.Request) {
		doc, ok := lookup(w, req)
		if !ok {
			return
		}
		if doc.Restaurant == nil {
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
			return
		}
		writeJSON(w, doc.Restaurant)
	})
	r.Get("/restaurants/{id}/reviews", func(w http.ResponseWriter, req *http.Request) {
		doc, ok := lookup(w, req)
		if !ok {
			return
		}
		writeJSON(w, reviewsPayload{Reviews: doc.Reviews})
	})
	return r
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
