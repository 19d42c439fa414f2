package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *ArchiveAPI) Router(middlewares ...func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middlewares...)

	r.Get("/", h.Index)
	r.Get("/archive/{name}/", h.DownloadArchive)

	return r
}
