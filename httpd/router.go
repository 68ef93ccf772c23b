// Package httpd : the dashboard API and the embedded dashboard page.
package httpd

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"quasar/tubedash/downloader"
	"quasar/tubedash/store"
)

func NewRouter(dlSvc *downloader.Service, st *store.Store) http.Handler {
	srv := &Server{
		Downloader: dlSvc,
		Store:      st,
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", srv.handleDashboard())

	r.Route("/api", func(r chi.Router) {
		r.Post("/inspect", srv.handleInspect())

		r.Post("/downloads", srv.handleCreateDownload())
		r.Get("/downloads", srv.handleListTasks())
		r.Get("/downloads/{taskID}", srv.handleGetTaskStatus())

		r.Get("/history", srv.handleListHistory())
		r.Delete("/history/{downloadID}", srv.handleDeleteHistory())
		r.Get("/files/{downloadID}", srv.handleServeFile())
	})

	return r
}
