package httpd

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"quasar/tubedash/downloader"
	"quasar/tubedash/ytdlp"
)

func (s *Server) handleCreateDownload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req downloader.DownloadPayload
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: decoding request: %v", err)
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		task, err := s.Downloader.CreateDownload(req)
		if err != nil {
			switch {
			case errors.Is(err, downloader.ErrEmptyURL):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ytdlp.ErrUnsupportedURL):
				http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			default:
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
			return
		}

		respondWithJSON(w, http.StatusAccepted, task) // the dashboard polls from here
	}
}

func (s *Server) handleGetTaskStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idStr := chi.URLParam(r, "taskID")
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			http.Error(w, "invalid task ID", http.StatusBadRequest)
			return
		}

		task, err := s.Downloader.Task(id)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}

		respondWithJSON(w, http.StatusOK, task)
	}
}

func (s *Server) handleListTasks() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, s.Downloader.Tasks())
	}
}
