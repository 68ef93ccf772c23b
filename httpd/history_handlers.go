package httpd

import (
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleListHistory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		downloads, err := s.Store.ListDownloads(r.Context(), 0)
		if err != nil {
			log.Printf("ERROR: listing history: %v", err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		respondWithJSON(w, http.StatusOK, downloads)
	}
}

// handleDeleteHistory removes the history row and the file on disk.
func (s *Server) handleDeleteHistory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "downloadID"), 10, 64)
		if err != nil {
			http.Error(w, "invalid download ID", http.StatusBadRequest)
			return
		}

		dl, err := s.Store.GetDownload(r.Context(), id)
		if err != nil {
			http.Error(w, "download not found", http.StatusNotFound)
			return
		}

		if dl.FilePath != "" {
			if err := os.Remove(dl.FilePath); err != nil && !os.IsNotExist(err) {
				log.Printf("WARN: failed to delete file %s: %v", dl.FilePath, err)
			}
		}

		if err := s.Store.DeleteDownload(r.Context(), id); err != nil {
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// handleServeFile streams a finished download back to the browser.
func (s *Server) handleServeFile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "downloadID"), 10, 64)
		if err != nil {
			http.Error(w, "invalid download ID", http.StatusBadRequest)
			return
		}

		dl, err := s.Store.GetDownload(r.Context(), id)
		if err != nil {
			http.Error(w, "download not found", http.StatusNotFound)
			return
		}

		if dl.FilePath == "" {
			http.Error(w, "no file for this download", http.StatusNotFound)
			return
		}
		if _, err := os.Stat(dl.FilePath); err != nil {
			http.Error(w, "file no longer on disk", http.StatusGone)
			return
		}

		log.Printf("Serving file: %s", dl.FilePath)
		http.ServeFile(w, r, dl.FilePath)
	}
}
