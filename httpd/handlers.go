package httpd

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"quasar/tubedash/downloader"
	"quasar/tubedash/formats"
	"quasar/tubedash/media"
	"quasar/tubedash/store"
	"quasar/tubedash/ytdlp"
)

type Server struct {
	Downloader *downloader.Service
	Store      *store.Store
}

type inspectRequest struct {
	URL string `json:"url"`
}

type inspectResponse struct {
	Metadata  *media.MediaMetadata  `json:"metadata"`
	Qualities []media.QualityOption `json:"qualities"`
}

// handleInspect fetches metadata plus the quality menu for a URL in one
// round trip, which is what the dashboard wants before offering a
// download button.
func (s *Server) handleInspect() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req inspectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		info, err := s.Downloader.Orch.Inspect(r.Context(), req.URL)
		if err != nil {
			log.Printf("ERROR: inspect: %v", err)
			http.Error(w, err.Error(), statusForError(err))
			return
		}

		respondWithJSON(w, http.StatusOK, inspectResponse{
			Metadata:  info,
			Qualities: formats.QualityOptions(info.Formats),
		})
	}
}

// statusForError maps the error taxonomy onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, ytdlp.ErrUnsupportedURL):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ytdlp.ErrFormatNotFound):
		return http.StatusNotFound
	case errors.Is(err, ytdlp.ErrMetadataFetch):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload == nil {
		return
	}
	err := json.NewEncoder(w).Encode(payload)
	if err != nil {
		log.Printf("ERROR: Failed to encode JSON response: %v", err)
	}
}
