package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/fedwatch/internal/app"
)

const maxRequestBytes = 1 << 20

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleProcess runs the pipeline. Pipeline failures are reported with HTTP
// 200 and status "error"; only an undecodable body gets a 400.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	var req app.Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, app.ErrorResponse("invalid request body: "+err.Error()))
		return
	}
	if req.SelectedKeywords == nil {
		req.SelectedKeywords = []string{}
	}
	log.Info().
		Str("request_id", middleware.GetReqID(r.Context())).
		Strs("keywords", req.SelectedKeywords).
		Str("window", req.DateFilter).
		Msg("processing report request")
	writeJSON(w, http.StatusOK, s.proc.Process(r.Context(), req))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("write response")
	}
}
