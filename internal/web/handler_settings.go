package web

import (
	"net/http"

	"github.com/vbonduro/shishalog/internal/domain"
)

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.service.GetSettings(r.Context())
	if err != nil {
		s.writeServiceError(w, err, "get settings failed")
		return
	}
	writeJSON(w, http.StatusOK, settings, s.logger)
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var p domain.SettingsPatch
	if err := decodeJSON(w, r, &p); err != nil {
		writeBadRequest(w, err)
		return
	}

	settings, result, err := s.service.UpdateSettings(r.Context(), p)
	if err != nil {
		s.writeServiceError(w, err, "update settings failed")
		return
	}
	if !result.IsValid() {
		s.writeInvalid(w, result)
		return
	}
	writeJSON(w, http.StatusOK, settings, s.logger)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.service.Dashboard(r.Context())
	if err != nil {
		s.writeServiceError(w, err, "dashboard failed")
		return
	}
	writeJSON(w, http.StatusOK, d, s.logger)
}
