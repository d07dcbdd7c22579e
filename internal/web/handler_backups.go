package web

import (
	"fmt"
	"net/http"
	"time"
)

func writeBackupFile(w http.ResponseWriter, name string, data []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// handleExportBackup downloads the current data as a backup document.
func (s *Server) handleExportBackup(w http.ResponseWriter, r *http.Request) {
	data, err := s.service.ExportBackup(r.Context())
	if err != nil {
		s.writeServiceError(w, err, "export backup failed")
		return
	}
	name := "shisha-backup-" + time.Now().Format("2006-01-02") + ".json"
	writeBackupFile(w, name, data)
}

func (s *Server) handleRestoreBackup(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(w, r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	result, err := s.service.RestoreBackup(r.Context(), data)
	if err != nil {
		s.writeServiceError(w, err, "restore backup failed")
		return
	}
	writeJSON(w, http.StatusOK, result, s.logger)
}

func (s *Server) handleArchiveBackup(w http.ResponseWriter, r *http.Request) {
	info, err := s.service.ArchiveBackup(r.Context())
	if err != nil {
		s.writeServiceError(w, err, "archive backup failed")
		return
	}
	writeJSON(w, http.StatusCreated, info, s.logger)
}

func (s *Server) handleListBackups(w http.ResponseWriter, r *http.Request) {
	infos, err := s.service.ListArchivedBackups(r.Context())
	if err != nil {
		s.writeServiceError(w, err, "list backups failed")
		return
	}
	writeJSON(w, http.StatusOK, infos, s.logger)
}

func (s *Server) handleGetBackup(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	data, err := s.service.GetArchivedBackup(r.Context(), key)
	if err != nil {
		s.writeServiceError(w, err, "get backup failed", "key", key)
		return
	}
	writeBackupFile(w, key+".json", data)
}

func (s *Server) handleRestoreArchivedBackup(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	result, err := s.service.RestoreArchivedBackup(r.Context(), key)
	if err != nil {
		s.writeServiceError(w, err, "restore archived backup failed", "key", key)
		return
	}
	writeJSON(w, http.StatusOK, result, s.logger)
}

func (s *Server) handleDeleteBackup(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if err := s.service.DeleteArchivedBackup(r.Context(), key); err != nil {
		s.writeServiceError(w, err, "delete backup failed", "key", key)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
