package web

import (
	"net/http"

	"github.com/vbonduro/shishalog/internal/domain"
	"github.com/vbonduro/shishalog/internal/service"
)

func (s *Server) handleListShops(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	shops, err := s.service.QueryShops(r.Context(), service.ShopQuery{
		Query: q.Get("q"),
		Sort:  q.Get("sort"),
	})
	if err != nil {
		s.writeServiceError(w, err, "list shops failed")
		return
	}
	writeJSON(w, http.StatusOK, shops, s.logger)
}

func (s *Server) handleValidateShop(w http.ResponseWriter, r *http.Request) {
	var p domain.ShopPatch
	if err := decodeJSON(w, r, &p); err != nil {
		writeBadRequest(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.service.ValidateShop(p), s.logger)
}

func (s *Server) handleCreateShop(w http.ResponseWriter, r *http.Request) {
	var p domain.ShopPatch
	if err := decodeJSON(w, r, &p); err != nil {
		writeBadRequest(w, err)
		return
	}

	shop, result, err := s.service.CreateShop(r.Context(), p)
	if err != nil {
		s.writeServiceError(w, err, "create shop failed")
		return
	}
	if !result.IsValid() {
		s.writeInvalid(w, result)
		return
	}
	writeJSON(w, http.StatusCreated, shop, s.logger)
}

func (s *Server) handleGetShop(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	detail, err := s.service.GetShop(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err, "get shop failed", "shop_id", id)
		return
	}
	if detail == nil {
		s.writeNotFound(w, "shop")
		return
	}
	writeJSON(w, http.StatusOK, detail, s.logger)
}

func (s *Server) handleUpdateShop(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var p domain.ShopPatch
	if err := decodeJSON(w, r, &p); err != nil {
		writeBadRequest(w, err)
		return
	}

	shop, result, err := s.service.UpdateShop(r.Context(), id, p)
	if err != nil {
		s.writeServiceError(w, err, "update shop failed", "shop_id", id)
		return
	}
	if !result.IsValid() {
		s.writeInvalid(w, result)
		return
	}
	if shop == nil {
		s.writeNotFound(w, "shop")
		return
	}
	writeJSON(w, http.StatusOK, shop, s.logger)
}

func (s *Server) handleDeleteShop(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	ok, err := s.service.DeleteShop(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err, "delete shop failed", "shop_id", id)
		return
	}
	if !ok {
		s.writeNotFound(w, "shop")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
