package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/vbonduro/shishalog/internal/domain"
	"github.com/vbonduro/shishalog/internal/service"
	"github.com/vbonduro/shishalog/internal/validation"
)

// flavorTypeResults maps flavor fields whose wrong JSON type is reported as a
// validation failure rather than a malformed body.
var flavorTypeResults = map[string]func() validation.Result{
	"shopId": validation.ShopIDType,
	"score":  validation.ScoreType,
}

// fieldTypeError carries the validation result for a mistyped flavor field.
type fieldTypeError struct {
	field  string
	result validation.Result
}

func (e *fieldTypeError) Error() string {
	return e.field + " has the wrong type"
}

func decodeFlavorPatch(w http.ResponseWriter, r *http.Request) (domain.FlavorPatch, error) {
	var p domain.FlavorPatch
	err := decodeJSON(w, r, &p)
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if result, ok := flavorTypeResults[typeErr.Field]; ok {
			return p, &fieldTypeError{field: typeErr.Field, result: result()}
		}
	}
	return p, err
}

func (s *Server) handleListFlavors(w http.ResponseWriter, r *http.Request) {
	q, err := parseFlavorQuery(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	flavors, err := s.service.QueryFlavors(r.Context(), q)
	if err != nil {
		s.writeServiceError(w, err, "list flavors failed")
		return
	}
	writeJSON(w, http.StatusOK, flavors, s.logger)
}

func parseFlavorQuery(r *http.Request) (service.FlavorQuery, error) {
	v := r.URL.Query()
	q := service.FlavorQuery{
		Query:  v.Get("q"),
		ShopID: v.Get("shopId"),
		Sort:   v.Get("sort"),
	}
	var err error
	if q.MinScore, err = scoreParam(v.Get("minScore")); err != nil {
		return q, fmt.Errorf("invalid minScore: %w", err)
	}
	if q.MaxScore, err = scoreParam(v.Get("maxScore")); err != nil {
		return q, fmt.Errorf("invalid maxScore: %w", err)
	}
	return q, nil
}

// scoreParam parses an optional score bound. An empty value is 0, which
// leaves that side of the range open.
func scoreParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n < 0 || n > domain.MaxScore {
		return 0, fmt.Errorf("%d is outside 0-%d", n, domain.MaxScore)
	}
	return n, nil
}

func (s *Server) handleValidateFlavor(w http.ResponseWriter, r *http.Request) {
	p, err := decodeFlavorPatch(w, r)
	var typeErr *fieldTypeError
	if errors.As(err, &typeErr) {
		writeJSON(w, http.StatusOK, typeErr.result, s.logger)
		return
	}
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.service.ValidateFlavor(p), s.logger)
}

func (s *Server) handleCreateFlavor(w http.ResponseWriter, r *http.Request) {
	p, err := decodeFlavorPatch(w, r)
	var typeErr *fieldTypeError
	if errors.As(err, &typeErr) {
		s.writeInvalid(w, typeErr.result)
		return
	}
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	flavor, result, err := s.service.CreateFlavor(r.Context(), p)
	if err != nil {
		s.writeServiceError(w, err, "create flavor failed")
		return
	}
	if !result.IsValid() {
		s.writeInvalid(w, result)
		return
	}
	writeJSON(w, http.StatusCreated, flavor, s.logger)
}

func (s *Server) handleGetFlavor(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	detail, err := s.service.GetFlavor(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err, "get flavor failed", "flavor_id", id)
		return
	}
	if detail == nil {
		s.writeNotFound(w, "flavor")
		return
	}
	writeJSON(w, http.StatusOK, detail, s.logger)
}

func (s *Server) handleUpdateFlavor(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	p, err := decodeFlavorPatch(w, r)
	var typeErr *fieldTypeError
	if errors.As(err, &typeErr) {
		s.writeInvalid(w, typeErr.result)
		return
	}
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	flavor, result, err := s.service.UpdateFlavor(r.Context(), id, p)
	if err != nil {
		s.writeServiceError(w, err, "update flavor failed", "flavor_id", id)
		return
	}
	if !result.IsValid() {
		s.writeInvalid(w, result)
		return
	}
	if flavor == nil {
		s.writeNotFound(w, "flavor")
		return
	}
	writeJSON(w, http.StatusOK, flavor, s.logger)
}

func (s *Server) handleDeleteFlavor(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	ok, err := s.service.DeleteFlavor(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err, "delete flavor failed", "flavor_id", id)
		return
	}
	if !ok {
		s.writeNotFound(w, "flavor")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
