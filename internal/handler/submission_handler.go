package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/parisxmas/formforge/internal/auth"
	"github.com/parisxmas/formforge/internal/service"
)

type SubmissionHandler struct {
	svc *service.SubmissionService
}

func NewSubmissionHandler(svc *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{svc: svc}
}

func (h *SubmissionHandler) List(w http.ResponseWriter, r *http.Request) {
	formID := chi.URLParam(r, "formId")
	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit == 0 {
		limit = 20
	}

	subs, total, err := h.svc.List(formID, skip, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"submissions": subs,
		"total":       total,
		"skip":        skip,
		"limit":       limit,
	})
}

func (h *SubmissionHandler) Create(w http.ResponseWriter, r *http.Request) {
	formID := chi.URLParam(r, "formId")
	claims := auth.GetUser(r.Context())

	var req struct {
		Data map[string]any `json:"data"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sub, err := h.svc.Create(formID, req.Data, claims.UserID)
	if err != nil {
		var fieldErrs service.FieldErrors
		if errors.As(err, &fieldErrs) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":  "validation failed",
				"fields": fieldErrs,
			})
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

func (h *SubmissionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "subId")
	sub, err := h.svc.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (h *SubmissionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "subId")
	if err := h.svc.Delete(id); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}
