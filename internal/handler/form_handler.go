package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/parisxmas/formforge/internal/auth"
	"github.com/parisxmas/formforge/internal/schema"
	"github.com/parisxmas/formforge/internal/service"
)

type FormHandler struct {
	svc *service.FormService
}

func NewFormHandler(svc *service.FormService) *FormHandler {
	return &FormHandler{svc: svc}
}

func (h *FormHandler) List(w http.ResponseWriter, r *http.Request) {
	forms, err := h.svc.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, forms)
}

func (h *FormHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name   string             `json:"name"`
		Fields []schema.FormField `json:"fields"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	claims := auth.GetUser(r.Context())
	form, err := h.svc.Create(req.Name, claims.UserID, req.Fields)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, form)
}

func (h *FormHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "formId")
	form, err := h.svc.Get(id)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, form)
}

// Saved forms are immutable snapshots, so there is no update route.
// Delete is the only mutation after create.
func (h *FormHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "formId")
	if err := h.svc.Delete(id); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

// Derive recomputes derived fields over the posted value set and returns
// the settled values. Backs the live preview.
func (h *FormHandler) Derive(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "formId")
	var req struct {
		Values map[string]any `json:"values"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	values, err := h.svc.Derive(id, req.Values)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"values": values})
}

// Validate checks the posted value set against the form's rules after
// recomputing derived fields, and returns per-field messages.
func (h *FormHandler) Validate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "formId")
	var req struct {
		Values map[string]any `json:"values"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	errs, values, err := h.svc.Validate(id, req.Values)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"valid":  len(errs) == 0,
		"errors": errs,
		"values": values,
	})
}
