package handler

import (
	"net/http"

	"github.com/parisxmas/formforge/internal/service"
)

type DashboardHandler struct {
	formSvc *service.FormService
	subSvc  *service.SubmissionService
}

func NewDashboardHandler(formSvc *service.FormService, subSvc *service.SubmissionService) *DashboardHandler {
	return &DashboardHandler{formSvc: formSvc, subSvc: subSvc}
}

func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	forms, _ := h.formSvc.List()

	totalSubs := 0
	formStats := make([]map[string]any, 0, len(forms))
	for _, f := range forms {
		count, _ := h.subSvc.CountByForm(f.ID)
		totalSubs += count

		derivedCount := 0
		for i := range f.Fields {
			if f.Fields[i].IsDerived() {
				derivedCount++
			}
		}
		formStats = append(formStats, map[string]any{
			"id":              f.ID,
			"name":            f.Name,
			"slug":            f.Slug,
			"submissionCount": count,
			"fieldCount":      len(f.Fields),
			"derivedCount":    derivedCount,
			"createdAt":       f.CreatedAt,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"formCount":       len(forms),
		"submissionCount": totalSubs,
		"forms":           formStats,
	})
}
