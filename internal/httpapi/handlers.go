package httpapi

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/mmynk/caterbase/internal/export"
	"github.com/mmynk/caterbase/internal/menuimport"
	"github.com/mmynk/caterbase/internal/middleware"
	"github.com/mmynk/caterbase/internal/pricing"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	session, err := s.auth.Register(r.Context(), req.BusinessName, req.Email, req.DisplayName, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newSessionView(session))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	session, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newSessionView(session))
}

// handleWaiters is the staffing calculator: guests and extra query params.
func (s *Server) handleWaiters(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	guests, err := queryInt(q.Get("guests"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	extra, err := queryInt(q.Get("extra"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{
		"guests":       guests,
		"base_waiters": pricing.BaseWaiterCount(guests),
		"waiters":      pricing.WaiterCount(guests, extra),
	})
}

func queryInt(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q is not a non-negative integer", errBadRequest, raw)
	}
	return n, nil
}

func (s *Server) handleListMenuItems(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	items, err := s.catalog.ListMenuItems(r.Context(), middleware.GetTenantID(r.Context()), activeOnly)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	views := make([]menuItemView, 0, len(items))
	for _, it := range items {
		views = append(views, newMenuItemView(it))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleCreateMenuItem(w http.ResponseWriter, r *http.Request) {
	var req menuItemRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	item, err := s.catalog.CreateMenuItem(r.Context(), middleware.GetTenantID(r.Context()), req.toModel(), req.Category)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newMenuItemView(item))
}

func (s *Server) handleUpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	var req menuItemRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	tenantID := middleware.GetTenantID(r.Context())
	item := req.toModel()
	item.ID = r.PathValue("id")
	if req.Markup == nil || req.DefaultServingsPerPerson == nil {
		// Omitted fields keep their stored values.
		current, err := s.catalog.GetMenuItem(r.Context(), tenantID, item.ID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if req.Markup == nil {
			item.Markup = current.Markup
		}
		if req.DefaultServingsPerPerson == nil {
			item.DefaultServingsPerPerson = current.DefaultServingsPerPerson
		}
	}
	item, err := s.catalog.UpdateMenuItem(r.Context(), tenantID, item, req.Category)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newMenuItemView(item))
}

// handleImportMenu takes the CSV as a multipart "file" field or as the
// raw request body.
func (s *Server) handleImportMenu(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var src io.Reader = r.Body
	if mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mediaType == "multipart/form-data" {
		file, _, err := r.FormFile("file")
		if err != nil {
			s.writeError(w, r, fmt.Errorf("%w: file: %v", errBadRequest, err))
			return
		}
		defer file.Close()
		src = file
	}

	res, err := s.catalog.ImportCSV(r.Context(), middleware.GetTenantID(r.Context()), src)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleImportTemplate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="catalog_template.csv"`)
	if err := menuimport.Template(w); err != nil {
		s.logger.Error("Failed to write csv template", "error", err)
	}
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.catalog.ListCategories(r.Context(), middleware.GetTenantID(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	views := make([]categoryView, 0, len(cats))
	for _, c := range cats {
		views = append(views, categoryView{ID: c.ID, Name: c.Name, SortOrder: c.SortOrder})
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleListExtras(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	extras, err := s.catalog.ListExtraItems(r.Context(), middleware.GetTenantID(r.Context()), activeOnly)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	views := make([]extraView, 0, len(extras))
	for _, x := range extras {
		views = append(views, newExtraView(x))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleCreateExtra(w http.ResponseWriter, r *http.Request) {
	var req extraRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	extra, err := s.catalog.CreateExtraItem(r.Context(), middleware.GetTenantID(r.Context()), req.toModel())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newExtraView(extra))
}

func (s *Server) handleUpdateExtra(w http.ResponseWriter, r *http.Request) {
	var req extraRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	tenantID := middleware.GetTenantID(r.Context())
	extra := req.toModel()
	extra.ID = r.PathValue("id")
	if extra.Category == "" || extra.ChargeType == "" {
		current, err := s.catalog.GetExtraItem(r.Context(), tenantID, extra.ID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if extra.Category == "" {
			extra.Category = current.Category
		}
		if extra.ChargeType == "" {
			extra.ChargeType = current.ChargeType
		}
	}
	extra, err := s.catalog.UpdateExtraItem(r.Context(), tenantID, extra)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newExtraView(extra))
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := s.catalog.ListTemplates(r.Context(), middleware.GetTenantID(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	views := make([]templateView, 0, len(templates))
	for _, t := range templates {
		views = append(views, templateView{ID: t.ID, Name: t.Name, ItemIDs: t.ItemIDs})
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleSaveTemplate(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	tmpl, err := s.catalog.SaveTemplate(r.Context(), middleware.GetTenantID(r.Context()), req.Name, req.ItemIDs)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, templateView{ID: tmpl.ID, Name: tmpl.Name, ItemIDs: tmpl.ItemIDs})
}

func (s *Server) handleListEstimates(w http.ResponseWriter, r *http.Request) {
	estimates, err := s.estimates.ListEstimates(r.Context(), middleware.GetTenantID(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	views := make([]estimateView, 0, len(estimates))
	for _, e := range estimates {
		views = append(views, newEstimateView(e))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleCreateEstimate(w http.ResponseWriter, r *http.Request) {
	s.saveEstimate(w, r, "", http.StatusCreated)
}

func (s *Server) handleUpdateEstimate(w http.ResponseWriter, r *http.Request) {
	s.saveEstimate(w, r, r.PathValue("id"), http.StatusOK)
}

func (s *Server) saveEstimate(w http.ResponseWriter, r *http.Request, id string, status int) {
	var req estimateRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	tenantID := middleware.GetTenantID(r.Context())
	est, err := req.toModel(tenantID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	est.ID = id

	saved, err := s.estimates.SaveEstimate(r.Context(), tenantID, est, req.selection())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, status, newEstimateView(saved))
}

func (s *Server) handleGetEstimate(w http.ResponseWriter, r *http.Request) {
	est, err := s.estimates.GetEstimate(r.Context(), middleware.GetTenantID(r.Context()), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newEstimateView(est))
}

func (s *Server) handleDeleteEstimate(w http.ResponseWriter, r *http.Request) {
	if err := s.estimates.DeleteEstimate(r.Context(), middleware.GetTenantID(r.Context()), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	b, err := s.estimates.Breakdown(r.Context(), middleware.GetTenantID(r.Context()), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newBreakdownView(b))
}

func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	b, err := s.estimates.Breakdown(r.Context(), middleware.GetTenantID(r.Context()), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	f, err := export.Workbook(b)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="estimate-%d.xlsx"`, b.Estimate.Number))
	if err := f.Write(w); err != nil {
		s.logger.Error("Failed to write workbook", "estimate_id", b.Estimate.ID, "error", err)
	}
}

func (s *Server) handleConvertToInvoice(w http.ResponseWriter, r *http.Request) {
	est, err := s.estimates.ConvertToInvoice(r.Context(), middleware.GetTenantID(r.Context()), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newEstimateView(est))
}

func (s *Server) handleRecalculate(w http.ResponseWriter, r *http.Request) {
	est, err := s.estimates.Recalculate(r.Context(), middleware.GetTenantID(r.Context()), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newEstimateView(est))
}
