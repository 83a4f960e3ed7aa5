// Package httpapi serves the JSON API over net/http.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/mmynk/caterbase/internal/auth"
	"github.com/mmynk/caterbase/internal/menuimport"
	"github.com/mmynk/caterbase/internal/metrics"
	"github.com/mmynk/caterbase/internal/middleware"
	"github.com/mmynk/caterbase/internal/service"
	"github.com/mmynk/caterbase/internal/storage"
)

const maxBodyBytes = 4 << 20

// errBadRequest marks request decoding failures.
var errBadRequest = errors.New("bad request")

// Deps are the collaborators of the API. Metrics may be nil.
type Deps struct {
	Auth      *service.AuthService
	Estimates *service.EstimateService
	Catalog   *service.CatalogService
	JWT       *auth.JWTManager
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
}

// Server holds the handlers.
type Server struct {
	auth      *service.AuthService
	estimates *service.EstimateService
	catalog   *service.CatalogService
	jwt       *auth.JWTManager
	metrics   *metrics.Metrics
	logger    *slog.Logger
	validate  *validator.Validate
}

// NewServer creates a Server.
func NewServer(d Deps) *Server {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		auth:      d.Auth,
		estimates: d.Estimates,
		catalog:   d.Catalog,
		jwt:       d.JWT,
		metrics:   d.Metrics,
		logger:    logger,
		validate:  newValidator(),
	}
}

// newValidator validates decimals as numbers so min/max tags apply to
// money fields, and reports json field names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Routes returns the API handler. Everything under /api except register,
// login and the waiter calculator needs a bearer token.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	protected := middleware.RequireAuth(s.jwt)
	handle := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, protected(h))
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}

	mux.HandleFunc("POST /api/register", s.handleRegister)
	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.HandleFunc("GET /api/waiters", s.handleWaiters)
	mux.HandleFunc("GET /api/menu-items/template.csv", s.handleImportTemplate)

	handle("GET /api/menu-items", s.handleListMenuItems)
	handle("POST /api/menu-items", s.handleCreateMenuItem)
	handle("PUT /api/menu-items/{id}", s.handleUpdateMenuItem)
	handle("POST /api/menu-items/import", s.handleImportMenu)
	handle("GET /api/categories", s.handleListCategories)
	handle("GET /api/extras", s.handleListExtras)
	handle("POST /api/extras", s.handleCreateExtra)
	handle("PUT /api/extras/{id}", s.handleUpdateExtra)
	handle("GET /api/templates", s.handleListTemplates)
	handle("POST /api/templates", s.handleSaveTemplate)

	handle("GET /api/estimates", s.handleListEstimates)
	handle("POST /api/estimates", s.handleCreateEstimate)
	handle("GET /api/estimates/{id}", s.handleGetEstimate)
	handle("PUT /api/estimates/{id}", s.handleUpdateEstimate)
	handle("DELETE /api/estimates/{id}", s.handleDeleteEstimate)
	handle("GET /api/estimates/{id}/breakdown", s.handleBreakdown)
	handle("GET /api/estimates/{id}/export.xlsx", s.handleExportXLSX)
	handle("POST /api/estimates/{id}/invoice", s.handleConvertToInvoice)
	handle("POST /api/estimates/{id}/recalculate", s.handleRecalculate)

	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decode reads a JSON body into dst and validates it.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON: %v", errBadRequest, err)
	}
	return s.validate.Struct(dst)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}

// writeError maps sentinel errors to status codes. Unknown errors are
// logged and reported as 500 without detail.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		resp := errorResponse{Error: "validation failed"}
		for _, fe := range verrs {
			resp.Fields = append(resp.Fields, fmt.Sprintf("%s: %s", fe.Namespace(), fe.Tag()))
		}
		writeJSON(w, http.StatusBadRequest, resp)
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, menuimport.ErrMalformed),
		errors.Is(err, auth.ErrWeakPassword):
		status = http.StatusBadRequest
	case errors.Is(err, storage.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, storage.ErrConflict), errors.Is(err, auth.ErrEmailExists):
		status = http.StatusConflict
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken):
		status = http.StatusUnauthorized
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		msg = "internal error"
	}
	writeJSON(w, status, errorResponse{Error: msg})
}
