package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/caterbase/internal/auth"
	"github.com/mmynk/caterbase/internal/metrics"
	"github.com/mmynk/caterbase/internal/service"
	"github.com/mmynk/caterbase/internal/storage"
	"github.com/mmynk/caterbase/internal/storage/sqlite"
)

type testAPI struct {
	t      *testing.T
	server *httptest.Server
}

func setupTestServer(t *testing.T) *testAPI {
	t.Helper()

	store, err := sqlite.New(t.TempDir() + "/api.db")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.New()
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	newAuth := func(s storage.Store) auth.Authenticator {
		return auth.NewPasswordAuthenticator(s).WithCost(bcrypt.MinCost)
	}
	estimates := service.NewEstimateService(store, m, logger)

	srv := NewServer(Deps{
		Auth:      service.NewAuthService(store, newAuth, jwtManager, logger),
		Estimates: estimates,
		Catalog:   service.NewCatalogService(store, estimates, m, logger),
		JWT:       jwtManager,
		Metrics:   m,
		Logger:    logger,
	})
	server := httptest.NewServer(srv.Routes())
	t.Cleanup(server.Close)
	return &testAPI{t: t, server: server}
}

// do sends body as JSON (or raw when it is an io.Reader) and decodes a
// JSON response into out when out is non-nil.
func (a *testAPI) do(method, path, token string, body any, out any) *http.Response {
	a.t.Helper()
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case io.Reader:
		rd = b
	default:
		buf, err := json.Marshal(b)
		if err != nil {
			a.t.Fatalf("marshal: %v", err)
		}
		rd = bytes.NewReader(buf)
	}
	req, err := http.NewRequest(method, a.server.URL+path, rd)
	if err != nil {
		a.t.Fatalf("new request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		a.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		a.t.Fatalf("read body: %v", err)
	}
	if out != nil && resp.StatusCode < 300 {
		if err := json.Unmarshal(data, out); err != nil {
			a.t.Fatalf("decode %s %s: %v: %s", method, path, err, data)
		}
	}
	resp.Body = io.NopCloser(bytes.NewReader(data))
	return resp
}

func (a *testAPI) register(business, email string) string {
	a.t.Helper()
	var session sessionView
	resp := a.do(http.MethodPost, "/api/register", "", map[string]string{
		"business_name": business,
		"email":         email,
		"display_name":  "Owner",
		"password":      "password123",
	}, &session)
	if resp.StatusCode != http.StatusCreated {
		a.t.Fatalf("register status = %d", resp.StatusCode)
	}
	return session.Token
}

func expectStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("%s %s status = %d, want %d: %s", resp.Request.Method, resp.Request.URL.Path, resp.StatusCode, want, body)
	}
}

func TestEstimateFlow(t *testing.T) {
	api := setupTestServer(t)
	token := api.register("Olive & Fig Catering", "chef@example.com")

	var steak menuItemView
	resp := api.do(http.MethodPost, "/api/menu-items", token, map[string]any{
		"category":         "Mains",
		"name":             "Steak Strip",
		"cost_per_serving": "10.00",
		"markup":           "3",
	}, &steak)
	expectStatus(t, resp, http.StatusCreated)
	if steak.PricePerServing != "30.00" || steak.Category != "Mains" {
		t.Errorf("steak = %+v", steak)
	}

	var favors extraView
	resp = api.do(http.MethodPost, "/api/extras", token, map[string]any{
		"name":        "Favors",
		"charge_type": "PER_PERSON",
		"price":       "5",
	}, &favors)
	expectStatus(t, resp, http.StatusCreated)

	var est estimateView
	resp = api.do(http.MethodPost, "/api/estimates", token, map[string]any{
		"customer_name":  "Dana Levi",
		"event_date":     "2026-06-14",
		"guest_count":    20,
		"a_la_carte":     true,
		"meal_plan_text": "Dinner",
		"foods":          []map[string]any{{"menu_item_id": steak.ID}},
		"extras":         []map[string]any{{"extra_item_id": favors.ID}},
	}, &est)
	expectStatus(t, resp, http.StatusCreated)

	if est.Number != 1000 || est.EventDate != "2026-06-14" || est.MealPlan[0] != "Dinner" {
		t.Errorf("estimate = %+v", est)
	}
	if est.Totals.GrandTotal != "700.00" || est.Totals.DepositAmount != "210.00" || est.Totals.BalanceDue != "490.00" {
		t.Errorf("totals = %+v", est.Totals)
	}

	var b breakdownView
	resp = api.do(http.MethodGet, "/api/estimates/"+est.ID+"/breakdown", token, nil, &b)
	expectStatus(t, resp, http.StatusOK)
	if len(b.Meals) != 1 || b.Meals[0].Name != "Dinner" || b.Meals[0].Total != "600.00" {
		t.Errorf("meals = %+v", b.Meals)
	}
	if len(b.Extras) != 1 || b.Extras[0].Amount != "100.00" || b.PerGuest != "35.00" {
		t.Errorf("breakdown = %+v", b)
	}

	// Raising the price re-prices the stored estimate.
	resp = api.do(http.MethodPut, "/api/menu-items/"+steak.ID, token, map[string]any{
		"category":         "Mains",
		"name":             "Steak Strip",
		"cost_per_serving": "12.00",
	}, nil)
	expectStatus(t, resp, http.StatusOK)
	var got estimateView
	resp = api.do(http.MethodGet, "/api/estimates/"+est.ID, token, nil, &got)
	expectStatus(t, resp, http.StatusOK)
	if got.Totals.FoodPricePerPerson != "36.00" {
		t.Errorf("food per person after price change = %s, want 36.00", got.Totals.FoodPricePerPerson)
	}

	resp = api.do(http.MethodGet, "/api/estimates/"+est.ID+"/export.xlsx", token, nil, nil)
	expectStatus(t, resp, http.StatusOK)
	f, err := excelize.OpenReader(resp.Body)
	if err != nil {
		t.Fatalf("OpenReader failed: %v", err)
	}
	title, _ := f.GetCellValue("Summary", "A1")
	f.Close()
	if title != "Estimate #1000" {
		t.Errorf("workbook title = %q", title)
	}

	var inv estimateView
	resp = api.do(http.MethodPost, "/api/estimates/"+est.ID+"/invoice", token, nil, &inv)
	expectStatus(t, resp, http.StatusOK)
	if !inv.IsInvoice || inv.Number != 1000 {
		t.Errorf("invoice = %+v", inv)
	}

	var list []estimateView
	resp = api.do(http.MethodGet, "/api/estimates", token, nil, &list)
	expectStatus(t, resp, http.StatusOK)
	if len(list) != 1 {
		t.Errorf("got %d estimates, want 1", len(list))
	}

	resp = api.do(http.MethodDelete, "/api/estimates/"+est.ID, token, nil, nil)
	expectStatus(t, resp, http.StatusNoContent)
	resp = api.do(http.MethodGet, "/api/estimates/"+est.ID, token, nil, nil)
	expectStatus(t, resp, http.StatusNotFound)
}

func TestValidationAndErrors(t *testing.T) {
	api := setupTestServer(t)
	token := api.register("Olive & Fig Catering", "chef@example.com")

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   any
		want   int
	}{
		{"no token", http.MethodGet, "/api/estimates", "", nil, http.StatusUnauthorized},
		{"bad token", http.MethodGet, "/api/estimates", "nope", nil, http.StatusUnauthorized},
		{"missing customer", http.MethodPost, "/api/estimates", token, map[string]any{"guest_count": 10}, http.StatusBadRequest},
		{"negative guests", http.MethodPost, "/api/estimates", token, map[string]any{"customer_name": "A", "guest_count": -1}, http.StatusBadRequest},
		{"deposit over 100", http.MethodPost, "/api/estimates", token, map[string]any{"customer_name": "A", "deposit_percentage": "101"}, http.StatusBadRequest},
		{"bad date", http.MethodPost, "/api/estimates", token, map[string]any{"customer_name": "A", "event_date": "14/06/2026"}, http.StatusBadRequest},
		{"unknown item", http.MethodPost, "/api/estimates", token, map[string]any{"customer_name": "A", "foods": []map[string]any{{"menu_item_id": "nope"}}}, http.StatusBadRequest},
		{"bad json", http.MethodPost, "/api/estimates", token, strings.NewReader("{"), http.StatusBadRequest},
		{"missing estimate", http.MethodGet, "/api/estimates/nope", token, nil, http.StatusNotFound},
		{"bad charge type", http.MethodPost, "/api/extras", token, map[string]any{"name": "X", "charge_type": "HOURLY"}, http.StatusBadRequest},
		{"duplicate email", http.MethodPost, "/api/register", "", map[string]string{"business_name": "B", "email": "chef@example.com", "display_name": "C", "password": "password123"}, http.StatusConflict},
		{"weak password", http.MethodPost, "/api/register", "", map[string]string{"business_name": "B", "email": "b@example.com", "display_name": "C", "password": "short"}, http.StatusBadRequest},
		{"wrong password", http.MethodPost, "/api/login", "", map[string]string{"email": "chef@example.com", "password": "wrong-password"}, http.StatusUnauthorized},
		{"bad waiters query", http.MethodGet, "/api/waiters?guests=-3", "", nil, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := api.do(tt.method, tt.path, tt.token, tt.body, nil)
			expectStatus(t, resp, tt.want)
			var e errorResponse
			if err := json.NewDecoder(resp.Body).Decode(&e); err != nil || e.Error == "" {
				t.Errorf("expected JSON error body, got err=%v %+v", err, e)
			}
		})
	}
}

func TestTenantIsolation(t *testing.T) {
	api := setupTestServer(t)
	mine := api.register("Olive & Fig Catering", "chef@example.com")
	theirs := api.register("Other Kitchen", "other@example.com")

	var est estimateView
	resp := api.do(http.MethodPost, "/api/estimates", mine, map[string]any{"customer_name": "Dana"}, &est)
	expectStatus(t, resp, http.StatusCreated)

	for _, path := range []string{"/api/estimates/" + est.ID, "/api/estimates/" + est.ID + "/breakdown"} {
		resp = api.do(http.MethodGet, path, theirs, nil, nil)
		expectStatus(t, resp, http.StatusNotFound)
	}
	resp = api.do(http.MethodPut, "/api/estimates/"+est.ID, theirs, map[string]any{"customer_name": "Mallory"}, nil)
	expectStatus(t, resp, http.StatusNotFound)

	var list []estimateView
	resp = api.do(http.MethodGet, "/api/estimates", theirs, nil, &list)
	expectStatus(t, resp, http.StatusOK)
	if len(list) != 0 {
		t.Errorf("other tenant sees %d estimates", len(list))
	}
}

func TestImportMenu(t *testing.T) {
	api := setupTestServer(t)
	token := api.register("Olive & Fig Catering", "chef@example.com")

	resp := api.do(http.MethodGet, "/api/menu-items/template.csv", "", nil, nil)
	expectStatus(t, resp, http.StatusOK)
	template, _ := io.ReadAll(resp.Body)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "catalog.csv")
	if err != nil {
		t.Fatalf("CreateFormFile failed: %v", err)
	}
	part.Write(template)
	mw.Close()

	req, _ := http.NewRequest(http.MethodPost, api.server.URL+"/api/menu-items/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	httpResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("import request failed: %v", err)
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode != http.StatusOK {
		t.Fatalf("import status = %d", httpResp.StatusCode)
	}
	var res service.ImportResult
	if err := json.NewDecoder(httpResp.Body).Decode(&res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.MenuItems != 2 || res.Extras != 1 {
		t.Errorf("result = %+v, want 2 items and 1 extra", res)
	}

	var items []menuItemView
	resp = api.do(http.MethodGet, "/api/menu-items?active=true", token, nil, &items)
	expectStatus(t, resp, http.StatusOK)
	if len(items) != 2 {
		t.Errorf("got %d items, want 2", len(items))
	}

	// Raw CSV bodies work too, and malformed files are rejected.
	resp = api.do(http.MethodPost, "/api/menu-items/import", token, strings.NewReader("name\nx\n"), nil)
	expectStatus(t, resp, http.StatusBadRequest)
}

func TestWaitersAndHealth(t *testing.T) {
	api := setupTestServer(t)

	var got map[string]int
	resp := api.do(http.MethodGet, "/api/waiters?guests=130&extra=1", "", nil, &got)
	expectStatus(t, resp, http.StatusOK)
	if got["base_waiters"] != 6 || got["waiters"] != 7 {
		t.Errorf("waiters = %v, want base 6 and total 7", got)
	}

	resp = api.do(http.MethodGet, "/healthz", "", nil, nil)
	expectStatus(t, resp, http.StatusOK)

	resp = api.do(http.MethodGet, "/metrics", "", nil, nil)
	expectStatus(t, resp, http.StatusOK)
	metricsBody, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(metricsBody), "go_goroutines") {
		t.Error("metrics endpoint missing Go collector output")
	}
}
