package httpapi

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/bansalmayank64/membership-management-system-sub000/internal/config"
	"github.com/bansalmayank64/membership-management-system-sub000/internal/domain"
	"github.com/bansalmayank64/membership-management-system-sub000/internal/nlsql"
	"github.com/bansalmayank64/membership-management-system-sub000/internal/repo"
)

// --- test config and engine helpers ---

func testConfig() config.Config {
	return config.Config{
		APIBasePath: "/api/v1",
		RateRPS:     100,
		RateBurst:   50,
		CORS:        config.CORSConfig{AllowedOrigins: nil}, // triggers AllowAllOrigins branch
		Security:    config.SecurityConfig{EnableHSTS: false, HSTSMaxAge: 0},
		OTEL:        config.OTELConfig{ServiceName: "test-svc"},
		Assistant: config.AssistantConfig{
			Provider:        "demo",
			FallbackEnabled: true,
			SchemaCacheTTL:  time.Hour,
			MemoryMaxTurns:  10,
			MemoryTTL:       30 * time.Minute,
			MaxRetries:      3,
			RowLimit:        100,
		},
	}
}

func newTestEngine(t *testing.T, cfg config.Config) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := repo.OpenSQLite(filepath.Join(t.TempDir(), "router_test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	r := gin.New()
	if err := RegisterRoutes(r, db, cfg); err != nil {
		t.Fatalf("RegisterRoutes: %v", err)
	}
	return r, db
}

func serve(r *gin.Engine, method, path, body string, hdr map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// --- tests ---

func TestRegisterRoutes_HealthMetricsFallbacks(t *testing.T) {
	r, _ := newTestEngine(t, testConfig())

	w := serve(r, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("health: %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("ACAO = %q, want *", got)
	}

	if w := serve(r, http.MethodGet, "/metrics", "", nil); w.Code != http.StatusOK {
		t.Fatalf("metrics: %d", w.Code)
	}

	w = serve(r, http.MethodGet, "/no/such/route", "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("no-route: %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "not_found") {
		t.Errorf("no-route body = %s", w.Body.String())
	}

	w = serve(r, http.MethodPatch, "/health", "", nil)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("no-method: %d", w.Code)
	}
}

func TestRegisterRoutes_SwaggerToggle(t *testing.T) {
	cfg := testConfig()
	r, _ := newTestEngine(t, cfg)
	if w := serve(r, http.MethodGet, "/swagger/index.html", "", nil); w.Code != http.StatusNotFound {
		t.Fatalf("swagger disabled: %d, want 404", w.Code)
	}

	cfg.SwaggerEnabled = true
	r, _ = newTestEngine(t, cfg)
	if w := serve(r, http.MethodGet, "/swagger/index.html", "", nil); w.Code == http.StatusNotFound {
		t.Fatalf("swagger enabled still 404")
	}
}

func TestAssistantQuery_EndToEnd(t *testing.T) {
	r, db := newTestEngine(t, testConfig())

	seed := func(name, status string) {
		t.Helper()
		st := domain.Student{ID: name, Name: name, MembershipStatus: status,
			MembershipTill: time.Now().AddDate(0, 1, 0)}
		if err := db.Create(&st).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	seed("a1", domain.StatusActive)
	seed("a2", domain.StatusActive)
	seed("e1", domain.StatusExpired)

	w := serve(r, http.MethodPost, "/api/v1/assistant/query",
		`{"question":"how many active students do we have?"}`,
		map[string]string{"X-User-ID": "router-user"})
	if w.Code != http.StatusOK {
		t.Fatalf("query: %d, body = %s", w.Code, w.Body.String())
	}

	var resp nlsql.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !resp.Success {
		t.Fatalf("resp = %+v", resp)
	}
	if resp.Metadata.Provider != "deterministic" {
		t.Errorf("provider = %q", resp.Metadata.Provider)
	}
	if !strings.Contains(resp.Presentation, "2") {
		t.Errorf("presentation = %q, want the active count 2", resp.Presentation)
	}
	if !strings.Contains(strings.ToUpper(resp.Metadata.SQL), "COUNT") {
		t.Errorf("sql = %q", resp.Metadata.SQL)
	}

	// Clearing the conversation memory is a 204.
	if w := serve(r, http.MethodDelete, "/api/v1/assistant/history", "",
		map[string]string{"X-User-ID": "router-user"}); w.Code != http.StatusNoContent {
		t.Fatalf("clear history: %d", w.Code)
	}

	// The question lands in the frequency report.
	w = serve(r, http.MethodGet, "/api/v1/assistant/frequent", "",
		map[string]string{"X-User-ID": "router-user"})
	if w.Code != http.StatusOK {
		t.Fatalf("frequent: %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "how many active students") {
		t.Errorf("frequent body = %s", w.Body.String())
	}
}

func TestAssistantMode_Endpoints(t *testing.T) {
	r, _ := newTestEngine(t, testConfig())

	w := serve(r, http.MethodGet, "/api/v1/assistant/mode", "", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "demo") {
		t.Fatalf("mode: %d %s", w.Code, w.Body.String())
	}

	// Hosted is unconfigured in tests, so switching to it is a 400.
	w = serve(r, http.MethodPut, "/api/v1/assistant/mode", `{"mode":"hosted"}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("switch to unconfigured: %d, body = %s", w.Code, w.Body.String())
	}
}

func TestStudentsEndpoints_EndToEnd(t *testing.T) {
	r, db := newTestEngine(t, testConfig())

	st := domain.Student{ID: "11111111-1111-4111-8111-111111111111", Name: "Asha",
		MembershipStatus: domain.StatusActive,
		MembershipTill:   time.Now().AddDate(0, 0, 3)}
	if err := db.Create(&st).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	w := serve(r, http.MethodGet, "/api/v1/students?status=active", "", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Asha") {
		t.Fatalf("list: %d %s", w.Code, w.Body.String())
	}

	w = serve(r, http.MethodGet, "/api/v1/students/expiring?days=7", "", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Asha") {
		t.Fatalf("expiring: %d %s", w.Code, w.Body.String())
	}

	w = serve(r, http.MethodGet, "/api/v1/students/"+st.ID, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get: %d", w.Code)
	}

	w = serve(r, http.MethodGet, "/api/v1/dashboard/stats", "", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "active_students") {
		t.Fatalf("stats: %d %s", w.Code, w.Body.String())
	}
}

func TestResponsesAreGzippedWhenAccepted(t *testing.T) {
	r, _ := newTestEngine(t, testConfig())

	w := serve(r, http.MethodGet, "/api/v1/students", "",
		map[string]string{"Accept-Encoding": "gzip"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := w.Header().Get("Content-Encoding"); got != "gzip" {
		t.Fatalf("Content-Encoding = %q", got)
	}
	zr, err := gzip.NewReader(w.Body)
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	body, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(body), "pagination") {
		t.Errorf("body = %s", body)
	}
}

func TestInvalidUserIDHeaderIsRejected(t *testing.T) {
	r, _ := newTestEngine(t, testConfig())

	w := serve(r, http.MethodGet, "/api/v1/students", "",
		map[string]string{"X-User-ID": "two words"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
