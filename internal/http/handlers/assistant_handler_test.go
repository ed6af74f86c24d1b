package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bansalmayank64/membership-management-system-sub000/internal/domain"
	"github.com/bansalmayank64/membership-management-system-sub000/internal/genai"
	"github.com/bansalmayank64/membership-management-system-sub000/internal/nlsql"
	"github.com/bansalmayank64/membership-management-system-sub000/internal/services"
)

// fakeAssistant is a scriptable AssistantService.
type fakeAssistant struct {
	resp      nlsql.Response
	askErr    error
	switchErr error
	mode      string

	askedUser  string
	askedQ     string
	clearedFor string
	top        []domain.QueryFrequency
	topErr     error
}

func (f *fakeAssistant) Ask(_ context.Context, userID, question string) (nlsql.Response, error) {
	f.askedUser, f.askedQ = userID, question
	return f.resp, f.askErr
}

func (f *fakeAssistant) ClearHistory(_ context.Context, userID string) { f.clearedFor = userID }

func (f *fakeAssistant) TopQueries(_ context.Context, _ string, _ int) ([]domain.QueryFrequency, error) {
	return f.top, f.topErr
}

func (f *fakeAssistant) SwitchMode(_ context.Context, mode string) error {
	if f.switchErr != nil {
		return f.switchErr
	}
	f.mode = mode
	return nil
}

func (f *fakeAssistant) Mode() string { return f.mode }

func newAssistantRouter(svc AssistantService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := New(svc, nil)
	r.POST("/assistant/query", h.PostQuery)
	r.DELETE("/assistant/history", h.ClearHistory)
	r.GET("/assistant/frequent", h.FrequentQueries)
	r.GET("/assistant/mode", h.GetMode)
	r.PUT("/assistant/mode", h.SwitchMode)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body string, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body == "" {
		rd = bytes.NewReader(nil)
	} else {
		rd = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPostQuery_OK(t *testing.T) {
	svc := &fakeAssistant{resp: nlsql.Response{
		Success:      true,
		Presentation: "There are 12 active students.",
		Metadata:     nlsql.Metadata{Provider: "deterministic"},
	}}
	r := newAssistantRouter(svc)

	w := doJSON(t, r, http.MethodPost, "/assistant/query",
		`{"question":"how many active students?"}`,
		map[string]string{"X-User-ID": "user123"})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if svc.askedUser != "user123" {
		t.Errorf("user = %q", svc.askedUser)
	}
	var resp nlsql.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !resp.Success || resp.Presentation == "" {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestPostQuery_PipelineFailureIsStill200(t *testing.T) {
	svc := &fakeAssistant{resp: nlsql.Response{Success: false, Presentation: "Sorry."}}
	r := newAssistantRouter(svc)

	w := doJSON(t, r, http.MethodPost, "/assistant/query", `{"question":"weird"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("pipeline failure must stay 200, got %d", w.Code)
	}
	var resp nlsql.Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Success {
		t.Fatalf("success flag lost")
	}
}

func TestPostQuery_BadInput(t *testing.T) {
	cases := map[string]struct {
		body   string
		askErr error
	}{
		"malformed json": {body: `{"question":`},
		"missing field":  {body: `{}`},
		"empty question": {body: `{"question":"  "}`, askErr: services.ErrEmptyQuestion},
		"too long":       {body: `{"question":"x"}`, askErr: services.ErrQuestionTooLong},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			r := newAssistantRouter(&fakeAssistant{askErr: tc.askErr})
			w := doJSON(t, r, http.MethodPost, "/assistant/query", tc.body, nil)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			var er ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if er.Code != ErrCodeBadRequest {
				t.Errorf("code = %q", er.Code)
			}
		})
	}
}

func TestClearHistory(t *testing.T) {
	svc := &fakeAssistant{}
	r := newAssistantRouter(svc)

	w := doJSON(t, r, http.MethodDelete, "/assistant/history", "", map[string]string{"X-User-ID": "u9"})
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}
	if svc.clearedFor != "u9" {
		t.Errorf("cleared for %q", svc.clearedFor)
	}
}

func TestFrequentQueries(t *testing.T) {
	last := time.Date(2025, 4, 2, 10, 30, 0, 0, time.UTC)
	svc := &fakeAssistant{top: []domain.QueryFrequency{
		{ExampleText: "How many active students?", Count: 12, LastUsed: last},
		{ExampleText: "revenue this month", Count: 3, LastUsed: last},
	}}
	r := newAssistantRouter(svc)

	w := doJSON(t, r, http.MethodGet, "/assistant/frequent?limit=5", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp FrequentQueriesResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Queries) != 2 || resp.Queries[0].Count != 12 {
		t.Fatalf("resp = %+v", resp)
	}
	if resp.Queries[0].LastUsed != "2025-04-02T10:30:00Z" {
		t.Errorf("last_used = %q", resp.Queries[0].LastUsed)
	}
}

func TestSwitchMode_HTTP(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeAssistant{mode: "demo"}
		r := newAssistantRouter(svc)
		w := doJSON(t, r, http.MethodPut, "/assistant/mode", `{"mode":"Local"}`, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}
		if svc.mode != "local" {
			t.Errorf("mode = %q, want lowercase local", svc.mode)
		}
	})

	t.Run("unknown mode", func(t *testing.T) {
		svc := &fakeAssistant{switchErr: genai.ErrUnknownMode}
		r := newAssistantRouter(svc)
		w := doJSON(t, r, http.MethodPut, "/assistant/mode", `{"mode":"quantum"}`, nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
	})

	t.Run("provider unreachable", func(t *testing.T) {
		svc := &fakeAssistant{switchErr: errors.New("connection refused")}
		r := newAssistantRouter(svc)
		w := doJSON(t, r, http.MethodPut, "/assistant/mode", `{"mode":"hosted"}`, nil)
		if w.Code != http.StatusBadGateway {
			t.Fatalf("status = %d, want 502", w.Code)
		}
		var er ErrorResponse
		_ = json.Unmarshal(w.Body.Bytes(), &er)
		if er.Code != ErrCodeModeSwitchFailed {
			t.Errorf("code = %q", er.Code)
		}
	})

	t.Run("missing mode", func(t *testing.T) {
		r := newAssistantRouter(&fakeAssistant{})
		w := doJSON(t, r, http.MethodPut, "/assistant/mode", `{}`, nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
	})
}

func TestUserID_Fallbacks(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	if got := userID(c); got != "demo-user" {
		t.Errorf("default = %q", got)
	}

	c.Request.Header.Set("X-User-ID", "hdr-user")
	if got := userID(c); got != "hdr-user" {
		t.Errorf("header = %q", got)
	}

	c.Set("userID", "ctx-user")
	if got := userID(c); got != "ctx-user" {
		t.Errorf("context wins: %q", got)
	}
}
