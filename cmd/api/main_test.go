package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"backoffice/config"
)

func testConfig(t *testing.T, env map[string]string) *config.Config {
	t.Helper()
	base := map[string]string{
		"JWT_SECRET":     "main-test-secret",
		"ADMIN_EMAIL":    "admin@example.com",
		"ADMIN_PASSWORD": "admin-password",
	}
	for k, v := range env {
		base[k] = v
	}
	cfg, err := config.FromLookup(func(k string) string { return base[k] })
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	return cfg
}

func TestBuildHandler_InMemory(t *testing.T) {
	cfg := testConfig(t, nil)

	handler, err := buildHandler(context.Background(), cfg, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("build handler: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"admin@example.com","password":"admin-password"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin login: expected 200, got %d: %s", rec.Code, rec.Body)
	}
	var login struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &login); err != nil || login.Token == "" {
		t.Fatalf("decode login: %v %q", err, rec.Body)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/ppd/summary", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("summary: expected 200, got %d", rec.Code)
	}
	var summary struct {
		Total int `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil || summary.Total == 0 {
		t.Fatalf("expected seeded ppd records, got %q (%v)", rec.Body, err)
	}
}

func TestBuildHandler_WithoutSeed(t *testing.T) {
	cfg := testConfig(t, map[string]string{"SEED_DATA": "false"})

	handler, err := buildHandler(context.Background(), cfg, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("build handler: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"admin@example.com","password":"admin-password"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	var login struct {
		Token string `json:"token"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &login)

	req = httptest.NewRequest(http.MethodGet, "/api/spk", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"total":0`) {
		t.Fatalf("expected an empty listing, got %d %s", rec.Code, rec.Body)
	}
}

func TestBuildHandler_RejectsUnknownAuthzMode(t *testing.T) {
	cfg := testConfig(t, map[string]string{"AUTHZ_MODE": "sometimes"})

	if _, err := buildHandler(context.Background(), cfg, nil, zap.NewNop()); err == nil {
		t.Fatal("expected an error for an unknown authz mode")
	}
}
