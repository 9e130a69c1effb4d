package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lecternlabs/lectern/internal/common"
)

func TestVersionHandler(t *testing.T) {
	handler := NewAPIHandler()
	req := httptest.NewRequest("GET", "/api/version", nil)
	rec := httptest.NewRecorder()

	handler.VersionHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if response["version"] != common.GetVersion() {
		t.Errorf("Expected version %q, got %q", common.GetVersion(), response["version"])
	}
	if response["full_version"] != common.GetFullVersion() {
		t.Errorf("Expected full_version %q, got %q", common.GetFullVersion(), response["full_version"])
	}
	if response["build"] == "" || response["git_commit"] == "" {
		t.Errorf("Expected build and git_commit to be present, got %v", response)
	}
}

func TestHealthHandler(t *testing.T) {
	handler := NewAPIHandler()
	req := httptest.NewRequest("GET", "/api/health", nil)
	rec := httptest.NewRecorder()

	handler.HealthHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response map[string]string
	json.NewDecoder(rec.Body).Decode(&response)
	if response["status"] != "ok" {
		t.Errorf("Expected status 'ok', got %q", response["status"])
	}
}

func TestNotFoundHandler(t *testing.T) {
	handler := NewAPIHandler()
	req := httptest.NewRequest("GET", "/api/bogus", nil)
	rec := httptest.NewRecorder()

	handler.NotFoundHandler(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected status 404, got %d", rec.Code)
	}

	var response map[string]interface{}
	json.NewDecoder(rec.Body).Decode(&response)
	if response["path"] != "/api/bogus" {
		t.Errorf("Expected path '/api/bogus', got %v", response["path"])
	}
}
