package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rawblock/shield-engine/internal/authn"
	"github.com/rawblock/shield-engine/internal/llm"
	"github.com/rawblock/shield-engine/internal/orchestrator"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	services := &orchestrator.Services{LLM: llm.NewStub()}
	verifier := &authn.Verifier{}
	hub := NewHub()
	go hub.Run()
	return SetupRouter(services, verifier, hub)
}

func TestHealthEndpointIsPublic(t *testing.T) {
	r := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestAnalyzeContractRejectsMissingAddress(t *testing.T) {
	r := newTestRouter()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze/contract", strings.NewReader(`{"chain":"ethereum"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing address, got %d", w.Code)
	}
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	r := newTestRouter()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(`{"chain":"ethereum"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty message, got %d", w.Code)
	}
}
