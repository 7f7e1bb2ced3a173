package webserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stake-plus/agentic-honeypot/src/agent"
	"github.com/stake-plus/agentic-honeypot/src/detector"
	"github.com/stake-plus/agentic-honeypot/src/honeypot/config"
	"github.com/stake-plus/agentic-honeypot/src/reporter"
	"github.com/stake-plus/agentic-honeypot/src/session"
	"github.com/stake-plus/agentic-honeypot/src/types"
)

const testAPIKey = "test-key"

func newTestRouter(t *testing.T, rep *reporter.Client) (*gin.Engine, session.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := session.NewMemoryStore(0)
	t.Cleanup(func() { store.Close() })

	if rep == nil {
		rep = reporter.New("", "")
	}
	cfg := config.Config{APIKey: testAPIKey}
	return New(cfg, store, detector.New(), agent.New(), rep), store
}

func postMessage(t *testing.T, router *gin.Engine, sessionID, text string) *httptest.ResponseRecorder {
	t.Helper()
	req := types.IncomingRequest{
		SessionID: sessionID,
		Message: types.Message{
			Sender:    types.SenderScammer,
			Text:      text,
			Timestamp: time.Now().UTC(),
		},
	}
	body, _ := json.Marshal(req)
	r := httptest.NewRequest(http.MethodPost, "/api/message", bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("x-api-key", testAPIKey)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, r)
	return rec
}

func TestProcessMessageRequiresAPIKey(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	r := httptest.NewRequest(http.MethodPost, "/api/message", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, r)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestProcessMessageRejectsMalformedBody(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	r := httptest.NewRequest(http.MethodPost, "/api/message", bytes.NewReader([]byte(`{"message":{}}`)))
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("x-api-key", testAPIKey)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, r)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestProcessMessageBankScamScenario(t *testing.T) {
	router, store := newTestRouter(t, nil)

	rec := postMessage(t, router, "scenario-1",
		"Your bank account will be blocked today. Verify immediately at http://fake-bank.com")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp types.AgentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "success" {
		t.Fatalf("status = %q", resp.Status)
	}
	if resp.Reply != "Who is this? Which bank are you calling from?" {
		t.Fatalf("expected first confusion-stage bank reply, got %q", resp.Reply)
	}

	snap, ok := store.Snapshot("scenario-1")
	if !ok {
		t.Fatal("session missing")
	}
	if !snap.ScamDetected {
		t.Fatal("scam not detected")
	}
	if snap.Stage != types.StageConfusion {
		t.Fatalf("stage = %s, want confusion", snap.Stage)
	}
	if snap.EngagementCount != 1 {
		t.Fatalf("engagement = %d, want 1", snap.EngagementCount)
	}
	// counterparty message plus agent reply
	if snap.MessageCount != 2 {
		t.Fatalf("history length = %d, want 2", snap.MessageCount)
	}
}

func TestScamDetectedStaysSticky(t *testing.T) {
	router, store := newTestRouter(t, nil)

	postMessage(t, router, "sticky",
		"URGENT: your bank account is suspended, verify now at http://fake-verify.xyz")
	postMessage(t, router, "sticky", "ok")

	snap, _ := store.Snapshot("sticky")
	if !snap.ScamDetected {
		t.Fatal("scamDetected must never revert")
	}
	if snap.EngagementCount != 2 {
		t.Fatalf("engagement = %d, want 2", snap.EngagementCount)
	}
}

func TestSufficientIntelligenceTriggersReport(t *testing.T) {
	delivered := make(chan types.FinalResult, 1)
	collector := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var result types.FinalResult
		_ = json.NewDecoder(r.Body).Decode(&result)
		delivered <- result
		w.WriteHeader(http.StatusOK)
	}))
	defer collector.Close()

	router, store := newTestRouter(t, reporter.New(collector.URL, ""))

	postMessage(t, router, "productive",
		"Urgent! Your bank account is suspended. Call me at 9876543210 immediately")
	postMessage(t, router, "productive",
		"Verify now at http://fake-bank-verify.xyz to unblock")

	select {
	case result := <-delivered:
		if result.SessionID != "productive" {
			t.Fatalf("wrong session reported: %+v", result)
		}
		if !result.ScamDetected {
			t.Fatal("report must carry the scam verdict")
		}
		if result.AgentNotes == "" {
			t.Fatal("report must carry agent notes")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("report never delivered")
	}

	snap, _ := store.Snapshot("productive")
	if !snap.Reported {
		t.Fatal("session not marked reported")
	}

	// A further message still gets a reply but must not re-report.
	rec := postMessage(t, router, "productive", "are you still there? verify your account now")
	var resp types.AgentResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Reply == "" {
		t.Fatal("conversation must continue after reporting")
	}
	select {
	case result := <-delivered:
		t.Fatalf("second report dispatched: %+v", result)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestGetSessionIntrospection(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	postMessage(t, router, "inspect", "verify your bank account now")

	r := httptest.NewRequest(http.MethodGet, "/api/sessions/inspect", nil)
	r.Header.Set("x-api-key", testAPIKey)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, r)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var snap types.SessionSnapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.SessionID != "inspect" || snap.EngagementCount != 1 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestGetSessionNotFound(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	r := httptest.NewRequest(http.MethodGet, "/api/sessions/ghost", nil)
	r.Header.Set("x-api-key", testAPIKey)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, r)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestHealthEndpointOpen(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	for i := 0; i < 3; i++ {
		postMessage(t, router, fmt.Sprintf("h-%d", i), "hello")
	}

	r := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, r)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body struct {
		Status         string `json:"status"`
		ActiveSessions int    `json:"active_sessions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "healthy" || body.ActiveSessions != 3 {
		t.Fatalf("unexpected health body: %+v", body)
	}
}
