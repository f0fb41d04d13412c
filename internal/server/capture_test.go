package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/megalab/halo/internal/capture"
	"github.com/megalab/halo/internal/prompts"
)

func captureReq(t *testing.T, body string) *http.Request {
	t.Helper()
	return httptest.NewRequest(http.MethodPost, "/api/capture", strings.NewReader(body))
}

func TestHandleCapture_Success(t *testing.T) {
	t.Parallel()

	agent := &fakeAgent{ex: &capture.Exchange{Method: "2", Reply: "tell me more", StoriesUsed: 2}}
	s := newTestServer(t, agent, &fakeReviewGen{}, newFakeHistorian())

	body := `{
		"sessionId": "s-1",
		"methodKey": "2",
		"message": "the night shift handoff is where things go wrong",
		"profile": {"name": "Kim", "domain": "plant operations"},
		"emotions": {"frustration": 0.7}
	}`
	rec := httptest.NewRecorder()
	s.handleCapture(rec, captureReq(t, body))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var resp captureResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !resp.Success {
		t.Error("Success = false, want true")
	}
	if resp.Exchange.Reply != "tell me more" {
		t.Errorf("Reply = %q", resp.Exchange.Reply)
	}
	if agent.session != "s-1" || agent.method != "2" {
		t.Errorf("agent called with session=%q method=%q", agent.session, agent.method)
	}
}

func TestHandleCapture_InvalidBody(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakeAgent{}, &fakeReviewGen{}, newFakeHistorian())

	rec := httptest.NewRecorder()
	s.handleCapture(rec, captureReq(t, "{not json"))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleCapture_MissingSession(t *testing.T) {
	t.Parallel()

	agent := &fakeAgent{}
	s := newTestServer(t, agent, &fakeReviewGen{}, newFakeHistorian())

	body := `{"methodKey": "1", "message": "hi"}`
	rec := httptest.NewRecorder()
	s.handleCapture(rec, captureReq(t, body))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if agent.method != "" {
		t.Error("agent was called despite missing sessionId")
	}
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding error response: %v", err)
	}
	if resp.Error != "invalid_request" {
		t.Errorf("Error = %q, want invalid_request", resp.Error)
	}
	if resp.Message != "sessionId is required" {
		t.Errorf("Message = %q", resp.Message)
	}
}

func TestHandleCapture_EmptyMessage(t *testing.T) {
	t.Parallel()

	agent := &fakeAgent{err: capture.ErrEmptyMessage}
	s := newTestServer(t, agent, &fakeReviewGen{}, newFakeHistorian())

	body := `{"sessionId": "s-1", "methodKey": "1", "message": ""}`
	rec := httptest.NewRecorder()
	s.handleCapture(rec, captureReq(t, body))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleCapture_UnknownMethod(t *testing.T) {
	t.Parallel()

	agent := &fakeAgent{err: fmt.Errorf("resolving prompt: %w", prompts.ErrUnknownMethod)}
	s := newTestServer(t, agent, &fakeReviewGen{}, newFakeHistorian())

	body := `{"sessionId": "s-1", "methodKey": "9", "message": "hi"}`
	rec := httptest.NewRecorder()
	s.handleCapture(rec, captureReq(t, body))

	// An unknown method key is a caller integration bug, not user input.
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestHandleCapture_CollaboratorFailure(t *testing.T) {
	t.Parallel()

	agent := &fakeAgent{err: fmt.Errorf("%w: connection refused", capture.ErrCollaborator)}
	s := newTestServer(t, agent, &fakeReviewGen{}, newFakeHistorian())

	body := `{"sessionId": "s-1", "methodKey": "1", "message": "hi"}`
	rec := httptest.NewRecorder()
	s.handleCapture(rec, captureReq(t, body))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "connection refused") {
		t.Errorf("response leaked collaborator error: %s", rec.Body.String())
	}
}

func TestHandleCapture_UnexpectedFailure(t *testing.T) {
	t.Parallel()

	agent := &fakeAgent{err: errors.New("history store corrupt")}
	s := newTestServer(t, agent, &fakeReviewGen{}, newFakeHistorian())

	body := `{"sessionId": "s-1", "methodKey": "1", "message": "hi"}`
	rec := httptest.NewRecorder()
	s.handleCapture(rec, captureReq(t, body))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}
