package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandlePromptsList_RequiresSession(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakeAgent{}, &fakeReviewGen{}, newFakeHistorian())

	rec := httptest.NewRecorder()
	s.handlePromptsList(rec, httptest.NewRequest(http.MethodGet, "/api/prompts", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandlePromptsList_Defaults(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakeAgent{}, &fakeReviewGen{}, newFakeHistorian())

	rec := httptest.NewRecorder()
	s.handlePromptsList(rec, httptest.NewRequest(http.MethodGet, "/api/prompts?session=s-1", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var resp promptsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Session != "s-1" {
		t.Errorf("Session = %q, want s-1", resp.Session)
	}
	if len(resp.Methods) != 4 {
		t.Fatalf("got %d methods, want 4", len(resp.Methods))
	}
	for _, m := range resp.Methods {
		if m.Overridden {
			t.Errorf("method %s reported overridden with no override stored", m.Key)
		}
		if m.Prompt == "" {
			t.Errorf("method %s has empty prompt", m.Key)
		}
		if m.Name == "" {
			t.Errorf("method %s has empty name", m.Key)
		}
	}
}

func TestHandlePromptsList_ShowsOverride(t *testing.T) {
	t.Parallel()

	hist := newFakeHistorian()
	hist.overrides["s-1"] = map[string]string{"2": "Ask about near misses only."}
	s := newTestServer(t, &fakeAgent{}, &fakeReviewGen{}, hist)

	rec := httptest.NewRecorder()
	s.handlePromptsList(rec, httptest.NewRequest(http.MethodGet, "/api/prompts?session=s-1", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp promptsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	for _, m := range resp.Methods {
		overridden := m.Key == "2"
		if m.Overridden != overridden {
			t.Errorf("method %s Overridden = %v, want %v", m.Key, m.Overridden, overridden)
		}
		if overridden && m.Prompt != "Ask about near misses only." {
			t.Errorf("method 2 prompt = %q, want the override", m.Prompt)
		}
	}
}

func promptPutReq(key, session, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPut, "/api/prompts/"+key+"?session="+session, strings.NewReader(body))
	req.SetPathValue("key", key)
	return req
}

func TestHandlePromptPut(t *testing.T) {
	t.Parallel()

	hist := newFakeHistorian()
	s := newTestServer(t, &fakeAgent{}, &fakeReviewGen{}, hist)

	rec := httptest.NewRecorder()
	s.handlePromptPut(rec, promptPutReq("3", "s-1", `{"prompt": "Challenge every assumption."}`))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var info promptInfo
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !info.Overridden || info.Prompt != "Challenge every assumption." {
		t.Errorf("response = %+v", info)
	}
	if hist.overrides["s-1"]["3"] != "Challenge every assumption." {
		t.Errorf("override not stored: %v", hist.overrides["s-1"])
	}
}

func TestHandlePromptPut_UnknownKey(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakeAgent{}, &fakeReviewGen{}, newFakeHistorian())

	rec := httptest.NewRecorder()
	s.handlePromptPut(rec, promptPutReq("9", "s-1", `{"prompt": "x"}`))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandlePromptPut_EmptyPrompt(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakeAgent{}, &fakeReviewGen{}, newFakeHistorian())

	rec := httptest.NewRecorder()
	s.handlePromptPut(rec, promptPutReq("1", "s-1", `{"prompt": "   "}`))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandlePromptPut_RequiresSession(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakeAgent{}, &fakeReviewGen{}, newFakeHistorian())

	req := httptest.NewRequest(http.MethodPut, "/api/prompts/1", strings.NewReader(`{"prompt": "x"}`))
	req.SetPathValue("key", "1")
	rec := httptest.NewRecorder()
	s.handlePromptPut(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandlePromptDelete(t *testing.T) {
	t.Parallel()

	hist := newFakeHistorian()
	hist.overrides["s-1"] = map[string]string{"2": "custom"}
	s := newTestServer(t, &fakeAgent{}, &fakeReviewGen{}, hist)

	req := httptest.NewRequest(http.MethodDelete, "/api/prompts/2?session=s-1", nil)
	req.SetPathValue("key", "2")
	rec := httptest.NewRecorder()
	s.handlePromptDelete(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if _, ok := hist.overrides["s-1"]["2"]; ok {
		t.Error("override still stored after delete")
	}
}

func TestHandlePromptDelete_AbsentOverride(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakeAgent{}, &fakeReviewGen{}, newFakeHistorian())

	req := httptest.NewRequest(http.MethodDelete, "/api/prompts/4?session=s-1", nil)
	req.SetPathValue("key", "4")
	rec := httptest.NewRecorder()
	s.handlePromptDelete(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
}

func TestHandlePromptDelete_UnknownKey(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, &fakeAgent{}, &fakeReviewGen{}, newFakeHistorian())

	req := httptest.NewRequest(http.MethodDelete, "/api/prompts/0?session=s-1", nil)
	req.SetPathValue("key", "0")
	rec := httptest.NewRecorder()
	s.handlePromptDelete(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
