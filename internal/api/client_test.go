package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/M00N7682/pptpro/internal/deck"
)

type staticTokens struct{ token string }

func (s staticTokens) AccessToken() string { return s.token }

func newTestClient(t *testing.T, handler http.Handler, token string, onUnauthorized func()) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient(Config{BaseURL: server.URL}, staticTokens{token}, onUnauthorized, nil)
	return client, server
}

func TestClient_SetsAuthHeaders(t *testing.T) {
	var gotAuth, gotRequestID, gotAccept string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte(`{}`))
	}), "tok-123", nil)

	if err := client.do(context.Background(), "GET", "/auth/me", nil, nil); err != nil {
		t.Fatalf("do failed: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("Expected bearer header, got %q", gotAuth)
	}
	if gotRequestID == "" {
		t.Error("Expected X-Request-ID header")
	}
	if gotAccept != "application/json" {
		t.Errorf("Expected JSON accept header, got %q", gotAccept)
	}
}

func TestClient_NoTokenNoAuthHeader(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}), "", nil)

	if err := client.do(context.Background(), "GET", "/storyline/templates", nil, nil); err != nil {
		t.Fatalf("do failed: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("Expected no Authorization header when logged out, got %q", gotAuth)
	}
}

func TestClient_UnauthorizedTearsDownSession(t *testing.T) {
	tornDown := 0
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "token expired"}`))
	}), "stale", func() { tornDown++ })

	err := client.do(context.Background(), "GET", "/auth/me", nil, nil)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("Expected ErrUnauthorized, got %v", err)
	}
	if tornDown != 1 {
		t.Errorf("Expected teardown hook to fire once, fired %d times", tornDown)
	}
}

func TestClient_UnauthorizedEmptyBody(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}), "stale", nil)

	err := client.do(context.Background(), "GET", "/auth/me", nil, nil)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("Expected ErrUnauthorized, got %v", err)
	}
	if got := err.Error(); got != ErrUnauthorized.Error() {
		t.Errorf("Expected bare sentinel for an empty body, got %q", got)
	}
}

func TestClient_ErrorDetailPropagates(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail": "topic must not be empty"}`))
	}), "tok", nil)

	err := client.do(context.Background(), "POST", "/storyline/generate", map[string]string{}, nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422 status, got %d", apiErr.Status)
	}
	if apiErr.Detail != "topic must not be empty" {
		t.Errorf("Unexpected detail: %q", apiErr.Detail)
	}
	if ErrorDetail(err) != "topic must not be empty" {
		t.Errorf("ErrorDetail mismatch: %q", ErrorDetail(err))
	}
}

func TestClient_NonJSONErrorBody(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream down"))
	}), "tok", nil)

	err := client.do(context.Background(), "GET", "/projects/", nil, nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected APIError, got %v", err)
	}
	if apiErr.Detail != "upstream down" {
		t.Errorf("Expected raw body as detail, got %q", apiErr.Detail)
	}
}

func TestGenerateStoryline_Roundtrip(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/storyline/generate" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		var req StorylineRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Topic != "Q3 results" || !req.CreateProject {
			t.Errorf("Unexpected request payload: %+v", req)
		}
		json.NewEncoder(w).Encode(StorylineResult{
			Outline: []SlideOutline{
				{Order: 1, HeadMessage: "Revenue grew 12%", Purpose: "hook", TemplateSuggestion: "message_only"},
				{Order: 2, HeadMessage: "Costs held flat", Purpose: "evidence", TemplateSuggestion: "chart_insight"},
			},
			OverallNarrative: "growth with discipline",
			ProjectID:        "p-1",
		})
	}), "tok", nil)

	got, err := client.GenerateStoryline(context.Background(), StorylineRequest{
		Topic:         "Q3 results",
		Target:        "board",
		Goal:          "approve plan",
		CreateProject: true,
		ProjectTitle:  "Q3 Review",
	})
	if err != nil {
		t.Fatalf("GenerateStoryline failed: %v", err)
	}
	if len(got.Outline) != 2 {
		t.Fatalf("Expected 2 outline entries, got %d", len(got.Outline))
	}
	if got.ProjectID != "p-1" {
		t.Errorf("Expected project id p-1, got %q", got.ProjectID)
	}
	if got.Outline[1].TemplateSuggestion != string(deck.TemplateChartInsight) {
		t.Errorf("Unexpected suggestion: %q", got.Outline[1].TemplateSuggestion)
	}
}

func TestUpdateSlide_PartialPatch(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("Expected PATCH, got %s", r.Method)
		}
		var raw map[string]any
		json.NewDecoder(r.Body).Decode(&raw)
		if _, ok := raw["head_message"]; ok {
			t.Error("Nil fields must be omitted from the patch body")
		}
		if raw["status"] != "user_completed" {
			t.Errorf("Expected status in patch body, got %v", raw["status"])
		}
		json.NewEncoder(w).Encode(Slide{ID: "s-1", Status: "user_completed"})
	}), "tok", nil)

	status := deck.StatusUserCompleted
	got, err := client.UpdateSlide(context.Background(), "s-1", SlideUpdate{Status: &status})
	if err != nil {
		t.Fatalf("UpdateSlide failed: %v", err)
	}
	if got.Status != deck.StatusUserCompleted {
		t.Errorf("Expected user_completed, got %q", got.Status)
	}
}

func TestPreviewDeck_Summary(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ppt/preview/p-9" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(DeckPreview{
			Project: Project{ID: "p-9", Title: "Launch"},
			Slides: []PreviewSlide{
				{Order: 1, HeadMessage: "Why now", TemplateType: "message_only", Status: "user_completed", HasContent: true},
				{Order: 2, HeadMessage: "Roadmap", TemplateType: "step_flow", Status: "draft"},
			},
			Summary:     PreviewSummary{TotalSlides: 4, ContentSlides: 2, ReadySlides: 1, CompletionRate: 50},
			CanGenerate: true,
		})
	}), "tok", nil)

	got, err := client.PreviewDeck(context.Background(), "p-9")
	if err != nil {
		t.Fatalf("PreviewDeck failed: %v", err)
	}
	if !got.CanGenerate {
		t.Error("Expected can_generate true with one ready slide")
	}
	if got.Summary.TotalSlides != got.Summary.ContentSlides+2 {
		t.Errorf("Total slides should add title and closing: %+v", got.Summary)
	}
}

func TestGenerateDeck_StreamsBinary(t *testing.T) {
	payload := []byte{0x50, 0x4b, 0x03, 0x04, 0xde, 0xad, 0xbe, 0xef}
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("include_empty") != "true" {
			t.Errorf("Expected include_empty=true, got %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write(payload)
	}), "tok", nil)

	var buf bytes.Buffer
	n, err := client.GenerateDeck(context.Background(), "p-9", true, &buf)
	if err != nil {
		t.Fatalf("GenerateDeck failed: %v", err)
	}
	if n != int64(len(payload)) || !bytes.Equal(buf.Bytes(), payload) {
		t.Errorf("Streamed bytes mismatch: n=%d got=%x", n, buf.Bytes())
	}
}

func TestDeckFilename(t *testing.T) {
	at := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	if got := DeckFilename("Q3: Review/Plan", at); got != "Q3 ReviewPlan_2026-03-14.pptx" {
		t.Errorf("Unexpected filename %q", got)
	}
	if got := DeckFilename("  ", at); got != "presentation_2026-03-14.pptx" {
		t.Errorf("Expected fallback title, got %q", got)
	}
}
