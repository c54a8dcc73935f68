// Package wizard tests exercise the update loop against a stubbed backend.
package wizard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/M00N7682/pptpro/internal/api"
	"github.com/M00N7682/pptpro/internal/config"
	"github.com/M00N7682/pptpro/internal/deck"
	"github.com/M00N7682/pptpro/internal/draft"
	"github.com/M00N7682/pptpro/internal/workflow"
)

type testTokens struct{}

func (testTokens) AccessToken() string { return "t" }

func newTestModel(t *testing.T, handler http.Handler) Model {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.DefaultConfig()
	cfg.API.BaseURL = server.URL
	cfg.State.DownloadDir = t.TempDir()
	cfg.UI.Theme = "light"

	client := api.NewClient(api.Config{BaseURL: server.URL}, testTokens{}, nil, nil)
	drafts, err := draft.NewStore(filepath.Join(t.TempDir(), "drafts.db"), nil)
	if err != nil {
		t.Fatalf("draft store: %v", err)
	}
	t.Cleanup(func() { drafts.Close() })
	return New(cfg, workflow.New(client, drafts, nil), nil)
}

func stubBackend(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/storyline/generate", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.StorylineResult{
			Outline: []api.SlideOutline{
				{Order: 1, HeadMessage: "First", Purpose: "hook", TemplateSuggestion: "message_only"},
				{Order: 2, HeadMessage: "Second", Purpose: "proof", TemplateSuggestion: "case_box"},
			},
			OverallNarrative: "n",
			ProjectID:        "p-1",
		})
	})
	return mux
}

func typeInto(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(Model)
	}
	return m
}

func TestUpdate_WindowSize(t *testing.T) {
	m := newTestModel(t, stubBackend(t))

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	result := next.(Model)
	if result.width != 120 || result.height != 40 {
		t.Errorf("Expected 120x40, got %dx%d", result.width, result.height)
	}

	// zero and negative sizes must not panic
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Panic on degenerate window size: %v", r)
		}
	}()
	m.Update(tea.WindowSizeMsg{Width: 0, Height: 0})
	m.Update(tea.WindowSizeMsg{Width: -1, Height: -1})
}

func TestUpdate_CtrlCQuits(t *testing.T) {
	m := newTestModel(t, stubBackend(t))

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("Expected quit command")
	}
	if !next.(Model).quitting {
		t.Error("Expected quitting flag")
	}
}

func TestStorylineForm_TypingSavesDraft(t *testing.T) {
	m := newTestModel(t, stubBackend(t))

	m = typeInto(t, m, "Q3 results")

	if got := m.inputs[fieldTopic].Value(); got != "Q3 results" {
		t.Fatalf("Expected topic in focused input, got %q", got)
	}
	// the draft cache follows every keystroke
	req, found := m.flow.LoadDraft()
	if !found {
		t.Fatal("Expected a cached draft")
	}
	if req.Topic != "Q3 results" {
		t.Errorf("Draft topic mismatch: %q", req.Topic)
	}
}

func TestStorylineForm_TabMovesFocus(t *testing.T) {
	m := newTestModel(t, stubBackend(t))

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(Model)
	if m.focus != fieldTarget {
		t.Errorf("Expected focus on audience field, got %d", m.focus)
	}
	m = typeInto(t, m, "the board")
	if got := m.inputs[fieldTarget].Value(); got != "the board" {
		t.Errorf("Input went to the wrong field: %q", got)
	}
}

func TestStorylineForm_EnterRequiresAllFields(t *testing.T) {
	m := newTestModel(t, stubBackend(t))

	m = typeInto(t, m, "topic only")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if m.loading {
		t.Error("Generation must not start with empty fields")
	}
	if cmd != nil {
		t.Error("Expected no command for incomplete form")
	}
	if !strings.Contains(m.status, "required") {
		t.Errorf("Expected validation message, got %q", m.status)
	}
}

func TestStorylineFlow_GenerateAndAdvance(t *testing.T) {
	m := newTestModel(t, stubBackend(t))

	// generation is driven by the workflow; run it directly and feed the
	// completion message through Update like the command would
	if err := m.flow.GenerateStoryline(context.Background(), api.StorylineRequest{
		Topic: "t", Target: "a", Goal: "g", CreateProject: true, ProjectTitle: "T",
	}); err != nil {
		t.Fatalf("GenerateStoryline failed: %v", err)
	}
	next, _ := m.Update(storylineDoneMsg{})
	m = next.(Model)

	if m.loading {
		t.Error("Loading flag must clear on completion")
	}
	if m.flow.Step() != workflow.StepTemplates {
		t.Errorf("Expected templates step, got %v", m.flow.Step())
	}
	if !strings.Contains(m.status, "2 slides") {
		t.Errorf("Expected slide count in status, got %q", m.status)
	}
}

func TestTemplatesStep_PickAndGate(t *testing.T) {
	m := newTestModel(t, stubBackend(t))
	if err := m.flow.GenerateStoryline(context.Background(), api.StorylineRequest{
		Topic: "t", Target: "a", Goal: "g",
	}); err != nil {
		t.Fatalf("GenerateStoryline failed: %v", err)
	}

	// the recognized suggestion is highlighted for slide 1 but nothing is
	// assigned, so the cursor is gated until the user picks
	next, _ := m.Update(storylineDoneMsg{})
	m = next.(Model)
	if m.flow.Current().Template != "" {
		t.Fatalf("Suggestion must not assign a template, got %q", m.flow.Current().Template)
	}
	if m.templateIdx != templateIndex(deck.TemplateMessageOnly) {
		t.Errorf("Expected the cursor on the suggested template, got %d", m.templateIdx)
	}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = next.(Model)
	if m.flow.Cursor() != 0 {
		t.Error("Cursor moved past a slide with no template")
	}

	// pick one and the selection lands on the focused slide
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if m.flow.Current().Template == "" {
		t.Error("Enter should assign the highlighted template")
	}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = next.(Model)
	if m.flow.Cursor() != 1 {
		t.Errorf("Expected cursor on slide 2 after the pick, got %d", m.flow.Cursor())
	}
}

func TestErrMsg_UnauthorizedQuits(t *testing.T) {
	m := newTestModel(t, stubBackend(t))

	next, cmd := m.Update(errMsg{api.ErrUnauthorized})
	m = next.(Model)
	if !m.quitting || cmd == nil {
		t.Error("A dead session should end the wizard")
	}
	if !strings.Contains(m.status, "login") {
		t.Errorf("Status should point at login, got %q", m.status)
	}
}

func TestErrMsg_KeepsDetail(t *testing.T) {
	m := newTestModel(t, stubBackend(t))

	next, _ := m.Update(errMsg{&api.APIError{Status: 422, Detail: "topic too short"}})
	m = next.(Model)
	if m.status != "topic too short" {
		t.Errorf("Expected backend detail in status, got %q", m.status)
	}
	if m.quitting {
		t.Error("Ordinary errors must not quit")
	}
}

func TestView_RendersEachStep(t *testing.T) {
	m := newTestModel(t, stubBackend(t))

	if v := m.View(); !strings.Contains(v, "Topic") {
		t.Error("Storyline view should show the form")
	}

	if err := m.flow.GenerateStoryline(context.Background(), api.StorylineRequest{
		Topic: "t", Target: "a", Goal: "g", CreateProject: true, ProjectTitle: "Deck",
	}); err != nil {
		t.Fatalf("GenerateStoryline failed: %v", err)
	}
	if v := m.View(); !strings.Contains(v, "First") {
		t.Error("Templates view should show the focused slide")
	}

	m.flow.Slides()[0].Status = deck.StatusAIGenerated
	for range workflow.Steps() {
		if m.flow.Step() == workflow.StepExport {
			break
		}
		for i := range m.flow.Slides() {
			m.flow.Slides()[i].Template = deck.TemplateMessageOnly
			m.flow.Slides()[i].SlideID = "s"
		}
		if err := m.flow.Advance(); err != nil {
			t.Fatalf("Advance failed at %v: %v", m.flow.Step(), err)
		}
	}
	m.preview = &api.DeckPreview{
		Slides:  []api.PreviewSlide{{Order: 1, HeadMessage: "First", Status: deck.StatusUserCompleted}},
		Summary: api.PreviewSummary{TotalSlides: 3, ContentSlides: 1, ReadySlides: 1, CompletionRate: 100},
	}
	if v := m.View(); !strings.Contains(v, "100% complete") {
		t.Error("Export view should show the readiness summary")
	}
}

func TestExportStep_GateWithNoReadySlides(t *testing.T) {
	m := newTestModel(t, stubBackend(t))
	if err := m.flow.GenerateStoryline(context.Background(), api.StorylineRequest{
		Topic: "t", Target: "a", Goal: "g", CreateProject: true, ProjectTitle: "T",
	}); err != nil {
		t.Fatalf("GenerateStoryline failed: %v", err)
	}
	for m.flow.Step() != workflow.StepExport {
		for i := range m.flow.Slides() {
			m.flow.Slides()[i].Template = deck.TemplateMessageOnly
			m.flow.Slides()[i].SlideID = "s"
		}
		if err := m.flow.Advance(); err != nil {
			t.Fatalf("Advance failed: %v", err)
		}
	}
	m.preview = &api.DeckPreview{Summary: api.PreviewSummary{ReadySlides: 0}}

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	m = next.(Model)
	if m.loading || cmd != nil {
		t.Error("Export must be refused while nothing is ready")
	}

	// toggling empty-slide mode lifts the gate
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'i'}})
	m = next.(Model)
	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	m = next.(Model)
	if !m.loading || cmd == nil {
		t.Error("Export should start once empty slides are included")
	}
}

// modelAtContentStep generates a storyline, assigns tmpl to every slide, and
// advances into the content step.
func modelAtContentStep(t *testing.T, m Model, tmpl deck.TemplateType) Model {
	t.Helper()
	if err := m.flow.GenerateStoryline(context.Background(), api.StorylineRequest{
		Topic: "t", Target: "a", Goal: "g",
	}); err != nil {
		t.Fatalf("GenerateStoryline failed: %v", err)
	}
	for i := range m.flow.Slides() {
		m.flow.Slides()[i].Template = tmpl
	}
	if err := m.flow.Advance(); err != nil {
		t.Fatalf("Advance failed: %v", err)
	}
	return m
}

func TestContentStep_RestartResetsCursors(t *testing.T) {
	m := newTestModel(t, stubBackend(t))
	m = modelAtContentStep(t, m, deck.TemplateMessageOnly)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(Model)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(Model)
	if m.fieldIdx != 2 {
		t.Fatalf("Expected field cursor on the third field, got %d", m.fieldIdx)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	m = next.(Model)
	if m.flow.Step() != workflow.StepStoryline {
		t.Fatalf("Expected restart to land on the form, got %v", m.flow.Step())
	}
	if m.fieldIdx != 0 || m.templateIdx != 0 {
		t.Errorf("Cursors must reset on restart, got field=%d template=%d", m.fieldIdx, m.templateIdx)
	}

	// a second run with a single-field template must not trip over any
	// cursor left behind by the first
	m = modelAtContentStep(t, m, deck.TemplateCaseBox)
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("Panic editing after restart: %v", r)
		}
	}()
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if !m.editing {
		t.Error("Expected the editor to open")
	}
}

func TestContentStep_StaleFieldCursorIsClamped(t *testing.T) {
	m := newTestModel(t, stubBackend(t))
	m = modelAtContentStep(t, m, deck.TemplateCaseBox)
	m.fieldIdx = 2 // left behind by a wider template

	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("Panic on stale field cursor: %v", r)
		}
	}()
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if !m.editing || m.fieldIdx != 0 {
		t.Errorf("Expected the editor on field 0, got editing=%v idx=%d", m.editing, m.fieldIdx)
	}
	if v := m.View(); !strings.Contains(v, "cases") {
		t.Error("Editor should name the clamped field")
	}
}

func TestContentStep_RetrySavesUnsavedSlides(t *testing.T) {
	posts := map[int]int{}
	mux := http.NewServeMux()
	mux.HandleFunc("/storyline/generate", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(api.StorylineResult{
			Outline: []api.SlideOutline{
				{Order: 1, HeadMessage: "First", Purpose: "hook"},
				{Order: 2, HeadMessage: "Second", Purpose: "proof"},
			},
			ProjectID: "p-1",
		})
	})
	mux.HandleFunc("/slides/", func(w http.ResponseWriter, r *http.Request) {
		var req api.SlideCreate
		json.NewDecoder(r.Body).Decode(&req)
		posts[req.Order]++
		if req.Order == 2 && posts[2] == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"detail": "db hiccup"}`))
			return
		}
		json.NewEncoder(w).Encode(api.Slide{
			ID:     fmt.Sprintf("s-%d", req.Order),
			Order:  req.Order,
			Status: deck.StatusDraft,
		})
	})

	m := newTestModel(t, mux)
	m = modelAtContentStep(t, m, deck.TemplateMessageOnly)

	// the first save dies on slide 2 and leaves it without an id
	em, ok := m.persistSlides()().(errMsg)
	if !ok {
		t.Fatal("Expected the first save to fail")
	}
	next, _ := m.Update(em)
	m = next.(Model)
	if m.flow.Slides()[0].SlideID == "" {
		t.Fatal("Slide 1 should have been saved")
	}
	if m.flow.Slides()[1].SlideID != "" {
		t.Fatal("Slide 2 should be left unsaved")
	}
	if m.flow.Step() != workflow.StepContent {
		t.Fatalf("Expected to stay in the content step, got %v", m.flow.Step())
	}

	// 's' picks the save back up without leaving the step
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	m = next.(Model)
	if cmd == nil || !m.loading {
		t.Fatal("Expected a retry command")
	}
	if _, ok := m.persistSlides()().(slidesPersistedMsg); !ok {
		t.Fatal("Expected the retry to finish the save")
	}
	for _, s := range m.flow.Slides() {
		if s.SlideID == "" {
			t.Errorf("Slide %d left unsaved after retry", s.Order)
		}
	}
	if posts[1] != 1 || posts[2] != 2 {
		t.Errorf("Expected slide 1 posted once and slide 2 twice, got %v", posts)
	}
}

func TestDraftRestoredIntoForm(t *testing.T) {
	server := httptest.NewServer(stubBackend(t))
	t.Cleanup(server.Close)

	cfg := config.DefaultConfig()
	cfg.API.BaseURL = server.URL
	cfg.UI.Theme = "light"

	client := api.NewClient(api.Config{BaseURL: server.URL}, testTokens{}, nil, nil)
	drafts, err := draft.NewStore(filepath.Join(t.TempDir(), "drafts.db"), nil)
	if err != nil {
		t.Fatalf("draft store: %v", err)
	}
	t.Cleanup(func() { drafts.Close() })

	flow := workflow.New(client, drafts, nil)
	flow.SaveDraft(api.StorylineRequest{Topic: "saved topic", Target: "crowd", NarrativeStyle: "academic"})

	m := New(cfg, flow, nil)
	if got := m.inputs[fieldTopic].Value(); got != "saved topic" {
		t.Errorf("Expected restored topic, got %q", got)
	}
	if api.NarrativeStyles[m.styleIdx] != "academic" {
		t.Errorf("Expected restored narrative style, got %q", api.NarrativeStyles[m.styleIdx])
	}
}
