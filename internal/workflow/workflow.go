// Package workflow drives the four-step authoring flow: outline the story,
// pick a template per slide, fill in content, then export the deck. Steps
// only advance forward through Advance; Reset is the single way back to the
// beginning.
package workflow

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/M00N7682/pptpro/internal/api"
	"github.com/M00N7682/pptpro/internal/deck"
	"github.com/M00N7682/pptpro/internal/draft"
)

// Step is one stage of the authoring flow.
type Step int

const (
	StepStoryline Step = iota
	StepTemplates
	StepContent
	StepExport
)

func (s Step) String() string {
	switch s {
	case StepStoryline:
		return "storyline"
	case StepTemplates:
		return "templates"
	case StepContent:
		return "content"
	case StepExport:
		return "export"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// Steps returns the stages in flow order.
func Steps() []Step {
	return []Step{StepStoryline, StepTemplates, StepContent, StepExport}
}

// SlideDraft is the client-side working state of one slide as it moves
// through the flow. SlideID is empty until the slide has been persisted.
type SlideDraft struct {
	Order              int
	HeadMessage        string
	Purpose            string
	TemplateSuggestion deck.TemplateType
	Template           deck.TemplateType
	SlideID            string
	Classification     *api.Classification
	Content            deck.Content
	Status             string
}

// Workflow holds the flow state for one authoring session.
type Workflow struct {
	client *api.Client
	drafts *draft.Store
	logger *zap.Logger

	step         Step
	projectID    string
	projectTitle string
	narrative    string
	slides       []SlideDraft
	cursor       int
}

// New creates a workflow at the storyline step. drafts may be nil, in which
// case form input is not cached between sessions.
func New(client *api.Client, drafts *draft.Store, logger *zap.Logger) *Workflow {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Workflow{client: client, drafts: drafts, logger: logger}
}

// Step returns the current stage.
func (w *Workflow) Step() Step { return w.step }

// ProjectID returns the backing project id, empty before one exists.
func (w *Workflow) ProjectID() string { return w.projectID }

// ProjectTitle returns the project title, empty before one exists.
func (w *Workflow) ProjectTitle() string { return w.projectTitle }

// Narrative returns the overall narrative of the generated storyline.
func (w *Workflow) Narrative() string { return w.narrative }

// Slides returns the working slide drafts in order.
func (w *Workflow) Slides() []SlideDraft { return w.slides }

// Cursor returns the index of the slide in focus.
func (w *Workflow) Cursor() int { return w.cursor }

// Current returns the slide in focus, nil when there are no slides.
func (w *Workflow) Current() *SlideDraft {
	if w.cursor < 0 || w.cursor >= len(w.slides) {
		return nil
	}
	return &w.slides[w.cursor]
}

// SaveDraft caches the storyline form input. Failures are logged, not
// surfaced: losing a draft must never interrupt typing.
func (w *Workflow) SaveDraft(req api.StorylineRequest) {
	if w.drafts == nil {
		return
	}
	if err := w.drafts.Save(draft.KeyStoryline, req); err != nil {
		w.logger.Warn("Failed to save storyline draft", zap.Error(err))
	}
}

// LoadDraft restores cached storyline form input, if any.
func (w *Workflow) LoadDraft() (api.StorylineRequest, bool) {
	var req api.StorylineRequest
	if w.drafts == nil {
		return req, false
	}
	found, err := w.drafts.Load(draft.KeyStoryline, &req)
	if err != nil {
		w.logger.Warn("Failed to load storyline draft", zap.Error(err))
		return api.StorylineRequest{}, false
	}
	return req, found
}

func (w *Workflow) clearDraft() {
	if w.drafts == nil {
		return
	}
	if err := w.drafts.Clear(draft.KeyStoryline); err != nil {
		w.logger.Warn("Failed to clear storyline draft", zap.Error(err))
	}
}

// AssignTemplate sets the focused slide's template.
func (w *Workflow) AssignTemplate(t deck.TemplateType) error {
	if !deck.IsKnownTemplate(t) {
		return fmt.Errorf("unknown template type %q", t)
	}
	cur := w.Current()
	if cur == nil {
		return fmt.Errorf("no slide in focus")
	}
	cur.Template = t
	return nil
}

// NextSlide moves focus forward. During the template step it refuses to move
// past a slide that has no template yet.
func (w *Workflow) NextSlide() error {
	cur := w.Current()
	if cur == nil || w.cursor >= len(w.slides)-1 {
		return fmt.Errorf("already at the last slide")
	}
	if w.step == StepTemplates && cur.Template == "" {
		return fmt.Errorf("pick a template for slide %d first", cur.Order)
	}
	w.cursor++
	return nil
}

// PrevSlide moves focus backward.
func (w *Workflow) PrevSlide() error {
	if w.cursor == 0 {
		return fmt.Errorf("already at the first slide")
	}
	w.cursor--
	return nil
}

// Advance moves to the next stage. Each transition has its own gate:
//   - storyline -> templates requires a generated outline
//   - templates -> content requires every slide to have a template
//   - content -> export requires persisted slides
func (w *Workflow) Advance() error {
	switch w.step {
	case StepStoryline:
		if len(w.slides) == 0 {
			return fmt.Errorf("generate a storyline first")
		}
		w.step = StepTemplates
	case StepTemplates:
		for i := range w.slides {
			if w.slides[i].Template == "" {
				return fmt.Errorf("slide %d has no template", w.slides[i].Order)
			}
		}
		w.step = StepContent
	case StepContent:
		for i := range w.slides {
			if w.slides[i].SlideID == "" {
				return fmt.Errorf("slide %d is not saved yet", w.slides[i].Order)
			}
		}
		w.step = StepExport
	case StepExport:
		return fmt.Errorf("already at the last step")
	}
	w.cursor = 0
	return nil
}

// Reset discards all flow state and the cached form draft.
func (w *Workflow) Reset() {
	w.step = StepStoryline
	w.projectID = ""
	w.projectTitle = ""
	w.narrative = ""
	w.slides = nil
	w.cursor = 0
	w.clearDraft()
}
