package workflow

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/M00N7682/pptpro/internal/api"
	"github.com/M00N7682/pptpro/internal/deck"
)

// GenerateStoryline generates the outline and moves to the template step.
// When the request asks for project creation the cached form draft is
// cleared; otherwise it survives for the next session.
func (w *Workflow) GenerateStoryline(ctx context.Context, req api.StorylineRequest) error {
	result, err := w.client.GenerateStoryline(ctx, req)
	if err != nil {
		return err
	}
	if len(result.Outline) == 0 {
		return fmt.Errorf("backend returned an empty outline")
	}

	slides := make([]SlideDraft, 0, len(result.Outline))
	for _, o := range result.Outline {
		s := SlideDraft{
			Order:       o.Order,
			HeadMessage: o.HeadMessage,
			Purpose:     o.Purpose,
			Status:      deck.StatusDraft,
		}
		if t := deck.TemplateType(o.TemplateSuggestion); deck.IsKnownTemplate(t) {
			s.TemplateSuggestion = t
		}
		slides = append(slides, s)
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].Order < slides[j].Order })

	w.slides = slides
	w.narrative = result.OverallNarrative
	w.cursor = 0
	if result.ProjectID != "" {
		w.projectID = result.ProjectID
		w.projectTitle = req.ProjectTitle
		w.clearDraft()
	}
	w.step = StepTemplates

	w.logger.Info("Storyline generated",
		zap.Int("slides", len(slides)),
		zap.String("project_id", w.projectID))
	return nil
}

// EnsureProject creates the backing project if none exists yet and clears
// the cached form draft.
func (w *Workflow) EnsureProject(ctx context.Context, req api.ProjectCreate) error {
	if w.projectID != "" {
		return nil
	}
	project, err := w.client.CreateProject(ctx, req)
	if err != nil {
		return err
	}
	w.projectID = project.ID
	w.projectTitle = project.Title
	w.clearDraft()
	return nil
}

// SuggestTemplate asks the backend which template fits the focused slide.
func (w *Workflow) SuggestTemplate(ctx context.Context) (*api.TemplateSuggestion, error) {
	cur := w.Current()
	if cur == nil {
		return nil, fmt.Errorf("no slide in focus")
	}
	return w.client.SuggestTemplate(ctx, api.TemplateSuggestRequest{
		SlidePurpose: cur.Purpose,
		HeadMessage:  cur.HeadMessage,
		Context:      w.narrative,
	})
}

// PersistSlides creates a backend record for every slide that has none yet,
// in order, one call per slide. On failure the error is returned as-is:
// slides created before the failure stay created, and a retry picks up where
// it stopped.
func (w *Workflow) PersistSlides(ctx context.Context) error {
	if w.projectID == "" {
		return fmt.Errorf("no project to attach slides to")
	}
	for i := range w.slides {
		s := &w.slides[i]
		if s.SlideID != "" {
			continue
		}
		created, err := w.client.CreateSlide(ctx, api.SlideCreate{
			ProjectID:    w.projectID,
			Order:        s.Order,
			HeadMessage:  s.HeadMessage,
			TemplateType: s.Template,
			Purpose:      s.Purpose,
		})
		if err != nil {
			return fmt.Errorf("saving slide %d: %w", s.Order, err)
		}
		s.SlideID = created.ID
		s.Status = created.Status
	}
	return nil
}

// Classify splits the focused slide's elements into user-supplied and
// machine-written.
func (w *Workflow) Classify(ctx context.Context) (*api.Classification, error) {
	cur := w.Current()
	if cur == nil {
		return nil, fmt.Errorf("no slide in focus")
	}
	if cur.Template == "" {
		return nil, fmt.Errorf("slide %d has no template", cur.Order)
	}
	result, err := w.client.ClassifyContent(ctx, api.ClassifyRequest{
		SlideText:   cur.Purpose,
		SlideType:   cur.Template,
		HeadMessage: cur.HeadMessage,
	})
	if err != nil {
		return nil, err
	}
	cur.Classification = result
	return result, nil
}

// GenerateContent drafts the machine-written elements of the focused slide,
// saves them to its backend record, and marks it ai_generated. Classify must
// have run first.
func (w *Workflow) GenerateContent(ctx context.Context) error {
	cur := w.Current()
	if cur == nil {
		return fmt.Errorf("no slide in focus")
	}
	if cur.Classification == nil {
		return fmt.Errorf("classify slide %d first", cur.Order)
	}
	generated, err := w.client.GenerateContent(ctx, api.GenerateRequest{
		SlideType:           cur.Template,
		AIGeneratedElements: cur.Classification.AIGenerated,
		Context:             w.narrative,
	})
	if err != nil {
		return err
	}

	content := deck.DecodeContent(cur.Template, generated.Components)
	status := deck.StatusAIGenerated
	if cur.SlideID != "" {
		if _, err := w.client.UpdateSlide(ctx, cur.SlideID, api.SlideUpdate{
			Content: content.Payload(),
			Status:  &status,
		}); err != nil {
			return err
		}
	}
	cur.Content = content
	cur.Status = status
	return nil
}

// EditField overwrites one content field of the focused slide with user
// input and marks it user_completed. A user edit always wins over generated
// content, whatever the slide's prior status.
func (w *Workflow) EditField(ctx context.Context, field string, value any) error {
	cur := w.Current()
	if cur == nil {
		return fmt.Errorf("no slide in focus")
	}
	content := cur.Content.Set(field, value)
	status := deck.StatusUserCompleted
	if cur.SlideID != "" {
		if _, err := w.client.UpdateSlide(ctx, cur.SlideID, api.SlideUpdate{
			Content: content.Payload(),
			Status:  &status,
		}); err != nil {
			return err
		}
	}
	cur.Content = content
	cur.Status = status
	return nil
}

// BatchGenerate drafts content for every slide of the project in one backend
// call, then refreshes the local slide state.
func (w *Workflow) BatchGenerate(ctx context.Context) (*api.BatchResult, error) {
	if w.projectID == "" {
		return nil, fmt.Errorf("no project yet")
	}
	result, err := w.client.BatchGenerate(ctx, w.projectID)
	if err != nil {
		return nil, err
	}
	if err := w.refreshSlides(ctx); err != nil {
		return result, err
	}
	return result, nil
}

// LoadProject resumes the flow for an existing project. The project record
// and its slides are fetched concurrently; the flow lands on the content
// step, or the template step when slides are missing templates.
func (w *Workflow) LoadProject(ctx context.Context, projectID string) error {
	var (
		project *api.Project
		slides  []api.Slide
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := w.client.GetProject(gctx, projectID)
		if err != nil {
			return err
		}
		project = p
		return nil
	})
	g.Go(func() error {
		s, err := w.client.SlidesForProject(gctx, projectID)
		if err != nil {
			return err
		}
		slides = s
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	drafts := make([]SlideDraft, 0, len(slides))
	templatesMissing := false
	for _, s := range slides {
		d := SlideDraft{
			Order:       s.Order,
			HeadMessage: s.HeadMessage,
			Purpose:     s.Purpose,
			Template:    s.TemplateType,
			SlideID:     s.ID,
			Content:     s.DecodedContent(),
			Status:      s.Status,
		}
		if d.Template == "" {
			templatesMissing = true
		}
		drafts = append(drafts, d)
	}
	sort.Slice(drafts, func(i, j int) bool { return drafts[i].Order < drafts[j].Order })

	w.projectID = project.ID
	w.projectTitle = project.Title
	w.slides = drafts
	w.cursor = 0
	if len(drafts) == 0 {
		w.step = StepStoryline
	} else if templatesMissing {
		w.step = StepTemplates
	} else {
		w.step = StepContent
	}
	w.logger.Info("Project loaded",
		zap.String("project_id", project.ID),
		zap.Int("slides", len(drafts)),
		zap.Stringer("step", w.step))
	return nil
}

func (w *Workflow) refreshSlides(ctx context.Context) error {
	slides, err := w.client.SlidesForProject(ctx, w.projectID)
	if err != nil {
		return err
	}
	byID := make(map[string]api.Slide, len(slides))
	for _, s := range slides {
		byID[s.ID] = s
	}
	for i := range w.slides {
		if s, ok := byID[w.slides[i].SlideID]; ok {
			w.slides[i].Content = s.DecodedContent()
			w.slides[i].Status = s.Status
		}
	}
	return nil
}

// Preview fetches the pre-export readiness report.
func (w *Workflow) Preview(ctx context.Context) (*api.DeckPreview, error) {
	if w.projectID == "" {
		return nil, fmt.Errorf("no project yet")
	}
	return w.client.PreviewDeck(ctx, w.projectID)
}

// Export renders the deck into dir and returns the written path. With
// includeEmpty false the export is refused while no slide is ready.
func (w *Workflow) Export(ctx context.Context, dir string, includeEmpty bool) (string, error) {
	if w.projectID == "" {
		return "", fmt.Errorf("no project yet")
	}
	if !includeEmpty {
		preview, err := w.client.PreviewDeck(ctx, w.projectID)
		if err != nil {
			return "", err
		}
		if preview.Summary.ReadySlides == 0 {
			return "", fmt.Errorf("no slides are ready; fill in content or export with empty slides included")
		}
	}
	if dir == "" {
		dir = "."
	}
	title := w.projectTitle
	if title == "" {
		title = "presentation"
	}
	return w.client.DownloadDeck(ctx, w.projectID, title, dir, includeEmpty)
}
