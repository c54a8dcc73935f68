package api

import (
	"context"

	"github.com/M00N7682/pptpro/internal/deck"
)

// StorylineRequest asks the backend to generate a slide outline.
type StorylineRequest struct {
	Topic          string `json:"topic"`
	Target         string `json:"target"`
	Goal           string `json:"goal"`
	NarrativeStyle string `json:"narrative_style,omitempty"`
	CreateProject  bool   `json:"create_project,omitempty"`
	ProjectTitle   string `json:"project_title,omitempty"`
}

// SlideOutline is one entry of a generated storyline.
type SlideOutline struct {
	Order              int    `json:"order"`
	HeadMessage        string `json:"head_message"`
	Purpose            string `json:"purpose"`
	TemplateSuggestion string `json:"template_suggestion"`
}

// StorylineResult is the generated outline plus overall narrative. ProjectID
// is set only when the request asked for project creation.
type StorylineResult struct {
	Outline          []SlideOutline `json:"outline"`
	OverallNarrative string         `json:"overall_narrative"`
	ProjectID        string         `json:"project_id,omitempty"`
}

// NarrativeStyles supported by the generation endpoint.
var NarrativeStyles = []string{"consulting", "academic", "business", "creative"}

// GenerateStoryline generates an outline. Uses the extended AI timeout.
func (c *Client) GenerateStoryline(ctx context.Context, req StorylineRequest) (*StorylineResult, error) {
	var out StorylineResult
	if err := c.doGenerate(ctx, "POST", "/storyline/generate", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StorylineTemplate is the backend's short template descriptor.
type StorylineTemplate struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// StorylineTemplates fetches the backend's template catalogue, keyed by
// template type. The client falls back to deck.MetaFor when unavailable.
func (c *Client) StorylineTemplates(ctx context.Context) (map[deck.TemplateType]StorylineTemplate, error) {
	var out struct {
		Templates map[deck.TemplateType]StorylineTemplate `json:"templates"`
	}
	if err := c.do(ctx, "GET", "/storyline/templates", nil, &out); err != nil {
		return nil, err
	}
	return out.Templates, nil
}
