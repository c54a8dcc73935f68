package api

import (
	"context"

	"github.com/M00N7682/pptpro/internal/deck"
)

// TemplateSuggestRequest asks for a template recommendation for one slide.
type TemplateSuggestRequest struct {
	SlidePurpose string `json:"slide_purpose"`
	HeadMessage  string `json:"head_message"`
	Context      string `json:"context,omitempty"`
}

// TemplateComponent is one suggested building block of a template.
type TemplateComponent struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// TemplateSuggestion is the recommendation for one slide.
type TemplateSuggestion struct {
	TemplateType         deck.TemplateType   `json:"template_type"`
	Reason               string              `json:"reason"`
	Components           []TemplateComponent `json:"components"`
	AlternativeTemplates []deck.TemplateType `json:"alternative_templates"`
}

// SuggestTemplate asks the backend which template fits a slide.
func (c *Client) SuggestTemplate(ctx context.Context, req TemplateSuggestRequest) (*TemplateSuggestion, error) {
	var out TemplateSuggestion
	if err := c.doGenerate(ctx, "POST", "/template/suggest", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
