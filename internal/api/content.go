package api

import (
	"context"
	"fmt"

	"github.com/M00N7682/pptpro/internal/deck"
)

// ClassifyRequest asks which content elements the user must provide and
// which can be machine-written.
type ClassifyRequest struct {
	SlideText   string            `json:"slide_text"`
	SlideType   deck.TemplateType `json:"slide_type"`
	HeadMessage string            `json:"head_message,omitempty"`
}

// ClassifiedElement is one element of a slide with its sourcing decision.
type ClassifiedElement struct {
	ElementType    string `json:"element_type"`
	Description    string `json:"description"`
	Classification string `json:"classification"`
	Reason         string `json:"reason"`
}

// Classification splits a slide's elements by who supplies them.
type Classification struct {
	UserNeeded  []ClassifiedElement `json:"user_needed"`
	AIGenerated []ClassifiedElement `json:"ai_generated"`
}

// ClassifyContent classifies a slide's content elements.
func (c *Client) ClassifyContent(ctx context.Context, req ClassifyRequest) (*Classification, error) {
	var out Classification
	if err := c.doGenerate(ctx, "POST", "/slide/classify", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateRequest asks for draft values for the machine-written elements.
type GenerateRequest struct {
	SlideType           deck.TemplateType   `json:"slide_type"`
	AIGeneratedElements []ClassifiedElement `json:"ai_generated_elements"`
	Context             string              `json:"context,omitempty"`
}

// GeneratedContent carries the produced content payload.
type GeneratedContent struct {
	Components map[string]any `json:"components"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// GenerateContent drafts content for one slide's machine-written elements.
func (c *Client) GenerateContent(ctx context.Context, req GenerateRequest) (*GeneratedContent, error) {
	var out GeneratedContent
	if err := c.doGenerate(ctx, "POST", "/slide/generate", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// BatchResult reports per-slide outcomes of a batch generation run.
type BatchResult struct {
	ProjectID string             `json:"project_id"`
	Results   []BatchSlideResult `json:"results"`
}

// BatchSlideResult is one slide's outcome inside a batch run.
type BatchSlideResult struct {
	SlideID string `json:"slide_id"`
	Order   int    `json:"order"`
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
}

// BatchGenerate generates content for every slide of a project in one call.
func (c *Client) BatchGenerate(ctx context.Context, projectID string) (*BatchResult, error) {
	var out BatchResult
	if err := c.doGenerate(ctx, "POST", fmt.Sprintf("/content/batch-generate/%s", projectID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TemplateFieldsResponse describes the editable fields of one template.
type TemplateFieldsResponse struct {
	TemplateType deck.TemplateType `json:"template_type"`
	Fields       []deck.FieldSpec  `json:"fields"`
}

// TemplateFields fetches the field schema for a template type. Callers
// fall back to deck.FieldsFor when the endpoint is unavailable.
func (c *Client) TemplateFields(ctx context.Context, t deck.TemplateType) (*TemplateFieldsResponse, error) {
	var out TemplateFieldsResponse
	if err := c.do(ctx, "GET", fmt.Sprintf("/content/templates/%s/fields", t), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
