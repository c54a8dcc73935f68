package api

import (
	"context"
	"fmt"

	"github.com/M00N7682/pptpro/internal/deck"
)

// Slide is a persisted, backend-owned slide record.
type Slide struct {
	ID           string            `json:"id"`
	ProjectID    string            `json:"project_id"`
	Order        int               `json:"order"`
	HeadMessage  string            `json:"head_message"`
	TemplateType deck.TemplateType `json:"template_type"`
	Purpose      string            `json:"purpose"`
	Content      map[string]any    `json:"content"`
	Status       string            `json:"status"`
	CreatedAt    string            `json:"created_at,omitempty"`
	UpdatedAt    string            `json:"updated_at,omitempty"`
}

// DecodedContent interprets the raw content payload under the slide's
// template type.
func (s *Slide) DecodedContent() deck.Content {
	return deck.DecodeContent(s.TemplateType, s.Content)
}

// SlideCreate is the payload for slide creation.
type SlideCreate struct {
	ProjectID    string            `json:"project_id"`
	Order        int               `json:"order"`
	HeadMessage  string            `json:"head_message"`
	TemplateType deck.TemplateType `json:"template_type,omitempty"`
	Purpose      string            `json:"purpose,omitempty"`
}

// SlideUpdate is a partial update; nil fields are left untouched.
type SlideUpdate struct {
	HeadMessage  *string            `json:"head_message,omitempty"`
	TemplateType *deck.TemplateType `json:"template_type,omitempty"`
	Purpose      *string            `json:"purpose,omitempty"`
	Content      map[string]any     `json:"content,omitempty"`
	Status       *string            `json:"status,omitempty"`
}

// CreateSlide creates one slide record.
func (c *Client) CreateSlide(ctx context.Context, req SlideCreate) (*Slide, error) {
	var out Slide
	if err := c.do(ctx, "POST", "/slides/", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSlide fetches one slide by id.
func (c *Client) GetSlide(ctx context.Context, id string) (*Slide, error) {
	var out Slide
	if err := c.do(ctx, "GET", fmt.Sprintf("/slides/%s", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateSlide applies a partial update.
func (c *Client) UpdateSlide(ctx context.Context, id string, req SlideUpdate) (*Slide, error) {
	var out Slide
	if err := c.do(ctx, "PATCH", fmt.Sprintf("/slides/%s", id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteSlide removes one slide.
func (c *Client) DeleteSlide(ctx context.Context, id string) error {
	return c.do(ctx, "DELETE", fmt.Sprintf("/slides/%s", id), nil, nil)
}

// SlidesForProject lists a project's slides in order.
func (c *Client) SlidesForProject(ctx context.Context, projectID string) ([]Slide, error) {
	var out []Slide
	if err := c.do(ctx, "GET", fmt.Sprintf("/slides/project/%s", projectID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
