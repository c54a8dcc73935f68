package api

import (
	"context"
	"fmt"
)

// Project is a presentation project owned by the current user.
type Project struct {
	ID             string `json:"id"`
	UserID         string `json:"user_id"`
	Title          string `json:"title"`
	Topic          string `json:"topic,omitempty"`
	TargetAudience string `json:"target_audience,omitempty"`
	Goal           string `json:"goal,omitempty"`
}

// ProjectCreate is the payload for project creation.
type ProjectCreate struct {
	Title          string `json:"title"`
	Topic          string `json:"topic,omitempty"`
	TargetAudience string `json:"target_audience,omitempty"`
	Goal           string `json:"goal,omitempty"`
}

// ProjectUpdate is a partial update; nil fields are left untouched.
type ProjectUpdate struct {
	Title          *string `json:"title,omitempty"`
	Topic          *string `json:"topic,omitempty"`
	TargetAudience *string `json:"target_audience,omitempty"`
	Goal           *string `json:"goal,omitempty"`
}

// CreateProject creates a project.
func (c *Client) CreateProject(ctx context.Context, req ProjectCreate) (*Project, error) {
	var out Project
	if err := c.do(ctx, "POST", "/projects/", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListProjects lists the current user's projects.
func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	var out []Project
	if err := c.do(ctx, "GET", "/projects/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetProject fetches one project by id.
func (c *Client) GetProject(ctx context.Context, id string) (*Project, error) {
	var out Project
	if err := c.do(ctx, "GET", fmt.Sprintf("/projects/%s", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProject applies a partial update.
func (c *Client) UpdateProject(ctx context.Context, id string, req ProjectUpdate) (*Project, error) {
	var out Project
	if err := c.do(ctx, "PATCH", fmt.Sprintf("/projects/%s", id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteProject removes a project and its slides.
func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.do(ctx, "DELETE", fmt.Sprintf("/projects/%s", id), nil, nil)
}
