package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/M00N7682/pptpro/internal/deck"
)

// PreviewSlide is one slide's readiness summary in the export preview.
type PreviewSlide struct {
	Order          int               `json:"order"`
	HeadMessage    string            `json:"head_message"`
	TemplateType   deck.TemplateType `json:"template_type"`
	Status         string            `json:"status"`
	HasContent     bool              `json:"has_content"`
	ContentSummary string            `json:"content_summary"`
}

// PreviewSummary aggregates readiness across the deck. TotalSlides counts
// the added title and closing slides on top of the content slides.
type PreviewSummary struct {
	TotalSlides    int     `json:"total_slides"`
	ContentSlides  int     `json:"content_slides"`
	ReadySlides    int     `json:"ready_slides"`
	CompletionRate float64 `json:"completion_rate"`
}

// DeckPreview is the pre-export readiness report for a project.
type DeckPreview struct {
	Project     Project        `json:"project"`
	Slides      []PreviewSlide `json:"slides"`
	Summary     PreviewSummary `json:"summary"`
	CanGenerate bool           `json:"can_generate"`
}

// PreviewDeck fetches the readiness report for a project's deck.
func (c *Client) PreviewDeck(ctx context.Context, projectID string) (*DeckPreview, error) {
	var out DeckPreview
	if err := c.do(ctx, "GET", fmt.Sprintf("/ppt/preview/%s", projectID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateDeck streams the rendered .pptx binary into w. includeEmpty keeps
// slides without content in the output; otherwise only ready slides render.
// Returns the number of bytes written.
func (c *Client) GenerateDeck(ctx context.Context, projectID string, includeEmpty bool, w io.Writer) (int64, error) {
	q := url.Values{}
	q.Set("include_empty", fmt.Sprintf("%t", includeEmpty))
	path := fmt.Sprintf("/ppt/generate/%s?%s", projectID, q.Encode())

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	requestID := c.prepare(req, false)
	req.Header.Set("Accept", "application/octet-stream")

	resp, err := c.generateClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp, requestID); err != nil {
		return 0, err
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("failed to stream deck: %w", err)
	}
	c.logger.Debug("Deck downloaded",
		zap.String("project_id", projectID),
		zap.Int64("bytes", n))
	return n, nil
}

// DownloadDeck renders the deck into dir under a date-stamped filename and
// returns the written path.
func (c *Client) DownloadDeck(ctx context.Context, projectID, title, dir string, includeEmpty bool) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create download dir: %w", err)
	}
	path := filepath.Join(dir, DeckFilename(title, time.Now()))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create output file: %w", err)
	}
	if _, err := c.GenerateDeck(ctx, projectID, includeEmpty, f); err != nil {
		f.Close()
		os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to finish output file: %w", err)
	}
	return path, nil
}

// DeckFilename builds the download filename: "<title>_<yyyy-mm-dd>.pptx",
// with path-hostile characters stripped from the title.
func DeckFilename(title string, at time.Time) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return -1
		}
		return r
	}, strings.TrimSpace(title))
	if cleaned == "" {
		cleaned = "presentation"
	}
	return fmt.Sprintf("%s_%s.pptx", cleaned, at.Format("2006-01-02"))
}
