package wizard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/M00N7682/pptpro/internal/api"
	"github.com/M00N7682/pptpro/internal/deck"
	"github.com/M00N7682/pptpro/internal/workflow"
)

func (m Model) View() string {
	if m.quitting {
		if m.exportPath != "" {
			return m.styles.Success.Render("Deck saved: "+m.exportPath) + "\n"
		}
		return ""
	}

	var sb strings.Builder
	sb.WriteString(m.renderHeader())
	sb.WriteString("\n\n")

	switch m.flow.Step() {
	case workflow.StepStoryline:
		sb.WriteString(m.renderStorylineStep())
	case workflow.StepTemplates:
		sb.WriteString(m.renderTemplatesStep())
	case workflow.StepContent:
		sb.WriteString(m.renderContentStep())
	case workflow.StepExport:
		sb.WriteString(m.renderExportStep())
	}

	sb.WriteString("\n")
	sb.WriteString(m.renderFooter())
	return sb.String()
}

// renderHeader draws the step bar: done steps in green, the active one
// highlighted, the rest muted.
func (m Model) renderHeader() string {
	parts := make([]string, 0, 4)
	for _, step := range workflow.Steps() {
		label := step.String()
		switch {
		case step == m.flow.Step():
			parts = append(parts, m.styles.StepActive.Render(label))
		case step < m.flow.Step():
			parts = append(parts, m.styles.StepDone.Render("✔ "+label))
		default:
			parts = append(parts, m.styles.StepIdle.Render(label))
		}
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Center, parts...)
	title := m.styles.Header.Render("pptpro")
	if m.flow.ProjectTitle() != "" {
		title = m.styles.Header.Render("pptpro · " + m.flow.ProjectTitle())
	}
	return title + "  " + bar
}

func (m Model) renderFooter() string {
	var status string
	if m.loading {
		status = m.spinner.View() + " " + m.status
	} else if m.err != nil && m.status != "" {
		status = m.styles.Error.Render(m.status)
	} else {
		status = m.styles.Muted.Render(m.status)
	}
	return m.styles.Footer.Render(status + "\n" + m.keyHelp())
}

func (m Model) keyHelp() string {
	switch m.flow.Step() {
	case workflow.StepStoryline:
		return "tab: next field · alt+←/→: narrative style · enter: generate · ctrl+c: quit"
	case workflow.StepTemplates:
		return "←/→: slide · ↑/↓: template · enter: pick · s: suggest · n: continue · r: restart"
	case workflow.StepContent:
		if m.editing {
			return "enter: save · esc: cancel"
		}
		return "←/→: slide · ↑/↓: field · enter: edit · c: classify · g: draft · b: draft all · s: save slides · n: continue"
	case workflow.StepExport:
		return "p: refresh · i: toggle empty slides · x: export · r: restart · q: quit"
	}
	return ""
}

func (m Model) renderStorylineStep() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("Tell me about your presentation"))
	sb.WriteString("\n")

	labels := []string{"Topic", "Audience", "Goal", "Title"}
	for i, input := range m.inputs {
		label := m.styles.FieldLabel.Render(labels[i])
		if i == m.focus {
			label = m.styles.Selected.Render("› " + labels[i])
		}
		sb.WriteString(fmt.Sprintf("%s\n%s\n\n", label, input.View()))
	}

	sb.WriteString(m.styles.FieldLabel.Render("Narrative style") + "  ")
	for i, style := range api.NarrativeStyles {
		if i == m.styleIdx {
			sb.WriteString(m.styles.Badge.Render(style) + " ")
		} else {
			sb.WriteString(m.styles.Muted.Render(style) + " ")
		}
	}
	sb.WriteString("\n")
	return sb.String()
}

func (m Model) renderTemplatesStep() string {
	cur := m.flow.Current()
	if cur == nil {
		return m.styles.Muted.Render("No slides yet")
	}

	var sb strings.Builder
	sb.WriteString(m.renderSlideStrip())
	sb.WriteString("\n")
	sb.WriteString(m.styles.Title.Render(fmt.Sprintf("Slide %d · %s", cur.Order, cur.HeadMessage)))
	sb.WriteString("\n")
	sb.WriteString(m.styles.Subtitle.Render(cur.Purpose))
	sb.WriteString("\n\n")

	for i, t := range deck.KnownTemplates() {
		meta, _ := deck.MetaFor(t)
		line := fmt.Sprintf("%s · %s", meta.Name, meta.Description)
		switch {
		case i == m.templateIdx:
			sb.WriteString(m.styles.Selected.Render("› " + line))
		case t == cur.Template:
			sb.WriteString(m.styles.Success.Render("✔ " + line))
		default:
			sb.WriteString(m.styles.Unselected.Render("  " + line))
		}
		if t == cur.TemplateSuggestion {
			sb.WriteString(m.styles.Info.Render("  (suggested)"))
		}
		sb.WriteString("\n")
	}

	if m.suggestion != nil {
		sb.WriteString("\n")
		sb.WriteString(m.styles.Panel.Render(
			m.styles.Bold.Render(string(m.suggestion.TemplateType)) + "\n" +
				m.safeRenderMarkdown(m.suggestion.Reason)))
	}
	return sb.String()
}

func (m Model) renderContentStep() string {
	cur := m.flow.Current()
	if cur == nil {
		return m.styles.Muted.Render("No slides yet")
	}

	var sb strings.Builder
	sb.WriteString(m.renderSlideStrip())
	sb.WriteString("\n")
	sb.WriteString(m.styles.Title.Render(fmt.Sprintf("Slide %d · %s", cur.Order, cur.HeadMessage)))
	sb.WriteString("  " + m.styles.StatusBadge(cur.Status))
	sb.WriteString("\n\n")

	payload := cur.Content.Payload()
	for i, field := range m.editableFields() {
		label := field.Name
		if field.Required {
			label += " *"
		}
		value := "-"
		if v, ok := payload[field.Name]; ok {
			value = fmt.Sprintf("%v", v)
		}
		line := fmt.Sprintf("%-16s %s", label, value)
		if strings.Contains(value, deck.UserNeededMarker) {
			line = fmt.Sprintf("%-16s %s", label, m.styles.MarkerNeeded.Render("needs your input"))
		}
		if i == m.fieldIdx && !m.editing {
			sb.WriteString(m.styles.Selected.Render("› " + line))
		} else {
			sb.WriteString(m.styles.Unselected.Render("  " + line))
		}
		sb.WriteString("\n")
	}

	if cur.Classification != nil {
		sb.WriteString("\n")
		sb.WriteString(m.styles.Muted.Render(fmt.Sprintf(
			"%d fields need you, %d can be drafted",
			len(cur.Classification.UserNeeded), len(cur.Classification.AIGenerated))))
		sb.WriteString("\n")
	}

	if m.editing {
		if fields := m.editableFields(); len(fields) > 0 {
			idx := m.fieldIdx
			if idx >= len(fields) {
				idx = 0
			}
			sb.WriteString("\n")
			sb.WriteString(m.styles.FieldLabel.Render("Editing " + fields[idx].Name))
			sb.WriteString("\n")
			sb.WriteString(m.editor.View())
		}
	}
	return sb.String()
}

func (m Model) renderExportStep() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("Export your deck"))
	sb.WriteString("\n")

	if m.preview != nil {
		for _, slide := range m.preview.Slides {
			badge := m.styles.StatusBadge(slide.Status)
			summary := slide.ContentSummary
			if summary == "" {
				summary = m.styles.Muted.Render("no content")
			}
			sb.WriteString(fmt.Sprintf("%2d. %-40s %s  %s\n",
				slide.Order, truncateView(slide.HeadMessage, 40), badge, summary))
		}
		s := m.preview.Summary
		sb.WriteString("\n")
		sb.WriteString(m.styles.Bold.Render(fmt.Sprintf(
			"%d slides (%d content) · %d ready · %.0f%% complete",
			s.TotalSlides, s.ContentSlides, s.ReadySlides, s.CompletionRate)))
		sb.WriteString("\n")
	}

	mode := "ready slides only"
	if m.includeEmpty {
		mode = "all slides, empty ones included"
	}
	sb.WriteString(m.styles.Muted.Render("Export mode: " + mode))
	sb.WriteString("\n")

	if m.exportPath != "" {
		sb.WriteString("\n")
		sb.WriteString(m.styles.Success.Render("Saved: " + m.exportPath))
		sb.WriteString("\n")
	}
	return sb.String()
}

// renderSlideStrip draws the deck overview line with the focused slide
// highlighted.
func (m Model) renderSlideStrip() string {
	parts := make([]string, 0, len(m.flow.Slides()))
	for i, s := range m.flow.Slides() {
		cell := fmt.Sprintf("%d", s.Order)
		if s.Template != "" {
			cell += "•"
		}
		if i == m.flow.Cursor() {
			parts = append(parts, m.styles.Badge.Render(cell))
		} else {
			parts = append(parts, m.styles.Muted.Render(cell))
		}
	}
	return strings.Join(parts, " ")
}

// safeRenderMarkdown renders markdown with panic recovery; glamour can choke
// on odd terminal profiles.
func (m Model) safeRenderMarkdown(content string) (result string) {
	defer func() {
		if r := recover(); r != nil {
			result = content
		}
	}()
	if m.renderer == nil {
		return content
	}
	rendered, err := m.renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimSpace(rendered)
}

func truncateView(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
