package wizard

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/M00N7682/pptpro/internal/api"
	"github.com/M00N7682/pptpro/internal/deck"
	"github.com/M00N7682/pptpro/internal/workflow"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if msg.Width > 10 {
			m.editor.SetWidth(min(msg.Width-6, 76))
		}
		return m, nil

	case tea.KeyMsg:
		// Ctrl+C always quits, whatever is in flight
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
		if m.loading {
			// ignore keys while a backend call runs
			return m, nil
		}
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case errMsg:
		m.loading = false
		m.err = msg.err
		if errors.Is(msg.err, api.ErrUnauthorized) {
			// the session is already torn down, nothing left to do here
			m.status = "Session expired. Run 'pptpro login' and start again."
			m.quitting = true
			return m, tea.Quit
		}
		m.status = api.ErrorDetail(msg.err)
		m.logger.Warn("Wizard operation failed", zap.Error(msg.err))
		return m, nil

	case storylineDoneMsg:
		m.loading = false
		m.err = nil
		m = m.syncTemplateCursor()
		m.status = fmt.Sprintf("Storyline ready: %d slides", len(m.flow.Slides()))
		return m, nil

	case suggestionMsg:
		m.loading = false
		m.suggestion = msg.suggestion
		m.templateIdx = templateIndex(msg.suggestion.TemplateType)
		m.status = "Suggestion: " + string(msg.suggestion.TemplateType)
		return m, nil

	case slidesPersistedMsg:
		m.loading = false
		m.status = "Slides saved"
		return m, nil

	case classifiedMsg:
		m.loading = false
		m.status = fmt.Sprintf("%d fields need your input, %d can be drafted",
			len(msg.result.UserNeeded), len(msg.result.AIGenerated))
		return m, nil

	case contentGeneratedMsg:
		m.loading = false
		m.status = "Draft content written"
		return m, nil

	case batchDoneMsg:
		m.loading = false
		m.status = fmt.Sprintf("Batch generation finished for %d slides", len(msg.result.Results))
		return m, nil

	case fieldSavedMsg:
		m.loading = false
		m.editing = false
		m.status = "Saved " + msg.field
		return m, nil

	case previewMsg:
		m.loading = false
		m.preview = msg.preview
		m.status = fmt.Sprintf("%d of %d slides ready (%.0f%%)",
			msg.preview.Summary.ReadySlides,
			msg.preview.Summary.ContentSlides,
			msg.preview.Summary.CompletionRate)
		return m, nil

	case exportDoneMsg:
		m.loading = false
		m.exportPath = msg.path
		m.status = "Saved " + msg.path
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editing {
		return m.handleEditorKey(msg)
	}

	switch m.flow.Step() {
	case workflow.StepStoryline:
		return m.handleStorylineKey(msg)
	case workflow.StepTemplates:
		return m.handleTemplatesKey(msg)
	case workflow.StepContent:
		return m.handleContentKey(msg)
	case workflow.StepExport:
		return m.handleExportKey(msg)
	}
	return m, nil
}

func (m Model) handleStorylineKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyTab, tea.KeyDown:
		m.focus = (m.focus + 1) % fieldCount
		return m.refocusInputs()
	case tea.KeyShiftTab, tea.KeyUp:
		m.focus = (m.focus + fieldCount - 1) % fieldCount
		return m.refocusInputs()
	case tea.KeyLeft:
		if msg.Alt {
			m.styleIdx = (m.styleIdx + len(api.NarrativeStyles) - 1) % len(api.NarrativeStyles)
			return m, nil
		}
	case tea.KeyRight:
		if msg.Alt {
			m.styleIdx = (m.styleIdx + 1) % len(api.NarrativeStyles)
			return m, nil
		}
	case tea.KeyEnter:
		req := m.formRequest()
		if req.Topic == "" || req.Target == "" || req.Goal == "" {
			m.status = "Topic, audience, and goal are all required"
			return m, nil
		}
		if req.ProjectTitle == "" {
			req.ProjectTitle = req.Topic + " Project"
		}
		m.loading = true
		m.status = "Generating storyline..."
		return m, tea.Batch(m.spinner.Tick, m.generateStoryline(req))
	}

	// every keystroke lands in the cached draft
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	m.flow.SaveDraft(m.formRequest())
	return m, cmd
}

func (m Model) refocusInputs() (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, fieldCount)
	for i := range m.inputs {
		if i == m.focus {
			cmds = append(cmds, m.inputs[i].Focus())
		} else {
			m.inputs[i].Blur()
		}
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleTemplatesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	templates := deck.KnownTemplates()

	switch msg.Type {
	case tea.KeyLeft:
		if err := m.flow.PrevSlide(); err == nil {
			m = m.syncTemplateCursor()
		}
		return m, nil
	case tea.KeyRight:
		if err := m.flow.NextSlide(); err != nil {
			m.status = err.Error()
		} else {
			m = m.syncTemplateCursor()
		}
		return m, nil
	case tea.KeyUp:
		m.templateIdx = (m.templateIdx + len(templates) - 1) % len(templates)
		return m, nil
	case tea.KeyDown:
		m.templateIdx = (m.templateIdx + 1) % len(templates)
		return m, nil
	case tea.KeyEnter:
		if err := m.flow.AssignTemplate(templates[m.templateIdx]); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("Slide %d: %s", m.flow.Current().Order, templates[m.templateIdx])
		return m, nil
	}

	switch msg.String() {
	case "s":
		m.loading = true
		m.status = "Asking for a template suggestion..."
		return m, tea.Batch(m.spinner.Tick, m.suggestTemplate())
	case "n":
		if err := m.flow.Advance(); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.loading = true
		m.status = "Saving slides..."
		return m, tea.Batch(m.spinner.Tick, m.persistSlides())
	case "r":
		m = m.restart()
		return m, nil
	}
	return m, nil
}

// restart resets the workflow and every cursor that indexed into its slides.
func (m Model) restart() Model {
	m.flow.Reset()
	m.fieldIdx = 0
	m.templateIdx = 0
	m.suggestion = nil
	m.editing = false
	m.preview = nil
	m.exportPath = ""
	m.status = "Starting over"
	return m
}

func (m Model) syncTemplateCursor() Model {
	m.suggestion = nil
	cur := m.flow.Current()
	switch {
	case cur == nil:
	case cur.Template != "":
		m.templateIdx = templateIndex(cur.Template)
	case cur.TemplateSuggestion != "":
		// highlight the suggestion, but picking stays with the user
		m.templateIdx = templateIndex(cur.TemplateSuggestion)
	}
	return m
}

func (m Model) handleContentKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	fields := m.editableFields()
	// the cursor may be stale after a restart or a template change
	if m.fieldIdx >= len(fields) {
		m.fieldIdx = 0
	}

	switch msg.Type {
	case tea.KeyLeft:
		if err := m.flow.PrevSlide(); err == nil {
			m.fieldIdx = 0
		}
		return m, nil
	case tea.KeyRight:
		if err := m.flow.NextSlide(); err == nil {
			m.fieldIdx = 0
		}
		return m, nil
	case tea.KeyUp:
		if len(fields) > 0 {
			m.fieldIdx = (m.fieldIdx + len(fields) - 1) % len(fields)
		}
		return m, nil
	case tea.KeyDown:
		if len(fields) > 0 {
			m.fieldIdx = (m.fieldIdx + 1) % len(fields)
		}
		return m, nil
	case tea.KeyEnter:
		if len(fields) == 0 {
			return m, nil
		}
		cur := m.flow.Current()
		m.editing = true
		m.editor.Reset()
		if cur != nil {
			if v, ok := cur.Content.Payload()[fields[m.fieldIdx].Name].(string); ok {
				m.editor.SetValue(v)
			}
		}
		return m, m.editor.Focus()
	}

	switch msg.String() {
	case "c":
		m.loading = true
		m.status = "Classifying content elements..."
		return m, tea.Batch(m.spinner.Tick, m.classifySlide())
	case "g":
		m.loading = true
		m.status = "Drafting content..."
		return m, tea.Batch(m.spinner.Tick, m.generateContent())
	case "b":
		m.loading = true
		m.status = "Drafting content for every slide..."
		return m, tea.Batch(m.spinner.Tick, m.batchGenerate())
	case "s":
		// picks up where a failed save left off
		m.loading = true
		m.status = "Saving slides..."
		return m, tea.Batch(m.spinner.Tick, m.persistSlides())
	case "n":
		if err := m.flow.Advance(); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.loading = true
		m.status = "Checking deck readiness..."
		return m, tea.Batch(m.spinner.Tick, m.fetchPreview())
	case "r":
		m = m.restart()
		return m, nil
	}
	return m, nil
}

func (m Model) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.editing = false
		m.editor.Blur()
		return m, nil
	case tea.KeyEnter:
		fields := m.editableFields()
		if len(fields) == 0 {
			m.editing = false
			return m, nil
		}
		if m.fieldIdx >= len(fields) {
			m.fieldIdx = 0
		}
		m.loading = true
		m.editor.Blur()
		return m, tea.Batch(m.spinner.Tick, m.saveField(fields[m.fieldIdx].Name, m.editor.Value()))
	}
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m Model) handleExportKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "p":
		m.loading = true
		m.status = "Refreshing preview..."
		return m, tea.Batch(m.spinner.Tick, m.fetchPreview())
	case "i":
		m.includeEmpty = !m.includeEmpty
		return m, nil
	case "x", "enter":
		if !m.includeEmpty && m.preview != nil && m.preview.Summary.ReadySlides == 0 {
			m.status = "No slides are ready yet; press 'i' to include empty slides"
			return m, nil
		}
		m.loading = true
		m.status = "Rendering your deck..."
		return m, tea.Batch(m.spinner.Tick, m.exportDeck())
	case "r":
		m = m.restart()
		return m, nil
	case "q":
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func templateIndex(t deck.TemplateType) int {
	for i, known := range deck.KnownTemplates() {
		if known == t {
			return i
		}
	}
	return 0
}
