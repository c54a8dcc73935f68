// Package wizard provides the interactive four-step authoring TUI.
// The interface is split across multiple files:
//   - model.go: Types, construction, Init (this file)
//   - model_update.go: Update loop and key handling
//   - commands.go: Async backend calls as tea.Cmd
//   - view.go: Rendering functions
package wizard

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"github.com/M00N7682/pptpro/cmd/pptpro/ui"
	"github.com/M00N7682/pptpro/internal/api"
	"github.com/M00N7682/pptpro/internal/config"
	"github.com/M00N7682/pptpro/internal/deck"
	"github.com/M00N7682/pptpro/internal/workflow"
)

// form field indexes for the storyline step
const (
	fieldTopic = iota
	fieldTarget
	fieldGoal
	fieldTitle
	fieldCount
)

// Model is the bubbletea model for the authoring wizard.
type Model struct {
	styles ui.Styles
	cfg    *config.Config
	flow   *workflow.Workflow
	logger *zap.Logger

	// storyline form
	inputs   []textinput.Model
	focus    int
	styleIdx int

	// template step
	templateIdx int
	suggestion  *api.TemplateSuggestion

	// content step
	editing  bool
	fieldIdx int
	editor   textarea.Model

	// export step
	preview      *api.DeckPreview
	includeEmpty bool
	exportPath   string

	spinner  spinner.Model
	renderer *glamour.TermRenderer

	loading bool
	status  string
	err     error

	width  int
	height int

	quitting bool
}

// New creates the wizard model. The workflow carries all backend state; the
// model only holds presentation state.
func New(cfg *config.Config, flow *workflow.Workflow, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	styles := ui.NewStyles(ui.ThemeFor(cfg.UI.Theme))

	inputs := make([]textinput.Model, fieldCount)
	placeholders := []string{
		"What is the presentation about?",
		"Who is the audience?",
		"What should the audience do or believe afterwards?",
		"Project title (saved on generation)",
	}
	for i := range inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 500
		ti.Width = 60
		inputs[i] = ti
	}
	inputs[fieldTopic].Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	ed := textarea.New()
	ed.Placeholder = "Type the field value..."
	ed.SetHeight(4)

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(76),
	)
	if err != nil {
		renderer = nil
	}

	m := Model{
		styles:   styles,
		cfg:      cfg,
		flow:     flow,
		logger:   logger,
		inputs:   inputs,
		editor:   ed,
		spinner:  sp,
		renderer: renderer,
	}

	// resume a cached form draft if one exists
	if req, found := flow.LoadDraft(); found {
		m.inputs[fieldTopic].SetValue(req.Topic)
		m.inputs[fieldTarget].SetValue(req.Target)
		m.inputs[fieldGoal].SetValue(req.Goal)
		m.inputs[fieldTitle].SetValue(req.ProjectTitle)
		for i, s := range api.NarrativeStyles {
			if s == req.NarrativeStyle {
				m.styleIdx = i
			}
		}
		m.status = "Restored your unsaved input"
	}
	return m
}

// Init starts the spinner tick.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// formRequest assembles the storyline request from the form state.
func (m Model) formRequest() api.StorylineRequest {
	return api.StorylineRequest{
		Topic:          strings.TrimSpace(m.inputs[fieldTopic].Value()),
		Target:         strings.TrimSpace(m.inputs[fieldTarget].Value()),
		Goal:           strings.TrimSpace(m.inputs[fieldGoal].Value()),
		NarrativeStyle: api.NarrativeStyles[m.styleIdx],
		CreateProject:  true,
		ProjectTitle:   strings.TrimSpace(m.inputs[fieldTitle].Value()),
	}
}

// editableFields returns the field specs for the focused slide's template.
func (m Model) editableFields() []deck.FieldSpec {
	cur := m.flow.Current()
	if cur == nil || cur.Template == "" {
		return nil
	}
	return deck.FieldsFor(cur.Template)
}
