package wizard

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/M00N7682/pptpro/internal/api"
)

// Async results arrive as messages; the commands below run the blocking
// backend calls off the update loop.

type errMsg struct{ err error }

type storylineDoneMsg struct{}

type slidesPersistedMsg struct{}

type suggestionMsg struct{ suggestion *api.TemplateSuggestion }

type classifiedMsg struct{ result *api.Classification }

type contentGeneratedMsg struct{}

type batchDoneMsg struct{ result *api.BatchResult }

type fieldSavedMsg struct{ field string }

type previewMsg struct{ preview *api.DeckPreview }

type exportDoneMsg struct{ path string }

func (m Model) generateStoryline(req api.StorylineRequest) tea.Cmd {
	return func() tea.Msg {
		if err := m.flow.GenerateStoryline(context.Background(), req); err != nil {
			return errMsg{err}
		}
		return storylineDoneMsg{}
	}
}

func (m Model) persistSlides() tea.Cmd {
	return func() tea.Msg {
		if err := m.flow.PersistSlides(context.Background()); err != nil {
			return errMsg{err}
		}
		return slidesPersistedMsg{}
	}
}

func (m Model) suggestTemplate() tea.Cmd {
	return func() tea.Msg {
		suggestion, err := m.flow.SuggestTemplate(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return suggestionMsg{suggestion}
	}
}

func (m Model) classifySlide() tea.Cmd {
	return func() tea.Msg {
		result, err := m.flow.Classify(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return classifiedMsg{result}
	}
}

func (m Model) generateContent() tea.Cmd {
	return func() tea.Msg {
		if err := m.flow.GenerateContent(context.Background()); err != nil {
			return errMsg{err}
		}
		return contentGeneratedMsg{}
	}
}

func (m Model) batchGenerate() tea.Cmd {
	return func() tea.Msg {
		result, err := m.flow.BatchGenerate(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return batchDoneMsg{result}
	}
}

func (m Model) saveField(field string, value string) tea.Cmd {
	return func() tea.Msg {
		if err := m.flow.EditField(context.Background(), field, value); err != nil {
			return errMsg{err}
		}
		return fieldSavedMsg{field}
	}
}

func (m Model) fetchPreview() tea.Cmd {
	return func() tea.Msg {
		preview, err := m.flow.Preview(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return previewMsg{preview}
	}
}

func (m Model) exportDeck() tea.Cmd {
	includeEmpty := m.includeEmpty
	dir := m.cfg.State.DownloadDir
	return func() tea.Msg {
		path, err := m.flow.Export(context.Background(), dir, includeEmpty)
		if err != nil {
			return errMsg{err}
		}
		return exportDoneMsg{path}
	}
}
