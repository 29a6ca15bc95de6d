package ui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gprmax-ragbot/models"
	"gprmax-ragbot/rag"
)

type stubAsker struct {
	result    *models.QueryResult
	err       error
	questions []string
}

func (s *stubAsker) Ask(_ context.Context, question string) (*models.QueryResult, error) {
	s.questions = append(s.questions, question)
	return s.result, s.err
}

func TestModel_InitialViewShowsGreeting(t *testing.T) {
	m := NewModel(context.Background(), &stubAsker{})

	view := m.View()

	assert.Contains(t, view, "gprMax RAGBot")
	assert.Contains(t, view, "gprMax assistant")
}

func TestModel_AskAndRenderAnswer(t *testing.T) {
	asker := &stubAsker{result: &models.QueryResult{
		Answer:  "Use #domain first.",
		Sources: []string{"Section: ESSENTIAL COMMANDS, Page: 5"},
	}}
	m := NewModel(context.Background(), asker)
	m.input.SetValue("What are the essential commands?")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	assert.True(t, m.loading)
	assert.Empty(t, m.input.Value())
	assert.Contains(t, m.View(), "검색 중")

	msg := m.ask("What are the essential commands?")()
	m.Update(msg)

	view := m.View()
	assert.False(t, m.loading)
	assert.Equal(t, []string{"What are the essential commands?"}, asker.questions)
	assert.Contains(t, view, "What are the essential commands?")
	assert.Contains(t, view, "Use #domain first.")
	assert.Contains(t, view, "Section: ESSENTIAL COMMANDS, Page: 5")
}

func TestModel_ErrorShowsFallback(t *testing.T) {
	m := NewModel(context.Background(), &stubAsker{err: models.ErrIndexNotFound})

	m.Update(m.ask("anything")())

	assert.Contains(t, m.View(), rag.MsgNoIndex)
}

func TestModel_EmptyEnterIgnored(t *testing.T) {
	m := NewModel(context.Background(), &stubAsker{})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.False(t, m.loading)
	assert.Len(t, m.history, 1)
}

func TestModel_TabCyclesExamples(t *testing.T) {
	m := NewModel(context.Background(), &stubAsker{})

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, ExampleQuestions[0], m.input.Value())

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, ExampleQuestions[1], m.input.Value())
}

func TestModel_ExitQuits(t *testing.T) {
	m := NewModel(context.Background(), &stubAsker{})
	m.input.SetValue("exit")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	assert.True(t, m.quitting)
	assert.Contains(t, m.View(), "안녕히 가세요")
}

func TestModel_KeysIgnoredWhileLoading(t *testing.T) {
	m := NewModel(context.Background(), &stubAsker{})
	m.loading = true

	m.Update(tea.KeyMsg{Type: tea.KeyTab})

	assert.Empty(t, m.input.Value())
}
