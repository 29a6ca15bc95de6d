package ui

import (
	"context"
	"strings"

	"gprmax-ragbot/models"
	"gprmax-ragbot/rag"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			MarginBottom(1)

	questionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			PaddingLeft(2)

	answerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4")).
			PaddingLeft(2).
			Width(88)

	sourceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A0A0A0")).
			PaddingLeft(4)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			PaddingLeft(2)

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD93D")).
			PaddingLeft(2)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
)

// Greeting 대화 시작 메시지
const Greeting = "Hello! I'm your gprMax assistant. How can I help you with your Ground Penetrating Radar simulations today?"

// ExampleQuestions Tab 키로 입력창에 채울 수 있는 예시 질문
var ExampleQuestions = []string{
	"How do I install gprMax?",
	"What are the essential commands for input files?",
	"How do I model a heterogeneous soil?",
	"Explain the PML absorbing boundary conditions",
	"How can I visualize my results?",
}

// Asker 질문을 받아 답변과 출처를 돌려주는 질의 진입점 (*rag.Engine)
type Asker interface {
	Ask(ctx context.Context, question string) (*models.QueryResult, error)
}

type role int

const (
	roleUser role = iota
	roleAssistant
	roleError
)

// entry 대화 기록 한 줄 (모델에는 보내지 않는 단순 기록)
type entry struct {
	role    role
	text    string
	sources []string
}

// Model TUI 애플리케이션 모델
type Model struct {
	ctx      context.Context
	asker    Asker
	input    textinput.Model
	spinner  spinner.Model
	history  []entry
	example  int
	loading  bool
	quitting bool
	width    int
}

// NewModel 새로운 TUI 모델을 생성합니다
func NewModel(ctx context.Context, asker Asker) *Model {
	input := textinput.New()
	input.Placeholder = "gprMax에 대해 질문하세요"
	input.CharLimit = 1000
	input.Width = 80
	input.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = loadingStyle

	return &Model{
		ctx:     ctx,
		asker:   asker,
		input:   input,
		spinner: s,
		history: []entry{{role: roleAssistant, text: Greeting}},
	}
}

// Init bubbletea 초기화 함수
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update bubbletea 업데이트 함수
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if msg.Width > 8 {
			m.input.Width = msg.Width - 8
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			return m, tea.Quit
		}

		if m.loading {
			return m, nil
		}

		switch msg.Type {
		case tea.KeyEnter:
			question := strings.TrimSpace(m.input.Value())
			if question == "" {
				return m, nil
			}
			if question == "exit" {
				m.quitting = true
				return m, tea.Quit
			}
			m.history = append(m.history, entry{role: roleUser, text: question})
			m.input.Reset()
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, m.ask(question))

		case tea.KeyTab:
			m.input.SetValue(ExampleQuestions[m.example%len(ExampleQuestions)])
			m.input.CursorEnd()
			m.example++
			return m, nil
		}

		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case answerMsg:
		m.loading = false
		if msg.err != nil {
			m.history = append(m.history, entry{role: roleError, text: rag.FallbackMessage(msg.err)})
		} else {
			m.history = append(m.history, entry{role: roleAssistant, text: msg.result.Answer, sources: msg.result.Sources})
		}
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View bubbletea 뷰 함수
func (m *Model) View() string {
	if m.quitting {
		return "\n👋 안녕히 가세요!\n\n"
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("📡 gprMax RAGBot"))
	b.WriteString("\n\n")

	for _, e := range m.history {
		switch e.role {
		case roleUser:
			b.WriteString(questionStyle.Render("🙋 " + e.text))
			b.WriteString("\n")
		case roleError:
			b.WriteString(errorStyle.Render("❌ " + e.text))
			b.WriteString("\n\n")
		default:
			for _, line := range strings.Split(e.text, "\n") {
				b.WriteString(answerStyle.Render(line))
				b.WriteString("\n")
			}
			if len(e.sources) > 0 {
				b.WriteString(sourceStyle.Render("📚 Sources:"))
				b.WriteString("\n")
				for _, s := range e.sources {
					b.WriteString(sourceStyle.Render("- " + s))
					b.WriteString("\n")
				}
			}
			b.WriteString("\n")
		}
	}

	if m.loading {
		b.WriteString(loadingStyle.Render(m.spinner.View() + " 검색 중..."))
		b.WriteString("\n\n")
	}

	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("Enter: 질문 · Tab: 예시 질문 · Esc/Ctrl+C: 종료"))
	b.WriteString("\n")

	return b.String()
}

// answerMsg 질의 결과 메시지
type answerMsg struct {
	result *models.QueryResult
	err    error
}

// ask 질의를 수행하는 커맨드
func (m *Model) ask(question string) tea.Cmd {
	return func() tea.Msg {
		result, err := m.asker.Ask(m.ctx, question)
		return answerMsg{result: result, err: err}
	}
}

// Run TUI 애플리케이션을 실행합니다
func Run(ctx context.Context, asker Asker) error {
	p := tea.NewProgram(NewModel(ctx, asker), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
