package setup

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// ModelStep manages the default-model input UI step.
type ModelStep struct {
	input textinput.Model
}

// NewModelStep creates the model input step.
func NewModelStep() *ModelStep {
	input := textinput.New()
	input.Placeholder = "leave empty for per-manifest models"
	input.Prompt = "> "

	styles := textinput.Styles{
		Focused: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(colorBase),
			Placeholder: lipgloss.NewStyle().Foreground(colorMuted),
			Prompt:      lipgloss.NewStyle().Foreground(colorPrimary),
		},
		Blurred: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(colorMuted),
			Placeholder: lipgloss.NewStyle().Foreground(colorMuted),
			Prompt:      lipgloss.NewStyle().Foreground(colorBorder),
		},
		Cursor: textinput.CursorStyle{
			Color: colorPrimary,
			Shape: tea.CursorBar,
			Blink: true,
		},
	}
	input.SetStyles(styles)
	input.SetWidth(50)

	return &ModelStep{input: input}
}

// Init focuses the input.
func (s *ModelStep) Init() tea.Cmd {
	return s.input.Focus()
}

// Update handles messages for the model step.
func (s *ModelStep) Update(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyPressMsg); ok && keyMsg.String() == "enter" {
		value := strings.TrimSpace(s.input.Value())
		return func() tea.Msg {
			return ModelEnteredMsg{Model: value}
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return cmd
}

// View renders the model step.
func (s *ModelStep) View() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(colorBase).Render("Force one model for every step? (optional)"))
	b.WriteString("\n\n")
	b.WriteString(s.input.View())
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(colorMuted).Render("enter: confirm  esc: back"))
	return b.String()
}
