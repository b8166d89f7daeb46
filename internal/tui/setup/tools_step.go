package setup

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"recipeforge/internal/backend"
)

// ToolsStep manages the tool multi-select UI step.
type ToolsStep struct {
	tools    []string
	selected map[int]bool
	cursor   int
}

// NewToolsStep creates the tool selection step with all registered
// backends, the first one pre-selected.
func NewToolsStep() *ToolsStep {
	return &ToolsStep{
		tools:    backend.DefaultRegistry().Names(),
		selected: map[int]bool{0: true},
	}
}

// Update handles keyboard input for the tool selector.
func (s *ToolsStep) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(s.tools)-1 {
			s.cursor++
		}
	case "space", " ":
		s.selected[s.cursor] = !s.selected[s.cursor]
	case "enter":
		tools := s.Selected()
		if len(tools) == 0 {
			return nil
		}
		return func() tea.Msg {
			return ToolsSelectedMsg{Tools: tools}
		}
	}
	return nil
}

// Selected returns the chosen tool names in registry order.
func (s *ToolsStep) Selected() []string {
	var tools []string
	for i, tool := range s.tools {
		if s.selected[i] {
			tools = append(tools, tool)
		}
	}
	return tools
}

// View renders the tool selector.
func (s *ToolsStep) View() string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(colorBase).Render("Which tools should scripts be generated for?"))
	b.WriteString("\n\n")

	for i, tool := range s.tools {
		cursor := "  "
		if i == s.cursor {
			cursor = "> "
		}
		check := "[ ]"
		style := lipgloss.NewStyle().Foreground(colorMuted)
		if s.selected[i] {
			check = "[x]"
			style = lipgloss.NewStyle().Foreground(colorSuccess)
		}
		b.WriteString(style.Render(cursor+check+" "+tool) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(colorMuted).Render("space: toggle  enter: confirm  esc: cancel"))
	return b.String()
}
