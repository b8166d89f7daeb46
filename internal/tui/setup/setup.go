// Package setup implements the interactive configuration wizard. It walks
// the user through tool selection and a default model, then writes the
// config file.
package setup

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"recipeforge/internal/config"
)

// Result holds the output values from the setup wizard.
type Result struct {
	Tools []string // Selected tool backends
	Model string   // Optional global model override
}

// Model is the main BubbleTea model for the setup wizard. It manages the
// two-step flow: tool selector, then model input.
type Model struct {
	step      int    // Current step (0-1)
	cancelled bool   // User cancelled via ESC
	result    Result // Accumulated result from each step
	width     int    // Terminal width
	height    int    // Terminal height
	isProject bool   // Write to ./recipeforge.yml instead of the global path

	toolsStep *ToolsStep
	modelStep *ModelStep
}

// ToolsSelectedMsg is sent when the tool set is confirmed in step 0.
type ToolsSelectedMsg struct {
	Tools []string
}

// ModelEnteredMsg is sent when the model input is confirmed in step 1.
type ModelEnteredMsg struct {
	Model string
}

// Run is the entry point for the setup wizard. It creates a standalone
// BubbleTea program, runs it, writes the config, and returns the result.
func Run(isProject bool) (*Result, error) {
	m := &Model{isProject: isProject}

	p := tea.NewProgram(m)
	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("setup wizard failed: %w", err)
	}

	wizard, ok := finalModel.(*Model)
	if !ok {
		return nil, fmt.Errorf("unexpected model type")
	}
	if wizard.cancelled {
		return nil, fmt.Errorf("setup wizard cancelled by user")
	}

	if err := wizard.WriteConfig(); err != nil {
		return nil, err
	}
	return &wizard.result, nil
}

// Init initializes the wizard at the tool selection step.
func (m *Model) Init() tea.Cmd {
	m.toolsStep = NewToolsStep()
	return nil
}

// Update handles messages for the setup wizard.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancelled = true
			return m, tea.Quit
		case "esc":
			if m.step == 0 {
				m.cancelled = true
				return m, tea.Quit
			}
			m.step--
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case ToolsSelectedMsg:
		m.result.Tools = msg.Tools
		m.step++
		if m.modelStep == nil {
			m.modelStep = NewModelStep()
		}
		return m, m.modelStep.Init()

	case ModelEnteredMsg:
		m.result.Model = msg.Model
		return m, tea.Quit
	}

	var cmd tea.Cmd
	switch m.step {
	case 0:
		if m.toolsStep != nil {
			cmd = m.toolsStep.Update(msg)
		}
	case 1:
		if m.modelStep != nil {
			cmd = m.modelStep.Update(msg)
		}
	}
	return m, cmd
}

// View renders the setup wizard UI.
func (m *Model) View() tea.View {
	var view tea.View
	view.AltScreen = true

	var stepContent string
	stepNames := []string{"Select Tools", "Default Model"}
	switch m.step {
	case 0:
		if m.toolsStep != nil {
			stepContent = m.toolsStep.View()
		}
	case 1:
		if m.modelStep != nil {
			stepContent = m.modelStep.View()
		}
	}

	title := titleStyle.Render(fmt.Sprintf("Setup - Step %d of 2: %s", m.step+1, stepNames[m.step]))
	body := lipgloss.JoinVertical(lipgloss.Left, title, "", stepContent)
	box := boxStyle.Render(body)

	if m.width > 0 && m.height > 0 {
		box = lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	view.Content = lipgloss.NewLayer(box)
	return view
}

// WriteConfig writes the wizard result to the appropriate config file.
func (m *Model) WriteConfig() error {
	cfg := config.Default()
	cfg.Tools = m.result.Tools
	cfg.Model = m.result.Model

	if m.isProject {
		return config.WriteProject(cfg)
	}
	return config.WriteGlobal(cfg)
}

// Theme colors (catppuccin mocha)
var (
	colorPrimary = lipgloss.Color("#cba6f7") // Mauve
	colorMuted   = lipgloss.Color("#a6adc8") // Subtext0
	colorBase    = lipgloss.Color("#cdd6f4") // Text
	colorSuccess = lipgloss.Color("#a6e3a1") // Green
	colorBorder  = lipgloss.Color("#585b70") // Surface2

	titleStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(1, 2)
)
