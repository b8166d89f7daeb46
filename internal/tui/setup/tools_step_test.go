package setup

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func TestToolsStep_ToggleAndConfirm(t *testing.T) {
	step := NewToolsStep()

	// First tool is pre-selected
	selected := step.Selected()
	if len(selected) != 1 {
		t.Fatalf("Expected one pre-selected tool, got %v", selected)
	}

	// Move down and toggle the second tool
	step.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	step.Update(tea.KeyPressMsg{Code: tea.KeySpace, Text: " "})

	selected = step.Selected()
	if len(selected) != 2 {
		t.Fatalf("Expected two selected tools, got %v", selected)
	}

	// Enter confirms with a ToolsSelectedMsg
	cmd := step.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("Expected cmd after pressing Enter")
	}
	msg, ok := cmd().(ToolsSelectedMsg)
	if !ok {
		t.Fatalf("Expected ToolsSelectedMsg, got %T", cmd())
	}
	if len(msg.Tools) != 2 {
		t.Errorf("Expected two tools in message, got %v", msg.Tools)
	}
}

func TestToolsStep_RequiresSelection(t *testing.T) {
	step := NewToolsStep()

	// Deselect the pre-selected tool
	step.Update(tea.KeyPressMsg{Code: tea.KeySpace, Text: " "})
	if len(step.Selected()) != 0 {
		t.Fatal("Expected no selection after toggle")
	}

	// Enter with nothing selected does not advance
	if cmd := step.Update(tea.KeyPressMsg{Code: tea.KeyEnter}); cmd != nil {
		t.Error("Expected nil cmd with empty selection")
	}
}

func TestToolsStep_ViewListsBackends(t *testing.T) {
	step := NewToolsStep()
	view := step.View()

	for _, tool := range []string{"claude", "copilot", "manual"} {
		if !strings.Contains(view, tool) {
			t.Errorf("Expected view to list %q", tool)
		}
	}
}

func TestModelStep_EnterConfirms(t *testing.T) {
	step := NewModelStep()
	step.Init()

	for _, r := range "sonnet" {
		step.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
	if step.input.Value() != "sonnet" {
		t.Fatalf("Expected input value sonnet, got %q", step.input.Value())
	}

	cmd := step.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("Expected cmd after pressing Enter")
	}
	msg, ok := cmd().(ModelEnteredMsg)
	if !ok {
		t.Fatalf("Expected ModelEnteredMsg, got %T", cmd())
	}
	if msg.Model != "sonnet" {
		t.Errorf("Expected model sonnet, got %q", msg.Model)
	}
}
