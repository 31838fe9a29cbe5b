package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/packsmith/packsmith/internal/engine"
	"github.com/packsmith/packsmith/internal/model"
)

// Run shows the catalog picker and returns the selections the user confirmed.
// A canceled picker returns an empty selection and no error.
func Run(ctx context.Context, variants []model.Variant) ([]engine.Selection, error) {
	program := tea.NewProgram(
		NewPicker(variants),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
	)

	final, err := program.Run()
	if err != nil {
		return nil, fmt.Errorf("running catalog picker: %w", err)
	}

	picker, ok := final.(Picker)
	if !ok {
		return nil, fmt.Errorf("unexpected picker model type %T", final)
	}
	return picker.Selections(), nil
}
