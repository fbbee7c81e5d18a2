package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/DaanHessen/sovereign-tui/internal/util"
)

// Run boots the TUI program and blocks until it exits.
func Run(ctx context.Context, cfg util.Config, tuning util.Tuning, deps Deps) error {
	sess, err := newSession(ctx, cfg, tuning, deps)
	if err != nil {
		return err
	}
	program := tea.NewProgram(newModel(sess, cfg.Theme), tea.WithContext(ctx), tea.WithAltScreen())
	_, err = program.Run()
	return err
}
