package display

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lox/vegasjack/internal/session"
)

// Run starts the TUI for sess and blocks until the player exits or ctx is
// cancelled. The session is quit on the way out if it is still live.
func Run(ctx context.Context, sess *session.Session, opts Options) error {
	model := NewModel(ctx, sess, opts)
	program := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithOutput(model.opts.Output),
	)

	model.logger.Info("Starting TUI", "session", sess.ID())
	_, err := program.Run()

	if sess.State() != session.Over {
		if qerr := sess.Quit(); qerr != nil {
			model.logger.Warn("Quit failed", "error", qerr)
		}
	}

	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			model.logger.Info("TUI interrupted", "reason", ctx.Err())
			return nil
		}
		return fmt.Errorf("running TUI: %w", err)
	}
	model.logger.Info("TUI closed", "bankroll", sess.Bankroll())
	return nil
}
