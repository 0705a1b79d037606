package system

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/daycounter/internal/cli"
	"github.com/julianstephens/daycounter/internal/logger"
	"github.com/julianstephens/daycounter/internal/notifier"
	"github.com/julianstephens/daycounter/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	ctx.PerformAutomaticBackup()

	// the alt screen owns the terminal, so fallback notifications go to the log file
	n := notifier.NewDefault(logger.Writer())

	p := tea.NewProgram(tui.NewModel(ctx.Store, n), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui exited with error: %w", err)
	}
	return nil
}
