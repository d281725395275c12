package tui

import (
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/opsdeck/daemonctl/internal/client"
	"github.com/opsdeck/daemonctl/internal/config"
)

// Run starts the Bubble Tea program for one console session and blocks until
// the operator quits. The daemon connection is opened lazily on the 'c' key,
// never here.
func Run(cfg config.Config) error {
	c := client.New(cfg.Address,
		client.WithConnectTimeout(cfg.ConnectTimeout),
		client.WithCallTimeout(cfg.CallTimeout),
	)
	defer c.Disconnect()

	model := NewModel(c, cfg)

	// The alt screen belongs to the dashboard while it runs. Mouse capture
	// stops terminal scrollback from tearing the layout.
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	// Silence logrus while the TUI owns the terminal, unless it already
	// writes somewhere else (a configured log file keeps receiving the
	// activity mirror).
	if prevOut := logrus.StandardLogger().Out; prevOut == os.Stderr || prevOut == os.Stdout {
		logrus.SetOutput(io.Discard)
		defer logrus.SetOutput(prevOut)
	}

	_, err := p.Run()
	return err
}
