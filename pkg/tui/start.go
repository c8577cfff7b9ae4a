package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"walletwatch/pkg/watcher"
)

func Start(w *watcher.Watcher, version string) {
	Version = version
	p := tea.NewProgram(
		initialModel(w),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Alas, there's been an error: %v", err)
		os.Exit(1)
	}
}
