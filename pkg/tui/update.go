package tui

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"walletwatch/pkg/view"
	"walletwatch/pkg/watcher"
)

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {

	case watcher.Event:
		// Keep listening on the same subscription.
		cmds = append(cmds, listenForWatcher(m.sub))

		m.rows = view.Render(m.watcher.Snapshot(), time.Now())
		m.lastUpdate = time.Now()
		m.loading = false
		if msg.Type == watcher.EventRefreshCompleted {
			m.refreshing = false
		}

	case uiTickMsg:
		// Re-derive rows every second so elapsed strings keep counting.
		m.rows = view.Render(m.watcher.Snapshot(), time.Now())
		cmds = append(cmds, tea.Tick(time.Second, func(t time.Time) tea.Msg { return uiTickMsg(t) }))

	case refreshDoneMsg:
		m.refreshing = false

	case clearStatusMsg:
		m.statusMessage = ""

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.cursor < m.totalRows()-1 {
				m.cursor++
			}

		case "r":
			if !m.refreshing {
				m.refreshing = true
				w := m.watcher
				cmds = append(cmds, func() tea.Msg {
					w.ForceRefresh(context.Background())
					return refreshDoneMsg{}
				})
			}

		case "c":
			if addr, ok := m.selectedAddress(); ok {
				if err := clipboard.WriteAll(addr); err != nil {
					m.statusMessage = "Clipboard unavailable"
				} else {
					m.statusMessage = "Address copied!"
				}
				cmds = append(cmds, tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
					return clearStatusMsg{}
				}))
			}
		}
	}

	return m, tea.Batch(cmds...)
}
