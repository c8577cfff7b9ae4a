package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"walletwatch/pkg/view"
	"walletwatch/pkg/watcher"
)

// Version is set by Start()
var Version = "dev"

// --- Messages ---

type clearStatusMsg struct{}
type uiTickMsg time.Time
type refreshDoneMsg struct{}

// --- Model ---

type model struct {
	watcher       *watcher.Watcher
	sub           watcher.Subscriber
	rows          []view.CoinStatus
	cursor        int
	width         int
	height        int
	loading       bool
	refreshing    bool
	spinner       spinner.Model
	statusMessage string
	lastUpdate    time.Time
}

func initialModel(w *watcher.Watcher) model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return model{
		watcher: w,
		sub:     w.Subscribe(),
		rows:    view.Render(w.Snapshot(), time.Now()),
		loading: true,
		spinner: s,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		listenForWatcher(m.sub),
		m.spinner.Tick,
		tea.Tick(time.Second, func(t time.Time) tea.Msg { return uiTickMsg(t) }),
	)
}

func listenForWatcher(sub watcher.Subscriber) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}

// totalRows counts the flattened address rows across all coins.
func (m model) totalRows() int {
	n := 0
	for _, c := range m.rows {
		n += len(c.Addresses)
	}
	return n
}

// selectedAddress returns the address under the cursor.
func (m model) selectedAddress() (string, bool) {
	idx := 0
	for _, c := range m.rows {
		for _, a := range c.Addresses {
			if idx == m.cursor {
				return a.Address, true
			}
			idx++
		}
	}
	return "", false
}
