package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"walletwatch/pkg/utils"
)

func (m model) View() string {
	var b strings.Builder

	header := titleStyle.Render("Wallet Status")
	if m.loading {
		header += " " + m.spinner.View() + subtleStyle.Render("fetching...")
	} else if m.refreshing {
		header += " " + m.spinner.View() + subtleStyle.Render("refreshing...")
	}
	b.WriteString(header + "\n\n")

	idx := 0
	for _, coin := range m.rows {
		var rows []string
		for _, addr := range coin.Addresses {
			cursor := "  "
			style := lipgloss.NewStyle()
			if idx == m.cursor {
				cursor = "> "
				style = selectedStyle
			}
			rows = append(rows, style.Render(fmt.Sprintf("%s%-20s %14s  last active %s (%s)",
				cursor,
				utils.TruncateString(addr.Address, 20),
				addr.Balance,
				addr.LastActive,
				addr.Elapsed,
			)))
			idx++
		}
		section := lipgloss.JoinVertical(lipgloss.Left,
			coinStyle.Render(fmt.Sprintf("%s (%s)", coin.Name, coin.Ticker)),
			strings.Join(rows, "\n"),
		)
		b.WriteString(boxStyle.Render(section) + "\n")
	}

	if len(m.rows) == 0 {
		b.WriteString(subtleStyle.Render("No coins configured.") + "\n")
	}

	footer := subtleStyle.Render("(r) refresh • (c) copy address • (↑/↓) select • (q) quit")
	if m.statusMessage != "" {
		footer = infoStyle.Render(m.statusMessage)
	}
	if !m.lastUpdate.IsZero() {
		footer += subtleStyle.Render(fmt.Sprintf("  updated %s", m.lastUpdate.Format("15:04:05")))
	}
	b.WriteString("\n" + footer + "\n")

	return b.String()
}
