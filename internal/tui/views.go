package tui

import (
	"fmt"
	"strings"

	"github.com/Veraticus/expense-tracker/internal/app"
	"github.com/charmbracelet/lipgloss"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{
		m.renderDashboard(),
		m.renderFilterBar(),
		m.table.View(),
		m.renderPager(),
	}
	if m.mode == ModeSearch {
		sections = append(sections, m.search.View())
	}
	sections = append(sections, m.renderStatus(), m.help.View(m.keymap))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderDashboard() string {
	d := m.app.Dashboard()
	cell := func(label, value string, change float64) string {
		body := m.theme.Subtitle.Render(label) + "\n" + m.theme.Bold.Render(value)
		if d.HasPrevious {
			style := m.theme.Income
			if change < 0 {
				style = m.theme.Expense
			}
			body += "\n" + style.Render(fmt.Sprintf("%+.1f%%", change))
		}
		return m.theme.BorderedBox.Render(body)
	}

	boxes := lipgloss.JoinHorizontal(lipgloss.Top,
		cell("Income", m.app.Format(d.Current.Income), d.IncomeChange),
		cell("Expenses", m.app.Format(d.Current.Expense), d.ExpenseChange),
		cell("Balance", m.app.Format(d.Current.Balance), d.BalanceChange),
		cell("Savings", fmt.Sprintf("%.1f%%", d.SavingsRate), d.SavingsChange),
	)
	title := m.theme.Title.Render("Expense Tracker") + "  " + m.theme.Muted.Render(d.Window.Label())
	return lipgloss.JoinVertical(lipgloss.Left, title, boxes)
}

func (m Model) renderFilterBar() string {
	f := m.app.Filter()
	dir := "asc"
	if f.Sort.Desc {
		dir = "desc"
	}
	parts := []string{
		"category: " + f.Category,
		"type: " + f.Type,
		fmt.Sprintf("sort: %s %s", f.Sort.Field, dir),
	}
	if f.Search != "" {
		parts = append(parts, fmt.Sprintf("search: %q", f.Search))
	}
	return m.theme.Muted.Render(strings.Join(parts, "  ·  "))
}

func (m Model) renderPager() string {
	v := m.app.View()
	text := fmt.Sprintf("Page %d of %d  (%d transactions)", v.PageNum, v.PageCount, len(v.Filtered))
	if len(v.Filtered) == 0 {
		text = "No transactions match the current filters"
	}
	if m.mode == ModeConfirmDelete {
		if t, ok := m.selected(); ok {
			return m.theme.StatusWarning.Render(fmt.Sprintf("Delete %q (%s)? y to confirm", t.Description, m.app.Format(t.Amount)))
		}
	}
	return m.theme.Subtitle.Render(text)
}

func (m Model) renderStatus() string {
	if m.status.text == "" {
		return ""
	}
	style := m.theme.StatusInfo
	switch m.status.level {
	case app.LevelSuccess:
		style = m.theme.StatusSuccess
	case app.LevelWarning:
		style = m.theme.StatusWarning
	case app.LevelError:
		style = m.theme.StatusError
	}
	return style.Render(m.status.text)
}
