package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"bookkeeping/internal/core"
	"bookkeeping/internal/services"
)

var (
	stylePrimary = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#60A5FA"})
	styleBorder  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#4B5563"})
	styleIncome  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#059669", Dark: "#10B981"})
	styleExpense = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#F87171"})
	styleMuted   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"})
)

func cardStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styleBorder.GetForeground()).
		Padding(0, 2)
}

func successCard(title string, details ...string) string {
	body := styleIncome.Render("✓") + " " + title
	if len(details) > 0 {
		body += "\n\n" + strings.Join(details, "\n")
	}
	return cardStyle().Render(body)
}

func infoCard(title, content string) string {
	return cardStyle().Render(stylePrimary.Bold(true).Render(title) + "\n\n" + content)
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styleBorder).
		Headers(headers...)
}

func polarityStyle(p core.Polarity) lipgloss.Style {
	if p == core.Income {
		return styleIncome
	}
	return styleExpense
}

func renderUser(u core.User, server string) string {
	lines := []string{
		"ID:       " + strconv.FormatInt(u.ID, 10),
		"Username: " + u.Username,
		"Server:   " + server,
	}
	if !u.CreatedAt.IsZero() {
		lines = append(lines, "Since:    "+u.CreatedAt.Format("2006-01-02"))
	}
	return infoCard("Signed in", strings.Join(lines, "\n"))
}

func renderCategories(cats []core.Category) string {
	if len(cats) == 0 {
		return styleMuted.Render("No categories.")
	}
	t := newTable("ID", "Name", "Type", "Icon")
	for _, c := range cats {
		t.Row(strconv.FormatInt(c.ID, 10), c.Name, polarityStyle(c.Type).Render(string(c.Type)), c.Icon)
	}
	return t.Render()
}

func renderRecords(records []core.Record) string {
	if len(records) == 0 {
		return styleMuted.Render("No records in this period.")
	}
	t := newTable("ID", "Date", "Type", "Category", "Amount", "Description")
	for _, r := range records {
		category := ""
		switch {
		case r.Category != nil:
			category = r.Category.Name
		case r.CategoryID != nil:
			category = "#" + strconv.FormatInt(*r.CategoryID, 10)
		}
		t.Row(
			strconv.FormatInt(r.ID, 10),
			r.RecordDate.String(),
			polarityStyle(r.Type).Render(string(r.Type)),
			category,
			r.Amount.String(),
			r.Description,
		)
	}
	return t.Render()
}

func renderDashboard(d services.Dashboard) string {
	s := d.Summary
	totals := fmt.Sprintf("%s %s\n%s %s\n%s %s",
		styleIncome.Render("Income: "), s.Income,
		styleExpense.Render("Expense:"), s.Expense,
		stylePrimary.Render("Balance:"), s.Balance())
	out := infoCard(fmt.Sprintf("%s to %s", s.Start, s.End), totals)

	if len(s.ByCategory) == 0 {
		return out + "\n" + styleMuted.Render("No records in this period.")
	}
	t := newTable("Category", "Type", "Amount", "Records")
	for _, c := range s.ByCategory {
		t.Row(c.Name, polarityStyle(c.Type).Render(string(c.Type)), c.Amount.String(), strconv.Itoa(c.Count))
	}
	return out + "\n" + t.Render()
}
