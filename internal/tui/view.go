package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/pomorks/internal/controller"
	"github.com/sadopc/pomorks/internal/report"
	"github.com/sadopc/pomorks/internal/todo"
)

const (
	minListWidth = 30
	barWidth     = 24
)

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.renderHeader()
	footer := m.renderFooter()

	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 5 {
		contentHeight = 5
	}

	content := lipgloss.NewStyle().
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(m.renderContent())

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (m Model) renderHeader() string {
	s := m.snap
	title := titleStyle.Foreground(colorPrimary).Render("pomorks")
	badge := badgeStyle.Background(stateColor(s.State.Kind)).Render(s.State.Name())
	mode := mutedStyle.Render(s.Mode.String())
	backend := mutedStyle.Render("[" + s.Backend + "]")

	return headerStyle.Render(fmt.Sprintf("%s  %s  %s  %s", title, badge, mode, backend))
}

func (m Model) renderContent() string {
	s := m.snap

	listWidth := m.width / 2
	if listWidth < minListWidth {
		listWidth = minListWidth
	}
	list := activePanelStyle.Width(listWidth).Render(m.renderTasks())

	var side string
	if s.ShowChart {
		side = panelStyle.Render(m.renderStats())
	} else {
		side = lipgloss.JoinVertical(lipgloss.Left,
			panelStyle.Render(m.renderTimer()),
			panelStyle.Render(m.renderDetail()),
		)
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, list, side)
	if s.Mode == controller.AddingTask {
		body = lipgloss.JoinVertical(lipgloss.Left, body, m.renderInput())
	}
	return body
}

func (m Model) renderTasks() string {
	s := m.snap
	var b strings.Builder
	b.WriteString(titleStyle.Render("Tasks"))
	b.WriteString("\n\n")

	if len(s.Tasks) == 0 {
		b.WriteString(mutedStyle.Render("No tasks. Press a to add one."))
		return b.String()
	}

	for i, it := range s.Tasks {
		b.WriteString(taskLine(it, i == s.Cursor, s.HasRunning && s.RunningTask.ID == it.ID))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func taskLine(it todo.Item, selected, running bool) string {
	cursor := "  "
	if selected {
		cursor = "> "
	}
	check := "[ ]"
	if it.Finished {
		check = "[" + successStyle.Render("✓") + "]"
	}

	style := normalItemStyle
	switch {
	case it.Finished:
		style = finishedItemStyle
	case selected:
		style = selectedItemStyle
	}

	line := fmt.Sprintf("%s%s %s", cursor, check, style.Render(it.Title))
	if it.Tag != "" {
		line += " " + highlightStyle.Render("#"+it.Tag)
	}
	if it.Project != "" {
		line += " " + mutedStyle.Render("@"+it.Project)
	}
	line += " " + mutedStyle.Render(it.Progress())
	if running {
		line += " " + accentStyle.Render("●")
	}
	return line
}

func (m Model) renderTimer() string {
	s := m.snap
	color := stateColor(s.State.Kind)

	var b strings.Builder
	b.WriteString(titleStyle.Render(s.State.Name()))
	b.WriteString("\n\n")
	b.WriteString(timerStyle.Foreground(color).Render(formatClock(s.Remaining)))
	b.WriteString("\n")
	b.WriteString(progressBar(s.Progress, barWidth, color))
	b.WriteString("\n\n")

	switch {
	case s.Running && s.HasRunning:
		b.WriteString("Working on " + selectedItemStyle.Render(s.RunningTask.Title))
	case s.Running:
		b.WriteString(mutedStyle.Render("Running"))
	default:
		b.WriteString(mutedStyle.Render("Idle, press s to start"))
	}
	return b.String()
}

func (m Model) renderDetail() string {
	s := m.snap
	if !s.HasFocus {
		return mutedStyle.Render("Nothing selected")
	}
	it := s.Focused

	var b strings.Builder
	b.WriteString(titleStyle.Render(it.Title))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Tag:      %s\n", orDash(it.Tag))
	fmt.Fprintf(&b, "Project:  %s\n", orDash(it.Project))
	fmt.Fprintf(&b, "Progress: %s\n", it.Progress())
	if it.Finished {
		b.WriteString(successStyle.Render("Finished"))
	} else {
		b.WriteString(mutedStyle.Render("Open"))
	}
	if it.Detail != "" {
		b.WriteString("\n\n" + it.Detail)
	}
	return b.String()
}

func (m Model) renderStats() string {
	s := m.snap

	var b strings.Builder
	b.WriteString(titleStyle.Render("This week"))
	b.WriteString("\n\n")
	b.WriteString(weekChart(s.Week))
	b.WriteString("\n\n")
	b.WriteString(monthGrid(s.Month))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Today  %d\n", s.Summary.Today)
	fmt.Fprintf(&b, "Week   %d\n", s.Summary.Week)
	fmt.Fprintf(&b, "Month  %d\n", s.Summary.Month)
	fmt.Fprintf(&b, "Year   %d", s.Summary.Year)
	return b.String()
}

func weekChart(week []controller.DayCount) string {
	if len(week) == 0 {
		return mutedStyle.Render("No data")
	}

	barStyle := lipgloss.NewStyle().Foreground(colorSecondary)
	data := make([]barchart.BarData, len(week))
	for i, d := range week {
		data[i] = barchart.BarData{
			Label: report.Weekday(d.Day),
			Values: []barchart.BarValue{
				{Name: "done", Value: float64(d.Count), Style: barStyle},
			},
		}
	}

	bc := barchart.New(len(week)*5, 8)
	bc.PushAll(data)
	bc.Draw()
	return bc.View()
}

// monthGrid lays the month out Monday first, one week per row, with the
// completion count under each day number.
func monthGrid(month []controller.DayCount) string {
	if len(month) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(month[0].Day.Format("January 2006")))
	b.WriteString("\n")

	lead := (int(month[0].Day.Weekday()) + 6) % 7
	b.WriteString(strings.Repeat("      ", lead))
	for i, d := range month {
		cell := mutedStyle.Render(fmt.Sprintf("%2d:", d.Day.Day()))
		if d.Count > 0 {
			cell += successStyle.Render(fmt.Sprintf("%-2d", d.Count))
		} else {
			cell += mutedStyle.Render("· ")
		}
		b.WriteString(cell + " ")
		if (lead+i+1)%7 == 0 && i < len(month)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) renderInput() string {
	s := m.snap
	text := s.Input
	if text == "" {
		text = mutedStyle.Render(controller.EntryPrompt)
	}
	return activePanelStyle.Render("New task: " + text + accentStyle.Render("_"))
}

func (m Model) renderFooter() string {
	s := m.snap

	var helpView string
	if s.Mode == controller.AddingTask {
		helpView = m.help.ShortHelpView(controller.Keys.EntryHelp())
	} else {
		helpView = m.help.View(controller.Keys)
	}

	status := fmt.Sprintf("Today: %d", s.Today)
	if s.Status != "" {
		status += "  " + errorStyle.Render(s.Status)
	}
	return footerStyle.Render(lipgloss.JoinVertical(lipgloss.Left, status, helpView))
}

// formatClock renders d as mm:ss, rounding partial seconds up.
func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int((d + time.Second - 1) / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

func progressBar(ratio float64, width int, color lipgloss.Color) string {
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	filled := int(ratio * float64(width))
	return lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled)) +
		mutedStyle.Render(strings.Repeat("░", width-filled))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
