package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/voxdo/voxdo/internal/core/task"
)

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("voxdo"))
	b.WriteString("\n\n")

	if m.loadErr != nil {
		b.WriteString(errStyle.Render("Error loading task file:") + "\n")
		b.WriteString("  " + m.loadErr.Error() + "\n\n")
		b.WriteString(m.helpLine())
		return b.String()
	}

	if m.filterMode || m.filter.Value() != "" {
		b.WriteString(m.filter.View())
		b.WriteString("\n\n")
	}

	tasks := m.visibleTasks()
	if len(tasks) == 0 {
		b.WriteString(helpStyle.Render("  No tasks"))
		b.WriteString("\n")
	}
	for i, t := range tasks {
		b.WriteString(m.renderTask(t, i == m.selected))
		b.WriteString("\n")
	}

	if m.showDone && len(m.done) > 0 {
		b.WriteString("\n")
		b.WriteString(helpStyle.Render(fmt.Sprintf("Completed (%d)", len(m.done))))
		b.WriteString("\n")
		for _, d := range m.done {
			b.WriteString(doneStyle.Render("  " + d.Line()))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.helpLine())
	return b.String()
}

func (m *Model) renderTask(t task.Task, selected bool) string {
	line := "  " + idStyle.Render(task.FormatID(t.ID)) + " "

	switch t.Priority {
	case task.PriorityUrgent:
		line += urgentStyle.Render("[URGENT]") + " "
	case task.PriorityLow:
		line += lowStyle.Render("[LOW]") + " "
	}

	text := t.Text
	if selected {
		text = selectedStyle.Render(text)
	}
	line += text

	if t.Deadline != "" {
		due := fmt.Sprintf("(due: %s)", t.Deadline)
		if isOverdue(t.Deadline) {
			line += " " + overdueStyle.Render(due)
		} else {
			line += " " + deadlineStyle.Render(due)
		}
	}

	return line
}

// isOverdue reports whether a parseable deadline is before today. Literal
// deadlines like "next week" are never overdue.
func isOverdue(deadline string) bool {
	d, err := time.Parse(task.DateFormat, deadline)
	if err != nil {
		return false
	}
	today, _ := time.Parse(task.DateFormat, time.Now().Format(task.DateFormat))
	return d.Before(today)
}

func (m *Model) helpLine() string {
	return helpStyle.Render("/ filter · tab completed · r reload · q quit")
}
