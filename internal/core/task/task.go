// Package task defines the task domain model and the todo.txt line codec.
//
// Priority and deadline are first-class fields on Task. Their textual forms
// ("[URGENT] " / "[LOW] " prefixes and the " (due: YYYY-MM-DD)" suffix) exist
// only at the serialization boundary: DecodeText strips them on read and
// EncodeText re-applies them on write.
package task

import (
	"fmt"
	"regexp"
	"strings"
)

// DateFormat is the wire format for all dates in the task file.
const DateFormat = "2006-01-02"

// Priority classifies how urgent a task is.
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityNormal Priority = "normal"
	PriorityLow    Priority = "low"
)

// ParsePriority normalizes a user-supplied priority string.
// An empty string maps to PriorityNormal.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normal":
		return PriorityNormal, nil
	case "urgent", "high":
		return PriorityUrgent, nil
	case "low":
		return PriorityLow, nil
	default:
		return PriorityNormal, fmt.Errorf("invalid priority %q", s)
	}
}

// Task is a single active todo item.
type Task struct {
	ID       int
	Text     string // bare text, markers stripped
	Priority Priority
	Deadline string // YYYY-MM-DD, or a literal the user supplied

	// NeedsID marks tasks parsed from legacy lines that had no ID prefix.
	// The assigned ID is persisted on the next write.
	NeedsID bool
}

// CompletedTask is a done todo item. Completed tasks lose their numeric ID.
type CompletedTask struct {
	Text          string
	CompletedDate string // YYYY-MM-DD
}

var (
	priorityRe = regexp.MustCompile(`(?i)^\[(URGENT|LOW)\]\s*`)
	deadlineRe = regexp.MustCompile(`\s*\(due:\s*(.*?)\)\s*$`)
)

// DecodeText splits an encoded task text into its bare text, priority, and
// deadline components.
func DecodeText(encoded string) (text string, priority Priority, deadline string) {
	text = strings.TrimSpace(encoded)
	priority = PriorityNormal

	if m := priorityRe.FindStringSubmatch(text); m != nil {
		switch strings.ToUpper(m[1]) {
		case "URGENT":
			priority = PriorityUrgent
		case "LOW":
			priority = PriorityLow
		}
		text = text[len(m[0]):]
	}

	if m := deadlineRe.FindStringSubmatch(text); m != nil {
		deadline = m[1]
		text = strings.TrimSpace(text[:len(text)-len(m[0])])
	}

	return text, priority, deadline
}

// EncodeText renders the task's text with its priority marker and deadline
// annotation embedded.
func (t Task) EncodeText() string {
	text := t.Text
	switch t.Priority {
	case PriorityUrgent:
		text = "[URGENT] " + text
	case PriorityLow:
		text = "[LOW] " + text
	}
	if t.Deadline != "" {
		text += fmt.Sprintf(" (due: %s)", t.Deadline)
	}
	return text
}

// Line renders the full serialized file line, "<padded id> <encoded text>".
func (t Task) Line() string {
	return fmt.Sprintf("%s %s", FormatID(t.ID), t.EncodeText())
}

// Line renders the serialized done line, "[DONE] <date> <text>".
func (c CompletedTask) Line() string {
	return fmt.Sprintf("[DONE] %s %s", c.CompletedDate, c.Text)
}

// FormatID zero-pads a task ID to three digits. IDs past 999 widen naturally.
func FormatID(id int) string {
	return fmt.Sprintf("%03d", id)
}
