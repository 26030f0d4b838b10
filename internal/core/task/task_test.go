package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeText(t *testing.T) {
	tests := []struct {
		name     string
		encoded  string
		text     string
		priority Priority
		deadline string
	}{
		{
			name:     "plain text",
			encoded:  "Buy milk",
			text:     "Buy milk",
			priority: PriorityNormal,
		},
		{
			name:     "urgent marker",
			encoded:  "[URGENT] Call mom",
			text:     "Call mom",
			priority: PriorityUrgent,
		},
		{
			name:     "low marker",
			encoded:  "[LOW] Clean garage",
			text:     "Clean garage",
			priority: PriorityLow,
		},
		{
			name:     "marker is case-insensitive",
			encoded:  "[urgent] Call mom",
			text:     "Call mom",
			priority: PriorityUrgent,
		},
		{
			name:     "deadline suffix",
			encoded:  "Buy milk (due: 2025-08-12)",
			text:     "Buy milk",
			priority: PriorityNormal,
			deadline: "2025-08-12",
		},
		{
			name:     "literal deadline passes through",
			encoded:  "Buy milk (due: next week)",
			text:     "Buy milk",
			priority: PriorityNormal,
			deadline: "next week",
		},
		{
			name:     "marker and deadline together",
			encoded:  "[URGENT] Ship release (due: 2025-12-01)",
			text:     "Ship release",
			priority: PriorityUrgent,
			deadline: "2025-12-01",
		},
		{
			name:     "parenthetical mid-text is not a deadline",
			encoded:  "Call John (about rent) tomorrow",
			text:     "Call John (about rent) tomorrow",
			priority: PriorityNormal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, priority, deadline := DecodeText(tt.encoded)
			assert.Equal(t, tt.text, text)
			assert.Equal(t, tt.priority, priority)
			assert.Equal(t, tt.deadline, deadline)
		})
	}
}

func TestEncodeText(t *testing.T) {
	tests := []struct {
		name string
		task Task
		want string
	}{
		{
			name: "normal priority has no marker",
			task: Task{Text: "Buy milk", Priority: PriorityNormal},
			want: "Buy milk",
		},
		{
			name: "urgent prefix",
			task: Task{Text: "Call mom", Priority: PriorityUrgent},
			want: "[URGENT] Call mom",
		},
		{
			name: "low prefix",
			task: Task{Text: "Clean garage", Priority: PriorityLow},
			want: "[LOW] Clean garage",
		},
		{
			name: "deadline suffix",
			task: Task{Text: "Buy milk", Priority: PriorityNormal, Deadline: "2025-08-12"},
			want: "Buy milk (due: 2025-08-12)",
		},
		{
			name: "marker and deadline",
			task: Task{Text: "Ship release", Priority: PriorityUrgent, Deadline: "2025-12-01"},
			want: "[URGENT] Ship release (due: 2025-12-01)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.task.EncodeText())
		})
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tasks := []Task{
		{Text: "Buy milk", Priority: PriorityNormal},
		{Text: "Call mom", Priority: PriorityUrgent},
		{Text: "Clean garage", Priority: PriorityLow, Deadline: "2025-08-12"},
		{Text: "Ship release (v2)", Priority: PriorityUrgent, Deadline: "tomorrow"},
	}

	for _, want := range tasks {
		text, priority, deadline := DecodeText(want.EncodeText())
		assert.Equal(t, want.Text, text)
		assert.Equal(t, want.Priority, priority)
		assert.Equal(t, want.Deadline, deadline)
	}
}

func TestTaskLine(t *testing.T) {
	task := Task{ID: 7, Text: "Buy milk", Priority: PriorityNormal}
	assert.Equal(t, "007 Buy milk", task.Line())

	done := CompletedTask{Text: "Buy milk", CompletedDate: "2025-08-12"}
	assert.Equal(t, "[DONE] 2025-08-12 Buy milk", done.Line())
}

func TestFormatID(t *testing.T) {
	assert.Equal(t, "001", FormatID(1))
	assert.Equal(t, "042", FormatID(42))
	assert.Equal(t, "999", FormatID(999))
	// No hard cap: format simply widens past three digits.
	assert.Equal(t, "1000", FormatID(1000))
}

func TestParsePriority(t *testing.T) {
	for input, want := range map[string]Priority{
		"":       PriorityNormal,
		"normal": PriorityNormal,
		"urgent": PriorityUrgent,
		"URGENT": PriorityUrgent,
		"high":   PriorityUrgent,
		"low":    PriorityLow,
	} {
		got, err := ParsePriority(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := ParsePriority("whenever")
	require.Error(t, err)
}
