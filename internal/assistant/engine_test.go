package assistant

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxdo/voxdo/internal/core/task"
	"github.com/voxdo/voxdo/internal/store/todofile"
)

var engineNow = time.Date(2025, 8, 12, 10, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	dir := t.TempDir()
	backups := todofile.NewBackupManager(filepath.Join(dir, "backups"), 10, zerolog.Nop())
	store := todofile.NewStore(filepath.Join(dir, "todo.txt"), "", backups, zerolog.Nop())

	e := NewEngine(store, zerolog.Nop())
	e.now = func() time.Time { return engineNow }
	return e
}

func fileContent(t *testing.T, e *Engine) string {
	t.Helper()
	data, err := os.ReadFile(e.store.Path())
	require.NoError(t, err)
	return string(data)
}

func TestAddTask(t *testing.T) {
	ctx := context.Background()

	t.Run("add to empty file", func(t *testing.T) {
		e := newTestEngine(t)

		res := e.AddTask(ctx, "Buy milk", "", "")
		require.True(t, res.Success)
		assert.Equal(t, "Added as task 001", res.Message)

		assert.Equal(t, "# My Todo List\n001 Buy milk\n", fileContent(t, e))
	})

	t.Run("blank task is rejected before any io", func(t *testing.T) {
		e := newTestEngine(t)

		res := e.AddTask(ctx, "   ", "", "")
		assert.False(t, res.Success)

		_, err := os.Stat(e.store.Path())
		assert.True(t, os.IsNotExist(err), "no file should be written for invalid input")
	})

	t.Run("urgent priority and tomorrow deadline", func(t *testing.T) {
		e := newTestEngine(t)

		res := e.AddTask(ctx, "Ship release", "urgent", "tomorrow")
		require.True(t, res.Success)

		assert.Contains(t, fileContent(t, e), "001 [URGENT] Ship release (due: 2025-08-13)")
	})

	t.Run("unrecognized deadline passes through literally", func(t *testing.T) {
		e := newTestEngine(t)

		res := e.AddTask(ctx, "Water plants", "", "next week")
		require.True(t, res.Success)
		assert.Contains(t, fileContent(t, e), "001 Water plants (due: next week)")
	})
}

func TestMarkComplete(t *testing.T) {
	ctx := context.Background()

	t.Run("moves task to done and frees the id", func(t *testing.T) {
		e := newTestEngine(t)
		require.True(t, e.AddTask(ctx, "Buy milk", "", "").Success)
		require.True(t, e.AddTask(ctx, "Call mom", "", "").Success)

		res := e.MarkComplete(ctx, "milk")
		require.True(t, res.Success)
		assert.Equal(t, "Done", res.Message)

		want := "# My Todo List\n002 Call mom\n\n[DONE] 2025-08-12 Buy milk\n"
		assert.Equal(t, want, fileContent(t, e))
	})

	t.Run("second completion of the same query is not found", func(t *testing.T) {
		e := newTestEngine(t)
		require.True(t, e.AddTask(ctx, "Buy milk", "", "").Success)

		require.True(t, e.MarkComplete(ctx, "milk").Success)

		res := e.MarkComplete(ctx, "milk")
		assert.False(t, res.Success)
		assert.Equal(t, `Could not find task matching "milk"`, res.Message)
	})

	t.Run("completed tasks never reenter the active list", func(t *testing.T) {
		e := newTestEngine(t)
		require.True(t, e.AddTask(ctx, "Buy milk", "", "").Success)
		require.True(t, e.MarkComplete(ctx, "milk").Success)

		infos, err := e.GetActiveTasks(ctx)
		require.NoError(t, err)
		assert.Empty(t, infos)

		stats, err := e.GetStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, Stats{ActiveCount: 0, CompletedCount: 1, TotalTasks: 1}, stats)
	})
}

func TestUpdateTask(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)
	require.True(t, e.AddTask(ctx, "call John", "urgent", "").Success)

	res := e.UpdateTask(ctx, "call John", "call John at 3pm")
	require.True(t, res.Success)
	assert.Equal(t, "Updated", res.Message)

	// The new text is taken verbatim: the urgent marker was not re-supplied,
	// so it is gone.
	assert.Contains(t, fileContent(t, e), "001 call John at 3pm\n")
}

func TestDeleteTask(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the task", func(t *testing.T) {
		e := newTestEngine(t)
		require.True(t, e.AddTask(ctx, "Buy milk", "", "").Success)

		res := e.DeleteTask(ctx, "milk")
		require.True(t, res.Success)
		assert.Equal(t, "Removed", res.Message)
		assert.Equal(t, "# My Todo List\n", fileContent(t, e))
	})

	t.Run("freed id is reused by a later add", func(t *testing.T) {
		e := newTestEngine(t)
		require.True(t, e.AddTask(ctx, "First", "", "").Success)
		require.True(t, e.AddTask(ctx, "Second", "", "").Success)
		require.True(t, e.DeleteTask(ctx, "Second").Success)

		res := e.AddTask(ctx, "Third", "", "")
		require.True(t, res.Success)
		assert.Equal(t, "Added as task 002", res.Message)
	})
}

func TestSetPriority(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)
	require.True(t, e.AddTask(ctx, "Call mom", "", "").Success)

	res := e.SetPriority(ctx, "call mom", "urgent")
	require.True(t, res.Success)
	assert.Contains(t, fileContent(t, e), "001 [URGENT] Call mom\n")

	// Setting again replaces the marker instead of stacking it.
	res = e.SetPriority(ctx, "call mom", "low")
	require.True(t, res.Success)
	content := fileContent(t, e)
	assert.Contains(t, content, "001 [LOW] Call mom\n")
	assert.NotContains(t, content, "[URGENT]")

	// Normal clears it.
	res = e.SetPriority(ctx, "call mom", "normal")
	require.True(t, res.Success)
	assert.Contains(t, fileContent(t, e), "001 Call mom\n")
}

func TestAddDeadline(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)
	require.True(t, e.AddTask(ctx, "Buy milk", "", "").Success)

	res := e.AddDeadline(ctx, "milk", "tomorrow")
	require.True(t, res.Success)
	assert.Contains(t, fileContent(t, e), "001 Buy milk (due: 2025-08-13)\n")

	// A second deadline replaces rather than duplicates the suffix.
	res = e.AddDeadline(ctx, "milk", "2025-09-01")
	require.True(t, res.Success)
	content := fileContent(t, e)
	assert.Contains(t, content, "001 Buy milk (due: 2025-09-01)\n")
	assert.NotContains(t, content, "2025-08-13")
}

func TestListTasks(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)
	require.True(t, e.AddTask(ctx, "Buy milk", "", "").Success)
	require.True(t, e.AddTask(ctx, "Ship release", "urgent", "").Success)
	require.True(t, e.AddTask(ctx, "Pay rent", "", "today").Success)

	t.Run("urgent filter", func(t *testing.T) {
		res := e.ListTasks(ctx, "urgent")
		require.True(t, res.Success)
		assert.Equal(t, []string{"[URGENT] Ship release"}, res.Tasks)
	})

	t.Run("today filter", func(t *testing.T) {
		res := e.ListTasks(ctx, "today")
		require.True(t, res.Success)
		assert.Equal(t, []string{"Pay rent (due: 2025-08-12)"}, res.Tasks)
	})

	t.Run("all", func(t *testing.T) {
		res := e.ListTasks(ctx, "all")
		require.True(t, res.Success)
		assert.Len(t, res.Tasks, 3)
	})

	t.Run("empty result is a success", func(t *testing.T) {
		empty := newTestEngine(t)
		res := empty.ListTasks(ctx, "urgent")
		require.True(t, res.Success)
		assert.Empty(t, res.Tasks)
		assert.Equal(t, "No tasks found", res.Message)
	})
}

func TestSearchTasks(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)
	require.True(t, e.AddTask(ctx, "Call mom", "", "").Success)
	require.True(t, e.AddTask(ctx, "Call dentist", "", "").Success)
	require.True(t, e.AddTask(ctx, "Buy milk", "", "").Success)

	res := e.SearchTasks(ctx, "CALL")
	require.True(t, res.Success)
	assert.Equal(t, []string{"Call mom", "Call dentist"}, res.Tasks)
}

func TestFindTaskByQuery(t *testing.T) {
	active := []task.Task{
		{ID: 1, Text: "Buy 9 melons", Priority: task.PriorityNormal},
		{ID: 2, Text: "Call mom", Priority: task.PriorityNormal},
		{ID: 3, Text: "Call dentist", Priority: task.PriorityNormal},
	}

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{name: "bare id", query: "2", want: 1},
		{name: "padded id", query: "002", want: 1},
		{name: "task prefix", query: "task 3", want: 2},
		{name: "substring match", query: "dentist", want: 2},
		{name: "case-insensitive substring", query: "CALL MOM", want: 1},
		{name: "first substring match wins", query: "call", want: 1},
		{name: "id match wins over text match", query: "2", want: 1},
		{name: "digits with no id fall back to text", query: "9 melons", want: 0},
		{name: "no match", query: "zebra", want: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, findTaskByQuery(active, tt.query))
		})
	}
}

func TestGetPriorityTasks(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)
	require.True(t, e.AddTask(ctx, "Water plants", "", "").Success)
	require.True(t, e.AddTask(ctx, "urgent asap critical fix", "", "").Success)
	require.True(t, e.AddTask(ctx, "important call today", "", "").Success)

	tasks, err := e.GetPriorityTasks(ctx, 2)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "urgent asap critical fix", tasks[0])
	assert.Equal(t, "important call today", tasks[1])
}

func TestIDUniquenessAcrossOperations(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)

	for i := range 8 {
		require.True(t, e.AddTask(ctx, fmt.Sprintf("item %d", i), "", "").Success)
	}
	require.True(t, e.DeleteTask(ctx, "item 3").Success)
	require.True(t, e.MarkComplete(ctx, "item 5").Success)
	require.True(t, e.AddTask(ctx, "late arrival", "", "").Success)
	require.True(t, e.AddTask(ctx, "later arrival", "", "").Success)

	infos, err := e.GetActiveTasks(ctx)
	require.NoError(t, err)

	seen := make(map[int]bool)
	for _, info := range infos {
		assert.False(t, seen[info.ID], "duplicate active id %d", info.ID)
		seen[info.ID] = true
	}
}
