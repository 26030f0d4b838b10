package assistant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxdo/voxdo/internal/intent"
)

func TestDispatch(t *testing.T) {
	ctx := context.Background()

	t.Run("add then complete through intents", func(t *testing.T) {
		e := newTestEngine(t)

		res := e.Dispatch(ctx, intent.Intent{
			Function: intent.FunctionAddTask,
			Params:   map[string]any{"task": "Buy milk", "priority": "urgent"},
		})
		require.True(t, res.Success)
		assert.Equal(t, "Added as task 001", res.Message)

		res = e.Dispatch(ctx, intent.Intent{
			Function: intent.FunctionMarkComplete,
			Params:   map[string]any{"taskQuery": "milk"},
		})
		require.True(t, res.Success)
		assert.Equal(t, "Done", res.Message)
	})

	t.Run("list defaults to all", func(t *testing.T) {
		e := newTestEngine(t)
		require.True(t, e.AddTask(ctx, "Buy milk", "", "").Success)

		res := e.Dispatch(ctx, intent.Intent{Function: intent.FunctionListTasks})
		require.True(t, res.Success)
		assert.Len(t, res.Tasks, 1)
	})

	t.Run("error intent speaks its message", func(t *testing.T) {
		e := newTestEngine(t)

		res := e.Dispatch(ctx, intent.ErrorIntent("Could not understand your request."))
		assert.False(t, res.Success)
		assert.Equal(t, "Could not understand your request.", res.Message)
	})

	t.Run("unknown function", func(t *testing.T) {
		e := newTestEngine(t)

		res := e.Dispatch(ctx, intent.Intent{Function: "reboot_house"})
		assert.False(t, res.Success)
		assert.NotEmpty(t, res.Message)
	})

	t.Run("non-string params are ignored", func(t *testing.T) {
		e := newTestEngine(t)

		res := e.Dispatch(ctx, intent.Intent{
			Function: intent.FunctionAddTask,
			Params:   map[string]any{"task": 42},
		})
		assert.False(t, res.Success)
	})
}

func TestSpeech(t *testing.T) {
	assert.Equal(t, "Done", Speech(Result{Success: true, Message: "Done"}))
	assert.Equal(t,
		"Found 2 tasks: Buy milk, Call mom",
		Speech(Result{Success: true, Message: "Found 2 tasks", Tasks: []string{"Buy milk", "Call mom"}}),
	)
}
