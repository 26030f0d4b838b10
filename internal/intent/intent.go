// Package intent turns transcribed voice commands into structured intents
// the mutation engine can dispatch on.
package intent

import "context"

// Function names an intent can carry. FunctionError is the catch-all the
// parsers emit when a command cannot be understood.
const (
	FunctionAddTask      = "add_task"
	FunctionMarkComplete = "mark_complete"
	FunctionUpdateTask   = "update_task"
	FunctionDeleteTask   = "delete_task"
	FunctionAddDeadline  = "add_deadline"
	FunctionSetPriority  = "set_priority"
	FunctionListTasks    = "list_tasks"
	FunctionSearchTasks  = "search_tasks"
	FunctionError        = "error"
)

// Intent is the structured interpretation of one voice command.
type Intent struct {
	Function string         `json:"function"`
	Params   map[string]any `json:"params"`
}

// StringParam returns the named parameter as a string, or "" when absent or
// of another type.
func (i Intent) StringParam(key string) string {
	if s, ok := i.Params[key].(string); ok {
		return s
	}
	return ""
}

// ErrorIntent builds an error intent carrying a speakable message.
func ErrorIntent(message string) Intent {
	return Intent{
		Function: FunctionError,
		Params:   map[string]any{"message": message},
	}
}

// Parser extracts an intent from transcript text. The current task texts
// are passed along as context for the language model.
type Parser interface {
	ParseIntent(ctx context.Context, text string, currentTasks []string) (Intent, error)
}
