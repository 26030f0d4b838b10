package assistant

import (
	"context"
	"strings"

	"github.com/voxdo/voxdo/internal/intent"
)

// Dispatch routes a parsed intent to the matching engine operation.
func (e *Engine) Dispatch(ctx context.Context, it intent.Intent) Result {
	switch it.Function {
	case intent.FunctionAddTask:
		return e.AddTask(ctx, it.StringParam("task"), it.StringParam("priority"), it.StringParam("deadline"))
	case intent.FunctionMarkComplete:
		return e.MarkComplete(ctx, it.StringParam("taskQuery"))
	case intent.FunctionUpdateTask:
		return e.UpdateTask(ctx, it.StringParam("taskQuery"), it.StringParam("newText"))
	case intent.FunctionDeleteTask:
		return e.DeleteTask(ctx, it.StringParam("taskQuery"))
	case intent.FunctionAddDeadline:
		return e.AddDeadline(ctx, it.StringParam("taskQuery"), it.StringParam("deadline"))
	case intent.FunctionSetPriority:
		return e.SetPriority(ctx, it.StringParam("taskQuery"), it.StringParam("priority"))
	case intent.FunctionListTasks:
		filter := it.StringParam("filter")
		if filter == "" {
			filter = "all"
		}
		return e.ListTasks(ctx, filter)
	case intent.FunctionSearchTasks:
		return e.SearchTasks(ctx, it.StringParam("query"))
	case intent.FunctionError:
		msg := it.StringParam("message")
		if msg == "" {
			msg = "Sorry, I had trouble processing your request."
		}
		return Result{Success: false, Message: msg}
	default:
		e.log.Warn().Str("function", it.Function).Msg("unknown intent function")
		return Result{Success: false, Message: "I'm not sure what you want me to do. Can you be more specific?"}
	}
}

// Speech renders a result as one short line suitable for speech synthesis.
func Speech(r Result) string {
	if len(r.Tasks) == 0 {
		return r.Message
	}
	return r.Message + ": " + strings.Join(r.Tasks, ", ")
}
