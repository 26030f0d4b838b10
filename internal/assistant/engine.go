// Package assistant implements the task mutation engine: the operations a
// voice command can trigger against the task file, each returning a short
// speakable result.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/voxdo/voxdo/internal/core/task"
	"github.com/voxdo/voxdo/internal/store/todofile"
)

// Result is the structured outcome of an operation. Failures are results,
// not errors, so the voice layer can always speak Message directly.
type Result struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Tasks   []string `json:"tasks,omitempty"`
}

// TaskInfo is the read-model of an active task exposed to collaborators.
type TaskInfo struct {
	ID       int    `json:"id"`
	Text     string `json:"text"`
	FullLine string `json:"fullLine"`
}

// Stats summarizes the task file.
type Stats struct {
	ActiveCount    int `json:"activeCount"`
	CompletedCount int `json:"completedCount"`
	TotalTasks     int `json:"totalTasks"`
}

// urgencyKeywords score tasks for GetPriorityTasks, one point per keyword
// found in the lowercased text.
var urgencyKeywords = []string{"urgent", "asap", "today", "important", "critical"}

// Engine runs mutation and query operations against the task store. Every
// operation re-reads the file; the store's lock spans each full
// read-modify-write cycle.
type Engine struct {
	store *todofile.Store
	log   zerolog.Logger
	now   func() time.Time
}

// NewEngine creates an engine backed by the given store.
func NewEngine(store *todofile.Store, log zerolog.Logger) *Engine {
	return &Engine{
		store: store,
		log:   log.With().Str("component", "engine").Logger(),
		now:   time.Now,
	}
}

// errNoMatch aborts a store.Update when the query resolves to no task,
// leaving the file untouched.
var errNoMatch = errors.New("no matching task")

func notFound(query string) Result {
	return Result{Success: false, Message: fmt.Sprintf("Could not find task matching %q", query)}
}

func (e *Engine) failure(op string, err error) Result {
	e.log.Error().Err(err).Str("op", op).Msg("operation failed")
	return Result{Success: false, Message: fmt.Sprintf("Failed to %s", op)}
}

// AddTask appends a new task with the given priority ("urgent", "normal",
// "low") and optional deadline ("today" and "tomorrow" resolve to concrete
// dates; anything else is kept literally).
func (e *Engine) AddTask(ctx context.Context, text, priority, deadline string) Result {
	text = strings.TrimSpace(text)
	if text == "" {
		return Result{Success: false, Message: "Cannot add an empty task"}
	}

	pri, _ := task.ParsePriority(priority)

	var id int
	err := e.store.Update(ctx, func(doc *task.Document) error {
		id = doc.Alloc.Next()
		doc.Active = append(doc.Active, task.Task{
			ID:       id,
			Text:     text,
			Priority: pri,
			Deadline: e.resolveDeadline(deadline),
		})
		return nil
	})
	if err != nil {
		return e.failure("add task", err)
	}

	e.log.Info().Str("id", task.FormatID(id)).Str("task", text).Msg("added task")
	return Result{Success: true, Message: fmt.Sprintf("Added as task %s", task.FormatID(id))}
}

// MarkComplete moves the matched task to the done list, stamped with today's
// date, and releases its ID. The confirmation is deliberately terse to keep
// the spoken reply short.
func (e *Engine) MarkComplete(ctx context.Context, query string) Result {
	var missed bool
	err := e.store.Update(ctx, func(doc *task.Document) error {
		i := findTaskByQuery(doc.Active, query)
		if i < 0 {
			missed = true
			return errNoMatch
		}

		done := doc.Active[i]
		doc.Done = append(doc.Done, task.CompletedTask{
			Text:          done.EncodeText(),
			CompletedDate: e.now().Format(task.DateFormat),
		})
		doc.Alloc.Release(done.ID)
		doc.Active = append(doc.Active[:i], doc.Active[i+1:]...)

		e.log.Info().Str("id", task.FormatID(done.ID)).Str("task", done.Text).Msg("completed task")
		return nil
	})
	if missed {
		return notFound(query)
	}
	if err != nil {
		return e.failure("complete task", err)
	}

	return Result{Success: true, Message: "Done"}
}

// UpdateTask replaces the matched task's text verbatim. Markers in the new
// text are honored; ones not re-supplied are dropped.
func (e *Engine) UpdateTask(ctx context.Context, query, newText string) Result {
	newText = strings.TrimSpace(newText)
	if newText == "" {
		return Result{Success: false, Message: "Cannot update a task to empty text"}
	}

	var missed bool
	err := e.store.Update(ctx, func(doc *task.Document) error {
		i := findTaskByQuery(doc.Active, query)
		if i < 0 {
			missed = true
			return errNoMatch
		}

		text, pri, deadline := task.DecodeText(newText)
		doc.Active[i].Text = text
		doc.Active[i].Priority = pri
		doc.Active[i].Deadline = deadline

		e.log.Info().Str("id", task.FormatID(doc.Active[i].ID)).Str("task", text).Msg("updated task")
		return nil
	})
	if missed {
		return notFound(query)
	}
	if err != nil {
		return e.failure("update task", err)
	}

	return Result{Success: true, Message: "Updated"}
}

// DeleteTask removes the matched task outright and releases its ID.
func (e *Engine) DeleteTask(ctx context.Context, query string) Result {
	var missed bool
	err := e.store.Update(ctx, func(doc *task.Document) error {
		i := findTaskByQuery(doc.Active, query)
		if i < 0 {
			missed = true
			return errNoMatch
		}

		gone := doc.Active[i]
		doc.Alloc.Release(gone.ID)
		doc.Active = append(doc.Active[:i], doc.Active[i+1:]...)

		e.log.Info().Str("id", task.FormatID(gone.ID)).Str("task", gone.Text).Msg("deleted task")
		return nil
	})
	if missed {
		return notFound(query)
	}
	if err != nil {
		return e.failure("remove task", err)
	}

	return Result{Success: true, Message: "Removed"}
}

// AddDeadline sets or replaces the matched task's deadline.
func (e *Engine) AddDeadline(ctx context.Context, query, deadline string) Result {
	deadline = strings.TrimSpace(deadline)
	if deadline == "" {
		return Result{Success: false, Message: "No deadline given"}
	}

	var missed bool
	err := e.store.Update(ctx, func(doc *task.Document) error {
		i := findTaskByQuery(doc.Active, query)
		if i < 0 {
			missed = true
			return errNoMatch
		}

		doc.Active[i].Deadline = e.resolveDeadline(deadline)
		return nil
	})
	if missed {
		return notFound(query)
	}
	if err != nil {
		return e.failure("set deadline", err)
	}

	return Result{Success: true, Message: "Updated"}
}

// SetPriority sets or replaces the matched task's priority marker.
// "normal" clears it.
func (e *Engine) SetPriority(ctx context.Context, query, priority string) Result {
	pri, perr := task.ParsePriority(priority)
	if perr != nil {
		return Result{Success: false, Message: perr.Error()}
	}

	var missed bool
	err := e.store.Update(ctx, func(doc *task.Document) error {
		i := findTaskByQuery(doc.Active, query)
		if i < 0 {
			missed = true
			return errNoMatch
		}

		doc.Active[i].Priority = pri
		return nil
	})
	if missed {
		return notFound(query)
	}
	if err != nil {
		return e.failure("set priority", err)
	}

	return Result{Success: true, Message: "Updated"}
}

// ListTasks returns active tasks for filter "all", "urgent", or "today".
// An empty result is a success with an empty list.
func (e *Engine) ListTasks(ctx context.Context, filter string) Result {
	doc, err := e.store.Load(ctx)
	if err != nil {
		return e.failure("list tasks", err)
	}

	today := e.now().Format(task.DateFormat)

	var tasks []string
	for _, t := range doc.Active {
		switch filter {
		case "urgent":
			if t.Priority != task.PriorityUrgent {
				continue
			}
		case "today":
			if t.Deadline != today && t.Deadline != "today" {
				continue
			}
		}
		tasks = append(tasks, t.EncodeText())
	}

	if len(tasks) == 0 {
		return Result{Success: true, Tasks: []string{}, Message: "No tasks found"}
	}

	return Result{Success: true, Tasks: tasks, Message: fmt.Sprintf("Found %d tasks", len(tasks))}
}

// SearchTasks filters active tasks by case-insensitive substring, in file
// order.
func (e *Engine) SearchTasks(ctx context.Context, query string) Result {
	doc, err := e.store.Load(ctx)
	if err != nil {
		return e.failure("search tasks", err)
	}

	needle := strings.ToLower(query)
	tasks := []string{}
	for _, t := range doc.Active {
		if strings.Contains(strings.ToLower(t.EncodeText()), needle) {
			tasks = append(tasks, t.EncodeText())
		}
	}

	return Result{Success: true, Tasks: tasks, Message: fmt.Sprintf("Found %d matching tasks", len(tasks))}
}

// GetActiveTasks returns the active tasks with their full serialized lines.
func (e *Engine) GetActiveTasks(ctx context.Context) ([]TaskInfo, error) {
	doc, err := e.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	infos := make([]TaskInfo, 0, len(doc.Active))
	for _, t := range doc.Active {
		infos = append(infos, TaskInfo{ID: t.ID, Text: t.EncodeText(), FullLine: t.Line()})
	}
	return infos, nil
}

// GetPriorityTasks scores active tasks by urgency keywords and returns the
// top count task texts, ties keeping file order.
func (e *Engine) GetPriorityTasks(ctx context.Context, count int) ([]string, error) {
	doc, err := e.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	type scored struct {
		text  string
		score int
	}

	items := make([]scored, 0, len(doc.Active))
	for _, t := range doc.Active {
		lower := strings.ToLower(t.EncodeText())
		s := scored{text: t.EncodeText()}
		for _, kw := range urgencyKeywords {
			s.score += strings.Count(lower, kw)
		}
		items = append(items, s)
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].score > items[j].score })

	if count > len(items) {
		count = len(items)
	}

	out := make([]string, 0, count)
	for _, s := range items[:count] {
		out = append(out, s.text)
	}
	return out, nil
}

// GetStats returns active, completed, and total task counts.
func (e *Engine) GetStats(ctx context.Context) (Stats, error) {
	doc, err := e.store.Load(ctx)
	if err != nil {
		return Stats{}, err
	}

	return Stats{
		ActiveCount:    len(doc.Active),
		CompletedCount: len(doc.Done),
		TotalTasks:     len(doc.Active) + len(doc.Done),
	}, nil
}

func (e *Engine) resolveDeadline(deadline string) string {
	switch strings.ToLower(strings.TrimSpace(deadline)) {
	case "":
		return ""
	case "today":
		return e.now().Format(task.DateFormat)
	case "tomorrow":
		return e.now().AddDate(0, 0, 1).Format(task.DateFormat)
	default:
		return strings.TrimSpace(deadline)
	}
}

// idQueryRe pulls a candidate numeric ID out of a query, optionally
// preceded by the word "task" ("7", "007", "task 12").
var idQueryRe = regexp.MustCompile(`(?i)(?:task\s+)?(\d+)`)

// findTaskByQuery resolves a spoken query to an active task index. An exact
// ID match wins over text matching; otherwise the first task (in file order)
// whose encoded text contains the query case-insensitively is chosen.
// Returns -1 when nothing matches.
func findTaskByQuery(active []task.Task, query string) int {
	query = strings.TrimSpace(query)

	if m := idQueryRe.FindStringSubmatch(query); m != nil {
		if id, err := strconv.Atoi(m[1]); err == nil {
			for i, t := range active {
				if t.ID == id {
					return i
				}
			}
		}
	}

	needle := strings.ToLower(query)
	for i, t := range active {
		if strings.Contains(strings.ToLower(t.EncodeText()), needle) {
			return i
		}
	}

	return -1
}
