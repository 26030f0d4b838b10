package intent

import (
	"context"
	"regexp"
	"strings"
)

var (
	addRe            = regexp.MustCompile(`(?i)^(?:add|create|new task)\s+(.+)$`)
	completePrefixRe = regexp.MustCompile(`(?i)^(?:done|complete|finish|finished)\s+(.+)$`)
	completeSuffixRe = regexp.MustCompile(`(?i)^(?:mark\s+)?(.+?)\s+(?:is\s+|as\s+)?(?:done|complete|completed|finished)$`)
	deleteRe         = regexp.MustCompile(`(?i)^(?:delete|remove|drop)\s+(?:task\s+)?(.+)$`)
	searchRe         = regexp.MustCompile(`(?i)^(?:search|find)\s+(?:for\s+)?(.+)$`)
)

// FallbackParser interprets commands with keyword heuristics. It covers the
// common phrasings without any network dependency and is used when no API
// key is configured or the model call fails.
type FallbackParser struct{}

// NewFallbackParser creates a keyword-based parser.
func NewFallbackParser() *FallbackParser {
	return &FallbackParser{}
}

// ParseIntent never fails; commands it cannot place become an error intent.
func (p *FallbackParser) ParseIntent(ctx context.Context, text string, currentTasks []string) (Intent, error) {
	trimmed := strings.TrimSpace(text)
	lower := strings.ToLower(trimmed)

	if m := addRe.FindStringSubmatch(trimmed); m != nil {
		return Intent{
			Function: FunctionAddTask,
			Params:   map[string]any{"task": strings.TrimSpace(m[1])},
		}, nil
	}

	if m := completePrefixRe.FindStringSubmatch(trimmed); m != nil {
		return Intent{
			Function: FunctionMarkComplete,
			Params:   map[string]any{"taskQuery": strings.TrimSpace(m[1])},
		}, nil
	}

	if m := completeSuffixRe.FindStringSubmatch(trimmed); m != nil {
		return Intent{
			Function: FunctionMarkComplete,
			Params:   map[string]any{"taskQuery": strings.TrimSpace(m[1])},
		}, nil
	}

	if m := deleteRe.FindStringSubmatch(trimmed); m != nil {
		return Intent{
			Function: FunctionDeleteTask,
			Params:   map[string]any{"taskQuery": strings.TrimSpace(m[1])},
		}, nil
	}

	if m := searchRe.FindStringSubmatch(trimmed); m != nil {
		return Intent{
			Function: FunctionSearchTasks,
			Params:   map[string]any{"query": strings.TrimSpace(m[1])},
		}, nil
	}

	if strings.Contains(lower, "what needs") || strings.Contains(lower, "attention") ||
		strings.Contains(lower, "priority") || strings.Contains(lower, "urgent") {
		return Intent{
			Function: FunctionListTasks,
			Params:   map[string]any{"filter": "urgent"},
		}, nil
	}

	if strings.Contains(lower, "read") || strings.Contains(lower, "list") || strings.Contains(lower, "show") {
		return Intent{
			Function: FunctionListTasks,
			Params:   map[string]any{"filter": "all"},
		}, nil
	}

	return ErrorIntent(`I didn't understand that command. Try "What needs my attention?" or "Add buy milk".`), nil
}
