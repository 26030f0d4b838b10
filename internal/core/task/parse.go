package task

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	doneRe   = regexp.MustCompile(`^\[DONE\]\s*(\d{4}-\d{2}-\d{2})?\s*(.+)$`)
	idLineRe = regexp.MustCompile(`^(\d{3,})\s+(.+)$`)
)

// Document is the parsed form of a task file: the two task lists plus the
// allocator snapshot derived from them. Returning the allocator makes the
// coupling between parsing and ID allocation an explicit data dependency.
type Document struct {
	Active []Task
	Done   []CompletedTask
	Alloc  *Allocator

	// NeedsRewrite is set when the parser assigned IDs to legacy lines,
	// so the next write persists them.
	NeedsRewrite bool
}

// NewDocument returns an empty document with a fresh allocator.
func NewDocument() *Document {
	return &Document{Alloc: NewAllocator()}
}

// Parse turns raw task-file text into a Document.
//
// Lines starting with "#" are comments. "[DONE]" lines missing a date are
// stamped with today; malformed ones are dropped with a warning. Active
// lines without an ID prefix are legacy tasks and get the next free ID.
func Parse(raw string) *Document {
	return parse(raw, time.Now())
}

func parse(raw string, now time.Time) *Document {
	doc := NewDocument()

	// ID'd lines are registered before legacy lines are assigned IDs, so a
	// legacy line early in the file cannot steal an ID used further down.
	var legacy []int

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "[DONE]") {
			m := doneRe.FindStringSubmatch(line)
			if m == nil {
				log.Warn().Str("line", line).Msg("dropping malformed done line")
				continue
			}
			date := m[1]
			if date == "" {
				date = now.Format(DateFormat)
			}
			doc.Done = append(doc.Done, CompletedTask{
				Text:          strings.TrimSpace(m[2]),
				CompletedDate: date,
			})
			continue
		}

		if m := idLineRe.FindStringSubmatch(line); m != nil {
			id, _ := strconv.Atoi(m[1])
			text, priority, deadline := DecodeText(m[2])
			doc.Alloc.Mark(id)
			doc.Active = append(doc.Active, Task{
				ID:       id,
				Text:     text,
				Priority: priority,
				Deadline: deadline,
			})
			continue
		}

		text, priority, deadline := DecodeText(line)
		legacy = append(legacy, len(doc.Active))
		doc.Active = append(doc.Active, Task{
			Text:     text,
			Priority: priority,
			Deadline: deadline,
			NeedsID:  true,
		})
	}

	for _, i := range legacy {
		doc.Active[i].ID = doc.Alloc.Next()
		doc.NeedsRewrite = true
	}

	return doc
}
