package task

import "strings"

// Render serializes the document back to canonical file text: the header
// comment, one line per active task, then a blank separator and the done
// lines when any exist.
func (d *Document) Render(header string) string {
	lines := []string{header}

	for _, t := range d.Active {
		lines = append(lines, t.Line())
	}

	if len(d.Done) > 0 {
		lines = append(lines, "")
		for _, c := range d.Done {
			lines = append(lines, c.Line())
		}
	}

	return strings.Join(lines, "\n") + "\n"
}
