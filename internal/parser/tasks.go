package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/starford/notegraph/internal/models"
)

// MaxTaskLength caps the number of characters kept from a task line.
const MaxTaskLength = 200

// ParsedTask is a checklist item found in note content.
type ParsedTask struct {
	Content    string
	Status     models.TaskStatus
	LineNumber int
}

var taskMarkers = map[byte]models.TaskStatus{
	' ': models.TaskPending,
	'x': models.TaskDone,
	'>': models.TaskDeferred,
	'-': models.TaskCancelled,
}

// ParseTasks returns the checklist items of content in line order.
// LineNumber is the 0-based index of the line after line-ending
// normalization. A line is a task when it reads, after any run of
// whitespace and dashes, "[c] text" with c one of ' ', 'x', '>' or '-'.
// Any other marker character is ignored.
func ParseTasks(content string) []ParsedTask {
	var out []ParsedTask
	for i, line := range strings.Split(Normalize(content), "\n") {
		status, text, ok := scanTaskLine(line)
		if !ok {
			continue
		}
		text = truncateTask(text)
		if text == "" {
			continue
		}
		out = append(out, ParsedTask{Content: text, Status: status, LineNumber: i})
	}
	return out
}

func scanTaskLine(line string) (models.TaskStatus, string, bool) {
	rest := strings.TrimLeftFunc(line, func(r rune) bool {
		return r == '-' || unicode.IsSpace(r)
	})
	if len(rest) < 4 || rest[0] != '[' || rest[2] != ']' {
		return "", "", false
	}
	status, ok := taskMarkers[rest[1]]
	if !ok {
		return "", "", false
	}
	text := rest[3:]
	if r, _ := utf8.DecodeRuneInString(text); !unicode.IsSpace(r) {
		return "", "", false
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", "", false
	}
	return status, text, true
}

// truncateTask stops the task text at the first apparent sentence boundary
// and caps it at MaxTaskLength characters. A boundary is either a run of
// whitespace followed by an upper-case letter, or sentence-ending
// punctuation followed by whitespace and more text. Capitalized words inside
// a task (names, acronyms) therefore cut it short as well.
func truncateTask(text string) string {
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '.' || r == '!' || r == '?':
			j := i + 1
			for j < len(runes) && (runes[j] == '.' || runes[j] == '!' || runes[j] == '?') {
				j++
			}
			if j < len(runes) && unicode.IsSpace(runes[j]) && skipSpace(runes, j) < len(runes) {
				return capTask(runes[:j])
			}
			i = j - 1
		case unicode.IsSpace(r):
			j := skipSpace(runes, i)
			if j < len(runes) && unicode.IsUpper(runes[j]) {
				return capTask(runes[:i])
			}
			i = j - 1
		}
	}
	return capTask(runes)
}

func skipSpace(runes []rune, i int) int {
	for i < len(runes) && unicode.IsSpace(runes[i]) {
		i++
	}
	return i
}

func capTask(runes []rune) string {
	if len(runes) > MaxTaskLength {
		runes = runes[:MaxTaskLength]
	}
	return strings.TrimSpace(string(runes))
}
