package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
)

// bufferEditor adapts the textarea to command.Editor. The selection is the
// text a run started with; it is looked up again when the result lands
// since the buffer may have changed meanwhile.
type bufferEditor struct {
	area      *textarea.Model
	selection string
}

func (a *App) bufferEditor(selection string) *bufferEditor {
	return &bufferEditor{area: &a.state.editor, selection: selection}
}

func (e *bufferEditor) Selection() string {
	return e.selection
}

func (e *bufferEditor) ReplaceSelection(text string) {
	e.area.SetValue(replaceOrAppend(e.area.Value(), e.selection, text))
	e.selection = text
}

// replaceOrAppend swaps the first occurrence of old in buf for text. When
// old is gone, text is appended as a new paragraph.
func replaceOrAppend(buf, old, text string) string {
	if old != "" {
		if i := strings.Index(buf, old); i >= 0 {
			return buf[:i] + text + buf[i+len(old):]
		}
	}
	buf = strings.TrimRight(buf, "\n")
	if buf == "" {
		return text
	}
	return buf + "\n\n" + text
}

// selection is the text the next run expands
func (a *App) selection() string {
	text := a.state.editor.Value()
	if !a.state.paragraphOnly {
		return text
	}
	return paragraphAt(text, a.state.editor.Line())
}

func (a *App) scopeLabel() string {
	if a.state.paragraphOnly {
		return "paragraph at cursor"
	}
	return "whole buffer"
}

// paragraphAt returns the blank-line delimited paragraph holding row, or ""
// when that row is blank
func paragraphAt(text string, row int) string {
	lines := strings.Split(text, "\n")
	if row < 0 || row >= len(lines) || isBlank(lines[row]) {
		return ""
	}
	start, end := row, row+1
	for start > 0 && !isBlank(lines[start-1]) {
		start--
	}
	for end < len(lines) && !isBlank(lines[end]) {
		end++
	}
	return strings.Join(lines[start:end], "\n")
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
