package editor

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Buffer is an in-memory document with a single selection
type Buffer struct {
	mu    sync.Mutex
	text  string
	start int
	end   int
}

// NewBuffer selects the whole text
func NewBuffer(text string) *Buffer {
	return &Buffer{text: text, end: len(text)}
}

// Select sets the selection to the byte range [start, end)
func (b *Buffer) Select(start, end int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if start < 0 || end > len(b.text) || start > end {
		return fmt.Errorf("selection %d-%d out of range (length %d)", start, end, len(b.text))
	}
	b.start, b.end = start, end
	return nil
}

// SelectLines selects lines from through to, 1-based and inclusive, without
// the trailing newline of the last line
func (b *Buffer) SelectLines(from, to int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	lines := strings.SplitAfter(b.text, "\n")
	if from < 1 || to < from || to > len(lines) {
		return fmt.Errorf("lines %d-%d out of range (%d lines)", from, to, len(lines))
	}

	start := 0
	for _, l := range lines[:from-1] {
		start += len(l)
	}
	end := start
	for _, l := range lines[from-1 : to] {
		end += len(l)
	}
	end -= len(lines[to-1]) - len(strings.TrimSuffix(lines[to-1], "\n"))

	b.start, b.end = start, end
	return nil
}

func (b *Buffer) Selection() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text[b.start:b.end]
}

// ReplaceSelection swaps the selected text and selects the inserted text
func (b *Buffer) ReplaceSelection(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.text = b.text[:b.start] + text + b.text[b.end:]
	b.end = b.start + len(text)
}

func (b *Buffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text
}

// ParseLineRange parses "N" or "N-M"
func ParseLineRange(s string) (int, int, error) {
	from, to, found := strings.Cut(strings.TrimSpace(s), "-")
	a, err := strconv.Atoi(strings.TrimSpace(from))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid line range %q", s)
	}
	if !found {
		return a, a, nil
	}
	z, err := strconv.Atoi(strings.TrimSpace(to))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid line range %q", s)
	}
	return a, z, nil
}
