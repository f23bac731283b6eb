package tuning

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateAbbrev = errors.New("abbreviated text example already exists")
	ErrEmptyText       = errors.New("abbreviated and/or expanded text cannot be empty")
	ErrLastExample     = errors.New("at least one example is required")
	ErrNotFound        = errors.New("tuning example not found")
	ErrUnsupportedLang = errors.New("unsupported language")
)

// Set is the ordered list of tuning examples edited from settings
type Set struct {
	examples []Example
}

// NewSet copies examples into a new set
func NewSet(examples []Example) *Set {
	return &Set{examples: append([]Example(nil), examples...)}
}

// Validate checks e against the rest of the set
func (s *Set) Validate(e Example) error {
	for _, other := range s.examples {
		if other.AbbrevText == e.AbbrevText && other.ID != e.ID {
			return ErrDuplicateAbbrev
		}
	}
	if e.hasEmptyText() {
		return ErrEmptyText
	}
	if !IsSupported(e.Lang) {
		return fmt.Errorf("%w: %q", ErrUnsupportedLang, e.Lang)
	}
	return nil
}

// Upsert validates e and replaces the example with the same ID, or appends
// it when the ID is new
func (s *Set) Upsert(e Example) error {
	if err := s.Validate(e); err != nil {
		return err
	}

	if i := s.index(e.ID); i >= 0 {
		s.examples[i] = e
		return nil
	}
	s.examples = append(s.examples, e)
	return nil
}

// Delete removes the example with the given ID
func (s *Set) Delete(id string) error {
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if len(s.examples) == 1 {
		return ErrLastExample
	}
	s.examples = append(s.examples[:i], s.examples[i+1:]...)
	return nil
}

// Get returns the example with the given ID
func (s *Set) Get(id string) (Example, bool) {
	if i := s.index(id); i >= 0 {
		return s.examples[i], true
	}
	return Example{}, false
}

// All returns a copy of the examples in order
func (s *Set) All() []Example {
	return append([]Example(nil), s.examples...)
}

// Len returns the number of examples
func (s *Set) Len() int {
	return len(s.examples)
}

// Langs returns the distinct languages in order of first appearance
func (s *Set) Langs() []string {
	langs, _ := Partition(s.examples, func(e Example) string { return e.Lang })
	return langs
}

func (s *Set) index(id string) int {
	for i, e := range s.examples {
		if e.ID == id {
			return i
		}
	}
	return -1
}
