package tuning

import (
	"strings"

	"github.com/google/uuid"
)

// Example is a few-shot demonstration of how abbreviated text expands
type Example struct {
	ID           string `yaml:"id"`
	AbbrevText   string `yaml:"abbrev_text"`
	ExpandedText string `yaml:"expanded_text"`
	Lang         string `yaml:"lang"`
}

// NewExample creates an example with a fresh ID
func NewExample(lang, abbrevText, expandedText string) Example {
	return Example{
		ID:           uuid.NewString(),
		AbbrevText:   abbrevText,
		ExpandedText: expandedText,
		Lang:         lang,
	}
}

// StableID derives an ID from the language and abbreviated text. It is used
// for examples that ship or were stored without an ID, so the ID stays the
// same from one load to the next.
func StableID(lang, abbrevText string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(lang+"\x00"+abbrevText)).String()
}

func (e Example) hasEmptyText() bool {
	return strings.TrimSpace(e.AbbrevText) == "" || strings.TrimSpace(e.ExpandedText) == ""
}

// Normalize fills in the ID and language of examples persisted without them
func Normalize(examples []Example) []Example {
	out := make([]Example, len(examples))
	for i, e := range examples {
		if e.Lang == "" {
			e.Lang = DefaultLang
		}
		if e.ID == "" {
			e.ID = StableID(e.Lang, e.AbbrevText)
		}
		out[i] = e
	}
	return out
}

// Group holds the examples of a single language, in list order
type Group struct {
	Lang     string
	Examples []Example
}

// Partition splits items by key. Keys come back in order of first
// appearance and items keep their relative order within a key.
func Partition[K comparable, T any](items []T, key func(T) K) ([]K, map[K][]T) {
	var keys []K
	groups := make(map[K][]T)
	for _, item := range items {
		k := key(item)
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], item)
	}
	return keys, groups
}

// GroupByLang partitions examples by language
func GroupByLang(examples []Example) []Group {
	langs, byLang := Partition(examples, func(e Example) string { return e.Lang })

	groups := make([]Group, 0, len(langs))
	for _, lang := range langs {
		groups = append(groups, Group{Lang: lang, Examples: byLang[lang]})
	}
	return groups
}
