// Package taxonomy holds the fixed category and tag vocabularies used across
// the wardrobe and catalog entities.
package taxonomy

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed vocabulary.yaml
var vocabularyYAML []byte

type Vocabulary struct {
	Categories    map[string][]string `yaml:"categories"`
	TagCategories map[string][]string `yaml:"tag_categories"`
	GenderStyles  []string            `yaml:"gender_styles"`
}

var (
	loadOnce sync.Once
	vocab    Vocabulary
	loadErr  error

	allTags map[string]struct{}
)

func load() {
	loadOnce.Do(func() {
		if err := yaml.Unmarshal(vocabularyYAML, &vocab); err != nil {
			loadErr = fmt.Errorf("parse embedded vocabulary: %w", err)
			return
		}
		allTags = make(map[string]struct{})
		for _, tags := range vocab.TagCategories {
			for _, t := range tags {
				allTags[t] = struct{}{}
			}
		}
	})
}

// Load returns the parsed vocabulary.
func Load() (Vocabulary, error) {
	load()
	return vocab, loadErr
}

// Categories returns the main category names, sorted.
func Categories() []string {
	load()
	out := make([]string, 0, len(vocab.Categories))
	for c := range vocab.Categories {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Subcategories returns the subcategories for a main category.
func Subcategories(category string) []string {
	load()
	return vocab.Categories[category]
}

// IsValidCategory validates a category and optional subcategory against the
// fixed enumeration. An empty subcategory is always acceptable.
func IsValidCategory(category, subcategory string) bool {
	load()
	subs, ok := vocab.Categories[category]
	if !ok {
		return false
	}
	if subcategory == "" {
		return true
	}
	for _, s := range subs {
		if s == subcategory {
			return true
		}
	}
	return false
}

// IsValidGenderStyle validates a gender-style filter value.
func IsValidGenderStyle(style string) bool {
	load()
	for _, s := range vocab.GenderStyles {
		if s == style {
			return true
		}
	}
	return false
}

// ValidTags reports whether every tag belongs to the controlled vocabulary.
// Wardrobe item tags are free-form; this is used for catalog filters only.
func ValidTags(tags []string) bool {
	load()
	for _, t := range tags {
		if _, ok := allTags[t]; !ok {
			return false
		}
	}
	return true
}

// TagsByCategory returns the tags of one tag category (e.g. "colors").
func TagsByCategory(tagCategory string) []string {
	load()
	return vocab.TagCategories[tagCategory]
}
