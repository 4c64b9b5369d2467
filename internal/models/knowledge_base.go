package models

import (
	"errors"
	"fmt"
	"strings"
)

// Default trigger terms used when a knowledge document does not list its own.
var (
	DefaultGreetingTerms = []string{
		"hello", "hi", "hey", "greetings", "good morning", "good afternoon", "good evening", "howdy",
	}
	DefaultCapabilityTerms = []string{
		"what can you do", "what do you know", "help me", "what can you tell me", "how can you help",
	}
)

// Knowledge is the whole document OSCAR answers from.
type Knowledge struct {
	Subject            string              `yaml:"subject" json:"subject"`
	GreetingTerms      []string            `yaml:"greeting_terms,omitempty" json:"greeting_terms,omitempty"`
	CapabilityTerms    []string            `yaml:"capability_terms,omitempty" json:"capability_terms,omitempty"`
	Greetings          []string            `yaml:"greetings" json:"greetings"`
	Fallbacks          []string            `yaml:"fallbacks" json:"fallbacks"`
	TopicIntroductions []string            `yaml:"topic_introductions" json:"topic_introductions"`
	Suggestions        []string            `yaml:"suggestions,omitempty" json:"suggestions,omitempty"`
	Categories         []KnowledgeCategory `yaml:"categories" json:"categories"`
}

type KnowledgeCategory struct {
	Category      string        `yaml:"category" json:"category" db:"name"`
	Subcategories []Subcategory `yaml:"subcategories" json:"subcategories"`
}

type Subcategory struct {
	Name     string   `yaml:"name" json:"name" db:"name"`
	Facts    []string `yaml:"facts" json:"facts" db:"facts"`
	Keywords []string `yaml:"keywords" json:"keywords" db:"keywords"`
}

// Validate reports every structural problem in the document at once.
// Subcategories without facts are allowed; they are simply never answered.
func (k *Knowledge) Validate() error {
	var errs []error

	if strings.TrimSpace(k.Subject) == "" {
		errs = append(errs, errors.New("subject is required"))
	}
	errs = append(errs, validatePhrases("greetings", k.Greetings, true)...)
	errs = append(errs, validatePhrases("fallbacks", k.Fallbacks, true)...)
	errs = append(errs, validatePhrases("topic_introductions", k.TopicIntroductions, true)...)
	errs = append(errs, validatePhrases("greeting_terms", k.GreetingTerms, false)...)
	errs = append(errs, validatePhrases("capability_terms", k.CapabilityTerms, false)...)
	errs = append(errs, validatePhrases("suggestions", k.Suggestions, false)...)

	seen := make(map[string]struct{})
	categories := make(map[string]struct{})
	for i, category := range k.Categories {
		if strings.TrimSpace(category.Category) == "" {
			errs = append(errs, fmt.Errorf("categories[%d]: name is required", i))
		}
		if _, dup := categories[category.Category]; dup {
			errs = append(errs, fmt.Errorf("categories[%d]: duplicate category %q", i, category.Category))
		}
		categories[category.Category] = struct{}{}
		for j, sub := range category.Subcategories {
			where := fmt.Sprintf("categories[%d].subcategories[%d]", i, j)
			if strings.TrimSpace(sub.Name) == "" {
				errs = append(errs, fmt.Errorf("%s: name is required", where))
			}
			key := category.Category + "\x00" + sub.Name
			if _, dup := seen[key]; dup {
				errs = append(errs, fmt.Errorf("%s: duplicate subcategory %q in %q", where, sub.Name, category.Category))
			}
			seen[key] = struct{}{}
			for n, keyword := range sub.Keywords {
				if strings.TrimSpace(keyword) == "" {
					errs = append(errs, fmt.Errorf("%s.keywords[%d]: blank keyword matches every query", where, n))
				}
			}
		}
	}

	return errors.Join(errs...)
}

// WithDefaults returns a copy with omitted trigger term lists filled in.
func (k Knowledge) WithDefaults() Knowledge {
	if len(k.GreetingTerms) == 0 {
		k.GreetingTerms = append([]string(nil), DefaultGreetingTerms...)
	}
	if len(k.CapabilityTerms) == 0 {
		k.CapabilityTerms = append([]string(nil), DefaultCapabilityTerms...)
	}
	return k
}

// Clone returns a deep copy that shares no slices with k.
func (k Knowledge) Clone() Knowledge {
	out := k
	out.GreetingTerms = cloneStrings(k.GreetingTerms)
	out.CapabilityTerms = cloneStrings(k.CapabilityTerms)
	out.Greetings = cloneStrings(k.Greetings)
	out.Fallbacks = cloneStrings(k.Fallbacks)
	out.TopicIntroductions = cloneStrings(k.TopicIntroductions)
	out.Suggestions = cloneStrings(k.Suggestions)
	out.Categories = make([]KnowledgeCategory, len(k.Categories))
	for i, category := range k.Categories {
		subs := make([]Subcategory, len(category.Subcategories))
		for j, sub := range category.Subcategories {
			subs[j] = Subcategory{
				Name:     sub.Name,
				Facts:    cloneStrings(sub.Facts),
				Keywords: cloneStrings(sub.Keywords),
			}
		}
		out.Categories[i] = KnowledgeCategory{Category: category.Category, Subcategories: subs}
	}
	return out
}

func validatePhrases(field string, phrases []string, required bool) []error {
	var errs []error
	if required && len(phrases) == 0 {
		errs = append(errs, fmt.Errorf("%s: at least one entry is required", field))
	}
	for i, phrase := range phrases {
		if strings.TrimSpace(phrase) == "" {
			errs = append(errs, fmt.Errorf("%s[%d]: blank entry", field, i))
		}
	}
	return errs
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}
