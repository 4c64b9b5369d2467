// Package oscar answers free-text questions about a person from a static knowledge
// document using keyword matching. An Engine never changes after construction and
// is safe for concurrent use.
package oscar

import (
	"fmt"
	"strings"

	"oscar/internal/models"
)

// MaxDigestFacts caps how many facts a multi-fact reply lists.
const MaxDigestFacts = 3

type ReplyKind string

const (
	ReplyGreeting   ReplyKind = "greeting"
	ReplyCapability ReplyKind = "capability"
	ReplyKnowledge  ReplyKind = "knowledge"
	ReplyFallback   ReplyKind = "fallback"
)

// Reply is a response plus how it was chosen. Category, Subcategory, Shown and
// Total are only set for knowledge replies.
type Reply struct {
	Text        string    `json:"text"`
	Kind        ReplyKind `json:"kind"`
	Category    string    `json:"category,omitempty"`
	Subcategory string    `json:"subcategory,omitempty"`
	Shown       int       `json:"shown,omitempty"`
	Total       int       `json:"total,omitempty"`
}

// Topic summarises one category for listing.
type Topic struct {
	Category      string       `json:"category"`
	Subcategories []TopicEntry `json:"subcategories"`
}

type TopicEntry struct {
	Name  string `json:"name"`
	Facts int    `json:"facts"`
}

type Engine struct {
	kb              models.Knowledge
	categories      []indexedCategory
	greetingTerms   []string
	capabilityTerms []string
	picker          Picker
}

type Option func(*Engine)

// WithPicker replaces the uniform random choice among canned replies.
func WithPicker(p Picker) Option {
	return func(e *Engine) {
		if p != nil {
			e.picker = p
		}
	}
}

// NewEngine validates kb and builds an engine over a private copy of it.
func NewEngine(kb *models.Knowledge, opts ...Option) (*Engine, error) {
	if kb == nil {
		return nil, fmt.Errorf("knowledge document is required")
	}
	if err := kb.Validate(); err != nil {
		return nil, fmt.Errorf("invalid knowledge document: %w", err)
	}

	doc := kb.Clone().WithDefaults()
	e := &Engine{
		kb:              doc,
		greetingTerms:   lowerAll(doc.GreetingTerms),
		capabilityTerms: lowerAll(doc.CapabilityTerms),
		picker:          RandomPicker{},
	}

	e.categories = make([]indexedCategory, 0, len(doc.Categories))
	for _, category := range doc.Categories {
		ic := indexedCategory{
			name:          category.Category,
			lowerName:     strings.ToLower(category.Category),
			subcategories: make([]indexedSubcategory, 0, len(category.Subcategories)),
		}
		for _, sub := range category.Subcategories {
			ic.subcategories = append(ic.subcategories, indexedSubcategory{
				name:      sub.Name,
				lowerName: strings.ToLower(sub.Name),
				facts:     sub.Facts,
				keywords:  lowerAll(sub.Keywords),
			})
		}
		e.categories = append(e.categories, ic)
	}

	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// GenerateResponse returns OSCAR's answer to query. It never fails and never returns
// an empty string.
func (e *Engine) GenerateResponse(query string) string {
	return e.Respond(query).Text
}

// Respond picks the first applicable rule: greeting, capability question, knowledge
// match, fallback.
func (e *Engine) Respond(query string) Reply {
	q := strings.ToLower(query)

	if containsAny(q, e.greetingTerms) {
		return Reply{Text: e.picker.Pick(e.kb.Greetings), Kind: ReplyGreeting}
	}
	if containsAny(q, e.capabilityTerms) {
		return Reply{Text: e.picker.Pick(e.kb.TopicIntroductions), Kind: ReplyCapability}
	}

	if matches := e.FindRelevantKnowledge(query); len(matches) > 0 {
		return e.compose(matches)
	}

	return Reply{Text: e.picker.Pick(e.kb.Fallbacks), Kind: ReplyFallback}
}

// compose answers from the group of the best match. Duplicates from overlapping tiers
// count toward the group total.
func (e *Engine) compose(matches []MatchResult) Reply {
	top := matches[0]

	var group []MatchResult
	for _, m := range matches {
		if m.Category == top.Category && m.Subcategory == top.Subcategory {
			group = append(group, m)
		}
	}
	shown := group
	if len(shown) > MaxDigestFacts {
		shown = shown[:MaxDigestFacts]
	}

	reply := Reply{
		Kind:        ReplyKnowledge,
		Category:    top.Category,
		Subcategory: top.Subcategory,
		Shown:       len(shown),
		Total:       len(group),
	}

	if len(shown) == 1 {
		reply.Text = shown[0].Text
		return reply
	}

	topic := strings.ToLower(top.Subcategory)
	var b strings.Builder
	fmt.Fprintf(&b, "Let me tell you about %s's %s:\n\n", e.kb.Subject, topic)
	for i, m := range shown {
		fmt.Fprintf(&b, "%d. %s\n", i+1, m.Text)
	}
	if len(group) > len(shown) {
		fmt.Fprintf(&b, "\nI have more information about %s's %s if you're interested!", e.kb.Subject, topic)
	}

	reply.Text = b.String()
	return reply
}

// Greeting returns a canned greeting, used to open a conversation.
func (e *Engine) Greeting() string {
	return e.picker.Pick(e.kb.Greetings)
}

func (e *Engine) Subject() string {
	return e.kb.Subject
}

func (e *Engine) Suggestions() []string {
	return append([]string(nil), e.kb.Suggestions...)
}

func (e *Engine) Topics() []Topic {
	topics := make([]Topic, 0, len(e.kb.Categories))
	for _, category := range e.kb.Categories {
		t := Topic{Category: category.Category, Subcategories: make([]TopicEntry, 0, len(category.Subcategories))}
		for _, sub := range category.Subcategories {
			t.Subcategories = append(t.Subcategories, TopicEntry{Name: sub.Name, Facts: len(sub.Facts)})
		}
		topics = append(topics, t)
	}
	return topics
}

// Knowledge returns a copy of the document the engine answers from.
func (e *Engine) Knowledge() *models.Knowledge {
	kb := e.kb.Clone()
	return &kb
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
