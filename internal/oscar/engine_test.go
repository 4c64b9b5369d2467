package oscar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondGreetingTakesPrecedence(t *testing.T) {
	e := newTestEngine(t)

	reply := e.Respond("hey, tell me about skills")

	assert.Equal(t, ReplyGreeting, reply.Kind)
	assert.Equal(t, "Hello! I'm OSCAR.", reply.Text)
}

func TestRespondGreetingDrawnFromList(t *testing.T) {
	kb := testKnowledge()
	e, err := NewEngine(kb)
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		assert.Contains(t, kb.Greetings, e.GenerateResponse("hello there"))
	}
}

func TestRespondCapabilityQuestion(t *testing.T) {
	e := newTestEngine(t)

	reply := e.Respond("What can you do?")

	assert.Equal(t, ReplyCapability, reply.Kind)
	assert.Equal(t, "I can tell you about skills or projects.", reply.Text)
}

func TestRespondDigestWithoutMoreNotice(t *testing.T) {
	e := newTestEngine(t)

	reply := e.Respond("What abilities do you have?")

	assert.Equal(t, ReplyKnowledge, reply.Kind)
	assert.Equal(t, "Professional", reply.Category)
	assert.Equal(t, "Skills", reply.Subcategory)
	assert.Equal(t, 3, reply.Shown)
	assert.Equal(t, 3, reply.Total)
	assert.Equal(t, "Let me tell you about Amaan's skills:\n\n"+
		"1. Native Android Development\n"+
		"2. Kotlin\n"+
		"3. Figma\n", reply.Text)
}

func TestRespondTierDuplicatesTriggerMoreNotice(t *testing.T) {
	e := newTestEngine(t)

	reply := e.Respond("What skills do you have?")

	assert.Equal(t, 3, reply.Shown)
	assert.Equal(t, 6, reply.Total)
	assert.Equal(t, "Let me tell you about Amaan's skills:\n\n"+
		"1. Native Android Development\n"+
		"2. Kotlin\n"+
		"3. Figma\n"+
		"\nI have more information about Amaan's skills if you're interested!", reply.Text)
}

func TestRespondTruncatesLargeGroup(t *testing.T) {
	e := newTestEngine(t)

	reply := e.Respond("show me your portfolio")

	assert.Equal(t, 3, reply.Shown)
	assert.Equal(t, 5, reply.Total)
	assert.Equal(t, "Let me tell you about Amaan's apps:\n\n"+
		"1. Dataweave designs database schemas.\n"+
		"2. Hola is a voice chatbot.\n"+
		"3. Sentinel is a safety app.\n"+
		"\nI have more information about Amaan's apps if you're interested!", reply.Text)
}

func TestRespondSingleFactVerbatim(t *testing.T) {
	e := newTestEngine(t)

	reply := e.Respond("builds on android?")

	assert.Equal(t, ReplyKnowledge, reply.Kind)
	assert.Equal(t, "Builds Android apps.", reply.Text)
	assert.Equal(t, 1, reply.Shown)
	assert.Equal(t, 1, reply.Total)
}

func TestRespondFallback(t *testing.T) {
	var offered []string
	picker := PickerFunc(func(options []string) string {
		offered = options
		return options[len(options)-1]
	})
	kb := testKnowledge()
	e, err := NewEngine(kb, WithPicker(picker))
	require.NoError(t, err)

	for _, query := range []string{"xyzzy plugh quux", "", "   "} {
		reply := e.Respond(query)
		assert.Equal(t, ReplyFallback, reply.Kind, "query %q", query)
		assert.Equal(t, "Try asking about skills.", reply.Text)
		assert.Equal(t, kb.Fallbacks, offered)
	}
}

func TestNewEngineRejectsInvalidKnowledge(t *testing.T) {
	_, err := NewEngine(nil)
	assert.Error(t, err)

	kb := testKnowledge()
	kb.Greetings = nil
	_, err = NewEngine(kb)
	assert.ErrorContains(t, err, "greetings")
}

func TestEngineIgnoresLaterMutation(t *testing.T) {
	kb := testKnowledge()
	e, err := NewEngine(kb, WithPicker(FirstPicker{}))
	require.NoError(t, err)

	kb.Categories[0].Subcategories[1].Facts[0] = "changed"
	kb.Greetings[0] = "changed"

	assert.Equal(t, "Builds Android apps.", e.GenerateResponse("builds on android?"))
	assert.Equal(t, "Hello! I'm OSCAR.", e.Greeting())
}

func TestEngineTopicsAndSuggestions(t *testing.T) {
	e := newTestEngine(t)

	topics := e.Topics()
	require.Len(t, topics, 2)
	assert.Equal(t, "Professional", topics[0].Category)
	assert.Equal(t, []TopicEntry{{Name: "Skills", Facts: 3}, {Name: "Mobile", Facts: 1}}, topics[0].Subcategories)
	assert.Equal(t, []string{"What are Amaan's skills?"}, e.Suggestions())
	assert.Equal(t, "Amaan", e.Subject())
}

func TestDefaultKnowledgeContactQuestion(t *testing.T) {
	kb, err := Default()
	require.NoError(t, err)
	e, err := NewEngine(kb, WithPicker(FirstPicker{}))
	require.NoError(t, err)

	reply := e.Respond("How can I contact Amaan?")

	assert.Equal(t, "Personal", reply.Category)
	assert.Equal(t, "Contact", reply.Subcategory)
	assert.Equal(t, 10, reply.Total)
	assert.Equal(t, "Let me tell you about Amaan's contact:\n\n"+
		"1. Phone: +91 9325491427\n"+
		"2. Email: amaansyed27@gmail.com\n"+
		"3. Location: Pune, India\n"+
		"\nI have more information about Amaan's contact if you're interested!", reply.Text)
}
