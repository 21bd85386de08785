package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aipreacher/backend/internal/analysis/emotion"
)

func TestRuleOrder(t *testing.T) {
	assert.Equal(t,
		[]string{"gratitude", "greeting", "factual", "question", "confession", "general"},
		RuleOrder(),
	)
}

func TestGratitudeShortCircuitsConfession(t *testing.T) {
	got := Analyze("Thank you for forgiving me")
	assert.Equal(t, Gratitude, got.Intent)
	assert.Equal(t, emotion.Happy, got.Mood)
	assert.False(t, got.RequiresPrayer)
	assert.True(t, got.RequiresEmpathy)
	assert.True(t, got.IsEmotional)
}

func TestGreeting(t *testing.T) {
	for _, msg := range []string{"Hello", "good morning!", "  Shalom  ", "hi pastor"} {
		got := Analyze(msg)
		assert.Equal(t, Greeting, got.Intent, msg)
		assert.Equal(t, emotion.Neutral, got.Mood, msg)
		assert.False(t, got.RequiresPrayer, msg)
		assert.False(t, got.RequiresEmpathy, msg)
		assert.False(t, got.IsEmotional, msg)
	}
}

func TestGreetingMustBeWholeMessage(t *testing.T) {
	got := Analyze("hello, I have been struggling with my sin")
	assert.Equal(t, Confession, got.Intent)
}

func TestFactualQuestion(t *testing.T) {
	got := Analyze("Why does God allow suffering?")
	assert.Equal(t, Factual, got.Intent)
	assert.False(t, got.RequiresPrayer)
	assert.False(t, got.RequiresEmpathy)

	got = Analyze("Can you explain the Trinity?")
	assert.Equal(t, Factual, got.Intent)
}

func TestEmotionalRegisterOverridesFactual(t *testing.T) {
	got := Analyze("Why do I feel so anxious about my faith?")
	assert.NotEqual(t, Factual, got.Intent)
	assert.Equal(t, Biblical, got.Intent)
	assert.Equal(t, emotion.Anxious, got.Mood)
	assert.True(t, got.IsEmotional)
}

func TestQuestionRefinement(t *testing.T) {
	got := Analyze("Is the gospel of Mark the oldest?")
	assert.Equal(t, Biblical, got.Intent)
	assert.False(t, got.RequiresPrayer)
	assert.False(t, got.RequiresEmpathy)

	got = Analyze("Should I join a Baptist church?")
	assert.Equal(t, Denominational, got.Intent)
	assert.False(t, got.RequiresPrayer)
	assert.False(t, got.RequiresEmpathy)

	got = Analyze("Is it okay to rest on sunday?")
	assert.Equal(t, Question, got.Intent)
	assert.True(t, got.RequiresPrayer)
	assert.True(t, got.RequiresEmpathy)
}

func TestConfession(t *testing.T) {
	got := Analyze("I confess I lied to my brother")
	assert.Equal(t, Confession, got.Intent)
	assert.True(t, got.RequiresPrayer)
	assert.True(t, got.RequiresEmpathy)
	assert.Equal(t, emotion.Repentant, got.Mood)
	assert.True(t, got.IsEmotional)
}

func TestConfessionIsEmotionalWithNeutralMood(t *testing.T) {
	got := Analyze("My heart is heavy")
	assert.Equal(t, Confession, got.Intent)
	assert.Equal(t, emotion.Neutral, got.Mood)
	assert.True(t, got.IsEmotional)
}

func TestGeneral(t *testing.T) {
	got := Analyze("Tell me about the apostle Paul")
	assert.Equal(t, General, got.Intent)
	assert.True(t, got.RequiresPrayer)
	assert.True(t, got.RequiresEmpathy)
	assert.False(t, got.IsEmotional)
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	messages := []string{
		"I am so sad and confused",
		"Thanks!",
		"What is grace?",
		"Where is my peace?",
	}
	for _, msg := range messages {
		first := Analyze(msg)
		for i := 0; i < 3; i++ {
			assert.Equal(t, first, Analyze(msg), msg)
		}
	}
}

func TestMoodIsAlwaysKnown(t *testing.T) {
	for _, msg := range []string{"I rejoice", "I am furious", "random words", "Why?"} {
		assert.True(t, emotion.Known(Analyze(msg).Mood), msg)
	}
}
