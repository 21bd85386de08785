package emotion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectFirstBucketWins(t *testing.T) {
	// "grateful" is happy, "sin" is repentant; happy is declared first.
	assert.Equal(t, Happy, Detect("I am grateful even though I sin"))
}

func TestDetectWholeWordOnly(t *testing.T) {
	assert.Equal(t, Neutral, Detect("the sadness of a single sinner"))
	assert.Equal(t, Sad, Detect("I am so SAD today"))
}

func TestDetectNeutralForEmptyInput(t *testing.T) {
	assert.Equal(t, Neutral, Detect("   "))
}

func TestDetectEachBucket(t *testing.T) {
	cases := map[string]Label{
		"we celebrate":          Happy,
		"i am heartbroken":      Sad,
		"i feel overwhelmed":    Anxious,
		"i was betrayed":        Angry,
		"i doubt everything":    Confused,
		"i regret what i did":   Repentant,
		"tell me about genesis": Neutral,
	}
	for msg, want := range cases {
		assert.Equal(t, want, Detect(msg), msg)
	}
}

func TestParseStoredMood(t *testing.T) {
	label, ok := Parse(" Anxious ")
	assert.True(t, ok)
	assert.Equal(t, Anxious, label)

	label, ok = Parse("Hopeful")
	assert.False(t, ok)
	assert.Equal(t, Label("hopeful"), label)

	_, ok = Parse("")
	assert.False(t, ok)
}

func TestLabelsOrder(t *testing.T) {
	assert.Equal(t, []Label{Happy, Sad, Anxious, Angry, Confused, Repentant}, Labels())
}
