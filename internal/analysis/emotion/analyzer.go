package emotion

import (
	"regexp"
	"strings"
)

// Label is a mood recognised in a user message.
type Label string

const (
	Neutral   Label = "neutral"
	Happy     Label = "happy"
	Sad       Label = "sad"
	Anxious   Label = "anxious"
	Angry     Label = "angry"
	Confused  Label = "confused"
	Repentant Label = "repentant"
)

type bucket struct {
	label    Label
	keywords []string
	pattern  *regexp.Regexp
}

// Buckets are scanned in declaration order; the first hit wins.
var keywordBuckets = []bucket{
	newBucket(Happy, "rejoice", "joy", "blessed", "grateful", "thankful", "peace", "celebrate"),
	newBucket(Sad, "sad", "depressed", "grief", "mourn", "heartbroken", "weep", "loss"),
	newBucket(Anxious, "anxious", "worry", "fear", "afraid", "nervous", "stressed", "overwhelmed"),
	newBucket(Angry, "angry", "furious", "rage", "betrayed", "resent", "frustrated", "bitter"),
	newBucket(Confused, "confused", "doubt", "uncertain", "questioning", "lost", "wandering", "searching"),
	newBucket(Repentant, "confess", "sin", "forgive", "repent", "guilty", "transgression", "regret"),
}

func newBucket(label Label, keywords ...string) bucket {
	quoted := make([]string, len(keywords))
	for i, word := range keywords {
		quoted[i] = regexp.QuoteMeta(word)
	}
	return bucket{
		label:    label,
		keywords: keywords,
		pattern:  regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`),
	}
}

// Detect returns the first mood with a whole-word keyword hit, or Neutral.
func Detect(message string) Label {
	normalized := strings.ToLower(strings.TrimSpace(message))
	if normalized == "" {
		return Neutral
	}
	for _, b := range keywordBuckets {
		if b.pattern.MatchString(normalized) {
			return b.label
		}
	}
	return Neutral
}

// Labels lists the table's moods in scan order.
func Labels() []Label {
	labels := make([]Label, 0, len(keywordBuckets))
	for _, b := range keywordBuckets {
		labels = append(labels, b.label)
	}
	return labels
}

// keywordsFor returns a copy of the trigger words for label.
func keywordsFor(label Label) []string {
	for _, b := range keywordBuckets {
		if b.label == label {
			return append([]string(nil), b.keywords...)
		}
	}
	return nil
}

// Known reports whether label is Neutral or a key of the keyword table.
func Known(label Label) bool {
	if label == Neutral {
		return true
	}
	return keywordsFor(label) != nil
}

// Parse normalizes a stored mood such as "Anxious" into a Label.
func Parse(raw string) (Label, bool) {
	label := Label(strings.ToLower(strings.TrimSpace(raw)))
	if label == "" {
		return "", false
	}
	return label, Known(label)
}
