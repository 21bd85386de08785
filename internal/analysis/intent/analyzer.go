package intent

import (
	"regexp"
	"strings"

	"github.com/aipreacher/backend/internal/analysis/emotion"
)

// Type is the coarse communicative purpose of a message.
type Type string

const (
	Greeting       Type = "greeting"
	Gratitude      Type = "gratitude"
	Factual        Type = "factual"
	Question       Type = "question"
	Biblical       Type = "biblical"
	Denominational Type = "denominational"
	Confession     Type = "confession"
	General        Type = "general"
)

// Result is the analyzer output for a single message.
type Result struct {
	Mood            emotion.Label `json:"mood"`
	Intent          Type          `json:"intent"`
	RequiresPrayer  bool          `json:"requiresPrayer"`
	RequiresEmpathy bool          `json:"requiresEmpathy"`
	IsEmotional     bool          `json:"isEmotional"`
}

var (
	gratitudePattern      = regexp.MustCompile(`\b(?:thank you|thanks|thank|thankful|grateful|appreciate|appreciated|much obliged)\b`)
	greetingPattern       = regexp.MustCompile(`^(?:hello|hi|hey|greetings|good morning|good afternoon|good evening|shalom|peace)(?: pastor)?$`)
	interrogativeOpener   = regexp.MustCompile(`^(?:(?:what|when|where|who|why|how)\b|(?:can|could) you\b)`)
	emotionalRegister     = regexp.MustCompile(`\b(?:feel\w*|heart|soul|spirit|struggl\w*|pain|hurt\w*|anxious|worr\w*|fear\w*)\b`)
	scriptureVocabulary   = regexp.MustCompile(`\b(?:bible|scripture|verse|gospel|testament|chapter|book|psalm|god|jesus|christ|faith|doctrine)\b`)
	traditionVocabulary   = regexp.MustCompile(`\b(?:denomination\w*|church\w*|catholic|protestant|orthodox|baptist|methodist|anglican|pentecostal|presbyterian|reformed|adventist|evangelical|belief\w*|tradition\w*)\b`)
	confessionVocabulary  = regexp.MustCompile(`\b(?:i feel|i am|i'm|my heart|my soul|my spirit|confess\w*|repent\w*|sin|sins|sinned|sinful|guilt|guilty|forgiv\w*|struggl\w*|pain|hurt\w*)\b`)
	trailingGreetingNoise = regexp.MustCompile(`[\s!.,~]+$`)
)

// rule is one row of the ordered classification table.
type rule struct {
	name     string
	match    func(normalized string) bool
	apply    func(normalized string, r *Result)
	terminal bool
}

// rules are evaluated top to bottom; the first match decides the intent.
// Terminal rules also skip mood detection.
var rules = []rule{
	{
		name:  string(Gratitude),
		match: gratitudePattern.MatchString,
		apply: func(_ string, r *Result) {
			r.Intent = Gratitude
			r.Mood = emotion.Happy
			r.RequiresPrayer = false
			r.RequiresEmpathy = true
		},
		terminal: true,
	},
	{
		name: string(Greeting),
		match: func(normalized string) bool {
			return greetingPattern.MatchString(trailingGreetingNoise.ReplaceAllString(normalized, ""))
		},
		apply: func(_ string, r *Result) {
			r.Intent = Greeting
			r.Mood = emotion.Neutral
			r.RequiresPrayer = false
			r.RequiresEmpathy = false
		},
		terminal: true,
	},
	{
		name: string(Factual),
		match: func(normalized string) bool {
			return interrogativeOpener.MatchString(normalized) &&
				strings.HasSuffix(normalized, "?") &&
				!emotionalRegister.MatchString(normalized)
		},
		apply: func(_ string, r *Result) {
			r.Intent = Factual
			r.RequiresPrayer = false
			r.RequiresEmpathy = false
		},
	},
	{
		name:  string(Question),
		match: func(normalized string) bool { return strings.Contains(normalized, "?") },
		apply: func(normalized string, r *Result) {
			r.Intent = Question
			switch {
			case scriptureVocabulary.MatchString(normalized):
				r.Intent = Biblical
				r.RequiresPrayer = false
				r.RequiresEmpathy = false
			case traditionVocabulary.MatchString(normalized):
				r.Intent = Denominational
				r.RequiresPrayer = false
				r.RequiresEmpathy = false
			}
		},
	},
	{
		name:  string(Confession),
		match: confessionVocabulary.MatchString,
		apply: func(_ string, r *Result) {
			r.Intent = Confession
			r.RequiresEmpathy = true
			r.RequiresPrayer = true
		},
	},
	{
		name:  string(General),
		match: func(string) bool { return true },
		apply: func(_ string, r *Result) {
			r.Intent = General
		},
	},
}

// RuleOrder exposes the priority order of the classification table.
func RuleOrder() []string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.name
	}
	return names
}

// Analyze classifies a message. It is pure: no I/O and no shared state.
// Callers reject blank input before calling.
func Analyze(message string) Result {
	normalized := strings.ToLower(strings.TrimSpace(message))

	result := Result{
		Mood:            emotion.Neutral,
		Intent:          General,
		RequiresPrayer:  true,
		RequiresEmpathy: true,
	}

	for _, r := range rules {
		if !r.match(normalized) {
			continue
		}
		r.apply(normalized, &result)
		if !r.terminal {
			result.Mood = emotion.Detect(normalized)
		}
		break
	}

	result.IsEmotional = result.Mood != emotion.Neutral || result.Intent == Confession
	return result
}
