package ai

import (
	"fmt"
	"strings"

	"github.com/aipreacher/backend/internal/analysis/emotion"
	"github.com/aipreacher/backend/internal/analysis/intent"
	"github.com/aipreacher/backend/internal/model/chat"
	"github.com/aipreacher/backend/internal/model/denomination"
	"github.com/aipreacher/backend/internal/model/user"
	sessions "github.com/aipreacher/backend/internal/service/chat"
)

// SectionKind labels one block of the rendered instruction.
type SectionKind string

const (
	SectionPersona      SectionKind = "persona"
	SectionIdentity     SectionKind = "identity"
	SectionPastoral     SectionKind = "pastoral_context"
	SectionHistory      SectionKind = "history"
	SectionRequirements SectionKind = "requirements"
	SectionDirectives   SectionKind = "directives"
	SectionFormat       SectionKind = "format_rules"
)

// DefaultContextWindow is how many recent turns are quoted back to the model.
const DefaultContextWindow = 6

// Section is a titled group of lines.
type Section struct {
	Kind  SectionKind
	Title string
	Lines []string
}

// Prompt is an ordered list of sections rendered to text last.
type Prompt struct {
	Sections []Section
}

// Kinds lists section kinds in render order.
func (p Prompt) Kinds() []SectionKind {
	kinds := make([]SectionKind, 0, len(p.Sections))
	for _, s := range p.Sections {
		kinds = append(kinds, s.Kind)
	}
	return kinds
}

// Section returns the first section of the given kind.
func (p Prompt) Section(kind SectionKind) (Section, bool) {
	for _, s := range p.Sections {
		if s.Kind == kind {
			return s, true
		}
	}
	return Section{}, false
}

// Render joins the sections into the instruction text.
func (p Prompt) Render() string {
	blocks := make([]string, 0, len(p.Sections))
	for _, s := range p.Sections {
		var b strings.Builder
		if s.Title != "" {
			b.WriteString("**")
			b.WriteString(s.Title)
			b.WriteString(":**\n")
		}
		b.WriteString(strings.Join(s.Lines, "\n"))
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\n")
}

// PromptInput carries everything the assembler reads.
type PromptInput struct {
	User     user.Profile
	Analysis intent.Result
	Session  sessions.Context
	Message  string
	Window   int
}

// ResolveMood prefers the detected mood, then the stored baseline, then neutral.
// A stored mood outside the keyword table is kept as free text, flattened by
// Sanitize.
func ResolveMood(detected emotion.Label, storedMood string) emotion.Label {
	if detected != "" && detected != emotion.Neutral {
		return detected
	}
	label, known := emotion.Parse(storedMood)
	switch {
	case label == "":
		return emotion.Neutral
	case known:
		return label
	default:
		return emotion.Label(Sanitize(string(label)))
	}
}

// BuildPrompt assembles the pastoral instruction for one message. It performs
// no I/O and yields the same prompt for the same input.
func BuildPrompt(in PromptInput) Prompt {
	finalMood := ResolveMood(in.Analysis.Mood, in.User.StoredMood)
	guidance := denomination.LookupGuidance(in.User.Denomination)
	denom := in.User.Denomination
	if denom == "" {
		denom = denomination.Fallback
	}
	message := Sanitize(in.Message)
	greeting := in.Analysis.Intent == intent.Greeting

	sections := []Section{
		{
			Kind: SectionPersona,
			Lines: []string{
				"You are an AI preacher providing compassionate, biblically grounded responses to people seeking spiritual guidance, speaking as a human Christian pastor would.",
			},
		},
		identitySection(in, denom, guidance, finalMood, message, greeting),
		pastoralSection(in.Session, denom, guidance, greeting),
	}

	if history := historySection(in.Session.History, message, in.Window); len(history.Lines) > 0 {
		sections = append(sections, history)
	}

	sections = append(sections, Section{
		Kind:  SectionRequirements,
		Title: "Response Requirements",
		Lines: numbered(responseComponents(in.Analysis, in.User.Name, denom, guidance, finalMood)),
	})

	if directives := specialDirectives(in.Analysis.Intent, denom); len(directives) > 0 {
		sections = append(sections, Section{
			Kind:  SectionDirectives,
			Title: "Special Directives",
			Lines: directives,
		})
	}

	sections = append(sections, Section{
		Kind:  SectionFormat,
		Title: "Format Rules",
		Lines: formatRules(guidance),
	})

	return Prompt{Sections: sections}
}

func identitySection(in PromptInput, denom string, guidance denomination.Guidance, finalMood emotion.Label, message string, greeting bool) Section {
	lines := []string{
		fmt.Sprintf("The user %s belongs to the %s denomination and needs guidance focused on %s.", in.User.Name, denom, guidance.Focus),
	}
	if !greeting {
		stored := Sanitize(in.User.StoredMood)
		if stored == "" {
			stored = string(emotion.Neutral)
		}
		lines = append(lines,
			fmt.Sprintf("Their stored mood is %q. The mood to respond to is %s.", stored, finalMood),
		)
	}
	lines = append(lines,
		fmt.Sprintf("The message type is %s and the user wrote: \"%s\"", in.Analysis.Intent, message),
		"Analyze the message and respond accordingly, following the guidance below where applicable.",
	)
	return Section{Kind: SectionIdentity, Lines: lines}
}

func pastoralSection(session sessions.Context, denom string, guidance denomination.Guidance, greeting bool) Section {
	theme := string(session.Theme)
	if theme == "" {
		theme = "general guidance"
	}
	lines := make([]string, 0, 3)
	if !greeting {
		state := session.EmotionalState
		if state == "" {
			state = emotion.Neutral
		}
		lines = append(lines, fmt.Sprintf("- Current emotional state: %s", state))
	}
	lines = append(lines,
		fmt.Sprintf("- Conversation theme: %s", theme),
		fmt.Sprintf("- Denomination: %s, guidance on %s", denom, guidance.Focus),
	)
	return Section{Kind: SectionPastoral, Title: "Pastoral Context", Lines: lines}
}

func historySection(history []chat.Turn, message string, window int) Section {
	if len(history) == 0 {
		return Section{Kind: SectionHistory}
	}
	if window <= 0 {
		window = DefaultContextWindow
	}
	if len(history) > window {
		history = history[len(history)-window:]
	}

	lines := []string{"Recent dialogue, oldest first:"}
	for _, turn := range history {
		label := "[User]"
		if turn.Sender == chat.SenderPastor {
			label = "[Pastor]"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", label, Sanitize(turn.Text)))
	}
	lines = append(lines, "", "Current message:", "[User]: "+message)
	return Section{Kind: SectionHistory, Title: "Conversation Context", Lines: lines}
}

func responseComponents(analysis intent.Result, name, denom string, guidance denomination.Guidance, finalMood emotion.Label) []string {
	switch analysis.Intent {
	case intent.Greeting:
		return []string{
			fmt.Sprintf("Respond with a warm Christian greeting that addresses %s by name", name),
			"Mention the denomination only if it is relevant",
			"Keep the response to 1-3 sentences",
			"Invite them to share what is on their heart",
		}
	case intent.Gratitude:
		return []string{
			"Acknowledge their thanks warmly",
			"Point to God's grace and presence in their life",
			"Optionally invite them to continue the conversation",
		}
	}

	components := make([]string, 0, 4)
	if analysis.RequiresEmpathy {
		components = append(components, fmt.Sprintf("Start with %s empathy for their %s state", strings.ToLower(guidance.Tone), finalMood))
	}
	components = append(components,
		fmt.Sprintf("Provide a biblical answer from a %s perspective, framed by %s", denom, guidance.Focus),
		"Include relevant Bible verses with brief interpretations",
	)
	if analysis.RequiresPrayer {
		components = append(components, "Close with a brief prayer")
	} else {
		components = append(components, fmt.Sprintf("End with an encouraging %s blessing or next step", denom))
	}
	return components
}

func specialDirectives(kind intent.Type, denom string) []string {
	var directives []string
	if kind == intent.Greeting {
		directives = append(directives,
			"- Avoid theological explanations",
			"- Do not quote Bible verses",
			"- Focus on a warm welcome",
		)
	}
	switch denom {
	case "Catholic", "Orthodox":
		directives = append(directives, "- Include references to church tradition where appropriate")
	case "Reformed", "Presbyterian":
		directives = append(directives, "- Emphasize God's sovereignty")
	case "Pentecostal":
		directives = append(directives, "- Acknowledge the Holy Spirit's work")
	case "Jehovah's Witness":
		directives = append(directives, `- Use "Jehovah" for God and avoid Trinitarian language`)
	}
	if kind == intent.Confession {
		directives = append(directives, fmt.Sprintf("- Use the %s understanding of forgiveness", denom))
	}
	return directives
}

func formatRules(guidance denomination.Guidance) []string {
	return []string{
		fmt.Sprintf("- Use a %s tone", strings.ToLower(guidance.Tone)),
		"- For factual questions: direct answer and scripture only",
		"- For emotional content: show compassion",
		"- For biblical questions: support the answer with Bible verses",
		"- For confessions: offer forgiveness through Bible verses and a prayer",
		"- Avoid prayer for non-emotional and biblical questions",
		"- Keep interpretations short and relevant",
		"- Use inclusive language for all denominations",
		"- For denominational questions: give guidance specific to the user's denomination",
		"- For greetings: use a warm Christian greeting",
		`- Verse format: "Book Chapter:Verse"`,
	}
}

func numbered(items []string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = fmt.Sprintf("%d. %s", i+1, item)
	}
	return out
}

var sanitizer = strings.NewReplacer(
	"\r\n", " ",
	"\n", " ",
	"\r", " ",
	`"`, `\"`,
)

// Sanitize flattens newlines and escapes double quotes so user text cannot
// break the instruction layout. It is not an injection defence.
func Sanitize(text string) string {
	return sanitizer.Replace(strings.TrimSpace(text))
}
