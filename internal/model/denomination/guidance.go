package denomination

// Fallback is the table entry used for unknown or unset denominations.
const Fallback = "Others"

// Denomination is a row of the denominations table exposed to the client.
type Denomination struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Guidance captures a tradition's preferred tone and doctrinal focus.
type Guidance struct {
	Name  string `json:"name"`
	Tone  string `json:"tone"`
	Focus string `json:"focus"`
}

var guidanceTable = map[string]Guidance{
	"Catholic": {
		Tone:  "Gentle and sacramental",
		Focus: "Church tradition, saints, and sacraments",
	},
	"Protestant": {
		Tone:  "Scripture-focused and grace-oriented",
		Focus: "Sola Scriptura and justification by faith",
	},
	"Evangelical": {
		Tone:  "Personal and conversion-focused",
		Focus: "Personal relationship with Jesus and evangelism",
	},
	"Orthodox": {
		Tone:  "Mystical and liturgical",
		Focus: "Theosis (divinization) and ancient traditions",
	},
	"Anglican": {
		Tone:  "Balanced and liturgical",
		Focus: "Via media between Catholic and Protestant traditions",
	},
	"Pentecostal": {
		Tone:  "Charismatic and experiential",
		Focus: "Holy Spirit gifts and manifestations",
	},
	"Baptist": {
		Tone:  "Direct and believer-focused",
		Focus: "Believer's baptism and soul liberty",
	},
	"Methodist": {
		Tone:  "Practical and social-justice oriented",
		Focus: "Sanctification and social holiness",
	},
	"Adventist": {
		Tone:  "Hopeful and health-conscious",
		Focus: "Second coming and Sabbath observance",
	},
	"Presbyterian": {
		Tone:  "Thoughtful and sovereignty-focused",
		Focus: "God's sovereignty and covenant theology",
	},
	"Reformed": {
		Tone:  "Doctrinal and God-centered",
		Focus: "Calvinist theology and God's glory",
	},
	"Non-denominational": {
		Tone:  "Practical and Bible-focused",
		Focus: "Biblical principles over tradition",
	},
	"Jehovah's Witness": {
		Tone:  "Direct and Watchtower-aligned",
		Focus: "God's Kingdom and evangelism",
	},
	Fallback: {
		Tone:  "Compassionate and inclusive",
		Focus: "Core Christian principles",
	},
}

// LookupGuidance resolves the guidance for name, falling back to the
// Others entry. The returned Name is the entry actually used.
func LookupGuidance(name string) Guidance {
	if g, ok := guidanceTable[name]; ok {
		g.Name = name
		return g
	}
	g := guidanceTable[Fallback]
	g.Name = Fallback
	return g
}

// Seed provides the default denomination rows in insertion order.
func Seed() []Denomination {
	names := []string{
		"Catholic", "Protestant", "Evangelical", "Orthodox", "Anglican",
		"Pentecostal", "Baptist", "Methodist", "Adventist", "Presbyterian",
		"Reformed", "Non-denominational", "Jehovah's Witness", Fallback,
	}
	items := make([]Denomination, len(names))
	for i, name := range names {
		items[i] = Denomination{ID: i + 1, Name: name}
	}
	return items
}
