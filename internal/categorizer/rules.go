package categorizer

const General = "General"

// Categories in tie-break priority order.
var Categories = []string{
	"Technology",
	"AI & Startups",
	"Business & Finance",
	"Science",
	"Health",
	"Education",
	"Politics",
	"World",
	"Environment",
	"Sports",
	"Culture",
	General,
}

// PathRule maps a URL path substring to a category.
type PathRule struct {
	Substring string
	Category  string
}

type Rules struct {
	Keywords  map[string][]string
	Paths     []PathRule
	HintBonus float64
	URLBonus  float64
	MinScore  float64
}

func DefaultRules() Rules {
	return Rules{
		Keywords:  defaultKeywords(),
		Paths:     defaultPaths(),
		HintBonus: 25,
		URLBonus:  10,
		MinScore:  2,
	}
}

func defaultPaths() []PathRule {
	return []PathRule{
		{"/technology", "Technology"},
		{"/tech/", "Technology"},
		{"/business", "Business & Finance"},
		{"/economy", "Business & Finance"},
		{"/finance", "Business & Finance"},
		{"/science", "Science"},
		{"/health", "Health"},
		{"/education", "Education"},
		{"/politics", "Politics"},
		{"/world", "World"},
		{"/environment", "Environment"},
		{"/climate", "Environment"},
		{"/ai/", "AI & Startups"},
		{"/startups", "AI & Startups"},
		{"/sports", "Sports"},
		{"/sport/", "Sports"},
	}
}

func defaultKeywords() map[string][]string {
	return map[string][]string{
		"Technology": {"tech", "software", "hardware", "google", "apple", "meta", "microsoft",
			"semiconductor", "cybersecurity", "gadget", "computing", "internet", "broadband"},
		"AI & Startups": {"ai", "artificial intelligence", "machine learning", "deep learning", "openai",
			"startup", "venture capital", "funding round", "unicorn", "y combinator", "llm", "chatbot", "neural network"},
		"Business & Finance": {"market", "stock", "economy", "ceo", "company", "finance", "inflation", "trade",
			"bank", "earnings", "revenue", "wall street", "nasdaq", "crypto", "bitcoin", "federal reserve", "gdp"},
		"Science": {"nasa", "space", "research", "scientists", "biology", "physics", "astronomy", "planet",
			"earth", "telescope", "quantum", "evolution", "genetics", "archeology"},
		"Health": {"medicine", "doctor", "virus", "health", "fitness", "vaccine", "hospital", "cancer", "diet",
			"medical", "brain", "mental health", "fda", "pharma", "surgery"},
		"Education": {"university", "college", "school", "student", "education", "learning", "tuition",
			"academic", "professor", "curriculum", "literacy", "edtech"},
		"Politics": {"election", "president", "government", "senate", "policy", "parliament", "vote", "law",
			"congress", "white house", "ministry", "legislation", "diplomatic"},
		"World": {"international", "global", "war", "conflict", "un", "nato", "ukraine", "russia", "china",
			"israel", "border", "foreign policy", "humanitarian", "refugee"},
		"Environment": {"climate", "global warming", "environment", "sustainability", "renewable", "carbon",
			"emission", "wildlife", "conservation", "pollution", "plastic", "ocean", "glacier", "ecology", "biodiversity"},
		"Sports": {"football", "soccer", "basketball", "nba", "nfl", "cricket", "tennis", "olympics", "stadium",
			"athlete", "championship", "tournament", "ipl", "fifa", "score"},
		"Culture": {"art", "music", "movie", "film", "theater", "culture", "fashion", "lifestyle",
			"entertainment", "celebrity", "travel", "hollywood", "museum"},
	}
}
