package source

import (
	"net/url"
	"strings"
)

func ep(u, hint string) Entrypoint { return Entrypoint{URL: u, CategoryHint: hint} }

// Defaults is the built-in registry used when no sources file is configured.
func Defaults() []Descriptor {
	return []Descriptor{
		// breaking and wire
		{Name: "BBC News", Tier: TierBreaking, Region: "Global", Family: "bbc", Entrypoints: []Entrypoint{ep("https://www.bbc.com/news", "World")}},
		{Name: "CNN", Tier: TierBreaking, Region: "US", Family: "cnn", Entrypoints: []Entrypoint{ep("https://edition.cnn.com", "World")}},
		{Name: "Reuters", Tier: TierBreaking, Region: "Global", Entrypoints: []Entrypoint{
			ep("https://www.reuters.com/world/", "World"),
			ep("https://www.reuters.com/business/", "Business & Finance"),
			ep("https://www.reuters.com/technology/", "Technology"),
			ep("https://www.reuters.com/science/", "Science"),
		}},
		{Name: "Associated Press", Tier: TierBreaking, Region: "Global", Entrypoints: []Entrypoint{
			ep("https://apnews.com/hub/politics", "Politics"),
			ep("https://apnews.com/hub/business", "Business & Finance"),
			ep("https://apnews.com/hub/science", "Science"),
			ep("https://apnews.com/hub/health", "Health"),
		}},
		{Name: "Hacker News", Tier: TierBreaking, Region: "Global", Family: "hackernews", Entrypoints: []Entrypoint{
			ep("https://hacker-news.firebaseio.com/v0/topstories.json", "Technology"),
		}},

		// category specialists
		{Name: "Al Jazeera", Tier: TierSpecialist, Region: "MiddleEast", Family: "rss", Entrypoints: []Entrypoint{ep("https://www.aljazeera.com/xml/rss/all.xml", "World")}},
		{Name: "The Guardian", Tier: TierSpecialist, Region: "Europe", Entrypoints: []Entrypoint{
			ep("https://www.theguardian.com/international", "World"),
			ep("https://www.theguardian.com/environment", "Environment"),
		}},
		{Name: "Bloomberg", Tier: TierSpecialist, Region: "Global", Entrypoints: []Entrypoint{
			ep("https://www.bloomberg.com/technology", "Technology"),
			ep("https://www.bloomberg.com/markets", "Business & Finance"),
			ep("https://www.bloomberg.com/politics", "Politics"),
		}},
		{Name: "The Verge", Tier: TierSpecialist, Region: "US", Family: "verge", Entrypoints: []Entrypoint{ep("https://www.theverge.com", "Technology")}},
		{Name: "TechCrunch", Tier: TierSpecialist, Region: "US", Family: "rss", Entrypoints: []Entrypoint{ep("https://techcrunch.com/feed/", "Technology")}},
		{Name: "VentureBeat AI", Tier: TierSpecialist, Region: "US", Entrypoints: []Entrypoint{ep("https://venturebeat.com/category/ai/", "AI & Startups")}},
		{Name: "Sifted", Tier: TierSpecialist, Region: "Europe", Entrypoints: []Entrypoint{
			ep("https://sifted.eu/sections/artificial-intelligence/", "AI & Startups"),
			ep("https://sifted.eu/sections/startups/", "AI & Startups"),
		}},
		{Name: "Nature", Tier: TierSpecialist, Region: "Global", Entrypoints: []Entrypoint{ep("https://www.nature.com/nature/articles?type=news", "Science")}},
		{Name: "New Scientist", Tier: TierSpecialist, Region: "Europe", Entrypoints: []Entrypoint{
			ep("https://www.newscientist.com/section/news/", "Science"),
			ep("https://www.newscientist.com/subject/environment/", "Environment"),
		}},
		{Name: "Stat News", Tier: TierSpecialist, Region: "US", Entrypoints: []Entrypoint{ep("https://www.statnews.com", "Health")}},
		{Name: "ESPN", Tier: TierSpecialist, Region: "US", Entrypoints: []Entrypoint{
			ep("https://www.espn.com/", "Sports"),
			ep("https://www.espn.com/nfl/", "Sports"),
			ep("https://www.espn.com/nba/", "Sports"),
		}},
		{Name: "BBC Sport", Tier: TierSpecialist, Region: "Europe", Entrypoints: []Entrypoint{
			ep("https://www.bbc.com/sport/football", "Sports"),
			ep("https://www.bbc.com/sport/cricket", "Sports"),
		}},
		{Name: "Variety", Tier: TierSpecialist, Region: "US", Entrypoints: []Entrypoint{ep("https://variety.com", "Culture")}},
		{Name: "Times of India", Tier: TierSpecialist, Region: "India", Family: "timesofindia", Entrypoints: []Entrypoint{ep("https://timesofindia.indiatimes.com", "World")}},
		{Name: "The Hindu", Tier: TierSpecialist, Region: "India", Entrypoints: []Entrypoint{
			ep("https://www.thehindu.com/news/national/", "World"),
			ep("https://www.thehindu.com/sci-tech/technology/", "Technology"),
			ep("https://www.thehindu.com/sport/", "Sports"),
		}},

		// deep dives and regional
		{Name: "EdSurge", Tier: TierDeepDive, Region: "US", Entrypoints: []Entrypoint{ep("https://www.edsurge.com/news", "Education")}},
		{Name: "Inside Higher Ed", Tier: TierDeepDive, Region: "US", Entrypoints: []Entrypoint{ep("https://www.insidehighered.com/news", "Education")}},
		{Name: "Grist", Tier: TierDeepDive, Region: "US", Entrypoints: []Entrypoint{ep("https://grist.org/news/", "Environment")}},
		{Name: "Mongabay", Tier: TierDeepDive, Region: "Global", Entrypoints: []Entrypoint{ep("https://news.mongabay.com/", "Environment")}},
		{Name: "Ars Technica", Tier: TierDeepDive, Region: "US", Family: "rss", Entrypoints: []Entrypoint{ep("https://feeds.arstechnica.com/arstechnica/index", "Technology")}},
		{Name: "Scientific American", Tier: TierDeepDive, Region: "US", Entrypoints: []Entrypoint{ep("https://www.scientificamerican.com", "Science")}},
		{Name: "NDTV", Tier: TierDeepDive, Region: "India", Entrypoints: []Entrypoint{ep("https://www.ndtv.com", "World")}},
		{Name: "The New Yorker", Tier: TierDeepDive, Region: "US", Entrypoints: []Entrypoint{ep("https://www.newyorker.com", "Culture")}},
	}
}

// SearchEndpoint is a publisher search page; the keyword is appended to
// Prefix query-escaped.
type SearchEndpoint struct {
	Name     string
	Prefix   string
	Category string
	Region   string
}

// DefaultKeywords are the topics the keyword crawl searches for.
var DefaultKeywords = []string{
	"Artificial Intelligence",
	"Climate Change",
	"Global Economy",
	"Health Science",
	"Space Exploration",
	"Cultural Trends",
}

// DefaultSearchEndpoints are publishers whose search pages link to articles.
var DefaultSearchEndpoints = []SearchEndpoint{
	{Name: "BBC Search", Prefix: "https://www.bbc.co.uk/search?q=", Category: "World", Region: "Europe"},
	{Name: "Reuters Search", Prefix: "https://www.reuters.com/site-search/?query=", Category: "Business & Finance", Region: "Global"},
	{Name: "The Guardian Search", Prefix: "https://www.theguardian.com/uk/search?q=", Category: "World", Region: "Europe"},
}

// SearchDescriptors expands keywords across endpoints into one tier 3
// descriptor per endpoint, with one entrypoint per keyword.
func SearchDescriptors(keywords []string, endpoints []SearchEndpoint) []Descriptor {
	var out []Descriptor
	for _, se := range endpoints {
		d := Descriptor{Name: se.Name, Tier: TierDeepDive, Region: se.Region}
		if d.Region == "" {
			d.Region = "Global"
		}
		for _, kw := range keywords {
			kw = strings.TrimSpace(kw)
			if kw == "" {
				continue
			}
			d.Entrypoints = append(d.Entrypoints, ep(se.Prefix+url.QueryEscape(kw), se.Category))
		}
		if len(d.Entrypoints) > 0 {
			out = append(out, d)
		}
	}
	return out
}
