// Package facets derives presentation attributes (technology, category, badge color, relative time)
// from server names, descriptions and timestamps.
package facets

import (
	"strings"
)

// Other is the label used when no rule matches.
const Other = "Other"

// Rule pairs a label with the predicate that selects it.
// Match receives text that has already been lowercased.
type Rule struct {
	Label string
	Match func(text string) bool
}

// containsAny returns a predicate that matches when text contains any of the needles.
func containsAny(needles ...string) func(string) bool {
	return func(text string) bool {
		for _, n := range needles {
			if strings.Contains(text, n) {
				return true
			}
		}
		return false
	}
}

// TechnologyRules is evaluated in order against the lowercased server name; the first match wins.
var TechnologyRules = []Rule{
	{Label: "Python", Match: containsAny("python", "py-")},
	{Label: "TypeScript", Match: containsAny("typescript", "ts-")},
	{Label: "JavaScript", Match: containsAny("javascript", "js-")},
	{Label: "Go", Match: containsAny("go-", "golang")},
	{Label: "Database", Match: containsAny("database", "db-", "sql")},
	{Label: "AI/ML", Match: containsAny("ai", "ml", "llm")},
	{Label: "Web", Match: containsAny("web", "http", "api")},
}

// CategoryRules is evaluated in order against the lowercased "name description"; the first match wins.
var CategoryRules = []Rule{
	{Label: "Database", Match: containsAny("database", "sql", "mongodb", "postgres")},
	{Label: "Web API", Match: containsAny("web", "http", "api", "rest")},
	{Label: "AI/ML", Match: containsAny("ai", "ml", "llm", "openai")},
	{Label: "File System", Match: containsAny("file", "filesystem", "storage")},
	{Label: "Developer Tools", Match: containsAny("dev", "development", "tool")},
	{Label: "Integration", Match: containsAny("integration", "service", "platform")},
}

// technologyColors maps technology labels to styling tokens.
var technologyColors = map[string]string{
	"Python":     "bg-python text-white",
	"TypeScript": "bg-typescript text-white",
	"JavaScript": "bg-javascript text-black",
	"Go":         "bg-go text-white",
	"Database":   "bg-database text-white",
	"AI/ML":      "bg-ai-ml text-white",
	"Web":        "bg-web text-white",
	Other:        "bg-secondary text-secondary-foreground",
}

func firstMatch(rules []Rule, text string) string {
	text = strings.ToLower(text)
	for _, r := range rules {
		if r.Match(text) {
			return r.Label
		}
	}
	return Other
}

// ExtractTechnology returns the technology label for a server name.
func ExtractTechnology(name string) string {
	return firstMatch(TechnologyRules, name)
}

// ExtractCategory returns the category label for a server name and description.
func ExtractCategory(name string, description string) string {
	return firstMatch(CategoryRules, name+" "+description)
}

// TechnologyColor returns the styling token for a technology label.
// Unknown labels get the token for Other.
func TechnologyColor(technology string) string {
	if c, ok := technologyColors[technology]; ok {
		return c
	}
	return technologyColors[Other]
}

func labels(rules []Rule) []string {
	out := make([]string, 0, len(rules)+1)
	for _, r := range rules {
		out = append(out, r.Label)
	}
	return append(out, Other)
}

// Technologies lists every technology label in rule order, ending with Other.
func Technologies() []string {
	return labels(TechnologyRules)
}

// Categories lists every category label in rule order, ending with Other.
func Categories() []string {
	return labels(CategoryRules)
}
