package naming

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DisplayTitle renders a slug-like identifier as a human-readable title:
// "sourdough-starter-basics" becomes "Sourdough Starter Basics". Used when a
// display name is needed and no authored title is available.
func DisplayTitle(id string) string {
	cleaned := strings.NewReplacer("-", " ", "_", " ").Replace(strings.TrimSpace(id))
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	if cleaned == "" {
		return "Untitled Recipe"
	}
	return cases.Title(language.Und).String(cleaned)
}
