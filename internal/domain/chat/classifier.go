package chat

import (
	"regexp"
	"strings"
)

// deployKeywords mark a message as a deployment command when any of them
// appears as a substring. The bare "deploy" entry is last so the more specific
// phrasings read first, though matching is a plain any-of.
var deployKeywords = []string{
	"deploy this",
	"deploy html",
	"deploy it",
	"deploy this plis",
	"deploy file",
	"tolong deploy",
	"deploy please",
	"deploy",
}

// searchKeywords mark a message as a browse-the-web request. The list mixes
// Indonesian and English question openers.
var searchKeywords = []string{
	"cari di browser",
	"search in browser",
	"apa itu",
	"what is",
	"siapa",
	"who is",
	"bagaimana",
	"how to",
	"kenapa",
	"why",
}

// searchQueryPatterns strip the question opener from a search message. Order
// matters: the first matching pattern wins.
var searchQueryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)apa itu (.+)`),
	regexp.MustCompile(`(?i)what is (.+)`),
	regexp.MustCompile(`(?i)cari di browser (.+)`),
	regexp.MustCompile(`(?i)search (?:in browser )?(.+)`),
	regexp.MustCompile(`(?i)siapa (.+)`),
	regexp.MustCompile(`(?i)who is (.+)`),
}

// IsDeployCommand reports whether the message asks for a file deployment.
func IsDeployCommand(message string) bool {
	lower := strings.ToLower(message)
	for _, keyword := range deployKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// IsSearchCommand reports whether the message asks for a web search.
func IsSearchCommand(message string) bool {
	lower := strings.ToLower(message)
	for _, keyword := range searchKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// ExtractSearchQuery pulls the subject out of a search message. When no
// pattern matches the whole trimmed message is the query.
func ExtractSearchQuery(message string) string {
	for _, pattern := range searchQueryPatterns {
		if match := pattern.FindStringSubmatch(message); match != nil {
			return strings.TrimSpace(match[1])
		}
	}
	return strings.TrimSpace(message)
}
