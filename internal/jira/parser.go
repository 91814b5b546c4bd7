package jira

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	keyPattern = regexp.MustCompile(`([A-Z]+-\d+)`)

	// Section headers that introduce acceptance criteria, tried in order.
	acSectionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)acceptance\s+criteria:?`),
		regexp.MustCompile(`(?i)definition\s+of\s+done:?`),
		regexp.MustCompile(`(?i)success\s+criteria:?`),
		regexp.MustCompile(`(?i)requirements:?`),
	}

	// A criteria section ends at a blank line or a line starting with a
	// capital letter (the next prose section).
	acTerminator = regexp.MustCompile(`\n\n|\n[A-Z]`)

	bulletSplit = regexp.MustCompile(`\n\s*(?:\d+[.)]|[*\-+])\s*`)

	bulletItem   = regexp.MustCompile(`\n\s*[*\-+]\s+(.+)`)
	numberedItem = regexp.MustCompile(`\n\s*\d+[.)\s]+(.+)`)

	prURLPattern = regexp.MustCompile(`https://github\.com/[\w\-.]+/[\w\-.]+/pull/\d+`)
)

// ExtractKey pulls a ticket key (PROJECT-123 form) out of a key or browse URL.
func ExtractKey(keyOrURL string) (string, error) {
	if m := keyPattern.FindString(keyOrURL); m != "" {
		return m, nil
	}
	return "", fmt.Errorf("could not extract ticket key from: %s", keyOrURL)
}

// ParseDescription splits a raw ticket description into the problem statement
// and the list of acceptance criteria.
//
// An explicit criteria section (e.g. "Acceptance Criteria:") is preferred;
// its bullet or numbered items become the criteria and the text before it
// becomes the problem statement. Without one, any bullet or numbered list of
// at least two items anywhere in the description is taken as the criteria.
func ParseDescription(description string) (string, []string) {
	if description == "" {
		return "No description provided", nil
	}

	problem := strings.TrimSpace(description)
	var criteria []string

	for _, re := range acSectionPatterns {
		loc := re.FindStringIndex(description)
		if loc == nil {
			continue
		}

		rest := strings.TrimLeft(description[loc[1]:], " \t\n\r")
		end := len(rest)
		if m := acTerminator.FindStringIndex(rest); m != nil {
			end = m[0]
		}
		section := strings.TrimSpace(rest[:end])

		// Prefix a newline so a section starting with a bullet marker
		// splits the same as the ones after it.
		for _, item := range bulletSplit.Split("\n"+section, -1) {
			if item = strings.TrimSpace(item); item != "" {
				criteria = append(criteria, item)
			}
		}
		problem = strings.TrimSpace(description[:loc[0]])
		break
	}

	// No explicit section: a list of two or more items anywhere counts.
	if len(criteria) == 0 {
		for _, re := range []*regexp.Regexp{bulletItem, numberedItem} {
			matches := re.FindAllStringSubmatch(description, -1)
			if len(matches) >= 2 {
				for _, m := range matches {
					criteria = append(criteria, strings.TrimSpace(m[1]))
				}
				break
			}
		}
	}

	return problem, criteria
}

// ExtractPRURLs collects GitHub pull request URLs from the given texts,
// deduplicated in first-seen order.
func ExtractPRURLs(texts ...string) []string {
	seen := make(map[string]bool)
	var urls []string
	for _, text := range texts {
		for _, u := range prURLPattern.FindAllString(text, -1) {
			if !seen[u] {
				seen[u] = true
				urls = append(urls, u)
			}
		}
	}
	return urls
}
