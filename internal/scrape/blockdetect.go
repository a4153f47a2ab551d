package scrape

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Phrases holds the case-insensitive indicator lists used to classify an
// attempt as blocked. Keeping these as data rather than control flow lets
// detection rules evolve without touching the retry loop.
type Phrases struct {
	// Errors match against transport-level error messages.
	Errors []string `yaml:"errors"`

	// Content match against received HTML bodies.
	Content []string `yaml:"content"`
}

// DefaultPhrases returns the built-in blocking indicators.
func DefaultPhrases() Phrases {
	return Phrases{
		Errors: []string{
			"forbidden",
			"captcha",
			"rate limit",
			"too many requests",
			"bot detection",
			"access denied",
			"blocked",
			"unusual traffic",
		},
		Content: []string{
			"captcha",
			"access denied",
			"verify you are a human",
			"robot check",
			"pardon our interruption",
			"enable javascript and cookies",
			"checking your browser",
			"unusual traffic from your computer network",
			"page not found",
			"this listing was ended",
		},
	}
}

// LoadPhrases reads indicator lists from a YAML file. Missing lists fall
// back to the defaults so a partial file only overrides what it names.
func LoadPhrases(path string) (Phrases, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Phrases{}, eris.Wrapf(err, "scrape: read phrase list %s", path)
	}

	var p Phrases
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Phrases{}, eris.Wrapf(err, "scrape: parse phrase list %s", path)
	}

	def := DefaultPhrases()
	if len(p.Errors) == 0 {
		p.Errors = def.Errors
	}
	if len(p.Content) == 0 {
		p.Content = def.Content
	}
	return p, nil
}

// MatchError reports whether a transport error message indicates blocking,
// returning the phrase that matched.
func (p Phrases) MatchError(msg string) (string, bool) {
	return match(msg, p.Errors)
}

// MatchContent reports whether a page body indicates a block or destination
// error, returning the phrase that matched.
func (p Phrases) MatchContent(body string) (string, bool) {
	return match(body, p.Content)
}

func match(text string, phrases []string) (string, bool) {
	lower := strings.ToLower(text)
	for _, phrase := range phrases {
		if phrase == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(phrase)) {
			return phrase, true
		}
	}
	return "", false
}
