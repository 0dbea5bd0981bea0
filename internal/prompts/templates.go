// Package prompts builds the fixed set of 7 probe questions used to test a
// business's visibility in LLM answers.
package prompts

import (
	"fmt"
	"strings"

	"github.com/sells-group/geo-analyzer/internal/model"
)

// PromptCount is the fixed number of probe prompts per analysis.
const PromptCount = 7

// templateFunc renders 7 typed prompts from a classification.
type templateFunc func(c model.Classification) []model.TestPrompt

// templateEntry keys a template by domain or industry label (lowercase).
type templateEntry struct {
	key string
	fn  templateFunc
}

// domainTemplates is consulted first, keyed by Classification.Domain.
var domainTemplates = []templateEntry{
	{"soft drinks", beverageTemplates},
	{"beverages", beverageTemplates},
	{"coffee", beverageTemplates},
	{"diversified", conglomerateTemplates},
	{"cybersecurity", cybersecurityTemplates},
	{"cdn & web security", cdnTemplates},
}

// industryTemplates is the secondary key, by Classification.Industry.
var industryTemplates = []templateEntry{
	{"food & beverage", beverageTemplates},
	{"conglomerate", conglomerateTemplates},
	{"technology", technologyTemplates},
}

// Generate renders the fallback prompt set for a classification. The
// template is selected by domain, then industry, then the generic set.
// Always returns exactly PromptCount prompts.
func Generate(c model.Classification) []model.TestPrompt {
	fn := genericTemplates

	domain := strings.ToLower(c.Domain)
	industry := strings.ToLower(c.Industry)

	matched := false
	for _, e := range domainTemplates {
		if e.key == domain {
			fn = e.fn
			matched = true
			break
		}
	}
	if !matched {
		for _, e := range industryTemplates {
			if e.key == industry {
				fn = e.fn
				break
			}
		}
	}

	return normalize(fn(c))
}

// normalize enforces the fixed prompt count, padding with generic entries
// or truncating as needed.
func normalize(prompts []model.TestPrompt) []model.TestPrompt {
	if len(prompts) > PromptCount {
		return prompts[:PromptCount]
	}
	for len(prompts) < PromptCount {
		prompts = append(prompts, model.TestPrompt{
			Type:   "general",
			Prompt: "What companies should I know about in this space?",
		})
	}
	return prompts
}

// geoPhrase renders the regional qualifier. Global classifications read
// "worldwide"; everything else reads "in {region}".
func geoPhrase(c model.Classification) string {
	if c.Geography == "Global" {
		return "worldwide"
	}
	return "in " + c.Geography
}

// geoAdverb is the alternate phrasing used to vary question style.
func geoAdverb(c model.Classification) string {
	if c.Geography == "Global" {
		return "globally"
	}
	return "in " + c.Geography
}

func beverageTemplates(c model.Classification) []model.TestPrompt {
	return []model.TestPrompt{
		{Type: "best_of", Prompt: fmt.Sprintf("What are the most popular %s brands %s?", strings.ToLower(c.Category), geoPhrase(c))},
		{Type: "recommendation", Prompt: fmt.Sprintf("Which drink brands would you recommend for a summer event %s?", geoPhrase(c))},
		{Type: "comparison", Prompt: "How do the leading soft drink companies compare on taste and availability?"},
		{Type: "market_leader", Prompt: fmt.Sprintf("Who dominates the %s market %s?", strings.ToLower(c.Category), geoAdverb(c))},
		{Type: "history", Prompt: "Which beverage companies have the longest brand heritage?"},
		{Type: "trends", Prompt: fmt.Sprintf("What beverage trends are shaping the %s market right now?", strings.ToLower(c.Market))},
		{Type: "buying_guide", Prompt: fmt.Sprintf("Where can I buy well-known %s %s?", strings.ToLower(c.Category), geoAdverb(c))},
	}
}

func conglomerateTemplates(c model.Classification) []model.TestPrompt {
	return []model.TestPrompt{
		{Type: "best_of", Prompt: fmt.Sprintf("What are the largest diversified conglomerates %s?", geoPhrase(c))},
		{Type: "investment", Prompt: "Which holding companies are considered safe long-term investments?"},
		{Type: "comparison", Prompt: fmt.Sprintf("How do the major industrial conglomerates operating %s compare?", geoAdverb(c))},
		{Type: "market_leader", Prompt: "Which multi-industry groups lead their sectors?"},
		{Type: "subsidiaries", Prompt: "Which conglomerates own the most recognizable consumer brands?"},
		{Type: "history", Prompt: "What are the oldest still-operating holding companies?"},
		{Type: "trends", Prompt: fmt.Sprintf("Are conglomerates still a good business model %s?", geoAdverb(c))},
	}
}

func cybersecurityTemplates(c model.Classification) []model.TestPrompt {
	return []model.TestPrompt{
		{Type: "best_of", Prompt: fmt.Sprintf("What are the best cybersecurity vendors for %s customers %s?", strings.ToLower(c.Market), geoPhrase(c))},
		{Type: "recommendation", Prompt: "Which security platforms would you recommend for endpoint protection?"},
		{Type: "comparison", Prompt: "How do the leading zero trust security providers compare?"},
		{Type: "market_leader", Prompt: fmt.Sprintf("Who leads the %s market %s?", strings.ToLower(c.Category), geoAdverb(c))},
		{Type: "use_case", Prompt: "What tools should a mid-size company use to detect threats?"},
		{Type: "trends", Prompt: "Which cybersecurity companies are innovating fastest in AI-driven defense?"},
		{Type: "buying_guide", Prompt: fmt.Sprintf("How should I evaluate security software vendors %s?", geoAdverb(c))},
	}
}

func cdnTemplates(c model.Classification) []model.TestPrompt {
	return []model.TestPrompt{
		{Type: "best_of", Prompt: fmt.Sprintf("What are the best CDN providers %s?", geoPhrase(c))},
		{Type: "recommendation", Prompt: "Which services would you recommend to speed up a global website?"},
		{Type: "comparison", Prompt: "How do the major content delivery networks compare on performance?"},
		{Type: "market_leader", Prompt: fmt.Sprintf("Who leads the web infrastructure market %s?", geoAdverb(c))},
		{Type: "use_case", Prompt: "What should a high-traffic site use for DDoS protection?"},
		{Type: "trends", Prompt: "Which edge computing platforms are growing fastest?"},
		{Type: "buying_guide", Prompt: "How do I choose between CDN and web security providers?"},
	}
}

func technologyTemplates(c model.Classification) []model.TestPrompt {
	return []model.TestPrompt{
		{Type: "best_of", Prompt: fmt.Sprintf("What are the best %s companies %s?", strings.ToLower(c.Category), geoPhrase(c))},
		{Type: "recommendation", Prompt: fmt.Sprintf("Which %s tools would you recommend for a growing business?", strings.ToLower(c.Domain))},
		{Type: "comparison", Prompt: fmt.Sprintf("How do the leading %s providers compare?", strings.ToLower(c.Category))},
		{Type: "market_leader", Prompt: fmt.Sprintf("Who are the market leaders in %s %s?", strings.ToLower(c.Domain), geoAdverb(c))},
		{Type: "use_case", Prompt: fmt.Sprintf("What should a %s team look for in %s software?", strings.ToLower(c.Market), strings.ToLower(c.Category))},
		{Type: "trends", Prompt: fmt.Sprintf("What trends are shaping the %s industry right now?", strings.ToLower(c.Domain))},
		{Type: "buying_guide", Prompt: fmt.Sprintf("How do I evaluate %s vendors %s?", strings.ToLower(c.Category), geoAdverb(c))},
	}
}

func genericTemplates(c model.Classification) []model.TestPrompt {
	return []model.TestPrompt{
		{Type: "best_of", Prompt: fmt.Sprintf("What are the best %s companies %s?", strings.ToLower(c.Industry), geoPhrase(c))},
		{Type: "recommendation", Prompt: fmt.Sprintf("Can you recommend reliable %s providers %s?", strings.ToLower(c.Category), geoPhrase(c))},
		{Type: "comparison", Prompt: fmt.Sprintf("How do the top %s businesses compare?", strings.ToLower(c.Category))},
		{Type: "market_leader", Prompt: fmt.Sprintf("Who are the leaders in the %s space %s?", strings.ToLower(c.Domain), geoAdverb(c))},
		{Type: "use_case", Prompt: fmt.Sprintf("I need help with %s. Which companies should I consider?", strings.ToLower(c.Domain))},
		{Type: "trends", Prompt: fmt.Sprintf("What is changing in the %s industry for %s customers?", strings.ToLower(c.Industry), strings.ToLower(c.Market))},
		{Type: "buying_guide", Prompt: fmt.Sprintf("How should I choose a %s provider %s?", strings.ToLower(c.Category), geoAdverb(c))},
	}
}
