// Package insight derives qualitative strengths, gaps, and recommendations
// from analysis outputs.
package insight

import (
	"fmt"

	"github.com/sells-group/geo-analyzer/internal/model"
)

// MaxRecommendations caps the recommendation list.
const MaxRecommendations = 8

// Insights is the qualitative output of an analysis.
type Insights struct {
	Strengths       []string `json:"strengths"`
	Gaps            []string `json:"gaps"`
	Recommendations []string `json:"recommendations"`
}

// Generate derives insights from the classification, probe outcomes, the
// GEO score, and structured-data presence. Both Strengths and Gaps are
// guaranteed non-empty.
func Generate(class model.Classification, prompts []model.TestPrompt, geoScore float64, hasStructuredData bool) Insights {
	rate := model.MentionRate(prompts)
	mentions := model.CountMentions(prompts)

	var out Insights

	// Mention-rate tier.
	switch {
	case rate > 0.6:
		out.Strengths = append(out.Strengths,
			fmt.Sprintf("Strong AI visibility: mentioned in %d of %d test questions about the %s space.", mentions, len(prompts), class.Domain))
	case rate > 0.3:
		out.Strengths = append(out.Strengths,
			fmt.Sprintf("Moderate AI visibility: mentioned in %d of %d test questions.", mentions, len(prompts)))
		out.Gaps = append(out.Gaps,
			"AI assistants mention the business inconsistently across common industry questions.")
	default:
		out.Gaps = append(out.Gaps,
			fmt.Sprintf("Low AI visibility: mentioned in only %d of %d test questions about the %s space.", mentions, len(prompts), class.Domain))
	}

	// Score tier.
	switch {
	case geoScore >= 8:
		out.Strengths = append(out.Strengths,
			fmt.Sprintf("Excellent overall GEO score (%.1f/10) for the %s industry.", geoScore, class.Industry))
	case geoScore >= 6:
		out.Strengths = append(out.Strengths,
			fmt.Sprintf("Good overall GEO score (%.1f/10) with room to grow.", geoScore))
	default:
		out.Gaps = append(out.Gaps,
			fmt.Sprintf("GEO score of %.1f/10 indicates the business needs stronger AI-facing presence.", geoScore))
	}

	// Structured data contributes exactly one sentence to one of the lists.
	if hasStructuredData {
		out.Strengths = append(out.Strengths,
			"Website carries structured data (schema.org markup), which helps AI systems understand the business.")
	} else {
		out.Gaps = append(out.Gaps,
			"Website lacks structured data markup, making it harder for AI systems to identify the business.")
	}

	// Industry branches.
	switch class.Industry {
	case "Technology":
		out.Recommendations = append(out.Recommendations,
			"Publish technical thought-leadership content; AI assistants draw heavily on in-depth technology articles.")
	case "Food & Beverage":
		out.Recommendations = append(out.Recommendations,
			"Ensure menus, locations, and product lines are described in text, not just images.")
	}

	// Geography branches.
	if class.Geography == "Global" {
		out.Strengths = append(out.Strengths,
			"Global footprint increases the chance of appearing in answers across regions.")
	} else {
		out.Recommendations = append(out.Recommendations,
			fmt.Sprintf("Strengthen local citations and directory listings %s to anchor regional AI answers.", inRegion(class.Geography)))
	}

	out.Recommendations = append(out.Recommendations, baseRecommendations(rate, hasStructuredData)...)

	// Non-empty guarantee for both lists.
	if len(out.Strengths) == 0 {
		out.Strengths = append(out.Strengths,
			"The business has an established online identity that AI analysis can build on.")
	}
	if len(out.Gaps) == 0 {
		out.Gaps = append(out.Gaps,
			"No significant visibility gaps detected; maintain the current content strategy.")
	}

	out.Recommendations = dedupeCap(out.Recommendations, MaxRecommendations)

	return out
}

// baseRecommendations is the threshold-driven recommendation set.
func baseRecommendations(rate float64, hasStructuredData bool) []string {
	var recs []string

	if rate <= 0.3 {
		recs = append(recs,
			"Get the business covered in comparison articles and industry roundups; these dominate AI training data.",
			"Publish authoritative FAQ-style content answering the questions customers actually ask.",
		)
	}
	if rate <= 0.6 {
		recs = append(recs,
			"Encourage reviews on high-authority platforms that AI systems cite.",
		)
	}
	if !hasStructuredData {
		recs = append(recs,
			"Add schema.org Organization and Product markup to the website.",
		)
	}

	recs = append(recs,
		"Keep business name, description, and offerings consistent across the web.",
	)

	return recs
}

func inRegion(geography string) string {
	if geography == "" {
		return "in your region"
	}
	return "in " + geography
}

// dedupeCap removes duplicates preserving order and caps the list length.
func dedupeCap(items []string, max int) []string {
	seen := make(map[string]bool, len(items))
	var out []string
	for _, s := range items {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
		if len(out) == max {
			break
		}
	}
	return out
}
