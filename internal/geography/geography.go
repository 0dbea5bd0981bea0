// Package geography infers a coarse region tag from business text signals.
package geography

import (
	"strings"
	"unicode"
)

// Region tags returned by Extract.
const (
	Global    = "Global"
	US        = "US"
	UK        = "UK"
	Europe    = "Europe"
	Canada    = "Canada"
	Australia = "Australia"
	India     = "India"
)

// DefaultRegion is returned when no region signal wins.
const DefaultRegion = US

// globalBrands are names whose presence alone marks a business as global,
// regardless of any regional keywords on the page.
var globalBrands = []string{
	"microsoft", "google", "apple", "amazon", "meta", "facebook",
	"coca-cola", "pepsi", "nestle", "unilever", "toyota", "samsung",
	"ibm", "oracle", "salesforce", "cloudflare", "akamai", "netflix",
	"mcdonald's", "mcdonalds", "starbucks", "nike", "adidas", "visa",
	"mastercard", "siemens", "sony", "intel", "cisco", "adobe",
}

// globalKeywords are strong signals of worldwide operation.
var globalKeywords = []string{
	"international", "worldwide", "global", "multinational",
	"fortune 500", "nasdaq", "nyse", "publicly traded", "s&p 500",
}

// regionKeywords scores region membership by keyword hits. Slice order is
// the tie-break: the first region with the highest count wins.
var regionKeywords = []struct {
	region   string
	keywords []string
}{
	{US, []string{
		".com", "usa", "united states", "america", " llc", " inc",
		"new york", "california", "texas", "chicago", "austin",
		"san francisco", "seattle", "boston", "miami", "denver",
	}},
	{UK, []string{
		".co.uk", ".uk", "united kingdom", "britain", " ltd",
		"london", "manchester", "birmingham", "edinburgh", "glasgow",
	}},
	{Europe, []string{
		".de", ".fr", ".es", ".it", ".nl", " gmbh", " sarl",
		"europe", "berlin", "paris", "madrid", "amsterdam", "munich",
	}},
	{Canada, []string{
		".ca", "canada", "toronto", "vancouver", "montreal", "ottawa",
	}},
	{Australia, []string{
		".com.au", ".au", "australia", " pty", "sydney", "melbourne",
		"brisbane", "perth",
	}},
	{India, []string{
		".in", "india", " pvt", "mumbai", "delhi", "bangalore",
		"bengaluru", "hyderabad", "chennai",
	}},
}

// Extract infers a region tag from the business name, website URL, and
// optional page content. Deterministic: same input text, same tag.
func Extract(businessName, websiteURL, content string) string {
	text := strings.ToLower(businessName + " " + websiteURL + " " + content)
	lowerURL := strings.ToLower(websiteURL)
	tokens := tokenSet(text)

	for _, brand := range globalBrands {
		if matchBrand(text, tokens, brand) {
			return Global
		}
	}

	for _, kw := range globalKeywords {
		if strings.Contains(text, kw) {
			return Global
		}
	}

	best := ""
	bestScore := 0
	for _, entry := range regionKeywords {
		score := 0
		for _, kw := range entry.keywords {
			if matchRegionKeyword(text, lowerURL, kw) {
				score++
			}
		}
		if score > bestScore {
			best = entry.region
			bestScore = score
		}
	}

	if best == "" {
		return DefaultRegion
	}
	return best
}

// matchBrand matches single-word brands as whole tokens; "visa" must not
// fire inside "advisable", nor "meta" inside "metadata". Multi-word and
// punctuated brand names keep plain containment.
func matchBrand(text string, tokens map[string]bool, brand string) bool {
	if strings.ContainsAny(brand, " -'&") {
		return strings.Contains(text, brand)
	}
	return tokens[brand]
}

// matchRegionKeyword anchors domain-suffix keywords to the URL host so
// ".in" cannot score inside ".info" or page text. Other keywords use
// containment over the full text.
func matchRegionKeyword(text, lowerURL, kw string) bool {
	if strings.HasPrefix(kw, ".") {
		return hasDomainSuffix(lowerURL, kw)
	}
	return strings.Contains(text, kw)
}

func hasDomainSuffix(lowerURL, suffix string) bool {
	if lowerURL == "" {
		return false
	}
	host := lowerURL
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	if i := strings.IndexAny(host, "/:?#"); i >= 0 {
		host = host[:i]
	}
	return strings.HasSuffix(host, suffix)
}

func tokenSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		set[tok] = true
	}
	return set
}
