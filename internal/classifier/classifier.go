// Package classifier maps free business text to a fixed taxonomy:
// industry, market, geography, category, and domain.
//
// Two deterministic strategies are provided. The cascade strategy runs an
// ordered list of specialized matchers and stops at the first hit; the
// scored strategy picks the industry with the most keyword hits. Both fall
// through to the generic Business Services bucket, so classification is
// total over arbitrary text.
package classifier

import (
	"strings"

	"github.com/sells-group/geo-analyzer/internal/geography"
	"github.com/sells-group/geo-analyzer/internal/model"
)

// Default taxonomy bucket for text with no recognizable signal.
const (
	DefaultIndustry = "Business Services"
	DefaultMarket   = "SMB"
	DefaultCategory = "Professional Services"
	DefaultDomain   = "Professional Services"
)

// Classifier assigns a Classification to a business.
type Classifier interface {
	Classify(businessName, websiteURL, content string) model.Classification
}

// RuleBased is the deterministic classifier: cascade first, scored fallback.
type RuleBased struct{}

// NewRuleBased creates the deterministic rule-based classifier.
func NewRuleBased() *RuleBased {
	return &RuleBased{}
}

// Classify runs the matcher cascade over the concatenated lowercase text.
// The first matcher to return a classification wins; otherwise the scored
// keyword fallback decides. Never fails: empty or malformed text lands in
// the default bucket.
func (r *RuleBased) Classify(businessName, websiteURL, content string) model.Classification {
	text := strings.ToLower(businessName + " " + websiteURL + " " + content)
	geo := geography.Extract(businessName, websiteURL, content)

	for _, m := range cascade {
		if c := m.match(text); c != nil {
			c.Geography = geo
			return *c
		}
	}

	c := classifyScored(text)
	c.Geography = geo
	return c
}

// matcher is one step in the cascade: a named predicate that either
// returns a full classification or nil for no match.
type matcher struct {
	name  string
	match func(text string) *model.Classification
}

// cascade is evaluated in declaration order.
var cascade = []matcher{
	{name: "named_brand", match: matchNamedBrand},
	{name: "conglomerate", match: matchConglomerate},
	{name: "beverage", match: matchBeverage},
	{name: "cdn", match: matchCDN},
	{name: "cybersecurity", match: matchCybersecurity},
}

// brandEntry binds a brand trigger substring to its classification.
type brandEntry struct {
	trigger string
	class   model.Classification
}

// namedBrands is checked in order; earlier entries shadow later ones.
var namedBrands = []brandEntry{
	{"coca-cola", model.Classification{Industry: "Food & Beverage", Market: "Consumer", Category: "Beverages", Domain: "Soft Drinks"}},
	{"coca cola", model.Classification{Industry: "Food & Beverage", Market: "Consumer", Category: "Beverages", Domain: "Soft Drinks"}},
	{"pepsi", model.Classification{Industry: "Food & Beverage", Market: "Consumer", Category: "Beverages", Domain: "Soft Drinks"}},
	{"starbucks", model.Classification{Industry: "Food & Beverage", Market: "Consumer", Category: "Beverages", Domain: "Coffee"}},
	{"cloudflare", model.Classification{Industry: "Technology", Market: "Enterprise", Category: "Internet Infrastructure", Domain: "CDN & Web Security"}},
	{"akamai", model.Classification{Industry: "Technology", Market: "Enterprise", Category: "Internet Infrastructure", Domain: "CDN & Web Security"}},
	{"fastly", model.Classification{Industry: "Technology", Market: "Enterprise", Category: "Internet Infrastructure", Domain: "CDN & Web Security"}},
	{"crowdstrike", model.Classification{Industry: "Technology", Market: "Enterprise", Category: "Security Software", Domain: "Cybersecurity"}},
	{"palo alto networks", model.Classification{Industry: "Technology", Market: "Enterprise", Category: "Security Software", Domain: "Cybersecurity"}},
	{"fortinet", model.Classification{Industry: "Technology", Market: "Enterprise", Category: "Security Software", Domain: "Cybersecurity"}},
	{"microsoft", model.Classification{Industry: "Technology", Market: "Enterprise", Category: "Software & Cloud", Domain: "Cloud Platforms"}},
	{"google", model.Classification{Industry: "Technology", Market: "Consumer", Category: "Software & Cloud", Domain: "Search & Cloud"}},
	{"apple", model.Classification{Industry: "Technology", Market: "Consumer", Category: "Consumer Electronics", Domain: "Devices & Services"}},
	{"amazon", model.Classification{Industry: "Technology", Market: "Consumer", Category: "E-commerce & Cloud", Domain: "E-commerce"}},
	{"salesforce", model.Classification{Industry: "Technology", Market: "Enterprise", Category: "Software & Cloud", Domain: "CRM Software"}},
	{"berkshire hathaway", model.Classification{Industry: "Conglomerate", Market: "Diversified", Category: "Holding Company", Domain: "Diversified"}},
	{"general electric", model.Classification{Industry: "Conglomerate", Market: "Diversified", Category: "Industrial", Domain: "Diversified"}},
	{"siemens", model.Classification{Industry: "Conglomerate", Market: "Diversified", Category: "Industrial", Domain: "Diversified"}},
	{"honeywell", model.Classification{Industry: "Conglomerate", Market: "Diversified", Category: "Industrial", Domain: "Diversified"}},
	{"tata", model.Classification{Industry: "Conglomerate", Market: "Diversified", Category: "Holding Company", Domain: "Diversified"}},
}

func matchNamedBrand(text string) *model.Classification {
	for _, b := range namedBrands {
		if strings.Contains(text, b.trigger) {
			c := b.class
			return &c
		}
	}
	return nil
}

var conglomerateKeywords = []string{
	"conglomerate", "holding company", "diversified businesses",
	"diversified portfolio", "subsidiaries across", "multi-industry",
}

func matchConglomerate(text string) *model.Classification {
	for _, kw := range conglomerateKeywords {
		if strings.Contains(text, kw) {
			return &model.Classification{
				Industry: "Conglomerate",
				Market:   "Diversified",
				Category: "Holding Company",
				Domain:   "Diversified",
			}
		}
	}
	return nil
}

var beverageKeywords = []string{
	"beverage", "soft drink", "soda", "brewery", "brewing",
	"coffee roaster", "energy drink", "bottling",
}

func matchBeverage(text string) *model.Classification {
	for _, kw := range beverageKeywords {
		if strings.Contains(text, kw) {
			return &model.Classification{
				Industry: "Food & Beverage",
				Market:   "Consumer",
				Category: "Beverages",
				Domain:   "Beverages",
			}
		}
	}
	return nil
}

var cdnKeywords = []string{
	"content delivery network", "cdn", "edge network",
	"ddos protection", "web application firewall",
}

func matchCDN(text string) *model.Classification {
	for _, kw := range cdnKeywords {
		if strings.Contains(text, kw) {
			return &model.Classification{
				Industry: "Technology",
				Market:   "Enterprise",
				Category: "Internet Infrastructure",
				Domain:   "CDN & Web Security",
			}
		}
	}
	return nil
}

var cyberKeywords = []string{
	"cybersecurity", "cyber security", "threat detection",
	"endpoint protection", "zero trust", "penetration testing",
	"security operations",
}

func matchCybersecurity(text string) *model.Classification {
	for _, kw := range cyberKeywords {
		if strings.Contains(text, kw) {
			return &model.Classification{
				Industry: "Technology",
				Market:   "Enterprise",
				Category: "Security Software",
				Domain:   "Cybersecurity",
			}
		}
	}
	return nil
}
