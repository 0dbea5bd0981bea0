package classifier

import (
	"strings"

	"github.com/sells-group/geo-analyzer/internal/model"
)

// industryEntry scores one candidate industry and carries the taxonomy
// derived when it wins. Slice order is the tie-break: the first industry
// with the highest keyword count wins.
type industryEntry struct {
	industry string
	keywords []string
	market   string
	category string
	domain   string
}

var industryTable = []industryEntry{
	{
		industry: "Technology",
		keywords: []string{
			"software", "saas", "cloud", "platform", "api", "developer",
			"app", "digital", "data", "analytics", "artificial intelligence",
			" ai ", "machine learning", "automation", "tech",
		},
		market: "Enterprise", category: "Software", domain: "Software & Services",
	},
	{
		industry: "Food & Beverage",
		keywords: []string{
			"restaurant", "food", "catering", "bakery", "cafe", "kitchen",
			"menu", "dining", "chef", "grocery", "snack",
		},
		market: "Consumer", category: "Food Services", domain: "Food & Dining",
	},
	{
		industry: "Healthcare",
		keywords: []string{
			"health", "medical", "clinic", "hospital", "patient", "dental",
			"pharmacy", "wellness", "therapy", "care",
		},
		market: "Consumer", category: "Healthcare Services", domain: "Healthcare",
	},
	{
		industry: "Finance",
		keywords: []string{
			"bank", "finance", "financial", "investment", "insurance",
			"loan", "mortgage", "wealth", "accounting", "tax", "payments",
		},
		market: "Consumer", category: "Financial Services", domain: "Finance",
	},
	{
		industry: "Retail & E-commerce",
		keywords: []string{
			"shop", "store", "retail", "ecommerce", "e-commerce", "boutique",
			"marketplace", "fashion", "apparel", "merchandise",
		},
		market: "Consumer", category: "Retail", domain: "Retail",
	},
	{
		industry: "Manufacturing",
		keywords: []string{
			"manufacturing", "factory", "industrial", "machinery",
			"fabrication", "assembly", "production", "supplier",
		},
		market: "Enterprise", category: "Industrial", domain: "Manufacturing",
	},
	{
		industry: "Media & Entertainment",
		keywords: []string{
			"media", "entertainment", "studio", "streaming", "gaming",
			"music", "film", "publishing", "content creation",
		},
		market: "Consumer", category: "Media", domain: "Media & Entertainment",
	},
	{
		industry: "Real Estate",
		keywords: []string{
			"real estate", "property", "realtor", "housing", "apartments",
			"commercial property", "brokerage",
		},
		market: "Consumer", category: "Real Estate Services", domain: "Real Estate",
	},
	{
		industry: "Education",
		keywords: []string{
			"education", "school", "university", "training", "courses",
			"learning", "tutoring", "curriculum",
		},
		market: "Consumer", category: "Education Services", domain: "Education",
	},
	{
		industry: "Travel & Hospitality",
		keywords: []string{
			"travel", "hotel", "tourism", "vacation", "booking", "resort",
			"airline", "hospitality",
		},
		market: "Consumer", category: "Hospitality", domain: "Travel",
	},
}

// Secondary market signals override the per-industry default market.
var (
	enterpriseSignals = []string{"enterprise", "b2b", "corporations", "fortune 500 clients"}
	consumerSignals   = []string{"consumer", "b2c", "shoppers", "families", "households"}
)

// classifyScored picks the industry with the most keyword hits over the
// text, then derives market, category, and domain from it. All-zero scores
// land in the default Business Services bucket.
func classifyScored(text string) model.Classification {
	var best *industryEntry
	bestScore := 0

	for i := range industryTable {
		entry := &industryTable[i]
		score := 0
		for _, kw := range entry.keywords {
			if strings.Contains(text, kw) {
				score++
			}
		}
		if score > bestScore {
			best = entry
			bestScore = score
		}
	}

	if best == nil {
		return model.Classification{
			Industry: DefaultIndustry,
			Market:   DefaultMarket,
			Category: DefaultCategory,
			Domain:   DefaultDomain,
		}
	}

	c := model.Classification{
		Industry: best.industry,
		Market:   best.market,
		Category: best.category,
		Domain:   best.domain,
	}

	// Secondary market signal beats the industry default.
	for _, kw := range enterpriseSignals {
		if strings.Contains(text, kw) {
			c.Market = "Enterprise"
			return c
		}
	}
	for _, kw := range consumerSignals {
		if strings.Contains(text, kw) {
			c.Market = "Consumer"
			return c
		}
	}

	return c
}
