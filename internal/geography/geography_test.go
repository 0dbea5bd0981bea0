package geography

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract_GlobalBrand(t *testing.T) {
	assert.Equal(t, Global, Extract("Microsoft", "https://microsoft.com", ""))
	assert.Equal(t, Global, Extract("Coca-Cola Company", "", ""))
}

func TestExtract_GlobalKeyword(t *testing.T) {
	assert.Equal(t, Global, Extract("Acme Logistics", "https://acme.io", "We ship worldwide to 120 countries"))
	assert.Equal(t, Global, Extract("Zenith Corp", "", "listed on NASDAQ since 2019"))
}

func TestExtract_RegionScoring(t *testing.T) {
	tests := []struct {
		name    string
		biz     string
		url     string
		content string
		want    string
	}{
		{"us_city_and_suffix", "Acme Inc", "", "Austin TX office", US},
		{"uk_signals", "Thames Consulting Ltd", "https://thames.co.uk", "London office", UK},
		{"canada", "Maple Works", "https://maple.ca", "Serving Toronto and Vancouver", Canada},
		{"australia", "Southern Cross Pty", "https://southcross.com.au", "Sydney", Australia},
		{"india", "Lotus Systems Pvt", "https://lotus.in", "Offices in Mumbai and Chennai", India},
		{"no_signal_defaults_us", "Foo", "", "", US},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extract(tt.biz, tt.url, tt.content))
		})
	}
}

func TestExtract_BrandRequiresWholeToken(t *testing.T) {
	tests := []struct {
		name    string
		biz     string
		content string
	}{
		{"meta_inside_metadata", "Austin Metadata Consulting Inc", "We are a Texas LLC based in Austin"},
		{"visa_inside_advisable", "Acme Plumbing Inc", "It is advisable to book early. Chicago area."},
		{"cisco_inside_francisco", "Golden Gate Bakery Inc", "A San Francisco favorite since 1985"},
		{"intel_inside_intelligence", "Decision Intelligence Partners Inc", "Based in Denver"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.biz, "", tt.content)
			assert.NotEqual(t, Global, got)
			assert.Equal(t, US, got)
		})
	}

	// Whole-token brand names still short-circuit to Global.
	assert.Equal(t, Global, Extract("Meta", "https://meta.com", ""))
	assert.Equal(t, Global, Extract("Visa Inc", "", "payments network"))
}

func TestExtract_DomainSuffixAnchoredToURL(t *testing.T) {
	// ".info" must not score an ".in" hit, and suffix keywords in page
	// text alone carry no weight.
	assert.Equal(t, US, Extract("Acme Inc", "https://example.info", "Chicago office"))
	assert.Equal(t, US, Extract("Acme Inc", "https://acme.catering", "Austin office"))
	assert.Equal(t, US, Extract("Acme Inc", "", "see our partner site example.in for details"))

	// Real host suffixes still score, path and port ignored.
	assert.Equal(t, India, Extract("Lotus Systems", "https://lotus.in/about", "Mumbai"))
	assert.Equal(t, Canada, Extract("Maple Works", "https://maple.ca:8080/home", "Toronto"))
}

func TestExtract_TieGoesToFirstDeclaredRegion(t *testing.T) {
	// One hit each for US (" inc") and UK ("london"); US is declared first.
	got := Extract("Foo Inc", "", "london")
	assert.Equal(t, US, got)
}

func TestExtract_Deterministic(t *testing.T) {
	for i := 0; i < 10; i++ {
		assert.Equal(t, Extract("Acme Inc", "https://acme.com", "Chicago"),
			Extract("Acme Inc", "https://acme.com", "Chicago"))
	}
}
