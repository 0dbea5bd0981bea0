package scoring

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// MultiplierTable maps a taxonomy label to a benchmark multiplier.
// Unknown labels multiply by 1.0.
type MultiplierTable map[string]float64

func (t MultiplierTable) lookup(key string) float64 {
	if m, ok := t[key]; ok {
		return m
	}
	return 1.0
}

// BenchmarkTables holds the four independent multiplier tables.
type BenchmarkTables struct {
	Industry  MultiplierTable `yaml:"industry"`
	Market    MultiplierTable `yaml:"market"`
	Geography MultiplierTable `yaml:"geography"`
	Domain    MultiplierTable `yaml:"domain"`
}

// DefaultBenchmarkTables returns the built-in peer multipliers.
func DefaultBenchmarkTables() BenchmarkTables {
	return BenchmarkTables{
		Industry: MultiplierTable{
			"Technology":            1.15,
			"Food & Beverage":       1.10,
			"Conglomerate":          1.10,
			"Finance":               1.05,
			"Media & Entertainment": 1.05,
			"Healthcare":            1.00,
			"Retail & E-commerce":   0.98,
			"Manufacturing":         0.92,
			"Business Services":     0.90,
		},
		Market: MultiplierTable{
			"Enterprise":  1.08,
			"Consumer":    1.05,
			"Diversified": 1.05,
			"SMB":         0.92,
		},
		Geography: MultiplierTable{
			"Global": 1.12,
			"US":     1.02,
			"UK":     0.98,
			"Europe": 0.97,
		},
		Domain: MultiplierTable{
			"Cybersecurity":         1.10,
			"CDN & Web Security":    1.10,
			"Cloud Platforms":       1.08,
			"Soft Drinks":           1.06,
			"Diversified":           1.04,
			"Professional Services": 0.92,
		},
	}
}

// LoadBenchmarkTables reads multiplier overrides from a YAML file. Tables
// absent from the file keep their defaults.
func LoadBenchmarkTables(path string) (BenchmarkTables, error) {
	tables := DefaultBenchmarkTables()

	data, err := os.ReadFile(path)
	if err != nil {
		return tables, eris.Wrapf(err, "scoring: read benchmark overrides %s", path)
	}

	var wrapper struct {
		Benchmarks BenchmarkTables `yaml:"benchmarks"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return tables, eris.Wrap(err, "scoring: parse benchmark overrides")
	}

	if wrapper.Benchmarks.Industry != nil {
		tables.Industry = wrapper.Benchmarks.Industry
	}
	if wrapper.Benchmarks.Market != nil {
		tables.Market = wrapper.Benchmarks.Market
	}
	if wrapper.Benchmarks.Geography != nil {
		tables.Geography = wrapper.Benchmarks.Geography
	}
	if wrapper.Benchmarks.Domain != nil {
		tables.Domain = wrapper.Benchmarks.Domain
	}

	return tables, nil
}
