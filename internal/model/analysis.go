package model

import (
	"strings"
	"time"
)

// Classification is the taxonomy bucket assigned to a business. It is
// produced once per analysis and immutable afterward; every downstream
// stage consumes it read-only.
type Classification struct {
	Industry  string `json:"industry"`
	Market    string `json:"market"`
	Geography string `json:"geography"`
	Category  string `json:"category"`
	Domain    string `json:"domain"`
}

// Probe response tags. A tag counts as a true mention only when it
// contains "mentioned" and does not contain "not mentioned"; see
// IsTrueMention.
const (
	ResponseMentioned    = "mentioned"
	ResponseNotMentioned = "not mentioned"
	ResponseError        = "error"
)

// TestPrompt is one probe question sent to an answer engine, plus the
// mention outcome once the answer has been inspected.
type TestPrompt struct {
	Type     string `json:"type"`
	Prompt   string `json:"prompt"`
	Response string `json:"response,omitempty"`
}

// IsTrueMention reports whether a response tag records a real mention.
// A naive substring check on "mentioned" would also match "not mentioned",
// so the negative form is excluded explicitly.
func IsTrueMention(response string) bool {
	lower := strings.ToLower(response)
	return strings.Contains(lower, "mentioned") && !strings.Contains(lower, "not mentioned")
}

// CountMentions tallies true mentions across a prompt set.
func CountMentions(prompts []TestPrompt) int {
	n := 0
	for _, p := range prompts {
		if IsTrueMention(p.Response) {
			n++
		}
	}
	return n
}

// MentionRate returns the fraction of prompts with a true mention.
// An empty prompt set yields 0, never NaN.
func MentionRate(prompts []TestPrompt) float64 {
	if len(prompts) == 0 {
		return 0
	}
	return float64(CountMentions(prompts)) / float64(len(prompts))
}

// WebsiteContent is the read-only signal extracted from a business's
// website. Content is clipped to bound downstream processing cost; all
// fields may legitimately be empty when the fetch failed.
type WebsiteContent struct {
	Title             string `json:"title"`
	Description       string `json:"description"`
	Content           string `json:"content"`
	HasStructuredData bool   `json:"has_structured_data"`
}

// AnalysisResult is the terminal artifact of the pipeline. It is never
// mutated after construction, only rendered.
type AnalysisResult struct {
	BusinessName      string         `json:"business_name"`
	WebsiteURL        string         `json:"website_url,omitempty"`
	Classification    Classification `json:"classification"`
	TestPrompts       []TestPrompt   `json:"test_prompts"`
	GeoScore          float64        `json:"geo_score"`
	BenchmarkScore    float64        `json:"benchmark_score"`
	HasStructuredData bool           `json:"has_structured_data"`
	LLMMentions       int            `json:"llm_mentions"`
	Strengths         []string       `json:"strengths"`
	Gaps              []string       `json:"gaps"`
	Recommendations   []string       `json:"recommendations"`
	Mocked            bool           `json:"mocked,omitempty"`
}

// AnalysisStatus tracks the lifecycle of a stored analysis.
type AnalysisStatus string

const (
	AnalysisStatusQueued    AnalysisStatus = "queued"
	AnalysisStatusRunning   AnalysisStatus = "running"
	AnalysisStatusCompleted AnalysisStatus = "completed"
	AnalysisStatusFailed    AnalysisStatus = "failed"
)

// Business identifies the subject of an analysis request.
type Business struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// Analysis is a stored analysis run.
type Analysis struct {
	ID        string          `json:"id"`
	Business  Business        `json:"business"`
	Status    AnalysisStatus  `json:"status"`
	Result    *AnalysisResult `json:"result,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TokenUsage accumulates token consumption across pipeline stages.
type TokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Add accumulates another usage into this one.
func (u *TokenUsage) Add(other TokenUsage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
}
