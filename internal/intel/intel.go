// Package intel serves simulated market intelligence (news sentiment and
// headlines) for a company through a TTL-bounded, single-flight cache.
//
// No live market-data provider is involved: intelligence is derived
// deterministically from the company name, so the same company always yields
// the same sentiment and headlines within a process lifetime.
package intel

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// SentimentLabel classifies the overall tone of coverage.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNeutral  SentimentLabel = "neutral"
	SentimentNegative SentimentLabel = "negative"
)

// Sentiment holds the derived news sentiment for a company.
type Sentiment struct {
	Score      float64        `json:"score"`      // -1.0 to 1.0
	Label      SentimentLabel `json:"label"`
	Confidence float64        `json:"confidence"` // 0.0 to 1.0
}

// Headline is a single news item.
type Headline struct {
	Title       string    `json:"title"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"publishedAt"`
	URL         string    `json:"url,omitempty"`
}

// MarketIntelligenceData is the full intelligence payload for a company.
// Headlines always holds exactly three ordered items.
type MarketIntelligenceData struct {
	Company      string     `json:"company"`
	Sentiment    Sentiment  `json:"sentiment"`
	Headlines    []Headline `json:"headlines"`
	ArticleCount int        `json:"articleCount"`
	LastUpdated  time.Time  `json:"lastUpdated"`
}

// Machine-readable error codes carried by Error.
const (
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeGetFailed        = "GET_FAILED"
)

// Error is the typed failure for intelligence operations. Status is the
// suggested HTTP-equivalent status for the excluded transport layer.
// Validation failures are the caller's fault and must not be retried;
// generation failures preserve the cause and may be retried by the caller.
type Error struct {
	Code    string
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("intel: %s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newValidationError(format string, args ...any) *Error {
	return &Error{
		Code:    CodeValidationFailed,
		Status:  http.StatusBadRequest,
		Message: fmt.Sprintf(format, args...),
	}
}

func wrapGetError(err error, company string) *Error {
	return &Error{
		Code:    CodeGetFailed,
		Status:  http.StatusInternalServerError,
		Message: fmt.Sprintf("intelligence generation failed for %q", company),
		Err:     err,
	}
}

const (
	minCompanyNameLen = 2
	maxCompanyNameLen = 100
)

var companyNamePattern = regexp.MustCompile(`^[a-zA-Z0-9 \-'&.,()]+$`)

// Substrings that indicate markup or script injection attempts. The charset
// pattern already excludes angle brackets; these catch anything that slips
// through future pattern changes and give a clearer rejection message.
var forbiddenSubstrings = []string{"<script", "</", "<iframe", "javascript:", "onerror="}

// ValidateCompanyName checks a raw company name and returns a typed
// validation Error on any violation.
func ValidateCompanyName(name string) error {
	trimmed := strings.TrimSpace(name)
	if len(trimmed) < minCompanyNameLen {
		return newValidationError("company name must be at least %d characters", minCompanyNameLen)
	}
	if len(trimmed) > maxCompanyNameLen {
		return newValidationError("company name must be at most %d characters", maxCompanyNameLen)
	}

	lower := strings.ToLower(trimmed)
	for _, sub := range forbiddenSubstrings {
		if strings.Contains(lower, sub) {
			return newValidationError("company name contains forbidden content")
		}
	}

	if !companyNamePattern.MatchString(trimmed) {
		return newValidationError("company name contains invalid characters")
	}
	return nil
}

// NormalizeKey converts a company name into its cache key form
// (trimmed, case-folded).
func NormalizeKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
