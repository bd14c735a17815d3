package usecase

import (
	"errors"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/Kaushik-07/BrandRanker/internal/domain"
)

// ErrUnparsableRanking reports that no matcher extracted a ranking from the
// completion text. Callers take the fallback path.
var ErrUnparsableRanking = errors.New("no ranking pattern matched response")

const placeholderReason = "Ranked based on market position"

// rankingMatcher extracts (rank, name, optional reason) tuples from one of
// the line formats the completion service has been observed to emit.
type rankingMatcher struct {
	name string
	re   *regexp.Regexp
}

// Matchers are tried in priority order; the first one that resolves at least
// one requested brand wins. Tolerance to format drift matters more here than
// strict schema validation.
var rankingMatchers = []rankingMatcher{
	{name: "numbered_dot", re: regexp.MustCompile(`(?m)^\s*(\d+)\.\s*([^-\n]+?)(?:\s*-\s*([^\n]+))?$`)},
	{name: "numbered_bare", re: regexp.MustCompile(`(?m)^\s*(\d+)\s+([^-\n]+?)(?:\s*-\s*([^\n]+))?$`)},
	{name: "rank_prefix", re: regexp.MustCompile(`(?mi)^\s*rank\s*(\d+)\s*:\s*([^-\n]+)$`)},
	{name: "numbered_paren", re: regexp.MustCompile(`(?m)^\s*(\d+)\)\s*([^-\n]+)$`)},
}

// ResponseParser turns free-text ranking responses into a complete
// CategoryRanking row set.
type ResponseParser struct{}

func NewResponseParser() ResponseParser {
	return ResponseParser{}
}

// Parse extracts a ranking covering every requested brand. Extracted names
// resolve to requested brands by case-insensitive substring match in either
// direction; unresolved lines are discarded. Brands the text never mentions
// are appended after the parsed rows, in input order.
func (ResponseParser) Parse(raw string, brands []string) ([]domain.RankedBrand, error) {
	for _, matcher := range rankingMatchers {
		ranked := extractWithMatcher(matcher, raw, brands)
		if len(ranked) == 0 {
			continue
		}

		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].Rank < ranked[j].Rank
		})
		return completeRanking(ranked, brands), nil
	}
	return nil, ErrUnparsableRanking
}

func extractWithMatcher(matcher rankingMatcher, raw string, brands []string) []domain.RankedBrand {
	matches := matcher.re.FindAllStringSubmatch(raw, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(brands))
	var ranked []domain.RankedBrand
	for _, match := range matches {
		rank, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}

		extracted := strings.TrimSpace(match[2])
		brand, ok := resolveBrand(extracted, brands)
		if !ok || seen[strings.ToLower(brand)] {
			continue
		}
		seen[strings.ToLower(brand)] = true

		reason := ""
		if len(match) > 3 {
			reason = strings.TrimSpace(match[3])
		}

		ranked = append(ranked, domain.RankedBrand{
			Rank:   rank,
			Brand:  brand,
			Reason: reason,
		})
	}
	return ranked
}

// resolveBrand maps extracted text back to the exact casing the caller
// supplied. Substring match runs in both directions because responses often
// decorate names ("Nike Inc.") or abbreviate them.
func resolveBrand(extracted string, brands []string) (string, bool) {
	lowered := strings.ToLower(extracted)
	for _, brand := range brands {
		brandLowered := strings.ToLower(brand)
		if strings.Contains(lowered, brandLowered) || strings.Contains(brandLowered, lowered) {
			return brand, true
		}
	}
	return "", false
}

// completeRanking appends every brand without a match at position
// count-of-ranked-plus-one, in input order. The position can collide with a
// parsed rank when the text skipped a slot; averages tolerate that.
func completeRanking(ranked []domain.RankedBrand, brands []string) []domain.RankedBrand {
	present := make(map[string]bool, len(ranked))
	for _, r := range ranked {
		present[strings.ToLower(r.Brand)] = true
	}

	for _, brand := range brands {
		if present[strings.ToLower(brand)] {
			continue
		}
		ranked = append(ranked, domain.RankedBrand{
			Rank:   len(ranked) + 1,
			Brand:  brand,
			Reason: placeholderReason,
		})
		present[strings.ToLower(brand)] = true
	}
	return ranked
}
