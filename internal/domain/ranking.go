package domain

// RankedBrand is one row of a category ranking. Rank 1 is best.
type RankedBrand struct {
	Rank   int    `json:"rank"`
	Brand  string `json:"company"`
	Reason string `json:"reason"`
}

// RankingMetadata describes how a category ranking was produced.
type RankingMetadata struct {
	Model     string `json:"model_used"`
	CacheHit  bool   `json:"cache_hit"`
	LatencyMS int64  `json:"response_time_ms"`
	Fallback  bool   `json:"fallback"`
}

// CategoryRanking is the complete ranking of the requested brands within a
// single category. Every requested brand appears exactly once.
type CategoryRanking struct {
	Category string          `json:"category"`
	Rankings []RankedBrand   `json:"rankings"`
	Metadata RankingMetadata `json:"llm_metadata"`
}

// RankOf returns the rank assigned to brand, matched case-insensitively.
// The second return is false when the brand is absent from the ranking.
func (c CategoryRanking) RankOf(brand string) (int, bool) {
	for _, r := range c.Rankings {
		if equalFold(r.Brand, brand) {
			return r.Rank, true
		}
	}
	return 0, false
}

// AggregatedResult is the outcome of ranking brands across several
// categories. AverageRanks is keyed by the brand casing the caller supplied.
type AggregatedResult struct {
	ExperimentID string
	Rankings     map[string]CategoryRanking
	AverageRanks map[string]float64
}
