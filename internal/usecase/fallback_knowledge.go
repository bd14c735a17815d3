package usecase

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Kaushik-07/BrandRanker/internal/domain"
)

var titleCaser = cases.Title(language.English)

type fallbackEntry struct {
	rank   int
	reason string
}

// categoryAliases folds common synonyms onto the canonical category label
// used as the fallback-table and cache key.
var categoryAliases = map[string]string{
	"tshirts":          "T-Shirts",
	"t-shirts":         "T-Shirts",
	"t shirts":         "T-Shirts",
	"sneakers":         "Sneakers",
	"running shoes":    "Running Shoes",
	"basketball shoes": "Basketball Shoes",
	"smartphones":      "Smartphones",
	"phones":           "Smartphones",
	"laptops":          "Laptops",
	"computers":        "Laptops",
	"coffee":           "Coffee",
	"cars":             "Cars",
	"automobiles":      "Cars",
	"electronics":      "Electronics",
	"apparel":          "Apparel",
	"clothing":         "Apparel",
	"jeans":            "Jeans",
	"shirts":           "Shirts",
}

// FallbackKnowledge is the static ranking table used when the completion
// service is unavailable, rate-limited, or unparseable. Lookup never fails
// and always covers every requested brand, so rankings stay deterministic
// even with the network down.
type FallbackKnowledge struct {
	table map[string]map[string]fallbackEntry
}

func NewFallbackKnowledge() *FallbackKnowledge {
	return &FallbackKnowledge{table: buildBrandTable()}
}

// CanonicalCategory maps a user-supplied category to its canonical label:
// a known alias, or the title-cased input.
func (f *FallbackKnowledge) CanonicalCategory(category string) string {
	trimmed := strings.TrimSpace(category)
	if canonical, ok := categoryAliases[strings.ToLower(trimmed)]; ok {
		return canonical
	}
	return titleCaser.String(strings.ToLower(trimmed))
}

// Lookup returns a complete ranking for the brands within the category.
// Brands in the table keep the table's rank and reason; unknown brands get
// sequential ranks continuing past the table's maximum, in input order.
func (f *FallbackKnowledge) Lookup(brands []string, category string) domain.CategoryRanking {
	canonical := f.CanonicalCategory(category)
	known := f.table[canonical]

	maxRank := 0
	var ranked []domain.RankedBrand
	var unknown []string

	for _, brand := range brands {
		entry, ok := known[strings.ToLower(strings.TrimSpace(brand))]
		if !ok {
			unknown = append(unknown, brand)
			continue
		}
		ranked = append(ranked, domain.RankedBrand{
			Rank:   entry.rank,
			Brand:  brand,
			Reason: entry.reason,
		})
		if entry.rank > maxRank {
			maxRank = entry.rank
		}
	}

	for i, brand := range unknown {
		ranked = append(ranked, domain.RankedBrand{
			Rank:   maxRank + i + 1,
			Brand:  brand,
			Reason: fmt.Sprintf("Ranked based on market position in %s", canonical),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Rank < ranked[j].Rank
	})

	return domain.CategoryRanking{
		Category: canonical,
		Rankings: ranked,
		Metadata: domain.RankingMetadata{
			Model:    "fallback-knowledge",
			Fallback: true,
		},
	}
}

func buildBrandTable() map[string]map[string]fallbackEntry {
	return map[string]map[string]fallbackEntry{
		"T-Shirts": {
			"nike":         {rank: 1, reason: "Strong brand recognition and quality"},
			"adidas":       {rank: 2, reason: "Good market presence and style"},
			"h&m":          {rank: 3, reason: "Affordable fashion with wide appeal"},
			"zara":         {rank: 4, reason: "Fast fashion leader with trendy designs"},
			"puma":         {rank: 5, reason: "Competitive but smaller market share"},
			"mango":        {rank: 6, reason: "Contemporary style with good quality"},
			"levis":        {rank: 7, reason: "Classic denim brand with heritage"},
			"souled store": {rank: 8, reason: "Niche brand with unique designs"},
		},
		"Sneakers": {
			"nike":        {rank: 1, reason: "Market leader in athletic footwear"},
			"adidas":      {rank: 2, reason: "Strong competitor with innovative designs"},
			"puma":        {rank: 3, reason: "Good quality with competitive pricing"},
			"new balance": {rank: 4, reason: "Comfort-focused athletic shoes"},
			"converse":    {rank: 5, reason: "Classic casual sneakers"},
		},
		"Smartphones": {
			"apple":   {rank: 1, reason: "Premium quality and ecosystem"},
			"samsung": {rank: 2, reason: "Innovative features and variety"},
			"google":  {rank: 3, reason: "Clean Android experience"},
			"oneplus": {rank: 4, reason: "Good value for performance"},
			"xiaomi":  {rank: 5, reason: "Affordable with good features"},
		},
		"Laptops": {
			"apple":  {rank: 1, reason: "Premium build quality and performance"},
			"dell":   {rank: 2, reason: "Reliable business laptops"},
			"hp":     {rank: 3, reason: "Good value and variety"},
			"lenovo": {rank: 4, reason: "ThinkPad reliability"},
			"asus":   {rank: 5, reason: "Gaming and performance focus"},
		},
		"Coffee": {
			"starbucks":   {rank: 1, reason: "Global brand recognition"},
			"dunkin":      {rank: 2, reason: "Affordable and convenient"},
			"peet's":      {rank: 3, reason: "Premium coffee quality"},
			"tim hortons": {rank: 4, reason: "Canadian favorite"},
			"caribou":     {rank: 5, reason: "Regional specialty coffee"},
		},
		"Cars": {
			"toyota":   {rank: 1, reason: "Reliability and fuel efficiency"},
			"honda":    {rank: 2, reason: "Good value and safety"},
			"ford":     {rank: 3, reason: "American heritage and trucks"},
			"bmw":      {rank: 4, reason: "Luxury and performance"},
			"mercedes": {rank: 5, reason: "Premium luxury vehicles"},
		},
		"Jeans": {
			"levis": {rank: 1, reason: "Classic denim heritage"},
			"zara":  {rank: 2, reason: "Fast fashion quality"},
			"h&m":   {rank: 3, reason: "Affordable fashion"},
			"gap":   {rank: 4, reason: "Casual American style"},
			"mango": {rank: 5, reason: "Contemporary style"},
		},
		"Shirts": {
			"h&m":    {rank: 1, reason: "Affordable and trendy"},
			"zara":   {rank: 2, reason: "Fast fashion leader"},
			"mango":  {rank: 3, reason: "Contemporary style"},
			"uniqlo": {rank: 4, reason: "Quality basics"},
			"gap":    {rank: 5, reason: "Casual American style"},
		},
	}
}
