package usecase

import (
	"fmt"
	"strings"
)

const (
	rankingSystemPrompt = "You are a brand ranking expert. Always respond with valid JSON only."

	brandValidationSystem    = "You are a company validation expert. You must respond with ONLY valid JSON, no other text or explanations."
	categoryValidationSystem = "You are a product category validation expert. You must respond with ONLY valid JSON, no other text or explanations."
)

// PromptBuilder renders the prompts sent to the completion service.
type PromptBuilder struct{}

func NewPromptBuilder() PromptBuilder {
	return PromptBuilder{}
}

// RankingPrompt asks for a numbered ranking of the brands within a category.
// The numbered-list format is what the response parser's first matcher expects.
func (PromptBuilder) RankingPrompt(brands []string, category string) (system, user string) {
	brandList := strings.Join(brands, ", ")

	user = fmt.Sprintf(`Please rank the following brands in the %s category: %s

Consider these factors:
1. Market share and brand recognition
2. Product quality and innovation
3. Customer satisfaction and loyalty
4. Financial performance and growth
5. Competitive positioning

Please provide a clear ranking from 1st to %dth place with brief reasoning for each brand's position.

Format your response like this:
1. [Brand Name] - [Brief reason for ranking]
2. [Brand Name] - [Brief reason for ranking]
3. [Brand Name] - [Brief reason for ranking]
etc.

Make sure to rank ALL %d brands mentioned.`, category, brandList, len(brands), len(brands))

	return rankingSystemPrompt, user
}

// BrandValidationPrompt asks for a strict JSON partition of real vs fake brands.
func (PromptBuilder) BrandValidationPrompt(names []string) (system, user string) {
	user = fmt.Sprintf(`Validate if these are real companies/brands. Respond ONLY with valid JSON in this exact format:
{
    "valid_items": ["list of real companies"],
    "invalid_items": ["list of fake/invalid companies"],
    "reason": "brief explanation"
}

Companies to validate: %s

Rules:
- Only include well-known, real companies/brands that can be ranked in product categories
- Valid examples: Nike, Adidas, Apple, Samsung, H&M, Zara, Starbucks, Toyota, BMW
- Exclude single letters, random characters, or obvious fake names like "abc", "def", "adffg", "gggggg"
- Companies should be recognizable brands that consumers would know
- If a company name is unclear or fake, mark it as invalid
- Respond with ONLY the JSON, no other text`, strings.Join(names, ", "))

	return brandValidationSystem, user
}

// CategoryValidationPrompt asks for a strict JSON partition of real vs fake
// product categories.
func (PromptBuilder) CategoryValidationPrompt(names []string) (system, user string) {
	user = fmt.Sprintf(`Validate if these are real product categories. Respond ONLY with valid JSON in this exact format:
{
    "valid_items": ["list of real product categories"],
    "invalid_items": ["list of fake/invalid categories"],
    "reason": "brief explanation"
}

Categories to validate: %s

Rules:
- Only include real product categories that companies can be ranked in
- Valid examples: Smartphones, Laptops, Sneakers, T-Shirts, Coffee, Cars, Jeans, Shirts
- Exclude single letters, random characters, or obvious fake categories like "abc", "def", "adffg", "gggggg"
- Categories should be specific enough for meaningful brand comparison
- If a category is unclear or fake, mark it as invalid
- Respond with ONLY the JSON, no other text`, strings.Join(names, ", "))

	return categoryValidationSystem, user
}
