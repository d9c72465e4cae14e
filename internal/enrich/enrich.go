// Package enrich generates structured GTM content from the completion
// gateway: detail expansions for personas, segments, and products,
// four-variant workspace summaries, and onboarding suggestions.
package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"compass/api/internal/genai"
	"compass/api/internal/icp"
)

const (
	detailMaxTokens   = 2000
	detailTemperature = 0.7
	fieldMaxTokens    = 1000
	fieldTemperature  = 0.7
	versionMaxTokens  = 4000
	stepMaxTokens     = 1000
	maxListItems      = 4
)

var (
	ErrUnknownField  = errors.New("unknown field type")
	ErrUnknownStep   = errors.New("unknown step")
	ErrBadCompletion = errors.New("unusable completion")
)

// Engine runs enrichment against a completion gateway.
type Engine struct {
	gateway genai.Completer
}

func NewEngine(gateway genai.Completer) *Engine {
	return &Engine{gateway: gateway}
}

func genaiOpts(maxTokens int64, temperature float64) genai.Options {
	return genai.Options{MaxTokens: maxTokens, Temperature: temperature}
}

var (
	fenceRe  = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")
	objectRe = regexp.MustCompile(`(?s)\{.*\}`)
	arrayRe  = regexp.MustCompile(`(?s)\[.*\]`)
)

// salvageJSON pulls a JSON object or array out of a completion that may
// be wrapped in code fences or prose.
func salvageJSON(text string) string {
	text = strings.TrimSpace(text)
	if m := fenceRe.FindStringSubmatch(text); m != nil {
		text = m[1]
	}
	if json.Valid([]byte(text)) {
		return text
	}
	if m := objectRe.FindString(text); m != "" && json.Valid([]byte(m)) {
		return m
	}
	if m := arrayRe.FindString(text); m != "" && json.Valid([]byte(m)) {
		return m
	}
	return ""
}

func truncate(items []string) []string {
	if len(items) > maxListItems {
		return items[:maxListItems]
	}
	return items
}

// PersonaDetails is the generated expansion for one persona.
type PersonaDetails struct {
	PainPoints       []string         `json:"painPoints"`
	Goals            []string         `json:"goals"`
	Responsibilities []string         `json:"responsibilities"`
	Challenges       []string         `json:"challenges"`
	Channels         []string         `json:"channels"`
	Triggers         []string         `json:"triggers"`
	Objections       []string         `json:"objections"`
	Demographics     icp.Demographics `json:"demographics"`
}

// PersonaDetails expands a persona title into structured detail. Every
// list is capped at four entries.
func (e *Engine) PersonaDetails(ctx context.Context, personaTitle, companyName string, products []string) (PersonaDetails, error) {
	res := e.gateway.Complete(ctx, personaDetailsPrompt(personaTitle, companyName, products), genaiOpts(detailMaxTokens, detailTemperature))
	if !res.OK {
		return PersonaDetails{}, fmt.Errorf("persona details: %s", res.Reason)
	}
	payload := salvageJSON(res.Text)
	if payload == "" {
		return PersonaDetails{}, fmt.Errorf("persona details: %w", ErrBadCompletion)
	}
	var details PersonaDetails
	if err := json.Unmarshal([]byte(payload), &details); err != nil {
		return PersonaDetails{}, fmt.Errorf("persona details: %w", ErrBadCompletion)
	}
	details.PainPoints = truncate(details.PainPoints)
	details.Goals = truncate(details.Goals)
	details.Responsibilities = truncate(details.Responsibilities)
	details.Challenges = truncate(details.Challenges)
	details.Channels = truncate(details.Channels)
	details.Triggers = truncate(details.Triggers)
	details.Objections = truncate(details.Objections)
	return details, nil
}

// BuyingBehavior describes how a segment evaluates and buys.
type BuyingBehavior struct {
	DecisionTimeframe  string   `json:"decisionTimeframe"`
	BudgetRange        string   `json:"budgetRange"`
	DecisionMakers     []string `json:"decisionMakers"`
	EvaluationCriteria []string `json:"evaluationCriteria"`
}

// SegmentDetails is the generated expansion for one segment.
type SegmentDetails struct {
	Characteristics []string          `json:"characteristics"`
	PainPoints      []string          `json:"painPoints"`
	MarketSize      string            `json:"marketSize"`
	GrowthRate      string            `json:"growthRate"`
	BuyingBehavior  BuyingBehavior    `json:"buyingBehavior"`
	Qualification   icp.Qualification `json:"qualification"`
}

// SegmentDetails expands a segment description into structured detail.
func (e *Engine) SegmentDetails(ctx context.Context, segmentDescription, companyName string, products []string) (SegmentDetails, error) {
	res := e.gateway.Complete(ctx, segmentDetailsPrompt(segmentDescription, companyName, products), genaiOpts(detailMaxTokens, detailTemperature))
	if !res.OK {
		return SegmentDetails{}, fmt.Errorf("segment details: %s", res.Reason)
	}
	payload := salvageJSON(res.Text)
	if payload == "" {
		return SegmentDetails{}, fmt.Errorf("segment details: %w", ErrBadCompletion)
	}
	var details SegmentDetails
	if err := json.Unmarshal([]byte(payload), &details); err != nil {
		return SegmentDetails{}, fmt.Errorf("segment details: %w", ErrBadCompletion)
	}
	details.Characteristics = truncate(details.Characteristics)
	details.PainPoints = truncate(details.PainPoints)
	details.BuyingBehavior.DecisionMakers = truncate(details.BuyingBehavior.DecisionMakers)
	details.BuyingBehavior.EvaluationCriteria = truncate(details.BuyingBehavior.EvaluationCriteria)
	details.Qualification.IdealCriteria = truncate(details.Qualification.IdealCriteria)
	details.Qualification.DisqualifyingCriteria = truncate(details.Qualification.DisqualifyingCriteria)
	details.Qualification.LookalikeCompanies = truncate(details.Qualification.LookalikeCompanies)
	return details, nil
}

// Implementation describes rollout expectations for a product.
type Implementation struct {
	TimeToValue    string   `json:"timeToValue"`
	Complexity     string   `json:"complexity"`
	Requirements   []string `json:"requirements"`
	SuccessFactors []string `json:"successFactors"`
}

// ProductDetails is the generated expansion for one product.
type ProductDetails struct {
	Features              []string       `json:"features"`
	Problems              []string       `json:"problems"`
	USPs                  []string       `json:"usps"`
	UseCases              []string       `json:"useCases"`
	Benefits              []string       `json:"benefits"`
	CompetitiveAdvantages []string       `json:"competitiveAdvantages"`
	Implementation        Implementation `json:"implementation"`
}

// ProductDetails expands a product name into structured detail.
func (e *Engine) ProductDetails(ctx context.Context, productName, companyName string) (ProductDetails, error) {
	res := e.gateway.Complete(ctx, productDetailsPrompt(productName, companyName), genaiOpts(detailMaxTokens, detailTemperature))
	if !res.OK {
		return ProductDetails{}, fmt.Errorf("product details: %s", res.Reason)
	}
	payload := salvageJSON(res.Text)
	if payload == "" {
		return ProductDetails{}, fmt.Errorf("product details: %w", ErrBadCompletion)
	}
	var details ProductDetails
	if err := json.Unmarshal([]byte(payload), &details); err != nil {
		return ProductDetails{}, fmt.Errorf("product details: %w", ErrBadCompletion)
	}
	details.Features = truncate(details.Features)
	details.Problems = truncate(details.Problems)
	details.USPs = truncate(details.USPs)
	details.UseCases = truncate(details.UseCases)
	details.Benefits = truncate(details.Benefits)
	details.CompetitiveAdvantages = truncate(details.CompetitiveAdvantages)
	details.Implementation.Requirements = truncate(details.Implementation.Requirements)
	details.Implementation.SuccessFactors = truncate(details.Implementation.SuccessFactors)
	return details, nil
}
