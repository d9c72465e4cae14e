package refine

import (
	"fmt"
	"strings"
)

// Kind names a refinement prompt. An unknown kind is a passthrough, not
// an error.
type Kind string

const (
	KindProductName        Kind = "productName"
	KindProductDescription Kind = "productDescription"
	KindValueProposition   Kind = "valueProposition"
	KindPersonaName        Kind = "personaName"
	KindSegmentName        Kind = "segmentName"
	KindUseCaseDescription Kind = "useCaseDescription"
	KindPainPoint          Kind = "painPoint"
	KindGoal               Kind = "goal"
	KindResponsibility     Kind = "responsibility"
	KindChallenge          Kind = "challenge"
	KindFeature            Kind = "feature"
	KindDifferentiation    Kind = "differentiation"
	KindObjection          Kind = "objection"
	KindCompetitorAnalysis Kind = "competitorAnalysis"
	KindCaseStudy          Kind = "caseStudy"
	KindTestimonial        Kind = "testimonial"
	KindCallToAction       Kind = "callToAction"
	KindBatchTextArray     Kind = "batchTextArray"
)

// Context carries the surrounding document fields a prompt may mention.
// Blank fields render as "N/A".
type Context struct {
	CompanyName    string
	Domain         string
	ProductName    string
	Industry       string
	CompanySize    string
	TargetAudience string
	PersonaTitle   string
	Department     string
	CompanyType    string
	Competitors    string
	Market         string
	CustomerType   string
	UseCase        string
	TargetUsers    string
	BuyingStage    string
	ItemType       string
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

// promptFor renders the refinement prompt for a kind, or "" when the
// kind has no prompt.
func promptFor(kind Kind, input string, ctx Context) string {
	switch kind {
	case KindProductName:
		return fmt.Sprintf(`Refine this product name to be more professional and market-ready: %q. Consider the company context: %s, domain: %s.

Return ONLY the refined product name. No explanation, no quotes, just the improved name.`, input, orNA(ctx.CompanyName), orNA(ctx.Domain))
	case KindProductDescription:
		return fmt.Sprintf(`Improve this product description to be more compelling and professional: %q.

Context: Company: %s, Domain: %s

Make it:
- Clear and concise (2-3 sentences max)
- Professional and engaging
- Value-focused
- Free of jargon

Return ONLY the improved description. No explanation, just the refined text.`, input, orNA(ctx.CompanyName), orNA(ctx.Domain))
	case KindValueProposition:
		return fmt.Sprintf(`Refine this value proposition to be more compelling and specific: %q

Context: Company: %s, Product: %s

Make it:
- Clear and specific
- Benefit-focused (not feature-focused)
- Quantifiable where possible
- 30-50 words max

Return ONLY the refined value proposition. No explanation, just the improved text.`, input, orNA(ctx.CompanyName), orNA(ctx.ProductName))
	case KindPersonaName:
		return fmt.Sprintf(`Improve this persona name/title to be more professional and specific: %q

Context: Industry: %s, Company Size: %s

Make it:
- Professional job title format
- Specific and accurate
- Industry-appropriate

Return ONLY the refined persona name. No explanation, just the improved title.`, input, orNA(ctx.Industry), orNA(ctx.CompanySize))
	case KindSegmentName:
		return fmt.Sprintf(`Refine this market segment name to be more descriptive and professional: %q

Context: Company: %s, Industry: %s

Make it:
- Descriptive and specific
- Include relevant firmographics (size, industry, etc.)
- Professional format

Return ONLY the refined segment name. No explanation, just the improved name.`, input, orNA(ctx.CompanyName), orNA(ctx.Industry))
	case KindUseCaseDescription:
		return fmt.Sprintf(`Improve this use case description to be more specific and actionable: %q

Context: Product: %s, Target: %s

Make it:
- Specific and actionable
- Include the problem, solution, and outcome
- Customer-focused language
- 1-2 sentences

Return ONLY the improved use case. No explanation, just the refined text.`, input, orNA(ctx.ProductName), orNA(ctx.TargetAudience))
	case KindPainPoint:
		return fmt.Sprintf(`Refine this pain point to be more specific and compelling: %q

Context: Persona: %s, Industry: %s

Make it:
- Specific and concrete
- Business-impact focused
- Relatable to the target persona
- Quantifiable where possible

Return ONLY the refined pain point. No explanation, just the improved text.`, input, orNA(ctx.PersonaTitle), orNA(ctx.Industry))
	case KindGoal:
		return fmt.Sprintf(`Improve this goal statement to be more specific and measurable: %q

Context: Persona: %s, Company Type: %s

Make it:
- Specific and measurable
- Business-outcome focused
- Achievable and realistic
- Time-bound where appropriate

Return ONLY the refined goal. No explanation, just the improved text.`, input, orNA(ctx.PersonaTitle), orNA(ctx.CompanyType))
	case KindResponsibility:
		return fmt.Sprintf(`Refine this responsibility to be more specific and professional: %q

Context: Role: %s, Department: %s

Make it:
- Specific and actionable
- Professional language
- Role-appropriate
- Clear scope and impact

Return ONLY the refined responsibility. No explanation, just the improved text.`, input, orNA(ctx.PersonaTitle), orNA(ctx.Department))
	case KindChallenge:
		return fmt.Sprintf(`Improve this challenge description to be more specific and impactful: %q

Context: Role: %s, Industry: %s

Make it:
- Specific and concrete
- Business-impact focused
- Industry-relevant
- Solution-oriented (what they need to overcome it)

Return ONLY the refined challenge. No explanation, just the improved text.`, input, orNA(ctx.PersonaTitle), orNA(ctx.Industry))
	case KindFeature:
		return fmt.Sprintf(`Refine this product feature to be more customer-benefit focused: %q

Context: Product: %s, Target Users: %s

Make it:
- Benefit-focused (what it enables, not just what it does)
- Customer-centric language
- Clear value delivery
- Concise and specific

Return ONLY the refined feature. No explanation, just the improved text.`, input, orNA(ctx.ProductName), orNA(ctx.TargetUsers))
	case KindDifferentiation:
		return fmt.Sprintf(`Improve this differentiation statement to be more compelling and specific: %q

Context: Company: %s, Competitors: %s

Make it:
- Specific and unique
- Benefit-focused
- Competitive advantage clear
- Credible and defensible
- 2-3 sentences max

Return ONLY the refined differentiation. No explanation, just the improved text.`, input, orNA(ctx.CompanyName), orNA(ctx.Competitors))
	case KindObjection:
		return fmt.Sprintf(`Refine this objection to be more realistic and specific: %q

Context: Persona: %s, Product: %s

Make it:
- Realistic and common
- Specific to the persona/situation
- Business-focused (budget, time, resources, etc.)
- Addressable with proper response

Return ONLY the refined objection. No explanation, just the improved text.`, input, orNA(ctx.PersonaTitle), orNA(ctx.ProductName))
	case KindCompetitorAnalysis:
		return fmt.Sprintf(`Improve this competitor analysis to be more strategic and actionable: %q

Context: Our Company: %s, Market: %s

Make it:
- Specific competitive advantages/disadvantages
- Strategic insights
- Actionable for sales/marketing
- Fact-based and objective

Return ONLY the refined analysis. No explanation, just the improved text.`, input, orNA(ctx.CompanyName), orNA(ctx.Market))
	case KindCaseStudy:
		return fmt.Sprintf(`Enhance this case study description to be more compelling and specific: %q

Context: Product: %s, Industry: %s

Make it:
- Specific customer and situation
- Clear problem, solution, results
- Quantified outcomes where possible
- Credible and detailed

Return ONLY the refined case study. No explanation, just the improved text.`, input, orNA(ctx.ProductName), orNA(ctx.Industry))
	case KindTestimonial:
		return fmt.Sprintf(`Improve this testimonial to be more credible and impactful: %q

Context: Customer Type: %s, Use Case: %s

Make it:
- Specific and detailed
- Credible language (not overly promotional)
- Include specific benefits/results
- Attribution-ready format

Return ONLY the refined testimonial. No explanation, just the improved text.`, input, orNA(ctx.CustomerType), orNA(ctx.UseCase))
	case KindCallToAction:
		return fmt.Sprintf(`Refine this call-to-action to be more compelling and specific: %q

Context: Target: %s, Stage: %s

Make it:
- Action-oriented and specific
- Value-focused
- Urgency where appropriate
- Clear next step

Return ONLY the refined CTA. No explanation, just the improved text.`, input, orNA(ctx.TargetAudience), orNA(ctx.BuyingStage))
	default:
		return ""
	}
}

func batchPrompt(items []string, ctx Context) string {
	var list strings.Builder
	for i, item := range items {
		fmt.Fprintf(&list, "%d. %s\n", i+1, item)
	}
	return fmt.Sprintf(`Improve this list of items to be more professional, specific, and consistent:

%s
Context: Type: %s, Domain: %s

Make each item:
- Professional and specific
- Consistent in tone and format
- Value-focused where appropriate
- Clear and actionable

Return ONLY a JSON array of the improved items. No explanation, no markdown, just the JSON array.`, list.String(), orNA(ctx.ItemType), orNA(ctx.Domain))
}
