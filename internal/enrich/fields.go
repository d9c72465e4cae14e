package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// FieldContext carries the values already filled in earlier fields so
// later suggestions can build on them.
type FieldContext struct {
	Description        string   `json:"description,omitempty"`
	Category           string   `json:"category,omitempty"`
	ValueProposition   string   `json:"valueProposition,omitempty"`
	PersonaTitle       string   `json:"personaTitle,omitempty"`
	SegmentIndustry    string   `json:"segmentIndustry,omitempty"`
	SegmentCompanySize string   `json:"segmentCompanySize,omitempty"`

	ProblemsWithRootCauses []string `json:"problemsWithRootCauses,omitempty"`
	KeyFeatures            []string `json:"keyFeatures,omitempty"`
	BusinessOutcomes       []string `json:"businessOutcomes,omitempty"`
	UseCases               []string `json:"useCases,omitempty"`
}

// arrayFields lists the field types whose suggestions are JSON arrays;
// everything else returns a single string.
var arrayFields = map[string]bool{
	"valuePropositionVariations": true,
	"problemsWithRootCauses":     true,
	"keyFeatures":                true,
	"businessOutcomes":           true,
	"useCases":                   true,
	"uniqueSellingPoints":        true,
	"urgencyConsequences":        true,
	"pricingTiers":               true,
	"clientTimeline":             true,
	"roiRequirements":            true,
	"segmentName":                true,
	"segmentIndustry":            true,
	"segmentCompanySize":         true,
	"segmentGeography":           true,
	"segmentEmployees":           true,
	"segmentLocations":           true,
	"segmentSignals":             true,
	"segmentBenefits":            true,
	"segmentCTA":                 true,
	"segmentTier1Criteria":       true,
	"segmentDisqualifying":       true,
	"personaTitle":               true,
	"personaSeniority":           true,
	"personaResponsibilities":    true,
	"personaChallenges":          true,
	"personaOKRs":                true,
	"personaDepartment":          true,
	"personaValueProp":           true,
	"personaCTA":                 true,
}

const arrayFormat = `IMPORTANT: Return ONLY a valid JSON array of exactly 4 strings. No explanation, no markdown, just the JSON array.`

func fieldPrompt(fieldType, domain string, c FieldContext) string {
	switch fieldType {
	case "personaDepartment":
		return fmt.Sprintf(`Based on the persona title %q and segment industry %q, suggest exactly 4 department names this persona might belong to.

%s

Example format: ["Engineering", "Product", "IT", "Operations"]`, c.PersonaTitle, c.SegmentIndustry, arrayFormat)
	case "personaValueProp":
		return fmt.Sprintf(`Based on the persona title %q, segment industry %q, and product value proposition %q, suggest exactly 4 value propositions tailored for this persona.

%s

Example format: ["Increase team efficiency", "Reduce operational costs", "Improve product quality", "Accelerate innovation"]`, c.PersonaTitle, c.SegmentIndustry, c.ValueProposition, arrayFormat)
	case "personaCTA":
		return fmt.Sprintf(`Based on the persona title %q, segment industry %q, and product context, suggest exactly 4 specific calls to action that would appeal to this persona.

%s

Example format: ["Request a demo", "Download whitepaper", "Join webinar", "Start free trial"]`, c.PersonaTitle, c.SegmentIndustry, arrayFormat)
	case "description":
		return fmt.Sprintf(`Based on the company domain %q, write a concise 2-3 sentence product description that explains what the company does and their main value proposition. Focus on their core business and target market.

IMPORTANT: Return ONLY the description text. No JSON, no explanation, just the description.`, domain)
	case "category":
		return fmt.Sprintf(`Based on the company domain %q and description %q, suggest the most appropriate product category. Choose from common categories like: SaaS, Healthcare, Fintech, E-commerce, EdTech, Marketing, Sales, HR, Operations, Security, etc.

IMPORTANT: Return ONLY the category name. No JSON, no explanation, just the category.`, domain, c.Description)
	case "valueProposition":
		return fmt.Sprintf(`Based on the domain %q, description %q, and category %q, create a compelling value proposition in 40-50 characters. Focus on the main benefit customers get.

IMPORTANT: Return ONLY the value proposition text. No JSON, no explanation, just the text.`, domain, c.Description, c.Category)
	case "valuePropositionVariations":
		return fmt.Sprintf(`Based on the domain %q and main value proposition %q, suggest exactly 4 alternative value propositions for different market segments or use cases.

%s

Example format: ["Alternative 1", "Alternative 2", "Alternative 3", "Alternative 4"]`, domain, c.ValueProposition, arrayFormat)
	case "pricingTiers":
		return fmt.Sprintf(`Based on the domain %q, product description %q, and value proposition %q, suggest exactly 4 pricing tiers/packages that would make sense for this business. Include tier name, price point, and key features.

%s

Example format: ["Starter - $99/month - Up to 10 users, basic features", "Professional - $299/month - Up to 50 users, advanced analytics", "Enterprise - $999/month - Unlimited users, custom integrations", "Custom - Contact sales - White-label solution, dedicated support"]`, domain, c.Description, c.ValueProposition, arrayFormat)
	case "clientTimeline":
		return fmt.Sprintf(`Based on the domain %q and product %q, suggest exactly 4 realistic timeline expectations and ROI metrics that clients typically experience.

%s

Example format: ["Setup completed within 2 weeks with dedicated onboarding", "First results visible within 30 days of implementation", "20-30%% efficiency improvement achieved by month 3", "Full ROI typically realized within 6-12 months"]`, domain, c.Description, arrayFormat)
	case "roiRequirements":
		return fmt.Sprintf(`Based on the domain %q and product %q, suggest exactly 4 key requirements or commitments clients need to make to achieve successful ROI.

%s

Example format: ["Dedicate 2-4 hours per week during first month for setup and training", "Assign a dedicated point person for implementation and ongoing management", "Provide access to existing systems and data for integration", "Commit to using the platform consistently for minimum 3 months"]`, domain, c.Description, arrayFormat)
	case "segmentName":
		return fmt.Sprintf(`Based on the domain %q, product description %q, and industry context, suggest exactly 4 potential target account segments that would be good fits for this solution.

%s

Example format: ["Enterprise Manufacturing Companies (500+ employees)", "Mid-Market Healthcare Organizations", "Growing SaaS Companies (Series B+)", "Regional Financial Services Firms"]`, domain, c.Description, arrayFormat)
	case "segmentIndustry":
		return fmt.Sprintf(`Based on the domain %q and product %q, suggest exactly 4 specific industries that would benefit most from this solution.

%s

Example format: ["Manufacturing & Industrial", "Healthcare & Life Sciences", "Financial Services", "Technology & Software"]`, domain, c.Description, arrayFormat)
	case "segmentCompanySize":
		return fmt.Sprintf(`Based on the domain %q and product type %q, suggest exactly 4 company size ranges that would be ideal targets for this solution.

%s

Example format: ["50-200 employees, $10M-$50M revenue", "200-1000 employees, $50M-$200M revenue", "1000+ employees, $200M+ revenue", "Enterprise (5000+ employees, $1B+ revenue)"]`, domain, c.Category, arrayFormat)
	case "segmentGeography":
		return fmt.Sprintf(`Based on the domain %q and business type, suggest exactly 4 geographic markets that would be good targets for this solution.

%s

Example format: ["North America (US & Canada)", "Western Europe (UK, Germany, France)", "Asia-Pacific (Australia, Singapore, Japan)", "Global (All English-speaking markets)"]`, domain, arrayFormat)
	case "segmentEmployees":
		return fmt.Sprintf(`Based on the domain %q and industry context, suggest exactly 4 employee count ranges that would be appropriate targets for this solution.

%s

Example format: ["50-100", "100-500", "500-1000", "1000+"]`, domain, arrayFormat)
	case "segmentLocations":
		return fmt.Sprintf(`Based on the domain %q and target market, suggest exactly 4 key locations or regions where this solution would be most valuable.

%s

Example format: ["New York, NY", "San Francisco, CA", "London, UK", "Toronto, CA"]`, domain, arrayFormat)
	case "segmentSignals":
		return fmt.Sprintf(`Based on the domain %q and product type, suggest exactly 4 qualifying signals or indicators that would identify good prospects for outreach.

%s

Example format: ["Recent funding announcement", "Job postings for relevant roles", "Technology stack changes", "Expansion into new markets"]`, domain, arrayFormat)
	case "segmentBenefits":
		return fmt.Sprintf(`Based on the domain %q and industry %q, suggest exactly 4 specific benefits or value propositions for this particular segment.

%s

Example format: ["30%% faster implementation for manufacturing environments", "Industry-specific compliance and security features", "Integration with existing ERP systems", "24/7 support with industry expertise"]`, domain, c.SegmentIndustry, arrayFormat)
	case "segmentCTA":
		return fmt.Sprintf(`Based on the domain %q and target segment, suggest exactly 4 call-to-action options ranked by priority that would appeal to this segment.

%s

Example format: ["Book a personalized demo", "Start free 30-day trial", "Download industry report", "Schedule consultation call"]`, domain, arrayFormat)
	case "segmentTier1Criteria":
		return fmt.Sprintf(`Based on the domain %q and segment context, suggest exactly 4 Tier 1 qualification criteria that would identify the highest-value prospects.

%s

Example format: ["Annual budget above $100K for this category", "Decision maker identified and accessible", "Active evaluation process within 6 months", "Current pain point with existing solution"]`, domain, arrayFormat)
	case "segmentLookalikeURL":
		return fmt.Sprintf(`Based on the domain %q and segment type, suggest a single URL or resource where lookalike companies can be found for this segment.

IMPORTANT: Return ONLY the URL text. No JSON, no explanation, just the URL.

Example format: https://example.com/company-directory`, domain)
	case "segmentDisqualifying":
		return fmt.Sprintf(`Based on the domain %q and target segment, suggest exactly 4 disqualifying criteria that would indicate a poor fit prospect.

%s

Example format: ["Budget below $50K annually", "No dedicated IT team", "Recent implementation of competing solution", "Not actively looking for solutions in this category"]`, domain, arrayFormat)
	case "personaTitle":
		return fmt.Sprintf(`Based on the segment industry %q and company size %q, suggest exactly 4 job titles that would be key decision makers or influencers for %q.

%s

Example format: ["VP of Engineering", "IT Director", "Chief Technology Officer", "Head of Operations"]`, c.SegmentIndustry, c.SegmentCompanySize, orDefault(c.Description, "this solution"), arrayFormat)
	case "personaSeniority":
		return fmt.Sprintf(`Based on the job title context and industry, suggest exactly 4 seniority levels that would be appropriate for decision makers in this context.

%s

Example format: ["Senior Manager", "Director", "Vice President", "C-Level Executive"]`, arrayFormat)
	case "personaResponsibilities":
		return fmt.Sprintf(`Based on the persona title %q in %q industry, suggest exactly 4 primary responsibilities this person would have in their role.

%s

Example format: ["Oversee technology infrastructure and security", "Manage team of 10-15 engineers and developers", "Drive digital transformation initiatives", "Evaluate and implement new software solutions"]`, c.PersonaTitle, c.SegmentIndustry, arrayFormat)
	case "personaChallenges":
		return fmt.Sprintf(`Based on the persona title %q in %q industry, suggest exactly 4 key challenges or pain points this person typically faces that %q could help solve.

%s

Example format: ["Limited budget for new technology implementations", "Pressure to reduce operational costs while maintaining quality", "Difficulty finding and retaining skilled technical talent", "Need to integrate multiple legacy systems efficiently"]`, c.PersonaTitle, c.SegmentIndustry, orDefault(c.Description, "our solution"), arrayFormat)
	case "personaOKRs":
		return fmt.Sprintf(`Based on the persona title %q in %q industry, suggest exactly 4 typical OKRs (Objectives & Key Results) this person would be responsible for.

%s

Example format: ["Increase system uptime to 99.9%%", "Reduce security incidents by 50%%", "Implement new technology stack within 6 months", "Achieve team satisfaction score of 4.5/5"]`, c.PersonaTitle, c.SegmentIndustry, arrayFormat)
	case "problemsWithRootCauses":
		return fmt.Sprintf(`Based on the domain %q, description %q, and value proposition %q, identify exactly 4 specific problems this company solves, including the root causes of each problem.

%s

Example format: ["Problem 1 - Root cause details", "Problem 2 - Root cause details", "Problem 3 - Root cause details", "Problem 4 - Root cause details"]`, domain, c.Description, c.ValueProposition, arrayFormat)
	case "keyFeatures":
		return fmt.Sprintf(`Based on the domain %q, problems solved %q, suggest exactly 4 key product features that would solve these problems.

%s

Example format: ["Feature 1", "Feature 2", "Feature 3", "Feature 4"]`, domain, strings.Join(c.ProblemsWithRootCauses, ", "), arrayFormat)
	case "businessOutcomes":
		return fmt.Sprintf(`Based on the domain %q, key features %q, suggest exactly 4 specific business outcomes with metrics that customers achieve.

%s

Example format: ["25%% increase in efficiency", "50%% reduction in processing time", "30%% cost savings", "2x faster deployment"]`, domain, strings.Join(c.KeyFeatures, ", "), arrayFormat)
	case "useCases":
		return fmt.Sprintf(`Based on the domain %q, features %q, and outcomes %q, suggest exactly 4 specific use cases or scenarios where customers would use this product.

%s

Example format: ["Use case 1", "Use case 2", "Use case 3", "Use case 4"]`, domain, strings.Join(c.KeyFeatures, ", "), strings.Join(c.BusinessOutcomes, ", "), arrayFormat)
	case "uniqueSellingPoints":
		return fmt.Sprintf(`Based on the domain %q, features %q, and use cases %q, suggest exactly 4 unique selling points that differentiate this company from competitors.

%s

Example format: ["USP 1", "USP 2", "USP 3", "USP 4"]`, domain, strings.Join(c.KeyFeatures, ", "), strings.Join(c.UseCases, ", "), arrayFormat)
	case "urgencyConsequences":
		return fmt.Sprintf(`Based on the domain %q, problems %q, suggest exactly 4 consequences of NOT solving these problems or delaying implementation.

%s

Example format: ["Consequence 1", "Consequence 2", "Consequence 3", "Consequence 4"]`, domain, strings.Join(c.ProblemsWithRootCauses, ", "), arrayFormat)
	default:
		return ""
	}
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

// FieldSuggestions generates autocomplete values for one onboarding
// field. Array fields return a JSON array; an unparseable completion is
// wrapped as a one-item array rather than failing. Scalar fields return
// a JSON string.
func (e *Engine) FieldSuggestions(ctx context.Context, fieldType, domain string, fctx FieldContext) (json.RawMessage, error) {
	prompt := fieldPrompt(fieldType, domain, fctx)
	if prompt == "" {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, fieldType)
	}

	res := e.gateway.Complete(ctx, prompt, genaiOpts(fieldMaxTokens, fieldTemperature))
	if !res.OK {
		return nil, fmt.Errorf("generate %s suggestions: %s", fieldType, res.Reason)
	}

	if arrayFields[fieldType] {
		var items []string
		if err := json.Unmarshal([]byte(res.Text), &items); err != nil {
			items = []string{res.Text}
		}
		return json.Marshal(items)
	}
	return json.Marshal(res.Text)
}
