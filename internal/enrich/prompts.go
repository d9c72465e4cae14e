package enrich

import (
	"fmt"
	"strings"
)

// styleVariants steer the four parallel GTM summary generations.
var styleVariants = [4]string{
	"Focus on strategic depth and market positioning for large enterprise buyers.",
	"Emphasize tactical implementation, speed-to-value, and practical recommendations.",
	"Focus on innovation potential, ecosystem growth, and future-ready GTM strategy.",
	"Prioritize buyer psychology, emotional triggers, and customer-centric storytelling.",
}

func versionsPrompt(in VersionsInput, variant int) string {
	competitors := make([]string, 0, len(in.Competitors))
	for _, c := range in.Competitors {
		competitors = append(competitors, c.Name)
	}
	return fmt.Sprintf(`You are a senior GTM strategist. Based on the company below, generate expanded Ideal Customer Profile (ICP) information to populate a GTM dashboard.

---

**Company**: %s
**Website**: %s
**What it does**: %s
**Competitors**: %s
**Customer Types**: %s

---

Your goal is to help a go-to-market team deeply understand their ideal customers by producing a structured GTM summary with the following components. Focus on clarity, accuracy, and real-world GTM usage. This will power dashboards and automation.

Return exactly these fields in **valid JSON** format:

1. oneLiner
2. companySummary
3. products { problems[], features[], solution, usp[], whyNow[] }
4. competitorDomains[]
5. salesDeckIdeas[]
6. caseStudies[]
7. ctaOptions[]
8. segments[]
9. personasTable[]

Respond in **valid JSON only**. No Markdown or explanation.

%s`,
		in.CompanyName, in.CompanyURL,
		strings.Join(in.Products, ", "),
		strings.Join(competitors, ", "),
		strings.Join(in.Segments, ", "),
		styleVariants[variant-1])
}

func personaDetailsPrompt(personaTitle, companyName string, products []string) string {
	return fmt.Sprintf(`You are a senior GTM strategist. Based on the persona %q and the company context below, generate detailed persona information.

Company: %s
Products: %s

Generate comprehensive persona details including:
- Pain points (up to 4 specific challenges)
- Goals and objectives (up to 4 items)
- Daily responsibilities (up to 4 items)
- Key challenges they face (up to 4 items)
- Preferred communication channels (up to 4)
- Decision-making triggers (up to 4)
- Objections they might have (up to 4)
- Demographics and profile information

Return ONLY valid JSON with these exact fields:
{
  "painPoints": [],
  "goals": [],
  "responsibilities": [],
  "challenges": [],
  "channels": [],
  "triggers": [],
  "objections": [],
  "demographics": {
    "experience": "",
    "education": "",
    "industry": "",
    "teamSize": "",
    "budget": ""
  }
}`, personaTitle, orNA(companyName), joinOrNA(products))
}

func segmentDetailsPrompt(segmentDescription, companyName string, products []string) string {
	return fmt.Sprintf(`You are a senior GTM strategist. Based on the segment %q and the company context below, generate detailed segment analysis.

Company: %s
Products: %s

Generate comprehensive segment details including:
- Key characteristics and firmographics (up to 4)
- Specific pain points this segment faces (up to 4)
- Market size and growth potential
- Buying behavior patterns (up to 4 for each array)
- Qualification criteria (up to 4 for each array)
- Competitive landscape
- Success metrics and KPIs

Return ONLY valid JSON with these exact fields:
{
  "characteristics": [],
  "painPoints": [],
  "marketSize": "",
  "growthRate": "",
  "buyingBehavior": {
    "decisionTimeframe": "",
    "budgetRange": "",
    "decisionMakers": [],
    "evaluationCriteria": []
  },
  "qualification": {
    "idealCriteria": [],
    "disqualifyingCriteria": [],
    "lookalikeCompanies": []
  }
}`, segmentDescription, orNA(companyName), joinOrNA(products))
}

func productDetailsPrompt(productName, companyName string) string {
	return fmt.Sprintf(`You are a senior GTM strategist. Based on the product %q and the company context below, generate detailed product information.

Company: %s
Product: %s

Generate comprehensive product details including:
- Key features and capabilities (up to 4)
- Problems it solves (up to 4)
- Unique selling propositions (up to 4)
- Target use cases (up to 4)
- Benefits and value props (up to 4)
- Competitive advantages (up to 4)
- Implementation considerations (up to 4 for each array)

Return ONLY valid JSON with these exact fields:
{
  "features": [],
  "problems": [],
  "usps": [],
  "useCases": [],
  "benefits": [],
  "competitiveAdvantages": [],
  "implementation": {
    "timeToValue": "",
    "complexity": "",
    "requirements": [],
    "successFactors": []
  }
}`, productName, orNA(companyName), productName)
}

// stepPrompt renders the onboarding suggestion prompt for a wizard
// step, or "" for an unknown step.
func stepPrompt(step int, form StepForm, companyName string) string {
	switch step {
	case 1:
		return fmt.Sprintf(`Based on the company %q and their website %q, suggest 3-5 main products or services they offer. Focus on their core value propositions and what they actually sell.

IMPORTANT: Return ONLY a valid JSON array of strings. No explanation, no markdown, just the JSON array.

Example format: ["Product 1", "Product 2", "Product 3"]`, companyName, form.CompanyURL)
	case 2:
		return fmt.Sprintf(`Based on the company %q and their products %q, suggest 3-5 target buyer personas. These should be decision-makers who would purchase these products. Include job titles and brief descriptions.

IMPORTANT: Return ONLY a valid JSON array of strings. No explanation, no markdown, just the JSON array.

Example format: ["VP of Engineering", "Marketing Director", "Sales Manager"]`, companyName, strings.Join(form.Products, ", "))
	case 3:
		return fmt.Sprintf(`Based on the company %q, their products %q, and target personas %q, suggest 3-5 specific use cases or scenarios where customers would use these products.

IMPORTANT: Return ONLY a valid JSON array of strings. No explanation, no markdown, just the JSON array.

Example format: ["Use case 1", "Use case 2", "Use case 3"]`, companyName, strings.Join(form.Products, ", "), strings.Join(form.Personas, ", "))
	case 4:
		return fmt.Sprintf(`Based on the company %q, their products %q, and use cases %q, write a compelling differentiation statement. What makes this company unique? What's their competitive advantage?

IMPORTANT: Return ONLY a single string. No explanation, no markdown, just the string.

Example format: "Our unique value proposition is..."`, companyName, strings.Join(form.Products, ", "), strings.Join(form.UseCases, ", "))
	case 5:
		return fmt.Sprintf(`Based on the company %q, their products %q, and differentiation %q, suggest 3-5 market segments they should target. Consider industry, company size, geography, etc.

IMPORTANT: Return ONLY a valid JSON array of strings. No explanation, no markdown, just the JSON array.

Example format: ["Segment 1", "Segment 2", "Segment 3"]`, companyName, strings.Join(form.Products, ", "), form.Differentiation)
	case 6:
		return fmt.Sprintf(`Based on the company %q, their products %q, and market segments %q, suggest 3-5 direct competitors. Include both company names and their websites.

IMPORTANT: Return ONLY a valid JSON array of objects with "name" and "url" properties. No explanation, no markdown, just the JSON array.

Example format: [{"name": "Competitor 1", "url": "https://competitor1.com"}, {"name": "Competitor 2", "url": "https://competitor2.com"}]`, companyName, strings.Join(form.Products, ", "), strings.Join(form.Segments, ", "))
	default:
		return ""
	}
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func joinOrNA(items []string) string {
	if len(items) == 0 {
		return "N/A"
	}
	return strings.Join(items, ", ")
}
