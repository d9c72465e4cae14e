// Package icp holds the canonical workspace document model and the
// reconciliation rules that merge partial updates onto it.
package icp

import (
	"encoding/json"
	"time"
)

// Workspace is the root aggregate. One workspace is one document in the
// store; sub-entities are owned exclusively by their workspace.
type Workspace struct {
	ID            string   `json:"id"`
	Slug          string   `json:"slug"`
	Name          string   `json:"name"`
	CompanyName   string   `json:"companyName"`
	CompanyURL    string   `json:"companyUrl"`
	Domain        string   `json:"domain,omitempty"`
	OwnerID       string   `json:"ownerId"`
	Collaborators []string `json:"collaborators"`

	NumberOfSegments   int                 `json:"numberOfSegments,omitempty"`
	AdminAccess        *AdminAccess        `json:"adminAccess,omitempty"`
	SocialProof        *SocialProof        `json:"socialProof,omitempty"`
	OutboundExperience *OutboundExperience `json:"outboundExperience,omitempty"`

	Products []Product `json:"products"`
	Segments []Segment `json:"segments"`

	// Personas is the top-level fallback collection for legacy payloads
	// that carry personas outside any segment. Ingest moves them under a
	// segment whenever segment context is available.
	Personas []Persona `json:"personas,omitempty"`

	// Simple legacy fields kept for consumers of the old document shape.
	UseCases        []string        `json:"useCases,omitempty"`
	Differentiation string          `json:"differentiation,omitempty"`
	Competitors     []CompetitorRef `json:"competitors,omitempty"`

	// EnrichmentVersions maps style-variant numbers ("1".."4") to
	// generated GTM summaries. A variant that ran and failed is stored as
	// JSON null, so "not yet run" (missing key) stays distinguishable.
	EnrichmentVersions map[string]json.RawMessage `json:"icpEnrichmentVersions,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CompetitorRef is the legacy name+url competitor pair used by the bulk
// ICP payload. Structured competitor notes live in CompetitorAnalysis.
type CompetitorRef struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type AdminAccess struct {
	EmailSignatures       []EmailSignature `json:"emailSignatures,omitempty"`
	PlatformAccessGranted bool             `json:"platformAccessGranted"`
}

type EmailSignature struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Title     string `json:"title"`
}

type SocialProof struct {
	CaseStudies  []CaseStudy   `json:"caseStudies"`
	Testimonials []Testimonial `json:"testimonials"`
}

type CaseStudy struct {
	URL           string `json:"url,omitempty"`
	MarketSegment string `json:"marketSegment,omitempty"`
	Title         string `json:"title,omitempty"`
	Description   string `json:"description,omitempty"`
}

type Testimonial struct {
	Content string `json:"content,omitempty"`
	Author  string `json:"author,omitempty"`
	Company string `json:"company,omitempty"`
	Metrics string `json:"metrics,omitempty"`
	Title   string `json:"title,omitempty"`
}

type OutboundExperience struct {
	SuccessfulEmails      []string `json:"successfulEmails"`
	SuccessfulCallScripts []string `json:"successfulCallScripts"`
}

type Product struct {
	ID             string `json:"id,omitempty"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	Category       string `json:"category,omitempty"`
	TargetAudience string `json:"targetAudience,omitempty"`

	ValueProposition           string   `json:"valueProposition,omitempty"`
	ValuePropositionVariations []string `json:"valuePropositionVariations,omitempty"`

	// ProblemsWithRootCauses is the current shape; Problems is its legacy
	// alias, rewritten from the new value on every write. Same for
	// KeyFeatures/Features and UniqueSellingPoints/USPs.
	ProblemsWithRootCauses []string `json:"problemsWithRootCauses,omitempty"`
	Problems               []string `json:"problems,omitempty"`
	KeyFeatures            []string `json:"keyFeatures,omitempty"`
	Features               []string `json:"features,omitempty"`
	UniqueSellingPoints    []string `json:"uniqueSellingPoints,omitempty"`
	USPs                   []string `json:"usps,omitempty"`

	Benefits            []string                  `json:"benefits,omitempty"`
	BusinessOutcomes    []string                  `json:"businessOutcomes,omitempty"`
	UseCases            []string                  `json:"useCases,omitempty"`
	CompetitorAnalysis  []CompetitorAnalysisEntry `json:"competitorAnalysis,omitempty"`
	Solution            string                    `json:"solution,omitempty"`
	WhyNow              []string                  `json:"whyNow,omitempty"`
	UrgencyConsequences []string                  `json:"urgencyConsequences,omitempty"`

	Pricing         string   `json:"pricing,omitempty"`
	PricingTiers    []string `json:"pricingTiers,omitempty"`
	ClientTimeline  []string `json:"clientTimeline,omitempty"`
	ROIRequirements []string `json:"roiRequirements,omitempty"`
	SalesDeckURLs   []string `json:"salesDeckUrl,omitempty"`

	Status   string `json:"status,omitempty"`
	Priority string `json:"priority,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CompetitorAnalysisEntry struct {
	Domain          string `json:"domain"`
	Differentiation string `json:"differentiation"`
}

type Segment struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	Industry      string   `json:"industry,omitempty"`
	CompanySize   string   `json:"companySize,omitempty"`
	EmployeeCount string   `json:"employeeCount,omitempty"`
	Geography     string   `json:"geography,omitempty"`
	Locations     []string `json:"locations,omitempty"`
	MarketSize    string   `json:"marketSize,omitempty"`
	GrowthRate    string   `json:"growthRate,omitempty"`

	Characteristics       []string       `json:"characteristics,omitempty"`
	Industries            []string       `json:"industries,omitempty"`
	CompanySizes          []string       `json:"companySizes,omitempty"`
	Technologies          []string       `json:"technologies,omitempty"`
	QualificationCriteria []string       `json:"qualificationCriteria,omitempty"`
	Signals               []string       `json:"signals,omitempty"`
	PainPoints            []string       `json:"painPoints,omitempty"`
	BuyingProcesses       []string       `json:"buyingProcesses,omitempty"`
	Firmographics         []Firmographic `json:"firmographics,omitempty"`
	SpecificBenefits      []string       `json:"specificBenefits,omitempty"`

	// AwarenessLevels was a single enum string in early document
	// revisions; StringList accepts both shapes on read and always
	// marshals the current list shape.
	AwarenessLevels StringList `json:"awarenessLevel,omitempty"`

	CTAOptions    []string       `json:"ctaOptions,omitempty"`
	Qualification *Qualification `json:"qualification,omitempty"`

	Personas []Persona `json:"personas"`

	Status   string `json:"status,omitempty"`
	Priority string `json:"priority,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Firmographic struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type Qualification struct {
	Tier1Criteria         []string `json:"tier1Criteria,omitempty"`
	IdealCriteria         []string `json:"idealCriteria,omitempty"`
	LookalikeCompanies    []string `json:"lookalikeCompanies,omitempty"`
	DisqualifyingCriteria []string `json:"disqualifyingCriteria,omitempty"`
}

type Persona struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Title string `json:"title,omitempty"`

	JobTitles  []string `json:"jobTitles,omitempty"`
	Department string   `json:"department,omitempty"`
	Seniority  string   `json:"seniority,omitempty"`

	// MappedSegment carries the owning segment's name in legacy payloads
	// where personas arrive outside any segment.
	MappedSegment string `json:"mappedSegment,omitempty"`

	// DecisionInfluence is an open string; RecommendedInfluence lists the
	// values the product UI offers, but others are accepted.
	DecisionInfluence string `json:"decisionInfluence,omitempty"`

	ValueProposition string `json:"valueProposition,omitempty"`
	SpecificCTA      string `json:"specificCTA,omitempty"`

	PrimaryResponsibilities []string `json:"primaryResponsibilities,omitempty"`
	Responsibilities        []string `json:"responsibilities,omitempty"`
	OKRs                    []string `json:"okrs,omitempty"`
	PainPoints              []string `json:"painPoints,omitempty"`
	Goals                   []string `json:"goals,omitempty"`
	Challenges              []string `json:"challenges,omitempty"`
	Channels                []string `json:"channels,omitempty"`
	Objections              []string `json:"objections,omitempty"`
	Triggers                []string `json:"triggers,omitempty"`

	Demographics *Demographics `json:"demographics,omitempty"`

	Status   string `json:"status,omitempty"`
	Priority string `json:"priority,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Demographics struct {
	Age        string `json:"age,omitempty"`
	Experience string `json:"experience,omitempty"`
	Education  string `json:"education,omitempty"`
	Industry   string `json:"industry,omitempty"`
	TeamSize   string `json:"teamSize,omitempty"`
	Budget     string `json:"budget,omitempty"`
}

// RecommendedInfluence is the advisory value set for
// Persona.DecisionInfluence.
var RecommendedInfluence = map[string]struct{}{
	"Decision Maker": {},
	"Champion":       {},
	"End User":       {},
	"Influencer":     {},
	"Gatekeeper":     {},
}

// DisplayName returns the persona's best available label.
func (p Persona) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Title
}
