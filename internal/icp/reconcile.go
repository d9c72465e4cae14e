package icp

import (
	"strings"
	"time"

	"compass/api/internal/util"
)

// Patch types carry partial updates. A nil pointer means the field was
// absent from the payload and the stored value is left untouched; a
// pointer to an empty value is an explicit clear. Unknown payload fields
// are ignored by construction: only allow-listed fields exist here.

type WorkspacePatch struct {
	Name             *string `json:"name"`
	CompanyName      *string `json:"companyName"`
	CompanyURL       *string `json:"companyUrl"`
	Domain           *string `json:"domain"`
	NumberOfSegments *int    `json:"numberOfSegments"`

	Differentiation *string          `json:"differentiation"`
	UseCases        *[]string        `json:"useCases"`
	Competitors     *[]CompetitorRef `json:"competitors"`

	AdminAccess        *AdminAccess             `json:"adminAccess"`
	SocialProof        *SocialProofPatch        `json:"socialProof"`
	OutboundExperience *OutboundExperiencePatch `json:"outboundExperience"`

	Product  *ProductPatch   `json:"product"`
	Products *[]ProductPatch `json:"products"`
	Segments *[]SegmentPatch `json:"segments"`
	Personas *[]PersonaPatch `json:"personas"`
}

type SocialProofPatch struct {
	CaseStudies  *[]CaseStudy   `json:"caseStudies"`
	Testimonials *[]Testimonial `json:"testimonials"`
}

type OutboundExperiencePatch struct {
	SuccessfulEmails      *[]string `json:"successfulEmails"`
	SuccessfulCallScripts *[]string `json:"successfulCallScripts"`
}

type ProductPatch struct {
	ID             *string `json:"id"`
	Name           *string `json:"name"`
	Description    *string `json:"description"`
	Category       *string `json:"category"`
	TargetAudience *string `json:"targetAudience"`

	ValueProposition           *string   `json:"valueProposition"`
	ValuePropositionVariations *[]string `json:"valuePropositionVariations"`

	ProblemsWithRootCauses *[]string `json:"problemsWithRootCauses"`
	Problems               *[]string `json:"problems"`
	KeyFeatures            *[]string `json:"keyFeatures"`
	Features               *[]string `json:"features"`
	UniqueSellingPoints    *[]string `json:"uniqueSellingPoints"`
	USPs                   *[]string `json:"usps"`

	Benefits            *[]string                  `json:"benefits"`
	BusinessOutcomes    *[]string                  `json:"businessOutcomes"`
	UseCases            *[]string                  `json:"useCases"`
	CompetitorAnalysis  *[]CompetitorAnalysisEntry `json:"competitorAnalysis"`
	Solution            *string                    `json:"solution"`
	WhyNow              *[]string                  `json:"whyNow"`
	UrgencyConsequences *[]string                  `json:"urgencyConsequences"`

	Pricing         *string   `json:"pricing"`
	PricingTiers    *[]string `json:"pricingTiers"`
	ClientTimeline  *[]string `json:"clientTimeline"`
	ROIRequirements *[]string `json:"roiRequirements"`
	SalesDeckURLs   *[]string `json:"salesDeckUrl"`

	Status   *string `json:"status"`
	Priority *string `json:"priority"`
}

type SegmentPatch struct {
	ID          *string `json:"id"`
	Name        *string `json:"name"`
	Description *string `json:"description"`

	Industry      *string   `json:"industry"`
	CompanySize   *string   `json:"companySize"`
	EmployeeCount *string   `json:"employeeCount"`
	Geography     *string   `json:"geography"`
	Locations     *[]string `json:"locations"`
	MarketSize    *string   `json:"marketSize"`
	GrowthRate    *string   `json:"growthRate"`

	Characteristics       *[]string       `json:"characteristics"`
	Industries            *[]string       `json:"industries"`
	CompanySizes          *[]string       `json:"companySizes"`
	Technologies          *[]string       `json:"technologies"`
	QualificationCriteria *[]string       `json:"qualificationCriteria"`
	Signals               *[]string       `json:"signals"`
	PainPoints            *[]string       `json:"painPoints"`
	BuyingProcesses       *[]string       `json:"buyingProcesses"`
	Firmographics         *[]Firmographic `json:"firmographics"`
	SpecificBenefits      *[]string       `json:"specificBenefits"`

	AwarenessLevels *StringList `json:"awarenessLevel"`

	CTAOptions    *[]string      `json:"ctaOptions"`
	Qualification *Qualification `json:"qualification"`

	Personas *[]PersonaPatch `json:"personas"`

	Status   *string `json:"status"`
	Priority *string `json:"priority"`
}

type PersonaPatch struct {
	ID    *string `json:"id"`
	Name  *string `json:"name"`
	Title *string `json:"title"`

	JobTitles  *[]string `json:"jobTitles"`
	Department *string   `json:"department"`
	Seniority  *string   `json:"seniority"`

	MappedSegment     *string `json:"mappedSegment"`
	DecisionInfluence *string `json:"decisionInfluence"`

	ValueProposition *string `json:"valueProposition"`
	SpecificCTA      *string `json:"specificCTA"`

	PrimaryResponsibilities *[]string `json:"primaryResponsibilities"`
	Responsibilities        *[]string `json:"responsibilities"`
	OKRs                    *[]string `json:"okrs"`
	PainPoints              *[]string `json:"painPoints"`
	Goals                   *[]string `json:"goals"`
	Challenges              *[]string `json:"challenges"`
	Channels                *[]string `json:"channels"`
	Objections              *[]string `json:"objections"`
	Triggers                *[]string `json:"triggers"`

	Demographics *Demographics `json:"demographics"`

	Status   *string `json:"status"`
	Priority *string `json:"priority"`
}

func setString(dst *string, src *string, changed *bool) {
	if src == nil {
		return
	}
	*dst = strings.TrimSpace(*src)
	*changed = true
}

func setInt(dst *int, src *int, changed *bool) {
	if src == nil {
		return
	}
	*dst = *src
	*changed = true
}

func setList(dst *[]string, src *[]string, changed *bool) {
	if src == nil {
		return
	}
	*dst = cleanStrings(*src)
	*changed = true
}

// Apply merges a patch onto the stored document using identity-matched
// merge for sub-entity lists; the product and segment endpoints write
// through it. The bulk endpoints use ApplyReplace instead, which
// replaces whole sections.
func Apply(ws *Workspace, patch WorkspacePatch, now time.Time) {
	applyWorkspaceScalars(ws, patch, now)
	if patch.Product != nil {
		ws.Products = MergeProducts(ws.Products, []ProductPatch{*patch.Product}, now)
	}
	if patch.Products != nil {
		ws.Products = MergeProducts(ws.Products, *patch.Products, now)
	}
	if patch.Segments != nil {
		ws.Segments = MergeSegments(ws.Segments, *patch.Segments, now)
	}
	if patch.Personas != nil {
		ws.Personas = MergePersonas(ws.Personas, *patch.Personas, now)
	}
	Normalize(ws)
	ws.UpdatedAt = now
}

// ApplyReplace merges scalar fields like Apply but replaces the
// sub-entity sections that are present in the patch outright: the result
// contains exactly the incoming items. Items that carry the id of an
// existing entity keep its creation time and unspecified fields.
func ApplyReplace(ws *Workspace, patch WorkspacePatch, now time.Time) {
	applyWorkspaceScalars(ws, patch, now)
	if patch.Product != nil {
		// Single-product shape: update the first product in place, or
		// create it when the workspace has none yet.
		if len(ws.Products) > 0 {
			applyProduct(&ws.Products[0], *patch.Product, now)
		} else {
			ws.Products = []Product{newProduct(*patch.Product, now)}
		}
	}
	if patch.Products != nil {
		ws.Products = ReplaceProducts(ws.Products, *patch.Products, now)
	}
	if patch.Segments != nil {
		ws.Segments = ReplaceSegments(ws.Segments, *patch.Segments, now)
	}
	if patch.Personas != nil {
		ws.Personas = ReplacePersonas(ws.Personas, *patch.Personas, now)
	}
	Normalize(ws)
	ws.UpdatedAt = now
}

func applyWorkspaceScalars(ws *Workspace, patch WorkspacePatch, now time.Time) {
	changed := false
	setString(&ws.Name, patch.Name, &changed)
	setString(&ws.CompanyName, patch.CompanyName, &changed)
	setString(&ws.CompanyURL, patch.CompanyURL, &changed)
	setString(&ws.Domain, patch.Domain, &changed)
	setInt(&ws.NumberOfSegments, patch.NumberOfSegments, &changed)
	setString(&ws.Differentiation, patch.Differentiation, &changed)
	setList(&ws.UseCases, patch.UseCases, &changed)
	if patch.Competitors != nil {
		ws.Competitors = cleanCompetitorRefs(*patch.Competitors)
	}
	if patch.AdminAccess != nil {
		admin := *patch.AdminAccess
		ws.AdminAccess = &admin
	}
	if patch.SocialProof != nil {
		applySocialProof(ws, *patch.SocialProof)
	}
	if patch.OutboundExperience != nil {
		applyOutboundExperience(ws, *patch.OutboundExperience)
	}
}

func cleanCompetitorRefs(refs []CompetitorRef) []CompetitorRef {
	out := make([]CompetitorRef, 0, len(refs))
	for _, ref := range refs {
		ref.Name = strings.TrimSpace(ref.Name)
		ref.URL = strings.TrimSpace(ref.URL)
		if ref.Name == "" && ref.URL == "" {
			continue
		}
		out = append(out, ref)
	}
	return out
}

func applySocialProof(ws *Workspace, patch SocialProofPatch) {
	if ws.SocialProof == nil {
		ws.SocialProof = &SocialProof{}
	}
	if patch.CaseStudies != nil {
		studies := make([]CaseStudy, 0, len(*patch.CaseStudies))
		for _, study := range *patch.CaseStudies {
			if strings.TrimSpace(study.URL) == "" &&
				strings.TrimSpace(study.Title) == "" &&
				strings.TrimSpace(study.Description) == "" {
				continue
			}
			studies = append(studies, study)
		}
		ws.SocialProof.CaseStudies = studies
	}
	if patch.Testimonials != nil {
		testimonials := make([]Testimonial, 0, len(*patch.Testimonials))
		for _, testimonial := range *patch.Testimonials {
			if strings.TrimSpace(testimonial.Content) == "" &&
				strings.TrimSpace(testimonial.Author) == "" {
				continue
			}
			testimonials = append(testimonials, testimonial)
		}
		ws.SocialProof.Testimonials = testimonials
	}
}

func applyOutboundExperience(ws *Workspace, patch OutboundExperiencePatch) {
	if ws.OutboundExperience == nil {
		ws.OutboundExperience = &OutboundExperience{}
	}
	changed := false
	setList(&ws.OutboundExperience.SuccessfulEmails, patch.SuccessfulEmails, &changed)
	setList(&ws.OutboundExperience.SuccessfulCallScripts, patch.SuccessfulCallScripts, &changed)
}

// MergeProducts matches incoming items to existing ones by stable id and
// appends the rest as new entities. Omission from the incoming list is
// never a deletion; DeleteProduct exists for that.
func MergeProducts(existing []Product, patches []ProductPatch, now time.Time) []Product {
	out := existing
	for _, patch := range patches {
		if idx := productIndexByID(out, patchID(patch.ID)); idx >= 0 {
			applyProduct(&out[idx], patch, now)
			continue
		}
		out = append(out, newProduct(patch, now))
	}
	return out
}

// ReplaceProducts builds the section from the incoming items alone.
func ReplaceProducts(existing []Product, patches []ProductPatch, now time.Time) []Product {
	out := make([]Product, 0, len(patches))
	for _, patch := range patches {
		if idx := productIndexByID(existing, patchID(patch.ID)); idx >= 0 {
			kept := existing[idx]
			applyProduct(&kept, patch, now)
			out = append(out, kept)
			continue
		}
		out = append(out, newProduct(patch, now))
	}
	return out
}

func patchID(id *string) string {
	if id == nil {
		return ""
	}
	return strings.TrimSpace(*id)
}

func productIndexByID(products []Product, id string) int {
	if id == "" {
		return -1
	}
	for i, product := range products {
		if product.ID == id {
			return i
		}
	}
	return -1
}

func newProduct(patch ProductPatch, now time.Time) Product {
	product := Product{ID: patchID(patch.ID), CreatedAt: now, Status: "active", Priority: "medium"}
	if product.ID == "" {
		product.ID = util.NewEntityID()
	}
	applyProduct(&product, patch, now)
	return product
}

func applyProduct(dst *Product, patch ProductPatch, now time.Time) {
	changed := false
	setString(&dst.Name, patch.Name, &changed)
	setString(&dst.Description, patch.Description, &changed)
	setString(&dst.Category, patch.Category, &changed)
	setString(&dst.TargetAudience, patch.TargetAudience, &changed)
	setString(&dst.ValueProposition, patch.ValueProposition, &changed)
	setList(&dst.ValuePropositionVariations, patch.ValuePropositionVariations, &changed)

	// Legacy aliases apply first so the new shape wins when both are
	// present; writing the new shape always rewrites its alias.
	setList(&dst.Problems, patch.Problems, &changed)
	setList(&dst.Features, patch.Features, &changed)
	setList(&dst.USPs, patch.USPs, &changed)
	if patch.ProblemsWithRootCauses != nil {
		setList(&dst.ProblemsWithRootCauses, patch.ProblemsWithRootCauses, &changed)
		dst.Problems = append([]string(nil), dst.ProblemsWithRootCauses...)
	}
	if patch.KeyFeatures != nil {
		setList(&dst.KeyFeatures, patch.KeyFeatures, &changed)
		dst.Features = append([]string(nil), dst.KeyFeatures...)
	}
	if patch.UniqueSellingPoints != nil {
		setList(&dst.UniqueSellingPoints, patch.UniqueSellingPoints, &changed)
		dst.USPs = append([]string(nil), dst.UniqueSellingPoints...)
	}

	setList(&dst.Benefits, patch.Benefits, &changed)
	setList(&dst.BusinessOutcomes, patch.BusinessOutcomes, &changed)
	setList(&dst.UseCases, patch.UseCases, &changed)
	setString(&dst.Solution, patch.Solution, &changed)
	setList(&dst.WhyNow, patch.WhyNow, &changed)
	setList(&dst.UrgencyConsequences, patch.UrgencyConsequences, &changed)
	setString(&dst.Pricing, patch.Pricing, &changed)
	setList(&dst.PricingTiers, patch.PricingTiers, &changed)
	setList(&dst.ClientTimeline, patch.ClientTimeline, &changed)
	setList(&dst.ROIRequirements, patch.ROIRequirements, &changed)
	setList(&dst.SalesDeckURLs, patch.SalesDeckURLs, &changed)
	setString(&dst.Status, patch.Status, &changed)
	setString(&dst.Priority, patch.Priority, &changed)
	if patch.CompetitorAnalysis != nil {
		dst.CompetitorAnalysis = cleanCompetitorAnalysis(*patch.CompetitorAnalysis)
		changed = true
	}
	if changed {
		dst.UpdatedAt = now
	}
}

// MergeSegments follows the same identity rules as MergeProducts;
// persona lists nested in a matched segment are themselves merged by id.
func MergeSegments(existing []Segment, patches []SegmentPatch, now time.Time) []Segment {
	out := existing
	for _, patch := range patches {
		if idx := segmentIndexByID(out, patchID(patch.ID)); idx >= 0 {
			applySegment(&out[idx], patch, now, false)
			continue
		}
		out = append(out, newSegment(patch, now))
	}
	return out
}

func ReplaceSegments(existing []Segment, patches []SegmentPatch, now time.Time) []Segment {
	out := make([]Segment, 0, len(patches))
	for _, patch := range patches {
		if idx := segmentIndexByID(existing, patchID(patch.ID)); idx >= 0 {
			kept := existing[idx]
			applySegment(&kept, patch, now, true)
			out = append(out, kept)
			continue
		}
		out = append(out, newSegment(patch, now))
	}
	return out
}

func segmentIndexByID(segments []Segment, id string) int {
	if id == "" {
		return -1
	}
	for i, segment := range segments {
		if segment.ID == id {
			return i
		}
	}
	return -1
}

func newSegment(patch SegmentPatch, now time.Time) Segment {
	segment := Segment{ID: patchID(patch.ID), CreatedAt: now, Status: "active", Priority: "medium"}
	if segment.ID == "" {
		segment.ID = util.NewEntityID()
	}
	applySegment(&segment, patch, now, true)
	return segment
}

func applySegment(dst *Segment, patch SegmentPatch, now time.Time, replacePersonas bool) {
	changed := false
	setString(&dst.Name, patch.Name, &changed)
	setString(&dst.Description, patch.Description, &changed)
	setString(&dst.Industry, patch.Industry, &changed)
	setString(&dst.CompanySize, patch.CompanySize, &changed)
	setString(&dst.EmployeeCount, patch.EmployeeCount, &changed)
	setString(&dst.Geography, patch.Geography, &changed)
	setList(&dst.Locations, patch.Locations, &changed)
	setString(&dst.MarketSize, patch.MarketSize, &changed)
	setString(&dst.GrowthRate, patch.GrowthRate, &changed)
	setList(&dst.Characteristics, patch.Characteristics, &changed)
	setList(&dst.Industries, patch.Industries, &changed)
	setList(&dst.CompanySizes, patch.CompanySizes, &changed)
	setList(&dst.Technologies, patch.Technologies, &changed)
	setList(&dst.QualificationCriteria, patch.QualificationCriteria, &changed)
	setList(&dst.Signals, patch.Signals, &changed)
	setList(&dst.PainPoints, patch.PainPoints, &changed)
	setList(&dst.BuyingProcesses, patch.BuyingProcesses, &changed)
	setList(&dst.SpecificBenefits, patch.SpecificBenefits, &changed)
	setList(&dst.CTAOptions, patch.CTAOptions, &changed)
	setString(&dst.Status, patch.Status, &changed)
	setString(&dst.Priority, patch.Priority, &changed)
	if patch.AwarenessLevels != nil {
		dst.AwarenessLevels = StringList(cleanStrings([]string(*patch.AwarenessLevels)))
		changed = true
	}
	if patch.Firmographics != nil {
		dst.Firmographics = *patch.Firmographics
		changed = true
	}
	if patch.Qualification != nil {
		qualification := *patch.Qualification
		dst.Qualification = &qualification
		changed = true
	}
	if patch.Personas != nil {
		if replacePersonas {
			dst.Personas = ReplacePersonas(dst.Personas, *patch.Personas, now)
		} else {
			dst.Personas = MergePersonas(dst.Personas, *patch.Personas, now)
		}
		changed = true
	}
	if changed {
		dst.UpdatedAt = now
	}
}

// MergePersonas merges by stable id and appends unmatched items. The
// admission filter runs on the merged result: a persona left without a
// non-blank name or title never reaches the store.
func MergePersonas(existing []Persona, patches []PersonaPatch, now time.Time) []Persona {
	out := existing
	for _, patch := range patches {
		if idx := personaIndexByID(out, patchID(patch.ID)); idx >= 0 {
			applyPersona(&out[idx], patch, now)
			continue
		}
		out = append(out, newPersona(patch, now))
	}
	return normalizePersonas(out)
}

func ReplacePersonas(existing []Persona, patches []PersonaPatch, now time.Time) []Persona {
	out := make([]Persona, 0, len(patches))
	for _, patch := range patches {
		if idx := personaIndexByID(existing, patchID(patch.ID)); idx >= 0 {
			kept := existing[idx]
			applyPersona(&kept, patch, now)
			out = append(out, kept)
			continue
		}
		out = append(out, newPersona(patch, now))
	}
	return normalizePersonas(out)
}

func personaIndexByID(personas []Persona, id string) int {
	if id == "" {
		return -1
	}
	for i, persona := range personas {
		if persona.ID == id {
			return i
		}
	}
	return -1
}

func newPersona(patch PersonaPatch, now time.Time) Persona {
	persona := Persona{ID: patchID(patch.ID), CreatedAt: now, Status: "active", Priority: "medium"}
	if persona.ID == "" {
		persona.ID = util.NewEntityID()
	}
	applyPersona(&persona, patch, now)
	return persona
}

func applyPersona(dst *Persona, patch PersonaPatch, now time.Time) {
	changed := false
	setString(&dst.Name, patch.Name, &changed)
	setString(&dst.Title, patch.Title, &changed)
	setList(&dst.JobTitles, patch.JobTitles, &changed)
	setString(&dst.Department, patch.Department, &changed)
	setString(&dst.Seniority, patch.Seniority, &changed)
	setString(&dst.MappedSegment, patch.MappedSegment, &changed)
	setString(&dst.DecisionInfluence, patch.DecisionInfluence, &changed)
	setString(&dst.ValueProposition, patch.ValueProposition, &changed)
	setString(&dst.SpecificCTA, patch.SpecificCTA, &changed)
	setList(&dst.PrimaryResponsibilities, patch.PrimaryResponsibilities, &changed)
	setList(&dst.Responsibilities, patch.Responsibilities, &changed)
	setList(&dst.OKRs, patch.OKRs, &changed)
	setList(&dst.PainPoints, patch.PainPoints, &changed)
	setList(&dst.Goals, patch.Goals, &changed)
	setList(&dst.Challenges, patch.Challenges, &changed)
	setList(&dst.Channels, patch.Channels, &changed)
	setList(&dst.Objections, patch.Objections, &changed)
	setList(&dst.Triggers, patch.Triggers, &changed)
	setString(&dst.Status, patch.Status, &changed)
	setString(&dst.Priority, patch.Priority, &changed)
	if patch.Demographics != nil {
		demographics := *patch.Demographics
		dst.Demographics = &demographics
		changed = true
	}
	if changed {
		dst.UpdatedAt = now
	}
}

// DeleteProductByID removes a product, reporting whether it existed.
func DeleteProductByID(ws *Workspace, id string) bool {
	if idx := productIndexByID(ws.Products, id); idx >= 0 {
		ws.Products = append(ws.Products[:idx], ws.Products[idx+1:]...)
		return true
	}
	return false
}

// DeleteSegmentByID removes a segment and every persona it owns.
func DeleteSegmentByID(ws *Workspace, id string) bool {
	if idx := segmentIndexByID(ws.Segments, id); idx >= 0 {
		ws.Segments = append(ws.Segments[:idx], ws.Segments[idx+1:]...)
		return true
	}
	return false
}

// DeletePersonaByID removes a persona from the named segment.
func DeletePersonaByID(segment *Segment, id string) bool {
	if idx := personaIndexByID(segment.Personas, id); idx >= 0 {
		segment.Personas = append(segment.Personas[:idx], segment.Personas[idx+1:]...)
		return true
	}
	return false
}

// SegmentByID returns a pointer into the workspace's segment list.
func SegmentByID(ws *Workspace, id string) *Segment {
	if idx := segmentIndexByID(ws.Segments, id); idx >= 0 {
		return &ws.Segments[idx]
	}
	return nil
}
