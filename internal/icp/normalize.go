package icp

import (
	"encoding/json"
	"strings"
)

// StringList accepts both the current list shape and the legacy scalar
// shape on read. A blank scalar normalizes to an empty list. Marshalling
// always emits the list shape.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*l = nil
		return nil
	}
	if strings.HasPrefix(trimmed, "\"") {
		var single string
		if err := json.Unmarshal(data, &single); err != nil {
			return err
		}
		if strings.TrimSpace(single) == "" {
			*l = StringList{}
			return nil
		}
		*l = StringList{strings.TrimSpace(single)}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*l = StringList(cleanStrings(many))
	return nil
}

// cleanStrings trims every entry and drops the blanks, preserving the
// relative order of survivors. It runs on every list field on every
// write path, nested fields included.
func cleanStrings(items []string) []string {
	if items == nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}

// Normalize absorbs legacy document shapes into the canonical current
// shape. It runs on every read from the store and before every persist,
// so core merge logic only ever sees the current shape.
func Normalize(ws *Workspace) {
	if ws == nil {
		return
	}
	if ws.Collaborators == nil {
		ws.Collaborators = []string{}
	}
	ws.UseCases = cleanStrings(ws.UseCases)

	for i := range ws.Products {
		normalizeProduct(&ws.Products[i])
	}
	for i := range ws.Segments {
		normalizeSegment(&ws.Segments[i])
	}

	placeLoosePersonas(ws)
}

func normalizeProduct(p *Product) {
	p.Name = strings.TrimSpace(p.Name)
	p.ValuePropositionVariations = cleanStrings(p.ValuePropositionVariations)
	p.ProblemsWithRootCauses = cleanStrings(p.ProblemsWithRootCauses)
	p.Problems = cleanStrings(p.Problems)
	p.KeyFeatures = cleanStrings(p.KeyFeatures)
	p.Features = cleanStrings(p.Features)
	p.UniqueSellingPoints = cleanStrings(p.UniqueSellingPoints)
	p.USPs = cleanStrings(p.USPs)
	p.Benefits = cleanStrings(p.Benefits)
	p.BusinessOutcomes = cleanStrings(p.BusinessOutcomes)
	p.UseCases = cleanStrings(p.UseCases)
	p.WhyNow = cleanStrings(p.WhyNow)
	p.UrgencyConsequences = cleanStrings(p.UrgencyConsequences)
	p.PricingTiers = cleanStrings(p.PricingTiers)
	p.ClientTimeline = cleanStrings(p.ClientTimeline)
	p.ROIRequirements = cleanStrings(p.ROIRequirements)
	p.SalesDeckURLs = cleanStrings(p.SalesDeckURLs)
	p.CompetitorAnalysis = cleanCompetitorAnalysis(p.CompetitorAnalysis)

	// Old-name-only documents are read through to the new fields; when
	// both are present the new shape wins and the alias is rewritten.
	reconcileAlias(&p.ProblemsWithRootCauses, &p.Problems)
	reconcileAlias(&p.KeyFeatures, &p.Features)
	reconcileAlias(&p.UniqueSellingPoints, &p.USPs)
}

// reconcileAlias resolves a new-shape field against its legacy alias:
// the new field wins when populated, otherwise it adopts the legacy
// value; the alias always ends up mirroring the new field.
func reconcileAlias(current *[]string, legacy *[]string) {
	if len(*current) == 0 && len(*legacy) > 0 {
		*current = append([]string(nil), *legacy...)
	}
	if len(*current) > 0 {
		*legacy = append([]string(nil), *current...)
	}
}

func cleanCompetitorAnalysis(entries []CompetitorAnalysisEntry) []CompetitorAnalysisEntry {
	if entries == nil {
		return nil
	}
	out := make([]CompetitorAnalysisEntry, 0, len(entries))
	for _, entry := range entries {
		entry.Domain = strings.TrimSpace(entry.Domain)
		entry.Differentiation = strings.TrimSpace(entry.Differentiation)
		if entry.Domain == "" && entry.Differentiation == "" {
			continue
		}
		out = append(out, entry)
	}
	return out
}

func normalizeSegment(s *Segment) {
	s.Name = strings.TrimSpace(s.Name)
	s.Locations = cleanStrings(s.Locations)
	s.Characteristics = cleanStrings(s.Characteristics)
	s.Industries = cleanStrings(s.Industries)
	s.CompanySizes = cleanStrings(s.CompanySizes)
	s.Technologies = cleanStrings(s.Technologies)
	s.QualificationCriteria = cleanStrings(s.QualificationCriteria)
	s.Signals = cleanStrings(s.Signals)
	s.PainPoints = cleanStrings(s.PainPoints)
	s.BuyingProcesses = cleanStrings(s.BuyingProcesses)
	s.SpecificBenefits = cleanStrings(s.SpecificBenefits)
	s.AwarenessLevels = StringList(cleanStrings([]string(s.AwarenessLevels)))
	s.CTAOptions = cleanStrings(s.CTAOptions)

	if s.Qualification != nil {
		s.Qualification.Tier1Criteria = cleanStrings(s.Qualification.Tier1Criteria)
		s.Qualification.IdealCriteria = cleanStrings(s.Qualification.IdealCriteria)
		s.Qualification.LookalikeCompanies = cleanStrings(s.Qualification.LookalikeCompanies)
		s.Qualification.DisqualifyingCriteria = cleanStrings(s.Qualification.DisqualifyingCriteria)
	}

	s.Personas = normalizePersonas(s.Personas)
}

// normalizePersonas cleans each persona and applies the admission
// filter: a persona with no non-blank name or title is never stored.
func normalizePersonas(personas []Persona) []Persona {
	out := make([]Persona, 0, len(personas))
	for _, persona := range personas {
		normalizePersona(&persona)
		if persona.DisplayName() == "" {
			continue
		}
		out = append(out, persona)
	}
	return out
}

func normalizePersona(p *Persona) {
	p.Name = strings.TrimSpace(p.Name)
	p.Title = strings.TrimSpace(p.Title)
	if p.Name == "" && p.Title != "" {
		p.Name = p.Title
	}
	p.JobTitles = cleanStrings(p.JobTitles)
	p.PrimaryResponsibilities = cleanStrings(p.PrimaryResponsibilities)
	p.Responsibilities = cleanStrings(p.Responsibilities)
	p.OKRs = cleanStrings(p.OKRs)
	p.PainPoints = cleanStrings(p.PainPoints)
	p.Goals = cleanStrings(p.Goals)
	p.Challenges = cleanStrings(p.Challenges)
	p.Channels = cleanStrings(p.Channels)
	p.Objections = cleanStrings(p.Objections)
	p.Triggers = cleanStrings(p.Triggers)
}

// placeLoosePersonas moves top-level personas under a segment when
// segment context is available: an explicit mappedSegment name wins,
// else the first segment takes them. Without any segment they stay in
// the top-level fallback collection rather than being dropped.
func placeLoosePersonas(ws *Workspace) {
	ws.Personas = normalizePersonas(ws.Personas)
	if len(ws.Personas) == 0 || len(ws.Segments) == 0 {
		return
	}
	for _, persona := range ws.Personas {
		idx := 0
		if persona.MappedSegment != "" {
			if found := segmentIndexByName(ws.Segments, persona.MappedSegment); found >= 0 {
				idx = found
			}
		}
		ws.Segments[idx].Personas = append(ws.Segments[idx].Personas, persona)
	}
	ws.Personas = nil
}

func segmentIndexByName(segments []Segment, name string) int {
	for i, segment := range segments {
		if strings.EqualFold(strings.TrimSpace(segment.Name), strings.TrimSpace(name)) {
			return i
		}
	}
	return -1
}
