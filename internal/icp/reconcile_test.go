package icp

import (
	"reflect"
	"testing"
	"time"
)

func strp(s string) *string       { return &s }
func listp(s ...string) *[]string { return &s }

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
var t1 = t0.Add(time.Hour)

func TestApplyNilPointerLeavesFieldUntouched(t *testing.T) {
	ws := &Workspace{Name: "Acme", CompanyURL: "https://acme.test"}
	Apply(ws, WorkspacePatch{Name: strp("Acme GTM")}, t1)
	if ws.Name != "Acme GTM" {
		t.Errorf("name = %q", ws.Name)
	}
	if ws.CompanyURL != "https://acme.test" {
		t.Errorf("companyUrl clobbered: %q", ws.CompanyURL)
	}
	if !ws.UpdatedAt.Equal(t1) {
		t.Errorf("updatedAt not stamped")
	}
}

func TestApplyExplicitEmptyClears(t *testing.T) {
	ws := &Workspace{UseCases: []string{"outreach"}}
	Apply(ws, WorkspacePatch{UseCases: listp()}, t1)
	if len(ws.UseCases) != 0 {
		t.Fatalf("useCases not cleared: %v", ws.UseCases)
	}
}

func TestMergeProductsAppendsNewWithGeneratedID(t *testing.T) {
	out := MergeProducts(nil, []ProductPatch{{Name: strp("Widget")}}, t0)
	if len(out) != 1 {
		t.Fatalf("got %d products", len(out))
	}
	if out[0].ID == "" {
		t.Error("new product has no id")
	}
	if !out[0].CreatedAt.Equal(t0) {
		t.Error("createdAt not stamped")
	}
	if out[0].Status != "active" || out[0].Priority != "medium" {
		t.Errorf("defaults: status=%q priority=%q", out[0].Status, out[0].Priority)
	}
}

func TestMergeProductsMatchesByID(t *testing.T) {
	existing := []Product{{ID: "p1", Name: "Widget", Description: "old", CreatedAt: t0}}
	out := MergeProducts(existing, []ProductPatch{{ID: strp("p1"), Description: strp("new")}}, t1)
	if len(out) != 1 {
		t.Fatalf("got %d products, want in-place update", len(out))
	}
	if out[0].Description != "new" || out[0].Name != "Widget" {
		t.Errorf("merge result: %+v", out[0])
	}
	if !out[0].CreatedAt.Equal(t0) || !out[0].UpdatedAt.Equal(t1) {
		t.Errorf("timestamps: created=%v updated=%v", out[0].CreatedAt, out[0].UpdatedAt)
	}
}

func TestMergeProductsOmissionIsNotDeletion(t *testing.T) {
	existing := []Product{{ID: "p1", Name: "Widget"}, {ID: "p2", Name: "Gadget"}}
	out := MergeProducts(existing, []ProductPatch{{ID: strp("p2"), Name: strp("Gadget Pro")}}, t1)
	if len(out) != 2 {
		t.Fatalf("got %d products, want 2", len(out))
	}
	if out[0].Name != "Widget" {
		t.Errorf("untouched product mutated: %+v", out[0])
	}
}

func TestReplaceProductsKeepsMatchedCreationTime(t *testing.T) {
	existing := []Product{
		{ID: "p1", Name: "Widget", Pricing: "$99", CreatedAt: t0},
		{ID: "p2", Name: "Gadget", CreatedAt: t0},
	}
	out := ReplaceProducts(existing, []ProductPatch{{ID: strp("p1"), Name: strp("Widget v2")}}, t1)
	if len(out) != 1 {
		t.Fatalf("replace should keep exactly the incoming items, got %d", len(out))
	}
	if out[0].Name != "Widget v2" || out[0].Pricing != "$99" {
		t.Errorf("matched item should keep unspecified fields: %+v", out[0])
	}
	if !out[0].CreatedAt.Equal(t0) {
		t.Error("matched item lost creation time")
	}
}

func TestDualWriteNewShapeToLegacy(t *testing.T) {
	var p Product
	applyProduct(&p, ProductPatch{
		ProblemsWithRootCauses: listp("manual reporting"),
		KeyFeatures:            listp("dashboards"),
		UniqueSellingPoints:    listp("one-click setup"),
	}, t1)
	if !reflect.DeepEqual(p.Problems, []string{"manual reporting"}) {
		t.Errorf("problems = %v", p.Problems)
	}
	if !reflect.DeepEqual(p.Features, []string{"dashboards"}) {
		t.Errorf("features = %v", p.Features)
	}
	if !reflect.DeepEqual(p.USPs, []string{"one-click setup"}) {
		t.Errorf("usps = %v", p.USPs)
	}
}

func TestDualWriteNewShapeWinsOverLegacyInSamePatch(t *testing.T) {
	var p Product
	applyProduct(&p, ProductPatch{
		ProblemsWithRootCauses: listp("new"),
		Problems:               listp("old"),
	}, t1)
	if !reflect.DeepEqual(p.ProblemsWithRootCauses, []string{"new"}) {
		t.Errorf("problemsWithRootCauses = %v", p.ProblemsWithRootCauses)
	}
	if !reflect.DeepEqual(p.Problems, []string{"new"}) {
		t.Errorf("legacy alias should mirror new shape, got %v", p.Problems)
	}
}

func TestMergeSegmentsNestedPersonaMerge(t *testing.T) {
	existing := []Segment{{
		ID:       "s1",
		Name:     "Enterprise",
		Personas: []Persona{{ID: "pe1", Name: "CTO", Goals: []string{"scale"}}},
	}}
	out := MergeSegments(existing, []SegmentPatch{{
		ID: strp("s1"),
		Personas: &[]PersonaPatch{
			{ID: strp("pe1"), PainPoints: listp("tool sprawl")},
			{Name: strp("CISO")},
		},
	}}, t1)
	personas := out[0].Personas
	if len(personas) != 2 {
		t.Fatalf("got %d personas, want 2", len(personas))
	}
	if !reflect.DeepEqual(personas[0].Goals, []string{"scale"}) {
		t.Errorf("matched persona lost goals: %v", personas[0].Goals)
	}
	if !reflect.DeepEqual(personas[0].PainPoints, []string{"tool sprawl"}) {
		t.Errorf("painPoints = %v", personas[0].PainPoints)
	}
	if personas[1].ID == "" {
		t.Error("appended persona has no id")
	}
}

func TestMergePersonasAdmissionFilter(t *testing.T) {
	out := MergePersonas(nil, []PersonaPatch{
		{Name: strp("Ops Lead")},
		{Goals: listp("reduce churn")},
	}, t0)
	if len(out) != 1 {
		t.Fatalf("nameless persona admitted: %v", out)
	}
}

func TestApplyListFieldsAreCleaned(t *testing.T) {
	ws := &Workspace{}
	Apply(ws, WorkspacePatch{UseCases: listp(" outbound ", "", "inbound")}, t1)
	if !reflect.DeepEqual(ws.UseCases, []string{"outbound", "inbound"}) {
		t.Fatalf("useCases = %v", ws.UseCases)
	}
}

func TestApplySocialProofEntryFilter(t *testing.T) {
	ws := &Workspace{}
	ApplyReplace(ws, WorkspacePatch{SocialProof: &SocialProofPatch{
		CaseStudies: &[]CaseStudy{
			{URL: "https://acme.test/case"},
			{},
		},
		Testimonials: &[]Testimonial{
			{Content: "Great product", Author: "Dana"},
			{Company: "orphan metrics only"},
		},
	}}, t1)
	if got := len(ws.SocialProof.CaseStudies); got != 1 {
		t.Errorf("case studies = %d, want 1", got)
	}
	if got := len(ws.SocialProof.Testimonials); got != 1 {
		t.Errorf("testimonials = %d, want 1", got)
	}
}

func TestApplyReplaceSingleProductShape(t *testing.T) {
	ws := &Workspace{}
	ApplyReplace(ws, WorkspacePatch{Product: &ProductPatch{Name: strp("Widget")}}, t0)
	if len(ws.Products) != 1 || ws.Products[0].Name != "Widget" {
		t.Fatalf("products = %+v", ws.Products)
	}
	ApplyReplace(ws, WorkspacePatch{Product: &ProductPatch{Description: strp("tracks things")}}, t1)
	if len(ws.Products) != 1 {
		t.Fatalf("single-product update grew the list: %d", len(ws.Products))
	}
	if ws.Products[0].Name != "Widget" || ws.Products[0].Description != "tracks things" {
		t.Fatalf("products[0] = %+v", ws.Products[0])
	}
}

func TestApplyReplaceResaveIsIdempotent(t *testing.T) {
	// A client that reads the document back and saves the identical
	// payload again (ids included) must not change its content.
	patch := WorkspacePatch{
		CompanyName:     strp("Acme"),
		CompanyURL:      strp("https://acme.test"),
		Differentiation: strp("only vendor with native CRM sync"),
		UseCases:        listp("outbound"),
		Products: &[]ProductPatch{{
			ID:          strp("p1"),
			Name:        strp("Widget"),
			KeyFeatures: listp("dashboards", "alerts"),
		}},
		Segments: &[]SegmentPatch{{
			ID:   strp("s1"),
			Name: strp("Mid-market"),
			Personas: &[]PersonaPatch{{
				ID:    strp("pe1"),
				Title: strp("VP Sales"),
				Goals: listp("hit quota"),
			}},
		}},
	}
	ws := &Workspace{Name: "Acme GTM"}
	ApplyReplace(ws, patch, t0)
	first := *ws
	ApplyReplace(ws, patch, t0)
	if !reflect.DeepEqual(*ws, first) {
		t.Fatalf("re-save drifted:\nfirst  %+v\nsecond %+v", first, *ws)
	}
}

func TestMergeResaveIsIdempotent(t *testing.T) {
	products := MergeProducts(nil, []ProductPatch{{ID: strp("p1"), Name: strp("Widget"), KeyFeatures: listp("dashboards")}}, t0)
	firstProducts := append([]Product(nil), products...)
	products = MergeProducts(products, []ProductPatch{{ID: strp("p1"), Name: strp("Widget"), KeyFeatures: listp("dashboards")}}, t0)
	if !reflect.DeepEqual(products, firstProducts) {
		t.Fatalf("product merge drifted:\nfirst  %+v\nsecond %+v", firstProducts, products)
	}

	personas := MergePersonas(nil, []PersonaPatch{{ID: strp("pe1"), Title: strp("VP Sales"), Goals: listp("hit quota")}}, t0)
	firstPersonas := append([]Persona(nil), personas...)
	personas = MergePersonas(personas, []PersonaPatch{{ID: strp("pe1"), Title: strp("VP Sales"), Goals: listp("hit quota")}}, t0)
	if !reflect.DeepEqual(personas, firstPersonas) {
		t.Fatalf("persona merge drifted:\nfirst  %+v\nsecond %+v", firstPersonas, personas)
	}
}

func TestDeleteHelpers(t *testing.T) {
	ws := &Workspace{
		Products: []Product{{ID: "p1"}, {ID: "p2"}},
		Segments: []Segment{{ID: "s1", Personas: []Persona{{ID: "pe1", Name: "CTO"}}}},
	}
	if !DeleteProductByID(ws, "p1") || len(ws.Products) != 1 || ws.Products[0].ID != "p2" {
		t.Fatalf("delete product: %+v", ws.Products)
	}
	if DeleteProductByID(ws, "nope") {
		t.Error("deleting unknown product reported true")
	}
	seg := SegmentByID(ws, "s1")
	if seg == nil {
		t.Fatal("SegmentByID returned nil")
	}
	if !DeletePersonaByID(seg, "pe1") || len(ws.Segments[0].Personas) != 0 {
		t.Fatalf("delete persona: %+v", ws.Segments[0].Personas)
	}
	if !DeleteSegmentByID(ws, "s1") || len(ws.Segments) != 0 {
		t.Fatalf("delete segment: %+v", ws.Segments)
	}
}
