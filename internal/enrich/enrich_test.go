package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"

	"compass/api/internal/genai"
)

// stubGateway is called from the concurrent enrichment variants, so the
// prompt log needs a lock.
type stubGateway struct {
	answer func(prompt string) genai.Result

	mu      sync.Mutex
	prompts []string
}

func (s *stubGateway) Complete(_ context.Context, prompt string, _ genai.Options) genai.Result {
	s.mu.Lock()
	s.prompts = append(s.prompts, prompt)
	s.mu.Unlock()
	return s.answer(prompt)
}

func fixed(result genai.Result) *stubGateway {
	return &stubGateway{answer: func(string) genai.Result { return result }}
}

func TestSalvageJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "clean object", in: `{"a":1}`, want: `{"a":1}`},
		{name: "fenced", in: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "prose around object", in: "Here you go:\n{\"a\":1}\nHope this helps!", want: `{"a":1}`},
		{name: "prose around array", in: "Sure: [\"x\",\"y\"] there", want: `["x","y"]`},
		{name: "no json", in: "I cannot help with that.", want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := salvageJSON(tc.in); got != tc.want {
				t.Fatalf("salvageJSON(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestPersonaDetailsTruncatesLists(t *testing.T) {
	payload := `{"painPoints":["a","b","c","d","e","f"],"goals":["g1"],"demographics":{"teamSize":"10-20"}}`
	e := NewEngine(fixed(genai.Result{OK: true, Text: payload}))

	details, err := e.PersonaDetails(context.Background(), "VP Sales", "Acme", []string{"Widget"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(details.PainPoints) != 4 {
		t.Errorf("painPoints = %v, want 4 entries", details.PainPoints)
	}
	if !reflect.DeepEqual(details.Goals, []string{"g1"}) {
		t.Errorf("goals = %v", details.Goals)
	}
	if details.Demographics.TeamSize != "10-20" {
		t.Errorf("demographics = %+v", details.Demographics)
	}
}

func TestPersonaDetailsBadCompletion(t *testing.T) {
	e := NewEngine(fixed(genai.Result{OK: true, Text: "not json at all"}))
	if _, err := e.PersonaDetails(context.Background(), "VP Sales", "Acme", nil); !errors.Is(err, ErrBadCompletion) {
		t.Fatalf("got %v, want ErrBadCompletion", err)
	}
}

func TestSegmentDetailsTruncatesNestedLists(t *testing.T) {
	payload := `{
		"characteristics":["a","b","c","d","e"],
		"marketSize":"$2B",
		"buyingBehavior":{"decisionMakers":["1","2","3","4","5"],"evaluationCriteria":["x"]},
		"qualification":{"idealCriteria":["i1","i2","i3","i4","i5"]}
	}`
	e := NewEngine(fixed(genai.Result{OK: true, Text: payload}))

	details, err := e.SegmentDetails(context.Background(), "Mid-market SaaS", "Acme", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(details.Characteristics) != 4 || len(details.BuyingBehavior.DecisionMakers) != 4 || len(details.Qualification.IdealCriteria) != 4 {
		t.Errorf("lists not capped: %+v", details)
	}
	if details.MarketSize != "$2B" {
		t.Errorf("marketSize = %q", details.MarketSize)
	}
}

func TestProductDetailsSalvagesFencedJSON(t *testing.T) {
	payload := "```json\n" + `{"features":["f1","f2"],"implementation":{"requirements":["r1","r2","r3","r4","r5"]}}` + "\n```"
	e := NewEngine(fixed(genai.Result{OK: true, Text: payload}))

	details, err := e.ProductDetails(context.Background(), "Widget", "Acme")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(details.Features, []string{"f1", "f2"}) {
		t.Errorf("features = %v", details.Features)
	}
	if len(details.Implementation.Requirements) != 4 {
		t.Errorf("requirements not capped: %v", details.Implementation.Requirements)
	}
}

func TestVersionsAlwaysHasFourKeys(t *testing.T) {
	gw := &stubGateway{answer: func(prompt string) genai.Result {
		// The buyer-psychology variant fails; the rest succeed.
		if strings.Contains(prompt, "buyer psychology") {
			return genai.Result{Reason: "rate limited"}
		}
		return genai.Result{OK: true, Text: `{"oneLiner":"Acme in one line"}`}
	}}
	e := NewEngine(gw)

	got := e.Versions(context.Background(), VersionsInput{CompanyName: "Acme"})
	if len(got) != 4 {
		t.Fatalf("got %d keys", len(got))
	}
	for _, key := range []string{"1", "2", "3"} {
		var obj map[string]string
		if err := json.Unmarshal(got[key], &obj); err != nil || obj["oneLiner"] == "" {
			t.Errorf("variant %s = %s", key, got[key])
		}
	}
	if string(got["4"]) != "null" {
		t.Errorf("failed variant should be null, got %s", got["4"])
	}
}

func TestVersionsRejectsNonObjectCompletion(t *testing.T) {
	e := NewEngine(fixed(genai.Result{OK: true, Text: `["not","an","object"]`}))
	got := e.Versions(context.Background(), VersionsInput{CompanyName: "Acme"})
	for key, raw := range got {
		if string(raw) != "null" {
			t.Errorf("variant %s = %s, want null", key, raw)
		}
	}
}

func TestStepSuggestionsArraySteps(t *testing.T) {
	e := NewEngine(fixed(genai.Result{OK: true, Text: `["Product A","Product B"]`}))
	got, err := e.StepSuggestions(context.Background(), 1, StepForm{CompanyURL: "https://acme.test"}, "Acme")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var items []string
	if err := json.Unmarshal(got, &items); err != nil || len(items) != 2 {
		t.Fatalf("suggestions = %s", got)
	}
}

func TestStepSuggestionsSalvagesEmbeddedArray(t *testing.T) {
	e := NewEngine(fixed(genai.Result{OK: true, Text: `Here are my suggestions: ["A","B"] — enjoy`}))
	got, err := e.StepSuggestions(context.Background(), 2, StepForm{}, "Acme")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != `["A","B"]` {
		t.Fatalf("suggestions = %s", got)
	}
}

func TestStepSuggestionsUnparseableDegradesToEmptyArray(t *testing.T) {
	e := NewEngine(fixed(genai.Result{OK: true, Text: "no list here"}))
	got, err := e.StepSuggestions(context.Background(), 3, StepForm{}, "Acme")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "[]" {
		t.Fatalf("suggestions = %s", got)
	}
}

func TestStepFourReturnsString(t *testing.T) {
	e := NewEngine(fixed(genai.Result{OK: true, Text: "We are the only platform that..."}))
	got, err := e.StepSuggestions(context.Background(), 4, StepForm{}, "Acme")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var s string
	if err := json.Unmarshal(got, &s); err != nil || !strings.HasPrefix(s, "We are") {
		t.Fatalf("suggestions = %s", got)
	}
}

func TestStepSuggestionsUnknownStep(t *testing.T) {
	e := NewEngine(fixed(genai.Result{OK: true, Text: "[]"}))
	if _, err := e.StepSuggestions(context.Background(), 9, StepForm{}, "Acme"); !errors.Is(err, ErrUnknownStep) {
		t.Fatalf("got %v, want ErrUnknownStep", err)
	}
}

func TestFieldSuggestionsArrayField(t *testing.T) {
	e := NewEngine(fixed(genai.Result{OK: true, Text: `["F1","F2","F3","F4"]`}))
	got, err := e.FieldSuggestions(context.Background(), "keyFeatures", "acme.test", FieldContext{ProblemsWithRootCauses: []string{"p1"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var items []string
	if err := json.Unmarshal(got, &items); err != nil || len(items) != 4 {
		t.Fatalf("suggestions = %s", got)
	}
}

func TestFieldSuggestionsArrayFallbackWrapsText(t *testing.T) {
	e := NewEngine(fixed(genai.Result{OK: true, Text: "Dashboards"}))
	got, err := e.FieldSuggestions(context.Background(), "keyFeatures", "acme.test", FieldContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != `["Dashboards"]` {
		t.Fatalf("suggestions = %s", got)
	}
}

func TestFieldSuggestionsScalarField(t *testing.T) {
	e := NewEngine(fixed(genai.Result{OK: true, Text: "Acme builds revenue tooling."}))
	got, err := e.FieldSuggestions(context.Background(), "description", "acme.test", FieldContext{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var s string
	if err := json.Unmarshal(got, &s); err != nil || s == "" {
		t.Fatalf("suggestions = %s", got)
	}
}

func TestFieldSuggestionsUnknownField(t *testing.T) {
	e := NewEngine(fixed(genai.Result{OK: true, Text: "x"}))
	if _, err := e.FieldSuggestions(context.Background(), "mystery", "acme.test", FieldContext{}); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("got %v, want ErrUnknownField", err)
	}
}

func TestFieldSuggestionsGatewayFailure(t *testing.T) {
	e := NewEngine(fixed(genai.Result{Reason: "timeout"}))
	if _, err := e.FieldSuggestions(context.Background(), "description", "acme.test", FieldContext{}); err == nil {
		t.Fatal("expected error on gateway failure")
	}
}
