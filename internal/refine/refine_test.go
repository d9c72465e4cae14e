package refine

import (
	"context"
	"reflect"
	"strings"
	"sync"
	"testing"

	"compass/api/internal/genai"
	"compass/api/internal/icp"
)

// stubGateway answers every completion with a canned result and records
// the prompts it saw. Product, Persona and Segment fan their field
// refinements out across goroutines, so the prompt log needs a lock.
type stubGateway struct {
	result genai.Result
	answer func(prompt string) genai.Result

	mu      sync.Mutex
	prompts []string
}

func (s *stubGateway) Complete(_ context.Context, prompt string, _ genai.Options) genai.Result {
	s.mu.Lock()
	s.prompts = append(s.prompts, prompt)
	s.mu.Unlock()
	if s.answer != nil {
		return s.answer(prompt)
	}
	return s.result
}

func TestTextReturnsRefined(t *testing.T) {
	gw := &stubGateway{result: genai.Result{OK: true, Text: "Acme Revenue Platform"}}
	e := NewEngine(gw)
	got := e.Text(context.Background(), KindProductName, "acme tool", Context{CompanyName: "Acme"})
	if got != "Acme Revenue Platform" {
		t.Fatalf("got %q", got)
	}
	if len(gw.prompts) != 1 || !strings.Contains(gw.prompts[0], "acme tool") {
		t.Fatalf("prompt missing input: %v", gw.prompts)
	}
}

func TestTextFallsBackOnFailure(t *testing.T) {
	e := NewEngine(&stubGateway{result: genai.Result{Reason: "timeout"}})
	if got := e.Text(context.Background(), KindProductName, "acme tool", Context{}); got != "acme tool" {
		t.Fatalf("got %q, want original", got)
	}
}

func TestTextBlankInputSkipsGateway(t *testing.T) {
	gw := &stubGateway{result: genai.Result{OK: true, Text: "anything"}}
	e := NewEngine(gw)
	if got := e.Text(context.Background(), KindProductName, "", Context{}); got != "" {
		t.Fatalf("got %q", got)
	}
	if len(gw.prompts) != 0 {
		t.Fatal("gateway called for blank input")
	}
}

func TestTextUnknownKindPassesThrough(t *testing.T) {
	gw := &stubGateway{result: genai.Result{OK: true, Text: "anything"}}
	e := NewEngine(gw)
	if got := e.Text(context.Background(), Kind("mystery"), "keep me", Context{}); got != "keep me" {
		t.Fatalf("got %q", got)
	}
	if len(gw.prompts) != 0 {
		t.Fatal("gateway called for unknown kind")
	}
}

func TestListParsesJSONArray(t *testing.T) {
	e := NewEngine(&stubGateway{result: genai.Result{OK: true, Text: `["Refined A","Refined B"]`}})
	got := e.List(context.Background(), []string{"a", "b"}, Context{})
	if !reflect.DeepEqual(got, []string{"Refined A", "Refined B"}) {
		t.Fatalf("got %v", got)
	}
}

func TestListFallsBackOnUnparseableOutput(t *testing.T) {
	e := NewEngine(&stubGateway{result: genai.Result{OK: true, Text: "Here are some ideas!"}})
	original := []string{"a", "b"}
	if got := e.List(context.Background(), original, Context{}); !reflect.DeepEqual(got, original) {
		t.Fatalf("got %v, want original", got)
	}
}

func TestListWrapsNonArrayJSON(t *testing.T) {
	e := NewEngine(&stubGateway{result: genai.Result{OK: true, Text: `"One refined blurb"`}})
	got := e.List(context.Background(), []string{"a", "b"}, Context{})
	if !reflect.DeepEqual(got, []string{`"One refined blurb"`}) {
		t.Fatalf("got %v, want the completion kept as a single entry", got)
	}
}

func TestListEmptyInputSkipsGateway(t *testing.T) {
	gw := &stubGateway{result: genai.Result{OK: true, Text: `["x"]`}}
	e := NewEngine(gw)
	if got := e.List(context.Background(), nil, Context{}); got != nil {
		t.Fatalf("got %v", got)
	}
	if len(gw.prompts) != 0 {
		t.Fatal("gateway called for empty list")
	}
}

func TestProductRefinesFieldsIndependently(t *testing.T) {
	gw := &stubGateway{answer: func(prompt string) genai.Result {
		switch {
		case strings.Contains(prompt, "product name"):
			return genai.Result{OK: true, Text: "Acme Revenue Platform"}
		case strings.Contains(prompt, "JSON array"):
			// Lists fail; they must keep their originals.
			return genai.Result{Reason: "rate limited"}
		default:
			return genai.Result{OK: true, Text: "refined text"}
		}
	}}
	e := NewEngine(gw)

	product := icp.Product{
		Name:                   "acme tool",
		Description:            "does things",
		ProblemsWithRootCauses: []string{"manual work"},
		KeyFeatures:            []string{"dashboards"},
	}
	got := e.Product(context.Background(), product, Context{CompanyName: "Acme"})

	if got.Name != "Acme Revenue Platform" {
		t.Errorf("name = %q", got.Name)
	}
	if got.Description != "refined text" {
		t.Errorf("description = %q", got.Description)
	}
	if !reflect.DeepEqual(got.ProblemsWithRootCauses, []string{"manual work"}) {
		t.Errorf("failed list refinement should keep original: %v", got.ProblemsWithRootCauses)
	}
	if !reflect.DeepEqual(got.Problems, got.ProblemsWithRootCauses) {
		t.Errorf("alias out of sync: %v vs %v", got.Problems, got.ProblemsWithRootCauses)
	}
	if !reflect.DeepEqual(got.Features, got.KeyFeatures) {
		t.Errorf("features alias out of sync: %v vs %v", got.Features, got.KeyFeatures)
	}
}

func TestPersonaRefineNeverErrors(t *testing.T) {
	e := NewEngine(&stubGateway{result: genai.Result{Reason: "gateway down"}})
	persona := icp.Persona{Name: "Ops Lead", Goals: []string{"reduce churn"}}
	got := e.Persona(context.Background(), persona, Context{})
	if !reflect.DeepEqual(got, persona) {
		t.Fatalf("persona changed despite gateway failure: %+v", got)
	}
}

func TestSegmentRefine(t *testing.T) {
	e := NewEngine(&stubGateway{answer: func(prompt string) genai.Result {
		if strings.Contains(prompt, "JSON array") {
			return genai.Result{OK: true, Text: `["Fast-growing"]`}
		}
		return genai.Result{OK: true, Text: "Mid-Market SaaS (50-500 employees)"}
	}})
	segment := icp.Segment{Name: "mid market", Characteristics: []string{"growing"}}
	got := e.Segment(context.Background(), segment, Context{})
	if got.Name != "Mid-Market SaaS (50-500 employees)" {
		t.Errorf("name = %q", got.Name)
	}
	if !reflect.DeepEqual(got.Characteristics, []string{"Fast-growing"}) {
		t.Errorf("characteristics = %v", got.Characteristics)
	}
}
