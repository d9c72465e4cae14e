// Package refine polishes user-entered text through the completion
// gateway before it is saved. Refinement is best-effort by contract:
// every function returns the original input when the gateway fails,
// times out, or returns something unusable.
package refine

import (
	"context"
	"encoding/json"

	"golang.org/x/sync/errgroup"

	"compass/api/internal/genai"
	"compass/api/internal/icp"
)

const (
	maxTokens   = 1000
	temperature = 0.3
)

// Engine runs refinements against a completion gateway.
type Engine struct {
	gateway genai.Completer
}

func NewEngine(gateway genai.Completer) *Engine {
	return &Engine{gateway: gateway}
}

// Text refines a single value. Blank input and unknown kinds pass
// through untouched.
func (e *Engine) Text(ctx context.Context, kind Kind, input string, rctx Context) string {
	if input == "" {
		return input
	}
	prompt := promptFor(kind, input, rctx)
	if prompt == "" {
		return input
	}
	res := e.gateway.Complete(ctx, prompt, genai.Options{MaxTokens: maxTokens, Temperature: temperature})
	if !res.OK {
		return input
	}
	return res.Text
}

// List refines a list in one batch call. The model must return a JSON
// array of strings; any other valid JSON is kept verbatim as a single
// entry, and unparseable prose keeps the original list.
func (e *Engine) List(ctx context.Context, items []string, rctx Context) []string {
	if len(items) == 0 {
		return items
	}
	res := e.gateway.Complete(ctx, batchPrompt(items, rctx), genai.Options{MaxTokens: maxTokens, Temperature: temperature})
	if !res.OK {
		return items
	}
	var refined []string
	if err := json.Unmarshal([]byte(res.Text), &refined); err != nil {
		if json.Valid([]byte(res.Text)) {
			return []string{res.Text}
		}
		return items
	}
	if len(refined) == 0 {
		return items
	}
	return refined
}

// Product refines the refinable fields of a product concurrently. Each
// field falls back to its original value independently.
func (e *Engine) Product(ctx context.Context, product icp.Product, rctx Context) icp.Product {
	rctx.ProductName = product.Name

	g, gctx := errgroup.WithContext(ctx)
	out := product

	g.Go(func() error {
		out.Name = e.Text(gctx, KindProductName, product.Name, rctx)
		return nil
	})
	g.Go(func() error {
		out.Description = e.Text(gctx, KindProductDescription, product.Description, rctx)
		return nil
	})
	g.Go(func() error {
		out.ValueProposition = e.Text(gctx, KindValueProposition, product.ValueProposition, rctx)
		return nil
	})
	g.Go(func() error {
		out.ProblemsWithRootCauses = e.List(gctx, product.ProblemsWithRootCauses, withItemType(rctx, "problems"))
		return nil
	})
	g.Go(func() error {
		out.KeyFeatures = e.List(gctx, product.KeyFeatures, withItemType(rctx, "features"))
		return nil
	})
	g.Go(func() error {
		out.Benefits = e.List(gctx, product.Benefits, withItemType(rctx, "benefits"))
		return nil
	})
	g.Go(func() error {
		out.UseCases = e.List(gctx, product.UseCases, withItemType(rctx, "useCases"))
		return nil
	})
	g.Go(func() error {
		out.UniqueSellingPoints = e.List(gctx, product.UniqueSellingPoints, withItemType(rctx, "uniqueSellingPoints"))
		return nil
	})
	_ = g.Wait()

	// Refreshed alias fields track their refined counterparts.
	out.Problems = append([]string(nil), out.ProblemsWithRootCauses...)
	out.Features = append([]string(nil), out.KeyFeatures...)
	out.USPs = append([]string(nil), out.UniqueSellingPoints...)
	return out
}

// Persona refines a persona's refinable fields concurrently.
func (e *Engine) Persona(ctx context.Context, persona icp.Persona, rctx Context) icp.Persona {
	rctx.PersonaTitle = persona.DisplayName()

	g, gctx := errgroup.WithContext(ctx)
	out := persona

	g.Go(func() error {
		out.Name = e.Text(gctx, KindPersonaName, persona.Name, rctx)
		return nil
	})
	g.Go(func() error {
		out.Title = e.Text(gctx, KindPersonaName, persona.Title, rctx)
		return nil
	})
	g.Go(func() error {
		out.PainPoints = e.List(gctx, persona.PainPoints, withItemType(rctx, "painPoints"))
		return nil
	})
	g.Go(func() error {
		out.Goals = e.List(gctx, persona.Goals, withItemType(rctx, "goals"))
		return nil
	})
	g.Go(func() error {
		out.Responsibilities = e.List(gctx, persona.Responsibilities, withItemType(rctx, "responsibilities"))
		return nil
	})
	g.Go(func() error {
		out.Challenges = e.List(gctx, persona.Challenges, withItemType(rctx, "challenges"))
		return nil
	})
	g.Go(func() error {
		out.Objections = e.List(gctx, persona.Objections, withItemType(rctx, "objections"))
		return nil
	})
	_ = g.Wait()
	return out
}

// Segment refines a segment's refinable fields concurrently.
func (e *Engine) Segment(ctx context.Context, segment icp.Segment, rctx Context) icp.Segment {
	rctx.Industry = segment.Industry

	g, gctx := errgroup.WithContext(ctx)
	out := segment

	g.Go(func() error {
		out.Name = e.Text(gctx, KindSegmentName, segment.Name, rctx)
		return nil
	})
	g.Go(func() error {
		out.Description = e.Text(gctx, KindProductDescription, segment.Description, rctx)
		return nil
	})
	g.Go(func() error {
		out.Characteristics = e.List(gctx, segment.Characteristics, withItemType(rctx, "characteristics"))
		return nil
	})
	g.Go(func() error {
		out.PainPoints = e.List(gctx, segment.PainPoints, withItemType(rctx, "painPoints"))
		return nil
	})
	_ = g.Wait()
	return out
}

func withItemType(rctx Context, itemType string) Context {
	rctx.ItemType = itemType
	return rctx
}
