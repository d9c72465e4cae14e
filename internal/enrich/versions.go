package enrich

import (
	"context"
	"encoding/json"

	"golang.org/x/sync/errgroup"

	"compass/api/internal/icp"
)

// VersionsInput is the workspace snapshot the summary variants are
// generated from.
type VersionsInput struct {
	CompanyName string
	CompanyURL  string
	Products    []string
	Competitors []icp.CompetitorRef
	Segments    []string
}

// Versions generates the four style-variant GTM summaries in parallel.
// The result always has keys "1" through "4"; a variant whose
// completion failed or did not parse is JSON null. Versions itself
// never returns an error: partial output is still useful output.
func (e *Engine) Versions(ctx context.Context, in VersionsInput) map[string]json.RawMessage {
	results := make([]json.RawMessage, 4)

	g, gctx := errgroup.WithContext(ctx)
	for variant := 1; variant <= 4; variant++ {
		variant := variant
		g.Go(func() error {
			results[variant-1] = e.versionVariant(gctx, in, variant)
			return nil
		})
	}
	_ = g.Wait()

	return map[string]json.RawMessage{
		"1": results[0],
		"2": results[1],
		"3": results[2],
		"4": results[3],
	}
}

func (e *Engine) versionVariant(ctx context.Context, in VersionsInput, variant int) json.RawMessage {
	null := json.RawMessage("null")
	res := e.gateway.Complete(ctx, versionsPrompt(in, variant), genaiOpts(versionMaxTokens, 0))
	if !res.OK {
		return null
	}
	payload := salvageJSON(res.Text)
	if payload == "" {
		return null
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &obj); err != nil {
		return null
	}
	return json.RawMessage(payload)
}
