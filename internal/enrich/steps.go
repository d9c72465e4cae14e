package enrich

import (
	"context"
	"encoding/json"
	"fmt"
)

// StepForm carries the answers accumulated through the onboarding
// wizard; each step's prompt builds on the earlier ones.
type StepForm struct {
	CompanyURL      string   `json:"companyUrl"`
	Products        []string `json:"products"`
	Personas        []string `json:"personas"`
	UseCases        []string `json:"useCases"`
	Differentiation string   `json:"differentiation"`
	Segments        []string `json:"segments"`
}

// StepSuggestions generates suggestions for one onboarding step. Step 4
// returns a JSON string (the differentiation statement); every other
// step returns a JSON array, salvaged out of the completion where
// needed. A completion that yields no parseable array degrades to an
// empty array rather than an error.
func (e *Engine) StepSuggestions(ctx context.Context, step int, form StepForm, companyName string) (json.RawMessage, error) {
	prompt := stepPrompt(step, form, companyName)
	if prompt == "" {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStep, step)
	}

	res := e.gateway.Complete(ctx, prompt, genaiOpts(stepMaxTokens, 0))
	if !res.OK {
		return nil, fmt.Errorf("step %d suggestions: %s", step, res.Reason)
	}

	if step == 4 {
		return json.Marshal(res.Text)
	}

	if json.Valid([]byte(res.Text)) {
		return json.RawMessage(res.Text), nil
	}
	if m := arrayRe.FindString(res.Text); m != "" && json.Valid([]byte(m)) {
		return json.RawMessage(m), nil
	}
	return json.RawMessage("[]"), nil
}
