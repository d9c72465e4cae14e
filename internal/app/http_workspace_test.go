package app

import (
	"context"
	"net/http"
	"testing"

	"compass/api/internal/genai"
	"compass/api/internal/icp"
	"compass/api/internal/store"
)

func signedInHandler(t *testing.T, fs *fakeStore, gateway genai.Completer) (http.Handler, string) {
	t.Helper()
	fs.users["usr_owner"] = store.User{ID: "usr_owner", Name: "Owner", Email: "owner@example.com"}
	svc := newTestService(fs, newFakeSessions(), gateway)
	sess, err := svc.issueSession(context.Background(), fs.users["usr_owner"])
	if err != nil {
		t.Fatalf("issueSession: %v", err)
	}
	return NewHTTPServer(svc, "*").Handler(), sess.Token
}

func TestPublicSlugReadNeedsNoSession(t *testing.T) {
	fs := newFakeStore()
	seedWorkspace(fs, "ws_1", "acme-gtm", "usr_owner")
	svc := newTestService(fs, newFakeSessions(), nil)
	handler := NewHTTPServer(svc, "*").Handler()

	rec, payload := doJSON(t, handler, http.MethodGet, "/api/workspaces/slug/acme-gtm", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	workspace, _ := payload["workspace"].(map[string]any)
	if payload["success"] != true || workspace["slug"] != "acme-gtm" {
		t.Fatalf("unexpected payload: %v", payload)
	}

	rec, _ = doJSON(t, handler, http.MethodGet, "/api/workspaces/slug/missing", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing slug status = %d", rec.Code)
	}
}

func TestCreateWorkspaceEndpoint(t *testing.T) {
	fs := newFakeStore()
	handler, token := signedInHandler(t, fs, nil)

	rec, payload := doJSON(t, handler, http.MethodPost, "/api/workspaces", token, map[string]any{
		"name":        "Acme GTM",
		"companyName": "Acme",
		"companyUrl":  "https://acme.example",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	workspace, _ := payload["workspace"].(map[string]any)
	if workspace["slug"] != "acme-gtm" || workspace["ownerId"] != "usr_owner" {
		t.Fatalf("unexpected workspace: %v", workspace)
	}

	rec, payload = doJSON(t, handler, http.MethodPost, "/api/workspaces", token, map[string]any{
		"name": "Acme GTM",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("incomplete create status = %d", rec.Code)
	}
	if payload["error"] != "Missing fields" {
		t.Fatalf("unexpected error body: %v", payload)
	}
}

func TestUpdateICPEndpoint(t *testing.T) {
	fs := newFakeStore()
	seedWorkspace(fs, "ws_1", "acme-gtm", "usr_owner")
	handler, token := signedInHandler(t, fs, stubGateway{result: genai.Result{OK: false, Reason: "disabled"}})

	body := map[string]any{
		"companyUrl":      "https://acme.example",
		"differentiation": "Faster onboarding",
		"products":        []map[string]any{{"name": "Analytics Suite"}},
		"personas":        []map[string]any{{"title": "VP Sales"}},
		"useCases":        []string{"pipeline forecasting"},
		"segments":        []map[string]any{{"name": "Mid-market SaaS"}},
		"competitors":     []map[string]any{{"name": "Rival", "url": "https://rival.example"}},
	}

	rec, payload := doJSON(t, handler, http.MethodPut, "/api/workspaces/acme-gtm/icp", token, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	workspace, _ := payload["workspace"].(map[string]any)
	segments, _ := workspace["segments"].([]any)
	if len(segments) != 1 {
		t.Fatalf("segments not saved: %v", workspace)
	}
	// enrichment failed, but the save still returned 200 with null variants
	versions, _ := workspace["icpEnrichmentVersions"].(map[string]any)
	if len(versions) != 4 {
		t.Fatalf("expected 4 enrichment slots, got %v", workspace["icpEnrichmentVersions"])
	}

	incomplete := map[string]any{"companyUrl": "https://acme.example"}
	rec, payload = doJSON(t, handler, http.MethodPut, "/api/workspaces/acme-gtm/icp", token, incomplete)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("incomplete payload status = %d", rec.Code)
	}
	if payload["error"] != "Missing or invalid ICP fields" {
		t.Fatalf("unexpected error: %v", payload)
	}

	rec, _ = doJSON(t, handler, http.MethodPut, "/api/workspaces/missing/icp", token, body)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing workspace status = %d", rec.Code)
	}
}

func TestReEnrichEndpoint(t *testing.T) {
	fs := newFakeStore()
	seedWorkspace(fs, "ws_1", "acme-gtm", "usr_owner")
	handler, token := signedInHandler(t, fs, stubGateway{result: genai.Result{OK: true, Text: `{"valueProposition":"Fast analytics"}`}})

	rec, payload := doJSON(t, handler, http.MethodPost, "/api/workspaces/acme-gtm/icp/re-enrich", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	if payload["message"] != "Re-enriched successfully" {
		t.Fatalf("unexpected message: %v", payload)
	}
	data, _ := payload["data"].(map[string]any)
	if len(data) != 4 {
		t.Fatalf("expected 4 variants: %v", payload)
	}
}

func TestProductEndpoints(t *testing.T) {
	fs := newFakeStore()
	seedWorkspace(fs, "ws_1", "acme-gtm", "usr_owner")
	handler, token := signedInHandler(t, fs, nil)

	rec, payload := doJSON(t, handler, http.MethodPost, "/api/workspaces/ws_1/products", token, map[string]any{
		"name": "Analytics Suite",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("add status = %d body = %s", rec.Code, rec.Body.String())
	}
	workspace, _ := payload["workspace"].(map[string]any)
	products, _ := workspace["products"].([]any)
	if len(products) != 1 {
		t.Fatalf("product not added: %v", workspace)
	}
	product, _ := products[0].(map[string]any)
	productID, _ := product["id"].(string)
	if productID == "" {
		t.Fatalf("missing product id: %v", product)
	}

	rec, _ = doJSON(t, handler, http.MethodPut, "/api/workspaces/ws_1/products/"+productID, token, map[string]any{
		"description": "Dashboards",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d", rec.Code)
	}

	rec, _ = doJSON(t, handler, http.MethodDelete, "/api/workspaces/ws_1/products/"+productID, token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if len(fs.workspaces["ws_1"].Products) != 0 {
		t.Fatalf("product not deleted")
	}
}

func TestPersonaEndpointsThroughSegment(t *testing.T) {
	fs := newFakeStore()
	ws := seedWorkspace(fs, "ws_1", "acme-gtm", "usr_owner")
	ws.Segments = []icp.Segment{{ID: "seg_1", Name: "Mid-market SaaS"}}
	fs.workspaces["ws_1"] = ws
	handler, token := signedInHandler(t, fs, nil)

	rec, payload := doJSON(t, handler, http.MethodPost, "/api/workspaces/ws_1/segments/seg_1/personas", token, map[string]any{
		"title": "VP Sales",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("add persona status = %d body = %s", rec.Code, rec.Body.String())
	}
	workspace, _ := payload["workspace"].(map[string]any)
	segments, _ := workspace["segments"].([]any)
	segment, _ := segments[0].(map[string]any)
	personas, _ := segment["personas"].([]any)
	if len(personas) != 1 {
		t.Fatalf("persona not added: %v", segment)
	}

	rec, _ = doJSON(t, handler, http.MethodPost, "/api/workspaces/ws_1/segments/seg_missing/personas", token, map[string]any{
		"title": "VP Sales",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown segment status = %d", rec.Code)
	}
}

func TestEnhancedICPEndpointOwnerOnly(t *testing.T) {
	fs := newFakeStore()
	seedWorkspace(fs, "ws_1", "acme-gtm", "usr_other", "usr_owner")
	handler, token := signedInHandler(t, fs, nil)

	rec, payload := doJSON(t, handler, http.MethodPost, "/api/icp/enhanced-icp/ws_1", token, map[string]any{
		"product": map[string]any{"valueProposition": "Fast insights"},
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("collaborator should be forbidden: %d %v", rec.Code, payload)
	}

	owned := fs.workspaces["ws_1"]
	owned.OwnerID = "usr_owner"
	fs.workspaces["ws_1"] = owned

	rec, payload = doJSON(t, handler, http.MethodPost, "/api/icp/enhanced-icp/ws_1", token, map[string]any{
		"product":          map[string]any{"valueProposition": "Fast insights"},
		"numberOfSegments": 2,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	if payload["message"] != "Enhanced ICP data saved successfully" {
		t.Fatalf("unexpected message: %v", payload)
	}
}

func TestWizardDetailEndpoints(t *testing.T) {
	fs := newFakeStore()
	handler, token := signedInHandler(t, fs, stubGateway{result: genai.Result{OK: true, Text: `{"goals":["Hit quota"]}`}})

	rec, payload := doJSON(t, handler, http.MethodPost, "/api/icp/generate-persona-details", token, map[string]any{
		"personaTitle": "VP Sales",
		"companyData":  map[string]any{"companyName": "Acme", "products": []string{"Analytics Suite"}},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	data, _ := payload["data"].(map[string]any)
	goals, _ := data["goals"].([]any)
	if len(goals) != 1 {
		t.Fatalf("unexpected data: %v", payload)
	}

	rec, _ = doJSON(t, handler, http.MethodPost, "/api/icp/generate-persona-details", token, map[string]any{
		"companyData": map[string]any{"companyName": "Acme"},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing title status = %d", rec.Code)
	}
}

func TestUnknownRouteIs404(t *testing.T) {
	svc := newTestService(newFakeStore(), newFakeSessions(), nil)
	handler := NewHTTPServer(svc, "*").Handler()

	rec, payload := doJSON(t, handler, http.MethodGet, "/api/nope", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if payload["code"] != "NOT_FOUND" {
		t.Fatalf("unexpected body: %v", payload)
	}
}
