package app

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"compass/api/internal/auth"
	"compass/api/internal/enrich"
	"compass/api/internal/icp"
	"compass/api/internal/session"
)

type HTTPServer struct {
	service    *Service
	corsOrigin string
}

func NewHTTPServer(service *Service, corsOrigin string) *HTTPServer {
	return &HTTPServer{service: service, corsOrigin: corsOrigin}
}

func (s *HTTPServer) Handler() http.Handler {
	return s.withMiddleware(http.HandlerFunc(s.handle))
}

func (s *HTTPServer) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		writeJSON(w, http.StatusNoContent, map[string]any{})
		return
	}

	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && r.URL.Path == "/api/health" {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && r.URL.Path == "/api/ready" {
		// Check database connectivity
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status := "ready"
		statusCode := http.StatusOK
		checks := map[string]any{
			"database": map[string]any{"status": "ok"},
		}

		if err := s.service.Ping(ctx); err != nil {
			status = "not_ready"
			statusCode = http.StatusServiceUnavailable
			checks["database"] = map[string]any{
				"status": "error",
				"error":  err.Error(),
			}
		}

		writeJSON(w, statusCode, map[string]any{
			"ok":     status == "ready",
			"status": status,
			"checks": checks,
		})
		return
	}

	// Auth routes (no session required)
	if r.Method == http.MethodPost && r.URL.Path == "/api/auth/signup" {
		s.handleAuthSignUp(w, r)
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/auth/signin" {
		s.handleAuthSignIn(w, r)
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/session" {
		token := bearerToken(r)
		if token == "" {
			writeJSON(w, http.StatusOK, map[string]any{"authenticated": false, "userName": nil})
			return
		}
		sess, err := s.service.SessionFromToken(r.Context(), token)
		if err != nil {
			writeJSON(w, http.StatusOK, map[string]any{"authenticated": false, "userName": nil})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"authenticated": true, "userName": sess.UserName, "userId": sess.UserID})
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/session/refresh" {
		var body struct {
			RefreshToken string `json:"refreshToken"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		sess, err := s.service.Refresh(r.Context(), body.RefreshToken)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Refresh token invalid", nil)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success":      true,
			"token":        sess.Token,
			"refreshToken": sess.RefreshToken,
			"userName":     sess.UserName,
		})
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/session/logout" {
		var body struct {
			RefreshToken string `json:"refreshToken"`
		}
		_ = decodeBody(r, &body)
		_ = s.service.Logout(r.Context(), body.RefreshToken)
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
		return
	}

	parts := splitPath(r.URL.Path)
	if len(parts) < 2 || parts[0] != "api" {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
		return
	}

	switch parts[1] {
	case "workspaces":
		s.handleWorkspaces(w, r, parts[2:])
	case "icp":
		s.handleWizard(w, r, parts[2:])
	default:
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
	}
}

func (s *HTTPServer) handleWorkspaces(w http.ResponseWriter, r *http.Request, parts []string) {
	// GET /api/workspaces/slug/{slug} is the public share link and takes
	// no session.
	if r.Method == http.MethodGet && len(parts) == 2 && parts[0] == "slug" {
		ws, err := s.service.GetWorkspaceBySlug(r.Context(), parts[1])
		if err != nil {
			s.writeMappedError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "workspace": ws})
		return
	}

	sess, ok := s.requireSession(w, r)
	if !ok {
		return
	}

	if r.Method == http.MethodGet && len(parts) == 2 && parts[0] == "user" {
		workspaces, err := s.service.ListWorkspacesForUser(r.Context(), sess, parts[1])
		if err != nil {
			s.writeMappedError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "workspaces": workspaces})
		return
	}

	if r.Method == http.MethodPost && len(parts) == 0 {
		var body CreateWorkspaceInput
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		ws, err := s.service.CreateWorkspace(r.Context(), sess, body)
		if err != nil {
			s.writeMappedError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"success": true, "workspace": ws})
		return
	}

	if len(parts) == 0 {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
		return
	}

	key := parts[0]
	rest := parts[1:]

	// PUT /api/workspaces/{slug}/icp and its re-enrich companion address
	// the workspace by slug, everything below by id.
	if len(rest) >= 1 && rest[0] == "icp" {
		s.handleWorkspaceICP(w, r, sess, key, rest[1:])
		return
	}

	if r.Method == http.MethodGet && len(rest) == 0 {
		ws, err := s.service.GetWorkspace(r.Context(), sess, key)
		s.writeWorkspaceResult(w, ws, err)
		return
	}

	if r.Method == http.MethodDelete && len(rest) == 0 {
		if err := s.service.DeleteWorkspace(r.Context(), sess, key); err != nil {
			s.writeMappedError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
		return
	}

	if len(rest) >= 1 {
		switch rest[0] {
		case "products":
			s.handleProducts(w, r, sess, key, rest[1:])
			return
		case "segments":
			s.handleSegments(w, r, sess, key, rest[1:])
			return
		case "collaborators":
			s.handleCollaborators(w, r, sess, key, rest[1:])
			return
		}
	}

	writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
}

func (s *HTTPServer) handleWorkspaceICP(w http.ResponseWriter, r *http.Request, sess Session, slug string, parts []string) {
	if r.Method == http.MethodPut && len(parts) == 0 {
		var patch icp.WorkspacePatch
		if err := decodeBody(r, &patch); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		ws, err := s.service.UpdateICP(r.Context(), sess, slug, patch)
		if err != nil {
			s.writeMappedError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "workspace": ws})
		return
	}

	if r.Method == http.MethodPost && len(parts) == 1 && parts[0] == "re-enrich" {
		versions, err := s.service.ReEnrich(r.Context(), sess, slug)
		if err != nil {
			s.writeMappedError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Re-enriched successfully",
			"data":    versions,
		})
		return
	}

	writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
}

func (s *HTTPServer) handleProducts(w http.ResponseWriter, r *http.Request, sess Session, workspaceID string, parts []string) {
	refineFields := queryFlag(r, "refine")

	switch {
	case r.Method == http.MethodPost && len(parts) == 0:
		var patch icp.ProductPatch
		if err := decodeBody(r, &patch); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		ws, err := s.service.AddProduct(r.Context(), sess, workspaceID, patch, refineFields)
		s.writeWorkspaceResult(w, ws, err)
	case r.Method == http.MethodPut && len(parts) == 1:
		var patch icp.ProductPatch
		if err := decodeBody(r, &patch); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		ws, err := s.service.UpdateProduct(r.Context(), sess, workspaceID, parts[0], patch, refineFields)
		s.writeWorkspaceResult(w, ws, err)
	case r.Method == http.MethodDelete && len(parts) == 1:
		ws, err := s.service.DeleteProduct(r.Context(), sess, workspaceID, parts[0])
		s.writeWorkspaceResult(w, ws, err)
	default:
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
	}
}

func (s *HTTPServer) handleSegments(w http.ResponseWriter, r *http.Request, sess Session, workspaceID string, parts []string) {
	refineFields := queryFlag(r, "refine")

	if len(parts) >= 2 && parts[1] == "personas" {
		s.handlePersonas(w, r, sess, workspaceID, parts[0], parts[2:], refineFields)
		return
	}

	switch {
	case r.Method == http.MethodPost && len(parts) == 0:
		var patch icp.SegmentPatch
		if err := decodeBody(r, &patch); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		ws, err := s.service.AddSegment(r.Context(), sess, workspaceID, patch, refineFields)
		s.writeWorkspaceResult(w, ws, err)
	case r.Method == http.MethodPut && len(parts) == 1:
		var patch icp.SegmentPatch
		if err := decodeBody(r, &patch); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		ws, err := s.service.UpdateSegment(r.Context(), sess, workspaceID, parts[0], patch, refineFields)
		s.writeWorkspaceResult(w, ws, err)
	case r.Method == http.MethodDelete && len(parts) == 1:
		ws, err := s.service.DeleteSegment(r.Context(), sess, workspaceID, parts[0])
		s.writeWorkspaceResult(w, ws, err)
	default:
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
	}
}

func (s *HTTPServer) handlePersonas(w http.ResponseWriter, r *http.Request, sess Session, workspaceID, segmentID string, parts []string, refineFields bool) {
	switch {
	case r.Method == http.MethodPost && len(parts) == 0:
		var patch icp.PersonaPatch
		if err := decodeBody(r, &patch); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		ws, err := s.service.AddPersona(r.Context(), sess, workspaceID, segmentID, patch, refineFields)
		s.writeWorkspaceResult(w, ws, err)
	case r.Method == http.MethodPut && len(parts) == 1:
		var patch icp.PersonaPatch
		if err := decodeBody(r, &patch); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		ws, err := s.service.UpdatePersona(r.Context(), sess, workspaceID, segmentID, parts[0], patch, refineFields)
		s.writeWorkspaceResult(w, ws, err)
	case r.Method == http.MethodDelete && len(parts) == 1:
		ws, err := s.service.DeletePersona(r.Context(), sess, workspaceID, segmentID, parts[0])
		s.writeWorkspaceResult(w, ws, err)
	default:
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
	}
}

func (s *HTTPServer) handleCollaborators(w http.ResponseWriter, r *http.Request, sess Session, workspaceID string, parts []string) {
	switch {
	case r.Method == http.MethodPost && len(parts) == 0:
		var body struct {
			UserID string `json:"userId"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		ws, err := s.service.AddCollaborator(r.Context(), sess, workspaceID, body.UserID)
		s.writeWorkspaceResult(w, ws, err)
	case r.Method == http.MethodDelete && len(parts) == 1:
		ws, err := s.service.RemoveCollaborator(r.Context(), sess, workspaceID, parts[0])
		s.writeWorkspaceResult(w, ws, err)
	default:
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
	}
}

func (s *HTTPServer) handleWizard(w http.ResponseWriter, r *http.Request, parts []string) {
	sess, ok := s.requireSession(w, r)
	if !ok {
		return
	}
	if r.Method != http.MethodPost {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
		return
	}

	if len(parts) == 2 && parts[0] == "enhanced-icp" {
		var patch icp.WorkspacePatch
		if err := decodeBody(r, &patch); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		ws, err := s.service.SaveEnhancedICP(r.Context(), sess, parts[1], patch)
		if err != nil {
			s.writeMappedError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success":   true,
			"message":   "Enhanced ICP data saved successfully",
			"workspace": ws,
		})
		return
	}

	if len(parts) != 1 {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
		return
	}

	switch parts[0] {
	case "generate-suggestions":
		var body struct {
			CurrentStep int             `json:"currentStep"`
			FormData    enrich.StepForm `json:"formData"`
			CompanyName string          `json:"companyName"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		suggestions, err := s.service.StepSuggestions(r.Context(), body.CurrentStep, body.FormData, body.CompanyName)
		if err != nil {
			s.writeMappedError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "suggestions": suggestions})
	case "generate-field-suggestions":
		var body struct {
			FieldType string              `json:"fieldType"`
			Domain    string              `json:"domain"`
			Context   enrich.FieldContext `json:"context"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		suggestions, err := s.service.FieldSuggestions(r.Context(), body.FieldType, body.Domain, body.Context)
		if err != nil {
			s.writeMappedError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "suggestions": suggestions})
	case "generate-persona-details":
		var body struct {
			PersonaTitle string      `json:"personaTitle"`
			CompanyData  companyData `json:"companyData"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		details, err := s.service.PersonaDetails(r.Context(), body.PersonaTitle, body.CompanyData.CompanyName, body.CompanyData.Products)
		if err != nil {
			s.writeMappedError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": details})
	case "generate-segment-details":
		var body struct {
			SegmentDescription string      `json:"segmentDescription"`
			CompanyData        companyData `json:"companyData"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		details, err := s.service.SegmentDetails(r.Context(), body.SegmentDescription, body.CompanyData.CompanyName, body.CompanyData.Products)
		if err != nil {
			s.writeMappedError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": details})
	case "generate-product-details":
		var body struct {
			ProductName string      `json:"productName"`
			CompanyData companyData `json:"companyData"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		details, err := s.service.ProductDetails(r.Context(), body.ProductName, body.CompanyData.CompanyName)
		if err != nil {
			s.writeMappedError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": details})
	default:
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
	}
}

type companyData struct {
	CompanyName string   `json:"companyName"`
	Products    []string `json:"products"`
}

func (s *HTTPServer) handleAuthSignUp(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}
	user, sess, err := s.service.SignUp(r.Context(), body.Name, body.Email, body.Password)
	if err != nil {
		s.writeMappedError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"success":      true,
		"token":        sess.Token,
		"refreshToken": sess.RefreshToken,
		"user":         user,
		"expiresAt":    sess.ExpiresAt.Unix(),
	})
}

func (s *HTTPServer) handleAuthSignIn(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}
	user, sess, err := s.service.SignIn(r.Context(), body.Email, body.Password)
	if err != nil {
		s.writeMappedError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"token":        sess.Token,
		"refreshToken": sess.RefreshToken,
		"user":         user,
		"expiresAt":    sess.ExpiresAt.Unix(),
	})
}

func (s *HTTPServer) writeWorkspaceResult(w http.ResponseWriter, ws icp.Workspace, err error) {
	if err != nil {
		s.writeMappedError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "workspace": ws})
}

func (s *HTTPServer) writeMappedError(w http.ResponseWriter, err error) {
	status, code, message, details := mapError(err)
	writeError(w, status, code, message, details)
}

func (s *HTTPServer) requireSession(w http.ResponseWriter, r *http.Request) (Session, bool) {
	token := bearerToken(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return Session{}, false
	}
	sess, err := s.service.SessionFromToken(r.Context(), token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) || errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
			return Session{}, false
		}
		writeError(w, http.StatusInternalServerError, "SERVER_ERROR", "Session lookup failed", nil)
		return Session{}, false
	}
	return sess, true
}

func (s *HTTPServer) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = randomRequestID()
		}
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		started := time.Now()
		writer := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		setCORSHeaders(writer.Header(), s.corsOrigin)
		writer.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(writer, r)

		log.Printf(`{"request_id":"%s","method":"%s","path":"%s","status":%d,"duration_ms":%d}`,
			requestID,
			r.Method,
			r.URL.Path,
			writer.status,
			time.Since(started).Milliseconds(),
		)
	})
}

type requestIDKey struct{}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func randomRequestID() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

func setCORSHeaders(header http.Header, corsOrigin string) {
	header.Set("Access-Control-Allow-Origin", corsOrigin)
	header.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
	header.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
	header.Set("Cache-Control", "no-store")
	header.Set("Content-Type", "application/json")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string, details any) {
	response := map[string]any{
		"success": false,
		"code":    code,
		"error":   message,
	}
	if details != nil {
		response["details"] = details
	}
	writeJSON(w, status, response)
}

func decodeBody(r *http.Request, target any) error {
	if r.Body == nil {
		return nil
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, http.ErrBodyReadAfterClose) {
			return nil
		}
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func queryFlag(r *http.Request, name string) bool {
	return strings.EqualFold(r.URL.Query().Get(name), "true")
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func mapError(err error) (status int, code, message string, details any) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Status, domainErr.Code, domainErr.Message, domainErr.Details
	}
	if errors.Is(err, sql.ErrNoRows) {
		return http.StatusNotFound, "NOT_FOUND", "Not found", nil
	}
	if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, auth.ErrExpiredToken) || errors.Is(err, session.ErrNotFound) {
		return http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil
	}
	return http.StatusInternalServerError, "SERVER_ERROR", "Server error", nil
}
