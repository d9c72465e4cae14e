package app

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"compass/api/internal/access"
	"compass/api/internal/auth"
	"compass/api/internal/authpw"
	"compass/api/internal/config"
	"compass/api/internal/enrich"
	"compass/api/internal/icp"
	"compass/api/internal/refine"
	"compass/api/internal/session"
	"compass/api/internal/store"
	"compass/api/internal/util"
)

type Session struct {
	Token        string
	RefreshToken string
	UserID       string
	UserName     string
	JTI          string
	ExpiresAt    time.Time
}

type dataStore interface {
	CreateUser(ctx context.Context, user store.User) error
	GetUserByEmail(ctx context.Context, email string) (store.User, error)
	GetUserByID(ctx context.Context, id string) (store.User, error)
	InsertWorkspace(ctx context.Context, ws icp.Workspace) error
	SaveWorkspace(ctx context.Context, ws icp.Workspace) error
	GetWorkspace(ctx context.Context, id string) (icp.Workspace, error)
	GetWorkspaceBySlug(ctx context.Context, slug string) (icp.Workspace, error)
	ListWorkspacesForUser(ctx context.Context, userID string) ([]icp.Workspace, error)
	DeleteWorkspace(ctx context.Context, id string) error
	SlugExists(ctx context.Context, slug string) (bool, error)
	Ping(ctx context.Context) error
}

type sessionStore interface {
	Save(ctx context.Context, tokenHash, userID, name string, expiresAt time.Time) error
	Lookup(ctx context.Context, tokenHash string) (session.Data, error)
	Revoke(ctx context.Context, tokenHash string) error
	Ping(ctx context.Context) error
}

type Service struct {
	cfg      config.Config
	store    dataStore
	sessions sessionStore
	accounts *authpw.Service
	refiner  *refine.Engine
	enricher *enrich.Engine
}

func New(cfg config.Config, dataStore *store.PostgresStore, sessions *session.RedisStore, refiner *refine.Engine, enricher *enrich.Engine) *Service {
	return &Service{
		cfg:      cfg,
		store:    dataStore,
		sessions: sessions,
		accounts: authpw.NewService(dataStore),
		refiner:  refiner,
		enricher: enricher,
	}
}

func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// --- accounts and sessions ---

func (s *Service) SignUp(ctx context.Context, name, email, password string) (store.User, Session, error) {
	user, err := s.accounts.SignUp(ctx, authpw.SignUpRequest{Name: name, Email: email, Password: password})
	if err != nil {
		if errors.Is(err, authpw.ErrEmailTaken) {
			return store.User{}, Session{}, domainError(http.StatusConflict, "EMAIL_EXISTS", "Email already registered", nil)
		}
		return store.User{}, Session{}, domainError(http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
	}
	sess, err := s.issueSession(ctx, user)
	if err != nil {
		return store.User{}, Session{}, err
	}
	return user, sess, nil
}

func (s *Service) SignIn(ctx context.Context, email, password string) (store.User, Session, error) {
	user, err := s.accounts.SignIn(ctx, email, password)
	if err != nil {
		return store.User{}, Session{}, domainError(http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password", nil)
	}
	sess, err := s.issueSession(ctx, user)
	if err != nil {
		return store.User{}, Session{}, err
	}
	return user, sess, nil
}

func (s *Service) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	tokenHash := auth.HashToken(refreshToken)
	data, err := s.sessions.Lookup(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return Session{}, auth.ErrInvalidToken
		}
		return Session{}, err
	}
	if err := s.sessions.Revoke(ctx, tokenHash); err != nil {
		return Session{}, err
	}
	user, err := s.store.GetUserByID(ctx, data.UserID)
	if err != nil {
		return Session{}, err
	}
	return s.issueSession(ctx, user)
}

func (s *Service) issueSession(ctx context.Context, user store.User) (Session, error) {
	now := time.Now()
	expiresAt := now.Add(s.cfg.AccessTTL)
	jti := util.NewID("jti")

	token, err := auth.IssueToken([]byte(s.cfg.JWTSecret), user.ID, user.Name, jti, s.cfg.AccessTTL)
	if err != nil {
		return Session{}, err
	}

	refresh := util.NewID("rft") + util.NewID("")
	refreshExpires := now.Add(s.cfg.RefreshTTL)
	if err := s.sessions.Save(ctx, auth.HashToken(refresh), user.ID, user.Name, refreshExpires); err != nil {
		return Session{}, err
	}

	return Session{
		Token:        token,
		RefreshToken: refresh,
		UserID:       user.ID,
		UserName:     user.Name,
		JTI:          jti,
		ExpiresAt:    expiresAt,
	}, nil
}

func (s *Service) SessionFromToken(ctx context.Context, token string) (Session, error) {
	claims, err := auth.ParseToken([]byte(s.cfg.JWTSecret), token)
	if err != nil {
		return Session{}, err
	}
	user, err := s.store.GetUserByID(ctx, claims.Subject)
	if err != nil {
		return Session{}, err
	}
	return Session{
		Token:     token,
		UserID:    user.ID,
		UserName:  user.Name,
		JTI:       claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Logout revokes the refresh token. Access tokens stay valid until they
// expire; the access TTL is short enough that a revocation list is not
// worth a round trip on every request.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken != "" {
		_ = s.sessions.Revoke(ctx, auth.HashToken(refreshToken))
	}
	return nil
}

// --- workspaces ---

type CreateWorkspaceInput struct {
	Name        string `json:"name"`
	CompanyName string `json:"companyName"`
	CompanyURL  string `json:"companyUrl"`
}

func (s *Service) CreateWorkspace(ctx context.Context, sess Session, input CreateWorkspaceInput) (icp.Workspace, error) {
	name := strings.TrimSpace(input.Name)
	companyName := strings.TrimSpace(input.CompanyName)
	companyURL := strings.TrimSpace(input.CompanyURL)
	if name == "" || companyName == "" || companyURL == "" {
		return icp.Workspace{}, domainError(http.StatusBadRequest, "VALIDATION_ERROR", "Missing fields", nil)
	}

	slug, err := icp.UniqueSlug(icp.Slugify(name), func(candidate string) (bool, error) {
		return s.store.SlugExists(ctx, candidate)
	})
	if err != nil {
		return icp.Workspace{}, err
	}

	now := time.Now().UTC()
	ws := icp.Workspace{
		ID:          util.NewID("ws"),
		Slug:        slug,
		Name:        name,
		CompanyName: companyName,
		CompanyURL:  companyURL,
		OwnerID:     sess.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.InsertWorkspace(ctx, ws); err != nil {
		return icp.Workspace{}, err
	}
	return ws, nil
}

// GetWorkspaceBySlug serves the public read path and performs no access
// check.
func (s *Service) GetWorkspaceBySlug(ctx context.Context, slug string) (icp.Workspace, error) {
	return s.store.GetWorkspaceBySlug(ctx, slug)
}

// GetWorkspace reads by id and is restricted to the owner and
// collaborators, unlike the public slug read.
func (s *Service) GetWorkspace(ctx context.Context, sess Session, workspaceID string) (icp.Workspace, error) {
	ws, err := s.store.GetWorkspace(ctx, workspaceID)
	if err != nil {
		return icp.Workspace{}, err
	}
	if err := s.authorize(sess, ws, access.ActionView); err != nil {
		return icp.Workspace{}, err
	}
	return ws, nil
}

func (s *Service) ListWorkspacesForUser(ctx context.Context, sess Session, userID string) ([]icp.Workspace, error) {
	if !strings.EqualFold(sess.UserID, userID) {
		return nil, domainError(http.StatusForbidden, "FORBIDDEN", "Not authorized to list these workspaces", nil)
	}
	return s.store.ListWorkspacesForUser(ctx, userID)
}

func (s *Service) DeleteWorkspace(ctx context.Context, sess Session, workspaceID string) error {
	ws, err := s.store.GetWorkspace(ctx, workspaceID)
	if err != nil {
		return err
	}
	if err := s.authorize(sess, ws, access.ActionManage); err != nil {
		return err
	}
	return s.store.DeleteWorkspace(ctx, workspaceID)
}

func (s *Service) AddCollaborator(ctx context.Context, sess Session, workspaceID, userID string) (icp.Workspace, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return icp.Workspace{}, domainError(http.StatusBadRequest, "VALIDATION_ERROR", "userId is required", nil)
	}
	ws, err := s.store.GetWorkspace(ctx, workspaceID)
	if err != nil {
		return icp.Workspace{}, err
	}
	if err := s.authorize(sess, ws, access.ActionManage); err != nil {
		return icp.Workspace{}, err
	}
	for _, existing := range ws.Collaborators {
		if strings.EqualFold(existing, userID) {
			return ws, nil
		}
	}
	ws.Collaborators = append(ws.Collaborators, userID)
	ws.UpdatedAt = time.Now().UTC()
	if err := s.store.SaveWorkspace(ctx, ws); err != nil {
		return icp.Workspace{}, err
	}
	return ws, nil
}

func (s *Service) RemoveCollaborator(ctx context.Context, sess Session, workspaceID, userID string) (icp.Workspace, error) {
	ws, err := s.store.GetWorkspace(ctx, workspaceID)
	if err != nil {
		return icp.Workspace{}, err
	}
	if err := s.authorize(sess, ws, access.ActionManage); err != nil {
		return icp.Workspace{}, err
	}
	kept := ws.Collaborators[:0]
	for _, existing := range ws.Collaborators {
		if !strings.EqualFold(existing, userID) {
			kept = append(kept, existing)
		}
	}
	ws.Collaborators = kept
	ws.UpdatedAt = time.Now().UTC()
	if err := s.store.SaveWorkspace(ctx, ws); err != nil {
		return icp.Workspace{}, err
	}
	return ws, nil
}

func (s *Service) authorize(sess Session, ws icp.Workspace, action access.Action) error {
	role := access.RoleFor(sess.UserID, ws.OwnerID, ws.Collaborators)
	if !access.Can(role, action) {
		return domainError(http.StatusForbidden, "FORBIDDEN", "Not authorized to modify this workspace", nil)
	}
	return nil
}

// --- bulk ICP updates ---

// UpdateICP is the bulk save used by the profile wizard. Sections present
// in the payload replace the stored sections outright; a successful save
// then kicks off version-set enrichment, whose failure is logged and
// never bubbles up to the caller.
func (s *Service) UpdateICP(ctx context.Context, sess Session, slug string, patch icp.WorkspacePatch) (icp.Workspace, error) {
	if err := validateICPPatch(patch); err != nil {
		return icp.Workspace{}, err
	}
	ws, err := s.store.GetWorkspaceBySlug(ctx, slug)
	if err != nil {
		return icp.Workspace{}, err
	}
	if err := s.authorize(sess, ws, access.ActionEdit); err != nil {
		return icp.Workspace{}, err
	}

	icp.ApplyReplace(&ws, patch, time.Now().UTC())
	if err := s.store.SaveWorkspace(ctx, ws); err != nil {
		return icp.Workspace{}, err
	}

	if versions := s.enrichVersions(ctx, ws); len(versions) > 0 {
		ws.EnrichmentVersions = versions
		ws.UpdatedAt = time.Now().UTC()
		if err := s.store.SaveWorkspace(ctx, ws); err != nil {
			log.Printf(`{"event":"enrichment_save_failed","workspace":"%s","error":"%s"}`, ws.ID, err)
		}
	}
	return ws, nil
}

func validateICPPatch(patch icp.WorkspacePatch) error {
	ok := patch.CompanyURL != nil && strings.TrimSpace(*patch.CompanyURL) != "" &&
		patch.Products != nil && len(*patch.Products) > 0 &&
		patch.Personas != nil && len(*patch.Personas) > 0 &&
		patch.UseCases != nil && len(*patch.UseCases) > 0 &&
		patch.Segments != nil && len(*patch.Segments) > 0 &&
		patch.Differentiation != nil
	if ok && patch.Competitors != nil {
		for _, competitor := range *patch.Competitors {
			if strings.TrimSpace(competitor.Name) == "" || strings.TrimSpace(competitor.URL) == "" {
				ok = false
				break
			}
		}
	}
	if !ok {
		return domainError(http.StatusBadRequest, "VALIDATION_ERROR", "Missing or invalid ICP fields", nil)
	}
	return nil
}

func (s *Service) ReEnrich(ctx context.Context, sess Session, slug string) (map[string]json.RawMessage, error) {
	ws, err := s.store.GetWorkspaceBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(sess, ws, access.ActionEdit); err != nil {
		return nil, err
	}
	versions := s.enrichVersions(ctx, ws)
	if len(versions) == 0 {
		return nil, domainError(http.StatusInternalServerError, "ENRICHMENT_FAILED", "Enrichment is not available", nil)
	}
	ws.EnrichmentVersions = versions
	ws.UpdatedAt = time.Now().UTC()
	if err := s.store.SaveWorkspace(ctx, ws); err != nil {
		return nil, err
	}
	return versions, nil
}

func (s *Service) enrichVersions(ctx context.Context, ws icp.Workspace) map[string]json.RawMessage {
	if s.enricher == nil {
		return nil
	}
	productNames := make([]string, 0, len(ws.Products))
	for _, product := range ws.Products {
		if strings.TrimSpace(product.Name) != "" {
			productNames = append(productNames, product.Name)
		}
	}
	segmentNames := make([]string, 0, len(ws.Segments))
	for _, segment := range ws.Segments {
		if strings.TrimSpace(segment.Name) != "" {
			segmentNames = append(segmentNames, segment.Name)
		}
	}
	return s.enricher.Versions(ctx, enrich.VersionsInput{
		CompanyName: ws.CompanyName,
		CompanyURL:  ws.CompanyURL,
		Products:    productNames,
		Competitors: ws.Competitors,
		Segments:    segmentNames,
	})
}

// SaveEnhancedICP is the owner-only bulk save from the enhanced wizard.
// It accepts the full patch shape, including the single-product form that
// updates the first product in place.
func (s *Service) SaveEnhancedICP(ctx context.Context, sess Session, workspaceID string, patch icp.WorkspacePatch) (icp.Workspace, error) {
	ws, err := s.store.GetWorkspace(ctx, workspaceID)
	if err != nil {
		return icp.Workspace{}, err
	}
	if err := s.authorize(sess, ws, access.ActionManage); err != nil {
		return icp.Workspace{}, err
	}
	if patch.Product != nil && patch.Product.Name == nil {
		fallback := ws.CompanyName
		if strings.TrimSpace(fallback) == "" {
			fallback = "Main Product"
		}
		patch.Product.Name = &fallback
	}
	icp.ApplyReplace(&ws, patch, time.Now().UTC())
	if err := s.store.SaveWorkspace(ctx, ws); err != nil {
		return icp.Workspace{}, err
	}
	return ws, nil
}

// --- sub-entity CRUD ---

func (s *Service) AddProduct(ctx context.Context, sess Session, workspaceID string, patch icp.ProductPatch, refineFields bool) (icp.Workspace, error) {
	ws, err := s.store.GetWorkspace(ctx, workspaceID)
	if err != nil {
		return icp.Workspace{}, err
	}
	if err := s.authorize(sess, ws, access.ActionEdit); err != nil {
		return icp.Workspace{}, err
	}
	patch.ID = nil
	now := time.Now().UTC()
	before := len(ws.Products)
	icp.Apply(&ws, icp.WorkspacePatch{Products: &[]icp.ProductPatch{patch}}, now)
	if refineFields && len(ws.Products) > before {
		idx := len(ws.Products) - 1
		ws.Products[idx] = s.refineProduct(ctx, ws, ws.Products[idx])
	}
	return s.saveAndReturn(ctx, ws, now)
}

func (s *Service) UpdateProduct(ctx context.Context, sess Session, workspaceID, productID string, patch icp.ProductPatch, refineFields bool) (icp.Workspace, error) {
	ws, err := s.store.GetWorkspace(ctx, workspaceID)
	if err != nil {
		return icp.Workspace{}, err
	}
	if err := s.authorize(sess, ws, access.ActionEdit); err != nil {
		return icp.Workspace{}, err
	}
	idx := productIndex(ws.Products, productID)
	if idx < 0 {
		return icp.Workspace{}, sql.ErrNoRows
	}
	patch.ID = &productID
	now := time.Now().UTC()
	icp.Apply(&ws, icp.WorkspacePatch{Products: &[]icp.ProductPatch{patch}}, now)
	if refineFields {
		if idx = productIndex(ws.Products, productID); idx >= 0 {
			ws.Products[idx] = s.refineProduct(ctx, ws, ws.Products[idx])
		}
	}
	return s.saveAndReturn(ctx, ws, now)
}

func (s *Service) DeleteProduct(ctx context.Context, sess Session, workspaceID, productID string) (icp.Workspace, error) {
	ws, err := s.store.GetWorkspace(ctx, workspaceID)
	if err != nil {
		return icp.Workspace{}, err
	}
	if err := s.authorize(sess, ws, access.ActionManage); err != nil {
		return icp.Workspace{}, err
	}
	if !icp.DeleteProductByID(&ws, productID) {
		return icp.Workspace{}, sql.ErrNoRows
	}
	return s.saveAndReturn(ctx, ws, time.Now().UTC())
}

func (s *Service) AddSegment(ctx context.Context, sess Session, workspaceID string, patch icp.SegmentPatch, refineFields bool) (icp.Workspace, error) {
	ws, err := s.store.GetWorkspace(ctx, workspaceID)
	if err != nil {
		return icp.Workspace{}, err
	}
	if err := s.authorize(sess, ws, access.ActionEdit); err != nil {
		return icp.Workspace{}, err
	}
	patch.ID = nil
	now := time.Now().UTC()
	before := len(ws.Segments)
	icp.Apply(&ws, icp.WorkspacePatch{Segments: &[]icp.SegmentPatch{patch}}, now)
	if refineFields && len(ws.Segments) > before {
		idx := len(ws.Segments) - 1
		ws.Segments[idx] = s.refineSegment(ctx, ws, ws.Segments[idx])
	}
	return s.saveAndReturn(ctx, ws, now)
}

func (s *Service) UpdateSegment(ctx context.Context, sess Session, workspaceID, segmentID string, patch icp.SegmentPatch, refineFields bool) (icp.Workspace, error) {
	ws, err := s.store.GetWorkspace(ctx, workspaceID)
	if err != nil {
		return icp.Workspace{}, err
	}
	if err := s.authorize(sess, ws, access.ActionEdit); err != nil {
		return icp.Workspace{}, err
	}
	if icp.SegmentByID(&ws, segmentID) == nil {
		return icp.Workspace{}, sql.ErrNoRows
	}
	patch.ID = &segmentID
	now := time.Now().UTC()
	icp.Apply(&ws, icp.WorkspacePatch{Segments: &[]icp.SegmentPatch{patch}}, now)
	if refineFields {
		if segment := icp.SegmentByID(&ws, segmentID); segment != nil {
			*segment = s.refineSegment(ctx, ws, *segment)
		}
	}
	return s.saveAndReturn(ctx, ws, now)
}

func (s *Service) DeleteSegment(ctx context.Context, sess Session, workspaceID, segmentID string) (icp.Workspace, error) {
	ws, err := s.store.GetWorkspace(ctx, workspaceID)
	if err != nil {
		return icp.Workspace{}, err
	}
	if err := s.authorize(sess, ws, access.ActionManage); err != nil {
		return icp.Workspace{}, err
	}
	if !icp.DeleteSegmentByID(&ws, segmentID) {
		return icp.Workspace{}, sql.ErrNoRows
	}
	return s.saveAndReturn(ctx, ws, time.Now().UTC())
}

func (s *Service) AddPersona(ctx context.Context, sess Session, workspaceID, segmentID string, patch icp.PersonaPatch, refineFields bool) (icp.Workspace, error) {
	ws, err := s.store.GetWorkspace(ctx, workspaceID)
	if err != nil {
		return icp.Workspace{}, err
	}
	if err := s.authorize(sess, ws, access.ActionEdit); err != nil {
		return icp.Workspace{}, err
	}
	segment := icp.SegmentByID(&ws, segmentID)
	if segment == nil {
		return icp.Workspace{}, sql.ErrNoRows
	}
	patch.ID = nil
	now := time.Now().UTC()
	before := len(segment.Personas)
	segment.Personas = icp.MergePersonas(segment.Personas, []icp.PersonaPatch{patch}, now)
	if refineFields && len(segment.Personas) > before {
		idx := len(segment.Personas) - 1
		segment.Personas[idx] = s.refinePersona(ctx, ws, *segment, segment.Personas[idx])
	}
	return s.saveAndReturn(ctx, ws, now)
}

func (s *Service) UpdatePersona(ctx context.Context, sess Session, workspaceID, segmentID, personaID string, patch icp.PersonaPatch, refineFields bool) (icp.Workspace, error) {
	ws, err := s.store.GetWorkspace(ctx, workspaceID)
	if err != nil {
		return icp.Workspace{}, err
	}
	if err := s.authorize(sess, ws, access.ActionEdit); err != nil {
		return icp.Workspace{}, err
	}
	segment := icp.SegmentByID(&ws, segmentID)
	if segment == nil || personaIndex(segment.Personas, personaID) < 0 {
		return icp.Workspace{}, sql.ErrNoRows
	}
	patch.ID = &personaID
	now := time.Now().UTC()
	segment.Personas = icp.MergePersonas(segment.Personas, []icp.PersonaPatch{patch}, now)
	if refineFields {
		if idx := personaIndex(segment.Personas, personaID); idx >= 0 {
			segment.Personas[idx] = s.refinePersona(ctx, ws, *segment, segment.Personas[idx])
		}
	}
	return s.saveAndReturn(ctx, ws, now)
}

func (s *Service) DeletePersona(ctx context.Context, sess Session, workspaceID, segmentID, personaID string) (icp.Workspace, error) {
	ws, err := s.store.GetWorkspace(ctx, workspaceID)
	if err != nil {
		return icp.Workspace{}, err
	}
	if err := s.authorize(sess, ws, access.ActionManage); err != nil {
		return icp.Workspace{}, err
	}
	segment := icp.SegmentByID(&ws, segmentID)
	if segment == nil || !icp.DeletePersonaByID(segment, personaID) {
		return icp.Workspace{}, sql.ErrNoRows
	}
	return s.saveAndReturn(ctx, ws, time.Now().UTC())
}

func (s *Service) saveAndReturn(ctx context.Context, ws icp.Workspace, now time.Time) (icp.Workspace, error) {
	ws.UpdatedAt = now
	if err := s.store.SaveWorkspace(ctx, ws); err != nil {
		return icp.Workspace{}, err
	}
	return ws, nil
}

func productIndex(products []icp.Product, id string) int {
	for i := range products {
		if products[i].ID == id {
			return i
		}
	}
	return -1
}

func personaIndex(personas []icp.Persona, id string) int {
	for i := range personas {
		if personas[i].ID == id {
			return i
		}
	}
	return -1
}

// --- optional per-field refinement ---

func (s *Service) refineProduct(ctx context.Context, ws icp.Workspace, product icp.Product) icp.Product {
	if s.refiner == nil {
		return product
	}
	return s.refiner.Product(ctx, product, refine.Context{
		CompanyName: ws.CompanyName,
		Domain:      ws.Domain,
		ProductName: product.Name,
	})
}

func (s *Service) refineSegment(ctx context.Context, ws icp.Workspace, segment icp.Segment) icp.Segment {
	if s.refiner == nil {
		return segment
	}
	return s.refiner.Segment(ctx, segment, refine.Context{
		CompanyName: ws.CompanyName,
		Domain:      ws.Domain,
		Industry:    segment.Industry,
		CompanySize: segment.CompanySize,
	})
}

func (s *Service) refinePersona(ctx context.Context, ws icp.Workspace, segment icp.Segment, persona icp.Persona) icp.Persona {
	if s.refiner == nil {
		return persona
	}
	return s.refiner.Persona(ctx, persona, refine.Context{
		CompanyName:  ws.CompanyName,
		Domain:       ws.Domain,
		Industry:     segment.Industry,
		PersonaTitle: persona.Title,
		Department:   persona.Department,
	})
}

// --- wizard passthroughs ---

func (s *Service) StepSuggestions(ctx context.Context, step int, form enrich.StepForm, companyName string) (json.RawMessage, error) {
	if s.enricher == nil {
		return nil, domainError(http.StatusServiceUnavailable, "ENRICHMENT_UNAVAILABLE", "Enrichment is not configured", nil)
	}
	suggestions, err := s.enricher.StepSuggestions(ctx, step, form, companyName)
	if err != nil {
		if errors.Is(err, enrich.ErrUnknownStep) {
			return nil, domainError(http.StatusBadRequest, "VALIDATION_ERROR", "Unknown wizard step", nil)
		}
		return nil, domainError(http.StatusInternalServerError, "ENRICHMENT_FAILED", "Failed to generate suggestions", map[string]any{"reason": err.Error()})
	}
	return suggestions, nil
}

func (s *Service) FieldSuggestions(ctx context.Context, fieldType, domain string, fctx enrich.FieldContext) (json.RawMessage, error) {
	if s.enricher == nil {
		return nil, domainError(http.StatusServiceUnavailable, "ENRICHMENT_UNAVAILABLE", "Enrichment is not configured", nil)
	}
	suggestions, err := s.enricher.FieldSuggestions(ctx, fieldType, domain, fctx)
	if err != nil {
		if errors.Is(err, enrich.ErrUnknownField) {
			return nil, domainError(http.StatusBadRequest, "VALIDATION_ERROR", "Unknown field type", nil)
		}
		return nil, domainError(http.StatusInternalServerError, "ENRICHMENT_FAILED", "Failed to generate suggestions", map[string]any{"reason": err.Error()})
	}
	return suggestions, nil
}

func (s *Service) PersonaDetails(ctx context.Context, personaTitle, companyName string, products []string) (enrich.PersonaDetails, error) {
	if strings.TrimSpace(personaTitle) == "" {
		return enrich.PersonaDetails{}, domainError(http.StatusBadRequest, "VALIDATION_ERROR", "Persona title is required", nil)
	}
	if s.enricher == nil {
		return enrich.PersonaDetails{}, domainError(http.StatusServiceUnavailable, "ENRICHMENT_UNAVAILABLE", "Enrichment is not configured", nil)
	}
	details, err := s.enricher.PersonaDetails(ctx, personaTitle, companyName, products)
	if err != nil {
		return enrich.PersonaDetails{}, domainError(http.StatusInternalServerError, "ENRICHMENT_FAILED", "Failed to generate persona details", map[string]any{"reason": err.Error()})
	}
	return details, nil
}

func (s *Service) SegmentDetails(ctx context.Context, segmentDescription, companyName string, products []string) (enrich.SegmentDetails, error) {
	if strings.TrimSpace(segmentDescription) == "" {
		return enrich.SegmentDetails{}, domainError(http.StatusBadRequest, "VALIDATION_ERROR", "Segment description is required", nil)
	}
	if s.enricher == nil {
		return enrich.SegmentDetails{}, domainError(http.StatusServiceUnavailable, "ENRICHMENT_UNAVAILABLE", "Enrichment is not configured", nil)
	}
	details, err := s.enricher.SegmentDetails(ctx, segmentDescription, companyName, products)
	if err != nil {
		return enrich.SegmentDetails{}, domainError(http.StatusInternalServerError, "ENRICHMENT_FAILED", "Failed to generate segment details", map[string]any{"reason": err.Error()})
	}
	return details, nil
}

func (s *Service) ProductDetails(ctx context.Context, productName, companyName string) (enrich.ProductDetails, error) {
	if strings.TrimSpace(productName) == "" {
		return enrich.ProductDetails{}, domainError(http.StatusBadRequest, "VALIDATION_ERROR", "Product name is required", nil)
	}
	if s.enricher == nil {
		return enrich.ProductDetails{}, domainError(http.StatusServiceUnavailable, "ENRICHMENT_UNAVAILABLE", "Enrichment is not configured", nil)
	}
	details, err := s.enricher.ProductDetails(ctx, productName, companyName)
	if err != nil {
		return enrich.ProductDetails{}, domainError(http.StatusInternalServerError, "ENRICHMENT_FAILED", "Failed to generate product details", map[string]any{"reason": err.Error()})
	}
	return details, nil
}
