package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"compass/api/internal/icp"
)

// PostgresStore persists users as rows and workspaces as one JSONB
// document per row alongside the indexed columns (slug, owner).
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) DB() *sql.DB {
	return s.db
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) CreateUser(ctx context.Context, user User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, password_hash)
		VALUES ($1, $2, $3, $4)
	`, user.ID, user.Name, user.Email, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var user User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, created_at FROM users WHERE email=$1
	`, email).Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		return User{}, err
	}
	return user, nil
}

func (s *PostgresStore) GetUserByID(ctx context.Context, id string) (User, error) {
	var user User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, created_at FROM users WHERE id=$1
	`, id).Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		return User{}, err
	}
	return user, nil
}

func (s *PostgresStore) InsertWorkspace(ctx context.Context, ws icp.Workspace) error {
	icp.Normalize(&ws)
	doc, err := json.Marshal(ws)
	if err != nil {
		return fmt.Errorf("marshal workspace: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO workspaces (id, slug, owner_id, doc, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, ws.ID, ws.Slug, ws.OwnerID, doc, ws.CreatedAt, ws.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert workspace: %w", err)
	}
	return nil
}

// SaveWorkspace replaces the whole stored document.
func (s *PostgresStore) SaveWorkspace(ctx context.Context, ws icp.Workspace) error {
	icp.Normalize(&ws)
	doc, err := json.Marshal(ws)
	if err != nil {
		return fmt.Errorf("marshal workspace: %w", err)
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE workspaces SET slug=$2, owner_id=$3, doc=$4, updated_at=$5 WHERE id=$1
	`, ws.ID, ws.Slug, ws.OwnerID, doc, ws.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update workspace: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update workspace: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *PostgresStore) GetWorkspace(ctx context.Context, id string) (icp.Workspace, error) {
	return s.scanWorkspace(s.db.QueryRowContext(ctx, `
		SELECT doc, created_at, updated_at FROM workspaces WHERE id=$1
	`, id))
}

func (s *PostgresStore) GetWorkspaceBySlug(ctx context.Context, slug string) (icp.Workspace, error) {
	return s.scanWorkspace(s.db.QueryRowContext(ctx, `
		SELECT doc, created_at, updated_at FROM workspaces WHERE slug=$1
	`, slug))
}

func (s *PostgresStore) scanWorkspace(row *sql.Row) (icp.Workspace, error) {
	var (
		doc       []byte
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(&doc, &createdAt, &updatedAt); err != nil {
		return icp.Workspace{}, err
	}
	var ws icp.Workspace
	if err := json.Unmarshal(doc, &ws); err != nil {
		return icp.Workspace{}, fmt.Errorf("unmarshal workspace: %w", err)
	}
	ws.CreatedAt = createdAt
	ws.UpdatedAt = updatedAt
	icp.Normalize(&ws)
	return ws, nil
}

// ListWorkspacesForUser returns workspaces the user owns plus those
// where the user appears in the document's collaborator list.
func (s *PostgresStore) ListWorkspacesForUser(ctx context.Context, userID string) ([]icp.Workspace, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT doc, created_at, updated_at FROM workspaces
		WHERE owner_id = $1
			OR doc->'collaborators' @> jsonb_build_array($1::text)
		ORDER BY updated_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list workspaces: %w", err)
	}
	defer rows.Close()

	var out []icp.Workspace
	for rows.Next() {
		var (
			doc       []byte
			createdAt time.Time
			updatedAt time.Time
		)
		if err := rows.Scan(&doc, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan workspace: %w", err)
		}
		var ws icp.Workspace
		if err := json.Unmarshal(doc, &ws); err != nil {
			return nil, fmt.Errorf("unmarshal workspace: %w", err)
		}
		ws.CreatedAt = createdAt
		ws.UpdatedAt = updatedAt
		icp.Normalize(&ws)
		out = append(out, ws)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list workspaces: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) DeleteWorkspace(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM workspaces WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("delete workspace: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete workspace: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *PostgresStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM workspaces WHERE slug=$1)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return exists, nil
}

// IsNotFound reports whether the error is the store's row-missing case.
func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
