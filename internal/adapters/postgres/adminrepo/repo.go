package adminrepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/family-archive/family-tree-api/internal/adapters/postgres"
	"github.com/family-archive/family-tree-api/internal/domain"
	"github.com/family-archive/family-tree-api/internal/ports/out/adminrepo"
)

// Repo is a Postgres implementation of adminrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, u domain.AdminUser) (domain.AdminUser, error) {
	if r.pool == nil {
		return domain.AdminUser{}, errors.New("nil postgres pool")
	}
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO admin_users (username, password_hash, is_active, created_at, last_login)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`,
		u.Username,
		u.PasswordHash,
		u.IsActive,
		u.CreatedAt.UTC(),
		u.LastLogin,
	).Scan(&id)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			return domain.AdminUser{}, adminrepo.ErrAlreadyExists
		}
		return domain.AdminUser{}, err
	}
	u.ID = domain.AdminID(id)
	return u, nil
}

func (r *Repo) Update(ctx context.Context, u domain.AdminUser) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE admin_users
		SET password_hash = $2, is_active = $3, last_login = $4
		WHERE username = $1
	`,
		u.Username,
		u.PasswordHash,
		u.IsActive,
		u.LastLogin,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return adminrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) GetByUsername(ctx context.Context, username string) (domain.AdminUser, error) {
	if r.pool == nil {
		return domain.AdminUser{}, errors.New("nil postgres pool")
	}
	var (
		id           int64
		passwordHash string
		isActive     bool
		createdAt    time.Time
		lastLogin    *time.Time
	)
	err := r.pool.QueryRow(ctx, `
		SELECT id, password_hash, is_active, created_at, last_login
		FROM admin_users
		WHERE username = $1
	`, username).Scan(&id, &passwordHash, &isActive, &createdAt, &lastLogin)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.AdminUser{}, adminrepo.ErrNotFound
		}
		return domain.AdminUser{}, err
	}
	return domain.AdminUser{
		ID:           domain.AdminID(id),
		Username:     username,
		PasswordHash: passwordHash,
		IsActive:     isActive,
		CreatedAt:    createdAt.UTC(),
		LastLogin:    lastLogin,
	}, nil
}
