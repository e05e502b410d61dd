package subscriberrepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/family-archive/family-tree-api/internal/adapters/postgres"
	"github.com/family-archive/family-tree-api/internal/domain"
	"github.com/family-archive/family-tree-api/internal/ports/out/subscriberrepo"
)

// Repo is a Postgres implementation of subscriberrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, s domain.Subscriber) (domain.Subscriber, error) {
	if r.pool == nil {
		return domain.Subscriber{}, errors.New("nil postgres pool")
	}
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO subscribed_emails (email, is_active, subscribed_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`,
		s.Email,
		s.IsActive,
		s.SubscribedAt.UTC(),
		s.UpdatedAt.UTC(),
	).Scan(&id)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			return domain.Subscriber{}, subscriberrepo.ErrEmailTaken
		}
		return domain.Subscriber{}, err
	}
	s.ID = domain.SubscriberID(id)
	return s, nil
}

func (r *Repo) Update(ctx context.Context, s domain.Subscriber) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	ct, err := r.pool.Exec(ctx, `
		UPDATE subscribed_emails
		SET email = $2, is_active = $3, updated_at = $4
		WHERE id = $1
	`,
		int64(s.ID),
		s.Email,
		s.IsActive,
		s.UpdatedAt.UTC(),
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return subscriberrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (domain.Subscriber, error) {
	if r.pool == nil {
		return domain.Subscriber{}, errors.New("nil postgres pool")
	}
	var (
		id           int64
		isActive     bool
		subscribedAt time.Time
		updatedAt    time.Time
	)
	err := r.pool.QueryRow(ctx, `
		SELECT id, is_active, subscribed_at, updated_at
		FROM subscribed_emails
		WHERE email = $1
	`, email).Scan(&id, &isActive, &subscribedAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Subscriber{}, subscriberrepo.ErrNotFound
		}
		return domain.Subscriber{}, err
	}
	return domain.Subscriber{
		ID:           domain.SubscriberID(id),
		Email:        email,
		IsActive:     isActive,
		SubscribedAt: subscribedAt.UTC(),
		UpdatedAt:    updatedAt.UTC(),
	}, nil
}

func (r *Repo) ListActiveEmails(ctx context.Context) ([]string, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT email FROM subscribed_emails WHERE is_active ORDER BY email ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		out = append(out, email)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
