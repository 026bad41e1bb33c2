package postgres

import (
	"context"
	"errors"
	"time"

	"go-jobmatch-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type employerRepo struct {
	db *pgxpool.Pool
}

func NewEmployerRepository(db *pgxpool.Pool) domain.EmployerRepository {
	return &employerRepo{db: db}
}

func (r *employerRepo) Create(ctx context.Context, employer *domain.Employer) error {
	if employer.ID == "" {
		employer.ID = uuid.New().String()
	}
	now := time.Now()
	employer.CreatedAt = now
	employer.UpdatedAt = now

	query := `INSERT INTO employers (id, user_id, company_name, city, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.Exec(ctx, query,
		employer.ID, employer.UserID, employer.CompanyName, employer.City,
		employer.CreatedAt, employer.UpdatedAt,
	)
	return err
}

func (r *employerRepo) GetByUserID(ctx context.Context, userID string) (*domain.Employer, error) {
	query := `SELECT id, user_id, company_name, city, created_at, updated_at
              FROM employers WHERE user_id = $1`
	var e domain.Employer
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&e.ID, &e.UserID, &e.CompanyName, &e.City, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *employerRepo) Update(ctx context.Context, employer *domain.Employer) error {
	employer.UpdatedAt = time.Now()
	query := `UPDATE employers SET company_name = $2, city = $3, updated_at = $4 WHERE id = $1`
	result, err := r.db.Exec(ctx, query,
		employer.ID, employer.CompanyName, employer.City, employer.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
