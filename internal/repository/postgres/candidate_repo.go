package postgres

import (
	"context"
	"errors"
	"time"

	"go-jobmatch-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type candidateRepo struct {
	db *pgxpool.Pool
}

func NewCandidateRepository(db *pgxpool.Pool) domain.CandidateRepository {
	return &candidateRepo{db: db}
}

const candidateColumns = `id, user_id, name, city, experience_years, category, salary_expectation, cv_key, video_key, profile_image_key, created_at, updated_at`

func scanCandidate(row pgx.Row) (*domain.Candidate, error) {
	var c domain.Candidate
	err := row.Scan(
		&c.ID, &c.UserID, &c.Name, &c.City, &c.ExperienceYears, &c.Category,
		&c.SalaryExpectation, &c.CVKey, &c.VideoKey, &c.ProfileImageKey,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *candidateRepo) Create(ctx context.Context, candidate *domain.Candidate) error {
	if candidate.ID == "" {
		candidate.ID = uuid.New().String()
	}
	now := time.Now()
	candidate.CreatedAt = now
	candidate.UpdatedAt = now

	query := `INSERT INTO candidates (` + candidateColumns + `)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.db.Exec(ctx, query,
		candidate.ID, candidate.UserID, candidate.Name, candidate.City,
		candidate.ExperienceYears, candidate.Category, candidate.SalaryExpectation,
		candidate.CVKey, candidate.VideoKey, candidate.ProfileImageKey,
		candidate.CreatedAt, candidate.UpdatedAt,
	)
	return err
}

func (r *candidateRepo) GetByID(ctx context.Context, id string) (*domain.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE id = $1`
	return scanCandidate(r.db.QueryRow(ctx, query, id))
}

func (r *candidateRepo) GetByUserID(ctx context.Context, userID string) (*domain.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE user_id = $1`
	return scanCandidate(r.db.QueryRow(ctx, query, userID))
}

func (r *candidateRepo) Update(ctx context.Context, candidate *domain.Candidate) error {
	candidate.UpdatedAt = time.Now()
	query := `UPDATE candidates SET
		name = $2,
		city = $3,
		experience_years = $4,
		category = $5,
		salary_expectation = $6,
		cv_key = $7,
		video_key = $8,
		profile_image_key = $9,
		updated_at = $10
	WHERE id = $1`
	result, err := r.db.Exec(ctx, query,
		candidate.ID, candidate.Name, candidate.City, candidate.ExperienceYears,
		candidate.Category, candidate.SalaryExpectation, candidate.CVKey,
		candidate.VideoKey, candidate.ProfileImageKey, candidate.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *candidateRepo) GetProfile(ctx context.Context, candidateID string) (*domain.CandidateProfile, error) {
	query := `SELECT id, candidate_id, skills, languages, summary, created_at, updated_at
              FROM candidate_profiles WHERE candidate_id = $1`
	var p domain.CandidateProfile
	err := r.db.QueryRow(ctx, query, candidateID).Scan(
		&p.ID, &p.CandidateID, pq.Array(&p.Skills), pq.Array(&p.Languages),
		&p.Summary, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// UpsertProfile overwrites the derived profile for a candidate, creating the
// row on first write.
func (r *candidateRepo) UpsertProfile(ctx context.Context, profile *domain.CandidateProfile) error {
	if profile.ID == "" {
		profile.ID = uuid.New().String()
	}
	now := time.Now()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now

	query := `INSERT INTO candidate_profiles (id, candidate_id, skills, languages, summary, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7)
              ON CONFLICT (candidate_id) DO UPDATE SET
                  skills = EXCLUDED.skills,
                  languages = EXCLUDED.languages,
                  summary = EXCLUDED.summary,
                  updated_at = EXCLUDED.updated_at`
	_, err := r.db.Exec(ctx, query,
		profile.ID, profile.CandidateID, pq.Array(profile.Skills),
		pq.Array(profile.Languages), profile.Summary, profile.CreatedAt, profile.UpdatedAt,
	)
	return err
}

// ListEligibleByCategory returns candidates that have a derived profile,
// optionally restricted to one category. The INNER JOIN is what enforces
// "has a profile".
func (r *candidateRepo) ListEligibleByCategory(ctx context.Context, category *string) ([]domain.CandidateWithProfile, error) {
	query := `
		SELECT
			c.id, c.user_id, c.name, c.city, c.experience_years, c.category,
			c.salary_expectation, c.cv_key, c.video_key, c.profile_image_key,
			c.created_at, c.updated_at,
			p.id, p.candidate_id, p.skills, p.languages, p.summary, p.created_at, p.updated_at
		FROM candidates c
		JOIN candidate_profiles p ON p.candidate_id = c.id
		WHERE ($1::text IS NULL OR c.category = $1)`

	rows, err := r.db.Query(ctx, query, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candidates []domain.CandidateWithProfile
	for rows.Next() {
		var cw domain.CandidateWithProfile
		if err := rows.Scan(
			&cw.ID, &cw.UserID, &cw.Name, &cw.City, &cw.ExperienceYears, &cw.Category,
			&cw.SalaryExpectation, &cw.CVKey, &cw.VideoKey, &cw.ProfileImageKey,
			&cw.CreatedAt, &cw.UpdatedAt,
			&cw.Profile.ID, &cw.Profile.CandidateID, pq.Array(&cw.Profile.Skills),
			pq.Array(&cw.Profile.Languages), &cw.Profile.Summary,
			&cw.Profile.CreatedAt, &cw.Profile.UpdatedAt,
		); err != nil {
			return nil, err
		}
		candidates = append(candidates, cw)
	}
	return candidates, rows.Err()
}

func (r *candidateRepo) ListEducations(ctx context.Context, candidateID string) ([]domain.CandidateEducation, error) {
	query := `SELECT id, candidate_id, school_name, degree, start_date, end_date, location, created_at, updated_at
              FROM candidate_educations WHERE candidate_id = $1 ORDER BY start_date DESC NULLS LAST`
	rows, err := r.db.Query(ctx, query, candidateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var educations []domain.CandidateEducation
	for rows.Next() {
		var e domain.CandidateEducation
		if err := rows.Scan(&e.ID, &e.CandidateID, &e.SchoolName, &e.Degree,
			&e.StartDate, &e.EndDate, &e.Location, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		educations = append(educations, e)
	}
	return educations, rows.Err()
}

func (r *candidateRepo) CreateEducation(ctx context.Context, edu *domain.CandidateEducation) error {
	if edu.ID == "" {
		edu.ID = uuid.New().String()
	}
	now := time.Now()
	edu.CreatedAt = now
	edu.UpdatedAt = now

	query := `INSERT INTO candidate_educations (id, candidate_id, school_name, degree, start_date, end_date, location, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.Exec(ctx, query,
		edu.ID, edu.CandidateID, edu.SchoolName, edu.Degree,
		edu.StartDate, edu.EndDate, edu.Location, edu.CreatedAt, edu.UpdatedAt,
	)
	return err
}

func (r *candidateRepo) GetEducation(ctx context.Context, id string) (*domain.CandidateEducation, error) {
	query := `SELECT id, candidate_id, school_name, degree, start_date, end_date, location, created_at, updated_at
              FROM candidate_educations WHERE id = $1`
	var e domain.CandidateEducation
	err := r.db.QueryRow(ctx, query, id).Scan(&e.ID, &e.CandidateID, &e.SchoolName,
		&e.Degree, &e.StartDate, &e.EndDate, &e.Location, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *candidateRepo) UpdateEducation(ctx context.Context, edu *domain.CandidateEducation) error {
	edu.UpdatedAt = time.Now()
	query := `UPDATE candidate_educations SET
		school_name = $2, degree = $3, start_date = $4, end_date = $5, location = $6, updated_at = $7
	WHERE id = $1`
	result, err := r.db.Exec(ctx, query,
		edu.ID, edu.SchoolName, edu.Degree, edu.StartDate, edu.EndDate, edu.Location, edu.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *candidateRepo) DeleteEducation(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM candidate_educations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *candidateRepo) ListExperiences(ctx context.Context, candidateID string) ([]domain.CandidateExperience, error) {
	query := `SELECT id, candidate_id, title, company_name, department, start_date, end_date, location, created_at, updated_at
              FROM candidate_experiences WHERE candidate_id = $1 ORDER BY start_date DESC NULLS LAST`
	rows, err := r.db.Query(ctx, query, candidateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var experiences []domain.CandidateExperience
	for rows.Next() {
		var e domain.CandidateExperience
		if err := rows.Scan(&e.ID, &e.CandidateID, &e.Title, &e.CompanyName, &e.Department,
			&e.StartDate, &e.EndDate, &e.Location, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		experiences = append(experiences, e)
	}
	return experiences, rows.Err()
}

func (r *candidateRepo) CreateExperience(ctx context.Context, exp *domain.CandidateExperience) error {
	if exp.ID == "" {
		exp.ID = uuid.New().String()
	}
	now := time.Now()
	exp.CreatedAt = now
	exp.UpdatedAt = now

	query := `INSERT INTO candidate_experiences (id, candidate_id, title, company_name, department, start_date, end_date, location, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.Exec(ctx, query,
		exp.ID, exp.CandidateID, exp.Title, exp.CompanyName, exp.Department,
		exp.StartDate, exp.EndDate, exp.Location, exp.CreatedAt, exp.UpdatedAt,
	)
	return err
}

func (r *candidateRepo) GetExperience(ctx context.Context, id string) (*domain.CandidateExperience, error) {
	query := `SELECT id, candidate_id, title, company_name, department, start_date, end_date, location, created_at, updated_at
              FROM candidate_experiences WHERE id = $1`
	var e domain.CandidateExperience
	err := r.db.QueryRow(ctx, query, id).Scan(&e.ID, &e.CandidateID, &e.Title, &e.CompanyName,
		&e.Department, &e.StartDate, &e.EndDate, &e.Location, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *candidateRepo) UpdateExperience(ctx context.Context, exp *domain.CandidateExperience) error {
	exp.UpdatedAt = time.Now()
	query := `UPDATE candidate_experiences SET
		title = $2, company_name = $3, department = $4, start_date = $5, end_date = $6, location = $7, updated_at = $8
	WHERE id = $1`
	result, err := r.db.Exec(ctx, query,
		exp.ID, exp.Title, exp.CompanyName, exp.Department,
		exp.StartDate, exp.EndDate, exp.Location, exp.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *candidateRepo) DeleteExperience(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM candidate_experiences WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
