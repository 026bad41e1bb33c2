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

type jobRepo struct {
	db *pgxpool.Pool
}

func NewJobRepository(db *pgxpool.Pool) domain.JobRepository {
	return &jobRepo{db: db}
}

const jobColumns = `id, employer_id, title, description, category, required_years, required_skills, salary_range, requirements, work_type, location, created_at, updated_at`

func scanJob(row pgx.Row) (*domain.Job, error) {
	var j domain.Job
	err := row.Scan(
		&j.ID, &j.EmployerID, &j.Title, &j.Description, &j.Category,
		&j.RequiredYears, pq.Array(&j.RequiredSkills), &j.SalaryRange,
		&j.Requirements, &j.WorkType, &j.Location, &j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &j, nil
}

func (r *jobRepo) Create(ctx context.Context, job *domain.Job) error {
	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	now := time.Now()
	job.CreatedAt = now
	job.UpdatedAt = now

	query := `INSERT INTO jobs (` + jobColumns + `)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.db.Exec(ctx, query,
		job.ID, job.EmployerID, job.Title, job.Description, job.Category,
		job.RequiredYears, pq.Array(job.RequiredSkills), job.SalaryRange,
		job.Requirements, job.WorkType, job.Location, job.CreatedAt, job.UpdatedAt,
	)
	return err
}

func (r *jobRepo) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`
	return scanJob(r.db.QueryRow(ctx, query, id))
}

func (r *jobRepo) FetchByEmployer(ctx context.Context, employerID string) ([]domain.JobWithProfile, error) {
	query := `
		SELECT
			j.id, j.employer_id, j.title, j.description, j.category, j.required_years,
			j.required_skills, j.salary_range, j.requirements, j.work_type, j.location,
			j.created_at, j.updated_at,
			p.id, p.job_id, p.skills, p.summary, p.created_at, p.updated_at
		FROM jobs j
		LEFT JOIN job_profiles p ON p.job_id = j.id
		WHERE j.employer_id = $1
		ORDER BY j.created_at DESC`
	rows, err := r.db.Query(ctx, query, employerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []domain.JobWithProfile
	for rows.Next() {
		jw, err := scanJobWithProfile(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *jw)
	}
	return jobs, rows.Err()
}

// scanJobWithProfile handles the LEFT JOIN nullability of job_profiles columns.
func scanJobWithProfile(row pgx.Row) (*domain.JobWithProfile, error) {
	var jw domain.JobWithProfile
	var (
		profileID, profileJobID, profileSummary *string
		profileSkills                           []string
		profileCreated, profileUpdated          *time.Time
	)
	err := row.Scan(
		&jw.ID, &jw.EmployerID, &jw.Title, &jw.Description, &jw.Category,
		&jw.RequiredYears, pq.Array(&jw.RequiredSkills), &jw.SalaryRange,
		&jw.Requirements, &jw.WorkType, &jw.Location, &jw.CreatedAt, &jw.UpdatedAt,
		&profileID, &profileJobID, pq.Array(&profileSkills), &profileSummary,
		&profileCreated, &profileUpdated,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if profileID != nil {
		jw.Profile = &domain.JobProfile{
			ID:        *profileID,
			JobID:     *profileJobID,
			Skills:    profileSkills,
			CreatedAt: *profileCreated,
			UpdatedAt: *profileUpdated,
		}
		if profileSummary != nil {
			jw.Profile.Summary = *profileSummary
		}
	}
	return &jw, nil
}

func (r *jobRepo) Update(ctx context.Context, job *domain.Job) error {
	job.UpdatedAt = time.Now()
	query := `UPDATE jobs SET
		title = $2,
		description = $3,
		category = $4,
		required_years = $5,
		required_skills = $6,
		salary_range = $7,
		requirements = $8,
		work_type = $9,
		location = $10,
		updated_at = $11
	WHERE id = $1`
	result, err := r.db.Exec(ctx, query,
		job.ID, job.Title, job.Description, job.Category, job.RequiredYears,
		pq.Array(job.RequiredSkills), job.SalaryRange, job.Requirements,
		job.WorkType, job.Location, job.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes the job; profiles, matches and applications follow via
// ON DELETE CASCADE.
func (r *jobRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *jobRepo) GetProfile(ctx context.Context, jobID string) (*domain.JobProfile, error) {
	query := `SELECT id, job_id, skills, summary, created_at, updated_at
              FROM job_profiles WHERE job_id = $1`
	var p domain.JobProfile
	err := r.db.QueryRow(ctx, query, jobID).Scan(
		&p.ID, &p.JobID, pq.Array(&p.Skills), &p.Summary, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *jobRepo) UpsertProfile(ctx context.Context, profile *domain.JobProfile) error {
	if profile.ID == "" {
		profile.ID = uuid.New().String()
	}
	now := time.Now()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now

	query := `INSERT INTO job_profiles (id, job_id, skills, summary, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6)
              ON CONFLICT (job_id) DO UPDATE SET
                  skills = EXCLUDED.skills,
                  summary = EXCLUDED.summary,
                  updated_at = EXCLUDED.updated_at`
	_, err := r.db.Exec(ctx, query,
		profile.ID, profile.JobID, pq.Array(profile.Skills), profile.Summary,
		profile.CreatedAt, profile.UpdatedAt,
	)
	return err
}

// ListEligibleByCategory returns jobs that have a derived profile, optionally
// restricted to one category.
func (r *jobRepo) ListEligibleByCategory(ctx context.Context, category *string) ([]domain.JobWithProfile, error) {
	query := `
		SELECT
			j.id, j.employer_id, j.title, j.description, j.category, j.required_years,
			j.required_skills, j.salary_range, j.requirements, j.work_type, j.location,
			j.created_at, j.updated_at,
			p.id, p.job_id, p.skills, p.summary, p.created_at, p.updated_at
		FROM jobs j
		JOIN job_profiles p ON p.job_id = j.id
		WHERE ($1::text IS NULL OR j.category = $1)`
	rows, err := r.db.Query(ctx, query, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []domain.JobWithProfile
	for rows.Next() {
		jw, err := scanJobWithProfile(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *jw)
	}
	return jobs, rows.Err()
}

// ListOpenForCandidate returns jobs in the candidate's category that the
// candidate has not yet applied to or rejected.
func (r *jobRepo) ListOpenForCandidate(ctx context.Context, category *string, candidateID string) ([]domain.JobWithEmployer, error) {
	query := `
		SELECT
			j.id, j.employer_id, j.title, j.description, j.category, j.required_years,
			j.required_skills, j.salary_range, j.requirements, j.work_type, j.location,
			j.created_at, j.updated_at,
			e.company_name
		FROM jobs j
		JOIN employers e ON e.id = j.employer_id
		WHERE ($1::text IS NULL OR j.category = $1)
		  AND j.id NOT IN (
			SELECT job_id FROM job_applications WHERE candidate_id = $2
		  )
		ORDER BY j.created_at DESC`
	rows, err := r.db.Query(ctx, query, category, candidateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []domain.JobWithEmployer
	for rows.Next() {
		var jw domain.JobWithEmployer
		if err := rows.Scan(
			&jw.ID, &jw.EmployerID, &jw.Title, &jw.Description, &jw.Category,
			&jw.RequiredYears, pq.Array(&jw.RequiredSkills), &jw.SalaryRange,
			&jw.Requirements, &jw.WorkType, &jw.Location, &jw.CreatedAt, &jw.UpdatedAt,
			&jw.CompanyName,
		); err != nil {
			return nil, err
		}
		jobs = append(jobs, jw)
	}
	return jobs, rows.Err()
}
