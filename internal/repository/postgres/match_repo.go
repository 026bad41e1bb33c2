package postgres

import (
	"context"
	"errors"
	"time"

	"go-jobmatch-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type matchRepo struct {
	db *pgxpool.Pool
}

func NewMatchRepository(db *pgxpool.Pool) domain.MatchRepository {
	return &matchRepo{db: db}
}

const matchColumns = `id, job_id, candidate_id, score, summary, status, created_at, updated_at`

func scanMatch(row pgx.Row) (*domain.Match, error) {
	var m domain.Match
	err := row.Scan(
		&m.ID, &m.JobID, &m.CandidateID, &m.Score, &m.Summary, &m.Status,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

func (r *matchRepo) Create(ctx context.Context, match *domain.Match) error {
	if match.ID == "" {
		match.ID = uuid.New().String()
	}
	now := time.Now()
	match.CreatedAt = now
	match.UpdatedAt = now

	query := `INSERT INTO matches (` + matchColumns + `)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.Exec(ctx, query,
		match.ID, match.JobID, match.CandidateID, match.Score, match.Summary,
		match.Status, match.CreatedAt, match.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateMatch
		}
		return err
	}
	return nil
}

// CreateWithApplication inserts the match and the candidate's application in
// one transaction so neither can exist without the other.
func (r *matchRepo) CreateWithApplication(ctx context.Context, match *domain.Match, app *domain.JobApplication) error {
	if match.ID == "" {
		match.ID = uuid.New().String()
	}
	if app.ID == "" {
		app.ID = uuid.New().String()
	}
	now := time.Now()
	match.CreatedAt, match.UpdatedAt = now, now
	app.CreatedAt, app.UpdatedAt = now, now

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO matches (`+matchColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		match.ID, match.JobID, match.CandidateID, match.Score, match.Summary,
		match.Status, match.CreatedAt, match.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateMatch
		}
		return err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO job_applications (id, job_id, candidate_id, status, created_at, updated_at)
         VALUES ($1, $2, $3, $4, $5, $6)`,
		app.ID, app.JobID, app.CandidateID, app.Status, app.CreatedAt, app.UpdatedAt,
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *matchRepo) GetByID(ctx context.Context, id string) (*domain.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`
	return scanMatch(r.db.QueryRow(ctx, query, id))
}

// GetShortlistContext loads everything shortlisting needs in one query: the
// match, the job's owner for the ownership check, and the names and address
// for the notification email.
func (r *matchRepo) GetShortlistContext(ctx context.Context, matchID string) (*domain.ShortlistContext, error) {
	query := `
		SELECT
			m.id, m.job_id, m.candidate_id, m.score, m.summary, m.status,
			m.created_at, m.updated_at,
			j.employer_id, j.title, e.company_name, c.name, u.email
		FROM matches m
		JOIN jobs j ON j.id = m.job_id
		JOIN employers e ON e.id = j.employer_id
		JOIN candidates c ON c.id = m.candidate_id
		JOIN users u ON u.id = c.user_id
		WHERE m.id = $1`
	var sc domain.ShortlistContext
	err := r.db.QueryRow(ctx, query, matchID).Scan(
		&sc.ID, &sc.JobID, &sc.CandidateID, &sc.Score, &sc.Summary, &sc.Status,
		&sc.CreatedAt, &sc.UpdatedAt,
		&sc.JobEmployerID, &sc.JobTitle, &sc.CompanyName, &sc.CandidateName, &sc.CandidateEmail,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &sc, nil
}

func (r *matchRepo) Exists(ctx context.Context, jobID, candidateID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM matches WHERE job_id = $1 AND candidate_id = $2)`,
		jobID, candidateID,
	).Scan(&exists)
	return exists, err
}

func (r *matchRepo) UpdateStatus(ctx context.Context, id, status string) error {
	result, err := r.db.Exec(ctx,
		`UPDATE matches SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, time.Now(),
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *matchRepo) ListByJob(ctx context.Context, jobID string) ([]domain.MatchWithCandidate, error) {
	query := `
		SELECT
			m.id, m.job_id, m.candidate_id, m.score, m.summary, m.status,
			m.created_at, m.updated_at,
			c.name, c.experience_years, c.category, c.cv_key, c.video_key,
			COALESCE(p.skills, '{}')
		FROM matches m
		JOIN candidates c ON c.id = m.candidate_id
		LEFT JOIN candidate_profiles p ON p.candidate_id = c.id
		WHERE m.job_id = $1
		ORDER BY m.score DESC`
	rows, err := r.db.Query(ctx, query, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []domain.MatchWithCandidate
	for rows.Next() {
		var mw domain.MatchWithCandidate
		if err := rows.Scan(
			&mw.ID, &mw.JobID, &mw.CandidateID, &mw.Score, &mw.Summary, &mw.Status,
			&mw.CreatedAt, &mw.UpdatedAt,
			&mw.CandidateName, &mw.ExperienceYears, &mw.Category,
			&mw.CVKey, &mw.VideoKey, pq.Array(&mw.TopSkills),
		); err != nil {
			return nil, err
		}
		matches = append(matches, mw)
	}
	return matches, rows.Err()
}

func (r *matchRepo) ListByCandidate(ctx context.Context, candidateID string) ([]domain.MatchWithJob, error) {
	query := `
		SELECT
			m.id, m.job_id, m.candidate_id, m.score, m.summary, m.status,
			m.created_at, m.updated_at,
			j.title, e.company_name, j.category, p.summary
		FROM matches m
		JOIN jobs j ON j.id = m.job_id
		JOIN employers e ON e.id = j.employer_id
		LEFT JOIN job_profiles p ON p.job_id = j.id
		WHERE m.candidate_id = $1
		ORDER BY m.score DESC`
	rows, err := r.db.Query(ctx, query, candidateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []domain.MatchWithJob
	for rows.Next() {
		var mw domain.MatchWithJob
		if err := rows.Scan(
			&mw.ID, &mw.JobID, &mw.CandidateID, &mw.Score, &mw.Summary, &mw.Status,
			&mw.CreatedAt, &mw.UpdatedAt,
			&mw.JobTitle, &mw.CompanyName, &mw.JobCategory, &mw.JobSummary,
		); err != nil {
			return nil, err
		}
		matches = append(matches, mw)
	}
	return matches, rows.Err()
}

func (r *matchRepo) CountByStatusForEmployer(ctx context.Context, employerID string) (*domain.MatchAnalytics, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE m.status = 'pending'),
			COUNT(*) FILTER (WHERE m.status = 'shortlisted'),
			COUNT(*) FILTER (WHERE m.status = 'rejected')
		FROM matches m
		JOIN jobs j ON j.id = m.job_id
		WHERE j.employer_id = $1`
	var a domain.MatchAnalytics
	err := r.db.QueryRow(ctx, query, employerID).Scan(
		&a.Total, &a.Pending, &a.Shortlisted, &a.Rejected,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *matchRepo) ListPendingForEmployer(ctx context.Context, employerID string) ([]domain.MatchWithCandidate, error) {
	query := `
		SELECT
			m.id, m.job_id, m.candidate_id, m.score, m.summary, m.status,
			m.created_at, m.updated_at,
			c.name, c.experience_years, c.category, c.cv_key, c.video_key,
			COALESCE(p.skills, '{}')
		FROM matches m
		JOIN jobs j ON j.id = m.job_id
		JOIN candidates c ON c.id = m.candidate_id
		LEFT JOIN candidate_profiles p ON p.candidate_id = c.id
		WHERE j.employer_id = $1 AND m.status = 'pending'
		ORDER BY m.score DESC`
	rows, err := r.db.Query(ctx, query, employerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []domain.MatchWithCandidate
	for rows.Next() {
		var mw domain.MatchWithCandidate
		if err := rows.Scan(
			&mw.ID, &mw.JobID, &mw.CandidateID, &mw.Score, &mw.Summary, &mw.Status,
			&mw.CreatedAt, &mw.UpdatedAt,
			&mw.CandidateName, &mw.ExperienceYears, &mw.Category,
			&mw.CVKey, &mw.VideoKey, pq.Array(&mw.TopSkills),
		); err != nil {
			return nil, err
		}
		matches = append(matches, mw)
	}
	return matches, rows.Err()
}
