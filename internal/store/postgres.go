package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS retrofit_assessments (
	id                  UUID PRIMARY KEY,
	source              TEXT NOT NULL,
	input               JSONB NOT NULL,
	ee_now              DOUBLE PRECISION NOT NULL,
	band                TEXT NOT NULL,
	scenarios           JSONB NOT NULL,
	top_recommendations JSONB NOT NULL,
	created_at          TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS retrofit_assessments_created_at_idx ON retrofit_assessments (created_at);
`

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const assessmentColumns = `id, source, input, ee_now, band, scenarios, top_recommendations, created_at`

func (s *PostgresStore) CreateAssessment(ctx context.Context, a *Assessment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	scenariosJSON, err := encodeScenarios(a.Scenarios)
	if err != nil {
		return fmt.Errorf("encode scenarios: %w", err)
	}
	topJSON, err := encodeScenarios(a.TopRecommendations)
	if err != nil {
		return fmt.Errorf("encode top recommendations: %w", err)
	}

	return s.pool.QueryRow(ctx, `
		INSERT INTO retrofit_assessments (id, source, input, ee_now, band, scenarios, top_recommendations)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`,
		a.ID, string(a.Source), []byte(a.Input), a.EENow, a.Band, scenariosJSON, topJSON,
	).Scan(&a.CreatedAt)
}

func (s *PostgresStore) GetAssessment(ctx context.Context, id uuid.UUID) (*Assessment, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+assessmentColumns+` FROM retrofit_assessments WHERE id = $1`, id)
	a, err := scanAssessment(row)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *PostgresStore) ListAssessments(ctx context.Context, filter AssessmentFilter) ([]*Assessment, error) {
	query := `SELECT ` + assessmentColumns + ` FROM retrofit_assessments WHERE 1=1`
	args := []interface{}{}
	n := 0

	if filter.Source != "" {
		n++
		query += fmt.Sprintf(" AND source = $%d", n)
		args = append(args, string(filter.Source))
	}

	query += " ORDER BY created_at DESC"

	n++
	query += fmt.Sprintf(" LIMIT $%d", n)
	args = append(args, listLimit(filter))

	if filter.Offset > 0 {
		n++
		query += fmt.Sprintf(" OFFSET $%d", n)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Assessment
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *PostgresStore) DeleteAssessment(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM retrofit_assessments WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *PostgresStore) DeleteAssessmentsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM retrofit_assessments WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *PostgresStore) GetStats(ctx context.Context) (*AssessmentStats, error) {
	stats := &AssessmentStats{ByBand: map[string]int{}}
	err := s.pool.QueryRow(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN source = 'local' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN source = 'remote' THEN 1 ELSE 0 END), 0),
			COALESCE(AVG(ee_now), 0)
		FROM retrofit_assessments`,
	).Scan(&stats.Total, &stats.Local, &stats.Remote, &stats.AvgEENow)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, `SELECT band, COUNT(*) FROM retrofit_assessments GROUP BY band`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var band string
		var count int
		if err := rows.Scan(&band, &count); err != nil {
			return nil, err
		}
		stats.ByBand[band] = count
	}
	return stats, rows.Err()
}

func scanAssessment(row pgx.Row) (*Assessment, error) {
	a := &Assessment{}
	var source string
	var input, scenariosJSON, topJSON []byte
	if err := row.Scan(&a.ID, &source, &input, &a.EENow, &a.Band, &scenariosJSON, &topJSON, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.Source = Source(source)
	a.Input = input
	var err error
	if a.Scenarios, err = decodeScenarios(scenariosJSON); err != nil {
		return nil, fmt.Errorf("assessment %s: %w", a.ID, err)
	}
	if a.TopRecommendations, err = decodeScenarios(topJSON); err != nil {
		return nil, fmt.Errorf("assessment %s: %w", a.ID, err)
	}
	return a, nil
}
