package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // driver: sqlite
)

const DefaultSQLiteDSN = "file:retrofit.db?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS retrofit_assessments (
  id TEXT PRIMARY KEY,
  source TEXT NOT NULL,
  input TEXT NOT NULL,
  ee_now REAL NOT NULL,
  band TEXT NOT NULL,
  scenarios TEXT NOT NULL,
  top_recommendations TEXT NOT NULL,
  created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS retrofit_assessments_created_at_idx ON retrofit_assessments (created_at);
`

// SQLiteStore keeps assessments in a single local file. created_at is
// stored as unix nanoseconds.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteStore(ctx context.Context, dsn string) (*SQLiteStore, error) {
	if dsn == "" {
		dsn = DefaultSQLiteDSN
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// modernc serialises writers per connection; one keeps WAL happy.
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateAssessment(ctx context.Context, a *Assessment) error {
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
	input := a.Input
	if len(input) == 0 {
		input = []byte("null")
	}

	created := s.now().UTC()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO retrofit_assessments (id, source, input, ee_now, band, scenarios, top_recommendations, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID.String(), string(a.Source), string(input), a.EENow, a.Band,
		string(scenariosJSON), string(topJSON), created.UnixNano(),
	)
	if err != nil {
		return err
	}
	a.CreatedAt = created
	return nil
}

func (s *SQLiteStore) GetAssessment(ctx context.Context, id uuid.UUID) (*Assessment, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+assessmentColumns+` FROM retrofit_assessments WHERE id = ?`, id.String())
	a, err := scanSQLiteAssessment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *SQLiteStore) ListAssessments(ctx context.Context, filter AssessmentFilter) ([]*Assessment, error) {
	query := `SELECT ` + assessmentColumns + ` FROM retrofit_assessments WHERE 1=1`
	args := []interface{}{}

	if filter.Source != "" {
		query += " AND source = ?"
		args = append(args, string(filter.Source))
	}

	query += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, listLimit(filter), max(filter.Offset, 0))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Assessment
	for rows.Next() {
		a, err := scanSQLiteAssessment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) DeleteAssessment(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM retrofit_assessments WHERE id = ?`, id.String())
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *SQLiteStore) DeleteAssessmentsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM retrofit_assessments WHERE created_at < ?`, cutoff.UTC().UnixNano())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *SQLiteStore) GetStats(ctx context.Context) (*AssessmentStats, error) {
	stats := &AssessmentStats{ByBand: map[string]int{}}
	err := s.db.QueryRowContext(ctx, `
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

	rows, err := s.db.QueryContext(ctx, `SELECT band, COUNT(*) FROM retrofit_assessments GROUP BY band`)
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteAssessment(row rowScanner) (*Assessment, error) {
	a := &Assessment{}
	var id, source, input, scenariosJSON, topJSON string
	var created int64
	if err := row.Scan(&id, &source, &input, &a.EENow, &a.Band, &scenariosJSON, &topJSON, &created); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse assessment id %q: %w", id, err)
	}
	a.ID = parsed
	a.Source = Source(source)
	a.Input = []byte(input)
	if a.Scenarios, err = decodeScenarios([]byte(scenariosJSON)); err != nil {
		return nil, fmt.Errorf("assessment %s: %w", id, err)
	}
	if a.TopRecommendations, err = decodeScenarios([]byte(topJSON)); err != nil {
		return nil, fmt.Errorf("assessment %s: %w", id, err)
	}
	a.CreatedAt = time.Unix(0, created).UTC()
	return a, nil
}
