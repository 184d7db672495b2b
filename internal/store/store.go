package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Retrofit/internal/scoring"
)

type Source string

const (
	SourceLocal  Source = "local"
	SourceRemote Source = "remote"
)

// Assessment is one persisted scoring request and its result.
type Assessment struct {
	ID                 uuid.UUID          `json:"id"`
	Source             Source             `json:"source"`
	Input              json.RawMessage    `json:"input"`
	EENow              float64            `json:"ee_now"`
	Band               string             `json:"band"`
	Scenarios          []scoring.Scenario `json:"scenarios"`
	TopRecommendations []scoring.Scenario `json:"top_recommendations"`
	CreatedAt          time.Time          `json:"created_at"`
}

type AssessmentFilter struct {
	Source Source
	Limit  int
	Offset int
}

type AssessmentStats struct {
	Total    int            `json:"total"`
	Local    int            `json:"local"`
	Remote   int            `json:"remote"`
	AvgEENow float64        `json:"avg_ee_now"`
	ByBand   map[string]int `json:"by_band"`
}

const defaultListLimit = 100

type Store interface {
	CreateAssessment(ctx context.Context, a *Assessment) error
	GetAssessment(ctx context.Context, id uuid.UUID) (*Assessment, error)
	ListAssessments(ctx context.Context, filter AssessmentFilter) ([]*Assessment, error)
	DeleteAssessment(ctx context.Context, id uuid.UUID) (bool, error)
	DeleteAssessmentsBefore(ctx context.Context, cutoff time.Time) (int64, error)

	GetStats(ctx context.Context) (*AssessmentStats, error)

	Close() error
}

func listLimit(f AssessmentFilter) int {
	if f.Limit <= 0 {
		return defaultListLimit
	}
	return f.Limit
}

func encodeScenarios(s []scoring.Scenario) ([]byte, error) {
	if s == nil {
		s = []scoring.Scenario{}
	}
	return json.Marshal(s)
}

func decodeScenarios(data []byte) ([]scoring.Scenario, error) {
	out := []scoring.Scenario{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("decode scenarios: %w", err)
		}
		if out == nil {
			out = []scoring.Scenario{}
		}
	}
	return out, nil
}
