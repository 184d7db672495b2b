package assessor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Retrofit/internal/analyzer"
	"github.com/MikeSquared-Agency/Retrofit/internal/attributes"
	"github.com/MikeSquared-Agency/Retrofit/internal/cache"
	"github.com/MikeSquared-Agency/Retrofit/internal/config"
	"github.com/MikeSquared-Agency/Retrofit/internal/hermes"
	"github.com/MikeSquared-Agency/Retrofit/internal/metrics"
	"github.com/MikeSquared-Agency/Retrofit/internal/scoring"
	"github.com/MikeSquared-Agency/Retrofit/internal/store"
)

// Service runs assessments through the local engine or the remote
// analyzer, records them and announces the outcome.
type Service struct {
	store    store.Store
	hermes   hermes.Client
	analyzer analyzer.Client
	engine   *scoring.Engine
	results  *cache.Cache[*analyzer.ResultsData]
	metrics  *metrics.Metrics
	cfg      *config.Config
	logger   *slog.Logger
	now      func() time.Time

	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// New wires a Service. hermes and m may be nil.
func New(s store.Store, h hermes.Client, a analyzer.Client, m *metrics.Metrics, cfg *config.Config, logger *slog.Logger) *Service {
	return &Service{
		store:    s,
		hermes:   h,
		analyzer: a,
		engine:   scoring.NewEngine(cfg.Scoring.TopRecommendations),
		results:  cache.New[*analyzer.ResultsData](cfg.CacheTTL(), m),
		metrics:  m,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}
}

func (s *Service) Start(ctx context.Context) {
	if s.cfg.RetentionMaxAge() <= 0 || s.cfg.SweepInterval() <= 0 {
		s.logger.Info("retention sweep disabled")
		return
	}
	s.wg.Add(1)
	go s.retentionLoop(ctx)
}

func (s *Service) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	s.wg.Wait()
}

// ScoreLocal validates rec, scores it with the heuristic engine and
// stores the result. Validation failures come back as
// attributes.ValidationErrors.
func (s *Service) ScoreLocal(ctx context.Context, rec attributes.AttributeRecord) (*store.Assessment, error) {
	rec = rec.WithDefaults()
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	result := s.engine.Score(rec)
	input, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}

	a := &store.Assessment{
		Source:             store.SourceLocal,
		Input:              input,
		EENow:              result.EENow,
		Band:               result.Band,
		Scenarios:          result.Scenarios,
		TopRecommendations: result.TopRecommendations,
	}
	if err := s.record(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Explain returns the rule breakdown for rec without storing anything.
func (s *Service) Explain(rec attributes.AttributeRecord) (scoring.Explanation, error) {
	rec = rec.WithDefaults()
	if err := rec.Validate(); err != nil {
		return scoring.Explanation{}, err
	}
	return s.engine.Explain(rec), nil
}

// RemoteError wraps a failed analyzer call. It unwraps to the client's
// error, so *analyzer.StatusError and analyzer.ErrTimeout still match.
type RemoteError struct {
	Kind string
	Err  error
}

func (e *RemoteError) Error() string { return e.Err.Error() }
func (e *RemoteError) Unwrap() error { return e.Err }

// Analyze sends the survey's features to the remote analyzer, reusing a
// cached answer for identical features while it is fresh.
func (s *Service) Analyze(ctx context.Context, survey attributes.Survey) (*store.Assessment, error) {
	if err := survey.Validate(); err != nil {
		return nil, err
	}
	features := survey.Features()

	key, err := cache.FeaturesKey(features)
	if err != nil {
		return nil, err
	}

	res, ok := s.results.Get(key)
	if !ok {
		start := s.now()
		res, err = s.analyzer.Analyze(ctx, features)
		kind := analyzer.ErrorKind(err)
		s.metrics.AnalyzerRequest(s.now().Sub(start), kind)
		if err != nil {
			s.logger.Warn("analyzer call failed", "kind", kind, "error", err)
			s.publishFailed(kind, err)
			return nil, &RemoteError{Kind: kind, Err: err}
		}
		s.results.Set(key, res)
	} else {
		s.logger.Debug("analyzer cache hit", "key", key)
	}

	top := res.TopRecommendations
	if top == nil {
		top = scoring.TopRecommendations(res.Scenarios, s.engine.TopN())
	}

	input, err := json.Marshal(survey)
	if err != nil {
		return nil, fmt.Errorf("encode survey: %w", err)
	}

	a := &store.Assessment{
		Source:             store.SourceRemote,
		Input:              input,
		EENow:              res.EENow,
		Band:               scoring.Band(res.EENow),
		Scenarios:          res.Scenarios,
		TopRecommendations: top,
	}
	if err := s.record(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*store.Assessment, error) {
	return s.store.GetAssessment(ctx, id)
}

func (s *Service) List(ctx context.Context, filter store.AssessmentFilter) ([]*store.Assessment, error) {
	out, err := s.store.ListAssessments(ctx, filter)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []*store.Assessment{}
	}
	return out, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	deleted, err := s.store.DeleteAssessment(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		s.logger.Info("assessment deleted", "assessment_id", id)
	}
	return deleted, nil
}

func (s *Service) Stats(ctx context.Context) (*store.AssessmentStats, error) {
	return s.store.GetStats(ctx)
}

func (s *Service) record(ctx context.Context, a *store.Assessment) error {
	if err := s.store.CreateAssessment(ctx, a); err != nil {
		return fmt.Errorf("store assessment: %w", err)
	}
	s.metrics.AssessmentRecorded(string(a.Source), a.Band)
	s.logger.Info("assessment recorded",
		"assessment_id", a.ID,
		"source", a.Source,
		"ee_now", a.EENow,
		"band", a.Band,
		"scenarios", len(a.Scenarios),
	)

	if s.hermes != nil {
		_ = s.hermes.Publish(hermes.SubjectAssessmentCompleted(a.ID.String()), hermes.AssessmentCompletedEvent{
			AssessmentID:  a.ID.String(),
			Source:        string(a.Source),
			EENow:         a.EENow,
			Band:          a.Band,
			ScenarioCount: len(a.Scenarios),
			Timestamp:     s.now().UTC(),
		})
	}
	return nil
}

func (s *Service) publishFailed(kind string, err error) {
	if s.hermes == nil {
		return
	}
	evt := hermes.AssessmentFailedEvent{
		Source:    string(store.SourceRemote),
		Kind:      kind,
		Error:     err.Error(),
		Timestamp: s.now().UTC(),
	}
	if se := asStatusError(err); se != nil {
		evt.StatusCode = se.StatusCode
	}
	_ = s.hermes.Publish(hermes.SubjectAssessmentFailed, evt)
}

func asStatusError(err error) *analyzer.StatusError {
	var se *analyzer.StatusError
	if errors.As(err, &se) {
		return se
	}
	return nil
}
