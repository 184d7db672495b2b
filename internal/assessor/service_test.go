package assessor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Retrofit/internal/analyzer"
	"github.com/MikeSquared-Agency/Retrofit/internal/attributes"
	"github.com/MikeSquared-Agency/Retrofit/internal/config"
	"github.com/MikeSquared-Agency/Retrofit/internal/hermes"
	"github.com/MikeSquared-Agency/Retrofit/internal/metrics"
	"github.com/MikeSquared-Agency/Retrofit/internal/scoring"
	"github.com/MikeSquared-Agency/Retrofit/internal/store"
)

// --- Mocks ---

type memStore struct {
	mu          sync.Mutex
	assessments map[uuid.UUID]*store.Assessment
	createErr   error
	cutoffs     []time.Time
}

func newMemStore() *memStore {
	return &memStore{assessments: make(map[uuid.UUID]*store.Assessment)}
}

func (m *memStore) CreateAssessment(_ context.Context, a *store.Assessment) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	m.assessments[a.ID] = a
	return nil
}

func (m *memStore) GetAssessment(_ context.Context, id uuid.UUID) (*store.Assessment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.assessments[id], nil
}

func (m *memStore) ListAssessments(_ context.Context, f store.AssessmentFilter) ([]*store.Assessment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*store.Assessment
	for _, a := range m.assessments {
		if f.Source == "" || a.Source == f.Source {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) DeleteAssessment(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.assessments[id]
	delete(m.assessments, id)
	return ok, nil
}

func (m *memStore) DeleteAssessmentsBefore(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cutoffs = append(m.cutoffs, cutoff)
	var n int64
	for id, a := range m.assessments {
		if a.CreatedAt.Before(cutoff) {
			delete(m.assessments, id)
			n++
		}
	}
	return n, nil
}

func (m *memStore) GetStats(_ context.Context) (*store.AssessmentStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &store.AssessmentStats{Total: len(m.assessments), ByBand: map[string]int{}}, nil
}

func (m *memStore) Close() error { return nil }

type mockAnalyzer struct {
	mock.Mock
}

func (m *mockAnalyzer) Analyze(ctx context.Context, features map[string]any) (*analyzer.ResultsData, error) {
	args := m.Called(ctx, features)
	res, _ := args.Get(0).(*analyzer.ResultsData)
	return res, args.Error(1)
}

type mockHermes struct {
	mock.Mock
}

func (m *mockHermes) Publish(subject string, data interface{}) error {
	args := m.Called(subject, data)
	return args.Error(0)
}

func (m *mockHermes) Close() {}

// --- Helpers ---

func testConfig() *config.Config {
	return &config.Config{
		Scoring:   config.ScoringConfig{TopRecommendations: 3},
		Cache:     config.CacheConfig{TTLSeconds: 300},
		Retention: config.RetentionConfig{MaxAgeHours: 24, SweepIntervalMinutes: 60},
	}
}

func newTestService(t *testing.T, cfg *config.Config) (*Service, *memStore, *mockAnalyzer, *mockHermes) {
	t.Helper()
	st := newMemStore()
	an := &mockAnalyzer{}
	h := &mockHermes{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := New(st, h, an, metrics.New(prometheus.NewRegistry()), cfg, logger)
	return svc, st, an, h
}

func validRecord() attributes.AttributeRecord {
	return attributes.AttributeRecord{
		BuildingType:    "Detached",
		PropertyType:    "House",
		ConstructionAge: "1983-1990",
		FloorArea:       120,
		PrimaryFuel:     "Mains gas",
		HeatingSystem:   "Boiler and radiators (mains gas)",
	}
}

func validSurvey() attributes.Survey {
	return attributes.Survey{
		PropertyType:     "House",
		BuildingType:     "Semi-detached",
		Area:             85,
		BuildingAge:      "1950-1966",
		FuelGroup:        "gas",
		HasBoiler:        true,
		HasRadiators:     true,
		WallType:         "cavity",
		WallInsulation:   "filled_cavity",
		RoofType:         "pitched",
		RoofInsulationMM: 100,
		GlazingLevel:     "double",
		GlazingCoverage:  "full",
	}
}

func remoteResult() *analyzer.ResultsData {
	return &analyzer.ResultsData{
		EENow: 61.4,
		Scenarios: []scoring.Scenario{
			{Key: "loft_to_300", Applicable: true, EEAfter: 64.1, Uplift: 2.7},
			{Key: "add_pv", Applicable: true, EEAfter: 70.2, Uplift: 8.8},
			{Key: "heat_pump", Applicable: false},
			{Key: "wall_insulation", Applicable: true, EEAfter: 61.4, Uplift: 0},
			{Key: "glazing", Applicable: true, EEAfter: 62.4, Uplift: 1.0},
		},
	}
}

// --- Tests ---

func TestScoreLocalPersistsAndPublishes(t *testing.T) {
	svc, st, _, h := newTestService(t, testConfig())
	h.On("Publish", mock.MatchedBy(func(s string) bool {
		return len(s) > 0 && s != hermes.SubjectAssessmentFailed
	}), mock.AnythingOfType("hermes.AssessmentCompletedEvent")).Return(nil)

	a, err := svc.ScoreLocal(context.Background(), validRecord())
	require.NoError(t, err)

	assert.Equal(t, store.SourceLocal, a.Source)
	assert.Equal(t, 65.0, a.EENow)
	assert.Equal(t, "D", a.Band)
	require.Len(t, a.TopRecommendations, 3)
	assert.Equal(t, "heat_pump", a.TopRecommendations[0].Key)
	assert.Equal(t, "add_solar_pv", a.TopRecommendations[1].Key)
	assert.Contains(t, string(a.Input), `"glazingType":"Double glazing, unknown install date"`)

	stored, _ := st.GetAssessment(context.Background(), a.ID)
	assert.Same(t, a, stored)

	h.AssertCalled(t, "Publish", hermes.SubjectAssessmentCompleted(a.ID.String()), mock.Anything)
	evt := h.Calls[0].Arguments.Get(1).(hermes.AssessmentCompletedEvent)
	assert.Equal(t, "local", evt.Source)
	assert.Equal(t, len(a.Scenarios), evt.ScenarioCount)
}

func TestScoreLocalValidation(t *testing.T) {
	svc, st, _, h := newTestService(t, testConfig())

	rec := validRecord()
	rec.FloorArea = 5
	rec.HeatingSystem = ""

	_, err := svc.ScoreLocal(context.Background(), rec)
	require.Error(t, err)

	var verrs attributes.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs, "floorArea")
	assert.Contains(t, verrs, "heatingSystem")
	assert.Empty(t, st.assessments)
	h.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestScoreLocalStoreError(t *testing.T) {
	svc, st, _, _ := newTestService(t, testConfig())
	st.createErr = errors.New("disk full")

	_, err := svc.ScoreLocal(context.Background(), validRecord())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store assessment")
}

func TestScoreLocalWithoutHermes(t *testing.T) {
	st := newMemStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := New(st, nil, &mockAnalyzer{}, nil, testConfig(), logger)

	a, err := svc.ScoreLocal(context.Background(), validRecord())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, a.ID)
}

func TestExplain(t *testing.T) {
	svc, _, _, _ := newTestService(t, testConfig())

	ex, err := svc.Explain(validRecord())
	require.NoError(t, err)
	assert.Equal(t, 65.0, ex.EENow)
	assert.False(t, ex.Clamped)

	_, err = svc.Explain(attributes.AttributeRecord{})
	var verrs attributes.ValidationErrors
	assert.True(t, errors.As(err, &verrs))
}

func TestAnalyzeFillsTopRecommendations(t *testing.T) {
	svc, _, an, h := newTestService(t, testConfig())
	survey := validSurvey()
	an.On("Analyze", mock.Anything, survey.Features()).Return(remoteResult(), nil).Once()
	h.On("Publish", mock.Anything, mock.Anything).Return(nil)

	a, err := svc.Analyze(context.Background(), survey)
	require.NoError(t, err)

	assert.Equal(t, store.SourceRemote, a.Source)
	assert.Equal(t, 61.4, a.EENow)
	assert.Equal(t, "D", a.Band)
	require.Len(t, a.TopRecommendations, 3)
	assert.Equal(t, "add_pv", a.TopRecommendations[0].Key)
	assert.Equal(t, "loft_to_300", a.TopRecommendations[1].Key)
	assert.Equal(t, "glazing", a.TopRecommendations[2].Key)
	assert.Contains(t, string(a.Input), `"p_type":"House"`)
	an.AssertExpectations(t)
}

func TestZeroTopRecommendationsMatchesAcrossPaths(t *testing.T) {
	cfg := testConfig()
	cfg.Scoring.TopRecommendations = 0
	svc, _, an, h := newTestService(t, cfg)
	an.On("Analyze", mock.Anything, mock.Anything).Return(remoteResult(), nil)
	h.On("Publish", mock.Anything, mock.Anything).Return(nil)

	local, err := svc.ScoreLocal(context.Background(), validRecord())
	require.NoError(t, err)
	remote, err := svc.Analyze(context.Background(), validSurvey())
	require.NoError(t, err)

	assert.Len(t, local.TopRecommendations, scoring.DefaultTopN)
	assert.Len(t, remote.TopRecommendations, scoring.DefaultTopN)
}

func TestAnalyzeKeepsRemoteTopRecommendations(t *testing.T) {
	svc, _, an, h := newTestService(t, testConfig())
	res := remoteResult()
	res.TopRecommendations = []scoring.Scenario{res.Scenarios[0]}
	an.On("Analyze", mock.Anything, mock.Anything).Return(res, nil)
	h.On("Publish", mock.Anything, mock.Anything).Return(nil)

	a, err := svc.Analyze(context.Background(), validSurvey())
	require.NoError(t, err)
	require.Len(t, a.TopRecommendations, 1)
	assert.Equal(t, "loft_to_300", a.TopRecommendations[0].Key)
}

func TestAnalyzeUsesCache(t *testing.T) {
	svc, st, an, h := newTestService(t, testConfig())
	an.On("Analyze", mock.Anything, mock.Anything).Return(remoteResult(), nil).Once()
	h.On("Publish", mock.Anything, mock.Anything).Return(nil)

	first, err := svc.Analyze(context.Background(), validSurvey())
	require.NoError(t, err)
	second, err := svc.Analyze(context.Background(), validSurvey())
	require.NoError(t, err)

	an.AssertNumberOfCalls(t, "Analyze", 1)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.EENow, second.EENow)
	assert.Len(t, st.assessments, 2)
}

func TestAnalyzeCacheDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Cache.TTLSeconds = 0
	svc, _, an, h := newTestService(t, cfg)
	an.On("Analyze", mock.Anything, mock.Anything).Return(remoteResult(), nil)
	h.On("Publish", mock.Anything, mock.Anything).Return(nil)

	for i := 0; i < 2; i++ {
		_, err := svc.Analyze(context.Background(), validSurvey())
		require.NoError(t, err)
	}
	an.AssertNumberOfCalls(t, "Analyze", 2)
}

func TestAnalyzeValidationSkipsRemote(t *testing.T) {
	svc, _, an, _ := newTestService(t, testConfig())

	survey := validSurvey()
	survey.Area = 0
	_, err := svc.Analyze(context.Background(), survey)

	var verrs attributes.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	an.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything)
}

func TestAnalyzeErrorsPublishFailure(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		kind       string
		statusCode int
	}{
		{"status", &analyzer.StatusError{StatusCode: 422, Body: `{"detail":"bad"}`}, analyzer.KindStatus, 422},
		{"timeout", fmt.Errorf("%w: deadline", analyzer.ErrTimeout), analyzer.KindTimeout, 0},
		{"transport", errors.New("analyzer request: connection refused"), analyzer.KindTransport, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, st, an, h := newTestService(t, testConfig())
			an.On("Analyze", mock.Anything, mock.Anything).Return(nil, tt.err)
			h.On("Publish", hermes.SubjectAssessmentFailed, mock.Anything).Return(nil)

			_, err := svc.Analyze(context.Background(), validSurvey())
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.err)
			var re *RemoteError
			require.True(t, errors.As(err, &re))
			assert.Equal(t, tt.kind, re.Kind)
			assert.Empty(t, st.assessments)

			h.AssertCalled(t, "Publish", hermes.SubjectAssessmentFailed, mock.Anything)
			evt := h.Calls[0].Arguments.Get(1).(hermes.AssessmentFailedEvent)
			assert.Equal(t, tt.kind, evt.Kind)
			assert.Equal(t, tt.statusCode, evt.StatusCode)
		})
	}
}

func TestAnalyzeFailureIsNotCached(t *testing.T) {
	svc, _, an, h := newTestService(t, testConfig())
	an.On("Analyze", mock.Anything, mock.Anything).Return(nil, errors.New("boom")).Once()
	an.On("Analyze", mock.Anything, mock.Anything).Return(remoteResult(), nil).Once()
	h.On("Publish", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.Analyze(context.Background(), validSurvey())
	require.Error(t, err)
	_, err = svc.Analyze(context.Background(), validSurvey())
	require.NoError(t, err)
	an.AssertNumberOfCalls(t, "Analyze", 2)
}

func TestListNeverNil(t *testing.T) {
	svc, _, _, _ := newTestService(t, testConfig())
	out, err := svc.List(context.Background(), store.AssessmentFilter{})
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestDelete(t *testing.T) {
	svc, _, _, h := newTestService(t, testConfig())
	h.On("Publish", mock.Anything, mock.Anything).Return(nil)

	a, err := svc.ScoreLocal(context.Background(), validRecord())
	require.NoError(t, err)

	deleted, err := svc.Delete(context.Background(), a.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	got, err := svc.Get(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	deleted, err = svc.Delete(context.Background(), a.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestSweepUsesRetentionWindow(t *testing.T) {
	svc, st, _, h := newTestService(t, testConfig())
	h.On("Publish", mock.Anything, mock.Anything).Return(nil)

	old, err := svc.ScoreLocal(context.Background(), validRecord())
	require.NoError(t, err)
	fresh, err := svc.ScoreLocal(context.Background(), validRecord())
	require.NoError(t, err)

	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	old.CreatedAt = now.Add(-48 * time.Hour)
	fresh.CreatedAt = now.Add(-time.Hour)

	svc.sweep(context.Background())

	require.Len(t, st.cutoffs, 1)
	assert.Equal(t, now.Add(-24*time.Hour), st.cutoffs[0])
	assert.Len(t, st.assessments, 1)
	assert.Contains(t, st.assessments, fresh.ID)
}

func TestStartDisabledRetention(t *testing.T) {
	cfg := testConfig()
	cfg.Retention.MaxAgeHours = 0
	svc, _, _, _ := newTestService(t, cfg)

	svc.Start(context.Background())
	svc.Stop()
}

func TestStartStop(t *testing.T) {
	svc, _, _, _ := newTestService(t, testConfig())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc.Start(ctx)
	done := make(chan struct{})
	go func() {
		svc.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
	// A second Stop must not panic on the closed channel.
	svc.Stop()
}
