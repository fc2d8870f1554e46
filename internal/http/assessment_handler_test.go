package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"workload-tlx/internal/domain"
	"workload-tlx/internal/service"
)

type mockAssessmentRepo struct {
	records map[string]domain.Assessment
}

func newMockAssessmentRepo() *mockAssessmentRepo {
	return &mockAssessmentRepo{records: make(map[string]domain.Assessment)}
}

func (m *mockAssessmentRepo) Create(_ context.Context, a domain.Assessment) error {
	m.records[a.ID] = a
	return nil
}

func (m *mockAssessmentRepo) GetByID(_ context.Context, id string) (domain.Assessment, error) {
	a, ok := m.records[id]
	if !ok {
		return domain.Assessment{}, pgx.ErrNoRows
	}
	return a, nil
}

func (m *mockAssessmentRepo) AttachRatings(_ context.Context, id string, r domain.Ratings, comparisons []domain.PairwiseComparison) (bool, error) {
	a, ok := m.records[id]
	if !ok || a.Status != domain.StatusCreated {
		return false, nil
	}
	a.Ratings = &r
	a.Comparisons = comparisons
	a.Status = domain.StatusRated
	m.records[id] = a
	return true, nil
}

func (m *mockAssessmentRepo) MarkScored(_ context.Context, id string, raw float64, weighted *float64) (bool, error) {
	a, ok := m.records[id]
	if !ok || a.Status != domain.StatusRated {
		return false, nil
	}
	a.RawScore = &raw
	a.WeightedScore = weighted
	a.Status = domain.StatusScored
	m.records[id] = a
	return true, nil
}

func (m *mockAssessmentRepo) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := m.records[id]; !ok {
		return false, nil
	}
	delete(m.records, id)
	return true, nil
}

func (m *mockAssessmentRepo) ListScoredByTask(_ context.Context, taskName string) ([]domain.Assessment, error) {
	var out []domain.Assessment
	for _, a := range m.records {
		if a.TaskName == taskName && a.Status == domain.StatusScored {
			out = append(out, a)
		}
	}
	return out, nil
}

type testEnv struct {
	router *gin.Engine
	repo   *mockAssessmentRepo
	tokens *service.AdminTokenService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	repo := newMockAssessmentRepo()
	hasher := service.NewParticipantHasher("test-salt")
	cache := service.NewMemoryStatsCache()
	assessmentSvc := service.NewAssessmentService(logger, repo, hasher, nil, cache)
	statsSvc := service.NewStatsService(logger, repo, cache, time.Minute)
	tokens := service.NewAdminTokenService("test-secret", time.Hour)
	router := NewRouter(
		logger,
		NewAssessmentHandler(logger, assessmentSvc),
		NewStatsHandler(logger, statsSvc),
		tokens,
		nil,
	)
	return &testEnv{router: router, repo: repo, tokens: tokens}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func validRatings() map[string]int {
	return map[string]int{
		"mental_demand":   15,
		"physical_demand": 3,
		"temporal_demand": 12,
		"performance":     5,
		"effort":          14,
		"frustration":     8,
	}
}

func fullComparisons() []map[string]string {
	var out []map[string]string
	for _, p := range domain.CanonicalPairs() {
		out = append(out, map[string]string{
			"first":  string(p[0]),
			"second": string(p[1]),
			"winner": string(p[0]),
		})
	}
	return out
}

func decodeAssessment(t *testing.T, w *httptest.ResponseRecorder) domain.Assessment {
	t.Helper()
	var resp struct {
		Assessment domain.Assessment `json:"assessment"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v (%s)", err, w.Body.String())
	}
	return resp.Assessment
}

func TestSubmitEndpoint(t *testing.T) {
	t.Run("scores synchronously", func(t *testing.T) {
		env := newTestEnv(t)
		w := env.do(t, http.MethodPost, "/assessments", gin.H{
			"task_name":            "landing",
			"participant_id":       "pilot-007",
			"ratings":              validRatings(),
			"pairwise_comparisons": fullComparisons(),
		}, nil)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d (%s)", w.Code, w.Body.String())
		}
		a := decodeAssessment(t, w)
		if a.Status != domain.StatusScored {
			t.Fatalf("expected scored, got %s", a.Status)
		}
		if a.RawScore == nil || *a.RawScore != 9.5 {
			t.Fatalf("expected raw 9.5, got %v", a.RawScore)
		}
		if a.WeightedScore == nil {
			t.Fatalf("expected weighted score")
		}
		if a.ParticipantHash == "pilot-007" {
			t.Fatalf("participant id must be stored hashed")
		}
	})

	t.Run("rating above range rejected", func(t *testing.T) {
		env := newTestEnv(t)
		ratings := validRatings()
		ratings["effort"] = 21
		w := env.do(t, http.MethodPost, "/assessments", gin.H{
			"task_name":      "landing",
			"participant_id": "pilot-007",
			"ratings":        ratings,
		}, nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("missing body fields rejected", func(t *testing.T) {
		env := newTestEnv(t)
		w := env.do(t, http.MethodPost, "/assessments", gin.H{"task_name": "landing"}, nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("incomplete comparison set rejected", func(t *testing.T) {
		env := newTestEnv(t)
		w := env.do(t, http.MethodPost, "/assessments", gin.H{
			"task_name":            "landing",
			"participant_id":       "pilot-007",
			"ratings":              validRatings(),
			"pairwise_comparisons": fullComparisons()[:14],
		}, nil)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})
}

func TestStepwiseEndpoints(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/assessments/partial", gin.H{
		"task_name":      "landing",
		"participant_id": "pilot-007",
	}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", w.Code)
	}
	id := decodeAssessment(t, w).ID

	w = env.do(t, http.MethodGet, "/assessments/"+id, nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", w.Code)
	}

	// Scoring before ratings are attached conflicts with lifecycle state.
	w = env.do(t, http.MethodPost, "/assessments/"+id+"/score", nil, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("premature score: expected 409, got %d", w.Code)
	}

	w = env.do(t, http.MethodPut, "/assessments/"+id+"/ratings", gin.H{"ratings": validRatings()}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("ratings: expected 200, got %d (%s)", w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodPost, "/assessments/"+id+"/score", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("score: expected 200, got %d", w.Code)
	}
	a := decodeAssessment(t, w)
	if a.RawScore == nil || *a.RawScore != 9.5 {
		t.Fatalf("expected raw 9.5, got %v", a.RawScore)
	}

	w = env.do(t, http.MethodPost, "/assessments/"+id+"/score", nil, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("re-score: expected 409, got %d", w.Code)
	}

	w = env.do(t, http.MethodGet, "/assessments/missing-id", nil, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown id: expected 404, got %d", w.Code)
	}
}

func TestDeleteEndpointAuth(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodPost, "/assessments", gin.H{
		"task_name":      "landing",
		"participant_id": "pilot-007",
		"ratings":        validRatings(),
	}, nil)
	id := decodeAssessment(t, w).ID

	t.Run("missing token", func(t *testing.T) {
		w := env.do(t, http.MethodDelete, "/assessments/"+id, nil, nil)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})

	t.Run("invalid token", func(t *testing.T) {
		w := env.do(t, http.MethodDelete, "/assessments/"+id, nil, map[string]string{
			"Authorization": "Bearer not-a-jwt",
		})
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})

	t.Run("valid token deletes", func(t *testing.T) {
		token, err := env.tokens.Generate("ops@example.com")
		if err != nil {
			t.Fatalf("generate token: %v", err)
		}
		w := env.do(t, http.MethodDelete, "/assessments/"+id, nil, map[string]string{
			"Authorization": "Bearer " + token,
		})
		if w.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d (%s)", w.Code, w.Body.String())
		}
		if _, ok := env.repo.records[id]; ok {
			t.Fatalf("record still present after delete")
		}
	})
}

func TestStatsEndpoint(t *testing.T) {
	env := newTestEnv(t)

	t.Run("no data is 404", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/stats/landing", nil, nil)
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})

	t.Run("aggregates scored assessments", func(t *testing.T) {
		for _, participant := range []string{"pilot-007", "pilot-008"} {
			w := env.do(t, http.MethodPost, "/assessments", gin.H{
				"task_name":      "landing",
				"participant_id": participant,
				"ratings":        validRatings(),
			}, nil)
			if w.Code != http.StatusCreated {
				t.Fatalf("submit: expected 201, got %d", w.Code)
			}
		}

		w := env.do(t, http.MethodGet, "/stats/landing", nil, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
		}
		var stats domain.TaskStats
		if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
			t.Fatalf("decode stats: %v", err)
		}
		if stats.Count != 2 {
			t.Fatalf("expected count 2, got %d", stats.Count)
		}
		if stats.Raw.Mean != 9.5 || stats.Raw.StdDev != 0 {
			t.Fatalf("expected mean 9.5 stddev 0, got %+v", stats.Raw)
		}
	})
}
