package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	handicapservice "github.com/fairway-club/round-engine/app/modules/handicap/application"
	handicaptypes "github.com/fairway-club/round-engine/app/modules/handicap/domain/types"
	roundservice "github.com/fairway-club/round-engine/app/modules/round/application"
	roundtypes "github.com/fairway-club/round-engine/app/modules/round/domain/types"
	rounddb "github.com/fairway-club/round-engine/app/modules/round/infrastructure/repositories"
	statsservice "github.com/fairway-club/round-engine/app/modules/statistics/application"
	statstypes "github.com/fairway-club/round-engine/app/modules/statistics/domain/types"
	"github.com/fairway-club/round-engine/app/shared/sharedtypes"
	"github.com/fairway-club/round-engine/pkg/jwt"
)

// stubRoundService serves a single canned round.
type stubRoundService struct {
	roundservice.Service
	round *roundtypes.Round
}

func (s *stubRoundService) StartRound(_ context.Context, input roundtypes.StartRoundInput) (*roundtypes.Round, error) {
	if input.UserID == "" {
		return nil, fmt.Errorf("%w: missing user ID", roundservice.ErrInvalidRoundDefinition)
	}
	round := &roundtypes.Round{
		ID:     sharedtypes.NewRoundID(),
		UserID: input.UserID,
		Status: roundtypes.RoundStatusInProgress,
	}
	s.round = round
	return round, nil
}

func (s *stubRoundService) GetRound(_ context.Context, roundID sharedtypes.RoundID) (*roundtypes.Round, error) {
	if s.round == nil || s.round.ID != roundID {
		return nil, fmt.Errorf("round %s: %w", roundID, rounddb.ErrRoundNotFound)
	}
	return s.round, nil
}

func (s *stubRoundService) UpdateHoleScore(_ context.Context, _ sharedtypes.RoundID, input roundtypes.UpdateHoleScoreInput) (*roundtypes.Round, error) {
	if input.Strokes < roundtypes.MinStrokes || input.Strokes > roundtypes.MaxStrokes {
		return nil, fmt.Errorf("%w: %d", roundservice.ErrInvalidStrokes, input.Strokes)
	}
	return s.round, nil
}

type stubHandicapService struct {
	handicapservice.Service
	record *handicaptypes.HandicapRecord
}

func (s *stubHandicapService) GetLatestRecord(_ context.Context, userID sharedtypes.UserID) (*handicaptypes.HandicapRecord, error) {
	if s.record == nil {
		return nil, fmt.Errorf("user %s: %w", userID, handicapservice.ErrNoHandicapRecord)
	}
	return s.record, nil
}

type stubStatsService struct {
	statsservice.Service
	stats *statstypes.RoundStatistics
}

func (s *stubStatsService) ComputeRoundStatistics(context.Context, sharedtypes.RoundID) (*statstypes.RoundStatistics, error) {
	return s.stats, nil
}

type testAPI struct {
	server   *httptest.Server
	tokens   jwt.Service
	rounds   *stubRoundService
	handicap *stubHandicapService
	stats    *stubStatsService
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	tokens := jwt.NewService("test-secret", time.Hour)
	rounds := &stubRoundService{}
	handicap := &stubHandicapService{}
	stats := &stubStatsService{stats: &statstypes.RoundStatistics{}}

	router := NewRouter(RouterConfig{
		RequestTimeout: 5 * time.Second,
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
	}, tokens, rounds, handicap, stats)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testAPI{server: server, tokens: tokens, rounds: rounds, handicap: handicap, stats: stats}
}

func (a *testAPI) request(t *testing.T, method, path, userID string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, a.server.URL+path, &buf)
	require.NoError(t, err)

	if userID != "" {
		token, err := a.tokens.GenerateToken(userID, jwt.RolePlayer, 0)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealthzNeedsNoAuth(t *testing.T) {
	a := newTestAPI(t)

	resp := a.request(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAPIRequiresBearerToken(t *testing.T) {
	a := newTestAPI(t)

	resp := a.request(t, http.MethodPost, "/api/v1/rounds", "", roundtypes.StartRoundInput{})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestStartRound_OwnerComesFromToken(t *testing.T) {
	a := newTestAPI(t)

	// The body claims a different user; the token wins.
	resp := a.request(t, http.MethodPost, "/api/v1/rounds", "user-1", roundtypes.StartRoundInput{
		UserID: "someone-else",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var round roundtypes.Round
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&round))
	assert.Equal(t, sharedtypes.UserID("user-1"), round.UserID)
}

func TestGetRound_OtherUsersRoundReadsAsNotFound(t *testing.T) {
	a := newTestAPI(t)

	resp := a.request(t, http.MethodPost, "/api/v1/rounds", "user-1", roundtypes.StartRoundInput{})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var round roundtypes.Round
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&round))

	path := "/api/v1/rounds/" + round.ID.String()
	assert.Equal(t, http.StatusOK, a.request(t, http.MethodGet, path, "user-1", nil).StatusCode)
	assert.Equal(t, http.StatusNotFound, a.request(t, http.MethodGet, path, "user-2", nil).StatusCode)
}

func TestErrorMapping(t *testing.T) {
	a := newTestAPI(t)

	resp := a.request(t, http.MethodPost, "/api/v1/rounds", "user-1", roundtypes.StartRoundInput{})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var round roundtypes.Round
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&round))

	// Invalid strokes maps to 400.
	resp = a.request(t, http.MethodPut, "/api/v1/rounds/"+round.ID.String()+"/holes/1", "user-1",
		roundtypes.UpdateHoleScoreInput{Strokes: 0})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Unknown round maps to 404.
	resp = a.request(t, http.MethodGet, "/api/v1/rounds/"+sharedtypes.NewRoundID().String(), "user-1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Malformed round ID maps to 404, not 500.
	resp = a.request(t, http.MethodGet, "/api/v1/rounds/not-a-uuid", "user-1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// No handicap record maps to 404.
	resp = a.request(t, http.MethodGet, "/api/v1/handicap", "user-1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
