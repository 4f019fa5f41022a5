package api_test

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sidequestlab/memoquiz/internal/api"
	"github.com/sidequestlab/memoquiz/internal/repository/sqlite"
	"github.com/sidequestlab/memoquiz/internal/schedule"
	"github.com/sidequestlab/memoquiz/internal/services"
	"github.com/sidequestlab/memoquiz/internal/testutil"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, *sql.DB) {
	db := testutil.NewTestDB(t)

	cardRepo := sqlite.NewCardRepository(db)
	quizRepo := sqlite.NewQuizRepository(db)
	membershipRepo := sqlite.NewMembershipRepository(db)
	sessionRepo := sqlite.NewSessionRepository(db)
	reviewLogRepo := sqlite.NewReviewLogRepository(db)
	settingsRepo := sqlite.NewSettingsRepository(db)

	sched, err := schedule.Load("")
	require.NoError(t, err)

	quizService := services.NewQuizService(quizRepo, membershipRepo, cardRepo)
	cardService := services.NewCardService(cardRepo, membershipRepo, quizService)
	sessionService := services.NewSessionService(
		sessionRepo, membershipRepo, cardRepo, reviewLogRepo, settingsRepo,
		quizService, sched, 20)
	dashboardService := services.NewDashboardService(
		sessionRepo, membershipRepo, reviewLogRepo, settingsRepo,
		quizService, sched, 20)

	srv := api.NewServer(cardService, quizService, sessionService, dashboardService, db.Ping)

	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	t.Cleanup(func() { db.Close() })
	return ts, db
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dst any) {
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
}

func TestHealthEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	require.Equal(t, "ok", body["status"])
}

func TestCreateCardLifecycle(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/memoquiz/cards", map[string]any{
		"front": "capital of France",
		"back":  "Paris",
		"box":   1,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var card struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
		Box    int    `json:"box"`
	}
	decodeBody(t, resp, &card)
	require.Equal(t, "INACTIVE", card.Status)
	require.Equal(t, 1, card.Box)

	resp = doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/memoquiz/cards/%d/activate", ts.URL, card.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &card)
	require.Equal(t, "ACTIVE", card.Status)

	resp, err := http.Get(ts.URL + "/api/memoquiz/cards?status=ACTIVE")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cards []map[string]any
	decodeBody(t, resp, &cards)
	require.Len(t, cards, 1)
}

func TestCreateCardValidationError(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/memoquiz/cards", map[string]any{
		"front": "",
		"back":  "Paris",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	decodeBody(t, resp, &body)
	require.Equal(t, "VALIDATION_ERROR", body.Error.Code)
}

func TestValidationErrorUsesJSONFieldNames(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/memoquiz/session/answer", map[string]any{
		"card_id": 1,
		"answer":  "x",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	decodeBody(t, resp, &body)
	require.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	// Clients send session_id, not SessionID.
	require.Contains(t, body.Error.Message, "session_id")
	require.NotContains(t, body.Error.Message, "SessionID")
}

func TestSessionAndAnswerFlow(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/memoquiz/cards", map[string]any{
		"front": "capital of France",
		"back":  "Paris",
		"box":   1,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var card struct {
		ID int64 `json:"id"`
	}
	decodeBody(t, resp, &card)

	resp = doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/memoquiz/cards/%d/activate", ts.URL, card.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err := http.Get(ts.URL + "/api/memoquiz/session/today")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var session struct {
		SessionID int64 `json:"session_id"`
		DayIndex  int   `json:"day_index"`
		Cards     []struct {
			CardID int64 `json:"card_id"`
		} `json:"cards"`
	}
	decodeBody(t, resp, &session)
	require.Equal(t, 1, session.DayIndex)
	require.Len(t, session.Cards, 1)

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/memoquiz/session/answer", map[string]any{
		"session_id": session.SessionID,
		"card_id":    card.ID,
		"answer":     " PARIS ",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var result struct {
		Correct bool `json:"correct"`
		NextBox int  `json:"next_box"`
	}
	decodeBody(t, resp, &result)
	require.True(t, result.Correct)
	require.Equal(t, 2, result.NextBox)
}

func TestAnswerUnknownSessionIsNotFound(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/memoquiz/session/answer", map[string]any{
		"session_id": 42,
		"card_id":    1,
		"answer":     "x",
	})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	decodeBody(t, resp, &body)
	require.Equal(t, "NOT_FOUND", body.Error.Code)
}

func TestDashboardEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/memoquiz/dashboard/today")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var dashboard struct {
		DayIndex        int   `json:"day_index"`
		CanStartSession bool  `json:"can_start_session"`
		BoxesToday      []int `json:"boxes_today"`
		BoxesOverview   []any `json:"boxes_overview"`
	}
	decodeBody(t, resp, &dashboard)
	require.Equal(t, 1, dashboard.DayIndex)
	require.True(t, dashboard.CanStartSession)
	require.Equal(t, []int{1}, dashboard.BoxesToday)
	require.Len(t, dashboard.BoxesOverview, 7)
}

func TestQuizMembershipEndpoints(t *testing.T) {
	ts, db := newTestServer(t)

	res, err := db.Exec(`INSERT INTO cards (front, back, status) VALUES ('q', 'a', 'ACTIVE')`)
	require.NoError(t, err)
	cardID, err := res.LastInsertId()
	require.NoError(t, err)

	resp := doJSON(t, http.MethodPost, fmt.Sprintf("%s/api/memoquiz/quiz/cards/%d", ts.URL, cardID), nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(ts.URL + "/api/memoquiz/quiz/cards")
	require.NoError(t, err)
	var cards []map[string]any
	decodeBody(t, resp, &cards)
	require.Len(t, cards, 1)

	req, err := http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/api/memoquiz/quiz/cards/%d", ts.URL, cardID), nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(ts.URL + "/api/memoquiz/quiz/cards")
	require.NoError(t, err)
	decodeBody(t, resp, &cards)
	require.Empty(t, cards)
}
