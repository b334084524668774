package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/AVVKavvk/calls-qa/cache"
	"github.com/AVVKavvk/calls-qa/calls"
	"github.com/AVVKavvk/calls-qa/models"
	"github.com/AVVKavvk/calls-qa/store"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type standaloneCall struct {
	question   models.Question
	transcript string
}

type mockAsker struct {
	mu         sync.Mutex
	answer     string
	standalone []standaloneCall
	history    []models.Question
}

func (m *mockAsker) AskStandalone(_ context.Context, q models.Question, transcript string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.standalone = append(m.standalone, standaloneCall{q, transcript})
	return m.answer
}

func (m *mockAsker) AskWithHistory(_ context.Context, q models.Question) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = append(m.history, q)
	return m.answer
}

func (m *mockAsker) recorded() ([]standaloneCall, []models.Question) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]standaloneCall(nil), m.standalone...), append([]models.Question(nil), m.history...)
}

func ptr[T any](v T) *T {
	return &v
}

var sampleCall = models.CallRecord{
	ID:           "id",
	CreatedAtUTC: time.Date(2077, 1, 1, 0, 1, 0, 0, time.UTC),
	CallMetadata: models.CallMetadata{
		Title:     "title",
		Duration:  60,
		StartTime: time.Date(2077, 1, 1, 0, 0, 0, 0, time.UTC),
		Parties: []models.Party{{
			Name:  "name",
			Email: ptr("someone@somewhere.com"),
			Profile: &models.Profile{
				JobTitle:    "someone",
				Location:    "somewhere",
				PhotoURL:    "https://somewhere.com/some-photo",
				LinkedinURL: "https://somewhere.com/some-profile",
			},
		}},
	},
	Transcript: models.Transcript{Text: "text"},
}

func newTestApp(t *testing.T, asker calls.Asker) *echo.Echo {
	t.Helper()
	st, err := store.FromRecords([]models.CallRecord{sampleCall})
	require.NoError(t, err)
	svc := calls.NewService(st, cache.NewMemory(), asker, cache.DefaultTTL)
	return NewApp(svc, 60, nil, st.Len()).Routes()
}

func serve(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestCallIDs(t *testing.T) {
	e := newTestApp(t, &mockAsker{})

	rec := serve(e, http.MethodGet, "/calls/ids", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `["id"]`, rec.Body.String())
	assert.Equal(t, "public, max-age=60", rec.Header().Get("Cache-Control"))
}

func TestCallMetadata(t *testing.T) {
	e := newTestApp(t, &mockAsker{})

	rec := serve(e, http.MethodGet, "/calls/metadata/id", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var md models.CallMetadata
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &md))
	want := sampleCall.CallMetadata
	want.CallID = "id"
	assert.Equal(t, want, md)
	assert.Equal(t, "public, max-age=60", rec.Header().Get("Cache-Control"))
}

func TestCallMetadataNonexistentID(t *testing.T) {
	asker := &mockAsker{}
	e := newTestApp(t, asker)

	rec := serve(e, http.MethodGet, "/calls/metadata/nonexistent-id", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "No call id nonexistent-id found")
	assert.Empty(t, rec.Header().Get("Cache-Control"))
}

func TestAskStandaloneQuestion(t *testing.T) {
	asker := &mockAsker{answer: "answer"}
	e := newTestApp(t, asker)

	rec := serve(e, http.MethodPost, "/calls/ask-question/id", `{"question":"q","conversation_history":[]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `"answer"`, rec.Body.String())

	require.Len(t, asker.standalone, 1)
	assert.Equal(t, "q", asker.standalone[0].question.Question)
	assert.Equal(t, "text", asker.standalone[0].transcript)
	assert.Empty(t, asker.history)
}

func TestAskQuestionWithHistory(t *testing.T) {
	asker := &mockAsker{answer: "answer"}
	e := newTestApp(t, asker)

	rec := serve(e, http.MethodPost, "/calls/ask-question/id", `{"question":"q","conversation_history":[{"content":""}]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `"answer"`, rec.Body.String())

	require.Len(t, asker.history, 1)
	assert.Equal(t, models.Question{
		Question:            "q",
		ConversationHistory: []models.Message{{Content: "", Role: models.RoleUser}},
	}, asker.history[0])
	assert.Empty(t, asker.standalone)
}

func TestAskInvalidQuestion(t *testing.T) {
	asker := &mockAsker{answer: "answer"}
	e := newTestApp(t, asker)

	rec := serve(e, http.MethodPost, "/calls/ask-question/nonexistent-id", `{"question":""}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, asker.standalone)
	assert.Empty(t, asker.history)
}

func TestAskMalformedBody(t *testing.T) {
	e := newTestApp(t, &mockAsker{})

	rec := serve(e, http.MethodPost, "/calls/ask-question/id", `{"question":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAskEmptyBody(t *testing.T) {
	asker := &mockAsker{answer: "answer"}
	e := newTestApp(t, asker)

	rec := serve(e, http.MethodPost, "/calls/ask-question/id", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	standalone, history := asker.recorded()
	assert.Empty(t, standalone)
	assert.Empty(t, history)
}

func TestCallMetadataEncodesNullOptionalFields(t *testing.T) {
	st, err := store.FromRecords([]models.CallRecord{{
		ID:           "bare",
		CreatedAtUTC: sampleCall.CreatedAtUTC,
		CallMetadata: models.CallMetadata{
			Title:     "title",
			StartTime: sampleCall.CallMetadata.StartTime,
			Parties:   []models.Party{{Name: "name"}},
		},
	}})
	require.NoError(t, err)
	e := NewApp(calls.NewService(st, cache.NewMemory(), &mockAsker{}, cache.DefaultTTL), 60, nil, st.Len()).Routes()

	rec := serve(e, http.MethodGet, "/calls/metadata/bare", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Parties []map[string]any `json:"parties"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Parties, 1)
	assert.Contains(t, body.Parties[0], "email")
	assert.Nil(t, body.Parties[0]["email"])
	assert.Contains(t, body.Parties[0], "profile")
	assert.Nil(t, body.Parties[0]["profile"])
}

func TestExchangesDisabled(t *testing.T) {
	e := newTestApp(t, &mockAsker{})

	rec := serve(e, http.MethodGet, "/calls/exchanges/id", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealth(t *testing.T) {
	e := newTestApp(t, &mockAsker{})

	rec := serve(e, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","calls":1}`, rec.Body.String())
}
