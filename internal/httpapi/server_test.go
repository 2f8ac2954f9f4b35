package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"headsup-holdem/internal/abstraction"
)

func testServer() *Server {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	return New(abstraction.Default(), rand.New(rand.NewPCG(1, 1)), logger)
}

// TestSmokeNewHandLegalActionsApplyAction round-trips the three core
// endpoints and checks the JSON State stays internally consistent.
func TestSmokeNewHandLegalActionsApplyAction(t *testing.T) {
	s := testServer()
	mux := s.mux()

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/new_hand", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	var state StateView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Equal(t, "preflop", state.StreetName)
	assert.False(t, state.IsTerminal)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/legal_actions", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var actions []ActionView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &actions))
	require.NotEmpty(t, actions)

	body, err := json.Marshal(applyActionRequest{Index: 0})
	require.NoError(t, err)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/apply_action", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	var applyResp map[string]bool
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &applyResp))
	assert.True(t, applyResp["ok"])

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/state", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Len(t, state.History, 1)
	assert.Equal(t, state.CommittedTotal[0]+state.CommittedTotal[1], state.Pot, "pot must equal total commitments")
}

func TestApplyActionRejectsOutOfRangeIndex(t *testing.T) {
	s := testServer()
	mux := s.mux()

	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/new_hand", nil))

	body, _ := json.Marshal(applyActionRequest{Index: 999})
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/apply_action", bytes.NewReader(body)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var errResp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.NotEmpty(t, errResp["error"])
}

func TestStateNotFoundBeforeNewHand(t *testing.T) {
	s := testServer()
	mux := s.mux()

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/state", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	s := testServer()
	mux := s.mux()

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]bool
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body["ok"])
}
