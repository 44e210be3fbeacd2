package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchHandler_Get(t *testing.T) {
	f := newAPIFixture(t)
	state := f.start(t)

	rr := f.do(t, http.MethodGet, "/v1/match/"+state.ID.String(), "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	got := decodeState(t, rr)
	assert.Equal(t, state.ID, got.ID)
	assert.Equal(t, state.Survivors, got.Survivors)
	assert.Equal(t, state.NarrativeLog, got.NarrativeLog)
}

func TestMatchHandler_GetErrors(t *testing.T) {
	f := newAPIFixture(t)

	rr := f.do(t, http.MethodGet, "/v1/match/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Match not found", decodeError(t, rr))

	rr = f.do(t, http.MethodGet, "/v1/match/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Invalid match ID format", decodeError(t, rr))
}

func TestMatchHandler_Delete(t *testing.T) {
	f := newAPIFixture(t)
	state := f.start(t)
	require.Equal(t, 1, f.storage.Count())

	rr := f.do(t, http.MethodDelete, "/v1/match/"+state.ID.String(), "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Zero(t, f.storage.Count())

	rr = f.do(t, http.MethodGet, "/v1/match/"+state.ID.String(), "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = f.do(t, http.MethodDelete, "/v1/match/bogus", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	f := newAPIFixture(t)

	rr := f.do(t, http.MethodGet, "/v1/game/action", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	rr = f.do(t, http.MethodGet, "/v1/match/"+uuid.NewString()+"/events", "")
	assert.Equal(t, http.StatusNotFound, rr.Code, "event stream is only mounted with a redis client")
}

func TestRouter_CORS(t *testing.T) {
	f := newAPIFixture(t)

	req := httptest.NewRequest(http.MethodOptions, "/v1/game/action", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)

	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
}
