package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/werewolf-gm/internal/engine"
	"github.com/jwebster45206/werewolf-gm/internal/services"
	"github.com/jwebster45206/werewolf-gm/internal/services/events"
	"github.com/jwebster45206/werewolf-gm/internal/storage"
)

type sseEvent struct {
	Name string
	Data string
}

func readEvent(t *testing.T, r *bufio.Reader) sseEvent {
	t.Helper()
	var ev sseEvent
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		switch {
		case line == "":
			if ev.Name != "" {
				return ev
			}
		case strings.HasPrefix(line, "event: "):
			ev.Name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			ev.Data = strings.TrimPrefix(line, "data: ")
		}
	}
}

func TestEventsHandler_StreamsMatchEvents(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger := discardLogger()
	eng, err := engine.NewEngine(services.NewMockNarrator(), services.NewMockIllustrator(), logger, engine.DefaultConfig())
	require.NoError(t, err)
	broadcaster := events.NewBroadcaster(client, logger)
	store := storage.NewMockStorage()

	srv := httptest.NewServer(NewRouter(RouterConfig{
		Engine:      eng,
		Storage:     store,
		Publisher:   broadcaster,
		RedisClient: client,
		Logger:      logger,
	}))
	t.Cleanup(srv.Close)

	// Start a match through the API so there is an ID to follow.
	resp, err := http.Post(srv.URL+"/v1/game/action", "application/json", strings.NewReader(`{"action":"START_GAME"}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var state struct {
		ID uuid.UUID `json:"id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&state))
	resp.Body.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/v1/match/"+state.ID.String()+"/events", nil)
	require.NoError(t, err)
	stream, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer stream.Body.Close()

	require.Equal(t, http.StatusOK, stream.StatusCode)
	assert.Equal(t, "text/event-stream", stream.Header.Get("Content-Type"))

	reader := bufio.NewReader(stream.Body)
	connected := readEvent(t, reader)
	assert.Equal(t, "connected", connected.Name)
	assert.Contains(t, connected.Data, state.ID.String())

	resp, err = http.Post(srv.URL+"/v1/game/action", "application/json",
		strings.NewReader(`{"action":"READY_TO_VOTE","matchId":"`+state.ID.String()+`"}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	updated := readEvent(t, reader)
	assert.Equal(t, string(events.EventTypeMatchUpdated), updated.Name)

	var event events.Event
	require.NoError(t, json.Unmarshal([]byte(updated.Data), &event))
	assert.Equal(t, state.ID.String(), event.MatchID)
	assert.Equal(t, "READY_TO_VOTE", event.Action)
	assert.Equal(t, "voting", event.Data["phase"])
}

func TestEventsHandler_InvalidID(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	router := NewRouter(RouterConfig{
		Storage:     storage.NewMockStorage(),
		RedisClient: client,
		Logger:      discardLogger(),
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/match/nope/events", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestEventsHandler_RedisUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	router := NewRouter(RouterConfig{Storage: storage.NewMockStorage(), RedisClient: client, Logger: discardLogger()})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/match/"+uuid.NewString()+"/events", nil).WithContext(ctx))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
