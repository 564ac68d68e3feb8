package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	calendarv3 "google.golang.org/api/calendar/v3"
	gmailv1 "google.golang.org/api/gmail/v1"
	gmaps "googlemaps.github.io/maps"

	"github.com/teemow/inboxroute/internal/calendar"
	"github.com/teemow/inboxroute/internal/gmail"
)

type stubMail struct{}

func (stubMail) ListMessages(context.Context, string, int64) ([]*gmailv1.Message, error) {
	return nil, nil
}

func (stubMail) SendMessage(context.Context, gmail.OutgoingMessage) (*gmail.SentMessage, error) {
	return &gmail.SentMessage{ID: "m1"}, nil
}

type stubCalendar struct{}

func (stubCalendar) UpcomingEvents(context.Context, string, int64) ([]*calendarv3.Event, error) {
	return nil, nil
}

func (stubCalendar) InsertEvent(context.Context, calendar.EventInput) (*calendar.CreatedEvent, error) {
	return &calendar.CreatedEvent{ID: "evt_1"}, nil
}

type stubMaps struct{}

func (stubMaps) Directions(context.Context, string, string, gmaps.Mode) ([]gmaps.Route, error) {
	return nil, nil
}

func (stubMaps) Geocode(context.Context, string) ([]gmaps.GeocodingResult, error) {
	return nil, nil
}

func (stubMaps) NearbySearch(context.Context, gmaps.LatLng, uint, string) ([]gmaps.PlacesSearchResult, error) {
	return nil, nil
}

func writeCredentials(t *testing.T) string {
	t.Helper()
	data, err := json.Marshal(map[string]any{
		"token":         "ya29.test",
		"refresh_token": "1//refresh",
		"client_id":     "client.apps.googleusercontent.com",
		"client_secret": "secret",
		"token_uri":     "http://127.0.0.1:1/token",
		"expiry":        "2099-01-01T00:00:00Z",
	})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, data, 0600))
	return path
}

func TestNewServerContext_NoClients(t *testing.T) {
	sc := NewServerContext(context.Background())

	assert.Nil(t, sc.Mail())
	assert.Nil(t, sc.Calendar())
	assert.Nil(t, sc.Maps())
	assert.NotNil(t, sc.AuditLogger())
	assert.NotNil(t, sc.Logger())
	assert.Equal(t, map[string]bool{"Gmail": false, "Calendar": false, "Maps": false}, sc.Services())
}

func TestServerContext_Initialize(t *testing.T) {
	sc := NewServerContext(context.Background())

	ok := sc.Initialize(context.Background(), writeCredentials(t), "maps-key")

	assert.True(t, ok)
	assert.Equal(t, map[string]bool{"Gmail": true, "Calendar": true, "Maps": true}, sc.Services())
	assert.NotNil(t, sc.Credentials())
}

func TestServerContext_InitializeDegraded(t *testing.T) {
	t.Run("missing credential file keeps maps", func(t *testing.T) {
		sc := NewServerContext(context.Background())

		ok := sc.Initialize(context.Background(), filepath.Join(t.TempDir(), "absent.json"), "maps-key")

		assert.False(t, ok)
		assert.Nil(t, sc.Mail())
		assert.Nil(t, sc.Calendar())
		assert.NotNil(t, sc.Maps())
	})

	t.Run("missing api key keeps google", func(t *testing.T) {
		sc := NewServerContext(context.Background())

		ok := sc.Initialize(context.Background(), writeCredentials(t), "")

		assert.False(t, ok)
		assert.NotNil(t, sc.Mail())
		assert.NotNil(t, sc.Calendar())
		assert.Nil(t, sc.Maps())
	})

	t.Run("reinitialization clears failed families", func(t *testing.T) {
		sc := NewServerContext(context.Background())
		require.True(t, sc.Initialize(context.Background(), writeCredentials(t), "maps-key"))

		ok := sc.Initialize(context.Background(), filepath.Join(t.TempDir(), "absent.json"), "maps-key")

		assert.False(t, ok)
		assert.Nil(t, sc.Mail())
		assert.Nil(t, sc.Calendar())
		assert.NotNil(t, sc.Maps())
	})
}

func TestServerContext_InitializedClientsAreAuthorized(t *testing.T) {
	var authHeader atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader.Store(r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"resultSizeEstimate":0}`))
	}))
	t.Cleanup(srv.Close)

	sc := NewServerContext(context.Background(), WithEndpoints(Endpoints{Gmail: srv.URL + "/"}))
	require.True(t, sc.Initialize(context.Background(), writeCredentials(t), "maps-key"))

	msgs, err := sc.Mail().ListMessages(context.Background(), "", 10)
	require.NoError(t, err)
	assert.Empty(t, msgs)
	assert.Equal(t, "Bearer ya29.test", authHeader.Load())
}

func TestServerContext_InitializeRefreshesOnceAndOutlivesCtx(t *testing.T) {
	var refreshes atomic.Int32
	tokenSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		refreshes.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"ya29.fresh","token_type":"Bearer","expires_in":3600}`))
	}))
	t.Cleanup(tokenSrv.Close)

	var authHeader atomic.Value
	gmailSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader.Store(r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"resultSizeEstimate":0}`))
	}))
	t.Cleanup(gmailSrv.Close)

	data, err := json.Marshal(map[string]any{
		"token":         "ya29.stale",
		"refresh_token": "1//refresh",
		"client_id":     "client.apps.googleusercontent.com",
		"client_secret": "secret",
		"token_uri":     tokenSrv.URL,
		"expiry":        "2020-01-01T00:00:00Z",
	})
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, data, 0600))

	sc := NewServerContext(context.Background(), WithEndpoints(Endpoints{Gmail: gmailSrv.URL + "/"}))
	t.Cleanup(func() { _ = sc.Shutdown() })

	ctx, cancel := context.WithCancel(context.Background())
	require.True(t, sc.Initialize(ctx, path, "maps-key"))
	cancel()

	_, err = sc.Mail().ListMessages(context.Background(), "", 10)
	require.NoError(t, err)
	assert.Equal(t, "Bearer ya29.fresh", authHeader.Load())
	assert.Equal(t, int32(1), refreshes.Load())
}

func TestServerContext_InitializeWithDoneContext(t *testing.T) {
	sc := NewServerContext(context.Background())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.False(t, sc.Initialize(ctx, writeCredentials(t), "maps-key"))
	assert.Equal(t, map[string]bool{"Gmail": false, "Calendar": false, "Maps": false}, sc.Services())
}

func TestServerContext_SettersReplaceClients(t *testing.T) {
	sc := NewServerContext(context.Background())

	sc.SetMail(stubMail{})
	sc.SetCalendar(stubCalendar{})
	sc.SetMaps(stubMaps{})
	assert.Equal(t, map[string]bool{"Gmail": true, "Calendar": true, "Maps": true}, sc.Services())

	sc.SetMail(nil)
	assert.Nil(t, sc.Mail())
}

func TestServerContext_Shutdown(t *testing.T) {
	sc := NewServerContext(context.Background())
	assert.False(t, sc.IsShutdown())

	require.NoError(t, sc.Shutdown())
	require.NoError(t, sc.Shutdown())

	assert.True(t, sc.IsShutdown())
	assert.ErrorIs(t, sc.Context().Err(), context.Canceled)
}
