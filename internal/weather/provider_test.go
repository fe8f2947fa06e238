package weather_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neexbeast/trekinfo/internal/weather"
)

func owmHandler(t *testing.T, main string, temp float64) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		assert.NotEmpty(t, r.URL.Query().Get("lat"))
		assert.NotEmpty(t, r.URL.Query().Get("lon"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"main":    map[string]any{"temp": temp, "humidity": 80},
			"weather": []map[string]any{{"main": main, "description": "light " + main}},
			"wind":    map[string]any{"speed": 6.2},
		})
	}
}

func TestOpenWeatherClient_Fetch(t *testing.T) {
	srv := httptest.NewServer(owmHandler(t, "Rain", 9.5))
	defer srv.Close()

	c := weather.NewOpenWeatherClientWithURL(srv.URL, "key", time.Second)
	obs, err := c.Fetch(context.Background(), 27.9881, 86.925)
	require.NoError(t, err)
	require.NotNil(t, obs)
	assert.Equal(t, 9.5, obs.Temperature)
	assert.Equal(t, "Rain", obs.Condition)
	assert.Equal(t, "light Rain", obs.Description)
	assert.Equal(t, 80, obs.Humidity)
	assert.Equal(t, 6.2, obs.WindSpeed)
}

func TestOpenWeatherClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "err", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := weather.NewOpenWeatherClientWithURL(srv.URL, "secret-key", time.Second)
	_, err := c.Fetch(context.Background(), 1, 2)
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "secret-key")
}

func TestOpenWeatherClient_NoConditions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"main": map[string]any{"temp": 1}})
	}))
	defer srv.Close()

	c := weather.NewOpenWeatherClientWithURL(srv.URL, "key", time.Second)
	_, err := c.Fetch(context.Background(), 1, 2)
	require.Error(t, err)
}

func TestOpenWeatherClient_Timeout(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer slow.Close()

	c := weather.NewOpenWeatherClientWithURL(slow.URL, "secret-key", 50*time.Millisecond)
	_, err := c.Fetch(context.Background(), 1, 2)
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "secret-key")
}
