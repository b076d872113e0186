package overpass

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resilroute/resilroute/internal/road"
	"github.com/resilroute/resilroute/internal/routing"
)

func TestClassify(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		query := r.PostForm.Get("data")
		assert.Contains(t, query, "way(around:200,52.370000,4.890000)[highway]")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"elements": [
				{"tags": {"highway": "primary", "name": "Stadhouderskade"}}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL, Logger: zerolog.Nop()})

	got, err := client.Classify(context.Background(), routing.Coordinate{Lat: 52.37, Lon: 4.89})
	require.NoError(t, err)
	assert.Equal(t, road.TypePrimary, got)
}

func TestClassifyNoHighwayNearby(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"elements": []}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL, Logger: zerolog.Nop()})

	_, err := client.Classify(context.Background(), routing.Coordinate{Lat: 52.37, Lon: 4.89})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no tagged highway")
}

func TestClassifyServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL, Logger: zerolog.Nop()})

	_, err := client.Classify(context.Background(), routing.Coordinate{Lat: 52.37, Lon: 4.89})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestCustomSearchRadius(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Contains(t, r.PostForm.Get("data"), "around:500,")
		_, _ = w.Write([]byte(`{"elements": [{"tags": {"highway": "motorway"}}]}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL, SearchRadiusM: 500, Logger: zerolog.Nop()})

	got, err := client.Classify(context.Background(), routing.Coordinate{Lat: 1, Lon: 1})
	require.NoError(t, err)
	assert.Equal(t, road.TypeMotorway, got)
}
