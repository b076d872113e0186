package routing

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"
)

// mockProvider is a mock routing provider for testing.
type mockProvider struct {
	name      string
	response  *DirectionsResponse
	err       error
	callCount atomic.Int32
}

func (m *mockProvider) GetDirections(_ context.Context, _ DirectionsRequest) (*DirectionsResponse, error) {
	m.callCount.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func (m *mockProvider) Name() string {
	return m.name
}

func testResponse(routeCount int) *DirectionsResponse {
	routes := make([]Route, 0, routeCount)
	for i := 0; i < routeCount; i++ {
		routes = append(routes, Route{
			Name:           fmt.Sprintf("Route %d", i+1),
			DistanceMeters: float64(10000 * (i + 1)),
			DurationSecs:   float64(600 * (i + 1)),
		})
	}
	return &DirectionsResponse{
		Routes:    routes,
		Provider:  "test-provider",
		FetchedAt: time.Now(),
	}
}

func TestService_GetDirections_CacheMiss(t *testing.T) {
	provider := &mockProvider{
		name:     "test-provider",
		response: testResponse(2),
	}

	service := NewService(ServiceConfig{Provider: provider})

	resp, err := service.GetDirections(context.Background(), DirectionsRequest{
		Origin:      Coordinate{Lat: 19.0760, Lon: 72.8777},
		Destination: Coordinate{Lat: 18.5204, Lon: 73.8567},
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if provider.callCount.Load() != 1 {
		t.Errorf("expected 1 provider call, got %d", provider.callCount.Load())
	}

	if len(resp.Routes) != 2 {
		t.Fatalf("expected 2 routes, got %d", len(resp.Routes))
	}

	if resp.Routes[0].DistanceMeters != 10000 {
		t.Errorf("expected distance 10000, got %f", resp.Routes[0].DistanceMeters)
	}
}

func TestService_GetDirections_CacheHit(t *testing.T) {
	provider := &mockProvider{
		name:     "test-provider",
		response: testResponse(1),
	}

	service := NewService(ServiceConfig{Provider: provider})

	req := DirectionsRequest{
		Origin:      Coordinate{Lat: 19.0760, Lon: 72.8777},
		Destination: Coordinate{Lat: 18.5204, Lon: 73.8567},
	}

	// First call
	if _, err := service.GetDirections(context.Background(), req); err != nil {
		t.Fatalf("unexpected error on first call: %v", err)
	}

	// Second call (should hit cache)
	if _, err := service.GetDirections(context.Background(), req); err != nil {
		t.Fatalf("unexpected error on second call: %v", err)
	}

	if provider.callCount.Load() != 1 {
		t.Errorf("expected 1 provider call, got %d", provider.callCount.Load())
	}
}

func TestService_GetDirections_NearbyQueriesShareCache(t *testing.T) {
	provider := &mockProvider{
		name:     "test-provider",
		response: testResponse(1),
	}

	service := NewService(ServiceConfig{Provider: provider})

	// Both endpoints shift by less than the 0.01 degree cache grid.
	if _, err := service.GetDirections(context.Background(), DirectionsRequest{
		Origin:      Coordinate{Lat: 19.0711, Lon: 72.8711},
		Destination: Coordinate{Lat: 18.5211, Lon: 73.8511},
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := service.GetDirections(context.Background(), DirectionsRequest{
		Origin:      Coordinate{Lat: 19.0719, Lon: 72.8719},
		Destination: Coordinate{Lat: 18.5219, Lon: 73.8519},
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if provider.callCount.Load() != 1 {
		t.Errorf("expected 1 provider call, got %d", provider.callCount.Load())
	}
}

func TestService_GetDirections_InvalidOrigin(t *testing.T) {
	provider := &mockProvider{name: "test-provider", response: testResponse(1)}
	service := NewService(ServiceConfig{Provider: provider})

	_, err := service.GetDirections(context.Background(), DirectionsRequest{
		Origin:      Coordinate{Lat: 91.0, Lon: 72.8777},
		Destination: Coordinate{Lat: 18.5204, Lon: 73.8567},
	})

	if !errors.Is(err, ErrInvalidCoordinates) {
		t.Fatalf("expected ErrInvalidCoordinates, got %v", err)
	}

	var routingErr *Error
	if !errors.As(err, &routingErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if routingErr.Code != "INVALID_ORIGIN" {
		t.Errorf("expected code INVALID_ORIGIN, got %s", routingErr.Code)
	}

	if provider.callCount.Load() != 0 {
		t.Errorf("provider should not be called for invalid input, got %d calls", provider.callCount.Load())
	}
}

func TestService_GetDirections_InvalidDestination(t *testing.T) {
	provider := &mockProvider{name: "test-provider", response: testResponse(1)}
	service := NewService(ServiceConfig{Provider: provider})

	_, err := service.GetDirections(context.Background(), DirectionsRequest{
		Origin:      Coordinate{Lat: 19.0760, Lon: 72.8777},
		Destination: Coordinate{Lat: 18.5204, Lon: -181.0},
	})

	if !errors.Is(err, ErrInvalidCoordinates) {
		t.Fatalf("expected ErrInvalidCoordinates, got %v", err)
	}
}

func TestService_GetDirections_ProviderError(t *testing.T) {
	provider := &mockProvider{
		name: "test-provider",
		err:  ErrProviderUnavailable,
	}
	service := NewService(ServiceConfig{Provider: provider})

	_, err := service.GetDirections(context.Background(), DirectionsRequest{
		Origin:      Coordinate{Lat: 19.0760, Lon: 72.8777},
		Destination: Coordinate{Lat: 18.5204, Lon: 73.8567},
	})

	if !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestService_GetDirections_TrimsToMaxAlternatives(t *testing.T) {
	provider := &mockProvider{
		name:     "test-provider",
		response: testResponse(5),
	}

	service := NewService(ServiceConfig{Provider: provider, MaxAlternatives: 3})

	resp, err := service.GetDirections(context.Background(), DirectionsRequest{
		Origin:      Coordinate{Lat: 19.0760, Lon: 72.8777},
		Destination: Coordinate{Lat: 18.5204, Lon: 73.8567},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(resp.Routes) != 3 {
		t.Errorf("expected 3 routes after trimming, got %d", len(resp.Routes))
	}
}

func TestValidateCoordinate(t *testing.T) {
	tests := []struct {
		name    string
		coord   Coordinate
		wantErr bool
	}{
		{"valid", Coordinate{Lat: 19.0760, Lon: 72.8777}, false},
		{"lat too high", Coordinate{Lat: 90.1, Lon: 0}, true},
		{"lat too low", Coordinate{Lat: -90.1, Lon: 0}, true},
		{"lon too high", Coordinate{Lat: 0, Lon: 180.1}, true},
		{"lon too low", Coordinate{Lat: 0, Lon: -180.1}, true},
		{"boundary", Coordinate{Lat: 90, Lon: 180}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCoordinate(tt.coord)
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
