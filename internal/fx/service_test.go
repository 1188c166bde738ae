package fx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplay(t *testing.T) {
	rates := map[string]float64{"USD": 1, "KES": 155, "EUR": 0.92}

	tests := []struct {
		name   string
		amount float64
		code   string
		want   float64
	}{
		{"base currency is identity", 100, "USD", 100},
		{"known multiplier", 100, "KES", 15500},
		{"fractional multiplier", 100, "EUR", 92},
		{"unknown code falls back to 1", 100, "XYZ", 100},
		{"zero amount", 0, "KES", 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, Display(tc.amount, rates, tc.code), 1e-9)
		})
	}
}

func TestToBaseInvertsDisplay(t *testing.T) {
	rates := map[string]float64{"KES": 155}

	base := ToBase(15500, rates, "KES")
	assert.InDelta(t, 100, base, 1e-9)
	assert.InDelta(t, 15500, Display(base, rates, "KES"), 1e-9)
}

func TestFormat(t *testing.T) {
	rates := map[string]float64{"EUR": 0.92}
	assert.Equal(t, "92.00", Format(100, rates, "EUR"))
	assert.Equal(t, "10.35", Format(11.25, rates, "EUR"))
	assert.Equal(t, "11.25", Format(11.25, rates, "JPY")) // unknown code, rate 1
}

func TestServiceStartsOnFallback(t *testing.T) {
	svc := NewService("http://localhost:0")

	rates := svc.Rates()
	assert.InDelta(t, 1.0, rates["USD"], 1e-9)
	assert.InDelta(t, 155, rates["KES"], 1e-9)
	assert.True(t, svc.FetchedAt().IsZero())
}

func TestServiceRefresh(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"base":"USD","rates":{"USD":1,"EUR":0.95,"KES":160}}`))
	}))
	defer srv.Close()

	svc := NewService(srv.URL)
	require.NoError(t, svc.Refresh(context.Background()))

	rates := svc.Rates()
	assert.InDelta(t, 0.95, rates["EUR"], 1e-9)
	assert.InDelta(t, 160, rates["KES"], 1e-9)
	assert.False(t, svc.FetchedAt().IsZero())
}

func TestServiceRefreshFailureKeepsLastKnownGood(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls > 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"base":"USD","rates":{"USD":1,"EUR":0.95}}`))
	}))
	defer srv.Close()

	svc := NewService(srv.URL)
	require.NoError(t, svc.Refresh(context.Background()))
	require.Error(t, svc.Refresh(context.Background()))

	// Table from the successful fetch survives the failure.
	assert.InDelta(t, 0.95, svc.Rates()["EUR"], 1e-9)
}

func TestRatesReturnsACopy(t *testing.T) {
	svc := NewService("http://localhost:0")

	rates := svc.Rates()
	rates["USD"] = 42

	assert.InDelta(t, 1.0, svc.Rates()["USD"], 1e-9)
}
