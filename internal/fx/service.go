package fx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// BaseCurrency is the currency all amounts are stored in. Rates are
// multipliers from base to display currency.
const BaseCurrency = "USD"

// fallbackRates is the last line of defense when the provider is down and no
// fetched table has ever been cached.
var fallbackRates = map[string]float64{
	"USD": 1,
	"KES": 155,
	"EUR": 0.92,
	"GBP": 0.79,
	"ZAR": 18.5,
	"NGN": 900,
	"TZS": 2300,
}

// Service holds the current exchange-rate table. It starts from the
// hardcoded fallback and is refreshed from an external provider; a failed
// refresh keeps the last-known-good table.
type Service struct {
	url    string
	client *http.Client

	mu        sync.RWMutex
	rates     map[string]float64
	fetchedAt time.Time
}

func NewService(providerURL string) *Service {
	rates := make(map[string]float64, len(fallbackRates))
	for code, rate := range fallbackRates {
		rates[code] = rate
	}
	return &Service{
		url:    providerURL,
		client: &http.Client{Timeout: 10 * time.Second},
		rates:  rates,
	}
}

type providerResponse struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

// Refresh fetches a fresh rate table from the provider. On any failure the
// current table stays in place and the error is returned for logging.
func (s *Service) Refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return fmt.Errorf("Refresh: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("Refresh: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Refresh: provider returned %d", resp.StatusCode)
	}

	var payload providerResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return fmt.Errorf("Refresh: decode: %w", err)
	}
	if len(payload.Rates) == 0 {
		return fmt.Errorf("Refresh: provider returned empty rate table")
	}

	s.mu.Lock()
	s.rates = payload.Rates
	s.fetchedAt = time.Now().UTC()
	s.mu.Unlock()
	return nil
}

// Rates returns a copy of the current table. Safe to hold across a
// computation pass; later refreshes do not mutate it.
func (s *Service) Rates() map[string]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]float64, len(s.rates))
	for code, rate := range s.rates {
		out[code] = rate
	}
	return out
}

// FetchedAt reports when the table was last refreshed from the provider.
// Zero when still on the fallback table.
func (s *Service) FetchedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fetchedAt
}

// Display converts a base-currency amount to the selected display currency.
// Unknown codes fall back to a multiplier of 1.
func Display(amountBase float64, rates map[string]float64, code string) float64 {
	rate, ok := rates[code]
	if !ok || rate == 0 {
		rate = 1
	}
	return amountBase * rate
}

// ToBase converts a display-currency amount back to base currency. Used once,
// at entry creation; stored values are always base.
func ToBase(amountDisplay float64, rates map[string]float64, code string) float64 {
	rate, ok := rates[code]
	if !ok || rate == 0 {
		rate = 1
	}
	return amountDisplay / rate
}

// Format renders a base-currency amount in the display currency with two
// decimal places. Rounding happens here and nowhere earlier.
func Format(amountBase float64, rates map[string]float64, code string) string {
	return decimal.NewFromFloat(Display(amountBase, rates, code)).StringFixed(2)
}
