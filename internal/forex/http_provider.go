package forex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"remit/internal/domain"
	"remit/pkg/errors"
)

// HTTPProvider queries an external exchange-rate API of the form
// GET <endpoint>/latest?base=KRW&currencies=JPY&...&api_key=<key>
// responding with {"rates": {"JPY": 9.123456}}.
type HTTPProvider struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewHTTPProvider(endpoint, apiKey string, timeout time.Duration) *HTTPProvider {
	return &HTTPProvider{
		endpoint: endpoint,
		apiKey:   apiKey,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (p *HTTPProvider) Name() string {
	return "HTTPProvider"
}

func (p *HTTPProvider) Rate(ctx context.Context, base, target domain.Currency) (decimal.Decimal, error) {
	if base == target {
		return one, nil
	}

	query := url.Values{}
	query.Set("base", string(base))
	query.Set("currencies", string(target))
	query.Set("resolution", "1m")
	query.Set("amount", "1")
	query.Set("places", "6")
	query.Set("format", "json")
	if p.apiKey != "" {
		query.Set("api_key", p.apiKey)
	}

	reqURL := fmt.Sprintf("%s/latest?%s", p.endpoint, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "build rate request")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "fetch exchange rate")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("rate api returned status %d: %w", resp.StatusCode, errors.ErrRateNotAvailable)
	}

	var payload struct {
		Rates map[string]decimal.Decimal `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return decimal.Zero, errors.Wrap(err, "decode rate response")
	}

	rate, ok := payload.Rates[string(target)]
	if !ok {
		return decimal.Zero, errors.ErrRateNotAvailable
	}
	return rate, nil
}
