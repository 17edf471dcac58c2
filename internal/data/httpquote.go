package data

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/contactkeval/option-pricer/internal/logger"
	"github.com/contactkeval/option-pricer/internal/pricing"
)

// httpQuoteProvider fetches previous-close option quotes from a
// Polygon-style REST API, falling back to its secondary on any failure.
type httpQuoteProvider struct {
	apiKey    string
	client    *http.Client
	baseURL   string
	secondary Provider
}

// NewHTTPQuoteProvider returns a Provider backed by the quote API at
// baseURL. secondary may be nil.
func NewHTTPQuoteProvider(apiKey, baseURL string, secondary Provider) Provider {
	return &httpQuoteProvider{
		apiKey:    apiKey,
		client:    &http.Client{Timeout: 30 * time.Second},
		baseURL:   baseURL,
		secondary: secondary,
	}
}

func (httpQuoteProv *httpQuoteProvider) Secondary() Provider {
	return httpQuoteProv.secondary
}

// optionTicker builds the OCC-style contract symbol, e.g.
// O:AAPL251219C00100000 for a 100-strike AAPL call expiring 2025-12-19.
func optionTicker(underlying string, strike float64, expiry time.Time, typ pricing.OptionType) string {
	cp := "C"
	if typ == pricing.Put {
		cp = "P"
	}
	// strike in thousandths, zero-padded to 8 digits
	return fmt.Sprintf("O:%s%s%s%08d",
		strings.ToUpper(underlying),
		expiry.Format("060102"),
		cp,
		int64(strike*1000+0.5),
	)
}

func (httpQuoteProv *httpQuoteProvider) GetOptionQuote(underlying string, strike float64, expiry time.Time, typ pricing.OptionType) (float64, error) {
	ticker := optionTicker(underlying, strike, expiry, typ)
	reqURL := fmt.Sprintf("%s/v2/aggs/ticker/%s/prev?adjusted=true&apiKey=%s",
		httpQuoteProv.baseURL, url.PathEscape(ticker), httpQuoteProv.apiKey)

	price, err := httpQuoteProv.fetchClose(reqURL)
	if err != nil {
		logger.Debugf("http quote for %s failed: %v", ticker, err)
		if httpQuoteProv.secondary != nil {
			return httpQuoteProv.secondary.GetOptionQuote(underlying, strike, expiry, typ)
		}
		return 0, err
	}
	return price, nil
}

func (httpQuoteProv *httpQuoteProvider) fetchClose(reqURL string) (float64, error) {
	resp, err := httpQuoteProv.client.Get(reqURL)
	if err != nil {
		return 0, fmt.Errorf("quote request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("quote status=%d body=%s", resp.StatusCode, string(bodyBytes))
	}

	var body struct {
		Results []struct {
			Close float64 `json:"c"`
		} `json:"results"`
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("parsing quote response: %w", err)
	}
	if len(body.Results) == 0 {
		return 0, fmt.Errorf("no quote results (status=%s)", body.Status)
	}
	return body.Results[0].Close, nil
}
