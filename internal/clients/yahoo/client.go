// Package yahoo provides a client for the Yahoo Finance API
package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bistboard/bistboard/internal/common"
	"github.com/bistboard/bistboard/internal/interfaces"
	"github.com/bistboard/bistboard/internal/models"
)

const (
	DefaultBaseURL      = "https://query1.finance.yahoo.com"
	DefaultQueryBaseURL = "https://query2.finance.yahoo.com"
	DefaultTimeout      = 15 * time.Second

	// DefaultSearchTimeout caps interactive symbol search independently of
	// the data-fetch timeout.
	DefaultSearchTimeout = 3 * time.Second
)

// Client implements the QuoteClient interface
type Client struct {
	baseURL       string
	queryBaseURL  string
	userAgent     string
	searchTimeout time.Duration
	httpClient    *http.Client
	logger        *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the chart and summary base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithQueryBaseURL sets the symbol-search base URL
func WithQueryBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.queryBaseURL = baseURL
	}
}

// WithUserAgent sets the request User-Agent header
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithSearchTimeout sets the per-call symbol search timeout
func WithSearchTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.searchTimeout = timeout
	}
}

// NewClient creates a new Yahoo Finance client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:       DefaultBaseURL,
		queryBaseURL:  DefaultQueryBaseURL,
		searchTimeout: DefaultSearchTimeout,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents a non-200 provider response
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("yahoo API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// providerSymbol maps a canonical BIST ticker onto the provider's exchange
// suffixed form. Symbols already carrying a suffix pass through untouched.
func providerSymbol(symbol string) string {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if strings.Contains(symbol, ".") {
		return symbol
	}
	return symbol + ".IS"
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// GetDailyHistory retrieves up to days recent daily bars, oldest first.
// Rows with a null close are dropped; the provider pads live sessions that
// way.
func (c *Client) GetDailyHistory(ctx context.Context, symbol string, days int) ([]models.DailyBar, error) {
	if days <= 0 {
		days = 5
	}

	endpoint := fmt.Sprintf("/v8/finance/chart/%s", url.PathEscape(providerSymbol(symbol)))
	params := url.Values{}
	params.Set("range", fmt.Sprintf("%dd", days))
	params.Set("interval", "1d")

	var parsed chartResponse
	if err := c.getJSON(ctx, c.baseURL, endpoint, params, &parsed); err != nil {
		return nil, classifyError(symbol, err)
	}

	if parsed.Chart.Error != nil {
		return nil, models.NewNotFoundError(symbol)
	}
	if len(parsed.Chart.Result) == 0 || len(parsed.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, models.NewNotFoundError(symbol)
	}

	result := parsed.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	bars := make([]models.DailyBar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		bar := models.DailyBar{
			Date:  time.Unix(ts, 0).UTC(),
			Close: *quote.Close[i],
		}
		if i < len(quote.Open) && quote.Open[i] != nil {
			bar.Open = *quote.Open[i]
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			bar.Volume = *quote.Volume[i]
		}
		bars = append(bars, bar)
	}

	if len(bars) == 0 {
		return nil, models.NewNotFoundError(symbol)
	}

	return bars, nil
}

// rawValue is the provider's {"raw": n, "fmt": "..."} number wrapper.
type rawValue struct {
	Raw float64 `json:"raw"`
}

type summaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			Price *struct {
				Symbol              string   `json:"symbol"`
				LongName            string   `json:"longName"`
				ShortName           string   `json:"shortName"`
				Currency            string   `json:"currency"`
				RegularMarketPrice  rawValue `json:"regularMarketPrice"`
				RegularMarketOpen   rawValue `json:"regularMarketOpen"`
				RegularMarketVolume rawValue `json:"regularMarketVolume"`
				MarketCap           rawValue `json:"marketCap"`
			} `json:"price"`
			SummaryDetail *struct {
				PreviousClose    rawValue `json:"previousClose"`
				DayHigh          rawValue `json:"dayHigh"`
				DayLow           rawValue `json:"dayLow"`
				FiftyTwoWeekHigh rawValue `json:"fiftyTwoWeekHigh"`
				FiftyTwoWeekLow  rawValue `json:"fiftyTwoWeekLow"`
				AverageVolume    rawValue `json:"averageVolume"`
				TrailingPE       rawValue `json:"trailingPE"`
				DividendYield    rawValue `json:"dividendYield"`
			} `json:"summaryDetail"`
			AssetProfile *struct {
				Sector              string `json:"sector"`
				Industry            string `json:"industry"`
				LongBusinessSummary string `json:"longBusinessSummary"`
				Website             string `json:"website"`
			} `json:"assetProfile"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// GetQuoteInfo retrieves provider metadata for a symbol. Missing modules
// leave their fields zero; callers apply their own fallbacks.
func (c *Client) GetQuoteInfo(ctx context.Context, symbol string) (*models.QuoteInfo, error) {
	endpoint := fmt.Sprintf("/v10/finance/quoteSummary/%s", url.PathEscape(providerSymbol(symbol)))
	params := url.Values{}
	params.Set("modules", "price,summaryDetail,assetProfile")

	var parsed summaryResponse
	if err := c.getJSON(ctx, c.baseURL, endpoint, params, &parsed); err != nil {
		return nil, classifyError(symbol, err)
	}

	if parsed.QuoteSummary.Error != nil || len(parsed.QuoteSummary.Result) == 0 {
		return nil, models.NewNotFoundError(symbol)
	}

	result := parsed.QuoteSummary.Result[0]
	info := &models.QuoteInfo{Symbol: models.CanonicalSymbol(symbol)}

	if p := result.Price; p != nil {
		info.LongName = p.LongName
		info.ShortName = p.ShortName
		info.Currency = p.Currency
		info.Price = p.RegularMarketPrice.Raw
		info.Open = p.RegularMarketOpen.Raw
		info.Volume = p.RegularMarketVolume.Raw
		info.MarketCap = p.MarketCap.Raw
	}
	if d := result.SummaryDetail; d != nil {
		info.PreviousClose = d.PreviousClose.Raw
		info.DayHigh = d.DayHigh.Raw
		info.DayLow = d.DayLow.Raw
		info.YearHigh = d.FiftyTwoWeekHigh.Raw
		info.YearLow = d.FiftyTwoWeekLow.Raw
		info.AverageVolume = d.AverageVolume.Raw
		info.PERatio = d.TrailingPE.Raw
		info.DividendYield = d.DividendYield.Raw
	}
	if a := result.AssetProfile; a != nil {
		info.Sector = a.Sector
		info.Industry = a.Industry
		info.Description = a.LongBusinessSummary
		info.Website = a.Website
	}

	return info, nil
}

type searchResponse struct {
	Quotes []struct {
		Symbol    string `json:"symbol"`
		ShortName string `json:"shortname"`
		LongName  string `json:"longname"`
		ExchDisp  string `json:"exchDisp"`
		QuoteType string `json:"quoteType"`
	} `json:"quotes"`
}

// Search returns symbol suggestions for a free-text query. The call runs
// under its own short timeout so a slow provider cannot stall the
// interactive path.
func (c *Client) Search(ctx context.Context, query string) ([]models.SearchSuggestion, error) {
	ctx, cancel := context.WithTimeout(ctx, c.searchTimeout)
	defer cancel()

	params := url.Values{}
	params.Set("q", query)
	params.Set("quotesCount", "10")
	params.Set("newsCount", "0")

	var parsed searchResponse
	if err := c.getJSON(ctx, c.queryBaseURL, "/v1/finance/search", params, &parsed); err != nil {
		return nil, classifyError(query, err)
	}

	suggestions := make([]models.SearchSuggestion, 0, len(parsed.Quotes))
	for _, q := range parsed.Quotes {
		if q.QuoteType != "" && q.QuoteType != "EQUITY" {
			continue
		}
		name := q.LongName
		if name == "" {
			name = q.ShortName
		}
		suggestions = append(suggestions, models.SearchSuggestion{
			Symbol:   q.Symbol,
			Name:     name,
			Exchange: q.ExchDisp,
		})
	}

	return suggestions, nil
}

// getJSON issues one GET and decodes the JSON body into out.
func (c *Client) getJSON(ctx context.Context, base, endpoint string, params url.Values, out any) error {
	reqURL := base + endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
			Endpoint:   endpoint,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// classifyError maps a transport error onto the fetch error taxonomy.
func classifyError(symbol string, err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusNotFound {
			return models.NewNotFoundError(symbol)
		}
		return models.NewNetworkError(symbol, err)
	}
	if strings.Contains(err.Error(), "decode") {
		return models.NewParseError(symbol, err)
	}
	return models.NewNetworkError(symbol, err)
}

// Ensure Client implements QuoteClient
var _ interfaces.QuoteClient = (*Client)(nil)
