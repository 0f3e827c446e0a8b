// Package isyatirim provides a client for the İş Yatırım financial
// statement API
package isyatirim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/bistboard/bistboard/internal/common"
	"github.com/bistboard/bistboard/internal/interfaces"
	"github.com/bistboard/bistboard/internal/models"
)

const (
	DefaultBaseURL   = "https://www.isyatirim.com.tr/_layouts/15/IsYatirim.Website/Common/Data.aspx"
	DefaultTimeout   = 15 * time.Second
	DefaultRateLimit = 2 // chunk requests per second

	// maxPeriodsPerRequest is the provider's hard per-call period limit.
	// Requests carry year1..year4/period1..period4 and responses answer with
	// value1..value4 positionally.
	maxPeriodsPerRequest = 4
)

// bankSymbols use the consolidated UFRS statement group instead of the
// standard XI_29 group.
var bankSymbols = map[string]struct{}{
	"AKBNK": {}, "GARAN": {}, "ISCTR": {}, "HALKB": {},
	"VAKBN": {}, "TSKB": {}, "ICBCT": {},
}

// financialGroup returns the provider statement-group code for a symbol.
func financialGroup(symbol string) string {
	if _, ok := bankSymbols[symbol]; ok {
		return "3" // UFRS consolidated
	}
	return "1" // XI_29 standard
}

// Client implements the FinancialsClient interface
type Client struct {
	baseURL    string
	userAgent  string
	chunkSize  int
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
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

// WithRateLimit sets the inter-chunk request rate
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		if requestsPerSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
		}
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithChunkSize overrides the per-request period limit. Values above the
// provider maximum are clamped.
func WithChunkSize(size int) ClientOption {
	return func(c *Client) {
		if size > 0 && size <= maxPeriodsPerRequest {
			c.chunkSize = size
		}
	}
}

// NewClient creates a new İş Yatırım client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		chunkSize: maxPeriodsPerRequest,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), 1),
		logger:  common.NewSilentLogger(),
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
	return fmt.Sprintf("isyatirim API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// flexFloat handles statement values that arrive as number, string, or null.
type flexFloat struct {
	Set bool
	Val float64
}

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		f.Set = false
		return nil
	}
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		f.Set, f.Val = true, num
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		s = strings.TrimSpace(s)
		if s == "" || s == "N/A" {
			f.Set = false
			return nil
		}
		num, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
		if err != nil {
			f.Set = false
			return nil
		}
		f.Set, f.Val = true, num
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into float64", string(data))
}

func (f flexFloat) ptr() *float64 {
	if !f.Set {
		return nil
	}
	v := f.Val
	return &v
}

// statementRow is one line item of a chunk response. value1..value4
// correspond positionally to the requested chunk periods — the chunk slice
// is the only source of that mapping.
type statementRow struct {
	ItemCode    string    `json:"itemCode"`
	ItemDescTr  string    `json:"itemDescTr"`
	ItemDescEng string    `json:"itemDescEng"`
	Value1      flexFloat `json:"value1"`
	Value2      flexFloat `json:"value2"`
	Value3      flexFloat `json:"value3"`
	Value4      flexFloat `json:"value4"`
}

// value returns the row value at chunk position i (0-based), or nil.
func (r *statementRow) value(i int) *float64 {
	switch i {
	case 0:
		return r.Value1.ptr()
	case 1:
		return r.Value2.ptr()
	case 2:
		return r.Value3.ptr()
	case 3:
		return r.Value4.ptr()
	}
	return nil
}

type statementResponse struct {
	Value []statementRow `json:"value"`
}

// FetchFinancials retrieves statement rows for the given periods, one
// request per chunk of at most 4 periods, and merges them into a single
// record. A failed chunk is logged and skipped; its periods remain in the
// record with null values. The merge is a pure function of the chunk
// responses, so identical provider state yields an identical record.
func (c *Client) FetchFinancials(ctx context.Context, symbol string, periods []models.Period) (*models.FinancialRecord, error) {
	symbol = models.CanonicalSymbol(symbol)
	group := financialGroup(symbol)

	record := &models.FinancialRecord{
		Symbol:  symbol,
		Periods: append([]models.Period(nil), periods...),
	}

	items := make(map[string]*models.LineItem)
	var order []string

	chunks := models.ChunkPeriods(periods, c.chunkSize)
	var lastErr error
	failed := 0

	for i, chunk := range chunks {
		// Pace between chunk requests, never before the first.
		if i > 0 {
			if err := c.limiter.Wait(ctx); err != nil {
				return record, fmt.Errorf("rate limit wait: %w", err)
			}
		}

		rows, err := c.fetchChunk(ctx, symbol, group, chunk)
		if err != nil {
			c.logger.Warn().Str("symbol", symbol).Int("chunk", i).Err(err).Msg("Statement chunk failed")
			lastErr = err
			failed++
			continue
		}

		mergeChunk(items, &order, chunk, rows)
	}

	if len(items) == 0 {
		record.Periods = nil
		if failed == len(chunks) && lastErr != nil {
			return record, classifyError(symbol, lastErr)
		}
		return record, models.NewNotFoundError(symbol)
	}

	// Null-fill: every item carries every requested period, including those
	// of failed chunks.
	record.Items = make([]models.LineItem, 0, len(order))
	for _, key := range order {
		item := items[key]
		for _, p := range record.Periods {
			if _, ok := item.Values[p.String()]; !ok {
				item.Values[p.String()] = nil
			}
		}
		record.Items = append(record.Items, *item)
	}
	record.LastUpdated = time.Now()

	c.logger.Debug().
		Str("symbol", symbol).
		Int("periods", len(record.Periods)).
		Int("items", len(record.Items)).
		Int("failed_chunks", failed).
		Msg("Statements fetched")

	return record, nil
}

// fetchChunk issues one statement request carrying the chunk's periods.
func (c *Client) fetchChunk(ctx context.Context, symbol, group string, chunk []models.Period) ([]statementRow, error) {
	params := url.Values{}
	params.Set("companyCode", symbol)
	params.Set("exchange", "TRY")
	params.Set("financialGroup", group)
	for i, p := range chunk {
		params.Set(fmt.Sprintf("year%d", i+1), strconv.Itoa(p.Year))
		params.Set(fmt.Sprintf("period%d", i+1), strconv.Itoa(p.Month))
	}

	reqURL := fmt.Sprintf("%s/MaliTablo?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
			Endpoint:   "/MaliTablo",
		}
	}

	var parsed statementResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return parsed.Value, nil
}

// mergeChunk writes one chunk's rows into the accumulating item map. Line
// item identity is (code, label); chunk position i maps to chunk[i].
func mergeChunk(items map[string]*models.LineItem, order *[]string, chunk []models.Period, rows []statementRow) {
	for _, row := range rows {
		key := row.ItemCode + "\x00" + row.ItemDescTr
		item, ok := items[key]
		if !ok {
			item = &models.LineItem{
				Code:   row.ItemCode,
				Label:  row.ItemDescTr,
				Values: make(map[string]*float64, len(chunk)),
			}
			items[key] = item
			*order = append(*order, key)
		}
		for i, p := range chunk {
			item.Values[p.String()] = row.value(i)
		}
	}
}

// classifyError maps a chunk error onto the fetch error taxonomy.
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

// Ensure Client implements FinancialsClient
var _ interfaces.FinancialsClient = (*Client)(nil)
