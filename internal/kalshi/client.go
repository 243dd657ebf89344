// Package kalshi provides an authenticated client for the Kalshi trade API.
// Requests are signed per Kalshi's API-key scheme: an RSA-PSS SHA-256
// signature over timestamp + method + path, sent alongside the key id.
package kalshi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rabelson97/kalshi-telegram-notifier/internal/config"
	"github.com/rabelson97/kalshi-telegram-notifier/internal/models"
)

const apiPrefix = "/trade-api/v2"

// eventsPageSize is the maximum page size the events endpoint accepts.
const eventsPageSize = 200

// Client provides access to the Kalshi trade API.
type Client struct {
	baseURL        string
	apiKey         string
	signer         *signer
	httpClient     *http.Client
	maxRetries     int
	retryDelayBase time.Duration
}

// kalshiEvent represents an event payload from the Kalshi API.
type kalshiEvent struct {
	EventTicker string         `json:"event_ticker"`
	Title       string         `json:"title"`
	Volume24h   int64          `json:"volume_24h"`
	Markets     []kalshiMarket `json:"markets"`
}

// kalshiMarket represents a market nested in an event payload.
type kalshiMarket struct {
	Ticker      string `json:"ticker"`
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	YesSubTitle string `json:"yes_sub_title"`
	Volume      int64  `json:"volume"`
	Volume24h   int64  `json:"volume_24h"`
	CloseTime   string `json:"close_time"`
}

// kalshiOdds represents the order book fields of a single-market response.
type kalshiOdds struct {
	Ticker    string `json:"ticker"`
	YesBid    *int   `json:"yes_bid"`
	YesAsk    *int   `json:"yes_ask"`
	CloseTime string `json:"close_time"`
	Volume    int64  `json:"volume"`
}

// NewClient creates a new Kalshi client from the given configuration.
// It fails when the private key is not parseable RSA PEM material.
func NewClient(cfg config.KalshiConfig) (*Client, error) {
	s, err := newSigner(cfg.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load Kalshi private key: %w", err)
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	retryDelayBase := cfg.RetryDelayBase
	if retryDelayBase <= 0 {
		retryDelayBase = time.Second
	}

	return &Client{
		baseURL:        cfg.BaseURL(),
		apiKey:         cfg.APIKey,
		signer:         s,
		httpClient:     &http.Client{Timeout: cfg.Timeout},
		maxRetries:     maxRetries,
		retryDelayBase: retryDelayBase,
	}, nil
}

// Login verifies credentials by requesting the portfolio balance.
// A failure here means authentication or connectivity is broken and the
// whole run should abort.
func (c *Client) Login(ctx context.Context) error {
	resp, err := c.doRequest(ctx, apiPrefix+"/portfolio/balance", nil)
	if err != nil {
		return fmt.Errorf("kalshi login failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("kalshi login rejected: status %d: %s", resp.StatusCode, body)
	}
	return nil
}

// ListEvents retrieves up to limit open events with nested markets, paging
// through the events endpoint by cursor.
func (c *Client) ListEvents(ctx context.Context, limit int) ([]models.Event, error) {
	var events []models.Event
	cursor := ""

	for len(events) < limit {
		pageSize := limit - len(events)
		if pageSize > eventsPageSize {
			pageSize = eventsPageSize
		}

		query := url.Values{}
		query.Set("status", "open")
		query.Set("with_nested_markets", "true")
		query.Set("limit", strconv.Itoa(pageSize))
		if cursor != "" {
			query.Set("cursor", cursor)
		}

		resp, err := c.doRequest(ctx, apiPrefix+"/events", query)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch events: %w", err)
		}

		var page struct {
			Events []kalshiEvent `json:"events"`
			Cursor string        `json:"cursor"`
		}
		err = json.NewDecoder(resp.Body).Decode(&page)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to decode events: %w", err)
		}

		for _, ke := range page.Events {
			events = append(events, convertEvent(ke))
		}

		if page.Cursor == "" || len(page.Events) == 0 {
			break
		}
		cursor = page.Cursor
	}

	if len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}

// GetOdds retrieves the current order book snapshot for a single market.
// A (nil, nil) return means the exchange had no market under that ticker.
func (c *Client) GetOdds(ctx context.Context, ticker string) (*models.Odds, error) {
	resp, err := c.doRequest(ctx, apiPrefix+"/markets/"+url.PathEscape(ticker), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch odds for %s: %w", ticker, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, ticker)
	}

	var payload struct {
		Market *kalshiOdds `json:"market"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode odds for %s: %w", ticker, err)
	}
	if payload.Market == nil {
		return nil, nil
	}

	return &models.Odds{
		YesBid:    payload.Market.YesBid,
		YesAsk:    payload.Market.YesAsk,
		CloseTime: payload.Market.CloseTime,
		Volume:    payload.Market.Volume,
	}, nil
}

// convertEvent maps a raw API event into the internal model. The market
// subtitle falls back to yes_sub_title, matching how the exchange populates
// one or the other depending on market type.
func convertEvent(ke kalshiEvent) models.Event {
	event := models.Event{
		Ticker:    ke.EventTicker,
		Title:     ke.Title,
		Volume24h: ke.Volume24h,
	}
	for _, km := range ke.Markets {
		subtitle := km.Subtitle
		if subtitle == "" {
			subtitle = km.YesSubTitle
		}
		event.Markets = append(event.Markets, models.MarketSummary{
			Ticker:    km.Ticker,
			Title:     km.Title,
			Subtitle:  subtitle,
			Volume:    km.Volume,
			Volume24h: km.Volume24h,
			CloseTime: km.CloseTime,
		})
	}
	return event
}

// doRequest performs a signed GET request with retry on transport errors
// and 5xx responses, backing off linearly between attempts.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) (*http.Response, error) {
	requestURL := c.baseURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	var lastErr error
	for i := 0; i < c.maxRetries; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		if err := c.signRequest(req, path); err != nil {
			return nil, err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			time.Sleep(c.retryDelayBase * time.Duration(i+1))
			continue
		}

		if resp.StatusCode >= 500 {
			resp.Body.Close()
			lastErr = fmt.Errorf("server error: %d", resp.StatusCode)
			time.Sleep(c.retryDelayBase * time.Duration(i+1))
			continue
		}

		return resp, nil
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

// signRequest attaches the Kalshi access headers. The signed string is
// timestamp (ms) + method + path, without the query string.
func (c *Client) signRequest(req *http.Request, path string) error {
	timestamp := strconv.FormatInt(time.Now().UnixMilli(), 10)
	signature, err := c.signer.sign(timestamp + req.Method + path)
	if err != nil {
		return fmt.Errorf("failed to sign request: %w", err)
	}
	req.Header.Set("KALSHI-ACCESS-KEY", c.apiKey)
	req.Header.Set("KALSHI-ACCESS-TIMESTAMP", timestamp)
	req.Header.Set("KALSHI-ACCESS-SIGNATURE", signature)
	return nil
}
