package kalshi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// newTestClient points a signed client at the given test server.
func newTestClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	s, err := newSigner(pkcs8PEM(t, generateTestKey(t)))
	if err != nil {
		t.Fatalf("newSigner: %v", err)
	}
	return &Client{
		baseURL:        server.URL,
		apiKey:         "test-key-id",
		signer:         s,
		httpClient:     server.Client(),
		maxRetries:     3,
		retryDelayBase: time.Millisecond,
	}
}

func TestListEventsPaginates(t *testing.T) {
	var requests []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.URL.RawQuery)
		if r.URL.Path != "/trade-api/v2/events" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("status") != "open" {
			t.Error("Expected status=open")
		}
		if r.URL.Query().Get("with_nested_markets") != "true" {
			t.Error("Expected with_nested_markets=true")
		}

		switch r.URL.Query().Get("cursor") {
		case "":
			fmt.Fprint(w, `{"cursor": "page2", "events": [
				{"event_ticker": "EVENT-A", "title": "Event A", "volume_24h": 100,
				 "markets": [{"ticker": "EVENT-A-T1", "title": "Market 1", "close_time": "2024-01-01T00:00:00Z"}]}
			]}`)
		case "page2":
			fmt.Fprint(w, `{"cursor": "", "events": [
				{"event_ticker": "EVENT-B", "title": "Event B", "volume_24h": 200, "markets": []}
			]}`)
		default:
			t.Errorf("Unexpected cursor %q", r.URL.Query().Get("cursor"))
		}
	}))
	defer server.Close()

	client := newTestClient(t, server)
	events, err := client.ListEvents(context.Background(), 500)
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("Expected 2 events across pages, got %d", len(events))
	}
	if events[0].Ticker != "EVENT-A" || events[1].Ticker != "EVENT-B" {
		t.Errorf("Unexpected event order: %s, %s", events[0].Ticker, events[1].Ticker)
	}
	if len(events[0].Markets) != 1 || events[0].Markets[0].Ticker != "EVENT-A-T1" {
		t.Error("Nested markets must survive conversion")
	}
	if len(requests) != 2 {
		t.Errorf("Expected 2 page requests, got %d", len(requests))
	}
}

func TestListEventsRespectsLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("limit"); got != "3" {
			t.Errorf("limit = %s, want 3", got)
		}
		fmt.Fprint(w, `{"cursor": "more", "events": [
			{"event_ticker": "E1", "title": "1"},
			{"event_ticker": "E2", "title": "2"},
			{"event_ticker": "E3", "title": "3"}
		]}`)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	events, err := client.ListEvents(context.Background(), 3)
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != 3 {
		t.Errorf("Expected exactly 3 events, got %d", len(events))
	}
}

func TestListEventsSubtitleFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"cursor": "", "events": [
			{"event_ticker": "EVENT-A", "title": "Event A", "markets": [
				{"ticker": "T1", "subtitle": "Primary"},
				{"ticker": "T2", "yes_sub_title": "Fallback"}
			]}
		]}`)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	events, err := client.ListEvents(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}

	markets := events[0].Markets
	if markets[0].Subtitle != "Primary" {
		t.Errorf("Subtitle = %q, want subtitle field preferred", markets[0].Subtitle)
	}
	if markets[1].Subtitle != "Fallback" {
		t.Errorf("Subtitle = %q, want yes_sub_title fallback", markets[1].Subtitle)
	}
}

func TestGetOdds(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/trade-api/v2/markets/EVENT-A-T1":
			fmt.Fprint(w, `{"market": {"ticker": "EVENT-A-T1", "yes_bid": 95, "yes_ask": 97,
				"close_time": "2024-01-01T12:00:00Z", "volume": 400}}`)
		case "/trade-api/v2/markets/GONE-T1":
			w.WriteHeader(http.StatusNotFound)
		case "/trade-api/v2/markets/EMPTY-T1":
			fmt.Fprint(w, `{}`)
		case "/trade-api/v2/markets/NOPRICE-T1":
			fmt.Fprint(w, `{"market": {"ticker": "NOPRICE-T1", "close_time": "2024-01-01T12:00:00Z"}}`)
		default:
			t.Errorf("Unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	client := newTestClient(t, server)
	ctx := context.Background()

	odds, err := client.GetOdds(ctx, "EVENT-A-T1")
	if err != nil {
		t.Fatalf("GetOdds: %v", err)
	}
	if odds == nil || odds.YesBid == nil || *odds.YesBid != 95 || *odds.YesAsk != 97 {
		t.Fatalf("Unexpected odds: %+v", odds)
	}
	if odds.CloseTime != "2024-01-01T12:00:00Z" || odds.Volume != 400 {
		t.Errorf("Unexpected odds fields: %+v", odds)
	}

	odds, err = client.GetOdds(ctx, "GONE-T1")
	if err != nil || odds != nil {
		t.Errorf("Expected (nil, nil) for 404, got (%+v, %v)", odds, err)
	}

	odds, err = client.GetOdds(ctx, "EMPTY-T1")
	if err != nil || odds != nil {
		t.Errorf("Expected (nil, nil) for empty payload, got (%+v, %v)", odds, err)
	}

	odds, err = client.GetOdds(ctx, "NOPRICE-T1")
	if err != nil {
		t.Fatalf("GetOdds: %v", err)
	}
	if odds == nil || odds.HasPrices() {
		t.Error("Prices must stay unset when the book is empty")
	}
}

func TestLogin(t *testing.T) {
	status := http.StatusOK
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/trade-api/v2/portfolio/balance" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(status)
		fmt.Fprint(w, `{"balance": 0}`)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	if err := client.Login(context.Background()); err != nil {
		t.Errorf("Login: %v", err)
	}

	status = http.StatusUnauthorized
	if err := client.Login(context.Background()); err == nil {
		t.Error("Expected error for rejected credentials")
	}
}

func TestDoRequestSignsHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("KALSHI-ACCESS-KEY") != "test-key-id" {
			t.Error("Missing access key header")
		}
		if r.Header.Get("KALSHI-ACCESS-TIMESTAMP") == "" {
			t.Error("Missing timestamp header")
		}
		if r.Header.Get("KALSHI-ACCESS-SIGNATURE") == "" {
			t.Error("Missing signature header")
		}
		fmt.Fprint(w, `{"balance": 0}`)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	if err := client.Login(context.Background()); err != nil {
		t.Fatalf("Login: %v", err)
	}
}

func TestDoRequestRetriesServerErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `{"balance": 0}`)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	if err := client.Login(context.Background()); err != nil {
		t.Fatalf("Expected success after retries: %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestDoRequestGivesUpAfterMaxRetries(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	if err := client.Login(context.Background()); err == nil {
		t.Fatal("Expected error after exhausting retries")
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}
