package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalline/futures-trader/internal/config"
	"github.com/signalline/futures-trader/internal/monitor"
	"github.com/signalline/futures-trader/internal/order"
)

func newTestClient(baseURL string) *Client {
	cfg := &config.Config{
		Binance: config.BinanceConfig{
			APIKey:             "test-key",
			APISecret:          "test-secret",
			APIBaseURL:         baseURL,
			HTTPTimeoutSeconds: 5,
		},
	}
	log := monitor.NewLogger("error", "console")
	log.SetOutput(io.Discard)
	return NewClient(cfg, log)
}

func marketRequest(t *testing.T) *order.Request {
	t.Helper()
	req, err := order.Market("BTCUSDT", order.SideBuy, decimal.RequireFromString("1.5"))
	require.NoError(t, err)
	return req
}

func TestSign(t *testing.T) {
	payload := "symbol=BTCUSDT&side=BUY&timestamp=1700000000000"
	mac := hmac.New(sha256.New, []byte("secret"))
	mac.Write([]byte(payload))
	expected := hex.EncodeToString(mac.Sum(nil))

	assert.Equal(t, expected, Sign("secret", payload))
}

func TestPlaceOrderSendsSignedRequest(t *testing.T) {
	var gotPath, gotQuery, gotAPIKey, gotMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAPIKey = r.Header.Get("X-MBX-APIKEY")
		_ = json.NewEncoder(w).Encode(OrderAck{
			OrderID:       9876,
			ClientOrderID: "client-abc",
			Symbol:        "BTCUSDT",
			Status:        "NEW",
			ExecutedQty:   "0",
			CumQuote:      "0",
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	ack, err := client.PlaceOrder(marketRequest(t))
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/fapi/v1/order", gotPath)
	assert.Equal(t, "test-key", gotAPIKey)
	assert.Equal(t, int64(9876), ack.OrderID)
	assert.Equal(t, "NEW", ack.Status)

	params := parseQuery(t, gotQuery)
	assert.Equal(t, "BTCUSDT", params["symbol"])
	assert.Equal(t, "BUY", params["side"])
	assert.Equal(t, "MARKET", params["type"])
	assert.Equal(t, "1.5", params["quantity"])
	assert.NotEmpty(t, params["timestamp"])
	assert.NotEmpty(t, params["newClientOrderId"])

	// The signature must cover the query string exactly as sent, minus the
	// trailing signature parameter itself.
	idx := strings.LastIndex(gotQuery, "&signature=")
	require.Greater(t, idx, 0)
	signed := gotQuery[:idx]
	assert.Equal(t, Sign("test-secret", signed), params["signature"])
}

func TestPlaceOrderReturnsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":-2019,"msg":"Margin is insufficient."}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	ack, err := client.PlaceOrder(marketRequest(t))
	assert.Nil(t, ack)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, -2019, apiErr.Code)
	assert.Equal(t, "Margin is insufficient.", apiErr.Message)
}

func TestPlaceOrderReturnsRequestErrorOnTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	client := newTestClient(baseURL)
	ack, err := client.PlaceOrder(marketRequest(t))
	assert.Nil(t, ack)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
}

func TestPlaceOrderReturnsRequestErrorOnUnstructuredBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream unavailable"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.PlaceOrder(marketRequest(t))

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Contains(t, reqErr.Reason, "502")
}

func TestPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fapi/v1/ping", r.URL.Path)
		_, _ = w.Write([]byte("{}"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	assert.NoError(t, client.Ping())
}

func TestPingTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	client := newTestClient(baseURL)
	err := client.Ping()

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
}

func TestBalances(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fapi/v2/balance", r.URL.Path)
		_, _ = w.Write([]byte(`[{"asset":"USDT","balance":"15000.00000000","availableBalance":"14000.00000000"}]`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	balances, err := client.Balances()
	require.NoError(t, err)
	require.Len(t, balances, 1)
	assert.Equal(t, "USDT", balances[0].Asset)
	assert.Equal(t, "14000.00000000", balances[0].AvailableBalance)
}

func TestTickerPrice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fapi/v1/ticker/price", r.URL.Path)
		assert.Equal(t, "BTCUSDT", r.URL.Query().Get("symbol"))
		_, _ = w.Write([]byte(`{"symbol":"BTCUSDT","price":"61000.10","time":1700000000000}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	ticker, err := client.TickerPrice("BTCUSDT")
	require.NoError(t, err)
	assert.Equal(t, "61000.10", ticker.Price)
}

func parseQuery(t *testing.T, raw string) map[string]string {
	t.Helper()
	params := map[string]string{}
	for _, pair := range strings.Split(raw, "&") {
		parts := strings.SplitN(pair, "=", 2)
		require.Len(t, parts, 2)
		params[parts[0]] = parts[1]
	}
	return params
}
