package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/signalline/futures-trader/internal/config"
	"github.com/signalline/futures-trader/internal/monitor"
	"github.com/signalline/futures-trader/internal/order"
)

const (
	mainnetBaseURL = "https://fapi.binance.com"
	testnetBaseURL = "https://testnet.binancefuture.com"

	recvWindow = "5000"
)

// Client represents the futures REST API client. It is safe to reuse for the
// lifetime of the process; all order operations treat it as read-only.
type Client struct {
	secretKey string
	http      *resty.Client
	log       *monitor.Logger
}

// NewClient creates a futures API client from configuration. No network
// traffic happens here; use Connect to also verify connectivity.
func NewClient(cfg *config.Config, log *monitor.Logger) *Client {
	baseURL := mainnetBaseURL
	if cfg.Binance.Testnet {
		baseURL = testnetBaseURL
	}
	if cfg.Binance.APIBaseURL != "" {
		baseURL = cfg.Binance.APIBaseURL
	}

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(time.Duration(cfg.Binance.HTTPTimeoutSeconds) * time.Second).
		SetHeader("X-MBX-APIKEY", cfg.Binance.APIKey).
		SetHeader("User-Agent", "futures-trader/1.0")

	return &Client{
		secretKey: cfg.Binance.APISecret,
		http:      httpClient,
		log:       log,
	}
}

// Connect creates a client and verifies connectivity with a single ping.
// A failed probe is not retryable here; the caller is expected to abort.
func Connect(cfg *config.Config, log *monitor.Logger) (*Client, error) {
	client := NewClient(cfg, log)
	if err := client.Ping(); err != nil {
		return nil, fmt.Errorf("connectivity probe failed: %w", err)
	}
	log.Infof("Connected to futures API at %s (testnet: %v)", client.http.BaseURL, cfg.Binance.Testnet)
	return client, nil
}

// Ping checks API reachability
func (c *Client) Ping() error {
	resp, err := c.http.R().Get("/fapi/v1/ping")
	if err != nil {
		return &RequestError{Reason: err.Error()}
	}
	if resp.StatusCode() != http.StatusOK {
		return &RequestError{Reason: fmt.Sprintf("HTTP %d: %s", resp.StatusCode(), resp.Body())}
	}
	return nil
}

// PlaceOrder submits one order and blocks until the exchange answers. There
// is no internal retry. Failures come back as *APIError (structured
// rejection) or *RequestError (transport or malformed response).
func (c *Client) PlaceOrder(req *order.Request) (*OrderAck, error) {
	params := url.Values{}
	params.Set("symbol", req.Symbol)
	params.Set("side", string(req.Side))
	params.Set("type", string(req.Type))
	params.Set("quantity", req.Quantity)
	if req.Price != "" {
		params.Set("price", req.Price)
	}
	if req.StopPrice != "" {
		params.Set("stopPrice", req.StopPrice)
	}
	if req.TimeInForce != "" {
		params.Set("timeInForce", string(req.TimeInForce))
	}
	clientOrderID := req.ClientOrderID
	if clientOrderID == "" {
		clientOrderID = uuid.NewString()
	}
	params.Set("newClientOrderId", clientOrderID)

	c.log.WithFields(logrus.Fields{
		"symbol": req.Symbol,
		"side":   req.Side,
		"type":   req.Type,
	}).Debug("Submitting order")

	raw, err := c.doSigned(http.MethodPost, "/fapi/v1/order", params)
	if err != nil {
		return nil, err
	}

	var ack OrderAck
	if err := json.Unmarshal(raw, &ack); err != nil {
		return nil, &RequestError{Reason: "malformed order response: " + err.Error()}
	}
	return &ack, nil
}

// Balances retrieves the futures account asset balances
func (c *Client) Balances() ([]Balance, error) {
	raw, err := c.doSigned(http.MethodGet, "/fapi/v2/balance", url.Values{})
	if err != nil {
		return nil, err
	}

	var balances []Balance
	if err := json.Unmarshal(raw, &balances); err != nil {
		return nil, &RequestError{Reason: "malformed balance response: " + err.Error()}
	}
	return balances, nil
}

// TickerPrice retrieves the last traded price for a symbol
func (c *Client) TickerPrice(symbol string) (*TickerPrice, error) {
	resp, err := c.http.R().
		SetQueryParam("symbol", symbol).
		Get("/fapi/v1/ticker/price")
	if err != nil {
		return nil, &RequestError{Reason: err.Error()}
	}

	raw, err := c.parseBody(resp)
	if err != nil {
		return nil, err
	}

	var ticker TickerPrice
	if err := json.Unmarshal(raw, &ticker); err != nil {
		return nil, &RequestError{Reason: "malformed ticker response: " + err.Error()}
	}
	return &ticker, nil
}

// doSigned performs a request against a signed endpoint: timestamp and
// recvWindow are appended and the whole query string is HMAC-signed.
func (c *Client) doSigned(method, path string, params url.Values) ([]byte, error) {
	params.Set("timestamp", Timestamp())
	params.Set("recvWindow", recvWindow)
	query := params.Encode()
	query += "&signature=" + Sign(c.secretKey, query)

	// The query is attached verbatim: the signature must cover the exact
	// string the exchange receives, with the signature parameter last.
	resp, err := c.http.R().Execute(method, path+"?"+query)
	if err != nil {
		return nil, &RequestError{Reason: err.Error()}
	}

	return c.parseBody(resp)
}

// parseBody separates structured exchange rejections from everything else.
func (c *Client) parseBody(resp *resty.Response) ([]byte, error) {
	raw := resp.Body()
	if resp.StatusCode() != http.StatusOK {
		var apiErr APIError
		if err := json.Unmarshal(raw, &apiErr); err == nil && apiErr.Code != 0 {
			return nil, &apiErr
		}
		return nil, &RequestError{Reason: fmt.Sprintf("HTTP %d: %s", resp.StatusCode(), raw)}
	}
	return raw, nil
}
