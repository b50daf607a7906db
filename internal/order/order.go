package order

import (
	"fmt"
	"strings"
)

// Side represents order side (buy or sell)
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Type represents the exchange order type identifier
type Type string

const (
	TypeMarket Type = "MARKET"
	TypeLimit  Type = "LIMIT"
	// TypeStopMarket is the futures API identifier for a stop-triggered order.
	TypeStopMarket Type = "STOP_MARKET"
)

// TimeInForce represents how long an order remains active
type TimeInForce string

const (
	TIFGoodTillCancel    TimeInForce = "GTC"
	TIFImmediateOrCancel TimeInForce = "IOC"
	TIFFillOrKill        TimeInForce = "FOK"
)

// Request is a normalized, payload-ready order. Numeric fields are carried
// as strings: price and stop price are rendered to the exchange's fixed
// precision by the builders, quantity is passed through as entered.
type Request struct {
	Symbol        string
	Side          Side
	Type          Type
	Quantity      string
	Price         string
	StopPrice     string
	TimeInForce   TimeInForce
	ClientOrderID string
}

// ValidationError reports an order parameter that failed local validation.
// No request carrying one ever reaches the network.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ParseSide normalizes a user-entered side string.
func ParseSide(s string) (Side, error) {
	switch Side(strings.ToUpper(strings.TrimSpace(s))) {
	case SideBuy:
		return SideBuy, nil
	case SideSell:
		return SideSell, nil
	}
	return "", &ValidationError{Field: "side", Reason: "must be BUY or SELL"}
}

// ParseTimeInForce normalizes a user-entered time-in-force string. Empty
// input takes the GTC default. Unrecognized input also falls back to GTC,
// with ok=false so the caller can warn about the substitution.
func ParseTimeInForce(s string) (tif TimeInForce, ok bool) {
	v := TimeInForce(strings.ToUpper(strings.TrimSpace(s)))
	switch v {
	case "":
		return TIFGoodTillCancel, true
	case TIFGoodTillCancel, TIFImmediateOrCancel, TIFFillOrKill:
		return v, true
	}
	return TIFGoodTillCancel, false
}
