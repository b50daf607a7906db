package order

import (
	"strings"

	"github.com/shopspring/decimal"
)

// pricePrecision is the fixed fractional digit count applied to price and
// stop price in the outgoing payload, matching exchange tick-size formatting.
// Quantity is deliberately left as entered.
const pricePrecision = 8

// Market builds a market order request.
func Market(symbol string, side Side, quantity decimal.Decimal) (*Request, error) {
	sym, err := normalize(symbol, side, quantity)
	if err != nil {
		return nil, err
	}
	return &Request{
		Symbol:   sym,
		Side:     side,
		Type:     TypeMarket,
		Quantity: quantity.String(),
	}, nil
}

// Limit builds a limit order request. Price is rendered to 8 decimal digits.
func Limit(symbol string, side Side, quantity, price decimal.Decimal, tif TimeInForce) (*Request, error) {
	sym, err := normalize(symbol, side, quantity)
	if err != nil {
		return nil, err
	}
	if !price.IsPositive() {
		return nil, &ValidationError{Field: "price", Reason: "must be greater than 0"}
	}
	if err := validTIF(tif); err != nil {
		return nil, err
	}
	return &Request{
		Symbol:      sym,
		Side:        side,
		Type:        TypeLimit,
		Quantity:    quantity.String(),
		Price:       price.StringFixed(pricePrecision),
		TimeInForce: tif,
	}, nil
}

// Stop builds a stop-triggered order request. The futures API encodes these
// as STOP_MARKET with both the limit price and the trigger price attached.
func Stop(symbol string, side Side, quantity, price, stopPrice decimal.Decimal, tif TimeInForce) (*Request, error) {
	sym, err := normalize(symbol, side, quantity)
	if err != nil {
		return nil, err
	}
	if !price.IsPositive() {
		return nil, &ValidationError{Field: "price", Reason: "must be greater than 0"}
	}
	if !stopPrice.IsPositive() {
		return nil, &ValidationError{Field: "stop price", Reason: "must be greater than 0"}
	}
	if err := validTIF(tif); err != nil {
		return nil, err
	}
	return &Request{
		Symbol:      sym,
		Side:        side,
		Type:        TypeStopMarket,
		Quantity:    quantity.String(),
		Price:       price.StringFixed(pricePrecision),
		StopPrice:   stopPrice.StringFixed(pricePrecision),
		TimeInForce: tif,
	}, nil
}

func normalize(symbol string, side Side, quantity decimal.Decimal) (string, error) {
	sym := strings.ToUpper(strings.TrimSpace(symbol))
	if sym == "" {
		return "", &ValidationError{Field: "symbol", Reason: "must not be empty"}
	}
	if side != SideBuy && side != SideSell {
		return "", &ValidationError{Field: "side", Reason: "must be BUY or SELL"}
	}
	if !quantity.IsPositive() {
		return "", &ValidationError{Field: "quantity", Reason: "must be greater than 0"}
	}
	return sym, nil
}

func validTIF(tif TimeInForce) error {
	switch tif {
	case TIFGoodTillCancel, TIFImmediateOrCancel, TIFFillOrKill:
		return nil
	}
	return &ValidationError{Field: "timeInForce", Reason: "must be GTC, IOC or FOK"}
}
