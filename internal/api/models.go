package api

// OrderAck is the exchange's acknowledgment of an accepted order, as returned
// by POST /fapi/v1/order. It is a one-time snapshot; later state changes are
// not tracked.
type OrderAck struct {
	OrderID       int64  `json:"orderId"`
	ClientOrderID string `json:"clientOrderId"`
	Symbol        string `json:"symbol"`
	Side          string `json:"side"`
	Type          string `json:"type"`
	Status        string `json:"status"`
	Price         string `json:"price"`
	AvgPrice      string `json:"avgPrice"`
	OrigQty       string `json:"origQty"`
	ExecutedQty   string `json:"executedQty"`
	CumQuote      string `json:"cumQuote"`
	TimeInForce   string `json:"timeInForce"`
	StopPrice     string `json:"stopPrice"`
	UpdateTime    int64  `json:"updateTime"`
}

// Balance represents one asset entry from GET /fapi/v2/balance:
//
//	[
//	  {
//	    "accountAlias": "SgsR",
//	    "asset": "USDT",
//	    "balance": "122607.35137903",
//	    "crossWalletBalance": "23.72469206",
//	    "availableBalance": "23.72469206"
//	  }
//	]
type Balance struct {
	AccountAlias       string `json:"accountAlias"`
	Asset              string `json:"asset"`
	Balance            string `json:"balance"`
	CrossWalletBalance string `json:"crossWalletBalance"`
	CrossUnPnl         string `json:"crossUnPnl"`
	AvailableBalance   string `json:"availableBalance"`
	MaxWithdrawAmount  string `json:"maxWithdrawAmount"`
}

// TickerPrice represents the last price for a symbol
type TickerPrice struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
	Time   int64  `json:"time"`
}
