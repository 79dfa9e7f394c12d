package entity

// OperationType is the B3 trade direction code.
type OperationType string

const (
	OperationBuy  OperationType = "C"
	OperationSell OperationType = "V"
)

// Market is the venue where the operation was executed.
type Market string

const (
	MarketBovespa Market = "BOVESPA"
	MarketBMF     Market = "BMF"
)

// Trade is one row of the "Negócios realizados" table of a trade note.
// Dates stay in the source format; no normalization happens here.
type Trade struct {
	OrderNumber    string        `json:"orderNumber"`
	TradeDate      string        `json:"tradeDate"`
	OperationType  OperationType `json:"operationType"`
	MarketType     string        `json:"marketType"`
	Market         Market        `json:"market"`
	Ticker         string        `json:"ticker"`
	Quantity       int           `json:"quantity"`
	Price          float64       `json:"price"`
	TotalValue     float64       `json:"totalValue"`
	StrikePrice    *float64      `json:"strikePrice"`
	ExpirationDate *string       `json:"expirationDate"`
}

// Fee is the total cost line of one trade note. One fee per distinct
// order number is expected but not enforced; reconciliation is the
// caller's job.
type Fee struct {
	OrderNumber string  `json:"orderNumber"`
	TotalFees   float64 `json:"totalFees"`
}

// ExtractionResult is the validated output of one extraction run.
// Immutable once returned; there is no update path.
type ExtractionResult struct {
	Trades []Trade `json:"trades"`
	Fees   []Fee   `json:"fees"`
}
