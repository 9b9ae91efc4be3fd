package papertrading

import "github.com/shopspring/decimal"

// 模型字段使用 camelCase json tag（应用层格式）；wire 层的 snake_case
// 键在 doRequest 里经 keycase 转换后才会落到这些结构上。
// 所有金额/百分比都是后端算好的展示值，客户端绝不重新计算。

// Account is the paper-trading account snapshot.
type Account struct {
	TotalBalance  decimal.Decimal `json:"totalBalance"`
	CashBalance   decimal.Decimal `json:"cashBalance"`
	MarketValue   decimal.Decimal `json:"marketValue"`
	ProfitLoss    decimal.Decimal `json:"profitLoss"`
	ProfitLossPct decimal.Decimal `json:"profitLossPct"`
}

// Position is one held instrument. Pricing fields are nil when the backend
// has no market data for the instrument.
type Position struct {
	ID            int64            `json:"id"`
	StockCode     string           `json:"stockCode"`
	StockName     string           `json:"stockName"`
	Quantity      int64            `json:"quantity"`
	AvgCost       decimal.Decimal  `json:"avgCost"`
	CurrentPrice  *decimal.Decimal `json:"currentPrice"`
	MarketValue   *decimal.Decimal `json:"marketValue"`
	ProfitLoss    *decimal.Decimal `json:"profitLoss"`
	ProfitLossPct *decimal.Decimal `json:"profitLossPct"`
	HoldingDays   int              `json:"holdingDays"`
	CreatedAt     string           `json:"createdAt"`
	UpdatedAt     string           `json:"updatedAt"`
}

// Order is an immutable execution record; status transitions happen
// server-side only.
type Order struct {
	ID             int64            `json:"id"`
	StockCode      string           `json:"stockCode"`
	StockName      string           `json:"stockName"`
	OrderType      string           `json:"orderType"`
	Quantity       int64            `json:"quantity"`
	Price          *decimal.Decimal `json:"price"`
	Amount         decimal.Decimal  `json:"amount"`
	Status         string           `json:"status"`
	FilledQuantity int64            `json:"filledQuantity"`
	FilledPrice    *decimal.Decimal `json:"filledPrice"`
	FilledAmount   *decimal.Decimal `json:"filledAmount"`
	Commission     decimal.Decimal  `json:"commission"`
	StampDuty      decimal.Decimal  `json:"stampDuty"`
	TransferFee    decimal.Decimal  `json:"transferFee"`
	TotalFee       decimal.Decimal  `json:"totalFee"`
	ErrorMessage   string           `json:"errorMessage"`
	CreatedAt      string           `json:"createdAt"`
	UpdatedAt      string           `json:"updatedAt"`
}

// StopLoss 每只股票最多一条；字段为 nil 表示该阈值未设置。
type StopLoss struct {
	ID              int64            `json:"id"`
	StockCode       string           `json:"stockCode"`
	StockName       string           `json:"stockName"`
	TakeProfitPrice *decimal.Decimal `json:"takeProfitPrice"`
	TakeProfitPct   *decimal.Decimal `json:"takeProfitPct"`
	StopLossPrice   *decimal.Decimal `json:"stopLossPrice"`
	StopLossPct     *decimal.Decimal `json:"stopLossPct"`
	IsActive        bool             `json:"isActive"`
	TriggeredType   string           `json:"triggeredType"`
	TriggeredAt     string           `json:"triggeredAt"`
	CreatedAt       string           `json:"createdAt"`
	UpdatedAt       string           `json:"updatedAt"`
}

// AccountHistory is one daily snapshot; the backend returns the series
// ordered ascending by recordDate.
type AccountHistory struct {
	ID                  int64           `json:"id"`
	TotalBalance        decimal.Decimal `json:"totalBalance"`
	CashBalance         decimal.Decimal `json:"cashBalance"`
	MarketValue         decimal.Decimal `json:"marketValue"`
	ProfitLoss          decimal.Decimal `json:"profitLoss"`
	ProfitLossPct       decimal.Decimal `json:"profitLossPct"`
	DailyReturnPct      decimal.Decimal `json:"dailyReturnPct"`
	CumulativeReturnPct decimal.Decimal `json:"cumulativeReturnPct"`
	RecordDate          string          `json:"recordDate"`
	CreatedAt           string          `json:"createdAt"`
}

// PerformanceMetrics is a derived aggregate, recomputed server-side on each
// fetch.
type PerformanceMetrics struct {
	TotalReturnPct      decimal.Decimal `json:"totalReturnPct"`
	AnnualizedReturnPct decimal.Decimal `json:"annualizedReturnPct"`
	MaxDrawdownPct      decimal.Decimal `json:"maxDrawdownPct"`
	WinRatePct          decimal.Decimal `json:"winRatePct"`
	TotalTrades         int             `json:"totalTrades"`
	ProfitableTrades    int             `json:"profitableTrades"`
	AverageHoldingDays  decimal.Decimal `json:"averageHoldingDays"`
}

// PlaceOrderResult carries the backend's verdict on a submitted order. Any
// status other than "filled" is a business failure, not a transport error.
type PlaceOrderResult struct {
	OrderID int64  `json:"orderId"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Filled reports whether the order was executed.
func (r PlaceOrderResult) Filled() bool {
	return r.Status == OrderStatusFilled
}

// StopLossResult is the outcome of SetStopLoss.
type StopLossResult struct {
	Success  bool      `json:"success"`
	Message  string    `json:"message"`
	StopLoss *StopLoss `json:"stopLoss"`
}

// DeleteResult is the outcome of DeleteStopLoss.
type DeleteResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

const (
	OrderTypeBuy  = "buy"
	OrderTypeSell = "sell"

	OrderStatusFilled    = "filled"
	OrderStatusPending   = "pending"
	OrderStatusCancelled = "cancelled"
	OrderStatusFailed    = "failed"
)
