package papertrading

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
)

// PlaceOrderParams 是下单入参。Price 为 nil 表示市价单，wire 层会整体
// 省略 price 字段，而不是发送 null。
type PlaceOrderParams struct {
	StockCode string
	OrderType string
	Quantity  int64
	Price     *decimal.Decimal
}

func (p PlaceOrderParams) validate() error {
	if strings.TrimSpace(p.StockCode) == "" {
		return fmt.Errorf("stock_code 不能为空")
	}
	if p.OrderType != OrderTypeBuy && p.OrderType != OrderTypeSell {
		return fmt.Errorf("order_type 必须是 buy 或 sell: %q", p.OrderType)
	}
	if p.Quantity <= 0 {
		return fmt.Errorf("quantity 必须为正整数: %d", p.Quantity)
	}
	return nil
}

// placeOrderPayload mirrors the backend's /order schema. Outbound bodies are
// built with snake_case keys directly.
type placeOrderPayload struct {
	StockCode string           `json:"stock_code"`
	OrderType string           `json:"order_type"`
	Quantity  int64            `json:"quantity"`
	Price     *decimal.Decimal `json:"price,omitempty"`
}

// GetOrders fetches execution records, newest first, truncated server-side
// by limit. limit<=0 falls back to 50.
func (c *Client) GetOrders(ctx context.Context, limit int) ([]Order, error) {
	if limit <= 0 {
		limit = defaultOrdersLimit
	}
	var env struct {
		Orders []Order `json:"orders"`
		Total  int     `json:"total"`
	}
	path := fmt.Sprintf("/orders?limit=%d", limit)
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &env); err != nil {
		return nil, err
	}
	return env.Orders, nil
}

// PlaceOrder submits a buy/sell order. A transport or HTTP-level failure is
// returned as an error; a rejected order comes back with Status != "filled"
// and a nil error.
func (c *Client) PlaceOrder(ctx context.Context, params PlaceOrderParams) (PlaceOrderResult, error) {
	if err := params.validate(); err != nil {
		return PlaceOrderResult{}, err
	}
	payload := placeOrderPayload{
		StockCode: strings.TrimSpace(params.StockCode),
		OrderType: params.OrderType,
		Quantity:  params.Quantity,
		Price:     params.Price,
	}
	var result PlaceOrderResult
	if err := c.doRequest(ctx, http.MethodPost, "/order", payload, &result); err != nil {
		return PlaceOrderResult{}, err
	}
	return result, nil
}
