package papertrading

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

// StopLossParams 是设置止盈止损的入参。四个阈值各自独立可空：只有显式
// 设置的字段才会出现在请求体里，省略的字段不会覆盖后端已有的设置。
type StopLossParams struct {
	StockCode       string
	TakeProfitPrice *decimal.Decimal
	TakeProfitPct   *decimal.Decimal
	StopLossPrice   *decimal.Decimal
	StopLossPct     *decimal.Decimal
}

// Empty reports whether no threshold at all was provided.
func (p StopLossParams) Empty() bool {
	return p.TakeProfitPrice == nil && p.TakeProfitPct == nil &&
		p.StopLossPrice == nil && p.StopLossPct == nil
}

type stopLossPayload struct {
	StockCode       string           `json:"stock_code"`
	TakeProfitPrice *decimal.Decimal `json:"take_profit_price,omitempty"`
	TakeProfitPct   *decimal.Decimal `json:"take_profit_pct,omitempty"`
	StopLossPrice   *decimal.Decimal `json:"stop_loss_price,omitempty"`
	StopLossPct     *decimal.Decimal `json:"stop_loss_pct,omitempty"`
}

// SetStopLoss creates or replaces the stop-loss rule for a stock. Calling it
// with no thresholds at all is treated as delete intent and routed to
// DeleteStopLoss instead of sending an empty update.
func (c *Client) SetStopLoss(ctx context.Context, params StopLossParams) (StopLossResult, error) {
	code := strings.TrimSpace(params.StockCode)
	if code == "" {
		return StopLossResult{}, fmt.Errorf("stock_code 不能为空")
	}
	if params.Empty() {
		res, err := c.DeleteStopLoss(ctx, code)
		if err != nil {
			return StopLossResult{}, err
		}
		return StopLossResult{Success: res.Success, Message: res.Message}, nil
	}
	payload := stopLossPayload{
		StockCode:       code,
		TakeProfitPrice: params.TakeProfitPrice,
		TakeProfitPct:   params.TakeProfitPct,
		StopLossPrice:   params.StopLossPrice,
		StopLossPct:     params.StopLossPct,
	}
	var result StopLossResult
	if err := c.doRequest(ctx, http.MethodPost, "/stop-loss", payload, &result); err != nil {
		return StopLossResult{}, err
	}
	return result, nil
}

// GetStopLoss returns the active rule for a stock, or nil when none is
// configured. The nil case is not an error.
func (c *Client) GetStopLoss(ctx context.Context, stockCode string) (*StopLoss, error) {
	code := strings.TrimSpace(stockCode)
	if code == "" {
		return nil, fmt.Errorf("stock_code 不能为空")
	}
	var env struct {
		StopLoss *StopLoss `json:"stopLoss"`
	}
	path := "/stop-loss/" + url.PathEscape(code)
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &env); err != nil {
		return nil, err
	}
	return env.StopLoss, nil
}

// GetAllStopLoss lists every configured rule.
func (c *Client) GetAllStopLoss(ctx context.Context) ([]StopLoss, error) {
	var env struct {
		StopLosses []StopLoss `json:"stopLosses"`
		Total      int        `json:"total"`
	}
	if err := c.doRequest(ctx, http.MethodGet, "/stop-loss", nil, &env); err != nil {
		return nil, err
	}
	return env.StopLosses, nil
}

// DeleteStopLoss removes the rule for a stock.
func (c *Client) DeleteStopLoss(ctx context.Context, stockCode string) (DeleteResult, error) {
	code := strings.TrimSpace(stockCode)
	if code == "" {
		return DeleteResult{}, fmt.Errorf("stock_code 不能为空")
	}
	var result DeleteResult
	path := "/stop-loss/" + url.PathEscape(code)
	if err := c.doRequest(ctx, http.MethodDelete, path, nil, &result); err != nil {
		return DeleteResult{}, err
	}
	return result, nil
}
