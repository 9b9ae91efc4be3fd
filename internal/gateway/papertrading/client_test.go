package papertrading

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ptcfg "papertrade/internal/config"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Body   []byte
}

func newTestClient(t *testing.T, status int, response string, rec *recordedRequest) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rec != nil {
			rec.Method = r.Method
			rec.Path = r.URL.Path
			rec.Query = r.URL.RawQuery
			rec.Body, _ = io.ReadAll(r.Body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(ptcfg.BackendConfig{BaseURL: srv.URL, TimeoutSeconds: 5})
	require.NoError(t, err)
	return client
}

func TestGetAccountMapsWireKeys(t *testing.T) {
	body := `{"account":{"total_balance":"105000.50","cash_balance":"5000.50","market_value":"100000","profit_loss":"5000.50","profit_loss_pct":"5.0"}}`
	client := newTestClient(t, http.StatusOK, body, nil)

	account, err := client.GetAccount(context.Background())
	require.NoError(t, err)
	assert.True(t, account.TotalBalance.Equal(decimal.RequireFromString("105000.50")))
	assert.True(t, account.ProfitLossPct.Equal(decimal.RequireFromString("5.0")))
}

func TestGetOrdersDefaultsLimit(t *testing.T) {
	var rec recordedRequest
	client := newTestClient(t, http.StatusOK, `{"orders":[],"total":0}`, &rec)

	_, err := client.GetOrders(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, rec.Method)
	assert.Equal(t, "/api/v1/trading/orders", rec.Path)
	assert.Equal(t, "limit=50", rec.Query)
}

func TestPlaceOrderOmitsPriceWhenAbsent(t *testing.T) {
	var rec recordedRequest
	client := newTestClient(t, http.StatusOK, `{"order_id":7,"status":"filled","message":"ok"}`, &rec)

	result, err := client.PlaceOrder(context.Background(), PlaceOrderParams{
		StockCode: "600519",
		OrderType: OrderTypeBuy,
		Quantity:  100,
	})
	require.NoError(t, err)
	assert.True(t, result.Filled())
	assert.Equal(t, int64(7), result.OrderID)

	var sent map[string]any
	require.NoError(t, json.Unmarshal(rec.Body, &sent))
	assert.Equal(t, map[string]any{
		"stock_code": "600519",
		"order_type": "buy",
		"quantity":   float64(100),
	}, sent)
}

func TestPlaceOrderRejectedStatusIsNotAnError(t *testing.T) {
	client := newTestClient(t, http.StatusOK, `{"order_id":8,"status":"failed","message":"资金不足"}`, nil)

	result, err := client.PlaceOrder(context.Background(), PlaceOrderParams{
		StockCode: "600519",
		OrderType: OrderTypeSell,
		Quantity:  100,
	})
	require.NoError(t, err)
	assert.False(t, result.Filled())
	assert.Equal(t, "资金不足", result.Message)
}

func TestPlaceOrderValidation(t *testing.T) {
	client := newTestClient(t, http.StatusOK, `{}`, nil)
	cases := []PlaceOrderParams{
		{StockCode: "", OrderType: OrderTypeBuy, Quantity: 100},
		{StockCode: "600519", OrderType: "hold", Quantity: 100},
		{StockCode: "600519", OrderType: OrderTypeBuy, Quantity: 0},
	}
	for _, params := range cases {
		_, err := client.PlaceOrder(context.Background(), params)
		assert.Error(t, err, "params %+v", params)
	}
}

func TestSetStopLossSendsOnlyProvidedFields(t *testing.T) {
	var rec recordedRequest
	client := newTestClient(t, http.StatusOK, `{"success":true,"message":"ok","stop_loss":null}`, &rec)

	price := decimal.RequireFromString("90")
	result, err := client.SetStopLoss(context.Background(), StopLossParams{
		StockCode:     "AAPL",
		StopLossPrice: &price,
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Nil(t, result.StopLoss)

	var sent map[string]any
	require.NoError(t, json.Unmarshal(rec.Body, &sent))
	assert.Equal(t, map[string]any{
		"stock_code":      "AAPL",
		"stop_loss_price": "90",
	}, sent)
}

func TestSetStopLossEmptyParamsIssuesDelete(t *testing.T) {
	var rec recordedRequest
	client := newTestClient(t, http.StatusOK, `{"success":true,"message":"已删除"}`, &rec)

	result, err := client.SetStopLoss(context.Background(), StopLossParams{StockCode: "600519"})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, http.MethodDelete, rec.Method)
	assert.Equal(t, "/api/v1/trading/stop-loss/600519", rec.Path)
	assert.Empty(t, rec.Body)
}

func TestGetStopLossNullMeansNoRule(t *testing.T) {
	client := newTestClient(t, http.StatusOK, `{"stop_loss":null}`, nil)

	rule, err := client.GetStopLoss(context.Background(), "600519")
	require.NoError(t, err)
	assert.Nil(t, rule)
}

func TestGetStopLossMapsNestedRule(t *testing.T) {
	body := `{"stop_loss":{"id":3,"stock_code":"600519","take_profit_price":"1900.5","take_profit_pct":null,"stop_loss_price":null,"stop_loss_pct":"8","is_active":true,"triggered_type":"not_triggered","created_at":"2026-08-01T09:30:00","updated_at":"2026-08-01T09:30:00"}}`
	client := newTestClient(t, http.StatusOK, body, nil)

	rule, err := client.GetStopLoss(context.Background(), "600519")
	require.NoError(t, err)
	require.NotNil(t, rule)
	assert.Equal(t, "600519", rule.StockCode)
	assert.True(t, rule.IsActive)
	require.NotNil(t, rule.TakeProfitPrice)
	assert.True(t, rule.TakeProfitPrice.Equal(decimal.RequireFromString("1900.5")))
	assert.Nil(t, rule.TakeProfitPct)
	require.NotNil(t, rule.StopLossPct)
	assert.True(t, rule.StopLossPct.Equal(decimal.NewFromInt(8)))
}

func TestGetAccountHistoryDefaultsDays(t *testing.T) {
	var rec recordedRequest
	client := newTestClient(t, http.StatusOK, `{"histories":[],"total":0}`, &rec)

	_, err := client.GetAccountHistory(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, "days=30", rec.Query)
}

func TestNon2xxBecomesAPIError(t *testing.T) {
	body := `{"detail":{"error":"internal_error","message":"下单失败: 余额不足"}}`
	client := newTestClient(t, http.StatusInternalServerError, body, nil)

	_, err := client.GetAccount(context.Background())
	require.Error(t, err)
	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "internal_error", apiErr.Code)
	assert.Equal(t, "下单失败: 余额不足", apiErr.Message)
}

func TestAPIErrorFallbacks(t *testing.T) {
	apiErr := newAPIError(404, "404 Not Found", []byte(`{"detail":"资源不存在"}`))
	assert.Equal(t, "资源不存在", apiErr.Message)

	apiErr = newAPIError(502, "502 Bad Gateway", []byte("upstream down"))
	assert.Empty(t, apiErr.Message)
	assert.Contains(t, apiErr.Error(), "upstream down")
}

func TestDecimalPrecisionSurvivesMapping(t *testing.T) {
	// UseNumber + 重编码不应把高精度数字变成浮点
	body := `{"account":{"total_balance":123456789.123456789,"cash_balance":0,"market_value":0,"profit_loss":0,"profit_loss_pct":0}}`
	client := newTestClient(t, http.StatusOK, body, nil)

	account, err := client.GetAccount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "123456789.123456789", account.TotalBalance.String())
}
