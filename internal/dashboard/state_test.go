package dashboard

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"papertrade/internal/gateway/papertrading"
)

// stubAPI 返回固定数据，单个方法可注入错误。
type stubAPI struct {
	accountCalls atomic.Int32

	account    papertrading.Account
	positions  []papertrading.Position
	orders     []papertrading.Order
	stopLosses []papertrading.StopLoss
	histories  []papertrading.AccountHistory
	metrics    papertrading.PerformanceMetrics

	ordersErr error

	placeFn  func(papertrading.PlaceOrderParams) (papertrading.PlaceOrderResult, error)
	setFn    func(papertrading.StopLossParams) (papertrading.StopLossResult, error)
	getFn    func(string) (*papertrading.StopLoss, error)
	deleteFn func(string) (papertrading.DeleteResult, error)
}

func (s *stubAPI) GetAccount(context.Context) (papertrading.Account, error) {
	s.accountCalls.Add(1)
	return s.account, nil
}

func (s *stubAPI) GetPositions(context.Context) ([]papertrading.Position, error) {
	return s.positions, nil
}

func (s *stubAPI) GetOrders(context.Context, int) ([]papertrading.Order, error) {
	if s.ordersErr != nil {
		return nil, s.ordersErr
	}
	return s.orders, nil
}

func (s *stubAPI) PlaceOrder(_ context.Context, params papertrading.PlaceOrderParams) (papertrading.PlaceOrderResult, error) {
	if s.placeFn != nil {
		return s.placeFn(params)
	}
	return papertrading.PlaceOrderResult{OrderID: 1, Status: papertrading.OrderStatusFilled}, nil
}

func (s *stubAPI) SetStopLoss(_ context.Context, params papertrading.StopLossParams) (papertrading.StopLossResult, error) {
	if s.setFn != nil {
		return s.setFn(params)
	}
	return papertrading.StopLossResult{Success: true}, nil
}

func (s *stubAPI) GetStopLoss(_ context.Context, code string) (*papertrading.StopLoss, error) {
	if s.getFn != nil {
		return s.getFn(code)
	}
	return nil, nil
}

func (s *stubAPI) GetAllStopLoss(context.Context) ([]papertrading.StopLoss, error) {
	return s.stopLosses, nil
}

func (s *stubAPI) DeleteStopLoss(_ context.Context, code string) (papertrading.DeleteResult, error) {
	if s.deleteFn != nil {
		return s.deleteFn(code)
	}
	return papertrading.DeleteResult{Success: true}, nil
}

func (s *stubAPI) GetAccountHistory(context.Context, int) ([]papertrading.AccountHistory, error) {
	return s.histories, nil
}

func (s *stubAPI) GetPerformanceMetrics(context.Context) (papertrading.PerformanceMetrics, error) {
	return s.metrics, nil
}

type recordingArchiver struct {
	calls atomic.Int32
}

func (a *recordingArchiver) Archive(context.Context, []papertrading.AccountHistory) error {
	a.calls.Add(1)
	return nil
}

func newStub() *stubAPI {
	return &stubAPI{
		account: papertrading.Account{
			TotalBalance: decimal.RequireFromString("100000"),
			CashBalance:  decimal.RequireFromString("40000"),
		},
		stopLosses: []papertrading.StopLoss{
			{StockCode: "600519", StockName: "贵州茅台"},
			{StockCode: "000001", StockName: "平安银行"},
		},
		histories: []papertrading.AccountHistory{
			{RecordDate: "2026-08-21", TotalBalance: decimal.RequireFromString("100000")},
		},
	}
}

func TestLoadCommitsSnapshot(t *testing.T) {
	stub := newStub()
	archiver := &recordingArchiver{}
	loader := NewLoader(stub, 50, 30, archiver)

	_, ok := loader.Current()
	assert.False(t, ok)

	snap, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "100000", snap.Account.TotalBalance.String())
	assert.Len(t, snap.StopLossByCode, 2)
	assert.Equal(t, "贵州茅台", snap.StopLossByCode["600519"].StockName)
	assert.False(t, snap.LoadedAt.IsZero())
	assert.Equal(t, int32(1), archiver.calls.Load())

	got, ok := loader.Current()
	require.True(t, ok)
	assert.Same(t, snap, got)
}

func TestLoadAllOrNothing(t *testing.T) {
	stub := newStub()
	stub.ordersErr = errors.New("connection refused")
	loader := NewLoader(stub, 50, 30, nil)

	_, err := loader.Load(context.Background())
	require.Error(t, err)

	// 任何一路失败都不提交部分结果
	_, ok := loader.Current()
	assert.False(t, ok)

	stub.ordersErr = nil
	_, err = loader.Load(context.Background())
	require.NoError(t, err)
	_, ok = loader.Current()
	assert.True(t, ok)
}

func TestLoadReplacesSnapshotWholesale(t *testing.T) {
	stub := newStub()
	loader := NewLoader(stub, 50, 30, nil)

	first, err := loader.Load(context.Background())
	require.NoError(t, err)

	stub.stopLosses = stub.stopLosses[:1]
	second, err := loader.Load(context.Background())
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Len(t, second.StopLossByCode, 1)
	// 旧快照保持不变，不做增量修改
	assert.Len(t, first.StopLossByCode, 2)
}
