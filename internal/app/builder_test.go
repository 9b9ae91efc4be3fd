package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ptcfg "papertrade/internal/config"
	"papertrade/internal/dashboard"
	"papertrade/internal/gateway/papertrading"
)

type noopAPI struct{}

func (noopAPI) GetAccount(context.Context) (papertrading.Account, error) {
	return papertrading.Account{}, nil
}
func (noopAPI) GetPositions(context.Context) ([]papertrading.Position, error) { return nil, nil }
func (noopAPI) GetOrders(context.Context, int) ([]papertrading.Order, error)  { return nil, nil }
func (noopAPI) PlaceOrder(context.Context, papertrading.PlaceOrderParams) (papertrading.PlaceOrderResult, error) {
	return papertrading.PlaceOrderResult{}, nil
}
func (noopAPI) SetStopLoss(context.Context, papertrading.StopLossParams) (papertrading.StopLossResult, error) {
	return papertrading.StopLossResult{}, nil
}
func (noopAPI) GetStopLoss(context.Context, string) (*papertrading.StopLoss, error) {
	return nil, nil
}
func (noopAPI) GetAllStopLoss(context.Context) ([]papertrading.StopLoss, error) { return nil, nil }
func (noopAPI) DeleteStopLoss(context.Context, string) (papertrading.DeleteResult, error) {
	return papertrading.DeleteResult{}, nil
}
func (noopAPI) GetAccountHistory(context.Context, int) ([]papertrading.AccountHistory, error) {
	return nil, nil
}
func (noopAPI) GetPerformanceMetrics(context.Context) (papertrading.PerformanceMetrics, error) {
	return papertrading.PerformanceMetrics{}, nil
}

var _ dashboard.TradingAPI = noopAPI{}

func testConfig(t *testing.T) *ptcfg.Config {
	t.Helper()
	dir := t.TempDir()
	return &ptcfg.Config{
		Backend: ptcfg.BackendConfig{BaseURL: "http://127.0.0.1:18080"},
		Dashboard: ptcfg.DashboardConfig{
			HTTPAddr:       ":0",
			RefreshSeconds: 30,
			OrdersLimit:    50,
			HistoryDays:    30,
		},
		Storage: ptcfg.StorageConfig{
			JournalPath:   filepath.Join(dir, "journal.db"),
			EquityLogPath: filepath.Join(dir, "equity.db"),
		},
	}
}

func TestBuilderBuildsApp(t *testing.T) {
	cfg := testConfig(t)
	builder := NewAppBuilder(cfg, WithTradingAPI(noopAPI{}))

	application, err := builder.Build(context.Background())
	require.NoError(t, err)
	defer application.close()

	assert.NotNil(t, application.server)
	assert.NotNil(t, application.loader)
	assert.NotNil(t, application.journal)
	assert.NotNil(t, application.equity)
	assert.Nil(t, application.watchlist)
}

func TestBuilderStoresOptional(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage = ptcfg.StorageConfig{}
	builder := NewAppBuilder(cfg, WithTradingAPI(noopAPI{}))

	application, err := builder.Build(context.Background())
	require.NoError(t, err)
	assert.Nil(t, application.journal)
	assert.Nil(t, application.equity)
}
