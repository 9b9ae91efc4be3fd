package dashboard

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"papertrade/internal/gateway/papertrading"
	"papertrade/internal/logger"
)

// TradingAPI 是仪表盘依赖的交易客户端子集。
type TradingAPI interface {
	GetAccount(ctx context.Context) (papertrading.Account, error)
	GetPositions(ctx context.Context) ([]papertrading.Position, error)
	GetOrders(ctx context.Context, limit int) ([]papertrading.Order, error)
	PlaceOrder(ctx context.Context, params papertrading.PlaceOrderParams) (papertrading.PlaceOrderResult, error)
	SetStopLoss(ctx context.Context, params papertrading.StopLossParams) (papertrading.StopLossResult, error)
	GetStopLoss(ctx context.Context, stockCode string) (*papertrading.StopLoss, error)
	GetAllStopLoss(ctx context.Context) ([]papertrading.StopLoss, error)
	DeleteStopLoss(ctx context.Context, stockCode string) (papertrading.DeleteResult, error)
	GetAccountHistory(ctx context.Context, days int) ([]papertrading.AccountHistory, error)
	GetPerformanceMetrics(ctx context.Context) (papertrading.PerformanceMetrics, error)
}

// Archiver 在每次成功加载后归档账户历史（可选）。
type Archiver interface {
	Archive(ctx context.Context, histories []papertrading.AccountHistory) error
}

// Snapshot is one consistent view of the backend, produced by a single
// all-or-nothing load. The UI never owns authoritative state: a snapshot is
// replaced wholesale, never patched.
type Snapshot struct {
	Account        papertrading.Account              `json:"account"`
	Positions      []papertrading.Position          `json:"positions"`
	Orders         []papertrading.Order             `json:"orders"`
	StopLosses     []papertrading.StopLoss          `json:"stopLosses"`
	StopLossByCode map[string]papertrading.StopLoss `json:"stopLossByCode"`
	Histories      []papertrading.AccountHistory    `json:"histories"`
	Metrics        papertrading.PerformanceMetrics  `json:"metrics"`
	LoadedAt       time.Time                        `json:"loadedAt"`
}

// Loader fetches the full read set concurrently and swaps the current
// snapshot atomically. Completion order decides which load wins; a stale
// in-flight load may overwrite a fresher one, which is acceptable at manual
// refresh rates.
type Loader struct {
	api         TradingAPI
	ordersLimit int
	historyDays int
	archive     Archiver

	mu      sync.RWMutex
	current *Snapshot
}

// NewLoader constructs a Loader. archive may be nil.
func NewLoader(api TradingAPI, ordersLimit, historyDays int, archive Archiver) *Loader {
	if ordersLimit <= 0 {
		ordersLimit = 50
	}
	if historyDays <= 0 {
		historyDays = 30
	}
	return &Loader{
		api:         api,
		ordersLimit: ordersLimit,
		historyDays: historyDays,
		archive:     archive,
	}
}

// Current returns the latest committed snapshot, if any.
func (l *Loader) Current() (*Snapshot, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.current == nil {
		return nil, false
	}
	return l.current, true
}

// Load issues every read operation in parallel. If any one fails the whole
// batch fails and nothing is committed.
func (l *Loader) Load(ctx context.Context) (*Snapshot, error) {
	var (
		account    papertrading.Account
		positions  []papertrading.Position
		orders     []papertrading.Order
		stopLosses []papertrading.StopLoss
		histories  []papertrading.AccountHistory
		metrics    papertrading.PerformanceMetrics
	)
	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		account, err = l.api.GetAccount(gctx)
		return err
	})
	group.Go(func() error {
		var err error
		positions, err = l.api.GetPositions(gctx)
		return err
	})
	group.Go(func() error {
		var err error
		orders, err = l.api.GetOrders(gctx, l.ordersLimit)
		return err
	})
	group.Go(func() error {
		var err error
		stopLosses, err = l.api.GetAllStopLoss(gctx)
		return err
	})
	group.Go(func() error {
		var err error
		histories, err = l.api.GetAccountHistory(gctx, l.historyDays)
		return err
	})
	group.Go(func() error {
		var err error
		metrics, err = l.api.GetPerformanceMetrics(gctx)
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Account:        account,
		Positions:      positions,
		Orders:         orders,
		StopLosses:     stopLosses,
		StopLossByCode: rekeyStopLosses(stopLosses),
		Histories:      histories,
		Metrics:        metrics,
		LoadedAt:       time.Now(),
	}
	l.mu.Lock()
	l.current = snap
	l.mu.Unlock()

	if l.archive != nil && len(histories) > 0 {
		if err := l.archive.Archive(ctx, histories); err != nil {
			logger.Warnf("归档账户历史失败: %v", err)
		}
	}
	return snap, nil
}

// rekeyStopLosses 每次加载后整体重建，不做增量修改。
func rekeyStopLosses(stopLosses []papertrading.StopLoss) map[string]papertrading.StopLoss {
	byCode := make(map[string]papertrading.StopLoss, len(stopLosses))
	for _, sl := range stopLosses {
		byCode[sl.StockCode] = sl
	}
	return byCode
}
