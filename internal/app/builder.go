package app

import (
	"context"
	"fmt"
	"strings"

	ptcfg "papertrade/internal/config"
	"papertrade/internal/dashboard"
	"papertrade/internal/gateway/papertrading"
	"papertrade/internal/logger"
	"papertrade/internal/store/equitylog"
	"papertrade/internal/store/journal"
	"papertrade/internal/watchlist"
)

// AppBuilder 把各依赖的构造函数挂成字段，测试时可以逐个替换。
type AppBuilder struct {
	cfg *ptcfg.Config

	clientFn    func(ptcfg.BackendConfig) (*papertrading.Client, error)
	watchlistFn func(string) (*watchlist.Registry, error)
	journalFn   func(string) (*journal.Store, error)
	equityFn    func(string) (*equitylog.Store, error)
	serverFn    func(dashboard.ServerConfig) (*dashboard.Server, error)

	apiOverride dashboard.TradingAPI
}

type AppBuilderOption func(*AppBuilder)

// WithTradingAPI 用自定义实现替换真实后端客户端（回放/测试用）。
func WithTradingAPI(api dashboard.TradingAPI) AppBuilderOption {
	return func(b *AppBuilder) { b.apiOverride = api }
}

func NewAppBuilder(cfg *ptcfg.Config, opts ...AppBuilderOption) *AppBuilder {
	b := &AppBuilder{
		cfg:         cfg,
		clientFn:    papertrading.NewClient,
		watchlistFn: watchlist.NewRegistry,
		journalFn:   journal.NewStore,
		equityFn:    equitylog.NewStore,
		serverFn:    dashboard.NewServer,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}
	return b
}

func (b *AppBuilder) Build(ctx context.Context) (*App, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := b.cfg
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}

	var api dashboard.TradingAPI
	if b.apiOverride != nil {
		api = b.apiOverride
	} else {
		client, err := b.clientFn(cfg.Backend)
		if err != nil {
			return nil, fmt.Errorf("初始化后端客户端失败: %w", err)
		}
		api = client
	}

	var (
		wl  *watchlist.Registry
		jn  *journal.Store
		eq  *equitylog.Store
		err error
	)
	if path := strings.TrimSpace(cfg.Watchlist.Path); path != "" {
		wl, err = b.watchlistFn(path)
		if err != nil {
			return nil, fmt.Errorf("加载自选股失败: %w", err)
		}
		logger.Infof("自选股已加载: %s（%d 条）", path, len(wl.Snapshot().Entries))
	} else {
		logger.Warnf("未配置 watchlist.path，自选股功能停用")
	}
	if path := strings.TrimSpace(cfg.Storage.JournalPath); path != "" {
		jn, err = b.journalFn(path)
		if err != nil {
			return nil, fmt.Errorf("初始化操作流水库失败: %w", err)
		}
	}
	if path := strings.TrimSpace(cfg.Storage.EquityLogPath); path != "" {
		eq, err = b.equityFn(path)
		if err != nil {
			return nil, fmt.Errorf("初始化净值归档库失败: %w", err)
		}
	}

	var archiver dashboard.Archiver
	if eq != nil {
		archiver = eq
	}
	loader := dashboard.NewLoader(api, cfg.Dashboard.OrdersLimit, cfg.Dashboard.HistoryDays, archiver)

	server, err := b.serverFn(dashboard.ServerConfig{
		Addr:      cfg.Dashboard.HTTPAddr,
		API:       api,
		Loader:    loader,
		Watchlist: wl,
		Journal:   jn,
		Equity:    eq,
	})
	if err != nil {
		return nil, fmt.Errorf("初始化仪表盘服务失败: %w", err)
	}

	return &App{
		cfg:       cfg,
		server:    server,
		loader:    loader,
		watchlist: wl,
		journal:   jn,
		equity:    eq,
	}, nil
}
