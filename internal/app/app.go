package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	ptcfg "papertrade/internal/config"
	"papertrade/internal/dashboard"
	"papertrade/internal/logger"
	"papertrade/internal/store/equitylog"
	"papertrade/internal/store/journal"
	"papertrade/internal/watchlist"
)

// App 负责应用级编排：加载配置→初始化依赖→启动仪表盘服务与后台刷新。
type App struct {
	cfg       *ptcfg.Config
	server    *dashboard.Server
	loader    *dashboard.Loader
	watchlist *watchlist.Registry
	journal   *journal.Store
	equity    *equitylog.Store
}

// NewApp 根据配置构建应用对象（不启动）
func NewApp(cfg *ptcfg.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	logger.SetLevel(cfg.App.LogLevel)
	return buildAppWithWire(context.Background(), cfg)
}

// Run 启动 HTTP 服务与定时刷新，直到 ctx 取消。
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.cfg == nil {
		return fmt.Errorf("app not initialized")
	}
	defer a.close()

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		logger.Infof("仪表盘已启动，监听 %s", a.server.Addr())
		if err := a.server.Start(ctx); err != nil {
			return fmt.Errorf("dashboard http server error: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		return a.refreshLoop(ctx)
	})

	return group.Wait()
}

// refreshLoop 周期性整体刷新快照。单次失败只告警，旧快照保持可用。
func (a *App) refreshLoop(ctx context.Context) error {
	if _, err := a.loader.Load(ctx); err != nil {
		logger.Warnf("初次加载快照失败: %v", err)
	}

	interval := time.Duration(a.cfg.Dashboard.RefreshSeconds) * time.Second
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := a.loader.Load(ctx); err != nil {
				logger.Warnf("定时刷新快照失败: %v", err)
			}
		}
	}
}

func (a *App) close() {
	if a.journal != nil {
		_ = a.journal.Close()
	}
	if a.equity != nil {
		_ = a.equity.Close()
	}
}

// Loader exposes the snapshot loader (for testing/replay harnesses).
func (a *App) Loader() *dashboard.Loader {
	if a == nil {
		return nil
	}
	return a.loader
}
