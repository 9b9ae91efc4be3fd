// Package dashboard 提供模拟盘仪表盘：浏览器端页面 + /api/dashboard 接口。
// 所有状态来自后端快照，页面本身不持有任何权威数据。
package dashboard

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"papertrade/internal/logger"
	"papertrade/internal/store/equitylog"
	"papertrade/internal/store/journal"
	"papertrade/internal/watchlist"
)

// Server 提供仪表盘 HTTP 服务。
type Server struct {
	addr   string
	router *gin.Engine
}

// ServerConfig 描述仪表盘服务依赖。Watchlist/Journal/Equity 可为 nil，
// 对应接口返回 503。
type ServerConfig struct {
	Addr      string
	API       TradingAPI
	Loader    *Loader
	Watchlist *watchlist.Registry
	Journal   *journal.Store
	Equity    *equitylog.Store
}

// NewServer 构建仪表盘 server。
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.API == nil || cfg.Loader == nil {
		return nil, errors.New("dashboard server requires trading api and loader")
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8820"
	}
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	registerPageRoutes(router)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	apiRouter := NewRouter(cfg.API, cfg.Loader, cfg.Watchlist, cfg.Journal, cfg.Equity)
	apiRouter.Register(router.Group("/api/dashboard"))

	return &Server{addr: cfg.Addr, router: router}, nil
}

// requestLogger 记录页面与接口的人工操作，便于追踪刷新与下单。
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery
		client := c.ClientIP()
		c.Next()
		dur := time.Since(start)
		status := c.Writer.Status()
		fullPath := path
		if query != "" {
			fullPath = path + "?" + query
		}
		logger.Debugf("HTTP %s %s status=%d ip=%s dur=%s", method, fullPath, status, client, dur)
	}
}

// Addr 返回监听地址。
func (s *Server) Addr() string {
	if s == nil {
		return ""
	}
	return s.addr
}

// Handler 返回底层 http.Handler，测试时直接挂到 httptest 上。
func (s *Server) Handler() http.Handler {
	if s == nil {
		return nil
	}
	return s.router
}

// Start 启动 HTTP 服务，直到 ctx 取消或出现错误。
func (s *Server) Start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	srv := &http.Server{Addr: s.addr, Handler: s.router}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shCtx)
		return nil
	case err := <-errCh:
		return err
	}
}
