package dashboard

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"papertrade/internal/gateway/papertrading"
	"papertrade/internal/logger"
	"papertrade/internal/report"
	"papertrade/internal/store/equitylog"
	"papertrade/internal/store/journal"
	"papertrade/internal/watchlist"
)

// Router 暴露仪表盘的查询与交易接口。
type Router struct {
	api       TradingAPI
	loader    *Loader
	watchlist *watchlist.Registry
	journal   *journal.Store
	equity    *equitylog.Store
}

// NewRouter 构造仪表盘 API router。
func NewRouter(api TradingAPI, loader *Loader, wl *watchlist.Registry, jn *journal.Store, eq *equitylog.Store) *Router {
	return &Router{api: api, loader: loader, watchlist: wl, journal: jn, equity: eq}
}

// Register 将 /api/dashboard 路由挂载到给定分组下。
func (r *Router) Register(group *gin.RouterGroup) {
	if group == nil {
		return
	}
	group.GET("/snapshot", r.handleSnapshot)
	group.POST("/refresh", r.handleRefresh)
	group.POST("/orders", r.handlePlaceOrder)
	group.POST("/stop-loss", r.handleSetStopLoss)
	group.GET("/stop-loss/:code", r.handleGetStopLoss)
	group.DELETE("/stop-loss/:code", r.handleDeleteStopLoss)
	group.GET("/charts", r.handleCharts)
	group.GET("/report.png", r.handleReportPNG)
	group.GET("/watchlist", r.handleWatchlist)
	group.GET("/journal", r.handleJournal)
}

// respondBackendError 区分业务错误与传输错误：后端给出的 message 原样
// 透出，网络层故障只给通用提示，不暴露内部细节。
func respondBackendError(c *gin.Context, err error) {
	var apiErr *papertrading.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = apiErr.Status
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": msg, "code": apiErr.Code})
		return
	}
	logger.Warnf("后端请求失败: %v", err)
	c.JSON(http.StatusBadGateway, gin.H{"error": "网络请求失败，请稍后重试"})
}

func (r *Router) handleSnapshot(c *gin.Context) {
	snap, ok := r.loader.Current()
	if !ok {
		loaded, err := r.loader.Load(c.Request.Context())
		if err != nil {
			respondBackendError(c, err)
			return
		}
		snap = loaded
	}
	c.JSON(http.StatusOK, snap)
}

func (r *Router) handleRefresh(c *gin.Context) {
	snap, err := r.loader.Load(c.Request.Context())
	if err != nil {
		respondBackendError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

type placeOrderRequest struct {
	StockCode string           `json:"stockCode"`
	OrderType string           `json:"orderType"`
	Quantity  int64            `json:"quantity"`
	Price     *decimal.Decimal `json:"price"`
}

func (r *Router) handlePlaceOrder(c *gin.Context) {
	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求体格式不正确"})
		return
	}
	params := papertrading.PlaceOrderParams{
		StockCode: strings.TrimSpace(req.StockCode),
		OrderType: req.OrderType,
		Quantity:  req.Quantity,
		Price:     req.Price,
	}
	payload := map[string]any{
		"stock_code": params.StockCode,
		"order_type": params.OrderType,
		"quantity":   params.Quantity,
	}
	if params.Price != nil {
		payload["price"] = params.Price.String()
	}
	result, err := r.api.PlaceOrder(c.Request.Context(), params)
	if err != nil {
		r.appendJournal(c, journal.Entry{
			Kind:      journal.KindPlaceOrder,
			StockCode: params.StockCode,
			Payload:   payload,
			Success:   false,
			Message:   err.Error(),
		})
		respondBackendError(c, err)
		return
	}
	// 状态非 filled 属于业务拒绝，仍然是 200，由页面展示 message
	r.appendJournal(c, journal.Entry{
		Kind:      journal.KindPlaceOrder,
		StockCode: params.StockCode,
		Payload:   payload,
		Success:   result.Filled(),
		Message:   result.Message,
	})
	r.reloadAfterMutation(c)
	c.JSON(http.StatusOK, gin.H{
		"success": result.Filled(),
		"orderId": result.OrderID,
		"status":  result.Status,
		"message": result.Message,
	})
}

type stopLossRequest struct {
	StockCode       string           `json:"stockCode"`
	TakeProfitPrice *decimal.Decimal `json:"takeProfitPrice"`
	TakeProfitPct   *decimal.Decimal `json:"takeProfitPct"`
	StopLossPrice   *decimal.Decimal `json:"stopLossPrice"`
	StopLossPct     *decimal.Decimal `json:"stopLossPct"`
}

func (r *Router) handleSetStopLoss(c *gin.Context) {
	var req stopLossRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求体格式不正确"})
		return
	}
	params := papertrading.StopLossParams{
		StockCode:       strings.TrimSpace(req.StockCode),
		TakeProfitPrice: req.TakeProfitPrice,
		TakeProfitPct:   req.TakeProfitPct,
		StopLossPrice:   req.StopLossPrice,
		StopLossPct:     req.StopLossPct,
	}
	kind := journal.KindSetStopLoss
	if params.Empty() {
		// 四个阈值全空等同删除
		kind = journal.KindDeleteStopLoss
	}
	result, err := r.api.SetStopLoss(c.Request.Context(), params)
	if err != nil {
		r.appendJournal(c, journal.Entry{
			Kind:      kind,
			StockCode: params.StockCode,
			Payload:   stopLossJournalPayload(params),
			Success:   false,
			Message:   err.Error(),
		})
		respondBackendError(c, err)
		return
	}
	r.appendJournal(c, journal.Entry{
		Kind:      kind,
		StockCode: params.StockCode,
		Payload:   stopLossJournalPayload(params),
		Success:   result.Success,
		Message:   result.Message,
	})
	r.reloadAfterMutation(c)
	c.JSON(http.StatusOK, gin.H{
		"success":  result.Success,
		"message":  result.Message,
		"stopLoss": result.StopLoss,
	})
}

func stopLossJournalPayload(params papertrading.StopLossParams) map[string]any {
	payload := map[string]any{"stock_code": params.StockCode}
	if params.TakeProfitPrice != nil {
		payload["take_profit_price"] = params.TakeProfitPrice.String()
	}
	if params.TakeProfitPct != nil {
		payload["take_profit_pct"] = params.TakeProfitPct.String()
	}
	if params.StopLossPrice != nil {
		payload["stop_loss_price"] = params.StopLossPrice.String()
	}
	if params.StopLossPct != nil {
		payload["stop_loss_pct"] = params.StopLossPct.String()
	}
	return payload
}

func (r *Router) handleGetStopLoss(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))
	rule, err := r.api.GetStopLoss(c.Request.Context(), code)
	if err != nil {
		respondBackendError(c, err)
		return
	}
	// rule 为 nil 表示未设置，不是错误
	c.JSON(http.StatusOK, gin.H{"stopLoss": rule})
}

func (r *Router) handleDeleteStopLoss(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))
	result, err := r.api.DeleteStopLoss(c.Request.Context(), code)
	if err != nil {
		r.appendJournal(c, journal.Entry{
			Kind:      journal.KindDeleteStopLoss,
			StockCode: code,
			Success:   false,
			Message:   err.Error(),
		})
		respondBackendError(c, err)
		return
	}
	r.appendJournal(c, journal.Entry{
		Kind:      journal.KindDeleteStopLoss,
		StockCode: code,
		Success:   result.Success,
		Message:   result.Message,
	})
	r.reloadAfterMutation(c)
	c.JSON(http.StatusOK, gin.H{"success": result.Success, "message": result.Message})
}

func (r *Router) handleCharts(c *gin.Context) {
	input, err := r.chartInput(c)
	if err != nil {
		respondBackendError(c, err)
		return
	}
	html, err := report.BuildChartsHTML(input)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "暂无账户历史，无法绘图"})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", html)
}

func (r *Router) handleReportPNG(c *gin.Context) {
	input, err := r.chartInput(c)
	if err != nil {
		respondBackendError(c, err)
		return
	}
	html, err := report.BuildChartsHTML(input)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "暂无账户历史，无法绘图"})
		return
	}
	png, err := report.RenderPNG(c.Request.Context(), html, 1320, 960)
	if err != nil {
		logger.Errorf("渲染报告 PNG 失败: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "渲染服务不可用"})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// chartInput 默认用当前快照里的历史；带 days 参数且本地归档可用时，
// 改用归档数据，这样可以看到超出后端保留窗口的曲线。
func (r *Router) chartInput(c *gin.Context) (report.ChartInput, error) {
	snap, ok := r.loader.Current()
	if !ok {
		loaded, err := r.loader.Load(c.Request.Context())
		if err != nil {
			return report.ChartInput{}, err
		}
		snap = loaded
	}
	input := report.ChartInput{Histories: snap.Histories, Metrics: snap.Metrics}
	days, _ := strconv.Atoi(c.Query("days"))
	if days > 0 && r.equity != nil {
		rows, err := r.equity.Range(c.Request.Context(), days)
		if err == nil && len(rows) > 0 {
			input.Histories = rows
		}
	}
	return input, nil
}

func (r *Router) handleWatchlist(c *gin.Context) {
	if r.watchlist == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "自选股未启用"})
		return
	}
	snap := r.watchlist.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"version":  snap.Version,
		"loadedAt": snap.LoadedAt,
		"entries":  snap.Entries,
		"total":    len(snap.Entries),
	})
}

func (r *Router) handleJournal(c *gin.Context) {
	if r.journal == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "操作流水未启用"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	entries, err := r.journal.Recent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "读取操作流水失败"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries, "total": len(entries)})
}

// appendJournal 只记录，不阻断主流程。
func (r *Router) appendJournal(c *gin.Context, entry journal.Entry) {
	if r.journal == nil {
		return
	}
	if err := r.journal.Append(c.Request.Context(), entry); err != nil {
		logger.Warnf("写入操作流水失败: %v", err)
	}
}

// reloadAfterMutation 变更后整体重新拉取，失败只告警，页面下次刷新会补上。
func (r *Router) reloadAfterMutation(c *gin.Context) {
	if _, err := r.loader.Load(c.Request.Context()); err != nil {
		logger.Warnf("变更后刷新快照失败: %v", err)
	}
}
