package config

import (
	"fmt"
	"net/url"
	"strings"
)

func validate(cfg *Config) error {
	raw := strings.TrimSpace(cfg.Backend.BaseURL)
	if raw == "" {
		return fmt.Errorf("backend.base_url 不能为空")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("解析 backend.base_url 失败: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("backend.base_url 必须是 http/https 地址: %s", raw)
	}
	if cfg.Dashboard.OrdersLimit > 200 {
		return fmt.Errorf("dashboard.orders_limit 超出后端允许范围 (1-200): %d", cfg.Dashboard.OrdersLimit)
	}
	if cfg.Dashboard.HistoryDays > 365 {
		return fmt.Errorf("dashboard.history_days 超出后端允许范围 (1-365): %d", cfg.Dashboard.HistoryDays)
	}
	return nil
}
