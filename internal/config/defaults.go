package config

import "strings"

const (
	defaultHTTPAddr       = ":8820"
	defaultRefreshSeconds = 30
	defaultOrdersLimit    = 50
	defaultHistoryDays    = 30
	defaultTimeoutSeconds = 15
)

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.App.Env) == "" {
		c.App.Env = "dev"
	}
	if strings.TrimSpace(c.App.LogLevel) == "" {
		c.App.LogLevel = "info"
	}
	if c.Backend.TimeoutSeconds <= 0 {
		c.Backend.TimeoutSeconds = defaultTimeoutSeconds
	}
	if strings.TrimSpace(c.Dashboard.HTTPAddr) == "" {
		c.Dashboard.HTTPAddr = defaultHTTPAddr
	}
	if c.Dashboard.RefreshSeconds <= 0 {
		c.Dashboard.RefreshSeconds = defaultRefreshSeconds
	}
	if c.Dashboard.OrdersLimit <= 0 {
		c.Dashboard.OrdersLimit = defaultOrdersLimit
	}
	if c.Dashboard.HistoryDays <= 0 {
		c.Dashboard.HistoryDays = defaultHistoryDays
	}
	if strings.TrimSpace(c.Storage.JournalPath) == "" {
		c.Storage.JournalPath = "data/journal.db"
	}
	if strings.TrimSpace(c.Storage.EquityLogPath) == "" {
		c.Storage.EquityLogPath = "data/equity.db"
	}
}
