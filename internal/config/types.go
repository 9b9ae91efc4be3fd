package config

// Config 是 papertrade 的主配置载体。
type Config struct {
	App       AppConfig       `toml:"app"`
	Backend   BackendConfig   `toml:"backend"`
	Dashboard DashboardConfig `toml:"dashboard"`
	Watchlist WatchlistConfig `toml:"watchlist"`
	Storage   StorageConfig   `toml:"storage"`
}

type AppConfig struct {
	Env      string `toml:"env"`
	LogLevel string `toml:"log_level"`
	LogPath  string `toml:"log_path"`
}

// BackendConfig 描述模拟交易后端的访问方式。
type BackendConfig struct {
	BaseURL            string `toml:"base_url"`
	APIToken           string `toml:"api_token"`
	TimeoutSeconds     int    `toml:"timeout_seconds"`
	InsecureSkipVerify bool   `toml:"insecure_skip_verify"`
}

type DashboardConfig struct {
	HTTPAddr       string `toml:"http_addr"`
	RefreshSeconds int    `toml:"refresh_seconds"`
	OrdersLimit    int    `toml:"orders_limit"`
	HistoryDays    int    `toml:"history_days"`
}

type WatchlistConfig struct {
	Path string `toml:"path"`
}

type StorageConfig struct {
	JournalPath   string `toml:"journal_path"`
	EquityLogPath string `toml:"equity_log_path"`
}
