// Package equitylog 把每次从后端拉到的账户历史按 record_date 归档到本地
// SQLite。后端只保留最近 365 天，本地归档让收益曲线可以回看更久。
package equitylog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"papertrade/internal/gateway/papertrading"

	_ "modernc.org/sqlite"
)

// Store 管理账户历史归档。
type Store struct {
	mu   sync.Mutex
	db   *sql.DB
	path string
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS equity_log (
    record_date           TEXT PRIMARY KEY,
    total_balance         TEXT NOT NULL,
    cash_balance          TEXT NOT NULL,
    market_value          TEXT NOT NULL,
    profit_loss           TEXT NOT NULL,
    profit_loss_pct       TEXT NOT NULL,
    daily_return_pct      TEXT NOT NULL,
    cumulative_return_pct TEXT NOT NULL
);
`

// NewStore opens the archive database and ensures the schema.
func NewStore(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("equitylog: 数据库路径不能为空")
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("equitylog: 初始化表失败: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Archive upserts the fetched history rows keyed by record_date. Re-fetching
// the same day overwrites it with the latest server values.
func (s *Store) Archive(ctx context.Context, histories []papertrading.AccountHistory) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("equitylog store 未初始化")
	}
	if len(histories) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	const upsert = `
INSERT INTO equity_log (record_date, total_balance, cash_balance, market_value,
                        profit_loss, profit_loss_pct, daily_return_pct, cumulative_return_pct)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(record_date) DO UPDATE SET
    total_balance = excluded.total_balance,
    cash_balance = excluded.cash_balance,
    market_value = excluded.market_value,
    profit_loss = excluded.profit_loss,
    profit_loss_pct = excluded.profit_loss_pct,
    daily_return_pct = excluded.daily_return_pct,
    cumulative_return_pct = excluded.cumulative_return_pct
`
	for _, h := range histories {
		if strings.TrimSpace(h.RecordDate) == "" {
			continue
		}
		_, err := tx.ExecContext(ctx, upsert,
			h.RecordDate,
			h.TotalBalance.String(),
			h.CashBalance.String(),
			h.MarketValue.String(),
			h.ProfitLoss.String(),
			h.ProfitLossPct.String(),
			h.DailyReturnPct.String(),
			h.CumulativeReturnPct.String(),
		)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("equitylog: 写入 %s 失败: %w", h.RecordDate, err)
		}
	}
	return tx.Commit()
}

// Count returns the number of archived days.
func (s *Store) Count(ctx context.Context) (int, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("equitylog store 未初始化")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM equity_log`).Scan(&count)
	return count, err
}

// Range returns archived rows ordered ascending by record_date, the same
// ordering the backend uses. limit<=0 returns everything.
func (s *Store) Range(ctx context.Context, limit int) ([]papertrading.AccountHistory, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("equitylog store 未初始化")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `SELECT record_date, total_balance, cash_balance, market_value,
       profit_loss, profit_loss_pct, daily_return_pct, cumulative_return_pct
FROM equity_log ORDER BY record_date ASC`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		// 取最近 limit 天，再按升序返回
		query = `SELECT record_date, total_balance, cash_balance, market_value,
       profit_loss, profit_loss_pct, daily_return_pct, cumulative_return_pct
FROM (SELECT * FROM equity_log ORDER BY record_date DESC LIMIT ?)
ORDER BY record_date ASC`
		rows, err = s.db.QueryContext(ctx, query, limit)
	} else {
		rows, err = s.db.QueryContext(ctx, query)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []papertrading.AccountHistory
	for rows.Next() {
		var h papertrading.AccountHistory
		var totalBalance, cashBalance, marketValue, profitLoss, profitLossPct, dailyReturnPct, cumulativeReturnPct string
		if err := rows.Scan(&h.RecordDate, &totalBalance, &cashBalance, &marketValue,
			&profitLoss, &profitLossPct, &dailyReturnPct, &cumulativeReturnPct); err != nil {
			return nil, err
		}
		if err := assignDecimals(&h, totalBalance, cashBalance, marketValue,
			profitLoss, profitLossPct, dailyReturnPct, cumulativeReturnPct); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
