// Package journal 把仪表盘发出的每一次交易类变更（下单、止盈止损增删）
// 落到本地 SQLite，便于事后核对后端成交记录。
package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Kind string

const (
	KindPlaceOrder     Kind = "place_order"
	KindSetStopLoss    Kind = "set_stop_loss"
	KindDeleteStopLoss Kind = "delete_stop_loss"
)

// Entry 是一条已发出的变更记录。Payload 按 wire 格式（snake_case）原样保存。
type Entry struct {
	ID        string         `json:"id"`
	Kind      Kind           `json:"kind"`
	StockCode string         `json:"stockCode"`
	Payload   map[string]any `json:"payload,omitempty"`
	Success   bool           `json:"success"`
	Message   string         `json:"message"`
	CreatedAt time.Time      `json:"createdAt"`
}

type entryModel struct {
	ID        string         `gorm:"column:id;primaryKey;size:36"`
	Kind      string         `gorm:"column:kind;size:32;index"`
	StockCode string         `gorm:"column:stock_code;size:16;index"`
	Payload   datatypes.JSON `gorm:"column:payload;type:TEXT"`
	Success   bool           `gorm:"column:success"`
	Message   string         `gorm:"column:message;type:TEXT"`
	CreatedAt time.Time      `gorm:"column:created_at;index"`
}

func (entryModel) TableName() string { return "mutation_journal" }

// Store implements the mutation journal using Gorm + SQLite.
type Store struct {
	db *gorm.DB
}

// NewStore opens (and migrates) the journal database.
func NewStore(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("journal: 数据库路径不能为空")
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&cache=shared", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&entryModel{}); err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// SQLite + WAL: keep contention low, dashboard reads are rare.
	sqlDB.SetMaxOpenConns(2)
	sqlDB.SetMaxIdleConns(2)
	return &Store{db: db}, nil
}

// Append persists one entry. A missing ID or timestamp is filled in.
func (s *Store) Append(ctx context.Context, entry Entry) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("journal store 未初始化")
	}
	if strings.TrimSpace(entry.ID) == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	var payload datatypes.JSON
	if len(entry.Payload) > 0 {
		buf, err := json.Marshal(entry.Payload)
		if err != nil {
			return fmt.Errorf("journal: 序列化 payload 失败: %w", err)
		}
		payload = datatypes.JSON(buf)
	}
	model := entryModel{
		ID:        entry.ID,
		Kind:      string(entry.Kind),
		StockCode: entry.StockCode,
		Payload:   payload,
		Success:   entry.Success,
		Message:   entry.Message,
		CreatedAt: entry.CreatedAt,
	}
	return s.db.WithContext(ctx).Create(&model).Error
}

// Recent returns the newest entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("journal store 未初始化")
	}
	if limit <= 0 {
		limit = 50
	}
	var models []entryModel
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(models))
	for _, m := range models {
		entry := Entry{
			ID:        m.ID,
			Kind:      Kind(m.Kind),
			StockCode: m.StockCode,
			Success:   m.Success,
			Message:   m.Message,
			CreatedAt: m.CreatedAt,
		}
		if len(m.Payload) > 0 {
			var payload map[string]any
			if err := json.Unmarshal(m.Payload, &payload); err == nil {
				entry.Payload = payload
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
