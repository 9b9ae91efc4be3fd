// Package watchlist 维护一份文件配置的常用股票清单，供仪表盘下单表单使用。
// 文件可在运行时编辑，registry 监听变更并热加载。
package watchlist

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"papertrade/internal/logger"

	"github.com/fsnotify/fsnotify"
	"github.com/mitchellh/mapstructure"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Entry 描述单只常用股票及其下单默认值。
type Entry struct {
	Code            string   `mapstructure:"code" yaml:"code" json:"code"`
	Name            string   `mapstructure:"name" yaml:"name" json:"name"`
	DefaultQuantity int64    `mapstructure:"default_quantity" yaml:"default_quantity" json:"defaultQuantity"`
	TakeProfitPct   *float64 `mapstructure:"take_profit_pct" yaml:"take_profit_pct,omitempty" json:"takeProfitPct,omitempty"`
	StopLossPct     *float64 `mapstructure:"stop_loss_pct" yaml:"stop_loss_pct,omitempty" json:"stopLossPct,omitempty"`
}

type fileConfig struct {
	Watchlist []Entry `mapstructure:"watchlist" yaml:"watchlist"`
}

// Snapshot 公开的清单快照。
type Snapshot struct {
	Version  int64
	LoadedAt time.Time
	Entries  []Entry
}

// ChangeListener 在 registry 重载时触发。
type ChangeListener func(Snapshot)

// Registry 管理 watchlist 文件。
type Registry struct {
	path string
	v    *viper.Viper

	mu        sync.RWMutex
	snapshot  Snapshot
	listeners []ChangeListener
}

const schemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["watchlist"],
  "properties": {
    "watchlist": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["code"],
        "properties": {
          "code": {"type": "string", "minLength": 1},
          "name": {"type": "string"},
          "default_quantity": {"type": "integer", "minimum": 0},
          "take_profit_pct": {"type": "number", "exclusiveMinimum": 0},
          "stop_loss_pct": {"type": "number", "exclusiveMinimum": 0}
        }
      }
    }
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func compileSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiledSchema, schemaErr = jsonschema.CompileString("watchlist.schema.json", schemaJSON)
	})
	return compiledSchema, schemaErr
}

// NewRegistry 读取 watchlist 文件并监听更新。
func NewRegistry(path string) (*Registry, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("watchlist registry requires path")
	}
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read watchlist file failed: %w", err)
	}
	r := &Registry{path: path, v: v}
	if err := r.reload(); err != nil {
		return nil, err
	}
	v.OnConfigChange(func(evt fsnotify.Event) {
		if err := r.reload(); err != nil {
			logger.Errorf("watchlist reload failed (%s): %v", evt.Name, err)
			return
		}
		r.notifyListeners()
	})
	v.WatchConfig()
	return r, nil
}

// Snapshot 返回当前清单。
func (r *Registry) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneSnapshot(r.snapshot)
}

// Entry 按股票代码查找条目。
func (r *Registry) Entry(code string) (Entry, bool) {
	code = strings.TrimSpace(code)
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.snapshot.Entries {
		if e.Code == code {
			return e, true
		}
	}
	return Entry{}, false
}

// OnChange 注册重载回调。
func (r *Registry) OnChange(l ChangeListener) {
	if l == nil {
		return
	}
	r.mu.Lock()
	r.listeners = append(r.listeners, l)
	r.mu.Unlock()
}

func (r *Registry) notifyListeners() {
	r.mu.RLock()
	listeners := append([]ChangeListener(nil), r.listeners...)
	snap := cloneSnapshot(r.snapshot)
	r.mu.RUnlock()
	for _, l := range listeners {
		l(snap)
	}
}

func (r *Registry) reload() error {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		return fmt.Errorf("read watchlist file failed: %w", err)
	}
	if err := validateAgainstSchema(raw); err != nil {
		return err
	}
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parse watchlist yaml failed: %w", err)
	}
	var cfg fileConfig
	if err := mapstructure.Decode(doc, &cfg); err != nil {
		return fmt.Errorf("decode watchlist failed: %w", err)
	}
	entries := make([]Entry, 0, len(cfg.Watchlist))
	seen := make(map[string]bool, len(cfg.Watchlist))
	for _, e := range cfg.Watchlist {
		e.Code = strings.TrimSpace(e.Code)
		if e.Code == "" || seen[e.Code] {
			continue
		}
		seen[e.Code] = true
		entries = append(entries, e)
	}
	r.mu.Lock()
	r.snapshot = Snapshot{
		Version:  r.snapshot.Version + 1,
		LoadedAt: time.Now(),
		Entries:  entries,
	}
	r.mu.Unlock()
	logger.Infof("watchlist 加载完成: %d 条 (version=%d)", len(entries), r.snapshot.Version)
	return nil
}

// validateAgainstSchema 先把 yaml 转成 JSON 值再校验，jsonschema 只认
// encoding/json 解码出的类型。
func validateAgainstSchema(raw []byte) error {
	schema, err := compileSchema()
	if err != nil {
		return fmt.Errorf("compile watchlist schema failed: %w", err)
	}
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parse watchlist yaml failed: %w", err)
	}
	jsonBytes, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("normalize watchlist failed: %w", err)
	}
	var jsonDoc any
	dec := json.NewDecoder(bytes.NewReader(jsonBytes))
	if err := dec.Decode(&jsonDoc); err != nil {
		return err
	}
	if err := schema.Validate(jsonDoc); err != nil {
		return fmt.Errorf("watchlist 校验失败: %w", err)
	}
	return nil
}

func cloneSnapshot(s Snapshot) Snapshot {
	out := Snapshot{Version: s.Version, LoadedAt: s.LoadedAt}
	out.Entries = append([]Entry(nil), s.Entries...)
	return out
}
