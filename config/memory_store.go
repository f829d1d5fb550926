package config

import (
	"context"
	"sync"

	"github.com/rushteam/shoprec/core"
)

// MemoryConfigStore 是内存实现的 core.ConfigStore，用于测试/开发，
// 也是从 YAML/JSON/远端快照加载配置后的承载体。
//
// 单把写锁保证 SetDefault 的"清旧设新"对任何读者不可分割：
// 不会出现两个默认或临时零默认的中间态。
type MemoryConfigStore struct {
	mu   sync.RWMutex
	byID map[string]*core.RecommendationConfig
}

func NewMemoryConfigStore() *MemoryConfigStore {
	return &MemoryConfigStore{
		byID: make(map[string]*core.RecommendationConfig),
	}
}

var _ core.ConfigStore = (*MemoryConfigStore)(nil)

func (s *MemoryConfigStore) List(_ context.Context) ([]*core.RecommendationConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*core.RecommendationConfig, 0, len(s.byID))
	for _, cfg := range s.byID {
		out = append(out, cfg.Clone())
	}
	return out, nil
}

func (s *MemoryConfigStore) GetByCode(_ context.Context, code string) (*core.RecommendationConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, cfg := range s.byID {
		if cfg.Code == code {
			return cfg.Clone(), nil
		}
	}
	return nil, core.NewDomainError(core.ModuleConfig, core.ErrorCodeConfigNotFound,
		"config: no config with code "+code)
}

// Put 新增或整体替换一份配置（按 ID 定位）。
// 校验失败拒绝写入；code 与其他配置冲突同样拒绝。
// 替换已有配置会递增 Version，使其旧的缓存条目失联；
// 写入的配置带 is_default 时原子地清除其他配置的默认位。
func (s *MemoryConfigStore) Put(_ context.Context, cfg *core.RecommendationConfig) error {
	if err := Validate(cfg); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, other := range s.byID {
		if id != cfg.ID && other.Code == cfg.Code {
			return core.NewDomainError(core.ModuleConfig, core.ErrorCodeInvalidConfig,
				"config: duplicate code "+cfg.Code)
		}
	}

	cp := cfg.Clone()
	if old, ok := s.byID[cp.ID]; ok {
		cp.Version = old.Version + 1
	} else if cp.Version == 0 {
		cp.Version = 1
	}

	if cp.Default {
		for _, other := range s.byID {
			other.Default = false
		}
	}
	s.byID[cp.ID] = cp
	return nil
}

// SetDefault 原子地把 id 指定的配置设为唯一默认。
func (s *MemoryConfigStore) SetDefault(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, ok := s.byID[id]
	if !ok {
		return core.NewDomainError(core.ModuleConfig, core.ErrorCodeConfigNotFound,
			"config: no config with id "+id)
	}
	if !target.Active {
		return core.NewDomainError(core.ModuleConfig, core.ErrorCodeInvalidConfig,
			"config: "+target.Code+" is not active, cannot be default")
	}

	for _, cfg := range s.byID {
		cfg.Default = false
	}
	target.Default = true
	return nil
}
