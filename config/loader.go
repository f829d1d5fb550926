package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/shoprec/core"
)

// File 是配置文件的顶层结构（支持 YAML/JSON）。
type File struct {
	Profiles []*core.RecommendationConfig `yaml:"profiles" json:"profiles"`
}

// LoadFromYAML 从 YAML 文件加载一组推荐配置，逐条做完整校验。
func LoadFromYAML(path string) ([]*core.RecommendationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return validateAll(f.Profiles)
}

// LoadFromJSON 从 JSON 文件加载一组推荐配置。
func LoadFromJSON(path string) ([]*core.RecommendationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return validateAll(f.Profiles)
}

// LoadSnapshot 从任意 core.Store 的一个 key 读取 JSON 配置快照
// （管理端定期发布的全量配置列表），用于从 Redis 等远端热加载。
func LoadSnapshot(ctx context.Context, st core.Store, key string) ([]*core.RecommendationConfig, error) {
	data, err := st.Get(ctx, key)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, err
		}
		return nil, core.WrapStorageError(core.ModuleConfig, err)
	}

	var profiles []*core.RecommendationConfig
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	return validateAll(profiles)
}

// NewStoreFromProfiles 用一组配置填充内存配置存储。
// 快照中标了多个默认时只保留第一个（Put 会清掉其余），
// 保证装载完成后"至多一个默认"的不变量依然成立。
func NewStoreFromProfiles(ctx context.Context, profiles []*core.RecommendationConfig) (*MemoryConfigStore, error) {
	st := NewMemoryConfigStore()
	defaultSeen := false
	for _, cfg := range profiles {
		cp := cfg.Clone()
		if cp.Default {
			if defaultSeen {
				cp.Default = false
			}
			defaultSeen = true
		}
		if err := st.Put(ctx, cp); err != nil {
			return nil, err
		}
	}
	return st, nil
}

func validateAll(profiles []*core.RecommendationConfig) ([]*core.RecommendationConfig, error) {
	for _, cfg := range profiles {
		if err := Validate(cfg); err != nil {
			return nil, err
		}
	}
	return profiles, nil
}
