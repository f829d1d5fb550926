package config

import (
	"context"
	"sort"

	"github.com/rushteam/shoprec/core"
)

// Resolver 负责选定并校验一次推荐调用使用的配置。
//
// 选择规则：
//   - 指定 code：在激活配置中精确匹配，不存在（或命中的配置未激活）
//     返回 CONFIG_NOT_FOUND
//   - 未指定 code：取唯一的 is_default 且激活的配置；没有默认时
//     在激活配置中取 sort_order 最小者（再按 code 升序保证确定性）；
//     一个激活配置都没有则返回 NO_ACTIVE_CONFIG
//
// 未激活配置永远不会被默认/sort_order 兜底选中。
type Resolver struct {
	Store core.ConfigStore
}

func NewResolver(store core.ConfigStore) *Resolver {
	return &Resolver{Store: store}
}

// Resolve 返回本次调用应使用的配置快照。
func (r *Resolver) Resolve(ctx context.Context, code string) (*core.RecommendationConfig, error) {
	if code != "" {
		cfg, err := r.Store.GetByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if !cfg.Active {
			return nil, core.NewDomainError(core.ModuleConfig, core.ErrorCodeConfigNotFound,
				"config: no active config with code "+code)
		}
		return cfg, nil
	}

	all, err := r.Store.List(ctx)
	if err != nil {
		return nil, err
	}

	actives := make([]*core.RecommendationConfig, 0, len(all))
	for _, cfg := range all {
		if cfg.Active {
			actives = append(actives, cfg)
		}
	}
	if len(actives) == 0 {
		return nil, core.NewDomainError(core.ModuleConfig, core.ErrorCodeNoActiveConfig,
			"config: no active recommendation config")
	}

	for _, cfg := range actives {
		if cfg.Default {
			return cfg, nil
		}
	}

	sort.Slice(actives, func(i, j int) bool {
		if actives[i].SortOrder != actives[j].SortOrder {
			return actives[i].SortOrder < actives[j].SortOrder
		}
		return actives[i].Code < actives[j].Code
	})
	return actives[0], nil
}

// SetDefault 原子地把 id 指定的配置设为唯一默认（未激活的配置会被拒绝）。
// 这是引擎对配置存储仅有的写路径，任何翻转 is_default 的代码都必须走这里。
func (r *Resolver) SetDefault(ctx context.Context, id string) error {
	return r.Store.SetDefault(ctx, id)
}
