package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rushteam/shoprec/core"
)

// ProductDoc 是存储中的商品文档（JSON）。
// 管理端/数据管道写入，目录适配器只读。
type ProductDoc struct {
	ID           string   `json:"id"`
	Price        *float64 `json:"price,omitempty"`
	Rating       *float64 `json:"rating,omitempty"`
	Popularity   *float64 `json:"popularity,omitempty"`
	CustomScore  *float64 `json:"custom_score,omitempty"`
	LastActiveAt string   `json:"last_active_at,omitempty"` // RFC3339
	Categories   []string `json:"categories,omitempty"`
	InStock      bool     `json:"in_stock"`
	Active       bool     `json:"active"`
}

// Candidate 把商品文档转为引擎候选。缺席的指针字段即缺失信号。
func (d *ProductDoc) Candidate() *core.Candidate {
	c := core.NewCandidate(d.ID)
	if d.Price != nil {
		c.SetSignal(core.SignalPrice, *d.Price)
	}
	if d.Rating != nil {
		c.SetSignal(core.SignalRating, *d.Rating)
	}
	if d.Popularity != nil {
		c.SetSignal(core.SignalPopularity, *d.Popularity)
	}
	if d.CustomScore != nil {
		c.SetSignal(core.SignalCustom, *d.CustomScore)
	}
	if d.LastActiveAt != "" {
		if t, err := time.Parse(time.RFC3339, d.LastActiveAt); err == nil {
			c.LastActiveAt = t
		}
	}
	c.Categories = append([]string(nil), d.Categories...)
	c.InStock = d.InStock
	c.Active = d.Active
	return c
}

// StoreCatalog 是存储适配的商品目录：
//   - 默认候选池来自热度有序集合 PoolKey（ZRange TopN），
//     后端不支持有序集合时回退读 PoolKey 下的 JSON ID 数组
//   - 类目范围从 CategoryKeyPrefix+<类目ID> 下的 JSON ID 数组取
//   - 商品文档经 BatchGet 批量读取，减少网络往返
//
// 任何存储故障都包装为 STORAGE 错误上抛，不做静默空结果。
type StoreCatalog struct {
	Store             core.Store
	PoolKey           string // 例如 "catalog:pool"
	DocPrefix         string // 例如 "catalog:product:"
	CategoryKeyPrefix string // 例如 "catalog:category:"
	MaxPool           int    // 默认池大小上限，<=0 时取 200
}

var _ core.Catalog = (*StoreCatalog)(nil)

func (c *StoreCatalog) Name() string { return "store" }

func (c *StoreCatalog) Candidates(ctx context.Context, scope core.CatalogScope) ([]*core.Candidate, error) {
	ids, err := c.candidateIDs(ctx, scope)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, c.DocPrefix+id)
	}
	docs, err := c.Store.BatchGet(ctx, keys)
	if err != nil {
		return nil, core.WrapStorageError(core.ModuleCatalog, err)
	}

	out := make([]*core.Candidate, 0, len(ids))
	for _, id := range ids {
		data, ok := docs[c.DocPrefix+id]
		if !ok {
			continue
		}
		var doc ProductDoc
		if json.Unmarshal(data, &doc) != nil {
			continue
		}
		if doc.ID == "" {
			doc.ID = id
		}
		out = append(out, doc.Candidate())
	}
	return out, nil
}

func (c *StoreCatalog) candidateIDs(ctx context.Context, scope core.CatalogScope) ([]string, error) {
	if len(scope.ProductIDs) > 0 {
		return scope.ProductIDs, nil
	}
	if len(scope.CategoryIDs) > 0 {
		return c.categoryIDs(ctx, scope.CategoryIDs)
	}
	return c.poolIDs(ctx)
}

// poolIDs 取默认候选池：优先热度有序集合，退化为 JSON ID 数组。
func (c *StoreCatalog) poolIDs(ctx context.Context) ([]string, error) {
	max := c.MaxPool
	if max <= 0 {
		max = 200
	}

	if kv, ok := c.Store.(core.KeyValueStore); ok {
		members, err := kv.ZRange(ctx, c.PoolKey, 0, int64(max-1))
		if err != nil && !core.IsStoreNotSupported(err) {
			return nil, core.WrapStorageError(core.ModuleCatalog, err)
		}
		if len(members) > 0 {
			return members, nil
		}
	}

	data, err := c.Store.Get(ctx, c.PoolKey)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, nil
		}
		return nil, core.WrapStorageError(core.ModuleCatalog, err)
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, nil
	}
	if len(ids) > max {
		ids = ids[:max]
	}
	return ids, nil
}

func (c *StoreCatalog) categoryIDs(ctx context.Context, categories []string) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	for _, cat := range categories {
		data, err := c.Store.Get(ctx, c.CategoryKeyPrefix+cat)
		if err != nil {
			if core.IsStoreNotFound(err) {
				continue
			}
			return nil, core.WrapStorageError(core.ModuleCatalog, err)
		}
		var ids []string
		if json.Unmarshal(data, &ids) != nil {
			continue
		}
		for _, id := range ids {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out, nil
}
