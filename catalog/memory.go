package catalog

import (
	"context"

	"github.com/rushteam/shoprec/core"
)

// MemoryCatalog 是内存实现的商品目录，用于测试/开发/原型。
// 候选按调用返回深拷贝：引擎内的打分与标签不回写共享数据。
type MemoryCatalog struct {
	Products []*core.Candidate
}

var _ core.Catalog = (*MemoryCatalog)(nil)

func NewMemoryCatalog(products ...*core.Candidate) *MemoryCatalog {
	return &MemoryCatalog{Products: products}
}

func (c *MemoryCatalog) Name() string { return "memory" }

func (c *MemoryCatalog) Candidates(_ context.Context, scope core.CatalogScope) ([]*core.Candidate, error) {
	out := make([]*core.Candidate, 0, len(c.Products))
	for _, p := range c.Products {
		if p == nil {
			continue
		}
		if !matches(p, scope) {
			continue
		}
		out = append(out, p.Clone())
	}
	return out, nil
}

func matches(p *core.Candidate, scope core.CatalogScope) bool {
	if scope.Empty() {
		return true
	}
	for _, id := range scope.ProductIDs {
		if p.ID == id {
			return true
		}
	}
	if len(scope.CategoryIDs) > 0 {
		set := make(map[string]struct{}, len(p.Categories))
		for _, c := range p.Categories {
			set[c] = struct{}{}
		}
		for _, c := range scope.CategoryIDs {
			if _, ok := set[c]; ok {
				return true
			}
		}
	}
	return false
}
