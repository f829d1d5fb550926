package core

import "context"

// CatalogScope 限定一次取候选的范围，来自配置的 target 关联。
// 两个维度都为空表示"全部可售候选"（实现方自定的默认候选池）。
type CatalogScope struct {
	ProductIDs  []string
	CategoryIDs []string
}

// Empty 判断范围是否未加任何限定。
func (s CatalogScope) Empty() bool {
	return len(s.ProductIDs) == 0 && len(s.CategoryIDs) == 0
}

// Catalog 是商品目录协作方接口：按范围返回带有当前信号值的候选集。
// 引擎只消费、不拥有目录数据；目录失败以 STORAGE 错误原样上抛。
type Catalog interface {
	// Name 返回目录实现名称（用于日志/监控）
	Name() string

	// Candidates 按范围物化候选集（价格、评分、热度、最近活跃、
	// 类目、库存/激活标志，及可选的预计算 custom 分）。
	Candidates(ctx context.Context, scope CatalogScope) ([]*Candidate, error)
}
