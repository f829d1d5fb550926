package filter

import (
	"context"

	"github.com/rushteam/shoprec/core"
)

// Filter 是过滤器的抽象接口，用于判断一个已打分候选是否应该被剔除。
// 返回 true 表示剔除，false 表示保留。
//
// 过滤发生在打分之后：min_score 比较的是最终复合分，而非某个原始信号。
type Filter interface {
	// Name 返回过滤器名称（会作为剔除原因写入候选 Label）
	Name() string

	// ShouldFilter 判断候选是否应该被剔除
	ShouldFilter(ctx context.Context, rctx *core.RecommendContext, cfg *core.RecommendationConfig, sc *core.ScoredCandidate) (bool, error)
}
