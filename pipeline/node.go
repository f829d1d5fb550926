package pipeline

import (
	"context"

	"github.com/rushteam/shoprec/core"
)

// Kind 用于标记 Node 类型，方便观测/治理（例如按阶段打点）。
type Kind string

const (
	KindExtract Kind = "extract" // 特征抽取阶段：归一化原始信号
	KindScore   Kind = "score"   // 打分阶段：加权求和出复合分
	KindFilter  Kind = "filter"  // 过滤阶段：剔除违反排除规则或低于分数下限的候选
	KindRank    Kind = "rank"    // 排序阶段：确定性排序并截断
)

// Node 是推荐链路的最小可扩展单元。
// 统一采用"输入候选 -> 输出候选"的形态；配置随请求透传，
// 各阶段据此读取权重、衰减、阈值等参数。
type Node interface {
	Name() string
	Kind() Kind

	Process(
		ctx context.Context,
		rctx *core.RecommendContext,
		cfg *core.RecommendationConfig,
		cands []*core.ScoredCandidate,
	) ([]*core.ScoredCandidate, error)
}
