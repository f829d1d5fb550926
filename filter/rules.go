package filter

import (
	"context"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pkg/dsl"
)

// StockFilter 在配置开启 exclude_out_of_stock 时剔除无货候选。
type StockFilter struct{}

func (f *StockFilter) Name() string { return "filter.stock" }

func (f *StockFilter) ShouldFilter(
	_ context.Context,
	_ *core.RecommendContext,
	cfg *core.RecommendationConfig,
	sc *core.ScoredCandidate,
) (bool, error) {
	return cfg.ExcludeOutOfStock && !sc.Candidate.InStock, nil
}

// ActiveFilter 在配置开启 exclude_inactive 时剔除未上架候选。
type ActiveFilter struct{}

func (f *ActiveFilter) Name() string { return "filter.inactive" }

func (f *ActiveFilter) ShouldFilter(
	_ context.Context,
	_ *core.RecommendContext,
	cfg *core.RecommendationConfig,
	sc *core.ScoredCandidate,
) (bool, error) {
	return cfg.ExcludeInactive && !sc.Candidate.Active, nil
}

// MinScoreFilter 剔除复合分低于配置 min_score 的候选。
type MinScoreFilter struct{}

func (f *MinScoreFilter) Name() string { return "filter.min_score" }

func (f *MinScoreFilter) ShouldFilter(
	_ context.Context,
	_ *core.RecommendContext,
	cfg *core.RecommendationConfig,
	sc *core.ScoredCandidate,
) (bool, error) {
	return sc.Score < cfg.MinScore, nil
}

// RuleFilter 按一条已编译的 CEL 排除规则剔除候选（配置的 exclude_rule）。
// 规则在配置校验期编译；运行期求值出错时保留候选，不中断整个请求。
type RuleFilter struct {
	Rule *dsl.Rule
}

// NewRuleFilter 编译表达式并构造规则过滤器。
// 编译错误应上抛为配置校验失败，而不是留到打分路径。
func NewRuleFilter(expr string) (*RuleFilter, error) {
	rule, err := dsl.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &RuleFilter{Rule: rule}, nil
}

func (f *RuleFilter) Name() string { return "filter.rule" }

func (f *RuleFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	_ *core.RecommendationConfig,
	sc *core.ScoredCandidate,
) (bool, error) {
	if f.Rule == nil {
		return false, nil
	}
	return f.Rule.Eval(sc, rctx)
}
