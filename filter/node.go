package filter

import (
	"context"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pipeline"
	"github.com/rushteam/shoprec/pkg/utils"
)

// FilterNode 是过滤 Node，组合多个过滤器依次检查。
// 任何一个过滤器命中，候选即被剔除，剔除原因写入 "filtered" Label。
// 单个过滤器出错时保留候选、继续后续过滤器，不中断流程；
// 错误写入 "filter_error" Label，出错放行的候选可从结果上观测到。
type FilterNode struct {
	Filters []Filter
}

// NewFilterNode 按配置组装过滤链：库存/上架开关、min_score，
// 以及可选的 CEL 排除规则。exclude_rule 编译失败返回 INVALID_CONFIG。
func NewFilterNode(cfg *core.RecommendationConfig) (*FilterNode, error) {
	filters := []Filter{
		&StockFilter{},
		&ActiveFilter{},
		&MinScoreFilter{},
	}
	if cfg != nil && cfg.ExcludeRule != "" {
		rf, err := NewRuleFilter(cfg.ExcludeRule)
		if err != nil {
			return nil, core.NewDomainError(core.ModuleConfig, core.ErrorCodeInvalidConfig,
				"config: "+cfg.Code+": exclude_rule: "+err.Error())
		}
		filters = append(filters, rf)
	}
	return &FilterNode{Filters: filters}, nil
}

func (n *FilterNode) Name() string        { return "filter.node" }
func (n *FilterNode) Kind() pipeline.Kind { return pipeline.KindFilter }

func (n *FilterNode) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	cfg *core.RecommendationConfig,
	cands []*core.ScoredCandidate,
) ([]*core.ScoredCandidate, error) {
	if len(n.Filters) == 0 || len(cands) == 0 {
		return cands, nil
	}

	out := make([]*core.ScoredCandidate, 0, len(cands))

	for _, sc := range cands {
		if sc == nil || sc.Candidate == nil {
			continue
		}

		dropped := false
		reason := ""

		for _, f := range n.Filters {
			ok, err := f.ShouldFilter(ctx, rctx, cfg, sc)
			if err != nil {
				sc.Candidate.PutLabel("filter_error", utils.Label{
					Value:  err.Error(),
					Source: f.Name(),
				})
				continue
			}
			if ok {
				dropped = true
				reason = f.Name()
				break
			}
		}

		if dropped {
			sc.Candidate.PutLabel("filtered", utils.Label{
				Value:  "true",
				Source: reason,
			})
			continue
		}

		out = append(out, sc)
	}

	return out, nil
}
