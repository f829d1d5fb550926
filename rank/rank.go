package rank

import (
	"context"
	"sort"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pipeline"
)

// RankNode 是排序 Node：对过滤后的候选做确定性排序并截断。
//
// 排序规则：
//  1. 复合分降序
//  2. 同分时原始热度（popularity 信号）降序
//  3. 仍同时候选 ID 字典序升序
//
// 后两级 tie-break 保证相同输入下顺序完全可复现。
// 截断到配置的 max_results；空输入得到空输出，不视为错误。
type RankNode struct{}

func (n *RankNode) Name() string        { return "rank.deterministic" }
func (n *RankNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *RankNode) Process(
	_ context.Context,
	_ *core.RecommendContext,
	cfg *core.RecommendationConfig,
	cands []*core.ScoredCandidate,
) ([]*core.ScoredCandidate, error) {
	if len(cands) == 0 {
		return cands, nil
	}

	sort.SliceStable(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		pa := rawPopularity(a)
		pb := rawPopularity(b)
		if pa != pb {
			return pa > pb
		}
		return a.Candidate.ID < b.Candidate.ID
	})

	if cfg != nil && cfg.MaxResults > 0 && len(cands) > cfg.MaxResults {
		cands = cands[:cfg.MaxResults]
	}
	return cands, nil
}

func rawPopularity(sc *core.ScoredCandidate) float64 {
	v, _ := sc.Candidate.Signal(core.SignalPopularity)
	return v
}
