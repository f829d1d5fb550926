package pipeline

import (
	"context"

	"github.com/rushteam/shoprec/core"
)

// Pipeline 是 shoprec 的核心抽象：把推荐逻辑拆成可组合的 Node 链
// （Extract → Score → Filter → Rank）。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	cfg *core.RecommendationConfig,
	cands []*core.ScoredCandidate,
) ([]*core.ScoredCandidate, error) {
	cur := cands
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, rctx, cfg, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
