package score

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pipeline"
	"github.com/rushteam/shoprec/pkg/utils"
)

// Recency 计算新鲜度子分：decay_factor^age_days，age 0 时为 1.0，
// 随年龄指数衰减趋向 0。decay 越接近 1 衰减越平，越接近 0 越陡。
// 年龄缺失按最差情况处理，子分为 0。
func Recency(fv core.FeatureVector, decayFactor float64) float64 {
	if !fv.HasAge {
		return 0
	}
	return math.Pow(decayFactor, fv.AgeDays)
}

// Score 把一个特征向量与配置的权重/衰减合成复合分。
//
//	weighted_sum = Σ weight_i * feature_i
//	score        = weighted_sum / weight_total
//
// weight_total 为 0 时退化为 0 分（文档化兜底，绝不除零）；搭配正的
// min_score 会自然得到空结果而非报错。归一化输入下复合分恒在 [0,1]，
// 这一可预期性让 min_score 在不同配置间可比。
//
// algorithm_type 不改变公式：它只是配置作者的权重取向标签，
// 引擎没有按类型的分支。
func Score(fv core.FeatureVector, cfg *core.RecommendationConfig) (score, recency float64) {
	w := cfg.Weights
	total := w.Total()
	if total <= 0 {
		return 0, Recency(fv, cfg.DecayFactor)
	}

	recency = Recency(fv, cfg.DecayFactor)
	sum := w.Price*fv.Price +
		w.Rating*fv.Rating +
		w.Popularity*fv.Popularity +
		w.Recency*recency +
		w.Category*fv.Category +
		w.Custom*fv.Custom
	return sum / total, recency
}

// ScoreNode 是打分 Node：对候选集逐个计算复合分。
//
// 单候选打分是无共享可变状态的纯计算，候选间无顺序依赖，
// 因此按候选并发执行（errgroup + 信号量限流）；
// 顺序约束只在排序阶段由 RankNode 施加。
type ScoreNode struct {
	// MaxConcurrent 最大并发数（<=1 时串行）
	MaxConcurrent int
}

func (n *ScoreNode) Name() string        { return "score.weighted" }
func (n *ScoreNode) Kind() pipeline.Kind { return pipeline.KindScore }

func (n *ScoreNode) Process(
	ctx context.Context,
	_ *core.RecommendContext,
	cfg *core.RecommendationConfig,
	cands []*core.ScoredCandidate,
) ([]*core.ScoredCandidate, error) {
	if len(cands) == 0 {
		return cands, nil
	}

	if n.MaxConcurrent <= 1 || len(cands) == 1 {
		for _, sc := range cands {
			scoreOne(sc, cfg)
		}
		return cands, nil
	}

	eg, _ := errgroup.WithContext(ctx)
	eg.SetLimit(n.MaxConcurrent)
	for _, sc := range cands {
		sc := sc
		eg.Go(func() error {
			scoreOne(sc, cfg)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return cands, nil
}

func scoreOne(sc *core.ScoredCandidate, cfg *core.RecommendationConfig) {
	sc.Score, sc.Recency = Score(sc.Features, cfg)
	sc.Candidate.PutLabel("score_config", utils.Label{Value: cfg.Code, Source: "score"})
}
