package feature

import (
	"context"
	"time"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pipeline"
)

// neutral 是零方差维度的中性归一化值：当前候选集内该维度没有区分度时
// （包括单候选集合），既不奖励也不惩罚。
const neutral = 0.5

// ExtractNode 是特征抽取 Node：把候选的原始信号转为归一化特征向量。
//
// 归一化规则（对 price / rating / popularity 三个区间维度）：
//   - norm(x) = (x - min) / (max - min)，截断到 [0,1]，min/max 取自当前候选集
//   - max == min（零方差，含单候选）时所有候选取 0.5
//   - 缺失信号按维度最小值（最差情况）参与，绝不静默丢弃
//   - 价格先取反（max - price）再归一化：越便宜得分越高
//
// 类目亲和度是候选类目与上下文目标类目集的重合度（完全重合 1.0，无重合
// 0.0，部分重合取分数），不再做区间归一化；目标集为空时取中性 0.5。
// custom 信号视为已归一化，仅截断透传。recency 保留原始天数，衰减在打分
// 阶段应用。
type ExtractNode struct {
	// Now 用于计算候选年龄，测试中可注入；nil 时使用 time.Now。
	Now func() time.Time
}

func (n *ExtractNode) Name() string        { return "feature.extract" }
func (n *ExtractNode) Kind() pipeline.Kind { return pipeline.KindExtract }

func (n *ExtractNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	_ *core.RecommendationConfig,
	cands []*core.ScoredCandidate,
) ([]*core.ScoredCandidate, error) {
	if len(cands) == 0 {
		return cands, nil
	}

	now := time.Now()
	if n.Now != nil {
		now = n.Now()
	}
	Extract(rctx, cands, now)
	return cands, nil
}

// Extract 就地填充候选集的特征向量。归一化基于整个传入集合：
// 过滤发生在打分之后，因此后续会被剔除的候选此刻仍参与 min/max。
func Extract(rctx *core.RecommendContext, cands []*core.ScoredCandidate, now time.Time) {
	price := collect(cands, core.SignalPrice)
	rating := collect(cands, core.SignalRating)
	popularity := collect(cands, core.SignalPopularity)

	invert(price)

	priceNorm := normalize(price)
	ratingNorm := normalize(rating)
	popNorm := normalize(popularity)

	targets := rctx.AffinityCategories()

	for i, sc := range cands {
		c := sc.Candidate
		sc.Features = core.FeatureVector{
			Price:      priceNorm[i],
			Rating:     ratingNorm[i],
			Popularity: popNorm[i],
			Category:   categoryAffinity(c.Categories, targets),
			Custom:     customScore(c),
		}
		if !c.LastActiveAt.IsZero() {
			age := now.Sub(c.LastActiveAt).Hours() / 24
			if age < 0 {
				age = 0
			}
			sc.Features.AgeDays = age
			sc.Features.HasAge = true
		}
	}
}

// dimension 是一个区间维度的采样：values 只在 present 为 true 的位置有意义。
type dimension struct {
	values  []float64
	present []bool
}

func collect(cands []*core.ScoredCandidate, key string) *dimension {
	d := &dimension{
		values:  make([]float64, len(cands)),
		present: make([]bool, len(cands)),
	}
	for i, sc := range cands {
		if v, ok := sc.Candidate.Signal(key); ok {
			d.values[i] = v
			d.present[i] = true
		}
	}
	return d
}

// invert 对价格维度取反（max - price），使"更便宜"映射到更大的值。
func invert(d *dimension) {
	max, ok := maxPresent(d)
	if !ok {
		return
	}
	for i := range d.values {
		if d.present[i] {
			d.values[i] = max - d.values[i]
		}
	}
}

// normalize 返回每个位置的归一化值。缺失位置按维度最小值对待；
// 维度内无方差（或全部缺失）时统一返回中性 0.5。
func normalize(d *dimension) []float64 {
	out := make([]float64, len(d.values))

	min, max, any := 0.0, 0.0, false
	for i, v := range d.values {
		if !d.present[i] {
			continue
		}
		if !any || v < min {
			min = v
		}
		if !any || v > max {
			max = v
		}
		any = true
	}

	if !any || max == min {
		for i := range out {
			out[i] = neutral
		}
		return out
	}

	span := max - min
	for i, v := range d.values {
		if !d.present[i] {
			v = min
		}
		n := (v - min) / span
		if n < 0 {
			n = 0
		} else if n > 1 {
			n = 1
		}
		out[i] = n
	}
	return out
}

func maxPresent(d *dimension) (float64, bool) {
	max, any := 0.0, false
	for i, v := range d.values {
		if !d.present[i] {
			continue
		}
		if !any || v > max {
			max = v
		}
		any = true
	}
	return max, any
}

// categoryAffinity 计算候选类目与目标类目集的重合度。
func categoryAffinity(categories, targets []string) float64 {
	if len(targets) == 0 {
		return neutral
	}
	if len(categories) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		set[c] = struct{}{}
	}
	hit := 0
	for _, t := range targets {
		if _, ok := set[t]; ok {
			hit++
		}
	}
	return float64(hit) / float64(len(targets))
}

// customScore 透传已归一化的自定义分，缺失按最差值 0 处理。
func customScore(c *core.Candidate) float64 {
	v, ok := c.Signal(core.SignalCustom)
	if !ok {
		return 0
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
