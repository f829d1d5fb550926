package core

import (
	"time"

	"github.com/rushteam/shoprec/pkg/utils"
)

// 信号维度 key 常量：Candidate.Signals 的约定键名。
// 缺失的 key 表示该信号缺失（参与归一化时按最差值处理，不会被静默丢弃）。
const (
	SignalPrice      = "price"      // 原始价格
	SignalRating     = "rating"     // 评分
	SignalPopularity = "popularity" // 热度计数（销量/点击等）
	SignalCustom     = "custom"     // 预计算的自定义分，已归一化到 [0,1]
)

// Candidate 是一次推荐调用中的打分对象（通常是一个商品）。
// 由外部商品目录按调用物化，不在引擎内持久化。
//
// Signals 承载原始信号值；LastActiveAt 为最近活跃时间（零值表示缺失）；
// InStock / Active 仅供过滤阶段使用，不参与打分。
type Candidate struct {
	ID           string
	Signals      map[string]float64
	LastActiveAt time.Time
	Categories   []string
	InStock      bool
	Active       bool
	Labels       map[string]utils.Label
}

func NewCandidate(id string) *Candidate {
	return &Candidate{
		ID:      id,
		Signals: make(map[string]float64),
		Labels:  make(map[string]utils.Label),
	}
}

// Signal 读取一个原始信号值，第二个返回值表示该信号是否存在。
func (c *Candidate) Signal(key string) (float64, bool) {
	if c.Signals == nil {
		return 0, false
	}
	v, ok := c.Signals[key]
	return v, ok
}

// SetSignal 写入一个原始信号值。
func (c *Candidate) SetSignal(key string, v float64) {
	if c.Signals == nil {
		c.Signals = make(map[string]float64)
	}
	c.Signals[key] = v
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (c *Candidate) PutLabel(key string, lbl utils.Label) {
	if c.Labels == nil {
		c.Labels = make(map[string]utils.Label)
	}
	if old, ok := c.Labels[key]; ok {
		c.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	c.Labels[key] = lbl
}

// Clone 返回候选的深拷贝。目录实现按调用物化候选时返回拷贝，
// 避免多个并发请求共享同一份 Signals/Labels。
func (c *Candidate) Clone() *Candidate {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Signals = make(map[string]float64, len(c.Signals))
	for k, v := range c.Signals {
		cp.Signals[k] = v
	}
	cp.Categories = append([]string(nil), c.Categories...)
	cp.Labels = make(map[string]utils.Label, len(c.Labels))
	for k, v := range c.Labels {
		cp.Labels[k] = v
	}
	return &cp
}

// FeatureVector 是一个候选的归一化特征向量。
//
// Price/Rating/Popularity/Category/Custom 均已落在 [0,1]；
// AgeDays 保留原始天数（衰减在打分阶段应用），HasAge 标记其是否缺失。
type FeatureVector struct {
	Price      float64
	Rating     float64
	Popularity float64
	Category   float64
	Custom     float64
	AgeDays    float64
	HasAge     bool
}

// ScoredCandidate 是推荐链路中的统一承载结构（候选 + 特征 + 分数），
// 依次流经 Extract → Score → Filter → Rank 各阶段。
// Features 与 Recency 子分保留下来用于解释与测试，运行期并非必需。
type ScoredCandidate struct {
	Candidate *Candidate
	Features  FeatureVector
	Recency   float64 // decay_factor^AgeDays，打分阶段填充
	Score     float64 // 复合分，落在 [0,1]
}

// NewScoredCandidate 把候选包装为链路承载结构（分数为 0，特征未抽取）。
func NewScoredCandidate(c *Candidate) *ScoredCandidate {
	return &ScoredCandidate{Candidate: c}
}

// WrapCandidates 批量包装商品目录返回的候选集。
func WrapCandidates(cands []*Candidate) []*ScoredCandidate {
	out := make([]*ScoredCandidate, 0, len(cands))
	for _, c := range cands {
		if c == nil {
			continue
		}
		out = append(out, NewScoredCandidate(c))
	}
	return out
}
