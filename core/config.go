package core

import "fmt"

// AlgorithmType 是推荐配置声明的算法类型。
//
// 注意：它只是配置作者用来说明权重取向的元数据标签，引擎对所有类型
// 一视同仁（同一个加权求和公式），不存在按类型分支的打分逻辑。
type AlgorithmType string

const (
	AlgorithmCollaborative AlgorithmType = "collaborative"
	AlgorithmContentBased  AlgorithmType = "content_based"
	AlgorithmPopularity    AlgorithmType = "popularity"
	AlgorithmHybrid        AlgorithmType = "hybrid"
)

func (t AlgorithmType) valid() bool {
	switch t {
	case AlgorithmCollaborative, AlgorithmContentBased, AlgorithmPopularity, AlgorithmHybrid:
		return true
	}
	return false
}

// Weights 是六个因子权重的固定形态记录（而非动态 map），
// 这样打分引擎可以保持为封闭输入集上的纯函数。
type Weights struct {
	Price      float64 `yaml:"price" json:"price"`
	Rating     float64 `yaml:"rating" json:"rating"`
	Popularity float64 `yaml:"popularity" json:"popularity"`
	Recency    float64 `yaml:"recency" json:"recency"`
	Category   float64 `yaml:"category" json:"category"`
	Custom     float64 `yaml:"custom" json:"custom"`
}

// Total 返回六个权重之和。
func (w Weights) Total() float64 {
	return w.Price + w.Rating + w.Popularity + w.Recency + w.Category + w.Custom
}

// RecommendationConfig 是一份命名的打分配置（profile）。
// 由管理端创建/编辑（不在本引擎职责内），引擎只读消费；
// 唯一的写路径是通过 ConfigStore.SetDefault 切换默认配置。
type RecommendationConfig struct {
	ID        string        `yaml:"id" json:"id"`
	Code      string        `yaml:"code" json:"code"` // 唯一编码，调用方按此指定配置
	Name      string        `yaml:"name" json:"name"`
	Algorithm AlgorithmType `yaml:"algorithm_type" json:"algorithm_type"`

	MinScore    float64 `yaml:"min_score" json:"min_score"`       // 入选分数下限
	MaxResults  int     `yaml:"max_results" json:"max_results"`   // 结果数量上限，必须为正
	DecayFactor float64 `yaml:"decay_factor" json:"decay_factor"` // 每日衰减乘数，(0,1]
	Weights     Weights `yaml:"weights" json:"weights"`           // 六因子权重，均 >= 0

	ExcludeOutOfStock bool   `yaml:"exclude_out_of_stock" json:"exclude_out_of_stock"`
	ExcludeInactive   bool   `yaml:"exclude_inactive" json:"exclude_inactive"`
	ExcludeRule       string `yaml:"exclude_rule,omitempty" json:"exclude_rule,omitempty"` // 可选 CEL 排除规则

	CacheMinutes int  `yaml:"cache_duration" json:"cache_duration"` // 结果缓存分钟数，>= 0
	Active       bool `yaml:"is_active" json:"is_active"`
	Default      bool `yaml:"is_default" json:"is_default"`
	SortOrder    int  `yaml:"sort_order" json:"sort_order"` // 激活配置间的兜底排序

	// Version 随每次编辑递增，参与缓存 key 构造：
	// 配置变更后旧缓存条目自然失联，按 TTL 过期。
	Version int64 `yaml:"version" json:"version"`

	// 候选生成范围（只影响取候选，不影响打分）
	TargetProducts   []string `yaml:"target_products,omitempty" json:"target_products,omitempty"`
	TargetCategories []string `yaml:"target_categories,omitempty" json:"target_categories,omitempty"`
}

func invalidConfig(format string, args ...any) error {
	return NewDomainError(ModuleConfig, ErrorCodeInvalidConfig,
		"config: "+fmt.Sprintf(format, args...))
}

// Validate 做写入/加载期校验，保证引擎永远不会对出格的配置打分。
// 打分期不再重复校验：权重全零等退化情况按文档化的兜底处理。
func (c *RecommendationConfig) Validate() error {
	if c.Code == "" {
		return invalidConfig("code is required")
	}
	if !c.Algorithm.valid() {
		return invalidConfig("unknown algorithm_type %q", c.Algorithm)
	}
	if c.MaxResults <= 0 {
		return invalidConfig("%s: max_results must be positive, got %d", c.Code, c.MaxResults)
	}
	if c.DecayFactor <= 0 || c.DecayFactor > 1 {
		return invalidConfig("%s: decay_factor must be in (0,1], got %v", c.Code, c.DecayFactor)
	}
	if c.CacheMinutes < 0 {
		return invalidConfig("%s: cache_duration must be >= 0, got %d", c.Code, c.CacheMinutes)
	}
	for name, w := range map[string]float64{
		"price":      c.Weights.Price,
		"rating":     c.Weights.Rating,
		"popularity": c.Weights.Popularity,
		"recency":    c.Weights.Recency,
		"category":   c.Weights.Category,
		"custom":     c.Weights.Custom,
	} {
		if w < 0 {
			return invalidConfig("%s: %s_weight must be >= 0, got %v", c.Code, name, w)
		}
	}
	// 归一化输入下复合分的上界是 1，min_score 超过 1 的配置永远选不出结果
	if c.MinScore > 1 {
		return invalidConfig("%s: min_score %v exceeds the attainable maximum score 1", c.Code, c.MinScore)
	}
	return nil
}

// CacheTTLSeconds 返回结果缓存的 TTL 秒数。
func (c *RecommendationConfig) CacheTTLSeconds() int {
	return c.CacheMinutes * 60
}

// Clone 返回配置的深拷贝，供存储实现返回快照、避免调用方改写共享状态。
func (c *RecommendationConfig) Clone() *RecommendationConfig {
	if c == nil {
		return nil
	}
	cp := *c
	cp.TargetProducts = append([]string(nil), c.TargetProducts...)
	cp.TargetCategories = append([]string(nil), c.TargetCategories...)
	return &cp
}
