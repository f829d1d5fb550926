package core

// RecommendContext 承载一次推荐请求的用户/场景信息，贯穿整个链路透传。
//
// UserID / ProductID / CategoryID / Locale 共同参与缓存 key 构造
// （缺席的维度以空串占位，保证 key 确定性）。
type RecommendContext struct {
	UserID     string // 请求用户（可为空，如匿名首页）
	ProductID  string // 场景商品（如详情页"相似推荐"）
	CategoryID string // 场景类目（如类目页）
	Locale     string

	// TargetCategories 是类目亲和度的目标集合：
	// 候选类目与它的重合度构成 category 特征（完全重合 1.0，无重合 0.0）。
	// CategoryID 非空时会被并入目标集合。
	TargetCategories []string

	// Params 请求级上下文参数（实验分组、设备信息等），引擎不解释，
	// 仅透传给 CEL 排除规则使用。
	Params map[string]any
}

// AffinityCategories 返回类目亲和度的完整目标集合（TargetCategories + CategoryID）。
func (rctx *RecommendContext) AffinityCategories() []string {
	if rctx == nil {
		return nil
	}
	out := append([]string(nil), rctx.TargetCategories...)
	if rctx.CategoryID != "" {
		seen := false
		for _, c := range out {
			if c == rctx.CategoryID {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, rctx.CategoryID)
		}
	}
	return out
}
