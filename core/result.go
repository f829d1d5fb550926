package core

import "time"

// ResultItem 是结果中的一条 (候选 ID, 分数)。
type ResultItem struct {
	CandidateID string  `json:"candidate_id"`
	Score       float64 `json:"score"`
}

// RecommendationResult 是一次推荐调用的有序结果。
// 由编排器在缓存 miss 时生成，此后只读；在缓存中存活至多 cache_duration。
type RecommendationResult struct {
	ConfigCode  string       `json:"config_code"`
	Items       []ResultItem `json:"items"`
	GeneratedAt time.Time    `json:"generated_at"`
	ExpiresAt   time.Time    `json:"expires_at"`
}

// Expired 判断结果在 now 时刻是否已过期。过期结果按 miss 处理，不提供陈旧数据。
func (r *RecommendationResult) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}
