package cache

import (
	"context"
	"encoding/json"
	"hash/fnv"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rushteam/shoprec/core"
)

// DefaultPrefix 是结果缓存 key 的默认前缀。
const DefaultPrefix = "rec:result:"

// Key 构造一条确定性的缓存 key：
// 配置编码 + 配置版本 + 上下文标识（用户/商品/类目/locale）
// + 目标类目集（排序后连接）+ 请求参数摘要。
// 缺席的维度以空串占位，保证相同输入必得相同 key。
// 配置版本折进 key 里：配置编辑后旧条目失联，随 TTL 过期。
//
// 目标类目参与类目亲和度特征、params 参与 CEL 排除规则求值，
// 两者不同的请求不能共用缓存条目。
func Key(prefix string, cfg *core.RecommendationConfig, rctx *core.RecommendContext) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString(cfg.Code)
	b.WriteString(":v")
	b.WriteString(strconv.FormatInt(cfg.Version, 10))
	for _, part := range [...]string{rctx.UserID, rctx.ProductID, rctx.CategoryID, rctx.Locale} {
		b.WriteByte(':')
		b.WriteString(part)
	}
	b.WriteByte(':')
	b.WriteString(canonicalCategories(rctx.TargetCategories))
	b.WriteByte(':')
	b.WriteString(paramsDigest(rctx.Params))
	return b.String()
}

// canonicalCategories 返回目标类目集的规范形式：排序后以逗号连接，
// 类目相同、顺序不同的请求落到同一 key。
func canonicalCategories(cats []string) string {
	if len(cats) == 0 {
		return ""
	}
	sorted := append([]string(nil), cats...)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}

// paramsDigest 返回请求参数的短摘要。JSON 序列化按 key 排序，结果确定；
// 无参数时为空串。
func paramsDigest(params map[string]any) string {
	if len(params) == 0 {
		return ""
	}
	data, err := json.Marshal(params)
	if err != nil {
		return strconv.Itoa(len(params))
	}
	h := fnv.New64a()
	h.Write(data)
	return strconv.FormatUint(h.Sum64(), 16)
}

// ResultCache 按 (配置, 上下文) key 缓存推荐结果，TTL 由配置的
// cache_duration 决定。底层是任意 core.Store（内存或 Redis）。
//
// 读写必须能承受多个并发推荐请求；两个请求同时 miss 同一个 key、
// 都去重算是可接受的（后写覆盖，同一 TTL 窗口内结果幂等）。
// 缓存存储故障一律按 miss 处理：缓存故障只牺牲延迟，不牺牲正确性。
type ResultCache struct {
	Store  core.Store
	Prefix string

	// Now 测试可注入；nil 时使用 time.Now。
	Now func() time.Time
}

func New(st core.Store) *ResultCache {
	return &ResultCache{Store: st, Prefix: DefaultPrefix}
}

func (c *ResultCache) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// Key 构造本缓存前缀下的确定性 key。
func (c *ResultCache) Key(cfg *core.RecommendationConfig, rctx *core.RecommendContext) string {
	return Key(c.Prefix, cfg, rctx)
}

// Get 读取缓存结果。未命中、已过期、反序列化失败、存储故障都返回 miss。
// 过期条目即使仍在底层存储里也绝不回放（TTL 之外的双保险）。
func (c *ResultCache) Get(ctx context.Context, key string) (*core.RecommendationResult, bool) {
	data, err := c.Store.Get(ctx, key)
	if err != nil {
		return nil, false
	}

	var res core.RecommendationResult
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, false
	}
	if res.Expired(c.now()) {
		return nil, false
	}
	return &res, true
}

// Put 写入结果，TTL 为分钟数；ttlMinutes <= 0 表示不缓存（直接跳过）。
// 写入失败不影响调用方：结果已经算出来了。
func (c *ResultCache) Put(ctx context.Context, key string, res *core.RecommendationResult, ttlMinutes int) error {
	if ttlMinutes <= 0 {
		return nil
	}
	data, err := json.Marshal(res)
	if err != nil {
		return err
	}
	if err := c.Store.Set(ctx, key, data, ttlMinutes*60); err != nil {
		return core.WrapStorageError(core.ModuleCache, err)
	}
	return nil
}

// Invalidate 主动删除一条缓存。配置编辑后调用是推荐策略而非硬性要求：
// 即使不调用，cache_duration 也为陈旧度兜了底。
func (c *ResultCache) Invalidate(ctx context.Context, key string) error {
	if err := c.Store.Delete(ctx, key); err != nil {
		return core.WrapStorageError(core.ModuleCache, err)
	}
	return nil
}
