package engine

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/rushteam/shoprec/cache"
	"github.com/rushteam/shoprec/config"
	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/feature"
	"github.com/rushteam/shoprec/filter"
	"github.com/rushteam/shoprec/pipeline"
	"github.com/rushteam/shoprec/rank"
	"github.com/rushteam/shoprec/score"
)

// Engine 是推荐编排器，对外暴露两个操作：
//   - Recommend：查询操作，"recommend(context, configCode?) → 有序结果"
//   - SetDefault：管理操作，原子切换唯一默认配置
//
// 数据流：Resolver 选配置 → 缓存查 → [miss] 目录取候选 → 信号补充 →
// Extract → Score → Filter → Rank → 缓存存 → 返回。
//
// 引擎按调用无状态（缓存与默认配置切换除外）；打分内部没有阻塞 I/O，
// 目录/缓存访问都发生在编排边缘，可配置短超时，引擎层不做重试。
type Engine struct {
	resolver *config.Resolver
	catalog  core.Catalog
	cache    *cache.ResultCache

	enrichers      []feature.Enricher
	maxConcurrent  int
	catalogTimeout time.Duration
	now            func() time.Time

	// 合并同 key 的并发 miss，避免惊群重算。
	// 即使没有合并，两个请求同时重算同一 key 也是可接受的（后写覆盖）。
	group singleflight.Group
}

// Option 引擎配置选项
type Option func(*Engine)

// WithEnricher 追加一个信号补充器（如 Feast 自定义分）。
func WithEnricher(e feature.Enricher) Option {
	return func(eng *Engine) {
		eng.enrichers = append(eng.enrichers, e)
	}
}

// WithMaxConcurrent 设置打分阶段的最大并发数。
func WithMaxConcurrent(n int) Option {
	return func(eng *Engine) {
		eng.maxConcurrent = n
	}
}

// WithCatalogTimeout 设置取候选的超时（0 表示不限制）。
func WithCatalogTimeout(d time.Duration) Option {
	return func(eng *Engine) {
		eng.catalogTimeout = d
	}
}

// WithNow 注入时钟，测试用。
func WithNow(now func() time.Time) Option {
	return func(eng *Engine) {
		eng.now = now
	}
}

func New(resolver *config.Resolver, catalog core.Catalog, resultCache *cache.ResultCache, opts ...Option) *Engine {
	eng := &Engine{
		resolver: resolver,
		catalog:  catalog,
		cache:    resultCache,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(eng)
	}
	return eng
}

// Recommend 执行一次推荐调用。code 为空时使用默认配置。
//
// 目录/配置存储失败原样上抛（不做静默空结果）；缓存故障按 miss 降级，
// 只牺牲延迟不牺牲正确性。
func (e *Engine) Recommend(ctx context.Context, rctx *core.RecommendContext, code string) (*core.RecommendationResult, error) {
	if rctx == nil {
		rctx = &core.RecommendContext{}
	}

	cfg, err := e.resolver.Resolve(ctx, code)
	if err != nil {
		return nil, err
	}

	key := e.cache.Key(cfg, rctx)
	if res, ok := e.cache.Get(ctx, key); ok {
		return res, nil
	}

	v, err, _ := e.group.Do(key, func() (interface{}, error) {
		return e.compute(ctx, rctx, cfg, key)
	})
	if err != nil {
		return nil, err
	}
	return v.(*core.RecommendationResult), nil
}

// SetDefault 原子地把 configID 指定的配置设为唯一默认；
// 目标配置未激活时拒绝。任何默认位翻转都必须走这一个操作。
func (e *Engine) SetDefault(ctx context.Context, configID string) error {
	return e.resolver.SetDefault(ctx, configID)
}

func (e *Engine) compute(ctx context.Context, rctx *core.RecommendContext, cfg *core.RecommendationConfig, key string) (*core.RecommendationResult, error) {
	cands, err := e.gather(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// 信号补充尽力而为：失败只导致对应信号缺失，不失败整个请求
	for _, enricher := range e.enrichers {
		_ = enricher.Enrich(ctx, rctx, cands)
	}

	flow, err := e.buildPipeline(cfg)
	if err != nil {
		return nil, err
	}

	ranked, err := flow.Run(ctx, rctx, cfg, core.WrapCandidates(cands))
	if err != nil {
		return nil, err
	}

	now := e.now()
	res := &core.RecommendationResult{
		ConfigCode:  cfg.Code,
		Items:       make([]core.ResultItem, 0, len(ranked)),
		GeneratedAt: now,
		ExpiresAt:   now.Add(time.Duration(cfg.CacheMinutes) * time.Minute),
	}
	for _, sc := range ranked {
		res.Items = append(res.Items, core.ResultItem{
			CandidateID: sc.Candidate.ID,
			Score:       sc.Score,
		})
	}

	// 写缓存失败不影响本次结果
	_ = e.cache.Put(ctx, key, res, cfg.CacheMinutes)

	return res, nil
}

// gather 按配置的 target 关联限定范围取候选；目录失败以 STORAGE 上抛。
func (e *Engine) gather(ctx context.Context, cfg *core.RecommendationConfig) ([]*core.Candidate, error) {
	scope := core.CatalogScope{
		ProductIDs:  cfg.TargetProducts,
		CategoryIDs: cfg.TargetCategories,
	}

	cctx := ctx
	if e.catalogTimeout > 0 {
		var cancel context.CancelFunc
		cctx, cancel = context.WithTimeout(ctx, e.catalogTimeout)
		defer cancel()
	}

	cands, err := e.catalog.Candidates(cctx, scope)
	if err != nil {
		if core.GetDomainError(err) != nil {
			return nil, err
		}
		return nil, core.WrapStorageError(core.ModuleCatalog, err)
	}
	return cands, nil
}

func (e *Engine) buildPipeline(cfg *core.RecommendationConfig) (*pipeline.Pipeline, error) {
	// exclude_rule 在配置写入期已编译校验过；此处再失败说明配置漂移，
	// 仍以 INVALID_CONFIG 上抛，不带病打分
	filterNode, err := filter.NewFilterNode(cfg)
	if err != nil {
		return nil, err
	}
	return &pipeline.Pipeline{
		Nodes: []pipeline.Node{
			&feature.ExtractNode{Now: e.now},
			&score.ScoreNode{MaxConcurrent: e.maxConcurrent},
			filterNode,
			&rank.RankNode{},
		},
	}, nil
}
