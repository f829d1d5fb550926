package core

import "context"

// ConfigStore 是推荐配置存储协作方接口。
//
// 引擎只通过 Resolver 读取，唯一的写操作是 SetDefault。
//
// SetDefault 的原子性约束：清除旧默认与设置新默认必须是一个不可分割的
// 单元，任何并发读者观察到的默认配置数量始终恰好为一（内存实现用单把
// 写锁保证，数据库实现对应单事务 + 行锁）。
type ConfigStore interface {
	// List 返回全部配置快照（含未激活的）
	List(ctx context.Context) ([]*RecommendationConfig, error)

	// GetByCode 按唯一编码读取配置；不存在时返回 CONFIG_NOT_FOUND
	GetByCode(ctx context.Context, code string) (*RecommendationConfig, error)

	// Put 新增或整体替换一份配置；写入前做 Validate，
	// 编辑已有配置会使其 Version 递增
	Put(ctx context.Context, cfg *RecommendationConfig) error

	// SetDefault 原子地把 id 指定的配置设为唯一默认；
	// 配置不存在返回 CONFIG_NOT_FOUND，未激活返回 INVALID_CONFIG
	SetDefault(ctx context.Context, id string) error
}
