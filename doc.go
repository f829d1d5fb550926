// Package shoprec 是一个电商商品推荐打分与排序引擎（Shop Recommender）。
//
// 设计要点：
// - Pipeline-first: 推荐逻辑由 Node 串联（Extract → Score → Filter → Rank）
// - Config-as-data: 算法差异体现为配置里的权重侧写，打分引擎是封闭输入上的纯函数
// - Labels-first: 剔除原因与打分来源全链路透传，支持 explain / 观测
package shoprec

import (
	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/engine"
	"github.com/rushteam/shoprec/pipeline"
)

// 轻量 facade：便于用户直接 import "shoprec" 使用核心抽象。
type Engine = engine.Engine
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

type Candidate = core.Candidate
type RecommendContext = core.RecommendContext
type RecommendationConfig = core.RecommendationConfig
type RecommendationResult = core.RecommendationResult

const (
	KindExtract = pipeline.KindExtract
	KindScore   = pipeline.KindScore
	KindFilter  = pipeline.KindFilter
	KindRank    = pipeline.KindRank
)
