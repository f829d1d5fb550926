package feature

import (
	"context"

	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/feast"
	"github.com/rushteam/shoprec/pkg/utils"
)

// Enricher 在特征抽取前补充候选的原始信号（如预计算的自定义分）。
// 补充是尽力而为的：单个 Enricher 失败只意味着对应信号缺失
// （按最差值参与归一化），绝不使整个推荐请求失败。
type Enricher interface {
	// Name 返回补充器名称（用于日志/监控）
	Name() string

	// Enrich 就地补充候选集的信号
	Enrich(ctx context.Context, rctx *core.RecommendContext, cands []*core.Candidate) error
}

// FeastEnricher 从 Feast 在线特征库批量拉取候选商品的数值特征，
// 写入指定信号维度（默认 custom 自定义分）。
//
// 典型配置：Feature = "product_stats:custom_score"，EntityKey = "product_id"。
type FeastEnricher struct {
	Client feast.Client

	// Feature 要拉取的特征名，例如 "product_stats:custom_score"
	Feature string

	// EntityKey 实体键名，例如 "product_id"
	EntityKey string

	// Signal 写入的信号维度，空串时写 custom
	Signal string
}

var _ Enricher = (*FeastEnricher)(nil)

func (e *FeastEnricher) Name() string { return "enrich.feast" }

func (e *FeastEnricher) Enrich(ctx context.Context, _ *core.RecommendContext, cands []*core.Candidate) error {
	if e.Client == nil || e.Feature == "" || len(cands) == 0 {
		return nil
	}

	entityKey := e.EntityKey
	if entityKey == "" {
		entityKey = "product_id"
	}
	signal := e.Signal
	if signal == "" {
		signal = core.SignalCustom
	}

	rows := make([]map[string]interface{}, 0, len(cands))
	for _, c := range cands {
		rows = append(rows, map[string]interface{}{entityKey: c.ID})
	}

	resp, err := e.Client.GetOnlineFeatures(ctx, &feast.GetOnlineFeaturesRequest{
		Features:   []string{e.Feature},
		EntityRows: rows,
	})
	if err != nil {
		return err
	}
	if len(resp.FeatureVectors) != len(cands) {
		return nil
	}

	for i, fv := range resp.FeatureVectors {
		v, ok := fv.Values[e.Feature]
		if !ok {
			continue
		}
		c := cands[i]
		c.SetSignal(signal, v)
		c.PutLabel("signal_"+signal, utils.Label{Value: e.Feature, Source: "enrich"})
	}
	return nil
}

// StaticEnricher 用固定映射补充信号，测试与离线回放用。
type StaticEnricher struct {
	Signal string
	Values map[string]float64 // candidate ID -> 信号值
}

var _ Enricher = (*StaticEnricher)(nil)

func (e *StaticEnricher) Name() string { return "enrich.static" }

func (e *StaticEnricher) Enrich(_ context.Context, _ *core.RecommendContext, cands []*core.Candidate) error {
	signal := e.Signal
	if signal == "" {
		signal = core.SignalCustom
	}
	for _, c := range cands {
		if v, ok := e.Values[c.ID]; ok {
			c.SetSignal(signal, v)
		}
	}
	return nil
}
