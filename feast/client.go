package feast

import "context"

// Client 是 Feast Feature Store 的客户端接口。
//
// shoprec 只消费在线特征（Online Store）：为候选商品拉取预计算的
// 自定义分等信号。离线特征/物化等训练侧能力不在引擎职责内。
//
// 参考：https://github.com/feast-dev/feast
type Client interface {
	// GetOnlineFeatures 获取在线特征（用于实时打分）
	//
	// 参数：
	//   - Features: 特征名称列表，例如 ["product_stats:custom_score"]
	//   - EntityRows: 实体行，例如 [{"product_id": "sku-1"}]
	//
	// 返回每个实体行对应的特征向量。
	GetOnlineFeatures(ctx context.Context, req *GetOnlineFeaturesRequest) (*GetOnlineFeaturesResponse, error)

	// Close 关闭客户端连接
	Close() error
}

// GetOnlineFeaturesRequest 获取在线特征请求
type GetOnlineFeaturesRequest struct {
	// Features 特征名称列表
	Features []string

	// EntityRows 实体行，与响应中的 FeatureVectors 一一对应
	EntityRows []map[string]interface{}

	// Project 项目名称（可选，缺省用客户端配置的项目）
	Project string
}

// GetOnlineFeaturesResponse 获取在线特征响应
type GetOnlineFeaturesResponse struct {
	// FeatureVectors 特征向量列表，每个元素对应一个实体行
	FeatureVectors []FeatureVector
}

// FeatureVector 一个实体行的特征取值
type FeatureVector struct {
	// Values 特征值，key 为特征名称
	Values map[string]float64

	// EntityRow 对应的请求实体行
	EntityRow map[string]interface{}
}
