package config

import (
	"github.com/rushteam/shoprec/core"
	"github.com/rushteam/shoprec/pkg/dsl"
)

// Validate 做完整的写入/加载期配置校验：
// 基础字段约束（core 层）加上 exclude_rule 的 CEL 编译检查。
// 通过校验的配置保证打分路径永远不会遇到畸形参数或规则解析失败。
func Validate(cfg *core.RecommendationConfig) error {
	if cfg == nil {
		return core.NewDomainError(core.ModuleConfig, core.ErrorCodeInvalidConfig, "config: nil config")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.ExcludeRule != "" {
		if _, err := dsl.Compile(cfg.ExcludeRule); err != nil {
			return core.NewDomainError(core.ModuleConfig, core.ErrorCodeInvalidConfig,
				"config: "+cfg.Code+": exclude_rule: "+err.Error())
		}
	}
	return nil
}
