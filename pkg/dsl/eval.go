package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/shoprec/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
	celEnvErr  error
)

func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("candidate", cel.DynType),
			cel.Variable("ctx", cel.DynType),
		)
	})
	return celEnv, celEnvErr
}

// Rule 是一条已编译的排除规则，使用 CEL (Common Expression Language)。
// 表达式在配置校验期编译一次，运行期只执行，保证打分路径没有解析开销。
//
// 表达式语法（CEL 标准语法），可用变量：
//   - candidate.id / candidate.score / candidate.price / candidate.rating /
//     candidate.popularity / candidate.in_stock / candidate.active /
//     candidate.categories
//   - ctx.user_id / ctx.locale / ctx.params
//
// 示例：
//   - `candidate.price > 500.0 && !("sale" in candidate.categories)`
//   - `candidate.rating < 2.0`
//   - `ctx.locale == "de_DE" && "import" in candidate.categories`
type Rule struct {
	expr string
	prg  cel.Program
}

// Compile 编译一条排除规则。表达式必须返回布尔值：true 表示排除该候选。
// 编译失败应在配置写入/加载期被拒绝（INVALID_CONFIG），不会进入打分路径。
func Compile(expr string) (*Rule, error) {
	if expr == "" {
		return nil, fmt.Errorf("empty rule expression")
	}
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %v", issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	return &Rule{expr: expr, prg: prg}, nil
}

// Expr 返回规则的原始表达式。
func (r *Rule) Expr() string { return r.expr }

// Eval 对一个已打分候选执行规则，返回是否应排除。
func (r *Rule) Eval(sc *core.ScoredCandidate, rctx *core.RecommendContext) (bool, error) {
	out, _, err := r.prg.Eval(buildInput(sc, rctx))
	if err != nil {
		return false, fmt.Errorf("eval error: %w", err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("rule must return boolean, got %T", out.Value())
	}
	return result, nil
}

func buildInput(sc *core.ScoredCandidate, rctx *core.RecommendContext) map[string]interface{} {
	c := sc.Candidate

	candidate := map[string]interface{}{
		"id":         c.ID,
		"score":      sc.Score,
		"in_stock":   c.InStock,
		"active":     c.Active,
		"categories": c.Categories,
	}
	// 原始信号按约定键名展开，缺失的信号不可见（可用 `key in candidate` 探测）
	for k, v := range c.Signals {
		candidate[k] = v
	}

	ctxMap := map[string]interface{}{}
	if rctx != nil {
		ctxMap["user_id"] = rctx.UserID
		ctxMap["product_id"] = rctx.ProductID
		ctxMap["category_id"] = rctx.CategoryID
		ctxMap["locale"] = rctx.Locale
		if rctx.Params != nil {
			ctxMap["params"] = rctx.Params
		}
	}

	return map[string]interface{}{
		"candidate": candidate,
		"ctx":       ctxMap,
	}
}
