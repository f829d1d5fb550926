package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
//   - 可选携带底层错误（Err），支持 errors.Unwrap 链
//
// 使用场景：
//   - 配置错误：CONFIG_NOT_FOUND, NO_ACTIVE_CONFIG, INVALID_CONFIG
//   - 协作方错误：STORAGE（商品目录 / 配置存储 / 缓存失败）
//   - Store 错误：NOT_FOUND, NOT_SUPPORTED
type DomainError struct {
	Code    string // 错误代码（如 "CONFIG_NOT_FOUND"）
	Message string // 错误消息
	Module  string // 模块名称（如 "config", "catalog", "cache"）
	Err     error  // 底层错误（可为 nil）
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// WrapStorageError 将协作方（目录/配置存储/缓存）的底层错误包装为 STORAGE 错误。
// 原始错误通过 Unwrap 保留，调用方可继续向上透传。
func WrapStorageError(module string, err error) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    ErrorCodeStorage,
		Message: module + ": storage failure",
		Err:     err,
	}
}

// GetDomainError 获取 DomainError，如果不是则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr
	}
	return nil
}

// 错误代码常量
const (
	ErrorCodeConfigNotFound = "CONFIG_NOT_FOUND" // 指定 code 无可用配置
	ErrorCodeNoActiveConfig = "NO_ACTIVE_CONFIG" // 既无默认配置也无任何激活配置
	ErrorCodeInvalidConfig  = "INVALID_CONFIG"   // 配置校验失败（写入/加载期）
	ErrorCodeStorage        = "STORAGE"          // 协作方存储失败
	ErrorCodeNotFound       = "NOT_FOUND"        // 资源不存在
	ErrorCodeNotSupported   = "NOT_SUPPORTED"    // 操作不支持
)

// 模块名称常量
const (
	ModuleConfig  = "config"  // 配置模块
	ModuleCatalog = "catalog" // 商品目录模块
	ModuleCache   = "cache"   // 结果缓存模块
	ModuleStore   = "store"   // 存储模块
	ModuleEngine  = "engine"  // 编排模块
)

func hasCode(err error, code string) bool {
	if err == nil {
		return false
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == code
	}
	return false
}

// IsConfigNotFound 检查错误是否为 CONFIG_NOT_FOUND
func IsConfigNotFound(err error) bool {
	return hasCode(err, ErrorCodeConfigNotFound)
}

// IsNoActiveConfig 检查错误是否为 NO_ACTIVE_CONFIG
func IsNoActiveConfig(err error) bool {
	return hasCode(err, ErrorCodeNoActiveConfig)
}

// IsInvalidConfig 检查错误是否为 INVALID_CONFIG
func IsInvalidConfig(err error) bool {
	return hasCode(err, ErrorCodeInvalidConfig)
}

// IsStorage 检查错误是否为协作方存储失败
func IsStorage(err error) bool {
	return hasCode(err, ErrorCodeStorage)
}

// IsNotFound 检查错误是否为 NOT_FOUND
func IsNotFound(err error) bool {
	return hasCode(err, ErrorCodeNotFound)
}

// IsNotSupported 检查错误是否为 NOT_SUPPORTED
func IsNotSupported(err error) bool {
	return hasCode(err, ErrorCodeNotSupported)
}
