package errors

import (
	"net/http"
)

// ============================================================================
// Success
// ============================================================================

// OK represents a successful operation.
var OK = Register(&Errno{
	Code:      0,
	HTTP:      http.StatusOK,
	MessageEN: "Success",
	MessageZH: "成功",
})

// ============================================================================
// Request Errors (Category: 01)
// ============================================================================

var (
	// ErrBadRequest indicates a malformed request.
	ErrBadRequest = Register(&Errno{
		Code:      MakeCode(ServiceCommon, CategoryRequest, 0),
		HTTP:      http.StatusBadRequest,
		MessageEN: "Bad request",
		MessageZH: "请求错误",
	})

	// ErrInvalidParam indicates an invalid parameter.
	ErrInvalidParam = Register(&Errno{
		Code:      MakeCode(ServiceCommon, CategoryRequest, 1),
		HTTP:      http.StatusBadRequest,
		MessageEN: "Invalid parameter",
		MessageZH: "参数无效",
	})

	// ErrMissingParam indicates a missing required parameter.
	ErrMissingParam = Register(&Errno{
		Code:      MakeCode(ServiceCommon, CategoryRequest, 2),
		HTTP:      http.StatusBadRequest,
		MessageEN: "Missing required parameter",
		MessageZH: "缺少必需参数",
	})

	// ErrValidationFailed indicates validation failure.
	ErrValidationFailed = Register(&Errno{
		Code:      MakeCode(ServiceCommon, CategoryRequest, 3),
		HTTP:      http.StatusBadRequest,
		MessageEN: "Validation failed",
		MessageZH: "验证失败",
	})

	// ErrRequestTooLarge indicates the request body is too large.
	ErrRequestTooLarge = Register(&Errno{
		Code:      MakeCode(ServiceCommon, CategoryRequest, 4),
		HTTP:      http.StatusRequestEntityTooLarge,
		MessageEN: "Request entity too large",
		MessageZH: "请求体过大",
	})
)

// ============================================================================
// Resource Errors (Category: 04)
// ============================================================================

var (
	// ErrNotFound indicates the resource is not found.
	ErrNotFound = Register(&Errno{
		Code:      MakeCode(ServiceCommon, CategoryResource, 0),
		HTTP:      http.StatusNotFound,
		MessageEN: "Resource not found",
		MessageZH: "资源不存在",
	})

	// ErrRecordNotFound indicates the record is not found.
	ErrRecordNotFound = Register(&Errno{
		Code:      MakeCode(ServiceCommon, CategoryResource, 1),
		HTTP:      http.StatusNotFound,
		MessageEN: "Record not found",
		MessageZH: "记录不存在",
	})

	// ErrFileNotFound indicates the file is not found.
	ErrFileNotFound = Register(&Errno{
		Code:      MakeCode(ServiceCommon, CategoryResource, 2),
		HTTP:      http.StatusNotFound,
		MessageEN: "File not found",
		MessageZH: "文件不存在",
	})

	// ErrRouteNotFound indicates the route is not found.
	ErrRouteNotFound = Register(&Errno{
		Code:      MakeCode(ServiceCommon, CategoryResource, 3),
		HTTP:      http.StatusNotFound,
		MessageEN: "Route not found",
		MessageZH: "路由不存在",
	})
)

// ============================================================================
// Conflict Errors (Category: 05)
// ============================================================================

var (
	// ErrConflict indicates a resource conflict.
	ErrConflict = Register(&Errno{
		Code:      MakeCode(ServiceCommon, CategoryConflict, 0),
		HTTP:      http.StatusConflict,
		MessageEN: "Resource conflict",
		MessageZH: "资源冲突",
	})

	// ErrAlreadyExists indicates the resource already exists.
	ErrAlreadyExists = Register(&Errno{
		Code:      MakeCode(ServiceCommon, CategoryConflict, 1),
		HTTP:      http.StatusConflict,
		MessageEN: "Resource already exists",
		MessageZH: "资源已存在",
	})
)

// ============================================================================
// Internal Errors (Category: 07)
// ============================================================================

var (
	// ErrInternal indicates an internal server error.
	ErrInternal = Register(&Errno{
		Code:      MakeCode(ServiceCommon, CategoryInternal, 0),
		HTTP:      http.StatusInternalServerError,
		MessageEN: "Internal server error",
		MessageZH: "服务器内部错误",
	})

	// ErrUnknown indicates an unknown error.
	ErrUnknown = Register(&Errno{
		Code:      MakeCode(ServiceCommon, CategoryInternal, 1),
		HTTP:      http.StatusInternalServerError,
		MessageEN: "Unknown error",
		MessageZH: "未知错误",
	})

	// ErrNotImplemented indicates the feature is not implemented.
	ErrNotImplemented = Register(&Errno{
		Code:      MakeCode(ServiceCommon, CategoryInternal, 2),
		HTTP:      http.StatusNotImplemented,
		MessageEN: "Not implemented",
		MessageZH: "功能未实现",
	})
)

// ============================================================================
// Database Errors (Category: 08)
// ============================================================================

var (
	// ErrDatabase indicates a database error.
	ErrDatabase = Register(&Errno{
		Code:      MakeCode(ServiceCommon, CategoryDatabase, 0),
		HTTP:      http.StatusInternalServerError,
		MessageEN: "Database error",
		MessageZH: "数据库错误",
	})

	// ErrDBConnection indicates database connection failure.
	ErrDBConnection = Register(&Errno{
		Code:      MakeCode(ServiceCommon, CategoryDatabase, 1),
		HTTP:      http.StatusInternalServerError,
		MessageEN: "Database connection failed",
		MessageZH: "数据库连接失败",
	})

	// ErrDBTransaction indicates database transaction failure.
	ErrDBTransaction = Register(&Errno{
		Code:      MakeCode(ServiceCommon, CategoryDatabase, 2),
		HTTP:      http.StatusInternalServerError,
		MessageEN: "Database transaction failed",
		MessageZH: "数据库事务失败",
	})
)

// ============================================================================
// Cache Errors (Category: 09)
// ============================================================================

var (
	// ErrCache indicates a cache error.
	ErrCache = Register(&Errno{
		Code:      MakeCode(ServiceCommon, CategoryCache, 0),
		HTTP:      http.StatusInternalServerError,
		MessageEN: "Cache error",
		MessageZH: "缓存错误",
	})

	// ErrCacheConnection indicates cache connection failure.
	ErrCacheConnection = Register(&Errno{
		Code:      MakeCode(ServiceCommon, CategoryCache, 1),
		HTTP:      http.StatusInternalServerError,
		MessageEN: "Cache connection failed",
		MessageZH: "缓存连接失败",
	})
)

// ============================================================================
// Network Errors (Category: 10)
// ============================================================================

var (
	// ErrNetwork indicates a network error.
	ErrNetwork = Register(&Errno{
		Code:      MakeCode(ServiceCommon, CategoryNetwork, 0),
		HTTP:      http.StatusBadGateway,
		MessageEN: "Network error",
		MessageZH: "网络错误",
	})

	// ErrServiceUnavailable indicates the service is unavailable.
	ErrServiceUnavailable = Register(&Errno{
		Code:      MakeCode(ServiceCommon, CategoryNetwork, 1),
		HTTP:      http.StatusServiceUnavailable,
		MessageEN: "Service unavailable",
		MessageZH: "服务不可用",
	})
)

// ============================================================================
// Timeout Errors (Category: 11)
// ============================================================================

var (
	// ErrTimeout indicates operation timeout.
	ErrTimeout = Register(&Errno{
		Code:      MakeCode(ServiceCommon, CategoryTimeout, 0),
		HTTP:      http.StatusGatewayTimeout,
		MessageEN: "Operation timeout",
		MessageZH: "操作超时",
	})

	// ErrRequestTimeout indicates request timeout.
	ErrRequestTimeout = Register(&Errno{
		Code:      MakeCode(ServiceCommon, CategoryTimeout, 1),
		HTTP:      http.StatusRequestTimeout,
		MessageEN: "Request timeout",
		MessageZH: "请求超时",
	})
)

// ============================================================================
// Configuration Errors (Category: 12)
// ============================================================================

var (
	// ErrConfig indicates a configuration error.
	ErrConfig = Register(&Errno{
		Code:      MakeCode(ServiceCommon, CategoryConfig, 0),
		HTTP:      http.StatusInternalServerError,
		MessageEN: "Configuration error",
		MessageZH: "配置错误",
	})

	// ErrConfigInvalid indicates invalid configuration.
	ErrConfigInvalid = Register(&Errno{
		Code:      MakeCode(ServiceCommon, CategoryConfig, 1),
		HTTP:      http.StatusInternalServerError,
		MessageEN: "Invalid configuration",
		MessageZH: "配置无效",
	})
)
