// Package pool provides resource pooling.
package pool

import "errors"

// 池相关错误。
var (
	// ErrPoolClosed 池已关闭。
	ErrPoolClosed = errors.New("pool is closed")

	// ErrPoolNotFound 池不存在。
	ErrPoolNotFound = errors.New("pool not found")

	// ErrPoolAlreadyExists 池已存在。
	ErrPoolAlreadyExists = errors.New("pool already exists")

	// ErrInvalidPoolConfig 无效的池配置。
	ErrInvalidPoolConfig = errors.New("invalid pool config")

	// ErrManagerNotInitialized 池管理器未初始化。
	ErrManagerNotInitialized = errors.New("pool manager not initialized")

	// ErrPoolOverload 池已满。
	ErrPoolOverload = errors.New("pool overloaded")
)
