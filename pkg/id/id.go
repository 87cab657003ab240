// Package id 提供服务内统一的标识符生成能力。
//
// 请求记录使用 ULID(按时间可排序, 适合做任务流水号),
// 文档使用 UUID v4(与外部系统交换时无时间泄露)。
package id

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewRequestID 生成单调递增的 ULID 字符串, 用作异步请求 ID。
func NewRequestID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// NewRunID 生成评估运行 ID, 与请求 ID 同构。
func NewRunID() string {
	return NewRequestID()
}

// NewDocumentID 生成文档 UUID v4 字符串。
func NewDocumentID() string {
	return uuid.NewString()
}

// IsValidRequestID 校验 ULID 格式。
func IsValidRequestID(s string) bool {
	_, err := ulid.ParseStrict(s)
	return err == nil
}

// IsValidDocumentID 校验 UUID 格式。
func IsValidDocumentID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
