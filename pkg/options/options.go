// Package options defines the generic options interface and common utilities.
package options

import (
	"strings"

	"github.com/spf13/pflag"
)

// Join 以 "." 连接前缀并保留末尾分隔符, 用于拼接
// "milvus.address" 这类标志名。空前缀返回空串。
func Join(prefixes ...string) string {
	joined := strings.Join(prefixes, ".")
	if joined != "" {
		joined += "."
	}
	return joined
}

// IOptions 组件配置的通用接口。
type IOptions interface {
	// Validate validates all the required options.
	Validate() []error

	// AddFlags adds flags related to given flagset.
	AddFlags(fs *pflag.FlagSet, prefixes ...string)
}
