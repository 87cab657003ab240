// Package redis provides Redis configuration options.
package redis

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
)

// redactedPassword 序列化时替换真实密码。
const redactedPassword = "[REDACTED]"

// Options Redis 连接配置。
type Options struct {
	// Host 服务器地址。
	Host string `json:"host" mapstructure:"host"`

	// Port 服务器端口。
	Port int `json:"port" mapstructure:"port"`

	// Password 连接密码, 不参与 JSON 序列化。
	Password string `json:"-" mapstructure:"password"`

	// Database 数据库编号。
	Database int `json:"database" mapstructure:"database"`

	// MaxRetries 命令最大重试次数。
	MaxRetries int `json:"max-retries" mapstructure:"max-retries"`

	// PoolSize 连接池大小。
	PoolSize int `json:"pool-size" mapstructure:"pool-size"`

	// MinIdleConns 最小空闲连接数。
	MinIdleConns int `json:"min-idle-conns" mapstructure:"min-idle-conns"`

	// DialTimeout 建连超时。
	DialTimeout time.Duration `json:"dial-timeout" mapstructure:"dial-timeout"`

	// ReadTimeout 读超时。
	ReadTimeout time.Duration `json:"read-timeout" mapstructure:"read-timeout"`

	// WriteTimeout 写超时。
	WriteTimeout time.Duration `json:"write-timeout" mapstructure:"write-timeout"`

	// PoolTimeout 等待连接的超时。
	PoolTimeout time.Duration `json:"pool-timeout" mapstructure:"pool-timeout"`
}

// NewOptions creates a new Options object with default values.
func NewOptions() *Options {
	return &Options{
		Host:         "127.0.0.1",
		Port:         6379,
		MaxRetries:   3,
		PoolSize:     10,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolTimeout:  4 * time.Second,
	}
}

// MarshalJSON 序列化配置, 密码打码。
func (o *Options) MarshalJSON() ([]byte, error) {
	password := ""
	if o.Password != "" {
		password = redactedPassword
	}

	type alias Options
	return json.Marshal(struct {
		*alias
		Password string `json:"password"`
	}{alias: (*alias)(o), Password: password})
}

// String 返回打码后的可读描述, 可安全写入日志。
func (o *Options) String() string {
	password := ""
	if o.Password != "" {
		password = redactedPassword
	}
	return fmt.Sprintf("Redis{host=%s, port=%d, password=%s, database=%d}",
		o.Host, o.Port, password, o.Database)
}

// Validate checks if the options are valid.
// 密码优先取 REDIS_PASSWORD 环境变量, CLI 传密码会打印警告。
func (o *Options) Validate() error {
	if o.Password == "" {
		o.Password = os.Getenv("REDIS_PASSWORD")
	} else if os.Getenv("REDIS_PASSWORD") == "" {
		fmt.Fprintln(os.Stderr, "WARNING: Passing Redis password via CLI is insecure. Use REDIS_PASSWORD environment variable instead.")
	}
	return nil
}

// AddFlags adds flags for Redis options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Host, "redis.host", o.Host, "Redis host")
	fs.IntVar(&o.Port, "redis.port", o.Port, "Redis port")
	fs.StringVar(&o.Password, "redis.password", o.Password, "Redis password (prefer the REDIS_PASSWORD env var)")
	fs.IntVar(&o.Database, "redis.database", o.Database, "Redis database")
	fs.IntVar(&o.MaxRetries, "redis.max-retries", o.MaxRetries, "Redis max retries")
	fs.IntVar(&o.PoolSize, "redis.pool-size", o.PoolSize, "Redis pool size")
	fs.IntVar(&o.MinIdleConns, "redis.min-idle-conns", o.MinIdleConns, "Redis min idle connections")
	fs.DurationVar(&o.DialTimeout, "redis.dial-timeout", o.DialTimeout, "Redis dial timeout")
	fs.DurationVar(&o.ReadTimeout, "redis.read-timeout", o.ReadTimeout, "Redis read timeout")
	fs.DurationVar(&o.WriteTimeout, "redis.write-timeout", o.WriteTimeout, "Redis write timeout")
	fs.DurationVar(&o.PoolTimeout, "redis.pool-timeout", o.PoolTimeout, "Redis pool timeout")
}
