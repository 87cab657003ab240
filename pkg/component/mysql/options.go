package mysql

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
)

// redactedPassword 序列化时替换真实密码。
const redactedPassword = "[REDACTED]"

// Options MySQL 连接配置。
type Options struct {
	// Host 服务器地址。
	Host string `json:"host" mapstructure:"host"`

	// Port 服务器端口。
	Port int `json:"port" mapstructure:"port"`

	// Username 登录用户名。
	Username string `json:"username" mapstructure:"username"`

	// Password 登录密码, 不参与 JSON 序列化。
	Password string `json:"-" mapstructure:"password"`

	// Database 数据库名。
	Database string `json:"database" mapstructure:"database"`

	// MaxIdleConnections 连接池最大空闲连接数。
	MaxIdleConnections int `json:"max-idle-connections" mapstructure:"max-idle-connections"`

	// MaxOpenConnections 连接池最大打开连接数。
	MaxOpenConnections int `json:"max-open-connections" mapstructure:"max-open-connections"`

	// MaxConnectionLifeTime 单个连接的最长生命周期。
	MaxConnectionLifeTime time.Duration `json:"max-connection-life-time" mapstructure:"max-connection-life-time"`

	// MaxIdleTime 空闲连接回收时间。
	MaxIdleTime time.Duration `json:"max-idle-time" mapstructure:"max-idle-time"`

	// LogLevel GORM 日志级别 (1=Silent 2=Error 3=Warn 4=Info)。
	LogLevel int `json:"log-level" mapstructure:"log-level"`
}

// NewOptions creates a new Options object with default values.
func NewOptions() *Options {
	return &Options{
		Host:                  "127.0.0.1",
		Port:                  3306,
		Username:              "root",
		MaxIdleConnections:    20,
		MaxOpenConnections:    200,
		MaxConnectionLifeTime: time.Hour,
		MaxIdleTime:           10 * time.Minute,
		LogLevel:              1,
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
	return fmt.Sprintf("MySQL{host=%s, port=%d, user=%s, password=%s, database=%s}",
		o.Host, o.Port, o.Username, password, o.Database)
}

// Complete completes the options with defaults.
func (o *Options) Complete() error {
	return nil
}

// Validate checks if the options are valid.
// 密码优先取 MYSQL_PASSWORD 环境变量, CLI 传密码会打印警告。
func (o *Options) Validate() error {
	if o.Password == "" {
		o.Password = os.Getenv("MYSQL_PASSWORD")
	} else if os.Getenv("MYSQL_PASSWORD") == "" {
		fmt.Fprintln(os.Stderr, "WARNING: Passing MySQL password via CLI is insecure. Use MYSQL_PASSWORD environment variable instead.")
	}
	return nil
}

// AddFlags adds flags for MySQL options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet, namePrefix string) {
	fs.StringVar(&o.Host, namePrefix+"host", o.Host, "MySQL host")
	fs.IntVar(&o.Port, namePrefix+"port", o.Port, "MySQL port")
	fs.StringVar(&o.Username, namePrefix+"username", o.Username, "MySQL username")
	fs.StringVar(&o.Password, namePrefix+"password", o.Password, "MySQL password (prefer the MYSQL_PASSWORD env var)")
	fs.StringVar(&o.Database, namePrefix+"database", o.Database, "MySQL database")
	fs.IntVar(&o.MaxIdleConnections, namePrefix+"max-idle-connections", o.MaxIdleConnections, "MySQL max idle connections")
	fs.IntVar(&o.MaxOpenConnections, namePrefix+"max-open-connections", o.MaxOpenConnections, "MySQL max open connections")
	fs.DurationVar(&o.MaxConnectionLifeTime, namePrefix+"max-connection-life-time", o.MaxConnectionLifeTime, "MySQL max connection life time")
	fs.DurationVar(&o.MaxIdleTime, namePrefix+"max-idle-time", o.MaxIdleTime, "MySQL max idle time")
	fs.IntVar(&o.LogLevel, namePrefix+"log-level", o.LogLevel, "MySQL log level")
}
