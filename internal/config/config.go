package config

import (
	"strings"
	"time"

	"github.com/blues/aidlink/internal/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	API      APIConfig      `mapstructure:"api"`
	Ledger   LedgerConfig   `mapstructure:"ledger"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Session  SessionConfig  `mapstructure:"session"`
	Notifier NotifierConfig `mapstructure:"notifier"`
	Chain    ChainConfig    `mapstructure:"chain"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// DatabaseConfig 数据存储配置
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"` // sqlite 或 postgres
	DSN      string `mapstructure:"dsn"`    // sqlite 使用，默认内存库
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	Debug    bool   `mapstructure:"debug"` // 打开 gorm SQL 日志
}

// APIConfig 模拟接口延迟与失败
type APIConfig struct {
	ReadDelay   time.Duration `mapstructure:"read_delay"`
	WriteDelay  time.Duration `mapstructure:"write_delay"`
	FailureRate float64       `mapstructure:"failure_rate"` // 0~1
}

// LedgerConfig 记账规则
type LedgerConfig struct {
	StrictFunding bool `mapstructure:"strict_funding"` // 累计金额达到目标才标记为已资助
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	Issuer    string `mapstructure:"issuer"`
}

// SessionConfig 本地会话存储
type SessionConfig struct {
	Path     string `mapstructure:"path"`
	InMemory bool   `mapstructure:"in_memory"`
}

// NotifierConfig 推送配置
type NotifierConfig struct {
	TransactionInterval time.Duration `mapstructure:"transaction_interval"`
	EventInterval       time.Duration `mapstructure:"event_interval"`
	PoolSize            int           `mapstructure:"pool_size"`
}

// ChainConfig 链上事件来源配置
type ChainConfig struct {
	Mode            string `mapstructure:"mode"` // mock 或 rpc
	RpcUrl          string `mapstructure:"rpc_url"`
	ContractAddress string `mapstructure:"contract_address"`
	StartBlock      int64  `mapstructure:"start_block"`
	BatchSize       int64  `mapstructure:"batch_size"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // 日志级别: debug, info, warn, error, fatal
	Output string `mapstructure:"output"` // 输出目标: stdout, file
	File   string `mapstructure:"file"`   // 日志文件路径（当output为file时使用）
}

// GetLevel 实现 logger.LogConfig 接口
func (l LogConfig) GetLevel() string {
	return l.Level
}

// GetOutput 实现 logger.LogConfig 接口
func (l LogConfig) GetOutput() string {
	return l.Output
}

// GetFile 实现 logger.LogConfig 接口
func (l LogConfig) GetFile() string {
	return l.File
}

// SetDefaults 设置默认值
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", ":memory:")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "aidlink")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.debug", false)
	v.SetDefault("api.read_delay", time.Second)
	v.SetDefault("api.write_delay", 1500*time.Millisecond)
	v.SetDefault("api.failure_rate", 0.0)
	v.SetDefault("ledger.strict_funding", false)
	v.SetDefault("auth.jwt_secret", "aidlink-demo-secret")
	v.SetDefault("auth.issuer", "aidlink")
	v.SetDefault("session.path", "data/session")
	v.SetDefault("session.in_memory", false)
	v.SetDefault("notifier.transaction_interval", 15*time.Second)
	v.SetDefault("notifier.event_interval", 30*time.Second)
	v.SetDefault("notifier.pool_size", 16)
	v.SetDefault("chain.mode", "mock")
	v.SetDefault("chain.rpc_url", "")
	v.SetDefault("chain.contract_address", "0x123456789abcdef123456789abcdef123456789a")
	v.SetDefault("chain.start_block", 0)
	v.SetDefault("chain.batch_size", 500)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.file", "logs/app.log")
}

// Load 加载配置，configFile 为空时按默认路径查找 config.yaml
func Load(configFile string) *Config {
	// .env 文件不存在时忽略
	_ = godotenv.Load(".env")

	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/aidlink")
	}

	SetDefaults(v)

	// 自动读取环境变量，例如 AIDLINK_SERVER_PORT
	v.SetEnvPrefix("aidlink")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		logger.Warn("Could not read config file, using defaults: %v", err)
	}

	config, err := Decode(v)
	if err != nil {
		logger.Fatal("Unable to decode config into struct: %v", err)
	}

	return config
}

// Decode 将 viper 中的配置解析为结构体
func Decode(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	return &config, nil
}
