package config

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/spf13/viper"
)

var (
	globalConfig Config
	once         sync.Once
)

// Config 扁平化配置结构体，两个服务共用
type Config struct {
	// 服务器配置
	ServerHost         string        `mapstructure:"server_host"`
	ServerPort         int           `mapstructure:"server_port"`
	ServerDomain       string        `mapstructure:"server_domain"`
	ServerReadTimeout  time.Duration `mapstructure:"server_read_timeout"`
	ServerWriteTimeout time.Duration `mapstructure:"server_write_timeout"`
	ServerIdleTimeout  time.Duration `mapstructure:"server_idle_timeout"`

	// 数据库配置
	DBType            string `mapstructure:"db_type"`
	DBHost            string `mapstructure:"db_host"`
	DBPort            int    `mapstructure:"db_port"`
	DBUsername        string `mapstructure:"db_username"`
	DBPassword        string `mapstructure:"db_password"`
	DBName            string `mapstructure:"db_name"`
	DBFilePath        string `mapstructure:"db_file_path"`
	DBMaxOpenConns    int    `mapstructure:"db_max_open_conns"`
	DBMaxIdleConns    int    `mapstructure:"db_max_idle_conns"`
	DBConnMaxLifetime int    `mapstructure:"db_conn_max_lifetime"`

	// 令牌配置：认证服务持有私钥，资源服务只持有公钥
	TokenPrivateKeyPath string        `mapstructure:"token_private_key_path"`
	TokenPublicKeyPath  string        `mapstructure:"token_public_key_path"`
	TokenLifetime       time.Duration `mapstructure:"token_lifetime"`

	// 远程图片存储配置
	RemoteStoreType     string                 `mapstructure:"remote_store_type"`
	RemoteHTTPEndpoint  string                 `mapstructure:"remote_http_endpoint"`
	RemoteHTTPToken     string                 `mapstructure:"remote_http_token"`
	RemoteHTTPTimeout   time.Duration          `mapstructure:"remote_http_timeout"`
	RemoteStoreOptions  map[string]interface{} `mapstructure:"remote_store_options"`
	RemotePublicBaseURL string                 `mapstructure:"remote_public_base_url"`

	// 缓存配置
	CacheType          string `mapstructure:"cache_type"`
	CacheMaxSizeMB     int64  `mapstructure:"cache_max_size_mb"`
	CacheTTL           int    `mapstructure:"cache_ttl"`
	CacheRedisAddr     string `mapstructure:"cache_redis_addr"`
	CacheRedisPassword string `mapstructure:"cache_redis_password"`
	CacheRedisDB       int    `mapstructure:"cache_redis_db"`

	// 限流配置
	RateLimitAuthRPS   float64 `mapstructure:"rate_limit_auth_rps"`
	RateLimitAuthBurst int     `mapstructure:"rate_limit_auth_burst"`
}

// InitConfig Initialize configuration
func InitConfig() {
	once.Do(func() {
		loadConfig()
	})
}

func Get() *Config {
	return &globalConfig
}

// loadConfig Core configuration loading
func loadConfig() {
	setDefaults()

	// --config 指定的配置文件优先，否则回退到 .env
	if configFile := viper.GetString("config_file_path"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigFile(".env")
		viper.SetConfigType("env")
	}

	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "Info: config file not found, using defaults and environment variables")
	} else {
		fmt.Fprintf(os.Stderr, "Info: Loaded configuration from %s\n", viper.ConfigFileUsed())
	}

	viper.AutomaticEnv()
	for _, key := range viper.AllKeys() {
		viper.BindEnv(key)
	}

	if err := viper.Unmarshal(&globalConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: Unable to unmarshal config, %v\n", err)
		os.Exit(1)
	}
}

// setDefaults 设置默认值
func setDefaults() {
	// 服务器配置默认值
	viper.SetDefault("server_host", "127.0.0.1")
	viper.SetDefault("server_port", 8080)
	viper.SetDefault("server_domain", "")
	viper.SetDefault("server_read_timeout", "15s")
	viper.SetDefault("server_write_timeout", "30s")
	viper.SetDefault("server_idle_timeout", "120s")

	// 数据库配置默认值
	viper.SetDefault("db_type", "sqlite")
	viper.SetDefault("db_host", "localhost")
	viper.SetDefault("db_port", 5432)
	viper.SetDefault("db_username", "postgres")
	viper.SetDefault("db_password", "")
	viper.SetDefault("db_name", "picture-vault")
	viper.SetDefault("db_file_path", "")
	viper.SetDefault("db_max_open_conns", 100)
	viper.SetDefault("db_max_idle_conns", 25)
	viper.SetDefault("db_conn_max_lifetime", 3600)

	// 令牌配置默认值
	viper.SetDefault("token_private_key_path", "")
	viper.SetDefault("token_public_key_path", "")
	viper.SetDefault("token_lifetime", "30m")

	// 远程存储配置默认值
	viper.SetDefault("remote_store_type", "httpapi")
	viper.SetDefault("remote_http_endpoint", "")
	viper.SetDefault("remote_http_token", "")
	viper.SetDefault("remote_http_timeout", "30s")
	viper.SetDefault("remote_public_base_url", "")

	// 缓存配置默认值
	viper.SetDefault("cache_type", "memory")
	viper.SetDefault("cache_max_size_mb", 64)
	viper.SetDefault("cache_ttl", 3600)
	viper.SetDefault("cache_redis_addr", "localhost:6379")
	viper.SetDefault("cache_redis_password", "")
	viper.SetDefault("cache_redis_db", 0)

	// 限流配置默认值
	viper.SetDefault("rate_limit_auth_rps", 0.5)
	viper.SetDefault("rate_limit_auth_burst", 5)
}

// Addr 返回监听地址，格式为 "host:port"
func (c *Config) Addr() string {
	host := c.ServerHost
	if host == "" {
		host = "0.0.0.0"
	}
	port := c.ServerPort
	if port == 0 {
		port = 8080
	}
	return fmt.Sprintf("%s:%d", host, port)
}

// BaseURL 返回基础 URL，用于生成 Location 等外部引用
func (c *Config) BaseURL() string {
	if c.ServerDomain != "" {
		return c.ServerDomain
	}
	host := c.ServerHost
	if host == "0.0.0.0" || host == "" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s:%d", host, c.ServerPort)
}
